package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shayanv/formboard/config"
	"github.com/shayanv/formboard/database"
	_ "github.com/shayanv/formboard/docs" // Swagger docs - auto-generated
	adminctrl "github.com/shayanv/formboard/internal/controller/admin"
	publicctrl "github.com/shayanv/formboard/internal/controller/public"
	"github.com/shayanv/formboard/internal/logger"
	"github.com/shayanv/formboard/internal/middleware"
	"github.com/shayanv/formboard/internal/model"
	"github.com/shayanv/formboard/internal/repository"
	"github.com/shayanv/formboard/internal/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Formboard API
// @version 1.0
// @description Author forms, collect submissions by slug, review and export the responses.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewFormRepository,
			repository.NewResponseRepository,
		),

		fx.Provide(
			service.NewAdminFormService,
			service.NewPublicFormService,
			service.NewSubmissionService,
			service.NewTabulationService,
			service.NewExportService,
		),

		fx.Provide(
			adminctrl.NewAuthController,
			adminctrl.NewFormController,
			publicctrl.NewFormController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures the route tree and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *adminctrl.AuthController,
	adminFormCtrl *adminctrl.FormController,
	publicFormCtrl *publicctrl.FormController,
) {
	// Public respondent routes
	router.GET("/form/:slug", publicFormCtrl.GetForm)
	router.POST("/form/:slug", publicFormCtrl.SubmitForm)

	// Admin routes; everything except login sits behind the JWT gate
	adminGroup := router.Group("/admin")
	adminGroup.POST("/login", authCtrl.Login)

	authed := adminGroup.Group("")
	authed.Use(middleware.AdminAuth(cfg))
	{
		authed.POST("/forms", adminFormCtrl.CreateForm)
		authed.GET("/forms", adminFormCtrl.ListForms)
		authed.GET("/forms/:id/responses", adminFormCtrl.GetResponses)
		authed.GET("/forms/:id/export/csv", adminFormCtrl.ExportCSV)
		authed.GET("/forms/:id/export/xlsx", adminFormCtrl.ExportXLSX)
		authed.POST("/forms/:id/archive", adminFormCtrl.ToggleArchive)
		authed.DELETE("/forms/:id", adminFormCtrl.DeleteForm)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Formboard API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Form{},
		&model.Question{},
		&model.Choice{},
		&model.Response{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed")
	return nil
}
