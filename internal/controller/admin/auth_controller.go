package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/shayanv/formboard/config"
	"github.com/shayanv/formboard/internal/dto"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	cfg *config.Config
}

func NewAuthController(cfg *config.Config) *AuthController {
	return &AuthController{cfg: cfg}
}

// Login godoc
// @Summary (Admin) Authenticate as the administrator
// @Description Exchanges the administrator credentials for a bearer token used on all /admin routes.
// @Tags Admin - Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequestDTO true "Administrator credentials"
// @Success 200 {object} dto.LoginResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if req.Username != c.cfg.Admin.Username ||
		bcrypt.CompareHashAndPassword([]byte(c.cfg.Admin.PasswordHash), []byte(req.Password)) != nil {
		log.Warn().Str("username", req.Username).Msg("Login: invalid credentials")
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid username or password"})
		return
	}

	expiresAt := time.Now().Add(c.cfg.Auth.TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signed, err := token.SignedString([]byte(c.cfg.Auth.JWTSecret))
	if err != nil {
		log.Error().Err(err).Msg("Login: failed to sign token")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to issue token"})
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponseDTO{Token: signed, ExpiresAt: expiresAt})
}
