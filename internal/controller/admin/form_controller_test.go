package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shayanv/formboard/internal/apperror"
	"github.com/shayanv/formboard/internal/dto"
	"github.com/shayanv/formboard/internal/model"
	"github.com/shayanv/formboard/internal/repository"
	"github.com/shayanv/formboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newAdminRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	return newAdminRouterWith(t, service.NewExportService())
}

func newAdminRouterWith(t *testing.T, exportService service.ExportService) (*gin.Engine, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(
		&model.Form{}, &model.Question{}, &model.Choice{}, &model.Response{}, &model.Answer{},
	))

	formRepo := repository.NewFormRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	ctrl := NewFormController(
		service.NewAdminFormService(formRepo, db),
		service.NewTabulationService(formRepo, responseRepo),
		exportService,
	)

	// the JWT gate is exercised by the middleware tests; here the handlers
	// are mounted bare
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin/forms", ctrl.CreateForm)
	r.GET("/admin/forms", ctrl.ListForms)
	r.GET("/admin/forms/:id/responses", ctrl.GetResponses)
	r.GET("/admin/forms/:id/export/csv", ctrl.ExportCSV)
	r.GET("/admin/forms/:id/export/xlsx", ctrl.ExportXLSX)
	r.POST("/admin/forms/:id/archive", ctrl.ToggleArchive)
	r.DELETE("/admin/forms/:id", ctrl.DeleteForm)
	return r, db
}

func seedFormWithResponse(t *testing.T, db *gorm.DB) model.Form {
	t.Helper()
	form := model.Form{
		Title: "Feedback", Slug: "feedback", Published: true,
		Questions: []model.Question{
			{Text: "Name", Type: model.QuestionTypeText, Order: 0},
		},
	}
	require.NoError(t, db.Create(&form).Error)
	require.NoError(t, db.Create(&model.Response{
		FormID:      form.ID,
		SubmittedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Answers:     []model.Answer{{QuestionID: form.Questions[0].ID, Text: "Ada"}},
	}).Error)
	return form
}

func TestCreateFormEndpoint(t *testing.T) {
	router, _ := newAdminRouter(t)

	body := `{"title":"New Form","questions":[{"text":"Q1","type":"text"}]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/forms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var form dto.FormDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))
	assert.Equal(t, "new-form", form.Slug)
	assert.Len(t, form.Questions, 1)
}

func TestCreateFormMissingTitleIs400(t *testing.T) {
	router, _ := newAdminRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/forms", strings.NewReader(`{"questions":[]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetResponsesTabulates(t *testing.T) {
	router, db := newAdminRouter(t)
	form := seedFormWithResponse(t, db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/forms/%d/responses", form.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var table dto.ResponseTableDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Ada"}, table.Rows[0].Cells)
}

func TestGetResponsesUnknownFormIs404(t *testing.T) {
	router, _ := newAdminRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/forms/999/responses", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCSVAttachment(t *testing.T) {
	router, db := newAdminRouter(t)
	form := seedFormWithResponse(t, db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/forms/%d/export/csv", form.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, `attachment; filename="feedback.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "Submitted At,Name\n2024-01-01T00:00:00Z,Ada\n", w.Body.String())
}

func TestExportXLSXAttachment(t *testing.T) {
	router, db := newAdminRouter(t)
	form := seedFormWithResponse(t, db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/forms/%d/export/xlsx", form.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, `attachment; filename="feedback.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Body.Bytes())
}

// brokenExportService stands in for the spreadsheet encoder failing at
// runtime; CSV keeps working.
type brokenExportService struct {
	service.ExportService
}

func (brokenExportService) WriteXLSX(io.Writer, *dto.ResponseTableDTO) error {
	return fmt.Errorf("%w: spreadsheet encoding failed", apperror.ErrCapabilityUnavailable)
}

func TestExportXLSXUnavailableIs503(t *testing.T) {
	router, db := newAdminRouterWith(t, brokenExportService{service.NewExportService()})
	form := seedFormWithResponse(t, db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/admin/forms/%d/export/xlsx", form.ID), nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Spreadsheet export is unavailable", resp.Message)
}

func TestArchiveAndDeleteEndpoints(t *testing.T) {
	router, db := newAdminRouter(t)
	form := seedFormWithResponse(t, db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, fmt.Sprintf("/admin/forms/%d/archive", form.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var summary dto.FormSummaryDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.True(t, summary.Archived)
	assert.Equal(t, 1, summary.QuestionCount)
	assert.Equal(t, 1, summary.ResponseCount)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/admin/forms/%d", form.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.Form{}).Count(&count).Error)
	assert.Zero(t, count)
}
