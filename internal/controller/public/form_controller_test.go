package public

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
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

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
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
	ctrl := NewFormController(
		service.NewPublicFormService(formRepo),
		service.NewSubmissionService(formRepo, db),
	)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/form/:slug", ctrl.GetForm)
	r.POST("/form/:slug", ctrl.SubmitForm)
	return r, db
}

func seedPublishedForm(t *testing.T, db *gorm.DB) model.Form {
	t.Helper()
	form := model.Form{
		Title: "Feedback", Slug: "feedback", Published: true,
		Questions: []model.Question{
			{Text: "Name", Type: model.QuestionTypeText, Order: 0},
		},
	}
	require.NoError(t, db.Create(&form).Error)
	return form
}

func TestGetFormRendersPublishedForm(t *testing.T) {
	router, db := newTestRouter(t)
	seedPublishedForm(t, db)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form/feedback", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var form dto.FormDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))
	assert.Equal(t, "Feedback", form.Title)
	require.Len(t, form.Questions, 1)
	assert.Equal(t, "Name", form.Questions[0].Text)
}

func TestGetFormUnknownSlugIs404(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFormUnpublishedIs404(t *testing.T) {
	router, db := newTestRouter(t)
	require.NoError(t, db.Create(&model.Form{Title: "Draft", Slug: "draft"}).Error)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form/draft", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitFormStoresResponse(t *testing.T) {
	router, db := newTestRouter(t)
	form := seedPublishedForm(t, db)

	body := fmt.Sprintf(`{"answers":{"question_%d":"Ada"}}`, form.Questions[0].ID)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/form/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var receipt dto.SubmissionReceiptDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &receipt))
	assert.Equal(t, "Feedback", receipt.FormTitle)

	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSubmitFormMalformedBodyIs400(t *testing.T) {
	router, db := newTestRouter(t)
	seedPublishedForm(t, db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/form/feedback", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&model.Response{}).Count(&count).Error)
	assert.Zero(t, count)
}
