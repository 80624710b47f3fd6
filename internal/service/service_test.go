package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shayanv/formboard/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test. TranslateError is
// on, as in production, so unique violations surface as gorm.ErrDuplicatedKey
// and the slug retry path is exercised for real. A single connection keeps
// SQLite from tripping over concurrent writers in the concurrency tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
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
		&model.Form{},
		&model.Question{},
		&model.Choice{},
		&model.Response{},
		&model.Answer{},
	))
	return db
}

// seedFeedbackForm persists the canonical two-question form used across the
// submission and tabulation tests: a short answer "Name" and a multiple
// choice "Satisfied?" with choices Yes/No.
func seedFeedbackForm(t *testing.T, db *gorm.DB) model.Form {
	t.Helper()

	form := model.Form{
		Title:     "Feedback",
		Slug:      "feedback",
		Published: true,
		Questions: []model.Question{
			{Text: "Name", Type: model.QuestionTypeText, Order: 0},
			{
				Text:  "Satisfied?",
				Type:  model.QuestionTypeMultipleChoice,
				Order: 1,
				Choices: []model.Choice{
					{Text: "Yes"},
					{Text: "No"},
				},
			},
		},
	}
	require.NoError(t, db.Create(&form).Error)
	return form
}

// choiceByText finds a seeded choice of a question.
func choiceByText(t *testing.T, question model.Question, text string) model.Choice {
	t.Helper()
	for _, choice := range question.Choices {
		if choice.Text == text {
			return choice
		}
	}
	t.Fatalf("question %q has no choice %q", question.Text, text)
	return model.Choice{}
}
