package repository

import (
	"github.com/shayanv/formboard/internal/model"
	"gorm.io/gorm"
)

type ResponseRepository interface {
	// FindAllByFormID loads a form's responses with their answers. Answers
	// are ordered by id so a duplicate (response, question) pair always
	// resolves to the same answer during tabulation.
	FindAllByFormID(formID uint, newestFirst bool) ([]model.Response, error)
	CountByFormID(formID uint) (int64, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) FindAllByFormID(formID uint, newestFirst bool) ([]model.Response, error) {
	order := "submitted_at ASC, id ASC"
	if newestFirst {
		order = "submitted_at DESC, id DESC"
	}

	var responses []model.Response
	err := r.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id ASC")
		}).
		Preload("Answers.Choice").
		Where("form_id = ?", formID).
		Order(order).
		Find(&responses).Error
	return responses, err
}

func (r *responseRepository) CountByFormID(formID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Response{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}
