package repository

import (
	"github.com/shayanv/formboard/internal/model"
	"gorm.io/gorm"
)

// FormWithCounts decorates a form with the aggregate counts shown on the
// admin dashboard.
type FormWithCounts struct {
	model.Form
	QuestionCount int
	ResponseCount int
}

type FormRepository interface {
	FindByID(id uint) (*model.Form, error)
	FindByIDWithQuestions(id uint) (*model.Form, error)
	FindBySlugPublished(slug string) (*model.Form, error)
	FindAllWithCounts() ([]FormWithCounts, error)
	FindByIDWithCounts(id uint) (*FormWithCounts, error)
	Save(form *model.Form) error
	Delete(id uint) error
}

type formRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) FindByID(id uint) (*model.Form, error) {
	var form model.Form
	if err := r.db.First(&form, id).Error; err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindByIDWithQuestions(id uint) (*model.Form, error) {
	var form model.Form
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC, questions.id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.id ASC")
		}).
		First(&form, id).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// FindBySlugPublished resolves the slug a respondent follows. Only published,
// non-archived forms are reachable this way; everything else reads as not
// found.
func (r *formRepository) FindBySlugPublished(slug string) (*model.Form, error) {
	var form model.Form
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.display_order ASC, questions.id ASC")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.id ASC")
		}).
		Where("slug = ? AND published = ? AND archived = ?", slug, true, false).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepository) FindAllWithCounts() ([]FormWithCounts, error) {
	var results []FormWithCounts
	err := r.db.Model(&model.Form{}).
		Select("forms.*, " +
			"(SELECT COUNT(*) FROM questions WHERE questions.form_id = forms.id) as question_count, " +
			"(SELECT COUNT(*) FROM responses WHERE responses.form_id = forms.id) as response_count").
		Order("forms.created_at DESC, forms.id DESC").
		Scan(&results).Error
	return results, err
}

func (r *formRepository) FindByIDWithCounts(id uint) (*FormWithCounts, error) {
	var result FormWithCounts
	err := r.db.Model(&model.Form{}).
		Select("forms.*, "+
			"(SELECT COUNT(*) FROM questions WHERE questions.form_id = forms.id) as question_count, "+
			"(SELECT COUNT(*) FROM responses WHERE responses.form_id = forms.id) as response_count").
		Where("forms.id = ?", id).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *formRepository) Save(form *model.Form) error {
	return r.db.Save(form).Error
}

func (r *formRepository) Delete(id uint) error {
	return r.db.Delete(&model.Form{}, id).Error
}
