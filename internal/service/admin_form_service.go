package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/shayanv/formboard/internal/apperror"
	"github.com/shayanv/formboard/internal/dto"
	"github.com/shayanv/formboard/internal/model"
	"github.com/shayanv/formboard/internal/repository"
	"gorm.io/gorm"
)

type AdminFormService interface {
	CreateForm(req dto.FormCreateDTO) (*dto.FormDTO, error)
	ListForms() ([]dto.FormSummaryDTO, error)
	ToggleArchive(id uint) (*dto.FormSummaryDTO, error)
	DeleteForm(id uint) error
}

type adminFormService struct {
	formRepo repository.FormRepository
	db       *gorm.DB
}

func NewAdminFormService(formRepo repository.FormRepository, db *gorm.DB) AdminFormService {
	return &adminFormService{formRepo: formRepo, db: db}
}

// CreateForm persists a form together with its questions and choices as one
// transaction. Malformed question entries (empty text or an unrecognized
// type) are skipped, not rejected; a question's Order is its index in the
// original request list, so skipped entries leave gaps but relative order is
// preserved. The form's slug is derived from the title and made unique by
// retrying the insert with an incremented suffix whenever the unique index
// reports a collision, which keeps concurrent creations of identical titles
// safe.
func (s *adminFormService) CreateForm(req dto.FormCreateDTO) (*dto.FormDTO, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("form title must not be empty: %w", apperror.ErrValidation)
	}

	questions := buildQuestions(req.Questions)
	base := slugBase(title)

	var created model.Form
	for attempt := 0; ; attempt++ {
		if attempt >= maxSlugAttempts {
			return nil, fmt.Errorf("could not allocate a unique slug for %q after %d attempts", title, maxSlugAttempts)
		}

		// A fresh model per attempt: a rolled back insert may have left ids
		// behind on the previous one.
		form := model.Form{
			Title:       title,
			Slug:        slugCandidate(base, attempt),
			Description: strings.TrimSpace(req.Description),
			Published:   true,
			Questions:   buildQuestions(req.Questions),
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&form).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Debug().Str("slug", form.Slug).Msg("CreateForm: slug taken, retrying with next suffix")
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("title", title).Msg("CreateForm: failed to persist form")
			return nil, fmt.Errorf("database error creating form: %w", err)
		}
		created = form
		break
	}

	log.Info().Uint("formID", created.ID).Str("slug", created.Slug).
		Int("questions", len(questions)).Msg("CreateForm: form created")

	reloaded, err := s.formRepo.FindByIDWithQuestions(created.ID)
	if err != nil {
		log.Error().Err(err).Uint("formID", created.ID).Msg("CreateForm: failed to reload created form")
		var fallback dto.FormDTO
		copier.Copy(&fallback, &created)
		return &fallback, nil
	}

	var resp dto.FormDTO
	if err := copier.Copy(&resp, reloaded); err != nil {
		return nil, fmt.Errorf("error preparing form response: %w", err)
	}
	return &resp, nil
}

// buildQuestions turns the request entries into question models, silently
// dropping malformed ones. Empty choice texts inside a multiple choice
// question are dropped the same way.
func buildQuestions(entries []dto.QuestionCreateDTO) []model.Question {
	var questions []model.Question
	for idx, entry := range entries {
		text := strings.TrimSpace(entry.Text)
		if text == "" || !model.ValidQuestionType(entry.Type) {
			continue
		}

		question := model.Question{
			Text:  text,
			Type:  entry.Type,
			Order: idx,
		}
		if entry.Type == model.QuestionTypeMultipleChoice {
			for _, choiceText := range entry.Choices {
				ct := strings.TrimSpace(choiceText)
				if ct == "" {
					continue
				}
				question.Choices = append(question.Choices, model.Choice{Text: ct})
			}
		}
		questions = append(questions, question)
	}
	return questions
}

func (s *adminFormService) ListForms() ([]dto.FormSummaryDTO, error) {
	formsWithCounts, err := s.formRepo.FindAllWithCounts()
	if err != nil {
		log.Error().Err(err).Msg("ListForms: failed to fetch forms")
		return nil, fmt.Errorf("error fetching forms: %w", err)
	}

	summaries := make([]dto.FormSummaryDTO, 0, len(formsWithCounts))
	for _, fwc := range formsWithCounts {
		summaries = append(summaries, formSummary(fwc))
	}
	return summaries, nil
}

func formSummary(fwc repository.FormWithCounts) dto.FormSummaryDTO {
	return dto.FormSummaryDTO{
		ID:            fwc.Form.ID,
		Title:         fwc.Form.Title,
		Slug:          fwc.Form.Slug,
		Published:     fwc.Form.Published,
		Archived:      fwc.Form.Archived,
		QuestionCount: fwc.QuestionCount,
		ResponseCount: fwc.ResponseCount,
		CreatedAt:     fwc.Form.CreatedAt,
	}
}

// ToggleArchive flips the archived flag. Archived forms stay listed on the
// dashboard but are no longer reachable by respondents. The returned summary
// carries the same aggregate counts as the dashboard listing.
func (s *adminFormService) ToggleArchive(id uint) (*dto.FormSummaryDTO, error) {
	form, err := s.formRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("form %d: %w", id, apperror.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching form %d: %w", id, err)
	}

	form.Archived = !form.Archived
	if err := s.formRepo.Save(form); err != nil {
		log.Error().Err(err).Uint("formID", id).Msg("ToggleArchive: failed to save form")
		return nil, fmt.Errorf("error updating form %d: %w", id, err)
	}

	fwc, err := s.formRepo.FindByIDWithCounts(id)
	if err != nil {
		return nil, fmt.Errorf("error fetching form %d: %w", id, err)
	}
	summary := formSummary(*fwc)
	return &summary, nil
}

// DeleteForm removes the form and, through the database cascade, its
// questions, choices, responses and answers.
func (s *adminFormService) DeleteForm(id uint) error {
	if _, err := s.formRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("form %d: %w", id, apperror.ErrNotFound)
		}
		return fmt.Errorf("error fetching form %d: %w", id, err)
	}

	if err := s.formRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("formID", id).Msg("DeleteForm: failed to delete form")
		return fmt.Errorf("error deleting form %d: %w", id, err)
	}
	log.Info().Uint("formID", id).Msg("DeleteForm: form and its responses deleted")
	return nil
}
