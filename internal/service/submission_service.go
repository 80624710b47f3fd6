package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shayanv/formboard/internal/apperror"
	"github.com/shayanv/formboard/internal/dto"
	"github.com/shayanv/formboard/internal/model"
	"github.com/shayanv/formboard/internal/repository"
	"gorm.io/gorm"
)

// SubmissionService validates a respondent's raw answer set against a form's
// question list and persists it as one Response with one Answer per question.
type SubmissionService interface {
	Submit(slug string, req dto.SubmitRequestDTO) (*dto.SubmissionReceiptDTO, error)
}

type submissionService struct {
	formRepo repository.FormRepository
	db       *gorm.DB
}

func NewSubmissionService(formRepo repository.FormRepository, db *gorm.DB) SubmissionService {
	return &submissionService{formRepo: formRepo, db: db}
}

// answerKey is the field name a respondent's value for a question arrives
// under.
func answerKey(questionID uint) string {
	return fmt.Sprintf("question_%d", questionID)
}

// Submit creates one Response for the published form behind slug. Every
// question of the form produces exactly one Answer, in the form's question
// order, so tabulation downstream always sees a full column set:
//
//   - short answer: the raw value (or "" when absent) is stored as text;
//   - multiple choice: the raw value is read as a choice id and, when it
//     identifies a choice of this very question, the answer references the
//     choice and freezes its text; a value that does not resolve is kept
//     verbatim as free text rather than dropped.
//
// The response and all answers commit in a single transaction.
func (s *submissionService) Submit(slug string, req dto.SubmitRequestDTO) (*dto.SubmissionReceiptDTO, error) {
	form, err := s.formRepo.FindBySlugPublished(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("form %q: %w", slug, apperror.ErrNotFound)
		}
		log.Error().Err(err).Str("slug", slug).Msg("Submit: failed to fetch form")
		return nil, fmt.Errorf("error fetching form %q: %w", slug, err)
	}

	response := model.Response{
		FormID:      form.ID,
		SubmittedAt: time.Now().UTC(),
	}
	for _, question := range form.Questions {
		raw, present := req.Answers[answerKey(question.ID)]
		response.Answers = append(response.Answers, buildAnswer(question, raw, present))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&response).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("formID", form.ID).Msg("Submit: failed to persist response")
		return nil, fmt.Errorf("error saving response for form %q: %w", slug, err)
	}

	log.Info().Uint("formID", form.ID).Uint("responseID", response.ID).
		Int("answers", len(response.Answers)).Msg("Submit: response stored")

	return &dto.SubmissionReceiptDTO{
		ResponseID:  response.ID,
		FormTitle:   form.Title,
		SubmittedAt: response.SubmittedAt,
	}, nil
}

func buildAnswer(question model.Question, raw string, present bool) model.Answer {
	answer := model.Answer{QuestionID: question.ID}

	if question.Type != model.QuestionTypeMultipleChoice {
		if present {
			answer.Text = raw
		}
		return answer
	}

	if !present || raw == "" {
		return answer
	}

	if choice := resolveChoice(question, raw); choice != nil {
		id := choice.ID
		answer.ChoiceID = &id
		answer.Text = choice.Text
		return answer
	}

	// The value does not denote a choice of this question. Keep it as free
	// text; respondent data is never dropped.
	answer.Text = raw
	return answer
}

// resolveChoice interprets raw as a choice id and returns the matching choice
// of this question, or nil when the value is malformed or belongs elsewhere.
func resolveChoice(question model.Question, raw string) *model.Choice {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	for i := range question.Choices {
		if question.Choices[i].ID == uint(id) {
			return &question.Choices[i]
		}
	}
	return nil
}
