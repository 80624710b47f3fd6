package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/shayanv/formboard/internal/apperror"
	"github.com/shayanv/formboard/internal/dto"
	"github.com/shayanv/formboard/internal/model"
	"github.com/shayanv/formboard/internal/repository"
	"gorm.io/gorm"
)

// TabulationService reassembles a form's stored answers into a dense table:
// one column per question in display order, one row per response. The table
// is what both the admin review view and the exports consume.
type TabulationService interface {
	Tabulate(formID uint, newestFirst bool) (*dto.ResponseTableDTO, error)
}

type tabulationService struct {
	formRepo     repository.FormRepository
	responseRepo repository.ResponseRepository
}

func NewTabulationService(formRepo repository.FormRepository, responseRepo repository.ResponseRepository) TabulationService {
	return &tabulationService{formRepo: formRepo, responseRepo: responseRepo}
}

func (s *tabulationService) Tabulate(formID uint, newestFirst bool) (*dto.ResponseTableDTO, error) {
	form, err := s.formRepo.FindByIDWithQuestions(formID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("form %d: %w", formID, apperror.ErrNotFound)
		}
		log.Error().Err(err).Uint("formID", formID).Msg("Tabulate: failed to fetch form")
		return nil, fmt.Errorf("error fetching form %d: %w", formID, err)
	}

	responses, err := s.responseRepo.FindAllByFormID(formID, newestFirst)
	if err != nil {
		log.Error().Err(err).Uint("formID", formID).Msg("Tabulate: failed to fetch responses")
		return nil, fmt.Errorf("error fetching responses for form %d: %w", formID, err)
	}

	table := &dto.ResponseTableDTO{
		FormID:    form.ID,
		FormTitle: form.Title,
		FormSlug:  form.Slug,
		Rows:      make([]dto.ResponseRowDTO, 0, len(responses)),
	}
	if err := copier.Copy(&table.Columns, form.Questions); err != nil {
		return nil, fmt.Errorf("error preparing table columns: %w", err)
	}

	for _, response := range responses {
		// First answer per question wins; answers arrive ordered by id, so a
		// duplicate pair resolves deterministically.
		firstByQuestion := make(map[uint]*model.Answer, len(response.Answers))
		for i := range response.Answers {
			answer := &response.Answers[i]
			if _, seen := firstByQuestion[answer.QuestionID]; !seen {
				firstByQuestion[answer.QuestionID] = answer
			}
		}

		cells := make([]string, len(form.Questions))
		for i, question := range form.Questions {
			cells[i] = cellValue(firstByQuestion[question.ID])
		}

		table.Rows = append(table.Rows, dto.ResponseRowDTO{
			ResponseID:  response.ID,
			SubmittedAt: response.SubmittedAt,
			Cells:       cells,
		})
	}
	return table, nil
}

// cellValue renders one cell: the referenced choice's text when the weak
// reference is still live, otherwise the answer's stored text, otherwise "".
// Responses that predate a question simply have no answer for it, which is an
// empty cell and not an error.
func cellValue(answer *model.Answer) string {
	if answer == nil {
		return ""
	}
	if answer.ChoiceID != nil && answer.Choice != nil {
		return answer.Choice.Text
	}
	return answer.Text
}
