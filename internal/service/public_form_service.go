package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/shayanv/formboard/internal/apperror"
	"github.com/shayanv/formboard/internal/dto"
	"github.com/shayanv/formboard/internal/repository"
	"gorm.io/gorm"
)

// PublicFormService serves the respondent-facing side: fetching a published
// form by its slug.
type PublicFormService interface {
	GetFormBySlug(slug string) (*dto.FormDTO, error)
}

type publicFormService struct {
	formRepo repository.FormRepository
}

func NewPublicFormService(formRepo repository.FormRepository) PublicFormService {
	return &publicFormService{formRepo: formRepo}
}

func (s *publicFormService) GetFormBySlug(slug string) (*dto.FormDTO, error) {
	form, err := s.formRepo.FindBySlugPublished(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("form %q: %w", slug, apperror.ErrNotFound)
		}
		log.Error().Err(err).Str("slug", slug).Msg("GetFormBySlug: failed to fetch form")
		return nil, fmt.Errorf("error fetching form %q: %w", slug, err)
	}

	var resp dto.FormDTO
	if err := copier.Copy(&resp, form); err != nil {
		return nil, fmt.Errorf("error preparing form response: %w", err)
	}
	return &resp, nil
}
