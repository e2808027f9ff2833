package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"micrositebuilder/internal/domain"
)

type templateService struct {
	templateRepo   domain.TemplateRepository
	contextTimeout time.Duration
}

// NewTemplateService creates the catalog-facing TemplateService.
func NewTemplateService(templateRepo domain.TemplateRepository, timeout time.Duration) domain.TemplateService {
	return &templateService{
		templateRepo:   templateRepo,
		contextTimeout: timeout,
	}
}

func (s *templateService) ListTemplates(ctx context.Context, eventType domain.EventType, params domain.PaginationParams) ([]*domain.Template, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if eventType != "" && !eventType.Valid() {
		return nil, 0, domain.ErrInvalidInput
	}
	tpls, total, err := s.templateRepo.List(ctx, eventType, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}
	if tpls == nil {
		tpls = []*domain.Template{}
	}
	return tpls, total, nil
}

func (s *templateService) GetTemplateBySlug(ctx context.Context, slug string) (*domain.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tpl, err := s.templateRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get template by slug: %w", err)
	}
	return tpl, nil
}

func (s *templateService) GetTemplateByID(ctx context.Context, id string) (*domain.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get template by id: %w", err)
	}
	return tpl, nil
}
