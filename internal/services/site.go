package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"micrositebuilder/internal/domain"
	"micrositebuilder/internal/render"
)

// SiteService composes the final page for a published event or an owner
// preview. Declared here rather than in domain because its results are
// render-layer types.
type SiteService interface {
	// PublicSite returns the composed page for a live event. Unknown slugs
	// yield ErrNotFound.
	PublicSite(ctx context.Context, publicSlug string) (*render.Page, error)
	// Preview composes a draft for its owner before publishing.
	Preview(ctx context.Context, eventID, callerID string) (*render.Page, error)
}

type siteService struct {
	eventRepo      domain.EventRepository
	templateRepo   domain.TemplateRepository
	compositor     *render.Compositor
	contextTimeout time.Duration
}

// NewSiteService creates a SiteService over the event and template stores.
func NewSiteService(eventRepo domain.EventRepository, templateRepo domain.TemplateRepository, compositor *render.Compositor, timeout time.Duration) SiteService {
	return &siteService{
		eventRepo:      eventRepo,
		templateRepo:   templateRepo,
		compositor:     compositor,
		contextTimeout: timeout,
	}
}

func (s *siteService) PublicSite(ctx context.Context, publicSlug string) (*render.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByPublicSlug(ctx, publicSlug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	if !event.Published() {
		return nil, domain.ErrNotPublished
	}
	return s.compose(ctx, event)
}

func (s *siteService) Preview(ctx context.Context, eventID, callerID string) (*render.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}
	return s.compose(ctx, event)
}

func (s *siteService) compose(ctx context.Context, event *domain.Event) (*render.Page, error) {
	tpl, err := s.templateRepo.GetByID(ctx, event.TemplateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return s.compositor.ComposePage(tpl, event)
}
