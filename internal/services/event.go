package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"micrositebuilder/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	templateRepo   domain.TemplateRepository
	contextTimeout time.Duration
}

// NewEventService creates the host-facing EventService.
func NewEventService(eventRepo domain.EventRepository, templateRepo domain.TemplateRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		templateRepo:   templateRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateDraft(ctx context.Context, ownerID string, eventType domain.EventType, templateID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, fmt.Errorf("event owner is required")
	}
	if !eventType.Valid() {
		return nil, domain.ErrInvalidInput
	}

	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	if tpl.EventType != eventType {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	event := &domain.Event{
		OwnerID:    ownerID,
		EventType:  eventType,
		TemplateID: tpl.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// getOwned fetches the event and enforces ownership.
func (s *eventService) getOwned(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
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
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID, callerID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.getOwned(ctx, eventID, callerID)
}

func (s *eventService) ListMyEvents(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) UpdateDetails(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwned(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		event.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Date != nil {
		event.Date = upd.Date
	}
	if upd.Venue != nil {
		event.Venue = strings.TrimSpace(*upd.Venue)
	}
	if upd.Message != nil {
		event.Message = *upd.Message
	}
	if len(upd.Details) > 0 {
		// Merge into the existing bag; callers never resend the whole map.
		if event.Details == nil {
			event.Details = make(map[string]string, len(upd.Details))
		}
		for k, v := range upd.Details {
			event.Details[k] = v
		}
	}
	if upd.RSVPEnabled != nil {
		event.RSVPEnabled = *upd.RSVPEnabled
	}
	if upd.ContributionsEnabled != nil {
		event.ContributionsEnabled = *upd.ContributionsEnabled
	}
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateCustomization(ctx context.Context, eventID, callerID string, c domain.Customization) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwned(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	event.Customization = c
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) AddGalleryImages(ctx context.Context, eventID, callerID string, urls []string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwned(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	if len(event.GalleryImages)+len(urls) > domain.MaxGalleryImages {
		return nil, domain.ErrGalleryFull
	}

	// Append to the freshly read gallery and write the whole array back.
	// Sending only the new entries would let a partial write clobber a
	// concurrent editor's uploads.
	event.GalleryImages = append(event.GalleryImages, urls...)
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update gallery: %w", err)
	}
	return event, nil
}

func (s *eventService) RemoveGalleryImage(ctx context.Context, eventID, callerID string, url string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwned(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	kept := event.GalleryImages[:0]
	for _, u := range event.GalleryImages {
		if u != url {
			kept = append(kept, u)
		}
	}
	event.GalleryImages = kept
	if event.CoverImageURL == url {
		event.CoverImageURL = ""
	}
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update gallery: %w", err)
	}
	return event, nil
}

func (s *eventService) SetCoverImage(ctx context.Context, eventID, callerID string, url string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.getOwned(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	found := false
	for _, u := range event.GalleryImages {
		if u == url {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrInvalidInput
	}

	event.CoverImageURL = url
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.getOwned(ctx, eventID, callerID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
