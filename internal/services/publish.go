package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"micrositebuilder/internal/domain"
)

// DeriveStep re-derives the host's position in the publishing workflow from
// the persisted event. The authoritative signal for "live" is the presence
// of a public slug, never a client-local counter, so resuming after a page
// reload always lands on the right step.
func DeriveStep(event *domain.Event) domain.PublishStep {
	switch {
	case event == nil:
		return domain.StepChooseType
	case event.Published():
		return domain.StepLive
	case event.Name != "" && event.Date != nil:
		return domain.StepPhotos
	default:
		return domain.StepDetails
	}
}

type publishService struct {
	eventService   domain.EventService
	templateRepo   domain.TemplateRepository
	userRepo       domain.UserRepository
	access         domain.AccessService
	purchases      domain.PurchaseService
	uploader       domain.MediaUploader
	emailService   domain.EmailService
	eventRepo      domain.EventRepository
	logger         *slog.Logger
	siteBaseURL    string
	contextTimeout time.Duration
}

// NewPublishService creates the PublishService driving the multi-step
// workflow over the event, access, purchase, and media collaborators.
func NewPublishService(
	eventService domain.EventService,
	eventRepo domain.EventRepository,
	templateRepo domain.TemplateRepository,
	userRepo domain.UserRepository,
	access domain.AccessService,
	purchases domain.PurchaseService,
	uploader domain.MediaUploader,
	emailService domain.EmailService,
	logger *slog.Logger,
	siteBaseURL string,
	timeout time.Duration,
) domain.PublishService {
	return &publishService{
		eventService:   eventService,
		eventRepo:      eventRepo,
		templateRepo:   templateRepo,
		userRepo:       userRepo,
		access:         access,
		purchases:      purchases,
		uploader:       uploader,
		emailService:   emailService,
		logger:         logger,
		siteBaseURL:    siteBaseURL,
		contextTimeout: timeout,
	}
}

func (s *publishService) CurrentStep(ctx context.Context, eventID, callerID string) (domain.PublishStep, error) {
	if eventID == "" {
		return domain.StepChooseType, nil
	}
	event, err := s.eventService.GetEvent(ctx, eventID, callerID)
	if err != nil {
		return "", err
	}
	return DeriveStep(event), nil
}

func (s *publishService) SaveDetails(ctx context.Context, eventID, callerID string, upd domain.EventUpdate) (*domain.Event, domain.PublishStep, error) {
	event, err := s.eventService.UpdateDetails(ctx, eventID, callerID, upd)
	if err != nil {
		// Persistence failure keeps the workflow at the details step; the
		// handler preserves the submitted form data for retry.
		return nil, domain.StepDetails, err
	}
	if event.Name == "" || event.Date == nil {
		return event, domain.StepDetails, fmt.Errorf("%w: name and date are required to continue", domain.ErrInvalidInput)
	}
	return event, domain.StepPhotos, nil
}

type uploadOutcome struct {
	filename string
	url      string
	err      error
}

func (s *publishService) SubmitPhotos(ctx context.Context, eventID, callerID string, photos []domain.PhotoUpload) (*domain.PhotosResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventService.GetEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}
	if DeriveStep(event) == domain.StepDetails {
		return nil, fmt.Errorf("%w: complete the details step first", domain.ErrInvalidInput)
	}
	if len(event.GalleryImages)+len(photos) > domain.MaxGalleryImages {
		return nil, domain.ErrGalleryFull
	}

	urls, failed := s.uploadAll(ctx, event.ID, photos)

	// Successful uploads are kept even when siblings in the batch failed;
	// the failed ones are reported individually. The append path always
	// rewrites the full gallery array.
	if len(urls) > 0 {
		event, err = s.eventService.AddGalleryImages(ctx, eventID, callerID, urls)
		if err != nil {
			return nil, err
		}
	}
	if len(failed) > 0 {
		return &domain.PhotosResult{Event: event, Failed: failed, NextStep: domain.StepPhotos}, nil
	}

	tpl, err := s.templateRepo.GetByID(ctx, event.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	result, err := s.access.CheckTemplateAccess(ctx, callerID, tpl)
	if err != nil {
		// Includes ErrOwnershipLookup: block progress, let the host retry.
		return nil, err
	}
	if !result.Granted() {
		checkoutURL, _, err := s.purchases.InitializeCheckout(ctx, callerID, tpl.ID)
		if err != nil {
			return nil, err
		}
		return &domain.PhotosResult{Event: event, NextStep: domain.StepPayment, CheckoutURL: checkoutURL}, nil
	}

	event, err = s.publish(ctx, event)
	if err != nil {
		return nil, err
	}
	return &domain.PhotosResult{Event: event, NextStep: domain.StepLive}, nil
}

// uploadAll runs the batch concurrently and waits for every upload to
// settle before returning. A partial wait would hand the gate a gallery
// missing images with no error surfaced.
func (s *publishService) uploadAll(ctx context.Context, album string, photos []domain.PhotoUpload) ([]string, []domain.PhotoFailure) {
	outcomes := make([]uploadOutcome, len(photos))
	var wg sync.WaitGroup
	for i, p := range photos {
		wg.Add(1)
		go func(i int, p domain.PhotoUpload) {
			defer wg.Done()
			url, err := s.uploader.Upload(ctx, album, p.Filename, p.Content)
			outcomes[i] = uploadOutcome{filename: p.Filename, url: url, err: err}
		}(i, p)
	}
	wg.Wait()

	var urls []string
	var failed []domain.PhotoFailure
	for _, o := range outcomes {
		if o.err != nil {
			s.logger.Warn("photo upload failed", "album", album, "filename", o.filename, "err", o.err)
			failed = append(failed, domain.PhotoFailure{Filename: o.filename, Reason: o.err.Error()})
			continue
		}
		urls = append(urls, o.url)
	}
	return urls, failed
}

func (s *publishService) CompletePayment(ctx context.Context, eventID, callerID, reference string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventService.GetEvent(ctx, eventID, callerID)
	if err != nil {
		return nil, err
	}

	rec, err := s.purchases.VerifyPayment(ctx, callerID, reference)
	if err != nil {
		return nil, err
	}
	// The verified reference must cover the template this event is built on;
	// a reference paid for one template cannot take a different one live.
	if rec.TemplateID != event.TemplateID {
		return nil, fmt.Errorf("%w: reference covers a different template", domain.ErrPaymentVerification)
	}

	return s.publish(ctx, event)
}

// publish assigns the public slug and takes the event live. Idempotent: an
// already-published event is returned as-is. The workflow never reports
// "live" without a resolvable slug.
func (s *publishService) publish(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if event.Published() {
		return event, nil
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		slug := publicSlug(event.Name)
		if err := s.eventRepo.SetPublicSlug(ctx, event.ID, slug); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				lastErr = err
				continue // slug collision, regenerate
			}
			return nil, fmt.Errorf("set public slug: %w", err)
		}
		event.PublicSlug = slug
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, fmt.Errorf("set public slug: %w", lastErr)
	}
	if event.PublicSlug == "" {
		return nil, domain.ErrMissingPublicSlug
	}

	s.sendSiteLive(ctx, event)
	return event, nil
}

// sendSiteLive emails the host their public URL. Best effort.
func (s *publishService) sendSiteLive(ctx context.Context, event *domain.Event) {
	user, err := s.userRepo.GetByID(ctx, event.OwnerID)
	if err != nil {
		s.logger.Warn("site-live email skipped, user lookup failed", "owner_id", event.OwnerID, "err", err)
		return
	}
	err = s.emailService.SendSiteLive(ctx, &domain.SiteLiveEmailData{
		Email:     user.Email,
		Name:      user.Name,
		EventName: event.Name,
		SiteURL:   strings.TrimSuffix(s.siteBaseURL, "/") + "/" + event.PublicSlug,
	})
	if err != nil {
		s.logger.Warn("site-live email failed", "event_id", event.ID, "err", err)
	}
}

// publicSlug builds a URL-safe identifier from the event name plus a random
// suffix for uniqueness.
func publicSlug(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			// Dropped characters leave their flanking separators behind;
			// collapse runs so "Ada & Obi" becomes ada-obi, not ada--obi.
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	base := strings.Trim(b.String(), "-")
	suffix := uuid.NewString()[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
