package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"micrositebuilder/internal/domain"
)

type purchaseService struct {
	purchaseRepo   domain.PurchaseRepository
	templateRepo   domain.TemplateRepository
	userRepo       domain.UserRepository
	provider       domain.PaymentProvider
	access         domain.AccessService
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewPurchaseService creates the PurchaseService handling checkout and
// verification against the payment provider.
func NewPurchaseService(
	purchaseRepo domain.PurchaseRepository,
	templateRepo domain.TemplateRepository,
	userRepo domain.UserRepository,
	provider domain.PaymentProvider,
	access domain.AccessService,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.PurchaseService {
	return &purchaseService{
		purchaseRepo:   purchaseRepo,
		templateRepo:   templateRepo,
		userRepo:       userRepo,
		provider:       provider,
		access:         access,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *purchaseService) InitializeCheckout(ctx context.Context, userID, templateID string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", domain.ErrNotFound
		}
		return "", "", fmt.Errorf("get template: %w", err)
	}
	if !tpl.IsPremium {
		return "", "", domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("get user: %w", err)
	}

	reference := uuid.NewString()
	authURL, err := s.provider.Initialize(ctx, user.Email, tpl.PriceMinor, reference, map[string]string{
		"template_id": tpl.ID,
		"user_id":     user.ID,
	})
	if err != nil {
		return "", "", fmt.Errorf("initialize payment: %w", err)
	}
	return authURL, reference, nil
}

// VerifyPayment is idempotent on reference: a reference that already has a
// purchase record returns that record without consulting the provider again,
// so a host replaying the provider redirect cannot be double-granted.
func (s *purchaseService) VerifyPayment(ctx context.Context, userID, reference string) (*domain.PurchaseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if reference == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := s.purchaseRepo.GetByReference(ctx, reference)
	if err == nil {
		if existing.UserID != userID {
			return nil, fmt.Errorf("%w: reference belongs to another account", domain.ErrPaymentVerification)
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get purchase by reference: %w", err)
	}

	verification, err := s.provider.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentVerification, err)
	}
	if !verification.Succeeded {
		return nil, domain.ErrPaymentVerification
	}

	if owner := verification.Metadata["user_id"]; owner != "" && owner != userID {
		return nil, fmt.Errorf("%w: reference belongs to another account", domain.ErrPaymentVerification)
	}
	templateID := verification.Metadata["template_id"]
	if templateID == "" {
		return nil, fmt.Errorf("%w: provider returned no template_id", domain.ErrPaymentVerification)
	}

	now := time.Now()
	rec := &domain.PurchaseRecord{
		UserID:      userID,
		TemplateID:  templateID,
		Reference:   reference,
		AmountMinor: verification.AmountMinor,
		Status:      domain.PurchaseStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.purchaseRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create purchase record: %w", err)
	}

	// The gate must see the new record immediately.
	s.access.InvalidateOwnership(userID)

	s.sendReceipt(ctx, userID, rec)
	return rec, nil
}

// sendReceipt emails the purchase receipt. Best effort: a mail failure never
// fails an already-verified purchase.
func (s *purchaseService) sendReceipt(ctx context.Context, userID string, rec *domain.PurchaseRecord) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("receipt email skipped, user lookup failed", "user_id", userID, "err", err)
		return
	}
	templateName := rec.TemplateID
	if tpl, err := s.templateRepo.GetByID(ctx, rec.TemplateID); err == nil {
		templateName = tpl.Name
	}
	err = s.emailService.SendPaymentReceipt(ctx, &domain.PaymentReceiptEmailData{
		Email:        user.Email,
		Name:         user.Name,
		TemplateName: templateName,
		AmountMinor:  rec.AmountMinor,
		Reference:    rec.Reference,
	})
	if err != nil {
		s.logger.Warn("receipt email failed", "user_id", userID, "reference", rec.Reference, "err", err)
	}
}

func (s *purchaseService) ListMyPurchases(ctx context.Context, userID string) ([]*domain.PurchaseRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	records, err := s.purchaseRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	if records == nil {
		records = []*domain.PurchaseRecord{}
	}
	return records, nil
}
