package domain

import (
	"context"
	"time"
)

// PurchaseStatus is the lifecycle state of a purchase record. Only active
// records grant ownership.
type PurchaseStatus string

const (
	PurchaseStatusActive   PurchaseStatus = "active"
	PurchaseStatusInactive PurchaseStatus = "inactive"
)

// PurchaseRecord is evidence that a user owns a premium template.
// swagger:model PurchaseRecord
type PurchaseRecord struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	TemplateID string `json:"template_id"`
	// Reference is the payment provider's transaction reference. Unique;
	// verification is keyed on it so re-verifying is idempotent.
	Reference   string         `json:"reference"`
	AmountMinor int64          `json:"amount_minor"`
	Status      PurchaseStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// AccessResult is the access gate's decision for one template.
type AccessResult string

const (
	// AccessDenied: premium template without an active purchase record.
	AccessDenied AccessResult = "denied"
	// AccessFreeGranted: the template is free; no record is ever required.
	AccessFreeGranted AccessResult = "free_granted"
	// AccessOwned: an active purchase record matches the template.
	AccessOwned AccessResult = "owned"
)

// Granted reports whether the result allows the host to proceed.
func (r AccessResult) Granted() bool {
	return r == AccessFreeGranted || r == AccessOwned
}

// PurchaseRepository defines the interface for purchase-record storage.
type PurchaseRepository interface {
	Create(ctx context.Context, rec *PurchaseRecord) error
	GetByReference(ctx context.Context, reference string) (*PurchaseRecord, error)
	ListByUserID(ctx context.Context, userID string) ([]*PurchaseRecord, error)
}

// PaymentVerification is the provider's answer for one reference.
type PaymentVerification struct {
	Succeeded   bool
	AmountMinor int64
	// Metadata echoes what was attached on Initialize (template_id, user_id).
	Metadata map[string]string
}

// PaymentProvider is the opaque checkout collaborator: one redirect target
// and one verification callback.
type PaymentProvider interface {
	// Initialize starts a checkout and returns the URL the host is redirected
	// to. Metadata travels through the provider and comes back on verify.
	Initialize(ctx context.Context, email string, amountMinor int64, reference string, metadata map[string]string) (authorizationURL string, err error)
	// Verify asks the provider whether the reference was paid. A transport
	// failure is an error; a declined payment is Succeeded=false.
	Verify(ctx context.Context, reference string) (*PaymentVerification, error)
}

// AccessService decides whether a user may use a template. The decision
// itself never navigates; callers map AccessDenied to a checkout redirect.
type AccessService interface {
	// CheckTemplateAccess returns the access outcome, or an error wrapping
	// ErrOwnershipLookup when the purchase-record collaborator fails. It must
	// never guess an outcome on lookup failure.
	CheckTemplateAccess(ctx context.Context, userID string, tpl *Template) (AccessResult, error)
	// InvalidateOwnership drops any cached purchase records for the user.
	// Called synchronously after a successful payment verification.
	InvalidateOwnership(userID string)
}

// PurchaseService handles checkout initialization and verification.
type PurchaseService interface {
	// InitializeCheckout starts payment for a premium template and returns
	// the provider's authorization URL plus our reference.
	InitializeCheckout(ctx context.Context, userID, templateID string) (authorizationURL, reference string, err error)
	// VerifyPayment confirms a provider reference and records the purchase.
	// Idempotent: verifying an already-verified reference returns the
	// existing record without creating a second one.
	VerifyPayment(ctx context.Context, userID, reference string) (*PurchaseRecord, error)
	ListMyPurchases(ctx context.Context, userID string) ([]*PurchaseRecord, error)
}
