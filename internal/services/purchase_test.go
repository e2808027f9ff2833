package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"micrositebuilder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("u-%d", len(f.byID)+1)
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

// fakePaymentProvider scripts Initialize and Verify responses.
type fakePaymentProvider struct {
	verifyCalls  int
	verification *domain.PaymentVerification
	verifyErr    error
	metadata     map[string]string
}

func (f *fakePaymentProvider) Initialize(ctx context.Context, email string, amountMinor int64, reference string, metadata map[string]string) (string, error) {
	f.metadata = metadata
	return "https://checkout.example.com/" + reference, nil
}

func (f *fakePaymentProvider) Verify(ctx context.Context, reference string) (*domain.PaymentVerification, error) {
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verification, nil
}

// fakeAccessService records ownership invalidations.
type fakeAccessService struct {
	invalidated []string
	result      domain.AccessResult
	err         error
}

func (f *fakeAccessService) CheckTemplateAccess(ctx context.Context, userID string, tpl *domain.Template) (domain.AccessResult, error) {
	return f.result, f.err
}

func (f *fakeAccessService) InvalidateOwnership(userID string) {
	f.invalidated = append(f.invalidated, userID)
}

// fakeEmailService counts sends.
type fakeEmailService struct {
	welcome  int
	siteLive int
	receipts int
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
	f.welcome++
	return nil
}

func (f *fakeEmailService) SendSiteLive(ctx context.Context, data *domain.SiteLiveEmailData) error {
	f.siteLive++
	return nil
}

func (f *fakeEmailService) SendPaymentReceipt(ctx context.Context, data *domain.PaymentReceiptEmailData) error {
	f.receipts++
	return nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}

type purchaseFixture struct {
	svc      domain.PurchaseService
	repo     *fakePurchaseRepo
	provider *fakePaymentProvider
	access   *fakeAccessService
	emails   *fakeEmailService
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	repo := newFakePurchaseRepo()
	provider := &fakePaymentProvider{
		verification: &domain.PaymentVerification{
			Succeeded:   true,
			AmountMinor: 500000,
			Metadata:    map[string]string{"template_id": "tpl-prem", "user_id": "u-1"},
		},
	}
	access := &fakeAccessService{}
	emails := &fakeEmailService{}
	users := newFakeUserRepo(&domain.User{ID: "u-1", Email: "host@example.com", Name: "Ada"})
	tpls := newFakeTemplateRepo(premiumTemplate())
	svc := NewPurchaseService(repo, tpls, users, provider, access, emails, testLogger(), 2*time.Second)
	return &purchaseFixture{svc: svc, repo: repo, provider: provider, access: access, emails: emails}
}

func TestInitializeCheckout_RejectsFreeTemplate(t *testing.T) {
	fx := newPurchaseFixture(t)
	tpls := newFakeTemplateRepo(freeTemplate())
	users := newFakeUserRepo(&domain.User{ID: "u-1", Email: "host@example.com"})
	svc := NewPurchaseService(fx.repo, tpls, users, fx.provider, fx.access, fx.emails, testLogger(), 2*time.Second)

	_, _, err := svc.InitializeCheckout(context.Background(), "u-1", "tpl-free")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInitializeCheckout_PassesTemplateMetadata(t *testing.T) {
	fx := newPurchaseFixture(t)

	url, reference, err := fx.svc.InitializeCheckout(context.Background(), "u-1", "tpl-prem")
	require.NoError(t, err)
	assert.NotEmpty(t, reference)
	assert.Contains(t, url, reference)
	assert.Equal(t, "tpl-prem", fx.provider.metadata["template_id"])
}

func TestVerifyPayment_CreatesActiveRecordAndInvalidatesCache(t *testing.T) {
	fx := newPurchaseFixture(t)

	rec, err := fx.svc.VerifyPayment(context.Background(), "u-1", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseStatusActive, rec.Status)
	assert.Equal(t, "tpl-prem", rec.TemplateID)
	assert.Equal(t, []string{"u-1"}, fx.access.invalidated)
	assert.Equal(t, 1, fx.emails.receipts)
}

func TestVerifyPayment_Idempotent(t *testing.T) {
	fx := newPurchaseFixture(t)

	first, err := fx.svc.VerifyPayment(context.Background(), "u-1", "ref-1")
	require.NoError(t, err)

	second, err := fx.svc.VerifyPayment(context.Background(), "u-1", "ref-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-verifying must return the existing record")
	assert.Equal(t, 1, fx.provider.verifyCalls, "provider must not be consulted again")
	assert.Len(t, fx.repo.byReference, 1)
	assert.Len(t, fx.access.invalidated, 1, "state must not advance twice")
}

func TestVerifyPayment_RejectsAnotherAccountsReference(t *testing.T) {
	fx := newPurchaseFixture(t)

	_, err := fx.svc.VerifyPayment(context.Background(), "u-1", "ref-1")
	require.NoError(t, err)

	// A different account replaying the same reference gains nothing.
	_, err = fx.svc.VerifyPayment(context.Background(), "u-2", "ref-1")
	assert.ErrorIs(t, err, domain.ErrPaymentVerification)
	assert.Len(t, fx.repo.byReference, 1)
	assert.NotContains(t, fx.access.invalidated, "u-2")
}

func TestVerifyPayment_RejectsReferenceInitializedByAnotherAccount(t *testing.T) {
	fx := newPurchaseFixture(t)

	// Provider metadata names u-1 as the payer; u-2 presenting the
	// reference first must not be granted the purchase.
	_, err := fx.svc.VerifyPayment(context.Background(), "u-2", "ref-1")
	assert.ErrorIs(t, err, domain.ErrPaymentVerification)
	assert.Empty(t, fx.repo.byReference)
	assert.Empty(t, fx.access.invalidated)
}

func TestVerifyPayment_DeclinedDoesNotGrant(t *testing.T) {
	fx := newPurchaseFixture(t)
	fx.provider.verification = &domain.PaymentVerification{Succeeded: false}

	_, err := fx.svc.VerifyPayment(context.Background(), "u-1", "ref-bad")
	assert.ErrorIs(t, err, domain.ErrPaymentVerification)
	assert.Empty(t, fx.repo.byReference)
	assert.Empty(t, fx.access.invalidated)
}

func TestVerifyPayment_ProviderFailureDoesNotGrant(t *testing.T) {
	fx := newPurchaseFixture(t)
	fx.provider.verifyErr = errors.New("timeout")

	_, err := fx.svc.VerifyPayment(context.Background(), "u-1", "ref-1")
	assert.ErrorIs(t, err, domain.ErrPaymentVerification)
	assert.Empty(t, fx.repo.byReference)
}
