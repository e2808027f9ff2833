package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"micrositebuilder/internal/domain"
)

// CheckAccess is the pure access gate: it maps a template and a user's
// purchase records to an access outcome. Free templates never require a
// record; premium templates require an active record for that template id.
// It performs no I/O and no navigation — callers map AccessDenied to a
// checkout redirect.
func CheckAccess(tpl *domain.Template, records []*domain.PurchaseRecord) domain.AccessResult {
	if !tpl.IsPremium {
		return domain.AccessFreeGranted
	}
	for _, rec := range records {
		if rec.TemplateID == tpl.ID && rec.Status == domain.PurchaseStatusActive {
			return domain.AccessOwned
		}
	}
	return domain.AccessDenied
}

// OwnershipCache is a short-lived cache of a user's purchase records so
// every page view does not re-query the purchase collaborator. Entries
// expire on their own and are invalidated synchronously after a successful
// payment verification.
type OwnershipCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]ownershipEntry
}

type ownershipEntry struct {
	records   []*domain.PurchaseRecord
	fetchedAt time.Time
}

// NewOwnershipCache returns a cache whose entries live for ttl.
func NewOwnershipCache(ttl time.Duration) *OwnershipCache {
	return &OwnershipCache{
		ttl:     ttl,
		entries: make(map[string]ownershipEntry),
	}
}

func (c *OwnershipCache) get(userID string) ([]*domain.PurchaseRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok || time.Since(e.fetchedAt) > c.ttl {
		delete(c.entries, userID)
		return nil, false
	}
	return e.records, true
}

func (c *OwnershipCache) set(userID string, records []*domain.PurchaseRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = ownershipEntry{records: records, fetchedAt: time.Now()}
}

// Invalidate drops the cached records for userID.
func (c *OwnershipCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

type accessService struct {
	purchaseRepo   domain.PurchaseRepository
	cache          *OwnershipCache
	contextTimeout time.Duration
}

// NewAccessService creates an AccessService backed by the purchase
// repository and the given ownership cache.
func NewAccessService(purchaseRepo domain.PurchaseRepository, cache *OwnershipCache, timeout time.Duration) domain.AccessService {
	return &accessService{
		purchaseRepo:   purchaseRepo,
		cache:          cache,
		contextTimeout: timeout,
	}
}

func (s *accessService) CheckTemplateAccess(ctx context.Context, userID string, tpl *domain.Template) (domain.AccessResult, error) {
	// Free templates are granted without any lookup, regardless of
	// authentication state.
	if !tpl.IsPremium {
		return domain.AccessFreeGranted, nil
	}
	if userID == "" {
		return domain.AccessDenied, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	records, ok := s.cache.get(userID)
	if !ok {
		var err error
		records, err = s.purchaseRepo.ListByUserID(ctx, userID)
		if err != nil {
			// Never guess on a failed lookup: granting would be a security
			// defect, denying a usability one. Surface a retryable outcome.
			return "", fmt.Errorf("%w: %v", domain.ErrOwnershipLookup, err)
		}
		s.cache.set(userID, records)
	}

	return CheckAccess(tpl, records), nil
}

func (s *accessService) InvalidateOwnership(userID string) {
	s.cache.Invalidate(userID)
}
