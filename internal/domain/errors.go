package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services. Services wrap underlying causes
// with fmt.Errorf("...: %w", err); handlers match with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrOwnershipLookup means the purchase-record collaborator could not be
	// reached. Callers must block forward progress and offer a retry; access
	// is never granted or denied on this outcome.
	ErrOwnershipLookup = errors.New("ownership lookup failed")

	// ErrPaymentVerification means the provider did not confirm the reference.
	ErrPaymentVerification = errors.New("payment verification failed")

	// ErrGalleryFull is returned when an upload batch would push the gallery
	// past MaxGalleryImages.
	ErrGalleryFull = errors.New("gallery is full")

	// ErrNotPublished is returned when a public slug does not resolve to a
	// live event.
	ErrNotPublished = errors.New("event is not published")

	// ErrMissingPublicSlug guards the publish invariant: an event must never
	// be reported live without a resolvable public URL.
	ErrMissingPublicSlug = errors.New("event has no public slug")
)

// ConfigurationError marks a template-authoring defect (zero color schemes,
// zero sections). It is not recoverable by the host; the caller surfaces
// "this template isn't ready" and routes away from the broken template.
type ConfigurationError struct {
	TemplateID string
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.TemplateID == "" {
		return "template not fully configured: " + e.Reason
	}
	return fmt.Sprintf("template %s not fully configured: %s", e.TemplateID, e.Reason)
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
