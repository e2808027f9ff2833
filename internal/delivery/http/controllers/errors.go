package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"micrositebuilder/internal/delivery/http/helpers"
	"micrositebuilder/internal/domain"
)

// writeDomainError maps service-layer sentinel errors onto the API error
// envelope. Anything unmapped is logged and surfaced as a 500.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotPublished):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already in use")
	case errors.Is(err, domain.ErrGalleryFull):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeGalleryFull, "gallery image limit reached")
	case errors.Is(err, domain.ErrPaymentVerification):
		helpers.WriteJSONError(w, http.StatusPaymentRequired, helpers.ErrCodePaymentFailed, "payment could not be verified")
	case errors.Is(err, domain.ErrOwnershipLookup):
		// The access gate could not decide; the client should retry rather
		// than treat this as a denial.
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeUnavailable, "access check temporarily unavailable, please retry")
	case domain.IsConfigurationError(err):
		logger.ErrorContext(r.Context(), "template misconfigured", "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeMisconfigured, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
