package controllers

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"micrositebuilder/internal/delivery/http/helpers"
	"micrositebuilder/internal/delivery/http/middleware"
	"micrositebuilder/internal/domain"
)

// maxPhotoBatchBytes caps one photos-step request body. Individual files are
// streamed to the media store, so this only bounds what multipart parsing may
// buffer in memory.
const maxPhotoBatchBytes = 64 << 20

type PublishController struct {
	Logger  *slog.Logger
	Service domain.PublishService
}

func NewPublishController(logger *slog.Logger, svc domain.PublishService) *PublishController {
	return &PublishController{Logger: logger, Service: svc}
}

// PublishStepResponse is the data payload for GET /events/{eventID}/publish/step (200).
type PublishStepResponse struct {
	Step domain.PublishStep `json:"step"`
}

// PublishStepSuccessResponse is the success response envelope for GET /events/{eventID}/publish/step (200).
type PublishStepSuccessResponse struct {
	Data  PublishStepResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CurrentStep godoc
// @Summary Get the current publishing step
// @Description Derives the host's position in the publishing workflow from the persisted event, so an interrupted session resumes where it left off.
// @Tags publish
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.PublishStepSuccessResponse "data.step is one of choose_type, details, photos, payment, live"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/publish/step [get]
func (c *PublishController) CurrentStep(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	step, err := c.Service.CurrentStep(r.Context(), eventID, userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, PublishStepResponse{Step: step})
}

// SaveDetailsRequest is the request body for PUT /events/{eventID}/publish/details.
// Name and date are required to advance; the rest is optional.
type SaveDetailsRequest struct {
	Name                 *string           `json:"name"`
	Date                 *time.Time        `json:"date"`
	Venue                *string           `json:"venue"`
	Message              *string           `json:"message"`
	Details              map[string]string `json:"details"`
	RSVPEnabled          *bool             `json:"rsvp_enabled"`
	ContributionsEnabled *bool             `json:"contributions_enabled"`
}

// Validate implements Validator.
func (s SaveDetailsRequest) Validate() []string {
	var errs []string
	if s.Name != nil && strings.TrimSpace(*s.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	return errs
}

// SaveDetailsResponse is the data payload for PUT /events/{eventID}/publish/details (200).
type SaveDetailsResponse struct {
	Event    *domain.Event      `json:"event"`
	NextStep domain.PublishStep `json:"next_step"`
}

// SaveDetailsSuccessResponse is the success response envelope for PUT /events/{eventID}/publish/details (200).
type SaveDetailsSuccessResponse struct {
	Data  SaveDetailsResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SaveDetails godoc
// @Summary Save the details step
// @Description Persists the event's name, date, and other detail fields, then advances the workflow to the photos step. The event must carry a name and a date to advance; otherwise the workflow stays at details.
// @Tags publish
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SaveDetailsRequest true "Detail fields"
// @Success 200 {object} controllers.SaveDetailsSuccessResponse "data contains the event and next_step"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing name or date)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/publish/details [put]
func (c *PublishController) SaveDetails(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SaveDetailsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, step, err := c.Service.SaveDetails(r.Context(), eventID, userID, domain.EventUpdate{
		Name:                 req.Name,
		Date:                 req.Date,
		Venue:                req.Venue,
		Message:              req.Message,
		Details:              req.Details,
		RSVPEnabled:          req.RSVPEnabled,
		ContributionsEnabled: req.ContributionsEnabled,
	})
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SaveDetailsResponse{Event: event, NextStep: step})
}

// SubmitPhotosSuccessResponse is the success response envelope for POST /events/{eventID}/publish/photos (200).
type SubmitPhotosSuccessResponse struct {
	Data  *domain.PhotosResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// SubmitPhotos godoc
// @Summary Submit the photos step
// @Description Uploads the multipart batch (field name "photos"), appends successful uploads to the gallery, and advances the workflow. Uploads that fail are listed in data.failed while the rest are kept. A free or already-owned template publishes immediately (next_step: live); a premium template routes to payment with a checkout_url.
// @Tags publish
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param photos formData file true "Photo files (repeatable)"
// @Success 200 {object} controllers.SubmitPhotosSuccessResponse "data contains the event, failed uploads, next_step, and checkout_url when payment is required"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (not at photos step, or malformed multipart body)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: gallery_full"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error (template_misconfigured when the template has no pricing)"
// @Failure 503 {object} helpers.APIResponse "error.code: temporarily_unavailable (ownership lookup failed; retry)"
// @Router /events/{eventID}/publish/photos [post]
func (c *PublishController) SubmitPhotos(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxPhotoBatchBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["photos"]
	photos := make([]domain.PhotoUpload, 0, len(files))
	opened := make([]multipart.File, 0, len(files))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, hdr := range files {
		f, err := hdr.Open()
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "could not read uploaded file: "+hdr.Filename)
			return
		}
		opened = append(opened, f)
		photos = append(photos, domain.PhotoUpload{Filename: hdr.Filename, Content: f})
	}

	result, err := c.Service.SubmitPhotos(r.Context(), eventID, userID, photos)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// CompletePaymentRequest is the request body for POST /events/{eventID}/publish/complete.
type CompletePaymentRequest struct {
	Reference string `json:"reference"`
}

// Validate implements Validator.
func (cp CompletePaymentRequest) Validate() []string {
	if strings.TrimSpace(cp.Reference) == "" {
		return []string{"reference is required"}
	}
	return nil
}

// CompletePaymentResponse is the data payload for POST /events/{eventID}/publish/complete (200).
type CompletePaymentResponse struct {
	Event    *domain.Event      `json:"event"`
	NextStep domain.PublishStep `json:"next_step"`
}

// CompletePaymentSuccessResponse is the success response envelope for POST /events/{eventID}/publish/complete (200).
type CompletePaymentSuccessResponse struct {
	Data  CompletePaymentResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// CompletePayment godoc
// @Summary Complete payment and go live
// @Description Verifies the payment provider reference, records the purchase, and publishes the event. Safe to retry: a reference that was already verified still publishes without a second charge.
// @Tags publish
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CompletePaymentRequest true "Provider payment reference"
// @Success 200 {object} controllers.CompletePaymentSuccessResponse "data contains the live event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_failed (verification did not confirm the charge)"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/publish/complete [post]
func (c *PublishController) CompletePayment(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req CompletePaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.CompletePayment(r.Context(), eventID, userID, req.Reference)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CompletePaymentResponse{Event: event, NextStep: domain.StepLive})
}
