package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"micrositebuilder/internal/delivery/http/helpers"
	"micrositebuilder/internal/delivery/http/middleware"
	"micrositebuilder/internal/domain"
)

type PurchaseController struct {
	Logger  *slog.Logger
	Service domain.PurchaseService
}

func NewPurchaseController(logger *slog.Logger, svc domain.PurchaseService) *PurchaseController {
	return &PurchaseController{Logger: logger, Service: svc}
}

// InitializeCheckoutRequest is the request body for POST /purchases/checkout.
type InitializeCheckoutRequest struct {
	TemplateID string `json:"template_id"`
}

// Validate implements Validator.
func (i InitializeCheckoutRequest) Validate() []string {
	if strings.TrimSpace(i.TemplateID) == "" {
		return []string{"template_id is required"}
	}
	return nil
}

// InitializeCheckoutResponse is the data payload for POST /purchases/checkout (200).
type InitializeCheckoutResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// InitializeCheckoutSuccessResponse is the success response envelope for POST /purchases/checkout (200).
type InitializeCheckoutSuccessResponse struct {
	Data  InitializeCheckoutResponse `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// InitializeCheckout godoc
// @Summary Start checkout for a premium template
// @Description Initializes a payment session with the provider and returns the URL to redirect the buyer to, plus our reference for later verification.
// @Tags purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body InitializeCheckoutRequest true "Template to buy"
// @Success 200 {object} controllers.InitializeCheckoutSuccessResponse "data contains authorization_url and reference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (template is free)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error (template_misconfigured when the premium template has no price)"
// @Router /purchases/checkout [post]
func (c *PurchaseController) InitializeCheckout(w http.ResponseWriter, r *http.Request) {
	var req InitializeCheckoutRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	authorizationURL, reference, err := c.Service.InitializeCheckout(r.Context(), userID, req.TemplateID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InitializeCheckoutResponse{
		AuthorizationURL: authorizationURL,
		Reference:        reference,
	})
}

// VerifyPaymentRequest is the request body for POST /purchases/verify.
type VerifyPaymentRequest struct {
	Reference string `json:"reference"`
}

// Validate implements Validator.
func (v VerifyPaymentRequest) Validate() []string {
	if strings.TrimSpace(v.Reference) == "" {
		return []string{"reference is required"}
	}
	return nil
}

// PurchaseSuccessResponse is the success response envelope for endpoints returning a single purchase record.
type PurchaseSuccessResponse struct {
	Data  *domain.PurchaseRecord `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// VerifyPayment godoc
// @Summary Verify a payment reference
// @Description Confirms the charge with the provider and records the purchase, which grants permanent access to the template. Verifying an already-verified reference returns the existing record.
// @Tags purchases
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyPaymentRequest true "Provider payment reference"
// @Success 200 {object} controllers.PurchaseSuccessResponse "data contains the purchase record"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 402 {object} helpers.APIResponse "error.code: payment_failed (provider did not confirm the charge)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /purchases/verify [post]
func (c *PurchaseController) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	record, err := c.Service.VerifyPayment(r.Context(), userID, req.Reference)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, record)
}

// ListMyPurchasesSuccessResponse is the success response envelope for GET /purchases/me (200).
type ListMyPurchasesSuccessResponse struct {
	Data  []*domain.PurchaseRecord `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// ListMyPurchases godoc
// @Summary List the current user's purchases
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ListMyPurchasesSuccessResponse "data is an array of purchase records, newest first"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /purchases/me [get]
func (c *PurchaseController) ListMyPurchases(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	records, err := c.Service.ListMyPurchases(r.Context(), userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	if records == nil {
		records = []*domain.PurchaseRecord{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, records)
}
