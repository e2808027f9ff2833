package controllers

import (
	"log/slog"
	"net/http"

	"micrositebuilder/internal/delivery/http/helpers"
	"micrositebuilder/internal/delivery/http/middleware"
	"micrositebuilder/internal/render"
	"micrositebuilder/internal/services"
)

type SiteController struct {
	Logger  *slog.Logger
	Service services.SiteService
}

func NewSiteController(logger *slog.Logger, svc services.SiteService) *SiteController {
	return &SiteController{Logger: logger, Service: svc}
}

// SitePageSuccessResponse is the success response envelope for endpoints returning a composed page.
type SitePageSuccessResponse struct {
	Data  *render.Page      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// PublicSite godoc
// @Summary Get a published microsite
// @Description Returns the composed page for a live event: the resolved theme plus the ordered list of section render instructions. No authentication; this is the public visitor surface.
// @Tags sites
// @Produce json
// @Param slug path string true "Public site slug"
// @Success 200 {object} controllers.SitePageSuccessResponse "data contains theme and sections"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (unknown slug or event no longer live)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sites/{slug} [get]
func (c *SiteController) PublicSite(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	page, err := c.Service.PublicSite(r.Context(), slug)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}

// Preview godoc
// @Summary Preview an unpublished event
// @Description Composes the page for a draft exactly as the public site would render it. Only the owner can preview.
// @Tags sites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.SitePageSuccessResponse "data contains theme and sections"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error (template_misconfigured when no valid color scheme exists)"
// @Router /events/{eventID}/preview [get]
func (c *SiteController) Preview(w http.ResponseWriter, r *http.Request) {
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
	page, err := c.Service.Preview(r.Context(), eventID, userID)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, page)
}
