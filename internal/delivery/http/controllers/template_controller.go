package controllers

import (
	"log/slog"
	"net/http"

	"micrositebuilder/internal/delivery/http/helpers"
	"micrositebuilder/internal/domain"
)

type TemplateController struct {
	Logger  *slog.Logger
	Service domain.TemplateService
}

func NewTemplateController(logger *slog.Logger, svc domain.TemplateService) *TemplateController {
	return &TemplateController{Logger: logger, Service: svc}
}

// ListTemplatesResponse is the data payload for GET /templates (200).
type ListTemplatesResponse struct {
	Items      []*domain.Template     `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListTemplatesSuccessResponse is the success response envelope for GET /templates (200).
type ListTemplatesSuccessResponse struct {
	Data  ListTemplatesResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListTemplates godoc
// @Summary Browse the template catalog
// @Description Returns paginated templates, optionally filtered by event_type (wedding or birthday). Public; no authentication required.
// @Tags templates
// @Produce json
// @Param event_type query string false "Filter by event type (wedding or birthday)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListTemplatesSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown event_type)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates [get]
func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	eventType := domain.EventType(r.URL.Query().Get("event_type"))
	params := helpers.ParsePagination(r)
	templates, total, err := c.Service.ListTemplates(r.Context(), eventType, params)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListTemplatesResponse{Items: templates, Pagination: meta})
}

// GetTemplateSuccessResponse is the success response envelope for GET /templates/{slug} (200).
type GetTemplateSuccessResponse struct {
	Data  *domain.Template  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetTemplate godoc
// @Summary Get a template by slug
// @Description Returns the full template including its sections, color schemes, and fonts. Public; no authentication required.
// @Tags templates
// @Produce json
// @Param slug path string true "Template slug"
// @Success 200 {object} controllers.GetTemplateSuccessResponse "data contains the template"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /templates/{slug} [get]
func (c *TemplateController) GetTemplate(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	tpl, err := c.Service.GetTemplateBySlug(r.Context(), slug)
	if err != nil {
		writeDomainError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, tpl)
}
