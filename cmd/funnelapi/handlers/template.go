package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pagecraft/funnels/cmd/funnelapi/middleware"
	"github.com/pagecraft/funnels/cmd/funnelapi/service"
	"github.com/pagecraft/funnels/common/bootstrap"
)

// TemplateHandler serves the template catalog and instantiation
type TemplateHandler struct {
	components  *bootstrap.Components
	templateSvc *service.TemplateService
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(components *bootstrap.Components, templateSvc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		components:  components,
		templateSvc: templateSvc,
	}
}

type instantiateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListTemplates lists catalog templates, optionally by category
// GET /api/v1/templates?category=
func (h *TemplateHandler) ListTemplates(c echo.Context) error {
	templates := h.templateSvc.ListTemplates(c.QueryParam("category"))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"templates": templates,
		"count":     len(templates),
	})
}

// GetTemplate returns one template with its page definitions
// GET /api/v1/templates/:id
func (h *TemplateHandler) GetTemplate(c echo.Context) error {
	tpl, err := h.templateSvc.GetTemplate(c.Param("id"))
	if err != nil {
		return httpError(err, "template")
	}

	return c.JSON(http.StatusOK, tpl)
}

// Instantiate expands a template into a funnel for the caller's team
// POST /api/v1/templates/:id/instantiate
func (h *TemplateHandler) Instantiate(c echo.Context) error {
	templateID := c.Param("id")

	var req instantiateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	teamID := middleware.GetTeamID(c)

	funnel, err := h.templateSvc.Instantiate(c.Request().Context(), templateID, teamID, service.InstantiateMeta{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.components.Logger.Error("failed to instantiate template", "template_id", templateID, "team_id", teamID, "error", err)
		return httpError(err, "template")
	}

	return c.JSON(http.StatusCreated, funnel)
}
