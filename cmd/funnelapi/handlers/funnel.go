package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pagecraft/funnels/cmd/funnelapi/middleware"
	"github.com/pagecraft/funnels/cmd/funnelapi/service"
	"github.com/pagecraft/funnels/common/bootstrap"
)

// FunnelHandler handles funnel-related operations
type FunnelHandler struct {
	components *bootstrap.Components
	funnelSvc  *service.FunnelService
}

// NewFunnelHandler creates a new funnel handler
func NewFunnelHandler(components *bootstrap.Components, funnelSvc *service.FunnelService) *FunnelHandler {
	return &FunnelHandler{
		components: components,
		funnelSvc:  funnelSvc,
	}
}

type createFunnelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

// CreateFunnel creates a funnel with an allocated slug
// POST /api/v1/funnels
func (h *FunnelHandler) CreateFunnel(c echo.Context) error {
	var req createFunnelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	teamID := middleware.GetTeamID(c)

	funnel, err := h.funnelSvc.CreateFunnel(c.Request().Context(), teamID, req.Name, req.Description, req.Slug)
	if err != nil {
		h.components.Logger.Error("failed to create funnel", "team_id", teamID, "error", err)
		return httpError(err, "funnel")
	}

	return c.JSON(http.StatusCreated, funnel)
}

// GetFunnel retrieves a funnel with its pages in order
// GET /api/v1/funnels/:id
func (h *FunnelHandler) GetFunnel(c echo.Context) error {
	funnelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid funnel id format")
	}

	funnel, err := h.funnelSvc.GetFunnel(c.Request().Context(), funnelID)
	if err != nil {
		return httpError(err, "funnel")
	}

	return c.JSON(http.StatusOK, funnel)
}

// ListFunnels lists the caller's funnels
// GET /api/v1/funnels
func (h *FunnelHandler) ListFunnels(c echo.Context) error {
	teamID := middleware.GetTeamID(c)

	funnels, err := h.funnelSvc.ListFunnels(c.Request().Context(), teamID)
	if err != nil {
		h.components.Logger.Error("failed to list funnels", "team_id", teamID, "error", err)
		return httpError(err, "funnel")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"funnels": funnels,
		"count":   len(funnels),
	})
}

// ActivateFunnel moves a funnel from draft to active
// POST /api/v1/funnels/:id/activate
func (h *FunnelHandler) ActivateFunnel(c echo.Context) error {
	funnelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid funnel id format")
	}

	if err := h.funnelSvc.Activate(c.Request().Context(), funnelID); err != nil {
		return httpError(err, "funnel")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"funnel_id": funnelID,
		"status":    "active",
	})
}

// DeleteFunnel removes a funnel and everything under it
// DELETE /api/v1/funnels/:id
func (h *FunnelHandler) DeleteFunnel(c echo.Context) error {
	funnelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid funnel id format")
	}

	if err := h.funnelSvc.DeleteFunnel(c.Request().Context(), funnelID); err != nil {
		return httpError(err, "funnel")
	}

	return c.NoContent(http.StatusNoContent)
}
