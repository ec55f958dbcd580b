package handlers

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/cmd/funnelapi/service"
	"github.com/pagecraft/funnels/common/bootstrap"
	"github.com/pagecraft/funnels/common/component"
)

// PageHandler handles page, content and render operations
type PageHandler struct {
	components  *bootstrap.Components
	pageSvc     *service.PageService
	revisionSvc *service.RevisionService
}

// NewPageHandler creates a new page handler
func NewPageHandler(components *bootstrap.Components, pageSvc *service.PageService, revisionSvc *service.RevisionService) *PageHandler {
	return &PageHandler{
		components:  components,
		pageSvc:     pageSvc,
		revisionSvc: revisionSvc,
	}
}

type createPageRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Slug string `json:"slug"`
}

type updateContentRequest struct {
	Content component.Node `json:"content"`
	Publish bool           `json:"publish"`
}

type publishRequest struct {
	RevisionID *uuid.UUID `json:"revision_id"`
}

type updateMetaRequest struct {
	Name  *string `json:"name"`
	Slug  *string `json:"slug"`
	Order *int    `json:"order"`
}

// channelParam reads ?channel=, defaulting to draft
func channelParam(c echo.Context) (models.Channel, error) {
	raw := c.QueryParam("channel")
	if raw == "" {
		return models.ChannelDraft, nil
	}
	channel := models.Channel(raw)
	if !models.ValidChannel(channel) {
		return "", echo.NewHTTPError(http.StatusBadRequest, "channel must be draft or published")
	}
	return channel, nil
}

func pageIDParam(c echo.Context) (uuid.UUID, error) {
	pageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid page id format")
	}
	return pageID, nil
}

// CreatePage adds a page to a funnel
// POST /api/v1/funnels/:id/pages
func (h *PageHandler) CreatePage(c echo.Context) error {
	funnelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid funnel id format")
	}

	var req createPageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !models.ValidPageType(models.PageType(req.Type)) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown page type")
	}

	page, err := h.pageSvc.CreatePage(c.Request().Context(), funnelID, req.Name, models.PageType(req.Type), req.Slug)
	if err != nil {
		h.components.Logger.Error("failed to create page", "funnel_id", funnelID, "error", err)
		return httpError(err, "page")
	}

	return c.JSON(http.StatusCreated, page)
}

// GetPage returns a page and the content its channel resolves to.
// Content is null when the channel has nothing yet.
// GET /api/v1/pages/:id?channel=
func (h *PageHandler) GetPage(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	channel, err := channelParam(c)
	if err != nil {
		return err
	}

	page, revision, err := h.pageSvc.GetPage(c.Request().Context(), pageID, channel)
	if err != nil {
		return httpError(err, "page")
	}

	resp := map[string]interface{}{
		"page":    page,
		"channel": channel,
		"content": nil,
	}
	if revision != nil {
		resp["content"] = revision.Content
		resp["revision_id"] = revision.ID
		resp["version"] = revision.Version
	}

	return c.JSON(http.StatusOK, resp)
}

// UpdateMeta edits page metadata
// PATCH /api/v1/pages/:id
func (h *PageHandler) UpdateMeta(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}

	var req updateMetaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	page, err := h.pageSvc.UpdatePageMeta(c.Request().Context(), pageID, service.PageMetaUpdate{
		Name:  req.Name,
		Slug:  req.Slug,
		Order: req.Order,
	})
	if err != nil {
		return httpError(err, "page")
	}

	return c.JSON(http.StatusOK, page)
}

// DeletePage removes a page
// DELETE /api/v1/pages/:id
func (h *PageHandler) DeletePage(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}

	if err := h.pageSvc.DeletePage(c.Request().Context(), pageID); err != nil {
		return httpError(err, "page")
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdateContent appends a revision, optionally publishing it
// PUT /api/v1/pages/:id/content
func (h *PageHandler) UpdateContent(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}

	var req updateContentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content.Type == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content root must have a type")
	}

	revision, err := h.pageSvc.UpdatePageContent(c.Request().Context(), pageID, req.Content, req.Publish)
	if err != nil {
		h.components.Logger.Error("failed to update page content", "page_id", pageID, "error", err)
		return httpError(err, "page")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"revision_id": revision.ID,
		"version":     revision.Version,
		"published":   req.Publish,
	})
}

// PatchContent merge-patches the latest draft content into a new revision
// PATCH /api/v1/pages/:id/content
func (h *PageHandler) PatchContent(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}

	patch, err := io.ReadAll(c.Request().Body)
	if err != nil || len(patch) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "merge patch body is required")
	}

	revision, err := h.pageSvc.PatchPageContent(c.Request().Context(), pageID, patch)
	if err != nil {
		return httpError(err, "page")
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"revision_id": revision.ID,
		"version":     revision.Version,
	})
}

// ListRevisions lists a page's revision history, newest first
// GET /api/v1/pages/:id/revisions
func (h *PageHandler) ListRevisions(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}

	revisions, err := h.revisionSvc.ListRevisions(c.Request().Context(), pageID)
	if err != nil {
		return httpError(err, "page")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"revisions": revisions,
		"count":     len(revisions),
	})
}

// GetRevision returns one revision, checked against the page
// GET /api/v1/pages/:id/revisions/:revisionID
func (h *PageHandler) GetRevision(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	revisionID, err := uuid.Parse(c.Param("revisionID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid revision id format")
	}

	revision, err := h.revisionSvc.GetRevision(c.Request().Context(), pageID, revisionID)
	if err != nil {
		return httpError(err, "revision")
	}

	return c.JSON(http.StatusOK, revision)
}

// Publish points the page at a revision, latest when none is named
// POST /api/v1/pages/:id/publish
func (h *PageHandler) Publish(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}

	var req publishRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()

	var page *models.Page
	if req.RevisionID != nil {
		page, err = h.revisionSvc.Publish(ctx, pageID, *req.RevisionID)
	} else {
		page, err = h.revisionSvc.PublishLatest(ctx, pageID)
	}
	if err != nil {
		h.components.Logger.Error("failed to publish page", "page_id", pageID, "error", err)
		return httpError(err, "page")
	}

	return c.JSON(http.StatusOK, page)
}

// Unpublish takes the page offline and returns it to draft
// POST /api/v1/pages/:id/unpublish
func (h *PageHandler) Unpublish(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}

	page, err := h.revisionSvc.Unpublish(c.Request().Context(), pageID)
	if err != nil {
		return httpError(err, "page")
	}

	return c.JSON(http.StatusOK, page)
}

// Render returns the channel's content as an HTML fragment
// GET /api/v1/pages/:id/render?channel=
func (h *PageHandler) Render(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	channel, err := channelParam(c)
	if err != nil {
		return err
	}

	markup, err := h.pageSvc.RenderPage(c.Request().Context(), pageID, channel)
	if err != nil {
		return httpError(err, "page")
	}

	return c.HTML(http.StatusOK, markup)
}

// Export returns the channel's content as a standalone HTML document
// GET /api/v1/pages/:id/export?channel=
func (h *PageHandler) Export(c echo.Context) error {
	pageID, err := pageIDParam(c)
	if err != nil {
		return err
	}
	channel, err := channelParam(c)
	if err != nil {
		return err
	}

	doc, err := h.pageSvc.ExportPage(c.Request().Context(), pageID, channel)
	if err != nil {
		return httpError(err, "page")
	}

	return c.HTML(http.StatusOK, doc)
}
