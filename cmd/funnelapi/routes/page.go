package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/pagecraft/funnels/cmd/funnelapi/handlers"
)

// RegisterPageRoutes registers page, content and render routes
func RegisterPageRoutes(e *echo.Group, handler *handlers.PageHandler) {
	e.POST("/funnels/:id/pages", handler.CreatePage)

	e.GET("/pages/:id", handler.GetPage)
	e.PATCH("/pages/:id", handler.UpdateMeta)
	e.DELETE("/pages/:id", handler.DeletePage)

	e.PUT("/pages/:id/content", handler.UpdateContent)
	e.PATCH("/pages/:id/content", handler.PatchContent)

	e.GET("/pages/:id/revisions", handler.ListRevisions)
	e.GET("/pages/:id/revisions/:revisionID", handler.GetRevision)

	e.POST("/pages/:id/publish", handler.Publish)
	e.POST("/pages/:id/unpublish", handler.Unpublish)

	e.GET("/pages/:id/render", handler.Render)
	e.GET("/pages/:id/export", handler.Export)
}
