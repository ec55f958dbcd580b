package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/pagecraft/funnels/cmd/funnelapi/handlers"
)

// RegisterTemplateRoutes registers template catalog routes
func RegisterTemplateRoutes(e *echo.Group, handler *handlers.TemplateHandler) {
	e.GET("/templates", handler.ListTemplates)
	e.GET("/templates/:id", handler.GetTemplate)
	e.POST("/templates/:id/instantiate", handler.Instantiate)
}
