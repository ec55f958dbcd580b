package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/pagecraft/funnels/cmd/funnelapi/handlers"
)

// RegisterFunnelRoutes registers funnel-related routes
func RegisterFunnelRoutes(e *echo.Group, handler *handlers.FunnelHandler) {
	e.POST("/funnels", handler.CreateFunnel)
	e.GET("/funnels", handler.ListFunnels)
	e.GET("/funnels/:id", handler.GetFunnel)
	e.POST("/funnels/:id/activate", handler.ActivateFunnel)
	e.DELETE("/funnels/:id", handler.DeleteFunnel)
}
