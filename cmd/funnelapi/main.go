package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/pagecraft/funnels/cmd/funnelapi/container"
	"github.com/pagecraft/funnels/cmd/funnelapi/handlers"
	"github.com/pagecraft/funnels/cmd/funnelapi/middleware"
	"github.com/pagecraft/funnels/cmd/funnelapi/routes"
	"github.com/pagecraft/funnels/cmd/funnelapi/service"
	"github.com/pagecraft/funnels/common/bootstrap"
	"github.com/pagecraft/funnels/common/server"
	"github.com/pagecraft/funnels/migrations"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (DB, logger, queue, cache, telemetry)
	components, err := bootstrap.Setup(ctx, "funnelapi",
		bootstrap.WithDBInitHook(migrations.Apply),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap funnelapi: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	// Audit log consumer for domain events
	if err := service.RegisterAuditLog(ctx, components.Queue, components.Logger); err != nil {
		components.Logger.Error("failed to register audit log consumer", "error", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e)
	setupHealthCheck(e)
	registerRoutes(e, serviceContainer)

	startServer(e, components)
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": "funnelapi",
		})
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	api := e.Group("/api/v1", middleware.TeamContext(serviceContainer.Teams))

	funnelHandler := handlers.NewFunnelHandler(serviceContainer.Components, serviceContainer.FunnelService)
	pageHandler := handlers.NewPageHandler(serviceContainer.Components, serviceContainer.PageService, serviceContainer.RevisionService)
	templateHandler := handlers.NewTemplateHandler(serviceContainer.Components, serviceContainer.TemplateService)

	routes.RegisterFunnelRoutes(api, funnelHandler)
	routes.RegisterPageRoutes(api, pageHandler)
	routes.RegisterTemplateRoutes(api, templateHandler)
}

// startServer runs the HTTP server with graceful shutdown
func startServer(e *echo.Echo, components *bootstrap.Components) {
	srv := server.New("funnelapi", components.Config.Service.Port, e, components.Logger)

	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}
