package container

import (
	"fmt"

	"github.com/pagecraft/funnels/cmd/funnelapi/catalog"
	"github.com/pagecraft/funnels/cmd/funnelapi/middleware"
	"github.com/pagecraft/funnels/cmd/funnelapi/repository"
	"github.com/pagecraft/funnels/cmd/funnelapi/service"
	"github.com/pagecraft/funnels/common/bootstrap"
	"github.com/pagecraft/funnels/common/render"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components
	Catalog    *catalog.Catalog
	Renderer   *render.Renderer
	Teams      middleware.TeamResolver

	// Repositories
	FunnelRepo   *repository.FunnelRepository
	PageRepo     *repository.PageRepository
	RevisionRepo *repository.RevisionRepository

	// Services
	SlugAllocator   *service.SlugAllocator
	RevisionService *service.RevisionService
	FunnelService   *service.FunnelService
	PageService     *service.PageService
	TemplateService *service.TemplateService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load template catalog: %w", err)
	}

	renderer := render.New(components.Logger)

	// Initialize repositories
	funnelRepo := repository.NewFunnelRepository(components.DB)
	pageRepo := repository.NewPageRepository(components.DB)
	revisionRepo := repository.NewRevisionRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	slugAllocator := service.NewSlugAllocator(components.Logger)

	revisionService := service.NewRevisionService(
		revisionRepo,
		pageRepo,
		components.Queue,
		components.Logger,
	)

	funnelService := service.NewFunnelService(
		funnelRepo,
		pageRepo,
		slugAllocator,
		components.Queue,
		components.Logger,
	)

	pageService := service.NewPageService(
		pageRepo,
		funnelRepo,
		revisionService,
		slugAllocator,
		renderer,
		components.Cache,
		components.Config.Render.CacheTTL,
		components.Logger,
	)

	templateService := service.NewTemplateService(
		cat,
		funnelService,
		pageService,
		revisionService,
		components.Queue,
		components.Logger,
	)

	return &Container{
		Components:      components,
		Catalog:         cat,
		Renderer:        renderer,
		Teams:           middleware.FromConfig(components.Config.Identity),
		FunnelRepo:      funnelRepo,
		PageRepo:        pageRepo,
		RevisionRepo:    revisionRepo,
		SlugAllocator:   slugAllocator,
		RevisionService: revisionService,
		FunnelService:   funnelService,
		PageService:     pageService,
		TemplateService: templateService,
	}, nil
}
