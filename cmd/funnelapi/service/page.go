package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/cache"
	"github.com/pagecraft/funnels/common/component"
	"github.com/pagecraft/funnels/common/db"
	"github.com/pagecraft/funnels/common/logger"
	"github.com/pagecraft/funnels/common/render"
	"github.com/pagecraft/funnels/common/retry"
)

// pageStore is the persistence surface for pages
type pageStore interface {
	Create(ctx context.Context, page *models.Page) error
	GetByID(ctx context.Context, pageID uuid.UUID) (*models.Page, error)
	ListByFunnel(ctx context.Context, funnelID uuid.UUID) ([]*models.Page, error)
	UpdateMeta(ctx context.Context, page *models.Page) error
	MaxOrder(ctx context.Context, funnelID uuid.UUID) (int, error)
	Delete(ctx context.Context, pageID uuid.UUID) error
	SlugExists(ctx context.Context, funnelID uuid.UUID, slug string) (bool, error)
}

// funnelGetter loads the owning funnel for path derivation
type funnelGetter interface {
	GetByID(ctx context.Context, funnelID uuid.UUID) (*models.Funnel, error)
}

// PageMetaUpdate carries optional metadata edits; nil fields are unchanged
type PageMetaUpdate struct {
	Name  *string
	Slug  *string
	Order *int
}

// PageService handles page lifecycle, content edits and rendering. All
// render paths (preview, public, export) go through the one renderer.
type PageService struct {
	pages     pageStore
	funnels   funnelGetter
	revisions *RevisionService
	slugs     *SlugAllocator
	renderer  *render.Renderer
	cache     cache.Cache
	cacheTTL  time.Duration
	log       *logger.Logger
}

// NewPageService creates a new page service. cache may be nil to disable
// the rendered-markup cache.
func NewPageService(
	pages pageStore,
	funnels funnelGetter,
	revisions *RevisionService,
	slugs *SlugAllocator,
	renderer *render.Renderer,
	markupCache cache.Cache,
	cacheTTL time.Duration,
	log *logger.Logger,
) *PageService {
	return &PageService{
		pages:     pages,
		funnels:   funnels,
		revisions: revisions,
		slugs:     slugs,
		renderer:  renderer,
		cache:     markupCache,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// CreatePage creates a draft page at the end of the funnel. The slug is
// unique within the funnel only; order and slug races both retry against
// their unique constraints.
func (s *PageService) CreatePage(ctx context.Context, funnelID uuid.UUID, name string, pageType models.PageType, requestedSlug string) (*models.Page, error) {
	if !models.ValidPageType(pageType) {
		return nil, fmt.Errorf("unknown page type: %s", pageType)
	}

	funnel, err := s.funnels.GetByID(ctx, funnelID)
	if err != nil {
		return nil, fmt.Errorf("funnel not found: %w", err)
	}

	base := name
	if requestedSlug != "" {
		base = requestedSlug
	}

	inFunnel := func(ctx context.Context, candidate string) (bool, error) {
		return s.pages.SlugExists(ctx, funnelID, candidate)
	}

	var page *models.Page

	err = retry.OnConflict(ctx, maxInsertAttempts, db.IsUniqueViolation, func(ctx context.Context) error {
		allocated, err := s.slugs.Allocate(ctx, inFunnel, base)
		if err != nil {
			return err
		}

		maxOrder, err := s.pages.MaxOrder(ctx, funnelID)
		if err != nil {
			return err
		}

		page = &models.Page{
			ID:        uuid.Must(uuid.NewV7()),
			FunnelID:  funnelID,
			Name:      name,
			Slug:      allocated,
			Path:      "/" + funnel.Slug + "/" + allocated,
			Type:      pageType,
			Order:     maxOrder + 1,
			Status:    models.PageDraft,
			CreatedAt: time.Now().UTC(),
		}

		return s.pages.Create(ctx, page)
	})

	if err != nil {
		return nil, err
	}

	s.log.Info("created page",
		"page_id", page.ID,
		"funnel_id", funnelID,
		"slug", page.Slug,
		"order", page.Order,
	)

	return page, nil
}

// GetPage returns a page plus the revision the channel resolves to. The
// revision is nil (not an error) when the channel has no content yet.
func (s *PageService) GetPage(ctx context.Context, pageID uuid.UUID, channel models.Channel) (*models.Page, *models.PageRevision, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, nil, fmt.Errorf("page not found: %w", err)
	}

	revision, err := s.revisions.ResolveContent(ctx, page, channel)
	if err != nil {
		if err == ErrNoContent || err == ErrNoPublishedContent {
			return page, nil, nil
		}
		return nil, nil, err
	}

	return page, revision, nil
}

// UpdatePageContent appends a revision holding content; with publish set,
// the new revision becomes live in the same call.
func (s *PageService) UpdatePageContent(ctx context.Context, pageID uuid.UUID, content component.Node, publish bool) (*models.PageRevision, error) {
	if _, err := s.pages.GetByID(ctx, pageID); err != nil {
		return nil, fmt.Errorf("page not found: %w", err)
	}

	revision, err := s.revisions.CreateRevision(ctx, pageID, content)
	if err != nil {
		return nil, err
	}

	if publish {
		if _, err := s.revisions.Publish(ctx, pageID, revision.ID); err != nil {
			return nil, err
		}
	}

	return revision, nil
}

// PatchPageContent applies an RFC 7386 merge patch to the latest draft
// content and appends the result as the next revision.
func (s *PageService) PatchPageContent(ctx context.Context, pageID uuid.UUID, mergePatch []byte) (*models.PageRevision, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("page not found: %w", err)
	}

	current, err := s.revisions.ResolveContent(ctx, page, models.ChannelDraft)
	if err != nil {
		return nil, err
	}

	original, err := json.Marshal(current.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode current content: %w", err)
	}

	patched, err := jsonpatch.MergePatch(original, mergePatch)
	if err != nil {
		return nil, fmt.Errorf("failed to apply merge patch: %w", err)
	}

	var tree component.Node
	if err := json.Unmarshal(patched, &tree); err != nil {
		return nil, fmt.Errorf("patched content is not a valid component tree: %w", err)
	}

	return s.revisions.CreateRevision(ctx, pageID, tree)
}

// UpdatePageMeta edits page metadata. A new slug is sanitized and must be
// free within the funnel; order collisions surface as conflicts.
func (s *PageService) UpdatePageMeta(ctx context.Context, pageID uuid.UUID, update PageMetaUpdate) (*models.Page, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("page not found: %w", err)
	}

	if update.Name != nil {
		page.Name = *update.Name
	}
	if update.Order != nil {
		page.Order = *update.Order
	}
	if update.Slug != nil {
		funnel, err := s.funnels.GetByID(ctx, page.FunnelID)
		if err != nil {
			return nil, err
		}

		inFunnel := func(ctx context.Context, candidate string) (bool, error) {
			if candidate == page.Slug {
				// keeping the current slug is not a collision
				return false, nil
			}
			return s.pages.SlugExists(ctx, page.FunnelID, candidate)
		}

		allocated, err := s.slugs.Allocate(ctx, inFunnel, *update.Slug)
		if err != nil {
			return nil, err
		}

		page.Slug = allocated
		page.Path = "/" + funnel.Slug + "/" + allocated
	}

	if err := s.pages.UpdateMeta(ctx, page); err != nil {
		return nil, err
	}

	s.log.Info("updated page metadata", "page_id", pageID)
	return page, nil
}

// DeletePage removes a page and its revisions
func (s *PageService) DeletePage(ctx context.Context, pageID uuid.UUID) error {
	if err := s.pages.Delete(ctx, pageID); err != nil {
		return err
	}

	s.log.Info("deleted page", "page_id", pageID)
	return nil
}

// RenderPage renders the channel's content to a markup fragment. Published
// renders are cached keyed by revision, so a publish naturally rolls the
// key and stale entries age out by TTL.
func (s *PageService) RenderPage(ctx context.Context, pageID uuid.UUID, channel models.Channel) (string, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return "", fmt.Errorf("page not found: %w", err)
	}

	revision, err := s.revisions.ResolveContent(ctx, page, channel)
	if err != nil {
		return "", err
	}

	cacheable := channel == models.ChannelPublished && s.cache != nil
	cacheKey := fmt.Sprintf("render:%s:%s", pageID, revision.ID)

	if cacheable {
		if markup, hit, err := s.cache.Get(ctx, cacheKey); err == nil && hit {
			return string(markup), nil
		}
	}

	markup := s.renderer.Render(revision.Content)

	if cacheable {
		if err := s.cache.Set(ctx, cacheKey, []byte(markup), s.cacheTTL); err != nil {
			s.log.Warn("failed to cache rendered markup", "page_id", pageID, "error", err)
		}
	}

	return markup, nil
}

// ExportPage renders the channel's content as a standalone HTML document
func (s *PageService) ExportPage(ctx context.Context, pageID uuid.UUID, channel models.Channel) (string, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return "", fmt.Errorf("page not found: %w", err)
	}

	revision, err := s.revisions.ResolveContent(ctx, page, channel)
	if err != nil {
		return "", err
	}

	return s.renderer.RenderDocument(page.Name, revision.Content), nil
}
