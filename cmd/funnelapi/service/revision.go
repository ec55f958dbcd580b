package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/component"
	"github.com/pagecraft/funnels/common/db"
	"github.com/pagecraft/funnels/common/logger"
	"github.com/pagecraft/funnels/common/queue"
	"github.com/pagecraft/funnels/common/retry"
)

// maxVersionAttempts bounds the version-race retry loop
const maxVersionAttempts = 5

// revisionStore is the persistence surface the revision engine needs
type revisionStore interface {
	Create(ctx context.Context, revision *models.PageRevision) error
	GetByID(ctx context.Context, revisionID uuid.UUID) (*models.PageRevision, error)
	Latest(ctx context.Context, pageID uuid.UUID) (*models.PageRevision, error)
	MaxVersion(ctx context.Context, pageID uuid.UUID) (int, error)
	ListByPage(ctx context.Context, pageID uuid.UUID) ([]*models.PageRevision, error)
}

// publishStore is the page surface needed to move the publish pointer
type publishStore interface {
	GetByID(ctx context.Context, pageID uuid.UUID) (*models.Page, error)
	SetPublished(ctx context.Context, pageID uuid.UUID, revisionID *uuid.UUID, status models.PageStatus) error
}

// RevisionService is the append-only revision log per page, plus the
// publish pointer. Revisions are never mutated; edits append the next
// version, computed under retry against the (page_id, version) constraint.
type RevisionService struct {
	revisions revisionStore
	pages     publishStore
	queue     queue.Queue
	log       *logger.Logger
}

// NewRevisionService creates a new revision service
func NewRevisionService(revisions revisionStore, pages publishStore, q queue.Queue, log *logger.Logger) *RevisionService {
	return &RevisionService{
		revisions: revisions,
		pages:     pages,
		queue:     q,
		log:       log,
	}
}

// CreateRevision appends the next revision for a page. Concurrent editors
// racing on the same next version are retried against the latest committed
// state; past the budget the race surfaces as RevisionConflictError.
func (s *RevisionService) CreateRevision(ctx context.Context, pageID uuid.UUID, content component.Node) (*models.PageRevision, error) {
	var revision *models.PageRevision

	err := retry.OnConflict(ctx, maxVersionAttempts, db.IsUniqueViolation, func(ctx context.Context) error {
		maxVersion, err := s.revisions.MaxVersion(ctx, pageID)
		if err != nil {
			return err
		}

		revision = &models.PageRevision{
			ID:        uuid.Must(uuid.NewV7()),
			PageID:    pageID,
			Version:   maxVersion + 1,
			Content:   content,
			CreatedAt: time.Now().UTC(),
		}

		return s.revisions.Create(ctx, revision)
	})

	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			return nil, &RevisionConflictError{PageID: pageID, Err: err}
		}
		return nil, fmt.Errorf("failed to create revision: %w", err)
	}

	s.log.Info("created revision",
		"page_id", pageID,
		"revision_id", revision.ID,
		"version", revision.Version,
	)

	publishEvent(ctx, s.queue, s.log, TopicRevisionCreated, pageID.String(), map[string]any{
		"page_id":     pageID,
		"revision_id": revision.ID,
		"version":     revision.Version,
	})

	return revision, nil
}

// Publish points the page at revisionID and marks it published. A revision
// owned by another page is rejected with no mutation.
func (s *RevisionService) Publish(ctx context.Context, pageID, revisionID uuid.UUID) (*models.Page, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("page not found: %w", err)
	}

	revision, err := s.revisions.GetByID(ctx, revisionID)
	if err != nil {
		return nil, fmt.Errorf("revision not found: %w", err)
	}

	if revision.PageID != pageID {
		return nil, &PublishTargetMismatchError{PageID: pageID, RevisionID: revisionID}
	}

	if err := s.pages.SetPublished(ctx, pageID, &revisionID, models.PagePublished); err != nil {
		return nil, fmt.Errorf("failed to publish page: %w", err)
	}

	page.Status = models.PagePublished
	page.PublishedRevisionID = &revisionID

	s.log.Info("published page",
		"page_id", pageID,
		"revision_id", revisionID,
		"version", revision.Version,
	)

	publishEvent(ctx, s.queue, s.log, TopicPagePublished, pageID.String(), map[string]any{
		"page_id":     pageID,
		"revision_id": revisionID,
		"version":     revision.Version,
	})

	return page, nil
}

// PublishLatest publishes the highest-version revision. A page with no
// revisions cannot be published.
func (s *RevisionService) PublishLatest(ctx context.Context, pageID uuid.UUID) (*models.Page, error) {
	latest, err := s.revisions.Latest(ctx, pageID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNoContent
		}
		return nil, fmt.Errorf("failed to get latest revision: %w", err)
	}

	return s.Publish(ctx, pageID, latest.ID)
}

// Unpublish clears the publish pointer and returns the page to draft.
// The pointer is cleared rather than retained so a published→draft page
// never carries a stale live reference.
func (s *RevisionService) Unpublish(ctx context.Context, pageID uuid.UUID) (*models.Page, error) {
	page, err := s.pages.GetByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("page not found: %w", err)
	}

	if err := s.pages.SetPublished(ctx, pageID, nil, models.PageDraft); err != nil {
		return nil, fmt.Errorf("failed to unpublish page: %w", err)
	}

	page.Status = models.PageDraft
	page.PublishedRevisionID = nil

	s.log.Info("unpublished page", "page_id", pageID)

	publishEvent(ctx, s.queue, s.log, TopicPageUnpublished, pageID.String(), map[string]any{
		"page_id": pageID,
	})

	return page, nil
}

// ResolveContent returns the revision a channel sees: draft always resolves
// the highest version, published resolves the pointer target.
func (s *RevisionService) ResolveContent(ctx context.Context, page *models.Page, channel models.Channel) (*models.PageRevision, error) {
	switch channel {
	case models.ChannelDraft:
		revision, err := s.revisions.Latest(ctx, page.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, ErrNoContent
			}
			return nil, fmt.Errorf("failed to resolve draft content: %w", err)
		}
		return revision, nil

	case models.ChannelPublished:
		if page.PublishedRevisionID == nil {
			return nil, ErrNoPublishedContent
		}
		revision, err := s.revisions.GetByID(ctx, *page.PublishedRevisionID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve published content: %w", err)
		}
		return revision, nil

	default:
		return nil, fmt.Errorf("unknown channel: %s", channel)
	}
}

// ListRevisions returns a page's revision history, newest first
func (s *RevisionService) ListRevisions(ctx context.Context, pageID uuid.UUID) ([]*models.PageRevision, error) {
	revisions, err := s.revisions.ListByPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}

	return revisions, nil
}

// GetRevision returns one revision, verifying page ownership
func (s *RevisionService) GetRevision(ctx context.Context, pageID, revisionID uuid.UUID) (*models.PageRevision, error) {
	revision, err := s.revisions.GetByID(ctx, revisionID)
	if err != nil {
		return nil, fmt.Errorf("revision not found: %w", err)
	}

	if revision.PageID != pageID {
		return nil, &PublishTargetMismatchError{PageID: pageID, RevisionID: revisionID}
	}

	return revision, nil
}
