package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/db"
	"github.com/pagecraft/funnels/common/logger"
	"github.com/pagecraft/funnels/common/queue"
	"github.com/pagecraft/funnels/common/retry"
)

// maxInsertAttempts bounds the allocate+insert loop for slug races. Each
// attempt re-probes from committed state, so a handful is plenty.
const maxInsertAttempts = 5

// funnelStore is the persistence surface for funnels
type funnelStore interface {
	Create(ctx context.Context, funnel *models.Funnel) error
	GetByID(ctx context.Context, funnelID uuid.UUID) (*models.Funnel, error)
	ListByTeam(ctx context.Context, teamID string) ([]*models.Funnel, error)
	UpdateStatus(ctx context.Context, funnelID uuid.UUID, status models.FunnelStatus) error
	Delete(ctx context.Context, funnelID uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// funnelPageLister loads a funnel's pages for detail reads
type funnelPageLister interface {
	ListByFunnel(ctx context.Context, funnelID uuid.UUID) ([]*models.Page, error)
}

// FunnelService handles funnel lifecycle and the global slug scope
type FunnelService struct {
	funnels funnelStore
	pages   funnelPageLister
	slugs   *SlugAllocator
	queue   queue.Queue
	log     *logger.Logger
}

// NewFunnelService creates a new funnel service
func NewFunnelService(funnels funnelStore, pages funnelPageLister, slugs *SlugAllocator, q queue.Queue, log *logger.Logger) *FunnelService {
	return &FunnelService{
		funnels: funnels,
		pages:   pages,
		slugs:   slugs,
		queue:   q,
		log:     log,
	}
}

// CreateFunnel creates a funnel with a globally unique slug derived from
// requestedSlug when given, otherwise from name. Two requests racing on the
// same base observe a unique violation and retry with the next candidate.
func (s *FunnelService) CreateFunnel(ctx context.Context, teamID, name, description, requestedSlug string) (*models.Funnel, error) {
	base := name
	if requestedSlug != "" {
		base = requestedSlug
	}

	var funnel *models.Funnel

	err := retry.OnConflict(ctx, maxInsertAttempts, db.IsUniqueViolation, func(ctx context.Context) error {
		allocated, err := s.slugs.Allocate(ctx, s.funnels.SlugExists, base)
		if err != nil {
			return err
		}

		funnel = &models.Funnel{
			ID:          uuid.Must(uuid.NewV7()),
			TeamID:      teamID,
			Name:        name,
			Slug:        allocated,
			Description: description,
			Status:      models.FunnelDraft,
			CreatedAt:   time.Now().UTC(),
		}

		return s.funnels.Create(ctx, funnel)
	})

	if err != nil {
		return nil, err
	}

	s.log.Info("created funnel",
		"funnel_id", funnel.ID,
		"slug", funnel.Slug,
		"team_id", teamID,
	)

	publishEvent(ctx, s.queue, s.log, TopicFunnelCreated, funnel.ID.String(), map[string]any{
		"funnel_id": funnel.ID,
		"slug":      funnel.Slug,
		"team_id":   teamID,
	})

	return funnel, nil
}

// GetFunnel returns a funnel with its pages in display order
func (s *FunnelService) GetFunnel(ctx context.Context, funnelID uuid.UUID) (*models.Funnel, error) {
	funnel, err := s.funnels.GetByID(ctx, funnelID)
	if err != nil {
		return nil, fmt.Errorf("funnel not found: %w", err)
	}

	pages, err := s.pages.ListByFunnel(ctx, funnelID)
	if err != nil {
		return nil, err
	}
	funnel.Pages = pages

	return funnel, nil
}

// ListFunnels returns all funnels owned by a team
func (s *FunnelService) ListFunnels(ctx context.Context, teamID string) ([]*models.Funnel, error) {
	funnels, err := s.funnels.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnels: %w", err)
	}

	return funnels, nil
}

// Activate marks a funnel live
func (s *FunnelService) Activate(ctx context.Context, funnelID uuid.UUID) error {
	if err := s.funnels.UpdateStatus(ctx, funnelID, models.FunnelActive); err != nil {
		return err
	}

	s.log.Info("activated funnel", "funnel_id", funnelID)
	return nil
}

// DeleteFunnel removes a funnel; pages and revisions cascade
func (s *FunnelService) DeleteFunnel(ctx context.Context, funnelID uuid.UUID) error {
	if err := s.funnels.Delete(ctx, funnelID); err != nil {
		return err
	}

	s.log.Info("deleted funnel", "funnel_id", funnelID)
	return nil
}
