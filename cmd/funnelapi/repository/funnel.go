package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/db"
)

// FunnelRepository handles database operations for funnels
type FunnelRepository struct {
	db *db.DB
}

// NewFunnelRepository creates a new funnel repository
func NewFunnelRepository(db *db.DB) *FunnelRepository {
	return &FunnelRepository{db: db}
}

// Create inserts a new funnel. A duplicate slug surfaces as a unique
// violation for the caller's retry loop.
func (r *FunnelRepository) Create(ctx context.Context, funnel *models.Funnel) error {
	query := `
		INSERT INTO funnel (funnel_id, team_id, name, slug, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		funnel.ID,
		funnel.TeamID,
		funnel.Name,
		funnel.Slug,
		funnel.Description,
		funnel.Status,
		funnel.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create funnel: %w", err)
	}

	return nil
}

// GetByID retrieves a funnel by its ID
func (r *FunnelRepository) GetByID(ctx context.Context, funnelID uuid.UUID) (*models.Funnel, error) {
	query := `
		SELECT funnel_id, team_id, name, slug, description, status, created_at
		FROM funnel
		WHERE funnel_id = $1
	`

	funnel := &models.Funnel{}
	err := r.db.QueryRow(ctx, query, funnelID).Scan(
		&funnel.ID,
		&funnel.TeamID,
		&funnel.Name,
		&funnel.Slug,
		&funnel.Description,
		&funnel.Status,
		&funnel.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get funnel: %w", err)
	}

	return funnel, nil
}

// ListByTeam retrieves all funnels owned by a team, newest first
func (r *FunnelRepository) ListByTeam(ctx context.Context, teamID string) ([]*models.Funnel, error) {
	query := `
		SELECT funnel_id, team_id, name, slug, description, status, created_at
		FROM funnel
		WHERE team_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list funnels: %w", err)
	}
	defer rows.Close()

	var funnels []*models.Funnel
	for rows.Next() {
		funnel := &models.Funnel{}
		err := rows.Scan(
			&funnel.ID,
			&funnel.TeamID,
			&funnel.Name,
			&funnel.Slug,
			&funnel.Description,
			&funnel.Status,
			&funnel.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan funnel: %w", err)
		}
		funnels = append(funnels, funnel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating funnels: %w", err)
	}

	return funnels, nil
}

// UpdateStatus sets the funnel lifecycle status
func (r *FunnelRepository) UpdateStatus(ctx context.Context, funnelID uuid.UUID, status models.FunnelStatus) error {
	query := `UPDATE funnel SET status = $2 WHERE funnel_id = $1`

	result, err := r.db.Exec(ctx, query, funnelID, status)
	if err != nil {
		return fmt.Errorf("failed to update funnel status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("funnel not found: %s", funnelID)
	}

	return nil
}

// Delete removes a funnel. Pages and their revisions cascade at the
// database level.
func (r *FunnelRepository) Delete(ctx context.Context, funnelID uuid.UUID) error {
	query := `DELETE FROM funnel WHERE funnel_id = $1`

	result, err := r.db.Exec(ctx, query, funnelID)
	if err != nil {
		return fmt.Errorf("failed to delete funnel: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("funnel not found: %s", funnelID)
	}

	return nil
}

// SlugExists checks whether a funnel slug is already taken (global scope)
func (r *FunnelRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM funnel WHERE slug = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check funnel slug: %w", err)
	}

	return exists, nil
}
