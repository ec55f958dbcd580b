package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/db"
)

// PageRepository handles database operations for pages
type PageRepository struct {
	db *db.DB
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *db.DB) *PageRepository {
	return &PageRepository{db: db}
}

// Create inserts a new page. Duplicate (funnel_id, slug) or
// (funnel_id, sort_order) surface as unique violations.
func (r *PageRepository) Create(ctx context.Context, page *models.Page) error {
	query := `
		INSERT INTO page (page_id, funnel_id, name, slug, path, page_type, sort_order, status, published_revision_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		page.ID,
		page.FunnelID,
		page.Name,
		page.Slug,
		page.Path,
		page.Type,
		page.Order,
		page.Status,
		page.PublishedRevisionID,
		page.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	return nil
}

// GetByID retrieves a page by its ID
func (r *PageRepository) GetByID(ctx context.Context, pageID uuid.UUID) (*models.Page, error) {
	query := `
		SELECT page_id, funnel_id, name, slug, path, page_type, sort_order, status, published_revision_id, created_at
		FROM page
		WHERE page_id = $1
	`

	page := &models.Page{}
	err := r.db.QueryRow(ctx, query, pageID).Scan(
		&page.ID,
		&page.FunnelID,
		&page.Name,
		&page.Slug,
		&page.Path,
		&page.Type,
		&page.Order,
		&page.Status,
		&page.PublishedRevisionID,
		&page.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}

	return page, nil
}

// ListByFunnel retrieves a funnel's pages in display order
func (r *PageRepository) ListByFunnel(ctx context.Context, funnelID uuid.UUID) ([]*models.Page, error) {
	query := `
		SELECT page_id, funnel_id, name, slug, path, page_type, sort_order, status, published_revision_id, created_at
		FROM page
		WHERE funnel_id = $1
		ORDER BY sort_order ASC
	`

	rows, err := r.db.Query(ctx, query, funnelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*models.Page
	for rows.Next() {
		page := &models.Page{}
		err := rows.Scan(
			&page.ID,
			&page.FunnelID,
			&page.Name,
			&page.Slug,
			&page.Path,
			&page.Type,
			&page.Order,
			&page.Status,
			&page.PublishedRevisionID,
			&page.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pages: %w", err)
	}

	return pages, nil
}

// UpdateMeta updates page metadata (name, slug, path, display order)
func (r *PageRepository) UpdateMeta(ctx context.Context, page *models.Page) error {
	query := `
		UPDATE page
		SET name = $2, slug = $3, path = $4, sort_order = $5
		WHERE page_id = $1
	`

	result, err := r.db.Exec(ctx, query,
		page.ID,
		page.Name,
		page.Slug,
		page.Path,
		page.Order,
	)

	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page not found: %s", page.ID)
	}

	return nil
}

// SetPublished moves the publish pointer and status in one statement.
// revisionID nil clears the pointer (unpublish).
func (r *PageRepository) SetPublished(ctx context.Context, pageID uuid.UUID, revisionID *uuid.UUID, status models.PageStatus) error {
	query := `
		UPDATE page
		SET published_revision_id = $2, status = $3
		WHERE page_id = $1
	`

	result, err := r.db.Exec(ctx, query, pageID, revisionID, status)
	if err != nil {
		return fmt.Errorf("failed to set publish state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page not found: %s", pageID)
	}

	return nil
}

// MaxOrder returns the highest sort_order in a funnel, 0 if it has no pages
func (r *PageRepository) MaxOrder(ctx context.Context, funnelID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(MAX(sort_order), 0) FROM page WHERE funnel_id = $1`

	var max int
	err := r.db.QueryRow(ctx, query, funnelID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max page order: %w", err)
	}

	return max, nil
}

// Delete removes a page. Its revisions cascade at the database level.
func (r *PageRepository) Delete(ctx context.Context, pageID uuid.UUID) error {
	query := `DELETE FROM page WHERE page_id = $1`

	result, err := r.db.Exec(ctx, query, pageID)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page not found: %s", pageID)
	}

	return nil
}

// SlugExists checks whether a page slug is taken within a funnel. The same
// slug may exist in other funnels.
func (r *PageRepository) SlugExists(ctx context.Context, funnelID uuid.UUID, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM page WHERE funnel_id = $1 AND slug = $2)`

	var exists bool
	err := r.db.QueryRow(ctx, query, funnelID, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check page slug: %w", err)
	}

	return exists, nil
}
