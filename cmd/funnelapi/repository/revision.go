package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/component"
	"github.com/pagecraft/funnels/common/db"
)

// RevisionRepository handles database operations for page revisions.
// Revisions are append-only; there is no update path.
type RevisionRepository struct {
	db *db.DB
}

// NewRevisionRepository creates a new revision repository
func NewRevisionRepository(db *db.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

// Create inserts a new immutable revision. A duplicate (page_id, version)
// surfaces as a unique violation for the caller's retry loop.
func (r *RevisionRepository) Create(ctx context.Context, revision *models.PageRevision) error {
	content, err := json.Marshal(revision.Content)
	if err != nil {
		return fmt.Errorf("failed to encode revision content: %w", err)
	}

	query := `
		INSERT INTO page_revision (revision_id, page_id, version, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = r.db.Exec(ctx, query,
		revision.ID,
		revision.PageID,
		revision.Version,
		content,
		revision.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create revision: %w", err)
	}

	return nil
}

// GetByID retrieves a revision by its ID
func (r *RevisionRepository) GetByID(ctx context.Context, revisionID uuid.UUID) (*models.PageRevision, error) {
	query := `
		SELECT revision_id, page_id, version, content, created_at
		FROM page_revision
		WHERE revision_id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, revisionID))
}

// Latest retrieves the highest-version revision of a page
func (r *RevisionRepository) Latest(ctx context.Context, pageID uuid.UUID) (*models.PageRevision, error) {
	query := `
		SELECT revision_id, page_id, version, content, created_at
		FROM page_revision
		WHERE page_id = $1
		ORDER BY version DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, pageID))
}

// MaxVersion returns the highest committed version for a page, 0 if none
func (r *RevisionRepository) MaxVersion(ctx context.Context, pageID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) FROM page_revision WHERE page_id = $1`

	var max int
	err := r.db.QueryRow(ctx, query, pageID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max revision version: %w", err)
	}

	return max, nil
}

// ListByPage retrieves all revisions of a page, newest first
func (r *RevisionRepository) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*models.PageRevision, error) {
	query := `
		SELECT revision_id, page_id, version, content, created_at
		FROM page_revision
		WHERE page_id = $1
		ORDER BY version DESC
	`

	rows, err := r.db.Query(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []*models.PageRevision
	for rows.Next() {
		revision := &models.PageRevision{}
		var content []byte
		err := rows.Scan(
			&revision.ID,
			&revision.PageID,
			&revision.Version,
			&content,
			&revision.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		if err := decodeContent(content, &revision.Content); err != nil {
			return nil, err
		}
		revisions = append(revisions, revision)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revisions: %w", err)
	}

	return revisions, nil
}

type row interface {
	Scan(dest ...any) error
}

func (r *RevisionRepository) scanOne(rw row) (*models.PageRevision, error) {
	revision := &models.PageRevision{}
	var content []byte

	err := rw.Scan(
		&revision.ID,
		&revision.PageID,
		&revision.Version,
		&content,
		&revision.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get revision: %w", err)
	}

	if err := decodeContent(content, &revision.Content); err != nil {
		return nil, err
	}

	return revision, nil
}

func decodeContent(data []byte, tree *component.Node) error {
	if err := json.Unmarshal(data, tree); err != nil {
		return fmt.Errorf("failed to decode revision content: %w", err)
	}
	return nil
}
