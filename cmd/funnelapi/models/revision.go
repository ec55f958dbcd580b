package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagecraft/funnels/common/component"
)

// PageRevision is an immutable, versioned snapshot of a page's component
// tree. Versions are contiguous from 1 per page; edits append, never mutate.
// Maps to: page_revision table
type PageRevision struct {
	ID        uuid.UUID      `db:"revision_id" json:"id"`
	PageID    uuid.UUID      `db:"page_id" json:"page_id"`
	Version   int            `db:"version" json:"version"`
	Content   component.Node `db:"content" json:"content"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Channel selects which revision of a page to resolve
type Channel string

const (
	// ChannelDraft resolves the highest-version revision
	ChannelDraft Channel = "draft"
	// ChannelPublished resolves the revision the publish pointer names
	ChannelPublished Channel = "published"
)

// ValidChannel reports whether c is a known channel
func ValidChannel(c Channel) bool {
	return c == ChannelDraft || c == ChannelPublished
}
