package models

import (
	"time"

	"github.com/google/uuid"
)

// FunnelStatus is the lifecycle state of a funnel
type FunnelStatus string

const (
	FunnelDraft  FunnelStatus = "draft"
	FunnelActive FunnelStatus = "active"
)

// Funnel is a named, ordered collection of pages representing one marketing
// flow. Owned by a team; the slug is globally unique.
// Maps to: funnel table
type Funnel struct {
	ID          uuid.UUID    `db:"funnel_id" json:"id"`
	TeamID      string       `db:"team_id" json:"team_id"`
	Name        string       `db:"name" json:"name"`
	Slug        string       `db:"slug" json:"slug"`
	Description string       `db:"description" json:"description,omitempty"`
	Status      FunnelStatus `db:"status" json:"status"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`

	// Pages in sort order, populated on detail reads
	Pages []*Page `db:"-" json:"pages,omitempty"`
}
