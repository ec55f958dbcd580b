package models

import (
	"time"

	"github.com/google/uuid"
)

// PageStatus is the publish state of a page
type PageStatus string

const (
	PageDraft     PageStatus = "draft"
	PagePublished PageStatus = "published"
)

// PageType classifies a page's role inside a funnel
type PageType string

const (
	PageTypeLanding    PageType = "landing"
	PageTypeSales      PageType = "sales"
	PageTypeCheckout   PageType = "checkout"
	PageTypeUpsell     PageType = "upsell"
	PageTypeThankYou   PageType = "thankyou"
	PageTypeWebinar    PageType = "webinar"
	PageTypeMembership PageType = "membership"
)

// ValidPageType reports whether t is a known page type
func ValidPageType(t PageType) bool {
	switch t {
	case PageTypeLanding, PageTypeSales, PageTypeCheckout, PageTypeUpsell,
		PageTypeThankYou, PageTypeWebinar, PageTypeMembership:
		return true
	}
	return false
}

// Page is a single step in a funnel. The slug is unique within its funnel,
// sort_order is unique within its funnel, and the published pointer (when
// set) references one of the page's own revisions.
// Maps to: page table
type Page struct {
	ID                  uuid.UUID  `db:"page_id" json:"id"`
	FunnelID            uuid.UUID  `db:"funnel_id" json:"funnel_id"`
	Name                string     `db:"name" json:"name"`
	Slug                string     `db:"slug" json:"slug"`
	Path                string     `db:"path" json:"path"`
	Type                PageType   `db:"page_type" json:"type"`
	Order               int        `db:"sort_order" json:"order"`
	Status              PageStatus `db:"status" json:"status"`
	PublishedRevisionID *uuid.UUID `db:"published_revision_id" json:"published_revision_id,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
}

// IsPublished reports whether the page has a live revision
func (p *Page) IsPublished() bool {
	return p.Status == PagePublished && p.PublishedRevisionID != nil
}
