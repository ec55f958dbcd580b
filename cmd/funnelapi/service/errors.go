package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNoContent means a page has no revisions yet
var ErrNoContent = errors.New("page has no content revisions")

// ErrNoPublishedContent means the published channel was requested for a
// page whose publish pointer is unset
var ErrNoPublishedContent = errors.New("page has no published content")

// ErrTemplateNotFound means the requested template id is not in the catalog
var ErrTemplateNotFound = errors.New("template not found")

// SlugExhaustedError means the candidate budget ran out before a free slug
// was found. Should be unreachable under retry-on-conflict; treated as an
// internal error.
type SlugExhaustedError struct {
	Base     string
	Attempts int
}

func (e *SlugExhaustedError) Error() string {
	return fmt.Sprintf("no free slug for %q after %d candidates", e.Base, e.Attempts)
}

// RevisionConflictError means concurrent editors kept colliding on the next
// version number past the retry budget. Transient; the caller may retry.
type RevisionConflictError struct {
	PageID uuid.UUID
	Err    error
}

func (e *RevisionConflictError) Error() string {
	return fmt.Sprintf("revision version conflict on page %s: %v", e.PageID, e.Err)
}

func (e *RevisionConflictError) Unwrap() error { return e.Err }

// PublishTargetMismatchError means a publish named a revision owned by a
// different page. Rejected with no mutation.
type PublishTargetMismatchError struct {
	PageID     uuid.UUID
	RevisionID uuid.UUID
}

func (e *PublishTargetMismatchError) Error() string {
	return fmt.Sprintf("revision %s does not belong to page %s", e.RevisionID, e.PageID)
}

// TemplateInstantiationError names exactly which page definition failed.
// Already created rows are left in place for caller-driven cleanup; the
// engine fails loud instead of rolling back.
type TemplateInstantiationError struct {
	TemplateID string
	PageIndex  int
	PageName   string
	Err        error
}

func (e *TemplateInstantiationError) Error() string {
	return fmt.Sprintf("instantiating template %s failed at page %d (%q): %v",
		e.TemplateID, e.PageIndex, e.PageName, e.Err)
}

func (e *TemplateInstantiationError) Unwrap() error { return e.Err }
