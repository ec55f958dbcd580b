package service

import (
	"context"
	"fmt"

	"github.com/pagecraft/funnels/common/logger"
	"github.com/pagecraft/funnels/common/slug"
)

// maxSlugCandidates bounds the probe sequence base, base-1, base-2, ...
const maxSlugCandidates = 100

// ScopeExists probes a slug for a collision within one uniqueness scope:
// global for funnels, funnel-scoped for pages.
type ScopeExists func(ctx context.Context, slug string) (bool, error)

// SlugAllocator turns display names into unique slugs within a scope.
// Allocation is probe-based; the database unique constraint is the real
// arbiter, so callers run Allocate plus their insert inside a
// retry-on-conflict loop.
type SlugAllocator struct {
	log *logger.Logger
}

// NewSlugAllocator creates a new slug allocator
func NewSlugAllocator(log *logger.Logger) *SlugAllocator {
	return &SlugAllocator{log: log}
}

// Allocate sanitizes name and returns the first candidate not present in
// the scope. Returns slug.InvalidSlugError when name reduces to nothing and
// SlugExhaustedError when the candidate budget runs out.
func (a *SlugAllocator) Allocate(ctx context.Context, exists ScopeExists, name string) (string, error) {
	base, err := slug.Sanitize(name)
	if err != nil {
		return "", err
	}

	for n := 0; n < maxSlugCandidates; n++ {
		candidate := slug.Candidate(base, n)

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to probe slug %q: %w", candidate, err)
		}
		if !taken {
			if n > 0 {
				a.log.Debug("slug base taken, using numbered candidate",
					"base", base, "slug", candidate)
			}
			return candidate, nil
		}
	}

	return "", &SlugExhaustedError{Base: base, Attempts: maxSlugCandidates}
}
