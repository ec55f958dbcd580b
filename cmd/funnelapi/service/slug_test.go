package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/funnels/common/slug"
)

func takenSet(slugs ...string) ScopeExists {
	set := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		set[s] = true
	}
	return func(ctx context.Context, candidate string) (bool, error) {
		return set[candidate], nil
	}
}

func TestAllocateFreeBase(t *testing.T) {
	a := NewSlugAllocator(testLogger())

	got, err := a.Allocate(context.Background(), takenSet(), "My Funnel")
	require.NoError(t, err)
	assert.Equal(t, "my-funnel", got)
}

func TestAllocateNumberedCandidates(t *testing.T) {
	a := NewSlugAllocator(testLogger())
	ctx := context.Background()

	got, err := a.Allocate(ctx, takenSet("my-funnel"), "My Funnel")
	require.NoError(t, err)
	assert.Equal(t, "my-funnel-1", got)

	got, err = a.Allocate(ctx, takenSet("my-funnel", "my-funnel-1"), "My Funnel")
	require.NoError(t, err)
	assert.Equal(t, "my-funnel-2", got)
}

func TestAllocateInvalidName(t *testing.T) {
	a := NewSlugAllocator(testLogger())

	_, err := a.Allocate(context.Background(), takenSet(), "!!!")
	var invalid *slug.InvalidSlugError
	require.ErrorAs(t, err, &invalid)
}

func TestAllocateExhaustsBudget(t *testing.T) {
	a := NewSlugAllocator(testLogger())
	everything := func(ctx context.Context, candidate string) (bool, error) {
		return true, nil
	}

	_, err := a.Allocate(context.Background(), everything, "popular")
	var exhausted *SlugExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, "popular", exhausted.Base)
	assert.Equal(t, maxSlugCandidates, exhausted.Attempts)
}
