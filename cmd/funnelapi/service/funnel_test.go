package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/slug"
)

func newFunnelService(funnels *memFunnelStore, pages *memPageStore) *FunnelService {
	log := testLogger()
	return NewFunnelService(funnels, pages, NewSlugAllocator(log), nil, log)
}

func TestCreateFunnelAllocatesSequentialSlugs(t *testing.T) {
	svc := newFunnelService(newMemFunnelStore(), newMemPageStore())
	ctx := context.Background()

	first, err := svc.CreateFunnel(ctx, "team-1", "My Funnel", "", "")
	require.NoError(t, err)
	assert.Equal(t, "my-funnel", first.Slug)
	assert.Equal(t, models.FunnelDraft, first.Status)

	second, err := svc.CreateFunnel(ctx, "team-1", "My Funnel", "", "")
	require.NoError(t, err)
	assert.Equal(t, "my-funnel-1", second.Slug)

	third, err := svc.CreateFunnel(ctx, "team-2", "My Funnel", "", "")
	require.NoError(t, err)
	assert.Equal(t, "my-funnel-2", third.Slug, "slug scope is global across teams")
}

func TestCreateFunnelPrefersRequestedSlug(t *testing.T) {
	svc := newFunnelService(newMemFunnelStore(), newMemPageStore())

	funnel, err := svc.CreateFunnel(context.Background(), "team-1", "Summer Sale 2026", "", "Summer Promo")
	require.NoError(t, err)
	assert.Equal(t, "summer-promo", funnel.Slug)
	assert.Equal(t, "Summer Sale 2026", funnel.Name)
}

func TestCreateFunnelRejectsEmptySlug(t *testing.T) {
	svc := newFunnelService(newMemFunnelStore(), newMemPageStore())

	_, err := svc.CreateFunnel(context.Background(), "team-1", "???", "", "")
	var invalid *slug.InvalidSlugError
	require.ErrorAs(t, err, &invalid)
}

func TestGetFunnelIncludesPagesInOrder(t *testing.T) {
	funnels := newMemFunnelStore()
	pages := newMemPageStore()
	svc := newFunnelService(funnels, pages)
	ctx := context.Background()

	funnel, err := svc.CreateFunnel(ctx, "team-1", "Launch", "", "")
	require.NoError(t, err)

	pageSvc := newPageService(t, funnels, pages, newMemRevisionStore())
	for _, name := range []string{"Sales", "Checkout", "Thanks"} {
		_, err := pageSvc.CreatePage(ctx, funnel.ID, name, models.PageTypeSales, "")
		require.NoError(t, err)
	}

	got, err := svc.GetFunnel(ctx, funnel.ID)
	require.NoError(t, err)
	require.Len(t, got.Pages, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got.Pages[0].Order, got.Pages[1].Order, got.Pages[2].Order})
	assert.Equal(t, "Sales", got.Pages[0].Name)
}

func TestActivateFunnel(t *testing.T) {
	funnels := newMemFunnelStore()
	svc := newFunnelService(funnels, newMemPageStore())
	ctx := context.Background()

	funnel, err := svc.CreateFunnel(ctx, "team-1", "Launch", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Activate(ctx, funnel.ID))

	got, err := funnels.GetByID(ctx, funnel.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FunnelActive, got.Status)
}

func TestListFunnelsIsTeamScoped(t *testing.T) {
	svc := newFunnelService(newMemFunnelStore(), newMemPageStore())
	ctx := context.Background()

	_, err := svc.CreateFunnel(ctx, "team-1", "Alpha", "", "")
	require.NoError(t, err)
	_, err = svc.CreateFunnel(ctx, "team-2", "Beta", "", "")
	require.NoError(t, err)

	mine, err := svc.ListFunnels(ctx, "team-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Alpha", mine[0].Name)
}
