package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/component"
)

func seedPage(t *testing.T, pages *memPageStore) *models.Page {
	t.Helper()

	page := &models.Page{
		ID:        uuid.Must(uuid.NewV7()),
		FunnelID:  uuid.Must(uuid.NewV7()),
		Name:      "Opt In",
		Slug:      "opt-in",
		Path:      "/launch/opt-in",
		Type:      models.PageTypeLanding,
		Order:     1,
		Status:    models.PageDraft,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, pages.Create(context.Background(), page))
	return page
}

func heroTree(title string) component.Node {
	return component.Node{
		Type:  component.KindHero,
		Props: &component.HeroProps{Title: title},
	}
}

func TestCreateRevisionVersionsAreSequential(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)

	first, err := svc.CreateRevision(ctx, page.ID, heroTree("v1"))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)

	second, err := svc.CreateRevision(ctx, page.ID, heroTree("v2"))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	// The first revision is untouched
	got, err := revisions.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Content.Props.(*component.HeroProps).Title)
}

func TestCreateRevisionRetriesVersionRace(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)

	// A competing editor lands version 1 between our read and insert
	raced := false
	revisions.createHook = func() {
		if raced {
			return
		}
		raced = true
		revisions.insert(&models.PageRevision{
			ID:      uuid.Must(uuid.NewV7()),
			PageID:  page.ID,
			Version: 1,
			Content: heroTree("raced"),
		})
	}

	revision, err := svc.CreateRevision(ctx, page.ID, heroTree("ours"))
	require.NoError(t, err)
	assert.Equal(t, 2, revision.Version, "retry recomputes against committed state")
}

func TestCreateRevisionConflictExhaustion(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)

	// Every attempt loses the race
	version := 0
	revisions.createHook = func() {
		version++
		revisions.insert(&models.PageRevision{
			ID:      uuid.Must(uuid.NewV7()),
			PageID:  page.ID,
			Version: version,
			Content: heroTree("raced"),
		})
	}

	_, err := svc.CreateRevision(ctx, page.ID, heroTree("ours"))
	var conflict *RevisionConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, page.ID, conflict.PageID)
}

func TestPublishMovesPointer(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)
	first, err := svc.CreateRevision(ctx, page.ID, heroTree("v1"))
	require.NoError(t, err)
	second, err := svc.CreateRevision(ctx, page.ID, heroTree("v2"))
	require.NoError(t, err)

	published, err := svc.Publish(ctx, page.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PagePublished, published.Status)
	require.NotNil(t, published.PublishedRevisionID)
	assert.Equal(t, first.ID, *published.PublishedRevisionID)

	// Re-point at the newer revision
	published, err = svc.Publish(ctx, page.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *published.PublishedRevisionID)
}

func TestPublishRejectsForeignRevision(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)
	other := seedPage(t, pages)

	foreign, err := svc.CreateRevision(ctx, other.ID, heroTree("theirs"))
	require.NoError(t, err)

	_, err = svc.Publish(ctx, page.ID, foreign.ID)
	var mismatch *PublishTargetMismatchError
	require.ErrorAs(t, err, &mismatch)

	// No mutation happened
	got, err := pages.GetByID(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PageDraft, got.Status)
	assert.Nil(t, got.PublishedRevisionID)
}

func TestPublishLatest(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)

	_, err := svc.PublishLatest(ctx, page.ID)
	require.ErrorIs(t, err, ErrNoContent, "nothing to publish yet")

	_, err = svc.CreateRevision(ctx, page.ID, heroTree("v1"))
	require.NoError(t, err)
	latest, err := svc.CreateRevision(ctx, page.ID, heroTree("v2"))
	require.NoError(t, err)

	published, err := svc.PublishLatest(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, *published.PublishedRevisionID)
}

func TestUnpublishClearsPointer(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)
	_, err := svc.CreateRevision(ctx, page.ID, heroTree("v1"))
	require.NoError(t, err)
	_, err = svc.PublishLatest(ctx, page.ID)
	require.NoError(t, err)

	unpublished, err := svc.Unpublish(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PageDraft, unpublished.Status)
	assert.Nil(t, unpublished.PublishedRevisionID)

	got, err := pages.GetByID(ctx, page.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PublishedRevisionID)
}

func TestResolveContentChannels(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)

	_, err := svc.ResolveContent(ctx, page, models.ChannelDraft)
	require.ErrorIs(t, err, ErrNoContent)
	_, err = svc.ResolveContent(ctx, page, models.ChannelPublished)
	require.ErrorIs(t, err, ErrNoPublishedContent)

	v1, err := svc.CreateRevision(ctx, page.ID, heroTree("v1"))
	require.NoError(t, err)
	_, err = svc.Publish(ctx, page.ID, v1.ID)
	require.NoError(t, err)
	v2, err := svc.CreateRevision(ctx, page.ID, heroTree("v2"))
	require.NoError(t, err)

	page, err = pages.GetByID(ctx, page.ID)
	require.NoError(t, err)

	draft, err := svc.ResolveContent(ctx, page, models.ChannelDraft)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, draft.ID, "draft sees the newest revision")

	published, err := svc.ResolveContent(ctx, page, models.ChannelPublished)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, published.ID, "published sees the pointer target")
}

func TestListRevisionsNewestFirst(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)
	for _, title := range []string{"v1", "v2", "v3"} {
		_, err := svc.CreateRevision(ctx, page.ID, heroTree(title))
		require.NoError(t, err)
	}

	history, err := svc.ListRevisions(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{history[0].Version, history[1].Version, history[2].Version})
}

func TestGetRevisionChecksOwnership(t *testing.T) {
	revisions := newMemRevisionStore()
	pages := newMemPageStore()
	svc := NewRevisionService(revisions, pages, nil, testLogger())
	ctx := context.Background()

	page := seedPage(t, pages)
	other := seedPage(t, pages)

	revision, err := svc.CreateRevision(ctx, page.ID, heroTree("v1"))
	require.NoError(t, err)

	got, err := svc.GetRevision(ctx, page.ID, revision.ID)
	require.NoError(t, err)
	assert.Equal(t, revision.ID, got.ID)

	_, err = svc.GetRevision(ctx, other.ID, revision.ID)
	var mismatch *PublishTargetMismatchError
	require.ErrorAs(t, err, &mismatch)
}
