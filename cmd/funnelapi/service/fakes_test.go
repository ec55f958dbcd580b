package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pagecraft/funnels/cmd/funnelapi/models"
	"github.com/pagecraft/funnels/common/logger"
)

func testLogger() *logger.Logger {
	return logger.New("error", "json")
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// memFunnelStore is an in-memory funnelStore enforcing the global slug
// constraint the way the database does
type memFunnelStore struct {
	mu      sync.Mutex
	funnels map[uuid.UUID]*models.Funnel
}

func newMemFunnelStore() *memFunnelStore {
	return &memFunnelStore{funnels: make(map[uuid.UUID]*models.Funnel)}
}

func (s *memFunnelStore) Create(ctx context.Context, funnel *models.Funnel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.funnels {
		if f.Slug == funnel.Slug {
			return uniqueViolation()
		}
	}
	clone := *funnel
	s.funnels[funnel.ID] = &clone
	return nil
}

func (s *memFunnelStore) GetByID(ctx context.Context, funnelID uuid.UUID) (*models.Funnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.funnels[funnelID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *f
	return &clone, nil
}

func (s *memFunnelStore) ListByTeam(ctx context.Context, teamID string) ([]*models.Funnel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Funnel
	for _, f := range s.funnels {
		if f.TeamID == teamID {
			clone := *f
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *memFunnelStore) UpdateStatus(ctx context.Context, funnelID uuid.UUID, status models.FunnelStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.funnels[funnelID]
	if !ok {
		return pgx.ErrNoRows
	}
	f.Status = status
	return nil
}

func (s *memFunnelStore) Delete(ctx context.Context, funnelID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.funnels[funnelID]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.funnels, funnelID)
	return nil
}

func (s *memFunnelStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.funnels {
		if f.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// memPageStore is an in-memory pageStore enforcing the per-funnel slug and
// order constraints
type memPageStore struct {
	mu    sync.Mutex
	pages map[uuid.UUID]*models.Page
}

func newMemPageStore() *memPageStore {
	return &memPageStore{pages: make(map[uuid.UUID]*models.Page)}
}

func (s *memPageStore) Create(ctx context.Context, page *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.FunnelID != page.FunnelID {
			continue
		}
		if p.Slug == page.Slug || p.Order == page.Order {
			return uniqueViolation()
		}
	}
	clone := *page
	s.pages[page.ID] = &clone
	return nil
}

func (s *memPageStore) GetByID(ctx context.Context, pageID uuid.UUID) (*models.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[pageID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *p
	return &clone, nil
}

func (s *memPageStore) ListByFunnel(ctx context.Context, funnelID uuid.UUID) ([]*models.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Page
	for _, p := range s.pages {
		if p.FunnelID == funnelID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *memPageStore) UpdateMeta(ctx context.Context, page *models.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.pages[page.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, p := range s.pages {
		if p.ID == page.ID || p.FunnelID != page.FunnelID {
			continue
		}
		if p.Slug == page.Slug || p.Order == page.Order {
			return uniqueViolation()
		}
	}
	stored.Name = page.Name
	stored.Slug = page.Slug
	stored.Path = page.Path
	stored.Order = page.Order
	return nil
}

func (s *memPageStore) SetPublished(ctx context.Context, pageID uuid.UUID, revisionID *uuid.UUID, status models.PageStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[pageID]
	if !ok {
		return pgx.ErrNoRows
	}
	p.PublishedRevisionID = revisionID
	p.Status = status
	return nil
}

func (s *memPageStore) MaxOrder(ctx context.Context, funnelID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, p := range s.pages {
		if p.FunnelID == funnelID && p.Order > max {
			max = p.Order
		}
	}
	return max, nil
}

func (s *memPageStore) Delete(ctx context.Context, pageID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[pageID]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.pages, pageID)
	return nil
}

func (s *memPageStore) SlugExists(ctx context.Context, funnelID uuid.UUID, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.FunnelID == funnelID && p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

// memRevisionStore is an in-memory revisionStore enforcing the
// (page_id, version) constraint. createHook, when set, runs before each
// insert so tests can inject races.
type memRevisionStore struct {
	mu         sync.Mutex
	revisions  map[uuid.UUID]*models.PageRevision
	createHook func()
}

func newMemRevisionStore() *memRevisionStore {
	return &memRevisionStore{revisions: make(map[uuid.UUID]*models.PageRevision)}
}

func (s *memRevisionStore) Create(ctx context.Context, revision *models.PageRevision) error {
	if s.createHook != nil {
		s.createHook()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.revisions {
		if r.PageID == revision.PageID && r.Version == revision.Version {
			return uniqueViolation()
		}
	}
	clone := *revision
	s.revisions[revision.ID] = &clone
	return nil
}

// insert bypasses the hook, for test setup and race injection
func (s *memRevisionStore) insert(revision *models.PageRevision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *revision
	s.revisions[revision.ID] = &clone
}

func (s *memRevisionStore) GetByID(ctx context.Context, revisionID uuid.UUID) (*models.PageRevision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.revisions[revisionID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *r
	return &clone, nil
}

func (s *memRevisionStore) Latest(ctx context.Context, pageID uuid.UUID) (*models.PageRevision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.PageRevision
	for _, r := range s.revisions {
		if r.PageID == pageID && (latest == nil || r.Version > latest.Version) {
			latest = r
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	clone := *latest
	return &clone, nil
}

func (s *memRevisionStore) MaxVersion(ctx context.Context, pageID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := 0
	for _, r := range s.revisions {
		if r.PageID == pageID && r.Version > max {
			max = r.Version
		}
	}
	return max, nil
}

func (s *memRevisionStore) ListByPage(ctx context.Context, pageID uuid.UUID) ([]*models.PageRevision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PageRevision
	for _, r := range s.revisions {
		if r.PageID == pageID {
			clone := *r
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}
