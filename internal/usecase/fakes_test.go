package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ai-folio/internal/domain"

	"github.com/google/uuid"
)

type fakeRecords struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]domain.Record
	clock   time.Time
	failOn  map[domain.Kind]error
	creates int
	updates int
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{
		rows:   map[uuid.UUID]domain.Record{},
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		failOn: map[domain.Kind]error{},
	}
}

func (f *fakeRecords) tick() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func (f *fakeRecords) slugTaken(slug string, except uuid.UUID) bool {
	for id, r := range f.rows {
		if r.Kind == domain.KindPortfolio && r.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (f *fakeRecords) Create(_ context.Context, r *domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[r.Kind]; err != nil {
		return err
	}
	if r.Kind == domain.KindPortfolio && f.slugTaken(r.Slug, uuid.Nil) {
		return domain.ErrSlugTaken
	}
	f.creates++
	r.ID = uuid.New()
	r.CreatedAt = f.tick()
	r.UpdatedAt = r.CreatedAt
	f.rows[r.ID] = *r
	return nil
}

func (f *fakeRecords) Update(_ context.Context, r *domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[r.Kind]; err != nil {
		return err
	}
	old, ok := f.rows[r.ID]
	if !ok || old.UserID != r.UserID || old.Kind != r.Kind {
		return domain.ErrNotFound
	}
	if r.Kind == domain.KindPortfolio && f.slugTaken(r.Slug, r.ID) {
		return domain.ErrSlugTaken
	}
	f.updates++
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = f.tick()
	f.rows[r.ID] = *r
	return nil
}

func (f *fakeRecords) Get(_ context.Context, kind domain.Kind, id, userID uuid.UUID) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.Kind != kind || r.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRecords) List(_ context.Context, kind domain.Kind, userID uuid.UUID) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Record{}
	for _, r := range f.rows {
		if r.Kind == kind && r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeRecords) Delete(_ context.Context, kind domain.Kind, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok || r.Kind != kind || r.UserID != userID {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRecords) GetPublishedBySlug(_ context.Context, slug string) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.Kind == domain.KindPortfolio && r.Slug == slug && r.IsPublished {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeDrafts struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domain.Draft
}

func newFakeDrafts() *fakeDrafts { return &fakeDrafts{rows: map[uuid.UUID]domain.Draft{}} }

func (f *fakeDrafts) Get(_ context.Context, id uuid.UUID) (*domain.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	d.Profile = d.Profile.Clone()
	return &d, nil
}

func (f *fakeDrafts) Put(_ context.Context, d *domain.Draft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *d
	cp.Profile = d.Profile.Clone()
	f.rows[d.ID] = cp
	return nil
}

func (f *fakeDrafts) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, ev domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeEvents) types() []domain.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.EventType{}
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeCache struct {
	mu          sync.Mutex
	rows        map[string]domain.Record
	invalidated []string
	getErr      error
	beforeSet   func()
}

func newFakeCache() *fakeCache { return &fakeCache{rows: map[string]domain.Record{}} }

func (f *fakeCache) Get(_ context.Context, slug string) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.rows[slug]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (f *fakeCache) Set(_ context.Context, r *domain.Record) error {
	if hook := f.beforeSet; hook != nil {
		f.beforeSet = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[r.Slug] = *r
	return nil
}

func (f *fakeCache) has(slug string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[slug]
	return ok
}

func (f *fakeCache) Invalidate(_ context.Context, slug string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, slug)
	f.invalidated = append(f.invalidated, slug)
	return nil
}

type fakeExporter struct {
	pdf  []byte
	err  error
	html string
}

func (f *fakeExporter) Export(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return f.pdf, f.err
}

var errStoreDown = errors.New("store down")
