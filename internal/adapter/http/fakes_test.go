package http

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"ai-folio/internal/adapter/auth"
	"ai-folio/internal/domain"

	"github.com/google/uuid"
)

type memRecords struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]domain.Record
	failKind domain.Kind
}

func newMemRecords() *memRecords { return &memRecords{rows: map[uuid.UUID]domain.Record{}} }

var errDown = errors.New("store down")

func (m *memRecords) Create(_ context.Context, r *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Kind == m.failKind {
		return errDown
	}
	for _, row := range m.rows {
		if r.Kind == domain.KindPortfolio && row.Kind == domain.KindPortfolio && row.Slug == r.Slug {
			return domain.ErrSlugTaken
		}
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.rows[r.ID] = *r
	return nil
}

func (m *memRecords) Update(_ context.Context, r *domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Kind == m.failKind {
		return errDown
	}
	old, ok := m.rows[r.ID]
	if !ok || old.UserID != r.UserID {
		return domain.ErrNotFound
	}
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = time.Now()
	m.rows[r.ID] = *r
	return nil
}

func (m *memRecords) Get(_ context.Context, kind domain.Kind, id, userID uuid.UUID) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Kind != kind || row.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

func (m *memRecords) List(_ context.Context, kind domain.Kind, userID uuid.UUID) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Record
	for _, row := range m.rows {
		if row.Kind == kind && row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *memRecords) Delete(_ context.Context, kind domain.Kind, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || row.Kind != kind || row.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRecords) GetPublishedBySlug(_ context.Context, slug string) (*domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Kind == domain.KindPortfolio && row.Slug == slug && row.IsPublished {
			return &row, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeAuth accepts one token per known user.
type fakeAuth struct {
	tokens map[string]uuid.UUID
}

func (f *fakeAuth) SignUp(email, password, fullName string) (*auth.User, *auth.Session, error) {
	if email == "taken@example.com" {
		return nil, nil, &auth.ProviderError{Message: "User already registered"}
	}
	u := auth.User{ID: uuid.New(), Email: email, FullName: fullName}
	return &u, nil, nil
}

func (f *fakeAuth) SignIn(email, password string) (*auth.Session, error) {
	if password != "correct-horse" {
		return nil, &auth.ProviderError{Message: "Invalid login credentials"}
	}
	return &auth.Session{AccessToken: "token-1", User: auth.User{ID: uuid.New(), Email: email}}, nil
}

func (f *fakeAuth) Verify(token string) (*auth.User, error) {
	id, ok := f.tokens[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.User{ID: id}, nil
}

type fakeExporter struct {
	pdf []byte
	err error
}

func (f *fakeExporter) Export(context.Context, string) ([]byte, error) { return f.pdf, f.err }
