package usecase

import (
	"context"

	"ai-folio/internal/domain"

	"github.com/google/uuid"
)

// Records persists resumes and portfolios. Implementations scope every
// lookup by owner except GetPublishedBySlug.
type Records interface {
	Create(ctx context.Context, r *domain.Record) error
	Update(ctx context.Context, r *domain.Record) error
	Get(ctx context.Context, kind domain.Kind, id, userID uuid.UUID) (*domain.Record, error)
	List(ctx context.Context, kind domain.Kind, userID uuid.UUID) ([]domain.Record, error)
	Delete(ctx context.Context, kind domain.Kind, id, userID uuid.UUID) error
	GetPublishedBySlug(ctx context.Context, slug string) (*domain.Record, error)
}

// Exporter turns rendered resume HTML into PDF bytes. It returns
// domain.ErrEmptyView when there is nothing to capture.
type Exporter interface {
	Export(ctx context.Context, html string) ([]byte, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

// PortfolioCache holds published portfolio records by slug. Get returns
// nil, nil on a miss.
type PortfolioCache interface {
	Get(ctx context.Context, slug string) (*domain.Record, error)
	Set(ctx context.Context, r *domain.Record) error
	Invalidate(ctx context.Context, slug string) error
}

type DraftStore interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Draft, error)
	Put(ctx context.Context, d *domain.Draft) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.Event) error { return nil }

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*domain.Record, error) { return nil, nil }
func (noopCache) Set(context.Context, *domain.Record) error           { return nil }
func (noopCache) Invalidate(context.Context, string) error            { return nil }
