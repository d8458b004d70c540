// Package cache keeps wizard drafts and published portfolios in Redis, with
// an in-process draft store for single-instance deployments.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-folio/internal/domain"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

const draftPrefix = "folio:draft:"

// RedisDrafts stores each draft as JSON under folio:draft:<id>. Every write
// refreshes the TTL.
type RedisDrafts struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDrafts(client *redis.Client, ttl time.Duration) *RedisDrafts {
	return &RedisDrafts{client: client, ttl: ttl}
}

func draftKey(id uuid.UUID) string { return draftPrefix + id.String() }

func (r *RedisDrafts) Get(ctx context.Context, id uuid.UUID) (*domain.Draft, error) {
	b, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting draft %s: %w", id, err)
	}
	var d domain.Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("error decoding draft %s: %w", id, err)
	}
	return &d, nil
}

func (r *RedisDrafts) Put(ctx context.Context, d *domain.Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("error encoding draft %s: %w", d.ID, err)
	}
	if err := r.client.Set(ctx, draftKey(d.ID), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("error saving draft %s: %w", d.ID, err)
	}
	return nil
}

func (r *RedisDrafts) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("error deleting draft %s: %w", id, err)
	}
	return nil
}

// MemoryDrafts keeps drafts in process with the same TTL behavior as
// RedisDrafts. Expired drafts are evicted in the background whether or not
// they are read again.
type MemoryDrafts struct {
	rows *expirable.LRU[uuid.UUID, domain.Draft]
}

// NewMemoryDrafts holds an unbounded number of drafts. A ttl <= 0 keeps
// them until deleted.
func NewMemoryDrafts(ttl time.Duration) *MemoryDrafts {
	return &MemoryDrafts{rows: expirable.NewLRU[uuid.UUID, domain.Draft](0, nil, ttl)}
}

func (m *MemoryDrafts) Get(_ context.Context, id uuid.UUID) (*domain.Draft, error) {
	d, ok := m.rows.Get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	d.Profile = d.Profile.Clone()
	return &d, nil
}

func (m *MemoryDrafts) Put(_ context.Context, d *domain.Draft) error {
	cp := *d
	cp.Profile = d.Profile.Clone()
	m.rows.Add(d.ID, cp)
	return nil
}

func (m *MemoryDrafts) Delete(_ context.Context, id uuid.UUID) error {
	m.rows.Remove(id)
	return nil
}

// Len is the number of drafts currently held, expired or not yet evicted.
func (m *MemoryDrafts) Len() int { return m.rows.Len() }
