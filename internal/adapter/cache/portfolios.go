package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-folio/internal/domain"

	"github.com/redis/go-redis/v9"
)

const portfolioPrefix = "folio:portfolio:slug:"

// RedisPortfolios caches published portfolio records by slug.
type RedisPortfolios struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPortfolios(client *redis.Client, ttl time.Duration) *RedisPortfolios {
	return &RedisPortfolios{client: client, ttl: ttl}
}

func portfolioKey(slug string) string { return portfolioPrefix + slug }

// Get returns nil, nil on a miss.
func (r *RedisPortfolios) Get(ctx context.Context, slug string) (*domain.Record, error) {
	b, err := r.client.Get(ctx, portfolioKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting portfolio %q from cache: %w", slug, err)
	}
	var rec domain.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("error decoding cached portfolio %q: %w", slug, err)
	}
	return &rec, nil
}

func (r *RedisPortfolios) Set(ctx context.Context, rec *domain.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error encoding portfolio %q: %w", rec.Slug, err)
	}
	if err := r.client.Set(ctx, portfolioKey(rec.Slug), b, r.ttl).Err(); err != nil {
		return fmt.Errorf("error caching portfolio %q: %w", rec.Slug, err)
	}
	return nil
}

func (r *RedisPortfolios) Invalidate(ctx context.Context, slug string) error {
	if err := r.client.Del(ctx, portfolioKey(slug)).Err(); err != nil {
		return fmt.Errorf("error deleting key %s: %w", portfolioKey(slug), err)
	}
	return nil
}
