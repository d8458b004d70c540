package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-folio/internal/domain"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

// Tables is satisfied by both *supabase.Client and *postgrest.Client.
type Tables interface {
	From(table string) *postgrest.QueryBuilder
}

// SupabaseRepo stores records through the PostgREST API. It expects a
// service-role key and scopes every query by user_id itself.
type SupabaseRepo struct {
	db Tables
}

func NewSupabaseRepo(db Tables) *SupabaseRepo {
	return &SupabaseRepo{db: db}
}

type supabaseRow struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	Template    string          `json:"template"`
	Data        json.RawMessage `json:"data"`
	Slug        *string         `json:"slug,omitempty"`
	IsPublished *bool           `json:"is_published,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toRow(rec *domain.Record) supabaseRow {
	row := supabaseRow{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Title:     rec.Title,
		Template:  rec.Template,
		Data:      rec.Data,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Kind == domain.KindPortfolio {
		row.Slug = &rec.Slug
		row.IsPublished = &rec.IsPublished
	}
	return row
}

func (row supabaseRow) record(kind domain.Kind) domain.Record {
	rec := domain.Record{
		ID:        row.ID,
		UserID:    row.UserID,
		Kind:      kind,
		Title:     row.Title,
		Template:  row.Template,
		Data:      row.Data,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.Slug != nil {
		rec.Slug = *row.Slug
	}
	if row.IsPublished != nil {
		rec.IsPublished = *row.IsPublished
	}
	return rec
}

// mapRestErr translates PostgREST's "(code) message" errors.
func mapRestErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "("+uniqueViolation+")"):
		return fmt.Errorf("%w: %s", domain.ErrSlugTaken, msg)
	case strings.HasPrefix(msg, "(PGRST116)"):
		return domain.ErrNotFound
	}
	return err
}

func first(rows []supabaseRow, kind domain.Kind) (*domain.Record, error) {
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	rec := rows[0].record(kind)
	return &rec, nil
}

func (s *SupabaseRepo) Create(_ context.Context, rec *domain.Record) error {
	if !rec.Kind.Valid() {
		return fmt.Errorf("unknown record kind %q", rec.Kind)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	var rows []supabaseRow
	if _, err := s.db.From(rec.Kind.Table()).Insert(toRow(rec), false, "", "representation", "").ExecuteTo(&rows); err != nil {
		return mapRestErr(err)
	}
	if len(rows) > 0 {
		rec.CreatedAt, rec.UpdatedAt = rows[0].CreatedAt, rows[0].UpdatedAt
	}
	return nil
}

func (s *SupabaseRepo) Update(_ context.Context, rec *domain.Record) error {
	rec.UpdatedAt = time.Now().UTC()
	patch := map[string]interface{}{
		"title":      rec.Title,
		"template":   rec.Template,
		"data":       rec.Data,
		"updated_at": rec.UpdatedAt,
	}
	if rec.Kind == domain.KindPortfolio {
		patch["slug"] = rec.Slug
		patch["is_published"] = rec.IsPublished
	}

	var rows []supabaseRow
	_, err := s.db.From(rec.Kind.Table()).
		Update(patch, "representation", "").
		Eq("id", rec.ID.String()).
		Eq("user_id", rec.UserID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return mapRestErr(err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	rec.CreatedAt = rows[0].CreatedAt
	return nil
}

func (s *SupabaseRepo) Get(_ context.Context, kind domain.Kind, id, userID uuid.UUID) (*domain.Record, error) {
	var rows []supabaseRow
	_, err := s.db.From(kind.Table()).
		Select("*", "", false).
		Eq("id", id.String()).
		Eq("user_id", userID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapRestErr(err)
	}
	return first(rows, kind)
}

func (s *SupabaseRepo) List(_ context.Context, kind domain.Kind, userID uuid.UUID) ([]domain.Record, error) {
	var rows []supabaseRow
	_, err := s.db.From(kind.Table()).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapRestErr(err)
	}
	out := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record(kind))
	}
	return out, nil
}

func (s *SupabaseRepo) Delete(_ context.Context, kind domain.Kind, id, userID uuid.UUID) error {
	var rows []supabaseRow
	_, err := s.db.From(kind.Table()).
		Delete("representation", "").
		Eq("id", id.String()).
		Eq("user_id", userID.String()).
		ExecuteTo(&rows)
	if err != nil {
		return mapRestErr(err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SupabaseRepo) GetPublishedBySlug(_ context.Context, slug string) (*domain.Record, error) {
	var rows []supabaseRow
	_, err := s.db.From(domain.KindPortfolio.Table()).
		Select("*", "", false).
		Eq("slug", slug).
		Eq("is_published", "true").
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, mapRestErr(err)
	}
	return first(rows, domain.KindPortfolio)
}
