package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-folio/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// RecordsRepo stores resumes and portfolios in Postgres, one table per kind.
type RecordsRepo struct {
	pool *pgxpool.Pool
}

func NewRecordsRepo(pool *pgxpool.Pool) *RecordsRepo {
	return &RecordsRepo{pool: pool}
}

// selectColumns lines both tables up on the same scan order.
func selectColumns(kind domain.Kind) string {
	if kind == domain.KindPortfolio {
		return "id, user_id, title, template, data, slug, is_published, created_at, updated_at"
	}
	return "id, user_id, title, template, data, '' AS slug, false AS is_published, created_at, updated_at"
}

func scanRecord(row pgx.Row, kind domain.Kind) (*domain.Record, error) {
	var (
		r    domain.Record
		data []byte
	)
	if err := row.Scan(&r.ID, &r.UserID, &r.Title, &r.Template, &data, &r.Slug, &r.IsPublished, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	r.Kind = kind
	r.Data = data
	return &r, nil
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrSlugTaken, pgErr.ConstraintName)
	}
	return err
}

func (r *RecordsRepo) Create(ctx context.Context, rec *domain.Record) error {
	if !rec.Kind.Valid() {
		return fmt.Errorf("unknown record kind %q", rec.Kind)
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	var err error
	if rec.Kind == domain.KindPortfolio {
		_, err = r.pool.Exec(ctx, `INSERT INTO portfolios (id, user_id, title, template, data, slug, is_published, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			rec.ID, rec.UserID, rec.Title, rec.Template, []byte(rec.Data), rec.Slug, rec.IsPublished, rec.CreatedAt, rec.UpdatedAt)
	} else {
		_, err = r.pool.Exec(ctx, `INSERT INTO resumes (id, user_id, title, template, data, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			rec.ID, rec.UserID, rec.Title, rec.Template, []byte(rec.Data), rec.CreatedAt, rec.UpdatedAt)
	}
	if err != nil {
		return mapErr(err)
	}
	return nil
}

// Update rewrites the mutable columns of the caller's record.
func (r *RecordsRepo) Update(ctx context.Context, rec *domain.Record) error {
	rec.UpdatedAt = time.Now().UTC()

	var row pgx.Row
	if rec.Kind == domain.KindPortfolio {
		row = r.pool.QueryRow(ctx, `UPDATE portfolios SET title = $3, template = $4, data = $5, slug = $6, is_published = $7, updated_at = $8
			WHERE id = $1 AND user_id = $2 RETURNING created_at`,
			rec.ID, rec.UserID, rec.Title, rec.Template, []byte(rec.Data), rec.Slug, rec.IsPublished, rec.UpdatedAt)
	} else {
		row = r.pool.QueryRow(ctx, `UPDATE resumes SET title = $3, template = $4, data = $5, updated_at = $6
			WHERE id = $1 AND user_id = $2 RETURNING created_at`,
			rec.ID, rec.UserID, rec.Title, rec.Template, []byte(rec.Data), rec.UpdatedAt)
	}
	if err := row.Scan(&rec.CreatedAt); err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *RecordsRepo) Get(ctx context.Context, kind domain.Kind, id, userID uuid.UUID) (*domain.Record, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND user_id = $2", selectColumns(kind), kind.Table())
	return scanRecord(r.pool.QueryRow(ctx, q, id, userID), kind)
}

func (r *RecordsRepo) List(ctx context.Context, kind domain.Kind, userID uuid.UUID) ([]domain.Record, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = $1 ORDER BY updated_at DESC", selectColumns(kind), kind.Table())
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) Delete(ctx context.Context, kind domain.Kind, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND user_id = $2", kind.Table()), id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecordsRepo) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Record, error) {
	q := fmt.Sprintf("SELECT %s FROM portfolios WHERE slug = $1 AND is_published", selectColumns(domain.KindPortfolio))
	return scanRecord(r.pool.QueryRow(ctx, q, slug), domain.KindPortfolio)
}
