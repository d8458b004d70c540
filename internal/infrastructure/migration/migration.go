package migration

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration is one idempotent schema step.
type Migration struct {
	Name string
	SQL  string
}

// Migrations lists the schema steps in the order they are applied.
var Migrations = []Migration{
	{
		Name: "create_resumes",
		SQL: `CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			template TEXT NOT NULL DEFAULT 'classic-ats',
			data JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "create_portfolios",
		SQL: `CREATE TABLE IF NOT EXISTS portfolios (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			template TEXT NOT NULL DEFAULT 'minimal-ai',
			data JSONB NOT NULL DEFAULT '{}'::jsonb,
			slug TEXT NOT NULL,
			is_published BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		Name: "unique_portfolio_slug",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS portfolios_slug_key ON portfolios (slug)`,
	},
	{
		Name: "index_resumes_user_updated",
		SQL:  `CREATE INDEX IF NOT EXISTS resumes_user_updated_idx ON resumes (user_id, updated_at DESC)`,
	},
	{
		Name: "index_portfolios_user_updated",
		SQL:  `CREATE INDEX IF NOT EXISTS portfolios_user_updated_idx ON portfolios (user_id, updated_at DESC)`,
	},
}

// RunMigrations executes all schema steps on startup. Every step is safe to
// re-run.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	log.Info("starting database migrations", zap.Int("count", len(Migrations)))
	for _, m := range Migrations {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			log.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		log.Debug("migration completed", zap.String("name", m.Name))
	}
	log.Info("all migrations completed")
	return nil
}
