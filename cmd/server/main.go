package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-folio/internal/adapter/auth"
	"ai-folio/internal/adapter/cache"
	"ai-folio/internal/adapter/events"
	httpadapter "ai-folio/internal/adapter/http"
	repo "ai-folio/internal/adapter/repository"
	"ai-folio/internal/config"
	"ai-folio/internal/infrastructure/metrics"
	"ai-folio/internal/infrastructure/migration"
	"ai-folio/internal/render"
	"ai-folio/internal/usecase"
	infra "ai-folio/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	records, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	authClient, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, nil)
	if err != nil {
		return err
	}
	authenticator := auth.NewAuthenticator(authClient.Auth)

	collector := metrics.NewCollector("folio")
	opts := []usecase.Option{usecase.WithMetrics(collector), usecase.WithLogger(logger)}

	var drafts usecase.DraftStore
	if cfg.Redis.Address != "" {
		rdb, err := cache.Connect(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		drafts = cache.NewRedisDrafts(rdb, cfg.Redis.DraftTTL)
		opts = append(opts, usecase.WithCache(cache.NewRedisPortfolios(rdb, cfg.Redis.PortfolioTTL)))
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Address))
	} else {
		drafts = cache.NewMemoryDrafts(cfg.Redis.DraftTTL)
		logger.Info("keeping drafts in memory")
	}

	publisher, err := events.NewPublisher(cfg.RabbitMQ.URI, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()
	opts = append(opts, usecase.WithEvents(publisher))

	if cfg.Export.Enabled {
		opts = append(opts, usecase.WithExporter(infra.NewChromedpExporter(cfg.Export.ChromePath, cfg.Export.Timeout)))
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}
	svc := usecase.NewService(records, drafts, renderer, opts...)

	app := fiber.New(fiber.Config{
		AppName:      "ai-folio",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: httpadapter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.AllowOrigins}))

	httpadapter.NewHandler(svc, authenticator, collector, logger).Register(app)

	errCh := make(chan error, 1)
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		logger.Info("listening", zap.String("addr", addr), zap.String("store", cfg.Store.Backend))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	return app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout)
}

// openStore builds the record store chosen by STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (usecase.Records, func(), error) {
	if cfg.Store.Backend == config.StoreSupabase {
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey, nil)
		if err != nil {
			return nil, nil, err
		}
		return repo.NewSupabaseRepo(client), func() {}, nil
	}

	pool, err := infra.NewPool(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Postgres.MigrateOnBoot {
		if err := migration.RunMigrations(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return repo.NewRecordsRepo(pool), pool.Close, nil
}
