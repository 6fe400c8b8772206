package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bryanwahyu/ux-critique/internal/application"
	appanalysis "github.com/bryanwahyu/ux-critique/internal/application/analysis"
	"github.com/bryanwahyu/ux-critique/internal/application/housekeeping"
	"github.com/bryanwahyu/ux-critique/internal/application/tasks"
	"github.com/bryanwahyu/ux-critique/internal/config"
	domai "github.com/bryanwahyu/ux-critique/internal/domain/ai"
	domain "github.com/bryanwahyu/ux-critique/internal/domain/analysis"
	"github.com/bryanwahyu/ux-critique/internal/domain/session"
	"github.com/bryanwahyu/ux-critique/internal/infra/ai/gemini"
	"github.com/bryanwahyu/ux-critique/internal/infra/ai/openai"
	"github.com/bryanwahyu/ux-critique/internal/infra/ai/prompt"
	"github.com/bryanwahyu/ux-critique/internal/infra/cache"
	mysqlp "github.com/bryanwahyu/ux-critique/internal/infra/db/mysql"
	"github.com/bryanwahyu/ux-critique/internal/infra/db/postgres"
	"github.com/bryanwahyu/ux-critique/internal/infra/httpserver"
	"github.com/bryanwahyu/ux-critique/internal/infra/imaging"
	"github.com/bryanwahyu/ux-critique/internal/infra/sessionstore"
	"github.com/bryanwahyu/ux-critique/internal/infra/storage"
	"github.com/bryanwahyu/ux-critique/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	clock := application.SystemClock{}
	checkers := map[string]middleware.HealthChecker{}

	client, err := newAIClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ai client: %w", err)
	}

	sessions, err := newSessionStore(ctx, cfg, checkers)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	uploads, err := storage.NewUploads(cfg.Uploads.Dir)
	if err != nil {
		return err
	}

	repo, db, err := newRepository(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	var artifacts domain.ArtifactStore
	if cfg.Minio.Enabled {
		archive, err := storage.NewArchive(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		artifacts = archive
		checkers["minio"] = middleware.CheckFunc(archive.Ping)
	}

	metrics := middleware.NewMetrics()
	codec := imaging.New()
	svc := &appanalysis.Service{
		Sessions:  sessions,
		Codec:     codec,
		Gate:      appanalysis.NewGate(client, codec, cache.NewGate(cfg.AI.GateCacheMax, cfg.AI.GateCacheTTL), logger.Named("gate")),
		Analyzer:  appanalysis.NewAnalyzer(client, logger.Named("analyzer")),
		Pool:      appanalysis.NewPool(cfg.Analysis.Workers),
		Prompts:   prompt.Categories(),
		Repo:      repo,
		Artifacts: artifacts,
		Metrics:   metrics,
		Clock:     clock,
		Logger:    logger.Named("analysis"),
		MaxWidth:  cfg.Analysis.MaxWidth,
		MaxHeight: cfg.Analysis.MaxHeight,
	}

	runner := tasks.NewRunner(clock, logger.Named("tasks"))
	keeper := &housekeeping.Service{
		Uploads:   uploads,
		Sessions:  sessions,
		Tasks:     runner,
		Clock:     clock,
		Retention: cfg.Housekeeping.Retention,
		Logger:    logger.Named("housekeeping"),
	}
	keeper.Start(ctx, cfg.Housekeeping.Interval)

	handler := httpserver.NewRouter(httpserver.Deps{
		Analysis:       svc,
		Tasks:          runner,
		Housekeeping:   keeper,
		Sessions:       sessions,
		Uploads:        uploads,
		Metrics:        metrics,
		Checkers:       checkers,
		Clock:          clock,
		Logger:         logger.Named("http"),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("provider", cfg.AI.Provider),
			zap.Int("workers", svc.Pool.Size()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
	if err := runner.Shutdown(shutdownCtx); err != nil {
		logger.Warn("background tasks did not finish", zap.Error(err))
	}
	return nil
}

func newAIClient(ctx context.Context, cfg *config.Config) (domai.Client, error) {
	switch cfg.AI.Provider {
	case "openai":
		return openai.NewClient(cfg.APIKey(), cfg.AI.Model), nil
	default:
		return gemini.NewClient(ctx, cfg.APIKey(), cfg.AI.Model)
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, checkers map[string]middleware.HealthChecker) (session.Store, error) {
	if cfg.Sessions.Backend != "redis" {
		return sessionstore.NewMemoryStore(), nil
	}
	opts, err := redis.ParseURL(cfg.Sessions.RedisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	checkers["redis"] = middleware.CheckFunc(func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	return sessionstore.NewRedisStore(rdb, cfg.Housekeeping.Retention), nil
}

// newRepository returns a nil repository when no database is configured.
func newRepository(ctx context.Context, cfg *config.Config) (domain.Repository, *sql.DB, error) {
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := mysqlp.NewAnalysisRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, nil, err
		}
		repo := postgres.NewAnalysisRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db, nil
	default:
		return nil, nil, nil
	}
}
