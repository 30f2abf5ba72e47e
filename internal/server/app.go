// Package server wires configuration, storage, services and the HTTP API
// into a runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/leeya018/gratitudes/internal/logging"
	"github.com/leeya018/gratitudes/internal/server/blobs"
	"github.com/leeya018/gratitudes/internal/server/config"
	"github.com/leeya018/gratitudes/internal/server/httpapi"
	"github.com/leeya018/gratitudes/internal/server/metrics"
	"github.com/leeya018/gratitudes/internal/server/repositories/repomanager"
	"github.com/leeya018/gratitudes/internal/server/services"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
}

// NewApp opens the database, applies migrations, prepares the audio bucket
// and builds the services behind the HTTP server.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}

	loc, err := c.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	store, err := blobs.NewS3Store(ctx, blobs.Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		// audio features degrade but the journal still works
		logger.Warn(ctx, "audio bucket unavailable", "bucket", c.S3Bucket, "error", err)
	}

	us := services.NewUserService(db, rm, c)
	gs := services.NewGratitudeService(db, rm, c.DailyEntryLimit, loc, logger)
	ss := services.NewSentenceService(db, rm, store, c.MaxAudioBytes, logger)

	srv := httpapi.NewServer(httpapi.Options{
		Address:       c.EndpointAddrHTTP,
		RateLimitRPS:  c.RateLimitRPS,
		MaxAudioBytes: c.MaxAudioBytes,
	}, logger, metrics.New(), us, gs, ss)

	return &App{config: c, logger: logger, db: db, httpServer: srv}, nil
}

// Run serves until SIGINT, SIGTERM or SIGQUIT, or until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "daily_limit", app.config.DailyEntryLimit, "timezone", app.config.Timezone)

	err := app.httpServer.Run(ctx)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "http server stopped", "error", err)
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
