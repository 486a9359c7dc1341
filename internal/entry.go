// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Vikram2Agrawal/notion-sync/internal/assets"
	"github.com/Vikram2Agrawal/notion-sync/internal/content"
	"github.com/Vikram2Agrawal/notion-sync/internal/journal"
	"github.com/Vikram2Agrawal/notion-sync/internal/notion"
	"github.com/Vikram2Agrawal/notion-sync/internal/server"
	"github.com/Vikram2Agrawal/notion-sync/internal/sse"
	"github.com/Vikram2Agrawal/notion-sync/internal/syncer"
)

// runtime holds everything a command needs after initialization.
type runtime struct {
	cfg     *Config
	logger  *slog.Logger
	journal *journal.DB
}

func (rt *runtime) close() {
	if rt.journal != nil {
		_ = rt.journal.Close()
	}
}

// setup applies options, initializes the logger, creates the output
// directories, and opens the run journal. A journal failure is logged and
// tolerated: the journal is observational and must never block a sync.
func setup(opts ...Option) (*runtime, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("cache_dir", cfg.Output.CacheDir),
		slog.String("assets_dir", cfg.Output.AssetsDir),
		slog.Bool("source_configured", cfg.Notion.Configured()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if err := os.MkdirAll(cfg.Output.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Output.AssetsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create assets dir: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger}
	if cfg.Journal.Path != "" {
		db, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			logger.Warn("journal unavailable", slog.String("error", err.Error()))
		} else {
			rt.journal = db
		}
	}
	return rt, nil
}

// Run executes a single sync with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	return runSync(ctx, rt)
}

// runSync performs one full sync run and journals the outcome.
func runSync(ctx context.Context, rt *runtime) error {
	cfg := rt.cfg
	started := time.Now()
	run := journal.Run{
		ID:        uuid.NewString(),
		StartedAt: started,
	}

	cache := assets.New(cfg.Output.AssetsDir, cfg.Output.PublicPrefix, rt.logger)
	writer := syncer.NewWriter(cfg.Output.CacheDir)

	if !cfg.Notion.Configured() {
		rt.logger.Warn("source credentials missing, writing placeholder content")
		meta := content.SyncMeta{
			BuildTime:     started.UTC().Format(time.RFC3339),
			SchemaVersion: cfg.Output.SchemaVersion,
		}
		if err := writer.WritePlaceholder(meta); err != nil {
			run.Status = journal.StatusFailed
			run.Error = err.Error()
			recordRun(rt, run)
			return fmt.Errorf("write placeholder: %w", err)
		}
		run.Status = journal.StatusPlaceholder
		recordRun(rt, run)
		return nil
	}

	client := notion.NewClient(cfg.Notion.BaseURL, cfg.Notion.Token, cfg.Notion.Concurrency)
	s := syncer.New(client, cache, syncer.Databases{
		Organizations: cfg.Notion.Databases.Organizations,
		Involvements:  cfg.Notion.Databases.Involvements,
		Projects:      cfg.Notion.Databases.Projects,
		Skills:        cfg.Notion.Databases.Skills,
	}, cfg.Output.SchemaVersion, rt.logger)

	res, err := s.Run(ctx)
	if err != nil {
		run.Status = journal.StatusFailed
		run.Error = err.Error()
		recordRun(rt, run)
		return fmt.Errorf("sync: %w", err)
	}

	if err := writer.WriteResult(res); err != nil {
		run.Status = journal.StatusFailed
		run.Error = err.Error()
		recordRun(rt, run)
		return fmt.Errorf("write result: %w", err)
	}

	run.Status = journal.StatusOK
	run.Organizations = len(res.Organizations)
	run.Involvements = len(res.Involvements)
	run.Projects = len(res.Projects)
	run.Skills = len(res.Skills)
	run.AssetsCached = cache.Downloads()
	recordRun(rt, run)

	rt.logger.Info("Sync complete",
		slog.Int("organizations", run.Organizations),
		slog.Int("involvements", run.Involvements),
		slog.Int("projects", run.Projects),
		slog.Int("skills", run.Skills),
		slog.Int("assets_cached", run.AssetsCached),
		slog.Duration("took", time.Since(started)))
	return nil
}

func recordRun(rt *runtime, run journal.Run) {
	if rt.journal == nil {
		return
	}
	run.FinishedAt = time.Now()
	if err := rt.journal.Record(run); err != nil {
		rt.logger.Warn("journal record failed", slog.String("error", err.Error()))
	}
}

// RunServe runs an initial sync and then starts the preview server: HTTP
// routes for documents, assets and run history, an SSE stream, and a cache
// directory watcher that feeds it.
func RunServe(ctx context.Context, opts ...Option) error {
	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg := rt.cfg
	logger := rt.logger

	// A failed initial sync is not fatal: the server keeps serving whatever
	// the previous run left in the cache directory.
	if err := runSync(ctx, rt); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	router := server.NewRouter(server.Options{
		CacheDir:     cfg.Output.CacheDir,
		AssetsDir:    cfg.Output.AssetsDir,
		PublicPrefix: cfg.Output.PublicPrefix,
		Journal:      rt.journal,
		Events:       broker,
	})

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: router,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Watch(gCtx, cfg.Output.CacheDir, logger, func(document string) {
			broker.PublishDocumentUpdate(document)
		})
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// Runs prints the most recent journal entries, newest first.
func Runs(ctx context.Context, limit int, opts ...Option) error {
	_ = ctx

	rt, err := setup(opts...)
	if err != nil {
		return err
	}
	defer rt.close()

	if rt.journal == nil {
		return fmt.Errorf("journal is not configured")
	}

	runs, err := rt.journal.Recent(limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	for _, run := range runs {
		line := fmt.Sprintf("%s  %-11s  %6s  orgs=%d inv=%d proj=%d skills=%d assets=%d",
			run.StartedAt.Format(time.RFC3339),
			run.Status,
			run.Duration().Round(time.Millisecond),
			run.Organizations, run.Involvements, run.Projects, run.Skills,
			run.AssetsCached)
		if run.Error != "" {
			line += "  error=" + run.Error
		}
		fmt.Println(line)
	}
	return nil
}
