package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/streamcz/internal/api/v1"
	"github.com/vmunix/streamcz/internal/catalog"
	"github.com/vmunix/streamcz/internal/config"
	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/library"
	"github.com/vmunix/streamcz/internal/migrations"
	"github.com/vmunix/streamcz/internal/player"
	"github.com/vmunix/streamcz/internal/scrape"
	"github.com/vmunix/streamcz/internal/server"
	"github.com/vmunix/streamcz/internal/service"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader { // Only capture first WriteHeader call
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// openDB opens the SQLite database at path and brings its schema up to date.
func openDB(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	applied, err := migrations.Apply(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("applied migrations", "versions", applied)
	}
	return db, nil
}

// app holds the wired components of the daemon.
type app struct {
	db      *sql.DB
	bus     *events.Bus
	runner  *server.Runner
	handler http.Handler
}

func (a *app) Close() error {
	return errors.Join(a.bus.Close(), a.db.Close())
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := openDB(ctx, cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}

	// === Stores ===
	store := library.NewStore(db)
	if n, err := store.DedupeHistory(); err != nil {
		logger.Warn("history dedupe failed", "error", err)
	} else if n > 0 {
		logger.Info("removed duplicate history entries", "removed", n)
	}

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "bus"))

	// === Clients ===
	catalogUA := cfg.Catalog.UserAgent
	if catalogUA == "" {
		catalogUA = catalog.UserAgent
	}
	catalogClient := catalog.NewClient(
		catalog.WithBaseURL(cfg.Catalog.BaseURL),
		catalog.WithFetcher(scrape.NewFetcher(catalogUA,
			scrape.WithTimeout(cfg.Catalog.Timeout),
			scrape.WithLogger(logger.With("component", "catalog")))),
		catalog.WithListingCache(cfg.Catalog.ListingCacheSizeMB, cfg.Catalog.ListingCacheTTL),
		catalog.WithLimits(cfg.Catalog.MinScore, cfg.Catalog.MaxResults),
		catalog.WithLogger(logger.With("component", "catalog")),
	)

	hostingUA := cfg.Hosting.UserAgent
	if hostingUA == "" {
		hostingUA = hosting.UserAgent
	}
	hostingClient := hosting.NewClient(
		hosting.WithBaseURL(cfg.Hosting.BaseURL),
		hosting.WithFetcher(scrape.NewFetcher(hostingUA,
			scrape.WithBrowserHeaders(),
			scrape.WithTimeout(cfg.Hosting.Timeout),
			scrape.WithLogger(logger.With("component", "hosting")))),
		hosting.WithConcurrency(cfg.Hosting.Concurrency),
		hosting.WithLogger(logger.With("component", "hosting")),
	)

	// === Services ===
	svc := service.New(catalogClient, hostingClient, store, bus, service.Config{
		CheckpointThreshold: cfg.Player.CheckpointThreshold,
		TrustEmptyCache:     cfg.Player.TrustEmptyCache,
		HistoryLimit:        cfg.Player.HistoryLimit,
	}, logger.With("component", "service"))
	sessions := player.NewSessions()

	runner := server.NewRunner(server.Deps{
		Bus:      bus,
		EventLog: eventLog,
		Store:    store,
		Finder:   svc,
		Sessions: sessions,
	}, server.Config{
		PruneInterval:  cfg.Events.PruneInterval,
		EventRetention: cfg.Events.Retention,
		CacheRetention: cfg.Database.CacheRetention,
	}, logger.With("component", "runner"))

	// === HTTP Setup ===
	mux := http.NewServeMux()
	apiV1, err := v1.NewWithDeps(v1.ServerDeps{
		Service:  svc,
		Sessions: sessions,
		Bus:      bus,
		EventLog: eventLog,
	}, v1.Config{Version: version})
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, fmt.Errorf("api: %w", err)
	}
	apiV1.RegisterRoutes(mux)

	return &app{
		db:      db,
		bus:     bus,
		runner:  runner,
		handler: logRequests(mux, logger),
	}, nil
}

func runServer(configPath string) error {
	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Create logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	// === Background handlers ===
	runnerDone := make(chan error, 1)
	go func() {
		runnerDone <- a.runner.Run(ctx)
	}()

	// === HTTP Server ===
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting",
		"addr", addr,
		"config", configPath,
		"database", cfg.Database.Path,
		"catalog", cfg.Catalog.BaseURL,
		"hosting", cfg.Hosting.BaseURL,
		"log_level", cfg.Server.LogLevel,
	)
	srv := &http.Server{Addr: addr, Handler: a.handler, ReadHeaderTimeout: 10 * time.Second}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for a signal or a listener failure
	select {
	case <-ctx.Done():
		logger.Info("received signal, shutting down")
	case err := <-serveErr:
		if err != nil {
			cancel()
			<-runnerDone
			return fmt.Errorf("listen: %w", err)
		}
	}
	cancel()

	// Graceful HTTP shutdown with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-runnerDone; err != nil {
		logger.Error("handler error", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
