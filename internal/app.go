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

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/store"
	"github.com/Zachkp/folio/internal/visitors"
	"github.com/Zachkp/folio/internal/web"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 24 * time.Hour
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: app.config.SlogLevel(),
		}))
	}
	return app, nil
}

// Run starts the web server with the given options and blocks until ctx is
// cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger
	slog.SetDefault(logger)
	gin.SetMode(cfg.HTTP.Mode)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("seed_path", cfg.Content.SeedPath),
		slog.Bool("smtp_configured", cfg.SMTP.Configured()),
		slog.String("log_level", cfg.LogLevel))

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	if _, err := os.Stat(cfg.Content.SeedPath); err == nil {
		if _, err := seedFrom(ctx, db, cfg.Content.SeedPath); err != nil {
			logger.Warn("initial seed failed", slog.String("error", err.Error()))
		}
	}

	mailer := app.mailer
	if mailer == nil {
		if !cfg.SMTP.Configured() {
			logger.Warn("SMTP credentials not configured, contact messages will be stored only")
		}
		mailer = contact.NewSMTPMailer(cfg.SMTP.SMTPConfig)
	}
	contactSvc := contact.NewService(contact.NewStore(db), mailer, logger)

	var tracker *visitors.Tracker
	if cfg.Visitors.Enabled {
		tracker = visitors.NewTracker(db, cfg.Visitors.Salt, cfg.Visitors.Retention(), logger)
		defer tracker.Wait()
	}

	router := web.NewRouter(web.Deps{
		Content: db,
		Contact: contactSvc,
		Tracker: tracker,
		Ready:   db.PingContext,
		Logger:  logger,
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address(),
		Handler: router,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Content.Watch {
		g.Go(func() error {
			return content.WatchSeed(gCtx, cfg.Content.SeedPath, logger, func(seed *content.Seed) error {
				return db.ReplaceContent(gCtx, seed)
			})
		})
	}

	if tracker != nil {
		g.Go(func() error {
			runCleanup(gCtx, tracker, logger)
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// errShutdown cancels the group's context so the watcher and cleanup loop
// stop along with the server.
var errShutdown = errors.New("shutdown")

// runCleanup applies visitor retention at startup and then daily.
func runCleanup(ctx context.Context, t *visitors.Tracker, logger *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		if _, err := t.Cleanup(ctx); err != nil && ctx.Err() == nil {
			logger.Error("visitor cleanup failed", slog.String("error", err.Error()))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func seedFrom(ctx context.Context, db *store.DB, path string) (*content.Seed, error) {
	seed, err := content.LoadSeed(path)
	if err != nil {
		return nil, err
	}
	if err := db.ReplaceContent(ctx, seed); err != nil {
		return nil, fmt.Errorf("apply seed: %w", err)
	}
	return seed, nil
}
