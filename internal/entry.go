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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/promptboard/internal/api"
	"github.com/starford/promptboard/internal/board"
	"github.com/starford/promptboard/internal/card"
	"github.com/starford/promptboard/internal/editor"
	"github.com/starford/promptboard/internal/i18n"
	"github.com/starford/promptboard/internal/mcpserver"
	"github.com/starford/promptboard/internal/notice"
	"github.com/starford/promptboard/internal/registry"
	"github.com/starford/promptboard/internal/sse"
	"github.com/starford/promptboard/internal/state"
	"github.com/starford/promptboard/internal/storage"
)

// setup applies the options and builds the pieces shared by every command.
func setup(opts []Option) (*application, *slog.Logger, *i18n.Translator, *storage.FS, error) {
	app := &application{logOutput: os.Stdout}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, nil, nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	locale := cfg.App.Locale
	if locale == "" {
		locale = i18n.Detect()
	}
	tr := i18n.New(locale)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("state_path", cfg.State.Path),
		slog.String("locale", tr.Locale()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init storage: %w", err)
	}
	return app, logger, tr, store, nil
}

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, logger, tr, store, err := setup(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Persisted board set and settings.
	db, err := state.Open(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("init state: %w", err)
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(15 * time.Second)
	defer broker.Close()

	notifier := notice.Multi(broker, notice.Logger(logger))
	opener := editor.NewOpener(cfg.Editor.Command, store)

	factory := func(folder string) *registry.View {
		b := board.New(store, folder, board.Options{
			Debounce:   cfg.Board.Debounce,
			Extension:  cfg.Board.Extension,
			Render:     broker.PublishBoard,
			Translator: tr,
			Logger:     logger,
		})
		cards := card.New(store, folder, b, card.Deps{
			Editor:     opener,
			Notifier:   notifier,
			Translator: tr,
			Logger:     logger,
			Extension:  cfg.Board.Extension,
		})
		return &registry.View{Board: b, Cards: cards}
	}
	reg := registry.New(store, db, factory, registry.Options{
		MaxViews:   cfg.Board.MaxViews,
		Notifier:   notifier,
		Translator: tr,
		Logger:     logger,
		OnClose:    broker.PublishClosed,
	})
	if err := reg.Restore(ctx); err != nil {
		logger.Warn("restore boards failed", slog.String("error", err.Error()))
	}
	defer reg.Shutdown()

	apiRouter := api.NewRouter(reg, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if kind, err := store.Resolve(""); err != nil || kind != storage.KindFolder {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"vault unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","boards":%d}`, len(reg.Folders()))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// File watcher feeding the store's event hub.
	g.Go(func() error {
		if err := store.Watch(gCtx, logger); err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
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

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, logger, tr, store, err := setup(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}

	srv := mcpserver.New(store, mcpserver.Options{
		Extension:  app.config.Board.Extension,
		Translator: tr,
		Logger:     logger,
	})
	logger.Info("MCP server starting on stdio")
	if err := srv.ServeStdio(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp serve: %w", err)
	}
	return nil
}
