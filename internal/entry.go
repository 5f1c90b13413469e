// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/quill/internal/api"
	"github.com/starford/quill/internal/mcpserver"
	"github.com/starford/quill/internal/models"
	"github.com/starford/quill/internal/noteservice"
	"github.com/starford/quill/internal/notestore"
	"github.com/starford/quill/internal/reload"
	"github.com/starford/quill/internal/sse"
	pkgconfig "github.com/starford/quill/pkg/config"
)

// runtime is the wiring shared by the HTTP and MCP entry points.
type runtime struct {
	cfg    *Config
	logger *slog.Logger
	level  *slog.LevelVar
	svc    *noteservice.Service
}

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logOutput == nil {
		app.logOutput = os.Stdout
	}
	return app, nil
}

func bootstrap(app *application, cb noteservice.EventCallback) *runtime {
	cfg := app.config

	// Structured JSON logger; the level can change on config reload.
	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	catalog := cfg.Categories.Catalog()
	store := notestore.New(catalog)

	opts := []noteservice.Option{noteservice.WithLogger(logger)}
	if cb != nil {
		opts = append(opts, noteservice.WithEventCallback(cb))
	}
	svc := noteservice.NewService(store, opts...)

	if cfg.Seed.Enabled {
		svc.Seed(context.Background(), cfg.Seed.Notes)
	}

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("default_category", catalog.Default()),
		slog.Int("categories", len(catalog.Items())),
		slog.Bool("seed", cfg.Seed.Enabled),
		slog.Bool("reload", cfg.Reload.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return &runtime{cfg: cfg, logger: logger, level: level, svc: svc}
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	broker := sse.NewBroker(app.config.Events.Throttle)

	rt := bootstrap(app, func(kind string, n models.Note) {
		broker.PublishNoteEvent(kind, n.ID)
	})
	cfg, logger := rt.cfg, rt.logger

	r := NewHTTPHandler(rt.svc, broker)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Reload.Enabled && app.configPath != "" {
		g.Go(func() error {
			err := reload.Watch(gCtx, app.configPath, reload.DefaultDebounce, logger, func() {
				reloadConfig(app.configPath, cfg, rt.level, logger)
			})
			if err != nil {
				logger.Warn("config watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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

		// Close the broker first so open SSE streams return.
		broker.Close()

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

// RunMCP serves the MCP protocol on stdin/stdout until the client
// disconnects. Logs go to stderr unless WithLogOutput says otherwise.
func RunMCP(_ context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	rt := bootstrap(app, nil)
	rt.logger.Info("Starting MCP server on stdio")

	srv := mcpserver.New(rt.svc, app.version)
	if err := srv.ServeStdio(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// NewHTTPHandler builds the root chi router: health checks, the API under
// /api, and the SSE stream at /api/events.
func NewHTTPHandler(svc *noteservice.Service, broker *sse.Broker) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", healthOK)
	r.Get("/health/ready", healthOK)

	var events http.Handler
	if broker != nil {
		events = broker
	}
	r.Mount("/api", api.NewRouter(svc, events))

	return r
}

func healthOK(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// reloadConfig re-reads path and applies the settings that can change at
// runtime. Only the log level is applied; other changes are logged.
func reloadConfig(path string, current *Config, level *slog.LevelVar, logger *slog.Logger) {
	next := NewDefaultConfig()
	if err := pkgconfig.Load(path, next); err != nil {
		logger.Warn("config reload rejected", slog.String("error", err.Error()))
		return
	}

	if next.App.LogLevel != level.Level() {
		level.Set(next.App.LogLevel)
		logger.Info("log level changed", slog.String("log_level", next.App.LogLevel.String()))
	}
	if !reflect.DeepEqual(next.Categories, current.Categories) {
		logger.Warn("category changes require a restart; ignoring")
	}
	if next.App.HTTP != current.App.HTTP {
		logger.Warn("http changes require a restart; ignoring")
	}
}
