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

	"github.com/starford/casefile/internal/api"
	"github.com/starford/casefile/internal/casefile"
	"github.com/starford/casefile/internal/source"
	"github.com/starford/casefile/internal/sse"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("default_backend", cfg.Backend.Default),
		slog.Bool("mongo_enabled", cfg.Mongo.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the CSV row source.
	csvSrc, err := source.NewCSV(cfg.Data.Dir, cfg.Data.Files())
	if err != nil {
		return fmt.Errorf("init csv source: %w", err)
	}
	csvSvc := casefile.NewService(csvSrc, logger, cfg.Backend.SessionLimit)

	// The document store is optional; requests selecting it without
	// configuration get a service-unavailable response.
	var mongoSvc *casefile.Service
	var mongoSrc *source.Mongo
	if cfg.Mongo.Enabled() {
		mongoSrc, err = source.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return fmt.Errorf("init mongo source: %w", err)
		}
		mongoSvc = casefile.NewService(mongoSrc, logger, cfg.Backend.SessionLimit)
	}

	defaultBackend := api.BackendCSV
	if cfg.Backend.Default == BackendMongo {
		defaultBackend = api.BackendMongo
	}

	// SSE broker notifies connected UIs when a CSV re-export lands.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	h := api.NewHandler(csvSvc, mongoSvc, csvSrc, defaultBackend)
	apiRouter := api.NewRouter(h)
	apiRouter.Get("/events", broker.ServeHTTP)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the data directory so CSV re-exports take effect without a
	// restart.
	if cfg.Data.Watch {
		g.Go(func() error {
			onReload := func() {
				counts, err := csvSrc.Counts(gCtx)
				if err != nil {
					logger.Warn("reload count failed", slog.String("error", err.Error()))
					return
				}
				payload := make(map[string]int, len(counts))
				for kind, n := range counts {
					payload[string(kind)] = n
				}
				broker.PublishReload(payload)
			}
			if err := source.Watch(gCtx, csvSrc, logger, onReload); err != nil {
				logger.Warn("watcher failed", slog.String("error", err.Error()))
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
		if mongoSrc != nil {
			if err := mongoSrc.Close(shutdownCtx); err != nil {
				logger.Error("Mongo disconnect error", slog.String("error", err.Error()))
			}
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
