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
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/starford/vocabuild/internal/api"
	"github.com/starford/vocabuild/internal/audio"
	"github.com/starford/vocabuild/internal/index"
	"github.com/starford/vocabuild/internal/mcpserver"
	"github.com/starford/vocabuild/internal/sse"
	"github.com/starford/vocabuild/internal/storage"
	"github.com/starford/vocabuild/internal/vocab"
	"github.com/starford/vocabuild/internal/vocabservice"
)

// Stack is the opened storage, index and service shared by every command.
type Stack struct {
	Config  *Config
	Logger  *slog.Logger
	Store   *storage.FS
	DB      *index.DB
	Service *vocabservice.Service
}

// Close releases the index database.
func (s *Stack) Close() error {
	return s.DB.Close()
}

// Open builds the stack without starting any server. The caller must Close it.
func Open(opts ...Option) (*Stack, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	return app.open(nil)
}

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func (a *application) open(notify vocabservice.Notifier) (*Stack, error) {
	cfg := a.config
	logger := a.logger()

	logger.Info("Configuration loaded",
		slog.String("data_dir", cfg.Vocabulary.DataDir),
		slog.String("vocabulary_file", cfg.Vocabulary.File),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure data directory exists.
	if err := os.MkdirAll(cfg.Vocabulary.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vocabulary.DataDir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	synth := a.synth
	if synth == nil && cfg.Audio.Enabled {
		synth = audio.NewCommand(cfg.Audio.Binary, cfg.Audio.Voice, cfg.Audio.WPM)
	}

	svc := vocabservice.New(vocabservice.Options{
		Repo:       vocab.NewRepository(store),
		DB:         db,
		File:       cfg.Vocabulary.File,
		KoreanFile: cfg.Vocabulary.KoreanFile,
		MediaDir:   cfg.Vocabulary.MediaPath(),
		SessionTTL: cfg.App.SessionTTL,
		Synth:      synth,
		Notify:     notify,
		Logger:     logger,
	})

	return &Stack{Config: cfg, Logger: logger, Store: store, DB: db, Service: svc}, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// SSE broker receives both service changes and watcher events. stack is
	// set before the first event can reach the stats callback.
	var stack *Stack
	broker := sse.NewBroker(sse.Options{
		StatsThrottle: 2 * time.Second,
		Logger:        app.logger(),
		Stats: func() (any, error) {
			return stack.Service.Stats(context.Background())
		},
	})
	defer broker.Close()

	stack, err = app.open(func(eventType string, data any) {
		broker.Publish(sse.Event{Type: eventType, Data: data})
	})
	if err != nil {
		return err
	}
	defer stack.Close()
	logger := stack.Logger
	slog.SetDefault(logger)

	apiRouter := api.NewRouter(stack.Service, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	if cfg.CORS.Enabled() {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "If-None-Match"},
			ExposedHeaders:   []string{"ETag", "X-Media-Kind"},
			AllowCredentials: false,
			MaxAge:           cfg.CORS.MaxAge,
		}).Handler)
	}
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := stack.DB.Ping(req.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"index unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
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

	// Start file watcher with SSE callback.
	g.Go(func() error {
		return index.Watch(gCtx, stack.DB, stack.Store, cfg.Vocabulary.DataDir, logger, broker.PublishFileEvent)
	})

	// Drop study sessions nobody has used for a while.
	g.Go(func() error {
		return stack.Service.Sessions().Expire(gCtx, time.Minute, logger)
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

		return context.Canceled
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// ServeMCP serves the MCP tools on stdin/stdout until the client disconnects.
// Logs go to stderr unless WithLogOutput says otherwise.
func ServeMCP(_ context.Context, opts ...Option) error {
	opts = append([]Option{WithLogOutput(os.Stderr)}, opts...)
	stack, err := Open(opts...)
	if err != nil {
		return err
	}
	defer stack.Close()

	stack.Logger.Info("MCP server starting on stdio")
	return mcpserver.New(stack.Service).ServeStdio()
}
