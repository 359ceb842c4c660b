package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitpal/splitpal/internal/api"
	"github.com/splitpal/splitpal/internal/auth"
	"github.com/splitpal/splitpal/internal/config"
	"github.com/splitpal/splitpal/internal/metrics"
	"github.com/splitpal/splitpal/internal/middleware"
	"github.com/splitpal/splitpal/internal/service"
	"github.com/splitpal/splitpal/internal/storage/sqlite"
	"github.com/splitpal/splitpal/pkg/logging"
)

// devSecret signs tokens when APP_ENV=development and no JWT_SECRET is set.
const devSecret = "splitpal-development-secret-do-not-use"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set, using the development secret")
		secret = devSecret
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.Server.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.Server.DBPath)

	opts := []service.Option{service.WithLogger(logger)}
	jwtManager := auth.NewJWTManager(secret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	m := metrics.New()

	srv := api.NewServer(api.Config{
		Services: api.Services{
			Auth:         service.NewAuthService(store, auth.NewPasswordAuthenticator(store), jwtManager, opts...),
			Groups:       service.NewGroupService(store, opts...),
			Transactions: service.NewTransactionService(store, opts...),
			Timeline:     service.NewTimelineService(store, opts...),
			Dashboard:    service.NewDashboardService(store, opts...),
		},
		JWTManager: jwtManager,
		Paging:     cfg.Paging,
		Logger:     logger,
		Metrics:    m,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())
	srv.Mount(r)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Connect server starting", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}
