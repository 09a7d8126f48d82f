// Package app wires configuration, storage, providers, services, and the
// HTTP server into a running process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/lumis-app/lumis-backend/internal/adapter/postgres"
	generationrepo "github.com/lumis-app/lumis-backend/internal/adapter/postgres/generation"
	userrepo "github.com/lumis-app/lumis-backend/internal/adapter/postgres/user"
	"github.com/lumis-app/lumis-backend/internal/adapter/provider/anthropic"
	"github.com/lumis-app/lumis-backend/internal/adapter/provider/openai"
	"github.com/lumis-app/lumis-backend/internal/adapter/provider/segmenter"
	"github.com/lumis-app/lumis-backend/internal/auth"
	"github.com/lumis-app/lumis-backend/internal/config"
	generationsvc "github.com/lumis-app/lumis-backend/internal/service/generation"
	quotasvc "github.com/lumis-app/lumis-backend/internal/service/quota"
	"github.com/lumis-app/lumis-backend/internal/transport/middleware"
	"github.com/lumis-app/lumis-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, builds the service graph, and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	users := userrepo.New(pool)
	generations := generationrepo.New(pool)

	quota := quotasvc.NewService(logger, users, generations, cfg.Quota)

	openaiClient := openai.NewClient(cfg.Providers.OpenAI, logger)
	providers := generationsvc.Providers{
		Text: map[string]generationsvc.TextGenerator{
			config.ProviderAnthropic: anthropic.NewClient(cfg.Providers.Anthropic, logger),
			config.ProviderOpenAI:    openaiClient,
		},
		Image: map[string]generationsvc.ImageGenerator{
			config.ProviderOpenAI: openaiClient,
		},
		Segment: map[string]generationsvc.BackgroundRemover{
			config.ProviderSegmenter: segmenter.NewClient(cfg.Providers.Segmenter, logger),
		},
	}

	generator := generationsvc.NewService(logger, quota, generations, providers, cfg.Providers)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	router := rest.NewRouter(rest.RouterDeps{
		Logger:     logger,
		CORS:       cfg.CORS,
		Validator:  jwtManager,
		Limiter:    limiter,
		MaxPerMin:  cfg.RateLimit.RequestsPerMinute,
		Generation: rest.NewGenerationHandler(generator, logger),
		Usage:      rest.NewUsageHandler(quota, logger),
		Health:     rest.NewHealthHandler(pool, Version),
	})

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
