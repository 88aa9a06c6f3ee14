package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/config"
	httpLayer "github.com/kayleers/clearledger-sub001/http"
	"github.com/kayleers/clearledger-sub001/logger"
	"github.com/kayleers/clearledger-sub001/repository"
	"github.com/kayleers/clearledger-sub001/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	simulationRepo, closeRepo, err := openSimulationRepository(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	cache, closeCache := openCache(ctx, cfg, log)
	defer closeCache()

	explainer := service.NewAIService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if !explainer.Enabled() {
		log.Info().Msg("GEMINI_API_KEY not set, using template explanations")
	}

	payoffService := service.NewPayoffService(simulationRepo, cache, cfg.CacheTTL, log)
	loanService := service.NewLoanService(simulationRepo, log)
	debtPlanService := service.NewDebtPlanService(explainer, simulationRepo, log)
	targetService := service.NewTargetRecommendationService(explainer, simulationRepo, log)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	router := httpLayer.NewRouter(httpLayer.Handlers{
		Payoff:               httpLayer.NewPayoffHandler(payoffService, log),
		Loan:                 httpLayer.NewLoanHandler(loanService, log),
		DebtPlan:             httpLayer.NewDebtPlanHandler(debtPlanService, log),
		TargetRecommendation: httpLayer.NewTargetRecommendationHandler(targetService, log),
	}, rateLimiter, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Port).Msg("ClearLedger API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	case <-quit:
		log.Info().Msg("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

func openSimulationRepository(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
) (repository.SimulationRepository, func(), error) {
	if cfg.DatabasePath == "" {
		log.Info().Msg("DATABASE_PATH not set, keeping calculation history in memory")
		return repository.NewSimulationRepositoryMemory(), func() {}, nil
	}

	repo, err := repository.NewSimulationRepositorySQLite(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening calculation history: %w", err)
	}
	log.Info().Str("path", repo.Path()).Msg("Calculation history stored in SQLite")

	return repo, func() {
		if err := repo.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}, nil
}

func openCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.CacheRepository, func()) {
	if cfg.RedisAddr == "" {
		return repository.NewMemoryCache(), func() {}
	}

	cache := repository.NewRedisCache(cfg.RedisAddr, log)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, falling back to memory cache")
		cache.Close()
		return repository.NewMemoryCache(), func() {}
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("Caching payoff results in Redis")
	return cache, func() {
		if err := cache.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close redis client")
		}
	}
}
