package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"prepay-advisor/config"
	httpLayer "prepay-advisor/http"
	"prepay-advisor/repository"
	"prepay-advisor/service"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger, err := buildLogger(cfg.Development)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
	} else {
		cache = repository.NewMockCache()
	}

	simulationService := service.NewSimulationService(logger)
	simulationHandler := httpLayer.NewSimulationHandler(simulationService, logger)

	generator := service.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	adviceService := service.NewAdviceService(
		simulationService,
		generator,
		cache,
		time.Duration(cfg.AdviceCacheTTLMinutes)*time.Minute,
		logger,
	)
	adviceHandler := httpLayer.NewAdviceHandler(adviceService, logger)

	rateLimiter := httpLayer.NewRateLimiter(
		cfg.RateLimitRequests,
		time.Duration(cfg.RateLimitWindowSecs)*time.Second,
		logger,
	)
	defer rateLimiter.Stop()

	mux := http.NewServeMux()
	mux.Handle(
		"/loan/simulate",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(simulationHandler.Simulate),
		),
	)

	mux.Handle(
		"/loan/advice",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(adviceHandler.Advise),
		),
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("🚀 API corriendo", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("Error starting server", zap.Error(err))
		return
	case <-quit:
		logger.Info("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func buildLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
