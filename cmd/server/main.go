package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/date-decision-simulator/internal/config"
	apperrors "github.com/ZanzyTHEbar/date-decision-simulator/internal/errors"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/monitoring"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/ratelimit"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/resilience"
	"github.com/ZanzyTHEbar/date-decision-simulator/internal/resources"
)

const version = "1.0.0"

// @title Date Decision Simulator API
// @version 1.0.0
// @description Predicts whether a speed-dating participant would want to see a partner again, with a +1 sensitivity analysis over the partner's traits.
// @BasePath /

// Generate the docs package with: swag init -g cmd/server/main.go
func main() {
	cfg, err := loadConfig(os.Getenv("DATESIM_CONFIG"))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	gin.SetMode(cfg.Server.Mode)
	logger := monitoring.NewLogger(cfg.SlogLevel())
	slog.SetDefault(logger.Logger)
	metrics := monitoring.NewMetrics()

	source, err := newSource(cfg.Artifacts)
	if err != nil {
		logger.Error("Failed to configure artifact source", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	loader := resources.NewLoader(source, cfg.Artifacts.Model, cfg.Artifacts.Baseline, logger.Logger)

	// A failed load keeps the server up, serving only the diagnostic page
	res, loadErr := resources.Init(ctx, loader)
	location := ""
	if loadErr != nil {
		appErr := apperrors.ToAppError(loadErr)
		location = source.Location(appErr.Artifact)
		logger.ArtifactLogger(appErr.Artifact, location, loadErr)
	} else {
		modelName, baselineName := loader.Artifacts()
		logger.ArtifactLogger(modelName, source.Location(modelName), nil)
		logger.ArtifactLogger(baselineName, source.Location(baselineName), nil)
	}

	redisClient, err := connectRedis(ctx, cfg.RateLimit, resilience.DefaultRetryConfig())
	if err != nil {
		logger.SystemLogger("redis_unavailable", err.Error())
	}
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.Config{
		IPLimitPerMin:   cfg.RateLimit.PerMinute,
		BurstMultiplier: cfg.RateLimit.BurstMultiplier,
		CleanupInterval: time.Hour,
	}, metrics)

	app := newApp(cfg, logger, metrics, limiter, res, loadErr, location)
	r := app.router()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Server.Port, "ready", loadErr == nil)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	limiter.Close()
	apperrors.SafeClose(redisClient, "redis")
	resources.Reset()

	logger.Info("Server exited")
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, apperrors.NewConfigurationError("configuration could not be loaded", err)
	}
	return cfg, nil
}

// connectRedis retries the initial ping. Without an address, or after the
// last failed attempt, it returns a disabled client and rate limiting stays
// in memory.
func connectRedis(ctx context.Context, cfg config.RateLimitConfig, retry resilience.RetryConfig) (*ratelimit.RedisClient, error) {
	var client *ratelimit.RedisClient
	err := resilience.RetryWithConfig(ctx, retry, func() error {
		var err error
		client, err = ratelimit.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		return err
	})
	return client, err
}

// newSource picks where the artifacts are read from
func newSource(cfg config.ArtifactsConfig) (resources.Source, error) {
	if cfg.Source == config.SourceS3 {
		s3Source, err := resources.NewS3Source(resources.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, apperrors.NewConfigurationError("artifact source is misconfigured", err)
		}
		return s3Source, nil
	}
	return resources.NewDirSource(cfg.Dir), nil
}
