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

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/geofeed/config"
	"github.com/d60-Lab/geofeed/internal/api"
	"github.com/d60-Lab/geofeed/internal/api/handler"
	"github.com/d60-Lab/geofeed/internal/media"
	"github.com/d60-Lab/geofeed/internal/repository"
	"github.com/d60-Lab/geofeed/internal/service"
	"github.com/d60-Lab/geofeed/pkg/database"
	"github.com/d60-Lab/geofeed/pkg/logger"
	"github.com/d60-Lab/geofeed/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// @title geofeed API
// @version 1.0
// @description Ephemeral geofenced feed service
// @BasePath /
func main() {
	cfg := must(config.Load())

	if err := logger.Init(cfg.Server.Mode, cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Telemetry.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Telemetry.SentryDSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing := must(tracing.Init(ctx, "geofeed", cfg.Telemetry.OTLPEndpoint))
	defer func() { _ = shutdownTracing(ctx) }()

	db := must(database.InitDB(cfg))

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis unreachable", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	postRepo := repository.NewPostRepository(db)
	blobs := media.NewRedisStore(rdb, service.VisibilityWindow+cfg.Media.TTLGrace)
	feedService := service.NewFeedService(postRepo)
	postService := service.NewPostService(postRepo, blobs)
	reaper := service.NewReaper(postRepo, blobs, cfg.Reaper.Interval, cfg.Reaper.Batch)

	if cfg.Reaper.Enabled {
		stopReaper := reaper.Start()
		defer func() { _ = stopReaper(ctx) }()
	}

	router := api.NewRouter(cfg, handler.New(feedService, postService, blobs, reaper))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
