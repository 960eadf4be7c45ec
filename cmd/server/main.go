package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/noah-isme/school-data-api/api/swagger"
	"github.com/noah-isme/school-data-api/internal/handler"
	"github.com/noah-isme/school-data-api/internal/service"
	"github.com/noah-isme/school-data-api/internal/store"
	"github.com/noah-isme/school-data-api/pkg/cache"
	"github.com/noah-isme/school-data-api/pkg/config"
	"github.com/noah-isme/school-data-api/pkg/logger"
)

const (
	connectTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

// @title School Data API
// @version 1.0.0
// @description Uniform CRUD, bulk, and analytics surface over interchangeable storage backends
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	st, err := store.New(cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("store init failed", "backend", cfg.Store.Backend, "error", err)
	}
	st = store.WithMetrics(st, cfg.Store.Backend)

	connectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	if err := st.Connect(connectCtx); err != nil {
		cancel()
		logr.Sugar().Fatalw("store connect failed", "backend", cfg.Store.Backend, "error", err)
	}
	cancel()

	opts := []service.Option{}
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("redis connect failed", "error", err)
		}
		defer redisClient.Close() //nolint:errcheck
		opts = append(opts, service.WithCache(redisClient, cfg.Cache.TTL))
	}

	svc := service.New(st, nil, logr, opts...)
	router := handler.NewRouter(cfg, logr, svc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting",
			"addr", srv.Addr,
			"env", cfg.Env,
			"backend", cfg.Store.Backend,
			"cache", cfg.Cache.Enabled,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown", "error", err)
	}
	if err := st.Disconnect(shutdownCtx); err != nil {
		logr.Sugar().Errorw("store disconnect", "error", err)
	}
}
