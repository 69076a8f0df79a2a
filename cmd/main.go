package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kdduha/multimodal-gateway/internal/cache"
	"github.com/kdduha/multimodal-gateway/internal/config"
	"github.com/kdduha/multimodal-gateway/internal/handler"
	"github.com/kdduha/multimodal-gateway/internal/logging"
	"github.com/kdduha/multimodal-gateway/internal/metrics"
	"github.com/kdduha/multimodal-gateway/internal/provider"
	"github.com/kdduha/multimodal-gateway/internal/service"
	"github.com/kdduha/multimodal-gateway/internal/upload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/kdduha/multimodal-gateway/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Multimodal Gateway API
// @version 1.0
// @description Forwards text, image, document and audio inputs to a generative model.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		stdlog.Fatalf("logger error: %v", err)
	}

	generator, err := provider.New(cfg.Model)
	if err != nil {
		logger.WithError(err).Fatal("provider init failed")
	}
	if c, ok := generator.(interface{ Close() error }); ok {
		defer c.Close()
	}

	uploads, err := upload.NewStore(cfg.Upload.Dir)
	if err != nil {
		logger.WithError(err).Fatal("upload store init failed")
	}

	generateService := service.NewGenerateService(logger, generator)

	if cfg.CacheEnable {
		redisCache := cache.NewRedisCache(
			cfg.RedisConfig.Addr,
			cfg.RedisConfig.Password,
			cfg.RedisConfig.DB,
			cfg.RedisConfig.TTL,
		)
		defer redisCache.Close()
		generateService.SetCacheClient(redisCache)
		logger.WithField("addr", cfg.RedisConfig.Addr).Info("set redis as cache")
	}

	h := handler.NewGenerateHandler(logger, generateService, uploads)

	r := chi.NewRouter()
	r.Use(middleware.Logger, middleware.Recoverer)
	if cfg.Server.ThrottleLimit > 0 {
		r.Use(middleware.Throttle(cfg.Server.ThrottleLimit))
	}
	if cfg.Server.Timeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.Timeout))
	}
	r.Use(metrics.Middleware)

	h.Register(r)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.WithFields(log.Fields{
			"port":     cfg.Server.Port,
			"provider": generator.Name(),
		}).Infof("gateway is running at http://localhost:%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("listen error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}
	logger.Info("server stopped")
}
