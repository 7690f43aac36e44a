package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/api"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/api/handlers"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/api/middleware"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/cache"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/cohort"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/config"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/metrics"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/provider"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	configPath := os.Getenv("COHORT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(level)
	}

	client := provider.NewClient(cfg.Provider.APIKey)
	if cfg.Provider.BaseURL != "" {
		client.BaseURL = cfg.Provider.BaseURL
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	assembler := cohort.New(client, cohort.Options{
		PageSize:    cfg.Cohort.PageSize,
		Concurrency: cfg.Cohort.Concurrency,
		IgnoreFees:  cfg.Cohort.IgnoreFees,
	}, m, log)

	handler := handlers.NewCohortHandler(assembler, cache.New(cfg.Cache.TTL), log)

	r := chi.NewRouter()
	r.Use(middleware.Logger(log, m))
	r.Mount("/", api.NewRouter(handler, registry, cfg.Metrics.Enabled))

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("HTTP server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("starting cohort-service")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("listen")
	}

	<-idleConnsClosed
	log.Info("server stopped")
}
