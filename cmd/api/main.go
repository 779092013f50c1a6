package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobility-insights-go/internal/api"
	"mobility-insights-go/internal/config"
	"mobility-insights-go/internal/dataset"
	"mobility-insights-go/internal/fetch"
	"mobility-insights-go/internal/logger"
	"mobility-insights-go/internal/pipeline"
	"mobility-insights-go/internal/processor"
)

func main() {
	cfg, err := config.Load() // loads .env
	log := logger.New()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.WithField("service", "mobility-insights-go").Info("starting service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DatasetURL != "" {
		log.WithField("dataset_url", cfg.DatasetURL).Info("fetching dataset")
		if err := fetch.Fetch(ctx, cfg.DatasetURL, cfg.DatasetPath, cfg.FetchMaxElapsed); err != nil {
			log.WithError(err).Fatal("failed to fetch dataset")
		}
	}

	log.WithField("dataset_path", cfg.DatasetPath).Info("loading dataset")
	records, stats, err := dataset.LoadWithStats(cfg.DatasetPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load dataset")
	}
	store := dataset.NewStore(records)
	summary := dataset.Summarize(records)
	log.WithField("kept", stats.Kept).WithField("countries", summary.Countries).Info("dataset ready")

	proc := processor.New(store, cfg.CacheSize, log)
	if cfg.CacheSize > 0 {
		go func() {
			if _, err := pipeline.Warm(ctx, proc, store.Countries(), cfg.WarmWorkers, cfg.WarmTimeout); err != nil {
				log.WithError(err).Warn("cache warm-up incomplete")
			}
		}()
	}

	srv := api.NewServer(proc, summary, log).NewHTTPServer(cfg.Addr())
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown failed")
		}
	}()

	log.WithField("addr", srv.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server terminated")
	}
	log.Info("server stopped")
}
