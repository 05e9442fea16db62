package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/civicpulse/incident-etl/internal/adapter/httpapi"
	kafkaadapter "github.com/civicpulse/incident-etl/internal/adapter/kafka"
	"github.com/civicpulse/incident-etl/internal/config"
	"github.com/civicpulse/incident-etl/internal/observability"
	"github.com/civicpulse/incident-etl/internal/pipeline"
	"github.com/civicpulse/incident-etl/internal/scoring"
	"github.com/civicpulse/incident-etl/internal/source"
	"github.com/civicpulse/incident-etl/internal/store"

	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	sources := []source.Source{
		source.NewCountyNews(cfg.CountyNewsFeedURL, cfg.FetchTimeout, logger),
		source.NewScanner(cfg.ScannerFeedURL, cfg.FetchTimeout, logger),
		source.NewTraffic(cfg.TrafficAPIURL, cfg.FetchTimeout, logger),
		source.NewWeather(cfg.WeatherAPIURL, cfg.FetchTimeout, logger),
	}

	// Publisher is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.PublishEnabled() {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		publisher = kafkaPublisher
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	writer := pipeline.NewDedupWriter(st, logger)
	runner := pipeline.NewRunner(sources, writer, publisher, logger, metrics)
	engine := scoring.New(st, logger, clockwork.NewRealClock())

	srv := httpapi.NewServer(httpapi.Config{
		Addr:        cfg.HTTPAddr,
		IngestToken: cfg.IngestToken,
		Development: cfg.Development(),
	}, runner, engine, st, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scheduled ingestion runs (INGEST_CRON=off disables).
	var scheduler *cron.Cron
	if cfg.SchedulerEnabled() {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.IngestCron, func() {
			runner.RunAll(ctx)
		}); err != nil {
			logger.Error("failed to schedule ingestion", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
		logger.Info("ingestion scheduler started", "schedule", cfg.IngestCron)
	} else {
		logger.Info("ingestion scheduler disabled")
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := st.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
