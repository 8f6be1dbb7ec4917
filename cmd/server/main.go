package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/txbridge/bridge-flood-service/internal/adapter/bridgestore"
	httpadapter "github.com/txbridge/bridge-flood-service/internal/adapter/http"
	kafkaadapter "github.com/txbridge/bridge-flood-service/internal/adapter/kafka"
	"github.com/txbridge/bridge-flood-service/internal/config"
	"github.com/txbridge/bridge-flood-service/internal/engine"
	"github.com/txbridge/bridge-flood-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := bridgestore.NewClient(cfg, logger, metrics)
	provider := bridgestore.NewCachedProvider(client, cfg.BridgeCacheSize, metrics)
	logger.Info("bridge store configured",
		"url", cfg.BridgeStoreURL,
		"cache_size", cfg.BridgeCacheSize,
		"fetch_retries", cfg.FetchRetries,
	)

	// Risk alerting is feature-flagged via ALERTS_ENABLED / KAFKA_BROKERS.
	var alerts engine.AlertPublisher
	var alertWriter *kafkaadapter.AlertWriter
	if cfg.AlertsEnabled {
		alertWriter = kafkaadapter.NewAlertWriter(cfg, logger)
		alerts = alertWriter
		metrics.AlertsEnabled.Set(1)
		logger.Info("risk alerting enabled", "topic", cfg.AlertTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("risk alerting disabled")
	}

	eng := engine.New(provider, alerts, cfg.WarningMargin, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, eng, cfg.ForecastSteps, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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
	if alertWriter != nil {
		if err := alertWriter.Close(); err != nil {
			logger.Error("alert writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
