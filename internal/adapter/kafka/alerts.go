// Package kafka publishes worst-risk forecast summaries to an alert topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/txbridge/bridge-flood-service/internal/config"
	"github.com/txbridge/bridge-flood-service/internal/domain"
)

// messageWriter is the slice of kafkago.Writer the alert path uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// AlertWriter produces risk alerts to a Kafka topic.
// It implements engine.AlertPublisher.
type AlertWriter struct {
	writer messageWriter
	logger *slog.Logger
}

// NewAlertWriter creates a Kafka producer for the configured alert topic.
func NewAlertWriter(cfg *config.Config, logger *slog.Logger) *AlertWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertWriter{writer: w, logger: logger}
}

// PublishRiskAlert serializes and publishes one alert. Messages are keyed by
// bridge UUID so all alerts for a bridge land on one partition in order.
func (w *AlertWriter) PublishRiskAlert(ctx context.Context, alert domain.RiskAlert) error {
	msg, err := serializeAlert(alert)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	w.logger.Debug("published risk alert",
		"bridge_uuid", alert.BridgeUUID,
		"risk", alert.Risk.String(),
		"peak_depth", alert.PeakDepth,
	)
	return nil
}

func (w *AlertWriter) Close() error {
	return w.writer.Close()
}

func serializeAlert(alert domain.RiskAlert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize risk alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.BridgeUUID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk", Value: []byte(alert.Risk.String())},
			{Key: "reach_id", Value: []byte(alert.ReachID)},
			{Key: "generated_at", Value: []byte(alert.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
