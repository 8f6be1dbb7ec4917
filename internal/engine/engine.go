// Package engine orchestrates one forecast request end to end: resolve the
// bridge record, profile the flows through the rating curve, classify each
// step, and assemble the render model. Requests are stateless and independent;
// the only shared state is the provider's cache.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/txbridge/bridge-flood-service/internal/domain"
	"github.com/txbridge/bridge-flood-service/internal/observability"
)

// AlertPublisher pushes worst-risk summaries to an alerting channel.
type AlertPublisher interface {
	PublishRiskAlert(ctx context.Context, alert domain.RiskAlert) error
}

// Engine runs the flow-to-depth conversion and risk classification for one
// request at a time. Safe for concurrent use.
type Engine struct {
	provider      domain.BridgeProvider
	alerts        AlertPublisher // nil when alerting is disabled
	warningMargin float64
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// New creates an Engine. alerts may be nil to disable risk alerting.
func New(provider domain.BridgeProvider, alerts AlertPublisher, warningMargin float64, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		provider:      provider,
		alerts:        alerts,
		warningMargin: warningMargin,
		logger:        logger,
		metrics:       metrics,
	}
}

// CheckReadiness reports whether the engine can serve traffic.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if e.provider == nil {
		return errors.New("no bridge provider configured")
	}
	return nil
}

// Forecast produces the render model for one forecast request.
//
// Failures are typed: domain.ErrUnknownBridge, domain.ErrEmptyForecast,
// domain.ErrInvalidCurve, domain.ErrProviderUnavailable. The engine never
// retries and never substitutes defaults for bad input; silently clamping an
// invalid forecast could mask real flood risk.
func (e *Engine) Forecast(ctx context.Context, req domain.ForecastRequest) (domain.RenderModel, error) {
	start := time.Now()
	defer func() {
		e.metrics.RequestDuration.Observe(time.Since(start).Seconds())
	}()

	rec, err := e.provider.Get(ctx, req.BridgeUUID)
	if err != nil {
		e.metrics.ForecastRequests.WithLabelValues(outcomeFor(err)).Inc()
		return domain.RenderModel{}, err
	}

	profile, err := domain.ProfileDepths(rec, req)
	if err != nil {
		e.metrics.ForecastRequests.WithLabelValues(outcomeFor(err)).Inc()
		return domain.RenderModel{}, err
	}
	domain.ClassifyProfile(rec, profile, e.warningMargin)

	model := domain.AssembleRenderModel(rec, profile)
	e.metrics.ForecastRequests.WithLabelValues("ok").Inc()
	e.metrics.WorstRisk.WithLabelValues(model.OverallRisk.String()).Inc()

	e.logger.Debug("forecast served",
		"uuid", req.BridgeUUID,
		"steps", len(profile),
		"worst_risk", model.OverallRisk.String(),
	)

	e.publishAlert(ctx, rec, profile)
	return model, nil
}

// publishAlert sends a worst-risk summary when the profile reaches low-chord
// submersion. Best effort: a publish failure is logged and counted, the
// request still succeeds.
func (e *Engine) publishAlert(ctx context.Context, rec *domain.BridgeRecord, profile domain.DepthProfile) {
	if e.alerts == nil {
		return
	}
	alert, ok := domain.NewRiskAlert(rec, profile)
	if !ok {
		return
	}
	if err := e.alerts.PublishRiskAlert(ctx, alert); err != nil {
		e.metrics.AlertErrors.Inc()
		e.logger.Error("risk alert publish failed",
			"uuid", alert.BridgeUUID,
			"risk", alert.Risk.String(),
			"error", err,
		)
		return
	}
	e.metrics.AlertsPublished.Inc()
	e.logger.Info("risk alert published",
		"uuid", alert.BridgeUUID,
		"risk", alert.Risk.String(),
		"first_exceedance", alert.FirstExceedance,
	)
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownBridge):
		return "not_found"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrEmptyForecast):
		return "client_error"
	default:
		return "error"
	}
}
