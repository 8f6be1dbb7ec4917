package engine

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txbridge/bridge-flood-service/internal/domain"
	"github.com/txbridge/bridge-flood-service/internal/observability"
)

const testUUID = "2e8cd88c-7949-4f17-a159-83b3670f7cc0"

type stubProvider struct {
	rec *domain.BridgeRecord
	err error
}

func (p *stubProvider) Get(_ context.Context, _ string) (*domain.BridgeRecord, error) {
	return p.rec, p.err
}

type stubAlerter struct {
	alerts []domain.RiskAlert
	err    error
}

func (a *stubAlerter) PublishRiskAlert(_ context.Context, alert domain.RiskAlert) error {
	if a.err != nil {
		return a.err
	}
	a.alerts = append(a.alerts, alert)
	return nil
}

// testRecord: invert 0.0, low chord 8.0, deck 10.0, curve 0->0, 1000->2, 5000->6.5
// extrapolating beyond 5000 cfs.
func testRecord() *domain.BridgeRecord {
	return &domain.BridgeRecord{
		UUID:    testUUID,
		ReachID: "5671187",
		XS: domain.CrossSection{
			Stations:     []float64{0, 50, 100},
			GroundElev:   []float64{2.0, 0.0, 2.0},
			DeckElev:     []float64{10.0, 10.0, 10.0},
			LowChordElev: []float64{8.0, 8.0, 8.0},
		},
		Rating: domain.RatingCurve{
			{Flow: 0, Depth: 0},
			{Flow: 1000, Depth: 2.0},
			{Flow: 5000, Depth: 6.5},
		},
		LowChordElev: 8.0,
		DeckElev:     10.0,
	}
}

func newTestEngine(provider domain.BridgeProvider, alerts AlertPublisher) *Engine {
	return New(provider, alerts, 2.0, slog.New(slog.DiscardHandler), observability.NewMetricsForTesting())
}

func TestForecast(t *testing.T) {
	start := time.Date(2024, 2, 4, 19, 0, 0, 0, time.UTC)

	t.Run("profiles classifies and assembles", func(t *testing.T) {
		e := newTestEngine(&stubProvider{rec: testRecord()}, nil)

		model, err := e.Forecast(context.Background(), domain.ForecastRequest{
			BridgeUUID: testUUID,
			Flows:      []float64{0, 500, 5000, 8000},
			StartTime:  start,
		})
		require.NoError(t, err)

		require.Len(t, model.WaterSurfaces, 4)
		assert.Equal(t, 0.0, model.WaterSurfaces[0].Depth)
		assert.Equal(t, 1.0, model.WaterSurfaces[1].Depth)
		assert.Equal(t, 6.5, model.WaterSurfaces[2].Depth)
		assert.Greater(t, model.WaterSurfaces[3].Depth, 6.5, "above-range flow extrapolates")

		assert.Equal(t, domain.RiskClear, model.WaterSurfaces[0].Risk)
		assert.Equal(t, domain.RiskApproachingLowChord, model.WaterSurfaces[2].Risk)
		assert.Equal(t, domain.RiskLowChordSubmerged, model.WaterSurfaces[3].Risk)
		assert.Equal(t, domain.RiskLowChordSubmerged, model.OverallRisk)

		assert.Equal(t, start, model.WaterSurfaces[0].Time)
		assert.Equal(t, start.Add(3*time.Hour), model.WaterSurfaces[3].Time)
	})

	t.Run("unknown bridge passes through", func(t *testing.T) {
		e := newTestEngine(&stubProvider{err: domain.ErrUnknownBridge}, nil)
		_, err := e.Forecast(context.Background(), domain.ForecastRequest{
			BridgeUUID: testUUID,
			Flows:      []float64{10},
			StartTime:  start,
		})
		assert.ErrorIs(t, err, domain.ErrUnknownBridge)
	})

	t.Run("provider outage passes through", func(t *testing.T) {
		e := newTestEngine(&stubProvider{err: domain.ErrProviderUnavailable}, nil)
		_, err := e.Forecast(context.Background(), domain.ForecastRequest{
			BridgeUUID: testUUID,
			Flows:      []float64{10},
			StartTime:  start,
		})
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})

	t.Run("empty flows fail", func(t *testing.T) {
		e := newTestEngine(&stubProvider{rec: testRecord()}, nil)
		_, err := e.Forecast(context.Background(), domain.ForecastRequest{
			BridgeUUID: testUUID,
			StartTime:  start,
		})
		assert.ErrorIs(t, err, domain.ErrEmptyForecast)
	})
}

func TestForecastAlerting(t *testing.T) {
	start := time.Date(2024, 2, 4, 19, 0, 0, 0, time.UTC)
	submergingFlows := []float64{100, 9000} // second step well above the low chord

	t.Run("publishes on low-chord submersion", func(t *testing.T) {
		alerter := &stubAlerter{}
		e := newTestEngine(&stubProvider{rec: testRecord()}, alerter)

		_, err := e.Forecast(context.Background(), domain.ForecastRequest{
			BridgeUUID: testUUID,
			Flows:      submergingFlows,
			StartTime:  start,
		})
		require.NoError(t, err)

		require.Len(t, alerter.alerts, 1)
		alert := alerter.alerts[0]
		assert.Equal(t, testUUID, alert.BridgeUUID)
		assert.Equal(t, "5671187", alert.ReachID)
		assert.GreaterOrEqual(t, alert.Risk, domain.RiskLowChordSubmerged)
		assert.Equal(t, start.Add(time.Hour), alert.FirstExceedance)
	})

	t.Run("quiet when forecast stays clear", func(t *testing.T) {
		alerter := &stubAlerter{}
		e := newTestEngine(&stubProvider{rec: testRecord()}, alerter)

		_, err := e.Forecast(context.Background(), domain.ForecastRequest{
			BridgeUUID: testUUID,
			Flows:      []float64{10, 20, 30},
			StartTime:  start,
		})
		require.NoError(t, err)
		assert.Empty(t, alerter.alerts)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		alerter := &stubAlerter{err: errors.New("broker down")}
		e := newTestEngine(&stubProvider{rec: testRecord()}, alerter)

		model, err := e.Forecast(context.Background(), domain.ForecastRequest{
			BridgeUUID: testUUID,
			Flows:      submergingFlows,
			StartTime:  start,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RiskDeckSubmerged, model.OverallRisk)
	})
}

func TestCheckReadiness(t *testing.T) {
	assert.NoError(t, newTestEngine(&stubProvider{}, nil).CheckReadiness(context.Background()))
	assert.Error(t, newTestEngine(nil, nil).CheckReadiness(context.Background()))
}
