package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast engine and its bridge-store provider.
type Metrics struct {
	ForecastRequests *prometheus.CounterVec // labels: outcome={ok,client_error,not_found,unavailable,error}
	RequestDuration  prometheus.Histogram
	WorstRisk        *prometheus.CounterVec // labels: level={clear,approaching_low_chord,low_chord_submerged,deck_submerged}

	// Bridge record provider metrics.
	BridgeFetches      *prometheus.CounterVec // labels: outcome={ok,not_found,error}
	BridgeFetchRetries prometheus.Counter
	FetchDuration      prometheus.Histogram
	CacheLookups       *prometheus.CounterVec // labels: result={hit,miss}
	SharedFetches      prometheus.Counter     // concurrent misses collapsed by single-flight

	// Alerting metrics.
	AlertsPublished prometheus.Counter
	AlertErrors     prometheus.Counter
	AlertsEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridge_xs",
			Name:      "forecast_requests_total",
			Help:      "Forecast requests by outcome.",
		}, []string{"outcome"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bridge_xs",
			Name:      "request_duration_seconds",
			Help:      "Duration of a complete lookup-profile-classify-assemble cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		WorstRisk: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridge_xs",
			Name:      "worst_risk_total",
			Help:      "Per-request worst risk level across the depth profile.",
		}, []string{"level"}),
		BridgeFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridge_xs",
			Name:      "bridge_fetches_total",
			Help:      "Object-store fetches of bridge records by outcome.",
		}, []string{"outcome"}),
		BridgeFetchRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bridge_xs",
			Name:      "bridge_fetch_retries_total",
			Help:      "Transient fetch failures retried within the provider budget.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bridge_xs",
			Name:      "bridge_fetch_duration_seconds",
			Help:      "Object-store fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridge_xs",
			Name:      "bridge_cache_total",
			Help:      "Bridge record cache lookups by result.",
		}, []string{"result"}),
		SharedFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bridge_xs",
			Name:      "bridge_shared_fetches_total",
			Help:      "Concurrent cache misses that shared another caller's fetch.",
		}),
		AlertsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bridge_xs",
			Name:      "alerts_published_total",
			Help:      "Risk alerts published to the alert topic.",
		}),
		AlertErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bridge_xs",
			Name:      "alert_errors_total",
			Help:      "Failed alert publishes.",
		}),
		AlertsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bridge_xs",
			Name:      "alerts_enabled",
			Help:      "1 when Kafka risk alerting is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ForecastRequests,
		m.RequestDuration,
		m.WorstRisk,
		m.BridgeFetches,
		m.BridgeFetchRetries,
		m.FetchDuration,
		m.CacheLookups,
		m.SharedFetches,
		m.AlertsPublished,
		m.AlertErrors,
		m.AlertsEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry,
// avoiding "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bridge_xs", Name: "forecast_requests_total"}, []string{"outcome"}),
		RequestDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bridge_xs", Name: "request_duration_seconds"}),
		WorstRisk:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bridge_xs", Name: "worst_risk_total"}, []string{"level"}),
		BridgeFetches:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bridge_xs", Name: "bridge_fetches_total"}, []string{"outcome"}),
		BridgeFetchRetries: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bridge_xs", Name: "bridge_fetch_retries_total"}),
		FetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "bridge_xs", Name: "bridge_fetch_duration_seconds"}),
		CacheLookups:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "bridge_xs", Name: "bridge_cache_total"}, []string{"result"}),
		SharedFetches:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bridge_xs", Name: "bridge_shared_fetches_total"}),
		AlertsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bridge_xs", Name: "alerts_published_total"}),
		AlertErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "bridge_xs", Name: "alert_errors_total"}),
		AlertsEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "bridge_xs", Name: "alerts_enabled"}),
	}
}
