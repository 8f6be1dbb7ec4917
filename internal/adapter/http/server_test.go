package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txbridge/bridge-flood-service/internal/domain"
)

const testUUID = "2e8cd88c-7949-4f17-a159-83b3670f7cc0"

type stubEngine struct {
	lastReq  domain.ForecastRequest
	model    domain.RenderModel
	err      error
	notReady error
}

func (s *stubEngine) Forecast(_ context.Context, req domain.ForecastRequest) (domain.RenderModel, error) {
	s.lastReq = req
	return s.model, s.err
}

func (s *stubEngine) CheckReadiness(_ context.Context) error { return s.notReady }

func newTestServer(engine *stubEngine, steps int) *Server {
	return NewServer(":0", engine, engine, steps, slog.New(slog.DiscardHandler))
}

func doGet(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func xsURL(uuidStr, flows, start string) string {
	q := url.Values{}
	if uuidStr != "" {
		q.Set("uuid", uuidStr)
	}
	if flows != "" {
		q.Set("list_flows", flows)
	}
	if start != "" {
		q.Set("first_utc_time", start)
	}
	return "/xs?" + q.Encode()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed", body["status"])
	return body
}

func TestCrossSection_OK(t *testing.T) {
	engine := &stubEngine{
		model: domain.RenderModel{UUID: testUUID, OverallRisk: domain.RiskClear},
	}
	s := newTestServer(engine, 0)

	rec := doGet(t, s, xsURL(testUUID, "10,20,30", "2024-02-04T19:00:00"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var model domain.RenderModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
	assert.Equal(t, testUUID, model.UUID)

	assert.Equal(t, testUUID, engine.lastReq.BridgeUUID)
	assert.Equal(t, []float64{10, 20, 30}, engine.lastReq.Flows)
	assert.Equal(t, time.Date(2024, 2, 4, 19, 0, 0, 0, time.UTC), engine.lastReq.StartTime)
}

func TestCrossSection_AcceptsLegacyForms(t *testing.T) {
	engine := &stubEngine{}
	s := newTestServer(engine, 0)

	t.Run("bracketed flow list", func(t *testing.T) {
		rec := doGet(t, s, xsURL(testUUID, "[10, 20, 30]", "2024-02-04T19:00:00"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []float64{10, 20, 30}, engine.lastReq.Flows)
	})

	t.Run("RFC3339 timestamp", func(t *testing.T) {
		rec := doGet(t, s, xsURL(testUUID, "10", "2024-02-04T19:00:00Z"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, time.Date(2024, 2, 4, 19, 0, 0, 0, time.UTC), engine.lastReq.StartTime)
	})
}

func TestCrossSection_Validation(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		steps      int
		wantStatus int
		wantCode   string
	}{
		{"missing uuid", xsURL("", "10,20", "2024-02-04T19:00:00"), 0, http.StatusBadRequest, "002"},
		{"missing flows", xsURL(testUUID, "", "2024-02-04T19:00:00"), 0, http.StatusBadRequest, "002"},
		{"missing time", xsURL(testUUID, "10,20", ""), 0, http.StatusBadRequest, "002"},
		{"non-numeric flow", xsURL(testUUID, "10,abc,30", "2024-02-04T19:00:00"), 0, http.StatusBadRequest, "003a"},
		{"negative flow", xsURL(testUUID, "10,-5,30", "2024-02-04T19:00:00"), 0, http.StatusBadRequest, "003b"},
		{"wrong count", xsURL(testUUID, "10,20,30", "2024-02-04T19:00:00"), 18, http.StatusBadRequest, "003c"},
		{"bad timestamp", xsURL(testUUID, "10,20", "yesterday"), 0, http.StatusBadRequest, "004"},
		{"malformed uuid", xsURL("not-a-uuid", "10,20", "2024-02-04T19:00:00"), 0, http.StatusNotFound, "005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubEngine{}, tt.steps)
			rec := doGet(t, s, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body["error_code"])
		})
	}
}

func TestCrossSection_EngineErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown bridge", domain.ErrUnknownBridge, http.StatusNotFound, "005"},
		{"empty forecast", domain.ErrEmptyForecast, http.StatusBadRequest, "003c"},
		{"store outage", domain.ErrProviderUnavailable, http.StatusServiceUnavailable, "006"},
		{"broken curve", domain.ErrInvalidCurve, http.StatusInternalServerError, "007"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&stubEngine{err: tt.err}, 0)
			rec := doGet(t, s, xsURL(testUUID, "10,20", "2024-02-04T19:00:00"))
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body["error_code"])
		})
	}
}

func TestHealthAndReadiness(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		rec := doGet(t, newTestServer(&stubEngine{}, 0), "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ready", func(t *testing.T) {
		rec := doGet(t, newTestServer(&stubEngine{}, 0), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		engine := &stubEngine{notReady: errors.New("no provider")}
		rec := doGet(t, newTestServer(engine, 0), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
