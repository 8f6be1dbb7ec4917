package bridgestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/txbridge/bridge-flood-service/internal/config"
	"github.com/txbridge/bridge-flood-service/internal/domain"
	"github.com/txbridge/bridge-flood-service/internal/observability"
)

// Client implements domain.BridgeProvider against an HTTP object store laid
// out as <base>/<uuid>.json (the public-HTTPS form of the S3 bucket).
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a bridge-store client with the configured timeout and
// retry budget.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BridgeStoreURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
		retries: cfg.FetchRetries,
		logger:  logger,
		metrics: metrics,
	}
}

// Get fetches and decodes one bridge record. Missing objects return
// domain.ErrUnknownBridge; transient failures are retried with exponential
// backoff up to the budget, then reported as domain.ErrProviderUnavailable.
func (c *Client) Get(ctx context.Context, bridgeUUID string) (*domain.BridgeRecord, error) {
	url := fmt.Sprintf("%s/%s.json", c.baseURL, bridgeUUID)

	start := time.Now()
	defer func() {
		c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}()

	backoff := 200 * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.metrics.BridgeFetchRetries.Inc()
			c.logger.Warn("retrying bridge fetch",
				"uuid", bridgeUUID,
				"attempt", attempt,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				c.metrics.BridgeFetches.WithLabelValues("error").Inc()
				return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		data, err := c.fetch(ctx, url)
		if err == nil {
			rec, decErr := DecodeRecord(bridgeUUID, data)
			if decErr != nil {
				// Bad reference data is fatal for this bridge, not transient.
				c.metrics.BridgeFetches.WithLabelValues("error").Inc()
				return nil, decErr
			}
			c.metrics.BridgeFetches.WithLabelValues("ok").Inc()
			return rec, nil
		}
		if notFound(err) {
			c.metrics.BridgeFetches.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownBridge, bridgeUUID)
		}
		lastErr = err
	}

	c.metrics.BridgeFetches.WithLabelValues("error").Inc()
	return nil, fmt.Errorf("%w: bridge %s after %d attempts: %v",
		domain.ErrProviderUnavailable, bridgeUUID, c.retries+1, lastErr)
}

// statusError marks a non-200 store response so retry logic can separate
// missing objects from transient failures.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("bridge store status %d: %s", e.code, e.body)
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bridge store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}
	return io.ReadAll(resp.Body)
}

// notFound reports whether the store said the object does not exist. S3
// answers 403 instead of 404 for missing keys when the caller lacks list
// permission, so both mean an unknown bridge.
func notFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && (se.code == http.StatusNotFound || se.code == http.StatusForbidden)
}
