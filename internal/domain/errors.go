package domain

import "errors"

// Sentinel errors for the forecast engine. Callers classify failures with
// errors.Is; adapters wrap these with request context via fmt.Errorf("%w").
var (
	// ErrInvalidCurve marks a malformed or degenerate rating curve: fewer
	// than two samples, flows not strictly ascending, or depths decreasing.
	// Fatal for that bridge; never retried.
	ErrInvalidCurve = errors.New("invalid rating curve")

	// ErrUnknownBridge marks a bridge UUID with no object in the store.
	// Surfaced to clients as not-found.
	ErrUnknownBridge = errors.New("unknown bridge")

	// ErrEmptyForecast marks a request with no flow values. A zero-point
	// profile is meaningless for rendering, so this is a client error rather
	// than an empty success.
	ErrEmptyForecast = errors.New("empty forecast")

	// ErrProviderUnavailable marks a transient bridge-store failure that
	// survived the provider's local retry budget. The engine performs no
	// retries of its own; retry and backoff policy beyond the provider's
	// budget belongs to the caller.
	ErrProviderUnavailable = errors.New("bridge provider unavailable")
)
