package http

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/txbridge/bridge-flood-service/internal/domain"
)

// requestError pairs an HTTP status with the legacy error codes the original
// plot service used, kept stable for existing consumers:
//
//	002  required parameter missing
//	003a non-numeric value in list_flows
//	003b negative value in list_flows
//	003c wrong number of list_flows values
//	004  unparseable first_utc_time
//	005  no bridge data for the given uuid
//	006  bridge data store unavailable
//	007  bridge data could not be processed
type requestError struct {
	status int
	code   string
	text   string
}

func (e *requestError) Error() string {
	return fmt.Sprintf("%s: %s", e.code, e.text)
}

func codeUnknownBridge(_ error) *requestError {
	return &requestError{
		status: http.StatusNotFound,
		code:   "005",
		text:   "no bridge data found for the given uuid",
	}
}

// parseForecastRequest validates the /xs query parameters. Validation fails
// fast with the first violated rule; nothing is silently defaulted.
func (s *Server) parseForecastRequest(r *http.Request) (domain.ForecastRequest, *requestError) {
	q := r.URL.Query()

	uuidStr := q.Get("uuid")
	flowsStr := q.Get("list_flows")
	timeStr := q.Get("first_utc_time")
	if uuidStr == "" || flowsStr == "" || timeStr == "" {
		return domain.ForecastRequest{}, &requestError{
			status: http.StatusBadRequest,
			code:   "002",
			text:   "uuid, list_flows and first_utc_time are required",
		}
	}

	id, err := uuid.Parse(uuidStr)
	if err != nil {
		// A malformed UUID can never name a stored bridge object.
		return domain.ForecastRequest{}, codeUnknownBridge(err)
	}

	flows, reqErr := parseFlows(flowsStr)
	if reqErr != nil {
		return domain.ForecastRequest{}, reqErr
	}
	if s.steps > 0 && len(flows) != s.steps {
		return domain.ForecastRequest{}, &requestError{
			status: http.StatusBadRequest,
			code:   "003c",
			text:   fmt.Sprintf("list_flows must contain exactly %d values, got %d", s.steps, len(flows)),
		}
	}

	start, err := parseStartTime(timeStr)
	if err != nil {
		return domain.ForecastRequest{}, &requestError{
			status: http.StatusBadRequest,
			code:   "004",
			text:   "first_utc_time must be an ISO-8601 timestamp",
		}
	}

	return domain.ForecastRequest{
		BridgeUUID: id.String(),
		Flows:      flows,
		StartTime:  start,
	}, nil
}

// parseFlows parses the comma-separated flow list. Legacy clients send the
// list bracketed ("[10,20,...]"); both forms are accepted.
func parseFlows(s string) ([]float64, *requestError) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil, nil // engine reports the empty forecast
	}

	parts := strings.Split(s, ",")
	flows := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &requestError{
				status: http.StatusBadRequest,
				code:   "003a",
				text:   fmt.Sprintf("list_flows value %d is not numeric", i),
			}
		}
		if v < 0 {
			return nil, &requestError{
				status: http.StatusBadRequest,
				code:   "003b",
				text:   fmt.Sprintf("list_flows value %d is negative", i),
			}
		}
		flows[i] = v
	}
	return flows, nil
}

// parseStartTime accepts RFC 3339 or the zoneless "2024-02-04T19:00:00" form
// the forecast service sends; zoneless times are UTC.
func parseStartTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
