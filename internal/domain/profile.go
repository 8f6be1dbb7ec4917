package domain

import (
	"fmt"
	"time"
)

// ForecastStep is the spacing of NWM short-range forecast values.
const ForecastStep = time.Hour

// ForecastRequest carries one incoming forecast for one bridge. Transient;
// created per request and never persisted.
type ForecastRequest struct {
	BridgeUUID string
	Flows      []float64 // cfs, one per forecast step, each >= 0
	StartTime  time.Time // UTC time of step 0
}

// DepthPoint is one step of a computed depth profile.
type DepthPoint struct {
	Time  time.Time `json:"time"`
	Flow  float64   `json:"flow"`
	Depth float64   `json:"depth"`
	Risk  RiskLevel `json:"risk"`
}

// DepthProfile is the time-indexed result of running a forecast through a
// bridge's rating curve, same length and order as the input flows. Derived
// data: recomputed per request, never cached.
type DepthProfile []DepthPoint

// ProfileDepths converts the request's flow sequence into a depth time series
// using the bridge's rating curve. Sample i is stamped StartTime + i hours.
// Risk fields are zero; callers classify with ClassifyProfile.
func ProfileDepths(rec *BridgeRecord, req ForecastRequest) (DepthProfile, error) {
	if len(req.Flows) == 0 {
		return nil, fmt.Errorf("%w: bridge %s", ErrEmptyForecast, req.BridgeUUID)
	}

	profile := make(DepthProfile, len(req.Flows))
	for i, flow := range req.Flows {
		depth, err := rec.Rating.DepthFor(flow)
		if err != nil {
			return nil, fmt.Errorf("bridge %s step %d: %w", req.BridgeUUID, i, err)
		}
		profile[i] = DepthPoint{
			Time:  req.StartTime.Add(time.Duration(i) * ForecastStep),
			Flow:  flow,
			Depth: depth,
		}
	}
	return profile, nil
}
