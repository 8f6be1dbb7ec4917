package domain

import (
	"fmt"
	"math"
)

// RatingPoint is one sample of a synthetic rating curve.
type RatingPoint struct {
	Flow  float64 `json:"flow"`  // cfs
	Depth float64 `json:"depth"` // feet above the channel invert
}

// RatingCurve maps stream flow to water depth at one cross-section. Samples
// are ordered by strictly increasing flow with non-decreasing depth.
type RatingCurve []RatingPoint

// Validate checks the curve invariants, returning ErrInvalidCurve when the
// curve cannot support interpolation.
func (rc RatingCurve) Validate() error {
	if len(rc) < 2 {
		return fmt.Errorf("%w: %d samples, need at least 2", ErrInvalidCurve, len(rc))
	}
	for i, p := range rc {
		if math.IsNaN(p.Flow) || math.IsNaN(p.Depth) || p.Flow < 0 || p.Depth < 0 {
			return fmt.Errorf("%w: sample %d (%v, %v) out of range", ErrInvalidCurve, i, p.Flow, p.Depth)
		}
		if i > 0 {
			if p.Flow <= rc[i-1].Flow {
				return fmt.Errorf("%w: flow not strictly ascending at sample %d (%v after %v)",
					ErrInvalidCurve, i, p.Flow, rc[i-1].Flow)
			}
			if p.Depth < rc[i-1].Depth {
				return fmt.Errorf("%w: depth decreasing at sample %d (%v after %v)",
					ErrInvalidCurve, i, p.Depth, rc[i-1].Depth)
			}
		}
	}
	return nil
}

// DepthFor converts a flow to a depth above the channel invert.
//
// Flows below the first sample clamp to the first sample's depth; flows above
// the last sample extrapolate along the slope of the last two samples. See the
// package documentation for why the two out-of-range cases differ. Negative
// flows are treated as zero.
func (rc RatingCurve) DepthFor(flow float64) (float64, error) {
	if err := rc.Validate(); err != nil {
		return 0, err
	}
	if flow < 0 {
		flow = 0
	}

	first, last := rc[0], rc[len(rc)-1]
	if flow <= first.Flow {
		// Exact match on the first sample, or clamp below range.
		return first.Depth, nil
	}
	if flow > last.Flow {
		prev := rc[len(rc)-2]
		slope := (last.Depth - prev.Depth) / (last.Flow - prev.Flow)
		return last.Depth + slope*(flow-last.Flow), nil
	}

	for i := 1; i < len(rc); i++ {
		p := rc[i]
		if flow == p.Flow {
			return p.Depth, nil
		}
		if flow < p.Flow {
			lo := rc[i-1]
			frac := (flow - lo.Flow) / (p.Flow - lo.Flow)
			return lo.Depth + frac*(p.Depth-lo.Depth), nil
		}
	}
	// Unreachable: flow <= last.Flow is handled by the loop.
	return last.Depth, nil
}
