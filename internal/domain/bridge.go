package domain

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// CrossSection holds the channel and bridge structure profiles as parallel
// series over the same stations, matching the layout of the stored bridge
// objects.
type CrossSection struct {
	Stations     []float64 `json:"stations"`      // feet, strictly increasing
	GroundElev   []float64 `json:"ground_elev"`   // channel ground profile
	DeckElev     []float64 `json:"deck_elev"`     // bridge deck profile
	LowChordElev []float64 `json:"low_chord_elev"` // underside of superstructure
}

// Annotations are static labels prepared offline for the cross-section plot.
type Annotations struct {
	Title   string `json:"title,omitempty"`    // e.g. "FM 1431 @ Cow Creek"
	LatLong string `json:"lat_long,omitempty"` // e.g. "Lat/Long: (30.51,-98.05)"
	NBI     string `json:"nbi,omitempty"`      // National Bridge Inventory asset
	Comid   string `json:"comid,omitempty"`    // e.g. "NWM COMID: 5671187"
}

// BridgeRecord is the static reference data for one bridge site. Records are
// immutable once decoded and may be cached indefinitely.
type BridgeRecord struct {
	UUID    string       `json:"uuid"`
	ReachID string       `json:"reach_id"` // NWM COMID feeding the forecast
	XS      CrossSection `json:"cross_section"`
	Rating  RatingCurve  `json:"rating_curve"`

	// Structural threshold elevations, feet. LowChordElev and DeckElev are
	// the lowest points of their respective profiles; the first elevation a
	// rising water surface reaches.
	LowChordElev float64 `json:"low_chord_elev"`
	DeckElev     float64 `json:"deck_elev"`

	Annotations Annotations `json:"annotations"`

	// ZoneLimits is the precomputed stage-graph shading ladder, depths above
	// the invert from the top of the plot downward. Optional.
	ZoneLimits []float64 `json:"zone_limits,omitempty"`
}

// InvertElev returns the channel invert, the lowest ground elevation in the
// cross-section. Depths from the rating curve are measured above this datum.
func (b *BridgeRecord) InvertElev() float64 {
	invert := math.Inf(1)
	for _, e := range b.XS.GroundElev {
		if e < invert {
			invert = e
		}
	}
	return invert
}

// Validate checks the record invariants. A record that fails validation is
// unusable and must fail the provider lookup; the interpolator and profiler
// assume they only ever see validated records.
func (b *BridgeRecord) Validate() error {
	if _, err := uuid.Parse(b.UUID); err != nil {
		return fmt.Errorf("bridge uuid %q: %w", b.UUID, err)
	}
	if err := b.XS.validate(); err != nil {
		return fmt.Errorf("bridge %s: %w", b.UUID, err)
	}
	if err := b.Rating.Validate(); err != nil {
		return fmt.Errorf("bridge %s: %w", b.UUID, err)
	}
	if b.DeckElev < b.LowChordElev {
		return fmt.Errorf("bridge %s: deck elevation %.2f below low chord %.2f", b.UUID, b.DeckElev, b.LowChordElev)
	}
	return nil
}

func (xs *CrossSection) validate() error {
	n := len(xs.Stations)
	if n == 0 {
		return fmt.Errorf("cross-section has no stations")
	}
	if len(xs.GroundElev) != n || len(xs.DeckElev) != n || len(xs.LowChordElev) != n {
		return fmt.Errorf("cross-section series lengths differ: sta=%d ground=%d deck=%d low_chord=%d",
			n, len(xs.GroundElev), len(xs.DeckElev), len(xs.LowChordElev))
	}
	for i, s := range xs.Stations {
		if math.IsNaN(s) || s < 0 {
			return fmt.Errorf("station[%d] = %v: must be a non-negative number", i, s)
		}
		if i > 0 && s <= xs.Stations[i-1] {
			return fmt.Errorf("station[%d] = %v: stations must be strictly increasing", i, s)
		}
		if math.IsNaN(xs.GroundElev[i]) || math.IsNaN(xs.DeckElev[i]) || math.IsNaN(xs.LowChordElev[i]) {
			return fmt.Errorf("elevation[%d] is NaN", i)
		}
	}
	return nil
}

// BridgeProvider resolves a bridge UUID to its static record.
//
// Implementations own all I/O and caching: Get returns ErrUnknownBridge when
// no object exists for the UUID and ErrProviderUnavailable after exhausting
// any local retry budget. Concurrent misses for the same UUID must collapse
// into a single underlying fetch.
type BridgeProvider interface {
	Get(ctx context.Context, bridgeUUID string) (*BridgeRecord, error)
}
