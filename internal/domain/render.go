package domain

import (
	"fmt"
	"math"
	"time"
)

// groundBuffer is how far the ground fill extends below the lowest channel
// elevation on the plot, feet.
const groundBuffer = 1.0

// WaterSurface is one horizontal water-surface line in the render model,
// tagged with its forecast step.
type WaterSurface struct {
	Time      time.Time `json:"time"`
	HourAhead int       `json:"hour_ahead"` // 1-based forecast hour
	Label     string    `json:"label"`      // e.g. "+6hr: Sun, Feb 04 07PM UTC"
	Flow      float64   `json:"flow"`
	Depth     float64   `json:"depth"`     // rounded to 0.1 ft for display
	Elevation float64   `json:"elevation"` // invert + depth, rounded to 0.1 ft
	Risk      RiskLevel `json:"risk"`
}

// RenderModel is everything the charting boundary needs to draw one bridge's
// cross-section and stage graph. Self-contained: no further lookups, water
// surfaces ordered chronologically.
type RenderModel struct {
	UUID        string      `json:"uuid"`
	ReachID     string      `json:"reach_id"`
	Annotations Annotations `json:"annotations"`

	// Static geometry.
	Stations        []float64 `json:"stations"`
	GroundElev      []float64 `json:"ground_elev"`
	DeckProfile     []float64 `json:"deck_profile"`
	LowChordProfile []float64 `json:"low_chord_profile"`
	GroundFillBase  float64   `json:"ground_fill_base"` // invert - 1.0 ft

	// Reference elevations, feet.
	InvertElev   float64 `json:"invert_elev"`
	LowChordElev float64 `json:"low_chord_elev"`
	DeckElev     float64 `json:"deck_elev"`

	// Stage-graph shading ladder, top-down depths above the invert. Optional.
	ZoneLimits []float64 `json:"zone_limits,omitempty"`

	WaterSurfaces []WaterSurface `json:"water_surfaces"`
	OverallRisk   RiskLevel      `json:"overall_risk"`

	// ForecastIssued is the NWM model cycle time, one hour before step 0.
	ForecastIssued time.Time `json:"forecast_issued"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// AssembleRenderModel combines the static cross-section with a classified
// depth profile. Pure assembly: no interpolation or classification happens
// here, only the 0.1 ft display rounding the legacy plots used.
func AssembleRenderModel(rec *BridgeRecord, profile DepthProfile) RenderModel {
	invert := rec.InvertElev()

	surfaces := make([]WaterSurface, len(profile))
	for i, p := range profile {
		depth := roundTenth(p.Depth)
		surfaces[i] = WaterSurface{
			Time:      p.Time,
			HourAhead: i + 1,
			Label:     fmt.Sprintf("+%dhr: %s", i+1, p.Time.UTC().Format("Mon, Jan 02 03PM MST")),
			Flow:      p.Flow,
			Depth:     depth,
			Elevation: roundTenth(invert + depth),
			Risk:      p.Risk,
		}
	}

	var issued time.Time
	if len(profile) > 0 {
		issued = profile[0].Time.Add(-ForecastStep)
	}

	return RenderModel{
		UUID:            rec.UUID,
		ReachID:         rec.ReachID,
		Annotations:     rec.Annotations,
		Stations:        rec.XS.Stations,
		GroundElev:      rec.XS.GroundElev,
		DeckProfile:     rec.XS.DeckElev,
		LowChordProfile: rec.XS.LowChordElev,
		GroundFillBase:  invert - groundBuffer,
		InvertElev:      invert,
		LowChordElev:    rec.LowChordElev,
		DeckElev:        rec.DeckElev,
		ZoneLimits:      rec.ZoneLimits,
		WaterSurfaces:   surfaces,
		OverallRisk:     MaxRisk(profile),
		ForecastIssued:  issued,
		GeneratedAt:     clock.Now().UTC(),
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
