package domain

import (
	"encoding/json"
	"fmt"
)

// RiskLevel orders submersion risk from clear to full overtopping. The
// ordering is monotonic in depth for a fixed bridge: a deeper sample never
// maps to a lower level.
type RiskLevel int

const (
	RiskClear RiskLevel = iota
	RiskApproachingLowChord
	RiskLowChordSubmerged
	RiskDeckSubmerged
)

var riskNames = map[RiskLevel]string{
	RiskClear:               "clear",
	RiskApproachingLowChord: "approaching_low_chord",
	RiskLowChordSubmerged:   "low_chord_submerged",
	RiskDeckSubmerged:       "deck_submerged",
}

func (r RiskLevel) String() string {
	if name, ok := riskNames[r]; ok {
		return name
	}
	return fmt.Sprintf("risk(%d)", int(r))
}

// MarshalJSON emits the snake_case name so downstream consumers never depend
// on the numeric ordering.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts the snake_case names produced by MarshalJSON.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for level, name := range riskNames {
		if name == s {
			*r = level
			return nil
		}
	}
	return fmt.Errorf("unknown risk level %q", s)
}

// Classify assigns a risk level to one depth sample. The water-surface
// elevation is invertElev + depth; thresholds are evaluated worst-first so the
// first match wins. Pure function of its numeric inputs.
func Classify(depth, lowChordElev, deckElev, invertElev, warningMargin float64) RiskLevel {
	ws := invertElev + depth
	switch {
	case ws >= deckElev:
		return RiskDeckSubmerged
	case ws >= lowChordElev:
		return RiskLowChordSubmerged
	case ws >= lowChordElev-warningMargin:
		return RiskApproachingLowChord
	default:
		return RiskClear
	}
}

// ClassifyProfile fills the Risk field of every sample in place using the
// bridge's structural elevations.
func ClassifyProfile(rec *BridgeRecord, profile DepthProfile, warningMargin float64) {
	invert := rec.InvertElev()
	for i := range profile {
		profile[i].Risk = Classify(profile[i].Depth, rec.LowChordElev, rec.DeckElev, invert, warningMargin)
	}
}

// MaxRisk returns the worst risk level across the profile, the single-bridge
// summary used for alerting. Empty profiles are RiskClear.
func MaxRisk(profile DepthProfile) RiskLevel {
	worst := RiskClear
	for _, p := range profile {
		if p.Risk > worst {
			worst = p.Risk
		}
	}
	return worst
}
