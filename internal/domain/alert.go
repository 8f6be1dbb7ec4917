package domain

import "time"

// RiskAlert is the single-bridge summary published when a forecast reaches
// low-chord submersion or worse.
type RiskAlert struct {
	BridgeUUID string    `json:"bridge_uuid"`
	ReachID    string    `json:"reach_id"`
	Risk       RiskLevel `json:"risk"`
	// FirstExceedance is the earliest forecast step at or above
	// RiskLowChordSubmerged.
	FirstExceedance time.Time `json:"first_exceedance"`
	PeakDepth       float64   `json:"peak_depth"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// NewRiskAlert summarizes a classified profile for alerting. Returns false
// when the profile never reaches low-chord submersion.
func NewRiskAlert(rec *BridgeRecord, profile DepthProfile) (RiskAlert, bool) {
	worst := MaxRisk(profile)
	if worst < RiskLowChordSubmerged {
		return RiskAlert{}, false
	}

	alert := RiskAlert{
		BridgeUUID:  rec.UUID,
		ReachID:     rec.ReachID,
		Risk:        worst,
		GeneratedAt: clock.Now().UTC(),
	}
	for _, p := range profile {
		if p.Depth > alert.PeakDepth {
			alert.PeakDepth = p.Depth
		}
		if alert.FirstExceedance.IsZero() && p.Risk >= RiskLowChordSubmerged {
			alert.FirstExceedance = p.Time
		}
	}
	return alert, true
}
