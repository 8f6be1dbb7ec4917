// Package bridgestore resolves bridge UUIDs to their static records from an
// object store of per-bridge JSON files, with a bounded in-memory cache.
//
// The stored objects use the legacy encoding of the offline generator
// scripts: numeric series are strings holding bracketed lists and the rating
// curve is a string holding a list of (flow, depth) tuples. See the domain
// package documentation for the field inventory.
package bridgestore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/txbridge/bridge-flood-service/internal/domain"
)

// legacyObject mirrors one stored bridge JSON file.
type legacyObject struct {
	UUID       string  `json:"uuid"`
	Sta        string  `json:"sta"`
	GroundElv  string  `json:"ground_elv"`
	DeckElev   string  `json:"deck_elev"`
	LowChElv   string  `json:"low_ch_elv"`
	HandR      string  `json:"hand_r"`
	MinLowCh   float64 `json:"min_low_ch"`
	MinGround  float64 `json:"min_ground"`
	AnnoTitle  string  `json:"anno_xs_title"`
	AnnoLatLon string  `json:"anno_latlong"`
	AnnoNBI    string  `json:"anno_nbi"`
	AnnoComid  string  `json:"anno_comid"`
	ZoneLimits string  `json:"zone_limits"`
}

// DecodeRecord parses a stored bridge object and validates the record
// invariants. A record that fails decoding or validation never reaches the
// engine; the lookup fails instead.
func DecodeRecord(bridgeUUID string, data []byte) (*domain.BridgeRecord, error) {
	var obj legacyObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decode bridge %s: %w", bridgeUUID, err)
	}
	if obj.UUID != "" && obj.UUID != bridgeUUID {
		return nil, fmt.Errorf("decode bridge %s: object carries uuid %s", bridgeUUID, obj.UUID)
	}

	stations, err := parseNumberList(obj.Sta)
	if err != nil {
		return nil, fmt.Errorf("decode bridge %s: sta: %w", bridgeUUID, err)
	}
	ground, err := parseNumberList(obj.GroundElv)
	if err != nil {
		return nil, fmt.Errorf("decode bridge %s: ground_elv: %w", bridgeUUID, err)
	}
	deck, err := parseNumberList(obj.DeckElev)
	if err != nil {
		return nil, fmt.Errorf("decode bridge %s: deck_elev: %w", bridgeUUID, err)
	}
	lowChord, err := parseNumberList(obj.LowChElv)
	if err != nil {
		return nil, fmt.Errorf("decode bridge %s: low_ch_elv: %w", bridgeUUID, err)
	}
	rating, err := parseRatingCurve(obj.HandR)
	if err != nil {
		return nil, fmt.Errorf("decode bridge %s: hand_r: %w", bridgeUUID, err)
	}

	var zones []float64
	if obj.ZoneLimits != "" {
		if zones, err = parseNumberList(obj.ZoneLimits); err != nil {
			return nil, fmt.Errorf("decode bridge %s: zone_limits: %w", bridgeUUID, err)
		}
	}

	rec := &domain.BridgeRecord{
		UUID:    bridgeUUID,
		ReachID: strings.TrimPrefix(obj.AnnoComid, "NWM COMID: "),
		XS: domain.CrossSection{
			Stations:     stations,
			GroundElev:   ground,
			DeckElev:     deck,
			LowChordElev: lowChord,
		},
		Rating:       rating,
		LowChordElev: obj.MinLowCh,
		DeckElev:     minOf(deck),
		Annotations: domain.Annotations{
			Title:   obj.AnnoTitle,
			LatLong: obj.AnnoLatLon,
			NBI:     obj.AnnoNBI,
			Comid:   obj.AnnoComid,
		},
		ZoneLimits: zones,
	}
	if rec.LowChordElev == 0 {
		rec.LowChordElev = minOf(lowChord)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// parseNumberList parses a bracketed list string like "[0, 12.5, 25]".
func parseNumberList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("not a bracketed list: %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, fmt.Errorf("empty list")
	}

	parts := strings.Split(body, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

// parseRatingCurve parses a tuple-list string like "[(0, 0.0), (354, 2.1)]".
func parseRatingCurve(s string) (domain.RatingCurve, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("not a bracketed list: %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, fmt.Errorf("empty rating curve")
	}

	var curve domain.RatingCurve
	for len(body) > 0 {
		open := strings.IndexByte(body, '(')
		if open < 0 {
			return nil, fmt.Errorf("malformed tuple list near %q", body)
		}
		closing := strings.IndexByte(body[open:], ')')
		if closing < 0 {
			return nil, fmt.Errorf("unterminated tuple near %q", body[open:])
		}

		pair := strings.Split(body[open+1:open+closing], ",")
		if len(pair) != 2 {
			return nil, fmt.Errorf("tuple %q: want two elements", body[open:open+closing+1])
		}
		flow, err := strconv.ParseFloat(strings.TrimSpace(pair[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("tuple flow: %w", err)
		}
		depth, err := strconv.ParseFloat(strings.TrimSpace(pair[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("tuple depth: %w", err)
		}
		curve = append(curve, domain.RatingPoint{Flow: flow, Depth: depth})

		body = body[open+closing+1:]
	}
	return curve, nil
}

func minOf(values []float64) float64 {
	m := math.Inf(1)
	for _, v := range values {
		if v < m {
			m = v
		}
	}
	return m
}
