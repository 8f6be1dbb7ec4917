// Package domain models bridge cross-section flood forecasting.
//
// # Data Source
//
// Each of the ~19,000 Texas bridge sites has a precomputed JSON object in an
// object store, keyed by the bridge UUID. The objects are generated offline
// from the tx-bridge geometry database and carry the channel/bridge
// cross-section, a synthetic rating curve, structural elevations, and static
// plot annotations. Forecasted flows arrive per request from the National
// Water Model (NWM) short-range forecast: 18 hourly values anchored at a UTC
// start time, one value per forecast step for the bridge's NWM reach (COMID).
//
// # Bridge JSON Conventions
//
// The stored objects keep the legacy encoding of the generator scripts:
// numeric series are strings holding bracketed lists, and the rating curve is
// a string holding a list of (flow, depth) tuples.
//
//	"sta":        "[0.0, 12.5, 25.0, ...]"       station, feet
//	"ground_elv": "[612.1, 610.4, ...]"          channel ground profile, feet
//	"deck_elev":  "[625.0, 625.0, ...]"          bridge deck profile, feet
//	"low_ch_elv": "[622.4, 622.4, ...]"          low-chord profile, feet
//	"hand_r":     "[(0, 0.0), (354, 2.1), ...]"  rating curve, cfs -> feet of depth
//	"min_low_ch": 622.4                          lowest low-chord elevation
//	"min_ground": 608.9                          channel invert elevation
//
// All four profile series are parallel over the same stations. Decoding of
// that format lives in the bridgestore adapter; this package only defines the
// decoded shapes and their invariants.
//
// # Rating Curve Policy
//
// [RatingCurve.DepthFor] converts a forecasted flow to a depth above the
// channel invert:
//
//   - Flow at a sampled point returns that sample's depth exactly.
//   - Flow between two samples interpolates linearly.
//   - Flow below the smallest sample clamps to the smallest sample's depth.
//     Sub-threshold flows produce the minimum characterized depth; there is
//     no extrapolation downward.
//   - Flow above the largest sample extrapolates linearly along the slope of
//     the last two samples. High flows are never clamped: a clamped maximum
//     would understate flood risk for out-of-range forecasts.
//
// The clamp-low / extrapolate-high asymmetry is deliberate and covered by
// tests in rating_test.go. Interpolation is exact; the 0.1 ft rounding applied
// to displayed depths happens only during render-model assembly.
//
// # Risk Ladder
//
// Each depth sample is classified against the bridge structure by comparing
// the water-surface elevation (invert + depth) to the structural elevations:
//
//	DeckSubmerged       ws >= deck elevation
//	LowChordSubmerged   ws >= low-chord elevation
//	ApproachingLowChord ws >= low-chord elevation - warning margin
//	Clear               otherwise
//
// The warning margin is configuration (WARNING_MARGIN, default 2.0 ft,
// matching the middle step of the zone ladder the generator scripts derive
// from offsets 0.5/2.0/5.0 ft below the low chord). A profile's overall risk
// is the worst per-sample risk.
package domain
