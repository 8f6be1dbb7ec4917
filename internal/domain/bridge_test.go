package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUUID = "2e8cd88c-7949-4f17-a159-83b3670f7cc0"

// testBridgeRecord returns a small valid record: invert 608.9, low chord
// 622.4, deck 625.0.
func testBridgeRecord() *BridgeRecord {
	return &BridgeRecord{
		UUID:    testUUID,
		ReachID: "5671187",
		XS: CrossSection{
			Stations:     []float64{0, 25, 50, 75, 100},
			GroundElev:   []float64{614.2, 610.0, 608.9, 611.3, 615.0},
			DeckElev:     []float64{625.0, 625.0, 625.0, 625.0, 625.0},
			LowChordElev: []float64{622.4, 622.4, 622.4, 622.4, 622.4},
		},
		Rating: RatingCurve{
			{Flow: 0, Depth: 0},
			{Flow: 1000, Depth: 5.0},
			{Flow: 5000, Depth: 13.5},
		},
		LowChordElev: 622.4,
		DeckElev:     625.0,
		Annotations: Annotations{
			Title:   "FM 1431 @ Cow Creek",
			LatLong: "Lat/Long: (30.51,-98.05)",
			NBI:     "NBI: 14-227-0-1431-01",
			Comid:   "NWM COMID: 5671187",
		},
		ZoneLimits: []float64{13.5, 11.5, 8.5, -1.0},
	}
}

func TestBridgeRecordValidate(t *testing.T) {
	t.Run("valid record passes", func(t *testing.T) {
		require.NoError(t, testBridgeRecord().Validate())
	})

	t.Run("malformed uuid", func(t *testing.T) {
		rec := testBridgeRecord()
		rec.UUID = "not-a-uuid"
		assert.Error(t, rec.Validate())
	})

	t.Run("empty geometry", func(t *testing.T) {
		rec := testBridgeRecord()
		rec.XS = CrossSection{}
		assert.Error(t, rec.Validate())
	})

	t.Run("series length mismatch", func(t *testing.T) {
		rec := testBridgeRecord()
		rec.XS.GroundElev = rec.XS.GroundElev[:3]
		assert.Error(t, rec.Validate())
	})

	t.Run("stations not strictly increasing", func(t *testing.T) {
		rec := testBridgeRecord()
		rec.XS.Stations[2] = rec.XS.Stations[1]
		assert.Error(t, rec.Validate())
	})

	t.Run("negative station", func(t *testing.T) {
		rec := testBridgeRecord()
		rec.XS.Stations[0] = -5
		assert.Error(t, rec.Validate())
	})

	t.Run("NaN elevation", func(t *testing.T) {
		rec := testBridgeRecord()
		rec.XS.GroundElev[1] = math.NaN()
		assert.Error(t, rec.Validate())
	})

	t.Run("degenerate rating curve", func(t *testing.T) {
		rec := testBridgeRecord()
		rec.Rating = rec.Rating[:1]
		err := rec.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidCurve)
	})

	t.Run("deck below low chord", func(t *testing.T) {
		rec := testBridgeRecord()
		rec.DeckElev = rec.LowChordElev - 1
		assert.Error(t, rec.Validate())
	})
}

func TestInvertElev(t *testing.T) {
	assert.Equal(t, 608.9, testBridgeRecord().InvertElev())
}
