// Command genbridge writes mock bridge JSON objects in the legacy stored
// encoding, for local development against a file server and for integration
// fixtures. Generated objects decode through the same bridgestore path the
// service uses, so fixtures can never drift from real decoder behavior.
//
// Usage:
//
//	go run ./cmd/genbridge -out ./data/bridge_json -count 5
//	python3 -m http.server 9000 -d ./data      # then BRIDGE_STORE_URL=http://localhost:9000/bridge_json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/txbridge/bridge-flood-service/internal/adapter/bridgestore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for <uuid>.json objects")
	count := flag.Int("count", 5, "number of bridge objects to generate")
	seed := flag.Int64("seed", 1431, "PRNG seed, fixed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *count; i++ {
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("genbridge-%d-%d", *seed, i))).String()
		obj := mockObject(rng, id, i)

		data, err := json.MarshalIndent(obj, "", "    ")
		if err != nil {
			return err
		}

		// Round-trip through the real decoder before writing.
		if _, err := bridgestore.DecodeRecord(id, data); err != nil {
			return fmt.Errorf("generated object %s does not decode: %w", id, err)
		}

		path := filepath.Join(*out, id+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Println(path)
	}
	return nil
}

// mockObject builds one legacy-encoded bridge: a trapezoidal channel with a
// flat deck, invert near 600 ft, and a concave rating curve.
func mockObject(rng *rand.Rand, id string, n int) map[string]any {
	invert := 600.0 + rng.Float64()*20
	lowChord := invert + 10.0 + rng.Float64()*4
	deck := lowChord + 2.0 + rng.Float64()

	stations := []float64{0, 20, 40, 60, 80, 100, 120}
	ground := []float64{
		invert + 6, invert + 3, invert + 0.5, invert,
		invert + 0.8, invert + 4, invert + 6.5,
	}
	deckProfile := make([]float64, len(stations))
	lowChordProfile := make([]float64, len(stations))
	for i := range stations {
		deckProfile[i] = deck
		lowChordProfile[i] = lowChord
	}

	// Depth response flattens out as flow grows, like HAND-derived curves.
	flows := []float64{0, 250, 750, 1500, 3000, 6000}
	depths := make([]float64, len(flows))
	for i := 1; i < len(flows); i++ {
		depths[i] = depths[i-1] + (2.8-0.35*float64(i))*(0.8+0.4*rng.Float64())
	}

	pairs := make([]string, len(flows))
	for i := range flows {
		pairs[i] = fmt.Sprintf("(%g, %.2f)", flows[i], depths[i])
	}

	comid := 5671000 + n
	return map[string]any{
		"uuid":          id,
		"sta":           numberList(stations),
		"ground_elv":    numberList(ground),
		"deck_elev":     numberList(deckProfile),
		"low_ch_elv":    numberList(lowChordProfile),
		"hand_r":        "[" + strings.Join(pairs, ", ") + "]",
		"min_low_ch":    lowChord,
		"min_ground":    invert,
		"anno_xs_title": fmt.Sprintf("Mock Road %d @ Mock Creek", n+1),
		"anno_latlong":  "Lat/Long: (30.51,-98.05)",
		"anno_nbi":      fmt.Sprintf("NBI: 14-000-0-%04d-01", n+1),
		"anno_comid":    fmt.Sprintf("NWM COMID: %d", comid),
		"zone_limits":   numberList([]float64{lowChord - invert, lowChord - invert - 2.0, lowChord - invert - 5.0, -1.0}),
	}
}

func numberList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
