// Command validate performs integrity checks across a directory of stored
// bridge JSON objects: decode failures, record invariant violations, filename
// and uuid mismatches, and rating-curve coverage relative to the structure.
//
// Usage:
//
//	go run ./cmd/validate -dir /data/bridge_json
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/txbridge/bridge-flood-service/internal/adapter/bridgestore"
	"github.com/txbridge/bridge-flood-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func (p *phase) report() {
	if p.passed() {
		fmt.Printf("PASS %s\n", p.name)
		return
	}
	fmt.Printf("FAIL %s (%d errors)\n", p.name, len(p.errors))
	for _, e := range p.errors {
		fmt.Printf("  - %s\n", e)
	}
}

func main() {
	dir := flag.String("dir", "", "directory containing <uuid>.json bridge objects")
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	paths, err := filepath.Glob(filepath.Join(*dir, "*.json"))
	if err != nil || len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "no bridge objects found in %s\n", *dir)
		os.Exit(1)
	}

	decode := &phase{name: "decode + invariants"}
	coverage := &phase{name: "rating-curve coverage"}
	records := make([]*domain.BridgeRecord, 0, len(paths))

	for _, path := range paths {
		bridgeUUID := strings.TrimSuffix(filepath.Base(path), ".json")

		data, err := os.ReadFile(path)
		if err != nil {
			decode.errorf("%s: %v", path, err)
			continue
		}

		rec, err := bridgestore.DecodeRecord(bridgeUUID, data)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCurve) {
				decode.errorf("%s: rating curve: %v", bridgeUUID, err)
			} else {
				decode.errorf("%s: %v", bridgeUUID, err)
			}
			continue
		}
		records = append(records, rec)
	}

	for _, rec := range records {
		checkCoverage(coverage, rec)
	}

	fmt.Printf("checked %d objects, %d decoded\n", len(paths), len(records))
	decode.report()
	coverage.report()

	if !decode.passed() || !coverage.passed() {
		os.Exit(1)
	}
}

// checkCoverage warns when a curve's characterized range cannot reach the low
// chord: such bridges rely entirely on extrapolation for their risk signal.
func checkCoverage(p *phase, rec *domain.BridgeRecord) {
	maxDepth := rec.Rating[len(rec.Rating)-1].Depth
	distToLowChord := rec.LowChordElev - rec.InvertElev()
	if maxDepth < distToLowChord/2 {
		p.errorf("%s: curve tops out at %.1f ft, low chord is %.1f ft above the invert",
			rec.UUID, maxDepth, distToLowChord)
	}
}
