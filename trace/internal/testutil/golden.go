// Package testutil provides shared test infrastructure for the trace
// packages: golden trace fixtures and numeric assertion helpers used across
// trace/, trace/model/ and trace/mahimahi/ test packages.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// LoadGoldenTicks loads a one-tick-per-line trace fixture from the repo
// testdata directory. The path is resolved relative to this source file:
// trace/internal/testutil/ -> testdata/.
func LoadGoldenTicks(t *testing.T, name string) []uint64 {
	t.Helper()

	data, err := os.ReadFile(GoldenPath(t, name))
	if err != nil {
		t.Fatalf("Failed to read golden trace %s: %v", name, err)
	}

	var ticks []uint64
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			t.Fatalf("Failed to parse golden trace %s line %d: %v", name, i+1, err)
		}
		ticks = append(ticks, v)
	}
	return ticks
}

// GoldenPath resolves a fixture name under the repo testdata directory.
func GoldenPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
