package trace

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bandwidth is a transfer rate in bits per second.
//
// JSON encodes it as the raw bits-per-second integer; YAML encodes it as a
// unit-suffixed string such as "12Mbps". Both decoders accept either form,
// so the two encodings are interconvertible without loss.
type Bandwidth uint64

// Bandwidth constructors, one per common unit.
func Bps(n uint64) Bandwidth  { return Bandwidth(n) }
func Kbps(n uint64) Bandwidth { return Bandwidth(n * 1_000) }
func Mbps(n uint64) Bandwidth { return Bandwidth(n * 1_000_000) }
func Gbps(n uint64) Bandwidth { return Bandwidth(n * 1_000_000_000) }

// Bps returns the rate as bits per second.
func (b Bandwidth) Bps() uint64 { return uint64(b) }

// BitsPerSec returns the rate as a float, for sampling math.
func (b Bandwidth) BitsPerSec() float64 { return float64(b) }

// MulF64 scales the bandwidth by f, saturating at zero for negative factors.
func (b Bandwidth) MulF64(f float64) Bandwidth {
	if f <= 0 {
		return 0
	}
	v := float64(b) * f
	if v >= math.MaxUint64 {
		return Bandwidth(math.MaxUint64)
	}
	return Bandwidth(v)
}

// String formats the bandwidth with the largest unit that divides it evenly,
// so the output parses back to the identical value.
func (b Bandwidth) String() string {
	n := uint64(b)
	switch {
	case n != 0 && n%1_000_000_000 == 0:
		return strconv.FormatUint(n/1_000_000_000, 10) + "Gbps"
	case n != 0 && n%1_000_000 == 0:
		return strconv.FormatUint(n/1_000_000, 10) + "Mbps"
	case n != 0 && n%1_000 == 0:
		return strconv.FormatUint(n/1_000, 10) + "Kbps"
	default:
		return strconv.FormatUint(n, 10) + "bps"
	}
}

// bandwidthUnits maps suffixes to bits-per-second multipliers.
// Longer suffixes are matched first.
var bandwidthUnits = []struct {
	suffix string
	mult   float64
}{
	{"gbps", 1e9},
	{"mbps", 1e6},
	{"kbps", 1e3},
	{"bps", 1},
}

// ParseBandwidth parses a unit-suffixed rate string such as "12Mbps",
// "1.5gbps" or "800bps". Unit matching is case-insensitive.
func ParseBandwidth(s string) (Bandwidth, error) {
	text := strings.TrimSpace(s)
	lower := strings.ToLower(text)
	for _, u := range bandwidthUnits {
		if !strings.HasSuffix(lower, u.suffix) {
			continue
		}
		num := strings.TrimSpace(text[:len(text)-len(u.suffix)])
		v, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing bandwidth %q: %w", s, err)
		}
		if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("parsing bandwidth %q: value must be finite and non-negative", s)
		}
		return Bandwidth(math.Round(v * u.mult)), nil
	}
	return 0, fmt.Errorf("parsing bandwidth %q: missing unit suffix (bps, Kbps, Mbps, Gbps)", s)
}

// MarshalJSON encodes the bandwidth as its bits-per-second integer.
func (b Bandwidth) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(b), 10)), nil
}

// UnmarshalJSON accepts either a bits-per-second integer or a
// unit-suffixed string.
func (b *Bandwidth) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseBandwidth(s)
		if err != nil {
			return err
		}
		*b = v
		return nil
	}
	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("bandwidth must be a bps integer or a unit-suffixed string: %w", err)
	}
	*b = Bandwidth(n)
	return nil
}

// MarshalYAML encodes the bandwidth as a unit-suffixed string.
func (b Bandwidth) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

// UnmarshalYAML accepts either form, mirroring UnmarshalJSON.
func (b *Bandwidth) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!int" {
		n, err := strconv.ParseUint(node.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing bandwidth: %w", err)
		}
		*b = Bandwidth(n)
		return nil
	}
	v, err := ParseBandwidth(node.Value)
	if err != nil {
		return err
	}
	*b = v
	return nil
}
