// Package mahimahi exports bandwidth generators to the discrete per-tick
// trace format used by the mahimahi link-shell emulator, and ingests such
// traces back into repeated-pattern configs.
//
// A trace is a sequence of millisecond timestamps; each timestamp is one
// opportunity to send a single reference-size packet at that instant. At
// 12 Mbps exactly one 1500-byte packet fits per millisecond, so a 12 Mbps
// trace reads 1, 2, 3, ...
package mahimahi

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/emutrace/emutrace/trace"
	"github.com/emutrace/emutrace/trace/model"
)

const (
	// PacketBytes is the reference packet size one tick accounts for.
	PacketBytes = 1500
	packetBits  = PacketBytes * 8

	tsBin = time.Millisecond
)

// packetPerBin is the bandwidth that moves exactly one reference packet per
// tick bin: 12 Mbps.
var packetPerBin = trace.Kbps(packetBits)

// Export walks bw until it exhausts or the total duration budget is spent,
// and returns the millisecond packet-departure ticks. Segments are folded
// into 1 ms bins; each bin accumulates bw x duration credit and emits one
// tick per whole reference packet accumulated, carrying the remainder into
// the next bin. Output timestamps are non-decreasing and start at 1.
func Export(bw trace.BwTrace, total time.Duration) []uint64 {
	timestamp := tsBin
	var out []uint64
	var transfer trace.Bandwidth
	binRem := tsBin
	for {
		seg, ok := bw.Next()
		if !ok || timestamp > total {
			break
		}
		dur := seg.Duration
		for timestamp <= total && dur > 0 {
			bin := binRem
			if dur < bin {
				bin = dur
			}
			binRem -= bin
			dur -= bin
			transfer += seg.Bw.MulF64(float64(bin) / float64(tsBin))
			for transfer >= packetPerBin {
				out = append(out, uint64(timestamp/time.Millisecond))
				transfer -= packetPerBin
			}
			if binRem == 0 {
				binRem = tsBin
				if timestamp > math.MaxInt64-tsBin {
					return out
				}
				timestamp += tsBin
			}
		}
	}
	return out
}

// ExportPktDelay walks a per-packet delay generator for at most limit packets
// and returns one cumulative arrival timestamp (in milliseconds) per packet.
func ExportPktDelay(t trace.PktDelayTrace, limit int) []uint64 {
	var out []uint64
	var elapsed time.Duration
	for i := 0; i < limit; i++ {
		d, ok := t.Next()
		if !ok {
			break
		}
		elapsed += d
		out = append(out, uint64(elapsed/time.Millisecond))
	}
	return out
}

// Format joins a timestamp sequence into the one-tick-per-line file format.
func Format(ts []uint64) string {
	lines := make([]string, len(ts))
	for i, t := range ts {
		lines[i] = strconv.FormatUint(t, 10)
	}
	return strings.Join(lines, "\n")
}

// WriteFile exports bw under the given duration budget and writes the
// formatted trace to path.
func WriteFile(bw trace.BwTrace, total time.Duration, path string) error {
	if err := os.WriteFile(path, []byte(Format(Export(bw, total))), 0o644); err != nil {
		return fmt.Errorf("writing mahimahi trace: %w", err)
	}
	return nil
}

// ReadFile parses a one-tick-per-line trace file into a timestamp sequence.
// Blank lines are skipped; anything else that fails to parse as an unsigned
// integer is an error.
func ReadFile(path string) ([]uint64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mahimahi trace: %w", err)
	}
	var ts []uint64
	for i, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing mahimahi trace line %d: %w", i+1, err)
		}
		ts = append(ts, v)
	}
	return ts, nil
}

// Load converts a timestamp sequence into a repeated bandwidth pattern that
// reproduces it: each occupied millisecond becomes a static segment whose
// rate sends as many packets as the timestamp repeats, gaps become
// zero-bandwidth segments, and adjacent equal-rate segments coalesce.
// Leading zero timestamps are folded into the final bin. Count 0 repeats the
// pattern forever, with time restarting from zero each cycle.
//
// Timestamps must be monotonically non-decreasing and at least one must be
// non-zero.
func Load(ts []uint64, count int) (*model.RepeatedBwPatternConfig, error) {
	var pattern trace.BwPattern
	insert := func(bw trace.Bandwidth, dur time.Duration) {
		if len(pattern) > 0 {
			if last, ok := pattern[len(pattern)-1].(*model.StaticBwConfig); ok && last.Bw == bw {
				last.Duration += trace.Duration(dur)
				return
			}
		}
		pattern = append(pattern, &model.StaticBwConfig{Bw: bw, Duration: trace.Duration(dur)})
	}

	var zeroCnt uint64 // leading zero timestamps
	var lastTs uint64  // last non-zero timestamp
	var lastCnt uint64 // repeats of lastTs
	for _, t := range ts {
		if t == 0 {
			zeroCnt++
			continue
		}
		switch {
		case t < lastTs:
			return nil, fmt.Errorf("mahimahi trace: timestamps must be monotonically non-decreasing")
		case t == lastTs:
			lastCnt++
		default:
			if lastTs > 0 {
				insert(packetPerBin.MulF64(float64(lastCnt)), tsBin)
			}
			if t-lastTs > 1 {
				insert(0, time.Duration(t-lastTs-1)*tsBin)
			}
			lastCnt = 1
			lastTs = t
		}
	}
	if lastCnt == 0 {
		return nil, fmt.Errorf("mahimahi trace: must last for a nonzero amount of time")
	}
	insert(packetPerBin.MulF64(float64(lastCnt+zeroCnt)), tsBin)
	return &model.RepeatedBwPatternConfig{Pattern: pattern, Count: count}, nil
}
