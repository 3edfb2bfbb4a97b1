package mahimahi

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emutrace/emutrace/trace"
	"github.com/emutrace/emutrace/trace/internal/testutil"
	"github.com/emutrace/emutrace/trace/model"
)

func staticBw(mbps uint64, d time.Duration) trace.BwTrace {
	return (&model.StaticBwConfig{Bw: trace.Mbps(mbps), Duration: trace.Duration(d)}).Build()
}

func nextBw(t *testing.T, m trace.BwTrace) (trace.Bandwidth, time.Duration) {
	t.Helper()
	seg, ok := m.Next()
	require.True(t, ok)
	return seg.Bw, seg.Duration
}

func TestExport_TwoPacketsPerMillisecondAt24Mbps(t *testing.T) {
	// GIVEN 24 Mbps, two reference packets fit in every 1 ms bin
	got := Export(staticBw(24, time.Second), 5*time.Millisecond)
	assert.Equal(t, []uint64{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, got)
}

func TestExport_MatchesGoldenTrace(t *testing.T) {
	want := testutil.LoadGoldenTicks(t, "static_24mbps.trace")
	got := Export(staticBw(24, time.Second), 5*time.Millisecond)
	assert.Equal(t, want, got)
}

func TestFormat_OnePacketPerMillisecondAt12Mbps(t *testing.T) {
	got := Format(Export(staticBw(12, time.Second), 5*time.Millisecond))
	assert.Equal(t, "1\n2\n3\n4\n5", got)
}

func TestExport_RepeatedPatternCarriesCreditAcrossSegments(t *testing.T) {
	// GIVEN [12Mbps 2ms, 24Mbps 2ms] repeated twice, exported unbounded
	cfg := &model.RepeatedBwPatternConfig{
		Pattern: trace.BwPattern{
			&model.StaticBwConfig{Bw: trace.Mbps(12), Duration: trace.Duration(2 * time.Millisecond)},
			&model.StaticBwConfig{Bw: trace.Mbps(24), Duration: trace.Duration(2 * time.Millisecond)},
		},
		Count: 2,
	}
	require.NoError(t, cfg.Validate())

	got := Export(cfg.Build(), time.Duration(math.MaxInt64))
	assert.Equal(t, []uint64{1, 2, 3, 3, 4, 4, 5, 6, 7, 7, 8, 8}, got)
}

func TestExport_OutputIsNonDecreasing(t *testing.T) {
	cfg := &model.NormalBwConfig{
		Mean:     trace.Mbps(30),
		StdDev:   trace.Mbps(15),
		Duration: trace.Duration(500 * time.Millisecond),
	}
	ts := Export(cfg.Build(), 500*time.Millisecond)
	require.NotEmpty(t, ts)
	for i := 1; i < len(ts); i++ {
		require.GreaterOrEqual(t, ts[i], ts[i-1])
	}
}

func TestExport_DurationBudgetHaltsEndlessTraces(t *testing.T) {
	// GIVEN a forever trace, the budget is the only stop condition
	cfg := &model.ForeverBwConfig{
		Of: &model.StaticBwConfig{Bw: trace.Mbps(12), Duration: trace.Duration(time.Millisecond)},
	}
	got := Export(cfg.Build(), 3*time.Millisecond)
	assert.Equal(t, []uint64{1, 2, 3}, got)
}

func TestLoad_RejectsBadTraces(t *testing.T) {
	_, err := Load([]uint64{0, 2, 4, 3}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monotonically non-decreasing")

	_, err = Load([]uint64{0, 0, 0}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonzero amount of time")

	_, err = Load(nil, 0)
	assert.Error(t, err)
}

func TestLoad_BuildsGapAndBurstSegments(t *testing.T) {
	// GIVEN the trace [1, 1, 5, 6] repeated forever
	cfg, err := Load([]uint64{1, 1, 5, 6}, 0)
	require.NoError(t, err)
	m := cfg.Build()

	// THEN the first cycle is a 24 Mbps burst, a 3 ms gap, then 12 Mbps
	bw, dur := nextBw(t, m)
	assert.Equal(t, trace.Mbps(24), bw)
	assert.Equal(t, time.Millisecond, dur)

	bw, dur = nextBw(t, m)
	assert.Equal(t, trace.Mbps(0), bw)
	assert.Equal(t, 3*time.Millisecond, dur)

	bw, dur = nextBw(t, m)
	assert.Equal(t, trace.Mbps(12), bw)
	assert.Equal(t, 2*time.Millisecond, dur)

	// AND the second cycle restarts from time zero
	bw, dur = nextBw(t, m)
	assert.Equal(t, trace.Mbps(24), bw)
	assert.Equal(t, time.Millisecond, dur)
}

func TestLoad_FoldsLeadingZerosIntoFinalBin(t *testing.T) {
	cfg, err := Load([]uint64{0, 0, 2, 2, 3, 3, 6, 6}, 0)
	require.NoError(t, err)
	m := cfg.Build()

	bw, dur := nextBw(t, m)
	assert.Equal(t, trace.Mbps(0), bw)
	assert.Equal(t, time.Millisecond, dur)

	bw, dur = nextBw(t, m)
	assert.Equal(t, trace.Mbps(24), bw)
	assert.Equal(t, 2*time.Millisecond, dur)

	bw, dur = nextBw(t, m)
	assert.Equal(t, trace.Mbps(0), bw)
	assert.Equal(t, 2*time.Millisecond, dur)

	// the two zero timestamps join the two final ticks: 4 packets in 1 ms
	bw, dur = nextBw(t, m)
	assert.Equal(t, trace.Mbps(48), bw)
	assert.Equal(t, time.Millisecond, dur)

	// second cycle
	bw, dur = nextBw(t, m)
	assert.Equal(t, trace.Mbps(0), bw)
	assert.Equal(t, time.Millisecond, dur)
}

func TestLoad_CoalescesAdjacentEqualRates(t *testing.T) {
	// [1, 1, 2, 2, 3, 3] is a steady 24 Mbps for 3 ms
	cfg, err := Load([]uint64{1, 1, 2, 2, 3, 3}, 1)
	require.NoError(t, err)
	m := cfg.Build()

	bw, dur := nextBw(t, m)
	assert.Equal(t, trace.Mbps(24), bw)
	assert.Equal(t, 3*time.Millisecond, dur)

	_, ok := m.Next()
	assert.False(t, ok)
}

func TestLoadThenExport_RoundTripsNonZeroTraces(t *testing.T) {
	// non-zero-timestamp traces round-trip exactly
	check := func(ts []uint64) {
		cfg, err := Load(ts, 0)
		require.NoError(t, err)
		got := Export(cfg.Build(), time.Duration(ts[len(ts)-1])*time.Millisecond)
		assert.Equal(t, ts, got)
	}
	check([]uint64{1, 1, 5, 6})
	check([]uint64{2, 2, 3, 3, 4, 4, 5, 5, 8, 9})
}

func TestLoadThenExport_ZeroTimestampsShiftIntoFinalBin(t *testing.T) {
	cfg, err := Load([]uint64{0, 0, 2, 2, 3, 3, 6, 6}, 0)
	require.NoError(t, err)
	got := Export(cfg.Build(), 12*time.Millisecond)
	assert.Equal(t, []uint64{2, 2, 3, 3, 6, 6, 6, 6, 8, 8, 9, 9, 12, 12, 12, 12}, got)
}

func TestExportPktDelay_AccumulatesArrivalTimes(t *testing.T) {
	cfg := &model.StaticPktDelayConfig{Delay: trace.Duration(10 * time.Millisecond), Count: 4}
	got := ExportPktDelay(cfg.Build(), 10)
	assert.Equal(t, []uint64{10, 20, 30, 40}, got)

	// the packet budget caps endless generators
	endless := &model.StaticPktDelayConfig{Delay: trace.Duration(5 * time.Millisecond)}
	assert.Len(t, ExportPktDelay(endless.Build(), 3), 3)
}

func TestReadFile_GoldenFixture(t *testing.T) {
	ts, err := ReadFile(testutil.GoldenPath(t, "static_24mbps.trace"))
	require.NoError(t, err)
	assert.Equal(t, testutil.LoadGoldenTicks(t, "static_24mbps.trace"), ts)
}

func TestWriteFileReadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bw.trace")
	require.NoError(t, WriteFile(staticBw(24, time.Second), 5*time.Millisecond, path))

	ts, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}, ts)
}

func TestReadFile_RejectsGarbageLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.trace")
	require.NoError(t, os.WriteFile(path, []byte("1\ntwo\n3"), 0o644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
