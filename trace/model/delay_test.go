package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emutrace/emutrace/trace"
)

func TestStaticDelay_EmitsOneSegmentThenStaysExhausted(t *testing.T) {
	cfg := &StaticDelayConfig{Delay: trace.Duration(20 * time.Millisecond), Duration: trace.Duration(time.Second)}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()

	seg, ok := m.Next()
	require.True(t, ok)
	assert.Equal(t, 20*time.Millisecond, seg.Delay)
	assert.Equal(t, time.Second, seg.Duration)

	for i := 0; i < 3; i++ {
		_, ok := m.Next()
		assert.False(t, ok)
	}
}

func TestStaticDelayConfig_RejectsBadFields(t *testing.T) {
	assert.Error(t, (&StaticDelayConfig{Delay: -1, Duration: trace.Duration(time.Second)}).Validate())
	assert.Error(t, (&StaticDelayConfig{Delay: trace.Duration(time.Millisecond)}).Validate())
}

func TestStaticLoss_EmitsPatternCopy(t *testing.T) {
	cfg := &StaticLossConfig{Loss: []float64{0.1, 0.5}, Duration: trace.Duration(time.Second)}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()

	seg, ok := m.Next()
	require.True(t, ok)
	assert.Equal(t, []float64{0.1, 0.5}, seg.Loss)

	// mutating the config after build must not leak into emitted segments
	cfg.Loss[0] = 0.9
	assert.Equal(t, 0.1, seg.Loss[0])

	_, ok = m.Next()
	assert.False(t, ok)
}

func TestStaticLossConfig_RejectsOutOfRangeProbability(t *testing.T) {
	err := (&StaticLossConfig{Loss: []float64{0.5, 1.5}, Duration: trace.Duration(time.Second)}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loss[1]")

	assert.Error(t, (&StaticLossConfig{Loss: []float64{-0.1}, Duration: trace.Duration(time.Second)}).Validate())
	assert.Error(t, (&StaticLossConfig{Loss: []float64{0.1}}).Validate())
}

func TestStaticDuplicate_EmitsOneSegmentThenStaysExhausted(t *testing.T) {
	cfg := &StaticDuplicateConfig{Duplicate: []float64{0.2, 0.1}, Duration: trace.Duration(time.Second)}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()

	seg, ok := m.Next()
	require.True(t, ok)
	assert.Equal(t, []float64{0.2, 0.1}, seg.Duplicate)
	assert.Equal(t, time.Second, seg.Duration)

	_, ok = m.Next()
	assert.False(t, ok)
}

func TestStaticPktDelay_CountLimitsPackets(t *testing.T) {
	cfg := &StaticPktDelayConfig{Delay: trace.Duration(10 * time.Millisecond), Count: 3}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()

	for i := 0; i < 3; i++ {
		d, ok := m.Next()
		require.True(t, ok)
		assert.Equal(t, 10*time.Millisecond, d)
	}
	_, ok := m.Next()
	assert.False(t, ok)
}

func TestStaticPktDelay_CountZeroNeverExhausts(t *testing.T) {
	m := (&StaticPktDelayConfig{Delay: trace.Duration(time.Millisecond)}).Build()
	for i := 0; i < 10000; i++ {
		_, ok := m.Next()
		require.True(t, ok)
	}
}

func TestNormalPktDelay_SameSeedSameStream(t *testing.T) {
	cfg := &NormalPktDelayConfig{
		Mean:   trace.Duration(20 * time.Millisecond),
		StdDev: trace.Duration(5 * time.Millisecond),
		Count:  200,
		Seed:   9,
	}
	require.NoError(t, cfg.Validate())

	drain := func() []time.Duration {
		m := cfg.Build()
		var out []time.Duration
		for {
			d, ok := m.Next()
			if !ok {
				break
			}
			out = append(out, d)
		}
		return out
	}
	a := drain()
	b := drain()
	assert.Equal(t, a, b)
	assert.Len(t, a, 200)
}

func TestNormalPktDelay_ClampPolicyKeepsBounds(t *testing.T) {
	lower := trace.Duration(15 * time.Millisecond)
	upper := trace.Duration(25 * time.Millisecond)
	cfg := &NormalPktDelayConfig{
		Mean:       trace.Duration(20 * time.Millisecond),
		StdDev:     trace.Duration(20 * time.Millisecond),
		Count:      5000,
		LowerBound: &lower,
		UpperBound: &upper,
	}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()
	for {
		d, ok := m.Next()
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, d, lower.Std())
		assert.LessOrEqual(t, d, upper.Std())
	}
}

func TestNormalPktDelay_TruncatedPolicyKeepsMean(t *testing.T) {
	// GIVEN a tight lower bound that would bias clamped draws upward
	lower := trace.Duration(18 * time.Millisecond)
	cfg := &NormalPktDelayConfig{
		Mean:       trace.Duration(20 * time.Millisecond),
		StdDev:     trace.Duration(6 * time.Millisecond),
		Count:      60000,
		LowerBound: &lower,
		Policy:     PolicyTruncated,
	}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()

	var sum float64
	n := 0
	for {
		d, ok := m.Next()
		if !ok {
			break
		}
		require.GreaterOrEqual(t, d, lower.Std())
		sum += d.Seconds()
		n++
	}
	require.Equal(t, 60000, n)
	assert.InEpsilon(t, cfg.Mean.Std().Seconds(), sum/float64(n), 0.01)
}

func TestNormalPktDelayConfig_RejectsBadFields(t *testing.T) {
	assert.Error(t, (&NormalPktDelayConfig{Mean: -1}).Validate())
	assert.Error(t, (&NormalPktDelayConfig{Mean: 1, StdDev: -1}).Validate())
	assert.Error(t, (&NormalPktDelayConfig{Mean: 1, Count: -2}).Validate())
	assert.Error(t, (&NormalPktDelayConfig{Mean: 1, Policy: "bounce"}).Validate())
}
