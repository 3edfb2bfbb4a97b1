package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emutrace/emutrace/trace"
)

func TestRepeated_CyclesPatternInOrder(t *testing.T) {
	// GIVEN pattern [A, B] repeated twice
	cfg := &RepeatedBwPatternConfig{
		Pattern: trace.BwPattern{
			&StaticBwConfig{Bw: trace.Mbps(12), Duration: trace.Duration(time.Millisecond)},
			&StaticBwConfig{Bw: trace.Mbps(24), Duration: trace.Duration(time.Millisecond)},
		},
		Count: 2,
	}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()

	// THEN the stream is A, B, A, B and then exhausted for good
	var got []trace.Bandwidth
	for {
		seg, ok := m.Next()
		if !ok {
			break
		}
		got = append(got, seg.Bw)
	}
	assert.Equal(t, []trace.Bandwidth{trace.Mbps(12), trace.Mbps(24), trace.Mbps(12), trace.Mbps(24)}, got)

	_, ok := m.Next()
	assert.False(t, ok)
}

func TestRepeated_CountZeroRepeatsForever(t *testing.T) {
	cfg := &RepeatedBwPatternConfig{
		Pattern: trace.BwPattern{
			&StaticBwConfig{Bw: trace.Mbps(1), Duration: trace.Duration(time.Millisecond)},
		},
	}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()
	for i := 0; i < 10000; i++ {
		seg, ok := m.Next()
		require.True(t, ok)
		require.Equal(t, trace.Mbps(1), seg.Bw)
	}
}

func TestRepeated_RebuildsRandomizedChildrenEachCycle(t *testing.T) {
	// GIVEN an infinitely repeated pattern with one randomized child
	child := &NormalBwConfig{
		Mean:     trace.Mbps(12),
		StdDev:   trace.Mbps(3),
		Duration: trace.Duration(3 * time.Millisecond),
		Seed:     11,
	}
	m := NewRepeated(trace.BwPattern{child}, 0)

	// WHEN two full cycles are drawn
	first := collect(m, 3)
	second := collect(m, 3)

	// THEN the second cycle restarts the child's random sequence from scratch
	assert.Equal(t, first, second)
}

func TestRepeated_EmptyPatternRejectedButExhaustsIfBuilt(t *testing.T) {
	cfg := &RepeatedBwPatternConfig{Count: 1}
	assert.Error(t, cfg.Validate())

	m := cfg.Build()
	_, ok := m.Next()
	assert.False(t, ok)
}

func TestRepeated_UnproductiveCycleExhaustsInsteadOfSpinning(t *testing.T) {
	// GIVEN an unvalidated child that can never emit, repeated forever
	m := NewRepeated(trace.BwPattern{&StaticBwConfig{Bw: trace.Mbps(1)}}, 0)

	_, ok := m.Next()
	assert.False(t, ok)
	_, ok = m.Next()
	assert.False(t, ok)
}

func TestRepeatedConfig_ValidatesChildren(t *testing.T) {
	cfg := &RepeatedBwPatternConfig{
		Pattern: trace.BwPattern{
			&StaticBwConfig{Bw: trace.Mbps(12), Duration: trace.Duration(time.Millisecond)},
			&StaticBwConfig{Bw: trace.Mbps(24)}, // zero duration
		},
		Count: 1,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pattern element 1")

	assert.Error(t, (&RepeatedBwPatternConfig{
		Pattern: trace.BwPattern{&StaticBwConfig{Bw: trace.Mbps(1), Duration: trace.Duration(time.Millisecond)}},
		Count:   -1,
	}).Validate())
}

func TestForever_RebuildsChildOnExhaustion(t *testing.T) {
	// GIVEN a forever wrapper around a 2ms randomized child
	cfg := &ForeverBwConfig{Of: &NormalBwConfig{
		Mean:     trace.Mbps(12),
		StdDev:   trace.Mbps(3),
		Duration: trace.Duration(2 * time.Millisecond),
		Seed:     5,
	}}
	require.NoError(t, cfg.Validate())
	m := cfg.Build()

	// WHEN far more segments are drawn than one child provides
	first := collect(m, 2)
	for i := 0; i < 5000; i++ {
		_, ok := m.Next()
		require.True(t, ok)
	}

	// THEN each rebuild restarts the child exactly like a fresh build
	rebuilt := collect(m, 2)
	assert.Equal(t, first, rebuilt)
}

func TestForever_UnproductiveChildExhausts(t *testing.T) {
	m := NewForever[trace.BwSegment](&StaticBwConfig{Bw: trace.Mbps(1)})
	_, ok := m.Next()
	assert.False(t, ok)
	_, ok = m.Next()
	assert.False(t, ok)
}
