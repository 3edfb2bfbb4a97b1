package model

import (
	"fmt"
	"math"
	"time"

	"github.com/emutrace/emutrace/trace"
)

// defaultStep is the sampling granularity used when a randomized or swept
// config leaves Step unset.
const defaultStep = time.Millisecond

// StaticBw holds one constant bandwidth for a fixed duration, then exhausts.
type StaticBw struct {
	bw   trace.Bandwidth
	left time.Duration
}

func (m *StaticBw) Next() (trace.BwSegment, bool) {
	if m.left <= 0 {
		return trace.BwSegment{}, false
	}
	seg := trace.BwSegment{Bw: m.bw, Duration: m.left}
	m.left = 0
	return seg, true
}

// StaticBwConfig configures StaticBw.
type StaticBwConfig struct {
	Bw       trace.Bandwidth `json:"bw" yaml:"bw"`
	Duration trace.Duration  `json:"duration" yaml:"duration"`
}

func (c *StaticBwConfig) Tag() string { return "StaticBw" }

func (c *StaticBwConfig) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("StaticBw: duration must be positive, got %s", c.Duration)
	}
	return nil
}

func (c *StaticBwConfig) Build() trace.BwTrace {
	return &StaticBw{bw: c.Bw, left: c.Duration.Std()}
}

// NormalBw draws a fresh bandwidth from a normal distribution every step and
// holds it for the step duration, until the total duration is consumed. The
// final segment is shortened so the emitted durations sum exactly to the
// configured total.
type NormalBw struct {
	sample func() float64 // one draw, in bits per second
	step   time.Duration
	left   time.Duration
}

func (m *NormalBw) Next() (trace.BwSegment, bool) {
	if m.left <= 0 {
		return trace.BwSegment{}, false
	}
	step := m.step
	if step > m.left {
		step = m.left
	}
	m.left -= step
	bps := m.sample()
	if bps < 0 || math.IsNaN(bps) {
		bps = 0
	}
	return trace.BwSegment{Bw: trace.Bandwidth(bps), Duration: step}, true
}

// NormalBwConfig configures NormalBw. Bounds are optional; Policy selects how
// draws outside them are handled and defaults to PolicyClamp. Seed 0 means
// trace.DefaultSeed, so unconfigured instances are still reproducible.
type NormalBwConfig struct {
	Mean       trace.Bandwidth  `json:"mean" yaml:"mean"`
	StdDev     trace.Bandwidth  `json:"std_dev" yaml:"std_dev"`
	Duration   trace.Duration   `json:"duration" yaml:"duration"`
	Step       trace.Duration   `json:"step,omitempty" yaml:"step,omitempty"`
	Seed       int64            `json:"seed,omitempty" yaml:"seed,omitempty"`
	LowerBound *trace.Bandwidth `json:"lower_bound,omitempty" yaml:"lower_bound,omitempty"`
	UpperBound *trace.Bandwidth `json:"upper_bound,omitempty" yaml:"upper_bound,omitempty"`
	Policy     string           `json:"policy,omitempty" yaml:"policy,omitempty"`
}

func (c *NormalBwConfig) Tag() string { return "NormalBw" }

func (c *NormalBwConfig) Validate() error {
	if c.Duration <= 0 {
		return fmt.Errorf("NormalBw: duration must be positive, got %s", c.Duration)
	}
	if c.Step < 0 {
		return fmt.Errorf("NormalBw: step must be non-negative, got %s", c.Step)
	}
	if c.LowerBound != nil && c.UpperBound != nil && *c.LowerBound > *c.UpperBound {
		return fmt.Errorf("NormalBw: lower_bound %s exceeds upper_bound %s", *c.LowerBound, *c.UpperBound)
	}
	return validatePolicy(c.Tag(), c.Policy)
}

func (c *NormalBwConfig) Build() trace.BwTrace {
	step := c.Step.Std()
	if step <= 0 {
		step = defaultStep
	}
	seed := c.Seed
	if seed == 0 {
		seed = trace.DefaultSeed
	}
	rng := trace.NewSeededRand(seed)
	mean := c.Mean.BitsPerSec()
	sigma := c.StdDev.BitsPerSec()
	var lower, upper *float64
	if c.LowerBound != nil {
		v := c.LowerBound.BitsPerSec()
		lower = &v
	}
	if c.UpperBound != nil {
		v := c.UpperBound.BitsPerSec()
		upper = &v
	}

	var sample func() float64
	if c.Policy == PolicyTruncated {
		sample = newTruncatedNormal(mean, sigma, lower, upper, rng).sample
	} else {
		sample = func() float64 {
			v := rng.NormFloat64()*sigma + mean
			if lower != nil && v < *lower {
				v = *lower
			}
			if upper != nil && v > *upper {
				v = *upper
			}
			return v
		}
	}
	return &NormalBw{sample: sample, step: step, left: c.Duration.Std()}
}

// SawtoothBw sweeps linearly from Bottom up to Top and back down over each
// interval, discretized at step granularity. DutyRatio is the rising
// fraction of the interval. Duration 0 sweeps forever. Optional normal noise
// (StdDev) is added per step, clipped back into [Bottom, Top].
type SawtoothBw struct {
	bottom   float64
	top      float64
	interval time.Duration
	rise     time.Duration
	step     time.Duration
	noise    func() float64 // nil when no noise is configured

	elapsed  time.Duration // position within the current interval
	left     time.Duration
	infinite bool
}

func (m *SawtoothBw) Next() (trace.BwSegment, bool) {
	if !m.infinite && m.left <= 0 {
		return trace.BwSegment{}, false
	}
	step := m.step
	if !m.infinite && step > m.left {
		step = m.left
	}
	v := m.valueAt(m.elapsed)
	if m.noise != nil {
		v += m.noise()
	}
	if v < m.bottom {
		v = m.bottom
	}
	if v > m.top {
		v = m.top
	}
	m.elapsed += step
	for m.elapsed >= m.interval {
		m.elapsed -= m.interval
	}
	if !m.infinite {
		m.left -= step
	}
	return trace.BwSegment{Bw: trace.Bandwidth(v), Duration: step}, true
}

func (m *SawtoothBw) valueAt(t time.Duration) float64 {
	if t < m.rise && m.rise > 0 {
		return m.bottom + (m.top-m.bottom)*(float64(t)/float64(m.rise))
	}
	fall := m.interval - m.rise
	if fall <= 0 {
		return m.top
	}
	return m.top - (m.top-m.bottom)*(float64(t-m.rise)/float64(fall))
}

// SawtoothBwConfig configures SawtoothBw.
type SawtoothBwConfig struct {
	Bottom    trace.Bandwidth `json:"bottom" yaml:"bottom"`
	Top       trace.Bandwidth `json:"top" yaml:"top"`
	Interval  trace.Duration  `json:"interval" yaml:"interval"`
	DutyRatio float64         `json:"duty_ratio" yaml:"duty_ratio"`
	Step      trace.Duration  `json:"step,omitempty" yaml:"step,omitempty"`
	Duration  trace.Duration  `json:"duration,omitempty" yaml:"duration,omitempty"`
	StdDev    trace.Bandwidth `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`
	Seed      int64           `json:"seed,omitempty" yaml:"seed,omitempty"`
}

func (c *SawtoothBwConfig) Tag() string { return "SawtoothBw" }

func (c *SawtoothBwConfig) Validate() error {
	if c.Bottom > c.Top {
		return fmt.Errorf("SawtoothBw: bottom %s exceeds top %s", c.Bottom, c.Top)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("SawtoothBw: interval must be positive, got %s", c.Interval)
	}
	if c.DutyRatio < 0 || c.DutyRatio > 1 {
		return fmt.Errorf("SawtoothBw: duty_ratio must be within [0, 1], got %g", c.DutyRatio)
	}
	if c.Step < 0 {
		return fmt.Errorf("SawtoothBw: step must be non-negative, got %s", c.Step)
	}
	if c.Duration < 0 {
		return fmt.Errorf("SawtoothBw: duration must be non-negative, got %s", c.Duration)
	}
	return nil
}

func (c *SawtoothBwConfig) Build() trace.BwTrace {
	step := c.Step.Std()
	if step <= 0 {
		step = defaultStep
	}
	m := &SawtoothBw{
		bottom:   c.Bottom.BitsPerSec(),
		top:      c.Top.BitsPerSec(),
		interval: c.Interval.Std(),
		rise:     time.Duration(c.DutyRatio * float64(c.Interval.Std())),
		step:     step,
		left:     c.Duration.Std(),
		infinite: c.Duration == 0,
	}
	if c.StdDev > 0 {
		seed := c.Seed
		if seed == 0 {
			seed = trace.DefaultSeed
		}
		rng := trace.NewSeededRand(seed)
		sigma := c.StdDev.BitsPerSec()
		m.noise = func() float64 { return rng.NormFloat64() * sigma }
	}
	return m
}
