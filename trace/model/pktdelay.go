package model

import (
	"fmt"
	"math"
	"time"

	"github.com/emutrace/emutrace/trace"
)

// StaticPktDelay repeats one delay for Count packets; Count 0 repeats
// forever.
type StaticPktDelay struct {
	delay   time.Duration
	count   int
	emitted int
}

func (m *StaticPktDelay) Next() (time.Duration, bool) {
	if m.count != 0 && m.emitted >= m.count {
		return 0, false
	}
	m.emitted++
	return m.delay, true
}

// StaticPktDelayConfig configures StaticPktDelay.
type StaticPktDelayConfig struct {
	Delay trace.Duration `json:"delay" yaml:"delay"`
	Count int            `json:"count,omitempty" yaml:"count,omitempty"`
}

func (c *StaticPktDelayConfig) Tag() string { return "StaticPktDelay" }

func (c *StaticPktDelayConfig) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("StaticPktDelay: delay must be non-negative, got %s", c.Delay)
	}
	if c.Count < 0 {
		return fmt.Errorf("StaticPktDelay: count must be non-negative, got %d", c.Count)
	}
	return nil
}

func (c *StaticPktDelayConfig) Build() trace.PktDelayTrace {
	return &StaticPktDelay{delay: c.Delay.Std(), count: c.Count}
}

// NormalPktDelay draws each packet's delay from a normal distribution, for
// Count packets; Count 0 draws forever. Negative draws are floored at zero.
type NormalPktDelay struct {
	sample  func() float64 // one draw, in seconds
	count   int
	emitted int
}

func (m *NormalPktDelay) Next() (time.Duration, bool) {
	if m.count != 0 && m.emitted >= m.count {
		return 0, false
	}
	m.emitted++
	secs := m.sample()
	if secs < 0 || math.IsNaN(secs) {
		secs = 0
	}
	return time.Duration(math.Round(secs * float64(time.Second))), true
}

// NormalPktDelayConfig configures NormalPktDelay. Bounds are optional;
// Policy selects how draws outside them are handled and defaults to
// PolicyClamp. Seed 0 means trace.DefaultSeed.
type NormalPktDelayConfig struct {
	Mean       trace.Duration  `json:"mean" yaml:"mean"`
	StdDev     trace.Duration  `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`
	Count      int             `json:"count,omitempty" yaml:"count,omitempty"`
	Seed       int64           `json:"seed,omitempty" yaml:"seed,omitempty"`
	LowerBound *trace.Duration `json:"lower_bound,omitempty" yaml:"lower_bound,omitempty"`
	UpperBound *trace.Duration `json:"upper_bound,omitempty" yaml:"upper_bound,omitempty"`
	Policy     string          `json:"policy,omitempty" yaml:"policy,omitempty"`
}

func (c *NormalPktDelayConfig) Tag() string { return "NormalPktDelay" }

func (c *NormalPktDelayConfig) Validate() error {
	if c.Mean < 0 {
		return fmt.Errorf("NormalPktDelay: mean must be non-negative, got %s", c.Mean)
	}
	if c.StdDev < 0 {
		return fmt.Errorf("NormalPktDelay: std_dev must be non-negative, got %s", c.StdDev)
	}
	if c.Count < 0 {
		return fmt.Errorf("NormalPktDelay: count must be non-negative, got %d", c.Count)
	}
	if c.LowerBound != nil && c.UpperBound != nil && *c.LowerBound > *c.UpperBound {
		return fmt.Errorf("NormalPktDelay: lower_bound %s exceeds upper_bound %s", *c.LowerBound, *c.UpperBound)
	}
	return validatePolicy(c.Tag(), c.Policy)
}

func (c *NormalPktDelayConfig) Build() trace.PktDelayTrace {
	seed := c.Seed
	if seed == 0 {
		seed = trace.DefaultSeed
	}
	rng := trace.NewSeededRand(seed)
	mean := c.Mean.Std().Seconds()
	sigma := c.StdDev.Std().Seconds()
	var lower, upper *float64
	if c.LowerBound != nil {
		v := c.LowerBound.Std().Seconds()
		lower = &v
	}
	if c.UpperBound != nil {
		v := c.UpperBound.Std().Seconds()
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
	return &NormalPktDelay{sample: sample, count: c.Count}
}
