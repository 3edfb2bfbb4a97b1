package model

import (
	"time"

	"github.com/emutrace/emutrace/trace"
)

// Repeated drives an ordered pattern of child configs strictly in order.
// Every child is built fresh from its config when its turn comes, so no
// generator state leaks across repetitions: randomized children restart
// their sequence exactly as a new build would. Count 0 repeats forever.
type Repeated[S any] struct {
	pattern []trace.Config[S]
	count   int

	cur     trace.Trace[S]
	idx     int
	cycle   int
	yielded bool // something was produced during the current cycle
	done    bool
}

// NewRepeated returns a repeated-pattern generator over pattern with the
// given repetition count.
func NewRepeated[S any](pattern []trace.Config[S], count int) *Repeated[S] {
	return &Repeated[S]{pattern: pattern, count: count}
}

func (m *Repeated[S]) Next() (S, bool) {
	var zero S
	if m.done || len(m.pattern) == 0 {
		m.done = true
		return zero, false
	}
	for {
		if m.count != 0 && m.cycle >= m.count {
			m.done = true
			return zero, false
		}
		if m.cur == nil {
			m.cur = m.pattern[m.idx].Build()
		}
		if s, ok := m.cur.Next(); ok {
			m.yielded = true
			return s, true
		}
		m.cur = nil
		m.idx++
		if m.idx >= len(m.pattern) {
			// a full cycle with no output would otherwise spin forever
			if !m.yielded {
				m.done = true
				return zero, false
			}
			m.idx = 0
			m.cycle++
			m.yielded = false
		}
	}
}

// RepeatedBwPatternConfig repeats an ordered bandwidth pattern Count times;
// Count 0 repeats it forever.
type RepeatedBwPatternConfig struct {
	Pattern trace.BwPattern `json:"pattern" yaml:"pattern"`
	Count   int             `json:"count" yaml:"count"`
}

func (c *RepeatedBwPatternConfig) Tag() string { return "RepeatedBwPattern" }

func (c *RepeatedBwPatternConfig) Validate() error {
	return validatePattern(c.Tag(), c.Pattern, c.Count)
}

func (c *RepeatedBwPatternConfig) Build() trace.BwTrace {
	return NewRepeated(c.Pattern, c.Count)
}

// RepeatedDelayPatternConfig repeats an ordered delay pattern Count times;
// Count 0 repeats it forever.
type RepeatedDelayPatternConfig struct {
	Pattern trace.DelayPattern `json:"pattern" yaml:"pattern"`
	Count   int                `json:"count" yaml:"count"`
}

func (c *RepeatedDelayPatternConfig) Tag() string { return "RepeatedDelayPattern" }

func (c *RepeatedDelayPatternConfig) Validate() error {
	return validatePattern(c.Tag(), c.Pattern, c.Count)
}

func (c *RepeatedDelayPatternConfig) Build() trace.DelayTrace {
	return NewRepeated(c.Pattern, c.Count)
}

// RepeatedLossPatternConfig repeats an ordered loss pattern Count times;
// Count 0 repeats it forever.
type RepeatedLossPatternConfig struct {
	Pattern trace.LossPattern `json:"pattern" yaml:"pattern"`
	Count   int               `json:"count" yaml:"count"`
}

func (c *RepeatedLossPatternConfig) Tag() string { return "RepeatedLossPattern" }

func (c *RepeatedLossPatternConfig) Validate() error {
	return validatePattern(c.Tag(), c.Pattern, c.Count)
}

func (c *RepeatedLossPatternConfig) Build() trace.LossTrace {
	return NewRepeated(c.Pattern, c.Count)
}

// RepeatedDuplicatePatternConfig repeats an ordered duplication pattern
// Count times; Count 0 repeats it forever.
type RepeatedDuplicatePatternConfig struct {
	Pattern trace.DuplicatePattern `json:"pattern" yaml:"pattern"`
	Count   int                    `json:"count" yaml:"count"`
}

func (c *RepeatedDuplicatePatternConfig) Tag() string { return "RepeatedDuplicatePattern" }

func (c *RepeatedDuplicatePatternConfig) Validate() error {
	return validatePattern(c.Tag(), c.Pattern, c.Count)
}

func (c *RepeatedDuplicatePatternConfig) Build() trace.DuplicateTrace {
	return NewRepeated(c.Pattern, c.Count)
}

// RepeatedPktDelayPatternConfig repeats an ordered per-packet delay pattern
// Count times; Count 0 repeats it forever.
type RepeatedPktDelayPatternConfig struct {
	Pattern trace.PktDelayPattern `json:"pattern" yaml:"pattern"`
	Count   int                   `json:"count" yaml:"count"`
}

func (c *RepeatedPktDelayPatternConfig) Tag() string { return "RepeatedPktDelayPattern" }

func (c *RepeatedPktDelayPatternConfig) Validate() error {
	return validatePattern[time.Duration](c.Tag(), c.Pattern, c.Count)
}

func (c *RepeatedPktDelayPatternConfig) Build() trace.PktDelayTrace {
	return NewRepeated[time.Duration](c.Pattern, c.Count)
}
