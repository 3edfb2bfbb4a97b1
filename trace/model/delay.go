package model

import (
	"fmt"
	"time"

	"github.com/emutrace/emutrace/trace"
)

// StaticDelay holds one constant delay for a fixed duration, then exhausts.
type StaticDelay struct {
	delay time.Duration
	left  time.Duration
}

func (m *StaticDelay) Next() (trace.DelaySegment, bool) {
	if m.left <= 0 {
		return trace.DelaySegment{}, false
	}
	seg := trace.DelaySegment{Delay: m.delay, Duration: m.left}
	m.left = 0
	return seg, true
}

// StaticDelayConfig configures StaticDelay.
type StaticDelayConfig struct {
	Delay    trace.Duration `json:"delay" yaml:"delay"`
	Duration trace.Duration `json:"duration" yaml:"duration"`
}

func (c *StaticDelayConfig) Tag() string { return "StaticDelay" }

func (c *StaticDelayConfig) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("StaticDelay: delay must be non-negative, got %s", c.Delay)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("StaticDelay: duration must be positive, got %s", c.Duration)
	}
	return nil
}

func (c *StaticDelayConfig) Build() trace.DelayTrace {
	return &StaticDelay{delay: c.Delay.Std(), left: c.Duration.Std()}
}
