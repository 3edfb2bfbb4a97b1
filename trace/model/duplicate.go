package model

import (
	"fmt"
	"time"

	"github.com/emutrace/emutrace/trace"
)

// StaticDuplicate holds one constant duplication pattern for a fixed
// duration, then exhausts. The pattern lists per-packet duplication
// probabilities applied positionally after each duplicate, with the last
// entry repeating.
type StaticDuplicate struct {
	duplicate []float64
	left      time.Duration
}

func (m *StaticDuplicate) Next() (trace.DuplicateSegment, bool) {
	if m.left <= 0 {
		return trace.DuplicateSegment{}, false
	}
	seg := trace.DuplicateSegment{Duplicate: m.duplicate, Duration: m.left}
	m.left = 0
	return seg, true
}

// StaticDuplicateConfig configures StaticDuplicate.
type StaticDuplicateConfig struct {
	Duplicate []float64      `json:"duplicate" yaml:"duplicate"`
	Duration  trace.Duration `json:"duration" yaml:"duration"`
}

func (c *StaticDuplicateConfig) Tag() string { return "StaticDuplicate" }

func (c *StaticDuplicateConfig) Validate() error {
	if err := validateProbabilities(c.Tag(), "duplicate", c.Duplicate); err != nil {
		return err
	}
	if c.Duration <= 0 {
		return fmt.Errorf("StaticDuplicate: duration must be positive, got %s", c.Duration)
	}
	return nil
}

func (c *StaticDuplicateConfig) Build() trace.DuplicateTrace {
	duplicate := make([]float64, len(c.Duplicate))
	copy(duplicate, c.Duplicate)
	return &StaticDuplicate{duplicate: duplicate, left: c.Duration.Std()}
}
