package model

import (
	"fmt"
	"time"

	"github.com/emutrace/emutrace/trace"
)

// StaticLoss holds one constant loss pattern for a fixed duration, then
// exhausts. The pattern lists per-packet drop probabilities applied
// positionally after each drop, with the last entry repeating.
type StaticLoss struct {
	loss []float64
	left time.Duration
}

func (m *StaticLoss) Next() (trace.LossSegment, bool) {
	if m.left <= 0 {
		return trace.LossSegment{}, false
	}
	seg := trace.LossSegment{Loss: m.loss, Duration: m.left}
	m.left = 0
	return seg, true
}

// StaticLossConfig configures StaticLoss.
type StaticLossConfig struct {
	Loss     []float64      `json:"loss" yaml:"loss"`
	Duration trace.Duration `json:"duration" yaml:"duration"`
}

func (c *StaticLossConfig) Tag() string { return "StaticLoss" }

func (c *StaticLossConfig) Validate() error {
	if err := validateProbabilities(c.Tag(), "loss", c.Loss); err != nil {
		return err
	}
	if c.Duration <= 0 {
		return fmt.Errorf("StaticLoss: duration must be positive, got %s", c.Duration)
	}
	return nil
}

func (c *StaticLossConfig) Build() trace.LossTrace {
	loss := make([]float64, len(c.Loss))
	copy(loss, c.Loss)
	return &StaticLoss{loss: loss, left: c.Duration.Std()}
}
