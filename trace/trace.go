package trace

import (
	"math/rand"
	"time"
)

// === Segments ===

// BwSegment holds a bandwidth constant for a positive duration.
type BwSegment struct {
	Bw       Bandwidth
	Duration time.Duration
}

// DelaySegment holds a propagation delay constant for a positive duration.
type DelaySegment struct {
	Delay    time.Duration
	Duration time.Duration
}

// LossSegment holds a loss pattern constant for a positive duration.
//
// The loss pattern is a vector of conditional drop probabilities: index 0 is
// the probability the next packet drops given the previous one got through,
// index i the probability it drops given the previous i packets were dropped.
// The last entry applies to all longer drop runs.
type LossSegment struct {
	Loss     []float64
	Duration time.Duration
}

// DuplicateSegment holds a duplication pattern constant for a positive
// duration. The pattern vector has the same conditional shape as LossSegment.
type DuplicateSegment struct {
	Duplicate []float64
	Duration  time.Duration
}

// === Stepping protocol ===

// Trace is the uniform stepping protocol all generators implement.
//
// Next returns the next segment and true, or the zero segment and false once
// the trace is exhausted. After the first false result every further call
// also returns false.
//
// A Trace instance is single-owner mutable state: it may be handed from one
// goroutine to another but must never be driven concurrently.
type Trace[S any] interface {
	Next() (S, bool)
}

// Config is an immutable declarative description of one generator.
//
// Configs are built once, never mutated, and may be shared read-only across
// any number of Build calls; every Build returns an independent instance with
// fresh internal state (cursor, repeat counters, re-seeded randomness).
type Config[S any] interface {
	// Tag returns the serialization tag identifying the concrete variant.
	Tag() string
	// Validate rejects parameter combinations that can never produce a
	// legal segment stream (non-positive durations, inverted bounds,
	// empty patterns).
	Validate() error
	// Build constructs a fresh generator instance from this config.
	Build() Trace[S]
}

// Per-characteristic aliases over the generic protocol. The per-packet delay
// kind steps through bare delays, one per packet, rather than (value,
// duration) segments; exporting treats each value as one packet's departure
// offset.
type (
	BwTrace        = Trace[BwSegment]
	DelayTrace     = Trace[DelaySegment]
	LossTrace      = Trace[LossSegment]
	DuplicateTrace = Trace[DuplicateSegment]
	PktDelayTrace  = Trace[time.Duration]

	BwConfig        = Config[BwSegment]
	DelayConfig     = Config[DelaySegment]
	LossConfig      = Config[LossSegment]
	DuplicateConfig = Config[DuplicateSegment]
	PktDelayConfig  = Config[time.Duration]
)

// === Randomness ===

// DefaultSeed seeds any randomized generator whose config leaves the seed
// unset, so default configs still reproduce bit-for-bit.
const DefaultSeed = 42

// NewSeededRand returns a deterministic RNG for the given seed. Randomized
// generators must draw only from an RNG created here, never from the global
// source, so determinism is a property of configuration alone.
func NewSeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
