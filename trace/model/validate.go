package model

import (
	"fmt"

	"github.com/emutrace/emutrace/trace"
)

// Bound policies accepted by randomized configs. The zero value means
// PolicyClamp.
const (
	// PolicyClamp samples the full distribution and clips each draw into
	// the configured bounds.
	PolicyClamp = "clamp"
	// PolicyTruncated samples only from within the bounds, with the
	// distribution recentered so the truncated mean still matches the
	// configured mean.
	PolicyTruncated = "truncated"
)

func validatePolicy(tag, policy string) error {
	switch policy {
	case "", PolicyClamp, PolicyTruncated:
		return nil
	}
	return fmt.Errorf("%s: unknown bound policy %q", tag, policy)
}

func validateProbabilities(tag, field string, probs []float64) error {
	for i, p := range probs {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s: %s[%d] must be within [0, 1], got %g", tag, field, i, p)
		}
	}
	return nil
}

func validatePattern[S any](tag string, pattern []trace.Config[S], count int) error {
	if count < 0 {
		return fmt.Errorf("%s: count must be non-negative, got %d", tag, count)
	}
	if len(pattern) == 0 {
		return fmt.Errorf("%s: pattern must not be empty", tag)
	}
	for i, child := range pattern {
		if child == nil {
			return fmt.Errorf("%s: pattern element %d is missing", tag, i)
		}
		if err := child.Validate(); err != nil {
			return fmt.Errorf("%s: pattern element %d: %w", tag, i, err)
		}
	}
	return nil
}

func validateChild[S any](tag string, child trace.Config[S]) error {
	if child == nil {
		return fmt.Errorf("%s: child config is missing", tag)
	}
	if err := child.Validate(); err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	return nil
}
