package spacedrep

import (
	"fmt"
	"time"
)

// DefaultIntervals defines the expanding review interval per mastery tier.
// Tier 0 = an item that has never been promoted.
var DefaultIntervals = []time.Duration{
	10 * time.Minute,
	1 * time.Hour,
	8 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
	14 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

// MaxTier is the highest tier of the default schedule.
const MaxTier = 7

// Schedule maps a mastery tier to the delay before the next review.
// It is immutable once built.
type Schedule struct {
	steps []time.Duration
}

// NewSchedule builds a schedule from a step table. The table must be
// non-empty and strictly increasing.
func NewSchedule(steps []time.Duration) (Schedule, error) {
	if len(steps) == 0 {
		return Schedule{}, fmt.Errorf("%w: no steps", ErrInvalidSchedule)
	}
	for i, d := range steps {
		if d <= 0 {
			return Schedule{}, fmt.Errorf("%w: step %d is %s, must be positive", ErrInvalidSchedule, i, d)
		}
		if i > 0 && d <= steps[i-1] {
			return Schedule{}, fmt.Errorf("%w: step %d (%s) does not exceed step %d (%s)",
				ErrInvalidSchedule, i, d, i-1, steps[i-1])
		}
	}
	cp := make([]time.Duration, len(steps))
	copy(cp, steps)
	return Schedule{steps: cp}, nil
}

// DefaultSchedule returns the schedule built from DefaultIntervals.
func DefaultSchedule() Schedule {
	s, _ := NewSchedule(DefaultIntervals)
	return s
}

// Interval returns the review delay for a mastery level. Levels beyond the
// table use the last step; negative levels use the first.
func (s Schedule) Interval(level int) time.Duration {
	if len(s.steps) == 0 {
		return DefaultIntervals[clamp(level, 0, MaxTier)]
	}
	return s.steps[clamp(level, 0, len(s.steps)-1)]
}

// MaxTier returns the highest tier index of the schedule.
func (s Schedule) MaxTier() int {
	if len(s.steps) == 0 {
		return MaxTier
	}
	return len(s.steps) - 1
}

// Steps returns a copy of the step table.
func (s Schedule) Steps() []time.Duration {
	if len(s.steps) == 0 {
		return append([]time.Duration(nil), DefaultIntervals...)
	}
	return append([]time.Duration(nil), s.steps...)
}

// IsZero reports whether the schedule was never built.
func (s Schedule) IsZero() bool {
	return len(s.steps) == 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
