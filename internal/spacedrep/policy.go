package spacedrep

import (
	"fmt"
	"time"
)

// Default tuning values.
const (
	// DefaultPromotionStreak is the number of consecutive successes that
	// earn one tier.
	DefaultPromotionStreak = 2

	// DefaultMasteryTier is the tier at which an item counts as mastered.
	DefaultMasteryTier = 5

	// DefaultLeechThreshold is the failure weight at which an item becomes a leech.
	DefaultLeechThreshold = 4

	DefaultRetryShortDelay = 10 * time.Minute
	DefaultPostponeDelay   = 24 * time.Hour
)

// Policy holds every tunable of the scheduling engine.
// Zero-value fields are replaced by defaults in WithDefaults.
type Policy struct {
	Schedule        Schedule
	PromotionStreak int
	MasteryTier     int
	LeechThreshold  int
	RetryShortDelay time.Duration
	PostponeDelay   time.Duration
}

// DefaultPolicy returns a Policy with all default values.
func DefaultPolicy() Policy {
	return Policy{
		Schedule:        DefaultSchedule(),
		PromotionStreak: DefaultPromotionStreak,
		MasteryTier:     DefaultMasteryTier,
		LeechThreshold:  DefaultLeechThreshold,
		RetryShortDelay: DefaultRetryShortDelay,
		PostponeDelay:   DefaultPostponeDelay,
	}
}

// WithDefaults fills zero-value fields with their defaults.
func (p Policy) WithDefaults() Policy {
	d := DefaultPolicy()
	if p.Schedule.IsZero() {
		p.Schedule = d.Schedule
	}
	if p.PromotionStreak == 0 {
		p.PromotionStreak = d.PromotionStreak
	}
	if p.MasteryTier == 0 {
		p.MasteryTier = d.MasteryTier
	}
	if p.LeechThreshold == 0 {
		p.LeechThreshold = d.LeechThreshold
	}
	if p.RetryShortDelay == 0 {
		p.RetryShortDelay = d.RetryShortDelay
	}
	if p.PostponeDelay == 0 {
		p.PostponeDelay = d.PostponeDelay
	}
	return p
}

// Validate checks that the policy is usable. Errors wrap ErrInvalidPolicy.
func (p Policy) Validate() error {
	if p.Schedule.IsZero() {
		return fmt.Errorf("%w: schedule not set", ErrInvalidPolicy)
	}
	if p.PromotionStreak < 1 {
		return fmt.Errorf("%w: promotion streak %d must be at least 1", ErrInvalidPolicy, p.PromotionStreak)
	}
	if p.MasteryTier < 1 || p.MasteryTier > p.Schedule.MaxTier() {
		return fmt.Errorf("%w: mastery tier %d out of range [1, %d]", ErrInvalidPolicy, p.MasteryTier, p.Schedule.MaxTier())
	}
	if p.LeechThreshold < 1 {
		return fmt.Errorf("%w: leech threshold %d must be at least 1", ErrInvalidPolicy, p.LeechThreshold)
	}
	if p.RetryShortDelay <= 0 || p.PostponeDelay <= 0 {
		return fmt.Errorf("%w: leech delays must be positive", ErrInvalidPolicy)
	}
	return nil
}

// MaxTier returns the highest mastery tier of the policy's schedule.
func (p Policy) MaxTier() int {
	return p.Schedule.MaxTier()
}

// Interval returns the review delay for a mastery level.
func (p Policy) Interval(level int) time.Duration {
	return p.Schedule.Interval(level)
}
