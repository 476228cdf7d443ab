// Package mastery implements the review state machine: it turns a reviewed
// item and the learner's response into the item's next state.
//
// Every method is a pure function of its arguments. The current time is
// always passed in and no state is kept between calls, so a Machine can be
// shared by any number of goroutines. Callers must not apply two actions to
// the same item concurrently; each call is a read-modify-write of the whole
// item record.
package mastery

import (
	"fmt"
	"time"

	"github.com/abhisek/phrasely/internal/reviewlog"
	"github.com/abhisek/phrasely/internal/spacedrep"
)

// Machine applies review and leech actions under a scheduling policy.
type Machine struct {
	policy spacedrep.Policy
}

// NewMachine creates a Machine. Zero-value policy fields take their
// defaults; an invalid policy returns an error.
func NewMachine(policy spacedrep.Policy) (*Machine, error) {
	p := policy.WithDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Machine{policy: p}, nil
}

// Policy returns the policy in use.
func (m *Machine) Policy() spacedrep.Policy {
	return m.policy
}

// ApplyReview applies a learner response to item.
//
// know advances the streak and promotes one tier every PromotionStreak
// consecutive successes. forgot and dont_know reset the streak, count a
// lapse and halve the tier; dont_know also counts a hard lapse. The next
// review is scheduled from the resulting tier.
func (m *Machine) ApplyReview(item spacedrep.Item, action Action, enabled spacedrep.GroupPredicate, now time.Time) (Result, error) {
	if !action.IsValid() {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}
	if err := item.Validate(); err != nil {
		return Result{}, err
	}

	next := item.Clone()
	switch action {
	case Know:
		next.KnowCount++
		next.KnowStreak++
		if next.KnowStreak%m.policy.PromotionStreak == 0 && next.MasteryLevel < m.policy.MaxTier() {
			next.MasteryLevel++
		}
	case Forgot, DontKnow:
		next.KnowStreak = 0
		next.Lapses++
		if action == DontKnow {
			next.HardLapses++
		}
		next.MasteryLevel /= 2
	}

	interval := m.policy.Interval(next.MasteryLevel)
	reviewedAt := now
	next.LastReviewedAt = &reviewedAt
	next.NextReviewAt = now.Add(interval)
	next.IsMastered = m.IsMastered(next, enabled)

	crossed := false
	if action.IsFailure() {
		crossed = !m.policy.IsLeech(item) && m.policy.IsLeech(next)
	}

	return Result{
		Item:             next,
		CrossedIntoLeech: crossed,
		Entry:            newEntry(item, next, action.String(), interval, crossed, now),
	}, nil
}

// ApplyLeechAction applies a manual leech resolution to item.
// retry_short and postpone only move the due time; reset_progress returns
// the item to its just-created state.
func (m *Machine) ApplyLeechAction(item spacedrep.Item, action LeechAction, enabled spacedrep.GroupPredicate, now time.Time) (Result, error) {
	if !action.IsValid() {
		return Result{}, fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}
	if err := item.Validate(); err != nil {
		return Result{}, err
	}

	next := item.Clone()
	var interval time.Duration
	switch action {
	case RetryShort:
		interval = m.policy.RetryShortDelay
	case Postpone:
		interval = m.policy.PostponeDelay
	case ResetProgress:
		next.MasteryLevel = 0
		next.KnowStreak = 0
		next.KnowCount = 0
		next.Lapses = 0
		next.HardLapses = 0
		next.LastReviewedAt = nil
	}
	next.NextReviewAt = now.Add(interval)
	next.IsMastered = m.IsMastered(next, enabled)

	return Result{
		Item:  next,
		Entry: newEntry(item, next, action.String(), interval, false, now),
	}, nil
}

// IsMastered reports whether item has reached the mastery tier and belongs
// to an enabled group. A nil predicate treats every group as enabled.
func (m *Machine) IsMastered(item spacedrep.Item, enabled spacedrep.GroupPredicate) bool {
	if item.MasteryLevel < m.policy.MasteryTier {
		return false
	}
	if enabled == nil {
		return true
	}
	return enabled(item.GroupID)
}

// IsLeech reports whether item is a leech under the machine's policy.
func (m *Machine) IsLeech(item spacedrep.Item) bool {
	return m.policy.IsLeech(item)
}

// Refresh recomputes the derived IsMastered flag, e.g. after a group was
// enabled or disabled.
func (m *Machine) Refresh(item spacedrep.Item, enabled spacedrep.GroupPredicate) spacedrep.Item {
	out := item.Clone()
	out.IsMastered = m.IsMastered(out, enabled)
	return out
}

func newEntry(before, after spacedrep.Item, action string, interval time.Duration, crossed bool, now time.Time) reviewlog.Entry {
	return reviewlog.Entry{
		ItemID:           before.ID,
		GroupID:          before.GroupID,
		Action:           action,
		At:               now,
		Before:           before.Counters(),
		After:            after.Counters(),
		NextReviewBefore: before.NextReviewAt,
		NextReviewAfter:  after.NextReviewAt,
		Interval:         interval,
		WasNew:           before.IsNew(),
		CrossedIntoLeech: crossed,
		MasteredBefore:   before.IsMastered,
		MasteredAfter:    after.IsMastered,
	}
}
