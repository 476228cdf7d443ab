package spacedrep

import "time"

// IsDue returns true if the item is due for review (at or past its review time).
func (it Item) IsDue(now time.Time) bool {
	return !now.Before(it.NextReviewAt)
}

// OverdueBy returns how long past due the item is. Returns 0 if not yet due.
func (it Item) OverdueBy(now time.Time) time.Duration {
	if now.Before(it.NextReviewAt) {
		return 0
	}
	return now.Sub(it.NextReviewAt)
}

// Until returns the time left before the item becomes due.
// Returns 0 if already due.
func (it Item) Until(now time.Time) time.Duration {
	if it.IsDue(now) {
		return 0
	}
	return it.NextReviewAt.Sub(now)
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	StatusNew       ReviewStatus = "new"
	StatusDue       ReviewStatus = "due"
	StatusScheduled ReviewStatus = "scheduled"
	StatusMastered  ReviewStatus = "mastered"
	StatusLeech     ReviewStatus = "leech"
)

// Status returns the review status for UI display. Leeches are reported
// before anything else so they stand out in listings.
func (p Policy) Status(it Item, now time.Time) ReviewStatus {
	switch {
	case p.IsLeech(it):
		return StatusLeech
	case it.IsNew():
		return StatusNew
	case it.IsDue(now):
		return StatusDue
	case it.IsMastered:
		return StatusMastered
	}
	return StatusScheduled
}

// GroupPredicate reports whether a group is enabled.
type GroupPredicate func(groupID string) bool

// AllGroupsEnabled is a GroupPredicate that accepts every group.
func AllGroupsEnabled(string) bool { return true }

// EnabledSet returns a GroupPredicate backed by a set of enabled group ids.
func EnabledSet(enabled map[string]bool) GroupPredicate {
	return func(groupID string) bool {
		return enabled[groupID]
	}
}
