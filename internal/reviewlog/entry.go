package reviewlog

import (
	"time"

	"github.com/abhisek/phrasely/internal/spacedrep"
)

// Entry is an immutable record of one review-state transition.
type Entry struct {
	Sequence int64     `json:"sequence,omitempty"` // assigned by the store; 0 while in memory only
	ItemID   string    `json:"item_id"`
	GroupID  string    `json:"group_id"`
	Action   string    `json:"action"`
	At       time.Time `json:"at"`

	Before spacedrep.Counters `json:"before"`
	After  spacedrep.Counters `json:"after"`

	NextReviewBefore time.Time     `json:"next_review_before"`
	NextReviewAfter  time.Time     `json:"next_review_after"`
	Interval         time.Duration `json:"interval"`

	WasNew           bool `json:"was_new"`
	CrossedIntoLeech bool `json:"crossed_into_leech"`
	MasteredBefore   bool `json:"mastered_before"`
	MasteredAfter    bool `json:"mastered_after"`
}

// Succeeded reports whether the entry records a successful review.
func (e Entry) Succeeded() bool {
	return e.After.KnowCount > e.Before.KnowCount
}

// Failed reports whether the entry records a failed review.
func (e Entry) Failed() bool {
	return e.After.Lapses > e.Before.Lapses
}
