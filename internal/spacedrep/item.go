package spacedrep

import (
	"fmt"
	"time"
)

// Item is a single reviewable phrase together with its scheduling state.
type Item struct {
	ID      string `json:"id" yaml:"id"`
	GroupID string `json:"group_id" yaml:"group_id"`
	Front   string `json:"front" yaml:"front"`
	Back    string `json:"back" yaml:"back"`

	MasteryLevel int `json:"mastery_level" yaml:"mastery_level"`
	KnowStreak   int `json:"know_streak" yaml:"know_streak"`
	KnowCount    int `json:"know_count" yaml:"know_count"`
	Lapses       int `json:"lapses" yaml:"lapses"`
	HardLapses   int `json:"hard_lapses" yaml:"hard_lapses"` // dont_know failures, a subset of Lapses

	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty" yaml:"last_reviewed_at,omitempty"` // nil until first review
	NextReviewAt   time.Time  `json:"next_review_at" yaml:"next_review_at"`
	IsMastered     bool       `json:"is_mastered" yaml:"is_mastered"`
	CreatedAt      time.Time  `json:"created_at" yaml:"created_at"`
}

// NewItem creates an unreviewed item that is immediately due.
func NewItem(id, groupID, front, back string, now time.Time) Item {
	return Item{
		ID:           id,
		GroupID:      groupID,
		Front:        front,
		Back:         back,
		NextReviewAt: now,
		CreatedAt:    now,
	}
}

// Counters is the numeric review state of an item.
type Counters struct {
	MasteryLevel int `json:"mastery_level"`
	KnowStreak   int `json:"know_streak"`
	KnowCount    int `json:"know_count"`
	Lapses       int `json:"lapses"`
	HardLapses   int `json:"hard_lapses"`
}

// Counters returns the item's counters.
func (it Item) Counters() Counters {
	return Counters{
		MasteryLevel: it.MasteryLevel,
		KnowStreak:   it.KnowStreak,
		KnowCount:    it.KnowCount,
		Lapses:       it.Lapses,
		HardLapses:   it.HardLapses,
	}
}

// IsNew reports whether the item has never been reviewed.
func (it Item) IsNew() bool {
	return it.LastReviewedAt == nil
}

// Clone returns a copy of the item that shares no pointers with it.
func (it Item) Clone() Item {
	out := it
	if it.LastReviewedAt != nil {
		t := *it.LastReviewedAt
		out.LastReviewedAt = &t
	}
	return out
}

// Validate checks the item invariants. Errors wrap ErrInvalidItemState.
// A mastery level above the schedule's last tier is allowed; the schedule
// clamps it.
func (it Item) Validate() error {
	switch {
	case it.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidItemState)
	case it.MasteryLevel < 0, it.KnowStreak < 0, it.KnowCount < 0, it.Lapses < 0, it.HardLapses < 0:
		return fmt.Errorf("%w: negative counter in %+v", ErrInvalidItemState, it.Counters())
	case it.KnowStreak > it.KnowCount:
		return fmt.Errorf("%w: know streak %d exceeds know count %d", ErrInvalidItemState, it.KnowStreak, it.KnowCount)
	case it.HardLapses > it.Lapses:
		return fmt.Errorf("%w: hard lapses %d exceed lapses %d", ErrInvalidItemState, it.HardLapses, it.Lapses)
	case it.NextReviewAt.IsZero():
		return fmt.Errorf("%w: next review time not set", ErrInvalidItemState)
	}

	reviewed := it.KnowCount > 0 || it.Lapses > 0
	if it.IsNew() && reviewed {
		return fmt.Errorf("%w: item has review counts but no last review time", ErrInvalidItemState)
	}
	if !it.IsNew() && !reviewed {
		return fmt.Errorf("%w: item has a last review time but no review counts", ErrInvalidItemState)
	}
	return nil
}
