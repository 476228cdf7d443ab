package spacedrep

import (
	"sort"
	"time"
)

// Rank returns the eligible items of pool in presentation order.
//
// Due items come first, most overdue first, then lowest know streak, then id.
// New items that are not yet due follow in pool order. Items that have been
// reviewed and are not due are not eligible.
func Rank(pool []Item, now time.Time) []Item {
	var due, fresh []Item
	for _, it := range pool {
		switch {
		case it.IsDue(now):
			due = append(due, it)
		case it.IsNew():
			fresh = append(fresh, it)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].NextReviewAt.Before(due[j].NextReviewAt)
		}
		if due[i].KnowStreak != due[j].KnowStreak {
			return due[i].KnowStreak < due[j].KnowStreak
		}
		return due[i].ID < due[j].ID
	})

	return append(due, fresh...)
}

// SelectNext picks the item to present next. lastShownID is the id of the
// item shown on the previous turn, or "" if none. The item is skipped in
// favour of the next-ranked one whenever an alternative exists.
// Returns false when nothing is due and no new item is available.
func SelectNext(pool []Item, lastShownID string, now time.Time) (Item, bool) {
	ranked := Rank(pool, now)
	if len(ranked) == 0 {
		return Item{}, false
	}
	if lastShownID != "" && ranked[0].ID == lastShownID && len(ranked) > 1 {
		return ranked[1], true
	}
	return ranked[0], true
}

// DueCount returns the number of items in pool that are due at now.
func DueCount(pool []Item, now time.Time) int {
	n := 0
	for _, it := range pool {
		if it.IsDue(now) {
			n++
		}
	}
	return n
}
