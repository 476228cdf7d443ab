package mastery

import (
	"github.com/abhisek/phrasely/internal/reviewlog"
	"github.com/abhisek/phrasely/internal/spacedrep"
)

// Result is the outcome of applying an action to an item.
type Result struct {
	// Item is the updated copy. The input item is never modified.
	Item spacedrep.Item

	// CrossedIntoLeech is true only on the transition that first makes the
	// item a leech.
	CrossedIntoLeech bool

	// Entry records the transition for the review log.
	Entry reviewlog.Entry
}
