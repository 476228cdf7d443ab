package reviewlog

import "time"

// Summary aggregates a run of log entries.
type Summary struct {
	Total          int
	ByAction       map[string]int
	NewIntroduced  int
	LeechCrossings int
	NewlyMastered  int
	First          time.Time
	Last           time.Time
}

// Accuracy returns the share of successful reviews among graded reviews.
func (s Summary) Accuracy() float64 {
	graded := 0
	known := 0
	for action, n := range s.ByAction {
		switch action {
		case "know":
			known += n
			graded += n
		case "forgot", "dont_know":
			graded += n
		}
	}
	if graded == 0 {
		return 0
	}
	return float64(known) / float64(graded)
}

// Summarize aggregates entries.
func Summarize(entries []Entry) Summary {
	s := Summary{ByAction: make(map[string]int)}
	for _, e := range entries {
		s.Total++
		s.ByAction[e.Action]++
		if e.WasNew {
			s.NewIntroduced++
		}
		if e.CrossedIntoLeech {
			s.LeechCrossings++
		}
		if e.MasteredAfter && !e.MasteredBefore {
			s.NewlyMastered++
		}
		if s.First.IsZero() || e.At.Before(s.First) {
			s.First = e.At
		}
		if e.At.After(s.Last) {
			s.Last = e.At
		}
	}
	return s
}
