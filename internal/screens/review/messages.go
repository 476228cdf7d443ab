package review

import "github.com/abhisek/phrasely/internal/mastery"

// answeredMsg is sent when a learner response has been applied and persisted.
type answeredMsg struct {
	Result mastery.Result
	Err    error
}

// resolvedMsg is sent when a leech action has been applied and persisted.
type resolvedMsg struct {
	Result mastery.Result
	Err    error
}
