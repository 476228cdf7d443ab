// Package review implements the interactive review screen: it shows the
// front of each due phrase, checks the typed answer and records the
// learner's response through a session.Coordinator.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phrasely/internal/importer"
	"github.com/abhisek/phrasely/internal/mastery"
	"github.com/abhisek/phrasely/internal/router"
	"github.com/abhisek/phrasely/internal/screen"
	"github.com/abhisek/phrasely/internal/screens/summary"
	"github.com/abhisek/phrasely/internal/session"
	"github.com/abhisek/phrasely/internal/spacedrep"
	"github.com/abhisek/phrasely/internal/ui/components"
	"github.com/abhisek/phrasely/internal/ui/layout"
)

type phase int

const (
	phaseAsking   phase = iota // waiting for a typed answer
	phaseRevealed              // back shown, waiting for a self-grade
	phaseFeedback              // response recorded
	phaseLeech                 // item just became a leech
	phaseDone
)

// ReviewScreen implements screen.Screen for a review session.
type ReviewScreen struct {
	ctx   context.Context
	coord *session.Coordinator
	now   func() time.Time

	phase   phase
	current spacedrep.Item
	input   components.AnswerInput
	pending bool
	result  *mastery.Result
	errMsg  string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)
var _ screen.StatusProvider = (*ReviewScreen)(nil)

// New creates a ReviewScreen over coord. now defaults to time.Now.
func New(ctx context.Context, coord *session.Coordinator, now func() time.Time) *ReviewScreen {
	if now == nil {
		now = time.Now
	}
	return &ReviewScreen{ctx: ctx, coord: coord, now: now}
}

func (s *ReviewScreen) Init() tea.Cmd {
	return s.advance()
}

func (s *ReviewScreen) Title() string {
	return "Review"
}

func (s *ReviewScreen) Status() string {
	due := s.coord.Summary(s.now()).Due
	if rem := s.coord.Remaining(); rem >= 0 {
		return fmt.Sprintf("%d due  %d left", due, rem)
	}
	return fmt.Sprintf("%d due", due)
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAsking:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Check"},
			{Key: "Esc", Description: "Finish"},
		}
	case phaseRevealed:
		return []layout.KeyHint{
			{Key: "K", Description: "Knew it"},
			{Key: "F", Description: "Forgot"},
			{Key: "D", Description: "Didn't know"},
			{Key: "Esc", Description: "Finish"},
		}
	case phaseLeech:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry soon"},
			{Key: "X", Description: "Reset"},
			{Key: "P", Description: "Postpone"},
			{Key: "any key", Description: "Keep"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	return nil
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case answeredMsg:
		return s, s.handleAnswered(msg)

	case resolvedMsg:
		s.pending = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			s.phase = phaseFeedback
			return s, nil
		}
		return s, s.advance()

	case tea.KeyMsg:
		if s.pending || s.phase == phaseDone {
			return s, nil
		}
		return s, s.handleKey(msg)
	}

	if s.phase == phaseAsking {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ReviewScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch s.phase {
	case phaseAsking:
		switch key {
		case "esc":
			return s.finish()
		case "enter":
			return s.check()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd

	case phaseRevealed:
		switch key {
		case "esc":
			return s.finish()
		case "k":
			return s.answer(mastery.Know)
		case "f":
			return s.answer(mastery.Forgot)
		case "d":
			return s.answer(mastery.DontKnow)
		}

	case phaseLeech:
		switch key {
		case "r":
			return s.resolve(mastery.RetryShort)
		case "x":
			return s.resolve(mastery.ResetProgress)
		case "p":
			return s.resolve(mastery.Postpone)
		}
		return s.advance()

	case phaseFeedback:
		if key == "esc" {
			return s.finish()
		}
		return s.advance()
	}
	return nil
}

// check grades the typed answer. A match counts as know; anything else
// reveals the back so the learner can grade themselves.
func (s *ReviewScreen) check() tea.Cmd {
	typed := strings.TrimSpace(s.input.Value())
	if typed != "" && importer.Key(typed) == importer.Key(s.current.Back) {
		s.input.Submit(true)
		return s.answer(mastery.Know)
	}
	s.input.Submit(false)
	s.phase = phaseRevealed
	return nil
}

func (s *ReviewScreen) answer(action mastery.Action) tea.Cmd {
	s.pending = true
	ctx, coord, id, now := s.ctx, s.coord, s.current.ID, s.now()
	return func() tea.Msg {
		res, err := coord.Answer(ctx, id, action, now)
		return answeredMsg{Result: res, Err: err}
	}
}

func (s *ReviewScreen) resolve(action mastery.LeechAction) tea.Cmd {
	s.pending = true
	ctx, coord, id, now := s.ctx, s.coord, s.current.ID, s.now()
	return func() tea.Msg {
		res, err := coord.ResolveLeech(ctx, id, action, now)
		return resolvedMsg{Result: res, Err: err}
	}
}

func (s *ReviewScreen) handleAnswered(msg answeredMsg) tea.Cmd {
	s.pending = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		s.phase = phaseFeedback
		return nil
	}
	res := msg.Result
	s.result = &res
	s.current = res.Item
	if res.CrossedIntoLeech {
		s.phase = phaseLeech
	} else {
		s.phase = phaseFeedback
	}
	return nil
}

// advance moves to the next due item, or ends the session when none is
// left.
func (s *ReviewScreen) advance() tea.Cmd {
	s.result = nil
	s.errMsg = ""
	item, ok := s.coord.Next(s.now())
	if !ok {
		return s.finish()
	}
	s.current = item
	s.phase = phaseAsking
	s.input = components.NewAnswerInput("Type the meaning...", 200)
	return s.input.Init()
}

func (s *ReviewScreen) finish() tea.Cmd {
	s.phase = phaseDone
	next := summary.New(s.coord.Summary(s.now()))
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}
