package review

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phrasely/internal/mastery"
	"github.com/abhisek/phrasely/internal/reviewlog"
	"github.com/abhisek/phrasely/internal/router"
	"github.com/abhisek/phrasely/internal/screens/summary"
	"github.com/abhisek/phrasely/internal/session"
	"github.com/abhisek/phrasely/internal/spacedrep"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// memRepo implements session.Repo in memory.
type memRepo struct {
	items   map[string]spacedrep.Item
	entries []reviewlog.Entry
	err     error
}

func (m *memRepo) RecordReview(_ context.Context, item spacedrep.Item, e reviewlog.Entry) (reviewlog.Entry, error) {
	if m.err != nil {
		return reviewlog.Entry{}, m.err
	}
	if m.items == nil {
		m.items = make(map[string]spacedrep.Item)
	}
	m.items[item.ID] = item
	e.Sequence = int64(len(m.entries) + 1)
	m.entries = append(m.entries, e)
	return e, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testScreen(t *testing.T, limit int, items ...spacedrep.Item) (*ReviewScreen, *memRepo) {
	t.Helper()
	machine, err := mastery.NewMachine(spacedrep.DefaultPolicy())
	if err != nil {
		t.Fatalf("NewMachine: %v", err)
	}
	repo := &memRepo{}
	coord := session.New(machine, repo, items, session.Options{Limit: limit}, t0)
	s := New(context.Background(), coord, func() time.Time { return t0 })
	s.Init()
	return s, repo
}

func phrase(id, front, back string) spacedrep.Item {
	return spacedrep.NewItem(id, "g1", front, back, t0)
}

// run executes cmd and feeds its message back into the screen.
func run(t *testing.T, s *ReviewScreen, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := s.Update(cmd())
	return next
}

func expectSummary(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected router.ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement = %T, want *summary.SummaryScreen", msg.Screen)
	}
}

func TestReviewScreen_Title(t *testing.T) {
	s, _ := testScreen(t, 0, phrase("a", "hola", "hello"))
	if s.Title() != "Review" {
		t.Errorf("Title = %q, want %q", s.Title(), "Review")
	}
}

func TestReviewScreen_EmptyPoolFinishes(t *testing.T) {
	machine, _ := mastery.NewMachine(spacedrep.DefaultPolicy())
	coord := session.New(machine, &memRepo{}, nil, session.Options{}, t0)
	s := New(context.Background(), coord, func() time.Time { return t0 })

	expectSummary(t, s.Init())
	if s.phase != phaseDone {
		t.Errorf("phase = %v, want done", s.phase)
	}
	if s.View(80, 24) != "" {
		t.Error("expected empty view when done")
	}
}

func TestReviewScreen_ShowsFront(t *testing.T) {
	s, _ := testScreen(t, 0, phrase("a", "hola", "hello"))
	view := s.View(80, 24)
	if !strings.Contains(view, "hola") {
		t.Error("view missing front")
	}
	if strings.Contains(view, "hello") {
		t.Error("back shown before answering")
	}
	if !strings.Contains(view, "new phrase") {
		t.Error("expected new phrase marker")
	}
}

func TestReviewScreen_CorrectAnswer(t *testing.T) {
	s, repo := testScreen(t, 0, phrase("a", "hola", "hello"))
	s.input.Model.SetValue("  Hello ")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if !s.pending {
		t.Error("expected pending while saving")
	}
	run(t, s, cmd)

	if s.phase != phaseFeedback {
		t.Fatalf("phase = %v, want feedback", s.phase)
	}
	if len(repo.entries) != 1 || repo.entries[0].Action != "know" {
		t.Fatalf("entries = %+v, want one know", repo.entries)
	}
	if got := repo.items["a"].KnowCount; got != 1 {
		t.Errorf("KnowCount = %d, want 1", got)
	}
	if !strings.Contains(s.View(80, 24), "next review in 10m") {
		t.Error("expected next review interval in view")
	}
}

func TestReviewScreen_WrongAnswerReveals(t *testing.T) {
	s, repo := testScreen(t, 0, phrase("a", "hola", "hello"))
	s.input.Model.SetValue("goodbye")

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command on reveal")
	}
	if s.phase != phaseRevealed {
		t.Fatalf("phase = %v, want revealed", s.phase)
	}
	if !strings.Contains(s.View(80, 24), "hello") {
		t.Error("expected back in view after reveal")
	}
	if len(repo.entries) != 0 {
		t.Error("nothing should be recorded before grading")
	}
}

func TestReviewScreen_EmptyEnterReveals(t *testing.T) {
	s, _ := testScreen(t, 0, phrase("a", "hola", "hello"))
	s.Update(specialKey(tea.KeyEnter))
	if s.phase != phaseRevealed {
		t.Errorf("phase = %v, want revealed", s.phase)
	}
}

func TestReviewScreen_SelfGrade(t *testing.T) {
	tests := []struct {
		key  rune
		want string
	}{
		{'k', "know"},
		{'f', "forgot"},
		{'d', "dont_know"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			s, repo := testScreen(t, 0, phrase("a", "hola", "hello"))
			s.Update(specialKey(tea.KeyEnter))

			_, cmd := s.Update(keyPress(tt.key))
			run(t, s, cmd)

			if len(repo.entries) != 1 {
				t.Fatalf("entries = %d, want 1", len(repo.entries))
			}
			if repo.entries[0].Action != tt.want {
				t.Errorf("action = %q, want %q", repo.entries[0].Action, tt.want)
			}
		})
	}
}

func TestReviewScreen_IgnoresOtherKeysWhenRevealed(t *testing.T) {
	s, repo := testScreen(t, 0, phrase("a", "hola", "hello"))
	s.Update(specialKey(tea.KeyEnter))
	if _, cmd := s.Update(keyPress('z')); cmd != nil {
		t.Error("expected no command")
	}
	if s.phase != phaseRevealed || len(repo.entries) != 0 {
		t.Error("unexpected state change")
	}
}

func TestReviewScreen_FeedbackAdvances(t *testing.T) {
	s, _ := testScreen(t, 0, phrase("a", "hola", "hello"), phrase("b", "adiós", "goodbye"))
	s.input.Model.SetValue("hello")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)

	s.Update(keyPress(' '))
	if s.phase != phaseAsking {
		t.Fatalf("phase = %v, want asking", s.phase)
	}
	if s.current.ID != "b" {
		t.Errorf("current = %q, want b", s.current.ID)
	}
	if s.input.Value() != "" {
		t.Error("expected a fresh input")
	}
}

func TestReviewScreen_FinishesWhenNothingDue(t *testing.T) {
	s, _ := testScreen(t, 0, phrase("a", "hola", "hello"))
	s.input.Model.SetValue("hello")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)

	_, cmd = s.Update(keyPress(' '))
	expectSummary(t, cmd)
}

func TestReviewScreen_LimitFinishes(t *testing.T) {
	s, _ := testScreen(t, 1, phrase("a", "hola", "hello"), phrase("b", "adiós", "goodbye"))
	if got := s.Status(); got != "2 due  1 left" {
		t.Errorf("Status = %q", got)
	}
	s.input.Model.SetValue("hello")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)

	_, cmd = s.Update(keyPress(' '))
	expectSummary(t, cmd)
}

func TestReviewScreen_EscFinishes(t *testing.T) {
	s, repo := testScreen(t, 0, phrase("a", "hola", "hello"))
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	expectSummary(t, cmd)
	if len(repo.entries) != 0 {
		t.Error("esc should not record a response")
	}
	if _, cmd := s.Update(keyPress('k')); cmd != nil {
		t.Error("keys after finish should be ignored")
	}
}

func TestReviewScreen_KeysIgnoredWhilePending(t *testing.T) {
	s, repo := testScreen(t, 0, phrase("a", "hola", "hello"))
	s.Update(specialKey(tea.KeyEnter))
	s.Update(keyPress('k'))

	if _, cmd := s.Update(keyPress('f')); cmd != nil {
		t.Error("expected no command while pending")
	}
	if len(repo.entries) != 0 {
		t.Error("command should not have run yet")
	}
}

func leechCandidate() spacedrep.Item {
	it := phrase("a", "hola", "hello")
	reviewed := t0.Add(-time.Hour)
	it.LastReviewedAt = &reviewed
	it.Lapses = 3
	it.KnowCount = 2
	return it
}

func TestReviewScreen_LeechNotice(t *testing.T) {
	s, repo := testScreen(t, 0, leechCandidate())
	s.Update(specialKey(tea.KeyEnter))
	_, cmd := s.Update(keyPress('f'))
	run(t, s, cmd)

	if s.phase != phaseLeech {
		t.Fatalf("phase = %v, want leech", s.phase)
	}
	if !strings.Contains(s.View(80, 24), "keeps slipping") {
		t.Error("expected leech notice in view")
	}

	_, cmd = s.Update(keyPress('p'))
	next := run(t, s, cmd)
	expectSummary(t, next)

	if len(repo.entries) != 2 || repo.entries[1].Action != "postpone" {
		t.Fatalf("entries = %+v, want forgot then postpone", repo.entries)
	}
	if got, want := repo.items["a"].NextReviewAt, t0.Add(24*time.Hour); !got.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", got, want)
	}
}

func TestReviewScreen_LeechKeep(t *testing.T) {
	s, repo := testScreen(t, 0, leechCandidate())
	s.Update(specialKey(tea.KeyEnter))
	_, cmd := s.Update(keyPress('d'))
	run(t, s, cmd)

	_, cmd = s.Update(keyPress(' '))
	expectSummary(t, cmd)
	if len(repo.entries) != 1 {
		t.Errorf("entries = %d, want 1", len(repo.entries))
	}
}

func TestReviewScreen_SaveError(t *testing.T) {
	s, repo := testScreen(t, 0, phrase("a", "hola", "hello"))
	repo.err = errors.New("disk full")
	s.input.Model.SetValue("hello")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	run(t, s, cmd)

	if s.phase != phaseFeedback {
		t.Fatalf("phase = %v, want feedback", s.phase)
	}
	if !strings.Contains(s.View(80, 24), "disk full") {
		t.Error("expected error in view")
	}
}

func TestReviewScreen_KeyHints(t *testing.T) {
	s, _ := testScreen(t, 0, phrase("a", "hola", "hello"))
	if len(s.KeyHints()) == 0 {
		t.Error("expected key hints while asking")
	}
	s.Update(specialKey(tea.KeyEnter))
	hints := s.KeyHints()
	if len(hints) != 4 || hints[0].Key != "K" {
		t.Errorf("revealed hints = %+v", hints)
	}
}

func TestReviewScreen_StatusUnlimited(t *testing.T) {
	s, _ := testScreen(t, 0, phrase("a", "hola", "hello"))
	if got := s.Status(); got != "1 due" {
		t.Errorf("Status = %q, want %q", got, "1 due")
	}
}
