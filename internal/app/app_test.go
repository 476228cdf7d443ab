package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phrasely/internal/router"
	"github.com/abhisek/phrasely/internal/screen"
	"github.com/abhisek/phrasely/internal/ui/layout"
)

type stubScreen struct {
	title   string
	updates int
}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { s.updates++; return s, nil }
func (s *stubScreen) View(int, int) string                    { return "body of " + s.title }
func (s *stubScreen) Title() string                           { return s.title }
func (s *stubScreen) Status() string                          { return "3 due" }
func (s *stubScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Check"}}
}

func TestCtrlCQuits(t *testing.T) {
	m := NewModel(&stubScreen{title: "Review"})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestForwardsToActiveScreen(t *testing.T) {
	s := &stubScreen{title: "Review"}
	m := NewModel(s)
	m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if s.updates != 1 {
		t.Errorf("updates = %d, want 1", s.updates)
	}
}

func TestReplaceScreen(t *testing.T) {
	m := NewModel(&stubScreen{title: "Review"})
	next := &stubScreen{title: "Summary"}
	m.Update(router.ReplaceScreenMsg{Screen: next})
	if got := m.router.Active().Title(); got != "Summary" {
		t.Errorf("active = %q, want Summary", got)
	}
}
