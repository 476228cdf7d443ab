package router

import (
	"github.com/abhisek/phrasely/internal/screen"

	tea "charm.land/bubbletea/v2"
)

// ReplaceScreenMsg asks the router to show Screen in place of the active one.
// A review session uses it to hand over to its summary.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Router holds the screen currently on display and routes messages to it.
type Router struct {
	active screen.Screen
}

// New creates a Router showing initial.
func New(initial screen.Screen) *Router {
	return &Router{active: initial}
}

// Replace makes s the active screen and returns its Init command.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	r.active = s
	if s == nil {
		return nil
	}
	return s.Init()
}

// Active returns the screen on display, or nil.
func (r *Router) Active() screen.Screen {
	return r.active
}

// Update handles ReplaceScreenMsg and forwards everything else to the
// active screen, keeping the screen it returns.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ReplaceScreenMsg); ok {
		return r.Replace(msg.Screen)
	}
	if r.active == nil {
		return nil
	}
	updated, cmd := r.active.Update(msg)
	r.active = updated
	return cmd
}

// View renders the active screen into width x height.
func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
