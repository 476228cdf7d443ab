package review

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/phrasely/internal/ui/components"
	"github.com/abhisek/phrasely/internal/ui/theme"
)

func (s *ReviewScreen) View(width, height int) string {
	if s.phase == phaseDone {
		return ""
	}
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	b.WriteString("\n")

	if s.current.IsNew() {
		b.WriteString(center(theme.Hint.Render("new phrase")))
		b.WriteString("\n")
	}
	b.WriteString(center(theme.Front.Render(s.current.Front)))
	b.WriteString("\n\n")
	b.WriteString(center(s.input.View()))
	b.WriteString("\n\n")

	if s.phase != phaseAsking {
		b.WriteString(center(theme.Dim.Render("Answer: ") + theme.Back.Render(s.current.Back)))
		b.WriteString("\n\n")
	}

	switch {
	case s.errMsg != "":
		b.WriteString(center(theme.Incorrect.Render("Could not save: " + s.errMsg)))
	case s.phase == phaseRevealed:
		b.WriteString(center(theme.Hint.Render("Did you know it?")))
	case s.pending:
		b.WriteString(center(theme.Dim.Render("Saving...")))
	case s.result != nil:
		b.WriteString(s.renderResult(center))
	}
	return b.String()
}

func (s *ReviewScreen) renderResult(center func(string) string) string {
	res := s.result
	var b strings.Builder

	line := fmt.Sprintf("%s  next review in %s", res.Entry.Action, components.FormatInterval(res.Entry.Interval))
	if res.Entry.Succeeded() {
		b.WriteString(center(theme.Correct.Render(line)))
	} else {
		b.WriteString(center(theme.Incorrect.Render(line)))
	}
	b.WriteString("\n")

	if res.Item.IsMastered && !res.Entry.MasteredBefore {
		b.WriteString(center(theme.Correct.Render("Mastered!")))
		b.WriteString("\n")
	}

	if s.phase == phaseLeech {
		b.WriteString("\n")
		b.WriteString(center(theme.Leech.Render(fmt.Sprintf(
			"This phrase keeps slipping (%d lapses). What would you like to do?", res.Item.Lapses))))
		b.WriteString("\n")
	}
	return b.String()
}
