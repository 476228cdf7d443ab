package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phrasely/internal/screen"
	"github.com/abhisek/phrasely/internal/session"
	"github.com/abhisek/phrasely/internal/ui/components"
	"github.com/abhisek/phrasely/internal/ui/layout"
	"github.com/abhisek/phrasely/internal/ui/theme"
)

// SummaryScreen displays the end-of-session summary.
type SummaryScreen struct {
	summary session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "any key", Description: "Exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return s, tea.Quit
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(center(theme.Title.Render("Session complete!")))
	b.WriteString("\n\n")

	if sum.Total == 0 {
		b.WriteString(center(theme.Dim.Render("No phrases reviewed.")))
		b.WriteString("\n\n")
		b.WriteString(center(theme.Dim.Render(fmt.Sprintf("Still due: %d", sum.Due))))
		return b.String()
	}

	b.WriteString(center(theme.Dim.Render("Duration: " + formatDuration(sum.Last.Sub(sum.First)))))
	b.WriteString("\n\n")

	counts := fmt.Sprintf("Know: %d    Forgot: %d    Don't know: %d",
		sum.ByAction["know"], sum.ByAction["forgot"], sum.ByAction["dont_know"])
	b.WriteString(center(theme.Body.Render(counts)))
	b.WriteString("\n\n")

	bar := components.RatioBar{
		Label:       "Accuracy",
		Ratio:       sum.Accuracy(),
		ShowPercent: true,
		Width:       min(max(width-8, 20), 60),
	}
	b.WriteString(center(bar.View()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(max(width-8, 0), 60)))
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	lines := []string{
		fmt.Sprintf("New phrases introduced  %d", sum.NewIntroduced),
		theme.Correct.Render(fmt.Sprintf("Newly mastered          %d", sum.NewlyMastered)),
	}
	if sum.LeechCrossings > 0 {
		lines = append(lines, theme.Leech.Render(fmt.Sprintf("New leeches             %d", sum.LeechCrossings)))
	}
	lines = append(lines, fmt.Sprintf("Still due               %d", sum.Due))
	for _, l := range lines {
		b.WriteString(center(theme.Body.Render(l)))
		b.WriteString("\n")
	}

	return b.String()
}

func formatDuration(d time.Duration) string {
	d = max(d, 0)
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}
