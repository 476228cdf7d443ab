package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/phrasely/internal/ui/theme"
)

const maxCellWidth = 40

// table prints aligned columns with a styled header row.
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) row(cells ...string) {
	for i, c := range cells {
		cells[i] = truncate(c, maxCellWidth)
	}
	t.rows = append(t.rows, cells)
}

func (t *table) write(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, r := range t.rows {
		for i, c := range r {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	render := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			var c string
			if i < len(cells) {
				c = cells[i]
			}
			parts[i] = style.Render(c + strings.Repeat(" ", widths[i]-lipgloss.Width(c)))
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ")
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	total += 2 * max(len(widths)-1, 0)

	fmt.Fprintln(w, render(t.headers, theme.TableHeader))
	fmt.Fprintln(w, theme.Dim.Render(strings.Repeat("─", total)))
	for _, r := range t.rows {
		fmt.Fprintln(w, render(r, theme.TableCell))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
