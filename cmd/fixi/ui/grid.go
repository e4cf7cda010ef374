package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coinfixi/internal/admin"
	"coinfixi/internal/table"
)

// Grid renders rows of preformatted cells with a header, optional cursor
// and sort indicator. It is used by the console pages and by fixi list.
type Grid struct {
	Headers []string
	Rows    [][]string
	// Widths caps each column; 0 sizes to content.
	Widths []int
	// Tones colors individual cells. May be nil or ragged.
	Tones [][]admin.Tone

	// Cursor is the selected row, -1 for none.
	Cursor int
	// Column is the highlighted header, -1 for none.
	Column  int
	SortCol int
	SortDir table.Direction
}

// NewGrid returns a grid with no cursor and no sort indicator.
func NewGrid(headers []string) *Grid {
	return &Grid{Headers: headers, Cursor: -1, Column: -1, SortCol: -1}
}

func (g *Grid) widths() []int {
	out := make([]int, len(g.Headers))
	for i, h := range g.Headers {
		out[i] = lipgloss.Width(h) + 2
	}
	for _, row := range g.Rows {
		for i, cell := range row {
			if i < len(out) {
				if w := lipgloss.Width(cell); w > out[i] {
					out[i] = w
				}
			}
		}
	}
	for i := range out {
		if i < len(g.Widths) && g.Widths[i] > 0 && out[i] > g.Widths[i] {
			out[i] = g.Widths[i]
		}
		out[i] += 2
	}
	return out
}

func (g *Grid) tone(r, c int) admin.Tone {
	if r < len(g.Tones) && c < len(g.Tones[r]) {
		return g.Tones[r][c]
	}
	return admin.ToneDefault
}

// View renders the grid.
func (g *Grid) View(styles Styles) string {
	widths := g.widths()
	var sb strings.Builder

	sep := styles.Divider.Render("│")
	for i, h := range g.Headers {
		label := h
		if i == g.SortCol {
			if g.SortDir == table.Desc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		st := styles.Bold
		if i == g.Column {
			st = styles.Cursor
		}
		sb.WriteString(st.Padding(0, 1).Width(widths[i]).MaxHeight(1).Render(fit(label, widths[i]-2)))
		if i < len(g.Headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.RenderDivider(total))
	sb.WriteString("\n")

	for r, row := range g.Rows {
		var line strings.Builder
		for c := range g.Headers {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			st := styles.Tone(g.tone(r, c))
			if r == g.Cursor {
				st = st.Background(styles.Theme.Selection)
			}
			line.WriteString(st.Padding(0, 1).Width(widths[c]).MaxHeight(1).Render(fit(cell, widths[c]-2)))
			if c < len(g.Headers)-1 {
				line.WriteString(sep)
			}
		}
		sb.WriteString(line.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// fit truncates s to w cells with an ellipsis.
func fit(s string, w int) string {
	if w <= 0 || lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
