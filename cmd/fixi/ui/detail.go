package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"coinfixi/internal/table"
)

// RecordMarkdown formats a record as a two-column markdown table, fields
// in alphabetical order.
func RecordMarkdown[K ~string](title string, rec table.Record[K]) string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n| Field | Value |\n| --- | --- |\n", title)
	for _, k := range keys {
		v := table.Stringify(rec.Get(K(k)))
		v = strings.ReplaceAll(v, "|", `\|`)
		v = strings.ReplaceAll(v, "\n", " ")
		fmt.Fprintf(&sb, "| %s | %s |\n", k, v)
	}
	return sb.String()
}

// RenderMarkdown renders md for the terminal. On failure the raw markdown
// is returned.
func RenderMarkdown(md string, width int, dark bool) string {
	if width < 20 {
		width = 80
	}
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
