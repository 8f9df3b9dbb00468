package ui

import "github.com/charmbracelet/glamour"

// MarkdownRenderer turns markdown into terminal output wrapped at width
type MarkdownRenderer func(md string, width int) string

// GlamourRenderer renders with glamour's dark style, falling back to the raw
// markdown when rendering fails.
func GlamourRenderer(md string, width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
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

// PlainRenderer returns the markdown unchanged
func PlainRenderer(md string, _ int) string {
	return md
}
