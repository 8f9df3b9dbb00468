package ui

import "github.com/charmbracelet/lipgloss"

// ══════════════════════════════════════════════════════════════════════════════
// THEME - Dracula-inspired palette shared by every panel
// ══════════════════════════════════════════════════════════════════════════════

// Theme bundles the renderer and semantic colors
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Active    lipgloss.AdaptiveColor
	Match     lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
}

// DefaultTheme returns the standard palette for the given renderer. A nil
// renderer uses lipgloss's default.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Text:      lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#4A4A4A", Dark: "#BFBFBF"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Active:    lipgloss.AdaptiveColor{Light: "#0F7B3F", Dark: "#50FA7B"},
		Match:     lipgloss.AdaptiveColor{Light: "#006D8F", Dark: "#8BE9FD"},
		Warning:   lipgloss.AdaptiveColor{Light: "#B35900", Dark: "#FFB86C"},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E8E0FF", Dark: "#44475A"},
	}
}

// Panel returns the border style for a panel, highlighted when focused
func (t Theme) Panel(focused bool) lipgloss.Style {
	border := t.Border
	if focused {
		border = t.Primary
	}
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border)
}

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
// ══════════════════════════════════════════════════════════════════════════════

// RenderCountBadge renders the workstream count shown next to an area
func (t Theme) RenderCountBadge(n int) string {
	if n <= 0 {
		return ""
	}
	return t.Renderer.NewStyle().
		Foreground(t.Muted).
		Render("(" + itoa(n) + ")")
}
