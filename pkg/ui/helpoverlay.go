package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpSection is one titled column of bindings in the overlay.
type helpSection struct {
	title    string
	bindings []key.Binding
}

// helpOverlay is the "?" panel. It swallows the next key press and closes.
type helpOverlay struct {
	open     bool
	sections []helpSection
	theme    Theme
}

func newHelpOverlay(theme Theme, keys keyMap) helpOverlay {
	titles := []string{"Navigate", "Search", "Links & view"}
	var sections []helpSection
	for i, group := range keys.FullHelp() {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		sections = append(sections, helpSection{title: title, bindings: group})
	}
	return helpOverlay{theme: theme, sections: sections}
}

func (h *helpOverlay) toggle() { h.open = !h.open }

func (h helpOverlay) visible() bool { return h.open }

func (h helpOverlay) update(msg tea.Msg) helpOverlay {
	if _, ok := msg.(tea.KeyMsg); ok {
		h.open = false
	}
	return h
}

func (h helpOverlay) view() string {
	if !h.open {
		return ""
	}
	r := h.theme.Renderer
	heading := r.NewStyle().Bold(true).Foreground(h.theme.Primary)
	section := r.NewStyle().Bold(true).Foreground(h.theme.Secondary)
	keyCol := r.NewStyle().Foreground(h.theme.Primary).Width(12)
	desc := r.NewStyle().Foreground(h.theme.Subtext)
	faint := r.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(heading.Render("Operations Directory Help") + "\n\n")
	for _, s := range h.sections {
		if s.title != "" {
			b.WriteString(section.Render(strings.ToUpper(s.title)) + "\n")
		}
		for _, binding := range s.bindings {
			if !binding.Enabled() {
				continue
			}
			hk := binding.Help()
			b.WriteString("  " + keyCol.Render(hk.Key) + desc.Render(hk.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(desc.Render("Links look like #department-area-workstream; start with --open to jump straight in.") + "\n\n")
	b.WriteString(faint.Italic(true).Render("[Press any key to close]"))

	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.theme.Border).
		Padding(1, 2).
		Render(b.String())
}
