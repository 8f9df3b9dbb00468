package ui

import (
	"strconv"

	"github.com/mattn/go-runewidth"
)

// Layout breakpoints for responsive design.
const (
	// BreakpointNarrow is the width below which only one panel is shown.
	BreakpointNarrow = 80

	// BreakpointMedium is the width from which the tree panel takes a third
	// of the screen, clamped to [WideTreeMin, MaxTreeWidth], so the detail
	// pane gets the extra room.
	BreakpointMedium = 100
)

// Panel dimension constraints.
const (
	// MinTreeWidth is the minimum width of the navigation tree panel.
	MinTreeWidth = 30

	// WideTreeMin and MaxTreeWidth bound the tree panel on wide terminals.
	WideTreeMin  = 40
	MaxTreeWidth = 60

	// MinContentHeight is the minimum height for scrollable content areas.
	MinContentHeight = 5

	// chromeLines is the header, breadcrumb, search and footer rows.
	chromeLines = 4

	// panelBorder is the space a rounded border takes on each axis.
	panelBorder = 2
)

// treeWidthFor picks the tree panel width for a terminal width.
func treeWidthFor(width int) int {
	if width < BreakpointNarrow {
		return width
	}
	if width < BreakpointMedium {
		return max(width*2/5, MinTreeWidth)
	}
	return min(max(width/3, WideTreeMin), MaxTreeWidth)
}

// truncate shortens s to fit width display cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
