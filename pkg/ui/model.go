// Package ui is the terminal front end of the operations directory. It owns
// no navigation logic: every key press becomes a call on nav.Controller and
// the view is redrawn from the resulting nav.Decision.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/connecthear/opsportal/pkg/export"
	"github.com/connecthear/opsportal/pkg/model"
	"github.com/connecthear/opsportal/pkg/nav"
	"github.com/connecthear/opsportal/pkg/search"
	"github.com/connecthear/opsportal/pkg/watcher"
)

type focus int

const (
	focusTree focus = iota
	focusSearch
)

// fragmentMsg reports that the location fragment changed. Selections are
// applied only when this message arrives.
type fragmentMsg struct {
	fragment    string
	fromHistory bool
}

// queryMsg carries a search query once typing has settled
type queryMsg struct {
	query string
}

// Model is the Bubble Tea model for the directory browser
type Model struct {
	ctrl   *nav.Controller
	theme  Theme
	keys   keyMap
	help   help.Model
	helpUI helpOverlay
	input  textinput.Model
	detail viewport.Model
	logger *zap.Logger

	debouncer *watcher.Debouncer
	queries   chan string

	decision     nav.Decision
	rows         []treeRow
	cursor       int
	offset       int
	focus        focus
	jumpToActive bool

	fragment string
	history  []string
	histPos  int

	initialFragment string
	status          string
	width           int
	height          int
	ready           bool

	render         MarkdownRenderer
	detailMarkdown string
	detailWidth    int
	writeClipboard func(string) error
}

// Option configures a Model
type Option func(*Model)

// WithDebounce sets how long typing must pause before a search runs
func WithDebounce(d time.Duration) Option {
	return func(m *Model) {
		m.debouncer = watcher.NewDebouncer(d)
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithInitialFragment opens the browser at a deep link
func WithInitialFragment(fragment string) Option {
	return func(m *Model) {
		m.initialFragment = fragment
	}
}

// WithMarkdownRenderer replaces the glamour renderer for the detail pane
func WithMarkdownRenderer(r MarkdownRenderer) Option {
	return func(m *Model) {
		if r != nil {
			m.render = r
		}
	}
}

// WithClipboard replaces the system clipboard writer
func WithClipboard(fn func(string) error) Option {
	return func(m *Model) {
		if fn != nil {
			m.writeClipboard = fn
		}
	}
}

// WithTheme sets the color theme. A theme without a renderer is ignored.
func WithTheme(t Theme) Option {
	return func(m *Model) {
		if t.Renderer != nil {
			m.theme = t
		}
	}
}

// NewModel creates the browser over ctrl
func NewModel(ctrl *nav.Controller, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Search workstreams, roles, teams..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 200

	keys := defaultKeyMap()
	m := Model{
		ctrl:           ctrl,
		theme:          DefaultTheme(nil),
		keys:           keys,
		help:           help.New(),
		input:          ti,
		detail:         viewport.New(0, 0),
		logger:         zap.NewNop(),
		debouncer:      watcher.NewDebouncer(watcher.SearchDebounce),
		queries:        make(chan string, 1),
		history:        []string{""},
		render:         GlamourRenderer,
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.helpUI = newHelpOverlay(m.theme, m.keys)
	m.refresh()
	return m
}

// Init starts listening for settled search queries and applies the initial
// deep link, if any.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForQuery(m.queries)}
	if m.initialFragment != "" {
		cmds = append(cmds, writeFragment(m.initialFragment))
	}
	return tea.Batch(cmds...)
}

// waitForQuery blocks until the debouncer delivers a query
func waitForQuery(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return queryMsg{query: <-ch}
	}
}

// writeFragment is the terminal counterpart of assigning location.hash
func writeFragment(fragment string) tea.Cmd {
	return func() tea.Msg {
		return fragmentMsg{fragment: fragment}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case fragmentMsg:
		m.applyFragment(msg)
		return m, nil

	case queryMsg:
		// A query that no longer matches the input was overtaken by editing.
		if msg.query == m.input.Value() {
			m.runSearch(msg.query)
		}
		return m, waitForQuery(m.queries)

	case tea.KeyMsg:
		if m.helpUI.visible() {
			m.helpUI = m.helpUI.update(msg)
			return m, nil
		}
		if m.focus == focusSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleTreeKey(msg)
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.debouncer.Cancel()
		return m, tea.Quit
	case tea.KeyEsc:
		m.clearSearch()
		return m, nil
	case tea.KeyEnter, tea.KeyTab, tea.KeyDown:
		m.focus = focusTree
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.scheduleSearch(after)
	}
	return m, cmd
}

func (m Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.debouncer.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpUI.toggle()

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Clear):
		if m.ctrl.Search() != nil || m.input.Value() != "" {
			m.clearSearch()
		}

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Open):
		cmd := m.openRow()
		return m, cmd

	case key.Matches(msg, m.keys.Home):
		m.input.SetValue("")
		m.debouncer.Cancel()
		m.ctrl.Home()
		m.status = ""
		return m, writeFragment("")

	case key.Matches(msg, m.keys.Back):
		if m.histPos > 0 {
			m.histPos--
			return m, m.historyFragment()
		}

	case key.Matches(msg, m.keys.Forward):
		if m.histPos < len(m.history)-1 {
			m.histPos++
			return m, m.historyFragment()
		}

	case key.Matches(msg, m.keys.Copy):
		m.copyLink()

	case key.Matches(msg, m.keys.PageUp):
		m.detail.HalfViewUp()

	case key.Matches(msg, m.keys.PageDown):
		m.detail.HalfViewDown()
	}
	return m, nil
}

func (m Model) historyFragment() tea.Cmd {
	fragment := m.history[m.histPos]
	return func() tea.Msg {
		return fragmentMsg{fragment: fragment, fromHistory: true}
	}
}

// openRow toggles a department or area, or writes the fragment of a
// workstream.
func (m *Model) openRow() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	r := m.rows[m.cursor]
	switch r.kind {
	case rowDepartment:
		m.ctrl.ToggleDepartment(r.path.DeptID)
	case rowArea:
		m.ctrl.ToggleArea(r.path.DeptID, r.path.AreaID)
	default:
		return writeFragment(m.ctrl.Navigate(r.path))
	}
	m.refresh()
	return nil
}

// scheduleSearch restarts the debounce window for q. Only the last query of
// a burst reaches the channel.
func (m *Model) scheduleSearch(q string) {
	ch := m.queries
	m.debouncer.Trigger(func() {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- q:
		default:
		}
	})
}

func (m *Model) runSearch(q string) {
	if search.Normalize(q) == "" {
		m.ctrl.ClearSearch()
		m.jumpToActive = true
	} else {
		m.ctrl.SetQuery(q)
	}
	m.refresh()
}

func (m *Model) clearSearch() {
	m.debouncer.Cancel()
	m.input.SetValue("")
	m.input.Blur()
	m.focus = focusTree
	m.ctrl.ClearSearch()
	m.jumpToActive = true
	m.refresh()
}

func (m *Model) applyFragment(msg fragmentMsg) {
	if !msg.fromHistory {
		m.pushHistory(msg.fragment)
	}
	m.fragment = msg.fragment
	m.status = ""
	if m.ctrl.HandleFragment(msg.fragment) {
		m.jumpToActive = true
	} else if msg.fragment != "" {
		m.status = fmt.Sprintf("No workstream at %s", msg.fragment)
		m.logger.Debug("fragment did not resolve", zap.String("fragment", msg.fragment))
	}
	m.refresh()
}

func (m *Model) pushHistory(fragment string) {
	if m.history[m.histPos] == fragment {
		return
	}
	m.history = append(m.history[:m.histPos+1], fragment)
	m.histPos = len(m.history) - 1
}

func (m *Model) copyLink() {
	if m.fragment == "" {
		m.status = "Nothing selected to copy"
		return
	}
	if err := m.writeClipboard(m.fragment); err != nil {
		m.logger.Warn("clipboard write failed", zap.Error(err))
		m.status = "Clipboard unavailable: " + m.fragment
		return
	}
	m.status = "Copied " + m.fragment
}

func (m *Model) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.ensureVisible()
}

// refresh re-reads the decision and rebuilds rows and detail from it
func (m *Model) refresh() {
	var prev *rowKey
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		k := m.rows[m.cursor].key()
		prev = &k
	}

	m.decision = m.ctrl.Decision()
	m.rows = buildRows(m.ctrl.Directory(), m.decision)

	idx := -1
	if m.jumpToActive && m.decision.ScrollTo != nil {
		idx = indexOf(m.rows, rowKey{kind: rowWorkstream, path: *m.decision.ScrollTo})
	}
	if idx < 0 && prev != nil {
		idx = indexOf(m.rows, *prev)
	}
	if idx < 0 {
		idx = m.cursor
	}
	m.jumpToActive = false

	m.cursor = idx
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
	m.updateDetail()
}

const homeHint = "\nPress `/` to search or `enter` to open a workstream.\n"

func (m *Model) updateDetail() {
	dir := m.ctrl.Directory()
	md := export.HomeMarkdown(dir) + homeHint
	if p, ok := m.ctrl.Active(); ok {
		if dept, area, ws, found := dir.Lookup(p); found {
			md = export.WorkstreamMarkdown(dept, area, ws)
		}
	}
	if md == m.detailMarkdown && m.detail.Width == m.detailWidth {
		return
	}
	m.detailMarkdown = md
	m.detailWidth = m.detail.Width
	m.detail.SetContent(m.render(md, m.detail.Width))
	m.detail.GotoTop()
}

func (m *Model) treeHeight() int {
	h := m.height - chromeLines - panelBorder
	if m.decision.Searching {
		h--
	}
	if h < MinContentHeight {
		h = MinContentHeight
	}
	return h
}

func (m *Model) ensureVisible() {
	h := m.treeHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) resize() {
	m.help.Width = m.width
	m.input.Width = m.width - 4
	detailWidth := m.width - panelBorder
	if m.width >= BreakpointNarrow {
		detailWidth = m.width - treeWidthFor(m.width) - 2*panelBorder
	}
	if detailWidth < 1 {
		detailWidth = 1
	}
	m.detail.Width = detailWidth
	m.detail.Height = m.treeHeight()
	m.ensureVisible()
	m.updateDetail()
}

// View renders the browser
func (m Model) View() string {
	if !m.ready {
		return "Loading operations directory..."
	}
	if m.helpUI.visible() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.helpUI.view())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.decision.Searching {
		info := m.theme.Renderer.NewStyle().Foreground(m.theme.Match).Italic(true)
		b.WriteString(info.Render(m.decision.SearchInfo))
		b.WriteString("\n")
	}
	b.WriteString(m.renderBreadcrumbs())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.Renderer.NewStyle().Bold(true).Foreground(m.theme.Primary)
	meta := m.theme.Renderer.NewStyle().Foreground(m.theme.Muted)
	depts, areas, wss := m.ctrl.Directory().Counts()
	return title.Render("Operations Directory") + "  " +
		meta.Render(fmt.Sprintf("%d departments · %d areas · %d workstreams", depts, areas, wss))
}

func (m Model) renderBreadcrumbs() string {
	sep := m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render(" › ")
	parts := make([]string, 0, len(m.decision.Breadcrumbs))
	for _, c := range m.decision.Breadcrumbs {
		label := c.Label
		if c.Emoji != "" {
			label = c.Emoji + " " + label
		}
		parts = append(parts, label)
	}
	if len(parts) == 0 {
		parts = append(parts, nav.HomeLabel)
	}
	return truncate(strings.Join(parts, sep), m.width)
}

func (m Model) renderBody() string {
	h := m.treeHeight()
	if m.width < BreakpointNarrow {
		if _, ok := m.ctrl.Active(); ok && m.focus == focusTree && m.cursorOnActive() {
			return m.theme.Panel(true).Width(m.width - panelBorder).Height(h).Render(m.detail.View())
		}
		return m.theme.Panel(true).Width(m.width - panelBorder).Height(h).Render(m.renderTree(m.width-panelBorder, h))
	}

	tw := treeWidthFor(m.width)
	tree := m.theme.Panel(m.focus == focusTree).
		Width(tw).Height(h).
		Render(m.renderTree(tw, h))
	detail := m.theme.Panel(false).
		Width(m.detail.Width).Height(h).
		Render(m.detail.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, tree, detail)
}

func (m Model) cursorOnActive() bool {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return false
	}
	return m.rows[m.cursor].active
}

func (m Model) renderTree(width, height int) string {
	if len(m.rows) == 0 {
		empty := m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Italic(true)
		return empty.Render(truncate("No matching workstreams", width))
	}

	end := m.offset + height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r treeRow, selected bool, width int) string {
	indent := strings.Repeat("  ", r.depth())
	var text string
	switch r.kind {
	case rowDepartment, rowArea:
		arrow := "▸"
		if r.expanded {
			arrow = "▾"
		}
		text = indent + arrow + " " + emojiPrefix(r.emoji) + r.label
	default:
		marker := "•"
		if r.active {
			marker = "›"
		}
		text = indent + marker + " " + r.label
	}

	badge := ""
	if r.kind == rowArea && r.count > 0 {
		badge = " " + m.theme.RenderCountBadge(r.count)
	}
	textWidth := width - lipgloss.Width(badge)
	text = truncate(text, textWidth)

	style := m.theme.Renderer.NewStyle().Foreground(m.theme.Text)
	switch {
	case r.kind == rowDepartment:
		style = style.Bold(true)
	case r.active:
		style = style.Foreground(m.theme.Active).Bold(true)
	case m.decision.Searching && r.kind == rowWorkstream:
		style = style.Foreground(m.theme.Match)
	}
	if selected && m.focus == focusTree {
		style = style.Background(m.theme.Highlight)
	}
	return style.Render(padRight(text, textWidth)) + badge
}

func emojiPrefix(emoji string) string {
	if emoji == "" {
		return ""
	}
	return emoji + " "
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Warning).Render(truncate(m.status, m.width))
	}
	return m.help.View(m.keys)
}

// Fragment returns the current location fragment
func (m Model) Fragment() string {
	return m.fragment
}

// Active returns the selected workstream, if any
func (m Model) Active() (model.Path, bool) {
	return m.ctrl.Active()
}
