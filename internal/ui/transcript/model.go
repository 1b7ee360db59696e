// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript provides the scrollable chat-style container that
// mounts cards under agent messages.
//
// The transcript owns focus and routing. Key presses go to the focused
// unresolved card and fall back to scrolling when the card does not handle
// them. Card timers are routed by card ID; every other message is broadcast
// so card spinners keep ticking.
package transcript

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/jeranaias/coworker-tui/internal/cards"
	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// =============================================================================
// TRANSCRIPT MODEL
// =============================================================================

// Model is the Bubble Tea model for the transcript view.
type Model struct {
	// Styling
	theme *styles.Theme
	keys  KeyMap
	help  help.Model

	// Dimensions
	width    int
	height   int
	maxCard  int
	title    string
	showHelp bool

	// Conversation
	entries []Entry
	focus   int // entry index of the focused card, -1 when none
	spans   []span

	// resolvedSeen records cards whose resolution was already logged.
	resolvedSeen map[string]bool

	// UI Components
	viewport viewport.Model
	spinner  spinner.Model

	// Thinking state
	thinking       bool
	spinning       bool
	thinkingDetail string
	thinkingStart  time.Time
}

// span is the line range an entry occupies in the viewport content.
type span struct {
	start, end int
}

// New creates a transcript with the given header title.
func New(theme *styles.Theme, title string) Model {
	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Thinking

	h := help.New()
	h.Styles.ShortKey = theme.HelpKey
	h.Styles.ShortDesc = theme.HelpDesc
	h.Styles.FullKey = theme.HelpKey
	h.Styles.FullDesc = theme.HelpDesc

	return Model{
		theme:        theme,
		keys:         DefaultKeyMap(),
		help:         h,
		width:        80,
		height:       24,
		maxCard:      cards.DefaultMaxWidth,
		title:        title,
		focus:        -1,
		resolvedSeen: make(map[string]bool),
		viewport:     vp,
		spinner:      sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetMaxCardWidth caps the width cards are rendered at.
func (m *Model) SetMaxCardWidth(w int) {
	if w > 0 {
		m.maxCard = w
	}
	m.updateViewport()
}

// SetTitle replaces the header title.
func (m *Model) SetTitle(title string) {
	m.title = title
	m.layout()
	m.updateViewport()
}

// Title returns the header title.
func (m Model) Title() string { return m.title }

// Entries returns a copy of the transcript entries.
func (m Model) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// FocusedCard returns the card receiving keys, or nil.
func (m Model) FocusedCard() cards.Card {
	if m.focus < 0 || m.focus >= len(m.entries) {
		return nil
	}
	return m.entries[m.focus].Card
}

// Thinking reports whether the thinking indicator is shown.
func (m Model) Thinking() bool { return m.thinking }

// OpenCards counts cards that still wait for the user.
func (m Model) OpenCards() int {
	n := 0
	for _, e := range m.entries {
		if focusable(e.Card) {
			n++
		}
	}
	return n
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case AppendMsg:
		return m.handleAppend(msg.Entry)

	case ThinkingMsg:
		return m.handleThinking(msg)

	case RemoveMsg:
		m.remove(msg.CardID)
		m.refresh()
		return m, nil

	case ClearMsg:
		m.clear()
		m.refresh()
		return m, nil

	case cards.TimerMsg:
		var cmd tea.Cmd
		if i := m.indexOf(msg.CardID); i >= 0 {
			cmd, _ = m.entries[i].Card.Update(msg)
		}
		m.refresh()
		return m, cmd

	case spinner.TickMsg:
		cmds := m.broadcast(msg)
		if msg.ID == m.spinner.ID() {
			if m.thinking {
				var cmd tea.Cmd
				m.spinner, cmd = m.spinner.Update(msg)
				cmds = append(cmds, cmd)
			} else {
				m.spinning = false
			}
		}
		m.refresh()
		return m, tea.Batch(cmds...)

	default:
		cmds := m.broadcast(msg)
		m.refresh()
		return m, tea.Batch(cmds...)
	}
}

// broadcast forwards msg to every mounted card.
func (m *Model) broadcast(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range m.entries {
		if e.Card == nil || e.Card.Resolved() {
			continue
		}
		if cmd, _ := e.Card.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// View renders the transcript.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}
	m.layout()
	m.updateViewport()
	return m, nil
}

// layout sizes the viewport to the space left by the header and footer.
func (m *Model) layout() {
	m.help.Width = m.width - 2
	reserved := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter())

	viewportHeight := m.height - reserved
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Export):
		return m, func() tea.Msg { return ExportMsg{} }

	case key.Matches(msg, m.keys.NextCard):
		m.cycleFocus(1)
		m.refresh()
		m.revealFocused()
		return m, nil

	case key.Matches(msg, m.keys.PrevCard):
		m.cycleFocus(-1)
		m.refresh()
		m.revealFocused()
		return m, nil
	}

	if c := m.FocusedCard(); c != nil {
		cmd, handled := c.Update(msg)
		if handled {
			m.refresh()
			return m, cmd
		}
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
		m.refresh()
		return m, nil
	}

	return m.handleNavigationKeys(msg)
}

// handleNavigationKeys handles viewport navigation keys.
func (m Model) handleNavigationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) handleAppend(e Entry) (tea.Model, tea.Cmd) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	m.entries = append(m.entries, e)

	var cmd tea.Cmd
	if e.Card != nil {
		cmd = e.Card.Init()
		log.Debug("card mounted", "card", e.Card.ID(), "type", CardType(e.Card))
		if focusable(e.Card) {
			m.setFocus(len(m.entries) - 1)
		}
	}

	m.refresh()
	m.viewport.GotoBottom()
	return m, cmd
}

func (m Model) handleThinking(msg ThinkingMsg) (tea.Model, tea.Cmd) {
	if !msg.On {
		m.thinking = false
		m.thinkingDetail = ""
		m.refresh()
		return m, nil
	}

	if !m.thinking {
		m.thinkingStart = time.Now()
	}
	m.thinking = true
	m.thinkingDetail = msg.Detail
	m.refresh()
	m.viewport.GotoBottom()

	if m.spinning {
		return m, nil
	}
	m.spinning = true
	return m, m.spinner.Tick
}

// =============================================================================
// FOCUS
// =============================================================================

// focusable reports whether c can take keyboard focus.
func focusable(c cards.Card) bool {
	return c != nil && !c.Resolved() && c.Interactive()
}

func (m *Model) setFocus(i int) {
	if cur := m.FocusedCard(); cur != nil && m.focus != i {
		cur.Blur()
	}
	m.focus = i
	if c := m.FocusedCard(); c != nil {
		c.Focus()
	}
}

// newestOpen returns the index of the newest focusable card, or -1.
func (m *Model) newestOpen() int {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if focusable(m.entries[i].Card) {
			return i
		}
	}
	return -1
}

// cycleFocus moves focus to the next (delta > 0) or previous focusable card.
func (m *Model) cycleFocus(delta int) {
	var open []int
	for i, e := range m.entries {
		if focusable(e.Card) {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return
	}

	pos := -1
	for j, i := range open {
		if i == m.focus {
			pos = j
		}
	}
	switch {
	case pos < 0 && delta > 0:
		pos = 0
	case pos < 0:
		pos = len(open) - 1
	default:
		pos = (pos + delta + len(open)) % len(open)
	}
	m.setFocus(open[pos])
}

// syncFocus moves focus off resolved cards and onto the newest open one.
// A focused card that is only briefly non-interactive keeps focus.
func (m *Model) syncFocus() {
	if c := m.FocusedCard(); c != nil && !c.Resolved() {
		return
	}
	m.focus = -1
	if i := m.newestOpen(); i >= 0 {
		m.setFocus(i)
	}
}

// =============================================================================
// ENTRY MANAGEMENT
// =============================================================================

func (m *Model) indexOf(cardID string) int {
	for i, e := range m.entries {
		if e.Card != nil && e.Card.ID() == cardID {
			return i
		}
	}
	return -1
}

// remove unmounts the entry holding cardID, tearing its card down.
func (m *Model) remove(cardID string) {
	i := m.indexOf(cardID)
	if i < 0 {
		return
	}
	m.entries[i].Card.Teardown()
	delete(m.resolvedSeen, cardID)
	m.entries = append(m.entries[:i:i], m.entries[i+1:]...)

	switch {
	case m.focus == i:
		m.focus = -1
	case m.focus > i:
		m.focus--
	}
}

// clear unmounts every entry.
func (m *Model) clear() {
	for _, e := range m.entries {
		if e.Card != nil {
			e.Card.Teardown()
		}
	}
	m.entries = nil
	m.focus = -1
	m.resolvedSeen = make(map[string]bool)
}

// refresh logs newly resolved cards, fixes focus and re-renders.
func (m *Model) refresh() {
	for _, e := range m.entries {
		c := e.Card
		if c == nil || !c.Resolved() || m.resolvedSeen[c.ID()] {
			continue
		}
		m.resolvedSeen[c.ID()] = true
		logResolution(c)
	}
	m.syncFocus()
	m.updateViewport()
}

// resolution is implemented by every card in package cards.
type resolution interface {
	Resolution() (cards.ResolvedIcon, string)
}

func logResolution(c cards.Card) {
	message := ""
	if r, ok := c.(resolution); ok {
		_, message = r.Resolution()
	}
	log.Info("card resolved", "card", c.ID(), "type", CardType(c), "message", message)
}

// CardType returns the scenario name of c's card type, or "custom".
func CardType(c cards.Card) string {
	switch c.(type) {
	case *cards.ResultCard:
		return "result"
	case *cards.PromptCard:
		return "prompt"
	case *cards.DraftCard:
		return "draft"
	case *cards.ChoiceCard:
		return "choice"
	case *cards.FormCard:
		return "form"
	case *cards.ProgressCard:
		return "progress"
	case *cards.ErrorCard:
		return "error"
	case *cards.BatchReviewCard:
		return "batch"
	default:
		return "custom"
	}
}

// =============================================================================
// VIEWPORT UPDATE
// =============================================================================

func (m *Model) updateViewport() {
	atBottom := m.viewport.AtBottom()
	content, spans := m.renderEntries()
	m.spans = spans
	m.viewport.SetContent(content)
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// revealFocused scrolls the focused card into view.
func (m *Model) revealFocused() {
	if m.focus < 0 || m.focus >= len(m.spans) {
		return
	}
	s := m.spans[m.focus]
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height
	switch {
	case s.start < top:
		m.viewport.SetYOffset(s.start)
	case s.end > bottom:
		m.viewport.SetYOffset(s.end - m.viewport.Height)
	}
}
