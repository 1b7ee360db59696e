// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
	"github.com/jeranaias/coworker-tui/internal/util"
)

// =============================================================================
// RESULT BODY
// =============================================================================

// ResultBody is the content of a ResultCard. The set of variants is closed:
// ProseBody, HighlightsBody, KeyValueBody, TableBody and SectionsBody. Each
// variant renders itself, so a new variant cannot compile without a renderer.
type ResultBody interface {
	renderBody(width int) string
}

// ProseBody is free text, rendered as markdown.
type ProseBody struct {
	Text string
}

// HighlightItem is one bullet of a HighlightsBody.
type HighlightItem struct {
	Text string
	Dot  Accent
}

// HighlightsBody is a bullet list with colored dots.
type HighlightsBody struct {
	Items []HighlightItem
}

// KeyValueRow is one row of a KeyValueBody.
type KeyValueRow struct {
	Label string
	Value string
}

// KeyValueBody is a two-column label/value list.
type KeyValueBody struct {
	Rows []KeyValueRow
}

// TableBody is a table with a header row.
type TableBody struct {
	Columns []string
	Rows    [][]string
}

// Section is one heading and its content.
type Section struct {
	Heading string
	Content string
}

// SectionsBody is a list of headed sections.
type SectionsBody struct {
	Sections []Section
}

func (b ProseBody) renderBody(width int) string {
	return Markdown.Render(b.Text, width)
}

func (b HighlightsBody) renderBody(width int) string {
	lines := make([]string, 0, len(b.Items))
	for _, item := range b.Items {
		color := item.Dot.Color()
		if item.Dot == AccentDefault {
			color = styles.TextMuted
		}
		dot := lipgloss.NewStyle().Foreground(color).Render(styles.GlyphBullet)
		lines = append(lines, dot+" "+wrap(item.Text, width-2))
	}
	return strings.Join(lines, "\n")
}

func (b KeyValueBody) renderBody(width int) string {
	labelWidth := 0
	for _, row := range b.Rows {
		if w := util.StringWidth(row.Label); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > width/2 {
		labelWidth = width / 2
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)

	lines := make([]string, 0, len(b.Rows))
	for _, row := range b.Rows {
		label := labelStyle.Render(util.PadWidth(row.Label, labelWidth))
		value := valueStyle.Render(util.TruncateWidth(row.Value, width-labelWidth-2))
		lines = append(lines, label+"  "+value)
	}
	return strings.Join(lines, "\n")
}

func (b TableBody) renderBody(width int) string {
	widths := columnWidths(b.Columns, b.Rows, width)
	if len(widths) == 0 {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.TextSecondary)
	cellStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(joinCells(b.Columns, widths)))
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Foreground(styles.BorderDim).Render(strings.Repeat("─", tableWidth(widths))))
	for _, row := range b.Rows {
		sb.WriteString("\n")
		sb.WriteString(cellStyle.Render(joinCells(row, widths)))
	}
	return sb.String()
}

func (b SectionsBody) renderBody(width int) string {
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary)
	parts := make([]string, 0, len(b.Sections))
	for _, s := range b.Sections {
		parts = append(parts, headingStyle.Render(s.Heading)+"\n"+wrap(s.Content, width))
	}
	return strings.Join(parts, "\n\n")
}

// columnWidths sizes each column to its widest cell, then shrinks the widest
// columns until the table fits in width.
func columnWidths(columns []string, rows [][]string, width int) []int {
	n := len(columns)
	for _, row := range rows {
		if len(row) > n {
			n = len(row)
		}
	}
	if n == 0 {
		return nil
	}

	widths := make([]int, n)
	measure := func(cells []string) {
		for i, c := range cells {
			if w := util.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(columns)
	for _, row := range rows {
		measure(row)
	}

	for tableWidth(widths) > width {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 3 {
			break
		}
		widths[widest]--
	}
	return widths
}

const cellGap = "  "

func tableWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	return total + len(cellGap)*(len(widths)-1)
}

func joinCells(cells []string, widths []int) string {
	out := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		out[i] = util.PadWidth(cell, w)
	}
	return strings.TrimRight(strings.Join(out, cellGap), " ")
}

// =============================================================================
// RESULT CARD
// =============================================================================

// Schedule is the recurring-run footer of a ResultCard. The card only shows
// Label and forwards the two hooks; schedule semantics live with the caller.
type Schedule struct {
	Label     string
	OnEdit    func() tea.Cmd
	OnTurnOff func() tea.Cmd
}

// ResultProps configures a ResultCard.
type ResultProps struct {
	Title        string
	Subtitle     string
	Accent       Accent
	Body         ResultBody
	Notification string
	Schedule     *Schedule
	Actions      []Action
	MaxWidth     int
}

// ResultCard shows read-only output. It has no lifecycle: it is always open
// and never resolves.
type ResultCard struct {
	base
	props ResultProps
	focus focusRing
}

// NewResultCard creates a result card.
func NewResultCard(props ResultProps) *ResultCard {
	return &ResultCard{base: newBase(props.MaxWidth), props: props}
}

// Init implements Card.
func (c *ResultCard) Init() tea.Cmd { return nil }

// Interactive implements Card.
func (c *ResultCard) Interactive() bool { return c.slotCount() > 0 }

// Body returns the card body.
func (c *ResultCard) Body() ResultBody { return c.props.Body }

// slots are the actions followed by the schedule's Edit and Turn off.
func (c *ResultCard) slotCount() int {
	n := len(c.props.Actions)
	if c.props.Schedule != nil {
		n += 2
	}
	return n
}

// Invoke fires action i.
func (c *ResultCard) Invoke(i int) tea.Cmd {
	if i < 0 || i >= len(c.props.Actions) {
		return nil
	}
	return c.props.Actions[i].invoke()
}

// EditSchedule fires the schedule footer's edit hook.
func (c *ResultCard) EditSchedule() tea.Cmd {
	if c.props.Schedule == nil {
		return nil
	}
	return call(c.props.Schedule.OnEdit)
}

// TurnOffSchedule fires the schedule footer's turn-off hook.
func (c *ResultCard) TurnOffSchedule() tea.Cmd {
	if c.props.Schedule == nil {
		return nil
	}
	return call(c.props.Schedule.OnTurnOff)
}

// Update implements Card.
func (c *ResultCard) Update(msg tea.Msg) (tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused {
		return nil, false
	}
	n := c.slotCount()
	switch {
	case matches(keyMsg, Keys.Next, Keys.Right):
		c.focus.move(1, n, nil)
		return nil, true
	case matches(keyMsg, Keys.Prev, Keys.Left):
		c.focus.move(-1, n, nil)
		return nil, true
	case matches(keyMsg, Keys.Activate, Keys.Toggle):
		return c.activate(c.focus.index), true
	}
	return nil, false
}

func (c *ResultCard) activate(slot int) tea.Cmd {
	actions := len(c.props.Actions)
	switch {
	case slot < actions:
		return c.Invoke(slot)
	case slot == actions:
		return c.EditSchedule()
	default:
		return c.TurnOffSchedule()
	}
}

// View implements Card.
func (c *ResultCard) View(width int) string {
	w := c.shellWidth(width)
	inner := innerWidth(w)

	var parts []string
	if c.props.Notification != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(styles.Blue).
			Background(styles.SurfaceDim).
			Width(inner).
			Render(styles.GlyphInfo+" "+c.props.Notification))
	}
	if c.props.Title != "" {
		head := title(c.props.Title)
		if c.props.Subtitle != "" {
			head += "\n" + subtle(c.props.Subtitle)
		}
		parts = append(parts, head)
	}
	if c.props.Body != nil {
		parts = append(parts, c.props.Body.renderBody(inner))
	}

	focused := -1
	if c.focused {
		focused = c.focus.index
	}
	if row := renderActionRow(c.props.Actions, focused, nil, toneNormal); row != "" {
		parts = append(parts, row)
	}
	if s := c.props.Schedule; s != nil {
		parts = append(parts, c.renderSchedule(s, focused, inner))
	}

	return Shell{Accent: c.props.Accent, Focused: c.focused}.Render(w, strings.Join(parts, "\n\n"))
}

func (c *ResultCard) renderSchedule(s *Schedule, focused, width int) string {
	base := len(c.props.Actions)
	label := lipgloss.NewStyle().Foreground(styles.TextSecondary).
		Render(styles.GlyphClock + " " + s.Label)
	links := []Action{{Label: "Edit", Style: StyleText}, {Label: "Turn off", Style: StyleText}}
	f := -1
	if focused >= base {
		f = focused - base
	}
	sep := lipgloss.NewStyle().Foreground(styles.BorderDim).Render(strings.Repeat("─", width))
	return sep + "\n" + label + renderActionRow(links, f, nil, toneNormal)
}
