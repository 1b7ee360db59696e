// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
	"github.com/jeranaias/coworker-tui/internal/util"
)

// ChoiceLayout selects how the options of a ChoiceCard are drawn. All four
// share the same selection rules.
type ChoiceLayout int

const (
	LayoutCards ChoiceLayout = iota
	LayoutList
	LayoutPills
	LayoutComparison
)

// String returns the layout name.
func (l ChoiceLayout) String() string {
	switch l {
	case LayoutList:
		return "list"
	case LayoutPills:
		return "pills"
	case LayoutComparison:
		return "comparison"
	default:
		return "cards"
	}
}

// ParseChoiceLayout parses a layout name. Empty means cards.
func ParseChoiceLayout(s string) (ChoiceLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cards":
		return LayoutCards, nil
	case "list":
		return LayoutList, nil
	case "pills":
		return LayoutPills, nil
	case "comparison":
		return LayoutComparison, nil
	default:
		return LayoutCards, fmt.Errorf("unknown choice layout %q", s)
	}
}

// Highlight marks a comparison cell as the best or worst of its row.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightBest
	HighlightWorst
)

// ParseHighlight parses "best", "worst" or "none". Empty means none.
func ParseHighlight(s string) (Highlight, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return HighlightNone, nil
	case "best":
		return HighlightBest, nil
	case "worst":
		return HighlightWorst, nil
	default:
		return HighlightNone, fmt.Errorf("unknown highlight %q", s)
	}
}

// Attribute is one row of the comparison layout for a single option.
type Attribute struct {
	Label     string
	Value     string
	Highlight Highlight
}

// ChoiceOption is one selectable answer. ID must be unique within a card.
type ChoiceOption struct {
	ID         string
	Title      string
	Subtitle   string
	Detail     string
	Icon       string
	Badge      string
	Attributes []Attribute
}

// ChoiceProps configures a ChoiceCard.
type ChoiceProps struct {
	Prompt  string
	Options []ChoiceOption
	Layout  ChoiceLayout
	Multi   bool
	Accent  Accent

	// OnSelect receives the chosen options in option order.
	OnSelect func(selected []ChoiceOption) tea.Cmd
	// ResolvedMessage builds the resolved line from the chosen titles.
	// When nil the titles are joined with ", ".
	ResolvedMessage func(titles []string) string
	// ContinueLabel labels the multi-select confirm button.
	ContinueLabel string

	Pacing   Pacing
	MaxWidth int
}

// ChoiceCard asks the user to pick one or more options.
//
// Single-select locks on the first pick: the choice is highlighted, the other
// options dim and go inert, and after the auto-resolve delay the card calls
// OnSelect and resolves. Multi-select toggles membership and resolves on
// Confirm.
type ChoiceCard struct {
	base
	props ChoiceProps

	selected []string
	pending  bool
	focus    focusRing
}

// NewChoiceCard validates props and creates the card. Option IDs must be
// unique, and in the comparison layout every option must carry the same
// attribute labels in the same order.
func NewChoiceCard(props ChoiceProps) (*ChoiceCard, error) {
	if len(props.Options) == 0 {
		return nil, ErrNoOptions
	}
	seen := make(map[string]bool, len(props.Options))
	for _, o := range props.Options {
		if seen[o.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateOption, o.ID)
		}
		seen[o.ID] = true
	}
	if props.Layout == LayoutComparison {
		if err := checkAttributes(props.Options); err != nil {
			return nil, err
		}
	}
	if props.ContinueLabel == "" {
		props.ContinueLabel = "Continue"
	}
	if props.Pacing == (Pacing{}) {
		props.Pacing = DefaultPacing()
	}
	return &ChoiceCard{base: newBase(props.MaxWidth), props: props}, nil
}

func checkAttributes(options []ChoiceOption) error {
	ref := options[0].Attributes
	for _, o := range options[1:] {
		if len(o.Attributes) != len(ref) {
			return fmt.Errorf("%w: option %q has %d attributes, want %d",
				ErrAttributeMismatch, o.ID, len(o.Attributes), len(ref))
		}
		for i, a := range o.Attributes {
			if a.Label != ref[i].Label {
				return fmt.Errorf("%w: option %q row %d is %q, want %q",
					ErrAttributeMismatch, o.ID, i, a.Label, ref[i].Label)
			}
		}
	}
	return nil
}

// Init implements Card.
func (c *ChoiceCard) Init() tea.Cmd { return nil }

// Interactive implements Card.
func (c *ChoiceCard) Interactive() bool { return !c.resolved && !c.pending }

// Pending reports whether a single selection is waiting to auto-resolve.
func (c *ChoiceCard) Pending() bool { return c.pending }

// Selected returns the selected option IDs in option order.
func (c *ChoiceCard) Selected() []string {
	out := make([]string, len(c.selected))
	copy(out, c.selected)
	return out
}

// IsSelected reports whether id is currently selected.
func (c *ChoiceCard) IsSelected(id string) bool {
	for _, s := range c.selected {
		if s == id {
			return true
		}
	}
	return false
}

func (c *ChoiceCard) indexOf(id string) int {
	for i, o := range c.props.Options {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// Select picks the option with the given id. In single-select the first call
// wins and starts the auto-resolve timer; later calls return nil. In
// multi-select it toggles membership. Unknown ids are ignored.
func (c *ChoiceCard) Select(id string) tea.Cmd {
	if c.resolved || c.pending || c.indexOf(id) < 0 {
		return nil
	}
	if c.props.Multi {
		c.toggle(id)
		return nil
	}
	c.selected = []string{id}
	c.pending = true
	return c.timers.after(c.props.Pacing.ChoiceAutoResolve, timerChoiceResolve)
}

// toggle flips membership of id and keeps the selection in option order.
func (c *ChoiceCard) toggle(id string) {
	on := !c.IsSelected(id)
	next := make([]string, 0, len(c.selected)+1)
	for _, o := range c.props.Options {
		if o.ID == id {
			if on {
				next = append(next, o.ID)
			}
			continue
		}
		if c.IsSelected(o.ID) {
			next = append(next, o.ID)
		}
	}
	c.selected = next
}

// Confirm resolves a multi-select card with the current selection. It does
// nothing while the selection is empty.
func (c *ChoiceCard) Confirm() tea.Cmd {
	if !c.props.Multi || c.resolved || len(c.selected) == 0 {
		return nil
	}
	return c.finish()
}

func (c *ChoiceCard) finish() tea.Cmd {
	c.pending = false
	chosen := make([]ChoiceOption, 0, len(c.selected))
	titles := make([]string, 0, len(c.selected))
	for _, o := range c.props.Options {
		if c.IsSelected(o.ID) {
			chosen = append(chosen, o)
			titles = append(titles, o.Title)
		}
	}

	msg := strings.Join(titles, ", ")
	if c.props.ResolvedMessage != nil {
		msg = c.props.ResolvedMessage(titles)
	}
	if !c.resolve(IconCheck, msg) {
		return nil
	}
	if c.props.OnSelect == nil {
		return nil
	}
	return c.props.OnSelect(chosen)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (c *ChoiceCard) slotCount() int {
	n := len(c.props.Options)
	if c.props.Multi {
		n++
	}
	return n
}

func (c *ChoiceCard) slotEnabled(i int) bool {
	if i == len(c.props.Options) {
		return len(c.selected) > 0
	}
	return true
}

// Update implements Card.
func (c *ChoiceCard) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case TimerMsg:
		if msg.kind == timerChoiceResolve && c.pending && c.timers.accept(msg) {
			return c.finish(), false
		}
		return nil, false
	case tea.KeyMsg:
		if !c.focused || c.resolved {
			return nil, false
		}
		if c.pending {
			// Locked in: swallow navigation so the highlight stays put.
			return nil, matches(msg, Keys.Next, Keys.Prev, Keys.Left, Keys.Right, Keys.Up, Keys.Down, Keys.Activate, Keys.Toggle)
		}
		n := c.slotCount()
		switch {
		case matches(msg, Keys.Next, Keys.Right, Keys.Down):
			c.focus.move(1, n, c.slotEnabled)
		case matches(msg, Keys.Prev, Keys.Left, Keys.Up):
			c.focus.move(-1, n, c.slotEnabled)
		case matches(msg, Keys.Submit):
			return c.Confirm(), true
		case matches(msg, Keys.Activate, Keys.Toggle):
			if c.focus.index == len(c.props.Options) {
				return c.Confirm(), true
			}
			return c.Select(c.props.Options[c.focus.index].ID), true
		default:
			return nil, false
		}
		return nil, true
	}
	return nil, false
}

// =============================================================================
// RENDERING
// =============================================================================

// View implements Card.
func (c *ChoiceCard) View(width int) string {
	if c.resolved {
		return c.viewResolved(width)
	}
	w := c.shellWidth(width)
	inner := innerWidth(w)

	var parts []string
	if c.props.Prompt != "" {
		parts = append(parts, title(wrap(c.props.Prompt, inner)))
	}
	if c.props.Multi {
		parts = append(parts, subtle("Select all that apply"))
	}

	switch c.props.Layout {
	case LayoutList:
		parts = append(parts, c.viewList(inner))
	case LayoutPills:
		parts = append(parts, c.viewPills(inner))
	case LayoutComparison:
		parts = append(parts, c.viewComparison(inner))
	default:
		parts = append(parts, c.viewCards(inner))
	}

	if c.props.Multi {
		focused := -1
		if c.focused && c.focus.index == len(c.props.Options) {
			focused = 0
		}
		cont := []Action{{Label: fmt.Sprintf("%s (%d)", c.props.ContinueLabel, len(c.selected)), Style: StylePrimary}}
		parts = append(parts, renderActionRow(cont, focused, func(int) bool { return len(c.selected) == 0 }, toneNormal))
	}

	shell := Shell{Accent: c.props.Accent, Focused: c.focused}
	return shell.Render(w, strings.Join(parts, "\n"))
}

// optionState is how one option draws right now.
type optionState struct {
	focused  bool
	selected bool
	dimmed   bool
}

func (c *ChoiceCard) stateOf(i int) optionState {
	o := c.props.Options[i]
	sel := c.IsSelected(o.ID)
	return optionState{
		focused:  c.focused && !c.pending && c.focus.is(i),
		selected: sel,
		dimmed:   c.pending && !sel,
	}
}

func (s optionState) marker(multi bool) string {
	switch {
	case multi && s.selected:
		return "[x]"
	case multi:
		return "[ ]"
	case s.selected:
		return "(" + styles.GlyphBullet + ")"
	default:
		return "( )"
	}
}

func (s optionState) apply(style lipgloss.Style) lipgloss.Style {
	if s.dimmed {
		return style.Faint(true)
	}
	return style
}

func (c *ChoiceCard) viewCards(width int) string {
	boxes := make([]string, 0, len(c.props.Options))
	for i, o := range c.props.Options {
		st := c.stateOf(i)
		border := lipgloss.TerminalColor(styles.BorderDim)
		switch {
		case st.selected:
			border = styles.Violet
		case st.focused:
			border = styles.Blue
		}

		head := st.marker(c.props.Multi) + " "
		if o.Icon != "" {
			head += o.Icon + " "
		}
		head += lipgloss.NewStyle().Bold(true).Render(o.Title)
		if o.Badge != "" {
			head += "  " + lipgloss.NewStyle().Foreground(styles.Green).Render(o.Badge)
		}
		lines := []string{head}
		if o.Subtitle != "" {
			lines = append(lines, subtle(o.Subtitle))
		}
		if o.Detail != "" {
			lines = append(lines, lipgloss.NewStyle().Foreground(styles.TextMuted).Width(width-4).Render(o.Detail))
		}

		box := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Width(width - 2)
		boxes = append(boxes, st.apply(box).Render(strings.Join(lines, "\n")))
	}
	return strings.Join(boxes, "\n")
}

func (c *ChoiceCard) viewList(width int) string {
	rows := make([]string, 0, len(c.props.Options))
	for i, o := range c.props.Options {
		st := c.stateOf(i)
		prefix := "  "
		if st.focused {
			prefix = lipgloss.NewStyle().Foreground(styles.Violet).Render(styles.GlyphCaret) + " "
		}
		line := st.marker(c.props.Multi) + " " + o.Title
		if o.Subtitle != "" {
			line += "  " + lipgloss.NewStyle().Foreground(styles.TextMuted).Render(o.Subtitle)
		}
		style := lipgloss.NewStyle().Foreground(styles.TextPrimary)
		if st.selected {
			style = style.Foreground(styles.Violet).Bold(true)
		}
		rows = append(rows, prefix+st.apply(style).Render(util.TruncateWidth(line, width-2)))
	}
	return strings.Join(rows, "\n")
}

func (c *ChoiceCard) viewPills(width int) string {
	var lines []string
	var line string
	for i, o := range c.props.Options {
		st := c.stateOf(i)
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(styles.TextSecondary).Background(styles.SurfaceDim)
		switch {
		case st.selected:
			style = style.Foreground(styles.TextInverse).Background(styles.Violet).Bold(true)
		case st.focused:
			style = style.Foreground(styles.Violet).Underline(true)
		}
		pill := st.apply(style).Render(o.Title)
		if line != "" && lipgloss.Width(line)+1+lipgloss.Width(pill) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += pill
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// viewComparison draws one column per option and one row per attribute
// position, with a Select button under each column.
func (c *ChoiceCard) viewComparison(width int) string {
	opts := c.props.Options
	columns := make([]string, 0, len(opts)+1)
	columns = append(columns, "")
	for _, o := range opts {
		columns = append(columns, o.Title)
	}
	var rows [][]string
	if len(opts) > 0 {
		for r, a := range opts[0].Attributes {
			row := []string{a.Label}
			for _, o := range opts {
				row = append(row, o.Attributes[r].Value)
			}
			rows = append(rows, row)
		}
	}
	buttons := make([]string, 0, len(opts)+1)
	buttons = append(buttons, "")
	for range opts {
		buttons = append(buttons, "Selected")
	}
	widths := columnWidths(columns, append(rows, buttons), width)

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var sb strings.Builder
	cells := make([]string, len(columns))
	cells[0] = util.PadWidth("", widths[0])
	for i, o := range opts {
		cells[i+1] = c.stateOf(i).apply(headerStyle).Render(util.PadWidth(o.Title, widths[i+1]))
	}
	sb.WriteString(strings.Join(cells, cellGap))

	for r, row := range rows {
		sb.WriteString("\n")
		cells[0] = labelStyle.Render(util.PadWidth(row[0], widths[0]))
		for i, o := range opts {
			style := lipgloss.NewStyle().Foreground(styles.TextPrimary)
			switch o.Attributes[r].Highlight {
			case HighlightBest:
				style = style.Foreground(styles.Green).Bold(true)
			case HighlightWorst:
				style = style.Foreground(styles.Amber)
			}
			cells[i+1] = c.stateOf(i).apply(style).Render(util.PadWidth(row[i+1], widths[i+1]))
		}
		sb.WriteString(strings.Join(cells, cellGap))
	}

	sb.WriteString("\n")
	cells[0] = util.PadWidth("", widths[0])
	for i := range opts {
		st := c.stateOf(i)
		label := "Select"
		if c.props.Multi && st.selected {
			label = "Selected"
		}
		style := lipgloss.NewStyle().Foreground(styles.Violet)
		switch {
		case st.selected:
			style = style.Foreground(styles.TextInverse).Background(styles.Violet).Bold(true)
		case st.focused:
			style = style.Reverse(true)
		}
		cells[i+1] = st.apply(style).Render(util.PadWidth(label, widths[i+1]))
	}
	sb.WriteString(strings.Join(cells, cellGap))
	return sb.String()
}
