// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// =============================================================================
// DRAFT FIELDS
// =============================================================================

// DraftField is one line of a draft. The variants are DraftText, DraftHeader,
// DraftReadonly and DraftChips; only DraftText and DraftHeader can be edited,
// and only when not Locked.
type DraftField interface {
	label() string
	editable() bool
	text() string
	withText(v string) DraftField
	renderField(width int) string
}

// DraftText is body text, optionally multi-line.
type DraftText struct {
	Label     string
	Value     string
	Multiline bool
	Locked    bool
}

// DraftHeader is a header line such as To or Subject.
type DraftHeader struct {
	Label  string
	Value  string
	Locked bool
}

// DraftReadonly is shown but never edited.
type DraftReadonly struct {
	Label string
	Value string
}

// DraftChips is a list of tags, display only.
type DraftChips struct {
	Label string
	Chips []string
}

func (f DraftText) label() string  { return f.Label }
func (f DraftText) editable() bool { return !f.Locked }
func (f DraftText) text() string   { return f.Value }
func (f DraftText) withText(v string) DraftField {
	f.Value = v
	return f
}

func (f DraftText) renderField(width int) string {
	body := lipgloss.NewStyle().Foreground(styles.TextPrimary).Width(width).Render(f.Value)
	if f.Label == "" {
		return body
	}
	return fieldLabel(f.Label) + "\n" + body
}

func (f DraftHeader) label() string  { return f.Label }
func (f DraftHeader) editable() bool { return !f.Locked }
func (f DraftHeader) text() string   { return f.Value }
func (f DraftHeader) withText(v string) DraftField {
	f.Value = v
	return f
}

func (f DraftHeader) renderField(width int) string {
	return fieldLabel(f.Label) + " " + lipgloss.NewStyle().Foreground(styles.TextPrimary).Bold(true).Render(f.Value)
}

func (f DraftReadonly) label() string              { return f.Label }
func (f DraftReadonly) editable() bool             { return false }
func (f DraftReadonly) text() string               { return f.Value }
func (f DraftReadonly) withText(string) DraftField { return f }
func (f DraftReadonly) renderField(width int) string {
	return fieldLabel(f.Label) + " " + subtle(f.Value)
}

func (f DraftChips) label() string              { return f.Label }
func (f DraftChips) editable() bool             { return false }
func (f DraftChips) text() string               { return strings.Join(f.Chips, ", ") }
func (f DraftChips) withText(string) DraftField { return f }
func (f DraftChips) renderField(width int) string {
	return fieldLabel(f.Label) + " " + renderChips(f.Chips, -1)
}

func fieldLabel(s string) string {
	return lipgloss.NewStyle().Foreground(styles.TextMuted).Render(s + ":")
}

func renderChips(chips []string, selected int) string {
	out := make([]string, 0, len(chips))
	for i, c := range chips {
		style := lipgloss.NewStyle().Foreground(styles.Violet).Background(styles.SurfaceDim).Padding(0, 1)
		if i == selected {
			style = style.Reverse(true)
		}
		out = append(out, style.Render(c))
	}
	return strings.Join(out, " ")
}

func cloneFields(fields []DraftField) []DraftField {
	out := make([]DraftField, len(fields))
	copy(out, fields)
	return out
}

// =============================================================================
// DRAFT CARD
// =============================================================================

// DraftState is the lifecycle of a DraftCard.
type DraftState int

const (
	DraftReview DraftState = iota
	DraftEditing
	DraftApproved
	DraftDenied
)

// String returns the state name.
func (s DraftState) String() string {
	switch s {
	case DraftReview:
		return "review"
	case DraftEditing:
		return "editing"
	case DraftApproved:
		return "approved"
	case DraftDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// DraftProps configures a DraftCard.
type DraftProps struct {
	Title  string
	Fields []DraftField
	Accent Accent

	ApproveLabel string
	DenyLabel    string
	EditLabel    string

	OnApprove func(fields []DraftField) tea.Cmd
	OnDeny    func() tea.Cmd

	ApprovedMessage string
	DeniedMessage   string

	Pacing   Pacing
	MaxWidth int
}

// DraftCard is the review-before-send pattern: review, optionally edit, then
// approve or deny. Approve and deny run a collapse animation first; the state
// flips and the callback fires when it ends.
type DraftCard struct {
	base
	props DraftProps

	original []DraftField
	fields   []DraftField
	state    DraftState

	editors    map[int]*textEditor
	collapsing bool
	pending    DraftState

	focus focusRing
}

// NewDraftCard creates a draft card. The fields are copied; the copy taken
// here is what Cancel restores.
func NewDraftCard(props DraftProps) *DraftCard {
	if props.ApproveLabel == "" {
		props.ApproveLabel = "Send"
	}
	if props.DenyLabel == "" {
		props.DenyLabel = "Discard"
	}
	if props.EditLabel == "" {
		props.EditLabel = "Edit"
	}
	if props.ApprovedMessage == "" {
		props.ApprovedMessage = "Sent"
	}
	if props.DeniedMessage == "" {
		props.DeniedMessage = "Discarded"
	}
	if props.Pacing == (Pacing{}) {
		props.Pacing = DefaultPacing()
	}
	original := cloneFields(props.Fields)
	return &DraftCard{
		base:     newBase(props.MaxWidth),
		props:    props,
		original: original,
		fields:   cloneFields(original),
	}
}

// Init implements Card.
func (c *DraftCard) Init() tea.Cmd { return nil }

// Interactive implements Card.
func (c *DraftCard) Interactive() bool { return !c.resolved && !c.collapsing }

// State returns the lifecycle state.
func (c *DraftCard) State() DraftState { return c.state }

// Collapsing reports whether the collapse animation is running.
func (c *DraftCard) Collapsing() bool { return c.collapsing }

// Fields returns a copy of the current fields. While editing, pending editor
// input is included.
func (c *DraftCard) Fields() []DraftField {
	out := cloneFields(c.fields)
	if c.state == DraftEditing {
		for i, e := range c.editors {
			out[i] = out[i].withText(e.Value())
		}
	}
	return out
}

// Edit enters edit mode, seeding one editor per editable field.
func (c *DraftCard) Edit() tea.Cmd {
	if c.state != DraftReview || c.collapsing || c.resolved {
		return nil
	}
	c.state = DraftEditing
	c.editors = make(map[int]*textEditor)
	for i, f := range c.fields {
		if !f.editable() {
			continue
		}
		multiline := false
		if t, ok := f.(DraftText); ok {
			multiline = t.Multiline
		}
		c.editors[i] = newTextEditor(f.text(), f.label(), multiline)
	}
	c.focus = focusRing{}
	c.focus.clamp(c.slotCount(), nil)
	return c.syncEditorFocus()
}

// SetFieldValue replaces the editor text of field i while editing. It
// reports whether the field is editable.
func (c *DraftCard) SetFieldValue(i int, v string) bool {
	e, ok := c.editors[i]
	if c.state != DraftEditing || !ok {
		return false
	}
	e.SetValue(v)
	return true
}

// CancelEdit leaves edit mode and restores the fields given at construction,
// dropping every edit made since.
func (c *DraftCard) CancelEdit() {
	if c.state != DraftEditing || c.collapsing {
		return
	}
	c.fields = cloneFields(c.original)
	c.editors = nil
	c.state = DraftReview
	c.focus = focusRing{}
}

// Approve starts the collapse toward the approved state. From edit mode the
// edited values are committed first.
func (c *DraftCard) Approve() tea.Cmd {
	if c.resolved || c.collapsing {
		return nil
	}
	if c.state == DraftEditing {
		c.fields = c.Fields()
		for _, e := range c.editors {
			e.Blur()
		}
	}
	return c.startCollapse(DraftApproved)
}

// Deny starts the collapse toward the denied state. Edit mode has no deny;
// the user cancels back to review first.
func (c *DraftCard) Deny() tea.Cmd {
	if c.resolved || c.collapsing || c.state != DraftReview {
		return nil
	}
	return c.startCollapse(DraftDenied)
}

func (c *DraftCard) startCollapse(target DraftState) tea.Cmd {
	c.collapsing = true
	c.pending = target
	return c.timers.after(c.props.Pacing.DraftCollapse, timerDraftCollapse)
}

// finishCollapse flips the state, resolves, then fires the callback.
func (c *DraftCard) finishCollapse() tea.Cmd {
	c.collapsing = false
	c.state = c.pending
	c.editors = nil

	if c.state == DraftApproved {
		if !c.resolve(IconCheck, c.props.ApprovedMessage) {
			return nil
		}
		if c.props.OnApprove == nil {
			return nil
		}
		return c.props.OnApprove(cloneFields(c.fields))
	}
	if !c.resolve(IconX, c.props.DeniedMessage) {
		return nil
	}
	return call(c.props.OnDeny)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// reviewActions are the buttons shown in review mode.
func (c *DraftCard) reviewActions() []Action {
	return []Action{
		{Label: c.props.ApproveLabel, Style: StylePrimary},
		{Label: c.props.EditLabel, Style: StyleOutline},
		{Label: c.props.DenyLabel, Style: StyleText},
	}
}

// editActions are the buttons shown in edit mode.
func (c *DraftCard) editActions() []Action {
	return []Action{
		{Label: c.props.ApproveLabel, Style: StylePrimary},
		{Label: "Cancel", Style: StyleText},
	}
}

// editorOrder returns editable field indices in display order.
func (c *DraftCard) editorOrder() []int {
	order := make([]int, 0, len(c.editors))
	for i := range c.fields {
		if _, ok := c.editors[i]; ok {
			order = append(order, i)
		}
	}
	return order
}

func (c *DraftCard) slotCount() int {
	if c.state == DraftEditing {
		return len(c.editors) + len(c.editActions())
	}
	return len(c.reviewActions())
}

func (c *DraftCard) syncEditorFocus() tea.Cmd {
	if c.state != DraftEditing {
		return nil
	}
	var cmd tea.Cmd
	for slot, i := range c.editorOrder() {
		e := c.editors[i]
		if c.focused && c.focus.is(slot) {
			cmd = e.Focus()
		} else {
			e.Blur()
		}
	}
	return cmd
}

// Focus implements Card.
func (c *DraftCard) Focus() {
	c.base.Focus()
	c.syncEditorFocus()
}

// Blur implements Card.
func (c *DraftCard) Blur() {
	c.base.Blur()
	c.syncEditorFocus()
}

// Update implements Card.
func (c *DraftCard) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case TimerMsg:
		if msg.kind == timerDraftCollapse && c.collapsing && c.timers.accept(msg) {
			return c.finishCollapse(), false
		}
		return nil, false
	case tea.KeyMsg:
		if !c.focused || c.resolved || c.collapsing {
			return nil, false
		}
		if c.state == DraftEditing {
			return c.updateEditing(msg)
		}
		return c.updateReview(msg)
	}
	return nil, false
}

func (c *DraftCard) updateReview(msg tea.KeyMsg) (tea.Cmd, bool) {
	n := c.slotCount()
	switch {
	case matches(msg, Keys.Next, Keys.Right):
		c.focus.move(1, n, nil)
	case matches(msg, Keys.Prev, Keys.Left):
		c.focus.move(-1, n, nil)
	case matches(msg, Keys.Activate, Keys.Toggle):
		switch c.focus.index {
		case 0:
			return c.Approve(), true
		case 1:
			return c.Edit(), true
		default:
			return c.Deny(), true
		}
	default:
		return nil, false
	}
	return nil, true
}

func (c *DraftCard) updateEditing(msg tea.KeyMsg) (tea.Cmd, bool) {
	n := c.slotCount()
	editors := len(c.editors)
	switch {
	case matches(msg, Keys.Submit):
		return c.Approve(), true
	case matches(msg, Keys.Cancel):
		c.CancelEdit()
		return nil, true
	case matches(msg, Keys.Next):
		c.focus.move(1, n, nil)
		return c.syncEditorFocus(), true
	case matches(msg, Keys.Prev):
		c.focus.move(-1, n, nil)
		return c.syncEditorFocus(), true
	}

	if c.focus.index < editors {
		e := c.editors[c.editorOrder()[c.focus.index]]
		if matches(msg, Keys.Activate) && !e.multiline {
			c.focus.move(1, n, nil)
			return c.syncEditorFocus(), true
		}
		cmd, _ := e.Update(msg)
		return cmd, true
	}

	switch {
	case matches(msg, Keys.Right):
		c.focus.move(1, n, nil)
		return c.syncEditorFocus(), true
	case matches(msg, Keys.Left):
		c.focus.move(-1, n, nil)
		return c.syncEditorFocus(), true
	case matches(msg, Keys.Activate, Keys.Toggle):
		if c.focus.index == editors {
			return c.Approve(), true
		}
		c.CancelEdit()
		return nil, true
	}
	return nil, false
}

// =============================================================================
// RENDERING
// =============================================================================

// View implements Card.
func (c *DraftCard) View(width int) string {
	if c.resolved {
		return c.viewResolved(width)
	}
	w := c.shellWidth(width)
	inner := innerWidth(w)

	var parts []string
	if c.props.Title != "" {
		head := title(c.props.Title)
		if c.state == DraftEditing {
			head += "  " + lipgloss.NewStyle().Foreground(styles.Blue).Render(styles.GlyphEdit+" editing")
		}
		parts = append(parts, head)
	}

	for i, f := range c.fields {
		if e, ok := c.editors[i]; ok && c.state == DraftEditing {
			label := f.label()
			if label == "" {
				label = "Body"
			}
			parts = append(parts, fieldLabel(label)+"\n"+e.View(inner, false))
			continue
		}
		parts = append(parts, f.renderField(inner))
	}

	focused := -1
	if c.focused && !c.collapsing {
		focused = c.focus.index
	}
	if c.state == DraftEditing {
		parts = append(parts, renderActionRow(c.editActions(), focused-len(c.editors), nil, toneNormal))
	} else {
		parts = append(parts, renderActionRow(c.reviewActions(), focused, nil, toneNormal))
	}

	shell := Shell{Accent: c.props.Accent, Focused: c.focused && !c.collapsing, Faint: c.collapsing}
	return shell.Render(w, strings.Join(parts, "\n"))
}
