// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// FormProps configures a FormCard.
type FormProps struct {
	Title       string
	Description string
	Fields      []FormField
	Accent      Accent

	SubmitLabel string
	CancelLabel string

	OnSubmit func(values FormValues) tea.Cmd
	// OnCancel, when set, adds a cancel button.
	OnCancel func() tea.Cmd

	ResolvedMessage  string
	CancelledMessage string

	MaxWidth int
}

// slotKind is what a focus slot of the form controls.
type slotKind int

const (
	slotEditor slotKind = iota
	slotSelect
	slotToggle
	slotChips
	slotSubmit
	slotCancel
)

type formSlot struct {
	kind  slotKind
	key   string
	field int
}

// FormCard collects structured input. Required fields are only checked on
// submit; each failing key keeps its message until that key's value changes.
type FormCard struct {
	base
	props FormProps

	// editors hold the text of text, textarea, number and date keys.
	editors map[string]*textEditor
	// chipInputs hold the pending chip text of chips fields.
	chipInputs map[string]*textEditor

	selects map[string]string
	toggles map[string]bool
	chips   map[string][]string

	errors map[string]string
	slots  []formSlot
	focus  focusRing
}

// NewFormCard creates the form and seeds every key with its default. Two
// fields claiming the same value key is an error.
func NewFormCard(props FormProps) (*FormCard, error) {
	if props.SubmitLabel == "" {
		props.SubmitLabel = "Submit"
	}
	if props.CancelLabel == "" {
		props.CancelLabel = "Cancel"
	}
	if props.ResolvedMessage == "" {
		props.ResolvedMessage = "Submitted"
	}
	if props.CancelledMessage == "" {
		props.CancelledMessage = "Cancelled"
	}

	c := &FormCard{
		base:       newBase(props.MaxWidth),
		props:      props,
		editors:    make(map[string]*textEditor),
		chipInputs: make(map[string]*textEditor),
		selects:    make(map[string]string),
		toggles:    make(map[string]bool),
		chips:      make(map[string][]string),
		errors:     make(map[string]string),
	}

	seen := make(map[string]bool)
	for i, f := range props.Fields {
		for _, k := range f.valueKeys() {
			if seen[k] {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateField, k)
			}
			seen[k] = true
		}

		switch f := f.(type) {
		case TextField:
			c.addEditor(i, f.Key, f.Default, f.Placeholder, false)
		case TextareaField:
			c.addEditor(i, f.Key, f.Default, f.Placeholder, true)
		case NumberField:
			v := ""
			if f.Default != nil {
				v = formatNumber(*f.Default)
			}
			c.addEditor(i, f.Key, v, "0", false)
		case DateField:
			c.addEditor(i, f.Key, f.Default, DateLayout, false)
		case DateRangeField:
			c.addEditor(i, f.StartKey(), f.StartDefault, "start "+DateLayout, false)
			c.addEditor(i, f.EndKey(), f.EndDefault, "end "+DateLayout, false)
		case SelectField:
			c.selects[f.Key] = f.Default
			c.slots = append(c.slots, formSlot{kind: slotSelect, key: f.Key, field: i})
		case ToggleField:
			c.toggles[f.Key] = f.Default
			c.slots = append(c.slots, formSlot{kind: slotToggle, key: f.Key, field: i})
		case ChipsField:
			c.chips[f.Key] = dedupe(f.Default)
			c.chipInputs[f.Key] = newTextEditor("", f.Placeholder, false)
			c.slots = append(c.slots, formSlot{kind: slotChips, key: f.Key, field: i})
		}
	}

	c.slots = append(c.slots, formSlot{kind: slotSubmit, field: -1})
	if props.OnCancel != nil {
		c.slots = append(c.slots, formSlot{kind: slotCancel, field: -1})
	}
	return c, nil
}

func (c *FormCard) addEditor(field int, key, value, placeholder string, multiline bool) {
	c.editors[key] = newTextEditor(value, placeholder, multiline)
	c.slots = append(c.slots, formSlot{kind: slotEditor, key: key, field: field})
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Init implements Card.
func (c *FormCard) Init() tea.Cmd { return nil }

// Interactive implements Card.
func (c *FormCard) Interactive() bool { return !c.resolved }

// fieldFor returns the field owning a value key.
func (c *FormCard) fieldFor(key string) (FormField, bool) {
	for _, f := range c.props.Fields {
		for _, k := range f.valueKeys() {
			if k == key {
				return f, true
			}
		}
	}
	return nil, false
}

// Values returns the current form values. Number keys hold float64 when the
// text parses; empty or unparseable numbers are left out.
func (c *FormCard) Values() FormValues {
	values := make(FormValues)
	for _, f := range c.props.Fields {
		switch f := f.(type) {
		case TextField, TextareaField, DateField, DateRangeField:
			for _, k := range f.valueKeys() {
				values[k] = c.editors[k].Value()
			}
		case NumberField:
			if v, err := parseNumber(c.editors[f.Key].Value()); err == nil {
				values[f.Key] = v
			}
		case SelectField:
			values[f.Key] = c.selects[f.Key]
		case ToggleField:
			values[f.Key] = c.toggles[f.Key]
		case ChipsField:
			chips := make([]string, len(c.chips[f.Key]))
			copy(chips, c.chips[f.Key])
			values[f.Key] = chips
		}
	}
	return values
}

// SetValue sets one key. Strings go to text, date and select keys; numbers
// accept float64, int or numeric strings; toggles take bool; chips take
// []string. Changing a key clears its validation error.
func (c *FormCard) SetValue(key string, v any) error {
	if c.resolved {
		return nil
	}
	f, ok := c.fieldFor(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, key)
	}

	switch f := f.(type) {
	case TextField, TextareaField, DateField, DateRangeField:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q wants a string, got %T", key, v)
		}
		c.editors[key].SetValue(s)
	case NumberField:
		switch n := v.(type) {
		case float64:
			c.editors[key].SetValue(formatNumber(n))
		case int:
			c.editors[key].SetValue(formatNumber(float64(n)))
		case string:
			c.editors[key].SetValue(n)
		default:
			return fmt.Errorf("field %q wants a number, got %T", key, v)
		}
	case SelectField:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("field %q wants a string, got %T", key, v)
		}
		if s != "" && indexOfString(f.Options, s) < 0 {
			return fmt.Errorf("field %q has no option %q", key, s)
		}
		c.selects[key] = s
	case ToggleField:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("field %q wants a bool, got %T", key, v)
		}
		c.toggles[key] = b
	case ChipsField:
		list, ok := v.([]string)
		if !ok {
			return fmt.Errorf("field %q wants []string, got %T", key, v)
		}
		c.chips[key] = dedupe(list)
	}
	c.changed(key)
	return nil
}

const rangeOrderError = "Ends before it starts"

// changed clears the error of exactly one key. Editing a range start also
// clears the ordering error on its end, since that error is about both sides.
func (c *FormCard) changed(key string) {
	delete(c.errors, key)
	for _, f := range c.props.Fields {
		r, ok := f.(DateRangeField)
		if ok && r.StartKey() == key && c.errors[r.EndKey()] == rangeOrderError {
			delete(c.errors, r.EndKey())
		}
	}
}

// Errors returns a copy of the validation errors by value key.
func (c *FormCard) Errors() map[string]string {
	out := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// AddChip appends chip to a chips field. Empty and duplicate chips are
// ignored; the return value reports whether the list changed.
func (c *FormCard) AddChip(key, chip string) bool {
	list, ok := c.chips[key]
	chip = strings.TrimSpace(chip)
	if c.resolved || !ok || chip == "" || indexOfString(list, chip) >= 0 {
		return false
	}
	c.chips[key] = append(list, chip)
	c.changed(key)
	return true
}

// RemoveChip removes chip from a chips field.
func (c *FormCard) RemoveChip(key, chip string) bool {
	list, ok := c.chips[key]
	i := indexOfString(list, chip)
	if c.resolved || !ok || i < 0 {
		return false
	}
	next := make([]string, 0, len(list)-1)
	next = append(next, list[:i]...)
	c.chips[key] = append(next, list[i+1:]...)
	c.changed(key)
	return true
}

func indexOfString(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// Validate checks every field and replaces the error map. It returns true
// when the form is valid.
func (c *FormCard) Validate() bool {
	errs := make(map[string]string)
	for _, f := range c.props.Fields {
		switch f := f.(type) {
		case TextField, TextareaField:
			k := f.valueKeys()[0]
			if f.required() && strings.TrimSpace(c.editors[k].Value()) == "" {
				errs[k] = "Required"
			}
		case NumberField:
			s := strings.TrimSpace(c.editors[f.Key].Value())
			switch {
			case s == "":
				if f.Required {
					errs[f.Key] = "Required"
				}
			default:
				if _, err := parseNumber(s); err != nil {
					errs[f.Key] = "Enter a number"
				}
			}
		case SelectField:
			if f.Required && c.selects[f.Key] == "" {
				errs[f.Key] = "Choose an option"
			}
		case DateField:
			if msg := c.checkDate(f.Key, f.Required); msg != "" {
				errs[f.Key] = msg
			}
		case DateRangeField:
			start, end := f.StartKey(), f.EndKey()
			if msg := c.checkDate(start, f.Required); msg != "" {
				errs[start] = msg
			}
			if msg := c.checkDate(end, f.Required); msg != "" {
				errs[end] = msg
			}
			if errs[start] == "" && errs[end] == "" {
				s, serr := parseDate(c.editors[start].Value())
				e, eerr := parseDate(c.editors[end].Value())
				if serr == nil && eerr == nil && e.Before(s) {
					errs[end] = rangeOrderError
				}
			}
		case ChipsField:
			if f.Required && len(c.chips[f.Key]) == 0 {
				errs[f.Key] = "Add at least one"
			}
		}
	}
	c.errors = errs
	return len(errs) == 0
}

func (c *FormCard) checkDate(key string, required bool) string {
	s := strings.TrimSpace(c.editors[key].Value())
	if s == "" {
		if required {
			return "Required"
		}
		return ""
	}
	if _, err := parseDate(s); err != nil {
		return "Use " + DateLayout
	}
	return ""
}

// Submit validates the form. On success it resolves and passes the values to
// OnSubmit; on failure it records the errors and returns nil.
func (c *FormCard) Submit() tea.Cmd {
	if c.resolved || !c.Validate() {
		return nil
	}
	values := c.Values()
	if !c.resolve(IconCheck, c.props.ResolvedMessage) {
		return nil
	}
	if c.props.OnSubmit == nil {
		return nil
	}
	return c.props.OnSubmit(values)
}

// Cancel resolves the form without submitting.
func (c *FormCard) Cancel() tea.Cmd {
	if c.resolved || !c.resolve(IconX, c.props.CancelledMessage) {
		return nil
	}
	return call(c.props.OnCancel)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (c *FormCard) current() formSlot {
	c.focus.clamp(len(c.slots), nil)
	return c.slots[c.focus.index]
}

func (c *FormCard) syncFocus() tea.Cmd {
	var cmd tea.Cmd
	for i, s := range c.slots {
		var e *textEditor
		switch s.kind {
		case slotEditor:
			e = c.editors[s.key]
		case slotChips:
			e = c.chipInputs[s.key]
		default:
			continue
		}
		if c.focused && c.focus.is(i) {
			cmd = e.Focus()
		} else {
			e.Blur()
		}
	}
	return cmd
}

// Focus implements Card.
func (c *FormCard) Focus() {
	c.base.Focus()
	c.syncFocus()
}

// Blur implements Card.
func (c *FormCard) Blur() {
	c.base.Blur()
	c.syncFocus()
}

func (c *FormCard) moveFocus(delta int) tea.Cmd {
	c.focus.move(delta, len(c.slots), nil)
	return c.syncFocus()
}

// Update implements Card.
func (c *FormCard) Update(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused || c.resolved {
		return nil, false
	}

	switch {
	case matches(key, Keys.Submit):
		return c.Submit(), true
	case matches(key, Keys.Cancel) && c.props.OnCancel != nil:
		return c.Cancel(), true
	case matches(key, Keys.Next):
		return c.moveFocus(1), true
	case matches(key, Keys.Prev):
		return c.moveFocus(-1), true
	}

	slot := c.current()
	switch slot.kind {
	case slotEditor:
		e := c.editors[slot.key]
		if matches(key, Keys.Activate) && !e.multiline {
			return c.moveFocus(1), true
		}
		cmd, changed := e.Update(key)
		if changed {
			c.changed(slot.key)
		}
		return cmd, true

	case slotSelect:
		f := c.props.Fields[slot.field].(SelectField)
		switch {
		case matches(key, Keys.Left, Keys.Up):
			c.cycleSelect(f, -1)
		case matches(key, Keys.Right, Keys.Down, Keys.Toggle):
			c.cycleSelect(f, 1)
		case matches(key, Keys.Activate):
			return c.moveFocus(1), true
		default:
			return nil, false
		}
		return nil, true

	case slotToggle:
		switch {
		case matches(key, Keys.Toggle, Keys.Left, Keys.Right):
			c.toggles[slot.key] = !c.toggles[slot.key]
			c.changed(slot.key)
		case matches(key, Keys.Activate):
			return c.moveFocus(1), true
		default:
			return nil, false
		}
		return nil, true

	case slotChips:
		in := c.chipInputs[slot.key]
		switch {
		case matches(key, Keys.Activate):
			if in.Value() == "" {
				return c.moveFocus(1), true
			}
			c.AddChip(slot.key, in.Value())
			in.SetValue("")
			return nil, true
		case matches(key, Keys.Remove) && in.Value() == "":
			if list := c.chips[slot.key]; len(list) > 0 {
				c.RemoveChip(slot.key, list[len(list)-1])
			}
			return nil, true
		}
		cmd, _ := in.Update(key)
		return cmd, true

	case slotSubmit, slotCancel:
		switch {
		case matches(key, Keys.Left, Keys.Right):
			if c.props.OnCancel != nil {
				if slot.kind == slotSubmit {
					c.focus.index = len(c.slots) - 1
				} else {
					c.focus.index = len(c.slots) - 2
				}
			}
			return c.syncFocus(), true
		case matches(key, Keys.Activate, Keys.Toggle):
			if slot.kind == slotSubmit {
				return c.Submit(), true
			}
			return c.Cancel(), true
		}
	}
	return nil, false
}

func (c *FormCard) cycleSelect(f SelectField, delta int) {
	if len(f.Options) == 0 {
		return
	}
	i := indexOfString(f.Options, c.selects[f.Key])
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(f.Options) - 1
	default:
		i = ((i+delta)%len(f.Options) + len(f.Options)) % len(f.Options)
	}
	c.selects[f.Key] = f.Options[i]
	c.changed(f.Key)
}

// =============================================================================
// RENDERING
// =============================================================================

// View implements Card.
func (c *FormCard) View(width int) string {
	if c.resolved {
		return c.viewResolved(width)
	}
	w := c.shellWidth(width)
	inner := innerWidth(w)

	var parts []string
	if c.props.Title != "" {
		parts = append(parts, title(c.props.Title))
	}
	if c.props.Description != "" {
		parts = append(parts, subtle(wrap(c.props.Description, inner)))
	}

	focusedSlot := -1
	if c.focused {
		focusedSlot = c.focus.index
	}
	for _, f := range c.props.Fields {
		parts = append(parts, c.viewField(f, inner, focusedSlot))
	}

	actions := []Action{{Label: c.props.SubmitLabel, Style: StylePrimary}}
	if c.props.OnCancel != nil {
		actions = append(actions, Action{Label: c.props.CancelLabel, Style: StyleText})
	}
	buttonFocus := -1
	if focusedSlot >= 0 {
		switch c.slots[focusedSlot].kind {
		case slotSubmit:
			buttonFocus = 0
		case slotCancel:
			buttonFocus = 1
		}
	}
	parts = append(parts, renderActionRow(actions, buttonFocus, nil, toneNormal))

	if n := len(c.errors); n > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.Rose).Render(
			fmt.Sprintf("%s %d field(s) need attention", styles.GlyphError, n)))
	}

	shell := Shell{Accent: c.props.Accent, Focused: c.focused}
	return shell.Render(w, strings.Join(parts, "\n"))
}

func (c *FormCard) slotFocused(key string, focusedSlot int) bool {
	return focusedSlot >= 0 && c.slots[focusedSlot].key == key
}

func (c *FormCard) viewField(f FormField, width, focusedSlot int) string {
	label := f.caption()
	if f.required() {
		label += lipgloss.NewStyle().Foreground(styles.Rose).Render(" *")
	}
	lines := []string{lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(label)}

	errLine := func(key string) {
		if msg, ok := c.errors[key]; ok {
			lines = append(lines, lipgloss.NewStyle().Foreground(styles.Rose).Render(styles.GlyphError+" "+msg))
		}
	}
	editor := func(key string) string {
		_, invalid := c.errors[key]
		return c.editors[key].View(width, invalid)
	}

	switch f := f.(type) {
	case TextField, TextareaField, DateField:
		k := f.valueKeys()[0]
		lines = append(lines, editor(k))
		errLine(k)
	case NumberField:
		if f.Unit == "" {
			lines = append(lines, editor(f.Key))
		} else {
			_, invalid := c.errors[f.Key]
			unit := " " + subtle(f.Unit)
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
				c.editors[f.Key].View(width-lipgloss.Width(unit), invalid), unit))
		}
		errLine(f.Key)
	case DateRangeField:
		half := (width - 3) / 2
		start := c.editors[f.StartKey()]
		end := c.editors[f.EndKey()]
		_, startBad := c.errors[f.StartKey()]
		_, endBad := c.errors[f.EndKey()]
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			start.View(half, startBad), subtle(" → "), end.View(half, endBad)))
		errLine(f.StartKey())
		errLine(f.EndKey())
	case SelectField:
		lines = append(lines, c.viewSelect(f, c.slotFocused(f.Key, focusedSlot), width))
		errLine(f.Key)
	case ToggleField:
		lines = append(lines, viewToggle(c.toggles[f.Key], f.Description, c.slotFocused(f.Key, focusedSlot)))
	case ChipsField:
		chips := c.chips[f.Key]
		if len(chips) > 0 {
			lines = append(lines, renderChips(chips, -1))
		}
		_, invalid := c.errors[f.Key]
		lines = append(lines, c.chipInputs[f.Key].View(width, invalid))
		errLine(f.Key)
	}
	return strings.Join(lines, "\n")
}

func (c *FormCard) viewSelect(f SelectField, focused bool, width int) string {
	current := c.selects[f.Key]
	opts := make([]string, 0, len(f.Options))
	for _, o := range f.Options {
		style := lipgloss.NewStyle().Foreground(styles.TextMuted)
		if o == current {
			style = lipgloss.NewStyle().Foreground(styles.Violet).Bold(true)
			o = "(" + styles.GlyphBullet + ") " + o
		} else {
			o = "( ) " + o
		}
		opts = append(opts, style.Render(o))
	}
	row := strings.Join(opts, "  ")
	if lipgloss.Width(row) > width {
		row = strings.Join(opts, "\n")
	}
	if focused {
		return lipgloss.NewStyle().Foreground(styles.Violet).Render(styles.GlyphCaret) + " " + row
	}
	return "  " + row
}

func viewToggle(on bool, description string, focused bool) string {
	sw := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("[   off]")
	if on {
		sw = lipgloss.NewStyle().Foreground(styles.Green).Bold(true).Render("[on   ]")
	}
	if focused {
		sw = lipgloss.NewStyle().Reverse(true).Render(sw)
	}
	if description != "" {
		sw += " " + subtle(description)
	}
	return sw
}
