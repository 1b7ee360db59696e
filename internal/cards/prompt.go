// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// =============================================================================
// SEVERITY / VARIANT
// =============================================================================

// Severity escalates a prompt's visual weight. SeverityNone is a plain
// suggestion.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityDestructive
)

// ParseSeverity parses "", "info", "warning" or "destructive".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SeverityNone, nil
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "destructive":
		return SeverityDestructive, nil
	default:
		return SeverityNone, fmt.Errorf("unknown severity %q", s)
	}
}

func (s Severity) accent() Accent {
	switch s {
	case SeverityInfo:
		return AccentBlue
	case SeverityWarning:
		return AccentAmber
	default:
		return AccentDefault
	}
}

func (s Severity) header() (string, lipgloss.TerminalColor) {
	switch s {
	case SeverityInfo:
		return styles.GlyphInfo, styles.Blue
	case SeverityWarning:
		return styles.GlyphWarning, styles.Amber
	case SeverityDestructive:
		return styles.GlyphError, styles.Rose
	default:
		return "", styles.TextPrimary
	}
}

// PromptVariant is the layout of a prompt. Compact never shows severity.
type PromptVariant int

const (
	PromptStandard PromptVariant = iota
	PromptCompact
)

// =============================================================================
// PROMPT CARD
// =============================================================================

// PromptProps configures a PromptCard.
type PromptProps struct {
	Message string
	Actions []Action
	Variant PromptVariant

	Severity Severity
	// Consequence is shown only when Severity is set.
	Consequence string

	// ConfirmText gates the primary action until typed back by the user.
	ConfirmText string

	// ResolvedMessage, when set, collapses the card after any action.
	// Without it the card stays interactive and the caller replaces it.
	ResolvedMessage string
	ResolvedIcon    ResolvedIcon

	MaxWidth int
}

// PromptCard suggests an action and optionally escalates it with a severity
// and a type-to-confirm gate.
type PromptCard struct {
	base
	props   PromptProps
	confirm textinput.Model
	focus   focusRing
	fold    cases.Caser
}

// NewPromptCard creates a prompt card. It fails without actions.
func NewPromptCard(props PromptProps) (*PromptCard, error) {
	if len(props.Actions) == 0 {
		return nil, ErrNoActions
	}
	if props.Variant == PromptCompact {
		props.Severity = SeverityNone
	}

	c := &PromptCard{base: newBase(props.MaxWidth), props: props, fold: cases.Fold()}
	if props.ConfirmText != "" {
		c.confirm = textinput.New()
		c.confirm.Prompt = ""
		c.confirm.Placeholder = props.ConfirmText
		c.confirm.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
	} else {
		c.focus.index = max(primaryIndex(props.Actions), 0)
	}
	return c, nil
}

// Init implements Card.
func (c *PromptCard) Init() tea.Cmd { return nil }

// Interactive implements Card.
func (c *PromptCard) Interactive() bool { return !c.resolved }

// Severity returns the effective severity (always none for compact prompts).
func (c *PromptCard) Severity() Severity { return c.props.Severity }

// SetConfirmInput replaces the typed confirmation text.
func (c *PromptCard) SetConfirmInput(s string) {
	c.confirm.SetValue(s)
}

// Confirmed reports whether the typed input matches ConfirmText, ignoring
// case and surrounding space. Always true without ConfirmText.
func (c *PromptCard) Confirmed() bool {
	if c.props.ConfirmText == "" {
		return true
	}
	typed := c.fold.String(strings.TrimSpace(c.confirm.Value()))
	want := c.fold.String(strings.TrimSpace(c.props.ConfirmText))
	return typed == want
}

// ActionEnabled reports whether action i can be invoked. Only primary
// actions are gated by the confirmation text.
func (c *PromptCard) ActionEnabled(i int) bool {
	if i < 0 || i >= len(c.props.Actions) || c.resolved {
		return false
	}
	if c.props.Actions[i].Style == StylePrimary {
		return c.Confirmed()
	}
	return true
}

// Invoke fires action i: its OnClick runs first, then the card resolves if
// a ResolvedMessage was given.
func (c *PromptCard) Invoke(i int) tea.Cmd {
	if !c.ActionEnabled(i) {
		return nil
	}
	cmd := c.props.Actions[i].invoke()
	if c.props.ResolvedMessage != "" {
		c.confirm.Blur()
		c.resolve(c.props.ResolvedIcon, c.props.ResolvedMessage)
	}
	return cmd
}

// Focus implements Card.
func (c *PromptCard) Focus() {
	c.base.Focus()
	c.syncInputFocus()
}

// Blur implements Card.
func (c *PromptCard) Blur() {
	c.base.Blur()
	c.confirm.Blur()
}

// slots: the confirm input (when gated) followed by the actions.
func (c *PromptCard) inputSlots() int {
	if c.props.ConfirmText != "" {
		return 1
	}
	return 0
}

func (c *PromptCard) slotEnabled(i int) bool {
	if i < c.inputSlots() {
		return true
	}
	return c.ActionEnabled(i - c.inputSlots())
}

func (c *PromptCard) syncInputFocus() {
	if c.inputSlots() == 0 {
		return
	}
	if c.focused && c.focus.is(0) {
		c.confirm.Focus()
	} else {
		c.confirm.Blur()
	}
}

// Update implements Card.
func (c *PromptCard) Update(msg tea.Msg) (tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused || c.resolved {
		return nil, false
	}

	n := c.inputSlots() + len(c.props.Actions)
	inInput := c.inputSlots() == 1 && c.focus.is(0)

	switch {
	case matches(keyMsg, Keys.Next):
		c.focus.move(1, n, c.slotEnabled)
		c.syncInputFocus()
		return nil, true
	case matches(keyMsg, Keys.Prev):
		c.focus.move(-1, n, c.slotEnabled)
		c.syncInputFocus()
		return nil, true
	case matches(keyMsg, Keys.Activate):
		if inInput {
			if p := primaryIndex(c.props.Actions); p >= 0 {
				return c.Invoke(p), true
			}
			return nil, true
		}
		return c.Invoke(c.focus.index - c.inputSlots()), true
	}

	if inInput {
		var cmd tea.Cmd
		c.confirm, cmd = c.confirm.Update(keyMsg)
		return cmd, true
	}

	switch {
	case matches(keyMsg, Keys.Right):
		c.focus.move(1, n, c.slotEnabled)
		c.syncInputFocus()
		return nil, true
	case matches(keyMsg, Keys.Left):
		c.focus.move(-1, n, c.slotEnabled)
		c.syncInputFocus()
		return nil, true
	case matches(keyMsg, Keys.Toggle):
		return c.Invoke(c.focus.index - c.inputSlots()), true
	}
	return nil, false
}

// View implements Card.
func (c *PromptCard) View(width int) string {
	if c.resolved {
		return c.viewResolved(width)
	}
	w := c.shellWidth(width)
	inner := innerWidth(w)

	focused := -1
	if c.focused {
		focused = c.focus.index - c.inputSlots()
	}
	tone := toneNormal
	if c.props.Severity == SeverityDestructive {
		tone = toneDanger
	}
	buttons := renderActionRow(c.props.Actions, focused, func(i int) bool { return !c.ActionEnabled(i) }, tone)

	var parts []string
	if c.props.Variant == PromptCompact {
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Center,
			lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(c.props.Message), "  ", buttons))
		if c.props.ConfirmText != "" {
			parts = append(parts, c.viewConfirm(inner))
		}
		return Shell{Accent: AccentDefault, Focused: c.focused}.Render(w, strings.Join(parts, "\n"))
	}

	msg := wrap(c.props.Message, inner)
	if glyph, color := c.props.Severity.header(); glyph != "" {
		msg = lipgloss.NewStyle().Foreground(color).Bold(true).Render(glyph) + " " + wrap(c.props.Message, inner-2)
	}
	parts = append(parts, msg)

	if c.props.Severity != SeverityNone && c.props.Consequence != "" {
		parts = append(parts, subtle(wrap(c.props.Consequence, inner)))
	}
	if c.props.ConfirmText != "" {
		parts = append(parts, c.viewConfirm(inner))
	}
	parts = append(parts, buttons)

	shell := Shell{Accent: c.props.Severity.accent(), Focused: c.focused}
	if c.props.Severity == SeverityDestructive {
		return destructiveShell(shell, w, strings.Join(parts, "\n\n"))
	}
	return shell.Render(w, strings.Join(parts, "\n\n"))
}

func (c *PromptCard) viewConfirm(width int) string {
	label := subtle("Type ") +
		lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary).Render(c.props.ConfirmText) +
		subtle(" to confirm")
	c.confirm.Width = width - 4
	border := lipgloss.TerminalColor(styles.BorderDim)
	if c.focused && c.focus.is(0) {
		border = styles.Violet
	}
	input := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(border).
		PaddingLeft(1).
		Render(c.confirm.View())
	return label + "\n" + input
}

// destructiveShell draws the shell with the error color, which is not one of
// the five card accents.
func destructiveShell(s Shell, width int, content string) string {
	border := lipgloss.RoundedBorder()
	if s.Focused {
		border = lipgloss.ThickBorder()
	}
	return lipgloss.NewStyle().
		BorderStyle(border).
		BorderForeground(styles.Rose).
		Padding(0, 1).
		Width(innerWidth(width) + 2).
		Render(content)
}
