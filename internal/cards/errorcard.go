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

// ErrorType classifies an upstream failure shown by an ErrorCard.
type ErrorType int

const (
	ErrorUnknown ErrorType = iota
	ErrorConnectionLost
	ErrorPermissionDenied
	ErrorNotFound
	ErrorRateLimited
	ErrorScopeTooLarge
)

// String returns the snake_case name used in scenario files.
func (t ErrorType) String() string {
	switch t {
	case ErrorConnectionLost:
		return "connection_lost"
	case ErrorPermissionDenied:
		return "permission_denied"
	case ErrorNotFound:
		return "not_found"
	case ErrorRateLimited:
		return "rate_limited"
	case ErrorScopeTooLarge:
		return "scope_too_large"
	default:
		return "unknown"
	}
}

// ParseErrorType parses an error type name. Empty means unknown.
func ParseErrorType(s string) (ErrorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unknown":
		return ErrorUnknown, nil
	case "connection_lost":
		return ErrorConnectionLost, nil
	case "permission_denied":
		return ErrorPermissionDenied, nil
	case "not_found":
		return ErrorNotFound, nil
	case "rate_limited":
		return ErrorRateLimited, nil
	case "scope_too_large":
		return ErrorScopeTooLarge, nil
	default:
		return ErrorUnknown, fmt.Errorf("unknown error type %q", s)
	}
}

// Icon is the fixed glyph of the error type.
func (t ErrorType) Icon() string {
	switch t {
	case ErrorConnectionLost:
		return "⇌"
	case ErrorPermissionDenied:
		return "⊘"
	case ErrorNotFound:
		return "?"
	case ErrorRateLimited:
		return styles.GlyphClock
	case ErrorScopeTooLarge:
		return styles.GlyphWarning
	default:
		return styles.GlyphError
	}
}

// Accent is amber for rate limits and oversized scopes, default otherwise.
func (t ErrorType) Accent() Accent {
	switch t {
	case ErrorRateLimited, ErrorScopeTooLarge:
		return AccentAmber
	default:
		return AccentDefault
	}
}

// ErrorProps configures an ErrorCard.
type ErrorProps struct {
	Type   ErrorType
	Title  string
	Detail string
	// Context describes what was attempted. It starts collapsed.
	Context string

	Actions         []Action
	ResolvedMessage string
	ResolvedIcon    ResolvedIcon

	MaxWidth int
}

// ErrorCard presents an upstream failure with at least one way forward.
type ErrorCard struct {
	base
	props    ErrorProps
	expanded bool
	focus    focusRing
}

// NewErrorCard creates an error card. An error with no recovery action is
// rejected with ErrNoRecovery.
func NewErrorCard(props ErrorProps) (*ErrorCard, error) {
	if len(props.Actions) == 0 {
		return nil, ErrNoRecovery
	}
	c := &ErrorCard{base: newBase(props.MaxWidth), props: props}
	if i := primaryIndex(props.Actions); i >= 0 {
		c.focus.index = c.contextSlots() + i
	}
	return c, nil
}

// Init implements Card.
func (c *ErrorCard) Init() tea.Cmd { return nil }

// Interactive implements Card.
func (c *ErrorCard) Interactive() bool { return !c.resolved }

// Type returns the error type.
func (c *ErrorCard) Type() ErrorType { return c.props.Type }

// Expanded reports whether the context block is open.
func (c *ErrorCard) Expanded() bool { return c.expanded }

// ToggleContext opens or closes the context block. It does nothing when
// there is no context.
func (c *ErrorCard) ToggleContext() {
	if c.props.Context == "" {
		return
	}
	c.expanded = !c.expanded
}

// Invoke fires action i and resolves when a ResolvedMessage is set.
func (c *ErrorCard) Invoke(i int) tea.Cmd {
	if c.resolved || i < 0 || i >= len(c.props.Actions) {
		return nil
	}
	cmd := c.props.Actions[i].invoke()
	if c.props.ResolvedMessage != "" {
		c.resolve(c.props.ResolvedIcon, c.props.ResolvedMessage)
	}
	return cmd
}

// slots: the context disclosure (when present) followed by the actions.
func (c *ErrorCard) contextSlots() int {
	if c.props.Context == "" {
		return 0
	}
	return 1
}

// Update implements Card.
func (c *ErrorCard) Update(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused || c.resolved {
		return nil, false
	}
	n := c.contextSlots() + len(c.props.Actions)
	switch {
	case matches(key, Keys.Next, Keys.Right):
		c.focus.move(1, n, nil)
	case matches(key, Keys.Prev, Keys.Left):
		c.focus.move(-1, n, nil)
	case matches(key, Keys.Activate, Keys.Toggle):
		if c.focus.index < c.contextSlots() {
			c.ToggleContext()
			return nil, true
		}
		return c.Invoke(c.focus.index - c.contextSlots()), true
	default:
		return nil, false
	}
	return nil, true
}

// View implements Card.
func (c *ErrorCard) View(width int) string {
	if c.resolved {
		return c.viewResolved(width)
	}
	w := c.shellWidth(width)
	inner := innerWidth(w)
	accent := c.props.Type.Accent()

	iconColor := lipgloss.TerminalColor(styles.Rose)
	if accent == AccentAmber {
		iconColor = styles.Amber
	}
	parts := []string{
		lipgloss.NewStyle().Foreground(iconColor).Bold(true).Render(c.props.Type.Icon()) + " " + title(c.props.Title),
	}
	if c.props.Detail != "" {
		parts = append(parts, wrap(c.props.Detail, inner))
	}

	focused := -1
	if c.focused {
		focused = c.focus.index
	}
	if c.props.Context != "" {
		arrow := "▸"
		if c.expanded {
			arrow = "▾"
		}
		toggle := subtle(arrow + " What was attempted")
		if focused == 0 {
			toggle = lipgloss.NewStyle().Foreground(styles.Violet).Render(styles.GlyphCaret) + lipgloss.NewStyle().Underline(true).Render(toggle)
		}
		parts = append(parts, toggle)
		if c.expanded {
			parts = append(parts, lipgloss.NewStyle().
				Foreground(styles.TextMuted).
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(styles.BorderDim).
				PaddingLeft(1).
				Width(inner-2).
				Render(c.props.Context))
		}
	}

	parts = append(parts, renderActionRow(c.props.Actions, focused-c.contextSlots(), nil, toneNormal))

	shell := Shell{Accent: accent, Focused: c.focused}
	return shell.Render(w, strings.Join(parts, "\n"))
}
