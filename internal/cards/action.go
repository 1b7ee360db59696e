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

// =============================================================================
// ACTION DESCRIPTOR
// =============================================================================

// ActionStyle is the visual weight of an action button.
type ActionStyle int

const (
	// StylePrimary marks the recommended path.
	StylePrimary ActionStyle = iota
	StyleOutline
	StyleText
)

// String returns the style name used in scenario files.
func (s ActionStyle) String() string {
	switch s {
	case StylePrimary:
		return "primary"
	case StyleOutline:
		return "outline"
	case StyleText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseActionStyle parses "primary", "outline" or "text". Empty means outline.
func ParseActionStyle(s string) (ActionStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary":
		return StylePrimary, nil
	case "outline", "":
		return StyleOutline, nil
	case "text":
		return StyleText, nil
	default:
		return StyleOutline, fmt.Errorf("unknown action style %q", s)
	}
}

// Action describes one button. Every interactive card takes its buttons in
// this shape.
type Action struct {
	Label   string
	Style   ActionStyle
	Icon    string
	OnClick func() tea.Cmd
}

func (a Action) invoke() tea.Cmd {
	return call(a.OnClick)
}

// primaryIndex returns the index of the first primary action, or -1.
func primaryIndex(actions []Action) int {
	for i, a := range actions {
		if a.Style == StylePrimary {
			return i
		}
	}
	return -1
}

// =============================================================================
// BUTTON RENDERING
// =============================================================================

// buttonTone adjusts the fill color of primary buttons.
type buttonTone int

const (
	toneNormal buttonTone = iota
	toneDanger
)

func renderButton(a Action, focused, disabled bool, tone buttonTone) string {
	label := a.Label
	if a.Icon != "" {
		label = a.Icon + " " + label
	}

	fill := lipgloss.TerminalColor(styles.Violet)
	if tone == toneDanger {
		fill = styles.Rose
	}

	var style lipgloss.Style
	switch {
	case disabled:
		style = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Faint(true).
			Padding(0, 1)
		if a.Style != StyleText {
			label = "[" + label + "]"
		}
	case a.Style == StylePrimary:
		style = lipgloss.NewStyle().
			Foreground(styles.TextInverse).
			Background(fill).
			Bold(true).
			Padding(0, 1)
	case a.Style == StyleOutline:
		style = lipgloss.NewStyle().
			Foreground(fill).
			Padding(0, 1)
		label = "[" + label + "]"
	default:
		style = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Underline(true).
			Padding(0, 1)
	}

	if focused && !disabled {
		style = style.Bold(true).Reverse(a.Style != StylePrimary)
		return lipgloss.NewStyle().Foreground(styles.Violet).Render(styles.GlyphCaret) + style.Render(label)
	}
	return " " + style.Render(label)
}

// renderActionRow renders buttons left to right. focused is the index of the
// focused action or -1; disabled may be nil.
func renderActionRow(actions []Action, focused int, disabled func(int) bool, tone buttonTone) string {
	if len(actions) == 0 {
		return ""
	}
	buttons := make([]string, 0, len(actions))
	for i, a := range actions {
		off := disabled != nil && disabled(i)
		t := toneNormal
		if a.Style == StylePrimary {
			t = tone
		}
		buttons = append(buttons, renderButton(a, i == focused, off, t))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, buttons...)
}
