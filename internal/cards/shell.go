// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// DefaultMaxWidth is the widest a card shell renders, in terminal columns.
const DefaultMaxWidth = 64

// Accent selects the border color of a card shell.
type Accent int

const (
	AccentDefault Accent = iota
	AccentAmber
	AccentGreen
	AccentBlue
	AccentViolet
)

// String returns the accent name used in scenario files.
func (a Accent) String() string {
	switch a {
	case AccentAmber:
		return "amber"
	case AccentGreen:
		return "green"
	case AccentBlue:
		return "blue"
	case AccentViolet:
		return "violet"
	default:
		return "default"
	}
}

// ParseAccent parses an accent name. Empty means default.
func ParseAccent(s string) (Accent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return AccentDefault, nil
	case "amber":
		return AccentAmber, nil
	case "green":
		return AccentGreen, nil
	case "blue":
		return AccentBlue, nil
	case "violet":
		return AccentViolet, nil
	default:
		return AccentDefault, fmt.Errorf("unknown accent %q", s)
	}
}

// Color returns the border color for the accent.
func (a Accent) Color() lipgloss.TerminalColor {
	switch a {
	case AccentAmber:
		return styles.Amber
	case AccentGreen:
		return styles.Green
	case AccentBlue:
		return styles.Blue
	case AccentViolet:
		return styles.Violet
	default:
		return styles.Border
	}
}

// =============================================================================
// CARD SHELL
// =============================================================================

// Shell is the bordered container every open card is drawn in. It has no
// state of its own.
type Shell struct {
	Accent  Accent
	Focused bool
	// Faint renders the card dimmed, used while a card collapses.
	Faint bool
}

// Render draws content inside the shell. width is the total outer width,
// already clamped to the card's max width.
func (s Shell) Render(width int, content string) string {
	border := lipgloss.RoundedBorder()
	if s.Focused {
		border = lipgloss.ThickBorder()
	}

	style := lipgloss.NewStyle().
		BorderStyle(border).
		BorderForeground(s.Accent.Color()).
		Padding(0, 1).
		Width(innerWidth(width) + 2)

	if s.Faint {
		style = style.Faint(true)
	}
	return style.Render(content)
}

// innerWidth is the content width inside a shell of the given outer width
// (two border columns plus one column of padding on each side).
func innerWidth(width int) int {
	w := width - 4
	if w < 10 {
		w = 10
	}
	return w
}

// title renders a card heading line.
func title(text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary).Render(text)
}

// subtle renders secondary text.
func subtle(text string) string {
	return lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(text)
}

// wrap word-wraps text to width.
func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(width).Render(text)
}
