// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styles used by the transcript around the cards.
// It is created once at startup and passed down to the transcript.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// TRANSCRIPT STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	UserBubble lipgloss.Style
	AgentName  lipgloss.Style
	AgentText  lipgloss.Style
	Thinking   lipgloss.Style

	FocusMarker lipgloss.Style
	HelpKey     lipgloss.Style
	HelpDesc    lipgloss.Style
	Footer      lipgloss.Style
}

// ThemeMode selects how NewThemeForMode decides between light and dark.
type ThemeMode string

const (
	ThemeAuto  ThemeMode = "auto"
	ThemeDark  ThemeMode = "dark"
	ThemeLight ThemeMode = "light"
)

// ParseThemeMode converts a config string into a ThemeMode, defaulting to auto.
func ParseThemeMode(s string) ThemeMode {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark
	case ThemeLight:
		return ThemeLight
	default:
		return ThemeAuto
	}
}

// NewTheme creates a theme from the terminal's detected capabilities.
func NewTheme() *Theme {
	return NewThemeForMode(ThemeAuto)
}

// NewThemeForMode creates a theme, reading the terminal background only when
// mode is auto. An explicit mode also pins Lip Gloss so AdaptiveColor values
// resolve consistently in cards rendered outside the transcript.
func NewThemeForMode(mode ThemeMode) *Theme {
	colorProfile := termenv.ColorProfile()

	var isDark bool
	switch mode {
	case ThemeDark:
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case ThemeLight:
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AgentName = lipgloss.NewStyle().
		Foreground(AgentNameFg).
		Bold(true)

	t.AgentText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Thinking = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.FocusMarker = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.HelpKey = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.HelpDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Footer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Border).
		Padding(0, 1)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ContentWidth returns the width available to transcript entries, capped at
// maxCard so cards never stretch across a very wide terminal.
func (t *Theme) ContentWidth(maxCard int) int {
	w := t.Width - 4
	if maxCard > 0 && w > maxCard {
		w = maxCard
	}
	if w < 30 {
		w = 30
	}
	return w
}
