// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
	"github.com/jeranaias/coworker-tui/internal/util"
)

// ResolvedIcon is the glyph shown on a resolved card's single line.
type ResolvedIcon int

const (
	IconCheck ResolvedIcon = iota
	IconX
	IconEdit
	IconClock
)

// ParseResolvedIcon parses "check", "x", "edit" or "clock". Empty means check.
func ParseResolvedIcon(s string) (ResolvedIcon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "check":
		return IconCheck, nil
	case "x":
		return IconX, nil
	case "edit":
		return IconEdit, nil
	case "clock":
		return IconClock, nil
	default:
		return IconCheck, fmt.Errorf("unknown resolved icon %q", s)
	}
}

// String returns the name accepted by ParseResolvedIcon.
func (i ResolvedIcon) String() string {
	switch i {
	case IconX:
		return "x"
	case IconEdit:
		return "edit"
	case IconClock:
		return "clock"
	default:
		return "check"
	}
}

func (i ResolvedIcon) glyph() (string, lipgloss.TerminalColor) {
	switch i {
	case IconX:
		return styles.GlyphCross, styles.TextMuted
	case IconEdit:
		return styles.GlyphEdit, styles.Blue
	case IconClock:
		return styles.GlyphClock, styles.Amber
	default:
		return styles.GlyphCheck, styles.Green
	}
}

// ResolvedInline renders the terminal state shared by every resolvable card:
// one line, icon then message, truncated to width. The transcript never needs
// to know which card type produced it.
func ResolvedInline(icon ResolvedIcon, message string, width int) string {
	glyph, color := icon.glyph()
	text := util.TruncateWidth(util.FirstLine(message), width-2)
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(glyph) + " " +
		lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(text)
}
