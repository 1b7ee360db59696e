// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for coworker TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// CARD ACCENT COLORS
// =============================================================================

// Violet - Agent identity, recommended actions, focus
var Violet = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Blue - Informational prompts, links
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// Green - Completed work, best-in-column comparison cells
var Green = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Amber - Warnings, rate limits, worst-in-column comparison cells
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Rose - Destructive actions, validation errors, failed steps
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Inset panels (key-value rows, context disclosure, banners)
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Border - Default card border
var Border = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#45475A"}

// BorderDim - Separators inside a card
var BorderDim = lipgloss.AdaptiveColor{Light: "#EDEDED", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, subtitles
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, dimmed options, resolved lines
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on filled buttons
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// TRANSCRIPT COLORS
// =============================================================================

var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}
var AgentNameFg = Violet

// =============================================================================
// STATUS GLYPHS
// =============================================================================

// Glyphs used by ResolvedInline, step rows and severity headers. Each one is
// a single terminal cell wide.
const (
	GlyphCheck   = "✓"
	GlyphCross   = "✗"
	GlyphEdit    = "✎"
	GlyphClock   = "◷"
	GlyphDot     = "·"
	GlyphBullet  = "●"
	GlyphInfo    = "ⓘ"
	GlyphWarning = "▲"
	GlyphError   = "⊗"
	GlyphCaret   = "›"
)

// Status renders a short status word in the given color, bold.
func Status(color lipgloss.TerminalColor, text string) string {
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(text)
}

// Muted renders text in the muted color.
func Muted(text string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).Render(text)
}
