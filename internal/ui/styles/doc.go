// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the coworker TUI.

# Color System (colors.go)

Cards use five accents, each an AdaptiveColor so light and dark terminals both
read well:

  - Violet - agent identity, recommended actions, keyboard focus
  - Blue - informational prompts
  - Green - finished work
  - Amber - warnings and recoverable failures
  - Rose - destructive actions and validation errors

Surface and text tokens (Surface, SurfaceDim, Border, TextPrimary, TextMuted...)
are shared by every card so the transcript reads as one surface.

# Theme (theme.go)

Theme carries the transcript styles and the detected terminal capabilities:

	theme := styles.NewThemeForMode(styles.ParseThemeMode(cfg.UI.Theme))
	theme.SetSize(msg.Width, msg.Height)
	width := theme.ContentWidth(cfg.UI.MaxWidth)
*/
package styles
