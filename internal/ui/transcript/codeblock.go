// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// =============================================================================
// AGENT TEXT RENDERER
// =============================================================================

// segment is a run of agent text: prose or one fenced code block.
type segment struct {
	code     bool
	language string
	text     string
}

// splitFences splits text on ``` fences. An unclosed fence runs to the end.
func splitFences(text string) []segment {
	var (
		out      []segment
		buf      []string
		inCode   bool
		language string
	)

	flush := func() {
		if len(buf) == 0 && !inCode {
			return
		}
		out = append(out, segment{code: inCode, language: language, text: strings.Join(buf, "\n")})
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			flush()
			if inCode {
				inCode = false
				language = ""
			} else {
				inCode = true
				language = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
			}
			continue
		}
		buf = append(buf, line)
	}
	flush()
	return out
}

// RenderAgentText renders agent prose wrapped at width with fenced code
// blocks syntax highlighted.
func RenderAgentText(text string, width int, theme *styles.Theme) string {
	if width < 10 {
		width = 10
	}

	var parts []string
	for _, seg := range splitFences(text) {
		if seg.code {
			parts = append(parts, renderCodeBlock(seg.language, seg.text, width))
			continue
		}
		prose := strings.Trim(seg.text, "\n")
		if prose == "" {
			continue
		}
		parts = append(parts, theme.AgentText.Width(width).Render(prose))
	}
	return strings.Join(parts, "\n")
}

// renderCodeBlock draws code in a dim bordered box with a language badge.
func renderCodeBlock(language, code string, width int) string {
	code = strings.Trim(code, "\n")
	body := highlightCode(code, language)

	if language != "" {
		badge := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Bold(true).
			Render(language)
		body = badge + "\n" + body
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderDim).
		Padding(0, 1).
		MaxWidth(width).
		Render(body)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// highlightCode applies syntax highlighting to code using the chroma library.
// Without color support the code is returned as-is.
func highlightCode(code, language string) string {
	if lipgloss.ColorProfile() == termenv.Ascii {
		return code
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}
