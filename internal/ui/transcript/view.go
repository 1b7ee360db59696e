// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

const (
	agentName  = "Coworker"
	gutter     = "  "
	focusBar   = "▎ "
	emptyLabel = "Nothing here yet."
)

// =============================================================================
// HEADER / FOOTER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(m.title)

	var meta string
	switch n := m.OpenCards(); n {
	case 0:
		meta = "all caught up"
	case 1:
		meta = "1 card waiting"
	default:
		meta = fmt.Sprintf("%d cards waiting", n)
	}

	return m.theme.Header.Width(m.width).Render(title + "  " + m.theme.HeaderMeta.Render(meta))
}

func (m Model) renderFooter() string {
	return m.theme.Footer.Width(m.width).Render(m.help.View(m.keys))
}

// =============================================================================
// ENTRIES
// =============================================================================

// contentWidth is the width entries are rendered at, gutter excluded.
func (m Model) contentWidth() int {
	return m.theme.ContentWidth(m.maxCard+len(gutter)) - len(gutter)
}

// renderEntries renders every entry and returns the line span of each.
func (m Model) renderEntries() (string, []span) {
	if len(m.entries) == 0 && !m.thinking {
		return gutter + styles.Muted(emptyLabel), nil
	}

	width := m.contentWidth()
	spans := make([]span, len(m.entries))
	var blocks []string
	line := 0

	for i, e := range m.entries {
		block := m.renderEntry(i, e, width)
		h := lipgloss.Height(block)
		spans[i] = span{start: line, end: line + h}
		blocks = append(blocks, block)
		line += h + 1
	}

	if m.thinking {
		blocks = append(blocks, m.renderThinking())
	}

	return strings.Join(blocks, "\n\n"), spans
}

func (m Model) renderEntry(i int, e Entry, width int) string {
	switch e.Role {
	case RoleUser:
		bubble := m.theme.UserBubble.MaxWidth(width).Render(e.Text)
		return indent(lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble), gutter)

	case RoleSystem:
		return indent(m.theme.Thinking.Width(width).Render(e.Text), gutter)
	}

	var parts []string
	parts = append(parts, m.theme.AgentName.Render(styles.GlyphBullet+" "+agentName))
	if strings.TrimSpace(e.Text) != "" {
		parts = append(parts, RenderAgentText(e.Text, width, m.theme))
	}
	head := indent(strings.Join(parts, "\n"), gutter)

	if e.Card == nil {
		return head
	}

	prefix := gutter
	if i == m.focus {
		prefix = m.theme.FocusMarker.Render(focusBar)
	}
	return head + "\n" + indent(e.Card.View(width), prefix)
}

func (m Model) renderThinking() string {
	detail := m.thinkingDetail
	if detail == "" {
		detail = "Thinking"
	}
	elapsed := time.Since(m.thinkingStart).Truncate(time.Second)
	text := fmt.Sprintf("%s… %s", detail, elapsed)
	return gutter + m.spinner.View() + " " + m.theme.Thinking.Render(text)
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
