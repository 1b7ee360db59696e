// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coworker-tui/internal/cards"
)

// =============================================================================
// ENTRIES
// =============================================================================

// Role identifies who produced a transcript entry.
type Role int

const (
	RoleUser Role = iota
	RoleAgent
	RoleSystem
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAgent:
		return "agent"
	case RoleSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Entry is one item of the transcript. Agent entries may carry a card, shown
// under the text.
type Entry struct {
	Role Role
	Text string
	Card cards.Card
	At   time.Time
}

// =============================================================================
// MESSAGES
// =============================================================================

// AppendMsg adds an entry to the end of the transcript.
type AppendMsg struct {
	Entry Entry
}

// ThinkingMsg shows or hides the thinking indicator.
type ThinkingMsg struct {
	On     bool
	Detail string
}

// RemoveMsg unmounts the entry holding the card with CardID.
type RemoveMsg struct {
	CardID string
}

// ClearMsg removes every entry.
type ClearMsg struct{}

// ExportMsg asks the application to save the transcript.
type ExportMsg struct{}

// Say appends a text entry.
func Say(role Role, text string) tea.Cmd {
	return Append(Entry{Role: role, Text: text})
}

// Present appends an agent entry carrying a card.
func Present(text string, card cards.Card) tea.Cmd {
	return Append(Entry{Role: RoleAgent, Text: text, Card: card})
}

// Append appends e, stamping it with the current time when At is zero.
func Append(e Entry) tea.Cmd {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	return func() tea.Msg { return AppendMsg{Entry: e} }
}

// Think turns the thinking indicator on.
func Think(detail string) tea.Cmd {
	return func() tea.Msg { return ThinkingMsg{On: true, Detail: detail} }
}

// StopThinking turns the thinking indicator off.
func StopThinking() tea.Cmd {
	return func() tea.Msg { return ThinkingMsg{} }
}

// Remove unmounts the entry holding the card with id.
func Remove(id string) tea.Cmd {
	return func() tea.Msg { return RemoveMsg{CardID: id} }
}
