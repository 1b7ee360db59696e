// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// =============================================================================
// CARD CONTRACT
// =============================================================================

// Card is the contract every card type exposes to the transcript that mounts
// it. Data flows down through the constructor props; results flow up through
// the callbacks in those props, each of which may return a tea.Cmd.
type Card interface {
	// ID is unique per mounted instance and stable for its lifetime.
	ID() string

	// Init returns the card's startup command (spinner ticks), if any.
	Init() tea.Cmd

	// Update handles a message. handled reports whether the card consumed a
	// key press, so the container knows not to reuse it for scrolling.
	Update(msg tea.Msg) (cmd tea.Cmd, handled bool)

	// View renders the card within width terminal columns.
	View(width int) string

	// Resolved reports whether the card reached its terminal state.
	Resolved() bool

	// Interactive reports whether the card currently accepts key input.
	Interactive() bool

	Focus()
	Blur()

	// Teardown is called when the card is unmounted. Pending timers are
	// cancelled: their messages are dropped when they arrive.
	Teardown()
}

// =============================================================================
// PACING
// =============================================================================

const (
	// ChoiceAutoResolveDelay lets a single-select highlight render before the
	// card collapses.
	ChoiceAutoResolveDelay = 600 * time.Millisecond

	// DraftCollapseDelay is the collapse animation run before a draft's
	// approve/deny state flips and its callback fires.
	DraftCollapseDelay = 400 * time.Millisecond
)

// Pacing groups the fixed delays used by cards that resolve on a timer.
type Pacing struct {
	ChoiceAutoResolve time.Duration
	DraftCollapse     time.Duration
}

// DefaultPacing returns the standard delays.
func DefaultPacing() Pacing {
	return Pacing{
		ChoiceAutoResolve: ChoiceAutoResolveDelay,
		DraftCollapse:     DraftCollapseDelay,
	}
}

// =============================================================================
// SCOPED TIMERS
// =============================================================================

type timerKind int

const (
	timerChoiceResolve timerKind = iota + 1
	timerDraftCollapse
)

// TimerMsg is delivered when a card's scoped timer fires. Containers route
// it to the card whose ID matches CardID; a card drops any TimerMsg that is
// not its latest live timer.
type TimerMsg struct {
	CardID string
	gen    uint64
	kind   timerKind
}

// timerScope hands out tea.Tick commands tied to one card. Closing the scope
// invalidates every outstanding tick.
type timerScope struct {
	cardID string
	gen    uint64
	closed bool
}

func (s *timerScope) after(d time.Duration, kind timerKind) tea.Cmd {
	if s.closed {
		return nil
	}
	s.gen++
	id, gen := s.cardID, s.gen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TimerMsg{CardID: id, gen: gen, kind: kind}
	})
}

// accept reports whether msg is the live timer of this scope.
func (s *timerScope) accept(msg TimerMsg) bool {
	return !s.closed && msg.CardID == s.cardID && msg.gen == s.gen
}

func (s *timerScope) close() {
	s.closed = true
	s.gen++
}

// =============================================================================
// SHARED CARD STATE
// =============================================================================

// base carries identity, focus and the resolve-once guard shared by all cards.
type base struct {
	id       string
	focused  bool
	resolved bool
	icon     ResolvedIcon
	message  string
	timers   timerScope
	maxWidth int
}

func newBase(maxWidth int) base {
	id := uuid.NewString()
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return base{id: id, timers: timerScope{cardID: id}, maxWidth: maxWidth}
}

// ID returns the card instance ID.
func (b *base) ID() string { return b.id }

// Resolved reports whether the card reached its terminal state.
func (b *base) Resolved() bool { return b.resolved }

// Focus gives the card keyboard focus.
func (b *base) Focus() { b.focused = true }

// Blur removes keyboard focus.
func (b *base) Blur() { b.focused = false }

// Focused reports whether the card has keyboard focus.
func (b *base) Focused() bool { return b.focused }

// Teardown cancels pending timers.
func (b *base) Teardown() { b.timers.close() }

// Resolution returns the icon and message of the terminal state.
func (b *base) Resolution() (ResolvedIcon, string) { return b.icon, b.message }

// resolve moves the card to its terminal state. It returns false when the
// card was already resolved, in which case the caller must not fire callbacks.
func (b *base) resolve(icon ResolvedIcon, message string) bool {
	if b.resolved {
		return false
	}
	b.resolved = true
	b.icon = icon
	b.message = message
	b.focused = false
	return true
}

// shellWidth clamps the available width to the card's max width.
func (b *base) shellWidth(width int) int {
	if width <= 0 || width > b.maxWidth {
		return b.maxWidth
	}
	return width
}

// viewResolved renders the shared terminal state.
func (b *base) viewResolved(width int) string {
	return ResolvedInline(b.icon, b.message, b.shellWidth(width))
}

// call invokes an optional callback.
func call(fn func() tea.Cmd) tea.Cmd {
	if fn == nil {
		return nil
	}
	return fn()
}
