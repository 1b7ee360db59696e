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

// SkippedAction is the result recorded for items closed by skip remaining.
const SkippedAction = "Skipped"

// BatchItem is one item under review.
type BatchItem struct {
	ID              string
	Summary         string
	ExpandedContent string
	Actions         []Action
}

// BatchResult records how one item was resolved.
type BatchResult struct {
	ID     string
	Action string
}

// BatchProps configures a BatchReviewCard.
type BatchProps struct {
	Title string
	Items []BatchItem

	SkipLabel string
	// OnComplete receives one result per item, in item order.
	OnComplete func(results []BatchResult) tea.Cmd
	// CompletedMessage builds the resolved line. When nil it reads
	// "Reviewed N items".
	CompletedMessage func(results []BatchResult) string

	Accent   Accent
	MaxWidth int
}

// BatchReviewCard walks the user through items one at a time. Every item is
// resolved exactly once, by one of its actions or by skip remaining, and
// results are only ever appended.
type BatchReviewCard struct {
	base
	props BatchProps

	current  int
	results  []BatchResult
	expanded bool
	focus    focusRing
}

// NewBatchReviewCard validates props and creates the card. Items need unique
// IDs and at least one action each.
func NewBatchReviewCard(props BatchProps) (*BatchReviewCard, error) {
	if len(props.Items) == 0 {
		return nil, ErrNoItems
	}
	seen := make(map[string]bool, len(props.Items))
	for _, it := range props.Items {
		if seen[it.ID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateItem, it.ID)
		}
		seen[it.ID] = true
		if len(it.Actions) == 0 {
			return nil, fmt.Errorf("item %q: %w", it.ID, ErrNoActions)
		}
	}
	if props.SkipLabel == "" {
		props.SkipLabel = "Skip remaining"
	}
	return &BatchReviewCard{
		base:    newBase(props.MaxWidth),
		props:   props,
		results: make([]BatchResult, 0, len(props.Items)),
	}, nil
}

// Init implements Card.
func (c *BatchReviewCard) Init() tea.Cmd { return nil }

// Interactive implements Card.
func (c *BatchReviewCard) Interactive() bool { return !c.resolved }

// Completed reports whether every item has a result.
func (c *BatchReviewCard) Completed() bool { return c.resolved }

// CurrentIndex is the position of the item under review.
func (c *BatchReviewCard) CurrentIndex() int { return c.current }

// Current returns the item under review. ok is false once completed.
func (c *BatchReviewCard) Current() (item BatchItem, ok bool) {
	if c.resolved || c.current >= len(c.props.Items) {
		return BatchItem{}, false
	}
	return c.props.Items[c.current], true
}

// Results returns a copy of the results so far.
func (c *BatchReviewCard) Results() []BatchResult {
	out := make([]BatchResult, len(c.results))
	copy(out, c.results)
	return out
}

// Expanded reports whether the current item's details are shown.
func (c *BatchReviewCard) Expanded() bool { return c.expanded }

// ToggleExpanded shows or hides the current item's details.
func (c *BatchReviewCard) ToggleExpanded() {
	if item, ok := c.Current(); ok && item.ExpandedContent != "" {
		c.expanded = !c.expanded
	}
}

// Act applies action i of the current item: the result is recorded, the
// action fires, then the card moves on or completes.
func (c *BatchReviewCard) Act(i int) tea.Cmd {
	item, ok := c.Current()
	if !ok || i < 0 || i >= len(item.Actions) {
		return nil
	}
	a := item.Actions[i]
	c.results = append(c.results, BatchResult{ID: item.ID, Action: a.Label})
	cmd := a.invoke()

	c.current++
	c.expanded = false
	c.focus = focusRing{}
	if c.current < len(c.props.Items) {
		return cmd
	}
	return tea.Batch(cmd, c.complete())
}

// SkipRemaining records SkippedAction for the current item and every item
// after it, in order, and completes the batch.
func (c *BatchReviewCard) SkipRemaining() tea.Cmd {
	if c.resolved {
		return nil
	}
	for _, it := range c.props.Items[c.current:] {
		c.results = append(c.results, BatchResult{ID: it.ID, Action: SkippedAction})
	}
	c.current = len(c.props.Items)
	return c.complete()
}

func (c *BatchReviewCard) complete() tea.Cmd {
	msg := fmt.Sprintf("Reviewed %d items", len(c.props.Items))
	if c.props.CompletedMessage != nil {
		msg = c.props.CompletedMessage(c.Results())
	}
	if !c.resolve(IconCheck, msg) {
		return nil
	}
	if c.props.OnComplete == nil {
		return nil
	}
	return c.props.OnComplete(c.Results())
}

// Summary pairs every result with its item, looked up by ID.
func (c *BatchReviewCard) Summary() []BatchSummaryLine {
	byID := make(map[string]BatchItem, len(c.props.Items))
	for _, it := range c.props.Items {
		byID[it.ID] = it
	}
	out := make([]BatchSummaryLine, 0, len(c.results))
	for _, r := range c.results {
		it, ok := byID[r.ID]
		if !ok {
			continue
		}
		out = append(out, BatchSummaryLine{Item: it, Action: r.Action})
	}
	return out
}

// BatchSummaryLine is one row of the completed summary.
type BatchSummaryLine struct {
	Item   BatchItem
	Action string
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// slots: details toggle (when the item has details), the item's actions,
// then skip remaining.
func (c *BatchReviewCard) detailSlots() int {
	if item, ok := c.Current(); ok && item.ExpandedContent != "" {
		return 1
	}
	return 0
}

// Update implements Card.
func (c *BatchReviewCard) Update(msg tea.Msg) (tea.Cmd, bool) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !c.focused || c.resolved {
		return nil, false
	}
	item, _ := c.Current()
	details := c.detailSlots()
	n := details + len(item.Actions) + 1

	switch {
	case matches(key, Keys.Next, Keys.Right):
		c.focus.move(1, n, nil)
	case matches(key, Keys.Prev, Keys.Left):
		c.focus.move(-1, n, nil)
	case matches(key, Keys.Activate, Keys.Toggle):
		i := c.focus.index
		switch {
		case i < details:
			c.ToggleExpanded()
			return nil, true
		case i < details+len(item.Actions):
			return c.Act(i - details), true
		default:
			return c.SkipRemaining(), true
		}
	default:
		return nil, false
	}
	return nil, true
}

// =============================================================================
// RENDERING
// =============================================================================

// View implements Card.
func (c *BatchReviewCard) View(width int) string {
	w := c.shellWidth(width)
	if c.resolved {
		return c.viewSummary(w)
	}
	inner := innerWidth(w)
	item, _ := c.Current()

	head := title(c.props.Title)
	head += "  " + subtle(fmt.Sprintf("%d of %d", c.current+1, len(c.props.Items)))
	parts := []string{head, wrap(item.Summary, inner)}

	focused := -1
	if c.focused {
		focused = c.focus.index
	}
	details := c.detailSlots()
	if details > 0 {
		arrow := "▸ Show details"
		if c.expanded {
			arrow = "▾ Hide details"
		}
		toggle := subtle(arrow)
		if focused == 0 {
			toggle = lipgloss.NewStyle().Foreground(styles.Violet).Render(styles.GlyphCaret) + lipgloss.NewStyle().Underline(true).Render(toggle)
		}
		parts = append(parts, toggle)
		if c.expanded {
			parts = append(parts, lipgloss.NewStyle().Foreground(styles.TextMuted).Width(inner).Render(item.ExpandedContent))
		}
	}

	actions := append(append([]Action(nil), item.Actions...), Action{Label: c.props.SkipLabel, Style: StyleText})
	parts = append(parts, renderActionRow(actions, focused-details, nil, toneNormal))
	parts = append(parts, c.progressDots())

	shell := Shell{Accent: c.props.Accent, Focused: c.focused}
	return shell.Render(w, strings.Join(parts, "\n"))
}

func (c *BatchReviewCard) progressDots() string {
	dots := make([]string, len(c.props.Items))
	for i := range c.props.Items {
		switch {
		case i < c.current:
			dots[i] = lipgloss.NewStyle().Foreground(styles.Green).Render(styles.GlyphBullet)
		case i == c.current:
			dots[i] = lipgloss.NewStyle().Foreground(styles.Violet).Render(styles.GlyphBullet)
		default:
			dots[i] = lipgloss.NewStyle().Foreground(styles.TextMuted).Render(styles.GlyphDot)
		}
	}
	return strings.Join(dots, " ")
}

// viewSummary is the resolved line followed by one resolved line per item.
func (c *BatchReviewCard) viewSummary(width int) string {
	lines := []string{c.viewResolved(width)}
	for _, s := range c.Summary() {
		icon := IconCheck
		if s.Action == SkippedAction {
			icon = IconClock
		}
		lines = append(lines, "  "+ResolvedInline(icon, s.Action+": "+s.Item.Summary, width-2))
	}
	return strings.Join(lines, "\n")
}
