// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// StepStatus is the state of one progress step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepDone
	StepError
)

// String returns the status name.
func (s StepStatus) String() string {
	switch s {
	case StepRunning:
		return "running"
	case StepDone:
		return "done"
	case StepError:
		return "error"
	default:
		return "pending"
	}
}

// ParseStepStatus parses a status name. Empty means pending.
func ParseStepStatus(s string) (StepStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pending":
		return StepPending, nil
	case "running":
		return StepRunning, nil
	case "done":
		return StepDone, nil
	case "error":
		return StepError, nil
	default:
		return StepPending, fmt.Errorf("unknown step status %q", s)
	}
}

// ProgressStep is one row of a ProgressCard.
type ProgressStep struct {
	Label  string
	Status StepStatus
	Detail string
}

// ProgressProps configures a ProgressCard.
type ProgressProps struct {
	Title  string
	Steps  []ProgressStep
	Accent Accent

	// OnCancel adds a cancel button shown until every step is done.
	OnCancel    func() tea.Cmd
	CancelLabel string
	// OnRetry adds a Retry button to each failed step.
	OnRetry func(step int) tea.Cmd

	Actions []Action

	// ResolvedMessage, when set, resolves the card after an action fires.
	ResolvedMessage string
	// CancelledMessage, when set, resolves the card after cancel.
	CancelledMessage string

	MaxWidth int
}

// ProgressCard shows a multi-step task. Everything it draws is derived from
// the step list; the card never changes a step itself. Callers push new
// state with SetSteps.
type ProgressCard struct {
	base
	props   ProgressProps
	spinner spinner.Model
	ticking bool
	focus   focusRing
}

// NewProgressCard creates a progress card.
func NewProgressCard(props ProgressProps) *ProgressCard {
	if props.CancelLabel == "" {
		props.CancelLabel = "Cancel"
	}
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(styles.Violet)
	props.Steps = cloneSteps(props.Steps)
	return &ProgressCard{base: newBase(props.MaxWidth), props: props, spinner: s}
}

func cloneSteps(steps []ProgressStep) []ProgressStep {
	out := make([]ProgressStep, len(steps))
	copy(out, steps)
	return out
}

// Init starts the spinner when a step is running.
func (c *ProgressCard) Init() tea.Cmd { return c.startTicking() }

func (c *ProgressCard) startTicking() tea.Cmd {
	if c.ticking || c.resolved || !c.running() {
		return nil
	}
	c.ticking = true
	return c.spinner.Tick
}

// Interactive implements Card.
func (c *ProgressCard) Interactive() bool { return !c.resolved && c.slotCount() > 0 }

// Steps returns a copy of the steps.
func (c *ProgressCard) Steps() []ProgressStep { return cloneSteps(c.props.Steps) }

// SetSteps replaces the step list.
func (c *ProgressCard) SetSteps(steps []ProgressStep) tea.Cmd {
	if c.resolved {
		return nil
	}
	c.props.Steps = cloneSteps(steps)
	c.focus.clamp(c.slotCount(), nil)
	return c.startTicking()
}

// AllDone reports whether every step is done. An empty list counts as done.
func (c *ProgressCard) AllDone() bool {
	for _, s := range c.props.Steps {
		if s.Status != StepDone {
			return false
		}
	}
	return true
}

// HasError reports whether any step failed.
func (c *ProgressCard) HasError() bool {
	for _, s := range c.props.Steps {
		if s.Status == StepError {
			return true
		}
	}
	return false
}

func (c *ProgressCard) running() bool {
	for _, s := range c.props.Steps {
		if s.Status == StepRunning {
			return true
		}
	}
	return false
}

// ShellAccent is green when all steps are done, amber when a step failed,
// and the configured accent otherwise.
func (c *ProgressCard) ShellAccent() Accent {
	switch {
	case c.AllDone():
		return AccentGreen
	case c.HasError():
		return AccentAmber
	default:
		return c.props.Accent
	}
}

// HeaderIcon is the glyph shown before the title.
func (c *ProgressCard) HeaderIcon() string {
	switch {
	case c.AllDone():
		return styles.GlyphCheck
	case c.HasError():
		return styles.GlyphWarning
	default:
		return styles.GlyphClock
	}
}

// Counts returns how many steps are done out of the total.
func (c *ProgressCard) Counts() (done, total int) {
	for _, s := range c.props.Steps {
		if s.Status == StepDone {
			done++
		}
	}
	return done, len(c.props.Steps)
}

// CancelVisible reports whether the cancel button is shown.
func (c *ProgressCard) CancelVisible() bool {
	return c.props.OnCancel != nil && !c.AllDone()
}

// Cancel fires OnCancel while work is still in flight.
func (c *ProgressCard) Cancel() tea.Cmd {
	if c.resolved || !c.CancelVisible() {
		return nil
	}
	cmd := c.props.OnCancel()
	if c.props.CancelledMessage != "" {
		c.resolve(IconX, c.props.CancelledMessage)
	}
	return cmd
}

// Retry fires OnRetry for a failed step.
func (c *ProgressCard) Retry(step int) tea.Cmd {
	if c.resolved || c.props.OnRetry == nil || step < 0 || step >= len(c.props.Steps) ||
		c.props.Steps[step].Status != StepError {
		return nil
	}
	return c.props.OnRetry(step)
}

// Invoke fires action i.
func (c *ProgressCard) Invoke(i int) tea.Cmd {
	if c.resolved || i < 0 || i >= len(c.props.Actions) {
		return nil
	}
	cmd := c.props.Actions[i].invoke()
	if c.props.ResolvedMessage != "" {
		c.resolve(IconCheck, c.props.ResolvedMessage)
	}
	return cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

// retrySteps lists the failed steps that show a Retry button.
func (c *ProgressCard) retrySteps() []int {
	if c.props.OnRetry == nil {
		return nil
	}
	var out []int
	for i, s := range c.props.Steps {
		if s.Status == StepError {
			out = append(out, i)
		}
	}
	return out
}

// footerActions are the buttons under the steps: cancel, then actions.
func (c *ProgressCard) footerActions() []Action {
	var out []Action
	if c.CancelVisible() {
		out = append(out, Action{Label: c.props.CancelLabel, Style: StyleText})
	}
	return append(out, c.props.Actions...)
}

func (c *ProgressCard) slotCount() int {
	return len(c.retrySteps()) + len(c.footerActions())
}

func (c *ProgressCard) activate(slot int) tea.Cmd {
	retries := c.retrySteps()
	if slot < len(retries) {
		return c.Retry(retries[slot])
	}
	slot -= len(retries)
	if c.CancelVisible() {
		if slot == 0 {
			return c.Cancel()
		}
		slot--
	}
	return c.Invoke(slot)
}

// Update implements Card.
func (c *ProgressCard) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if msg.ID != c.spinner.ID() {
			return nil, false
		}
		if c.resolved || !c.running() {
			c.ticking = false
			return nil, false
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd, false
	case tea.KeyMsg:
		if !c.focused || c.resolved {
			return nil, false
		}
		n := c.slotCount()
		switch {
		case matches(msg, Keys.Next, Keys.Right):
			c.focus.move(1, n, nil)
		case matches(msg, Keys.Prev, Keys.Left):
			c.focus.move(-1, n, nil)
		case matches(msg, Keys.Cancel) && c.CancelVisible():
			return c.Cancel(), true
		case matches(msg, Keys.Activate, Keys.Toggle):
			if n == 0 {
				return nil, false
			}
			c.focus.clamp(n, nil)
			return c.activate(c.focus.index), true
		default:
			return nil, false
		}
		return nil, true
	}
	return nil, false
}

// =============================================================================
// RENDERING
// =============================================================================

func (c *ProgressCard) stepIcon(s StepStatus) string {
	switch s {
	case StepRunning:
		return c.spinner.View()
	case StepDone:
		return lipgloss.NewStyle().Foreground(styles.Green).Render(styles.GlyphCheck)
	case StepError:
		return lipgloss.NewStyle().Foreground(styles.Rose).Render(styles.GlyphError)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted).Render(styles.GlyphDot)
	}
}

// View implements Card.
func (c *ProgressCard) View(width int) string {
	if c.resolved {
		return c.viewResolved(width)
	}
	w := c.shellWidth(width)
	inner := innerWidth(w)
	accent := c.ShellAccent()

	done, total := c.Counts()
	head := lipgloss.NewStyle().Foreground(accent.Color()).Render(c.HeaderIcon()) + " " + title(c.props.Title)
	if c.AllDone() {
		head += "  " + lipgloss.NewStyle().Foreground(styles.TextInverse).Background(styles.Green).Bold(true).Padding(0, 1).Render("Done")
	} else {
		head += "  " + subtle(fmt.Sprintf("%d/%d", done, total))
	}
	parts := []string{head}

	focused := -1
	if c.focused {
		focused = c.focus.index
	}
	retryAt := make(map[int]int)
	for slot, i := range c.retrySteps() {
		retryAt[i] = slot
	}

	for i, s := range c.props.Steps {
		labelStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
		switch s.Status {
		case StepPending:
			labelStyle = labelStyle.Foreground(styles.TextMuted)
		case StepRunning:
			labelStyle = labelStyle.Bold(true)
		case StepError:
			labelStyle = labelStyle.Foreground(styles.Rose)
		}
		line := c.stepIcon(s.Status) + " " + labelStyle.Render(s.Label)
		if slot, ok := retryAt[i]; ok {
			line += " " + renderButton(Action{Label: "Retry", Style: StyleOutline}, focused == slot, false, toneNormal)
		}
		parts = append(parts, line)
		if s.Detail != "" {
			parts = append(parts, "  "+lipgloss.NewStyle().Foreground(styles.TextMuted).Width(inner-2).Render(s.Detail))
		}
	}

	if footer := c.footerActions(); len(footer) > 0 {
		parts = append(parts, renderActionRow(footer, focused-len(retryAt), nil, toneNormal))
	}

	shell := Shell{Accent: accent, Focused: c.focused}
	return shell.Render(w, strings.Join(parts, "\n"))
}
