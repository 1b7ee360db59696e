// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steps(statuses ...StepStatus) []ProgressStep {
	labels := []string{"Fetch invoices", "Match payments", "Upload ledger", "Notify owner"}
	out := make([]ProgressStep, len(statuses))
	for i, s := range statuses {
		out[i] = ProgressStep{Label: labels[i%len(labels)], Status: s}
	}
	return out
}

func TestProgressDerivedAccent(t *testing.T) {
	tests := []struct {
		name     string
		steps    []ProgressStep
		allDone  bool
		hasError bool
		accent   Accent
		badge    bool
	}{
		{"error", steps(StepDone, StepDone, StepError), false, true, AccentAmber, false},
		{"all done", steps(StepDone, StepDone, StepDone), true, false, AccentGreen, true},
		{"in flight", steps(StepDone, StepRunning, StepPending), false, false, AccentBlue, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewProgressCard(ProgressProps{Title: "Reconcile", Steps: tt.steps, Accent: AccentBlue})
			assert.Equal(t, tt.allDone, c.AllDone())
			assert.Equal(t, tt.hasError, c.HasError())
			assert.Equal(t, tt.accent, c.ShellAccent())

			view := c.View(60)
			if tt.badge {
				assert.Contains(t, view, "Done")
			} else {
				assert.NotContains(t, view, "Done")
			}
		})
	}
}

func TestProgressHeaderIcon(t *testing.T) {
	assert.Equal(t, "✓", NewProgressCard(ProgressProps{Steps: steps(StepDone)}).HeaderIcon())
	assert.Equal(t, "▲", NewProgressCard(ProgressProps{Steps: steps(StepError)}).HeaderIcon())
	assert.Equal(t, "◷", NewProgressCard(ProgressProps{Steps: steps(StepRunning)}).HeaderIcon())
}

func TestProgressNeverMutatesCallerSteps(t *testing.T) {
	in := steps(StepRunning, StepPending)
	c := NewProgressCard(ProgressProps{Steps: in})
	in[0].Status = StepError

	assert.Equal(t, StepRunning, c.Steps()[0].Status)
	c.SetSteps(steps(StepDone, StepDone))
	assert.True(t, c.AllDone())
}

func TestProgressCancelOnlyWhileRunning(t *testing.T) {
	var cancelled counter
	c := NewProgressCard(ProgressProps{
		Steps:    steps(StepDone, StepRunning),
		OnCancel: cancelled.fn,
	})
	assert.True(t, c.CancelVisible())
	assert.Contains(t, c.View(60), "Cancel")

	c.SetSteps(steps(StepDone, StepDone))
	assert.False(t, c.CancelVisible())
	assert.NotContains(t, c.View(60), "Cancel")
	assert.Nil(t, c.Cancel())
	assert.Equal(t, 0, cancelled.n)

	c.SetSteps(steps(StepDone, StepRunning))
	c.Cancel()
	assert.Equal(t, 1, cancelled.n)
	assert.False(t, c.Resolved(), "no cancelled message keeps the card open")
}

func TestProgressCancelledMessageResolves(t *testing.T) {
	var cancelled counter
	c := NewProgressCard(ProgressProps{
		Steps:            steps(StepRunning),
		OnCancel:         cancelled.fn,
		CancelledMessage: "Stopped",
	})
	c.Cancel()
	c.Cancel()

	assert.Equal(t, 1, cancelled.n)
	assert.Equal(t, "✗ Stopped", c.View(60))
}

func TestProgressRetry(t *testing.T) {
	var retried []int
	c := NewProgressCard(ProgressProps{
		Steps:   steps(StepDone, StepError, StepPending),
		OnRetry: func(i int) tea.Cmd { retried = append(retried, i); return nil },
	})
	assert.Contains(t, c.View(60), "Retry")

	c.Retry(0)
	c.Retry(2)
	c.Retry(9)
	c.Retry(1)
	assert.Equal(t, []int{1}, retried, "only failed steps retry")

	c.Focus()
	press(c, "enter")
	assert.Equal(t, []int{1, 1}, retried, "first slot is the retry button")
}

func TestProgressNoRetryWithoutHandler(t *testing.T) {
	c := NewProgressCard(ProgressProps{Steps: steps(StepError)})
	assert.NotContains(t, c.View(60), "Retry")
	assert.Nil(t, c.Retry(0))
	assert.False(t, c.Interactive())
}

func TestProgressActions(t *testing.T) {
	var opened counter
	c := NewProgressCard(ProgressProps{
		Steps:           steps(StepDone, StepDone),
		Actions:         []Action{{Label: "View report", Style: StylePrimary, OnClick: opened.fn}},
		ResolvedMessage: "Report opened",
	})
	assert.Contains(t, c.View(60), "View report")

	c.Focus()
	press(c, "enter")
	press(c, "enter")
	assert.Equal(t, 1, opened.n)
	assert.True(t, c.Resolved())
}

func TestProgressSpinnerTicksOnlyWhileRunning(t *testing.T) {
	c := NewProgressCard(ProgressProps{Steps: steps(StepRunning)})
	cmd := c.Init()
	require.NotNil(t, cmd)
	assert.Nil(t, c.Init(), "one tick loop at a time")

	tick := spinner.TickMsg{ID: c.spinner.ID()}
	next, _ := c.Update(tick)
	assert.NotNil(t, next)

	c.SetSteps(steps(StepDone))
	next, _ = c.Update(tick)
	assert.Nil(t, next, "loop stops once nothing runs")

	assert.NotNil(t, c.SetSteps(steps(StepRunning)), "loop restarts")
	foreign, _ := c.Update(spinner.TickMsg{ID: -1})
	assert.Nil(t, foreign)
}

func TestProgressEmptyStepsAreDone(t *testing.T) {
	c := NewProgressCard(ProgressProps{Title: "Nothing to do"})
	assert.True(t, c.AllDone())
	assert.Equal(t, AccentGreen, c.ShellAccent())
	done, total := c.Counts()
	assert.Equal(t, 0, done)
	assert.Equal(t, 0, total)
}

func TestParseStepStatus(t *testing.T) {
	for _, s := range []StepStatus{StepPending, StepRunning, StepDone, StepError} {
		got, err := ParseStepStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	_, err := ParseStepStatus("paused")
	assert.Error(t, err)
}
