// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/coworker-tui/internal/cards"
)

// recorder collects the outcomes a card reports.
type recorder struct {
	labels  []string
	details []string
}

func (r *recorder) env() buildEnv {
	return buildEnv{
		outcome: func(label, detail string) tea.Cmd {
			r.labels = append(r.labels, label)
			r.details = append(r.details, detail)
			return nil
		},
	}
}

func TestBuildCardTypes(t *testing.T) {
	sc := mustBuiltin(t, "tour")

	var types []string
	for _, b := range sc.Beats {
		if b.Card == nil {
			continue
		}
		card, err := b.Card.Build(buildEnv{})
		require.NoError(t, err)
		switch card.(type) {
		case *cards.ResultCard:
			types = append(types, "result")
		case *cards.PromptCard:
			types = append(types, "prompt")
		case *cards.DraftCard:
			types = append(types, "draft")
		case *cards.ChoiceCard:
			types = append(types, "choice")
		case *cards.FormCard:
			types = append(types, "form")
		case *cards.ProgressCard:
			types = append(types, "progress")
		case *cards.ErrorCard:
			types = append(types, "error")
		case *cards.BatchReviewCard:
			types = append(types, "batch")
		}
	}
	assert.ElementsMatch(t,
		[]string{"result", "prompt", "draft", "choice", "form", "progress", "error", "batch"},
		types)
}

func TestBuildRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		spec CardSpec
	}{
		{"accent", CardSpec{Type: "result", Accent: "plaid"}},
		{"action style", CardSpec{Type: "prompt", Actions: []ActionSpec{{Label: "Go", Style: "loud"}}}},
		{"body kind", CardSpec{Type: "result", Body: &BodySpec{Kind: "poem"}}},
		{"draft field", CardSpec{Type: "draft", Fields: []FieldSpec{{Kind: "slider"}}}},
		{"form field", CardSpec{Type: "form", Fields: []FieldSpec{{Kind: "slider", Key: "x"}}}},
		{"layout", CardSpec{Type: "choice", Layout: "grid", Options: []OptionSpec{{ID: "a"}}}},
		{"highlight", CardSpec{Type: "choice", Options: []OptionSpec{{ID: "a", Attributes: []AttributeSpec{{Label: "x", Highlight: "meh"}}}}}},
		{"no steps", CardSpec{Type: "progress"}},
		{"fail_at", CardSpec{Type: "progress", Steps: []string{"one"}, FailAt: 2}},
		{"error type", CardSpec{Type: "error", ErrorType: "gremlins", Actions: []ActionSpec{{Label: "Retry"}}}},
		{"batch", CardSpec{Type: "batch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.spec.Build(buildEnv{})
			assert.Error(t, err)
		})
	}
}

func TestBuildPromptReportsActionLabel(t *testing.T) {
	var rec recorder
	spec := CardSpec{
		Type:    "prompt",
		Message: "Send it?",
		Actions: []ActionSpec{{Label: "Send", Style: "primary"}, {Label: "Wait", Style: "text"}},
	}
	card, err := spec.Build(rec.env())
	require.NoError(t, err)

	p := card.(*cards.PromptCard)
	p.Invoke(1)
	assert.True(t, p.Resolved())
	assert.Equal(t, []string{"Wait"}, rec.labels)

	_, msg := p.Resolution()
	assert.Equal(t, defaultPromptResolved, msg)
}

func TestBuildPromptCompactOption(t *testing.T) {
	spec := CardSpec{Type: "prompt", Message: "Ok?", Severity: "destructive", Actions: []ActionSpec{{Label: "Ok"}}}
	card, err := spec.Build(buildEnv{opts: Options{Compact: true}})
	require.NoError(t, err)
	assert.Equal(t, cards.SeverityNone, card.(*cards.PromptCard).Severity())
}

func TestBuildResultSchedule(t *testing.T) {
	var rec recorder
	spec := CardSpec{
		Type:     "result",
		Title:    "Digest",
		Body:     &BodySpec{Kind: "key_value", Pairs: []PairSpec{{Label: "Unread", Value: "4"}}},
		Schedule: "Daily at 7:00",
	}
	card, err := spec.Build(rec.env())
	require.NoError(t, err)

	r := card.(*cards.ResultCard)
	assert.IsType(t, cards.KeyValueBody{}, r.Body())
	r.EditSchedule()
	r.TurnOffSchedule()
	assert.Equal(t, []string{"edit_schedule", "turn_off_schedule"}, rec.labels)
	assert.False(t, r.Resolved())
}

func TestBuildProgressStartsFirstStep(t *testing.T) {
	spec := CardSpec{Type: "progress", Steps: []string{"one", "two"}}
	card, err := spec.Build(buildEnv{})
	require.NoError(t, err)

	steps := card.(*cards.ProgressCard).Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, cards.StepRunning, steps[0].Status)
	assert.Equal(t, cards.StepPending, steps[1].Status)
	assert.Equal(t, defaultStepMs, int(spec.stepDuration().Milliseconds()))
}

func TestBuildFormSubmitSummary(t *testing.T) {
	var rec recorder
	spec := CardSpec{
		Type: "form",
		Fields: []FieldSpec{
			{Kind: "text", Key: "city", Label: "City", Value: "Lisbon"},
			{Kind: "toggle", Key: "catering", Label: "Catering", On: true},
			{Kind: "chips", Key: "needs", Label: "Needs", Chips: []string{"wifi", "quiet"}},
		},
	}
	card, err := spec.Build(rec.env())
	require.NoError(t, err)

	f := card.(*cards.FormCard)
	f.Submit()
	require.True(t, f.Resolved())
	assert.Equal(t, []string{"submit"}, rec.labels)
	assert.Equal(t, "catering=true, city=Lisbon, needs=wifi|quiet", rec.details[0])
}

func TestBuildChoiceReportsIDs(t *testing.T) {
	var rec recorder
	spec := CardSpec{
		Type:  "choice",
		Multi: true,
		Options: []OptionSpec{
			{ID: "a", Title: "Alpha"},
			{ID: "b", Title: "Beta"},
			{ID: "c", Title: "Gamma"},
		},
	}
	card, err := spec.Build(rec.env())
	require.NoError(t, err)

	c := card.(*cards.ChoiceCard)
	c.Select("c")
	c.Select("a")
	c.Confirm()
	assert.Equal(t, []string{"a,c"}, rec.labels)
	assert.Equal(t, []string{"Alpha, Gamma"}, rec.details)
}

func TestBatchSummary(t *testing.T) {
	got := batchSummary([]cards.BatchResult{
		{ID: "1", Action: "Archive"},
		{ID: "2", Action: "Keep"},
		{ID: "3", Action: "Archive"},
		{ID: "4", Action: cards.SkippedAction},
	})
	assert.Equal(t, "2 Archive, 1 Keep, 1 Skipped", got)
}

func TestBlocking(t *testing.T) {
	assert.False(t, CardSpec{Type: "result"}.Blocking())
	assert.False(t, CardSpec{Type: "Result"}.Blocking())
	assert.True(t, CardSpec{Type: "prompt"}.Blocking())
}
