// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gallery renders every card type in its notable states without a
// running program. It backs the gallery command and the non-interactive
// fallback.
package gallery

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/cards"
	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// Sample is one rendered card state.
type Sample struct {
	Kind  string
	State string
	Card  cards.Card
}

// Kinds lists the card types in display order.
var Kinds = []string{"result", "prompt", "draft", "choice", "form", "progress", "error", "batch"}

// instant resolves timed transitions immediately.
var instant = cards.Pacing{ChoiceAutoResolve: time.Nanosecond, DraftCollapse: time.Nanosecond}

var (
	kindStyle  = lipgloss.NewStyle().Bold(true).Foreground(styles.Violet)
	stateStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// =============================================================================
// RENDERING
// =============================================================================

// Render draws every sample of the given kinds, or of all kinds when none
// are given, within width columns.
func Render(width int, kinds ...string) string {
	var b strings.Builder
	for i, s := range Samples(kinds...) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(kindStyle.Render(strings.ToUpper(s.Kind)))
		b.WriteString(stateStyle.Render("  " + s.State))
		b.WriteString("\n")
		b.WriteString(s.Card.View(width))
	}
	return b.String()
}

// Samples builds fresh samples of the given kinds, or of all kinds.
func Samples(kinds ...string) []Sample {
	want := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		want[strings.ToLower(k)] = true
	}

	var out []Sample
	add := func(kind, state string, c cards.Card) {
		if len(want) == 0 || want[kind] {
			out = append(out, Sample{Kind: kind, State: state, Card: c})
		}
	}

	resultSamples(add)
	promptSamples(add)
	draftSamples(add)
	choiceSamples(add)
	formSamples(add)
	progressSamples(add)
	errorSamples(add)
	batchSamples(add)
	return out
}

// settle runs a card's timer command and feeds the result back, the way the
// transcript would.
func settle(c cards.Card, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(cards.TimerMsg); !ok {
			return
		}
		cmd, _ = c.Update(msg)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// =============================================================================
// SAMPLES
// =============================================================================

type addFunc func(kind, state string, c cards.Card)

func resultSamples(add addFunc) {
	add("result", "prose", cards.NewResultCard(cards.ResultProps{
		Title:  "Weekly summary",
		Accent: cards.AccentViolet,
		Body:   cards.ProseBody{Text: "Shipped the **billing export** and closed 14 tickets. Two reviews are still open."},
	}))
	add("result", "highlights with schedule", cards.NewResultCard(cards.ResultProps{
		Title:    "Morning digest",
		Subtitle: "12 new messages",
		Accent:   cards.AccentBlue,
		Body: cards.HighlightsBody{Items: []cards.HighlightItem{
			{Text: "Contract renewal due Friday", Dot: cards.AccentAmber},
			{Text: "Budget approved", Dot: cards.AccentGreen},
		}},
		Notification: "Next digest at 7:00",
		Schedule:     &cards.Schedule{Label: "Weekdays at 7:00"},
	}))
	add("result", "key/value", cards.NewResultCard(cards.ResultProps{
		Title: "Deploy",
		Body: cards.KeyValueBody{Rows: []cards.KeyValueRow{
			{Label: "Service", Value: "billing-api"},
			{Label: "Version", Value: "v2.4.1"},
			{Label: "Duration", Value: "3m 12s"},
		}},
	}))
	add("result", "table", cards.NewResultCard(cards.ResultProps{
		Title: "Open reviews",
		Body: cards.TableBody{
			Columns: []string{"PR", "Author", "Age"},
			Rows: [][]string{
				{"#412", "lena", "2d"},
				{"#418", "omar", "5h"},
			},
		},
		Actions: []cards.Action{{Label: "Open list", Style: cards.StyleText}},
	}))
	add("result", "sections", cards.NewResultCard(cards.ResultProps{
		Title:  "Trip plan",
		Accent: cards.AccentGreen,
		Body: cards.SectionsBody{Sections: []cards.Section{
			{Heading: "Travel", Content: "Flight LH 1234, seat 14C."},
			{Heading: "Stay", Content: "Hotel near the venue, three nights."},
		}},
	}))
}

func promptSamples(add addFunc) {
	actions := func() []cards.Action {
		return []cards.Action{
			{Label: "Share", Style: cards.StylePrimary},
			{Label: "Not now", Style: cards.StyleText},
		}
	}

	add("prompt", "standard", must(cards.NewPromptCard(cards.PromptProps{
		Message: "Share the Q3 report with finance?",
		Actions: actions(),
	})))
	add("prompt", "compact", must(cards.NewPromptCard(cards.PromptProps{
		Message: "Accept the new meeting time?",
		Actions: actions(),
		Variant: cards.PromptCompact,
	})))
	add("prompt", "destructive with confirmation", must(cards.NewPromptCard(cards.PromptProps{
		Message:     "Delete 33 promotional emails?",
		Severity:    cards.SeverityDestructive,
		Consequence: "Deleted mail is gone after 30 days.",
		ConfirmText: "delete",
		Actions: []cards.Action{
			{Label: "Delete", Style: cards.StylePrimary},
			{Label: "Keep", Style: cards.StyleText},
		},
	})))

	resolved := must(cards.NewPromptCard(cards.PromptProps{
		Message:         "Share the Q3 report with finance?",
		Actions:         actions(),
		ResolvedMessage: "Shared with finance",
	}))
	resolved.Invoke(0)
	add("prompt", "resolved", resolved)
}

func draftFields() []cards.DraftField {
	return []cards.DraftField{
		cards.DraftReadonly{Label: "To", Value: "dana@northwind.example"},
		cards.DraftHeader{Label: "Subject", Value: "Re: Contract renewal"},
		cards.DraftText{Label: "Body", Multiline: true, Value: "Hi Dana,\n\nCould you send the revised pricing before Thursday?\n\nThanks"},
		cards.DraftChips{Label: "Attachments", Chips: []string{"renewal.pdf"}},
	}
}

func draftSamples(add addFunc) {
	add("draft", "review", cards.NewDraftCard(cards.DraftProps{
		Title:  "Reply to Northwind",
		Fields: draftFields(),
		Accent: cards.AccentBlue,
		Pacing: instant,
	}))

	editing := cards.NewDraftCard(cards.DraftProps{Title: "Reply to Northwind", Fields: draftFields(), Pacing: instant})
	editing.Edit()
	add("draft", "editing", editing)

	approved := cards.NewDraftCard(cards.DraftProps{Title: "Reply to Northwind", Fields: draftFields(), Pacing: instant})
	settle(approved, approved.Approve())
	add("draft", "approved", approved)
}

func choiceOptions() []cards.ChoiceOption {
	return []cards.ChoiceOption{
		{ID: "lh", Title: "Lufthansa", Subtitle: "07:10, 1h 45m", Badge: "Fastest"},
		{ID: "ew", Title: "Eurowings", Subtitle: "11:40, 2h 10m"},
		{ID: "fr", Title: "Ryanair", Subtitle: "06:05, 2h 55m", Badge: "Cheapest"},
	}
}

func choiceSamples(add addFunc) {
	add("choice", "cards", must(cards.NewChoiceCard(cards.ChoiceProps{
		Prompt:  "Which flight?",
		Options: choiceOptions(),
		Pacing:  instant,
	})))
	add("choice", "list, multi-select", must(cards.NewChoiceCard(cards.ChoiceProps{
		Prompt:  "Extras",
		Options: choiceOptions(),
		Layout:  cards.LayoutList,
		Multi:   true,
		Pacing:  instant,
	})))
	add("choice", "pills", must(cards.NewChoiceCard(cards.ChoiceProps{
		Prompt: "Pick a slot",
		Options: []cards.ChoiceOption{
			{ID: "am", Title: "9:30"},
			{ID: "noon", Title: "12:30"},
			{ID: "pm", Title: "15:00"},
		},
		Layout: cards.LayoutPills,
		Pacing: instant,
	})))

	compare := []cards.ChoiceOption{
		{ID: "basic", Title: "Basic", Attributes: []cards.Attribute{
			{Label: "Price", Value: "$8", Highlight: cards.HighlightBest},
			{Label: "Storage", Value: "50 GB", Highlight: cards.HighlightWorst},
		}},
		{ID: "pro", Title: "Pro", Badge: "Popular", Attributes: []cards.Attribute{
			{Label: "Price", Value: "$20"},
			{Label: "Storage", Value: "1 TB"},
		}},
		{ID: "team", Title: "Team", Attributes: []cards.Attribute{
			{Label: "Price", Value: "$45", Highlight: cards.HighlightWorst},
			{Label: "Storage", Value: "5 TB", Highlight: cards.HighlightBest},
		}},
	}
	add("choice", "comparison", must(cards.NewChoiceCard(cards.ChoiceProps{
		Prompt:  "Choose a plan",
		Options: compare,
		Layout:  cards.LayoutComparison,
		Pacing:  instant,
	})))

	resolved := must(cards.NewChoiceCard(cards.ChoiceProps{Prompt: "Which flight?", Options: choiceOptions(), Pacing: instant}))
	settle(resolved, resolved.Select("ew"))
	add("choice", "resolved", resolved)
}

func formFields() []cards.FormField {
	return []cards.FormField{
		cards.TextField{Key: "city", Label: "City", Placeholder: "Lisbon", Required: true},
		cards.NumberField{Key: "people", Label: "Headcount", Default: cards.Float(12), Unit: "people"},
		cards.DateRangeField{Key: "dates", Label: "Dates", StartDefault: "2025-06-12", EndDefault: "2025-06-10"},
		cards.SelectField{Key: "budget", Label: "Budget", Options: []string{"Low", "Medium", "High"}, Default: "Medium"},
		cards.ToggleField{Key: "catering", Label: "Catering", Description: "Lunch on both days", Default: true},
		cards.ChipsField{Key: "needs", Label: "Must have", Default: []string{"projector"}},
	}
}

func formSamples(add addFunc) {
	add("form", "empty", must(cards.NewFormCard(cards.FormProps{
		Title:       "Team offsite",
		Description: "I will look for venues that match.",
		Fields:      formFields(),
		Accent:      cards.AccentGreen,
		OnCancel:    func() tea.Cmd { return nil },
	})))

	invalid := must(cards.NewFormCard(cards.FormProps{Title: "Team offsite", Fields: formFields()}))
	invalid.Validate()
	add("form", "validation errors", invalid)

	submitted := must(cards.NewFormCard(cards.FormProps{
		Title:           "Hotel",
		Fields:          []cards.FormField{cards.TextField{Key: "city", Label: "City", Default: "Berlin"}},
		ResolvedMessage: "Searching hotels in Berlin",
	}))
	submitted.Submit()
	add("form", "submitted", submitted)
}

func progressSteps(statuses ...cards.StepStatus) []cards.ProgressStep {
	labels := []string{"Collect requirements", "Search listings", "Check availability", "Rank results"}
	steps := make([]cards.ProgressStep, len(labels))
	for i, l := range labels {
		steps[i] = cards.ProgressStep{Label: l}
		if i < len(statuses) {
			steps[i].Status = statuses[i]
		}
	}
	return steps
}

func progressSamples(add addFunc) {
	add("progress", "running", cards.NewProgressCard(cards.ProgressProps{
		Title:    "Venue search",
		Steps:    progressSteps(cards.StepDone, cards.StepRunning),
		Accent:   cards.AccentBlue,
		OnCancel: func() tea.Cmd { return nil },
	}))

	failed := progressSteps(cards.StepDone, cards.StepError)
	failed[1].Detail = "Booking site timed out"
	add("progress", "failed step", cards.NewProgressCard(cards.ProgressProps{
		Title:   "Venue search",
		Steps:   failed,
		OnRetry: func(int) tea.Cmd { return nil },
	}))

	add("progress", "done", cards.NewProgressCard(cards.ProgressProps{
		Title:   "Venue search",
		Steps:   progressSteps(cards.StepDone, cards.StepDone, cards.StepDone, cards.StepDone),
		Actions: []cards.Action{{Label: "Open results", Style: cards.StylePrimary}},
	}))
}

func errorSamples(add addFunc) {
	props := func() cards.ErrorProps {
		return cards.ErrorProps{
			Type:    cards.ErrorPermissionDenied,
			Title:   "Cannot read Priya's calendar",
			Detail:  "The calendar is shared as free/busy only.",
			Context: "GET /calendars/priya/events -> 403 insufficient scope",
			Actions: []cards.Action{
				{Label: "Request access", Style: cards.StylePrimary},
				{Label: "Skip", Style: cards.StyleText},
			},
		}
	}

	add("error", "collapsed", must(cards.NewErrorCard(props())))

	expanded := must(cards.NewErrorCard(props()))
	expanded.ToggleContext()
	add("error", "context expanded", expanded)

	limited := props()
	limited.Type = cards.ErrorRateLimited
	limited.Title = "Too many requests"
	limited.Detail = "The mail provider asked us to slow down."
	limited.Context = ""
	add("error", "rate limited", must(cards.NewErrorCard(limited)))
}

func batchItems() []cards.BatchItem {
	actions := func() []cards.Action {
		return []cards.Action{
			{Label: "Unsubscribe", Style: cards.StylePrimary},
			{Label: "Keep"},
		}
	}
	return []cards.BatchItem{
		{ID: "dev", Summary: "Weekly Dev Digest (4 unread)", ExpandedContent: "Last opened 3 weeks ago.", Actions: actions()},
		{ID: "design", Summary: "Design Notes (2 unread)", ExpandedContent: "You opened the last issue.", Actions: actions()},
		{ID: "market", Summary: "Morning Market Brief (9 unread)", ExpandedContent: "Never opened.", Actions: actions()},
	}
}

func batchSamples(add addFunc) {
	mid := must(cards.NewBatchReviewCard(cards.BatchProps{Title: "Newsletter cleanup", Items: batchItems(), Accent: cards.AccentAmber}))
	mid.Act(0)
	mid.ToggleExpanded()
	add("batch", "in progress", mid)

	done := must(cards.NewBatchReviewCard(cards.BatchProps{Title: "Newsletter cleanup", Items: batchItems()}))
	done.Act(0)
	done.SkipRemaining()
	add("batch", "completed", done)
}
