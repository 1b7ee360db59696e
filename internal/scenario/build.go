// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/coworker-tui/internal/cards"
)

// Options carries the display settings cards are built with.
type Options struct {
	Pacing   cards.Pacing
	MaxWidth int
	// Compact renders every prompt in its compact variant.
	Compact bool
}

const (
	defaultStepMs          = 900
	defaultPromptResolved  = "Done"
	defaultErrorResolved   = "Resolved"
	defaultCancelledReason = "Cancelled"
)

// buildEnv wires card callbacks back to the player. The zero value builds
// cards whose callbacks do nothing, which is how scenarios are validated.
type buildEnv struct {
	opts    Options
	outcome func(label, detail string) tea.Cmd
	retry   func(step int) tea.Cmd
}

func (e buildEnv) emit(label, detail string) tea.Cmd {
	if e.outcome == nil {
		return nil
	}
	return e.outcome(label, detail)
}

func (e buildEnv) emitter(label, detail string) func() tea.Cmd {
	return func() tea.Cmd { return e.emit(label, detail) }
}

// =============================================================================
// CARD CONSTRUCTION
// =============================================================================

// Build creates the card described by s.
func (s CardSpec) Build(env buildEnv) (cards.Card, error) {
	accent, err := cards.ParseAccent(s.Accent)
	if err != nil {
		return nil, fmt.Errorf("%s card: %w", s.Type, err)
	}

	var card cards.Card
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "result":
		card, err = s.buildResult(env, accent)
	case "prompt":
		card, err = s.buildPrompt(env)
	case "draft":
		card, err = s.buildDraft(env, accent)
	case "choice":
		card, err = s.buildChoice(env, accent)
	case "form":
		card, err = s.buildForm(env, accent)
	case "progress":
		card, err = s.buildProgress(env, accent)
	case "error":
		card, err = s.buildError(env)
	case "batch":
		card, err = s.buildBatch(env, accent)
	default:
		return nil, fmt.Errorf("%q: %w", s.Type, ErrUnknownCard)
	}
	if err != nil {
		return nil, fmt.Errorf("%s card: %w", s.Type, err)
	}
	return card, nil
}

// Blocking reports whether the player waits for this card's outcome.
// Result cards never resolve, so they never block.
func (s CardSpec) Blocking() bool {
	return strings.ToLower(strings.TrimSpace(s.Type)) != "result"
}

func buildActions(env buildEnv, specs []ActionSpec) ([]cards.Action, error) {
	out := make([]cards.Action, 0, len(specs))
	for _, a := range specs {
		style, err := cards.ParseActionStyle(a.Style)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", a.Label, err)
		}
		out = append(out, cards.Action{
			Label:   a.Label,
			Style:   style,
			Icon:    a.Icon,
			OnClick: env.emitter(a.Label, a.Label),
		})
	}
	return out, nil
}

func (s CardSpec) buildResult(env buildEnv, accent cards.Accent) (cards.Card, error) {
	body, err := s.Body.build()
	if err != nil {
		return nil, err
	}
	actions, err := buildActions(env, s.Actions)
	if err != nil {
		return nil, err
	}

	props := cards.ResultProps{
		Title:        s.Title,
		Subtitle:     s.Subtitle,
		Accent:       accent,
		Body:         body,
		Notification: s.Notification,
		Actions:      actions,
		MaxWidth:     env.opts.MaxWidth,
	}
	if s.Schedule != "" {
		props.Schedule = &cards.Schedule{
			Label:     s.Schedule,
			OnEdit:    env.emitter("edit_schedule", s.Schedule),
			OnTurnOff: env.emitter("turn_off_schedule", s.Schedule),
		}
	}
	return cards.NewResultCard(props), nil
}

func (b *BodySpec) build() (cards.ResultBody, error) {
	if b == nil {
		return nil, nil
	}
	switch strings.ToLower(b.Kind) {
	case "", "prose":
		return cards.ProseBody{Text: b.Text}, nil
	case "highlights":
		items := make([]cards.HighlightItem, 0, len(b.Items))
		for _, it := range b.Items {
			dot, err := cards.ParseAccent(it.Dot)
			if err != nil {
				return nil, err
			}
			items = append(items, cards.HighlightItem{Text: it.Text, Dot: dot})
		}
		return cards.HighlightsBody{Items: items}, nil
	case "key_value":
		rows := make([]cards.KeyValueRow, 0, len(b.Pairs))
		for _, p := range b.Pairs {
			rows = append(rows, cards.KeyValueRow{Label: p.Label, Value: p.Value})
		}
		return cards.KeyValueBody{Rows: rows}, nil
	case "table":
		return cards.TableBody{Columns: b.Columns, Rows: b.Rows}, nil
	case "sections":
		sections := make([]cards.Section, 0, len(b.Sections))
		for _, sec := range b.Sections {
			sections = append(sections, cards.Section{Heading: sec.Heading, Content: sec.Content})
		}
		return cards.SectionsBody{Sections: sections}, nil
	default:
		return nil, fmt.Errorf("unknown body kind %q", b.Kind)
	}
}

func (s CardSpec) buildPrompt(env buildEnv) (cards.Card, error) {
	severity, err := cards.ParseSeverity(s.Severity)
	if err != nil {
		return nil, err
	}
	actions, err := buildActions(env, s.Actions)
	if err != nil {
		return nil, err
	}

	variant := cards.PromptStandard
	if s.Compact || env.opts.Compact {
		variant = cards.PromptCompact
	}
	return cards.NewPromptCard(cards.PromptProps{
		Message:         s.Message,
		Actions:         actions,
		Variant:         variant,
		Severity:        severity,
		Consequence:     s.Consequence,
		ConfirmText:     s.ConfirmText,
		ResolvedMessage: orDefault(s.Resolved, defaultPromptResolved),
		MaxWidth:        env.opts.MaxWidth,
	})
}

func (s CardSpec) buildDraft(env buildEnv, accent cards.Accent) (cards.Card, error) {
	fields := make([]cards.DraftField, 0, len(s.Fields))
	for _, f := range s.Fields {
		switch strings.ToLower(f.Kind) {
		case "", "text":
			fields = append(fields, cards.DraftText{Label: f.Label, Value: f.Value, Multiline: f.Multiline, Locked: f.Locked})
		case "header":
			fields = append(fields, cards.DraftHeader{Label: f.Label, Value: f.Value, Locked: f.Locked})
		case "readonly":
			fields = append(fields, cards.DraftReadonly{Label: f.Label, Value: f.Value})
		case "chips":
			fields = append(fields, cards.DraftChips{Label: f.Label, Chips: f.Chips})
		default:
			return nil, fmt.Errorf("unknown draft field kind %q", f.Kind)
		}
	}

	return cards.NewDraftCard(cards.DraftProps{
		Title:  s.Title,
		Fields: fields,
		Accent: accent,
		OnApprove: func(final []cards.DraftField) tea.Cmd {
			return env.emit("approve", draftSummary(final))
		},
		OnDeny:          env.emitter("deny", s.Title),
		ApprovedMessage: s.Resolved,
		Pacing:          env.opts.Pacing,
		MaxWidth:        env.opts.MaxWidth,
	}), nil
}

// draftSummary returns the first header or text value of a draft.
func draftSummary(fields []cards.DraftField) string {
	for _, f := range fields {
		switch f := f.(type) {
		case cards.DraftHeader:
			return f.Value
		case cards.DraftText:
			return f.Value
		}
	}
	return ""
}

func (s CardSpec) buildChoice(env buildEnv, accent cards.Accent) (cards.Card, error) {
	layout, err := cards.ParseChoiceLayout(s.Layout)
	if err != nil {
		return nil, err
	}

	options := make([]cards.ChoiceOption, 0, len(s.Options))
	for _, o := range s.Options {
		attrs := make([]cards.Attribute, 0, len(o.Attributes))
		for _, a := range o.Attributes {
			hl, err := cards.ParseHighlight(a.Highlight)
			if err != nil {
				return nil, fmt.Errorf("option %q: %w", o.ID, err)
			}
			attrs = append(attrs, cards.Attribute{Label: a.Label, Value: a.Value, Highlight: hl})
		}
		options = append(options, cards.ChoiceOption{
			ID:         o.ID,
			Title:      o.Title,
			Subtitle:   o.Subtitle,
			Detail:     o.Detail,
			Icon:       o.Icon,
			Badge:      o.Badge,
			Attributes: attrs,
		})
	}

	return cards.NewChoiceCard(cards.ChoiceProps{
		Prompt:  s.Prompt,
		Options: options,
		Layout:  layout,
		Multi:   s.Multi,
		Accent:  accent,
		OnSelect: func(selected []cards.ChoiceOption) tea.Cmd {
			ids := make([]string, len(selected))
			titles := make([]string, len(selected))
			for i, o := range selected {
				ids[i] = o.ID
				titles[i] = o.Title
			}
			return env.emit(strings.Join(ids, ","), strings.Join(titles, ", "))
		},
		Pacing:   env.opts.Pacing,
		MaxWidth: env.opts.MaxWidth,
	})
}

func (s CardSpec) buildForm(env buildEnv, accent cards.Accent) (cards.Card, error) {
	fields := make([]cards.FormField, 0, len(s.Fields))
	for _, f := range s.Fields {
		field, err := f.formField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	props := cards.FormProps{
		Title:       s.Title,
		Description: s.Description,
		Fields:      fields,
		Accent:      accent,
		OnSubmit: func(values cards.FormValues) tea.Cmd {
			return env.emit("submit", formSummary(values))
		},
		ResolvedMessage: s.Resolved,
		MaxWidth:        env.opts.MaxWidth,
	}
	if s.Cancellable {
		props.OnCancel = env.emitter("cancel", s.Title)
	}
	return cards.NewFormCard(props)
}

func (f FieldSpec) formField() (cards.FormField, error) {
	switch strings.ToLower(f.Kind) {
	case "", "text":
		return cards.TextField{Key: f.Key, Label: f.Label, Placeholder: f.Placeholder, Default: f.Value, Required: f.Required}, nil
	case "textarea":
		return cards.TextareaField{Key: f.Key, Label: f.Label, Placeholder: f.Placeholder, Default: f.Value, Required: f.Required}, nil
	case "number":
		return cards.NumberField{Key: f.Key, Label: f.Label, Default: f.Number, Unit: f.Unit, Required: f.Required}, nil
	case "select":
		return cards.SelectField{Key: f.Key, Label: f.Label, Options: f.Options, Default: f.Value, Required: f.Required}, nil
	case "toggle":
		return cards.ToggleField{Key: f.Key, Label: f.Label, Description: f.Description, Default: f.On}, nil
	case "date":
		return cards.DateField{Key: f.Key, Label: f.Label, Default: f.Value, Required: f.Required}, nil
	case "date_range":
		return cards.DateRangeField{Key: f.Key, Label: f.Label, StartDefault: f.Start, EndDefault: f.End, Required: f.Required}, nil
	case "chips":
		return cards.ChipsField{Key: f.Key, Label: f.Label, Placeholder: f.Placeholder, Default: f.Chips, Required: f.Required}, nil
	default:
		return nil, fmt.Errorf("unknown form field kind %q", f.Kind)
	}
}

// formSummary renders submitted values as sorted key=value pairs.
func formSummary(values cards.FormValues) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := values[k]
		if list, ok := v.([]string); ok {
			v = strings.Join(list, "|")
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ", ")
}

func (s CardSpec) buildProgress(env buildEnv, accent cards.Accent) (cards.Card, error) {
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("progress needs at least one step")
	}
	if s.FailAt < 0 || s.FailAt > len(s.Steps) {
		return nil, fmt.Errorf("fail_at %d is outside 1..%d", s.FailAt, len(s.Steps))
	}
	actions, err := buildActions(env, s.Actions)
	if err != nil {
		return nil, err
	}

	steps := make([]cards.ProgressStep, len(s.Steps))
	for i, label := range s.Steps {
		steps[i] = cards.ProgressStep{Label: label, Status: cards.StepPending}
	}
	steps[0].Status = cards.StepRunning

	props := cards.ProgressProps{
		Title:           s.Title,
		Steps:           steps,
		Accent:          accent,
		Actions:         actions,
		ResolvedMessage: orDefault(s.Resolved, defaultPromptResolved),
		MaxWidth:        env.opts.MaxWidth,
	}
	if s.Cancellable {
		props.OnCancel = env.emitter("cancel", s.Title)
		props.CancelledMessage = defaultCancelledReason
	}
	if env.retry != nil {
		props.OnRetry = env.retry
	}
	return cards.NewProgressCard(props), nil
}

// stepDuration is how long each progress step runs.
func (s CardSpec) stepDuration() time.Duration {
	ms := s.StepMs
	if ms <= 0 {
		ms = defaultStepMs
	}
	return time.Duration(ms) * time.Millisecond
}

func (s CardSpec) buildError(env buildEnv) (cards.Card, error) {
	errType, err := cards.ParseErrorType(s.ErrorType)
	if err != nil {
		return nil, err
	}
	actions, err := buildActions(env, s.Actions)
	if err != nil {
		return nil, err
	}
	return cards.NewErrorCard(cards.ErrorProps{
		Type:            errType,
		Title:           s.Title,
		Detail:          s.Detail,
		Context:         s.Context,
		Actions:         actions,
		ResolvedMessage: orDefault(s.Resolved, defaultErrorResolved),
		MaxWidth:        env.opts.MaxWidth,
	})
}

func (s CardSpec) buildBatch(env buildEnv, accent cards.Accent) (cards.Card, error) {
	items := make([]cards.BatchItem, 0, len(s.Items))
	for _, it := range s.Items {
		actions := make([]cards.Action, 0, len(it.Actions))
		for _, a := range it.Actions {
			style, err := cards.ParseActionStyle(a.Style)
			if err != nil {
				return nil, fmt.Errorf("item %q: %w", it.ID, err)
			}
			// Batch actions report through OnComplete, not per click.
			actions = append(actions, cards.Action{Label: a.Label, Style: style, Icon: a.Icon})
		}
		items = append(items, cards.BatchItem{
			ID:              it.ID,
			Summary:         it.Summary,
			ExpandedContent: it.Expanded,
			Actions:         actions,
		})
	}

	return cards.NewBatchReviewCard(cards.BatchProps{
		Title:  s.Title,
		Items:  items,
		Accent: accent,
		OnComplete: func(results []cards.BatchResult) tea.Cmd {
			return env.emit("complete", batchSummary(results))
		},
		MaxWidth: env.opts.MaxWidth,
	})
}

// batchSummary counts results per action, e.g. "2 Archive, 1 Skipped".
func batchSummary(results []cards.BatchResult) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range results {
		if counts[r.Action] == 0 {
			order = append(order, r.Action)
		}
		counts[r.Action]++
	}
	parts := make([]string, 0, len(order))
	for _, a := range order {
		parts = append(parts, fmt.Sprintf("%d %s", counts[a], a))
	}
	return strings.Join(parts, ", ")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
