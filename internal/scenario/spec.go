// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// SCENARIO DOCUMENT
// =============================================================================

// Scenario is a scripted conversation: an ordered list of beats played into
// the transcript.
type Scenario struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Beats       []Beat `yaml:"beats"`

	// Path is the file the scenario was read from; empty for built-ins.
	Path string `yaml:"-"`
}

// Beat is one step of a scenario. Exactly one of User, Agent (with or
// without Card) or Note is set.
type Beat struct {
	// User is a message typed by the user.
	User string `yaml:"user,omitempty"`
	// Agent is agent text; it may carry a card.
	Agent string    `yaml:"agent,omitempty"`
	Card  *CardSpec `yaml:"card,omitempty"`
	// Note is a muted system line.
	Note string `yaml:"note,omitempty"`

	// DelayMs shows the thinking indicator for this long before the beat.
	DelayMs  int    `yaml:"delay_ms,omitempty"`
	Thinking string `yaml:"thinking,omitempty"`

	// Replies maps a card outcome to the agent text that follows it. The
	// "*" key matches any outcome. "{value}" is replaced by the outcome
	// detail.
	Replies map[string]string `yaml:"replies,omitempty"`
}

// CardSpec describes a card in a scenario file. Type selects which of the
// remaining fields apply.
type CardSpec struct {
	Type     string `yaml:"type"`
	Title    string `yaml:"title,omitempty"`
	Subtitle string `yaml:"subtitle,omitempty"`
	Accent   string `yaml:"accent,omitempty"`
	Resolved string `yaml:"resolved,omitempty"`

	// result
	Body         *BodySpec `yaml:"body,omitempty"`
	Notification string    `yaml:"notification,omitempty"`
	Schedule     string    `yaml:"schedule,omitempty"`

	// prompt
	Message     string `yaml:"message,omitempty"`
	Severity    string `yaml:"severity,omitempty"`
	Consequence string `yaml:"consequence,omitempty"`
	ConfirmText string `yaml:"confirm_text,omitempty"`
	Compact     bool   `yaml:"compact,omitempty"`

	// prompt, result, progress, error
	Actions []ActionSpec `yaml:"actions,omitempty"`

	// draft and form
	Fields      []FieldSpec `yaml:"fields,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Cancellable bool        `yaml:"cancellable,omitempty"`

	// choice
	Prompt  string       `yaml:"prompt,omitempty"`
	Layout  string       `yaml:"layout,omitempty"`
	Multi   bool         `yaml:"multi,omitempty"`
	Options []OptionSpec `yaml:"options,omitempty"`

	// progress
	Steps      []string `yaml:"steps,omitempty"`
	StepMs     int      `yaml:"step_ms,omitempty"`
	FailAt     int      `yaml:"fail_at,omitempty"`
	FailDetail string   `yaml:"fail_detail,omitempty"`

	// error
	ErrorType string `yaml:"error_type,omitempty"`
	Detail    string `yaml:"detail,omitempty"`
	Context   string `yaml:"context,omitempty"`

	// batch
	Items []ItemSpec `yaml:"items,omitempty"`
}

// ActionSpec is a button.
type ActionSpec struct {
	Label string `yaml:"label"`
	Style string `yaml:"style,omitempty"`
	Icon  string `yaml:"icon,omitempty"`
}

// BodySpec is a result body. Kind is prose, highlights, key_value, table or
// sections.
type BodySpec struct {
	Kind     string          `yaml:"kind"`
	Text     string          `yaml:"text,omitempty"`
	Items    []HighlightSpec `yaml:"items,omitempty"`
	Pairs    []PairSpec      `yaml:"pairs,omitempty"`
	Columns  []string        `yaml:"columns,omitempty"`
	Rows     [][]string      `yaml:"rows,omitempty"`
	Sections []SectionSpec   `yaml:"sections,omitempty"`
}

// HighlightSpec is one highlights bullet.
type HighlightSpec struct {
	Text string `yaml:"text"`
	Dot  string `yaml:"dot,omitempty"`
}

// PairSpec is one key/value row.
type PairSpec struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

// SectionSpec is one headed section.
type SectionSpec struct {
	Heading string `yaml:"heading"`
	Content string `yaml:"content"`
}

// FieldSpec is a draft or form field. Kind selects the field type:
// draft fields are text, header, readonly and chips; form fields are text,
// textarea, number, select, toggle, date, date_range and chips.
type FieldSpec struct {
	Kind        string   `yaml:"kind"`
	Key         string   `yaml:"key,omitempty"`
	Label       string   `yaml:"label"`
	Value       string   `yaml:"value,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Multiline   bool     `yaml:"multiline,omitempty"`
	Locked      bool     `yaml:"locked,omitempty"`
	Required    bool     `yaml:"required,omitempty"`
	Chips       []string `yaml:"chips,omitempty"`
	Options     []string `yaml:"options,omitempty"`
	Number      *float64 `yaml:"number,omitempty"`
	Unit        string   `yaml:"unit,omitempty"`
	On          bool     `yaml:"on,omitempty"`
	Start       string   `yaml:"start,omitempty"`
	End         string   `yaml:"end,omitempty"`
}

// OptionSpec is a choice option.
type OptionSpec struct {
	ID         string          `yaml:"id"`
	Title      string          `yaml:"title"`
	Subtitle   string          `yaml:"subtitle,omitempty"`
	Detail     string          `yaml:"detail,omitempty"`
	Icon       string          `yaml:"icon,omitempty"`
	Badge      string          `yaml:"badge,omitempty"`
	Attributes []AttributeSpec `yaml:"attributes,omitempty"`
}

// AttributeSpec is one comparison row value.
type AttributeSpec struct {
	Label     string `yaml:"label"`
	Value     string `yaml:"value"`
	Highlight string `yaml:"highlight,omitempty"`
}

// ItemSpec is one batch review item.
type ItemSpec struct {
	ID       string       `yaml:"id"`
	Summary  string       `yaml:"summary"`
	Expanded string       `yaml:"expanded,omitempty"`
	Actions  []ActionSpec `yaml:"actions"`
}

// =============================================================================
// PARSING
// =============================================================================

var (
	// ErrUnknownCard is returned for a card spec with an unrecognized type.
	ErrUnknownCard = errors.New("scenario: unknown card type")
	// ErrUnknownScenario is returned when no scenario has the requested name.
	ErrUnknownScenario = errors.New("scenario: not found")
	// ErrEmptyScenario is returned for a scenario without beats.
	ErrEmptyScenario = errors.New("scenario: no beats")
)

// Parse decodes a scenario document and checks that every beat is playable.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario without playing it. Every card is built once
// so construction errors surface at load time.
func (s *Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("scenario: name is required")
	}
	if len(s.Beats) == 0 {
		return fmt.Errorf("%s: %w", s.Name, ErrEmptyScenario)
	}

	probe := buildEnv{}
	for i, b := range s.Beats {
		if err := b.validate(); err != nil {
			return fmt.Errorf("%s: beat %d: %w", s.Name, i+1, err)
		}
		if b.Card == nil {
			continue
		}
		if _, err := b.Card.Build(probe); err != nil {
			return fmt.Errorf("%s: beat %d: %w", s.Name, i+1, err)
		}
	}
	return nil
}

func (b Beat) validate() error {
	set := 0
	for _, s := range []string{b.User, b.Note} {
		if s != "" {
			set++
		}
	}
	if b.Agent != "" || b.Card != nil {
		set++
	}
	switch {
	case set == 0:
		return errors.New("beat is empty")
	case set > 1:
		return errors.New("beat sets more than one of user/agent/note")
	case b.DelayMs < 0:
		return errors.New("delay_ms cannot be negative")
	}
	return nil
}

// DisplayTitle returns the title, falling back to the name.
func (s *Scenario) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}
