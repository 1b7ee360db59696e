// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"sort"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// submissions collects OnSubmit calls.
type submissions struct {
	got []FormValues
}

func (s *submissions) onSubmit(v FormValues) tea.Cmd {
	s.got = append(s.got, v)
	return nil
}

func newForm(t *testing.T, props FormProps) *FormCard {
	t.Helper()
	c, err := NewFormCard(props)
	require.NoError(t, err)
	return c
}

func TestFormRequiredFieldGate(t *testing.T) {
	var subs submissions
	c := newForm(t, FormProps{
		Title: "New report",
		Fields: []FormField{
			TextField{Key: "name", Label: "Name", Required: true},
			SelectField{Key: "cadence", Label: "Cadence", Options: []string{"daily", "weekly"}, Default: "weekly"},
			ToggleField{Key: "notify", Label: "Notify me", Default: true},
			NumberField{Key: "limit", Label: "Row limit", Default: Float(50)},
		},
		OnSubmit: subs.onSubmit,
	})

	assert.Nil(t, c.Submit())
	assert.Empty(t, subs.got)
	assert.False(t, c.Resolved())
	assert.Equal(t, map[string]string{"name": "Required"}, c.Errors())

	require.NoError(t, c.SetValue("name", "Weekly revenue"))
	assert.Empty(t, c.Errors(), "changing the key clears its error")

	c.Submit()
	require.Len(t, subs.got, 1)
	assert.Equal(t, FormValues{
		"name":    "Weekly revenue",
		"cadence": "weekly",
		"notify":  true,
		"limit":   50.0,
	}, subs.got[0])
	assert.True(t, c.Resolved())
	assert.Equal(t, "✓ Submitted", c.View(60))

	c.Submit()
	assert.Len(t, subs.got, 1, "resolves once")
}

func TestFormErrorsClearPerKey(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{
		TextField{Key: "first", Required: true},
		TextareaField{Key: "notes", Required: true},
		ChipsField{Key: "tags", Required: true},
	}})

	require.False(t, c.Validate())
	assert.Len(t, c.Errors(), 3)

	require.NoError(t, c.SetValue("first", "x"))
	assert.Equal(t, []string{"notes", "tags"}, sortedKeys(c.Errors()))

	c.AddChip("tags", "q3")
	assert.Equal(t, []string{"notes"}, sortedKeys(c.Errors()))
}

func TestFormTypingClearsOnlyThatKey(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{
		TextField{Key: "first", Required: true},
		TextField{Key: "second", Required: true},
	}})
	c.Focus()

	press(c, "ctrl+s")
	require.Len(t, c.Errors(), 2)

	typeText(c, "a")
	assert.Equal(t, []string{"second"}, sortedKeys(c.Errors()))
}

func TestFormDateRangeKeys(t *testing.T) {
	var subs submissions
	c := newForm(t, FormProps{
		Fields: []FormField{
			DateRangeField{Key: "dates", Label: "Dates", Required: true, StartDefault: "2025-03-01"},
		},
		OnSubmit: subs.onSubmit,
	})

	c.Submit()
	assert.Equal(t, map[string]string{"dates_end": "Required"}, c.Errors(), "only the empty side fails")

	require.NoError(t, c.SetValue("dates_end", "2025-03-31"))
	c.Submit()
	require.Len(t, subs.got, 1)
	assert.Equal(t, FormValues{"dates_start": "2025-03-01", "dates_end": "2025-03-31"}, subs.got[0])
}

func TestFormDateValidation(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{
		DateField{Key: "due", Default: "03/04/2025"},
		DateRangeField{Key: "window", StartDefault: "2025-05-10", EndDefault: "2025-05-01"},
		DateRangeField{Key: "optional"},
	}})

	assert.False(t, c.Validate())
	errs := c.Errors()
	assert.Equal(t, "Use 2006-01-02", errs["due"])
	assert.Equal(t, "Ends before it starts", errs["window_end"])
	assert.NotContains(t, errs, "window_start")
	assert.NotContains(t, errs, "optional_start", "empty optional dates are fine")
	assert.NotContains(t, errs, "optional_end")
}

func TestFormNumberDefaultSatisfiesRequired(t *testing.T) {
	var subs submissions
	c := newForm(t, FormProps{
		Fields:   []FormField{NumberField{Key: "threshold", Label: "Threshold", Default: Float(500), Required: true}},
		OnSubmit: subs.onSubmit,
	})

	c.Submit()

	require.Len(t, subs.got, 1)
	assert.Equal(t, FormValues{"threshold": 500.0}, subs.got[0])
}

func TestFormNumberValidation(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{
		NumberField{Key: "budget", Required: true},
		NumberField{Key: "ratio"},
	}})

	require.NoError(t, c.SetValue("ratio", "abc"))
	assert.False(t, c.Validate())
	assert.Equal(t, map[string]string{"budget": "Required", "ratio": "Enter a number"}, c.Errors())
	assert.NotContains(t, c.Values(), "ratio", "unparseable numbers are left out")

	require.NoError(t, c.SetValue("budget", 12))
	require.NoError(t, c.SetValue("ratio", 0.25))
	assert.True(t, c.Validate())
	assert.Equal(t, FormValues{"budget": 12.0, "ratio": 0.25}, c.Values())
}

func TestFormChips(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{
		ChipsField{Key: "to", Label: "Recipients", Default: []string{"ana", "ana", " "}},
	}})

	assert.Equal(t, []string{"ana"}, c.Values()["to"], "defaults are deduplicated")
	assert.True(t, c.AddChip("to", "ben"))
	assert.False(t, c.AddChip("to", ""), "empty is a no-op")
	assert.False(t, c.AddChip("to", "  "), "blank is a no-op")
	assert.False(t, c.AddChip("to", "ben"), "duplicate is a no-op")
	assert.False(t, c.AddChip("nope", "x"))
	assert.Equal(t, []string{"ana", "ben"}, c.Values()["to"])

	assert.True(t, c.RemoveChip("to", "ana"))
	assert.False(t, c.RemoveChip("to", "ana"))
	assert.Equal(t, []string{"ben"}, c.Values()["to"])
}

func TestFormChipsKeyboard(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{ChipsField{Key: "tags"}}})
	c.Focus()

	typeText(c, "alpha")
	press(c, "enter")
	typeText(c, "beta")
	press(c, "enter")
	typeText(c, "alpha")
	press(c, "enter")
	assert.Equal(t, []string{"alpha", "beta"}, c.Values()["tags"])

	typeText(c, "gamma")
	press(c, "backspace", "backspace", "backspace", "backspace", "backspace")
	assert.Equal(t, []string{"alpha", "beta"}, c.Values()["tags"], "backspace edits the pending text first")
	press(c, "backspace")
	assert.Equal(t, []string{"alpha"}, c.Values()["tags"], "backspace on an empty input removes the last chip")
}

func TestFormSelectAndToggleKeyboard(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{
		SelectField{Key: "tone", Options: []string{"formal", "casual", "brief"}},
		ToggleField{Key: "cc", Default: false},
	}})
	c.Focus()

	press(c, "right")
	assert.Equal(t, "formal", c.Values()["tone"])
	press(c, "right", "right", "right")
	assert.Equal(t, "formal", c.Values()["tone"], "wraps around")
	press(c, "left")
	assert.Equal(t, "brief", c.Values()["tone"])

	press(c, "tab", "space")
	assert.Equal(t, true, c.Values()["cc"])
}

func TestFormSetValueErrors(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{
		SelectField{Key: "tone", Options: []string{"formal"}},
		ToggleField{Key: "cc"},
		ChipsField{Key: "tags"},
		TextField{Key: "name"},
	}})

	assert.ErrorIs(t, c.SetValue("missing", "x"), ErrUnknownField)
	assert.Error(t, c.SetValue("tone", "shouty"))
	assert.Error(t, c.SetValue("cc", "yes"))
	assert.Error(t, c.SetValue("tags", "one"))
	assert.Error(t, c.SetValue("name", 3))
	assert.NoError(t, c.SetValue("tags", []string{"a", "b"}))
}

func TestNewFormCardRejectsDuplicateKeys(t *testing.T) {
	_, err := NewFormCard(FormProps{Fields: []FormField{
		TextField{Key: "when_start"},
		DateRangeField{Key: "when"},
	}})
	assert.ErrorIs(t, err, ErrDuplicateField)
}

func TestFormCancel(t *testing.T) {
	var cancelled counter
	var subs submissions
	c := newForm(t, FormProps{
		Fields:   []FormField{TextField{Key: "name", Required: true}},
		OnSubmit: subs.onSubmit,
		OnCancel: cancelled.fn,
	})
	c.Focus()

	press(c, "esc")
	press(c, "esc")

	assert.Equal(t, 1, cancelled.n)
	assert.Empty(t, subs.got)
	assert.Equal(t, "✗ Cancelled", c.View(60))
}

func TestFormView(t *testing.T) {
	c := newForm(t, FormProps{
		Title:       "Schedule a digest",
		Description: "We'll send it to your inbox.",
		Fields: []FormField{
			TextField{Key: "subject", Label: "Subject", Required: true},
			NumberField{Key: "count", Label: "Items", Unit: "items", Default: Float(10)},
			SelectField{Key: "day", Label: "Day", Options: []string{"Mon", "Fri"}},
			ToggleField{Key: "weekends", Label: "Weekends", Description: "include Sat/Sun"},
			DateRangeField{Key: "span", Label: "Active"},
			ChipsField{Key: "to", Label: "Recipients", Default: []string{"ana"}},
		},
		OnCancel: func() tea.Cmd { return nil },
	})
	c.Submit()

	view := c.View(64)
	for _, want := range []string{"Schedule a digest", "Subject", "Required", "items", "Mon", "Weekends", "Active", "ana", "Submit", "Cancel"} {
		assert.Contains(t, view, want)
	}
	assertFits(t, view, 64)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestFormNumberRejectsNonFinite(t *testing.T) {
	for _, in := range []string{"NaN", "nan", "Inf", "-Inf", "+infinity"} {
		t.Run(in, func(t *testing.T) {
			var subs submissions
			c := newForm(t, FormProps{
				Fields:   []FormField{NumberField{Key: "limit", Label: "Row limit"}},
				OnSubmit: subs.onSubmit,
			})
			require.NoError(t, c.SetValue("limit", in))
			c.Submit()
			assert.Empty(t, subs.got)
			assert.Equal(t, "Enter a number", c.Errors()["limit"])
		})
	}
}

func TestFormRangeOrderErrorClearsWithStart(t *testing.T) {
	c := newForm(t, FormProps{Fields: []FormField{
		DateRangeField{Key: "window", StartDefault: "2025-05-10", EndDefault: "2025-05-01"},
	}})

	assert.False(t, c.Validate())
	assert.Equal(t, "Ends before it starts", c.Errors()["window_end"])

	require.NoError(t, c.SetValue("window_start", "2025-04-20"))
	assert.Empty(t, c.Errors())
	assert.True(t, c.Validate())
}
