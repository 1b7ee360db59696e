// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only date format forms accept.
const DateLayout = "2006-01-02"

// FormValues is the flat result of a form. Values are string, float64, bool
// or []string depending on the field kind. A date range contributes two
// string keys, "<key>_start" and "<key>_end".
type FormValues map[string]any

// FormField is one input of a FormCard. The variants are TextField,
// TextareaField, NumberField, SelectField, ToggleField, DateField,
// DateRangeField and ChipsField.
type FormField interface {
	caption() string
	// valueKeys lists the FormValues keys this field owns.
	valueKeys() []string
	required() bool
}

// TextField is a single-line text input.
type TextField struct {
	Key         string
	Label       string
	Placeholder string
	Default     string
	Required    bool
}

// TextareaField is a multi-line text input.
type TextareaField struct {
	Key         string
	Label       string
	Placeholder string
	Default     string
	Required    bool
}

// NumberField is a numeric input. A nil Default leaves it empty.
type NumberField struct {
	Key      string
	Label    string
	Default  *float64
	Unit     string
	Required bool
}

// SelectField picks one of Options.
type SelectField struct {
	Key      string
	Label    string
	Options  []string
	Default  string
	Required bool
}

// ToggleField is an on/off switch. It is never invalid.
type ToggleField struct {
	Key         string
	Label       string
	Description string
	Default     bool
}

// DateField is a YYYY-MM-DD date.
type DateField struct {
	Key      string
	Label    string
	Default  string
	Required bool
}

// DateRangeField is a pair of dates stored under Key+"_start" and Key+"_end".
// Each side validates on its own.
type DateRangeField struct {
	Key          string
	Label        string
	StartDefault string
	EndDefault   string
	Required     bool
}

// ChipsField collects a list of distinct tags.
type ChipsField struct {
	Key         string
	Label       string
	Placeholder string
	Default     []string
	Required    bool
}

// Float returns a pointer to v, for NumberField defaults.
func Float(v float64) *float64 { return &v }

func (f TextField) caption() string     { return f.Label }
func (f TextField) valueKeys() []string { return []string{f.Key} }
func (f TextField) required() bool      { return f.Required }

func (f TextareaField) caption() string     { return f.Label }
func (f TextareaField) valueKeys() []string { return []string{f.Key} }
func (f TextareaField) required() bool      { return f.Required }

func (f NumberField) caption() string     { return f.Label }
func (f NumberField) valueKeys() []string { return []string{f.Key} }
func (f NumberField) required() bool      { return f.Required }

func (f SelectField) caption() string     { return f.Label }
func (f SelectField) valueKeys() []string { return []string{f.Key} }
func (f SelectField) required() bool      { return f.Required }

func (f ToggleField) caption() string     { return f.Label }
func (f ToggleField) valueKeys() []string { return []string{f.Key} }
func (f ToggleField) required() bool      { return false }

func (f DateField) caption() string     { return f.Label }
func (f DateField) valueKeys() []string { return []string{f.Key} }
func (f DateField) required() bool      { return f.Required }

func (f DateRangeField) caption() string     { return f.Label }
func (f DateRangeField) valueKeys() []string { return []string{f.StartKey(), f.EndKey()} }
func (f DateRangeField) required() bool      { return f.Required }

func (f ChipsField) caption() string     { return f.Label }
func (f ChipsField) valueKeys() []string { return []string{f.Key} }
func (f ChipsField) required() bool      { return f.Required }

// StartKey is the FormValues key of the range start.
func (f DateRangeField) StartKey() string { return f.Key + "_start" }

// EndKey is the FormValues key of the range end.
func (f DateRangeField) EndKey() string { return f.Key + "_end" }

// formatNumber renders a float without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var errNotFinite = errors.New("cards: number is not finite")

// parseNumber accepts finite decimal numbers only. NaN and Inf spellings are rejected.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
