// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/coworker-tui/internal/cli"
	"github.com/jeranaias/coworker-tui/internal/export"
	"github.com/jeranaias/coworker-tui/internal/scenario"
	"github.com/jeranaias/coworker-tui/internal/ui/styles"
	"github.com/jeranaias/coworker-tui/internal/ui/transcript"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.FatalLevel)
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func mustParse(t *testing.T, doc string) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Parse([]byte(doc))
	require.NoError(t, err)
	return sc
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	sc := mustParse(t, `
name: first
title: First run
beats:
  - user: hello
`)
	return NewModel(styles.NewThemeForMode(styles.ThemeDark), sc, scenario.Options{MaxWidth: 60}, nil)
}

// appendedText runs cmd and returns the text of the entry it appends.
func appendedText(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(transcript.AppendMsg)
	require.True(t, ok, "expected an AppendMsg")
	return msg.Entry.Text
}

func TestNewModel_Title(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "First run", m.transcript.Title())
	assert.NotNil(t, m.Init())
}

func TestModel_ReloadSwapsScenario(t *testing.T) {
	m := newTestModel(t)
	m.Init()

	next := mustParse(t, `
name: second
title: Second run
beats:
  - note: edited
`)
	_, cmd := m.Update(scenario.ReloadMsg{Scenario: next})

	assert.NotNil(t, cmd)
	assert.Equal(t, "Second run", m.transcript.Title())
	assert.Same(t, next, m.player.Scenario())
}

func TestModel_ReloadErrorKeepsScenario(t *testing.T) {
	m := newTestModel(t)
	m.Init()
	before := m.player.Scenario()

	_, cmd := m.Update(scenario.ReloadMsg{Err: errors.New("line 3: bad indent")})

	assert.Contains(t, appendedText(t, cmd), "Reload failed: line 3: bad indent")
	assert.Same(t, before, m.player.Scenario())
	assert.Equal(t, "First run", m.transcript.Title())
}

func TestModel_FinishedShowsNote(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(scenario.FinishedMsg{Name: "first"})

	assert.Contains(t, appendedText(t, cmd), `End of "first"`)
}

func TestModel_AppendReachesTranscript(t *testing.T) {
	m := newTestModel(t)

	m.Update(transcript.AppendMsg{Entry: transcript.Entry{Role: transcript.RoleUser, Text: "hi"}})

	entries := m.transcript.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "hi", entries[0].Text)
}

func TestScenarioNotFound(t *testing.T) {
	unknown := func(ref string) error {
		return fmt.Errorf("%q: %w", ref, scenario.ErrUnknownScenario)
	}

	var nf *cli.NotFoundError

	err := scenarioNotFound("planing", "", unknown("planing"))
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, `Did you mean "planning"?`, nf.Hint)

	err = scenarioNotFound("galery", "", unknown("galery"))
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Did you mean 'coworker gallery'?", nf.Hint)

	err = scenarioNotFound("qqqqqqqq", "", unknown("qqqqqqqq"))
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Hint, "coworker list")
	assert.Equal(t, cli.ExitNotFoundError, cli.GetExitCode(err))

	other := errors.New("permission denied")
	assert.Equal(t, other, scenarioNotFound("x.yaml", "", other))
}

func TestModel_ExportWritesMarkdown(t *testing.T) {
	m := newTestModel(t)
	m.exportOpts = &export.Options{OutputDir: t.TempDir()}
	m.Update(transcript.AppendMsg{Entry: transcript.Entry{Role: transcript.RoleUser, Text: "hello there"}})

	_, cmd := m.Update(transcript.ExportMsg{})
	text := appendedText(t, cmd)
	require.Contains(t, text, "Saved transcript to ")

	data, err := os.ReadFile(strings.TrimPrefix(text, "Saved transcript to "))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello there")
	assert.Contains(t, string(data), "scenario: first")
}

func TestModel_ExportEmptyTranscript(t *testing.T) {
	m := newTestModel(t)
	m.exportOpts = &export.Options{OutputDir: t.TempDir()}

	_, cmd := m.Update(transcript.ExportMsg{})
	assert.Contains(t, appendedText(t, cmd), "Could not save transcript")
}
