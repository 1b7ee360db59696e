// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/coworker-tui/internal/config"
	"github.com/jeranaias/coworker-tui/internal/scenario"
)

func TestMain(m *testing.M) {
	ForceColorsEnabled(false)
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "positional after subcommand",
			args:    []string{"set", "ui.theme", "light"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(1) != "ui.theme" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "ui.theme")
				}
				if len(p.PositionalFrom(1)) != 2 {
					t.Errorf("PositionalFrom(1) = %v, want 2 items", p.PositionalFrom(1))
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"init", "--dir=/tmp/x"},
			wantSub: "init",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("dir") != "/tmp/x" {
					t.Errorf("Flag(dir) = %q, want %q", p.Flag("dir"), "/tmp/x")
				}
			},
		},
		{
			name:    "flag with separate value",
			args:    []string{"--dir", "out", "init"},
			wantSub: "init",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("--dir") != "out" {
					t.Errorf("Flag(--dir) = %q, want %q", p.Flag("--dir"), "out")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"init", "--force"},
			wantSub: "init",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("force") {
					t.Error("BoolFlag(force) should be true")
				}
			},
		},
		{
			name:    "explicit false",
			args:    []string{"init", "--force=false"},
			wantSub: "init",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("force") {
					t.Error("BoolFlag(force) should be false")
				}
			},
		},
		{
			name:    "lone dash is positional",
			args:    []string{"play", "-"},
			wantSub: "play",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(1) != "-" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "-")
				}
			},
		},
		{
			name:    "no args",
			args:    nil,
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(0) != "" || len(p.PositionalFrom(1)) != 0 {
					t.Error("expected no positionals")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestJoinPositionalArgs(t *testing.T) {
	p := NewArgParser([]string{"set", "scenario.default", "my", "demo"})
	assert.Equal(t, "my demo", JoinPositionalArgs(p, 2))
}

// =============================================================================
// COMMAND PARSING TESTS (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args plays the default",
			argv:    nil,
			wantCmd: CmdPlay,
			validate: func(t *testing.T, a Args) {
				assert.Empty(t, a.Scenario)
			},
		},
		{
			name:    "play with name",
			argv:    []string{"play", "inbox"},
			wantCmd: CmdPlay,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "inbox", a.Scenario)
			},
		},
		{
			name:    "bare scenario name",
			argv:    []string{"planning"},
			wantCmd: CmdPlay,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "planning", a.Scenario)
			},
		},
		{
			name:    "bare file keeps case",
			argv:    []string{"--watch", "Demos/Tour.yaml"},
			wantCmd: CmdPlay,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "Demos/Tour.yaml", a.Scenario)
				assert.True(t, a.Watch)
			},
		},
		{
			name:    "gallery with kinds",
			argv:    []string{"gallery", "prompt", "batch", "--width", "70"},
			wantCmd: CmdGallery,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, []string{"prompt", "batch"}, a.Kinds)
				assert.Equal(t, 70, a.Width)
			},
		},
		{
			name:    "list alias with json",
			argv:    []string{"ls", "--json"},
			wantCmd: CmdList,
			validate: func(t *testing.T, a Args) {
				assert.True(t, a.JSON)
			},
		},
		{
			name:    "config set joins value",
			argv:    []string{"--config=/tmp/c.toml", "config", "set", "scenario.default", "my", "demo"},
			wantCmd: CmdConfig,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/tmp/c.toml", a.ConfigPath)
				assert.Equal(t, "set", a.Subcommand)
				assert.Equal(t, "scenario.default", a.ConfigKey)
				assert.Equal(t, "my demo", a.ConfigVal)
			},
		},
		{
			name:    "version flag",
			argv:    []string{"--version"},
			wantCmd: CmdVersion,
		},
		{
			name:    "help",
			argv:    []string{"HELP"},
			wantCmd: CmdHelp,
		},
		{
			name:    "no-color and bad width",
			argv:    []string{"--no-color", "--width=abc", "list"},
			wantCmd: CmdList,
			validate: func(t *testing.T, a Args) {
				assert.True(t, a.NoColor)
				assert.Zero(t, a.Width)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			assert.Equal(t, tt.wantCmd, cmd, "got %s", cmd)
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "play", CmdPlay.String())
	assert.Equal(t, "gallery", CmdGallery.String())
	assert.Equal(t, "unknown", Command(99).String())
}

// =============================================================================
// SUGGESTION TESTS (suggest.go)
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"galery", "gallery"},
		{"lst", "list"},
		{"hepl", "help"},
		{"confg", "config"},
		{"list", ""},
		{"x", ""},
		{"completely-different", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestCommand(tt.input))
		})
	}
}

func TestSuggestFrom_Scenarios(t *testing.T) {
	names := []string{"inbox", "planning", "tour"}
	assert.Equal(t, "planning", SuggestFrom("planing", names))
	assert.Equal(t, "tour", SuggestFrom("TUOR", names))
	assert.Empty(t, SuggestFrom("zzzzzz", names))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("play", "play"))
	assert.Equal(t, 3, levenshteinDistance("", "abc"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

// =============================================================================
// ERROR TESTS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", &ValidationError{Field: "x", Reason: "bad"}, ExitUsageError},
		{"not found", &NotFoundError{Resource: "scenario", ID: "x"}, ExitNotFoundError},
		{"unknown scenario", fmt.Errorf("%q: %w", "x", scenario.ErrUnknownScenario), ExitNotFoundError},
		{"missing file", fmt.Errorf("open: %w", os.ErrNotExist), ExitNotFoundError},
		{"config", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}), ExitConfigError},
		{"scenario", fmt.Errorf("x.yaml: %w", scenario.ErrEmptyScenario), ExitScenarioError},
		{"general", errors.New("boom"), ExitGeneralError},
		{"wrapped command", NewCommandError("config", "set", "failed", &ValidationError{Field: "k"}), ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	err := NewValidationErrorWithExample("card type", "card", "unknown", "coworker gallery prompt")
	assert.Equal(t, "invalid card type: unknown (got: card)\nExample: coworker gallery prompt", err.Error())

	nf := &NotFoundError{Resource: "config key", ID: "ui.them", Hint: `Did you mean "ui.theme"?`}
	assert.Equal(t, "config key not found: ui.them\nDid you mean \"ui.theme\"?", nf.Error())

	inner := errors.New("disk full")
	ce := NewCommandError("config", "set", "could not write", inner)
	assert.ErrorIs(t, ce, inner)
	assert.Equal(t, "config set failed: could not write: disk full", ce.Error())
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, errors.New("nope"))
	assert.Equal(t, "Error: nope\n", buf.String())

	buf.Reset()
	DisplayErrorJSON(&buf, "list", errors.New("nope"))
	var resp JSONResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "nope", *resp.Error)
	assert.Equal(t, "list", resp.Command)
}

// =============================================================================
// COMMAND HANDLER TESTS
// =============================================================================

func TestHandleGallery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HandleGallery(&buf, Args{Width: 60, Kinds: []string{"Prompt"}}, 0))

	out := buf.String()
	assert.Contains(t, out, "PROMPT")
	assert.NotContains(t, out, "BATCH")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 60, line)
	}
}

func TestHandleGallery_UnknownKind(t *testing.T) {
	err := HandleGallery(&bytes.Buffer{}, Args{Kinds: []string{"widget"}}, 0)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "widget", ve.Value)
}

func TestRenderWidth(t *testing.T) {
	assert.Equal(t, 72, RenderWidth(72, 0))
	assert.Equal(t, MinTerminalWidth, RenderWidth(10, 0))
	assert.LessOrEqual(t, RenderWidth(0, 50), 50)
}

func TestHandleList_JSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte(`
name: extra
title: Extra
beats:
  - user: hi
  - agent: done
    card:
      type: result
      title: Done
      body:
        kind: prose
        text: All set.
`), 0o644))

	var buf bytes.Buffer
	require.NoError(t, HandleList(&buf, Args{JSON: true}, dir))

	var resp struct {
		Success bool           `json:"success"`
		Data    []ScenarioData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.True(t, resp.Success)

	byName := map[string]ScenarioData{}
	for _, d := range resp.Data {
		byName[d.Name] = d
	}
	require.Contains(t, byName, "extra")
	require.Contains(t, byName, "tour")
	assert.Equal(t, 2, byName["extra"].Beats)
	assert.Equal(t, 1, byName["extra"].Cards)
	assert.Equal(t, filepath.Join(dir, "extra.yaml"), byName["extra"].Path)
	assert.Empty(t, byName["tour"].Path)
}

func TestHandleList_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HandleList(&buf, Args{}, ""))
	out := buf.String()
	assert.Contains(t, out, "Scenarios")
	assert.Contains(t, out, "inbox")
	assert.Contains(t, out, "coworker play <name>")
}

func TestHandleConfig_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	args := Args{ConfigPath: path}

	set := args
	set.Subcommand, set.ConfigKey, set.ConfigVal = "set", "ui.theme", "light"
	var buf bytes.Buffer
	require.NoError(t, HandleConfig(&buf, set))
	assert.Contains(t, buf.String(), "ui.theme = light")

	get := args
	get.Subcommand, get.ConfigKey = "get", "ui.theme"
	buf.Reset()
	require.NoError(t, HandleConfig(&buf, get))
	assert.Equal(t, "light\n", buf.String())

	get.JSON = true
	buf.Reset()
	require.NoError(t, HandleConfig(&buf, get))
	var resp struct {
		Data ConfigValueData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "light", resp.Data.Value)
}

func TestHandleConfig_SetErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	err := HandleConfig(&bytes.Buffer{}, Args{ConfigPath: path, Subcommand: "set", ConfigKey: "ui.them", ConfigVal: "x"})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Hint, "ui.theme")

	err = HandleConfig(&bytes.Buffer{}, Args{ConfigPath: path, Subcommand: "set", ConfigKey: "ui.max_width", ConfigVal: "wide"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	err = HandleConfig(&bytes.Buffer{}, Args{ConfigPath: path, Subcommand: "set", ConfigKey: "ui.theme", ConfigVal: "neon"})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected values must not be saved")
}

func TestHandleConfig_Init(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	args := Args{ConfigPath: path, Subcommand: "init"}

	require.NoError(t, HandleConfig(&bytes.Buffer{}, args))
	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default().UI.Theme, cfg.UI.Theme)

	err = HandleConfig(&bytes.Buffer{}, args)
	require.Error(t, err, "second init without --force")

	args.Raw = []string{"init", "--force"}
	assert.NoError(t, HandleConfig(&bytes.Buffer{}, args))
}

func TestHandleConfig_ShowAndPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var buf bytes.Buffer
	require.NoError(t, HandleConfig(&buf, Args{ConfigPath: path, Subcommand: "path"}))
	assert.Equal(t, path+"\n", buf.String())

	buf.Reset()
	require.NoError(t, HandleConfig(&buf, Args{ConfigPath: path, JSON: true}))
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	for _, key := range config.GetAllKeys() {
		assert.Contains(t, resp.Data, key)
	}

	err := HandleConfig(&bytes.Buffer{}, Args{Subcommand: "reset"})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestHandleVersion_JSON(t *testing.T) {
	var buf bytes.Buffer
	resp := NewJSONResponse("version", VersionData{Version: Version})
	require.NoError(t, resp.Write(&buf))
	assert.Contains(t, buf.String(), `"version": "`+Version+`"`)
}
