// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/coworker-tui/internal/cards"
	"github.com/jeranaias/coworker-tui/internal/ui/transcript"
)

var at = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newPrompt(t *testing.T, resolved string) *cards.PromptCard {
	t.Helper()
	c, err := cards.NewPromptCard(cards.PromptProps{
		Message:         "Share the Q3 report?",
		Actions:         []cards.Action{{Label: "Share", Style: cards.StylePrimary}},
		ResolvedMessage: resolved,
	})
	require.NoError(t, err)
	return c
}

func sampleEntries(t *testing.T) []transcript.Entry {
	t.Helper()
	done := newPrompt(t, "Shared with finance")
	done.Invoke(0)
	open := newPrompt(t, "Shared")

	return []transcript.Entry{
		{Role: transcript.RoleUser, Text: "Send the Q3 report", At: at},
		{Role: transcript.RoleAgent, Text: "Ready to share.", Card: done, At: at.Add(time.Second)},
		{Role: transcript.RoleAgent, Text: "Another one?", Card: open, At: at.Add(2 * time.Second)},
		{Role: transcript.RoleSystem, Text: "End of scenario", At: at.Add(3 * time.Second)},
	}
}

func TestFromTranscript(t *testing.T) {
	rec := FromTranscript("Inbox", "inbox", sampleEntries(t))

	require.Len(t, rec.Entries, 4)
	assert.Equal(t, "user", rec.Entries[0].Role)
	assert.Nil(t, rec.Entries[0].Card)

	done := rec.Entries[1].Card
	require.NotNil(t, done)
	assert.Equal(t, "prompt", done.Type)
	assert.True(t, done.Resolved)
	assert.Equal(t, "check", done.Icon)
	assert.Equal(t, "Shared with finance", done.Message)

	open := rec.Entries[2].Card
	require.NotNil(t, open)
	assert.False(t, open.Resolved)
	assert.Empty(t, open.Message)
}

func TestMarkdownExport(t *testing.T) {
	rec := FromTranscript("Inbox *triage*", "inbox", sampleEntries(t))

	out, err := NewMarkdownExporter(nil).Export(rec)
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, `# Inbox \*triage\*`)
	assert.Contains(t, md, "### You <sub>09:30:00</sub>")
	assert.Contains(t, md, "> **Prompt card** ✓ Shared with finance")
	assert.Contains(t, md, "> **Prompt card** (open)")
	assert.Contains(t, md, "### Note")
}

func TestMarkdownFrontMatter(t *testing.T) {
	rec := FromTranscript("Line one\ninjected: true", "inbox", sampleEntries(t))

	out, err := NewMarkdownExporter(&Options{}).Export(rec)
	require.NoError(t, err)

	parts := strings.SplitN(string(out), "---\n", 3)
	require.Len(t, parts, 3)

	var fm map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Line one\ninjected: true", fm["title"])
	assert.NotContains(t, fm, "injected")
	assert.Equal(t, 2, fm["cards"])
	assert.Equal(t, 1, fm["resolved"])

	assert.NotContains(t, parts[2], "<sub>", "timestamps disabled")
}

func TestJSONExport(t *testing.T) {
	rec := FromTranscript("Inbox", "inbox", sampleEntries(t))

	out, err := NewJSONExporter().Export(rec)
	require.NoError(t, err)

	var back Record
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "inbox", back.Scenario)
	require.Len(t, back.Entries, 4)
	assert.Equal(t, "Shared with finance", back.Entries[1].Card.Message)
}

func TestEmptyTranscript(t *testing.T) {
	rec := FromTranscript("Empty", "", nil)

	_, err := NewMarkdownExporter(nil).Export(rec)
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = NewJSONExporter().Export(nil)
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rec := FromTranscript("Q3: report/final", "inbox", sampleEntries(t))
	rec.ExportedAt = at

	path, err := ExportToFile(rec, NewMarkdownExporter(nil), &Options{OutputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "transcript_Q3-_report-final_20250314_093000.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Shared with finance")
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		ok     bool
	}{
		{"", ".md", true},
		{"Markdown", ".md", true},
		{"md", ".md", true},
		{"json", ".json", true},
		{"html", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e, err := ForFormat(tt.format, nil)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, e.FileExtension())
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "transcript", sanitizeFilename("  "))
	assert.Equal(t, "a-b_c", sanitizeFilename("a/b c"))
	assert.Len(t, []rune(sanitizeFilename(strings.Repeat("é", 80))), 50)
}
