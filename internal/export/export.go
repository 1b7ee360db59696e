// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/coworker-tui/internal/cards"
	"github.com/jeranaias/coworker-tui/internal/ui/transcript"
	"github.com/jeranaias/coworker-tui/internal/util"
)

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("export: transcript is empty")

// =============================================================================
// RECORD
// =============================================================================

// Record is a transcript snapshot ready to be written out.
type Record struct {
	Title      string        `json:"title"`
	Scenario   string        `json:"scenario,omitempty"`
	ExportedAt time.Time     `json:"exported_at"`
	Entries    []EntryRecord `json:"entries"`
}

// EntryRecord is one transcript entry.
type EntryRecord struct {
	Role string      `json:"role"`
	Text string      `json:"text,omitempty"`
	At   time.Time   `json:"at"`
	Card *CardRecord `json:"card,omitempty"`
}

// CardRecord describes a card at export time.
type CardRecord struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Resolved bool   `json:"resolved"`
	Icon     string `json:"icon,omitempty"`
	Message  string `json:"message,omitempty"`
}

// resolution is implemented by every card in package cards.
type resolution interface {
	Resolution() (cards.ResolvedIcon, string)
}

// FromTranscript snapshots entries. Card state is read now, so call it on
// the goroutine that owns the cards.
func FromTranscript(title, scenario string, entries []transcript.Entry) *Record {
	rec := &Record{
		Title:      title,
		Scenario:   scenario,
		ExportedAt: time.Now(),
		Entries:    make([]EntryRecord, 0, len(entries)),
	}

	for _, e := range entries {
		er := EntryRecord{Role: e.Role.String(), Text: e.Text, At: e.At}
		if c := e.Card; c != nil {
			cr := &CardRecord{ID: c.ID(), Type: transcript.CardType(c), Resolved: c.Resolved()}
			if r, ok := c.(resolution); ok && cr.Resolved {
				icon, msg := r.Resolution()
				cr.Icon, cr.Message = icon.String(), msg
			}
			er.Card = cr
		}
		rec.Entries = append(rec.Entries, er)
	}
	return rec
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a record to a file format.
type Exporter interface {
	// Export converts rec to the target format and returns the content.
	Export(rec *Record) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md").
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// IncludeTimestamps includes per-entry times.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeTimestamps: true,
	}
}

// ForFormat returns the exporter for "markdown" (or "md") and "json".
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportToFile writes rec with exporter into opts.OutputDir and returns the
// file path.
func ExportToFile(rec *Record, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(rec)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("transcript_%s_%s%s",
		sanitizeFilename(rec.Title),
		rec.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "transcript"
	}
	return string(result)
}
