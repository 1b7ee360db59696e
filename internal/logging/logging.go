// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide structured logger.
//
// The TUI owns the terminal, so log output goes to a file. Packages log
// through the charmbracelet/log default logger; Setup only decides where that
// output lands and at which level.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLevel is used when the configured level is empty.
const DefaultLevel = "info"

// ParseLevel converts a config level name into a log level. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = DefaultLevel
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Setup points the default logger at path. An empty path discards output.
// The returned closer releases the file and must be closed on exit.
func Setup(path, level string) (io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if path == "" {
		Discard()
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.SetDefault(New(f, lvl))
	return f, nil
}

// New creates a logger writing to w in the format used for the log file.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000",
		Prefix:          "coworker",
	})
}

// Discard silences the default logger.
func Discard() {
	log.SetDefault(log.NewWithOptions(io.Discard, log.Options{}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
