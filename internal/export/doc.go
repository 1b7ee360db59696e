// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export saves a played transcript to a file.
//
// # Key Types
//
//   - Record: a snapshot of the transcript, including how each card resolved
//   - Exporter: converts a Record to bytes (Markdown or JSON)
//   - Options: output directory and formatting switches
//
// # Usage
//
//	rec := export.FromTranscript(t.Title(), "inbox", t.Entries())
//	path, err := export.ExportToFile(rec, export.NewMarkdownExporter(nil), nil)
package export
