// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
)

// JSONExporter exports the complete record as indented JSON.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a record to JSON.
func (e *JSONExporter) Export(rec *Record) ([]byte, error) {
	if rec == nil || len(rec.Entries) == 0 {
		return nil, ErrEmptyTranscript
	}
	return json.MarshalIndent(rec, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
