// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown with YAML front matter.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// frontMatter is encoded with yaml.v3 so titles never need hand escaping.
type frontMatter struct {
	Title     string `yaml:"title"`
	Scenario  string `yaml:"scenario,omitempty"`
	Exported  string `yaml:"exported"`
	Entries   int    `yaml:"entries"`
	Cards     int    `yaml:"cards"`
	Resolved  int    `yaml:"resolved"`
	Generator string `yaml:"generator"`
}

// Export converts a record to Markdown.
func (e *MarkdownExporter) Export(rec *Record) ([]byte, error) {
	if rec == nil || len(rec.Entries) == 0 {
		return nil, ErrEmptyTranscript
	}

	fm := frontMatter{
		Title:     rec.Title,
		Scenario:  rec.Scenario,
		Exported:  rec.ExportedAt.Format(time.RFC3339),
		Entries:   len(rec.Entries),
		Generator: "coworker",
	}
	for _, er := range rec.Entries {
		if er.Card != nil {
			fm.Cards++
			if er.Card.Resolved {
				fm.Resolved++
			}
		}
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(header)
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(rec.Title))

	for _, er := range rec.Entries {
		label := roleLabel(er.Role)
		if e.options.IncludeTimestamps && !er.At.IsZero() {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", label, er.At.Format("15:04:05"))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", label)
		}

		if text := strings.TrimSpace(er.Text); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
		if er.Card != nil {
			sb.WriteString(formatCard(er.Card))
			sb.WriteString("\n\n")
		}
	}

	return []byte(strings.TrimRight(sb.String(), "\n") + "\n"), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func roleLabel(role string) string {
	switch role {
	case "user":
		return "You"
	case "agent":
		return "Coworker"
	case "system":
		return "Note"
	default:
		return "Unknown"
	}
}

var iconMarks = map[string]string{
	"check": "✓",
	"x":     "✗",
	"edit":  "✎",
	"clock": "◷",
}

// formatCard renders a card as a quoted line: its type and outcome.
func formatCard(c *CardRecord) string {
	kind := c.Type
	if kind != "" {
		kind = strings.ToUpper(kind[:1]) + kind[1:]
	}
	switch {
	case c.Resolved && c.Message != "":
		return fmt.Sprintf("> **%s card** %s %s", kind, iconMarks[c.Icon], escapeMarkdown(c.Message))
	case c.Resolved:
		return fmt.Sprintf("> **%s card** resolved", kind)
	default:
		return fmt.Sprintf("> **%s card** (open)", kind)
	}
}

// escapeMarkdown escapes characters that would break inline formatting.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var markdownEscaper = strings.NewReplacer(
	"#", `\#`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
)
