// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultBodies(t *testing.T) {
	tests := []struct {
		name string
		body ResultBody
		want []string
	}{
		{
			name: "prose",
			body: ProseBody{Text: "Revenue grew **12%** over Q2."},
			want: []string{"Revenue grew", "12%"},
		},
		{
			name: "highlights",
			body: HighlightsBody{Items: []HighlightItem{
				{Text: "Three invoices overdue", Dot: AccentAmber},
				{Text: "Payroll on track", Dot: AccentGreen},
			}},
			want: []string{"● Three invoices overdue", "● Payroll on track"},
		},
		{
			name: "key value",
			body: KeyValueBody{Rows: []KeyValueRow{
				{Label: "Owner", Value: "Dana"},
				{Label: "Due", Value: "Friday"},
			}},
			want: []string{"Owner", "Dana", "Friday"},
		},
		{
			name: "table",
			body: TableBody{
				Columns: []string{"Region", "Q3"},
				Rows:    [][]string{{"EMEA", "$1.2M"}, {"APAC", "$0.8M"}},
			},
			want: []string{"Region", "EMEA", "$0.8M", "───"},
		},
		{
			name: "sections",
			body: SectionsBody{Sections: []Section{
				{Heading: "Summary", Content: "All good."},
				{Heading: "Next steps", Content: "Send the deck."},
			}},
			want: []string{"Summary", "All good.", "Next steps"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewResultCard(ResultProps{Title: "Q3 review", Body: tt.body})
			view := c.View(60)
			for _, w := range tt.want {
				assert.Contains(t, view, w)
			}
			assertFits(t, view, 60)
			assert.False(t, c.Resolved(), "result cards never resolve")
		})
	}
}

func TestColumnWidthsShrinkToFit(t *testing.T) {
	cols := []string{"Name", "Description"}
	rows := [][]string{{"alpha", strings.Repeat("x", 80)}}

	widths := columnWidths(cols, rows, 40)
	assert.LessOrEqual(t, tableWidth(widths), 40)
	assert.Equal(t, 5, widths[0], "narrow columns keep their width")

	assert.Nil(t, columnWidths(nil, nil, 40))
}

func TestResultCardActionsAndSchedule(t *testing.T) {
	var open, edit, off counter
	c := NewResultCard(ResultProps{
		Title:        "Weekly digest",
		Notification: "Delivered to 4 people",
		Body:         ProseBody{Text: "Done."},
		Actions:      []Action{{Label: "Open", Style: StylePrimary, OnClick: open.fn}},
		Schedule:     &Schedule{Label: "Every Monday at 9:00", OnEdit: edit.fn, OnTurnOff: off.fn},
	})
	assert.True(t, c.Interactive())

	view := c.View(60)
	for _, w := range []string{"Delivered to 4 people", "Every Monday at 9:00", "Edit", "Turn off", "Open"} {
		assert.Contains(t, view, w)
	}

	c.Focus()
	press(c, "enter")
	press(c, "right", "enter")
	press(c, "right", "enter")
	press(c, "right", "enter")

	assert.Equal(t, 2, open.n, "actions can be used repeatedly")
	assert.Equal(t, 1, edit.n)
	assert.Equal(t, 1, off.n)
	assert.False(t, c.Resolved())
}

func TestResultCardWithoutActionsIsInert(t *testing.T) {
	c := NewResultCard(ResultProps{Title: "FYI", Body: ProseBody{Text: "nothing to do"}})
	assert.False(t, c.Interactive())
	assert.Nil(t, c.Invoke(0))
	assert.Nil(t, c.EditSchedule())
	assert.Nil(t, c.TurnOffSchedule())
}

func TestMarkdownCache(t *testing.T) {
	r := NewMarkdownRenderer("notty")
	first := r.Render("# Heading\n\nbody text", 40)
	second := r.Render("# Heading\n\nbody text", 40)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, r.Len())

	r.Render("# Heading\n\nbody text", 30)
	assert.Equal(t, 2, r.Len(), "width is part of the key")

	r.SetStyle("ascii")
	assert.Equal(t, 0, r.Len(), "style change purges")
	assert.Contains(t, r.Render("body text", 40), "body text")
}
