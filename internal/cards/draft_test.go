// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftFields() []DraftField {
	return []DraftField{
		DraftHeader{Label: "To", Value: "dana@example.com"},
		DraftHeader{Label: "Subject", Value: "Q3 numbers"},
		DraftText{Value: "Hi Dana,\nThe Q3 summary is attached.", Multiline: true},
		DraftReadonly{Label: "From", Value: "me@example.com"},
		DraftChips{Label: "Attachments", Chips: []string{"q3.pdf", "notes.md"}},
	}
}

func TestDraftCancelRestoresOriginal(t *testing.T) {
	c := NewDraftCard(DraftProps{Title: "Email draft", Fields: draftFields(), Pacing: fastPacing()})

	c.Edit()
	require.Equal(t, DraftEditing, c.State())
	require.True(t, c.SetFieldValue(1, "Changed subject"))
	require.True(t, c.SetFieldValue(2, "Changed body"))
	assert.Equal(t, "Changed subject", c.Fields()[1].(DraftHeader).Value)

	c.CancelEdit()
	assert.Equal(t, DraftReview, c.State())
	assert.Equal(t, draftFields(), c.Fields())

	c.Edit()
	assert.Equal(t, draftFields(), c.Fields(), "reopening edit shows the original, not the cancelled edits")
	assert.Equal(t, "Q3 numbers", c.editors[1].Value())
}

func TestDraftCancelAfterCommittedEditRestoresConstructorInput(t *testing.T) {
	fields := draftFields()
	c := NewDraftCard(DraftProps{Fields: fields, Pacing: fastPacing()})

	fields[0] = DraftHeader{Label: "To", Value: "mutated by caller"}
	c.Edit()
	c.SetFieldValue(0, "typed")
	c.CancelEdit()

	assert.Equal(t, "dana@example.com", c.Fields()[0].(DraftHeader).Value,
		"the card keeps its own copy of the fields")
}

func TestDraftOnlyEditableFieldsGetEditors(t *testing.T) {
	fields := append(draftFields(), DraftHeader{Label: "Cc", Value: "ops@example.com", Locked: true})
	c := NewDraftCard(DraftProps{Fields: fields, Pacing: fastPacing()})
	c.Edit()

	assert.Len(t, c.editors, 3)
	assert.False(t, c.SetFieldValue(3, "x"), "readonly")
	assert.False(t, c.SetFieldValue(4, "x"), "chips")
	assert.False(t, c.SetFieldValue(5, "x"), "locked header")
}

func TestDraftApproveCollapsesThenResolves(t *testing.T) {
	var c *DraftCard
	var got []DraftField
	var stateAtCallback DraftState
	c = NewDraftCard(DraftProps{
		Fields: draftFields(),
		Pacing: fastPacing(),
		OnApprove: func(fields []DraftField) tea.Cmd {
			got = fields
			stateAtCallback = c.State()
			return nil
		},
	})

	cmd := c.Approve()
	require.NotNil(t, cmd)
	assert.True(t, c.Collapsing())
	assert.False(t, c.Resolved())
	assert.Nil(t, got, "callback waits for the collapse")
	assert.Nil(t, c.Approve(), "second approve while collapsing is ignored")
	assert.Nil(t, c.Deny())

	c.Update(fire(cmd))

	assert.False(t, c.Collapsing())
	assert.True(t, c.Resolved())
	assert.Equal(t, DraftApproved, stateAtCallback, "state flips before the callback")
	assert.Equal(t, draftFields(), got)
	assert.Equal(t, "✓ Sent", c.View(60))
}

func TestDraftSendFromEditCommitsEdits(t *testing.T) {
	var got []DraftField
	c := NewDraftCard(DraftProps{
		Fields:    draftFields(),
		Pacing:    fastPacing(),
		OnApprove: func(fields []DraftField) tea.Cmd { got = fields; return nil },
	})

	c.Edit()
	c.SetFieldValue(2, "Short body")
	assert.Nil(t, c.Deny(), "edit mode has no deny")

	c.Update(fire(c.Approve()))

	require.Len(t, got, 5)
	assert.Equal(t, "Short body", got[2].(DraftText).Value)
	assert.Equal(t, DraftApproved, c.State())
}

func TestDraftDeny(t *testing.T) {
	var denied, approved counter
	c := NewDraftCard(DraftProps{
		Fields:    draftFields(),
		Pacing:    fastPacing(),
		OnDeny:    denied.fn,
		OnApprove: func([]DraftField) tea.Cmd { return approved.fn() },
	})

	msg := fire(c.Deny())
	c.Update(msg)
	c.Update(msg)

	assert.Equal(t, 1, denied.n)
	assert.Equal(t, 0, approved.n)
	assert.Equal(t, DraftDenied, c.State())
	assert.Equal(t, "✗ Discarded", c.View(60))
}

func TestDraftTeardownCancelsCollapse(t *testing.T) {
	var approved counter
	c := NewDraftCard(DraftProps{
		Fields:    draftFields(),
		Pacing:    fastPacing(),
		OnApprove: func([]DraftField) tea.Cmd { return approved.fn() },
	})

	cmd := c.Approve()
	c.Teardown()
	c.Update(fire(cmd))

	assert.Equal(t, 0, approved.n)
	assert.False(t, c.Resolved())
}

func TestDraftKeyboardFlow(t *testing.T) {
	c := NewDraftCard(DraftProps{Fields: draftFields(), Pacing: fastPacing()})
	c.Focus()

	press(c, "right", "enter")
	require.Equal(t, DraftEditing, c.State(), "second button is Edit")

	// First editor is the To header.
	typeText(c, "x")
	assert.Equal(t, "dana@example.comx", c.Fields()[0].(DraftHeader).Value)

	press(c, "esc")
	assert.Equal(t, DraftReview, c.State())
	assert.Equal(t, draftFields(), c.Fields())

	cmd := press(c, "enter")
	assert.Equal(t, DraftReview, c.State(), "cancel returns focus to Send")
	require.NotNil(t, cmd)
	c.Update(fire(cmd))
	assert.Equal(t, DraftApproved, c.State())
}

func TestDraftDefaultsAndView(t *testing.T) {
	c := NewDraftCard(DraftProps{Title: "Reply", Fields: draftFields()})
	assert.Equal(t, DefaultPacing(), c.props.Pacing)

	view := c.View(60)
	for _, want := range []string{"Reply", "Subject:", "Q3 numbers", "From:", "q3.pdf", "Send", "Edit", "Discard"} {
		assert.Contains(t, view, want)
	}
	assertFits(t, view, 60)

	c.Edit()
	assert.Contains(t, c.View(60), "editing")
}
