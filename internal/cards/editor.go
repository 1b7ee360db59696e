// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/coworker-tui/internal/ui/styles"
)

// textEditor wraps a single-line textinput or a multi-line textarea behind
// one API so drafts and forms can treat every text slot alike.
type textEditor struct {
	multiline bool
	input     textinput.Model
	area      textarea.Model
}

func newTextEditor(value, placeholder string, multiline bool) *textEditor {
	e := &textEditor{multiline: multiline}
	if multiline {
		e.area = textarea.New()
		e.area.ShowLineNumbers = false
		e.area.Prompt = ""
		e.area.Placeholder = placeholder
		e.area.SetHeight(4)
		e.area.CharLimit = 0
		e.area.SetValue(value)
		e.area.Blur()
		return e
	}
	e.input = textinput.New()
	e.input.Prompt = ""
	e.input.Placeholder = placeholder
	e.input.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted)
	e.input.CharLimit = 0
	e.input.SetValue(value)
	e.input.Blur()
	return e
}

func (e *textEditor) Value() string {
	if e.multiline {
		return e.area.Value()
	}
	return e.input.Value()
}

func (e *textEditor) SetValue(v string) {
	if e.multiline {
		e.area.SetValue(v)
		return
	}
	e.input.SetValue(v)
}

func (e *textEditor) Focus() tea.Cmd {
	if e.multiline {
		return e.area.Focus()
	}
	return e.input.Focus()
}

func (e *textEditor) Blur() {
	if e.multiline {
		e.area.Blur()
		return
	}
	e.input.Blur()
}

func (e *textEditor) Focused() bool {
	if e.multiline {
		return e.area.Focused()
	}
	return e.input.Focused()
}

func (e *textEditor) SetWidth(w int) {
	if w < 8 {
		w = 8
	}
	if e.multiline {
		e.area.SetWidth(w)
		return
	}
	e.input.Width = w
}

// Update forwards msg and reports whether the value changed.
func (e *textEditor) Update(msg tea.Msg) (tea.Cmd, bool) {
	before := e.Value()
	var cmd tea.Cmd
	if e.multiline {
		e.area, cmd = e.area.Update(msg)
	} else {
		e.input, cmd = e.input.Update(msg)
	}
	return cmd, e.Value() != before
}

// View renders the editor with an underline-style frame. invalid draws the
// frame in the error color.
func (e *textEditor) View(width int, invalid bool) string {
	e.SetWidth(width - 2)
	border := lipgloss.TerminalColor(styles.BorderDim)
	switch {
	case invalid:
		border = styles.Rose
	case e.Focused():
		border = styles.Violet
	}
	var body string
	if e.multiline {
		body = e.area.View()
	} else {
		body = e.input.View()
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(border).
		PaddingLeft(1).
		Render(body)
}
