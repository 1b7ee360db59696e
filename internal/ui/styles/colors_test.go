// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestAccentColorsDefined(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"Violet", Violet},
		{"Blue", Blue},
		{"Green", Green},
		{"Amber", Amber},
		{"Rose", Rose},
		{"Border", Border},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s must define both light and dark variants", c.name)
		}
	}
}

func TestStatusKeepsText(t *testing.T) {
	out := Status(Green, "Done")
	if !strings.Contains(out, "Done") {
		t.Errorf("Status dropped its text: %q", out)
	}
	if !strings.Contains(Muted("later"), "later") {
		t.Error("Muted dropped its text")
	}
}
