// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/jeranaias/coworker-tui/internal/scenario"
)

// PickScenario asks the user to choose a scenario from dir and the
// built-ins. preselect is highlighted first when present.
func PickScenario(dir, preselect string) (string, error) {
	all, err := scenario.List(dir)
	if err != nil {
		return "", err
	}
	if len(all) == 0 {
		return "", scenario.ErrUnknownScenario
	}

	choice := preselect
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which scenario would you like to play?").
				Options(scenarioOptions(all)...).
				Value(&choice),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("failed to pick a scenario: %w", err)
	}
	return choice, nil
}

func scenarioOptions(all []*scenario.Scenario) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(all))
	for _, sc := range all {
		label := sc.DisplayTitle()
		if sc.Description != "" {
			label += " - " + sc.Description
		}
		opts = append(opts, huh.NewOption(label, sc.Name))
	}
	return opts
}
