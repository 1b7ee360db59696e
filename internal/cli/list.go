// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"

	"github.com/jeranaias/coworker-tui/internal/scenario"
)

// HandleList handles the "list" command. dir is the local scenario
// directory from the config; it may be empty or missing.
func HandleList(w io.Writer, args Args, dir string) error {
	all, err := scenario.List(dir)
	if err != nil {
		return NewCommandError("list", "read", "could not load scenarios", err)
	}

	if args.JSON {
		data := make([]ScenarioData, 0, len(all))
		for _, sc := range all {
			data = append(data, scenarioData(sc))
		}
		return NewJSONResponse("list", data).Write(w)
	}

	fmt.Fprintln(w, TitleStyle.Render("Scenarios"))
	for _, sc := range all {
		d := scenarioData(sc)
		fmt.Fprintf(w, "%s%s\n", LabelStyle.Render(NameStyle.Render(d.Name)), ValueStyle.Render(d.Title))
		detail := fmt.Sprintf("%d beats, %d cards", d.Beats, d.Cards)
		if d.Path != "" {
			detail += ", " + d.Path
		}
		if d.Description != "" {
			fmt.Fprintf(w, "%s%s\n", LabelStyle.Render(""), DimStyle.Render(d.Description))
		}
		fmt.Fprintf(w, "%s%s\n", LabelStyle.Render(""), DimStyle.Render(detail))
	}
	fmt.Fprintf(w, "\n%s\n", DimStyle.Render("Play one with: coworker play <name>"))
	return nil
}

func scenarioData(sc *scenario.Scenario) ScenarioData {
	d := ScenarioData{
		Name:        sc.Name,
		Title:       sc.DisplayTitle(),
		Description: sc.Description,
		Beats:       len(sc.Beats),
		Path:        sc.Path,
	}
	for _, b := range sc.Beats {
		if b.Card != nil {
			d.Cards++
		}
	}
	return d
}
