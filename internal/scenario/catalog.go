// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

//go:embed scenarios/*.yaml
var builtinFS embed.FS

// =============================================================================
// CATALOG
// =============================================================================

// Builtin returns the scenarios shipped with the binary, sorted by name.
func Builtin() ([]*Scenario, error) {
	entries, err := fs.ReadDir(builtinFS, "scenarios")
	if err != nil {
		return nil, err
	}

	var out []*Scenario
	for _, e := range entries {
		data, err := builtinFS.ReadFile("scenarios/" + e.Name())
		if err != nil {
			return nil, err
		}
		sc, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", e.Name(), err)
		}
		out = append(out, sc)
	}
	sortByName(out)
	return out, nil
}

// LoadFile reads and validates a scenario file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Path = path
	return sc, nil
}

// LoadDir reads every *.yaml and *.yml file in dir. Files that fail to
// parse are logged and skipped.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []*Scenario
	for _, e := range entries {
		if e.IsDir() || !isScenarioFile(e.Name()) {
			continue
		}
		sc, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Warn("skipping scenario", "file", e.Name(), "err", err)
			continue
		}
		out = append(out, sc)
	}
	sortByName(out)
	return out, nil
}

// List returns the built-in scenarios merged with those in dir. A scenario
// in dir replaces a built-in of the same name. dir may be empty.
func List(dir string) ([]*Scenario, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return builtin, nil
	}

	local, err := LoadDir(dir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	byName := make(map[string]*Scenario, len(builtin)+len(local))
	for _, sc := range builtin {
		byName[sc.Name] = sc
	}
	for _, sc := range local {
		byName[sc.Name] = sc
	}

	out := make([]*Scenario, 0, len(byName))
	for _, sc := range byName {
		out = append(out, sc)
	}
	sortByName(out)
	return out, nil
}

// Find resolves ref to a scenario. A ref ending in .yaml or .yml, or
// containing a path separator, is read as a file. Otherwise it is looked up
// by name in dir and then among the built-ins.
func Find(ref, dir string) (*Scenario, error) {
	if isScenarioFile(ref) || strings.ContainsRune(ref, filepath.Separator) || strings.Contains(ref, "/") {
		return LoadFile(ref)
	}

	all, err := List(dir)
	if err != nil {
		return nil, err
	}
	for _, sc := range all {
		if sc.Name == ref {
			return sc, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", ref, ErrUnknownScenario)
}

func isScenarioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func sortByName(list []*Scenario) {
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
}
