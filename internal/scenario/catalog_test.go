// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuiltin(t *testing.T, name string) *Scenario {
	t.Helper()
	sc, err := Find(name, "")
	require.NoError(t, err)
	return sc
}

func writeScenario(t *testing.T, dir, file, doc string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestBuiltinScenariosParse(t *testing.T) {
	list, err := Builtin()
	require.NoError(t, err)

	var names []string
	for _, sc := range list {
		names = append(names, sc.Name)
		assert.Empty(t, sc.Path)
		assert.NotEmpty(t, sc.Description, sc.Name)
	}
	assert.Equal(t, []string{"inbox", "planning", "tour"}, names)
}

func TestListMergesDirectory(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "tour.yaml", "name: tour\ntitle: My tour\nbeats:\n  - user: hi\n")
	writeScenario(t, dir, "extra.yml", "name: extra\nbeats:\n  - note: hello\n")
	writeScenario(t, dir, "broken.yaml", "name: broken\n")
	writeScenario(t, dir, "readme.txt", "not a scenario")

	list, err := List(dir)
	require.NoError(t, err)

	byName := make(map[string]*Scenario)
	for _, sc := range list {
		byName[sc.Name] = sc
	}
	assert.Len(t, list, 4)
	assert.Equal(t, "My tour", byName["tour"].Title)
	assert.NotEmpty(t, byName["extra"].Path)
	assert.NotContains(t, byName, "broken")
}

func TestListMissingDirectory(t *testing.T) {
	list, err := List(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "mine.yaml", "name: mine\nbeats:\n  - user: hi\n")

	sc, err := Find("mine", dir)
	require.NoError(t, err)
	assert.Equal(t, path, sc.Path)

	sc, err = Find(path, "")
	require.NoError(t, err)
	assert.Equal(t, "mine", sc.Name)

	sc, err = Find("inbox", dir)
	require.NoError(t, err)
	assert.Equal(t, "inbox", sc.Name)

	_, err = Find("missing", dir)
	assert.ErrorIs(t, err, ErrUnknownScenario)

	_, err = Find(filepath.Join(dir, "absent.yaml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
