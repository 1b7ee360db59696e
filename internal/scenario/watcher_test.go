// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitReload(t *testing.T, w *Watcher) ReloadMsg {
	t.Helper()
	got := make(chan tea.Msg, 1)
	go func() { got <- w.Next()() }()

	select {
	case msg := <-got:
		reload, ok := msg.(ReloadMsg)
		require.True(t, ok, "unexpected message %T", msg)
		return reload
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
		return ReloadMsg{}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "live.yaml", "name: live\nbeats:\n  - user: one\n")

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("name: live\nbeats:\n  - user: one\n  - user: two\n"), 0o600))

	reload := waitReload(t, w)
	require.NoError(t, reload.Err)
	assert.Len(t, reload.Scenario.Beats, 2)
}

func TestWatcherReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "live.yaml", "name: live\nbeats:\n  - user: one\n")

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("name: live\n"), 0o600))

	reload := waitReload(t, w)
	assert.ErrorIs(t, reload.Err, ErrEmptyScenario)
	assert.Nil(t, reload.Scenario)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "live.yaml", "name: live\nbeats:\n  - user: one\n")

	w, err := NewWatcher(path, 20*time.Millisecond)
	require.NoError(t, err)

	writeScenario(t, dir, "other.yaml", "name: other\nbeats:\n  - user: x\n")
	time.Sleep(100 * time.Millisecond)

	select {
	case msg := <-w.reloads:
		t.Fatalf("unexpected reload %+v", msg)
	default:
	}
	require.NoError(t, w.Close())
	assert.Nil(t, w.Next()())
}
