// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scenario

import (
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.FatalLevel)
	os.Exit(m.Run())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "valid",
			doc: `
name: demo
beats:
  - user: hi
  - agent: hello
  - note: done
`,
		},
		{
			name:    "missing name",
			doc:     "beats:\n  - user: hi\n",
			wantErr: "name is required",
		},
		{
			name:    "no beats",
			doc:     "name: demo\n",
			wantErr: "no beats",
		},
		{
			name:    "empty beat",
			doc:     "name: demo\nbeats:\n  - delay_ms: 10\n",
			wantErr: "beat 1: beat is empty",
		},
		{
			name:    "mixed beat",
			doc:     "name: demo\nbeats:\n  - user: hi\n    note: also\n",
			wantErr: "more than one",
		},
		{
			name:    "negative delay",
			doc:     "name: demo\nbeats:\n  - user: hi\n    delay_ms: -1\n",
			wantErr: "negative",
		},
		{
			name:    "unknown card",
			doc:     "name: demo\nbeats:\n  - card:\n      type: hologram\n",
			wantErr: "unknown card type",
		},
		{
			name:    "prompt without actions",
			doc:     "name: demo\nbeats:\n  - card:\n      type: prompt\n      message: ok?\n",
			wantErr: "at least one action",
		},
		{
			name:    "bad yaml",
			doc:     "name: [",
			wantErr: "failed to decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Parse([]byte(tt.doc))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "demo", sc.Name)
			assert.Len(t, sc.Beats, 3)
		})
	}
}

func TestDisplayTitle(t *testing.T) {
	sc := &Scenario{Name: "demo"}
	assert.Equal(t, "demo", sc.DisplayTitle())
	sc.Title = "Demo run"
	assert.Equal(t, "Demo run", sc.DisplayTitle())
}

func TestBeatReply(t *testing.T) {
	b := Beat{Replies: map[string]string{
		"Send": "Sent.",
		"*":    "Picked {value}.",
	}}

	assert.Equal(t, "Sent.", b.reply("Send", ""))
	assert.Equal(t, "Sent.", b.reply("send", ""))
	assert.Equal(t, "Picked Tuesday.", b.reply("tue", "Tuesday"))
	assert.Empty(t, Beat{}.reply("Send", ""))
}
