// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	lru "github.com/hashicorp/golang-lru/v2"
)

// markdownCacheSize bounds the number of rendered prose blocks kept around.
const markdownCacheSize = 256

// MarkdownRenderer renders prose bodies through glamour and memoizes the
// output by style, width and text.
type MarkdownRenderer struct {
	mu    sync.RWMutex
	style string
	cache *lru.Cache[string, string]
}

// NewMarkdownRenderer creates a renderer using a glamour standard style
// ("dark", "light", "notty", ...).
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	cache, err := lru.New[string, string](markdownCacheSize)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}
	return &MarkdownRenderer{style: style, cache: cache}
}

// SetStyle switches the glamour style and drops cached output.
func (r *MarkdownRenderer) SetStyle(style string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if style == r.style {
		return
	}
	r.style = style
	r.cache.Purge()
}

// Render returns text rendered as markdown wrapped at width. When glamour
// fails the text is returned word-wrapped without styling.
func (r *MarkdownRenderer) Render(text string, width int) string {
	r.mu.RLock()
	style := r.style
	r.mu.RUnlock()

	key := style + "\x00" + strconv.Itoa(width) + "\x00" + text
	if out, ok := r.cache.Get(key); ok {
		return out
	}

	out, err := r.render(style, text, width)
	if err != nil {
		out = wrap(text, width)
	}
	r.cache.Add(key, out)
	return out
}

func (r *MarkdownRenderer) render(style, text string, width int) (string, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := tr.Render(text)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

// Len returns the number of cached renders.
func (r *MarkdownRenderer) Len() int {
	return r.cache.Len()
}

// Markdown is the renderer used by prose bodies.
var Markdown = NewMarkdownRenderer("dark")
