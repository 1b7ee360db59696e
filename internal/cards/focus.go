// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

// focusRing tracks which of n focusable slots has keyboard focus, skipping
// disabled slots.
type focusRing struct {
	index int
}

// move steps delta slots (wrapping) until it lands on an enabled slot.
// With no enabled slot the index is left unchanged.
func (f *focusRing) move(delta, n int, enabled func(int) bool) {
	if n <= 0 {
		f.index = 0
		return
	}
	i := f.index
	for step := 0; step < n; step++ {
		i = ((i+delta)%n + n) % n
		if enabled == nil || enabled(i) {
			f.index = i
			return
		}
	}
}

// clamp keeps the index in range and on an enabled slot after the slot set
// changed.
func (f *focusRing) clamp(n int, enabled func(int) bool) {
	if n <= 0 {
		f.index = 0
		return
	}
	if f.index >= n {
		f.index = n - 1
	}
	if f.index < 0 {
		f.index = 0
	}
	if enabled != nil && !enabled(f.index) {
		f.move(1, n, enabled)
	}
}

// is reports whether slot i has focus.
func (f *focusRing) is(i int) bool { return f.index == i }
