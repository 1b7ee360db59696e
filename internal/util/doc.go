// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the card framework, the
// transcript and the CLI.
//
// # Key Functions
//
// Display width (terminal columns, CJK aware via go-runewidth):
//   - StringWidth: number of columns a string occupies
//   - TruncateWidth: cut a string to a column budget with an ellipsis
//   - PadWidth: right-pad a string to an exact column count
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync, used by config init
//
// # Usage
//
//	cell := util.PadWidth(util.TruncateWidth(value, 18), 18)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
