// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cards

import "errors"

// Construction errors. Props that would render a card the user cannot act on
// are rejected up front instead of being drawn wrong.
var (
	ErrNoActions         = errors.New("cards: at least one action is required")
	ErrNoRecovery        = errors.New("cards: error card needs at least one recovery action")
	ErrNoOptions         = errors.New("cards: choice needs at least one option")
	ErrDuplicateOption   = errors.New("cards: duplicate option id")
	ErrAttributeMismatch = errors.New("cards: comparison options must have aligned attributes")
	ErrNoItems           = errors.New("cards: batch needs at least one item")
	ErrDuplicateItem     = errors.New("cards: duplicate batch item id")
	ErrDuplicateField    = errors.New("cards: duplicate form field key")
	ErrUnknownField      = errors.New("cards: unknown form field key")
)
