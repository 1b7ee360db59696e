// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cards provides the interactive cards an agent drops into the
// transcript: results, prompts, drafts, choices, forms, progress, errors and
// batch reviews.
//
// Every card is a small Bubble Tea component. Update returns a command and
// whether the card consumed the message; View draws the card at a given
// width. Cards do no I/O and talk to their owner only through the callbacks
// in their props, each of which returns a tea.Cmd.
//
// # Resolution
//
// A resolvable card resolves at most once. After that it renders through
// ResolvedInline as a single line and ignores input, so the transcript can
// treat every decided card the same way.
//
// # Timers
//
// ChoiceCard and DraftCard delay their resolution (see Pacing). The delay is
// a tea.Tick scoped to the card: the TimerMsg carries the card ID and a
// generation, and Teardown closes the scope, so a tick that arrives after the
// card is gone changes nothing. Owners must route TimerMsg to the card whose
// ID it carries.
package cards
