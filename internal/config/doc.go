// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for coworker.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - UIConfig: Theme, card width and compact mode
//   - CardsConfig: Pacing of cards that resolve on a timer
//   - LogConfig: Log file location and level
//   - ScenarioConfig: Default scenario, extra scenario directory, hot reload
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (COWORKER_*), optionally read from a .env file
//   - ~/.coworker/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	pacing := cfg.Cards.Pacing()
//	width := cfg.UI.MaxWidth
package config
