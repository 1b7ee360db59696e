// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive commands
// of coworker.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdPlay:
//	    runTUI(args)
//	case cli.CmdGallery:
//	    err = cli.HandleGallery(args)
//	// ... other commands
//	}
//
// # Commands
//
//   - play: Play a scenario in the full-screen transcript (default)
//   - gallery: Print every card type and state to stdout
//   - list: List built-in and local scenarios
//   - config: Show, locate, create or edit the config file
//   - version, help
//
// Commands that print data accept --json.
package cli
