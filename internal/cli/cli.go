// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdPlay Command = iota
	CmdGallery
	CmdList
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdPlay:
		return "play"
	case CmdGallery:
		return "gallery"
	case CmdList:
		return "list"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	Watch      bool
	Width      int
	NoColor    bool
	JSON       bool

	// Command-specific
	Scenario   string
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Kinds      []string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `coworker - interactive cards for a scripted agent transcript

Usage:
  coworker [scenario]              Play a scenario (default)
  coworker play [scenario|file]    Play a built-in scenario or a YAML file
  coworker gallery [type...]       Print every card type and state
  coworker list                    List available scenarios
  coworker config [show]           Show the effective configuration
  coworker config path             Show the config file location
  coworker config init             Write a config file with defaults
  coworker config get <key>        Print one value (e.g. ui.theme)
  coworker config set <key> <val>  Change one value and save
  coworker version                 Show version information
  coworker help                    Show this help

Global flags:
  --config FILE    Read configuration from FILE
  --watch          Reload the scenario file when it changes
  --width N        Maximum card width in columns
  --no-color       Disable colors (NO_COLOR is also honored)
  --json           Machine-readable output for list, config and version

In the transcript:
  tab / shift+tab  Move between buttons and fields
  enter            Activate
  ctrl+n / ctrl+p  Next / previous open card
  pgup / pgdown    Scroll
  ?                More keys
  ctrl+c           Quit

Card types: result, prompt, draft, choice, form, progress, error, batch
`

// PrintUsage prints the usage text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("coworker %s\n", Version)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Printf("  Built:   %s\n", BuildDate)
	fmt.Printf("  Go:      %s\n", runtime.Version())
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses args without the program name. Unknown first words are
// taken as a scenario name to play.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdPlay, parsedArgs
	}

	word := remaining[0]
	cmd := strings.ToLower(word)
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "play", "run":
		if len(remaining) > 0 {
			parsedArgs.Scenario = remaining[0]
		}
		return CmdPlay, parsedArgs

	case "gallery", "cards":
		parsedArgs.Kinds = remaining
		return CmdGallery, parsedArgs

	case "list", "ls":
		return CmdList, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// File paths are case sensitive, so keep the word as typed.
		parsedArgs.Scenario = word
		parsedArgs.Raw = append([]string{word}, remaining...)
		return CmdPlay, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--watch", "-w":
			parsedArgs.Watch = true
		case "--no-color":
			parsedArgs.NoColor = true
		case "--json":
			parsedArgs.JSON = true
		case "--config", "-c":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		case "--width":
			if i+1 < len(args) {
				i++
				parsedArgs.Width = parseWidth(args[i])
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			case strings.HasPrefix(arg, "--width="):
				parsedArgs.Width = parseWidth(strings.TrimPrefix(arg, "--width="))
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

func parseWidth(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Subcommand = p.Subcommand()
	args.ConfigKey = p.Positional(1)
	args.ConfigVal = JoinPositionalArgs(p, 2)
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleVersion handles the "version" command with JSON output support.
func HandleVersion(args Args) error {
	if args.JSON {
		data := VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}
		return NewJSONResponse("version", data).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
