// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command: config [subcommand]
//
// Subcommands:
//
//	show (default)      Display the effective configuration
//	path                Show the configuration file path
//	init                Write a configuration file with defaults
//	get <key>           Print one value
//	set <key> <value>   Change one value and save
//
// Examples:
//
//	coworker config set ui.theme light
//	coworker config set cards.choice_auto_resolve_ms 600
//	coworker config set scenario.default planning
//	coworker --config ./demo.toml config show --json

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/coworker-tui/internal/config"
)

// ConfigPath returns the config file in use: the --config flag or the
// default location.
func ConfigPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// LoadConfig loads the config file selected by args.
func LoadConfig(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFromPath(args.ConfigPath)
	}
	return config.Load()
}

// =============================================================================
// HANDLE CONFIG
// =============================================================================

// HandleConfig handles the "config" command.
func HandleConfig(w io.Writer, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(w, args)
	case "path":
		return handleConfigPath(w, args)
	case "init":
		return handleConfigInit(w, args)
	case "get":
		return handleConfigGet(w, args)
	case "set":
		return handleConfigSet(w, args)
	default:
		return NewValidationErrorWithExample("config subcommand", args.Subcommand,
			"expected show, path, init, get or set", "coworker config set ui.theme light")
	}
}

func handleConfigShow(w io.Writer, args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return NewCommandError("config", "show", "could not load configuration", err)
	}

	if args.JSON {
		values := make(map[string]interface{}, len(config.GetAllKeys()))
		for _, key := range config.GetAllKeys() {
			v, err := cfg.Get(key)
			if err != nil {
				return err
			}
			values[key] = v
		}
		return NewJSONResponse("config", values).Write(w)
	}

	path, _ := ConfigPath(args)
	fmt.Fprintln(w, TitleStyle.Render("Configuration"))
	for _, key := range config.GetAllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s%s\n", LabelStyle.Render(key), ValueStyle.Render(formatValue(v)))
	}
	fmt.Fprintf(w, "\n%s\n", DimStyle.Render("File: "+path))
	return nil
}

func handleConfigPath(w io.Writer, args Args) error {
	path, err := ConfigPath(args)
	if err != nil {
		return NewCommandError("config", "path", "could not determine config location", err)
	}

	if args.JSON {
		_, statErr := os.Stat(path)
		return NewJSONResponse("config", map[string]interface{}{
			"path":   path,
			"exists": statErr == nil,
		}).Write(w)
	}
	fmt.Fprintln(w, path)
	return nil
}

func handleConfigInit(w io.Writer, args Args) error {
	path, err := ConfigPath(args)
	if err != nil {
		return NewCommandError("config", "init", "could not determine config location", err)
	}

	force := NewArgParser(args.Raw).BoolFlag("force")
	if _, statErr := os.Stat(path); statErr == nil && !force {
		return NewCommandError("config", "init", "file already exists (use --force to overwrite)", nil)
	} else if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return NewCommandError("config", "init", "could not check config file", statErr)
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return NewCommandError("config", "init", "could not write config file", err)
	}
	fmt.Fprintf(w, "%s %s\n", SuccessStyle.Render("Wrote"), path)
	return nil
}

func handleConfigGet(w io.Writer, args Args) error {
	if args.ConfigKey == "" {
		return NewValidationErrorWithExample("key", "", "a key is required", "coworker config get ui.theme")
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return NewCommandError("config", "get", "could not load configuration", err)
	}
	v, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return &NotFoundError{Resource: "config key", ID: args.ConfigKey, Hint: keyHint(args.ConfigKey)}
	}

	if args.JSON {
		return NewJSONResponse("config", ConfigValueData{Key: args.ConfigKey, Value: v}).Write(w)
	}
	fmt.Fprintln(w, formatValue(v))
	return nil
}

func handleConfigSet(w io.Writer, args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return NewValidationErrorWithExample("arguments", "", "a key and a value are required",
			"coworker config set ui.theme light")
	}

	path, err := ConfigPath(args)
	if err != nil {
		return NewCommandError("config", "set", "could not determine config location", err)
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return NewCommandError("config", "set", "could not load configuration", err)
	}

	if _, err := cfg.Get(args.ConfigKey); err != nil {
		return &NotFoundError{Resource: "config key", ID: args.ConfigKey, Hint: keyHint(args.ConfigKey)}
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return &ValidationError{Field: args.ConfigKey, Value: args.ConfigVal, Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return NewCommandError("config", "set", "value rejected", err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return NewCommandError("config", "set", "could not write config file", err)
	}

	fmt.Fprintf(w, "%s %s = %s\n", SuccessStyle.Render("Set"), args.ConfigKey, args.ConfigVal)
	return nil
}

// keyHint suggests a known key for a mistyped one.
func keyHint(key string) string {
	if s := SuggestFrom(key, config.GetAllKeys()); s != "" {
		return fmt.Sprintf("Did you mean %q?", s)
	}
	return "Run 'coworker config show' to list keys."
}

func formatValue(v interface{}) string {
	if s, ok := v.(string); ok && s == "" {
		return "(unset)"
	}
	return fmt.Sprint(v)
}
