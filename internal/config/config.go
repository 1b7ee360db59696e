// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/coworker-tui/internal/cards"
	"github.com/jeranaias/coworker-tui/internal/logging"
	"github.com/jeranaias/coworker-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete coworker configuration.
type Config struct {
	Version string `toml:"version"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Card pacing
	Cards CardsConfig `toml:"cards"`

	// Log file configuration
	Log LogConfig `toml:"log"`

	// Scenario selection and hot reload
	Scenario ScenarioConfig `toml:"scenario"`
}

// UIConfig contains user interface preferences.
type UIConfig struct {
	// Theme is "auto", "dark" or "light".
	Theme string `toml:"theme"`
	// MaxWidth caps card width in columns.
	MaxWidth int `toml:"max_width"`
	// Compact renders prompts in their compact variant.
	Compact bool `toml:"compact"`
}

// CardsConfig contains the delays of cards that resolve on a timer.
type CardsConfig struct {
	// ChoiceAutoResolveMs is how long a single-select highlight shows before
	// the card collapses.
	ChoiceAutoResolveMs int `toml:"choice_auto_resolve_ms"`
	// DraftCollapseMs is the draft approve/deny collapse animation.
	DraftCollapseMs int `toml:"draft_collapse_ms"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// Path is the log file (empty = discard).
	Path string `toml:"path"`
}

// ScenarioConfig contains scenario playback configuration.
type ScenarioConfig struct {
	// Default is the scenario played when none is named.
	Default string `toml:"default"`
	// Dir holds additional scenario files.
	Dir string `toml:"dir"`
	// Watch reloads scenario files when they change.
	Watch bool `toml:"watch"`
}

// Pacing converts the configured delays into card pacing.
func (c CardsConfig) Pacing() cards.Pacing {
	return cards.Pacing{
		ChoiceAutoResolve: time.Duration(c.ChoiceAutoResolveMs) * time.Millisecond,
		DraftCollapse:     time.Duration(c.DraftCollapseMs) * time.Millisecond,
	}
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	logPath := ""
	if dir, err := ConfigDir(); err == nil {
		logPath = filepath.Join(dir, "coworker.log")
	}

	return &Config{
		Version: "1.0.0",

		UI: UIConfig{
			Theme:    "auto",
			MaxWidth: cards.DefaultMaxWidth,
			Compact:  false,
		},

		Cards: CardsConfig{
			ChoiceAutoResolveMs: int(cards.ChoiceAutoResolveDelay / time.Millisecond),
			DraftCollapseMs:     int(cards.DraftCollapseDelay / time.Millisecond),
		},

		Log: LogConfig{
			Level: logging.DefaultLevel,
			Path:  logPath,
		},

		Scenario: ScenarioConfig{
			Default: "tour",
			Dir:     "",
			Watch:   false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the coworker configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".coworker"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadEnvFile loads KEY=VALUE pairs from a .env file into the environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from the default config file, falling back to
// defaults when it does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return finish(cfg)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from path. A missing file yields the
// defaults with environment overrides applied.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// their current value.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration atomically to path.
func SaveTOML(cfg *Config, path string) error {
	data, err := cfg.encode()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# coworker configuration file\n")
	buf.WriteString("# Generated by coworker - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

const (
	minCardWidth = 30
	maxCardWidth = 200
	maxDelayMs   = 5000
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// UI Settings Validation
	// ==========================================================================

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if c.UI.MaxWidth < minCardWidth || c.UI.MaxWidth > maxCardWidth {
		errs = append(errs, ValidationError{
			Field:   "ui.max_width",
			Message: fmt.Sprintf("must be between %d and %d", minCardWidth, maxCardWidth),
		})
	}

	// ==========================================================================
	// Card Pacing Validation
	// ==========================================================================

	if c.Cards.ChoiceAutoResolveMs < 0 || c.Cards.ChoiceAutoResolveMs > maxDelayMs {
		errs = append(errs, ValidationError{
			Field:   "cards.choice_auto_resolve_ms",
			Message: fmt.Sprintf("must be between 0 and %d", maxDelayMs),
		})
	}
	if c.Cards.DraftCollapseMs < 0 || c.Cards.DraftCollapseMs > maxDelayMs {
		errs = append(errs, ValidationError{
			Field:   "cards.draft_collapse_ms",
			Message: fmt.Sprintf("must be between 0 and %d", maxDelayMs),
		})
	}

	// ==========================================================================
	// Log Settings Validation
	// ==========================================================================

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level),
		})
	}

	// ==========================================================================
	// Scenario Settings Validation
	// ==========================================================================

	if c.Scenario.Watch && c.Scenario.Dir == "" {
		errs = append(errs, ValidationError{
			Field:   "scenario.watch",
			Message: "requires scenario.dir",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.MaxWidth == 0 {
		c.UI.MaxWidth = defaults.UI.MaxWidth
	}
	if c.Cards.ChoiceAutoResolveMs == 0 {
		c.Cards.ChoiceAutoResolveMs = defaults.Cards.ChoiceAutoResolveMs
	}
	if c.Cards.DraftCollapseMs == 0 {
		c.Cards.DraftCollapseMs = defaults.Cards.DraftCollapseMs
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Scenario.Default == "" {
		c.Scenario.Default = defaults.Scenario.Default
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Supported variables:
//   - COWORKER_THEME: overrides ui.theme
//   - COWORKER_MAX_WIDTH: overrides ui.max_width
//   - COWORKER_COMPACT: overrides ui.compact
//   - COWORKER_CHOICE_DELAY_MS: overrides cards.choice_auto_resolve_ms
//   - COWORKER_DRAFT_DELAY_MS: overrides cards.draft_collapse_ms
//   - COWORKER_LOG_LEVEL: overrides log.level
//   - COWORKER_LOG_PATH: overrides log.path
//   - COWORKER_SCENARIO: overrides scenario.default
//   - COWORKER_SCENARIO_DIR: overrides scenario.dir
//   - COWORKER_WATCH: overrides scenario.watch
//
// Unparseable numbers are ignored.
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv("COWORKER_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if n, ok := envInt("COWORKER_MAX_WIDTH"); ok {
		c.UI.MaxWidth = n
	}
	if compact := os.Getenv("COWORKER_COMPACT"); compact != "" {
		c.UI.Compact = parseBool(compact)
	}

	if n, ok := envInt("COWORKER_CHOICE_DELAY_MS"); ok {
		c.Cards.ChoiceAutoResolveMs = n
	}
	if n, ok := envInt("COWORKER_DRAFT_DELAY_MS"); ok {
		c.Cards.DraftCollapseMs = n
	}

	if level := os.Getenv("COWORKER_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if path := os.Getenv("COWORKER_LOG_PATH"); path != "" {
		c.Log.Path = path
	}

	if name := os.Getenv("COWORKER_SCENARIO"); name != "" {
		c.Scenario.Default = name
	}
	if dir := os.Getenv("COWORKER_SCENARIO_DIR"); dir != "" {
		c.Scenario.Dir = dir
	}
	if watch := os.Getenv("COWORKER_WATCH"); watch != "" {
		c.Scenario.Watch = parseBool(watch)
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes"
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "ui.max_width").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.max_width").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks key through the nested sections.
func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("'%s' is a section, not a value", key)
			}
			return field, nil
		}

		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			field.SetBool(parseBool(strVal))
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"ui.theme",
		"ui.max_width",
		"ui.compact",
		"cards.choice_auto_resolve_ms",
		"cards.draft_collapse_ms",
		"log.level",
		"log.path",
		"scenario.default",
		"scenario.dir",
		"scenario.watch",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	data, err := c.encode()
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
