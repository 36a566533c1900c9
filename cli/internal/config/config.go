// Package config provides commayte configuration with a defined load order:
// CLI flags > environment variables > repo config > global config > defaults.
//
// Paths:
//   - Repo: .commayte.toml (relative to repo root)
//   - Global: ~/.config/commayte/config.toml (the install script writes it there)
//
// Environment variables (override config files when set):
//   - COMMAYTE_MODEL, COMMAYTE_OLLAMA_BASE_URL, COMMAYTE_EMOJI (1/true/yes/on or 0/false/no/off),
//   - COMMAYTE_MAX_FILE_CHARS, COMMAYTE_MAX_TOTAL_CHARS (diff budgets; 0 = derive from performance tier),
//   - COMMAYTE_MINIFY_DIFF (same values as COMMAYTE_EMOJI),
//   - COMMAYTE_LOG_LEVEL (debug, info, warn, error), COMMAYTE_UPDATE_REPO (owner/name on GitHub).
//
// A config file that cannot be read or parsed never stops the tool: it is
// skipped, a warning is recorded in Config.Warnings, and lower layers apply.
// Invalid environment or flag values are errors because the user typed them
// for this invocation.
package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"commayte/cli/internal/erruser"
)

// Config holds all commayte configuration. Zero budgets mean "use the
// performance tier of this machine".
type Config struct {
	Model         string `toml:"model"`
	OllamaBaseURL string `toml:"ollama_base_url"`
	// Emoji prepends a glyph chosen from the commit type to generated messages.
	Emoji bool `toml:"emoji"`
	// MaxFileChars caps each file section of the diff sent to the model (0 = tier default).
	MaxFileChars int `toml:"max_file_chars"`
	// MaxTotalChars caps the whole filtered diff (0 = tier default).
	MaxTotalChars int `toml:"max_total_chars"`
	// MinifyDiff collapses indentation in hunks of brace languages so more
	// of the change fits in the budget.
	MinifyDiff bool `toml:"minify_diff"`
	// IgnorePatterns are appended to the built-in ignore list; same syntax
	// (leading * = suffix, trailing / = prefix, otherwise substring).
	IgnorePatterns []string `toml:"ignore_patterns"`
	LogLevel       string   `toml:"log_level"`
	// UpdateRepo is the GitHub owner/name queried by "commayte update".
	UpdateRepo string `toml:"update_repo"`

	// Warnings lists config files that were skipped; not read from TOML.
	Warnings []string `toml:"-"`
}

// Overrides represents optional CLI flag overrides. Non-nil pointer means
// "override with this value".
type Overrides struct {
	Model         *string
	OllamaBaseURL *string
	Emoji         *bool
	MaxFileChars  *int
	MaxTotalChars *int
	MinifyDiff    *bool
	LogLevel      *string
}

// LoadOptions configures Load. All fields are optional.
type LoadOptions struct {
	// RepoRoot is the repository root; if set, repo config is RepoRoot/.commayte.toml.
	RepoRoot string
	// GlobalConfigPath is the global config file path; if empty, GlobalPath() is used.
	GlobalConfigPath string
	// Env is the environment key=value slice; if nil, os.Environ() is used.
	Env []string
	// Overrides are applied last (highest precedence).
	Overrides *Overrides
}

const (
	_defaultModel         = "mistral"
	_defaultOllamaBaseURL = "http://localhost:11434"
	_defaultLogLevel      = "info"
	_defaultUpdateRepo    = "aymenhamada/Commayte"

	repoConfigFilename = ".commayte.toml"
)

// validLogLevels is the set of accepted log_level values (normalized lowercase).
var validLogLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

func validateLogLevel(s string) (string, error) {
	norm := strings.TrimSpace(strings.ToLower(s))
	if _, ok := validLogLevels[norm]; !ok {
		return "", erruser.New("Invalid log level; use debug, info, warn, or error.", nil)
	}
	return norm, nil
}

// errIntOverflow is returned when an int64 value does not fit in int (e.g. on 32-bit or huge TOML/env values).
var errIntOverflow = errors.New("value out of range for int")

// int64ToInt converts n to int. It returns an error if n is outside the range of int (e.g. overflow on 32-bit).
func int64ToInt(n int64) (int, error) {
	if n < int64(math.MinInt) || n > int64(math.MaxInt) {
		return 0, errIntOverflow
	}
	return int(n), nil
}

// DefaultConfig returns the default configuration (no I/O).
func DefaultConfig() Config {
	return Config{
		Model:         _defaultModel,
		OllamaBaseURL: _defaultOllamaBaseURL,
		Emoji:         false,
		LogLevel:      _defaultLogLevel,
		UpdateRepo:    _defaultUpdateRepo,
	}
}

// GlobalPath returns ~/.config/commayte/config.toml. The XDG-style path is
// used on every platform so the install script and the binary agree.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "commayte", "config.toml"), nil
}

// Load loads configuration with precedence: defaults < global file < repo file < env < overrides.
// Missing config files are ignored; unreadable or invalid files are skipped with a
// warning. Invalid env values return an error.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	if opts.Env == nil {
		opts.Env = os.Environ()
	}
	cfg := DefaultConfig()

	globalPath := opts.GlobalConfigPath
	if globalPath == "" {
		p, err := GlobalPath()
		if err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("could not determine home directory: %v; using defaults", err))
		}
		globalPath = p
	}
	if globalPath != "" {
		mergeFile(&cfg, globalPath)
	}

	if opts.RepoRoot != "" {
		mergeFile(&cfg, filepath.Join(opts.RepoRoot, repoConfigFilename))
	}

	if err := applyEnv(&cfg, opts.Env); err != nil {
		return nil, err
	}

	if err := applyOverrides(&cfg, opts.Overrides); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// fileConfig mirrors Config with pointer fields so absent keys keep the lower layer's value.
type fileConfig struct {
	Model          *string  `toml:"model"`
	OllamaBaseURL  *string  `toml:"ollama_base_url"`
	Emoji          *bool    `toml:"emoji"`
	MaxFileChars   *int64   `toml:"max_file_chars"`
	MaxTotalChars  *int64   `toml:"max_total_chars"`
	MinifyDiff     *bool    `toml:"minify_diff"`
	IgnorePatterns []string `toml:"ignore_patterns"`
	LogLevel       *string  `toml:"log_level"`
	UpdateRepo     *string  `toml:"update_repo"`
}

// mergeFile reads path and merges into cfg. Only overwrites fields that are
// present and valid in the file. A missing file is skipped silently; any other
// problem leaves cfg untouched by this file and records a warning.
func mergeFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("could not read config file at %s: %v; using defaults", path, err))
		return
	}
	var file fileConfig
	if _, err := toml.Decode(string(data), &file); err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("failed to parse config file %s: %v; using defaults", path, err))
		return
	}
	next := *cfg
	if err := applyFile(&next, &file); err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("invalid value in config file %s: %v; using defaults", path, err))
		return
	}
	*cfg = next
}

func applyFile(cfg *Config, file *fileConfig) error {
	if file.Model != nil && strings.TrimSpace(*file.Model) != "" {
		cfg.Model = strings.TrimSpace(*file.Model)
	}
	if file.OllamaBaseURL != nil && *file.OllamaBaseURL != "" {
		cfg.OllamaBaseURL = *file.OllamaBaseURL
	}
	if file.Emoji != nil {
		cfg.Emoji = *file.Emoji
	}
	if file.MaxFileChars != nil {
		v, err := nonNegative(*file.MaxFileChars, "max_file_chars")
		if err != nil {
			return err
		}
		cfg.MaxFileChars = v
	}
	if file.MaxTotalChars != nil {
		v, err := nonNegative(*file.MaxTotalChars, "max_total_chars")
		if err != nil {
			return err
		}
		cfg.MaxTotalChars = v
	}
	if file.MinifyDiff != nil {
		cfg.MinifyDiff = *file.MinifyDiff
	}
	if len(file.IgnorePatterns) > 0 {
		cfg.IgnorePatterns = append(cfg.IgnorePatterns, cleanPatterns(file.IgnorePatterns)...)
	}
	if file.LogLevel != nil && *file.LogLevel != "" {
		norm, err := validateLogLevel(*file.LogLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = norm
	}
	if file.UpdateRepo != nil && *file.UpdateRepo != "" {
		cfg.UpdateRepo = *file.UpdateRepo
	}
	return nil
}

func nonNegative(n int64, key string) (int, error) {
	if n < 0 {
		return 0, errors.Newf("%s must be non-negative", key)
	}
	v, err := int64ToInt(n)
	if err != nil {
		return 0, errors.Wrapf(err, "%s", key)
	}
	return v, nil
}

func cleanPatterns(in []string) []string {
	out := make([]string, 0, len(in))
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// env key names for config
const (
	envModel         = "COMMAYTE_MODEL"
	envOllamaBaseURL = "COMMAYTE_OLLAMA_BASE_URL"
	envEmoji         = "COMMAYTE_EMOJI"
	envMaxFileChars  = "COMMAYTE_MAX_FILE_CHARS"
	envMaxTotalChars = "COMMAYTE_MAX_TOTAL_CHARS"
	envMinifyDiff    = "COMMAYTE_MINIFY_DIFF"
	envLogLevel      = "COMMAYTE_LOG_LEVEL"
	envUpdateRepo    = "COMMAYTE_UPDATE_REPO"
)

func applyEnv(cfg *Config, env []string) error {
	vals := make(map[string]string)
	for _, e := range env {
		idx := strings.Index(e, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(e[:idx])
		val := strings.TrimSpace(e[idx+1:])
		vals[key] = val
	}
	if v, ok := vals[envModel]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := vals[envOllamaBaseURL]; ok && v != "" {
		cfg.OllamaBaseURL = v
	}
	if v, ok := vals[envEmoji]; ok && v != "" {
		b, err := parseBool(v)
		if err != nil {
			return erruser.New("COMMAYTE_EMOJI must be 1/true/yes/on or 0/false/no/off.", err)
		}
		cfg.Emoji = b
	}
	if v, ok := vals[envMaxFileChars]; ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return erruser.New("COMMAYTE_MAX_FILE_CHARS must be a valid number.", err)
		}
		cfg.MaxFileChars, err = nonNegative(n, envMaxFileChars)
		if err != nil {
			return erruser.New("COMMAYTE_MAX_FILE_CHARS must be a non-negative number.", err)
		}
	}
	if v, ok := vals[envMaxTotalChars]; ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return erruser.New("COMMAYTE_MAX_TOTAL_CHARS must be a valid number.", err)
		}
		cfg.MaxTotalChars, err = nonNegative(n, envMaxTotalChars)
		if err != nil {
			return erruser.New("COMMAYTE_MAX_TOTAL_CHARS must be a non-negative number.", err)
		}
	}
	if v, ok := vals[envMinifyDiff]; ok && v != "" {
		b, err := parseBool(v)
		if err != nil {
			return erruser.New("COMMAYTE_MINIFY_DIFF must be 1/true/yes/on or 0/false/no/off.", err)
		}
		cfg.MinifyDiff = b
	}
	if v, ok := vals[envLogLevel]; ok && v != "" {
		norm, err := validateLogLevel(v)
		if err != nil {
			return err
		}
		cfg.LogLevel = norm
	}
	if v, ok := vals[envUpdateRepo]; ok && v != "" {
		cfg.UpdateRepo = v
	}
	return nil
}

// parseBool parses common boolean env values: 1/true/yes/on = true, 0/false/no/off = false (case-insensitive).
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, errors.Newf("invalid boolean %q", s)
	}
}

func applyOverrides(cfg *Config, o *Overrides) error {
	if o == nil {
		return nil
	}
	if o.Model != nil && strings.TrimSpace(*o.Model) != "" {
		cfg.Model = strings.TrimSpace(*o.Model)
	}
	if o.OllamaBaseURL != nil && *o.OllamaBaseURL != "" {
		cfg.OllamaBaseURL = *o.OllamaBaseURL
	}
	if o.Emoji != nil {
		cfg.Emoji = *o.Emoji
	}
	if o.MinifyDiff != nil {
		cfg.MinifyDiff = *o.MinifyDiff
	}
	if o.MaxFileChars != nil {
		if *o.MaxFileChars < 0 {
			return erruser.New("--max-file-chars must be non-negative.", nil)
		}
		cfg.MaxFileChars = *o.MaxFileChars
	}
	if o.MaxTotalChars != nil {
		if *o.MaxTotalChars < 0 {
			return erruser.New("--max-total-chars must be non-negative.", nil)
		}
		cfg.MaxTotalChars = *o.MaxTotalChars
	}
	if o.LogLevel != nil && *o.LogLevel != "" {
		norm, err := validateLogLevel(*o.LogLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = norm
	}
	return nil
}
