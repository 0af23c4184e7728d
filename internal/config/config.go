// Package config handles configuration loading and data home resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the per-home configuration file.
const FileName = "config.yaml"

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrInvalid is wrapped by configuration values that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// ---------------------------------------------------------------------------
// Config types
// ---------------------------------------------------------------------------

// StorageConfig selects where collections are persisted.
type StorageConfig struct {
	Backend      string `yaml:"backend"` // "file" | "sqlite"
	ContactsFile string `yaml:"contacts_file"`
	NotesFile    string `yaml:"notes_file"`
	Database     string `yaml:"database"`
}

// ShellConfig controls the interactive shell.
type ShellConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	History     bool   `yaml:"history"` // append entered lines to HistoryFile
}

// BirthdaysConfig holds defaults of the birthdays command.
type BirthdaysConfig struct {
	DefaultDays int `yaml:"default_days"`
}

// Config is the root per-home configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Shell     ShellConfig     `yaml:"shell"`
	Birthdays BirthdaysConfig `yaml:"birthdays"`
}

// envOverrides are the environment variables honoured on top of config.yaml.
type envOverrides struct {
	Home    string `env:"KONTACTO_HOME"`
	Backend string `env:"KONTACTO_BACKEND"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:      BackendFile,
			ContactsFile: "contacts.yaml",
			NotesFile:    "notes.yaml",
			Database:     "kontacto.db",
		},
		Shell: ShellConfig{
			Prompt:      "kontacto> ",
			HistoryFile: "history",
			History:     true,
		},
		Birthdays: BirthdaysConfig{DefaultDays: 7},
	}
}

// Load reads a per-home config.yaml from path and applies environment
// overrides. If the file does not exist the defaults are used. Missing or
// empty keys retain their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		// Unmarshal into a plain map so we can apply only the keys that are present.
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("config.Load %s: %w", path, err)
		}
		cfg.apply(raw)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) apply(raw map[string]any) {
	setString := func(section map[string]any, key string, dst *string) {
		if v, ok := section[key].(string); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}

	if st, ok := raw["storage"].(map[string]any); ok {
		setString(st, "backend", &cfg.Storage.Backend)
		setString(st, "contacts_file", &cfg.Storage.ContactsFile)
		setString(st, "notes_file", &cfg.Storage.NotesFile)
		setString(st, "database", &cfg.Storage.Database)
	}

	if sh, ok := raw["shell"].(map[string]any); ok {
		if v, ok := sh["prompt"].(string); ok && v != "" {
			cfg.Shell.Prompt = v
		}
		setString(sh, "history_file", &cfg.Shell.HistoryFile)
		if v, ok := sh["history"].(bool); ok {
			cfg.Shell.History = v
		}
	}

	if bd, ok := raw["birthdays"].(map[string]any); ok {
		if v, ok := bd["default_days"].(int); ok {
			cfg.Birthdays.DefaultDays = v
		}
	}
}

func (cfg *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	if o.Backend != "" {
		cfg.Storage.Backend = o.Backend
	}
	return nil
}

// Validate reports values the rest of the program cannot work with.
func (cfg *Config) Validate() error {
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	switch cfg.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("%w: storage.backend %q (want %q or %q)", ErrInvalid, cfg.Storage.Backend, BackendFile, BackendSQLite)
	}
	if cfg.Birthdays.DefaultDays < 0 {
		return fmt.Errorf("%w: birthdays.default_days must not be negative", ErrInvalid)
	}
	return nil
}

// Marshal renders cfg as YAML.
func (cfg *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteDefault writes the default configuration to path. An existing file
// is only replaced when force is set; the returned bool reports a write.
func WriteDefault(path string, force bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !force {
		return false, nil
	}
	data, err := Default().Marshal()
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	return true, os.WriteFile(path, data, 0o600)
}

// ---------------------------------------------------------------------------
// Data file locations
// ---------------------------------------------------------------------------

func inHome(home, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}

// ContactsPath returns the contacts file inside home.
func (cfg *Config) ContactsPath(home string) string { return inHome(home, cfg.Storage.ContactsFile) }

// NotesPath returns the notes file inside home.
func (cfg *Config) NotesPath(home string) string { return inHome(home, cfg.Storage.NotesFile) }

// DatabasePath returns the SQLite database inside home.
func (cfg *Config) DatabasePath(home string) string { return inHome(home, cfg.Storage.Database) }

// HistoryPath returns the shell history file inside home, or "" when
// history is disabled.
func (cfg *Config) HistoryPath(home string) string {
	if !cfg.Shell.History || cfg.Shell.HistoryFile == "" {
		return ""
	}
	return inHome(home, cfg.Shell.HistoryFile)
}

// ---------------------------------------------------------------------------
// Data home resolution
// ---------------------------------------------------------------------------

const persistedHomeKey = "home"

// globalConfigPath returns the path to the global kontacto config file.
// This file stores only the data home (and future global settings).
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kontacto", "config.yaml"), nil
}

// normalizePath expands ~ and makes the path absolute.
func normalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(os.ExpandEnv(path))
}

// ResolveHome returns the data home and the source of the resolution.
// Priority: flag → KONTACTO_HOME env → persisted global config → ~/.kontacto.
// source is one of "flag", "env", "config", or "default".
func ResolveHome(flag string) (path, source string) {
	if flag != "" {
		if p, err := normalizePath(flag); err == nil {
			return p, "flag"
		}
	}

	var o envOverrides
	if err := env.Parse(&o); err == nil && o.Home != "" {
		if p, err := normalizePath(o.Home); err == nil {
			return p, "env"
		}
	}

	if persisted, ok, _ := GetPersistedHome(); ok {
		return persisted, "config"
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".kontacto"), "default"
}

// GetPersistedHome reads the data home from the global config.
// Returns ("", false, nil) if not set.
func GetPersistedHome() (string, bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", false, err
	}

	raw, err := readGlobal(cfgPath)
	if err != nil || raw == nil {
		return "", false, err
	}

	val, _ := raw[persistedHomeKey].(string)
	val = strings.TrimSpace(val)
	if val == "" {
		return "", false, nil
	}

	p, err := normalizePath(val)
	if err != nil {
		return "", false, err
	}
	return p, true, nil
}

// SetPersistedHome normalizes path and persists it in the global config.
// Returns the normalized path.
func SetPersistedHome(path string) (string, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}

	cfgPath, err := globalConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		return "", err
	}

	// Preserve any other keys.
	raw, _ := readGlobal(cfgPath)
	if raw == nil {
		raw = make(map[string]any)
	}
	raw[persistedHomeKey] = normalized

	out, err := yaml.Marshal(raw)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(cfgPath, out, 0o600); err != nil {
		return "", err
	}
	return normalized, nil
}

// ClearPersistedHome removes the data home from the global config.
// Returns true if the key was present and removed.
// If the file becomes empty after removal it is deleted.
func ClearPersistedHome() (bool, error) {
	cfgPath, err := globalConfigPath()
	if err != nil {
		return false, err
	}

	raw, err := readGlobal(cfgPath)
	if err != nil || raw == nil {
		return false, err
	}
	if _, ok := raw[persistedHomeKey]; !ok {
		return false, nil
	}
	delete(raw, persistedHomeKey)

	if len(raw) == 0 {
		_ = os.Remove(cfgPath)
		return true, nil
	}

	out, err := yaml.Marshal(raw)
	if err != nil {
		return false, err
	}
	return true, os.WriteFile(cfgPath, out, 0o600)
}

// readGlobal returns the global config as a map, nil when the file is
// missing or unparseable.
func readGlobal(cfgPath string) (map[string]any, error) {
	data, err := os.ReadFile(cfgPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil
	}
	return raw, nil
}
