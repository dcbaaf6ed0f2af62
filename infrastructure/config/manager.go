package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned for a key outside Keys()
var ErrUnknownKey = errors.New("unknown config key")

// Entry is one dotted key and its current value
type Entry struct {
	Key   string
	Value string
}

// field binds a dotted key to a Config field
type field struct {
	key string
	get func(*Config) string
	set func(*Config, string) error
}

var fields = []field{
	{
		key: "ffmpeg.path",
		get: func(c *Config) string { return c.FFmpeg.Path },
		set: func(c *Config, v string) error { c.FFmpeg.Path = v; return nil },
	},
	{
		key: "logs.directory",
		get: func(c *Config) string { return c.Logs.Directory },
		set: func(c *Config, v string) error { c.Logs.Directory = v; return nil },
	},
	{
		key: "logs.level",
		get: func(c *Config) string { return c.Logs.Level },
		set: func(c *Config, v string) error { c.Logs.Level = strings.ToLower(v); return nil },
	},
	{
		key: "logs.capture_output",
		get: func(c *Config) string { return strconv.FormatBool(c.Logs.CaptureOutput) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("logs.capture_output must be true or false: %w", err)
			}
			c.Logs.CaptureOutput = b
			return nil
		},
	},
	{
		key: "extraction.default_format",
		get: func(c *Config) string { return c.Extraction.DefaultFormat },
		set: func(c *Config, v string) error { c.Extraction.DefaultFormat = strings.ToLower(v); return nil },
	},
	{
		key: "extraction.progress",
		get: func(c *Config) string { return c.Extraction.Progress },
		set: func(c *Config, v string) error { c.Extraction.Progress = strings.ToLower(v); return nil },
	},
}

// Keys returns every settable key in file order
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// ConfigManager reads and updates single values of a config file
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(cfg *Config, configPath string) *ConfigManager {
	return &ConfigManager{
		config:     cfg,
		configPath: configPath,
	}
}

// List returns every key with its current value
func (m *ConfigManager) List() []Entry {
	entries := make([]Entry, len(fields))
	for i, f := range fields {
		entries[i] = Entry{Key: f.key, Value: f.get(m.config)}
	}
	return entries
}

// Get returns the value for key
func (m *ConfigManager) Get(key string) (string, error) {
	f, err := lookup(key)
	if err != nil {
		return "", err
	}
	return f.get(m.config), nil
}

// Set validates and stores value under key, then saves the file.
// The in-memory config is left unchanged when validation fails.
func (m *ConfigManager) Set(key, value string) error {
	f, err := lookup(key)
	if err != nil {
		return err
	}

	updated := *m.config
	if err := f.set(&updated, strings.TrimSpace(value)); err != nil {
		return err
	}
	updated.applyDefaults()
	if err := updated.Validate(); err != nil {
		return err
	}

	*m.config = updated
	return Save(m.config, m.configPath)
}

func lookup(key string) (field, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == key {
			return f, nil
		}
	}
	return field{}, fmt.Errorf("%w %q: expected one of %s", ErrUnknownKey, key, strings.Join(Keys(), ", "))
}
