package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"audio-extractor/domain/audio"
)

// DefaultPath is where the config file is looked up when --config is not given
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration
type Config struct {
	FFmpeg     FFmpegConfig     `yaml:"ffmpeg" toml:"ffmpeg"`
	Logs       LogsConfig       `yaml:"logs" toml:"logs"`
	Extraction ExtractionConfig `yaml:"extraction" toml:"extraction"`
}

// FFmpegConfig locates the transcoding binary
type FFmpegConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// LogsConfig controls per-job session logs
type LogsConfig struct {
	Directory     string `yaml:"directory" toml:"directory"`
	Level         string `yaml:"level" toml:"level"`
	CaptureOutput bool   `yaml:"capture_output" toml:"capture_output"`
}

// ExtractionConfig contains defaults for extraction jobs
type ExtractionConfig struct {
	DefaultFormat string `yaml:"default_format" toml:"default_format"`
	Progress      string `yaml:"progress" toml:"progress"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		FFmpeg: FFmpegConfig{Path: "ffmpeg"},
		Logs: LogsConfig{
			Directory: "logs",
			Level:     "info",
		},
		Extraction: ExtractionConfig{
			DefaultFormat: string(audio.ProfileAAC),
			Progress:      string(audio.ProgressPlaceholder),
		},
	}
}

// Load reads and parses the configuration from the specified YAML or TOML file.
// Fields left empty in the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified file, creating its directory.
// The encoding follows the file extension.
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later at job time
func (c *Config) Validate() error {
	if _, err := audio.ParseProfile(c.Extraction.DefaultFormat); err != nil {
		return fmt.Errorf("invalid extraction.default_format: %w", err)
	}
	if _, err := audio.ParseProgressMode(c.Extraction.Progress); err != nil {
		return fmt.Errorf("invalid extraction.progress: %w", err)
	}
	switch strings.ToLower(c.Logs.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logs.level %q: expected debug, info, warn or error", c.Logs.Level)
	}
	return nil
}

// DefaultProfile returns the configured default profile
func (c *Config) DefaultProfile() audio.Profile {
	p, err := audio.ParseProfile(c.Extraction.DefaultFormat)
	if err != nil {
		return audio.ProfileAAC
	}
	return p
}

// ProgressMode returns the configured progress mode
func (c *Config) ProgressMode() audio.ProgressMode {
	mode, err := audio.ParseProgressMode(c.Extraction.Progress)
	if err != nil {
		return audio.ProgressPlaceholder
	}
	return mode
}

func (c *Config) applyDefaults() {
	def := Default()
	if strings.TrimSpace(c.FFmpeg.Path) == "" {
		c.FFmpeg.Path = def.FFmpeg.Path
	}
	if strings.TrimSpace(c.Logs.Directory) == "" {
		c.Logs.Directory = def.Logs.Directory
	}
	if strings.TrimSpace(c.Logs.Level) == "" {
		c.Logs.Level = def.Logs.Level
	}
	if strings.TrimSpace(c.Extraction.DefaultFormat) == "" {
		c.Extraction.DefaultFormat = def.Extraction.DefaultFormat
	}
	if strings.TrimSpace(c.Extraction.Progress) == "" {
		c.Extraction.Progress = def.Extraction.Progress
	}
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
