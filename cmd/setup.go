package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/config"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates the config file.

The file is written as YAML, or as TOML when --config ends in .toml.

Example:
  audio-extractor setup
  audio-extractor setup --config config/config.toml`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, cfgFile, DefaultOutput)
}

var logLevels = []string{"debug", "info", "warn", "error"}

var progressModes = []audio.ProgressMode{audio.ProgressPlaceholder, audio.ProgressEstimate}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, output OutputWriter) error {
	if configPath == "" {
		configPath = config.DefaultPath
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm(fmt.Sprintf("%s already exists. Overwrite?", configPath), false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(output, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(output, "Welcome to audio-extractor setup!")
	fmt.Fprintln(output)

	cfg := config.Default()

	if err := promptFFmpeg(prompter, cfg); err != nil {
		return err
	}
	if err := promptLogs(prompter, cfg); err != nil {
		return err
	}
	if err := promptExtraction(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(output)
	fmt.Fprintf(output, "Configuration saved to %s\n", configPath)
	return nil
}

func promptFFmpeg(prompter Prompter, cfg *config.Config) error {
	path, err := prompter.Input("Path to the ffmpeg executable?", cfg.FFmpeg.Path)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if strings.TrimSpace(path) != "" {
		cfg.FFmpeg.Path = strings.TrimSpace(path)
	}
	return nil
}

func promptLogs(prompter Prompter, cfg *config.Config) error {
	dir, err := prompter.Input("Where should session logs go?", cfg.Logs.Directory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if strings.TrimSpace(dir) != "" {
		cfg.Logs.Directory = strings.TrimSpace(dir)
	}

	level, err := selectOption(prompter, "Log level?", logLevels, 1)
	if err != nil {
		return err
	}
	cfg.Logs.Level = logLevels[level]

	capture, err := prompter.Confirm("Record ffmpeg output in session logs?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Logs.CaptureOutput = capture
	return nil
}

func promptExtraction(prompter Prompter, cfg *config.Config) error {
	profiles := audio.Profiles()
	labels := make([]string, len(profiles))
	for i, p := range profiles {
		labels[i] = p.MenuLabel()
	}
	format, err := selectOption(prompter, "Default output format?", labels, 0)
	if err != nil {
		return err
	}
	cfg.Extraction.DefaultFormat = string(profiles[format])

	modes := make([]string, len(progressModes))
	for i, m := range progressModes {
		modes[i] = string(m)
	}
	mode, err := selectOption(prompter, "Progress reporting?", modes, 0)
	if err != nil {
		return err
	}
	cfg.Extraction.Progress = modes[mode]
	return nil
}

// selectOption asks prompter to choose from options and returns the 0-based index
func selectOption(prompter Prompter, message string, options []string, defaultIndex int) (int, error) {
	answer, err := prompter.Select(message, options, defaultIndex)
	if err != nil {
		return 0, fmt.Errorf("prompt cancelled")
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return defaultIndex, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return 0, fmt.Errorf("invalid choice %q: expected 1-%d", answer, len(options))
	}
	return n - 1, nil
}
