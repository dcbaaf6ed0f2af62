package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"audio-extractor/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

// errReported marks a failure whose message was already shown to the user.
// Execute exits with status 1 without printing it again.
var errReported = errors.New("failure already reported")

var rootCmd = &cobra.Command{
	Use:   "audio-extractor",
	Short: "Extract the audio track from video files with ffmpeg",
	Long: `audio-extractor strips the video stream from a file and re-encodes its
audio track with ffmpeg into one of three formats:

  1: m4a-aac  (Lossy, 320k)
  2: m4a-alac (Lossless)
  3: flac     (Lossless)

Running without a subcommand starts the interactive console flow. Each job
writes a session log under the configured logs directory.

Example:
  audio-extractor
  audio-extractor extract --input movie.mp4 --format flac
  audio-extractor gui`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runExtract,
}

// Execute runs the root command. Interrupts cancel the running job.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing file means defaults; a broken one is reported by commands that need it
	cfg, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("load %s: %w", cfgFile, cfgErr)
	}
	if cfg == nil {
		return config.Default(), nil
	}
	return cfg, nil
}
