package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"audio-extractor/infrastructure/config"
	"audio-extractor/infrastructure/ffmpeg"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that ffmpeg and the log directory are usable",
	Long: `Runs the configured ffmpeg with -version and checks that the session log
directory can be written. Exits non-zero when a check fails.

Example:
  audio-extractor doctor
  audio-extractor doctor --config config/config.toml`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	extractor := ffmpeg.NewExtractor(ffmpeg.WithExtractorFFmpegPath(cfg.FFmpeg.Path))
	return RunDoctorWithDependencies(cmd.Context(), extractor, cfg, cfgFile, DefaultOutput)
}

// Verifier checks that the ffmpeg binary runs and returns its version line
type Verifier interface {
	VerifyInstalled(ctx context.Context) (string, error)
}

// RunDoctorWithDependencies runs the doctor checks with injected dependencies (for testing)
func RunDoctorWithDependencies(ctx context.Context, verifier Verifier, cfg *config.Config, configPath string, output OutputWriter) error {
	failed := false

	configDetail := configPath
	if _, err := os.Stat(configPath); err != nil {
		configDetail = "not found, using defaults"
	}
	printStatus(output, "Config", statusInfo, configDetail)

	verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if version, err := verifier.VerifyInstalled(verifyCtx); err != nil {
		printStatus(output, "ffmpeg", statusError, fmt.Sprintf("%s: %v", cfg.FFmpeg.Path, err))
		failed = true
	} else {
		printStatus(output, "ffmpeg", statusOK, version)
	}

	if err := checkWritableDir(cfg.Logs.Directory); err != nil {
		printStatus(output, "Log directory", statusError, err.Error())
		failed = true
	} else {
		printStatus(output, "Log directory", statusOK, cfg.Logs.Directory)
	}

	printStatus(output, "Default format", statusInfo, cfg.DefaultProfile().MenuLabel())
	printStatus(output, "Progress", statusInfo, string(cfg.ProgressMode()))

	if failed {
		return errReported
	}
	return nil
}

// checkWritableDir creates dir if needed and verifies a file can be written in it
func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("write to %s: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
