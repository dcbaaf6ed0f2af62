package cmd

import (
	"context"
	"fmt"
	"strings"

	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/config"
	"audio-extractor/infrastructure/ffmpeg"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/sessionlog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	extractInput    string
	extractFormat   string
	extractProgress bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract audio from a video file",
	Long: `Extract the audio track from a video file into m4a-aac, m4a-alac or flac.

The output is written next to the input with the extension replaced. Missing
values are asked for interactively: first the path to the video file, then a
numbered format menu.

--format accepts a menu number (1, 2, 3) or a format name.

Example:
  audio-extractor extract
  audio-extractor extract --input "/videos/My Clip.mkv" --format 2
  audio-extractor extract --input movie.mp4 --format flac --progress`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractInput, "input", "", "Path to the video file (prompted when omitted)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "", "Output format: 1|2|3 or m4a-aac|m4a-alac|flac (prompted when omitted)")
	extractCmd.Flags().BoolVar(&extractProgress, "progress", false, "Draw a progress bar while ffmpeg runs")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunExtractWithDependencies(
		cmd.Context(),
		newExtractionService(cfg),
		DefaultPrompter,
		DefaultOutput,
		ExtractOptions{
			Input:          extractInput,
			Format:         extractFormat,
			Progress:       extractProgress,
			DefaultProfile: cfg.DefaultProfile(),
		},
	)
}

// newExtractionService wires the production Builder, Runner and adapters from cfg
func newExtractionService(cfg *config.Config) *extraction.Service {
	extractor := ffmpeg.NewExtractor(ffmpeg.WithExtractorFFmpegPath(cfg.FFmpeg.Path))
	sessions := sessionlog.NewOpener(
		cfg.Logs.Directory,
		sessionlog.WithLevel(cfg.Logs.Level),
		sessionlog.WithCaptureOutput(cfg.Logs.CaptureOutput),
	)
	runner := extraction.NewRunner(extractor, sessions, extraction.WithProgressMode(cfg.ProgressMode()))
	return extraction.NewService(audio.NewBuilder(filesystem.NewChecker()), runner)
}

// JobService is what the console adapter needs from the extraction service
type JobService interface {
	CheckInput(inputPath string) error
	Prepare(inputPath string, profile audio.Profile) (*audio.Job, error)
	Run(ctx context.Context, job *audio.Job, reporter audio.Reporter) audio.Outcome
}

// ExtractOptions are the console flow's non-interactive inputs
type ExtractOptions struct {
	Input          string
	Format         string
	Progress       bool
	DefaultProfile audio.Profile
}

// RunExtractWithDependencies runs the console flow with injected dependencies (for testing).
// Failures are printed to output and returned as errReported.
func RunExtractWithDependencies(
	ctx context.Context,
	service JobService,
	prompter Prompter,
	output OutputWriter,
	opts ExtractOptions,
) error {
	input := strings.TrimSpace(opts.Input)
	if input == "" {
		answer, err := prompter.Input("Please enter the path to the video file:", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		input = strings.TrimSpace(answer)
	}

	if err := service.CheckInput(input); err != nil {
		return reportFailure(output, err)
	}

	profile, err := chooseProfile(prompter, opts)
	if err != nil {
		return reportFailure(output, err)
	}

	job, err := service.Prepare(input, profile)
	if err != nil {
		return reportFailure(output, err)
	}

	outcome := service.Run(ctx, job, newConsoleReporter(output, opts.Progress))
	if !outcome.OK() {
		return errReported
	}
	return nil
}

// chooseProfile resolves --format or asks with the numbered menu
func chooseProfile(prompter Prompter, opts ExtractOptions) (audio.Profile, error) {
	if strings.TrimSpace(opts.Format) != "" {
		return audio.ResolveProfile(opts.Format)
	}

	profiles := audio.Profiles()
	labels := make([]string, len(profiles))
	defaultIndex := 0
	for i, p := range profiles {
		labels[i] = p.MenuLabel()
		if p == opts.DefaultProfile {
			defaultIndex = i
		}
	}

	answer, err := prompter.Select("Choose the output format:", labels, defaultIndex)
	if err != nil {
		return "", fmt.Errorf("%w: format prompt: %w", audio.ErrUnexpectedFailure, err)
	}
	return audio.ProfileForChoice(answer)
}

func reportFailure(output OutputWriter, err error) error {
	printResult(output, audio.UserMessage(err))
	return errReported
}

// consoleReporter prints the result line. Progress is drawn only when a bar was requested.
type consoleReporter struct {
	output OutputWriter
	bar    *progressbar.ProgressBar
}

func newConsoleReporter(output OutputWriter, showProgress bool) *consoleReporter {
	r := &consoleReporter{output: output}
	if showProgress {
		r.bar = progressbar.NewOptions(audio.CompletePercent,
			progressbar.OptionSetWriter(output),
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}
	return r
}

func (r *consoleReporter) OnProgress(percent int) {
	if r.bar != nil {
		_ = r.bar.Set(percent)
	}
}

func (r *consoleReporter) OnResult(message string) {
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	printResult(r.output, message)
}

var _ JobService = (*extraction.Service)(nil)
var _ audio.Reporter = (*consoleReporter)(nil)
