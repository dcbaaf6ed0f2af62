package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"audio-extractor/domain/audio"
)

// defaultTailLines is how many trailing output lines are kept for diagnostics
const defaultTailLines = 20

// maxLineBytes bounds a single output line; ffmpeg banners stay far below this
const maxLineBytes = 1024 * 1024

// Extractor implements audio.Extractor using ffmpeg
type Extractor struct {
	ffmpegPath string
	runner     CommandRunner
	tailLines  int
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithExtractorFFmpegPath sets a custom ffmpeg executable path
func WithExtractorFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		if path != "" {
			e.ffmpegPath = path
		}
	}
}

// WithExtractorCommandRunner sets a custom command runner (for testing)
func WithExtractorCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// WithTailLines sets how many trailing output lines are kept on failure
func WithTailLines(n int) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.tailLines = n
		}
	}
}

// NewExtractor creates a new FFmpeg-based audio extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
		tailLines:  defaultTailLines,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Path returns the ffmpeg executable the extractor launches
func (e *Extractor) Path() string {
	return e.ffmpegPath
}

// Extract implements audio.Extractor
func (e *Extractor) Extract(ctx context.Context, job *audio.Job, onLine func(line string)) error {
	proc, err := e.runner.Start(ctx, e.ffmpegPath, job.Args...)
	if err != nil {
		return &audio.ExtractionError{Reason: audio.ErrSpawn, ExitCode: -1, Err: err}
	}

	tail := newTail(e.tailLines)
	scanner := bufio.NewScanner(proc.Output())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(scanOutputLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tail.add(line)
		if onLine != nil {
			onLine(line)
		}
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// keep the pipe drained so the child can exit
		_, _ = io.Copy(io.Discard, proc.Output())
	}

	waitErr := proc.Wait()
	if waitErr == nil && scanErr == nil {
		// a cancel that lands after a clean exit leaves a complete output file
		return nil
	}

	if ctx.Err() != nil {
		return &audio.ExtractionError{Reason: audio.ErrCancelled, ExitCode: -1, Tail: tail.lines(), Err: ctx.Err()}
	}
	if scanErr != nil {
		return &audio.ExtractionError{
			Reason:   audio.ErrUnexpectedFailure,
			ExitCode: -1,
			Tail:     tail.lines(),
			Err:      fmt.Errorf("read ffmpeg output: %w", scanErr),
		}
	}
	var exitErr exitCoder
	if errors.As(waitErr, &exitErr) && exitErr.ExitCode() > 0 {
		return &audio.ExtractionError{
			Reason:   audio.ErrProcessingFailure,
			ExitCode: exitErr.ExitCode(),
			Tail:     tail.lines(),
			Err:      waitErr,
		}
	}
	return &audio.ExtractionError{
		Reason:   audio.ErrUnexpectedFailure,
		ExitCode: -1,
		Tail:     tail.lines(),
		Err:      waitErr,
	}
}

// VerifyInstalled checks that ffmpeg is available and returns its version line
func (e *Extractor) VerifyInstalled(ctx context.Context) (string, error) {
	out, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	firstLine, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(firstLine), nil
}

// scanOutputLines splits on '\n' or '\r'. ffmpeg redraws its stats line with
// carriage returns, so bufio.ScanLines alone would hold every update until exit.
func scanOutputLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// tail keeps the most recent n lines
type tail struct {
	max int
	buf []string
}

func newTail(n int) *tail {
	return &tail{max: n}
}

func (t *tail) add(line string) {
	t.buf = append(t.buf, line)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
}

func (t *tail) lines() []string {
	out := make([]string, len(t.buf))
	copy(out, t.buf)
	return out
}

// Ensure Extractor implements audio.Extractor
var _ audio.Extractor = (*Extractor)(nil)
