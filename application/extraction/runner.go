package extraction

import (
	"context"
	"fmt"

	"audio-extractor/domain/audio"
)

// Runner supervises one ffmpeg job at a time and reports its progress and outcome
type Runner struct {
	extractor audio.Extractor
	sessions  audio.SessionOpener
	mode      audio.ProgressMode
}

// RunnerOption is a functional option for configuring Runner
type RunnerOption func(*Runner)

// WithProgressMode selects placeholder or estimated progress
func WithProgressMode(mode audio.ProgressMode) RunnerOption {
	return func(r *Runner) {
		if mode != "" {
			r.mode = mode
		}
	}
}

// NewRunner creates a Runner
func NewRunner(extractor audio.Extractor, sessions audio.SessionOpener, opts ...RunnerOption) *Runner {
	r := &Runner{
		extractor: extractor,
		sessions:  sessions,
		mode:      audio.ProgressPlaceholder,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes job and returns its outcome. The reporter receives zero or more
// non-decreasing progress values, then exactly one result message.
func (r *Runner) Run(ctx context.Context, job *audio.Job, reporter audio.Reporter) audio.Outcome {
	if reporter == nil {
		reporter = audio.ReporterFuncs{}
	}

	session, err := r.sessions.Open(job)
	if err != nil {
		// nothing to log to; surface as an unexpected failure
		outcome := audio.Failed(job, fmt.Errorf("%w: open log session: %w", audio.ErrUnexpectedFailure, err))
		reporter.OnResult(outcome.Message())
		return outcome
	}

	session.Info(fmt.Sprintf("Starting audio extraction for file: %s", job.InputPath),
		"output", job.OutputPath,
		"format", job.Profile.String(),
	)

	outcome := r.supervise(ctx, job, session, reporter)

	switch outcome.Status {
	case audio.StatusSucceeded:
		reporter.OnProgress(audio.CompletePercent)
		session.Info(fmt.Sprintf("Successfully extracted audio in %s", job.Profile))
	case audio.StatusCancelled:
		session.Warn("Audio extraction cancelled", "reason", string(outcome.Category))
	default:
		session.Error("Audio extraction failed",
			"reason", string(outcome.Category),
			"error", outcome.Err,
			"diagnostic", outcome.Diagnostic,
		)
	}

	if err := session.Close(); err != nil {
		outcome.Diagnostic = joinDiagnostic(outcome.Diagnostic, fmt.Sprintf("close log session %s: %v", session.Path(), err))
	}

	reporter.OnResult(outcome.Message())
	return outcome
}

func joinDiagnostic(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "\n" + extra
}

// supervise runs the extractor and converts panics into unexpected failures
func (r *Runner) supervise(ctx context.Context, job *audio.Job, session audio.Session, reporter audio.Reporter) (outcome audio.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			outcome = audio.Failed(job, fmt.Errorf("%w: panic: %v", audio.ErrUnexpectedFailure, p))
		}
	}()

	tracker := audio.NewProgressTracker(r.mode)
	err := r.extractor.Extract(ctx, job, func(line string) {
		session.Output(line)
		if percent, ok := tracker.Observe(line); ok {
			reporter.OnProgress(percent)
		}
	})
	if err != nil {
		return audio.Failed(job, err)
	}
	return audio.Succeeded(job)
}
