package audio

import "context"

// Extractor runs ffmpeg for a job.
// This is a port that can be implemented by different infrastructure adapters.
type Extractor interface {
	// Extract runs the job to completion, passing each output line to onLine.
	// Failures are returned as *ExtractionError.
	Extract(ctx context.Context, job *Job, onLine func(line string)) error
}

// FileChecker defines the interface for checking that an input file exists
type FileChecker interface {
	// IsFile returns true if path exists and is a regular file
	IsFile(path string) bool
}

// SessionOpener creates the per-job log session
type SessionOpener interface {
	Open(job *Job) (Session, error)
}

// Session is an append-only log owned by a single job
type Session interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// Output records one line of ffmpeg output when output capture is enabled
	Output(line string)
	Path() string
	Close() error
}

// Reporter receives progress and the final result of a job
type Reporter interface {
	OnProgress(percent int)
	OnResult(message string)
}

// ReporterFuncs adapts plain functions to Reporter. Nil fields are ignored.
type ReporterFuncs struct {
	Progress func(percent int)
	Result   func(message string)
}

func (r ReporterFuncs) OnProgress(percent int) {
	if r.Progress != nil {
		r.Progress(percent)
	}
}

func (r ReporterFuncs) OnResult(message string) {
	if r.Result != nil {
		r.Result(message)
	}
}
