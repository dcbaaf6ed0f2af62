// Package sessionlog writes one append-only log file per extraction job.
//
// Files are named logs/<YYYY-MM-DD-HH-MM>-<input-basename>.log. There is no
// rotation and no size cap.
package sessionlog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"audio-extractor/domain/audio"
)

// ErrSessionBusy is returned when another job already holds the log file
var ErrSessionBusy = errors.New("log session already in use")

const (
	fileTimeLayout = "2006-01-02-15-04"
	lineTimeLayout = "2006-01-02 15:04:05"
	lockSuffix     = ".lock"
)

// Opener creates log sessions under a directory
type Opener struct {
	dir           string
	level         slog.Level
	captureOutput bool
	now           func() time.Time
}

// Option is a functional option for configuring Opener
type Option func(*Opener)

// WithLevel sets the minimum level written to session files. Job start and
// outcome records are always kept, so warn and error behave like info.
func WithLevel(level string) Option {
	return func(o *Opener) {
		o.level = ParseLevel(level)
	}
}

// WithCaptureOutput records every ffmpeg output line at debug level
func WithCaptureOutput(capture bool) Option {
	return func(o *Opener) {
		o.captureOutput = capture
	}
}

// WithClock overrides the time source (for testing)
func WithClock(now func() time.Time) Option {
	return func(o *Opener) {
		o.now = now
	}
}

// NewOpener creates an Opener writing under dir
func NewOpener(dir string, opts ...Option) *Opener {
	o := &Opener{
		dir:   dir,
		level: slog.LevelInfo,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.level > slog.LevelInfo {
		o.level = slog.LevelInfo
	}
	if o.captureOutput && o.level > slog.LevelDebug {
		o.level = slog.LevelDebug
	}
	return o
}

// FileName returns the session file name for an input started at t
func FileName(t time.Time, inputPath string) string {
	return fmt.Sprintf("%s-%s.log", t.Format(fileTimeLayout), filepath.Base(inputPath))
}

// Open creates the log directory if needed and starts a session for job
func (o *Opener) Open(job *audio.Job) (audio.Session, error) {
	if err := os.MkdirAll(o.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(o.dir, FileName(o.now(), job.InputPath))

	// a sidecar lock keeps the log itself writable on platforms with mandatory locks
	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock log file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrSessionBusy, path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level:       o.level,
		ReplaceAttr: formatTime,
	})

	return &Session{
		path:          path,
		file:          file,
		lock:          lock,
		captureOutput: o.captureOutput,
		logger:        slog.New(handler).With("job", job.ID),
	}, nil
}

// Session is a single job's log file
type Session struct {
	path          string
	file          *os.File
	lock          *flock.Flock
	captureOutput bool
	logger        *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

func (s *Session) Info(msg string, args ...any)  { s.logger.Info(msg, args...) }
func (s *Session) Warn(msg string, args ...any)  { s.logger.Warn(msg, args...) }
func (s *Session) Error(msg string, args ...any) { s.logger.Error(msg, args...) }

// Output records an ffmpeg output line when capture is enabled
func (s *Session) Output(line string) {
	if s.captureOutput {
		s.logger.Debug("ffmpeg", "line", line)
	}
}

// Path returns the session file path
func (s *Session) Path() string {
	return s.path
}

// Close flushes the file and releases the lock. The lock file stays on disk so
// every opener locks the same inode. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(s.file.Close(), s.lock.Unlock())
	})
	return s.closeErr
}

// ParseLevel maps a config level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func formatTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.String(slog.TimeKey, a.Value.Time().Format(lineTimeLayout))
	}
	return a
}

var _ audio.SessionOpener = (*Opener)(nil)
var _ audio.Session = (*Session)(nil)
