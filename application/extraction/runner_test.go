package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/sessionlog"
)

// --- Mock implementations for testing ---

// mockExtractor implements audio.Extractor for testing
type mockExtractor struct {
	lines    []string
	err      error
	panicMsg string
	calls    int
}

func (m *mockExtractor) Extract(ctx context.Context, job *audio.Job, onLine func(string)) error {
	m.calls++
	for _, line := range m.lines {
		onLine(line)
	}
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.err
}

// logEntry is one recorded session call
type logEntry struct {
	level string
	msg   string
	args  []any
}

// mockSession implements audio.Session for testing
type mockSession struct {
	mu       sync.Mutex
	entries  []logEntry
	output   []string
	closed   int
	closeErr error
}

func (s *mockSession) record(level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, logEntry{level: level, msg: msg, args: args})
}

func (s *mockSession) Info(msg string, args ...any)  { s.record("INFO", msg, args) }
func (s *mockSession) Warn(msg string, args ...any)  { s.record("WARN", msg, args) }
func (s *mockSession) Error(msg string, args ...any) { s.record("ERROR", msg, args) }
func (s *mockSession) Output(line string)            { s.output = append(s.output, line) }
func (s *mockSession) Path() string                  { return "logs/test.log" }
func (s *mockSession) Close() error {
	s.closed++
	return s.closeErr
}

func (s *mockSession) has(level, msgPart string) bool {
	for _, e := range s.entries {
		if e.level == level && strings.Contains(e.msg, msgPart) {
			return true
		}
	}
	return false
}

// mockOpener implements audio.SessionOpener for testing
type mockOpener struct {
	session *mockSession
	err     error
}

func (o *mockOpener) Open(job *audio.Job) (audio.Session, error) {
	if o.err != nil {
		return nil, o.err
	}
	return o.session, nil
}

// recordingReporter implements audio.Reporter for testing
type recordingReporter struct {
	progress []int
	results  []string
}

func (r *recordingReporter) OnProgress(percent int)  { r.progress = append(r.progress, percent) }
func (r *recordingReporter) OnResult(message string) { r.results = append(r.results, message) }

func newTestJob(profile audio.Profile) *audio.Job {
	return &audio.Job{
		ID:         "job-1",
		InputPath:  "movie.mp4",
		OutputPath: audio.OutputPath("movie.mp4", profile),
		Profile:    profile,
		Args:       audio.BuildArgs("movie.mp4", audio.OutputPath("movie.mp4", profile), profile),
	}
}

func newTestRunner(ext *mockExtractor, opts ...RunnerOption) (*Runner, *mockSession) {
	session := &mockSession{}
	return NewRunner(ext, &mockOpener{session: session}, opts...), session
}

func processingError(code int) error {
	return &audio.ExtractionError{
		Reason:   audio.ErrProcessingFailure,
		ExitCode: code,
		Tail:     []string{"Invalid data found when processing input"},
		Err:      fmt.Errorf("exit status %d", code),
	}
}

func TestRunner_Success(t *testing.T) {
	ext := &mockExtractor{lines: []string{
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'movie.mp4':",
		"size=     256kB time=00:00:05.00 bitrate= 419.4kbits/s speed=10x",
		"size=     512kB time=00:00:10.00 bitrate= 419.4kbits/s speed=10x",
	}}
	runner, session := newTestRunner(ext)
	reporter := &recordingReporter{}

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileAAC), reporter)

	if !outcome.OK() {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.Label != "AAC" {
		t.Errorf("Label = %q, want AAC", outcome.Label)
	}

	wantProgress := []int{50, 50, 100}
	if fmt.Sprint(reporter.progress) != fmt.Sprint(wantProgress) {
		t.Errorf("progress = %v, want %v", reporter.progress, wantProgress)
	}
	if len(reporter.results) != 1 || reporter.results[0] != "Successfully extracted audio in AAC" {
		t.Errorf("results = %v", reporter.results)
	}

	if !session.has("INFO", "Starting audio extraction for file: movie.mp4") {
		t.Error("start line not logged")
	}
	if !session.has("INFO", "Successfully extracted audio in m4a-aac") {
		t.Error("success line not logged")
	}
	if len(session.output) != 3 {
		t.Errorf("expected all output lines forwarded to the session, got %d", len(session.output))
	}
	if session.closed != 1 {
		t.Errorf("session closed %d times, want 1", session.closed)
	}
}

func TestRunner_SuccessWithoutProgressLines(t *testing.T) {
	runner, _ := newTestRunner(&mockExtractor{})
	reporter := &recordingReporter{}

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileFLAC), reporter)

	if !outcome.OK() {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if fmt.Sprint(reporter.progress) != "[100]" {
		t.Errorf("progress = %v, want [100]", reporter.progress)
	}
	if reporter.results[0] != "Successfully extracted audio in FLAC" {
		t.Errorf("result = %q", reporter.results[0])
	}
}

func TestRunner_ProcessingFailure(t *testing.T) {
	ext := &mockExtractor{
		lines: []string{"size=       0kB time=00:00:00.00 bitrate=N/A"},
		err:   processingError(1),
	}
	runner, session := newTestRunner(ext)
	reporter := &recordingReporter{}

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileALAC), reporter)

	if outcome.OK() {
		t.Fatal("expected failure")
	}
	if outcome.Category != audio.CategoryProcessingFailure {
		t.Errorf("Category = %q, want %q", outcome.Category, audio.CategoryProcessingFailure)
	}
	for _, p := range reporter.progress {
		if p == 100 {
			t.Errorf("progress reached 100 on failure: %v", reporter.progress)
		}
	}
	if len(reporter.results) != 1 || reporter.results[0] != "Error: Could not extract audio due to a processing error." {
		t.Errorf("results = %v", reporter.results)
	}
	if !session.has("ERROR", "Audio extraction failed") {
		t.Error("failure not logged")
	}
	if !strings.Contains(outcome.Diagnostic, "Invalid data found") {
		t.Errorf("Diagnostic = %q, want ffmpeg tail", outcome.Diagnostic)
	}
}

func TestRunner_SpawnFailure(t *testing.T) {
	ext := &mockExtractor{err: &audio.ExtractionError{
		Reason:   audio.ErrSpawn,
		ExitCode: -1,
		Err:      errors.New(`exec: "ffmpeg": executable file not found in $PATH`),
	}}
	runner, _ := newTestRunner(ext)
	reporter := &recordingReporter{}

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileAAC), reporter)

	if outcome.Category != audio.CategorySpawnError {
		t.Errorf("Category = %q, want %q", outcome.Category, audio.CategorySpawnError)
	}
	if len(reporter.progress) != 0 {
		t.Errorf("expected no progress, got %v", reporter.progress)
	}
	if len(reporter.results) != 1 {
		t.Fatalf("expected exactly one result, got %v", reporter.results)
	}
}

func TestRunner_Cancelled(t *testing.T) {
	ext := &mockExtractor{err: &audio.ExtractionError{
		Reason: audio.ErrCancelled,
		Err:    context.Canceled,
	}}
	runner, session := newTestRunner(ext)
	reporter := &recordingReporter{}

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileAAC), reporter)

	if outcome.Status != audio.StatusCancelled {
		t.Errorf("Status = %q, want cancelled", outcome.Status)
	}
	if reporter.results[0] != "Extraction cancelled." {
		t.Errorf("result = %q", reporter.results[0])
	}
	if !session.has("WARN", "cancelled") {
		t.Error("cancellation not logged as a warning")
	}
}

func TestRunner_PanicBecomesUnexpectedFailure(t *testing.T) {
	runner, session := newTestRunner(&mockExtractor{panicMsg: "boom"})
	reporter := &recordingReporter{}

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileAAC), reporter)

	if outcome.Category != audio.CategoryUnexpectedFailure {
		t.Errorf("Category = %q, want %q", outcome.Category, audio.CategoryUnexpectedFailure)
	}
	if reporter.results[0] != "Error: An unexpected error occurred." {
		t.Errorf("result = %q", reporter.results[0])
	}
	if session.closed != 1 {
		t.Error("session should still be closed after a panic")
	}
}

func TestRunner_SessionOpenFailure(t *testing.T) {
	ext := &mockExtractor{}
	runner := NewRunner(ext, &mockOpener{err: errors.New("permission denied")})
	reporter := &recordingReporter{}

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileAAC), reporter)

	if outcome.Category != audio.CategoryUnexpectedFailure {
		t.Errorf("Category = %q, want %q", outcome.Category, audio.CategoryUnexpectedFailure)
	}
	if ext.calls != 0 {
		t.Error("extractor should not run without a log session")
	}
	if len(reporter.results) != 1 {
		t.Errorf("expected exactly one result, got %v", reporter.results)
	}
}

func TestRunner_EstimateMode(t *testing.T) {
	ext := &mockExtractor{lines: []string{
		"  Duration: 00:00:20.00, start: 0.000000, bitrate: 1205 kb/s",
		"size=     256kB time=00:00:05.00 bitrate= 419.4kbits/s",
		"size=     512kB time=00:00:10.00 bitrate= 419.4kbits/s",
	}}
	runner, _ := newTestRunner(ext, WithProgressMode(audio.ProgressEstimate))
	reporter := &recordingReporter{}

	runner.Run(context.Background(), newTestJob(audio.ProfileAAC), reporter)

	want := []int{25, 50, 100}
	if fmt.Sprint(reporter.progress) != fmt.Sprint(want) {
		t.Errorf("progress = %v, want %v", reporter.progress, want)
	}
}

func TestRunner_NilReporter(t *testing.T) {
	runner, _ := newTestRunner(&mockExtractor{lines: []string{"time=00:00:01.00"}})

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileAAC), nil)

	if !outcome.OK() {
		t.Errorf("expected success, got %+v", outcome)
	}
}

func TestRunner_SessionCloseErrorIsKeptInDiagnostic(t *testing.T) {
	runner, session := newTestRunner(&mockExtractor{})
	session.closeErr = errors.New("unlock: bad file descriptor")
	reporter := &recordingReporter{}

	outcome := runner.Run(context.Background(), newTestJob(audio.ProfileAAC), reporter)

	if !outcome.OK() {
		t.Fatalf("a close error should not fail a finished job, got %+v", outcome)
	}
	if !strings.Contains(outcome.Diagnostic, "close log session logs/test.log: unlock: bad file descriptor") {
		t.Errorf("Diagnostic = %q", outcome.Diagnostic)
	}
	if len(reporter.results) != 1 || reporter.results[0] != "Successfully extracted audio in AAC" {
		t.Errorf("results = %v", reporter.results)
	}
}

func TestRunner_SessionLogKeepsLifecycleAtErrorLevel(t *testing.T) {
	dir := t.TempDir()
	opener := sessionlog.NewOpener(dir, sessionlog.WithLevel("error"))
	ext := &mockExtractor{lines: []string{"size=     256kB time=00:00:05.00 bitrate= 419.4kbits/s"}}
	runner := NewRunner(ext, opener)
	job := newTestJob(audio.ProfileAAC)

	outcome := runner.Run(context.Background(), job, &recordingReporter{})
	if !outcome.OK() {
		t.Fatalf("expected success, got %+v", outcome)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one session log, got %v (err %v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{
		"Starting audio extraction for file: movie.mp4",
		"Successfully extracted audio in m4a-aac",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("session log missing %q:\n%s", want, data)
		}
	}
}
