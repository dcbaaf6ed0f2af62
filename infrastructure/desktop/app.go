// Package desktop is the GUI front-end: a Wails window that submits jobs to the
// extraction service and shows their progress and result.
//
// Each job runs on its own worker goroutine. Status travels over the job's
// ChannelReporter to a single pump goroutine, which is the only code that touches
// the Display.
package desktop

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"
)

var (
	// ErrJobAlreadyRunning is returned when a job is submitted while another is active
	ErrJobAlreadyRunning = errors.New("job already running")
	// ErrNoRunningJob is returned when cancelling with no active job
	ErrNoRunningJob = errors.New("no running job")
	// ErrRuntimeNotReady is returned when a native dialog is requested before startup
	ErrRuntimeNotReady = errors.New("window runtime not ready")
)

// reporterBuffer bounds the queue between a job's worker and the pump
const reporterBuffer = 16

var videoDialogFilter = []wailsruntime.FileFilter{
	{
		DisplayName: "Video Files",
		Pattern:     "*.mp4;*.mkv;*.avi;*.mov",
	},
	{
		DisplayName: "All Files",
		Pattern:     "*",
	},
}

// JobService is what the window needs from the extraction service
type JobService interface {
	Prepare(inputPath string, profile audio.Profile) (*audio.Job, error)
	Run(ctx context.Context, job *audio.Job, reporter audio.Reporter) audio.Outcome
}

// FormatOption is one entry of the format selector
type FormatOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// App binds the extraction service to the window
type App struct {
	service        JobService
	defaultProfile audio.Profile
	assets         fs.FS

	mu          sync.Mutex
	display     Display
	runtimeCtx  context.Context
	activeJobID string
	cancel      context.CancelFunc
	jobs        sync.WaitGroup
}

// Option is a functional option for configuring App
type Option func(*App)

// WithDisplay replaces the Wails display (for testing)
func WithDisplay(display Display) Option {
	return func(a *App) {
		a.display = display
	}
}

// WithDefaultProfile preselects a format in the selector
func WithDefaultProfile(p audio.Profile) Option {
	return func(a *App) {
		if p.Valid() {
			a.defaultProfile = p
		}
	}
}

// NewApp creates the window backend
func NewApp(service JobService, opts ...Option) *App {
	a := &App{
		service:        service,
		defaultProfile: audio.ProfileAAC,
		assets:         Assets(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run opens the window and blocks until it is closed
func (a *App) Run() error {
	return wails.Run(&options.App{
		Title:         "Audio Extractor",
		Width:         480,
		Height:        300,
		DisableResize: true,
		AssetServer:   &assetserver.Options{Assets: a.assets},
		OnStartup:     a.Startup,
		OnShutdown:    a.Shutdown,
		Bind:          []interface{}{a},
	})
}

// Startup stores the Wails runtime context used for events and dialogs
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
	if a.display == nil {
		a.display = newWailsDisplay(ctx)
	}
}

// Shutdown cancels a running job and waits for it to finish
func (a *App) Shutdown(ctx context.Context) {
	_ = a.CancelExtraction()
	a.jobs.Wait()
}

// Formats lists the format selector entries in menu order
func (a *App) Formats() []FormatOption {
	profiles := audio.Profiles()
	out := make([]FormatOption, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, FormatOption{Value: p.String(), Label: p.MenuLabel()})
	}
	return out
}

// DefaultFormat returns the preselected format
func (a *App) DefaultFormat() string {
	return a.defaultProfile.String()
}

// PickInputFile opens a native file dialog for video selection
func (a *App) PickInputFile() (string, error) {
	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx == nil {
		return "", ErrRuntimeNotReady
	}

	path, err := wailsruntime.OpenFileDialog(ctx, wailsruntime.OpenDialogOptions{
		Title:   "Select Video File",
		Filters: videoDialogFilter,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(path), nil
}

// StartExtraction validates the request and runs it in the background.
// Invalid requests open an error dialog and start nothing.
func (a *App) StartExtraction(inputPath string, format string) (string, error) {
	a.mu.Lock()
	if a.activeJobID != "" {
		a.mu.Unlock()
		return "", ErrJobAlreadyRunning
	}
	display := a.display
	if display == nil {
		a.mu.Unlock()
		return "", ErrRuntimeNotReady
	}

	job, err := a.service.Prepare(strings.TrimSpace(inputPath), audio.Profile(format))
	if err != nil {
		a.mu.Unlock()
		// the dialog is modal; show it without holding the lock
		display.ShowError(audio.UserMessage(err))
		return "", err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.activeJobID = job.ID
	a.cancel = cancel
	a.jobs.Add(2)
	// emitted before the worker starts so it precedes every progress and result event
	display.SetRunning(job.ID, true)
	a.mu.Unlock()

	reporter := extraction.NewChannelReporter(job.ID, reporterBuffer)
	go func() {
		defer a.jobs.Done()
		defer reporter.Close()
		a.service.Run(ctx, job, reporter)
	}()
	go func() {
		defer a.jobs.Done()
		extraction.Drain(context.Background(), reporter.Messages(), func(msg extraction.Message) {
			apply(display, msg)
		})
		a.finish(display, job.ID)
	}()

	return job.ID, nil
}

// CancelExtraction stops the running job; it ends with the cancelled result
func (a *App) CancelExtraction() error {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()

	if cancel == nil {
		return ErrNoRunningJob
	}
	cancel()
	return nil
}

// Running reports whether a job is active
func (a *App) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeJobID != ""
}

// finish releases the single-job slot once the pump has shown the result
func (a *App) finish(display Display, jobID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.activeJobID != jobID {
		return
	}
	if a.cancel != nil {
		a.cancel()
	}
	a.activeJobID = ""
	a.cancel = nil
	display.SetRunning(jobID, false)
}

// apply renders one message; the bar resets once the result was shown
func apply(display Display, msg extraction.Message) {
	switch msg.Kind {
	case extraction.MessageProgress:
		display.SetProgress(msg.JobID, msg.Percent)
	case extraction.MessageResult:
		display.ShowResult(msg.JobID, msg.Text)
		display.SetProgress(msg.JobID, 0)
	}
}
