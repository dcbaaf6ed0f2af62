package desktop

import (
	"context"
	"strings"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Event names pushed to the frontend
const (
	EventProgress = "extraction:progress"
	EventResult   = "extraction:result"
	EventState    = "extraction:state"
)

// Display is the window state. Progress and results come only from the pump
// goroutine of the running job.
type Display interface {
	// SetRunning marks the start and end of the single-job slot. The frontend
	// treats it as the source of truth for the Extract and Cancel buttons.
	SetRunning(jobID string, running bool)
	SetProgress(jobID string, percent int)
	ShowResult(jobID string, message string)
	// ShowError reports a request rejected before any job started
	ShowError(message string)
}

// progressEvent is the payload of EventProgress
type progressEvent struct {
	JobID   string `json:"jobId"`
	Percent int    `json:"percent"`
}

// stateEvent is the payload of EventState
type stateEvent struct {
	JobID   string `json:"jobId"`
	Running bool   `json:"running"`
}

// resultEvent is the payload of EventResult
type resultEvent struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

// wailsDisplay drives the webview through the Wails runtime
type wailsDisplay struct {
	ctx context.Context
}

func newWailsDisplay(ctx context.Context) *wailsDisplay {
	return &wailsDisplay{ctx: ctx}
}

func (d *wailsDisplay) SetRunning(jobID string, running bool) {
	wailsruntime.EventsEmit(d.ctx, EventState, stateEvent{JobID: jobID, Running: running})
}

func (d *wailsDisplay) SetProgress(jobID string, percent int) {
	wailsruntime.EventsEmit(d.ctx, EventProgress, progressEvent{JobID: jobID, Percent: percent})
}

// ShowResult blocks until the result dialog is dismissed
func (d *wailsDisplay) ShowResult(jobID string, message string) {
	wailsruntime.EventsEmit(d.ctx, EventResult, resultEvent{JobID: jobID, Message: message})
	_, _ = wailsruntime.MessageDialog(d.ctx, wailsruntime.MessageDialogOptions{
		Type:    wailsruntime.InfoDialog,
		Title:   "Result",
		Message: message,
	})
}

func (d *wailsDisplay) ShowError(message string) {
	_, _ = wailsruntime.MessageDialog(d.ctx, wailsruntime.MessageDialogOptions{
		Type:    wailsruntime.ErrorDialog,
		Title:   "Error",
		Message: strings.TrimPrefix(message, "Error: "),
	})
}

var _ Display = (*wailsDisplay)(nil)
