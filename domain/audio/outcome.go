package audio

import (
	"errors"
	"fmt"
)

// Status is the terminal state of a job
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Outcome is the single terminal result of a job
type Outcome struct {
	JobID      string
	Status     Status
	Label      string   // codec label, set on success
	Category   Category // failure reason, set on failure or cancellation
	Diagnostic string   // detail recorded in the session log, never shown to the user
	Err        error
}

// Succeeded builds the success outcome for job
func Succeeded(job *Job) Outcome {
	return Outcome{
		JobID:  job.ID,
		Status: StatusSucceeded,
		Label:  job.Profile.Label(),
	}
}

// Failed builds a failure (or cancellation) outcome from err
func Failed(job *Job, err error) Outcome {
	outcome := Outcome{
		Status:   StatusFailed,
		Category: CategoryOf(err),
		Err:      err,
	}
	if job != nil {
		outcome.JobID = job.ID
	}
	if outcome.Category == CategoryCancelled {
		outcome.Status = StatusCancelled
	}
	var extractErr *ExtractionError
	if errors.As(err, &extractErr) {
		outcome.Diagnostic = extractErr.Diagnostic()
	}
	if outcome.Diagnostic == "" && err != nil {
		outcome.Diagnostic = err.Error()
	}
	return outcome
}

// OK reports whether the job succeeded
func (o Outcome) OK() bool {
	return o.Status == StatusSucceeded
}

// Message is the human-readable result line shown to the user
func (o Outcome) Message() string {
	if o.OK() {
		return fmt.Sprintf("Successfully extracted audio in %s", o.Label)
	}
	if o.Err != nil {
		return UserMessage(o.Err)
	}
	return UserMessage(ErrUnexpectedFailure)
}
