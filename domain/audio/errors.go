package audio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is returned when the input path is missing or not a regular file
	ErrInvalidInput = errors.New("input file does not exist")

	// ErrUnsupportedFormat is returned when a profile name or menu choice is not recognized
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrSpawn is returned when ffmpeg cannot be located or started
	ErrSpawn = errors.New("failed to start ffmpeg")

	// ErrProcessingFailure is returned when ffmpeg ran but exited with a non-zero status
	ErrProcessingFailure = errors.New("ffmpeg exited with an error")

	// ErrUnexpectedFailure covers any other error while supervising the process
	ErrUnexpectedFailure = errors.New("unexpected failure")

	// ErrCancelled is returned when the caller cancelled a running job
	ErrCancelled = errors.New("extraction cancelled")
)

// Category classifies why a job did not succeed
type Category string

const (
	CategoryNone              Category = ""
	CategoryInvalidInput      Category = "invalid_input"
	CategoryUnsupportedFormat Category = "unsupported_format"
	CategorySpawnError        Category = "spawn_error"
	CategoryProcessingFailure Category = "processing_failure"
	CategoryUnexpectedFailure Category = "unexpected_failure"
	CategoryCancelled         Category = "cancelled"
)

// CategoryOf maps an error to its category. Unrecognized errors are unexpected failures.
func CategoryOf(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrCancelled):
		return CategoryCancelled
	case errors.Is(err, ErrInvalidInput):
		return CategoryInvalidInput
	case errors.Is(err, ErrUnsupportedFormat):
		return CategoryUnsupportedFormat
	case errors.Is(err, ErrSpawn):
		return CategorySpawnError
	case errors.Is(err, ErrProcessingFailure):
		return CategoryProcessingFailure
	default:
		return CategoryUnexpectedFailure
	}
}

// UserMessage returns the human-readable line shown to the user for err
func UserMessage(err error) string {
	switch CategoryOf(err) {
	case CategoryNone:
		return ""
	case CategoryInvalidInput:
		return "Error: The specified file does not exist."
	case CategoryUnsupportedFormat:
		var formatErr *FormatError
		if errors.As(err, &formatErr) && formatErr.Choice {
			return "Error: Invalid choice. Please enter 1, 2, or 3."
		}
		if formatErr != nil {
			return fmt.Sprintf("Error: Unsupported format: %s", formatErr.Value)
		}
		return "Error: Unsupported format."
	case CategorySpawnError:
		return "Error: Could not start ffmpeg. Make sure it is installed and on your PATH."
	case CategoryProcessingFailure:
		return "Error: Could not extract audio due to a processing error."
	case CategoryCancelled:
		return "Extraction cancelled."
	default:
		return "Error: An unexpected error occurred."
	}
}

// FormatError reports a profile name or menu choice outside the supported set
type FormatError struct {
	Value  string
	Choice bool // true when Value came from a numbered menu
}

func (e *FormatError) Error() string {
	if e.Choice {
		return fmt.Sprintf("invalid choice %q: please enter 1, 2, or 3", e.Value)
	}
	return fmt.Sprintf("unsupported format: %s", e.Value)
}

// Is lets errors.Is match FormatError against ErrUnsupportedFormat
func (e *FormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ExtractionError describes a failure while running ffmpeg
type ExtractionError struct {
	Reason   error    // one of the Err* sentinels
	ExitCode int      // process exit status, -1 when the process never exited normally
	Tail     []string // last lines of ffmpeg output
	Err      error    // underlying cause, may be nil
}

func (e *ExtractionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Reason.Error())
	if e.ExitCode > 0 {
		fmt.Fprintf(&b, " (exit=%d)", e.ExitCode)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the category sentinel and the underlying cause
func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

// Diagnostic joins the captured output tail for logging
func (e *ExtractionError) Diagnostic() string {
	return strings.Join(e.Tail, "\n")
}
