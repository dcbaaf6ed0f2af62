package extraction

import (
	"context"

	"audio-extractor/domain/audio"
)

// Service is the capability both front-ends share: validate a request, then run it
type Service struct {
	builder *audio.Builder
	runner  *Runner
}

// NewService creates a new Service
func NewService(builder *audio.Builder, runner *Runner) *Service {
	return &Service{
		builder: builder,
		runner:  runner,
	}
}

// Prepare validates the request and builds the job without launching anything.
// Errors are ErrInvalidInput or ErrUnsupportedFormat.
func (s *Service) Prepare(inputPath string, profile audio.Profile) (*audio.Job, error) {
	return s.builder.Build(inputPath, profile)
}

// CheckInput validates only the input path, so a front-end can reject it before asking for a format
func (s *Service) CheckInput(inputPath string) error {
	return s.builder.CheckInput(inputPath)
}

// Run executes a prepared job, blocking until it finishes
func (s *Service) Run(ctx context.Context, job *audio.Job, reporter audio.Reporter) audio.Outcome {
	return s.runner.Run(ctx, job, reporter)
}

// Submit prepares and runs a job synchronously. Validation errors are returned
// before any process or log session is started; the reporter is not called for them.
func (s *Service) Submit(ctx context.Context, inputPath string, profile audio.Profile, reporter audio.Reporter) (audio.Outcome, error) {
	job, err := s.Prepare(inputPath, profile)
	if err != nil {
		return audio.Failed(nil, err), err
	}
	return s.Run(ctx, job, reporter), nil
}
