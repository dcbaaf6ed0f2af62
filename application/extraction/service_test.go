package extraction

import (
	"context"
	"errors"
	"testing"

	"audio-extractor/domain/audio"
)

// mockFileChecker implements audio.FileChecker for testing
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) IsFile(path string) bool {
	return m.existingFiles[path]
}

func newTestService(ext *mockExtractor, files ...string) (*Service, *mockOpener) {
	checker := &mockFileChecker{existingFiles: make(map[string]bool)}
	for _, f := range files {
		checker.existingFiles[f] = true
	}
	opener := &mockOpener{session: &mockSession{}}
	return NewService(audio.NewBuilder(checker), NewRunner(ext, opener)), opener
}

func TestService_Prepare(t *testing.T) {
	svc, _ := newTestService(&mockExtractor{}, "movie.mp4")

	job, err := svc.Prepare("movie.mp4", audio.ProfileFLAC)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if job.OutputPath != "movie.flac" {
		t.Errorf("OutputPath = %q, want movie.flac", job.OutputPath)
	}
}

func TestService_Submit(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		profile      audio.Profile
		wantErr      error
		wantCategory audio.Category
		wantRun      bool
	}{
		{
			name:    "valid request runs",
			input:   "movie.mp4",
			profile: audio.ProfileAAC,
			wantRun: true,
		},
		{
			name:         "missing file is rejected before launch",
			input:        "nope.mp4",
			profile:      audio.ProfileAAC,
			wantErr:      audio.ErrInvalidInput,
			wantCategory: audio.CategoryInvalidInput,
		},
		{
			name:         "unknown profile is rejected before launch",
			input:        "movie.mp4",
			profile:      audio.Profile("mp3"),
			wantErr:      audio.ErrUnsupportedFormat,
			wantCategory: audio.CategoryUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &mockExtractor{}
			svc, opener := newTestService(ext, "movie.mp4")
			reporter := &recordingReporter{}

			outcome, err := svc.Submit(context.Background(), tt.input, tt.profile, reporter)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
				}
				if outcome.Category != tt.wantCategory {
					t.Errorf("Category = %q, want %q", outcome.Category, tt.wantCategory)
				}
				if len(reporter.results) != 0 || len(opener.session.entries) != 0 {
					t.Error("validation failures must not report or log")
				}
			} else if err != nil {
				t.Fatalf("Submit() unexpected error = %v", err)
			}

			if got := ext.calls > 0; got != tt.wantRun {
				t.Errorf("extractor ran = %v, want %v", got, tt.wantRun)
			}
		})
	}
}
