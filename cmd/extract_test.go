package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"audio-extractor/domain/audio"
)

// mockPrompter implements Prompter with scripted answers
type mockPrompter struct {
	inputs   []string
	confirms []bool
	selects  []string
	asked    []string
}

func (m *mockPrompter) Input(message string, defaultValue string) (string, error) {
	m.asked = append(m.asked, message)
	if len(m.inputs) == 0 {
		if defaultValue != "" {
			return defaultValue, nil
		}
		return "", fmt.Errorf("no more input responses available for message: %s", message)
	}
	answer := m.inputs[0]
	m.inputs = m.inputs[1:]
	return answer, nil
}

func (m *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	m.asked = append(m.asked, message)
	if len(m.confirms) == 0 {
		return defaultValue, nil
	}
	answer := m.confirms[0]
	m.confirms = m.confirms[1:]
	return answer, nil
}

func (m *mockPrompter) Select(message string, options []string, defaultIndex int) (string, error) {
	m.asked = append(m.asked, message)
	if len(m.selects) == 0 {
		return "", errors.New("no more select responses")
	}
	answer := m.selects[0]
	m.selects = m.selects[1:]
	return answer, nil
}

// mockJobService implements JobService without running ffmpeg
type mockJobService struct {
	existingFiles map[string]bool
	runErr        error
	ran           []*audio.Job
}

func newMockJobService(files ...string) *mockJobService {
	s := &mockJobService{existingFiles: make(map[string]bool)}
	for _, f := range files {
		s.existingFiles[f] = true
	}
	return s
}

func (s *mockJobService) builder() *audio.Builder {
	return audio.NewBuilder(fileSet(s.existingFiles))
}

func (s *mockJobService) CheckInput(inputPath string) error {
	return s.builder().CheckInput(inputPath)
}

func (s *mockJobService) Prepare(inputPath string, profile audio.Profile) (*audio.Job, error) {
	return s.builder().Build(inputPath, profile)
}

func (s *mockJobService) Run(ctx context.Context, job *audio.Job, reporter audio.Reporter) audio.Outcome {
	s.ran = append(s.ran, job)
	outcome := audio.Succeeded(job)
	if s.runErr != nil {
		outcome = audio.Failed(job, s.runErr)
	} else {
		reporter.OnProgress(audio.PlaceholderPercent)
		reporter.OnProgress(audio.CompletePercent)
	}
	reporter.OnResult(outcome.Message())
	return outcome
}

type fileSet map[string]bool

func (f fileSet) IsFile(path string) bool { return f[path] }

func TestRunExtract_InteractiveSuccess(t *testing.T) {
	svc := newMockJobService("movie.mp4")
	prompter := &mockPrompter{inputs: []string{"  movie.mp4  "}, selects: []string{"1"}}
	var out bytes.Buffer

	err := RunExtractWithDependencies(context.Background(), svc, prompter, &out, ExtractOptions{})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(svc.ran) != 1 {
		t.Fatalf("expected one job, got %d", len(svc.ran))
	}
	job := svc.ran[0]
	want := []string{"-i", "movie.mp4", "-vn", "-acodec", "aac", "-b:a", "320k", "movie.m4a"}
	if strings.Join(job.Args, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", job.Args, want)
	}
	if got := strings.TrimSpace(out.String()); got != "Successfully extracted audio in AAC" {
		t.Errorf("output = %q", got)
	}
	if prompter.asked[0] != "Please enter the path to the video file:" {
		t.Errorf("first prompt = %q", prompter.asked[0])
	}
}

func TestRunExtract_Failures(t *testing.T) {
	tests := []struct {
		name       string
		opts       ExtractOptions
		prompter   *mockPrompter
		runErr     error
		wantOutput string
		wantRun    bool
	}{
		{
			name:       "missing file stops before the menu",
			prompter:   &mockPrompter{inputs: []string{"missing.mp4"}},
			wantOutput: "Error: The specified file does not exist.",
		},
		{
			name:       "invalid menu choice",
			prompter:   &mockPrompter{inputs: []string{"movie.mp4"}, selects: []string{"4"}},
			wantOutput: "Error: Invalid choice. Please enter 1, 2, or 3.",
		},
		{
			name:       "unknown format flag",
			opts:       ExtractOptions{Input: "movie.mp4", Format: "mp3"},
			prompter:   &mockPrompter{},
			wantOutput: "Error: Unsupported format: mp3",
		},
		{
			name:     "processing failure",
			opts:     ExtractOptions{Input: "movie.mp4", Format: "flac"},
			prompter: &mockPrompter{},
			runErr: &audio.ExtractionError{
				Reason:   audio.ErrProcessingFailure,
				ExitCode: 1,
			},
			wantOutput: "Error: Could not extract audio due to a processing error.",
			wantRun:    true,
		},
		{
			name:       "spawn failure",
			opts:       ExtractOptions{Input: "movie.mp4", Format: "2"},
			prompter:   &mockPrompter{},
			runErr:     &audio.ExtractionError{Reason: audio.ErrSpawn, ExitCode: -1},
			wantOutput: "Error: Could not start ffmpeg. Make sure it is installed and on your PATH.",
			wantRun:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMockJobService("movie.mp4")
			svc.runErr = tt.runErr
			var out bytes.Buffer

			err := RunExtractWithDependencies(context.Background(), svc, tt.prompter, &out, tt.opts)

			if !errors.Is(err, errReported) {
				t.Fatalf("error = %v, want errReported", err)
			}
			if got := strings.TrimSpace(out.String()); got != tt.wantOutput {
				t.Errorf("output = %q, want %q", got, tt.wantOutput)
			}
			if got := len(svc.ran) > 0; got != tt.wantRun {
				t.Errorf("ran = %v, want %v", got, tt.wantRun)
			}
		})
	}
}

func TestRunExtract_FlagsSkipPrompts(t *testing.T) {
	svc := newMockJobService("clip.mkv")
	prompter := &mockPrompter{}
	var out bytes.Buffer

	err := RunExtractWithDependencies(context.Background(), svc, prompter, &out, ExtractOptions{
		Input:  "clip.mkv",
		Format: "m4a-alac",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prompter.asked) != 0 {
		t.Errorf("expected no prompts, got %v", prompter.asked)
	}
	if svc.ran[0].OutputPath != "clip.m4a" {
		t.Errorf("OutputPath = %q, want clip.m4a", svc.ran[0].OutputPath)
	}
	if !strings.Contains(out.String(), "Successfully extracted audio in ALAC") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunExtract_ProgressBar(t *testing.T) {
	svc := newMockJobService("movie.mp4")
	var out bytes.Buffer

	err := RunExtractWithDependencies(context.Background(), svc, &mockPrompter{}, &out, ExtractOptions{
		Input:    "movie.mp4",
		Format:   "3",
		Progress: true,
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Successfully extracted audio in FLAC") {
		t.Errorf("output = %q", out.String())
	}
}

func TestChooseProfile_DefaultIndexFollowsConfig(t *testing.T) {
	var gotDefault int
	prompter := &selectRecorder{answer: "3", defaultIndex: &gotDefault}

	profile, err := chooseProfile(prompter, ExtractOptions{DefaultProfile: audio.ProfileALAC})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile != audio.ProfileFLAC {
		t.Errorf("profile = %q, want flac", profile)
	}
	if gotDefault != 1 {
		t.Errorf("default index = %d, want 1", gotDefault)
	}
}

type selectRecorder struct {
	mockPrompter
	answer       string
	defaultIndex *int
}

func (s *selectRecorder) Select(message string, options []string, defaultIndex int) (string, error) {
	*s.defaultIndex = defaultIndex
	return s.answer, nil
}
