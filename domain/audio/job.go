package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Job is one requested transcode, bound to an input file and a profile
type Job struct {
	ID         string
	InputPath  string
	OutputPath string
	Profile    Profile
	Args       []string // ffmpeg arguments, without the executable name
}

// Builder validates requests and turns them into jobs
type Builder struct {
	fileChecker FileChecker
	newID       func() string
}

// NewBuilder creates a Builder that checks inputs with fileChecker
func NewBuilder(fileChecker FileChecker) *Builder {
	return &Builder{
		fileChecker: fileChecker,
		newID:       uuid.NewString,
	}
}

// Build validates inputPath and profile and derives the output path and ffmpeg arguments.
// The only filesystem access is the existence check on inputPath.
func (b *Builder) Build(inputPath string, profile Profile) (*Job, error) {
	if err := b.CheckInput(inputPath); err != nil {
		return nil, err
	}
	if !profile.Valid() {
		return nil, &FormatError{Value: string(profile)}
	}

	outputPath := OutputPath(inputPath, profile)
	return &Job{
		ID:         b.newID(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Profile:    profile,
		Args:       BuildArgs(inputPath, outputPath, profile),
	}, nil
}

// CheckInput reports ErrInvalidInput unless inputPath names an existing regular file
func (b *Builder) CheckInput(inputPath string) error {
	if strings.TrimSpace(inputPath) == "" || !b.fileChecker.IsFile(inputPath) {
		return fmt.Errorf("%w: %s", ErrInvalidInput, inputPath)
	}
	return nil
}

// OutputPath replaces the extension of inputPath with the profile's extension
func OutputPath(inputPath string, profile Profile) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + profile.Extension()
}

// BuildArgs returns the ffmpeg arguments that drop video and re-encode the audio track
func BuildArgs(inputPath, outputPath string, profile Profile) []string {
	args := []string{
		"-i", inputPath,
		"-vn",
		"-acodec", profile.Codec(),
	}
	if bitrate := profile.Bitrate(); bitrate != "" {
		args = append(args, "-b:a", bitrate)
	}
	return append(args, outputPath)
}
