package ffmpeg

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	// Start launches a command with stdout and stderr merged into one stream
	Start(ctx context.Context, name string, args ...string) (Process, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Process is a started command whose combined output can be read until EOF
type Process interface {
	Output() io.Reader
	// Wait blocks until the process exits. Call it after Output is drained.
	Wait() error
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Start executes a command and returns a handle to its combined output
func (r *ExecCommandRunner) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = nil

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, err
	}
	// the child holds its own copy; closing ours lets the reader see EOF on exit
	pw.Close()

	return &execProcess{cmd: cmd, out: pr}, nil
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

type execProcess struct {
	cmd *exec.Cmd
	out *os.File
}

func (p *execProcess) Output() io.Reader {
	return p.out
}

func (p *execProcess) Wait() error {
	err := p.cmd.Wait()
	p.out.Close()
	return err
}

// exitCoder is satisfied by *exec.ExitError
type exitCoder interface {
	ExitCode() int
}

var _ CommandRunner = (*ExecCommandRunner)(nil)
