//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"audio-extractor/application/extraction"
	"audio-extractor/cmd"
	"audio-extractor/domain/audio"
	"audio-extractor/infrastructure/ffmpeg"
	"audio-extractor/infrastructure/filesystem"
	"audio-extractor/infrastructure/sessionlog"

	"github.com/cucumber/godog"
)

// scriptedExit mimics *exec.ExitError
type scriptedExit struct {
	code int
}

func (e *scriptedExit) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e *scriptedExit) ExitCode() int { return e.code }

// scriptedProcess replays canned ffmpeg output
type scriptedProcess struct {
	out      io.Reader
	exitCode int
}

func (p *scriptedProcess) Output() io.Reader { return p.out }

func (p *scriptedProcess) Wait() error {
	if p.exitCode != 0 {
		return &scriptedExit{code: p.exitCode}
	}
	return nil
}

// scriptedRunner implements ffmpeg.CommandRunner and records every launch
type scriptedRunner struct {
	output   string
	exitCode int
	startErr error
	calls    [][]string
}

func (r *scriptedRunner) Start(ctx context.Context, name string, args ...string) (ffmpeg.Process, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.startErr != nil {
		return nil, r.startErr
	}
	return &scriptedProcess{out: strings.NewReader(r.output), exitCode: r.exitCode}, nil
}

func (r *scriptedRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	return []byte("ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers\n"), nil
}

const sampleFFmpegOutput = "Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'input':\n" +
	"  Duration: 00:00:10.00, start: 0.000000, bitrate: 1205 kb/s\n" +
	"size=     128kB time=00:00:04.00 bitrate= 262.1kbits/s speed=8x\r" +
	"size=     320kB time=00:00:10.00 bitrate= 262.1kbits/s speed=8x\n"

// extractContext holds test state for extract scenarios
type extractContext struct {
	tempDir string
	logsDir string
	runner  *scriptedRunner
	prompts *bytes.Buffer
	output  *bytes.Buffer
	err     error
}

// SharedExtractContext is reset before each scenario via Before hook
var SharedExtractContext *extractContext

func getExtractContext() *extractContext {
	return SharedExtractContext
}

func InitializeExtractScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "extract-test-*")
		if err != nil {
			return c, err
		}
		SharedExtractContext = &extractContext{
			tempDir: tempDir,
			logsDir: filepath.Join(tempDir, "logs"),
			runner:  &scriptedRunner{output: sampleFFmpegOutput},
			prompts: &bytes.Buffer{},
			output:  &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if e := getExtractContext(); e != nil && e.tempDir != "" {
			os.RemoveAll(e.tempDir)
		}
		SharedExtractContext = nil
		return c, nil
	})

	ctx.Step(`^a video file named "([^"]*)"$`, aVideoFileNamed)
	ctx.Step(`^ffmpeg exits with code (\d+)$`, ffmpegExitsWithCode)
	ctx.Step(`^ffmpeg cannot be started$`, ffmpegCannotBeStarted)
	ctx.Step(`^I run the console flow answering "([^"]*)" and "([^"]*)"$`, iRunTheConsoleFlowAnsweringAnd)
	ctx.Step(`^I run the console flow answering "([^"]*)"$`, iRunTheConsoleFlowAnswering)
	ctx.Step(`^I run extract with input "([^"]*)" and format "([^"]*)"$`, iRunExtractWithInputAndFormat)
	ctx.Step(`^the command should succeed$`, theCommandShouldSucceed)
	ctx.Step(`^the command should fail$`, theCommandShouldFail)
	ctx.Step(`^the result should be "([^"]*)"$`, theResultShouldBe)
	ctx.Step(`^I should have been asked "([^"]*)"$`, iShouldHaveBeenAsked)
	ctx.Step(`^I should not have been asked "([^"]*)"$`, iShouldNotHaveBeenAsked)
	ctx.Step(`^ffmpeg should have been called with arguments:$`, ffmpegShouldHaveBeenCalledWithArguments)
	ctx.Step(`^ffmpeg should not have been called$`, ffmpegShouldNotHaveBeenCalled)
	ctx.Step(`^the session log should contain "([^"]*)"$`, theSessionLogShouldContain)
	ctx.Step(`^no session log should exist$`, noSessionLogShouldExist)
}

// resolve maps a bare file name to the scenario's temp directory
func (e *extractContext) resolve(name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(e.tempDir, name)
}

func (e *extractContext) service() *extraction.Service {
	extractor := ffmpeg.NewExtractor(ffmpeg.WithExtractorCommandRunner(e.runner))
	runner := extraction.NewRunner(extractor, sessionlog.NewOpener(e.logsDir))
	return extraction.NewService(audio.NewBuilder(filesystem.NewChecker()), runner)
}

func (e *extractContext) run(stdin string, opts cmd.ExtractOptions) {
	prompter := cmd.NewLinePrompter(strings.NewReader(stdin), e.prompts)
	e.err = cmd.RunExtractWithDependencies(context.Background(), e.service(), prompter, e.output, opts)
}

func aVideoFileNamed(name string) error {
	e := getExtractContext()
	return os.WriteFile(e.resolve(name), []byte("not really a video"), 0644)
}

func ffmpegExitsWithCode(code int) error {
	e := getExtractContext()
	e.runner.exitCode = code
	if code != 0 {
		e.runner.output = "movie.mp4: Invalid data found when processing input\n"
	}
	return nil
}

func ffmpegCannotBeStarted() error {
	e := getExtractContext()
	e.runner.startErr = errors.New(`exec: "ffmpeg": executable file not found in $PATH`)
	return nil
}

func iRunTheConsoleFlowAnsweringAnd(path, choice string) error {
	e := getExtractContext()
	e.run(e.resolve(path)+"\n"+choice+"\n", cmd.ExtractOptions{})
	return nil
}

func iRunTheConsoleFlowAnswering(path string) error {
	e := getExtractContext()
	e.run(e.resolve(path)+"\n", cmd.ExtractOptions{})
	return nil
}

func iRunExtractWithInputAndFormat(path, format string) error {
	e := getExtractContext()
	e.run("", cmd.ExtractOptions{Input: e.resolve(path), Format: format})
	return nil
}

func theCommandShouldSucceed() error {
	e := getExtractContext()
	if e.err != nil {
		return fmt.Errorf("expected success, got %v (output %q)", e.err, e.output.String())
	}
	return nil
}

func theCommandShouldFail() error {
	e := getExtractContext()
	if e.err == nil {
		return fmt.Errorf("expected failure, output %q", e.output.String())
	}
	return nil
}

func theResultShouldBe(expected string) error {
	e := getExtractContext()
	got := strings.TrimSpace(e.output.String())
	if got != expected {
		return fmt.Errorf("expected result %q, got %q", expected, got)
	}
	return nil
}

func iShouldHaveBeenAsked(question string) error {
	e := getExtractContext()
	if !strings.Contains(e.prompts.String(), question) {
		return fmt.Errorf("prompt %q not shown in:\n%s", question, e.prompts.String())
	}
	return nil
}

func iShouldNotHaveBeenAsked(question string) error {
	e := getExtractContext()
	if strings.Contains(e.prompts.String(), question) {
		return fmt.Errorf("prompt %q was shown:\n%s", question, e.prompts.String())
	}
	return nil
}

func ffmpegShouldHaveBeenCalledWithArguments(table *godog.Table) error {
	e := getExtractContext()
	if len(e.runner.calls) != 1 {
		return fmt.Errorf("expected 1 ffmpeg call, got %d", len(e.runner.calls))
	}

	var expected []string
	for _, row := range table.Rows {
		arg := row.Cells[0].Value
		if strings.HasPrefix(arg, "{dir}/") {
			arg = e.resolve(strings.TrimPrefix(arg, "{dir}/"))
		}
		expected = append(expected, arg)
	}

	got := e.runner.calls[0][1:]
	if strings.Join(got, "\x00") != strings.Join(expected, "\x00") {
		return fmt.Errorf("expected args %q, got %q", expected, got)
	}
	return nil
}

func ffmpegShouldNotHaveBeenCalled() error {
	e := getExtractContext()
	if len(e.runner.calls) != 0 {
		return fmt.Errorf("expected no ffmpeg call, got %v", e.runner.calls)
	}
	return nil
}

func (e *extractContext) sessionLogs() ([]string, error) {
	return filepath.Glob(filepath.Join(e.logsDir, "*.log"))
}

func theSessionLogShouldContain(expected string) error {
	e := getExtractContext()
	logs, err := e.sessionLogs()
	if err != nil {
		return err
	}
	if len(logs) != 1 {
		return fmt.Errorf("expected 1 session log, found %v", logs)
	}
	data, err := os.ReadFile(logs[0])
	if err != nil {
		return err
	}
	if !strings.Contains(string(data), expected) {
		return fmt.Errorf("session log missing %q:\n%s", expected, data)
	}
	return nil
}

func noSessionLogShouldExist() error {
	e := getExtractContext()
	logs, err := e.sessionLogs()
	if err != nil {
		return err
	}
	if len(logs) != 0 {
		return fmt.Errorf("expected no session log, found %v", logs)
	}
	return nil
}
