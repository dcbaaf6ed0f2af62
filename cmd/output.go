package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"audio-extractor/domain/audio"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the writer used in production
var DefaultOutput OutputWriter = os.Stdout

// isTerminal reports whether w is an interactive terminal
func isTerminal(w any) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// painter returns a color that is only applied when out is a terminal
func painter(out OutputWriter, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if isTerminal(out) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// printResult prints a job's result line: green on success, yellow when cancelled, red otherwise
func printResult(out OutputWriter, message string) {
	attr := color.FgGreen
	switch {
	case message == audio.UserMessage(audio.ErrCancelled):
		attr = color.FgYellow
	case strings.HasPrefix(message, "Error:"):
		attr = color.FgRed
	}
	painter(out, attr).Fprintln(out, message)
}

// printStatus prints a doctor-style "label: [STATUS] detail" line
func printStatus(out OutputWriter, label, status, detail string) {
	attr := color.FgBlue
	switch status {
	case statusOK:
		attr = color.FgGreen
	case statusWarn:
		attr = color.FgYellow
	case statusError:
		attr = color.FgRed
	}
	line := fmt.Sprintf("  %-20s [%s]", label+":", status)
	if detail != "" {
		line += " " + detail
	}
	painter(out, attr).Fprintln(out, line)
}

const (
	statusOK    = "OK"
	statusWarn  = "WARN"
	statusError = "ERROR"
	statusInfo  = "INFO"
)
