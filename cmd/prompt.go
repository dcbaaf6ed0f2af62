package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
	// Select returns the 1-based number of the chosen option as typed by the user.
	// The answer is not validated.
	Select(message string, options []string, defaultIndex int) (string, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultIndex int) (string, error) {
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if defaultIndex >= 0 && defaultIndex < len(options) {
		prompt.Default = options[defaultIndex]
	}
	var index int
	if err := survey.AskOne(prompt, &index); err != nil {
		return "", err
	}
	return strconv.Itoa(index + 1), nil
}

// choicePrompt is asked after a numbered menu when prompting line by line.
// The subject is the last word of the menu message, so "Choose the output format:"
// asks for the desired format.
func choicePrompt(message string) string {
	subject := "option"
	if words := strings.Fields(strings.TrimRight(strings.TrimSpace(message), ":?")); len(words) > 0 {
		subject = strings.ToLower(words[len(words)-1])
	}
	return fmt.Sprintf("Enter the number corresponding to the desired %s:", subject)
}

// LinePrompter implements Prompter over plain lines of text, for pipes and dumb terminals
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter reading from in and writing questions to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) Input(message string, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s [%s] ", message, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s ", message)
	}
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func (p *LinePrompter) Confirm(message string, defaultValue bool) (bool, error) {
	hint := "y/N"
	if defaultValue {
		hint = "Y/n"
	}
	fmt.Fprintf(p.out, "%s (%s) ", message, hint)
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return defaultValue, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *LinePrompter) Select(message string, options []string, defaultIndex int) (string, error) {
	fmt.Fprintln(p.out, message)
	for i, option := range options {
		fmt.Fprintf(p.out, "%d: %s\n", i+1, option)
	}
	fmt.Fprintf(p.out, "%s ", choicePrompt(message))
	return p.readLine()
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// newDefaultPrompter uses survey on an interactive terminal and plain lines otherwise
func newDefaultPrompter() Prompter {
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return &SurveyPrompter{}
	}
	return NewLinePrompter(os.Stdin, os.Stdout)
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = newDefaultPrompter()

var (
	_ Prompter = (*SurveyPrompter)(nil)
	_ Prompter = (*LinePrompter)(nil)
)
