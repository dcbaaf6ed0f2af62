package audio

import (
	"fmt"
	"regexp"
	"strings"
)

// ProgressMarker is the token ffmpeg prints in its periodic stats line
const ProgressMarker = "time="

// PlaceholderPercent is reported whenever ffmpeg shows activity.
// It is a fixed signal, not a measured percentage.
const PlaceholderPercent = 50

// CompletePercent is reported once ffmpeg exits successfully
const CompletePercent = 100

// ProgressMode selects how stats lines are turned into progress values
type ProgressMode string

const (
	// ProgressPlaceholder reports PlaceholderPercent for every stats line
	ProgressPlaceholder ProgressMode = "placeholder"
	// ProgressEstimate divides the reported position by the input duration
	ProgressEstimate ProgressMode = "estimate"
)

// ParseProgressMode validates a configured mode; empty means placeholder
func ParseProgressMode(s string) (ProgressMode, error) {
	switch mode := ProgressMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ProgressPlaceholder, nil
	case ProgressPlaceholder, ProgressEstimate:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown progress mode %q: expected placeholder or estimate", s)
	}
}

var (
	durationRegex = regexp.MustCompile(`Duration:\s*(\d{2,}:\d{2}:\d{2}(?:\.\d+)?)`)
	positionRegex = regexp.MustCompile(`time=\s*(\d{2,}:\d{2}:\d{2}(?:\.\d+)?)`)
)

// ProgressTracker turns ffmpeg output lines into non-decreasing progress values.
// Values stay below CompletePercent; only a successful exit reports 100.
type ProgressTracker struct {
	mode     ProgressMode
	duration Clock
	last     int
}

// NewProgressTracker creates a tracker for one job
func NewProgressTracker(mode ProgressMode) *ProgressTracker {
	if mode == "" {
		mode = ProgressPlaceholder
	}
	return &ProgressTracker{mode: mode}
}

// Observe inspects one output line and returns a progress value when the line is a stats line
func (t *ProgressTracker) Observe(line string) (int, bool) {
	if t.mode == ProgressEstimate {
		if m := durationRegex.FindStringSubmatch(line); m != nil && t.duration.IsZero() {
			if c, err := ParseClock(m[1]); err == nil {
				t.duration = c
			}
		}
	}

	if !strings.Contains(line, ProgressMarker) {
		return 0, false
	}

	percent := PlaceholderPercent
	if t.mode == ProgressEstimate && !t.duration.IsZero() {
		estimate, ok := t.estimate(line)
		if !ok {
			estimate = t.last
		}
		percent = estimate
	}

	if percent < t.last {
		percent = t.last
	}
	t.last = percent
	return percent, true
}

// estimate computes position/duration, capped below completion
func (t *ProgressTracker) estimate(line string) (int, bool) {
	m := positionRegex.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	position, err := ParseClock(m[1])
	if err != nil {
		return 0, false
	}

	percent := int(position.Duration() * 100 / t.duration.Duration())
	if percent >= CompletePercent {
		percent = CompletePercent - 1
	}
	if percent < 0 {
		percent = 0
	}
	return percent, true
}
