package audio

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Clock is a media position as ffmpeg prints it: HH:MM:SS with optional fraction
type Clock struct {
	Hours   int
	Minutes int
	Seconds int
	Nanos   int
}

// clockRegex matches HH:MM:SS and HH:MM:SS.ff
var clockRegex = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})(?:\.(\d{1,9}))?$`)

// ParseClock parses a position such as "00:01:23.45"
func ParseClock(s string) (Clock, error) {
	matches := clockRegex.FindStringSubmatch(s)
	if matches == nil {
		return Clock{}, fmt.Errorf("invalid clock format %q: expected HH:MM:SS[.ff]", s)
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])

	if minutes > 59 {
		return Clock{}, fmt.Errorf("invalid clock %q: minutes must be 0-59", s)
	}
	if seconds > 59 {
		return Clock{}, fmt.Errorf("invalid clock %q: seconds must be 0-59", s)
	}

	nanos := 0
	if frac := matches[4]; frac != "" {
		for len(frac) < 9 {
			frac += "0"
		}
		nanos, _ = strconv.Atoi(frac)
	}

	return Clock{
		Hours:   hours,
		Minutes: minutes,
		Seconds: seconds,
		Nanos:   nanos,
	}, nil
}

// String returns the clock in HH:MM:SS.ff format
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%02d", c.Hours, c.Minutes, c.Seconds, c.Nanos/int(10*time.Millisecond))
}

// Duration returns the position as a time.Duration
func (c Clock) Duration() time.Duration {
	return time.Duration(c.Hours)*time.Hour +
		time.Duration(c.Minutes)*time.Minute +
		time.Duration(c.Seconds)*time.Second +
		time.Duration(c.Nanos)
}

// IsZero returns true if the clock is 00:00:00
func (c Clock) IsZero() bool {
	return c.Duration() == 0
}
