package audio

import (
	"fmt"
	"strings"
)

// Profile is a fixed combination of target codec, optional bitrate and output extension
type Profile string

const (
	// ProfileAAC is lossy AAC at a constant 320 kbps in an MP4 audio container
	ProfileAAC Profile = "m4a-aac"
	// ProfileALAC is lossless Apple audio in an MP4 audio container
	ProfileALAC Profile = "m4a-alac"
	// ProfileFLAC is lossless FLAC
	ProfileFLAC Profile = "flac"
)

// LossyBitrate is the constant bitrate used for the lossy profile
const LossyBitrate = "320k"

type profileSpec struct {
	codec       string
	bitrate     string
	extension   string
	description string
}

var profileSpecs = map[Profile]profileSpec{
	ProfileAAC: {
		codec:       "aac",
		bitrate:     LossyBitrate,
		extension:   ".m4a",
		description: "Lossy, high quality",
	},
	ProfileALAC: {
		codec:       "alac",
		extension:   ".m4a",
		description: "Lossless, high quality",
	},
	ProfileFLAC: {
		codec:       "flac",
		extension:   ".flac",
		description: "Lossless, high quality",
	},
}

// menuOrder is the order profiles are offered in numbered menus (1-based)
var menuOrder = []Profile{ProfileAAC, ProfileALAC, ProfileFLAC}

// Profiles returns every supported profile in menu order
func Profiles() []Profile {
	out := make([]Profile, len(menuOrder))
	copy(out, menuOrder)
	return out
}

// ParseProfile resolves a profile name. Unknown names fail with ErrUnsupportedFormat.
func ParseProfile(name string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(name)))
	if !p.Valid() {
		return "", &FormatError{Value: name}
	}
	return p, nil
}

// ProfileForChoice maps a menu choice ("1", "2" or "3") to its profile
func ProfileForChoice(choice string) (Profile, error) {
	choice = strings.TrimSpace(choice)
	for i, p := range menuOrder {
		if choice == fmt.Sprint(i+1) {
			return p, nil
		}
	}
	return "", &FormatError{Value: choice, Choice: true}
}

// ResolveProfile accepts either a menu number or a profile name
func ResolveProfile(value string) (Profile, error) {
	if p, err := ProfileForChoice(value); err == nil {
		return p, nil
	}
	return ParseProfile(value)
}

// Valid reports whether p is one of the supported profiles
func (p Profile) Valid() bool {
	_, ok := profileSpecs[p]
	return ok
}

// Codec returns the ffmpeg audio encoder name
func (p Profile) Codec() string {
	return profileSpecs[p].codec
}

// Bitrate returns the fixed bitrate, or "" when the encoder is lossless
func (p Profile) Bitrate() string {
	return profileSpecs[p].bitrate
}

// Extension returns the output file extension including the leading dot
func (p Profile) Extension() string {
	return profileSpecs[p].extension
}

// Description is the short quality note shown next to the profile in menus
func (p Profile) Description() string {
	return profileSpecs[p].description
}

// Label is the short codec name reported on success (AAC, ALAC, FLAC)
func (p Profile) Label() string {
	name := string(p)
	if i := strings.LastIndex(name, "-"); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToUpper(name)
}

// MenuNumber returns the 1-based menu position, or 0 for an unknown profile
func (p Profile) MenuNumber() int {
	for i, candidate := range menuOrder {
		if candidate == p {
			return i + 1
		}
	}
	return 0
}

// MenuLabel is the text shown for p in numbered menus and format selectors
func (p Profile) MenuLabel() string {
	return fmt.Sprintf("%s (%s)", p, p.Description())
}

func (p Profile) String() string {
	return string(p)
}
