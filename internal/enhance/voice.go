package enhance

import (
	"errors"
	"fmt"
)

// Voice represents a validated speaker-voice profile.
// Zero value falls back to the mixed profile during chain construction.
// Use ParseVoice to create from user input, or the pre-parsed constants.
type Voice struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Voice{}

// ErrInvalidVoice indicates an unknown voice profile name.
var ErrInvalidVoice = errors.New("invalid voice profile")

// Pre-parsed voice profiles.
var (
	VoiceMale   = Voice{name: "male"}
	VoiceFemale = Voice{name: "female"}
	VoiceMixed  = Voice{name: "mixed"}
)

// validVoices contains the set of accepted profile names.
var validVoices = map[string]bool{
	"male":   true,
	"female": true,
	"mixed":  true,
}

// ParseVoice validates and parses a voice profile name.
// Returns ErrInvalidVoice if the name is not recognized.
func ParseVoice(s string) (Voice, error) {
	if s == "" {
		return Voice{}, fmt.Errorf("voice cannot be empty: %w", ErrInvalidVoice)
	}
	if !validVoices[s] {
		return Voice{}, fmt.Errorf("unknown voice %q (use 'male', 'female' or 'mixed'): %w",
			s, ErrInvalidVoice)
	}
	return Voice{name: s}, nil
}

// MustParseVoice parses a voice profile name, panicking if invalid.
// Use only for compile-time constants and tests.
func MustParseVoice(s string) Voice {
	v, err := ParseVoice(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the profile name.
// Returns empty string for the zero value.
func (v Voice) String() string {
	return v.name
}

// IsZero returns true if this is the zero value (no profile set).
func (v Voice) IsZero() bool {
	return v.name == ""
}
