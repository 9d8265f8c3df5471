// Package soundpack holds the catalog of timbre profiles the audio engine
// plays for the four pad buttons.
package soundpack

import (
	"fmt"
	"regexp"
)

// ButtonCount is the number of pad buttons every pack must voice.
const ButtonCount = 4

// DefaultID is the pack callers fall back to when a lookup fails.
const DefaultID = "classic"

// Kind selects the synthesis path for a pack.
type Kind string

const (
	KindTone       Kind = "tone"
	KindPercussion Kind = "percussion"
)

// Waveform is the oscillator shape used by tone packs.
type Waveform string

const (
	WaveSine     Waveform = "sine"
	WaveSquare   Waveform = "square"
	WaveTriangle Waveform = "triangle"
	WaveSawtooth Waveform = "sawtooth"
)

// Source indicates where a pack was loaded from.
type Source int

const (
	// SourceBuiltIn indicates a pack bundled with the binary.
	SourceBuiltIn Source = iota
	// SourceUser indicates a pack loaded from the user's packs directory.
	SourceUser
)

// String returns a human-readable representation of the Source.
func (s Source) String() string {
	switch s {
	case SourceBuiltIn:
		return "built-in"
	case SourceUser:
		return "user"
	default:
		return "unknown"
	}
}

// Pack is a named timbre and color profile, one frequency and one color per button.
type Pack struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Kind        Kind                 `yaml:"kind"`
	Waveform    Waveform             `yaml:"waveform"`
	Frequencies [ButtonCount]float64 `yaml:"frequencies"`
	Colors      [ButtonCount]string  `yaml:"colors"`
	Source      Source               `yaml:"-"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate reports the first structural problem with the pack.
func (p Pack) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pack id is required")
	}
	switch p.Kind {
	case KindTone:
		switch p.Waveform {
		case WaveSine, WaveSquare, WaveTriangle, WaveSawtooth:
		default:
			return fmt.Errorf("pack %s: unknown waveform %q", p.ID, p.Waveform)
		}
	case KindPercussion:
	default:
		return fmt.Errorf("pack %s: unknown kind %q", p.ID, p.Kind)
	}
	for i, f := range p.Frequencies {
		if !(f > 0) {
			return fmt.Errorf("pack %s: frequency %d must be > 0, got %v", p.ID, i, f)
		}
	}
	for i, c := range p.Colors {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("pack %s: color %d %q is not #RRGGBB", p.ID, i, c)
		}
	}
	return nil
}

// UnknownSoundPackError indicates a lookup for a pack id that is not registered.
type UnknownSoundPackError struct {
	ID string
}

// Error implements the error interface.
func (e *UnknownSoundPackError) Error() string {
	return fmt.Sprintf("unknown sound pack %q", e.ID)
}
