// Package device provides the audio output backends the engine renders into.
//
// A device pulls samples from a single beep.Streamer on its own goroutine.
// Devices open suspended and start pulling on the first Resume, which the
// engine issues when the first sound is played.
package device

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
)

// State is the lifecycle state of an output device.
type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

// String returns a human-readable representation of the State.
func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Device is an audio sink.
type Device interface {
	// Open starts the output pulling from src. The device is suspended
	// after Open returns.
	Open(src beep.Streamer) error
	Resume() error
	Suspend() error
	State() State
	Close() error
}

// Backend names accepted by New.
const (
	BackendSpeaker = "speaker"
	BackendOto     = "oto"
	BackendNone    = "none"
)

// Format is the stereo output format shared by all backends.
type Format struct {
	SampleRate beep.SampleRate
	Buffer     time.Duration
}

// AudioUnavailableError reports that no audio output could be opened.
// The game keeps running without sound.
type AudioUnavailableError struct {
	Backend string
	Err     error
}

// Error implements the error interface.
func (e *AudioUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("audio unavailable (%s)", e.Backend)
	}
	return fmt.Sprintf("audio unavailable (%s): %v", e.Backend, e.Err)
}

// Unwrap returns the underlying cause.
func (e *AudioUnavailableError) Unwrap() error {
	return e.Err
}

// New returns the device for backend.
func New(backend string, format Format) (Device, error) {
	switch backend {
	case BackendSpeaker, "":
		return &Speaker{format: format}, nil
	case BackendOto:
		return &Oto{format: format}, nil
	case BackendNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown audio backend %q", backend)
	}
}

// None is the disabled backend: Open always fails with AudioUnavailableError.
type None struct{}

func (None) Open(beep.Streamer) error {
	return &AudioUnavailableError{Backend: BackendNone, Err: fmt.Errorf("audio disabled")}
}
func (None) Resume() error  { return nil }
func (None) Suspend() error { return nil }
func (None) State() State   { return StateClosed }
func (None) Close() error   { return nil }
