package game

import (
	"math/rand/v2"
	"time"
)

// Sound is the audio engine as seen by the game.
type Sound interface {
	PlaySound(button int, d time.Duration)
	PlayErrorSound()
	// TempoAdjustedDelay scales a playback delay by the current tempo.
	TempoAdjustedDelay(base time.Duration) time.Duration
	VisualIndicatorsEnabled() bool
	PackID() string
}

// Presenter receives the visual signals the game emits. Durations of zero
// mean "until replaced".
type Presenter interface {
	Highlight(button int, d time.Duration)
	SetVisualIndicator(button int, d time.Duration)
	ShowMessage(text string, autoclear time.Duration)
	FlashError(d time.Duration)
	SetInputEnabled(enabled bool)
}

// Recorder stores finished games.
type Recorder interface {
	RecordResult(Result)
}

// Picker draws the next sequence element.
type Picker interface {
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

type randPicker struct{}

func (randPicker) IntN(n int) int { return rand.IntN(n) }

type silentSound struct{}

func (silentSound) PlaySound(int, time.Duration)                     {}
func (silentSound) PlayErrorSound()                                  {}
func (silentSound) TempoAdjustedDelay(d time.Duration) time.Duration { return d }
func (silentSound) VisualIndicatorsEnabled() bool                    { return false }
func (silentSound) PackID() string                                   { return "" }

type nopPresenter struct{}

func (nopPresenter) Highlight(int, time.Duration)          {}
func (nopPresenter) SetVisualIndicator(int, time.Duration) {}
func (nopPresenter) ShowMessage(string, time.Duration)     {}
func (nopPresenter) FlashError(time.Duration)              {}
func (nopPresenter) SetInputEnabled(bool)                  {}
