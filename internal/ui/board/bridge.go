package board

import (
	"time"

	"github.com/zjrosen/mimic/internal/game"
)

// Bridge records what the game asked to show as time-stamped state. The
// board's View reads it each frame; Advance moves its clock.
type Bridge struct {
	now time.Duration

	litUntil       [game.ButtonCount]time.Duration
	indicatorUntil [game.ButtonCount]time.Duration
	errorUntil     time.Duration

	message      string
	messageUntil time.Duration // zero keeps the message until replaced

	inputEnabled bool
}

var _ game.Presenter = (*Bridge)(nil)

// NewBridge creates a bridge with nothing shown.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Advance moves the bridge clock forward and expires the message.
func (b *Bridge) Advance(elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	b.now += elapsed
	if b.messageUntil > 0 && b.now >= b.messageUntil {
		b.message = ""
		b.messageUntil = 0
	}
}

// Highlight lights button for d.
func (b *Bridge) Highlight(button int, d time.Duration) {
	if !validButton(button) {
		return
	}
	b.litUntil[button] = b.now + d
}

// SetVisualIndicator shows the pulse marker on button for d.
func (b *Bridge) SetVisualIndicator(button int, d time.Duration) {
	if !validButton(button) {
		return
	}
	b.indicatorUntil[button] = b.now + d
}

// ShowMessage replaces the message line. An empty text clears it; a zero
// autoclear keeps it until the next call.
func (b *Bridge) ShowMessage(text string, autoclear time.Duration) {
	b.message = text
	b.messageUntil = 0
	if text != "" && autoclear > 0 {
		b.messageUntil = b.now + autoclear
	}
}

// FlashError tints the board for d.
func (b *Bridge) FlashError(d time.Duration) {
	b.errorUntil = b.now + d
}

// SetInputEnabled records whether the pads accept presses.
func (b *Bridge) SetInputEnabled(enabled bool) {
	b.inputEnabled = enabled
}

// Lit reports whether button is currently highlighted.
func (b *Bridge) Lit(button int) bool {
	return validButton(button) && b.now < b.litUntil[button]
}

// Indicator reports whether button's pulse marker is showing.
func (b *Bridge) Indicator(button int) bool {
	return validButton(button) && b.now < b.indicatorUntil[button]
}

// ErrorFlashing reports whether the error tint is showing.
func (b *Bridge) ErrorFlashing() bool {
	return b.now < b.errorUntil
}

// Message returns the current message line.
func (b *Bridge) Message() string {
	return b.message
}

// InputEnabled reports the last value passed to SetInputEnabled.
func (b *Bridge) InputEnabled() bool {
	return b.inputEnabled
}

func validButton(button int) bool {
	return button >= 0 && button < game.ButtonCount
}
