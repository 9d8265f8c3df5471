package game

import "time"

// Reason is why a game ended.
type Reason string

const (
	ReasonMismatch Reason = "mismatch"
	ReasonTimeout  Reason = "timeout"
)

// Result describes a finished game.
type Result struct {
	ID         string
	Difficulty Difficulty
	SoundPack  string
	// Score is the number of levels completed.
	Score     int
	Reason    Reason
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration is how long the game lasted.
func (r Result) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
