package game

import (
	"fmt"
	"time"
)

// Difficulty selects a timing profile.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}

// DifficultyProfile holds the pacing for one difficulty. SequenceDisplay and
// InterStepGap are scaled by tempo when a sequence is played back.
type DifficultyProfile struct {
	SequenceDisplay time.Duration
	InputTimeout    time.Duration
	InterStepGap    time.Duration
}

var profiles = map[Difficulty]DifficultyProfile{
	DifficultyEasy:   {SequenceDisplay: 800 * time.Millisecond, InputTimeout: 5000 * time.Millisecond, InterStepGap: 300 * time.Millisecond},
	DifficultyNormal: {SequenceDisplay: 600 * time.Millisecond, InputTimeout: 4000 * time.Millisecond, InterStepGap: 200 * time.Millisecond},
	DifficultyHard:   {SequenceDisplay: 400 * time.Millisecond, InputTimeout: 3000 * time.Millisecond, InterStepGap: 100 * time.Millisecond},
}

// Profile returns the timing profile for d. Unknown difficulties get the
// normal profile.
func (d Difficulty) Profile() DifficultyProfile {
	if p, ok := profiles[d]; ok {
		return p
	}
	return profiles[DifficultyNormal]
}

// Valid reports whether d is one of Difficulties.
func (d Difficulty) Valid() bool {
	_, ok := profiles[d]
	return ok
}

// Next cycles easy -> normal -> hard -> easy.
func (d Difficulty) Next() Difficulty {
	for i, c := range Difficulties {
		if c == d {
			return Difficulties[(i+1)%len(Difficulties)]
		}
	}
	return DifficultyNormal
}

// ParseDifficulty accepts exactly "easy", "normal" or "hard".
func ParseDifficulty(name string) (Difficulty, error) {
	d := Difficulty(name)
	if !d.Valid() {
		return "", &UnknownDifficultyError{Name: name}
	}
	return d, nil
}

// UnknownDifficultyError is returned for a difficulty name outside
// easy, normal and hard.
type UnknownDifficultyError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownDifficultyError) Error() string {
	return fmt.Sprintf("unknown difficulty %q (want easy, normal or hard)", e.Name)
}
