// Package game is the sequence-memory state machine. It grows a random
// sequence one button per level, plays it back through the Sound and
// Presenter collaborators, and checks the player's replay.
//
// A Game is not safe for concurrent use. The host calls it from a single
// goroutine and drives time forward with Advance.
package game

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/mimic/internal/log"
	"github.com/zjrosen/mimic/internal/store"
)

// ButtonCount is the number of pad buttons.
const ButtonCount = 4

// Fixed delays. These are not scaled by tempo.
const (
	LeadInDelay           = 1000 * time.Millisecond
	SettleDelay           = 300 * time.Millisecond
	LevelCompleteDelay    = 1000 * time.Millisecond
	PressFeedback         = 300 * time.Millisecond
	ErrorFlash            = 500 * time.Millisecond
	LevelMessageAutoclear = 1500 * time.Millisecond
)

// State is the top-level game state.
type State int

const (
	StateStart State = iota
	StatePlaying
	StateGameOver
)

// String returns a human-readable representation of the State.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Options configures a Game. Nil collaborators are replaced with silent
// defaults.
type Options struct {
	Sound      Sound
	Presenter  Presenter
	Store      store.Store
	Picker     Picker
	Recorder   Recorder
	Difficulty Difficulty
	// EnforceInputTimeout ends the game when the player stalls longer than
	// the difficulty's InputTimeout.
	EnforceInputTimeout bool
	Tracer              trace.Tracer
	Clock               func() time.Time
}

// Snapshot is a copy of the observable game state.
type Snapshot struct {
	State           State
	Level           int
	Sequence        []int
	PlayerInput     []int
	Step            int
	Difficulty      Difficulty
	HighScore       int
	ShowingSequence bool
	InputEnabled    bool
}

// Game owns one session at a time.
type Game struct {
	sound     Sound
	presenter Presenter
	store     store.Store
	picker    Picker
	recorder  Recorder
	tracer    trace.Tracer
	clock     func() time.Time
	enforce   bool

	sched *Scheduler

	state           State
	sequence        []int
	playerInput     []int
	level           int
	step            int
	difficulty      Difficulty
	highScore       int
	showingSequence bool
	inputEnabled    bool

	// generation changes on every StartGame and gameOver; continuations
	// scheduled under an older generation are dropped.
	generation uint64
	// timeoutToken invalidates armed input timeouts on every press.
	timeoutToken uint64

	startedAt time.Time
	span      trace.Span
}

// New creates a game in the Start state and loads the high score.
func New(opts Options) *Game {
	g := &Game{
		sound:      opts.Sound,
		presenter:  opts.Presenter,
		store:      opts.Store,
		picker:     opts.Picker,
		recorder:   opts.Recorder,
		tracer:     opts.Tracer,
		clock:      opts.Clock,
		enforce:    opts.EnforceInputTimeout,
		difficulty: opts.Difficulty,
		sched:      &Scheduler{},
		state:      StateStart,
	}
	if g.sound == nil {
		g.sound = silentSound{}
	}
	if g.presenter == nil {
		g.presenter = nopPresenter{}
	}
	if g.store == nil {
		g.store = store.NewMemory()
	}
	if g.picker == nil {
		g.picker = randPicker{}
	}
	if g.tracer == nil {
		g.tracer = otel.Tracer("github.com/zjrosen/mimic/internal/game")
	}
	if g.clock == nil {
		g.clock = time.Now
	}
	if !g.difficulty.Valid() {
		g.difficulty = DifficultyNormal
	}
	g.highScore = loadHighScore(g.store)
	return g
}

func loadHighScore(s store.Store) int {
	raw, ok := s.Get(store.KeyHighScore)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Warn(log.CatGame, "Ignoring invalid stored high score", "value", raw)
		return 0
	}
	return n
}

// after schedules fn under the current generation.
func (g *Game) after(d time.Duration, fn func()) {
	gen := g.generation
	g.sched.After(d, func() {
		if gen != g.generation {
			return
		}
		fn()
	})
}

// cancelPending invalidates every scheduled continuation.
func (g *Game) cancelPending() {
	g.generation++
	g.sched.Clear()
}

// Advance moves game time forward, running due continuations.
func (g *Game) Advance(elapsed time.Duration) {
	g.sched.Advance(elapsed)
}

// NextDeadline reports how long until the next scheduled continuation.
func (g *Game) NextDeadline() (time.Duration, bool) {
	return g.sched.NextDeadline()
}

// StartGame resets the session and begins level 1. It is ignored while a
// game is in progress.
func (g *Game) StartGame() {
	if g.state == StatePlaying {
		return
	}
	g.cancelPending()

	g.sequence = g.sequence[:0]
	g.playerInput = g.playerInput[:0]
	g.level = 1
	g.step = 0
	g.showingSequence = false
	g.state = StatePlaying
	g.startedAt = g.clock()

	_, g.span = g.tracer.Start(context.Background(), "game",
		trace.WithAttributes(
			attribute.String("game.difficulty", string(g.difficulty)),
			attribute.String("game.sound_pack", g.sound.PackID()),
		))
	log.Info(log.CatGame, "Game started", "difficulty", g.difficulty)

	g.nextLevel()
}

func (g *Game) nextLevel() {
	g.playerInput = g.playerInput[:0]
	g.step = 0
	g.setInputEnabled(false)
	g.sequence = append(g.sequence, g.picker.IntN(ButtonCount))

	g.presenter.ShowMessage(fmt.Sprintf("Level %d", g.level), LevelMessageAutoclear)
	g.after(LeadInDelay, g.playSequence)
}

// playSequence shows every element of the sequence. Pacing is fixed when
// playback starts, so a difficulty or tempo change applies to the next
// playback only.
func (g *Game) playSequence() {
	g.showingSequence = true
	g.setInputEnabled(false)

	profile := g.difficulty.Profile()
	display := g.sound.TempoAdjustedDelay(profile.SequenceDisplay)
	gap := g.sound.TempoAdjustedDelay(profile.InterStepGap)
	seq := append([]int(nil), g.sequence...)

	var show func(i int)
	show = func(i int) {
		g.after(gap, func() {
			g.signal(seq[i], display)
			g.after(display, func() {
				if i+1 < len(seq) {
					show(i + 1)
					return
				}
				g.after(SettleDelay, g.finishPlayback)
			})
		})
	}
	show(0)
}

func (g *Game) finishPlayback() {
	g.showingSequence = false
	g.setInputEnabled(true)
	g.armTimeout()
}

// signal highlights and sounds button for d.
func (g *Game) signal(button int, d time.Duration) {
	g.presenter.Highlight(button, d)
	g.sound.PlaySound(button, d)
	if g.sound.VisualIndicatorsEnabled() {
		g.presenter.SetVisualIndicator(button, d)
	}
}

func (g *Game) setInputEnabled(on bool) {
	if g.inputEnabled == on {
		return
	}
	g.inputEnabled = on
	g.presenter.SetInputEnabled(on)
}

func (g *Game) armTimeout() {
	g.timeoutToken++
	if !g.enforce {
		return
	}
	token := g.timeoutToken
	g.after(g.difficulty.Profile().InputTimeout, func() {
		if token != g.timeoutToken || g.state != StatePlaying || !g.inputEnabled {
			return
		}
		g.gameOver(ReasonTimeout)
	})
}

// HandleButtonPress checks one player press against the sequence. Presses
// are ignored during playback, outside Playing, and while input is disabled
// between levels.
func (g *Game) HandleButtonPress(button int) {
	if g.showingSequence || g.state != StatePlaying || !g.inputEnabled {
		return
	}
	if button < 0 || button >= ButtonCount {
		return
	}

	g.timeoutToken++
	g.signal(button, PressFeedback)
	g.playerInput = append(g.playerInput, button)

	if g.playerInput[g.step] != g.sequence[g.step] {
		g.gameOver(ReasonMismatch)
		return
	}
	g.step++

	if g.step < len(g.sequence) {
		g.armTimeout()
		return
	}

	g.level++
	g.updateHighScore()
	g.span.AddEvent("level.complete", trace.WithAttributes(attribute.Int("game.level", g.level-1)))
	log.Debug(log.CatGame, "Level complete", "level", g.level-1)

	g.setInputEnabled(false)
	g.after(LevelCompleteDelay, g.nextLevel)
}

func (g *Game) gameOver(reason Reason) {
	g.cancelPending()
	g.state = StateGameOver
	g.showingSequence = false
	g.setInputEnabled(false)

	score := g.level - 1
	g.sound.PlayErrorSound()
	g.presenter.FlashError(ErrorFlash)
	g.presenter.ShowMessage(fmt.Sprintf("Game over! Score: %d. Press any key to restart.", score), 0)
	g.updateHighScore()

	result := Result{
		ID:         uuid.NewString(),
		Difficulty: g.difficulty,
		SoundPack:  g.sound.PackID(),
		Score:      score,
		Reason:     reason,
		StartedAt:  g.startedAt,
		EndedAt:    g.clock(),
	}
	if g.recorder != nil {
		g.recorder.RecordResult(result)
	}

	g.span.SetAttributes(
		attribute.Int("game.score", score),
		attribute.String("game.end_reason", string(reason)),
	)
	if reason == ReasonTimeout {
		g.span.SetStatus(codes.Error, "input timeout")
	}
	g.span.End()
	log.Info(log.CatGame, "Game over", "score", score, "reason", reason, "high_score", g.highScore)
}

func (g *Game) updateHighScore() {
	score := g.level - 1
	if score <= g.highScore {
		return
	}
	g.highScore = score
	g.store.Set(store.KeyHighScore, strconv.Itoa(score))
}

// OnButtonActivated is the inbound entry point for a pad press: it is a
// press while playing and a start trigger otherwise.
func (g *Game) OnButtonActivated(button int) {
	if g.state == StatePlaying {
		g.HandleButtonPress(button)
		return
	}
	g.StartGame()
}

// OnKeyPress starts a game from Start or GameOver.
func (g *Game) OnKeyPress() {
	if g.state != StatePlaying {
		g.StartGame()
	}
}

// ChangeDifficulty sets the difficulty for future playbacks. Unknown values
// are ignored.
func (g *Game) ChangeDifficulty(d Difficulty) {
	if !d.Valid() {
		log.Warn(log.CatGame, "Ignoring unknown difficulty", "difficulty", d)
		return
	}
	g.difficulty = d
}

// SetDifficulty parses name and changes the difficulty.
func (g *Game) SetDifficulty(name string) error {
	d, err := ParseDifficulty(name)
	if err != nil {
		return err
	}
	g.ChangeDifficulty(d)
	return nil
}

// Difficulty returns the current difficulty.
func (g *Game) Difficulty() Difficulty {
	return g.difficulty
}

// HighScore returns the best score so far.
func (g *Game) HighScore() int {
	return g.highScore
}

// State returns the current state.
func (g *Game) State() State {
	return g.state
}

// Snapshot copies the observable state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:           g.state,
		Level:           g.level,
		Sequence:        append([]int(nil), g.sequence...),
		PlayerInput:     append([]int(nil), g.playerInput...),
		Step:            g.step,
		Difficulty:      g.difficulty,
		HighScore:       g.highScore,
		ShowingSequence: g.showingSequence,
		InputEnabled:    g.inputEnabled,
	}
}

// Close ends an in-progress game's trace span without recording a result.
func (g *Game) Close() {
	g.cancelPending()
	if g.state == StatePlaying && g.span != nil {
		g.span.SetAttributes(attribute.String("game.end_reason", "quit"))
		g.span.End()
	}
}
