package game

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// scriptedPicker returns the scripted values in order, then repeats the last.
type scriptedPicker struct {
	values []int
	i      int
}

func (p *scriptedPicker) IntN(n int) int {
	if len(p.values) == 0 {
		return 0
	}
	v := p.values[min(p.i, len(p.values)-1)]
	p.i++
	return v % n
}

type soundCall struct {
	button int
	d      time.Duration
	at     time.Duration
}

type fakeSound struct {
	now        func() time.Duration
	tempo      float64
	indicators bool
	plays      []soundCall
	errorPlays int
}

func (s *fakeSound) PlaySound(button int, d time.Duration) {
	s.plays = append(s.plays, soundCall{button: button, d: d, at: s.now()})
}

func (s *fakeSound) PlayErrorSound() { s.errorPlays++ }

func (s *fakeSound) TempoAdjustedDelay(d time.Duration) time.Duration {
	if s.tempo == 0 {
		return d
	}
	return time.Duration(float64(d) / s.tempo)
}

func (s *fakeSound) VisualIndicatorsEnabled() bool { return s.indicators }
func (s *fakeSound) PackID() string                { return "classic" }

type message struct {
	text      string
	autoclear time.Duration
}

type fakePresenter struct {
	now        func() time.Duration
	highlights []soundCall
	indicators []soundCall
	messages   []message
	flashes    []time.Duration
	inputs     []bool
}

func (p *fakePresenter) Highlight(button int, d time.Duration) {
	p.highlights = append(p.highlights, soundCall{button: button, d: d, at: p.now()})
}

func (p *fakePresenter) SetVisualIndicator(button int, d time.Duration) {
	p.indicators = append(p.indicators, soundCall{button: button, d: d, at: p.now()})
}

func (p *fakePresenter) ShowMessage(text string, autoclear time.Duration) {
	p.messages = append(p.messages, message{text, autoclear})
}

func (p *fakePresenter) FlashError(d time.Duration) { p.flashes = append(p.flashes, d) }
func (p *fakePresenter) SetInputEnabled(on bool)    { p.inputs = append(p.inputs, on) }

func (p *fakePresenter) lastMessage() message {
	if len(p.messages) == 0 {
		return message{}
	}
	return p.messages[len(p.messages)-1]
}

// mockRecorder is a testify mock for Recorder.
type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordResult(r Result) {
	m.Called(r)
}
