package audio

import (
	"math"
	"time"

	"github.com/zjrosen/mimic/internal/soundpack"
)

// Synthesis constants.
const (
	pitchDropTime   = 0.100 // seconds for a drum to fall from 2f to f
	drumCutoff      = 2000.0
	drumQ           = 0.707
	errorFrequency  = 110.0
	errorDuration   = 500 * time.Millisecond
	errorPeak       = 0.5
	errorAttackTime = 0.010
)

// voice is a self-terminating beep.Streamer producing exactly total frames.
type voice struct {
	rate  float64
	total int
	pos   int

	osc    oscillator
	freq   func(t float64) float64
	env    envelope
	filter *biquad
}

// Stream implements beep.Streamer.
func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.pos >= v.total {
		return 0, false
	}
	n := min(len(samples), v.total-v.pos)
	for i := 0; i < n; i++ {
		t := float64(v.pos) / v.rate
		s := v.osc.next(v.freq(t), v.rate)
		if v.filter != nil {
			s = v.filter.process(s)
		}
		s *= v.env.at(t)
		samples[i] = [2]float64{s, s}
		v.pos++
	}
	return n, true
}

// Err implements beep.Streamer.
func (v *voice) Err() error { return nil }

func frames(d time.Duration, rate float64) int {
	return int(math.Round(d.Seconds() * rate))
}

func constant(f float64) func(float64) float64 {
	return func(float64) float64 { return f }
}

// newToneVoice plays one oscillator at freq with the pluck envelope.
func newToneVoice(wave soundpack.Waveform, freq float64, d time.Duration, rate float64) *voice {
	return &voice{
		rate:  rate,
		total: frames(d, rate),
		osc:   oscillator{wave: waveFor(wave)},
		freq:  constant(freq),
		env:   toneEnvelope(d.Seconds()),
	}
}

// newDrumVoice sweeps from 2*freq down to freq exponentially over 100ms,
// through a low-pass filter, with a fast percussive envelope.
func newDrumVoice(freq float64, d time.Duration, rate float64) *voice {
	return &voice{
		rate:   rate,
		total:  frames(d, rate),
		osc:    oscillator{wave: sine},
		freq:   pitchDrop(freq),
		env:    drumEnvelope(d.Seconds()),
		filter: newLowPass(drumCutoff, drumQ, rate),
	}
}

func pitchDrop(freq float64) func(float64) float64 {
	return func(t float64) float64 {
		if t >= pitchDropTime {
			return freq
		}
		return 2 * freq * math.Pow(0.5, t/pitchDropTime)
	}
}

// newErrorVoice is the harsh failure buzz, independent of the sound pack.
func newErrorVoice(rate float64) *voice {
	dur := errorDuration.Seconds()
	return &voice{
		rate:  rate,
		total: frames(errorDuration, rate),
		osc:   oscillator{wave: sawtooth},
		freq:  constant(errorFrequency),
		env:   envelope{{0, 0}, {errorAttackTime, errorPeak}, {dur, envFloor}},
	}
}

// newVoice picks the synthesis path for pack.
func newVoice(pack soundpack.Pack, button int, d time.Duration, rate float64) *voice {
	freq := pack.Frequencies[button]
	if pack.Kind == soundpack.KindPercussion {
		return newDrumVoice(freq, d, rate)
	}
	return newToneVoice(pack.Waveform, freq, d, rate)
}
