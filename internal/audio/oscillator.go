package audio

import (
	"math"

	"github.com/zjrosen/mimic/internal/soundpack"
)

// waveFunc maps a phase in [0,1) to an amplitude in [-1,1].
type waveFunc func(phase float64) float64

func sine(phase float64) float64 {
	return math.Sin(2 * math.Pi * phase)
}

func square(phase float64) float64 {
	if phase < 0.5 {
		return 1
	}
	return -1
}

func sawtooth(phase float64) float64 {
	return 2*phase - 1
}

func triangle(phase float64) float64 {
	switch {
	case phase < 0.25:
		return 4 * phase
	case phase < 0.75:
		return 2 - 4*phase
	default:
		return 4*phase - 4
	}
}

func waveFor(w soundpack.Waveform) waveFunc {
	switch w {
	case soundpack.WaveSquare:
		return square
	case soundpack.WaveTriangle:
		return triangle
	case soundpack.WaveSawtooth:
		return sawtooth
	default:
		return sine
	}
}

// oscillator is a phase accumulator, so frequency may change per sample
// without discontinuities.
type oscillator struct {
	wave  waveFunc
	phase float64
}

func (o *oscillator) next(freq, sampleRate float64) float64 {
	v := o.wave(o.phase)
	o.phase += freq / sampleRate
	o.phase -= math.Floor(o.phase)
	return v
}
