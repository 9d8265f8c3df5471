package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyser_PeakAtSignalBin(t *testing.T) {
	const (
		rate = 44100.0
		bin  = 16
	)
	a := NewAnalyser(DefaultFFTSize)
	freq := bin * rate / DefaultFFTSize

	frames := make([][2]float64, DefaultFFTSize*2)
	for i := range frames {
		s := math.Sin(2 * math.Pi * freq * float64(i) / rate)
		frames[i] = [2]float64{s, s}
	}
	a.Push(frames)

	data := a.FrequencyData()
	require.Len(t, data, a.Bins())

	best := 0
	for k := range data {
		if data[k] > data[best] {
			best = k
		}
	}
	require.Equal(t, bin, best)
	require.Zero(t, data[a.Bins()-1])
}

func TestAnalyser_Smoothing(t *testing.T) {
	a := NewAnalyser(64)
	frames := make([][2]float64, 64)
	for i := range frames {
		s := 0.001 * math.Sin(2*math.Pi*8*float64(i)/64)
		frames[i] = [2]float64{s, s}
	}
	a.Push(frames)

	first := a.FrequencyData()[8]
	second := a.FrequencyData()[8]
	require.Greater(t, second, first, "repeated reads converge upward")
}

func TestAnalyser_InvalidSizeFallsBack(t *testing.T) {
	require.Equal(t, DefaultFFTSize/2, NewAnalyser(100).Bins())
	require.Equal(t, DefaultFFTSize/2, NewAnalyser(0).Bins())
	require.Equal(t, 512, NewAnalyser(1024).Bins())
}

func TestToByte(t *testing.T) {
	require.Equal(t, byte(0), toByte(0))
	require.Equal(t, byte(0), toByte(1e-6)) // -120 dB
	require.Equal(t, byte(255), toByte(1))  // 0 dB
	require.Equal(t, byte(127), toByte(math.Pow(10, -65.0/20)))
}
