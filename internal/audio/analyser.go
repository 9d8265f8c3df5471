package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser defaults.
const (
	DefaultFFTSize     = 256
	smoothingTimeConst = 0.8
	minDecibels        = -100.0
	maxDecibels        = -30.0
)

// Analyser keeps the most recent fftSize mono samples of the output and turns
// them into byte magnitudes per frequency bin on request.
//
// Push is called from the device goroutine and FrequencyData from the UI.
type Analyser struct {
	size int

	mu   sync.Mutex
	ring []float64
	head int

	fft      *fourier.FFT
	window   []float64
	frame    []float64
	smoothed []float64
}

// NewAnalyser returns an analyser over size samples. size must be a power of
// two; anything else falls back to DefaultFFTSize.
func NewAnalyser(size int) *Analyser {
	if size < 32 || size&(size-1) != 0 {
		size = DefaultFFTSize
	}
	return &Analyser{
		size:     size,
		ring:     make([]float64, size),
		fft:      fourier.NewFFT(size),
		window:   blackman(size),
		frame:    make([]float64, size),
		smoothed: make([]float64, size/2),
	}
}

// Bins is the number of values FrequencyData returns.
func (a *Analyser) Bins() int {
	return a.size / 2
}

// Push appends stereo frames, mixed to mono.
func (a *Analyser) Push(samples [][2]float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, s := range samples {
		a.ring[a.head] = (s[0] + s[1]) / 2
		a.head = (a.head + 1) % a.size
	}
}

// FrequencyData returns Bins() magnitudes scaled so minDecibels maps to 0 and
// maxDecibels to 255. Successive calls are smoothed over time.
func (a *Analyser) FrequencyData() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.frame {
		a.frame[i] = a.ring[(a.head+i)%a.size] * a.window[i]
	}
	coeffs := a.fft.Coefficients(nil, a.frame)

	out := make([]byte, a.size/2)
	n := float64(a.size)
	for k := range out {
		mag := cmplx.Abs(coeffs[k]) / n
		a.smoothed[k] = smoothingTimeConst*a.smoothed[k] + (1-smoothingTimeConst)*mag
		out[k] = toByte(a.smoothed[k])
	}
	return out
}

func toByte(mag float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	switch {
	case scaled <= 0:
		return 0
	case scaled >= 255:
		return 255
	default:
		return byte(scaled)
	}
}

func blackman(n int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}
