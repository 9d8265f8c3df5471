// Package audio is the procedural sound engine: it synthesizes pad tones,
// percussion hits and the error buzz on demand, applies volume and tempo
// settings, and exposes live spectrum data for the visualizer.
//
// The graph is voices -> mixer -> master gain -> analyser tap -> device.
// Every voice stops itself after its duration and is dropped by the mixer.
package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/zjrosen/mimic/internal/audio/device"
	"github.com/zjrosen/mimic/internal/log"
	"github.com/zjrosen/mimic/internal/soundpack"
	"github.com/zjrosen/mimic/internal/store"
)

// DefaultSampleRate is used when Options.SampleRate is zero.
const DefaultSampleRate beep.SampleRate = 44100

// Options configures an Engine.
type Options struct {
	Registry *soundpack.Registry
	Store    store.Store
	// Device receives the rendered output. A nil device leaves the engine
	// silent.
	Device     device.Device
	SampleRate beep.SampleRate
	FFTSize    int
}

// Engine owns the audio graph and the player's audio settings.
type Engine struct {
	registry *soundpack.Registry
	store    store.Store
	dev      device.Device
	rate     beep.SampleRate
	fftSize  int

	// mu guards everything below. The device goroutine holds it while
	// pulling samples.
	mu        sync.Mutex
	settings  Settings
	pack      soundpack.Pack
	available bool
	mixer     *beep.Mixer
	gain      *effects.Gain
	analyser  *Analyser
}

// NewEngine creates an engine with default settings. Call LoadSettings and
// Initialize before playing sounds.
func NewEngine(opts Options) *Engine {
	rate := opts.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}
	fftSize := opts.FFTSize
	if fftSize == 0 {
		fftSize = DefaultFFTSize
	}
	e := &Engine{
		registry: opts.Registry,
		store:    opts.Store,
		dev:      opts.Device,
		rate:     rate,
		fftSize:  fftSize,
		settings: DefaultSettings(),
	}
	e.pack = e.registry.DefaultPack()
	return e
}

// Initialize builds the graph and opens the device. When no output is
// available it logs a warning and the engine stays a silent no-op.
func (e *Engine) Initialize() {
	e.mu.Lock()
	if e.available {
		e.mu.Unlock()
		return
	}
	e.mixer = &beep.Mixer{}
	e.gain = &effects.Gain{Streamer: e.mixer}
	e.applyGainLocked()
	e.analyser = NewAnalyser(e.fftSize)
	e.mu.Unlock()

	if e.dev == nil {
		log.Warn(log.CatAudio, "No audio device configured, running silent")
		return
	}
	if err := e.dev.Open(output{e}); err != nil {
		var unavailable *device.AudioUnavailableError
		if errors.As(err, &unavailable) {
			log.Warn(log.CatAudio, "Audio unavailable, running silent", "backend", unavailable.Backend, "error", unavailable.Err)
		} else {
			log.ErrorErr(log.CatAudio, "Failed to open audio device", err)
		}
		return
	}

	e.mu.Lock()
	e.available = true
	e.mu.Unlock()
	log.Info(log.CatAudio, "Audio initialized", "sample_rate", int(e.rate), "fft_size", e.analyser.size)
}

// output is the streamer handed to the device. It never drains so the
// device keeps pulling silence between sounds.
type output struct {
	e *Engine
}

func (o output) Stream(samples [][2]float64) (int, bool) {
	e := o.e
	e.mu.Lock()
	n, _ := e.gain.Stream(samples)
	analyser := e.analyser
	e.mu.Unlock()

	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	analyser.Push(samples)
	return len(samples), true
}

func (o output) Err() error { return nil }

// applyGainLocked maps the effective volume onto effects.Gain, whose output
// is sample * (1 + Gain).
func (e *Engine) applyGainLocked() {
	if e.gain != nil {
		e.gain.Gain = e.settings.EffectiveVolume() - 1
	}
}

// LoadSettings replaces the current settings with the stored ones. Missing
// or malformed data yields the defaults and an unknown pack yields the
// default pack.
func (e *Engine) LoadSettings() {
	s := DefaultSettings()
	if raw, ok := e.store.Get(store.KeyAudioSettings); ok {
		decoded, err := decodeSettings(raw)
		if err != nil {
			log.Warn(log.CatAudio, "Discarding malformed audio settings", "error", err)
		}
		s = decoded
	}

	pack, err := e.registry.Get(s.SoundPack)
	if err != nil {
		log.Warn(log.CatAudio, "Stored sound pack not found, using default", "error", err)
		pack = e.registry.DefaultPack()
		s.SoundPack = pack.ID
	}

	e.mu.Lock()
	e.settings = s
	e.pack = pack
	e.applyGainLocked()
	e.mu.Unlock()
}

// SaveSettings persists the current settings.
func (e *Engine) SaveSettings() {
	raw, err := encodeSettings(e.Settings())
	if err != nil {
		log.ErrorErr(log.CatAudio, "Failed to encode audio settings", err)
		return
	}
	e.store.Set(store.KeyAudioSettings, raw)
}

// update applies fn to the settings under the lock, refreshes the gain and
// persists the result.
func (e *Engine) update(fn func(s *Settings)) {
	e.mu.Lock()
	fn(&e.settings)
	e.applyGainLocked()
	e.mu.Unlock()
	e.SaveSettings()
}

// SetSoundPack selects a pack; an unknown id selects the default pack.
func (e *Engine) SetSoundPack(id string) {
	pack := e.registry.GetOrDefault(id)
	e.mu.Lock()
	e.pack = pack
	e.mu.Unlock()
	e.update(func(s *Settings) { s.SoundPack = pack.ID })
}

// NextSoundPack selects the pack after the current one, wrapping around.
func (e *Engine) NextSoundPack() {
	e.SetSoundPack(e.registry.Next(e.PackID()).ID)
}

// SetMasterVolume sets the master volume, clamped to [0,1].
func (e *Engine) SetMasterVolume(v float64) {
	e.update(func(s *Settings) { s.MasterVolume = ClampVolume(v, s.MasterVolume) })
}

// SetEffectsVolume sets the effects volume, clamped to [0,1].
func (e *Engine) SetEffectsVolume(v float64) {
	e.update(func(s *Settings) { s.EffectsVolume = ClampVolume(v, s.EffectsVolume) })
}

// SetTempo sets the playback tempo multiplier, clamped to [0.5,2].
func (e *Engine) SetTempo(t float64) {
	e.update(func(s *Settings) { s.Tempo = ClampTempo(t, s.Tempo) })
}

// SetVisualizationEnabled toggles the spectrum view.
func (e *Engine) SetVisualizationEnabled(on bool) {
	e.update(func(s *Settings) { s.VisualizationEnabled = on })
}

// SetVisualIndicatorsEnabled toggles the non-audio cue shown with each sound.
func (e *Engine) SetVisualIndicatorsEnabled(on bool) {
	e.update(func(s *Settings) { s.VisualIndicatorsEnabled = on })
}

// PlaySound renders the current pack's sound for button over d. It is a
// no-op when the engine is unavailable, muted or button is out of range.
func (e *Engine) PlaySound(button int, d time.Duration) {
	if button < 0 || button >= soundpack.ButtonCount || d <= 0 {
		return
	}
	e.mu.Lock()
	pack := e.pack
	e.mu.Unlock()
	e.play(newVoice(pack, button, d, float64(e.rate)))
}

// PlayErrorSound renders the failure buzz.
func (e *Engine) PlayErrorSound() {
	e.play(newErrorVoice(float64(e.rate)))
}

func (e *Engine) play(v *voice) {
	e.mu.Lock()
	ok := e.available && e.settings.EffectiveVolume() > 0
	e.mu.Unlock()
	if !ok {
		return
	}

	if e.dev.State() == device.StateSuspended {
		if err := e.dev.Resume(); err != nil {
			log.ErrorErr(log.CatAudio, "Failed to resume audio device", err)
		}
	}

	e.mu.Lock()
	e.mixer.Add(v)
	e.mu.Unlock()
}

// GetFrequencyData returns the current spectrum, one byte per bin. It is
// empty until Initialize has run.
func (e *Engine) GetFrequencyData() []byte {
	e.mu.Lock()
	analyser := e.analyser
	e.mu.Unlock()
	if analyser == nil {
		return []byte{}
	}
	return analyser.FrequencyData()
}

// TempoAdjustedDelay scales base by the tempo: faster tempo, shorter delay.
func (e *Engine) TempoAdjustedDelay(base time.Duration) time.Duration {
	e.mu.Lock()
	tempo := e.settings.Tempo
	e.mu.Unlock()
	return time.Duration(float64(base) / tempo)
}

// Settings returns a copy of the current settings.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Pack returns the selected sound pack.
func (e *Engine) Pack() soundpack.Pack {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pack
}

// PackID returns the selected sound pack id.
func (e *Engine) PackID() string {
	return e.Pack().ID
}

// Packs lists every registered pack.
func (e *Engine) Packs() []soundpack.Pack {
	return e.registry.List()
}

// Available reports whether sound reaches an output device.
func (e *Engine) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// EffectiveVolume returns masterVolume * effectsVolume.
func (e *Engine) EffectiveVolume() float64 {
	return e.Settings().EffectiveVolume()
}

// VisualIndicatorsEnabled reports whether visual cues accompany sounds.
func (e *Engine) VisualIndicatorsEnabled() bool {
	return e.Settings().VisualIndicatorsEnabled
}

// Close releases the output device.
func (e *Engine) Close() error {
	e.mu.Lock()
	wasAvailable := e.available
	e.available = false
	e.mu.Unlock()
	if !wasAvailable {
		return nil
	}
	return e.dev.Close()
}

// activeVoices reports how many voices are still sounding.
func (e *Engine) activeVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mixer == nil {
		return 0
	}
	return e.mixer.Len()
}
