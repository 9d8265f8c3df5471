package audio

import (
	"encoding/json"
	"math"

	"github.com/zjrosen/mimic/internal/soundpack"
)

// Setting ranges. Out-of-range values are clamped, never rejected.
const (
	MinVolume = 0.0
	MaxVolume = 1.0
	MinTempo  = 0.5
	MaxTempo  = 2.0
)

// Settings are the player's audio preferences, persisted as JSON.
type Settings struct {
	SoundPack               string  `json:"soundPack"`
	MasterVolume            float64 `json:"masterVolume"`
	EffectsVolume           float64 `json:"effectsVolume"`
	Tempo                   float64 `json:"tempo"`
	VisualizationEnabled    bool    `json:"visualizationEnabled"`
	VisualIndicatorsEnabled bool    `json:"visualIndicatorsEnabled"`
}

// DefaultSettings returns the settings used when nothing valid is stored.
func DefaultSettings() Settings {
	return Settings{
		SoundPack:               soundpack.DefaultID,
		MasterVolume:            0.7,
		EffectsVolume:           0.8,
		Tempo:                   1.0,
		VisualizationEnabled:    true,
		VisualIndicatorsEnabled: false,
	}
}

// EffectiveVolume is the gain applied to every voice.
func (s Settings) EffectiveVolume() float64 {
	return s.MasterVolume * s.EffectsVolume
}

// clamp limits v to [lo, hi]. NaN yields fallback.
func clamp(v, lo, hi, fallback float64) float64 {
	switch {
	case math.IsNaN(v):
		return fallback
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

// ClampVolume limits v to [0,1]; NaN keeps prev.
func ClampVolume(v, prev float64) float64 {
	return clamp(v, MinVolume, MaxVolume, prev)
}

// ClampTempo limits t to [0.5,2]; NaN keeps prev.
func ClampTempo(t, prev float64) float64 {
	return clamp(t, MinTempo, MaxTempo, prev)
}

// sanitize clamps every numeric field, substituting defaults for NaN.
func (s Settings) sanitize() Settings {
	d := DefaultSettings()
	s.MasterVolume = ClampVolume(s.MasterVolume, d.MasterVolume)
	s.EffectsVolume = ClampVolume(s.EffectsVolume, d.EffectsVolume)
	s.Tempo = ClampTempo(s.Tempo, d.Tempo)
	if s.SoundPack == "" {
		s.SoundPack = d.SoundPack
	}
	return s
}

// decodeSettings parses stored JSON over the defaults so missing fields keep
// their default values.
func decodeSettings(raw string) (Settings, error) {
	s := DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return DefaultSettings(), err
	}
	return s.sanitize(), nil
}

func encodeSettings(s Settings) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
