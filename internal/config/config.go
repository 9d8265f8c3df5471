// Package config provides configuration types and defaults for mimic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for mimic.
type Config struct {
	DBPath        string        `mapstructure:"db_path"`
	SoundPacksDir string        `mapstructure:"sound_packs_dir"`
	Game          GameConfig    `mapstructure:"game"`
	Audio         AudioConfig   `mapstructure:"audio"`
	UI            UIConfig      `mapstructure:"ui"`
	Log           LogConfig     `mapstructure:"log"`
	Tracing       TracingConfig `mapstructure:"tracing"`
}

// GameConfig holds gameplay options.
type GameConfig struct {
	// Difficulty selects the timing profile: "easy", "normal" or "hard".
	Difficulty string `mapstructure:"difficulty"`

	// EnforceInputTimeout ends the game when the player stalls longer than
	// the difficulty's input timeout.
	EnforceInputTimeout bool `mapstructure:"enforce_input_timeout"`
}

// AudioConfig holds audio output options. Volumes, tempo and the sound pack
// are player settings and live in the database, not here.
type AudioConfig struct {
	// Backend selects the output device: "speaker", "oto" or "none".
	Backend    string        `mapstructure:"backend"`
	SampleRate int           `mapstructure:"sample_rate"`
	Buffer     time.Duration `mapstructure:"buffer"`
	// FFTSize is the analyser window; the visualizer gets FFTSize/2 bins.
	FFTSize int `mapstructure:"fft_size"`
}

// UIConfig holds terminal UI options.
type UIConfig struct {
	FrameRate int `mapstructure:"frame_rate"`
	// Theme is the initial theme preset; a theme chosen in-game is persisted
	// and takes precedence.
	Theme string `mapstructure:"theme"`
	// Colors overrides individual theme tokens, e.g. "border.focus": "#FF00FF".
	Colors map[string]string `mapstructure:"colors"`
}

// LogConfig controls the debug log file. An empty path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// TracingConfig controls OpenTelemetry game tracing.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Exporter is "stdout" (JSON spans written to Path) or "otlp".
	Exporter string `mapstructure:"exporter"`
	Endpoint string `mapstructure:"endpoint"`
	Path     string `mapstructure:"path"`
}

// Valid option values.
var (
	Difficulties  = []string{"easy", "normal", "hard"}
	AudioBackends = []string{"speaker", "oto", "none"}
	Themes        = []string{"dark", "light"}
	Exporters     = []string{"stdout", "otlp"}
)

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Game: GameConfig{
			Difficulty: "normal",
		},
		Audio: AudioConfig{
			Backend:    "speaker",
			SampleRate: 44100,
			Buffer:     50 * time.Millisecond,
			FFTSize:    256,
		},
		UI: UIConfig{
			FrameRate: 60,
			Theme:     "dark",
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			Exporter: "stdout",
		},
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if !oneOf(c.Game.Difficulty, Difficulties) {
		return fmt.Errorf("game.difficulty: %q is not one of %v", c.Game.Difficulty, Difficulties)
	}
	if err := c.Audio.Validate(); err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	if c.UI.FrameRate < 1 || c.UI.FrameRate > 240 {
		return fmt.Errorf("ui.frame_rate: %d out of range 1-240", c.UI.FrameRate)
	}
	if c.UI.Theme != "" && !oneOf(c.UI.Theme, Themes) {
		return fmt.Errorf("ui.theme: %q is not one of %v", c.UI.Theme, Themes)
	}
	if c.Tracing.Enabled {
		if !oneOf(c.Tracing.Exporter, Exporters) {
			return fmt.Errorf("tracing.exporter: %q is not one of %v", c.Tracing.Exporter, Exporters)
		}
		if c.Tracing.Exporter == "otlp" && c.Tracing.Endpoint == "" {
			return fmt.Errorf("tracing.endpoint is required for the otlp exporter")
		}
	}
	return nil
}

// Validate checks audio options.
func (a AudioConfig) Validate() error {
	if !oneOf(a.Backend, AudioBackends) {
		return fmt.Errorf("backend %q is not one of %v", a.Backend, AudioBackends)
	}
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		return fmt.Errorf("sample_rate %d out of range 8000-192000", a.SampleRate)
	}
	if a.Buffer <= 0 {
		return fmt.Errorf("buffer must be positive")
	}
	if a.FFTSize < 32 || a.FFTSize > 32768 || a.FFTSize&(a.FFTSize-1) != 0 {
		return fmt.Errorf("fft_size %d must be a power of two between 32 and 32768", a.FFTSize)
	}
	return nil
}

// FrameInterval returns the UI tick period for the configured frame rate.
func (u UIConfig) FrameInterval() time.Duration {
	if u.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(u.FrameRate)
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# mimic configuration

# Path to the sqlite database holding settings, high score and game history
# (default: ~/.config/mimic/mimic.db)
# db_path: ~/.config/mimic/mimic.db

# Directory scanned for extra sound packs (*.yaml)
# sound_packs_dir: ~/.config/mimic/packs

game:
  difficulty: normal             # easy, normal, hard
  enforce_input_timeout: false   # end the game when the player stalls

audio:
  backend: speaker   # speaker, oto, none
  sample_rate: 44100
  buffer: 50ms
  fft_size: 256      # visualizer resolution (power of two)

ui:
  frame_rate: 60
  theme: dark        # dark, light
  # colors:          # per-token overrides
  #   border.focus: "#FF00FF"

# Debug log (empty path disables logging)
log:
  # path: ~/.config/mimic/mimic.log
  level: info

# OpenTelemetry tracing of games and levels
tracing:
  enabled: false
  exporter: stdout   # stdout, otlp
  # path: ~/.config/mimic/traces.json
  # endpoint: localhost:4317
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
