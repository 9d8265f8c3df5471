package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "normal", cfg.Game.Difficulty)
	assert.False(t, cfg.Game.EnforceInputTimeout)
	assert.Equal(t, "speaker", cfg.Audio.Backend)
	assert.Equal(t, 256, cfg.Audio.FFTSize)
	assert.Equal(t, 60, cfg.UI.FrameRate)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown difficulty", func(c *Config) { c.Game.Difficulty = "insane" }, "game.difficulty"},
		{"unknown backend", func(c *Config) { c.Audio.Backend = "alsa" }, "backend"},
		{"sample rate too low", func(c *Config) { c.Audio.SampleRate = 100 }, "sample_rate"},
		{"zero buffer", func(c *Config) { c.Audio.Buffer = 0 }, "buffer"},
		{"fft not power of two", func(c *Config) { c.Audio.FFTSize = 300 }, "fft_size"},
		{"fft too small", func(c *Config) { c.Audio.FFTSize = 16 }, "fft_size"},
		{"frame rate zero", func(c *Config) { c.UI.FrameRate = 0 }, "frame_rate"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"unknown exporter", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "zipkin"
		}, "tracing.exporter"},
		{"otlp without endpoint", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
		}, "tracing.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_DisabledTracingIgnoresExporter(t *testing.T) {
	cfg := Defaults()
	cfg.Tracing.Exporter = "zipkin"
	require.NoError(t, cfg.Validate())
}

func TestFrameInterval(t *testing.T) {
	require.Equal(t, time.Second/60, UIConfig{FrameRate: 60}.FrameInterval())
	require.Equal(t, time.Second/30, UIConfig{FrameRate: 30}.FrameInterval())
	require.Equal(t, time.Second/60, UIConfig{}.FrameInterval())
}

func TestLoadFromYAML_Overrides(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
game:
  difficulty: hard
  enforce_input_timeout: true
audio:
  backend: none
  buffer: 20ms
ui:
  theme: light
`)

	assert.Equal(t, "hard", cfg.Game.Difficulty)
	assert.True(t, cfg.Game.EnforceInputTimeout)
	assert.Equal(t, "none", cfg.Audio.Backend)
	assert.Equal(t, 20*time.Millisecond, cfg.Audio.Buffer)
	assert.Equal(t, "light", cfg.UI.Theme)

	// Untouched keys keep their defaults.
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 60, cfg.UI.FrameRate)
	require.NoError(t, cfg.Validate())
}

func TestDefaultConfigTemplate_ParsesToDefaults(t *testing.T) {
	cfg := loadConfigFromYAML(t, DefaultConfigTemplate())
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Defaults(), cfg)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

// loadConfigFromYAML decodes yaml over Defaults() the same way the root
// command does.
func loadConfigFromYAML(t *testing.T, yaml string) Config {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(yaml), 0644)
	require.NoError(t, err)

	v := viper.New()
	v.SetConfigFile(configPath)
	err = v.ReadInConfig()
	require.NoError(t, err)

	cfg := Defaults()
	err = v.Unmarshal(&cfg)
	require.NoError(t, err)

	return cfg
}
