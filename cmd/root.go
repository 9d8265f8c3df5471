// Package cmd implements the mimic command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/mimic/internal/audio/device"
	"github.com/zjrosen/mimic/internal/config"
	"github.com/zjrosen/mimic/internal/log"
	"github.com/zjrosen/mimic/internal/paths"
	"github.com/zjrosen/mimic/internal/tracing"
	"github.com/zjrosen/mimic/internal/ui/board"
)

var version = "dev"

var (
	cfgFile string
	cfg     config.Config

	flagPack    string
	flagNoAudio bool
)

var rootCmd = &cobra.Command{
	Use:   "mimic",
	Short: "A terminal sequence-memory game",
	Long: `mimic plays a growing sequence of tones on four colored pads.
Repeat it back to reach the next level; one wrong pad ends the game.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadRootConfig,
	RunE:              runPlay,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default "+paths.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("db", "", "database path (default "+paths.DefaultDBPath()+")")
	rootCmd.Flags().StringP("difficulty", "d", "", "difficulty: easy, normal or hard")
	rootCmd.Flags().StringVar(&flagPack, "pack", "", "sound pack id to start with (see 'mimic packs')")
	rootCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "run without an audio device")

	_ = viper.BindPFlag("db_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("game.difficulty", rootCmd.Flags().Lookup("difficulty"))
}

func loadRootConfig(_ *cobra.Command, _ []string) error {
	c, err := loadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// loadConfig reads defaults, the config file (path, or config.yaml in the
// config directory) and MIMIC_* environment variables into a validated
// Config. A missing default config file is not an error.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v, config.Defaults())

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(paths.ConfigDir())
	}
	v.SetEnvPrefix("MIMIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}
	return decodeConfig(v)
}

// decodeConfig unmarshals v, fills path defaults and validates.
func decodeConfig(v *viper.Viper) (config.Config, error) {
	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("parsing config: %w", err)
	}

	c.DBPath = paths.ExpandHome(c.DBPath)
	if c.DBPath == "" {
		c.DBPath = paths.DefaultDBPath()
	}
	c.SoundPacksDir = paths.ExpandHome(c.SoundPacksDir)
	if c.SoundPacksDir == "" {
		c.SoundPacksDir = paths.DefaultSoundPacksDir()
	}
	c.Log.Path = paths.ExpandHome(c.Log.Path)
	c.Tracing.Path = paths.ExpandHome(c.Tracing.Path)

	if err := c.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("sound_packs_dir", d.SoundPacksDir)
	v.SetDefault("game.difficulty", d.Game.Difficulty)
	v.SetDefault("game.enforce_input_timeout", d.Game.EnforceInputTimeout)
	v.SetDefault("audio.backend", d.Audio.Backend)
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.buffer", d.Audio.Buffer)
	v.SetDefault("audio.fft_size", d.Audio.FFTSize)
	v.SetDefault("ui.frame_rate", d.UI.FrameRate)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.path", d.Tracing.Path)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	closeLog, err := log.Init(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	log.Info(log.CatConfig, "Starting mimic", "version", version, "db", cfg.DBPath, "audio", cfg.Audio.Backend)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatConfig, "Tracing shutdown failed", err)
		}
	}()

	c := cfg
	if flagNoAudio {
		c.Audio.Backend = device.BackendNone
	}
	a := newApp(c, flagPack)
	defer a.Close()

	p := tea.NewProgram(a.model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	watchConfig(viper.GetViper(), p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// watchConfig forwards valid config file edits to the running program.
func watchConfig(v *viper.Viper, p *tea.Program) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		c, err := decodeConfig(v)
		if err != nil {
			log.Warn(log.CatConfig, "Ignoring invalid config change", "file", e.Name, "error", err)
			return
		}
		p.Send(board.ConfigChangedMsg{Config: c})
	})
	v.WatchConfig()
}
