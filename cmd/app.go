package cmd

import (
	"github.com/gopxl/beep/v2"

	"github.com/zjrosen/mimic/internal/audio"
	"github.com/zjrosen/mimic/internal/audio/device"
	"github.com/zjrosen/mimic/internal/config"
	"github.com/zjrosen/mimic/internal/game"
	"github.com/zjrosen/mimic/internal/infrastructure/sqlite"
	"github.com/zjrosen/mimic/internal/log"
	"github.com/zjrosen/mimic/internal/soundpack"
	"github.com/zjrosen/mimic/internal/store"
	"github.com/zjrosen/mimic/internal/ui/board"
	"github.com/zjrosen/mimic/internal/ui/styles"
)

// app holds everything a play session owns.
type app struct {
	db     *sqlite.DB
	writer *store.Writer
	store  store.Store
	engine *audio.Engine
	game   *game.Game
	model  board.Model
}

// newApp wires the session. Failures in optional parts (database, user
// packs, audio device) are logged and the game runs without them.
func newApp(c config.Config, pack string) *app {
	a := &app{writer: store.NewWriter()}

	var recorder game.Recorder
	db, err := sqlite.NewDB(c.DBPath)
	if err != nil {
		log.ErrorErr(log.CatDB, "Database unavailable, settings will not be saved", err, "path", c.DBPath)
		a.store = store.NewMemory()
	} else {
		a.db = db
		a.store = store.NewCached(db.Settings(), a.writer)
		recorder = &resultRecorder{saver: db.GameResults(), writer: a.writer}
	}

	dev, err := device.New(c.Audio.Backend, device.Format{
		SampleRate: beep.SampleRate(c.Audio.SampleRate),
		Buffer:     c.Audio.Buffer,
	})
	if err != nil {
		log.ErrorErr(log.CatAudio, "Unknown audio backend, running silent", err)
		dev = nil
	}

	a.engine = audio.NewEngine(audio.Options{
		Registry:   loadRegistry(c.SoundPacksDir),
		Store:      a.store,
		Device:     dev,
		SampleRate: beep.SampleRate(c.Audio.SampleRate),
		FFTSize:    c.Audio.FFTSize,
	})
	a.engine.LoadSettings()
	if pack != "" {
		a.engine.SetSoundPack(pack)
	}
	a.engine.Initialize()

	bridge := board.NewBridge()
	a.game = game.New(game.Options{
		Sound:               a.engine,
		Presenter:           bridge,
		Store:               a.store,
		Recorder:            recorder,
		Difficulty:          game.Difficulty(c.Game.Difficulty),
		EnforceInputTimeout: c.Game.EnforceInputTimeout,
	})

	a.model = board.New(board.Options{
		Game:          a.game,
		Bridge:        bridge,
		Audio:         a.engine,
		Store:         a.store,
		Theme:         styles.ThemeConfig{Preset: c.UI.Theme, Colors: c.UI.Colors},
		FrameInterval: c.UI.FrameInterval(),
	})
	return a
}

// Close releases the device and flushes pending writes before closing the
// database.
func (a *app) Close() {
	if err := a.engine.Close(); err != nil {
		log.ErrorErr(log.CatAudio, "Closing audio device", err)
	}
	a.writer.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.ErrorErr(log.CatDB, "Closing database", err)
		}
	}
}

// loadRegistry registers the built-in packs followed by the user's packs.
// A user pack that fails validation drops all user packs.
func loadRegistry(dir string) *soundpack.Registry {
	user, err := soundpack.LoadUserPacks(dir)
	if err != nil {
		log.Warn(log.CatConfig, "Skipping user sound packs", "dir", dir, "error", err)
		return soundpack.Default()
	}
	r, err := soundpack.NewRegistry(append(soundpack.Builtin(), user...)...)
	if err != nil {
		log.Warn(log.CatConfig, "Invalid user sound pack, using built-ins only", "error", err)
		return soundpack.Default()
	}
	return r
}
