package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/mimic/internal/config"
	"github.com/zjrosen/mimic/internal/game"
	"github.com/zjrosen/mimic/internal/infrastructure/sqlite"
	"github.com/zjrosen/mimic/internal/soundpack"
	"github.com/zjrosen/mimic/internal/store"
)

func TestPrintPacks(t *testing.T) {
	user := soundpack.Pack{
		ID:          "bells",
		Name:        "Bells",
		Description: "Tuned percussion",
		Kind:        soundpack.KindPercussion,
		Frequencies: [4]float64{200, 300, 400, 500},
		Colors:      [4]string{"#111111", "#222222", "#333333", "#444444"},
		Source:      soundpack.SourceUser,
	}
	r, err := soundpack.NewRegistry(append(soundpack.Builtin(), user)...)
	require.NoError(t, err)

	var buf bytes.Buffer
	printPacks(&buf, r, "/packs")
	out := buf.String()

	assert.Contains(t, out, "Built-in Sound Packs:")
	assert.Contains(t, out, "classic")
	assert.Contains(t, out, "sine")
	assert.Contains(t, out, "User Sound Packs (/packs):")
	assert.Contains(t, out, "bells")
	assert.Contains(t, out, "percussion")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("classic")), bytes.Index(buf.Bytes(), []byte("bells")))
}

func TestPrintPacks_NoUserPacks(t *testing.T) {
	var buf bytes.Buffer
	printPacks(&buf, soundpack.Default(), "/packs")
	assert.Contains(t, buf.String(), "(none)")
}

func TestLoadRegistry_UserPackOverridesAndBadDirFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.yaml"), []byte(`
id: mine
name: Mine
description: Custom tones
kind: tone
waveform: square
frequencies: [100, 200, 300, 400]
colors: ["#111111", "#222222", "#333333", "#444444"]
`), 0600))

	r := loadRegistry(dir)
	p, err := r.Get("mine")
	require.NoError(t, err)
	assert.Equal(t, soundpack.SourceUser, p.Source)

	r = loadRegistry(filepath.Join(dir, "missing"))
	assert.Len(t, r.List(), len(soundpack.Builtin()))
}

func TestPrintScores(t *testing.T) {
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "mimic.db"))
	require.NoError(t, err)
	defer db.Close()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, r := range []game.Result{
		{ID: "a", Difficulty: game.DifficultyEasy, SoundPack: "classic", Score: 3, Reason: game.ReasonMismatch},
		{ID: "b", Difficulty: game.DifficultyHard, SoundPack: "retro", Score: 9, Reason: game.ReasonTimeout},
	} {
		r.StartedAt = start.Add(time.Duration(i) * time.Hour)
		r.EndedAt = r.StartedAt.Add(90 * time.Second)
		require.NoError(t, db.GameResults().Save(r))
	}
	require.NoError(t, db.Settings().Save(store.KeyHighScore, "9"))

	var buf bytes.Buffer
	require.NoError(t, printScores(&buf, db, 10))
	out := buf.String()

	assert.Contains(t, out, "High score: 9")
	assert.Contains(t, out, "easy    3")
	assert.Contains(t, out, "hard    9")
	assert.Contains(t, out, "retro")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "1m30s")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("retro")), bytes.Index(buf.Bytes(), []byte("classic")), "newest first")

	buf.Reset()
	require.NoError(t, printScores(&buf, db, 1))
	assert.NotContains(t, buf.String(), "classic")
}

func TestPrintScores_Empty(t *testing.T) {
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "mimic.db"))
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	require.NoError(t, printScores(&buf, db, 10))
	assert.Contains(t, buf.String(), "High score: 0")
	assert.Contains(t, buf.String(), "(none)")
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	prevFile, prevForce := cfgFile, initForce
	t.Cleanup(func() { cfgFile, initForce = prevFile, prevForce })
	cfgFile, initForce = path, false

	var buf bytes.Buffer
	initCmd.SetOut(&buf)
	t.Cleanup(func() { initCmd.SetOut(nil) })

	require.NoError(t, runInit(initCmd, nil))
	assert.Contains(t, buf.String(), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfigTemplate(), string(data))

	require.ErrorContains(t, runInit(initCmd, nil), "already exists")

	initForce = true
	require.NoError(t, runInit(initCmd, nil))
}

type fakeSaver struct {
	mu    sync.Mutex
	saved []game.Result
	err   error
}

func (f *fakeSaver) Save(r game.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, r)
	return f.err
}

func TestResultRecorder_SavesOnWriter(t *testing.T) {
	saver := &fakeSaver{}
	w := store.NewWriter()
	rec := &resultRecorder{saver: saver, writer: w}

	rec.RecordResult(game.Result{ID: "one", Score: 2})
	rec.RecordResult(game.Result{ID: "two", Score: 5})
	w.Close()

	require.Len(t, saver.saved, 2)
	assert.Equal(t, "one", saver.saved[0].ID)
	assert.Equal(t, "two", saver.saved[1].ID)
}

func TestResultRecorder_ErrorIsNotFatal(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	w := store.NewWriter()
	rec := &resultRecorder{saver: saver, writer: w}

	rec.RecordResult(game.Result{ID: "one"})
	w.Close()
	require.Len(t, saver.saved, 1)
}

func TestNewApp_PersistsAcrossSessions(t *testing.T) {
	dir := t.TempDir()
	c := config.Defaults()
	c.DBPath = filepath.Join(dir, "mimic.db")
	c.SoundPacksDir = filepath.Join(dir, "packs")
	c.Audio.Backend = "none"

	a := newApp(c, "retro")
	assert.Equal(t, "retro", a.engine.PackID())
	assert.False(t, a.engine.Available())
	assert.Equal(t, game.StateStart, a.game.State())
	assert.Equal(t, game.DifficultyNormal, a.game.Difficulty())
	a.engine.SetTempo(1.5)
	a.Close()

	b := newApp(c, "")
	defer b.Close()
	assert.Equal(t, "retro", b.engine.PackID())
	assert.Equal(t, 1.5, b.engine.Settings().Tempo)
}

func TestNewApp_UnusableDatabaseFallsBackToMemory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	c := config.Defaults()
	c.DBPath = filepath.Join(blocker, "mimic.db")
	c.SoundPacksDir = filepath.Join(dir, "packs")
	c.Audio.Backend = "none"

	a := newApp(c, "")
	defer a.Close()
	assert.Nil(t, a.db)
	assert.IsType(t, &store.Memory{}, a.store)
}
