package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_GetSet(t *testing.T) {
	m := NewMemory()

	_, ok := m.Get(KeyHighScore)
	require.False(t, ok)

	m.Set(KeyHighScore, "7")
	v, ok := m.Get(KeyHighScore)
	require.True(t, ok)
	require.Equal(t, "7", v)

	v, found, err := m.Load(KeyHighScore)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "7", v)
}

// recordingBackend counts backend reads and can be made to fail.
type recordingBackend struct {
	mu      sync.Mutex
	data    map[string]string
	loads   int
	saves   []string
	loadErr error
	saveErr error
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{data: map[string]string{}}
}

func (b *recordingBackend) Load(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loads++
	if b.loadErr != nil {
		return "", false, b.loadErr
	}
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *recordingBackend) Save(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveErr != nil {
		return b.saveErr
	}
	b.data[key] = value
	b.saves = append(b.saves, key+"="+value)
	return nil
}

func TestCached_ReadThroughAndCache(t *testing.T) {
	backend := newRecordingBackend()
	backend.data[KeyTheme] = "light"

	w := NewWriter()
	defer w.Close()
	c := NewCached(backend, w)

	v, ok := c.Get(KeyTheme)
	require.True(t, ok)
	require.Equal(t, "light", v)

	v, ok = c.Get(KeyTheme)
	require.True(t, ok)
	require.Equal(t, "light", v)
	require.Equal(t, 1, backend.loads, "second read should be served from cache")
}

func TestCached_MissIsNotCached(t *testing.T) {
	backend := newRecordingBackend()
	w := NewWriter()
	defer w.Close()
	c := NewCached(backend, w)

	_, ok := c.Get(KeyHighScore)
	require.False(t, ok)

	backend.data[KeyHighScore] = "3"
	v, ok := c.Get(KeyHighScore)
	require.True(t, ok)
	require.Equal(t, "3", v)
}

func TestCached_SetIsVisibleImmediatelyAndFlushedOnClose(t *testing.T) {
	backend := newRecordingBackend()
	w := NewWriter()
	c := NewCached(backend, w)

	c.Set(KeyHighScore, "4")
	c.Set(KeyHighScore, "5")

	v, ok := c.Get(KeyHighScore)
	require.True(t, ok)
	require.Equal(t, "5", v)

	w.Close()
	require.Equal(t, []string{"highScore=4", "highScore=5"}, backend.saves)
	require.Equal(t, "5", backend.data[KeyHighScore])
}

func TestCached_LoadErrorReadsAsAbsent(t *testing.T) {
	backend := newRecordingBackend()
	backend.loadErr = errors.New("database is locked")
	w := NewWriter()
	defer w.Close()
	c := NewCached(backend, w)

	_, ok := c.Get(KeyAudioSettings)
	require.False(t, ok)
}

func TestCached_SaveErrorKeepsCachedValue(t *testing.T) {
	backend := newRecordingBackend()
	backend.saveErr = errors.New("read-only file system")
	w := NewWriter()
	c := NewCached(backend, w)

	c.Set(KeyTheme, "dark")
	w.Close()

	v, ok := c.Get(KeyTheme)
	require.True(t, ok)
	require.Equal(t, "dark", v)
	require.Empty(t, backend.saves)
}

func TestWriter_FullQueueRunsInline(t *testing.T) {
	w := NewWriterSize(1)
	block := make(chan struct{})
	started := make(chan struct{})

	w.Submit(func() error {
		close(started)
		<-block
		return nil
	})
	<-started

	// Fills the single slot.
	w.Submit(func() error { return nil })

	ran := false
	w.Submit(func() error {
		ran = true
		return nil
	})
	require.True(t, ran, "job should run inline when the queue is full")

	close(block)
	w.Close()
}

func TestWriter_SubmitAfterCloseRunsInline(t *testing.T) {
	w := NewWriter()
	w.Close()
	w.Close()

	ran := false
	w.Submit(func() error {
		ran = true
		return nil
	})
	require.True(t, ran)
}
