// Package store is the persistence adapter: a small string key-value
// interface the game and audio engine use for settings and the high score.
//
// Reads and writes never fail from the caller's point of view. Backend
// errors are logged and reads fall back to "absent", so callers substitute
// their documented defaults.
package store

// Keys used by mimic.
const (
	KeyHighScore     = "highScore"
	KeyAudioSettings = "audioSettings"
	KeyTheme         = "theme"
)

// Store is the key-value contract consumed by the game core.
type Store interface {
	// Get returns the stored value and whether one exists.
	Get(key string) (string, bool)
	// Set stores value under key.
	Set(key, value string)
}

// Backend is a durable key-value table that can report errors, such as the
// sqlite settings repository.
type Backend interface {
	Load(key string) (value string, found bool, err error)
	Save(key, value string) error
}
