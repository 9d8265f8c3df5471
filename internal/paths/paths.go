// Package paths resolves the on-disk locations mimic uses for its config,
// database and logs.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under the user config directory.
const AppName = "mimic"

// ConfigDir returns the per-user configuration directory for mimic.
// Falls back to ".mimic" in the working directory when the OS reports none.
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "." + AppName
	}
	return filepath.Join(dir, AppName)
}

// DefaultConfigPath returns the default location of config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultDBPath returns the default location of the sqlite database.
func DefaultDBPath() string {
	return filepath.Join(ConfigDir(), AppName+".db")
}

// DefaultSoundPacksDir returns the directory scanned for user sound packs.
func DefaultSoundPacksDir() string {
	return filepath.Join(ConfigDir(), "packs")
}

// ExpandHome replaces a leading "~" with the user's home directory and
// cleans the result. Paths without the prefix are only cleaned.
func ExpandHome(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}
