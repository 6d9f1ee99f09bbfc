// Package dirs resolves the application's per-OS directories.
package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "hometube"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// resolve picks the app directory for the current OS: the XDG variable
// (or its home-relative default) on Linux, the Library subtree on macOS,
// and the stdlib user dir everywhere else.
func resolve(xdgEnv string, homeParts, darwinParts []string, userDir func() (string, error)) (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		parts := append([]string{home}, darwinParts...)
		return filepath.Join(append(parts, appName)...), nil
	case "linux":
		if xdg := os.Getenv(xdgEnv); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		parts := append([]string{home}, homeParts...)
		return filepath.Join(append(parts, appName)...), nil
	default:
		base, err := userDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, appName), nil
	}
}

// ConfigDir returns the app's configuration directory.
// - Linux: $XDG_CONFIG_HOME/hometube or ~/.config/hometube
// - macOS: ~/Library/Application Support/hometube
// - Windows: %AppData%/hometube (via os.UserConfigDir)
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME",
		[]string{".config"},
		[]string{"Library", "Application Support"},
		os.UserConfigDir)
}

// DataDir returns the app's data directory.
// - Linux: $XDG_DATA_HOME/hometube or ~/.local/share/hometube
// - macOS: ~/Library/Application Support/hometube
// - Windows: %AppData%/hometube (via os.UserConfigDir)
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME",
		[]string{".local", "share"},
		[]string{"Library", "Application Support"},
		os.UserConfigDir)
}

// CacheDir returns the app's cache directory.
// - Linux: $XDG_CACHE_HOME/hometube or ~/.cache/hometube
// - macOS: ~/Library/Caches/hometube
// - Windows: %LocalAppData%/hometube (via os.UserCacheDir)
func CacheDir() (string, error) {
	return resolve("XDG_CACHE_HOME",
		[]string{".cache"},
		[]string{"Library", "Caches"},
		os.UserCacheDir)
}

// StateDir returns the app's state directory.
// - Linux: $XDG_STATE_HOME/hometube or ~/.local/state/hometube
// - macOS: ~/Library/Application Support/hometube/state
// - Windows: %LocalAppData%/hometube/state (fallback to ConfigDir/state)
func StateDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		d, err := DataDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(d, "state"), nil
	case "linux":
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "state", appName), nil
	default:
		if la := os.Getenv("LOCALAPPDATA"); la != "" {
			return filepath.Join(la, appName, "state"), nil
		}
		cfg, err := ConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, "state"), nil
	}
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureAll ensures config, data, cache, and state dirs exist.
func EnsureAll() error {
	for _, f := range []func() (string, error){ConfigDir, DataDir, CacheDir, StateDir} {
		p, err := f()
		if err != nil {
			continue
		}
		if err := Ensure(p); err != nil {
			return err
		}
	}
	return nil
}
