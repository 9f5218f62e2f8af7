package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment overrides for the getbrowser directories.
const (
	EnvConfigDir = "GETBROWSER_CONFIG_DIR"
	EnvCacheDir  = "GETBROWSER_CACHE_DIR"
	EnvLogDir    = "GETBROWSER_LOG_DIR"
)

const appDirName = "getbrowser"

// ConfigDir returns $GETBROWSER_CONFIG_DIR, else <user config dir>/getbrowser.
func ConfigDir() (string, error) {
	return resolveDir(EnvConfigDir, os.UserConfigDir)
}

// CacheDir returns $GETBROWSER_CACHE_DIR, else <user cache dir>/getbrowser.
func CacheDir() (string, error) {
	return resolveDir(EnvCacheDir, os.UserCacheDir)
}

// LogDir returns $GETBROWSER_LOG_DIR when set, else an empty string.
func LogDir() string {
	return os.Getenv(EnvLogDir)
}

// ConfigFilePath returns the default config file location.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func resolveDir(env string, base func() (string, error)) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return dir, nil
	}
	root, err := base()
	if err != nil {
		return "", fmt.Errorf("cannot determine %s directory: %w", appDirName, err)
	}
	return filepath.Join(root, appDirName), nil
}
