// Package testutil provides utilities for testing getbrowser in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points every getbrowser directory at a fresh temp location,
// so tests never read the user's configuration or cache.
//
// Cleanup is handled by t.TempDir().
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	t.Setenv("GETBROWSER_CONFIG_DIR", filepath.Join(tmpDir, "config"))
	t.Setenv("GETBROWSER_CACHE_DIR", filepath.Join(tmpDir, "cache"))
	t.Setenv("GETBROWSER_LOG_DIR", filepath.Join(tmpDir, "logs"))

	dirs := []string{
		filepath.Join(tmpDir, "config"),
		filepath.Join(tmpDir, "cache"),
		filepath.Join(tmpDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
	return tmpDir
}
