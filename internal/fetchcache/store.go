package fetchcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
)

// Store is a flat key/value store. Implementations must be safe for
// concurrent use. Get reports ok=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// Store backends accepted by NewStoreFromConfig.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

const (
	// DefaultMemorySize bounds the memory backend, in keys
	DefaultMemorySize = 256

	sqliteFileName = "cache.db"
	fileStoreDir   = "entries"
)

// NewStoreFromConfig creates the store named by cfg.Backend. An empty path
// resolves to the cache directory.
func NewStoreFromConfig(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(cfg.Size)
	case BackendFile:
		dir, err := storePath(cfg.Path, fileStoreDir)
		if err != nil {
			return nil, err
		}
		return NewFileStore(dir)
	case BackendSQLite:
		path, err := storePath(cfg.Path, sqliteFileName)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// StoreExists reports whether the store named by cfg has been written
// before. Memory stores never outlive the process, so they never exist.
func StoreExists(cfg config.CacheConfig) (bool, error) {
	var name string
	switch cfg.Backend {
	case BackendMemory, "":
		return false, nil
	case BackendFile:
		name = fileStoreDir
	case BackendSQLite:
		if cfg.Path == ":memory:" {
			return false, nil
		}
		name = sqliteFileName
	default:
		return false, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}

	path, err := storePath(cfg.Path, name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat cache store: %w", err)
	}
	return true, nil
}

func storePath(configured, name string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	dir, err := config.CacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(dir, name), nil
}
