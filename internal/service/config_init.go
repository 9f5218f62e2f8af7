package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/lockfile"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

const (
	// ConfigDirPermissions sets the permission mode for config directories.
	ConfigDirPermissions = 0755
	// ConfigFilePermissions sets the permission mode for config files.
	ConfigFilePermissions = 0644
)

// ErrConfigExists is returned by ConfigInitService.Execute when the file exists and Force
// is not set.
var ErrConfigExists = errors.New("config file already exists")

// ConfigParser provides config parsing functionality.
type ConfigParser interface {
	ParseString(ctx context.Context, lua string) (*config.Config, error)
}

// ConfigGenerator provides config generation functionality.
type ConfigGenerator interface {
	Generate(cfg *config.Config) (string, error)
}

// ConfigInitService writes a starter config file.
type ConfigInitService struct {
	parser    ConfigParser
	generator ConfigGenerator
}

// NewConfigInitService creates a new config init service.
func NewConfigInitService(parser ConfigParser, generator ConfigGenerator) *ConfigInitService {
	return &ConfigInitService{parser: parser, generator: generator}
}

// InitRequest contains the parameters for writing a config file.
type InitRequest struct {
	Path   string         // empty uses config.ConfigFilePath()
	Config *config.Config // nil uses config.Default()
	Force  bool           // overwrite an existing file
}

// InitResult describes the written file.
type InitResult struct {
	Path        string
	Overwritten bool
	Content     string
}

// Execute generates the Lua config, checks that it parses back, and writes
// it atomically while holding <path>.lock.
func (s *ConfigInitService) Execute(ctx context.Context, req InitRequest) (*InitResult, error) {
	path := req.Path
	if path == "" {
		p, err := config.ConfigFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}

	lock, err := lockfile.Acquire(ctx, path+".lock")
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	_, statErr := os.Stat(path)
	exists := statErr == nil
	if exists && !req.Force {
		return nil, fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config: %w", statErr)
	}

	content, err := s.generator.Generate(cfg)
	if err != nil {
		return nil, fmt.Errorf("generate config: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("operation cancelled: %w", err)
	}
	if _, err := s.parser.ParseString(ctx, content); err != nil {
		return nil, fmt.Errorf("generated config does not parse: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), ConfigDirPermissions); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), ConfigFilePermissions); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("write config: %w", err)
	}

	return &InitResult{Path: path, Overwritten: exists, Content: content}, nil
}

// LoadedConfig is the effective configuration and where it came from.
type LoadedConfig struct {
	Config *config.Config
	Path   string
	Found  bool // false means defaults were used
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing default file yields config.Default(); a missing
// explicit path is an error.
func LoadConfig(ctx context.Context, path string, detector platform.Detector, logger Logger) (*LoadedConfig, error) {
	explicit := path != ""
	if !explicit {
		p, err := config.ConfigFilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	parser := config.NewParser(detector)
	if logger != nil {
		parser = parser.WithLogger(logger)
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return &LoadedConfig{Config: config.Default(), Path: path}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return &LoadedConfig{Config: cfg, Path: path, Found: true}, nil
}
