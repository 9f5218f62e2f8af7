package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/service"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	mode       string
	json       bool
	verbose    bool
}

// app holds what one invocation needs to build its service.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	flags    globalFlags
	detector platform.Detector
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:   stdout,
		stderr:   stderr,
		detector: platform.NewDetector(),
	}
}

// loadConfig reads the config file and applies the --mode override.
func (a *app) loadConfig(ctx context.Context) (*service.LoadedConfig, error) {
	loaded, err := service.LoadConfig(ctx, a.flags.configPath, a.detector, nil)
	if err != nil {
		return nil, err
	}
	if a.flags.mode != "" {
		loaded.Config.Mode = strings.ToLower(strings.TrimSpace(a.flags.mode))
		if err := loaded.Config.Validate(); err != nil {
			return nil, fmt.Errorf("--mode: %w", err)
		}
	}
	return loaded, nil
}

// newService builds the service for one command. The returned cleanup
// closes the cache store and the log file.
func (a *app) newService(ctx context.Context) (*service.Service, func(), error) {
	loaded, err := a.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	cfg := loaded.Config

	level := cfg.Log.Level
	if a.flags.verbose {
		level = config.LevelDebug
	}
	logDir := cfg.Log.Dir
	if logDir == "" {
		logDir = config.LogDir()
	}
	logger, logCloser, err := service.NewLogger(service.LogOptions{
		Level:  level,
		Dir:    logDir,
		Stderr: a.stderr,
	})
	if err != nil {
		return nil, nil, err
	}

	adapter := service.NewLoggerAdapter(logger)
	adapter.Debug("config loaded", "path", loaded.Path, "found", loaded.Found, "mode", cfg.Mode)

	svc, err := service.New(cfg, service.Options{
		Logger:   adapter,
		Detector: a.detector,
	})
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}

	cleanup := func() {
		if err := svc.Close(); err != nil {
			adapter.Warn("closing cache store failed", "error", err)
		}
		_ = logCloser.Close()
	}
	return svc, cleanup, nil
}
