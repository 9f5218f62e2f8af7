package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

// mockDetector is a test implementation of platform.Detector.
type mockDetector struct {
	info *platform.Info
}

func (m *mockDetector) Detect(ctx context.Context) *platform.Info {
	return m.info
}

func linuxDetector() *mockDetector {
	return &mockDetector{info: &platform.Info{
		ID:      platform.Linux,
		OSName:  "Linux ubuntu 22.04",
		CPUArch: "GenuineIntel Intel(R) Core(TM) i7",
		OS:      "linux",
		Arch:    "amd64",
	}}
}

func TestParser_ParseString_Minimal(t *testing.T) {
	parser := NewParser(nil)
	cfg, err := parser.ParseString(context.Background(), `getbrowser = { mode = "development" }`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if cfg.Mode != ModeDevelopment {
		t.Errorf("Mode = %q, want development", cfg.Mode)
	}
	if !cfg.CachingEnabled() {
		t.Error("CachingEnabled() = false in development mode")
	}

	def := Default()
	if cfg.Cache != def.Cache || cfg.Feeds != def.Feeds || cfg.HTTP != def.HTTP {
		t.Errorf("omitted sections should keep defaults, got %+v", cfg)
	}
}

func TestParser_ParseString_Full(t *testing.T) {
	luaCode := `
		getbrowser = {
			mode = "PRODUCTION",
			cache = { backend = "file", path = "/tmp/gb-cache", ttl = 3600, size = 64 },
			http = { timeout = 10, user_agent = "custom/2.0" },
			feeds = {
				chromium = "http://localhost:8080",
				firefox = "https://mirror.example.test/pd",
				chromium_limit = 50,
			},
			defaults = { vendor = "firefox", channel = "esr", platform = "mac-arm" },
			log = { level = "debug", dir = "/tmp/gb-logs" },
		}
	`

	cfg, err := NewParser(nil).ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want := &Config{
		Mode:     ModeProduction,
		Cache:    CacheConfig{Backend: BackendFile, Path: "/tmp/gb-cache", TTL: 3600, Size: 64},
		HTTP:     HTTPConfig{Timeout: 10, UserAgent: "custom/2.0"},
		Feeds:    FeedsConfig{Chromium: "http://localhost:8080", Firefox: "https://mirror.example.test/pd", ChromiumLimit: 50},
		Defaults: DefaultsConfig{Vendor: "firefox", Channel: "esr", Platform: "mac-arm"},
		Log:      LogConfig{Level: LevelDebug, Dir: "/tmp/gb-logs"},
	}
	if *cfg != *want {
		t.Errorf("ParseString() =\n%+v\nwant\n%+v", *cfg, *want)
	}
	if cfg.CacheTTL() != time.Hour {
		t.Errorf("CacheTTL() = %v, want 1h", cfg.CacheTTL())
	}
	if cfg.HTTPTimeout() != 10*time.Second {
		t.Errorf("HTTPTimeout() = %v, want 10s", cfg.HTTPTimeout())
	}
}

func TestParser_ParseString_PlatformConditionals(t *testing.T) {
	luaCode := `
		getbrowser = {
			mode = platform.is_linux and "development" or "production",
			defaults = {
				platform = platform.when(platform.is_linux, platform.id),
				channel = platform.when(platform.is_mac, "beta"),
			},
		}
	`

	cfg, err := NewParser(linuxDetector()).ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if cfg.Mode != ModeDevelopment {
		t.Errorf("Mode = %q, want development", cfg.Mode)
	}
	if cfg.Defaults.Platform != "linux" {
		t.Errorf("Defaults.Platform = %q, want linux", cfg.Defaults.Platform)
	}
	if cfg.Defaults.Channel != "stable" {
		t.Errorf("Defaults.Channel = %q, want default stable when when() yields nil", cfg.Defaults.Channel)
	}
}

func TestParser_ParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
	}{
		{"syntax error", `getbrowser = {`, "Lua syntax error"},
		{"missing table", `x = 1`, "missing or invalid 'getbrowser' table"},
		{"root not a table", `getbrowser = "yes"`, "missing or invalid 'getbrowser' table"},
		{"section not a table", `getbrowser = { cache = 5 }`, "invalid value for cache"},
		{"wrong field type", `getbrowser = { cache = { ttl = "a day" } }`, "invalid value for cache.ttl"},
		{"wrong string type", `getbrowser = { mode = true }`, "invalid value for mode"},
		{"unknown mode", `getbrowser = { mode = "staging" }`, "config validation failed"},
		{"unknown backend", `getbrowser = { cache = { backend = "redis" } }`, "config validation failed"},
		{"bad feed scheme", `getbrowser = { feeds = { firefox = "ftp://x" } }`, "config validation failed"},
		{"channel outside vendor", `getbrowser = { defaults = { vendor = "firefox", channel = "canary" } }`, "config validation failed"},
		{"unknown platform", `getbrowser = { defaults = { platform = "beos" } }`, "config validation failed"},
		{"platform table read-only", `platform.id = "mac"; getbrowser = {}`, "Lua runtime error"},
		{"index nil", `local t = nil; getbrowser = { mode = t.mode }`, "Lua runtime error"},
		{"sandboxed os", `os.exit(1)`, "Lua runtime error"},
		{"explicit error", `error("bad config")`, "Lua runtime error"},
	}

	parser := NewParser(linuxDetector())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseString(context.Background(), tt.code)
			if err == nil {
				t.Fatal("ParseString() expected error, got nil")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if !strings.Contains(pe.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want to contain %q", pe.Message, tt.wantMsg)
			}
		})
	}
}

func TestParser_ParseString_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewParser(nil).ParseString(ctx, `while true do end`)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if !strings.Contains(pe.Message, "timed out") {
		t.Errorf("Message = %q, want timeout", pe.Message)
	}
}

func TestParser_ParseString_TooLarge(t *testing.T) {
	code := "getbrowser = {}\n--" + strings.Repeat("x", MaxConfigSize)
	_, err := NewParser(nil).ParseString(context.Background(), code)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Message != "config too large" {
		t.Errorf("error = %v, want config too large", err)
	}
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(`getbrowser = { cache = { backend = "memory" } }`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewParser(nil).ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if cfg.Cache.Backend != BackendMemory {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
}

func TestParser_Load(t *testing.T) {
	parser := NewParser(nil)

	t.Run("missing file uses defaults", func(t *testing.T) {
		cfg, err := parser.Load(context.Background(), filepath.Join(t.TempDir(), "absent.lua"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if *cfg != *Default() {
			t.Errorf("Load() = %+v, want defaults", cfg)
		}
	})

	t.Run("broken file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ConfigFileName)
		if err := os.WriteFile(path, []byte("getbrowser = "), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := parser.Load(context.Background(), path); err == nil {
			t.Error("Load() expected error for broken file")
		}
	})
}

func TestFormatError(t *testing.T) {
	err := &ParseError{
		Message: "Lua syntax error",
		Detail:  "<string>:1: unexpected symbol\nstack traceback:\n\t[G]: ?",
	}

	short := FormatError(err, false)
	if strings.Contains(short, "stack traceback") {
		t.Errorf("FormatError(verbose=false) kept the traceback: %q", short)
	}
	if !strings.HasPrefix(short, "Lua syntax error: ") {
		t.Errorf("FormatError(verbose=false) = %q", short)
	}

	long := FormatError(err, true)
	if !strings.Contains(long, "Details:") || !strings.Contains(long, "stack traceback") {
		t.Errorf("FormatError(verbose=true) = %q", long)
	}

	plain := errors.New("boom")
	if FormatError(plain, false) != "boom" {
		t.Error("FormatError should pass through non-parse errors")
	}
}
