package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

// Run modes. Only development mode caches feed responses.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Log levels.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config is the complete getbrowser configuration.
type Config struct {
	Mode     string         `json:"mode"`
	Cache    CacheConfig    `json:"cache"`
	HTTP     HTTPConfig     `json:"http"`
	Feeds    FeedsConfig    `json:"feeds"`
	Defaults DefaultsConfig `json:"defaults"`
	Log      LogConfig      `json:"log"`
}

// CacheConfig selects and sizes the response cache.
type CacheConfig struct {
	Backend string `json:"backend"`
	Path    string `json:"path,omitempty"` // empty means the cache dir
	TTL     int    `json:"ttl"`            // seconds
	Size    int    `json:"size"`           // memory backend only, in keys
}

// HTTPConfig configures feed requests.
type HTTPConfig struct {
	Timeout   int    `json:"timeout"` // seconds
	UserAgent string `json:"user_agent"`
}

// FeedsConfig holds the upstream feed endpoints.
type FeedsConfig struct {
	Chromium      string `json:"chromium"`
	Firefox       string `json:"firefox"`
	ChromiumLimit int    `json:"chromium_limit"`
}

// DefaultsConfig holds the selection used when the CLI omits one.
type DefaultsConfig struct {
	Vendor   string `json:"vendor,omitempty"`
	Channel  string `json:"channel,omitempty"`
	Platform string `json:"platform,omitempty"` // empty means detect
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `json:"level"`
	Dir   string `json:"dir,omitempty"` // empty disables the log file
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Mode: ModeProduction,
		Cache: CacheConfig{
			Backend: BackendSQLite,
			TTL:     86400,
			Size:    256,
		},
		HTTP: HTTPConfig{
			Timeout:   30,
			UserAgent: "getbrowser/0.1",
		},
		Feeds: FeedsConfig{
			Chromium:      "https://chromiumdash.appspot.com",
			Firefox:       "https://product-details.mozilla.org",
			ChromiumLimit: 20,
		},
		Defaults: DefaultsConfig{
			Vendor:  "chromium",
			Channel: "stable",
		},
		Log: LogConfig{
			Level: LevelInfo,
		},
	}
}

// CachingEnabled reports whether feed responses are cached.
func (c *Config) CachingEnabled() bool {
	return c.Mode == ModeDevelopment
}

// CacheTTL returns the cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// HTTPTimeout returns the feed request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.Timeout) * time.Second
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return &ValidationError{Field: "mode", Message: fmt.Sprintf("must be %q or %q (got %q)", ModeDevelopment, ModeProduction, c.Mode)}
	}

	switch c.Cache.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	default:
		return &ValidationError{Field: "cache.backend", Message: fmt.Sprintf("unknown backend %q (want memory, file or sqlite)", c.Cache.Backend)}
	}
	if c.Cache.TTL <= 0 {
		return &ValidationError{Field: "cache.ttl", Message: "must be positive"}
	}
	if c.Cache.Size < 0 {
		return &ValidationError{Field: "cache.size", Message: "cannot be negative"}
	}

	if c.HTTP.Timeout <= 0 {
		return &ValidationError{Field: "http.timeout", Message: "must be positive"}
	}
	if strings.ContainsAny(c.HTTP.UserAgent, "\r\n") {
		return &ValidationError{Field: "http.user_agent", Message: "cannot contain line breaks"}
	}

	if err := validateFeedURL(c.Feeds.Chromium); err != nil {
		return &ValidationError{Field: "feeds.chromium", Message: err.Error()}
	}
	if err := validateFeedURL(c.Feeds.Firefox); err != nil {
		return &ValidationError{Field: "feeds.firefox", Message: err.Error()}
	}
	if c.Feeds.ChromiumLimit <= 0 || c.Feeds.ChromiumLimit > MaxChromiumLimit {
		return &ValidationError{Field: "feeds.chromium_limit", Message: fmt.Sprintf("must be between 1 and %d", MaxChromiumLimit)}
	}

	if err := c.Defaults.validate(); err != nil {
		return err
	}

	switch c.Log.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return &ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}

	return nil
}

func (d DefaultsConfig) validate() error {
	vendor := browser.Chromium
	if d.Vendor != "" {
		v, err := browser.ParseVendor(d.Vendor)
		if err != nil {
			return &ValidationError{Field: "defaults.vendor", Message: err.Error()}
		}
		vendor = v
	}
	if d.Channel != "" {
		if _, err := browser.ParseChannel(vendor, d.Channel); err != nil {
			return &ValidationError{Field: "defaults.channel", Message: err.Error()}
		}
	}
	if d.Platform != "" {
		if _, err := platform.Parse(d.Platform); err != nil {
			return &ValidationError{Field: "defaults.platform", Message: err.Error()}
		}
	}
	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// validateFeedURL accepts absolute http(s) URLs.
func validateFeedURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http:// scheme (got: %s)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}
