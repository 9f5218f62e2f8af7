package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

// Parser evaluates Lua config files with the platform table injected.
// A Parser is safe for concurrent use; each parse gets its own VM.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: NopLogger{}}
}

// WithLogger sets the parser logger.
func (p *Parser) WithLogger(logger Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// ParseString parses a Lua config from a string. Fields the config omits
// keep their Default() values.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if len(luaCode) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%d bytes, maximum is %d", len(luaCode), MaxConfigSize),
		}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info := p.detector.Detect(ctx)
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, &ParseError{Message: "config evaluation timed out", Detail: ctx.Err().Error()}
		}
		return nil, &ParseError{
			Message: luaErrorMessage(err),
			Detail:  err.Error(),
		}
	}

	cfg, err := extractConfig(L)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("config parsed", "mode", cfg.Mode, "cache_backend", cfg.Cache.Backend)
	return cfg, nil
}

// ParseFile parses the Lua config at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxConfigSize {
		return nil, &ParseError{
			Message: "config too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", path, info.Size(), MaxConfigSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return p.ParseString(ctx, string(data))
}

// Load parses path, or returns Default() when the file does not exist.
func (p *Parser) Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := p.ParseFile(ctx, path)
	if errors.Is(err, os.ErrNotExist) {
		p.logger.Debug("config file not found, using defaults", "path", path)
		return Default(), nil
	}
	return cfg, err
}

// luaErrorMessage names the kind of failure behind a DoString error.
func luaErrorMessage(err error) string {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return "Lua error"
	}
	switch apiErr.Type {
	case lua.ApiErrorSyntax:
		return "Lua syntax error"
	case lua.ApiErrorPanic:
		return "Lua evaluation panicked"
	default:
		return "Lua runtime error"
	}
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "getbrowser" table over Default().
func extractConfig(L *lua.LState) (*Config, error) {
	root := L.GetGlobal(luaGlobalRoot)
	if root.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'getbrowser' table",
			Detail:  fmt.Sprintf("expected table, got %s", root.Type()),
		}
	}
	table := root.(*lua.LTable)
	cfg := Default()

	r := &tableReader{}
	r.str(table, luaFieldMode, "", &cfg.Mode)

	if t := r.sub(table, luaFieldCache); t != nil {
		r.str(t, luaFieldBackend, luaFieldCache, &cfg.Cache.Backend)
		r.str(t, luaFieldPath, luaFieldCache, &cfg.Cache.Path)
		r.num(t, luaFieldTTL, luaFieldCache, &cfg.Cache.TTL)
		r.num(t, luaFieldSize, luaFieldCache, &cfg.Cache.Size)
	}
	if t := r.sub(table, luaFieldHTTP); t != nil {
		r.num(t, luaFieldTimeout, luaFieldHTTP, &cfg.HTTP.Timeout)
		r.str(t, luaFieldUserAgent, luaFieldHTTP, &cfg.HTTP.UserAgent)
	}
	if t := r.sub(table, luaFieldFeeds); t != nil {
		r.str(t, luaFieldChromium, luaFieldFeeds, &cfg.Feeds.Chromium)
		r.str(t, luaFieldFirefox, luaFieldFeeds, &cfg.Feeds.Firefox)
		r.num(t, luaFieldChromiumLimit, luaFieldFeeds, &cfg.Feeds.ChromiumLimit)
	}
	if t := r.sub(table, luaFieldDefaults); t != nil {
		r.str(t, luaFieldVendor, luaFieldDefaults, &cfg.Defaults.Vendor)
		r.str(t, luaFieldChannel, luaFieldDefaults, &cfg.Defaults.Channel)
		r.str(t, luaFieldPlatform, luaFieldDefaults, &cfg.Defaults.Platform)
	}
	if t := r.sub(table, luaFieldLog); t != nil {
		r.str(t, luaFieldLevel, luaFieldLog, &cfg.Log.Level)
		r.str(t, luaFieldDir, luaFieldLog, &cfg.Log.Dir)
	}

	if r.err != nil {
		return nil, r.err
	}

	cfg.Mode = strings.ToLower(cfg.Mode)
	cfg.Cache.Backend = strings.ToLower(cfg.Cache.Backend)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}
	return cfg, nil
}

// tableReader copies typed fields out of Lua tables, keeping the first
// type error. nil values (from platform.when) leave the default in place.
type tableReader struct {
	err error
}

func (r *tableReader) fail(section, field, want string, got lua.LValue) {
	if r.err != nil {
		return
	}
	name := field
	if section != "" {
		name = section + "." + field
	}
	r.err = &ParseError{
		Message: "invalid value for " + name,
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

func (r *tableReader) sub(t *lua.LTable, field string) *lua.LTable {
	v := t.RawGetString(field)
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTTable:
		return v.(*lua.LTable)
	default:
		r.fail("", field, "table", v)
		return nil
	}
}

func (r *tableReader) str(t *lua.LTable, field, section string, dst *string) {
	v := t.RawGetString(field)
	switch v.Type() {
	case lua.LTNil:
	case lua.LTString:
		*dst = v.String()
	default:
		r.fail(section, field, "string", v)
	}
}

func (r *tableReader) num(t *lua.LTable, field, section string, dst *int) {
	v := t.RawGetString(field)
	switch v.Type() {
	case lua.LTNil:
	case lua.LTNumber:
		*dst = int(lua.LVAsNumber(v))
	default:
		r.fail(section, field, "number", v)
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
