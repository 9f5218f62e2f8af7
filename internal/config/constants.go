package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalRoot = "getbrowser"

	luaFieldMode     = "mode"
	luaFieldCache    = "cache"
	luaFieldHTTP     = "http"
	luaFieldFeeds    = "feeds"
	luaFieldDefaults = "defaults"
	luaFieldLog      = "log"

	luaFieldBackend       = "backend"
	luaFieldPath          = "path"
	luaFieldTTL           = "ttl"
	luaFieldSize          = "size"
	luaFieldTimeout       = "timeout"
	luaFieldUserAgent     = "user_agent"
	luaFieldChromium      = "chromium"
	luaFieldFirefox       = "firefox"
	luaFieldChromiumLimit = "chromium_limit"
	luaFieldVendor        = "vendor"
	luaFieldChannel       = "channel"
	luaFieldPlatform      = "platform"
	luaFieldLevel         = "level"
	luaFieldDir           = "dir"
)

// Parsing limits
const (
	// MaxConfigSize is the largest config file accepted, in bytes
	MaxConfigSize = 1 << 20
	// DefaultParseTimeout applies when the context has no deadline
	DefaultParseTimeout = 5 * time.Second
	// MaxChromiumLimit bounds feeds.chromium_limit
	MaxChromiumLimit = 1000
)

// ConfigFileName is the name of the config file inside the config dir.
const ConfigFileName = "config.lua"
