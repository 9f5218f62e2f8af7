// Package config provides Lua configuration parsing and generation for
// getbrowser.
//
// # Overview
//
// The config file is a Lua script evaluated in a sandboxed gopher-lua VM.
// It must assign a global "getbrowser" table; any field it omits keeps the
// value from Default():
//
//	getbrowser = {
//	  mode = "development",           -- "development" caches feeds
//	  cache = { backend = "sqlite", ttl = 86400, size = 256 },
//	  http = { timeout = 30, user_agent = "getbrowser/0.1" },
//	  feeds = {
//	    chromium = "https://chromiumdash.appspot.com",
//	    firefox = "https://product-details.mozilla.org",
//	    chromium_limit = 20,
//	  },
//	  defaults = {
//	    vendor = "chromium",
//	    channel = "stable",
//	    platform = platform.when(platform.is_linux, "linux"),
//	  },
//	  log = { level = "info" },
//	}
//
// # Platform table
//
// Before the script runs, the platform package injects a read-only
// "platform" table (id, os, arch, os_name, cpu, is_windows, is_mac,
// is_linux, is_apple_silicon and the when(cond, value) helper).
//
// # Sandbox
//
// The os, io and debug libraries, module loading, and raw metatable access
// are removed. Evaluation is bounded by MaxConfigSize and by the context
// deadline (DefaultParseTimeout when none is set).
//
// # Errors
//
// Lua errors, type mismatches and validation failures are reported as
// *ParseError; FormatError renders one for the terminal.
//
// # Directories
//
// ConfigDir, CacheDir and LogDir honour GETBROWSER_CONFIG_DIR,
// GETBROWSER_CACHE_DIR and GETBROWSER_LOG_DIR.
package config
