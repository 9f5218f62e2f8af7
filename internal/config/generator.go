package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// Generator generates Lua configuration code from a Config.
type Generator struct {
	indent string
	now    func() time.Time
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
		now:    time.Now,
	}
}

// Generate renders cfg as a config file that ParseString reads back to an
// equal Config.
func (g *Generator) Generate(cfg *Config) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer

	buf.WriteString("-- getbrowser configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(g.now().UTC().Format(time.RFC3339))
	buf.WriteString("\n--\n")
	buf.WriteString("-- mode = \"development\" caches feed responses for cache.ttl seconds.\n")
	buf.WriteString("-- The read-only `platform` table describes this machine, e.g.\n")
	buf.WriteString("--   platform = platform.when(platform.is_linux, \"linux\")\n\n")

	buf.WriteString(luaGlobalRoot + " = {\n")
	g.writeField(&buf, 1, luaFieldMode, g.quoteLuaString(cfg.Mode))
	buf.WriteString("\n")

	g.openSection(&buf, luaFieldCache)
	g.writeField(&buf, 2, luaFieldBackend, g.quoteLuaString(cfg.Cache.Backend))
	if cfg.Cache.Path != "" {
		g.writeField(&buf, 2, luaFieldPath, g.quoteLuaString(cfg.Cache.Path))
	}
	g.writeField(&buf, 2, luaFieldTTL, fmt.Sprintf("%d", cfg.Cache.TTL))
	g.writeField(&buf, 2, luaFieldSize, fmt.Sprintf("%d", cfg.Cache.Size))
	g.closeSection(&buf)

	g.openSection(&buf, luaFieldHTTP)
	g.writeField(&buf, 2, luaFieldTimeout, fmt.Sprintf("%d", cfg.HTTP.Timeout))
	g.writeField(&buf, 2, luaFieldUserAgent, g.quoteLuaString(cfg.HTTP.UserAgent))
	g.closeSection(&buf)

	g.openSection(&buf, luaFieldFeeds)
	g.writeField(&buf, 2, luaFieldChromium, g.quoteLuaString(cfg.Feeds.Chromium))
	g.writeField(&buf, 2, luaFieldFirefox, g.quoteLuaString(cfg.Feeds.Firefox))
	g.writeField(&buf, 2, luaFieldChromiumLimit, fmt.Sprintf("%d", cfg.Feeds.ChromiumLimit))
	g.closeSection(&buf)

	g.openSection(&buf, luaFieldDefaults)
	if cfg.Defaults.Vendor != "" {
		g.writeField(&buf, 2, luaFieldVendor, g.quoteLuaString(cfg.Defaults.Vendor))
	}
	if cfg.Defaults.Channel != "" {
		g.writeField(&buf, 2, luaFieldChannel, g.quoteLuaString(cfg.Defaults.Channel))
	}
	if cfg.Defaults.Platform != "" {
		g.writeField(&buf, 2, luaFieldPlatform, g.quoteLuaString(cfg.Defaults.Platform))
	} else {
		buf.WriteString(strings.Repeat(g.indent, 2))
		buf.WriteString("-- platform = \"linux\",  -- unset: detect\n")
	}
	g.closeSection(&buf)

	g.openSection(&buf, luaFieldLog)
	g.writeField(&buf, 2, luaFieldLevel, g.quoteLuaString(cfg.Log.Level))
	if cfg.Log.Dir != "" {
		g.writeField(&buf, 2, luaFieldDir, g.quoteLuaString(cfg.Log.Dir))
	}
	buf.WriteString(g.indent)
	buf.WriteString("},\n")

	buf.WriteString("}\n")
	return buf.String(), nil
}

func (g *Generator) openSection(buf *bytes.Buffer, name string) {
	buf.WriteString(g.indent)
	buf.WriteString(name)
	buf.WriteString(" = {\n")
}

func (g *Generator) closeSection(buf *bytes.Buffer) {
	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

func (g *Generator) writeField(buf *bytes.Buffer, depth int, name, value string) {
	buf.WriteString(strings.Repeat(g.indent, depth))
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteString(",\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
