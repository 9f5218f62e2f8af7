package platform

import (
	"strings"
)

// FromHost applies the detection policy to introspected host strings.
// Matching is case-insensitive and checked in this order: windows, linux,
// mac (Intel CPU => mac, anything else => mac-arm). Unrecognized hosts get
// Default().
func FromHost(h HostInfo) ID {
	osName := normalizeHostString(h.OSName)
	cpu := normalizeHostString(h.CPUArch)

	switch {
	case strings.Contains(osName, "windows"):
		return Windows
	case strings.Contains(osName, "linux"):
		return Linux
	case strings.Contains(osName, "mac"):
		if strings.Contains(cpu, "intel") {
			return Mac
		}
		return MacArm
	default:
		return Default()
	}
}

// normalizeArch converts GOARCH-style values to amd64/arm64 where possible.
// Unknown values pass through unchanged; detection never fails on them.
func normalizeArch(arch string) string {
	switch normalizeHostString(arch) {
	case "amd64", "x86_64", "x64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return arch
	}
}

// normalizeHostString lowercases and trims introspection output.
func normalizeHostString(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
