// Package platform detects which browser build platform the current host
// should download and exposes the detection result to Lua configurations.
//
// Detection is total: whatever the host reports, Detect returns one of the
// supported platform IDs. Host details come from gopsutil; when gopsutil
// cannot answer, detection falls back to the first entry of the platform
// table instead of failing the caller.
package platform

import (
	"context"
	"fmt"
	"strings"
)

// ID identifies a target platform for browser artifacts.
type ID string

// Platform IDs. Android is reserved: it parses, but it is never detected and
// is not offered as an option.
const (
	Windows ID = "windows"
	Mac     ID = "mac"
	MacArm  ID = "mac-arm"
	Linux   ID = "linux"
	Android ID = "android"
)

// String returns the string representation of the platform ID.
func (id ID) String() string {
	return string(id)
}

// Option pairs a platform ID with its display label.
type Option struct {
	Label string `json:"label"`
	Value ID     `json:"value"`
}

// table is ordered; the first entry is the detection fallback.
var table = []Option{
	{Label: "Windows", Value: Windows},
	{Label: "Mac (Intel)", Value: Mac},
	{Label: "Mac (Apple Silicon)", Value: MacArm},
	{Label: "Linux", Value: Linux},
}

// Options returns the supported platforms in display order.
func Options() []Option {
	out := make([]Option, len(table))
	copy(out, table)
	return out
}

// Default returns the platform used when detection cannot decide.
func Default() ID {
	return table[0].Value
}

// Label returns the display label for id, or the raw ID if it has none.
func (id ID) Label() string {
	for _, opt := range table {
		if opt.Value == id {
			return opt.Label
		}
	}
	if id == Android {
		return "Android"
	}
	return string(id)
}

// IsSupported reports whether id is one of the offered platforms.
func (id ID) IsSupported() bool {
	for _, opt := range table {
		if opt.Value == id {
			return true
		}
	}
	return false
}

// Parse converts user input into a platform ID.
// The reserved android ID is accepted so schema lookups can report it as
// unsupported for the requested vendor.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if id.IsSupported() || id == Android {
		return id, nil
	}
	return "", fmt.Errorf("unknown platform %q (want one of windows, mac, mac-arm, linux)", s)
}

// HostInfo is what host introspection reports about the running machine.
type HostInfo struct {
	OSName  string // e.g. "Mac OS X 14.2", "Windows 11 Pro", "Linux ubuntu 22.04"
	CPUArch string // e.g. "GenuineIntel Intel(R) Core(TM) i7", "Apple M2"
}

// Info contains platform detection information.
type Info struct {
	ID      ID     // detected platform
	OSName  string // host OS name as reported by introspection
	CPUArch string // host CPU description as reported by introspection
	OS      string // GOOS of this binary
	Arch    string // normalized GOARCH ("amd64", "arm64") or raw value
}

// IsWindows returns true if the detected platform is Windows.
func (i *Info) IsWindows() bool {
	return i.ID == Windows
}

// IsMac returns true for both Intel and Apple Silicon Macs.
func (i *Info) IsMac() bool {
	return i.ID == Mac || i.ID == MacArm
}

// IsLinux returns true if the detected platform is Linux.
func (i *Info) IsLinux() bool {
	return i.ID == Linux
}

// IsAppleSilicon returns true if the detected platform is an Apple Silicon Mac.
func (i *Info) IsAppleSilicon() bool {
	return i.ID == MacArm
}

// HostIntrospector reads OS and CPU descriptions from the host.
type HostIntrospector interface {
	Host(ctx context.Context) (HostInfo, error)
}

// Detector is the interface for platform detection.
// Detect never fails; unrecognized hosts map to Default().
type Detector interface {
	Detect(ctx context.Context) *Info
}
