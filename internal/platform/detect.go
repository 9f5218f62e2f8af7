package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector on top of a HostIntrospector.
type RealDetector struct {
	host HostIntrospector
}

// NewDetector creates a platform detector backed by gopsutil.
func NewDetector() Detector {
	return &RealDetector{host: GopsutilIntrospector{}}
}

// NewDetectorWithHost creates a detector that reads host strings from h.
func NewDetectorWithHost(h HostIntrospector) Detector {
	return &RealDetector{host: h}
}

// Detect resolves the host platform. Introspection errors are not returned:
// the policy sees empty strings and falls back to Default().
func (d *RealDetector) Detect(ctx context.Context) *Info {
	var hi HostInfo
	if d.host != nil {
		if got, err := d.host.Host(ctx); err == nil {
			hi = got
		}
	}

	return &Info{
		ID:      FromHost(hi),
		OSName:  hi.OSName,
		CPUArch: hi.CPUArch,
		OS:      runtime.GOOS,
		Arch:    normalizeArch(runtime.GOARCH),
	}
}

// GopsutilIntrospector describes the host using gopsutil.
//
// OS names are presented the way browser user-agent parsers name them
// ("Windows ...", "Mac OS X ...", "Linux ..."), and the CPU string is the
// vendor ID plus model name so Intel Macs contain "intel".
type GopsutilIntrospector struct{}

// Host implements HostIntrospector.
func (GopsutilIntrospector) Host(ctx context.Context) (HostInfo, error) {
	hi := HostInfo{
		OSName:  osDisplayName(runtime.GOOS, "", ""),
		CPUArch: archDisplayName(runtime.GOARCH),
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return HostInfo{}, fmt.Errorf("host introspection cancelled: %w", ctx.Err())
		}
		// Keep the runtime-derived strings
		return hi, nil
	}
	hi.OSName = osDisplayName(info.OS, info.Platform, info.PlatformVersion)

	cpus, err := cpu.InfoWithContext(ctx)
	if err == nil && len(cpus) > 0 {
		desc := strings.TrimSpace(cpus[0].VendorID + " " + cpus[0].ModelName)
		if desc != "" {
			hi.CPUArch = desc
		}
	}

	return hi, nil
}

// osDisplayName turns gopsutil's OS/platform fields into a readable name.
func osDisplayName(goos, platform, version string) string {
	var name string
	switch goos {
	case "darwin":
		name = "Mac OS X"
	case "windows":
		// gopsutil reports e.g. "Microsoft Windows 11 Pro"
		if strings.Contains(strings.ToLower(platform), "windows") {
			return strings.TrimSpace(platform + " " + version)
		}
		name = "Windows"
	case "linux":
		name = "Linux"
		if platform != "" {
			name += " " + platform
		}
	default:
		name = goos
	}
	if version != "" {
		name += " " + version
	}
	return name
}

// archDisplayName is used when no CPU model is available. amd64 Macs are
// always Intel, so the fallback keeps the mac/mac-arm split correct.
func archDisplayName(goarch string) string {
	switch goarch {
	case "amd64", "386":
		return "Intel " + goarch
	default:
		return goarch
	}
}
