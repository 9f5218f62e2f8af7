package browser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

const (
	// ChromiumSnapshotBase hosts Chromium continuous-build archives
	ChromiumSnapshotBase = "https://commondatastorage.googleapis.com/chromium-browser-snapshots"
	// FirefoxArchiveBase hosts Firefox and Developer Edition release archives
	FirefoxArchiveBase = "https://archive.mozilla.org/pub"

	// firefoxXZMajor is the first Firefox major shipping .tar.xz Linux archives
	firefoxXZMajor = 135
)

// Artifact describes where a build lives.
type Artifact struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
}

// ResolveArtifact builds the download location of a build.
//
// value is the vendor's canonical build identifier: the main-branch position
// for Chromium, the version string for Firefox.
//
// Chromium: {snapshots}/{dir}/{position}/{file}
// Firefox:  {archive}/{product}/releases/{version}/{dir}/en-US/{file}
func ResolveArtifact(v Vendor, c Channel, p platform.ID, value string) (*Artifact, error) {
	if value == "" {
		return nil, fmt.Errorf("build identifier is required")
	}
	if err := ValidateChannel(v, c); err != nil {
		return nil, err
	}

	dir, err := ArtifactDirName(v, p)
	if err != nil {
		return nil, err
	}
	tmpl, err := ArtifactFileName(v, p)
	if err != nil {
		return nil, err
	}

	switch v {
	case Chromium:
		return &Artifact{
			URL:      joinURL(ChromiumSnapshotBase, dir, value, tmpl),
			FileName: tmpl,
		}, nil
	case Firefox:
		file := expandFileName(tmpl, value)
		return &Artifact{
			URL:      joinURL(FirefoxArchiveBase, FirefoxProduct(c), "releases", value, dir, "en-US", file),
			FileName: file,
		}, nil
	default:
		return nil, fmt.Errorf("unknown vendor: %s", v)
	}
}

// ArtifactURL returns only the URL part of ResolveArtifact.
func ArtifactURL(v Vendor, c Channel, p platform.ID, value string) (string, error) {
	a, err := ResolveArtifact(v, c, p, value)
	if err != nil {
		return "", err
	}
	return a.URL, nil
}

// expandFileName fills the {version} and {tarext} placeholders.
func expandFileName(tmpl, version string) string {
	return strings.NewReplacer(
		"{version}", version,
		"{tarext}", linuxArchiveExt(version),
	).Replace(tmpl)
}

// linuxArchiveExt picks the Linux tarball compression for a Firefox version.
func linuxArchiveExt(version string) string {
	end := strings.IndexFunc(version, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(version)
	}
	major, err := strconv.Atoi(version[:end])
	if err == nil && major >= firefoxXZMajor {
		return "tar.xz"
	}
	return "tar.bz2"
}

// joinURL appends path-escaped segments to base.
func joinURL(base string, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(escaped, "/")
}
