package release

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/blang/semver"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
)

// firefoxVersionPattern matches 121.0, 120.0.1, 121.0b5, 115.5.0esr, 3.6a1.
var firefoxVersionPattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(?:\.\d+)?(?:(a|b|rc)(\d+))?(?:esr)?$`)

// parseFirefoxVersion maps a Firefox version onto semver: 121.0b5 becomes
// 121.0.0-b.5 and 115.5.0esr becomes 115.5.0.
func parseFirefoxVersion(v string) (semver.Version, error) {
	m := firefoxVersionPattern.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return semver.Version{}, fmt.Errorf("unrecognized firefox version %q", v)
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	s := m[1] + "." + m[2] + "." + patch
	if m[4] != "" {
		s += "-" + m[4] + "." + m[5]
	}
	return semver.Parse(s)
}

// compareFirefoxVersions orders Firefox versions. Unparseable versions sort
// below parseable ones and among themselves by string.
func compareFirefoxVersions(a, b string) int {
	va, errA := parseFirefoxVersion(a)
	vb, errB := parseFirefoxVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// compareChromiumValues orders branch positions numerically.
func compareChromiumValues(a, b string) int {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// CompareValues orders two Version values of vendor v.
func CompareValues(v browser.Vendor, a, b string) int {
	if v == browser.Chromium {
		return compareChromiumValues(a, b)
	}
	return compareFirefoxVersions(a, b)
}

// SortVersions orders versions newest first: by date, then by value.
func SortVersions(v browser.Vendor, versions []Version) {
	sort.SliceStable(versions, func(i, j int) bool {
		di, dj := versions[i].Date, versions[j].Date
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return CompareValues(v, versions[i].Value, versions[j].Value) > 0
	})
}
