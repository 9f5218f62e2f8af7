package browser

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

// schemaKey indexes the platform tables.
type schemaKey struct {
	vendor   Vendor
	platform platform.ID
}

// Table names reported in UnsupportedPlatformError.
const (
	tableAPIPlatform = "feed platform name"
	tableDirName     = "artifact directory"
	tableFileName    = "artifact file name"
)

// apiPlatformNames maps platforms to the identifier each vendor's feed expects.
// Firefox feeds are not platform-scoped; its names are the download bouncer
// "os" tokens.
var apiPlatformNames = map[schemaKey]string{
	{Chromium, platform.Windows}: "Windows",
	{Chromium, platform.Mac}:     "Mac",
	{Chromium, platform.MacArm}:  "Mac",
	{Chromium, platform.Linux}:   "Linux",

	{Firefox, platform.Windows}: "win64",
	{Firefox, platform.Mac}:     "osx",
	{Firefox, platform.MacArm}:  "osx",
	{Firefox, platform.Linux}:   "linux64",
}

// artifactDirNames maps platforms to the vendor's archive directory.
var artifactDirNames = map[schemaKey]string{
	{Chromium, platform.Windows}: "Win_x64",
	{Chromium, platform.Mac}:     "Mac",
	{Chromium, platform.MacArm}:  "Mac_Arm",
	{Chromium, platform.Linux}:   "Linux_x64",

	{Firefox, platform.Windows}: "win64",
	{Firefox, platform.Mac}:     "mac",
	{Firefox, platform.MacArm}:  "mac",
	{Firefox, platform.Linux}:   "linux-x86_64",
	{Firefox, platform.Android}: "android-x86_64",
}

// artifactFileNames maps platforms to the vendor's archive file name.
// Firefox names are templates; see expandFileName.
var artifactFileNames = map[schemaKey]string{
	{Chromium, platform.Windows}: "chrome-win.zip",
	{Chromium, platform.Mac}:     "chrome-mac.zip",
	{Chromium, platform.MacArm}:  "chrome-mac.zip",
	{Chromium, platform.Linux}:   "chrome-linux.zip",

	{Firefox, platform.Windows}: "Firefox Setup {version}.exe",
	{Firefox, platform.Mac}:     "Firefox {version}.dmg",
	{Firefox, platform.MacArm}:  "Firefox {version}.dmg",
	{Firefox, platform.Linux}:   "firefox-{version}.{tarext}",
}

func lookup(table map[schemaKey]string, name string, v Vendor, p platform.ID) (string, error) {
	if s, ok := table[schemaKey{v, p}]; ok {
		return s, nil
	}
	return "", &UnsupportedPlatformError{Vendor: v, Platform: p, Table: name}
}

// APIPlatformName returns the platform identifier the vendor's feed expects.
func APIPlatformName(v Vendor, p platform.ID) (string, error) {
	return lookup(apiPlatformNames, tableAPIPlatform, v, p)
}

// ArtifactDirName returns the vendor's archive directory for p.
func ArtifactDirName(v Vendor, p platform.ID) (string, error) {
	return lookup(artifactDirNames, tableDirName, v, p)
}

// ArtifactFileName returns the vendor's archive file name for p.
// Firefox names contain {version} and {tarext} placeholders.
func ArtifactFileName(v Vendor, p platform.ID) (string, error) {
	return lookup(artifactFileNames, tableFileName, v, p)
}

// channelTable lists each vendor's channels in display order.
var channelTable = map[Vendor][]ChannelOption{
	Chromium: {
		{Label: "Stable", Value: ChannelStable},
		{Label: "Beta", Value: ChannelBeta},
		{Label: "Dev", Value: ChannelDev},
		{Label: "Canary", Value: ChannelCanary},
	},
	Firefox: {
		{Label: "Stable", Value: ChannelStable},
		{Label: "Dev", Value: ChannelDev},
		{Label: "ESR", Value: ChannelESR},
	},
}

// Channels returns the channels offered by v.
func Channels(v Vendor) []ChannelOption {
	opts := channelTable[v]
	out := make([]ChannelOption, len(opts))
	copy(out, opts)
	return out
}

// ValidateChannel checks that c belongs to v's channel set.
func ValidateChannel(v Vendor, c Channel) error {
	for _, opt := range channelTable[v] {
		if opt.Value == c {
			return nil
		}
	}
	return &UnknownChannelError{Vendor: v, Channel: c}
}

// ParseChannel converts user input into a channel of v.
func ParseChannel(v Vendor, s string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if err := ValidateChannel(v, c); err != nil {
		return "", err
	}
	return c, nil
}

// ChromiumChannelToken returns the channel name used by the Chromium feed
// ("Stable", "Beta", ...).
func ChromiumChannelToken(c Channel) (string, error) {
	for _, opt := range channelTable[Chromium] {
		if opt.Value == c {
			return opt.Label, nil
		}
	}
	return "", &UnknownChannelError{Vendor: Chromium, Channel: c}
}

// FirefoxProduct returns the product-details product for c.
func FirefoxProduct(c Channel) string {
	if c == ChannelDev {
		return "devedition"
	}
	return "firefox"
}

// firefoxCategories maps channels to product-details release categories.
var firefoxCategories = map[Channel][]string{
	ChannelStable: {"major", "stability"},
	ChannelDev:    {"dev"},
	ChannelESR:    {"esr"},
}

// FirefoxCategories returns the release categories that belong to c.
func FirefoxCategories(c Channel) []string {
	cats := firefoxCategories[c]
	out := make([]string, len(cats))
	copy(out, cats)
	return out
}
