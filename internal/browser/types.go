// Package browser holds the vendor metadata schema: the static tables that
// translate a platform or channel into each vendor's own naming for feed
// queries, archive directories and archive file names.
//
// Every table is keyed by (Vendor, platform.ID). A missing entry is an
// *UnsupportedPlatformError, never an empty string.
package browser

import (
	"fmt"
	"strings"
)

// Vendor identifies a browser vendor.
type Vendor string

const (
	// Chromium is the open-source Chromium project
	Chromium Vendor = "chromium"
	// Firefox is Mozilla Firefox
	Firefox Vendor = "firefox"
)

// String returns the string representation of the vendor.
func (v Vendor) String() string {
	return string(v)
}

// Label returns the display name of the vendor.
func (v Vendor) Label() string {
	s := string(v)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Vendors returns all vendors in display order.
func Vendors() []Vendor {
	return []Vendor{Chromium, Firefox}
}

// ParseVendor converts user input into a Vendor.
func ParseVendor(s string) (Vendor, error) {
	v := Vendor(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case Chromium, Firefox:
		return v, nil
	default:
		return "", fmt.Errorf("unknown vendor %q (want chromium or firefox)", s)
	}
}

// Channel is a release track. Valid values depend on the vendor.
type Channel string

const (
	ChannelStable Channel = "stable"
	ChannelBeta   Channel = "beta"
	ChannelDev    Channel = "dev"
	ChannelCanary Channel = "canary"
	ChannelESR    Channel = "esr"
)

// String returns the string representation of the channel.
func (c Channel) String() string {
	return string(c)
}

// ChannelOption pairs a channel with its display label.
type ChannelOption struct {
	Label string  `json:"label"`
	Value Channel `json:"value"`
}
