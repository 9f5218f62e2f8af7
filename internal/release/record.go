// Package release fetches vendor release feeds and turns them into sorted
// Version lists for a (vendor, channel, platform) selection.
package release

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/fetchcache"
)

// firefoxDateLayout is the product-details date format.
const firefoxDateLayout = "2006-01-02"

// ChromiumRelease is one entry of the Chromium dashboard feed.
type ChromiumRelease struct {
	Channel                    string            `json:"channel"`
	ChromiumMainBranchPosition int64             `json:"chromium_main_branch_position"`
	Hashes                     map[string]string `json:"hashes"`
	Milestone                  int               `json:"milestone"`
	Platform                   string            `json:"platform"`
	Time                       float64           `json:"time"` // epoch milliseconds
	Version                    string            `json:"version"`
	PreviousVersion            string            `json:"previous_version"`
}

// FirefoxRelease is one entry of the product-details "releases" map.
type FirefoxRelease struct {
	BuildNumber      int     `json:"build_number"`
	Category         string  `json:"category"`
	Date             string  `json:"date"`
	Description      *string `json:"description"`
	IsSecurityDriven bool    `json:"is_security_driven"`
	Product          string  `json:"product"`
	Version          string  `json:"version"`
}

// Record is a raw feed entry tagged with its vendor. Exactly one of
// Chromium and Firefox is set, matching Vendor.
type Record struct {
	Vendor   browser.Vendor
	Chromium *ChromiumRelease
	Firefox  *FirefoxRelease
}

// ChromiumRecord wraps a Chromium feed entry.
func ChromiumRecord(r ChromiumRelease) Record {
	return Record{Vendor: browser.Chromium, Chromium: &r}
}

// FirefoxRecord wraps a Firefox feed entry.
func FirefoxRecord(r FirefoxRelease) Record {
	return Record{Vendor: browser.Firefox, Firefox: &r}
}

// Version is a normalized release.
type Version struct {
	Label       string    `json:"label"`
	Value       string    `json:"value"` // comparison key: branch position or version string
	Date        time.Time `json:"date"`
	FullVersion string    `json:"full_version"`
}

// Normalize converts the record into a Version. Malformed dates are a
// *fetchcache.ParseError.
func (r Record) Normalize() (Version, error) {
	switch {
	case r.Vendor == browser.Chromium && r.Chromium != nil:
		return normalizeChromium(r.Chromium)
	case r.Vendor == browser.Firefox && r.Firefox != nil:
		return normalizeFirefox(r.Firefox)
	default:
		return Version{}, fmt.Errorf("malformed %q record: payload does not match vendor", r.Vendor)
	}
}

func normalizeChromium(c *ChromiumRelease) (Version, error) {
	if c.Time <= 0 {
		return Version{}, &fetchcache.ParseError{
			Detail: fmt.Sprintf("chromium release %s has invalid time %v", c.Version, c.Time),
		}
	}
	pos := strconv.FormatInt(c.ChromiumMainBranchPosition, 10)
	return Version{
		Label:       fmt.Sprintf("%s (r%s)", c.Version, pos),
		Value:       pos,
		Date:        time.UnixMilli(int64(c.Time)).UTC(),
		FullVersion: c.Version,
	}, nil
}

func normalizeFirefox(f *FirefoxRelease) (Version, error) {
	date, err := time.Parse(firefoxDateLayout, f.Date)
	if err != nil {
		return Version{}, &fetchcache.ParseError{
			Detail: fmt.Sprintf("firefox release %s has invalid date %q", f.Version, f.Date),
			Err:    err,
		}
	}
	label := f.Version
	if f.BuildNumber > 0 {
		label = fmt.Sprintf("%s (build %d)", f.Version, f.BuildNumber)
	}
	return Version{
		Label:       label,
		Value:       f.Version,
		Date:        date,
		FullVersion: f.Version,
	}, nil
}
