package release

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/fetchcache"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

const (
	// DefaultChromiumBaseURL serves the Chromium release dashboard feed
	DefaultChromiumBaseURL = "https://chromiumdash.appspot.com"
	// DefaultFirefoxBaseURL serves Mozilla product-details
	DefaultFirefoxBaseURL = "https://product-details.mozilla.org"
	// DefaultChromiumLimit is the number of Chromium releases requested
	DefaultChromiumLimit = 20
)

// Options configures a Resolver.
type Options struct {
	Cache           *fetchcache.Cache // required
	TTL             time.Duration     // <= 0 uses the cache default
	ChromiumBaseURL string
	FirefoxBaseURL  string
	ChromiumLimit   int
	Logger          Logger
}

// Resolver turns a selection into a sorted list of versions.
type Resolver struct {
	cache         *fetchcache.Cache
	ttl           time.Duration
	chromiumBase  string
	firefoxBase   string
	chromiumLimit int
	logger        Logger
}

// NewResolver creates a Resolver.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Cache == nil {
		return nil, errors.New("release resolver requires a cache")
	}
	r := &Resolver{
		cache:         opts.Cache,
		ttl:           opts.TTL,
		chromiumBase:  strings.TrimRight(opts.ChromiumBaseURL, "/"),
		firefoxBase:   strings.TrimRight(opts.FirefoxBaseURL, "/"),
		chromiumLimit: opts.ChromiumLimit,
		logger:        opts.Logger,
	}
	if r.chromiumBase == "" {
		r.chromiumBase = DefaultChromiumBaseURL
	}
	if r.firefoxBase == "" {
		r.firefoxBase = DefaultFirefoxBaseURL
	}
	if r.chromiumLimit <= 0 {
		r.chromiumLimit = DefaultChromiumLimit
	}
	if r.logger == nil {
		r.logger = config.NopLogger{}
	}
	return r, nil
}

// FeedURL returns the feed queried for the selection. A platform the
// vendor ships no archive for is rejected here, before any fetch.
func (r *Resolver) FeedURL(v browser.Vendor, c browser.Channel, p platform.ID) (string, error) {
	if err := browser.ValidateChannel(v, c); err != nil {
		return "", err
	}
	if _, err := browser.ArtifactFileName(v, p); err != nil {
		return "", err
	}

	switch v {
	case browser.Chromium:
		token, err := browser.ChromiumChannelToken(c)
		if err != nil {
			return "", err
		}
		api, err := browser.APIPlatformName(v, p)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s/fetch_releases?channel=%s&platform=%s&num=%d",
			r.chromiumBase, url.QueryEscape(token), url.QueryEscape(api), r.chromiumLimit), nil
	case browser.Firefox:
		return fmt.Sprintf("%s/1.0/%s.json", r.firefoxBase, browser.FirefoxProduct(c)), nil
	default:
		return "", fmt.Errorf("unknown vendor: %s", v)
	}
}

// Resolve returns the versions matching the selection, newest first. An
// empty result is not an error.
func (r *Resolver) Resolve(ctx context.Context, v browser.Vendor, c browser.Channel, p platform.ID) ([]Version, error) {
	feedURL, err := r.FeedURL(v, c, p)
	if err != nil {
		return nil, err
	}

	records, err := r.fetchRecords(ctx, v, feedURL)
	if err != nil {
		return nil, err
	}

	matches, err := newFilter(v, c, p)
	if err != nil {
		return nil, err
	}

	versions := make([]Version, 0, len(records))
	for _, rec := range records {
		if !matches(rec) {
			continue
		}
		ver, err := rec.Normalize()
		if err != nil {
			var pe *fetchcache.ParseError
			if errors.As(err, &pe) && pe.URL == "" {
				pe.URL = feedURL
			}
			return nil, fmt.Errorf("normalize release: %w", err)
		}
		versions = append(versions, ver)
	}

	SortVersions(v, versions)

	r.logger.Debug("resolved releases",
		"vendor", v, "channel", c, "platform", p,
		"records", len(records), "versions", len(versions))
	return versions, nil
}

// chromiumFeed and firefoxFeed are the wire shapes of the two feeds.
type (
	chromiumFeed []ChromiumRelease
	firefoxFeed  struct {
		Releases map[string]FirefoxRelease `json:"releases"`
	}
)

// fetchRecords loads the feed and wraps every entry as a Record. Firefox
// entries are returned in key order.
func (r *Resolver) fetchRecords(ctx context.Context, v browser.Vendor, feedURL string) ([]Record, error) {
	switch v {
	case browser.Chromium:
		feed, err := fetchcache.FetchJSON[chromiumFeed](ctx, r.cache, feedURL, r.ttl)
		if err != nil {
			return nil, fmt.Errorf("load chromium releases: %w", err)
		}
		records := make([]Record, 0, len(feed))
		for _, rel := range feed {
			records = append(records, ChromiumRecord(rel))
		}
		return records, nil

	case browser.Firefox:
		feed, err := fetchcache.FetchJSON[firefoxFeed](ctx, r.cache, feedURL, r.ttl)
		if err != nil {
			return nil, fmt.Errorf("load firefox releases: %w", err)
		}
		if feed.Releases == nil {
			return nil, fmt.Errorf("load firefox releases: %w",
				&fetchcache.ParseError{URL: feedURL, Detail: `missing "releases" object`})
		}
		keys := make([]string, 0, len(feed.Releases))
		for k := range feed.Releases {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		records := make([]Record, 0, len(keys))
		for _, k := range keys {
			records = append(records, FirefoxRecord(feed.Releases[k]))
		}
		return records, nil

	default:
		return nil, fmt.Errorf("unknown vendor: %s", v)
	}
}

// newFilter returns the predicate selecting records for the selection.
func newFilter(v browser.Vendor, c browser.Channel, p platform.ID) (func(Record) bool, error) {
	switch v {
	case browser.Chromium:
		token, err := browser.ChromiumChannelToken(c)
		if err != nil {
			return nil, err
		}
		api, err := browser.APIPlatformName(v, p)
		if err != nil {
			return nil, err
		}
		return func(rec Record) bool {
			return rec.Chromium != nil && rec.Chromium.Channel == token && rec.Chromium.Platform == api
		}, nil

	case browser.Firefox:
		product := browser.FirefoxProduct(c)
		categories := make(map[string]bool)
		for _, cat := range browser.FirefoxCategories(c) {
			categories[cat] = true
		}
		return func(rec Record) bool {
			return rec.Firefox != nil && categories[rec.Firefox.Category] && rec.Firefox.Product == product
		}, nil

	default:
		return nil, fmt.Errorf("unknown vendor: %s", v)
	}
}

// Artifact returns the download location of ver.
func Artifact(v browser.Vendor, c browser.Channel, p platform.ID, ver Version) (*browser.Artifact, error) {
	return browser.ResolveArtifact(v, c, p, ver.Value)
}
