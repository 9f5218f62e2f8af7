// Package service wires configuration, the fetch cache and the release
// resolver into the operations offered by the getbrowser CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/fetchcache"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/release"
)

// Options carries the collaborators of a Service. Zero values use the real
// implementations.
type Options struct {
	Logger   Logger
	Clock    Clock
	Detector platform.Detector
	Fetcher  fetchcache.Fetcher
	Store    fetchcache.Store // overrides the store built from the config
}

// Service answers release queries for one configuration.
type Service struct {
	cfg      *config.Config
	opts     Options
	logger   Logger
	detector platform.Detector
	cache    *fetchcache.Cache
	resolver *release.Resolver

	mu    sync.Mutex
	store fetchcache.Store
}

// New creates a Service. The cache store is opened only when caching is
// enabled; the cache commands open it on demand otherwise.
func New(cfg *config.Config, opts Options) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = config.NopLogger{}
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Detector == nil {
		opts.Detector = platform.NewDetector()
	}
	if opts.Fetcher == nil {
		opts.Fetcher = fetchcache.NewHTTPFetcher(fetchcache.HTTPOptions{
			Timeout:   cfg.HTTPTimeout(),
			UserAgent: cfg.HTTP.UserAgent,
		})
	}

	s := &Service{
		cfg:      cfg,
		opts:     opts,
		logger:   opts.Logger,
		detector: opts.Detector,
		store:    opts.Store,
	}

	var store fetchcache.Store
	if cfg.CachingEnabled() {
		st, err := s.openStore()
		if err != nil {
			return nil, err
		}
		store = st
	}

	cache, err := fetchcache.New(fetchcache.Options{
		Store:      store,
		Fetcher:    opts.Fetcher,
		Clock:      opts.Clock,
		Enabled:    cfg.CachingEnabled(),
		DefaultTTL: cfg.CacheTTL(),
		Logger:     opts.Logger,
	})
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.cache = cache

	resolver, err := release.NewResolver(release.Options{
		Cache:           cache,
		TTL:             cfg.CacheTTL(),
		ChromiumBaseURL: cfg.Feeds.Chromium,
		FirefoxBaseURL:  cfg.Feeds.Firefox,
		ChromiumLimit:   cfg.Feeds.ChromiumLimit,
		Logger:          opts.Logger,
	})
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.resolver = resolver

	s.logger.Debug("service ready",
		"mode", cfg.Mode, "backend", cfg.Cache.Backend, "caching", cfg.CachingEnabled())
	return s, nil
}

// Config returns the effective configuration.
func (s *Service) Config() *config.Config {
	return s.cfg
}

// openStore returns the configured store, opening it on first use.
func (s *Service) openStore() (fetchcache.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store, nil
	}
	st, err := fetchcache.NewStoreFromConfig(s.cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}
	s.store = st
	return st, nil
}

// Close releases the cache store.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// DetectPlatform reports the host platform.
func (s *Service) DetectPlatform(ctx context.Context) *platform.Info {
	return s.detector.Detect(ctx)
}

// Selection is a fully resolved vendor/channel/platform triple.
type Selection struct {
	Vendor   browser.Vendor  `json:"vendor"`
	Channel  browser.Channel `json:"channel"`
	Platform platform.ID     `json:"platform"`
	Detected bool            `json:"detected"` // platform came from host detection
}

// Select fills empty fields from the configured defaults. A missing
// platform falls back to detection; a configured default channel that the
// vendor does not offer falls back to the vendor's first channel.
func (s *Service) Select(ctx context.Context, vendor, channel, plat string) (Selection, error) {
	var sel Selection

	if strings.TrimSpace(vendor) == "" {
		vendor = s.cfg.Defaults.Vendor
	}
	if strings.TrimSpace(vendor) == "" {
		vendor = string(browser.Chromium)
	}
	v, err := browser.ParseVendor(vendor)
	if err != nil {
		return sel, err
	}
	sel.Vendor = v

	if strings.TrimSpace(channel) == "" {
		channel = s.defaultChannel(v)
	}
	c, err := browser.ParseChannel(v, channel)
	if err != nil {
		return sel, err
	}
	sel.Channel = c

	if strings.TrimSpace(plat) == "" {
		plat = s.cfg.Defaults.Platform
	}
	if strings.TrimSpace(plat) == "" {
		sel.Platform = s.detector.Detect(ctx).ID
		sel.Detected = true
		return sel, nil
	}
	p, err := platform.Parse(plat)
	if err != nil {
		return sel, err
	}
	sel.Platform = p
	return sel, nil
}

func (s *Service) defaultChannel(v browser.Vendor) string {
	if c, err := browser.ParseChannel(v, s.cfg.Defaults.Channel); err == nil {
		return string(c)
	}
	if opts := browser.Channels(v); len(opts) > 0 {
		return string(opts[0].Value)
	}
	return ""
}

// ReleasesRequest selects the releases to list. Empty fields use defaults.
type ReleasesRequest struct {
	Vendor   string
	Channel  string
	Platform string
	Limit    int // <= 0 means no limit
}

// ReleaseItem is a resolved version with its download location.
type ReleaseItem struct {
	Version  release.Version `json:"version"`
	URL      string          `json:"url"`
	FileName string          `json:"file_name"`
}

// ReleasesResult is the answer to a ReleasesRequest, newest first.
type ReleasesResult struct {
	Selection
	Releases []ReleaseItem `json:"releases"`
}

// Releases resolves the versions of a selection and their artifacts.
func (s *Service) Releases(ctx context.Context, req ReleasesRequest) (*ReleasesResult, error) {
	sel, err := s.Select(ctx, req.Vendor, req.Channel, req.Platform)
	if err != nil {
		return nil, err
	}

	versions, err := s.resolver.Resolve(ctx, sel.Vendor, sel.Channel, sel.Platform)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(versions) > req.Limit {
		versions = versions[:req.Limit]
	}

	items := make([]ReleaseItem, 0, len(versions))
	for _, ver := range versions {
		a, err := release.Artifact(sel.Vendor, sel.Channel, sel.Platform, ver)
		if err != nil {
			return nil, err
		}
		items = append(items, ReleaseItem{Version: ver, URL: a.URL, FileName: a.FileName})
	}

	s.logger.Debug("releases resolved",
		"vendor", sel.Vendor, "channel", sel.Channel, "platform", sel.Platform, "count", len(items))
	return &ReleasesResult{Selection: sel, Releases: items}, nil
}

// ArtifactRequest identifies one build. Empty selection fields use defaults.
type ArtifactRequest struct {
	Vendor   string
	Channel  string
	Platform string
	Value    string // main-branch position or Firefox version
}

// ArtifactResult is the download location of one build.
type ArtifactResult struct {
	Selection
	Value string `json:"value"`
	browser.Artifact
}

// ArtifactURL builds the download location of a build without any network
// access.
func (s *Service) ArtifactURL(ctx context.Context, req ArtifactRequest) (*ArtifactResult, error) {
	if strings.TrimSpace(req.Value) == "" {
		return nil, errors.New("build identifier is required")
	}
	sel, err := s.Select(ctx, req.Vendor, req.Channel, req.Platform)
	if err != nil {
		return nil, err
	}
	a, err := browser.ResolveArtifact(sel.Vendor, sel.Channel, sel.Platform, strings.TrimSpace(req.Value))
	if err != nil {
		return nil, err
	}
	return &ArtifactResult{Selection: sel, Value: strings.TrimSpace(req.Value), Artifact: *a}, nil
}

// CacheStatus summarizes the cache store.
type CacheStatus struct {
	Enabled bool               `json:"enabled"`
	Backend string             `json:"backend"`
	Entries []fetchcache.Entry `json:"entries"`
}

// CacheEntries lists the stored responses. It works in either mode.
func (s *Service) CacheEntries(ctx context.Context) (*CacheStatus, error) {
	status := &CacheStatus{
		Enabled: s.cfg.CachingEnabled(),
		Backend: s.cfg.Cache.Backend,
		Entries: []fetchcache.Entry{},
	}
	view, err := s.cacheView()
	if err != nil {
		return nil, err
	}
	if view == nil {
		return status, nil
	}
	status.Enabled = view.Enabled()

	entries, err := view.Entries(ctx)
	if err != nil {
		return nil, err
	}
	if entries != nil {
		status.Entries = entries
	}
	return status, nil
}

// ClearCache empties the store and returns the number of responses removed.
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	view, err := s.cacheView()
	if err != nil || view == nil {
		return 0, err
	}
	entries, err := view.Entries(ctx)
	if err != nil {
		return 0, err
	}
	if err := view.Clear(ctx); err != nil {
		return 0, err
	}
	s.logger.Info("cache cleared", "backend", s.cfg.Cache.Backend, "entries", len(entries))
	return len(entries), nil
}

// cacheView returns a cache over the configured store for inspection. In
// production mode it returns nil when the store has never been written, so
// inspecting the cache does not create it.
func (s *Service) cacheView() (*fetchcache.Cache, error) {
	if s.cfg.CachingEnabled() {
		return s.cache, nil
	}
	s.mu.Lock()
	opened := s.store != nil
	s.mu.Unlock()
	if !opened {
		exists, err := fetchcache.StoreExists(s.cfg.Cache)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, nil
		}
	}
	st, err := s.openStore()
	if err != nil {
		return nil, err
	}
	return fetchcache.New(fetchcache.Options{
		Store:   st,
		Fetcher: s.opts.Fetcher,
		Clock:   s.opts.Clock,
		Logger:  s.logger,
	})
}
