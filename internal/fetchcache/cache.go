package fetchcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
)

// DefaultTTL is used when neither the caller nor Options supply a TTL.
const DefaultTTL = 24 * time.Hour

// Options configures a Cache.
type Options struct {
	Store      Store   // required when Enabled
	Fetcher    Fetcher // defaults to an HTTPFetcher with default options
	Clock      Clock
	Enabled    bool // development mode; false means every Get is a live fetch
	DefaultTTL time.Duration
	Logger     Logger
}

// Cache is a TTL cache in front of a Fetcher.
type Cache struct {
	store      Store
	fetcher    Fetcher
	clock      Clock
	enabled    bool
	defaultTTL time.Duration
	logger     Logger
}

// New creates a Cache.
func New(opts Options) (*Cache, error) {
	if opts.Enabled && opts.Store == nil {
		return nil, errors.New("cache store is required when caching is enabled")
	}
	c := &Cache{
		store:      opts.Store,
		fetcher:    opts.Fetcher,
		clock:      opts.Clock,
		enabled:    opts.Enabled,
		defaultTTL: opts.DefaultTTL,
		logger:     opts.Logger,
	}
	if c.fetcher == nil {
		c.fetcher = NewHTTPFetcher(HTTPOptions{})
	}
	if c.clock == nil {
		c.clock = RealClock{}
	}
	if c.defaultTTL <= 0 {
		c.defaultTTL = DefaultTTL
	}
	if c.logger == nil {
		c.logger = config.NopLogger{}
	}
	return c, nil
}

// Enabled reports whether responses are cached.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Get returns the JSON body of url, from the store when a valid entry
// exists and from the network otherwise. ttl <= 0 uses the default TTL.
func (c *Cache) Get(ctx context.Context, url string, ttl time.Duration) (json.RawMessage, error) {
	if !c.enabled {
		return c.fetch(ctx, url)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if body, ok := c.lookup(ctx, url); ok {
		c.logger.Debug("cache hit", "url", url)
		return body, nil
	}
	c.logger.Debug("cache miss", "url", url)

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	c.save(ctx, url, body, c.clock.Now().Add(ttl))
	return body, nil
}

// fetch performs a live fetch and validates the body.
func (c *Cache) fetch(ctx context.Context, url string) (json.RawMessage, error) {
	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, &FetchError{URL: url, Err: err}
	}
	if !json.Valid(body) {
		return nil, &ParseError{URL: url, Detail: "response is not valid JSON"}
	}
	return json.RawMessage(body), nil
}

// lookup returns the stored body when both keys exist and the entry has not
// expired. Store errors count as a miss.
func (c *Cache) lookup(ctx context.Context, url string) (json.RawMessage, bool) {
	rawExpiry, ok, err := c.store.Get(ctx, ExpiryKey(url))
	if err != nil {
		c.logger.Warn("cache read failed", "key", ExpiryKey(url), "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	expiresAt, err := parseExpiry(rawExpiry)
	if err != nil {
		c.logger.Warn("cache expiry unreadable", "key", ExpiryKey(url), "error", err)
		return nil, false
	}
	if !c.clock.Now().Before(expiresAt) {
		return nil, false
	}

	body, ok, err := c.store.Get(ctx, Key(url))
	if err != nil {
		c.logger.Warn("cache read failed", "key", Key(url), "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return json.RawMessage(body), true
}

// save writes the payload first, then its expiry. Failures are logged only.
func (c *Cache) save(ctx context.Context, url string, body []byte, expiresAt time.Time) {
	if err := c.store.Set(ctx, Key(url), body); err != nil {
		c.logger.Warn("cache write failed", "key", Key(url), "error", err)
		return
	}
	if err := c.store.Set(ctx, ExpiryKey(url), formatExpiry(expiresAt)); err != nil {
		c.logger.Warn("cache write failed", "key", ExpiryKey(url), "error", err)
	}
}

// Entries lists the cached responses, sorted by URL.
func (c *Cache) Entries(ctx context.Context) ([]Entry, error) {
	if c.store == nil {
		return nil, nil
	}
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cache keys: %w", err)
	}

	var entries []Entry
	for _, key := range keys {
		url, ok := urlFromKey(key)
		if !ok {
			continue
		}
		payload, found, err := c.store.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read cache entry %s: %w", key, err)
		}
		if !found {
			continue
		}

		entry := Entry{Key: key, URL: url, Payload: payload, Size: len(payload)}
		if raw, found, err := c.store.Get(ctx, ExpiryKey(url)); err == nil && found {
			if t, err := parseExpiry(raw); err == nil {
				entry.ExpiresAt = t
			}
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].URL < entries[j].URL })
	return entries, nil
}

// Clear removes every entry from the store.
func (c *Cache) Clear(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// FetchJSON retrieves url through c and decodes it into T.
func FetchJSON[T any](ctx context.Context, c *Cache, url string, ttl time.Duration) (T, error) {
	var out T
	body, err := c.Get(ctx, url, ttl)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, &ParseError{URL: url, Detail: fmt.Sprintf("decode into %T", out), Err: err}
	}
	return out, nil
}
