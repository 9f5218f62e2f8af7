package release

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/fetchcache"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/testutil"
)

const chromiumFeedBody = `[
  {"channel":"Stable","chromium_main_branch_position":1400,"hashes":{"chromium":"aaa"},"milestone":120,"platform":"Linux","time":1700000000000,"version":"120.0.6099.71","previous_version":"120.0.6099.62"},
  {"channel":"Stable","chromium_main_branch_position":1500,"hashes":{"chromium":"bbb"},"milestone":121,"platform":"Linux","time":1705000000000,"version":"121.0.6167.85","previous_version":"120.0.6099.71"},
  {"channel":"Beta","chromium_main_branch_position":1600,"hashes":{},"milestone":122,"platform":"Linux","time":1706000000000,"version":"122.0.6261.6","previous_version":""},
  {"channel":"Stable","chromium_main_branch_position":1550,"hashes":{},"milestone":121,"platform":"Windows","time":1705500000000,"version":"121.0.6167.140","previous_version":""}
]`

const firefoxFeedBody = `{"releases":{
  "firefox-120.0":{"build_number":2,"category":"major","date":"2023-11-21","description":null,"is_security_driven":false,"product":"firefox","version":"120.0"},
  "firefox-120.0.1":{"build_number":1,"category":"stability","date":"2023-11-30","description":null,"is_security_driven":false,"product":"firefox","version":"120.0.1"},
  "firefox-121.0b5":{"build_number":1,"category":"dev","date":"2023-11-30","description":null,"is_security_driven":false,"product":"firefox","version":"121.0b5"},
  "firefox-115.5.0esr":{"build_number":1,"category":"esr","date":"2023-11-21","description":null,"is_security_driven":true,"product":"firefox","version":"115.5.0esr"}
}}`

const deveditionFeedBody = `{"releases":{
  "devedition-121.0b5":{"build_number":1,"category":"dev","date":"2023-11-30","description":null,"is_security_driven":false,"product":"devedition","version":"121.0b5"},
  "firefox-121.0b4":{"build_number":1,"category":"dev","date":"2023-11-28","description":null,"is_security_driven":false,"product":"firefox","version":"121.0b4"}
}}`

type fixture struct {
	feeds    *testutil.FeedServer
	resolver *Resolver
}

func newFixture(t *testing.T, enabled bool) *fixture {
	t.Helper()

	feeds := testutil.NewFeedServer(t)
	feeds.Handle("/fetch_releases", chromiumFeedBody)
	feeds.Handle("/1.0/firefox.json", firefoxFeedBody)
	feeds.Handle("/1.0/devedition.json", deveditionFeedBody)

	store, err := fetchcache.NewMemoryStore(0)
	if err != nil {
		t.Fatalf("NewMemoryStore() error = %v", err)
	}
	cache, err := fetchcache.New(fetchcache.Options{
		Store:   store,
		Fetcher: fetchcache.NewHTTPFetcher(fetchcache.HTTPOptions{Timeout: 5 * time.Second}),
		Clock:   testutil.FixedClock(),
		Enabled: enabled,
	})
	if err != nil {
		t.Fatalf("fetchcache.New() error = %v", err)
	}

	r, err := NewResolver(Options{
		Cache:           cache,
		TTL:             time.Hour,
		ChromiumBaseURL: feeds.URL,
		FirefoxBaseURL:  feeds.URL + "/",
	})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}
	return &fixture{feeds: feeds, resolver: r}
}

func values(versions []Version) []string {
	out := make([]string, len(versions))
	for i, v := range versions {
		out[i] = v.Value
	}
	return out
}

func TestResolve_ChromiumStableLinux(t *testing.T) {
	f := newFixture(t, false)

	got, err := f.resolver.Resolve(context.Background(), browser.Chromium, browser.ChannelStable, platform.Linux)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if v := values(got); len(v) != 2 || v[0] != "1500" || v[1] != "1400" {
		t.Fatalf("values = %v, want [1500 1400]", v)
	}
	if got[0].Label != "121.0.6167.85 (r1500)" {
		t.Errorf("Label = %q", got[0].Label)
	}
	if got[0].FullVersion != "121.0.6167.85" {
		t.Errorf("FullVersion = %q", got[0].FullVersion)
	}
	if !got[0].Date.Equal(time.UnixMilli(1705000000000)) {
		t.Errorf("Date = %v", got[0].Date)
	}

	q, err := url.ParseQuery(f.feeds.Queries()[0])
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	if q.Get("channel") != "Stable" || q.Get("platform") != "Linux" || q.Get("num") != "20" {
		t.Errorf("feed query = %v", q)
	}
}

func TestResolve_FirefoxDevUsesDevEdition(t *testing.T) {
	f := newFixture(t, false)

	got, err := f.resolver.Resolve(context.Background(), browser.Firefox, browser.ChannelDev, platform.Mac)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (%v)", len(got), values(got))
	}
	if got[0].Value != "121.0b5" {
		t.Errorf("Value = %q, want 121.0b5", got[0].Value)
	}
	if got[0].Label != "121.0b5 (build 1)" {
		t.Errorf("Label = %q", got[0].Label)
	}
	if f.feeds.Hits("/1.0/devedition.json") != 1 || f.feeds.Hits("/1.0/firefox.json") != 0 {
		t.Error("dev channel should query the devedition feed only")
	}
}

func TestResolve_FirefoxStableAndESR(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	stable, err := f.resolver.Resolve(ctx, browser.Firefox, browser.ChannelStable, platform.Windows)
	if err != nil {
		t.Fatalf("Resolve(stable) error = %v", err)
	}
	if v := values(stable); len(v) != 2 || v[0] != "120.0.1" || v[1] != "120.0" {
		t.Errorf("stable values = %v, want [120.0.1 120.0]", v)
	}

	esr, err := f.resolver.Resolve(ctx, browser.Firefox, browser.ChannelESR, platform.Linux)
	if err != nil {
		t.Fatalf("Resolve(esr) error = %v", err)
	}
	if v := values(esr); len(v) != 1 || v[0] != "115.5.0esr" {
		t.Errorf("esr values = %v", v)
	}
}

func TestResolve_FilterSoundness(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	for _, v := range browser.Vendors() {
		for _, ch := range browser.Channels(v) {
			for _, opt := range platform.Options() {
				got, err := f.resolver.Resolve(ctx, v, ch.Value, opt.Value)
				if err != nil {
					t.Fatalf("Resolve(%s, %s, %s) error = %v", v, ch.Value, opt.Value, err)
				}
				for i := 1; i < len(got); i++ {
					if got[i].Date.After(got[i-1].Date) {
						t.Errorf("Resolve(%s, %s, %s) not sorted by date: %v", v, ch.Value, opt.Value, values(got))
					}
				}
				if v == browser.Chromium && ch.Value == browser.ChannelStable && opt.Value == platform.Windows {
					if vals := values(got); len(vals) != 1 || vals[0] != "1550" {
						t.Errorf("chromium stable windows = %v, want [1550]", vals)
					}
				}
				if v == browser.Chromium && ch.Value == browser.ChannelCanary && len(got) != 0 {
					t.Errorf("chromium canary = %v, want empty", values(got))
				}
			}
		}
	}
}

func TestResolve_EmptyFeedIsNotAnError(t *testing.T) {
	f := newFixture(t, false)
	f.feeds.Handle("/fetch_releases", `[]`)

	got, err := f.resolver.Resolve(context.Background(), browser.Chromium, browser.ChannelDev, platform.Mac)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Resolve() = %v, want empty non-nil slice", got)
	}
}

func TestResolve_Errors(t *testing.T) {
	ctx := context.Background()

	for _, v := range []browser.Vendor{browser.Chromium, browser.Firefox} {
		t.Run("unsupported platform "+string(v), func(t *testing.T) {
			f := newFixture(t, false)
			_, err := f.resolver.Resolve(ctx, v, browser.ChannelStable, platform.Android)
			if !errors.Is(err, browser.ErrUnsupportedPlatform) {
				t.Errorf("error = %v, want ErrUnsupportedPlatform", err)
			}
			if len(f.feeds.Queries()) != 0 {
				t.Error("feed should not be queried for an unsupported platform")
			}
		})
	}

	t.Run("unknown channel", func(t *testing.T) {
		f := newFixture(t, false)
		_, err := f.resolver.Resolve(ctx, browser.Firefox, browser.ChannelCanary, platform.Linux)
		var uce *browser.UnknownChannelError
		if !errors.As(err, &uce) {
			t.Errorf("error = %v, want *UnknownChannelError", err)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		f := newFixture(t, false)
		f.feeds.Fail("/fetch_releases", 502)
		_, err := f.resolver.Resolve(ctx, browser.Chromium, browser.ChannelStable, platform.Linux)
		var fe *fetchcache.FetchError
		if !errors.As(err, &fe) || fe.StatusCode != 502 {
			t.Errorf("error = %v, want *FetchError with status 502", err)
		}
	})

	t.Run("firefox feed without releases", func(t *testing.T) {
		f := newFixture(t, false)
		f.feeds.Handle("/1.0/firefox.json", `{"version":"1.0"}`)
		_, err := f.resolver.Resolve(ctx, browser.Firefox, browser.ChannelStable, platform.Linux)
		var pe *fetchcache.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("error = %v, want *ParseError", err)
		}
	})

	t.Run("chromium feed wrong shape", func(t *testing.T) {
		f := newFixture(t, false)
		f.feeds.Handle("/fetch_releases", `{"releases":[]}`)
		_, err := f.resolver.Resolve(ctx, browser.Chromium, browser.ChannelStable, platform.Linux)
		var pe *fetchcache.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("error = %v, want *ParseError", err)
		}
	})

	t.Run("bad firefox date", func(t *testing.T) {
		f := newFixture(t, false)
		f.feeds.Handle("/1.0/firefox.json",
			`{"releases":{"firefox-1.0":{"category":"major","date":"yesterday","product":"firefox","version":"1.0"}}}`)
		_, err := f.resolver.Resolve(ctx, browser.Firefox, browser.ChannelStable, platform.Linux)
		var pe *fetchcache.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("error = %v, want *ParseError", err)
		}
		if !strings.HasSuffix(pe.URL, "/1.0/firefox.json") {
			t.Errorf("ParseError.URL = %q, want feed URL", pe.URL)
		}
	})
}

func TestResolve_CachedWithinTTL(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.resolver.Resolve(ctx, browser.Firefox, browser.ChannelESR, platform.Linux); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}
	if hits := f.feeds.Hits("/1.0/firefox.json"); hits != 1 {
		t.Errorf("feed hits = %d, want 1 with caching enabled", hits)
	}
}

func TestResolve_UncachedInProduction(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.resolver.Resolve(ctx, browser.Firefox, browser.ChannelESR, platform.Linux); err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
	}
	if hits := f.feeds.Hits("/1.0/firefox.json"); hits != 2 {
		t.Errorf("feed hits = %d, want 2 with caching disabled", hits)
	}
}

func TestFeedURL(t *testing.T) {
	r, err := NewResolver(Options{Cache: mustDisabledCache(t), ChromiumLimit: 5})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	tests := []struct {
		v    browser.Vendor
		c    browser.Channel
		p    platform.ID
		want string
	}{
		{browser.Chromium, browser.ChannelCanary, platform.MacArm,
			"https://chromiumdash.appspot.com/fetch_releases?channel=Canary&platform=Mac&num=5"},
		{browser.Firefox, browser.ChannelStable, platform.Linux,
			"https://product-details.mozilla.org/1.0/firefox.json"},
		{browser.Firefox, browser.ChannelDev, platform.Windows,
			"https://product-details.mozilla.org/1.0/devedition.json"},
	}
	for _, tt := range tests {
		got, err := r.FeedURL(tt.v, tt.c, tt.p)
		if err != nil {
			t.Errorf("FeedURL(%s, %s, %s) error = %v", tt.v, tt.c, tt.p, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FeedURL(%s, %s, %s) = %q, want %q", tt.v, tt.c, tt.p, got, tt.want)
		}
	}
}

func TestNewResolver_RequiresCache(t *testing.T) {
	if _, err := NewResolver(Options{}); err == nil {
		t.Error("NewResolver() expected error without cache")
	}
}

func TestArtifact(t *testing.T) {
	ver := Version{Value: "1500", FullVersion: "121.0.6167.85"}

	a, err := Artifact(browser.Chromium, browser.ChannelStable, platform.Linux, ver)
	if err != nil {
		t.Fatalf("Artifact() error = %v", err)
	}
	if !strings.HasSuffix(a.URL, "/Linux_x64/1500/chrome-linux.zip") {
		t.Errorf("URL = %q", a.URL)
	}

	a, err = Artifact(browser.Firefox, browser.ChannelStable, platform.Mac, Version{Value: "120.0"})
	if err != nil {
		t.Fatalf("Artifact() error = %v", err)
	}
	if a.FileName != "Firefox 120.0.dmg" {
		t.Errorf("FileName = %q", a.FileName)
	}
}

func mustDisabledCache(t *testing.T) *fetchcache.Cache {
	t.Helper()
	c, err := fetchcache.New(fetchcache.Options{})
	if err != nil {
		t.Fatalf("fetchcache.New() error = %v", err)
	}
	return c
}
