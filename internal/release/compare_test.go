package release

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/fetchcache"
)

func TestCompareChromiumValues_Numeric(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"10", "9", 1},
		{"9", "10", -1},
		{"1500", "1500", 0},
		{"100000", "99999", 1},
		{"abc", "1", -1},
		{"1", "abc", 1},
	}
	for _, tt := range tests {
		if got := compareChromiumValues(tt.a, tt.b); got != tt.want {
			t.Errorf("compareChromiumValues(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCompareFirefoxVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"10.0", "9.0", 1},
		{"120.0.1", "120.0", 1},
		{"121.0b5", "121.0b4", 1},
		{"121.0b10", "121.0b9", 1},
		{"121.0", "121.0b5", 1},
		{"121.0rc1", "121.0b9", 1},
		{"115.5.0esr", "115.4.0esr", 1},
		{"115.5.0esr", "115.5.0", 0},
		{"nightly", "1.0", -1},
	}
	for _, tt := range tests {
		if got := compareFirefoxVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareFirefoxVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseFirefoxVersion(t *testing.T) {
	tests := map[string]string{
		"121.0b5":    "121.0.0-b.5",
		"115.5.0esr": "115.5.0",
		"120.0.1":    "120.0.1",
		"3.6a1":      "3.6.0-a.1",
	}
	for in, want := range tests {
		got, err := parseFirefoxVersion(in)
		if err != nil {
			t.Errorf("parseFirefoxVersion(%q) error = %v", in, err)
			continue
		}
		if got.String() != want {
			t.Errorf("parseFirefoxVersion(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestSortVersions_DateThenValue(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	versions := []Version{
		{Value: "9", Date: day},
		{Value: "12", Date: day.Add(-24 * time.Hour)},
		{Value: "10", Date: day},
		{Value: "11", Date: day.Add(24 * time.Hour)},
	}

	SortVersions(browser.Chromium, versions)

	want := []string{"11", "10", "9", "12"}
	for i, v := range versions {
		if v.Value != want[i] {
			t.Fatalf("order = %v, want %v", values(versions), want)
		}
	}
}

func TestSortVersions_DateNonIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	for round := 0; round < 50; round++ {
		versions := make([]Version, 20)
		for i := range versions {
			versions[i] = Version{
				Value: "1." + string(rune('0'+rng.Intn(10))),
				Date:  base.Add(time.Duration(rng.Intn(5)) * 24 * time.Hour),
			}
		}
		SortVersions(browser.Firefox, versions)
		for i := 1; i < len(versions); i++ {
			if versions[i].Date.After(versions[i-1].Date) {
				t.Fatalf("round %d: not sorted at %d", round, i)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Run("chromium", func(t *testing.T) {
		v, err := ChromiumRecord(ChromiumRelease{
			ChromiumMainBranchPosition: 1313161,
			Time:                       1717000000000,
			Version:                    "126.0.6478.55",
		}).Normalize()
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if v.Value != "1313161" || v.Label != "126.0.6478.55 (r1313161)" {
			t.Errorf("Normalize() = %+v", v)
		}
	})

	t.Run("chromium zero time", func(t *testing.T) {
		_, err := ChromiumRecord(ChromiumRelease{Version: "1.0"}).Normalize()
		var pe *fetchcache.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("error = %v, want *ParseError", err)
		}
	})

	t.Run("firefox without build number", func(t *testing.T) {
		v, err := FirefoxRecord(FirefoxRelease{Version: "120.0", Date: "2023-11-21"}).Normalize()
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if v.Label != "120.0" {
			t.Errorf("Label = %q, want 120.0", v.Label)
		}
		if !v.Date.Equal(time.Date(2023, 11, 21, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("Date = %v", v.Date)
		}
	})

	t.Run("mismatched payload", func(t *testing.T) {
		_, err := Record{Vendor: browser.Firefox}.Normalize()
		if err == nil {
			t.Error("expected error for record without payload")
		}
	})
}
