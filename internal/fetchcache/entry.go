package fetchcache

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	keyPrefix    = "fetch:"
	expirySuffix = ":expiresAt"
)

// Key returns the store key holding the payload for url.
func Key(url string) string {
	return keyPrefix + url
}

// ExpiryKey returns the store key holding the expiry instant for url.
func ExpiryKey(url string) string {
	return Key(url) + expirySuffix
}

// urlFromKey reports the URL of a payload key. Expiry keys and foreign keys
// return false.
func urlFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, keyPrefix) || strings.HasSuffix(key, expirySuffix) {
		return "", false
	}
	return strings.TrimPrefix(key, keyPrefix), true
}

func formatExpiry(t time.Time) []byte {
	return []byte(strconv.FormatInt(t.UnixMilli(), 10))
}

func parseExpiry(b []byte) (time.Time, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

// Entry is one cached response.
type Entry struct {
	Key       string          `json:"key"`
	URL       string          `json:"url"`
	Payload   json.RawMessage `json:"-"`
	Size      int             `json:"size"`
	ExpiresAt time.Time       `json:"expires_at"` // zero when the expiry key is missing
}

// Valid reports whether the entry may still be served at now.
func (e Entry) Valid(now time.Time) bool {
	if e.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(e.ExpiresAt)
}
