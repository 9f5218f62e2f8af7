package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FeedServer is a fake upstream serving canned release feeds.
//
// Routes:
//
//	/fetch_releases        Chromium feed
//	/1.0/firefox.json      Firefox feed
//	/1.0/devedition.json   Developer Edition feed
type FeedServer struct {
	*httptest.Server

	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	hits     map[string]int
	queries  []string
}

// NewFeedServer starts a server that is closed when the test ends.
func NewFeedServer(t *testing.T) *FeedServer {
	t.Helper()

	f := &FeedServer{
		bodies:   make(map[string]string),
		statuses: make(map[string]int),
		hits:     make(map[string]int),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Handle sets the body served for path.
func (f *FeedServer) Handle(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[path] = body
	delete(f.statuses, path)
}

// Fail makes path answer with status.
func (f *FeedServer) Fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[path] = status
}

// Hits returns how many requests reached path.
func (f *FeedServer) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// Queries returns the raw query strings received, in order.
func (f *FeedServer) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func (f *FeedServer) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.queries = append(f.queries, r.URL.RawQuery)
	status, failing := f.statuses[r.URL.Path]
	body, ok := f.bodies[r.URL.Path]
	f.mu.Unlock()

	if failing {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
