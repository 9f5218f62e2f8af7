// Package fetchcache retrieves JSON documents over HTTP and keeps them in a
// time-to-live cache.
//
// Each cached URL occupies two keys in the backing Store:
//
//	fetch:<url>            the response body, verbatim
//	fetch:<url>:expiresAt  expiry instant as epoch milliseconds
//
// An entry is served only while now < expiresAt. A payload without its
// expiry key is treated as expired. Caching is switched on by the Enabled
// option; when it is off every Get is a live fetch and the store is never
// touched.
//
// Concurrent misses for the same URL are not coalesced: each caller fetches
// and writes, and the last write wins.
//
// Store failures never fail a Get. They are logged at warn level and the
// call continues as a miss (read) or without caching (write).
package fetchcache
