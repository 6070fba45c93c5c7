// Package cache provides a byte-oriented LRU cache for file content.
//
// Entries are keyed by sandbox-relative path and bounded three ways:
//   - Entry count: least recently used entries are dropped first
//   - Total bytes: eviction continues until the byte budget holds
//   - TTL: stale entries read as absent and are removed on access
//
// All methods are safe for concurrent use.
//
// Example Usage:
//
//	c := cache.NewDefault()
//	c.Put("notes/a.txt", data)
//	if b, ok := c.Get("notes/a.txt"); ok {
//	    // serve b without touching disk
//	}
package cache
