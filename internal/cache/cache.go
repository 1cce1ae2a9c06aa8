// Package cache provides persistence for model call responses, so
// re-running a program over the same input does not re-issue the same
// calls.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Store is the interface for response persistence.
type Store interface {
	// Get retrieves a cached response by key. The bool reports whether
	// the key was present; an empty cached response is a valid entry.
	Get(key string) (string, bool, error)
	// Put stores a response by key, overwriting if it exists.
	Put(key, value string) error
	// Close releases resources.
	Close() error
}

// Key derives a cache key from a call's function name and argument
// strings. Identical calls hash to the same key; the length prefix on
// each part keeps ("ab","c") and ("a","bc") distinct.
func Key(name string, args []string) string {
	h := sha256.New()
	writePart(h, name)
	for _, arg := range args {
		writePart(h, arg)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writePart(h interface{ Write([]byte) (int, error) }, s string) {
	var lenBuf [8]byte
	n := len(s)
	for i := 0; i < 8; i++ {
		lenBuf[i] = byte(n >> (8 * i))
	}
	h.Write(lenBuf[:])
	h.Write([]byte(s))
}
