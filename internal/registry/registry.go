// Package registry maps short fingerprints to previously rendered texts, so
// that transports whose reference tokens are too small for arbitrary payloads
// (Telegram callback data is capped at 64 bytes) can hand out a compact key
// and redeem it later. Entries live in a capacity-bounded LRU cache; a lookup
// after eviction is the normal not-found path, not an error.
package registry

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

const (
	// DefaultCapacity bounds the cache when the caller passes 0.
	DefaultCapacity = 4096

	// fingerprintWidth is the base fingerprint length in hex digits.
	// On collision with a different text the fingerprint widens by
	// widenStep until the slot is free, up to the full digest.
	fingerprintWidth = 8
	widenStep        = 4
)

// Registry is a bounded fingerprint → text cache, safe for concurrent use.
// The zero value is not usable; construct with New.
type Registry struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
}

type entry struct {
	fingerprint string
	text        string
}

// New returns a registry holding at most capacity entries, evicting the least
// recently used entry on overflow. capacity <= 0 selects DefaultCapacity.
func New(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
	}
}

// Store records text and returns its fingerprint: a truncated hex SHA-256
// digest. Identical text always yields the same fingerprint. If the truncated
// digest is already taken by a different text, the fingerprint widens rather
// than silently shadowing the earlier entry.
func (r *Registry) Store(text string) string {
	sum := sha256.Sum256([]byte(text))
	digest := hex.EncodeToString(sum[:])

	r.mu.Lock()
	defer r.mu.Unlock()

	for width := fingerprintWidth; width <= len(digest); width += widenStep {
		fp := digest[:width]
		el, taken := r.entries[fp]
		if !taken {
			r.insert(fp, text)
			return fp
		}
		if el.Value.(*entry).text == text {
			r.order.MoveToFront(el)
			return fp
		}
		// Prefix collision with a different text: widen and retry.
	}

	// Full-digest collision between distinct texts. Practically unreachable;
	// last writer wins at full width.
	r.insert(digest, text)
	return digest
}

// insert assumes the lock is held and the key is absent.
func (r *Registry) insert(fp, text string) {
	r.entries[fp] = r.order.PushFront(&entry{fingerprint: fp, text: text})
	for r.order.Len() > r.capacity {
		oldest := r.order.Back()
		r.order.Remove(oldest)
		delete(r.entries, oldest.Value.(*entry).fingerprint)
	}
}

// Lookup redeems a fingerprint. The boolean result distinguishes a missing
// entry from a legitimately empty stored text. A hit refreshes recency.
func (r *Registry) Lookup(fingerprint string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	el, ok := r.entries[fingerprint]
	if !ok {
		return "", false
	}
	r.order.MoveToFront(el)
	return el.Value.(*entry).text, true
}

// Len reports the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}
