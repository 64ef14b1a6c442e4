// Package session keeps the per-visitor filter state together with memoized
// derived values.
package session

// Memo caches one computed value under a key. The value is recomputed only
// when Get is called with a different key or after Invalidate. A Memo is not
// safe for concurrent use; Session serializes access.
type Memo[T any] struct {
	key    string
	valid  bool
	value  T
	hits   int
	misses int
}

// Get returns the cached value for key, computing it first if needed.
func (m *Memo[T]) Get(key string, compute func() T) T {
	if m.valid && m.key == key {
		m.hits++
		return m.value
	}
	m.misses++
	m.value = compute()
	m.key = key
	m.valid = true
	return m.value
}

// Invalidate forces the next Get to recompute.
func (m *Memo[T]) Invalidate() {
	var zero T
	m.value = zero
	m.valid = false
}

// Stats returns how often Get was served from cache and recomputed.
func (m *Memo[T]) Stats() (hits, misses int) {
	return m.hits, m.misses
}
