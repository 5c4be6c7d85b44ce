package resolve

import (
	"os"
	"sync"
	"time"
)

// mtimeCache maps a key to a value that is only valid while a backing file
// keeps its modification time. Lookups compare stamps explicitly; there is
// no TTL and no background eviction.
type mtimeCache[V any] struct {
	mu      sync.Mutex
	entries map[string]mtimeEntry[V]
}

type mtimeEntry[V any] struct {
	stamp time.Time
	value V
}

func newMtimeCache[V any]() *mtimeCache[V] {
	return &mtimeCache[V]{entries: make(map[string]mtimeEntry[V])}
}

// get returns the cached value for key when statPath's mtime still matches
// the stamp recorded at put time.
func (c *mtimeCache[V]) get(key, statPath string) (V, bool) {
	var zero V

	info, err := os.Stat(statPath)
	if err != nil {
		return zero, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || !entry.stamp.Equal(info.ModTime()) {
		return zero, false
	}
	return entry.value, true
}

// put stores value keyed by key, stamped with statPath's current mtime.
func (c *mtimeCache[V]) put(key, statPath string, value V) {
	info, err := os.Stat(statPath)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = mtimeEntry[V]{stamp: info.ModTime(), value: value}
}
