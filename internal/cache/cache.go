package cache

import (
	"container/list"
	"sync"
)

// TileCache caches raw provider tile payloads by URL so repeat requests
// for the same zoom level skip the network. Latency here is critical:
// the mosaic builders consult the cache before every fetch. Eviction is
// least-recently-used once the byte cap is exceeded.
type TileCache struct {
	mu       sync.Mutex
	capBytes int64
	size     int64
	order    *list.List // front = most recent; values are *tileEntry
	items    map[string]*list.Element
}

type tileEntry struct {
	url     string
	payload []byte
}

// NewTileCache creates a cache bounded to capBytes. A cap of 0 disables
// caching (every Get misses).
func NewTileCache(capBytes int64) *TileCache {
	return &TileCache{
		capBytes: capBytes,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns the cached payload for the URL, marking it recently used.
func (c *TileCache) Get(url string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[url]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*tileEntry).payload, true
}

// Put stores a payload. Payloads larger than the cap are not cached.
func (c *TileCache) Put(url string, payload []byte) {
	if int64(len(payload)) > c.capBytes {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[url]; ok {
		old := el.Value.(*tileEntry)
		c.size += int64(len(payload)) - int64(len(old.payload))
		old.payload = payload
		c.order.MoveToFront(el)
	} else {
		el := c.order.PushFront(&tileEntry{url: url, payload: payload})
		c.items[url] = el
		c.size += int64(len(payload))
	}

	for c.size > c.capBytes {
		back := c.order.Back()
		if back == nil {
			break
		}
		entry := back.Value.(*tileEntry)
		c.order.Remove(back)
		delete(c.items, entry.url)
		c.size -= int64(len(entry.payload))
	}
}

// Reset drops all cached payloads.
func (c *TileCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element)
	c.size = 0
}

// SizeBytes returns the current cache size in bytes.
func (c *TileCache) SizeBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// CapBytes returns the configured cache capacity in bytes.
func (c *TileCache) CapBytes() int64 {
	return c.capBytes
}

// Len returns the number of cached tiles.
func (c *TileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
