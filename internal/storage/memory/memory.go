// Package memorystorage implements the storage.Store interface with a
// plain in-process map. Nothing survives a restart; it exists so the
// rest of the client never has to special-case "persistence disabled".
package memorystorage

import (
	"sync"
	"time"
)

type entry struct {
	payload   []byte
	fetchedAt time.Time
}

// Backend is the in-memory tile store.
type Backend struct {
	mu    sync.Mutex
	tiles map[string]entry
}

// New creates an empty in-memory store.
func New() *Backend {
	return &Backend{tiles: make(map[string]entry)}
}

func (b *Backend) Init() error  { return nil }
func (b *Backend) Close() error { return nil }

func (b *Backend) PutTile(url string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tiles[url] = entry{payload: payload, fetchedAt: time.Now()}
	return nil
}

func (b *Backend) GetTile(url string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.tiles[url]
	if !ok {
		return nil, nil
	}
	return e.payload, nil
}

func (b *Backend) Prune(olderThan time.Time) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var removed int64
	for url, e := range b.tiles {
		if e.fetchedAt.Before(olderThan) {
			delete(b.tiles, url)
			removed++
		}
	}
	return removed, nil
}

func (b *Backend) Stats() (int64, int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var bytes int64
	for _, e := range b.tiles {
		bytes += int64(len(e.payload))
	}
	return int64(len(b.tiles)), bytes, nil
}
