// Package storage provides the durable tile store behind the in-memory
// cache. Backends are selected by configuration; the memory backend is
// a same-process fallback with no persistence.
package storage

import "time"

// Store is the interface all tile store implementations must satisfy.
// GetTile returns (nil, nil) on a miss so callers can distinguish
// absence from failure.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// Tile persistence
	PutTile(url string, payload []byte) error
	GetTile(url string) ([]byte, error)

	// Maintenance
	Prune(olderThan time.Time) (removed int64, err error)
	Stats() (tiles int64, bytes int64, err error)
}
