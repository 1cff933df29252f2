// Package model defines the persistent schema for the client's local
// database: the durable tile store plus session bookkeeping.
package model

import "time"

// CachedTile is one provider tile payload persisted across runs. The
// fetch URL is the natural key; it already encodes provider, kind,
// zoom, grid position and field.
type CachedTile struct {
	URL       string `gorm:"primaryKey"`
	SizeBytes int64
	Payload   []byte
	FetchedAt time.Time `gorm:"index"`
}

// SessionInfo records one client run.
type SessionInfo struct {
	ID          uint `gorm:"primarykey"`
	ClientName  string
	StartedAt   time.Time
	StoppedAt   *time.Time
	SeedCount   int
	FeedURL     string
	FramesDrawn int64
}

// DatabaseModels lists every table the local store migrates.
var DatabaseModels = []any{
	&CachedTile{},
	&SessionInfo{},
}
