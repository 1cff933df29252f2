package storage

import (
	"fmt"
	"time"

	"github.com/sentinelc2/client/internal/logging"
	memorystorage "github.com/sentinelc2/client/internal/storage/memory"
	sqlitestorage "github.com/sentinelc2/client/internal/storage/sqlite"
)

// Config selects and configures a tile store backend.
type Config struct {
	Type         string // "memory" or "sqlite"
	SqlitePath   string
	DumpInterval time.Duration
}

// NewStore creates a tile store backend based on configuration.
func NewStore(cfg Config, logManager *logging.SlogManager) (Store, error) {
	switch cfg.Type {
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpPath:     cfg.SqlitePath,
			DumpInterval: cfg.DumpInterval,
		}, logManager)
	case "memory":
		return memorystorage.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
