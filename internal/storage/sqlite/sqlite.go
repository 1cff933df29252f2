// Package sqlitestorage implements the storage.Store interface on an
// in-memory SQLite database with periodic disk dumps via VACUUM INTO.
// An existing dump file is attached on startup so cached tiles survive
// restarts.
package sqlitestorage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sentinelc2/client/internal/database"
	"github.com/sentinelc2/client/internal/logging"
	"github.com/sentinelc2/client/internal/model"
)

// Config holds configuration for the SQLite tile store.
type Config struct {
	DumpInterval time.Duration
	DumpPath     string // Path for periodic VACUUM INTO dumps
}

// Backend is the SQLite tile store.
type Backend struct {
	db       *gorm.DB
	cfg      Config
	log      *logging.SlogManager
	stopChan chan struct{}
}

// New creates a new SQLite tile store.
func New(cfg Config, logManager *logging.SlogManager) (*Backend, error) {
	db, err := database.GetSqliteDB("")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}
	return &Backend{
		db:       db,
		cfg:      cfg,
		log:      logManager,
		stopChan: make(chan struct{}),
	}, nil
}

// Init migrates the schema, restores the previous dump if present, and
// starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := b.restoreDump(); err != nil {
		b.log.Logger().Warn("Failed to restore tile dump, starting empty", "error", err)
	}
	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, writes a final dump and closes the DB.
func (b *Backend) Close() error {
	close(b.stopChan)
	if b.cfg.DumpPath != "" {
		if err := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); err != nil {
			b.log.Logger().Warn("Final tile dump failed", "error", err)
		}
	}
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (b *Backend) PutTile(url string, payload []byte) error {
	tile := model.CachedTile{
		URL:       url,
		SizeBytes: int64(len(payload)),
		Payload:   payload,
		FetchedAt: time.Now(),
	}
	return b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		UpdateAll: true,
	}).Create(&tile).Error
}

func (b *Backend) GetTile(url string) ([]byte, error) {
	var tile model.CachedTile
	err := b.db.First(&tile, "url = ?", url).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tile.Payload, nil
}

func (b *Backend) Prune(olderThan time.Time) (int64, error) {
	res := b.db.Where("fetched_at < ?", olderThan).Delete(&model.CachedTile{})
	return res.RowsAffected, res.Error
}

func (b *Backend) Stats() (int64, int64, error) {
	var tiles int64
	if err := b.db.Model(&model.CachedTile{}).Count(&tiles).Error; err != nil {
		return 0, 0, err
	}
	var bytes int64
	err := b.db.Model(&model.CachedTile{}).
		Select("COALESCE(SUM(size_bytes), 0)").
		Scan(&bytes).Error
	return tiles, bytes, err
}

// restoreDump copies tiles from the previous on-disk dump into the
// in-memory database.
func (b *Backend) restoreDump() error {
	if b.cfg.DumpPath == "" {
		return nil
	}
	if _, err := os.Stat(b.cfg.DumpPath); err != nil {
		return nil // no previous dump
	}

	prev, err := database.GetSqliteDB(b.cfg.DumpPath)
	if err != nil {
		return err
	}
	sqlPrev, err := prev.DB()
	if err != nil {
		return err
	}
	defer sqlPrev.Close()

	if !prev.Migrator().HasTable(&model.CachedTile{}) {
		return nil
	}

	var tiles []model.CachedTile
	if err := prev.FindInBatches(&tiles, 500, func(tx *gorm.DB, _ int) error {
		return b.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tiles).Error
	}).Error; err != nil {
		return err
	}

	b.log.Logger().Info("Restored tile store from dump", "path", b.cfg.DumpPath)
	return nil
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via
// VACUUM INTO. VACUUM INTO creates a point-in-time snapshot, so no
// pause mechanism is needed.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); err != nil {
				b.log.Logger().Error("Error dumping tile store to disk", "error", err)
			} else {
				b.log.Logger().Debug("Dumped tile store to disk", "duration", time.Since(start).String())
			}
		}
	}
}
