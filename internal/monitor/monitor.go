// Package monitor runs the periodic status service: a status.txt
// snapshot in the session directory, InfluxDB samples, and session row
// bookkeeping in the local database.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/sentinelc2/client/internal/feed"
	"github.com/sentinelc2/client/internal/frame"
	"github.com/sentinelc2/client/internal/influx"
	"github.com/sentinelc2/client/internal/logging"
	"github.com/sentinelc2/client/internal/model"
	"github.com/sentinelc2/client/internal/world"
	"github.com/sentinelc2/client/pkg/core"
)

// TileCounter reports the cumulative provider-tile tally;
// *tiles.Pipeline implements it.
type TileCounter interface {
	TilesLoaded() int
}

// Dependencies holds all dependencies for the monitor service.
// Influx, Poller, Tiles and DB are optional.
type Dependencies struct {
	LogManager *logging.SlogManager
	Loop       *frame.Loop
	World      *world.World
	Influx     *influx.Manager
	Poller     *feed.Poller
	Tiles      TileCounter
	DB         *gorm.DB
	SessionID  uint
	SessionDir string
	// Interval between status samples; 0 defaults to 1s.
	Interval time.Duration
}

// Status is one sample of the client's health.
type Status struct {
	Time         time.Time         `json:"time"`
	Frames       uint64            `json:"frames"`
	Entities     int               `json:"entities"`
	Timings      frame.Snapshot    `json:"timings"`
	Layers       []core.LayerStats `json:"layers"`
	TilesLoaded  int               `json:"tilesLoaded"`
	FeedPolls    uint64            `json:"feedPolls"`
	FeedFailures uint64            `json:"feedFailures"`
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Status collects the current sample.
func (s *Service) Status() Status {
	st := Status{
		Time:     time.Now(),
		Frames:   s.deps.Loop.Frames(),
		Entities: s.deps.World.Len(),
		Timings:  s.deps.Loop.Timings(),
		Layers:   s.deps.Loop.LayerStats(),
	}
	if s.deps.Tiles != nil {
		st.TilesLoaded = s.deps.Tiles.TilesLoaded()
	}
	if s.deps.Poller != nil {
		st.FeedPolls = s.deps.Poller.Polls()
		st.FeedFailures = s.deps.Poller.Failures()
	}
	return st
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine")

		statusFile, err := os.Create(s.deps.SessionDir + "/status.txt")
		if err != nil {
			logger.Error("Error creating status file", "error", err)
		}
		defer statusFile.Close()

		for {
			select {
			case <-s.stopChan:
				return
			default:
				time.Sleep(s.deps.Interval)

				st := s.Status()

				if statusFile != nil {
					data, err := json.MarshalIndent(st, "", "  ")
					if err != nil {
						data = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
					}
					statusFile.Truncate(0)
					statusFile.Seek(0, 0)
					statusFile.Write(data)
					statusFile.WriteString("\n")
				}

				s.publish(st, logger)
			}
		}
	}()

	return nil
}

type slogLike interface {
	Error(msg string, args ...any)
}

// publish ships the sample to Influx and updates the session row.
func (s *Service) publish(st Status, logger slogLike) {
	sessionTag := fmt.Sprintf("%d", s.deps.SessionID)

	if s.deps.Influx != nil {
		ctx := context.Background()
		point := influx.PerformancePoint(sessionTag, st.Timings, st.Entities)
		if err := s.deps.Influx.WritePoint(ctx, influx.BucketClientPerformance, point); err != nil {
			logger.Error("Error writing performance sample", "error", err)
		}
		for _, layer := range st.Layers {
			point := influx.TileActivityPoint(sessionTag, layer)
			if err := s.deps.Influx.WritePoint(ctx, influx.BucketTileActivity, point); err != nil {
				logger.Error("Error writing tile activity sample", "error", err)
			}
		}
	}

	if s.deps.DB != nil {
		err := s.deps.DB.Model(&model.SessionInfo{}).
			Where("id = ?", s.deps.SessionID).
			Update("frames_drawn", int64(st.Frames)).Error
		if err != nil {
			logger.Error("Error updating session row", "error", err)
		}
	}
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
