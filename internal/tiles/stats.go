package tiles

import (
	"sync"
	"time"

	"github.com/sentinelc2/client/pkg/core"
)

// layerState tracks one kind's pipeline health. Desired counts requests
// submitted for the kind, loaded counts valid mosaics delivered; the
// stall flag trips when pending work sees no delivery for the
// configured window.
type layerState struct {
	desired      int
	loaded       int
	pending      int
	lastActivity time.Time
	stalled      bool
}

type statsTracker struct {
	mu         sync.Mutex
	layers     map[core.TileKind]*layerState
	stallAfter time.Duration
}

func newStatsTracker(stallAfter time.Duration) *statsTracker {
	s := &statsTracker{
		layers:     make(map[core.TileKind]*layerState, len(core.TileKinds)),
		stallAfter: stallAfter,
	}
	for _, k := range core.TileKinds {
		s.layers[k] = &layerState{}
	}
	return s
}

func (s *statsTracker) submitted(kind core.TileKind, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.layers[kind]
	l.desired++
	l.pending++
	l.lastActivity = now
	l.stalled = false
}

func (s *statsTracker) completed(kind core.TileKind, valid bool, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.layers[kind]
	if l.pending > 0 {
		l.pending--
	}
	if valid {
		l.loaded++
	}
	l.lastActivity = now
	l.stalled = false
}

// checkStalls re-evaluates the stall flag for every kind with pending
// work. Called once per frame from the loop.
func (s *statsTracker) checkStalls(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.layers {
		if l.pending > 0 && !l.lastActivity.IsZero() && now.Sub(l.lastActivity) > s.stallAfter {
			l.stalled = true
		}
	}
}

func (s *statsTracker) snapshot(cacheBytes, cacheCap int64) []core.LayerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LayerStats, 0, len(core.TileKinds))
	for _, k := range core.TileKinds {
		l := s.layers[k]
		out = append(out, core.LayerStats{
			Kind:         k,
			Desired:      l.desired,
			Loaded:       l.loaded,
			Pending:      l.pending,
			CacheBytes:   cacheBytes,
			CacheCap:     cacheCap,
			LastActivity: l.lastActivity,
			Stalled:      l.stalled,
		})
	}
	return out
}
