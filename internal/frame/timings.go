// Package frame runs the per-frame orchestration: input, world tick,
// tile drain, render, UI, present. Everything happens on one goroutine;
// the tile pipeline and feed poller talk to it through channels and the
// dispatcher.
package frame

import (
	"sort"
	"sync"
)

// timingWindow is how many frames the percentile window covers.
const timingWindow = 240

// series is a bounded sample window with percentile queries.
type series struct {
	samples []float64
	next    int
	full    bool
	scratch []float64
}

func newSeries() *series {
	return &series{
		samples: make([]float64, timingWindow),
		scratch: make([]float64, 0, timingWindow),
	}
}

func (s *series) add(v float64) {
	s.samples[s.next] = v
	s.next++
	if s.next == len(s.samples) {
		s.next = 0
		s.full = true
	}
}

func (s *series) count() int {
	if s.full {
		return len(s.samples)
	}
	return s.next
}

func (s *series) last() float64 {
	i := s.next - 1
	if i < 0 {
		i = len(s.samples) - 1
	}
	return s.samples[i]
}

func (s *series) mean() float64 {
	n := s.count()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.samples[i]
	}
	return sum / float64(n)
}

// percentile returns the p-quantile (0..1) of the current window.
func (s *series) percentile(p float64) float64 {
	n := s.count()
	if n == 0 {
		return 0
	}
	s.scratch = append(s.scratch[:0], s.samples[:n]...)
	sort.Float64s(s.scratch)
	i := int(p * float64(n-1))
	return s.scratch[i]
}

// Timings aggregates per-frame phase durations. Record runs on the
// frame goroutine; Snapshot may be called from the status monitor, so
// both take the lock.
type Timings struct {
	mu     sync.Mutex
	world  *series
	tiles  *series
	ui     *series
	render *series
	frame  *series
}

// NewTimings creates empty counters.
func NewTimings() *Timings {
	return &Timings{
		world:  newSeries(),
		tiles:  newSeries(),
		ui:     newSeries(),
		render: newSeries(),
		frame:  newSeries(),
	}
}

// Record adds one frame's phase durations in milliseconds.
func (t *Timings) Record(worldMs, tilesMs, uiMs, renderMs, frameMs float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.world.add(worldMs)
	t.tiles.add(tilesMs)
	t.ui.add(uiMs)
	t.render.add(renderMs)
	t.frame.add(frameMs)
}

// Snapshot is the Inspector-facing timing summary.
type Snapshot struct {
	WorldMs    float64 `json:"worldMs"`
	TilesMs    float64 `json:"tilesMs"`
	UIMs       float64 `json:"uiMs"`
	RenderMs   float64 `json:"renderMs"`
	FrameMs    float64 `json:"frameMs"`
	FrameP95Ms float64 `json:"frameP95Ms"`
	FrameP99Ms float64 `json:"frameP99Ms"`
	FPS        float64 `json:"fps"`
	Frames     uint64  `json:"frames"`
}

// Snapshot summarizes the current window.
func (t *Timings) Snapshot(frames uint64) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		WorldMs:    t.world.last(),
		TilesMs:    t.tiles.last(),
		UIMs:       t.ui.last(),
		RenderMs:   t.render.last(),
		FrameMs:    t.frame.last(),
		FrameP95Ms: t.frame.percentile(0.95),
		FrameP99Ms: t.frame.percentile(0.99),
		Frames:     frames,
	}
	if mean := t.frame.mean(); mean > 0 {
		s.FPS = 1000 / mean
	}
	return s
}
