package tiles

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sentinelc2/client/internal/cache"
	"github.com/sentinelc2/client/internal/channel"
	"github.com/sentinelc2/client/pkg/core"
)

// Pipeline runs mosaic builds off the frame loop. Every Submit spawns
// one worker per layer kind; completed results come back on a bounded
// channel the loop drains each frame. Stale results (an older request
// id than the newest submitted) are the loop's problem to discard, the
// pipeline delivers everything it finishes.
type Pipeline struct {
	fetcher   *Fetcher
	provider  Provider
	tileCache *cache.TileCache
	stats     *statsTracker
	results   *channel.Buffered[core.TileResult]
	logger    *slog.Logger

	maxFetchZoom int
	layerSize    int

	// cumulative count of provider tiles blitted into mosaics
	tilesLoaded cache.SafeCounter

	wg     sync.WaitGroup
	mu     sync.Mutex
	done   chan struct{}
	closed bool
}

// Options configures the pipeline.
type Options struct {
	Provider     Provider
	MaxFetchZoom int
	LayerSize    int
	StallAfter   time.Duration
	ResultBuffer int
}

// New creates a pipeline around the given fetcher.
func New(opts Options, fetcher *Fetcher, tileCache *cache.TileCache, logger *slog.Logger) *Pipeline {
	if opts.ResultBuffer <= 0 {
		opts.ResultBuffer = 16
	}
	if opts.LayerSize <= 0 {
		opts.LayerSize = 4096
	}
	if opts.StallAfter <= 0 {
		opts.StallAfter = 10 * time.Second
	}
	return &Pipeline{
		fetcher:      fetcher,
		provider:     opts.Provider,
		tileCache:    tileCache,
		stats:        newStatsTracker(opts.StallAfter),
		results:      channel.NewBuffered[core.TileResult](opts.ResultBuffer),
		logger:       logger,
		maxFetchZoom: opts.MaxFetchZoom,
		layerSize:    opts.LayerSize,
		done:         make(chan struct{}),
	}
}

// Submit schedules mosaic builds for every kind the provider serves.
// Kinds without a template are skipped and stay "off" in the stats.
func (p *Pipeline) Submit(req core.TileRequest) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	now := time.Now()
	for _, kind := range core.TileKinds {
		if p.provider.Template(kind) == "" {
			continue
		}
		p.stats.submitted(kind, now)
		p.wg.Add(1)
		go p.build(req, kind)
	}
	p.mu.Unlock()
}

func (p *Pipeline) build(req core.TileRequest, kind core.TileKind) {
	defer p.wg.Done()
	start := time.Now()

	b := mosaicBuilder{
		fetcher:      p.fetcher,
		provider:     p.provider,
		maxFetchZoom: p.maxFetchZoom,
		layerSize:    p.layerSize,
		loadedTally:  &p.tilesLoaded,
	}
	res := b.Build(req, kind)
	p.stats.completed(kind, res.Valid, time.Now())

	p.logger.Debug("mosaic built",
		"kind", kind.String(),
		"requestId", req.RequestID,
		"zoom", req.Zoom,
		"valid", res.Valid,
		"durationMs", time.Since(start).Milliseconds(),
	)
	// A closed pipeline abandons the result instead of blocking on a
	// full buffer nobody drains anymore.
	p.results.SendOrAbort(res, p.done)
}

// Results is the channel the frame loop drains.
func (p *Pipeline) Results() <-chan core.TileResult {
	return p.results.Receive()
}

// CheckStalls re-evaluates stall flags; the loop calls it once per frame.
func (p *Pipeline) CheckStalls(now time.Time) {
	p.stats.checkStalls(now)
}

// Stats returns the per-kind health snapshot for the Inspector.
func (p *Pipeline) Stats() []core.LayerStats {
	return p.stats.snapshot(p.tileCache.SizeBytes(), p.tileCache.CapBytes())
}

// TilesLoaded returns the cumulative number of provider tiles blitted
// into mosaics since startup.
func (p *Pipeline) TilesLoaded() int {
	return p.tilesLoaded.Value()
}

// Close aborts pending result deliveries, waits for in-flight builds
// and closes the results channel.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.done)
	p.wg.Wait()
	p.results.Close()
}
