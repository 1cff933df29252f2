package frame

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sentinelc2/client/internal/queue"
	"github.com/sentinelc2/client/internal/render"
	"github.com/sentinelc2/client/internal/ui"
	"github.com/sentinelc2/client/internal/world"
	"github.com/sentinelc2/client/pkg/core"
)

// TilePipeline is the mosaic source the loop drains. *tiles.Pipeline
// implements it.
type TilePipeline interface {
	Submit(req core.TileRequest)
	Results() <-chan core.TileResult
	CheckStalls(now time.Time)
	Stats() []core.LayerStats
}

// ErrSurfaceLost signals the sink's presentation target went away; the
// loop skips the frame and presents again next time.
var ErrSurfaceLost = errors.New("presentation surface lost")

// Sink receives the finished frame along with the timing summary and
// the tile pipeline health published this frame.
type Sink interface {
	Present(viewport *image.NRGBA, jobs []ui.PaintJob, timings Snapshot, layers []core.LayerStats) error
}

// Event is one frame-loop input. UI events pump before camera events
// within a frame.
type Event interface{ isEvent() }

// UIEvent forwards a shell message.
type UIEvent struct{ Msg ui.Message }

// OrbitEvent is a camera drag delta.
type OrbitEvent struct{ DX, DY float64 }

// ZoomEvent is a camera scroll delta.
type ZoomEvent struct{ Scroll float64 }

// FocusEvent points the camera at an entity.
type FocusEvent struct{ ID core.EntityID }

// LayerEvent toggles an overlay layer.
type LayerEvent struct {
	Kind  core.TileKind
	State render.LayerState
}

// TileRequestEvent asks for fresh mosaics of every kind.
type TileRequestEvent struct {
	Zoom         int
	WeatherField string
	SeaField     string
}

// SeedEvent populates the world with demo entities.
type SeedEvent struct{ Count int }

// ResetEvent clears the world.
type ResetEvent struct{}

func (UIEvent) isEvent()          {}
func (OrbitEvent) isEvent()       {}
func (ZoomEvent) isEvent()        {}
func (FocusEvent) isEvent()       {}
func (LayerEvent) isEvent()       {}
func (TileRequestEvent) isEvent() {}
func (SeedEvent) isEvent()        {}
func (ResetEvent) isEvent()       {}

// Dependencies wires the loop to the rest of the client.
type Dependencies struct {
	World    *world.World
	Pipeline TilePipeline
	Renderer *render.Renderer
	Shell    *ui.Shell
	Sink     Sink
	Logger   *slog.Logger
}

// Loop drives one frame at a time. Frame must be called from a single
// goroutine; Enqueue, Timings, LayerStats and Frames are safe from any
// goroutine so the feed poller and status monitor can use them.
type Loop struct {
	deps    Dependencies
	timings *Timings

	// external events from the dispatcher / feed, drained each frame
	pending *queue.Queue[Event]

	instances []core.RenderInstance

	requestSeq    uint64
	latestRequest [3]uint64

	lastFrame time.Time
	frames    atomic.Uint64

	focused  core.EntityID
	hasFocus bool

	statsMu    sync.Mutex
	layerStats []core.LayerStats
}

// NewLoop creates a frame loop.
func NewLoop(deps Dependencies) *Loop {
	return &Loop{
		deps:    deps,
		timings: NewTimings(),
		pending: queue.New[Event](),
	}
}

// Enqueue adds an event from another goroutine; it is applied at the
// start of the next frame.
func (l *Loop) Enqueue(ev Event) {
	l.pending.Push(ev)
}

// Frame runs one full frame at the given wall time.
func (l *Loop) Frame(now time.Time, events []Event) error {
	frameStart := time.Now()

	// Pump: queued external events first, then this frame's input; UI
	// messages apply before camera motion in both batches.
	uiStart := time.Now()
	queued := l.pending.GetAndEmpty()
	l.pumpUI(queued)
	l.pumpUI(events)
	l.pumpOther(queued)
	l.pumpOther(events)
	uiPumpMs := msSince(uiStart)

	// One world tick with the accumulated dt.
	worldStart := time.Now()
	dt := 0.0
	if !l.lastFrame.IsZero() {
		dt = now.Sub(l.lastFrame).Seconds()
	}
	l.lastFrame = now
	l.deps.World.Tick(dt)

	if n := l.deps.World.Len(); n > cap(l.instances) {
		l.instances = make([]core.RenderInstance, 0, nextPow2(n))
	}
	l.deps.World.CollectInstances(&l.instances)
	worldMs := msSince(worldStart)

	// Drain completed mosaics; stale results are dropped by request id.
	tilesStart := time.Now()
	l.drainTiles(now)
	tilesMs := msSince(tilesStart)

	// The viewport follows the Globe panel rect, not the window.
	if _, rect, ok := l.deps.Shell.GlobeViewportRect(); ok {
		l.deps.Renderer.Viewport().Resize(rect.W, rect.H)
	}

	renderStart := time.Now()
	l.deps.Renderer.RenderFrame(l.instances)
	renderMs := msSince(renderStart)

	uiStart = time.Now()
	snap := l.timings.Snapshot(l.frames.Load())
	l.deps.Shell.SetInspectorStatus(ui.InspectorStatus{
		Layers:  l.LayerStats(),
		FrameMs: snap.FrameMs,
		FPS:     snap.FPS,
		Frames:  snap.Frames,
		Trail:   l.focusedTrail(),
		Now:     now,
	})
	jobs := l.deps.Shell.PaintJobs()
	uiMs := uiPumpMs + msSince(uiStart)

	frames := l.frames.Add(1)
	frameMs := msSince(frameStart)
	l.timings.Record(worldMs, tilesMs, uiMs, renderMs, frameMs)

	if l.deps.Sink != nil {
		err := l.deps.Sink.Present(l.deps.Renderer.Viewport().Snapshot(), jobs, l.timings.Snapshot(frames), l.LayerStats())
		if errors.Is(err, ErrSurfaceLost) {
			l.deps.Logger.Warn("presentation surface lost, skipping frame", "frame", frames)
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) pumpUI(events []Event) {
	for _, ev := range events {
		if e, ok := ev.(UIEvent); ok {
			l.deps.Shell.Update(e.Msg)
		}
	}
}

func (l *Loop) pumpOther(events []Event) {
	for _, ev := range events {
		switch e := ev.(type) {
		case UIEvent:
			// handled in pumpUI
		case OrbitEvent:
			l.deps.Renderer.Camera.Orbit(e.DX, e.DY)
		case ZoomEvent:
			l.deps.Renderer.Camera.Zoom(e.Scroll)
		case FocusEvent:
			l.focused, l.hasFocus = e.ID, true
			if ent, ok := l.deps.World.Get(e.ID); ok {
				l.deps.Renderer.Camera.FocusOn(render.Vec3{ent.Cartesian.X, ent.Cartesian.Y, ent.Cartesian.Z})
			}
		case LayerEvent:
			l.deps.Renderer.SetLayer(e.Kind, e.State)
		case TileRequestEvent:
			l.RequestTiles(e.Zoom, e.WeatherField, e.SeaField)
		case SeedEvent:
			l.deps.World.Seed(e.Count)
		case ResetEvent:
			l.deps.World.Reset()
		}
	}
}

// RequestTiles submits a new mosaic request, superseding all previous
// ones. Results still in flight for older requests will be discarded on
// arrival.
func (l *Loop) RequestTiles(zoom int, weatherField, seaField string) uint64 {
	l.requestSeq++
	id := l.requestSeq
	for i := range l.latestRequest {
		l.latestRequest[i] = id
	}
	l.deps.Pipeline.Submit(core.TileRequest{
		RequestID:    id,
		Zoom:         zoom,
		WeatherField: weatherField,
		SeaField:     seaField,
	})
	return id
}

// drainTiles applies completed mosaics in arrival order.
func (l *Loop) drainTiles(now time.Time) {
	for {
		select {
		case res, ok := <-l.deps.Pipeline.Results():
			if !ok {
				l.finishTileDrain(now)
				return
			}
			if int(res.Kind) < len(l.latestRequest) && res.RequestID < l.latestRequest[res.Kind] {
				l.deps.Logger.Debug("stale tile result dropped",
					"kind", res.Kind.String(),
					"requestId", res.RequestID,
					"latest", l.latestRequest[res.Kind],
				)
				continue
			}
			if err := l.deps.Renderer.UploadTile(res); err != nil {
				l.deps.Logger.Warn("tile upload failed", "kind", res.Kind.String(), "error", err)
			}
		default:
			l.finishTileDrain(now)
			return
		}
	}
}

func (l *Loop) finishTileDrain(now time.Time) {
	l.deps.Pipeline.CheckStalls(now)
	stats := l.deps.Pipeline.Stats()
	l.statsMu.Lock()
	l.layerStats = stats
	l.statsMu.Unlock()
}

// trailToleranceDeg decimates the Inspector trail.
const trailToleranceDeg = 0.05

// focusedTrail returns the focused entity's simplified track, nil when
// nothing is focused or the track is too short.
func (l *Loop) focusedTrail() []core.GeoPos {
	if !l.hasFocus {
		return nil
	}
	return l.deps.World.Trail(l.focused, trailToleranceDeg)
}

// Timings returns the current timing summary.
func (l *Loop) Timings() Snapshot {
	return l.timings.Snapshot(l.frames.Load())
}

// LayerStats returns the per-kind pipeline health published last frame.
func (l *Loop) LayerStats() []core.LayerStats {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	return append([]core.LayerStats(nil), l.layerStats...)
}

// Frames returns the number of completed frames.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// InstanceCapacity exposes the marker buffer capacity.
func (l *Loop) InstanceCapacity() int { return cap(l.instances) }

// Run drives frames at a fixed cadence until the context is canceled.
// Headless mode: all input arrives through Enqueue.
func (l *Loop) Run(ctx context.Context, targetFPS int) error {
	if targetFPS <= 0 {
		targetFPS = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(targetFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := l.Frame(now, nil); err != nil {
				return err
			}
		}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Nanoseconds()) / 1e6
}
