// Package world owns the entity component store the frame loop ticks
// every frame. All operations are total: unknown ids are no-ops, out of
// range coordinates are clamped or wrapped, never rejected.
package world

import (
	"math"
	"sort"
	"sync"

	"github.com/sentinelc2/client/internal/geo"
	"github.com/sentinelc2/client/pkg/core"
)

// Entity is one geo-positioned world inhabitant.
type Entity struct {
	ID         core.EntityID
	Kind       core.EntityKind
	Geo        core.GeoPos
	AltitudeM  float64
	HeadingDeg float64
	// Velocity is nil for static entities; their cartesian position is
	// recomputed only when geo or altitude change.
	Velocity *core.Velocity
	Size     float32
	Color    core.RGBA
	// Cartesian is derived on tick from geo, altitude and globe radius.
	Cartesian core.Position3D

	orbit *Orbit
	dirty bool
}

// Fields is a partial entity update. Nil members retain the prior value.
type Fields struct {
	Kind       *core.EntityKind
	Geo        *core.GeoPos
	AltitudeM  *float64
	HeadingDeg *float64
	Velocity   *core.Velocity
	// ClearVelocity removes an existing velocity, making the entity static.
	ClearVelocity bool
	Size          *float32
	Color         *core.RGBA
	Orbit         *Orbit
}

// trailMaxPoints bounds each entity's recorded track.
const trailMaxPoints = 256

// World is the component store. It is safe for concurrent mutation;
// buffered dispatcher handlers upsert from poll goroutines while the
// frame loop ticks on the UI thread.
type World struct {
	mu          sync.Mutex
	entities    map[core.EntityID]*Entity
	trails      map[core.EntityID]*geo.Trail
	order       []core.EntityID
	orderDirty  bool
	globeRadius float64
	elapsed     float64 // seconds since world start, drives orbit propagation

	staging staging
}

// New creates an empty world with the given globe radius.
func New(globeRadius float64) *World {
	if globeRadius < 1 {
		globeRadius = 1
	}
	return &World{
		entities:    make(map[core.EntityID]*Entity),
		trails:      make(map[core.EntityID]*geo.Trail),
		globeRadius: globeRadius,
	}
}

// Upsert creates the entity if absent (with kind-derived defaults) or
// merges the given fields into the existing one. Idempotent.
func (w *World) Upsert(id core.EntityID, f Fields) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.upsertLocked(id, f)
}

func (w *World) upsertLocked(id core.EntityID, f Fields) {
	e, ok := w.entities[id]
	if !ok {
		kind := core.KindUnknown
		if f.Kind != nil {
			kind = *f.Kind
		}
		e = &Entity{
			ID:        id,
			Kind:      kind,
			AltitudeM: kind.DefaultAltitude(),
			Size:      kind.DefaultSize(),
			Color:     kind.DefaultColor(),
		}
		w.entities[id] = e
		w.orderDirty = true
	} else if f.Kind != nil && *f.Kind != e.Kind {
		e.Kind = *f.Kind
		// Re-derive cosmetic defaults on kind change; explicit fields
		// below still win.
		e.Size = e.Kind.DefaultSize()
		e.Color = e.Kind.DefaultColor()
	}

	if f.Geo != nil {
		e.Geo = core.GeoPos{
			LatDeg: geo.ClampLat(f.Geo.LatDeg),
			LonDeg: geo.WrapLon(f.Geo.LonDeg),
		}
		w.trailAppendLocked(id, e.Geo)
	}
	if f.AltitudeM != nil {
		alt := *f.AltitudeM
		if alt < 0 {
			alt = 0
		}
		e.AltitudeM = alt
	}
	if f.HeadingDeg != nil {
		e.HeadingDeg = geo.WrapHeading(*f.HeadingDeg)
	}
	if f.ClearVelocity {
		e.Velocity = nil
	} else if f.Velocity != nil {
		v := *f.Velocity
		e.Velocity = &v
	}
	if f.Size != nil {
		e.Size = *f.Size
	}
	if f.Color != nil {
		e.Color = *f.Color
	}
	if f.Orbit != nil {
		e.orbit = f.Orbit
	}
	e.dirty = true
}

// Remove deletes the entity. Removing an unknown id is a no-op.
func (w *World) Remove(id core.EntityID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[id]; !ok {
		return
	}
	delete(w.entities, id)
	delete(w.trails, id)
	w.orderDirty = true
}

// Reset drops every entity.
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entities = make(map[core.EntityID]*Entity)
	w.trails = make(map[core.EntityID]*geo.Trail)
	w.order = w.order[:0]
	w.orderDirty = false
	w.elapsed = 0
}

// Len returns the current entity count.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entities)
}

// Get returns a copy of the entity, if present.
func (w *World) Get(id core.EntityID) (Entity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// SetGlobeRadius updates the sphere radius entities project onto.
// Radii below 1 clamp to 1. Positions re-derive on the next tick.
func (w *World) SetGlobeRadius(r float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if r < 1 {
		r = 1
	}
	if r == w.globeRadius {
		return
	}
	w.globeRadius = r
	for _, e := range w.entities {
		e.dirty = true
	}
}

// GlobeRadius returns the configured sphere radius.
func (w *World) GlobeRadius() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.globeRadius
}

// Tick advances motion by dt seconds, then re-derives cartesian
// positions. Negative dt is treated as zero; dt of zero skips motion
// but still projects entities whose inputs changed.
func (w *World) Tick(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	w.elapsed += dt

	// Motion phase
	if dt > 0 {
		for _, e := range w.entities {
			switch {
			case e.orbit != nil:
				lat, lon, altM, ok := e.orbit.Position(w.elapsed)
				if ok {
					e.Geo.LatDeg = geo.ClampLat(lat)
					e.Geo.LonDeg = geo.WrapLon(lon)
					e.AltitudeM = altM
					e.dirty = true
					w.trailAppendLocked(e.ID, e.Geo)
				}
			case e.Velocity != nil:
				v := e.Velocity
				e.Geo.LatDeg = geo.ClampLat(e.Geo.LatDeg + v.DLatDeg*dt)
				e.Geo.LonDeg = geo.WrapLon(e.Geo.LonDeg + v.DLonDeg*dt)
				e.HeadingDeg = geo.WrapHeading(e.HeadingDeg + v.DHeadDeg*dt)
				e.dirty = true
				w.trailAppendLocked(e.ID, e.Geo)
			}
		}
	}

	// Projection phase
	for _, e := range w.entities {
		if !e.dirty {
			continue
		}
		e.Cartesian = geo.ToCartesian(e.Geo.LatDeg, e.Geo.LonDeg, w.globeRadius+e.AltitudeM)
		e.dirty = false
	}
}

// CollectInstances fills out with one render instance per entity,
// ordered by ascending id so the order is stable between mutations.
func (w *World) CollectInstances(out *[]core.RenderInstance) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rebuildOrderLocked()

	*out = (*out)[:0]
	for _, id := range w.order {
		e := w.entities[id]
		*out = append(*out, core.RenderInstance{
			Position:   e.Cartesian,
			Size:       e.Size,
			Color:      e.Color,
			HeadingRad: float32(e.HeadingDeg * degToRad),
			IconIndex:  e.Kind.IconIndex(),
			Kind:       e.Kind,
		})
	}
}

func (w *World) trailAppendLocked(id core.EntityID, p core.GeoPos) {
	tr, ok := w.trails[id]
	if !ok {
		tr = geo.NewTrail(trailMaxPoints)
		w.trails[id] = tr
	}
	tr.Append(p)
}

// Trail returns the entity's recent track simplified with
// Ramer-Douglas-Peucker at the given tolerance in degrees. Nil for
// unknown entities or tracks shorter than two samples.
func (w *World) Trail(id core.EntityID, toleranceDeg float64) []core.GeoPos {
	w.mu.Lock()
	defer w.mu.Unlock()
	tr, ok := w.trails[id]
	if !ok || tr.Len() < 2 {
		return nil
	}
	pts, err := tr.Simplified(toleranceDeg)
	if err != nil {
		return nil
	}
	return pts
}

// Snapshot returns copies of all entities in id order, for the feed
// streamer and the Entities panel.
func (w *World) Snapshot() []Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rebuildOrderLocked()

	out := make([]Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, *w.entities[id])
	}
	return out
}

func (w *World) rebuildOrderLocked() {
	if !w.orderDirty && len(w.order) == len(w.entities) {
		return
	}
	w.order = w.order[:0]
	for id := range w.entities {
		w.order = append(w.order, id)
	}
	sort.Slice(w.order, func(i, j int) bool { return w.order[i] < w.order[j] })
	w.orderDirty = false
}

const degToRad = math.Pi / 180
