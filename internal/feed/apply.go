package feed

import (
	"fmt"

	"github.com/sentinelc2/client/internal/dispatcher"
	"github.com/sentinelc2/client/internal/world"
	"github.com/sentinelc2/client/pkg/core"
)

// Batch is the dispatcher payload for one fetched resource list. Kind is
// the fallback for records that carry none of their own.
type Batch struct {
	Kind    core.EntityKind
	Records []EntityRecord
}

// Fields converts the record to a partial world update. Absent members
// stay nil so the world keeps prior values or kind defaults.
func (r EntityRecord) Fields(fallback core.EntityKind) world.Fields {
	var f world.Fields

	kind := fallback
	if r.Kind != "" {
		kind = core.KindFromString(r.Kind)
	}
	if kind != core.KindUnknown {
		f.Kind = &kind
	}

	// A position needs both coordinates; a lone one is ignored.
	if r.Lat != nil && r.Lon != nil {
		f.Geo = &core.GeoPos{LatDeg: *r.Lat, LonDeg: *r.Lon}
	}
	f.AltitudeM = r.AltitudeM
	f.HeadingDeg = r.HeadingDeg
	f.Velocity = r.Velocity
	return f
}

// RegisterWorldHandlers wires the entity commands to the world store.
// Production callers pass dispatcher.Buffered so poll cycles never run
// on the caller's goroutine; tests omit it for synchronous application.
func RegisterWorldHandlers(d *dispatcher.Dispatcher, w *world.World, opts ...dispatcher.Option) {
	d.Register(dispatcher.CmdUpsertEntities, func(e dispatcher.Event) (any, error) {
		batch, ok := e.Payload.(Batch)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", e.Payload)
		}
		for _, rec := range batch.Records {
			if rec.Removed {
				w.Remove(core.EntityID(rec.ID))
				continue
			}
			w.Upsert(core.EntityID(rec.ID), rec.Fields(batch.Kind))
		}
		return len(batch.Records), nil
	}, opts...)

	d.Register(dispatcher.CmdRemoveEntity, func(e dispatcher.Event) (any, error) {
		id, ok := e.Payload.(core.EntityID)
		if !ok {
			return nil, fmt.Errorf("unexpected payload type %T", e.Payload)
		}
		w.Remove(id)
		return nil, nil
	}, opts...)
}
