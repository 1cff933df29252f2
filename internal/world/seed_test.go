package world

import (
	"testing"

	"github.com/sentinelc2/client/pkg/core"
)

func TestSeed_Count(t *testing.T) {
	w := New(6371000)
	w.Seed(50)
	if w.Len() != 50 {
		t.Errorf("expected 50 entities, got %d", w.Len())
	}
}

func TestSeed_ZeroAndNegativeNoop(t *testing.T) {
	w := New(6371000)
	w.Seed(0)
	w.Seed(-5)
	if w.Len() != 0 {
		t.Errorf("expected empty world, got %d", w.Len())
	}
}

func TestSeed_Deterministic(t *testing.T) {
	a := New(6371000)
	b := New(6371000)
	a.Seed(20)
	b.Seed(20)

	ea := a.Snapshot()
	eb := b.Snapshot()
	for i := range ea {
		if ea[i].Geo != eb[i].Geo || ea[i].Kind != eb[i].Kind {
			t.Fatalf("seed not deterministic at %d: %+v vs %+v", i, ea[i], eb[i])
		}
	}
}

func TestSeed_KindsInBounds(t *testing.T) {
	w := New(6371000)
	w.Seed(30)
	for _, e := range w.Snapshot() {
		if e.Geo.LatDeg < -85 || e.Geo.LatDeg > 85 {
			t.Errorf("entity %d lat out of range: %f", e.ID, e.Geo.LatDeg)
		}
		if e.Geo.LonDeg <= -180 || e.Geo.LonDeg > 180 {
			t.Errorf("entity %d lon out of range: %f", e.ID, e.Geo.LonDeg)
		}
	}
}

func TestSeed_IngestOverwritesSeeded(t *testing.T) {
	// Ids collide between seed and ingest: ingest is authoritative.
	w := New(6371000)
	w.Seed(10)
	w.Upsert(1, Fields{Geo: &core.GeoPos{LatDeg: 33, LonDeg: 44}})

	e, _ := w.Get(1)
	if e.Geo.LatDeg != 33 || e.Geo.LonDeg != 44 {
		t.Errorf("expected ingest to win, got %+v", e.Geo)
	}
}

func TestSeed_SatellitesMoveOnTick(t *testing.T) {
	w := New(6371000)
	w.Seed(9) // covers the full kind cycle including one satellite
	w.Tick(0)

	var before *Entity
	for _, e := range w.Snapshot() {
		if e.Kind == core.KindSatellite {
			c := e
			before = &c
			break
		}
	}
	if before == nil {
		t.Fatal("expected a seeded satellite")
	}

	w.Tick(60)
	after, _ := w.Get(before.ID)
	if after.Geo == before.Geo {
		t.Error("expected satellite to move after 60s of propagation")
	}
	if after.AltitudeM < 100_000 {
		t.Errorf("expected orbital altitude, got %f", after.AltitudeM)
	}
}
