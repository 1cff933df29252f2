package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sentinelc2/client/internal/dispatcher"
	"github.com/sentinelc2/client/internal/world"
	"github.com/sentinelc2/client/pkg/core"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...any) {}
func (nopLogger) Info(msg string, keysAndValues ...any)  {}
func (nopLogger) Error(msg string, keysAndValues ...any) {}

func newTestPoller(t *testing.T, serverURL string, resources []string) (*Poller, *world.World) {
	t.Helper()
	w := world.New(6371000)
	d, err := dispatcher.New(nopLogger{})
	if err != nil {
		t.Fatalf("dispatcher.New failed: %v", err)
	}
	// Unbuffered handlers so application is synchronous under test.
	RegisterWorldHandlers(d, w)

	c := New(serverURL, "", "acme")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPoller(c, d, resources, time.Second, logger), w
}

func TestPollOnce_PopulatesWorld(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/acme/flights":
			_, _ = w.Write([]byte(`[{"id": 1, "lat": 40, "lon": -73, "headingDeg": 90}]`))
		case "/api/v1/acme/ships":
			_, _ = w.Write([]byte(`[{"id": 2, "lat": 0, "lon": 0}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	p, w := newTestPoller(t, server.URL, []string{"flights", "ships"})
	p.PollOnce(context.Background())

	if w.Len() != 2 {
		t.Fatalf("expected 2 entities, got %d", w.Len())
	}
	e, ok := w.Get(1)
	if !ok {
		t.Fatal("expected entity 1")
	}
	if e.Kind != core.KindFlight {
		t.Errorf("expected flight kind from resource fallback, got %v", e.Kind)
	}
	if e.Geo.LatDeg != 40 || e.Geo.LonDeg != -73 {
		t.Errorf("expected position 40,-73, got %+v", e.Geo)
	}
	if e.HeadingDeg != 90 {
		t.Errorf("expected heading 90, got %f", e.HeadingDeg)
	}
	if e.AltitudeM != core.KindFlight.DefaultAltitude() {
		t.Errorf("expected default flight altitude, got %f", e.AltitudeM)
	}
	if e2, _ := w.Get(2); e2.Kind != core.KindShip {
		t.Errorf("expected ship kind, got %v", e2.Kind)
	}
}

func TestPollOnce_RecordKindOverridesResource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 5, "kind": "satellite"}]`))
	}))
	defer server.Close()

	p, w := newTestPoller(t, server.URL, []string{"assets"})
	p.PollOnce(context.Background())

	e, ok := w.Get(5)
	if !ok {
		t.Fatal("expected entity 5")
	}
	if e.Kind != core.KindSatellite {
		t.Errorf("expected record's own kind to win, got %v", e.Kind)
	}
}

func TestPollOnce_RemovedRecordDeletes(t *testing.T) {
	removed := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if removed {
			_, _ = w.Write([]byte(`[{"id": 3, "removed": true}]`))
			return
		}
		_, _ = w.Write([]byte(`[{"id": 3, "lat": 10, "lon": 10}]`))
	}))
	defer server.Close()

	p, w := newTestPoller(t, server.URL, []string{"units"})
	p.PollOnce(context.Background())
	if w.Len() != 1 {
		t.Fatalf("expected 1 entity, got %d", w.Len())
	}

	removed = true
	p.PollOnce(context.Background())
	if w.Len() != 0 {
		t.Errorf("expected entity removed, got %d remaining", w.Len())
	}
}

func TestPollOnce_FailedResourceDoesNotAbortOthers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/acme/assets" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[{"id": 9, "lat": 1, "lon": 2}]`))
	}))
	defer server.Close()

	p, w := newTestPoller(t, server.URL, []string{"assets", "units"})
	p.PollOnce(context.Background())

	if w.Len() != 1 {
		t.Errorf("expected the healthy resource applied, got %d entities", w.Len())
	}
	if p.Failures() != 1 {
		t.Errorf("expected 1 failure, got %d", p.Failures())
	}
	if p.Polls() != 1 {
		t.Errorf("expected 1 poll cycle, got %d", p.Polls())
	}
}

func TestPoller_StartStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 1}]`))
	}))
	defer server.Close()

	p, w := newTestPoller(t, server.URL, []string{"assets"})
	p.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for w.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	p.Stop()

	if w.Len() != 1 {
		t.Errorf("expected the first cycle to run immediately, got %d entities", w.Len())
	}
	if p.Polls() == 0 {
		t.Error("expected at least one poll cycle")
	}
}

func TestPollOnce_TasksResourcePolled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/acme/tasks" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"id": 7, "lat": 12, "lon": 34}]`))
	}))
	defer server.Close()

	// No explicit resources: the defaults must include tasks.
	p, w := newTestPoller(t, server.URL, nil)
	p.PollOnce(context.Background())

	e, ok := w.Get(7)
	if !ok {
		t.Fatal("expected the tasks record ingested")
	}
	if e.Kind != core.KindMission {
		t.Errorf("expected tasks to fall back to mission kind, got %v", e.Kind)
	}
}

func TestFields_PartialPositionIgnored(t *testing.T) {
	lat := 45.0
	rec := EntityRecord{ID: 1, Lat: &lat}
	f := rec.Fields(core.KindAsset)
	if f.Geo != nil {
		t.Error("expected lone latitude to be ignored")
	}
	if f.Kind == nil || *f.Kind != core.KindAsset {
		t.Error("expected fallback kind applied")
	}
}
