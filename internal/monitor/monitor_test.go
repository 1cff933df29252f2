package monitor

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/sentinelc2/client/internal/frame"
	"github.com/sentinelc2/client/internal/logging"
	"github.com/sentinelc2/client/internal/world"
)

func newTestService(t *testing.T) (*Service, *world.World) {
	t.Helper()
	w := world.New(6371000)
	return NewService(Dependencies{
		LogManager: logging.NewSlogManager(),
		Loop:       frame.NewLoop(frame.Dependencies{World: w}),
		World:      w,
		SessionDir: t.TempDir(),
		Interval:   10 * time.Millisecond,
	}), w
}

type fixedTileCounter int

func (c fixedTileCounter) TilesLoaded() int { return int(c) }

func TestStatus_CountsEntities(t *testing.T) {
	s, w := newTestService(t)
	w.Upsert(1, world.Fields{})
	w.Upsert(2, world.Fields{})

	st := s.Status()
	if st.Entities != 2 {
		t.Errorf("expected 2 entities, got %d", st.Entities)
	}
	if st.Frames != 0 {
		t.Errorf("expected 0 frames, got %d", st.Frames)
	}
	if st.Time.IsZero() {
		t.Error("expected sample time set")
	}
}

func TestStatus_ReportsTileTally(t *testing.T) {
	s, _ := newTestService(t)
	if st := s.Status(); st.TilesLoaded != 0 {
		t.Errorf("expected 0 tiles without a pipeline, got %d", st.TilesLoaded)
	}

	s.deps.Tiles = fixedTileCounter(12)
	if st := s.Status(); st.TilesLoaded != 12 {
		t.Errorf("expected 12 tiles, got %d", st.TilesLoaded)
	}
}

func TestService_WritesStatusFile(t *testing.T) {
	s, w := newTestService(t)
	w.Upsert(7, world.Fields{})

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	path := s.deps.SessionDir + "/status.txt"
	deadline := time.Now().Add(2 * time.Second)
	var data []byte
	for time.Now().Before(deadline) {
		data, _ = os.ReadFile(path)
		if len(data) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(data) == 0 {
		t.Fatal("expected status.txt to be written")
	}

	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("status.txt is not valid JSON: %v", err)
	}
	if st.Entities != 1 {
		t.Errorf("expected 1 entity in status, got %d", st.Entities)
	}
}

func TestService_StartStop(t *testing.T) {
	s, _ := newTestService(t)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	if !s.IsRunning() {
		t.Error("expected running after Start")
	}
	// Starting again is a no-op.
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("expected stopped after Stop")
	}
}
