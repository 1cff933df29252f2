// Package websocket streams the client's view to a remote viewer
// server: webp-encoded viewport snapshots plus entity, layer and timing
// summaries, wrapped in streaming envelopes over a single-writer
// WebSocket connection.
package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"

	"github.com/sentinelc2/client/internal/frame"
	"github.com/sentinelc2/client/internal/ui"
	"github.com/sentinelc2/client/internal/world"
	"github.com/sentinelc2/client/pkg/core"
	"github.com/sentinelc2/client/pkg/streaming"
)

// Config holds viewer sink configuration.
type Config struct {
	URL    string
	Secret string

	ClientName string
	Version    string
	Tenant     string
	SessionID  string

	// FrameEvery sends every Nth presented frame; 0 defaults to 3.
	FrameEvery int
	// StatusInterval is the entity/layer/timing summary cadence;
	// 0 defaults to 1s.
	StatusInterval time.Duration
}

// Backend is the remote-viewer sink. It implements the frame loop's
// Sink; Present must be called from the frame goroutine.
type Backend struct {
	conn   *connection
	cfg    Config
	world  *world.World
	logger *slog.Logger

	seq atomic.Uint64

	// frame-goroutine state
	frames     uint64
	lastStatus time.Time
}

var _ frame.Sink = (*Backend)(nil)

// New creates a viewer sink. The world is snapshotted for entity
// summaries on each status interval.
func New(cfg Config, w *world.World, logger *slog.Logger) *Backend {
	if cfg.FrameEvery <= 0 {
		cfg.FrameEvery = 3
	}
	if cfg.StatusInterval <= 0 {
		cfg.StatusInterval = time.Second
	}
	return &Backend{
		conn:   newConnection(logger),
		cfg:    cfg,
		world:  w,
		logger: logger,
	}
}

// Init connects to the viewer server and performs the hello handshake.
func (b *Backend) Init() error {
	if err := b.conn.dial(b.cfg.URL, b.cfg.Secret); err != nil {
		return err
	}

	data, err := marshalEnvelope(streaming.TypeHello, streaming.HelloPayload{
		Client:    b.cfg.ClientName,
		Version:   b.cfg.Version,
		Tenant:    b.cfg.Tenant,
		SessionID: b.cfg.SessionID,
	})
	if err != nil {
		return err
	}

	// Cache for reconnect replay.
	b.conn.mu.Lock()
	b.conn.cachedHelloMsg = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeHello, ackTimeout)
}

// Close says goodbye and disconnects. The goodbye is best effort; a
// slow server never blocks shutdown for more than the ack timeout.
func (b *Backend) Close() error {
	if err := b.sendEnvelopeAndWait(streaming.TypeGoodbye, nil); err != nil {
		b.logger.Warn("viewer goodbye not acknowledged", "error", err)
	}

	b.conn.mu.Lock()
	b.conn.cachedHelloMsg = nil
	b.conn.mu.Unlock()

	return b.conn.close()
}

// Present streams the frame. Every FrameEvery-th viewport snapshot is
// webp-encoded and sent; entity, layer and timing summaries go out once
// per StatusInterval. Paint jobs stay local, the viewer only mirrors
// the globe viewport.
func (b *Backend) Present(viewport *image.NRGBA, jobs []ui.PaintJob, timings frame.Snapshot, layers []core.LayerStats) error {
	b.frames++

	if b.frames%uint64(b.cfg.FrameEvery) == 0 {
		if err := b.sendFrame(viewport); err != nil {
			b.logger.Warn("viewer frame send failed", "error", err)
		}
	}

	now := time.Now()
	if now.Sub(b.lastStatus) >= b.cfg.StatusInterval {
		b.lastStatus = now
		b.sendStatus(timings, layers)
	}
	return nil
}

func (b *Backend) sendFrame(viewport *image.NRGBA) error {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, viewport, nil); err != nil {
		return fmt.Errorf("webp encode: %w", err)
	}
	return b.sendEnvelope(streaming.TypeFrame, streaming.FramePayload{
		Seq:      b.seq.Add(1),
		Width:    viewport.Rect.Dx(),
		Height:   viewport.Rect.Dy(),
		Encoding: "webp",
		Data:     buf.Bytes(),
	})
}

func (b *Backend) sendStatus(timings frame.Snapshot, layers []core.LayerStats) {
	entities := b.world.Snapshot()
	summaries := make([]streaming.EntitySummary, 0, len(entities))
	for _, e := range entities {
		summaries = append(summaries, streaming.EntitySummary{
			ID:      e.ID,
			Kind:    e.Kind.String(),
			Lat:     e.Geo.LatDeg,
			Lon:     e.Geo.LonDeg,
			AltM:    e.AltitudeM,
			Heading: e.HeadingDeg,
		})
	}
	if err := b.sendEnvelope(streaming.TypeEntities, streaming.EntitiesPayload{
		Seq:      b.seq.Add(1),
		Entities: summaries,
	}); err != nil {
		b.logger.Warn("viewer entities send failed", "error", err)
	}

	if err := b.sendEnvelope(streaming.TypeLayerStats, streaming.LayerStatsPayload{
		Seq:    b.seq.Add(1),
		Layers: layers,
	}); err != nil {
		b.logger.Warn("viewer layer stats send failed", "error", err)
	}

	if err := b.sendEnvelope(streaming.TypeTimings, streaming.TimingsPayload{
		Seq:      b.seq.Add(1),
		WorldMs:  timings.WorldMs,
		TilesMs:  timings.TilesMs,
		UIMs:     timings.UIMs,
		RenderMs: timings.RenderMs,
		FrameMs:  timings.FrameMs,
		P95Ms:    timings.FrameP95Ms,
		P99Ms:    timings.FrameP99Ms,
		FPS:      timings.FPS,
	}); err != nil {
		b.logger.Warn("viewer timings send failed", "error", err)
	}
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (b *Backend) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// sendEnvelopeAndWait marshals the payload and waits for a server ack.
func (b *Backend) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return b.conn.sendAndWait(data, msgType, ackTimeout)
}
