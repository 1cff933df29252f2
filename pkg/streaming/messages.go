package streaming

import (
	"encoding/json"

	"github.com/sentinelc2/client/pkg/core"
)

// Message type constants matching the remote-viewer protocol.
const (
	TypeHello      = "hello"
	TypeGoodbye    = "goodbye"
	TypeFrame      = "frame"
	TypeEntities   = "entities"
	TypeLayerStats = "layer_stats"
	TypeTimings    = "timings"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// HelloPayload identifies the client session to the viewer server.
type HelloPayload struct {
	Client    string `json:"client"`
	Version   string `json:"version"`
	Tenant    string `json:"tenant"`
	SessionID string `json:"sessionId"`
}

// FramePayload carries one encoded viewport snapshot.
type FramePayload struct {
	Seq      uint64 `json:"seq"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Encoding string `json:"encoding"` // "webp"
	Data     []byte `json:"data"`
}

// EntitySummary is a compact per-entity record for remote viewers.
type EntitySummary struct {
	ID      core.EntityID `json:"id"`
	Kind    string        `json:"kind"`
	Lat     float64       `json:"lat"`
	Lon     float64       `json:"lon"`
	AltM    float64       `json:"altM"`
	Heading float64       `json:"heading"`
}

// EntitiesPayload carries the current world population.
type EntitiesPayload struct {
	Seq      uint64          `json:"seq"`
	Entities []EntitySummary `json:"entities"`
}

// LayerStatsPayload carries per-layer tile pipeline health.
type LayerStatsPayload struct {
	Seq    uint64            `json:"seq"`
	Layers []core.LayerStats `json:"layers"`
}

// TimingsPayload carries the frame loop timing counters.
type TimingsPayload struct {
	Seq      uint64  `json:"seq"`
	WorldMs  float64 `json:"worldMs"`
	TilesMs  float64 `json:"tilesMs"`
	UIMs     float64 `json:"uiMs"`
	RenderMs float64 `json:"renderMs"`
	FrameMs  float64 `json:"frameMs"`
	P95Ms    float64 `json:"p95Ms"`
	P99Ms    float64 `json:"p99Ms"`
	FPS      float64 `json:"fps"`
}
