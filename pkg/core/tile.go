// pkg/core/tile.go
package core

import "time"

// TileKind identifies one of the three independent overlay layer families.
type TileKind uint8

const (
	TileBase TileKind = iota
	TileWeather
	TileSea
)

func (k TileKind) String() string {
	switch k {
	case TileBase:
		return "base"
	case TileWeather:
		return "weather"
	case TileSea:
		return "sea"
	default:
		return "invalid"
	}
}

// TileKinds lists all layer families in painter order (base is drawn by
// the globe pass; weather is always topmost among overlays).
var TileKinds = [3]TileKind{TileBase, TileSea, TileWeather}

// TileRequest asks the pipeline for fresh mosaics of all three kinds.
type TileRequest struct {
	RequestID    uint64 `json:"requestId"`
	Zoom         int    `json:"zoom"`
	ProviderID   string `json:"providerId"`
	WeatherField string `json:"weatherField"`
	SeaField     string `json:"seaField"`
}

// TileResult is one completed mosaic. A result with Valid=false carries
// no usable pixels and must never overwrite a previously valid layer.
type TileResult struct {
	RequestID uint64
	Kind      TileKind
	Zoom      int
	Width     int
	Height    int
	RGBA      []byte
	Valid     bool
}

// TileBounds is the geodetic rectangle one overlay instance drapes over.
type TileBounds struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// LayerStats is the per-kind pipeline health snapshot surfaced in the
// Inspector panel.
type LayerStats struct {
	Kind         TileKind  `json:"kind"`
	Desired      int       `json:"desired"`
	Loaded       int       `json:"loaded"`
	Pending      int       `json:"pending"`
	CacheBytes   int64     `json:"cacheBytes"`
	CacheCap     int64     `json:"cacheCap"`
	LastActivity time.Time `json:"lastActivity"`
	Stalled      bool      `json:"stalled"`
}

// Status returns the Inspector status string for the layer.
func (s LayerStats) Status() string {
	switch {
	case s.Desired == 0:
		return "off"
	case s.Stalled:
		return "stall"
	default:
		return "ok"
	}
}
