// pkg/core/entity.go
package core

// EntityID uniquely identifies an entity in the world.
type EntityID uint64

// EntityKind classifies an entity and drives its default color, size,
// icon and altitude.
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindAsset
	KindUnit
	KindMission
	KindIncident
	KindFlight
	KindSatellite
	KindShip
)

// String returns the lowercase name used in feeds and logs.
func (k EntityKind) String() string {
	switch k {
	case KindAsset:
		return "asset"
	case KindUnit:
		return "unit"
	case KindMission:
		return "mission"
	case KindIncident:
		return "incident"
	case KindFlight:
		return "flight"
	case KindSatellite:
		return "satellite"
	case KindShip:
		return "ship"
	default:
		return "unknown"
	}
}

// KindFromString parses a feed kind/status string. Unrecognized values
// map to KindUnknown.
func KindFromString(s string) EntityKind {
	switch s {
	case "asset":
		return KindAsset
	case "unit":
		return KindUnit
	case "mission":
		return KindMission
	case "incident":
		return KindIncident
	case "flight":
		return KindFlight
	case "satellite":
		return KindSatellite
	case "ship":
		return KindShip
	default:
		return KindUnknown
	}
}

// IconIndex returns the icon atlas layer for the kind.
func (k EntityKind) IconIndex() uint32 {
	switch k {
	case KindFlight:
		return 0
	case KindShip:
		return 1
	case KindSatellite:
		return 2
	default:
		return 0
	}
}

// RGBA is a straight-alpha 8-bit color.
type RGBA struct {
	R, G, B, A uint8
}

// DefaultColor returns the marker color for the kind.
func (k EntityKind) DefaultColor() RGBA {
	switch k {
	case KindAsset:
		return RGBA{R: 64, G: 200, B: 255, A: 255}
	case KindUnit:
		return RGBA{R: 90, G: 220, B: 90, A: 255}
	case KindMission:
		return RGBA{R: 255, G: 200, B: 60, A: 255}
	case KindIncident:
		return RGBA{R: 240, G: 70, B: 70, A: 255}
	case KindFlight:
		return RGBA{R: 255, G: 255, B: 120, A: 255}
	case KindSatellite:
		return RGBA{R: 200, G: 160, B: 255, A: 255}
	case KindShip:
		return RGBA{R: 120, G: 180, B: 255, A: 255}
	default:
		return RGBA{R: 180, G: 180, B: 180, A: 255}
	}
}

// DefaultSize returns the screen-space marker quad size in pixels.
func (k EntityKind) DefaultSize() float32 {
	switch k {
	case KindFlight:
		return 14
	case KindShip:
		return 12
	case KindSatellite:
		return 10
	case KindIncident:
		return 16
	default:
		return 12
	}
}

// DefaultAltitude returns the default altitude above the globe surface
// in metres.
func (k EntityKind) DefaultAltitude() float64 {
	switch k {
	case KindFlight:
		return 10_000
	case KindSatellite:
		return 550_000
	default:
		return 0
	}
}

// GeoPos is a geodetic position. Latitude is clamped to [-85, 85] and
// longitude wrapped to (-180, 180] by the world on every write.
type GeoPos struct {
	LatDeg float64 `json:"lat"`
	LonDeg float64 `json:"lon"`
}

// Velocity is a per-second rate of change of geo position and heading.
type Velocity struct {
	DLatDeg  float64 `json:"dlat"`
	DLonDeg  float64 `json:"dlon"`
	DHeadDeg float64 `json:"dheading"`
}

// Position3D is a Cartesian point in globe space.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// RenderInstance is one flat, GPU-friendly per-entity record consumed by
// the marker pass.
type RenderInstance struct {
	Position   Position3D
	Size       float32
	Color      RGBA
	HeadingRad float32
	IconIndex  uint32
	Kind       EntityKind
}
