package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/sentinelc2/client/pkg/core"
)

// Trail records the recent geodetic track of one entity as an ordered
// point list, bounded by a maximum point count. The Inspector panel
// draws the simplified line for the selected entity.
type Trail struct {
	points    []core.GeoPos
	maxPoints int
}

// NewTrail creates a trail holding at most maxPoints samples.
func NewTrail(maxPoints int) *Trail {
	if maxPoints < 2 {
		maxPoints = 2
	}
	return &Trail{maxPoints: maxPoints}
}

// Append adds a position sample, dropping the oldest when full.
func (t *Trail) Append(p core.GeoPos) {
	p.LatDeg = ClampLat(p.LatDeg)
	p.LonDeg = WrapLon(p.LonDeg)
	t.points = append(t.points, p)
	if len(t.points) > t.maxPoints {
		copy(t.points, t.points[len(t.points)-t.maxPoints:])
		t.points = t.points[:t.maxPoints]
	}
}

// Len returns the number of recorded samples.
func (t *Trail) Len() int {
	return len(t.points)
}

// Points returns the recorded samples oldest-first.
func (t *Trail) Points() []core.GeoPos {
	return t.points
}

// LineString builds a simplefeatures line string from the trail.
// Returns an error when fewer than 2 points are recorded.
func (t *Trail) LineString() (geom.LineString, error) {
	if len(t.points) < 2 {
		return geom.LineString{}, fmt.Errorf("trail needs at least 2 points, got %d", len(t.points))
	}
	flat := make([]float64, 0, len(t.points)*2)
	for _, p := range t.points {
		flat = append(flat, p.LonDeg, p.LatDeg)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq), nil
}

// Simplified returns the trail decimated with Ramer-Douglas-Peucker at
// the given tolerance in degrees.
func (t *Trail) Simplified(toleranceDeg float64) ([]core.GeoPos, error) {
	ls, err := t.LineString()
	if err != nil {
		return nil, err
	}
	simplified, err := ls.AsGeometry().Simplify(toleranceDeg)
	if err != nil {
		return nil, fmt.Errorf("simplify trail: %w", err)
	}
	if !simplified.IsLineString() {
		// Degenerate trails (all points coincident) collapse; fall back
		// to the raw samples.
		return t.points, nil
	}
	seq := simplified.MustAsLineString().Coordinates()
	out := make([]core.GeoPos, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		out = append(out, core.GeoPos{LatDeg: xy.Y, LonDeg: xy.X})
	}
	return out, nil
}
