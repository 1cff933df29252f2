package render

import (
	"github.com/sentinelc2/client/internal/geo"
)

// SphereMesh is an indexed UV sphere. Every vertex carries the two
// texture parameterizations: equirectangular for the base imagery and
// Web Mercator for slippy-map overlays.
type SphereMesh struct {
	Positions  []Vec3
	Normals    []Vec3
	EquirectUV [][2]float64
	MercatorUV [][2]float64
	Indices    []uint32

	Radius float64
	Rings  int
	Segs   int
}

// NewSphereMesh tessellates a sphere of the given radius. subdivisions
// sets the ring count; segments are twice that so quads stay roughly
// square. Rows run pole to pole over the usable latitude range.
func NewSphereMesh(radius float64, subdivisions int) *SphereMesh {
	if subdivisions < 4 {
		subdivisions = 4
	}
	rings := subdivisions
	segs := subdivisions * 2

	m := &SphereMesh{
		Radius: radius,
		Rings:  rings,
		Segs:   segs,
	}

	for r := 0; r <= rings; r++ {
		t := float64(r) / float64(rings)
		lat := geo.MaxLatDeg - t*(geo.MaxLatDeg-geo.MinLatDeg)
		for s := 0; s <= segs; s++ {
			lon := -180 + float64(s)/float64(segs)*360
			p := geo.ToCartesian(lat, lon, radius)
			pos := Vec3{p.X, p.Y, p.Z}
			m.Positions = append(m.Positions, pos)
			m.Normals = append(m.Normals, pos.Normalize())

			eu, ev := geo.EquirectUV(lat, lon)
			m.EquirectUV = append(m.EquirectUV, [2]float64{eu, ev})
			mu, mv := geo.MercatorUV(lat, lon)
			m.MercatorUV = append(m.MercatorUV, [2]float64{mu, mv})
		}
	}

	stride := uint32(segs + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < segs; s++ {
			i0 := uint32(r)*stride + uint32(s)
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			m.Indices = append(m.Indices, i0, i2, i1, i1, i2, i3)
		}
	}
	return m
}

// TriangleCount returns the number of triangles in the index buffer.
func (m *SphereMesh) TriangleCount() int {
	return len(m.Indices) / 3
}
