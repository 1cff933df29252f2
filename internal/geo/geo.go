// Package geo provides the geodetic math used by the world and the
// globe renderer: lat/lon clamping and wrapping, sphere projection, and
// the two texture parameterizations (equirectangular and Web Mercator).
package geo

import (
	"math"

	"github.com/sentinelc2/client/pkg/core"
	"github.com/wroge/wgs84"
)

const (
	// MinLatDeg and MaxLatDeg bound the usable latitude range. Poles are
	// excluded so Web Mercator stays finite.
	MinLatDeg = -85.0
	MaxLatDeg = 85.0

	// mercatorHalfSpan is the EPSG:3857 easting of lon=180 in metres.
	mercatorHalfSpan = 20037508.342789244
)

// ClampLat clamps a latitude to [MinLatDeg, MaxLatDeg].
func ClampLat(latDeg float64) float64 {
	if latDeg < MinLatDeg {
		return MinLatDeg
	}
	if latDeg > MaxLatDeg {
		return MaxLatDeg
	}
	return latDeg
}

// WrapLon normalizes a longitude to (-180, 180].
func WrapLon(lonDeg float64) float64 {
	lonDeg = math.Mod(lonDeg, 360)
	if lonDeg > 180 {
		lonDeg -= 360
	} else if lonDeg <= -180 {
		lonDeg += 360
	}
	return lonDeg
}

// WrapHeading normalizes a heading to [0, 360).
func WrapHeading(headingDeg float64) float64 {
	headingDeg = math.Mod(headingDeg, 360)
	if headingDeg < 0 {
		headingDeg += 360
	}
	return headingDeg
}

// ToCartesian projects a geodetic position onto a sphere of the given
// radius. The sphere is Y-up: lat 90 maps to +Y, (0, 0) maps to -X.
func ToCartesian(latDeg, lonDeg, radius float64) core.Position3D {
	phi := (90 - latDeg) * math.Pi / 180
	theta := (lonDeg + 180) * math.Pi / 180
	sinPhi := math.Sin(phi)
	return core.Position3D{
		X: radius * sinPhi * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * sinPhi * math.Sin(theta),
	}
}

// EquirectUV maps a geodetic position to equirectangular texture
// coordinates: u = (lon+180)/360, v = (90-lat)/180.
func EquirectUV(latDeg, lonDeg float64) (u, v float64) {
	return (lonDeg + 180) / 360, (90 - latDeg) / 180
}

// toMercator converts WGS84 (EPSG:4326) to Web Mercator (EPSG:3857).
var toMercator = wgs84.EPSG().Transform(4326, 3857)

// MercatorUV maps a geodetic position to Web Mercator texture
// coordinates normalized to [0, 1]. Latitudes are clamped to the usable
// range first so the projection stays finite.
func MercatorUV(latDeg, lonDeg float64) (u, v float64) {
	x, y, _ := toMercator(WrapLon(lonDeg), ClampLat(latDeg), 0)
	u = (x + mercatorHalfSpan) / (2 * mercatorHalfSpan)
	v = (mercatorHalfSpan - y) / (2 * mercatorHalfSpan)
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return u, v
}

// TileBoundsAt returns the geodetic rectangle covered by tile (x, y) of
// an equirectangular grid with 2^zoom tiles per side.
func TileBoundsAt(zoom, x, y int) core.TileBounds {
	grid := float64(uint(1) << uint(zoom))
	lonSpan := 360 / grid
	latSpan := 180 / grid
	return core.TileBounds{
		LonMin: -180 + float64(x)*lonSpan,
		LonMax: -180 + float64(x+1)*lonSpan,
		LatMax: 90 - float64(y)*latSpan,
		LatMin: 90 - float64(y+1)*latSpan,
	}
}
