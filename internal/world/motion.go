package world

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// Orbit propagates a satellite-kind entity with SGP4 from TLE lines.
// The viewer's propagation is interpolative only; authoritative orbits
// come from the server side.
type Orbit struct {
	sat   satellite.Satellite
	epoch time.Time
}

// NewOrbitFromTLE constructs an orbit from two TLE lines. The epoch
// anchors elapsed world seconds to wall-clock propagation time.
func NewOrbitFromTLE(line1, line2 string, epoch time.Time) *Orbit {
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	return &Orbit{sat: sat, epoch: epoch}
}

// Position propagates to epoch+elapsed and returns geodetic lat/lon in
// degrees and altitude in metres. ok is false when SGP4 yields a
// non-finite position (decayed or invalid elements).
func (o *Orbit) Position(elapsedSec float64) (latDeg, lonDeg, altM float64, ok bool) {
	t := o.epoch.Add(time.Duration(elapsedSec * float64(time.Second))).UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(o.sat, year, int(month), day, hour, min, sec)
	if !finite(posECI.X) || !finite(posECI.Y) || !finite(posECI.Z) {
		return 0, 0, 0, false
	}

	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	altKm, _, ll := satellite.ECIToLLA(posECI, gmst)
	deg := satellite.LatLongDeg(ll)

	if !finite(deg.Latitude) || !finite(deg.Longitude) || !finite(altKm) {
		return 0, 0, 0, false
	}
	return deg.Latitude, deg.Longitude, altKm * 1000, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
