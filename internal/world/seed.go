package world

import (
	"math/rand"
	"time"

	"github.com/sentinelc2/client/pkg/core"
)

// Demo TLEs for seeded satellite entities (ISS, NOAA 19, a Starlink
// shell member). Stale elements are fine for a demo viewer.
var seedTLEs = [][2]string{
	{
		"1 25544U 98067A   24001.50000000  .00016717  00000-0  10270-3 0  9000",
		"2 25544  51.6400 208.9163 0006317  69.9862 290.2000 15.49560000000000",
	},
	{
		"1 33591U 09005A   24001.50000000  .00000100  00000-0  60000-4 0  9999",
		"2 33591  99.1900 100.0000 0014000  90.0000 270.0000 14.12500000000000",
	},
	{
		"1 44713U 19074A   24001.50000000  .00001000  00000-0  70000-4 0  9999",
		"2 44713  53.0000  50.0000 0001500  90.0000 270.0000 15.06400000000000",
	},
}

// seedKinds cycles through the kinds seeded entities receive.
var seedKinds = []core.EntityKind{
	core.KindFlight,
	core.KindShip,
	core.KindUnit,
	core.KindAsset,
	core.KindFlight,
	core.KindShip,
	core.KindIncident,
	core.KindMission,
	core.KindSatellite,
}

// Seed populates the world with count deterministic demo entities.
// Flights and ships get velocities, satellites get SGP4 orbits, the
// rest are static. Ids start at 1; ingest later overwrites on
// collision (last writer wins).
func (w *World) Seed(count int) {
	if count <= 0 {
		return
	}
	rng := rand.New(rand.NewSource(42))
	epoch := time.Now().UTC()

	for i := 0; i < count; i++ {
		kind := seedKinds[i%len(seedKinds)]
		id := core.EntityID(i + 1)

		lat := rng.Float64()*160 - 80
		lon := rng.Float64()*360 - 180
		heading := rng.Float64() * 360

		f := Fields{
			Kind:       &kind,
			Geo:        &core.GeoPos{LatDeg: lat, LonDeg: lon},
			HeadingDeg: &heading,
		}

		switch kind {
		case core.KindFlight:
			f.Velocity = &core.Velocity{
				DLatDeg:  rng.Float64()*0.4 - 0.2,
				DLonDeg:  rng.Float64()*0.8 - 0.4,
				DHeadDeg: rng.Float64()*4 - 2,
			}
		case core.KindShip:
			f.Velocity = &core.Velocity{
				DLatDeg:  rng.Float64()*0.04 - 0.02,
				DLonDeg:  rng.Float64()*0.08 - 0.04,
				DHeadDeg: rng.Float64() - 0.5,
			}
		case core.KindSatellite:
			tle := seedTLEs[i%len(seedTLEs)]
			f.Orbit = NewOrbitFromTLE(tle[0], tle[1], epoch)
		}

		w.Upsert(id, f)
	}
}
