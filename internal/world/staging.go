package world

import "github.com/sentinelc2/client/pkg/core"

// staging holds the parallel arrays the bulk ingest path fills before a
// Commit applies them in order.
type staging struct {
	IDs      []core.EntityID
	Lats     []float64
	Lons     []float64
	Kinds    []core.EntityKind
	Alts     []float64
	Sizes    []float32
	Colors   []core.RGBA
	Headings []float64
}

// Staging exposes the reserved parallel arrays to the caller.
type Staging struct {
	IDs      []core.EntityID
	Lats     []float64
	Lons     []float64
	Kinds    []core.EntityKind
	Alts     []float64
	Sizes    []float32
	Colors   []core.RGBA
	Headings []float64
}

// Stage reserves n slots across the parallel arrays. Any previously
// staged but uncommitted records are discarded.
func (w *World) Stage(n int) Staging {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n < 0 {
		n = 0
	}
	s := &w.staging
	s.IDs = resize(s.IDs, n)
	s.Lats = resize(s.Lats, n)
	s.Lons = resize(s.Lons, n)
	s.Kinds = resize(s.Kinds, n)
	s.Alts = resize(s.Alts, n)
	s.Sizes = resize(s.Sizes, n)
	s.Colors = resize(s.Colors, n)
	s.Headings = resize(s.Headings, n)
	return Staging{
		IDs:      s.IDs,
		Lats:     s.Lats,
		Lons:     s.Lons,
		Kinds:    s.Kinds,
		Alts:     s.Alts,
		Sizes:    s.Sizes,
		Colors:   s.Colors,
		Headings: s.Headings,
	}
}

// Commit applies the first n staged records in order via upsert. An n
// beyond the staged size silently truncates to the staged size.
func (w *World) Commit(n int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := &w.staging
	if n > len(s.IDs) {
		n = len(s.IDs)
	}
	for i := 0; i < n; i++ {
		kind := s.Kinds[i]
		geoPos := core.GeoPos{LatDeg: s.Lats[i], LonDeg: s.Lons[i]}
		alt := s.Alts[i]
		size := s.Sizes[i]
		color := s.Colors[i]
		heading := s.Headings[i]
		w.upsertLocked(s.IDs[i], Fields{
			Kind:       &kind,
			Geo:        &geoPos,
			AltitudeM:  &alt,
			Size:       &size,
			Color:      &color,
			HeadingDeg: &heading,
		})
	}
	s.IDs = s.IDs[:0]
	s.Lats = s.Lats[:0]
	s.Lons = s.Lons[:0]
	s.Kinds = s.Kinds[:0]
	s.Alts = s.Alts[:0]
	s.Sizes = s.Sizes[:0]
	s.Colors = s.Colors[:0]
	s.Headings = s.Headings[:0]
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	s = s[:n]
	var zero T
	for i := range s {
		s[i] = zero
	}
	return s
}
