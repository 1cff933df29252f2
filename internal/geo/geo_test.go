package geo

import (
	"math"
	"testing"
)

func TestClampLat_InRange(t *testing.T) {
	if got := ClampLat(45); got != 45 {
		t.Errorf("expected 45, got %f", got)
	}
}

func TestClampLat_AboveMax(t *testing.T) {
	if got := ClampLat(89.9); got != 85 {
		t.Errorf("expected 85, got %f", got)
	}
}

func TestClampLat_BelowMin(t *testing.T) {
	if got := ClampLat(-90); got != -85 {
		t.Errorf("expected -85, got %f", got)
	}
}

func TestWrapLon_InRange(t *testing.T) {
	if got := WrapLon(179.5); got != 179.5 {
		t.Errorf("expected 179.5, got %f", got)
	}
}

func TestWrapLon_PositiveOverflow(t *testing.T) {
	if got := WrapLon(182); got != -178 {
		t.Errorf("expected -178, got %f", got)
	}
}

func TestWrapLon_NegativeOverflow(t *testing.T) {
	if got := WrapLon(-181); got != 179 {
		t.Errorf("expected 179, got %f", got)
	}
}

func TestWrapLon_ExactBoundary(t *testing.T) {
	// 180 is inside the range, -180 wraps to 180
	if got := WrapLon(180); got != 180 {
		t.Errorf("expected 180, got %f", got)
	}
	if got := WrapLon(-180); got != 180 {
		t.Errorf("expected 180, got %f", got)
	}
}

func TestWrapLon_MultipleRevolutions(t *testing.T) {
	if got := WrapLon(720 + 10); math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10, got %f", got)
	}
}

func TestWrapHeading_Negative(t *testing.T) {
	if got := WrapHeading(-90); got != 270 {
		t.Errorf("expected 270, got %f", got)
	}
}

func TestWrapHeading_FullCircle(t *testing.T) {
	if got := WrapHeading(360); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestToCartesian_Origin(t *testing.T) {
	p := ToCartesian(0, 0, 1)
	if math.Abs(p.X-(-1)) > 1e-6 || math.Abs(p.Y) > 1e-6 || math.Abs(p.Z) > 1e-6 {
		t.Errorf("expected (-1, 0, 0), got (%f, %f, %f)", p.X, p.Y, p.Z)
	}
}

func TestToCartesian_NorthPole(t *testing.T) {
	p := ToCartesian(90, 0, 2)
	if math.Abs(p.Y-2) > 1e-6 {
		t.Errorf("expected Y=2 at the pole, got %f", p.Y)
	}
}

func TestToCartesian_RadiusPreserved(t *testing.T) {
	cases := []struct {
		lat, lon, r float64
	}{
		{0, 0, 1},
		{45, 45, 10},
		{-85, 180, 6371000},
		{30, -120, 0.5},
		{85, 1, 6371000 + 550000},
	}
	for _, c := range cases {
		p := ToCartesian(c.lat, c.lon, c.r)
		got := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		if math.Abs(got-c.r) > 1e-5*c.r {
			t.Errorf("ToCartesian(%f, %f, %f): |p|=%f, expected %f", c.lat, c.lon, c.r, got, c.r)
		}
	}
}

func TestEquirectUV_Corners(t *testing.T) {
	u, v := EquirectUV(90, -180)
	if u != 0 || v != 0 {
		t.Errorf("expected (0, 0), got (%f, %f)", u, v)
	}
	u, v = EquirectUV(-90, 180)
	if u != 1 || v != 1 {
		t.Errorf("expected (1, 1), got (%f, %f)", u, v)
	}
	u, v = EquirectUV(0, 0)
	if u != 0.5 || v != 0.5 {
		t.Errorf("expected (0.5, 0.5), got (%f, %f)", u, v)
	}
}

func TestMercatorUV_Center(t *testing.T) {
	u, v := MercatorUV(0, 0)
	if math.Abs(u-0.5) > 1e-9 {
		t.Errorf("expected u=0.5, got %f", u)
	}
	if math.Abs(v-0.5) > 1e-9 {
		t.Errorf("expected v=0.5, got %f", v)
	}
}

func TestMercatorUV_EastOfCenter(t *testing.T) {
	u, _ := MercatorUV(0, 90)
	if math.Abs(u-0.75) > 1e-6 {
		t.Errorf("expected u=0.75 at lon 90, got %f", u)
	}
}

func TestMercatorUV_NorthShrinks(t *testing.T) {
	_, v60 := MercatorUV(60, 0)
	_, v30 := MercatorUV(30, 0)
	if !(v60 < v30 && v30 < 0.5) {
		t.Errorf("expected v to decrease northward, got v60=%f v30=%f", v60, v30)
	}
}

func TestMercatorUV_Bounded(t *testing.T) {
	for _, lat := range []float64{-85, -60, 0, 60, 85} {
		for _, lon := range []float64{-180, -90, 0, 90, 180} {
			u, v := MercatorUV(lat, lon)
			if u < 0 || u > 1 || v < 0 || v > 1 {
				t.Errorf("MercatorUV(%f, %f) out of range: (%f, %f)", lat, lon, u, v)
			}
		}
	}
}

func TestTileBoundsAt_Zoom0(t *testing.T) {
	b := TileBoundsAt(0, 0, 0)
	if b.LonMin != -180 || b.LonMax != 180 || b.LatMax != 90 || b.LatMin != -90 {
		t.Errorf("unexpected bounds: %+v", b)
	}
}

func TestTileBoundsAt_Zoom1(t *testing.T) {
	b := TileBoundsAt(1, 1, 0)
	if b.LonMin != 0 || b.LonMax != 180 {
		t.Errorf("expected lon [0, 180], got [%f, %f]", b.LonMin, b.LonMax)
	}
	if b.LatMax != 90 || b.LatMin != 0 {
		t.Errorf("expected lat [0, 90], got [%f, %f]", b.LatMin, b.LatMax)
	}
}
