package render

import "math"

const pitchEpsilon = 0.01

// Camera orbits the globe origin. Yaw is unbounded, pitch is clamped
// short of the poles so the view matrix never degenerates.
type Camera struct {
	Yaw   float64
	Pitch float64

	Distance    float64
	MinDistance float64
	MaxDistance float64

	FovY float64
	Near float64
	Far  float64

	OrbitSens float64
	ZoomSens  float64
}

// NewCamera creates a camera at a sensible default orbit around a globe
// of the given radius.
func NewCamera(globeRadius float64) *Camera {
	return &Camera{
		Distance:    globeRadius * 3,
		MinDistance: globeRadius * 1.1,
		MaxDistance: globeRadius * 10,
		FovY:        45 * math.Pi / 180,
		Near:        globeRadius * 0.01,
		Far:         globeRadius * 20,
		OrbitSens:   0.005,
		ZoomSens:    0.1,
	}
}

// Orbit applies a drag delta to yaw and pitch.
func (c *Camera) Orbit(dx, dy float64) {
	c.Yaw += dx * c.OrbitSens
	c.Pitch += dy * c.OrbitSens

	limit := math.Pi/2 - pitchEpsilon
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}

// Zoom applies a scroll delta to the orbit distance.
func (c *Camera) Zoom(scroll float64) {
	c.Distance *= 1 - scroll*c.ZoomSens
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Eye returns the camera position on its orbit.
func (c *Camera) Eye() Vec3 {
	cp := math.Cos(c.Pitch)
	return Vec3{
		c.Distance * cp * math.Cos(c.Yaw),
		c.Distance * math.Sin(c.Pitch),
		c.Distance * cp * math.Sin(c.Yaw),
	}
}

// ViewProj returns the combined view-projection matrix for the aspect
// ratio of the current viewport.
func (c *Camera) ViewProj(aspect float64) Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	proj := Perspective(c.FovY, aspect, c.Near, c.Far)
	view := LookAt(c.Eye(), Vec3{}, Vec3{0, 1, 0})
	return Mat4Mul(proj, view)
}

// FocusOn points the orbit at a cartesian position on the globe.
func (c *Camera) FocusOn(p Vec3) {
	if p.Length() < 1e-9 {
		return
	}
	d := p.Normalize()
	c.Pitch = math.Asin(d[1])
	c.Yaw = math.Atan2(d[2], d[0])

	limit := math.Pi/2 - pitchEpsilon
	if c.Pitch > limit {
		c.Pitch = limit
	}
	if c.Pitch < -limit {
		c.Pitch = -limit
	}
}
