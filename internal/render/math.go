// Package render draws the globe, tile overlays and entity markers into
// an off-screen framebuffer with a software rasterizer. No GPU, no
// window system: the frame loop hands the finished pixels to whatever
// presentation sink is wired in.
package render

import "math"

// Vec3 is a 3-component vector.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Mat4 is a 4×4 matrix stored row-major.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPointW transforms a 3D point (w=1) and returns the clip-space
// coordinates including w, which the caller needs for the perspective
// divide.
func (m Mat4) MulPointW(v Vec3) (x, y, z, w float64) {
	x = m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3]
	y = m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7]
	z = m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11]
	w = m[12]*v[0] + m[13]*v[1] + m[14]*v[2] + m[15]
	return
}

// Perspective builds a right-handed perspective projection looking down
// -Z, mapping depth to [0,1].
func Perspective(fovY, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovY/2)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / (near - far), near * far / (near - far),
		0, 0, -1, 0,
	}
}

// LookAt builds a view matrix with the camera at eye looking at center.
func LookAt(eye, center, up Vec3) Mat4 {
	fwd := center.Sub(eye).Normalize()
	right := fwd.Cross(up).Normalize()
	u := right.Cross(fwd)
	return Mat4{
		right[0], right[1], right[2], -right.Dot(eye),
		u[0], u[1], u[2], -u.Dot(eye),
		-fwd[0], -fwd[1], -fwd[2], fwd.Dot(eye),
		0, 0, 0, 1,
	}
}
