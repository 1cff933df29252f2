package render

import (
	"image"
	"math"

	"github.com/sentinelc2/client/pkg/core"
)

// overlayLift separates stacked overlay shells so painter order stays
// unambiguous even at grazing angles.
const overlayLift = 0.001

// fallback colors when a layer has no valid texture yet.
var (
	oceanFallback  = [4]uint8{24, 48, 78, 255}
	clearColor     = [4]uint8{8, 10, 16, 255}
	lightDirection = Vec3{0.4, 0.7, 0.6}
)

// LayerState is the per-kind overlay toggle surfaced to the UI.
type LayerState struct {
	Enabled bool
	Opacity float64
}

// Renderer owns the globe mesh, texture atlases and camera, and records
// the three passes into the viewport every frame.
type Renderer struct {
	Camera   *Camera
	viewport *Viewport
	mesh     *SphereMesh
	atlas    *TextureAtlas
	icons    *IconAtlas
	layers   [3]LayerState

	globeRadius float64
	light       Vec3
}

// Options configures the renderer.
type Options struct {
	GlobeRadius  float64
	Subdivisions int
	LayerSize    int
	ViewportW    int
	ViewportH    int
}

// New builds a renderer with one atlas layer per tile kind.
func New(opts Options) *Renderer {
	if opts.GlobeRadius <= 0 {
		opts.GlobeRadius = 6371000
	}
	if opts.Subdivisions <= 0 {
		opts.Subdivisions = 64
	}
	if opts.LayerSize <= 0 {
		opts.LayerSize = 4096
	}
	r := &Renderer{
		Camera:      NewCamera(opts.GlobeRadius),
		viewport:    NewViewport(opts.ViewportW, opts.ViewportH),
		mesh:        NewSphereMesh(opts.GlobeRadius, opts.Subdivisions),
		atlas:       NewTextureAtlas(opts.LayerSize, len(core.TileKinds)),
		icons:       NewIconAtlas(),
		globeRadius: opts.GlobeRadius,
		light:       lightDirection.Normalize(),
	}
	for i := range r.layers {
		r.layers[i] = LayerState{Enabled: true, Opacity: 0.85}
	}
	r.layers[core.TileBase].Opacity = 1
	return r
}

// Viewport returns the off-screen target.
func (r *Renderer) Viewport() *Viewport { return r.viewport }

// UploadTile copies a mosaic into its kind's atlas layer. Invalid
// results never overwrite previously valid pixels.
func (r *Renderer) UploadTile(res core.TileResult) error {
	if !res.Valid {
		return nil
	}
	return r.atlas.Upload(int(res.Kind), res.Width, res.Height, res.RGBA)
}

// AtlasTexture returns the uploaded layer image for a kind, or nil when
// no valid mosaic has landed yet.
func (r *Renderer) AtlasTexture(kind core.TileKind) *image.NRGBA {
	return r.atlas.Texture(int(kind))
}

// SetLayer updates one overlay's toggle state. The base layer ignores
// Enabled=false; there is always a globe surface.
func (r *Renderer) SetLayer(kind core.TileKind, state LayerState) {
	if int(kind) >= len(r.layers) {
		return
	}
	if kind == core.TileBase {
		state.Enabled = true
	}
	if state.Opacity < 0 {
		state.Opacity = 0
	}
	if state.Opacity > 1 {
		state.Opacity = 1
	}
	r.layers[kind] = state
}

// Layer returns one overlay's toggle state.
func (r *Renderer) Layer(kind core.TileKind) LayerState {
	return r.layers[kind]
}

// RenderFrame records all passes for the given instances into the
// viewport: clear, globe, overlay shells in painter order, markers.
func (r *Renderer) RenderFrame(instances []core.RenderInstance) {
	fb := r.viewport.Buffer()
	fb.Clear(clearColor[0], clearColor[1], clearColor[2], clearColor[3])

	aspect := float64(fb.Width) / float64(fb.Height)
	vp := r.Camera.ViewProj(aspect)

	r.globePass(fb, vp)
	for i, kind := range []core.TileKind{core.TileSea, core.TileWeather} {
		st := r.layers[kind]
		if !st.Enabled || !r.atlas.Valid(int(kind)) {
			continue
		}
		r.overlayPass(fb, vp, kind, st.Opacity, float64(i+1)*overlayLift)
	}
	r.markerPass(fb, vp, instances)
}

// projectVertex maps a world position to screen coordinates. ok is
// false for vertices behind the near plane.
func projectVertex(vp Mat4, p Vec3, w, h int) (sx, sy, depth float64, ok bool) {
	cx, cy, cz, cw := vp.MulPointW(p)
	if cw < 1e-9 {
		return 0, 0, 0, false
	}
	inv := 1 / cw
	sx = (cx*inv + 1) / 2 * float64(w)
	sy = (1 - cy*inv) / 2 * float64(h)
	depth = cz * inv
	return sx, sy, depth, true
}

// globePass rasterizes the sphere with depth write and test, sampling
// the base atlas through the equirectangular parameterization.
func (r *Renderer) globePass(fb *FrameBuffer, vp Mat4) {
	tex := r.atlas.Texture(int(core.TileBase))
	r.rasterizeMesh(fb, vp, 1, tex, r.mesh.EquirectUV, rasterOpts{
		depthTest:  true,
		depthWrite: true,
		opacity:    1,
		shaded:     true,
		fallback:   oceanFallback,
	})
}

// overlayPass re-rasterizes the sphere slightly lifted, alpha-blending
// the overlay texture through the mercator parameterization. No depth
// write; the lift plus painter order keeps stacking correct.
func (r *Renderer) overlayPass(fb *FrameBuffer, vp Mat4, kind core.TileKind, opacity, lift float64) {
	tex := r.atlas.Texture(int(kind))
	if tex == nil {
		return
	}
	r.rasterizeMesh(fb, vp, 1+lift, tex, r.mesh.MercatorUV, rasterOpts{
		depthTest:  true,
		depthWrite: false,
		opacity:    opacity,
		shaded:     false,
	})
}

type rasterOpts struct {
	depthTest  bool
	depthWrite bool
	opacity    float64
	shaded     bool
	fallback   [4]uint8
}

// rasterizeMesh projects every vertex once, then fills the index
// triangles. scale lifts overlay shells off the base surface.
func (r *Renderer) rasterizeMesh(fb *FrameBuffer, vp Mat4, scale float64, tex *image.NRGBA, uvs [][2]float64, opts rasterOpts) {
	n := len(r.mesh.Positions)
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	vis := make([]bool, n)
	for i, p := range r.mesh.Positions {
		if scale != 1 {
			p = p.Scale(scale)
		}
		xs[i], ys[i], zs[i], vis[i] = projectVertex(vp, p, fb.Width, fb.Height)
	}

	idx := r.mesh.Indices
	for t := 0; t+2 < len(idx); t += 3 {
		i0, i1, i2 := idx[t], idx[t+1], idx[t+2]
		if !vis[i0] || !vis[i1] || !vis[i2] {
			continue
		}
		shade := 1.0
		if opts.shaded {
			// Flat shading off the face normal in world space.
			nrm := r.mesh.Normals[i0].Add(r.mesh.Normals[i1]).Add(r.mesh.Normals[i2]).Normalize()
			d := nrm.Dot(r.light)
			if d < 0 {
				d = 0
			}
			shade = 0.35 + 0.65*d
		}
		r.fillTriangle(fb,
			xs[i0], ys[i0], zs[i0], uvs[i0],
			xs[i1], ys[i1], zs[i1], uvs[i1],
			xs[i2], ys[i2], zs[i2], uvs[i2],
			tex, shade, opts)
	}
}

// fillTriangle is the hot path; no allocations inside the pixel loop.
func (r *Renderer) fillTriangle(fb *FrameBuffer,
	x0, y0, z0 float64, uv0 [2]float64,
	x1, y1, z1 float64, uv1 [2]float64,
	x2, y2, z2 float64, uv2 [2]float64,
	tex *image.NRGBA, shade float64, opts rasterOpts,
) {
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1
	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if opts.depthTest && z >= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			if tex != nil {
				u := w0*uv0[0] + w1*uv1[0] + w2*uv2[0]
				v := w0*uv0[1] + w1*uv1[1] + w2*uv2[1]
				cr, cg, cb, ca = SampleTexture(tex, u, v)
			} else {
				cr, cg, cb, ca = opts.fallback[0], opts.fallback[1], opts.fallback[2], opts.fallback[3]
			}
			if ca == 0 {
				continue
			}

			if shade != 1 {
				cr = uint8(float64(cr) * shade)
				cg = uint8(float64(cg) * shade)
				cb = uint8(float64(cb) * shade)
			}

			alpha := float64(ca) * opts.opacity
			fb.blendPixel(sx, sy, cr, cg, cb, uint8(alpha))
			if opts.depthWrite {
				fb.ZBuf[zIdx] = z
			}
		}
	}
}

// markerPass draws screen-constant billboards rotated by heading. No
// depth interaction: markers always read on top of the globe.
func (r *Renderer) markerPass(fb *FrameBuffer, vp Mat4, instances []core.RenderInstance) {
	for i := range instances {
		inst := &instances[i]
		p := Vec3{inst.Position.X, inst.Position.Y, inst.Position.Z}
		sx, sy, _, ok := projectVertex(vp, p, fb.Width, fb.Height)
		if !ok {
			continue
		}
		// Skip markers on the hemisphere facing away from the camera.
		if p.Normalize().Dot(r.Camera.Eye().Normalize()) < 0 {
			continue
		}
		r.drawBillboard(fb, sx, sy, float64(inst.Size), float64(inst.HeadingRad), inst.IconIndex, inst.Color)
	}
}

// drawBillboard samples the icon through an inverse rotation so the
// glyph spins with the entity heading. Tint is the instance color.
func (r *Renderer) drawBillboard(fb *FrameBuffer, cx, cy, size, heading float64, iconIndex uint32, tint core.RGBA) {
	if size < 2 {
		size = 2
	}
	icon := r.icons.Icon(iconIndex)
	half := size / 2
	// Rotated quad fits inside the enclosing circle's box.
	ext := int(half*math.Sqrt2) + 1
	sin, cos := math.Sin(heading), math.Cos(heading)

	minX := int(cx) - ext
	maxX := int(cx) + ext
	minY := int(cy) - ext
	maxY := int(cy) + ext

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			// Inverse-rotate into icon space.
			dx := float64(px) - cx
			dy := float64(py) - cy
			lx := dx*cos + dy*sin
			ly := -dx*sin + dy*cos
			u := lx/size + 0.5
			v := ly/size + 0.5
			if u < 0 || u > 1 || v < 0 || v > 1 {
				continue
			}
			_, _, _, a := SampleTexture(icon, u, v)
			if a < 8 {
				continue
			}
			fb.blendPixel(px, py, tint.R, tint.G, tint.B, a)
		}
	}
}
