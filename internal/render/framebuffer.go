package render

import (
	"image"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // depth per pixel, len = W*H, +inf = empty
}

// NewFrameBuffer allocates a zeroed color buffer and +inf z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(1)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   zbuf,
	}
}

// Clear fills the color buffer with one color and resets depth.
func (fb *FrameBuffer) Clear(r, g, b, a uint8) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = r
		fb.Color[i+1] = g
		fb.Color[i+2] = b
		fb.Color[i+3] = a
	}
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(1)
	}
}

// Image copies the framebuffer into a standalone NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}

// blendPixel writes src over the destination pixel with alpha given in
// [0,255]. No depth interaction; overlay and marker passes use it.
func (fb *FrameBuffer) blendPixel(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height || a == 0 {
		return
	}
	i := (y*fb.Width + x) * 4
	if a == 255 {
		fb.Color[i] = r
		fb.Color[i+1] = g
		fb.Color[i+2] = b
		fb.Color[i+3] = 255
		return
	}
	af := uint32(a)
	inv := 255 - af
	fb.Color[i] = uint8((uint32(r)*af + uint32(fb.Color[i])*inv) / 255)
	fb.Color[i+1] = uint8((uint32(g)*af + uint32(fb.Color[i+1])*inv) / 255)
	fb.Color[i+2] = uint8((uint32(b)*af + uint32(fb.Color[i+2])*inv) / 255)
	da := uint32(fb.Color[i+3])
	fb.Color[i+3] = uint8(af + da*inv/255)
}
