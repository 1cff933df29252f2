package render

import "image"

// Viewport is the off-screen render target. It tracks the Globe panel's
// inner rect, not the window: only a panel rect change reallocates the
// framebuffer.
type Viewport struct {
	fb *FrameBuffer
}

// NewViewport allocates a target of the given pixel size.
func NewViewport(w, h int) *Viewport {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return &Viewport{fb: NewFrameBuffer(w, h)}
}

// Resize reallocates the framebuffer when the size actually changed.
// Returns true if a reallocation happened.
func (v *Viewport) Resize(w, h int) bool {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == v.fb.Width && h == v.fb.Height {
		return false
	}
	v.fb = NewFrameBuffer(w, h)
	return true
}

// Size returns the current target extent.
func (v *Viewport) Size() (w, h int) {
	return v.fb.Width, v.fb.Height
}

// Buffer exposes the framebuffer for the render passes.
func (v *Viewport) Buffer() *FrameBuffer { return v.fb }

// Snapshot copies the current pixels into a standalone image for the
// presentation sink.
func (v *Viewport) Snapshot() *image.NRGBA {
	return v.fb.Image()
}
