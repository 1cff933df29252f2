package render

import (
	"fmt"
	"image"
)

// TextureAtlas holds a fixed array of equally sized RGBA layers. Layer
// extent and capacity are set at creation and never change: uploads
// larger than a layer are truncated, never grown. A layer that has
// never received a valid upload samples as invalid so callers can fall
// back to a solid color.
type TextureAtlas struct {
	layerSize int
	layers    []*image.NRGBA
	valid     []bool
}

// NewTextureAtlas allocates capacity layers of layerSize × layerSize.
func NewTextureAtlas(layerSize, capacity int) *TextureAtlas {
	a := &TextureAtlas{
		layerSize: layerSize,
		layers:    make([]*image.NRGBA, capacity),
		valid:     make([]bool, capacity),
	}
	for i := range a.layers {
		a.layers[i] = image.NewNRGBA(image.Rect(0, 0, layerSize, layerSize))
	}
	return a
}

// LayerSize returns the fixed layer extent.
func (a *TextureAtlas) LayerSize() int { return a.layerSize }

// Layers returns the layer capacity.
func (a *TextureAtlas) Layers() int { return len(a.layers) }

// Upload copies rgba pixels (w × h, RGBA interleaved) into the layer.
// Source regions beyond the layer extent are truncated; the layer is
// never reallocated.
func (a *TextureAtlas) Upload(layerIndex, w, h int, rgba []byte) error {
	if layerIndex < 0 || layerIndex >= len(a.layers) {
		return fmt.Errorf("atlas layer %d out of range [0,%d)", layerIndex, len(a.layers))
	}
	if w <= 0 || h <= 0 || len(rgba) < w*h*4 {
		return fmt.Errorf("atlas upload: %dx%d with %d bytes", w, h, len(rgba))
	}

	dst := a.layers[layerIndex]
	copyW := w
	if copyW > a.layerSize {
		copyW = a.layerSize
	}
	copyH := h
	if copyH > a.layerSize {
		copyH = a.layerSize
	}
	for y := 0; y < copyH; y++ {
		srcOff := y * w * 4
		dstOff := y * dst.Stride
		copy(dst.Pix[dstOff:dstOff+copyW*4], rgba[srcOff:srcOff+copyW*4])
	}

	a.valid[layerIndex] = true
	return nil
}

// Valid reports whether the layer holds uploaded pixels.
func (a *TextureAtlas) Valid(layerIndex int) bool {
	return layerIndex >= 0 && layerIndex < len(a.valid) && a.valid[layerIndex]
}

// Invalidate marks a layer as holding no usable pixels without touching
// its storage.
func (a *TextureAtlas) Invalidate(layerIndex int) {
	if layerIndex >= 0 && layerIndex < len(a.valid) {
		a.valid[layerIndex] = false
	}
}

// Texture returns the layer image for sampling, or nil when the layer
// has no valid pixels.
func (a *TextureAtlas) Texture(layerIndex int) *image.NRGBA {
	if !a.Valid(layerIndex) {
		return nil
	}
	return a.layers[layerIndex]
}
