package render

import "image"

// iconSize is the edge length of each procedural marker icon.
const iconSize = 64

// IconAtlas holds the procedural marker glyphs, drawn white on
// transparent so the marker pass can tint them with the instance color.
// Index 0 = flight arrow, 1 = ship hull, 2 = satellite. Anything else
// falls back to index 0.
type IconAtlas struct {
	icons []*image.NRGBA
}

// NewIconAtlas generates the glyph set.
func NewIconAtlas() *IconAtlas {
	return &IconAtlas{
		icons: []*image.NRGBA{
			drawFlightIcon(),
			drawShipIcon(),
			drawSatelliteIcon(),
		},
	}
}

// Icon returns the glyph for an instance icon index.
func (a *IconAtlas) Icon(index uint32) *image.NRGBA {
	if int(index) >= len(a.icons) {
		index = 0
	}
	return a.icons[index]
}

func newIconCanvas() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
}

func setIconPixel(img *image.NRGBA, x, y int) {
	if x < 0 || x >= iconSize || y < 0 || y >= iconSize {
		return
	}
	i := y*img.Stride + x*4
	img.Pix[i] = 255
	img.Pix[i+1] = 255
	img.Pix[i+2] = 255
	img.Pix[i+3] = 255
}

// drawFlightIcon draws an upward arrowhead.
func drawFlightIcon() *image.NRGBA {
	img := newIconCanvas()
	cx := iconSize / 2
	for y := 8; y < iconSize-8; y++ {
		// Width grows toward the base.
		half := (y - 8) * 2 / 5
		for x := cx - half; x <= cx+half; x++ {
			setIconPixel(img, x, y)
		}
	}
	return img
}

// drawShipIcon draws a hull: a rectangle with a tapered bow.
func drawShipIcon() *image.NRGBA {
	img := newIconCanvas()
	cx := iconSize / 2
	// Bow taper
	for y := 10; y < 28; y++ {
		half := (y - 10) * 14 / 18
		for x := cx - half; x <= cx+half; x++ {
			setIconPixel(img, x, y)
		}
	}
	// Hull body
	for y := 28; y < iconSize-10; y++ {
		for x := cx - 14; x <= cx+14; x++ {
			setIconPixel(img, x, y)
		}
	}
	return img
}

// drawSatelliteIcon draws a body with two solar panels.
func drawSatelliteIcon() *image.NRGBA {
	img := newIconCanvas()
	c := iconSize / 2
	// Body
	for y := c - 8; y <= c+8; y++ {
		for x := c - 8; x <= c+8; x++ {
			setIconPixel(img, x, y)
		}
	}
	// Panels
	for y := c - 6; y <= c+6; y++ {
		for x := 6; x < c-12; x++ {
			setIconPixel(img, x, y)
		}
		for x := c + 13; x < iconSize-6; x++ {
			setIconPixel(img, x, y)
		}
	}
	return img
}
