package tiles

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/sentinelc2/client/internal/cache"
	"github.com/sentinelc2/client/pkg/core"
)

// tileSize is the per-tile edge length served by slippy-map providers.
const tileSize = 256

// mosaicBuilder composes one layer's worth of provider tiles into a
// single square image at the canonical layer resolution.
type mosaicBuilder struct {
	fetcher      *Fetcher
	provider     Provider
	maxFetchZoom int
	layerSize    int
	// loadedTally, when set, accumulates blitted tiles across builds.
	loadedTally *cache.SafeCounter
}

// Build assembles the mosaic for one kind of the request. The grid is
// 2^z tiles per side with z capped at the provider's max fetch zoom.
// Tiles that fail to fetch or decode leave their cell transparent; the
// result is valid only if at least one tile loaded.
func (m *mosaicBuilder) Build(req core.TileRequest, kind core.TileKind) core.TileResult {
	res := core.TileResult{
		RequestID: req.RequestID,
		Kind:      kind,
		Zoom:      req.Zoom,
		Width:     m.layerSize,
		Height:    m.layerSize,
	}
	if m.provider.Template(kind) == "" {
		return res
	}

	z := req.Zoom
	if z > m.maxFetchZoom {
		z = m.maxFetchZoom
	}
	if z < 0 {
		z = 0
	}
	grid := 1 << z

	field := ""
	switch kind {
	case core.TileWeather:
		field = req.WeatherField
	case core.TileSea:
		field = req.SeaField
	}

	scratch := image.NewNRGBA(image.Rect(0, 0, grid*tileSize, grid*tileSize))
	loaded := 0
	for y := 0; y < grid; y++ {
		for x := 0; x < grid; x++ {
			url := m.provider.URLFor(kind, z, x, y, field)
			payload, err := m.fetcher.Fetch(url)
			if err != nil {
				m.fetcher.logger.Debug("tile skipped", "kind", kind.String(), "url", url, "error", err)
				continue
			}
			img, _, err := image.Decode(bytes.NewReader(payload))
			if err != nil {
				m.fetcher.logger.Debug("tile decode failed", "kind", kind.String(), "url", url, "error", err)
				continue
			}
			blitTile(scratch, img, x, y)
			loaded++
			if m.loadedTally != nil {
				m.loadedTally.Inc()
			}
		}
	}

	res.RGBA = resizeToLayer(scratch, m.layerSize)
	res.Valid = loaded > 0
	return res
}

// blitTile draws one provider tile into its grid cell, resizing to the
// canonical tile edge when the provider serves a different size.
func blitTile(dst *image.NRGBA, tile image.Image, x, y int) {
	cell := image.Rect(x*tileSize, y*tileSize, (x+1)*tileSize, (y+1)*tileSize)
	b := tile.Bounds()
	if b.Dx() == tileSize && b.Dy() == tileSize {
		draw.Draw(dst, cell, tile, b.Min, draw.Src)
		return
	}
	draw.BiLinear.Scale(dst, cell, tile, b, draw.Src, nil)
}

// resizeToLayer scales the assembled grid to the layer resolution and
// returns the raw RGBA pixels.
func resizeToLayer(src *image.NRGBA, layerSize int) []byte {
	if src.Bounds().Dx() == layerSize && src.Bounds().Dy() == layerSize {
		return src.Pix
	}
	out := image.NewNRGBA(image.Rect(0, 0, layerSize, layerSize))
	draw.BiLinear.Scale(out, out.Bounds(), src, src.Bounds(), draw.Src, nil)
	return out.Pix
}
