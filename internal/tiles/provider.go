// Package tiles fetches provider map/weather/sea tiles, composes them
// into rectangular mosaics at the canonical layer resolution, and hands
// completed results to the frame loop over a bounded channel.
package tiles

import (
	"strconv"
	"strings"

	"github.com/sentinelc2/client/pkg/core"
)

// Provider holds the per-kind URL templates for one tile source.
// Templates substitute {z}, {x} and {y}; weather and sea URLs append a
// field query parameter.
type Provider struct {
	ID              string
	BaseTemplate    string
	WeatherTemplate string
	SeaTemplate     string
}

// Template returns the URL template for the kind. Empty means the kind
// is not served by this provider and its layer stays off.
func (p Provider) Template(kind core.TileKind) string {
	switch kind {
	case core.TileBase:
		return p.BaseTemplate
	case core.TileWeather:
		return p.WeatherTemplate
	case core.TileSea:
		return p.SeaTemplate
	default:
		return ""
	}
}

// URLFor builds the fetch URL for one grid tile. field is only applied
// for weather and sea kinds.
func (p Provider) URLFor(kind core.TileKind, z, x, y int, field string) string {
	tpl := p.Template(kind)
	if tpl == "" {
		return ""
	}
	url := strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	).Replace(tpl)

	if kind == core.TileBase || field == "" {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "field=" + field
}
