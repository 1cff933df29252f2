package tiles

import (
	"testing"

	"github.com/sentinelc2/client/pkg/core"
)

func TestProvider_URLSubstitution(t *testing.T) {
	p := Provider{BaseTemplate: "https://tiles.example/{z}/{x}/{y}.png"}
	got := p.URLFor(core.TileBase, 3, 5, 7, "")
	want := "https://tiles.example/3/5/7.png"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestProvider_WeatherFieldAppended(t *testing.T) {
	p := Provider{WeatherTemplate: "https://wx.example/{z}/{x}/{y}"}
	got := p.URLFor(core.TileWeather, 1, 0, 1, "precip")
	want := "https://wx.example/1/0/1?field=precip"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestProvider_FieldJoinsExistingQuery(t *testing.T) {
	p := Provider{SeaTemplate: "https://sea.example/{z}/{x}/{y}?key=abc"}
	got := p.URLFor(core.TileSea, 2, 1, 1, "sst")
	want := "https://sea.example/2/1/1?key=abc&field=sst"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestProvider_BaseIgnoresField(t *testing.T) {
	p := Provider{BaseTemplate: "https://tiles.example/{z}/{x}/{y}.png"}
	got := p.URLFor(core.TileBase, 0, 0, 0, "precip")
	if got != "https://tiles.example/0/0/0.png" {
		t.Errorf("expected field ignored for base, got %s", got)
	}
}

func TestProvider_EmptyTemplate(t *testing.T) {
	p := Provider{BaseTemplate: "https://tiles.example/{z}/{x}/{y}.png"}
	if got := p.URLFor(core.TileWeather, 0, 0, 0, "precip"); got != "" {
		t.Errorf("expected empty url for unserved kind, got %s", got)
	}
}
