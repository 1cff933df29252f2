package ui

// Rect is an axis-aligned rectangle in logical window pixels.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point is inside.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports a degenerate rect.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// tabBarHeight is the logical height of a stack's tab strip.
const tabBarHeight = 28

// Metrics are the fixed layout dimensions.
type Metrics struct {
	PanelWidth      int
	InspectorHeight int
	Scale           float64 // device pixel ratio
}

// DefaultMetrics mirrors the configuration defaults.
func DefaultMetrics() Metrics {
	return Metrics{PanelWidth: 320, InspectorHeight: 220, Scale: 1}
}

// SlotRects computes the slot rectangles for a window. Empty slots
// collapse to zero extent and their space flows to the center.
func SlotRects(l *DockLayout, winW, winH int, m Metrics) [4]Rect {
	var out [4]Rect

	bottomH := 0
	if !l.Slot(SlotBottom).Empty() {
		bottomH = m.InspectorHeight
		if bottomH > winH {
			bottomH = winH
		}
	}
	leftW := 0
	if !l.Slot(SlotLeft).Empty() {
		leftW = m.PanelWidth
	}
	rightW := 0
	if !l.Slot(SlotRight).Empty() {
		rightW = m.PanelWidth
	}
	// Side panels never squeeze the center below zero.
	if leftW+rightW > winW {
		leftW = winW / 2
		rightW = winW - leftW
	}

	mainH := winH - bottomH
	out[SlotLeft] = Rect{X: 0, Y: 0, W: leftW, H: mainH}
	out[SlotCenter] = Rect{X: leftW, Y: 0, W: winW - leftW - rightW, H: mainH}
	out[SlotRight] = Rect{X: winW - rightW, Y: 0, W: rightW, H: mainH}
	out[SlotBottom] = Rect{X: 0, Y: mainH, W: winW, H: bottomH}
	return out
}

// InnerRect strips the tab strip from a slot rect.
func InnerRect(slot Rect) Rect {
	if slot.Empty() {
		return Rect{}
	}
	h := slot.H - tabBarHeight
	if h < 0 {
		h = 0
	}
	return Rect{X: slot.X, Y: slot.Y + tabBarHeight, W: slot.W, H: h}
}

// DeviceRect scales a logical rect to device pixels.
func DeviceRect(r Rect, scale float64) Rect {
	if scale <= 0 {
		scale = 1
	}
	return Rect{
		X: int(float64(r.X) * scale),
		Y: int(float64(r.Y) * scale),
		W: int(float64(r.W) * scale),
		H: int(float64(r.H) * scale),
	}
}
