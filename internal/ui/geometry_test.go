package ui

import "testing"

func TestSlotRects_EmptySlotsCollapse(t *testing.T) {
	var l DockLayout
	l.Insert(PanelGlobe, SlotCenter)
	rects := SlotRects(&l, 1000, 600, DefaultMetrics())

	if !rects[SlotLeft].Empty() || !rects[SlotRight].Empty() || !rects[SlotBottom].Empty() {
		t.Error("expected empty slots collapsed")
	}
	c := rects[SlotCenter]
	if c.X != 0 || c.Y != 0 || c.W != 1000 || c.H != 600 {
		t.Errorf("expected center to fill the window, got %+v", c)
	}
}

func TestSlotRects_FullLayout(t *testing.T) {
	l := defaultLayout()
	m := DefaultMetrics()
	rects := SlotRects(&l, 1280, 800, m)

	if rects[SlotLeft].W != m.PanelWidth {
		t.Errorf("expected left width %d, got %d", m.PanelWidth, rects[SlotLeft].W)
	}
	if rects[SlotBottom].H != m.InspectorHeight {
		t.Errorf("expected bottom height %d, got %d", m.InspectorHeight, rects[SlotBottom].H)
	}
	c := rects[SlotCenter]
	if c.X != m.PanelWidth || c.W != 1280-2*m.PanelWidth {
		t.Errorf("expected center between side panels, got %+v", c)
	}
	if c.H != 800-m.InspectorHeight {
		t.Errorf("expected center above inspector, got %+v", c)
	}
}

func TestSlotRects_NarrowWindowSplitsSides(t *testing.T) {
	l := defaultLayout()
	rects := SlotRects(&l, 400, 600, DefaultMetrics())
	if rects[SlotLeft].W+rects[SlotRight].W > 400 {
		t.Error("expected side panels to fit the window")
	}
	if rects[SlotCenter].W < 0 {
		t.Error("expected non-negative center width")
	}
}

func TestInnerRect_StripsTabBar(t *testing.T) {
	inner := InnerRect(Rect{X: 10, Y: 20, W: 300, H: 200})
	if inner.Y != 20+tabBarHeight || inner.H != 200-tabBarHeight {
		t.Errorf("expected tab strip removed, got %+v", inner)
	}
}

func TestDeviceRect_AppliesScale(t *testing.T) {
	r := DeviceRect(Rect{X: 10, Y: 20, W: 30, H: 40}, 2)
	if r.X != 20 || r.Y != 40 || r.W != 60 || r.H != 80 {
		t.Errorf("expected doubled rect, got %+v", r)
	}
}

func TestGlobeViewportRect_DeviceScale(t *testing.T) {
	m := DefaultMetrics()
	m.Scale = 2
	s := NewShell(m, 1000, 600)

	winID, r, ok := s.GlobeViewportRect()
	if !ok || winID != MainWindow {
		t.Fatal("expected globe rect in main window")
	}
	// Center slot: x=320 w=360 h=600-220-28, all doubled by the scale.
	if r.X != 640 {
		t.Errorf("expected device x 640, got %d", r.X)
	}
	if r.W != 2*(1000-2*m.PanelWidth) {
		t.Errorf("expected device width %d, got %d", 2*(1000-2*m.PanelWidth), r.W)
	}
}

func TestGlobeViewportRect_MinimizedGlobe(t *testing.T) {
	s := NewShell(DefaultMetrics(), 1000, 600)
	s.Update(MinimizePanel{Panel: PanelGlobe})
	if _, _, ok := s.GlobeViewportRect(); ok {
		t.Error("expected no globe rect while minimized")
	}
}

func TestPaintJobs_ViewportJobPresent(t *testing.T) {
	s := newTestShell()
	jobs := s.PaintJobs()

	var haveViewport bool
	for _, j := range jobs {
		if j.Kind == PaintViewport && j.Panel == PanelGlobe {
			haveViewport = true
		}
	}
	if !haveViewport {
		t.Error("expected a viewport paint job for the globe panel")
	}
}

func TestPaintJobs_DropIndicatorLast(t *testing.T) {
	s := newTestShell()
	s.Update(StartDrag{Panel: PanelEntities, X: 20, Y: 300})
	jobs := s.PaintJobs()

	if len(jobs) == 0 {
		t.Fatal("expected paint jobs")
	}
	if jobs[len(jobs)-1].Kind != PaintDropIndicator {
		t.Errorf("expected drop indicator last, got kind %d", jobs[len(jobs)-1].Kind)
	}
}

func TestPaintJobs_TabsFollowDisplayOrder(t *testing.T) {
	s := newTestShell()
	s.Update(MovePanel{Panel: PanelEntities, Window: MainWindow, Slot: SlotLeft})
	jobs := s.PaintJobs()

	var tabs []PanelID
	for _, j := range jobs {
		if j.Kind == PaintTab && j.Window == MainWindow && j.Rect.X < 320 {
			tabs = append(tabs, j.Panel)
		}
	}
	if len(tabs) != 2 || tabs[0] != PanelOperations || tabs[1] != PanelEntities {
		t.Errorf("expected left tabs [operations entities], got %v", tabs)
	}
}
