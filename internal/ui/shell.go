package ui

// WindowID identifies a shell window. The main window is always 0;
// detached windows get increasing ids and are never reused.
type WindowID int

// MainWindow is the id of the primary window.
const MainWindow WindowID = 0

// Window is one OS-level surface with its own dock layout.
type Window struct {
	ID     WindowID
	Rect   Rect
	Layout DockLayout
}

// detachedDefaultW/H size a freshly detached window.
const (
	detachedDefaultW = 520
	detachedDefaultH = 400
)

// dragState tracks an in-flight panel drag.
type dragState struct {
	active bool
	panel  PanelID
	x, y   int
}

// Shell owns every window and resolves all panel messages. It is not
// safe for concurrent use; the frame loop is its only caller.
type Shell struct {
	metrics Metrics

	main     *Window
	detached []*Window
	nextID   WindowID

	minimized map[PanelID]struct{}

	inspector InspectorStatus

	drag      dragState
	armedSwap *PanelID

	moveMenuFor *PanelID
	hoverWindow WindowID
	hoverSlot   SlotID
	hoverArmed  bool
}

// NewShell creates a shell with the default layout in the main window.
func NewShell(metrics Metrics, mainW, mainH int) *Shell {
	return &Shell{
		metrics: metrics,
		main: &Window{
			ID:     MainWindow,
			Rect:   Rect{W: mainW, H: mainH},
			Layout: defaultLayout(),
		},
		nextID:    MainWindow + 1,
		minimized: make(map[PanelID]struct{}),
	}
}

// Main returns the primary window.
func (s *Shell) Main() *Window { return s.main }

// Detached returns the detached windows in creation order.
func (s *Shell) Detached() []*Window { return s.detached }

// Windows returns all windows, main first.
func (s *Shell) Windows() []*Window {
	out := make([]*Window, 0, 1+len(s.detached))
	out = append(out, s.main)
	return append(out, s.detached...)
}

// window looks a window up by id.
func (s *Shell) window(id WindowID) *Window {
	if id == MainWindow {
		return s.main
	}
	for _, w := range s.detached {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// findPanel locates a panel across all windows.
func (s *Shell) findPanel(p PanelID) (*Window, SlotID, bool) {
	for _, w := range s.Windows() {
		if slot, ok := w.Layout.Find(p); ok {
			return w, slot, true
		}
	}
	return nil, 0, false
}

// Minimized reports whether the panel is currently minimized.
func (s *Shell) Minimized(p PanelID) bool {
	_, ok := s.minimized[p]
	return ok
}

// ArmedSwap returns the panel armed for a swap, if any.
func (s *Shell) ArmedSwap() (PanelID, bool) {
	if s.armedSwap == nil {
		return 0, false
	}
	return *s.armedSwap, true
}

// MoveMenuOpenFor returns the panel whose move menu is open.
func (s *Shell) MoveMenuOpenFor() (PanelID, bool) {
	if s.moveMenuFor == nil {
		return 0, false
	}
	return *s.moveMenuFor, true
}

// Dragging reports the in-flight drag, if any.
func (s *Shell) Dragging() (PanelID, bool) {
	return s.drag.panel, s.drag.active
}

// removeEverywhere pulls the panel out of any stack and the minimized
// set. Every move is remove-then-insert, so a panel can never end up in
// two stacks.
func (s *Shell) removeEverywhere(p PanelID) {
	for _, w := range s.Windows() {
		w.Layout.Remove(p)
	}
	delete(s.minimized, p)
}

// closeIfEmpty drops a detached window with no panels left.
func (s *Shell) closeIfEmpty(w *Window) {
	if w == nil || w.ID == MainWindow || !w.Layout.Empty() {
		return
	}
	for i, d := range s.detached {
		if d.ID == w.ID {
			s.detached = append(s.detached[:i], s.detached[i+1:]...)
			return
		}
	}
}

// Update applies one message to the shell state.
func (s *Shell) Update(msg Message) {
	switch m := msg.(type) {
	case SelectTab:
		if w, slot, ok := s.findPanel(m.Panel); ok {
			w.Layout.Slot(slot).Active = m.Panel
		}

	case MinimizePanel:
		if w, slot, ok := s.findPanel(m.Panel); ok {
			w.Layout.Slot(slot).remove(m.Panel)
			s.minimized[m.Panel] = struct{}{}
			s.closeIfEmpty(w)
		}

	case RestorePanel:
		if _, ok := s.minimized[m.Panel]; !ok {
			return
		}
		delete(s.minimized, m.Panel)
		s.main.Layout.Insert(m.Panel, m.Panel.CanonicalHome())

	case DetachPanel:
		s.detach(m.Panel, m.X, m.Y)

	case DockBack:
		s.mergeWindow(m.Window)

	case SwapPanel:
		s.swap(m.Panel)

	case ToggleMoveMenu:
		if s.moveMenuFor != nil && *s.moveMenuFor == m.Panel {
			s.moveMenuFor = nil
			s.hoverArmed = false
			return
		}
		p := m.Panel
		s.moveMenuFor = &p
		s.hoverArmed = false

	case MoveTargetHovered:
		s.hoverWindow = m.Window
		s.hoverSlot = m.Slot
		s.hoverArmed = true

	case MovePanel:
		s.move(m.Panel, m.Window, m.Slot)
		s.moveMenuFor = nil
		s.hoverArmed = false

	case StartDrag:
		s.drag = dragState{active: true, panel: m.Panel, x: m.X, y: m.Y}

	case DragMoved:
		if s.drag.active {
			s.drag.x, s.drag.y = m.X, m.Y
		}

	case EndDrag:
		if s.drag.active {
			s.resolveDrop(m.X, m.Y)
			s.drag = dragState{}
		}

	case CloseWindow:
		// A close of a non-empty window docks its panels back first.
		s.mergeWindow(m.Window)

	case ResizeWindow:
		if w := s.window(m.Window); w != nil {
			w.Rect.W, w.Rect.H = m.W, m.H
		}
	}
}

// detach removes the panel from its stack and gives it a window of its
// own at the given position.
func (s *Shell) detach(p PanelID, x, y int) {
	s.removeEverywhere(p)
	for _, w := range s.Windows() {
		s.closeIfEmpty(w)
	}

	w := &Window{
		ID:   s.nextID,
		Rect: Rect{X: x, Y: y, W: detachedDefaultW, H: detachedDefaultH},
	}
	s.nextID++
	w.Layout.Insert(p, SlotCenter)
	s.detached = append(s.detached, w)
}

// dockHome returns the panel to its canonical home in the main window.
func (s *Shell) dockHome(p PanelID) {
	prev, _, _ := s.findPanel(p)
	s.removeEverywhere(p)
	s.main.Layout.Insert(p, p.CanonicalHome())
	s.closeIfEmpty(prev)
}

// swap arms on the first call and exchanges stack positions on the
// second. Arming a different panel replaces the previous arm, so at
// most one swap is armed at any time.
func (s *Shell) swap(p PanelID) {
	if s.armedSwap == nil || *s.armedSwap == p {
		q := p
		s.armedSwap = &q
		return
	}
	first := *s.armedSwap
	s.armedSwap = nil

	w1, slot1, ok1 := s.findPanel(first)
	w2, slot2, ok2 := s.findPanel(p)
	if !ok1 || !ok2 {
		return
	}
	w1.Layout.Slot(slot1).remove(first)
	w2.Layout.Slot(slot2).remove(p)
	w1.Layout.Insert(p, slot1)
	w2.Layout.Insert(first, slot2)
}

// move places the panel into an explicit window slot.
func (s *Shell) move(p PanelID, winID WindowID, slot SlotID) {
	w := s.window(winID)
	if w == nil {
		return
	}
	prev, _, _ := s.findPanel(p)
	s.removeEverywhere(p)
	w.Layout.Insert(p, slot)
	if prev != nil && prev != w {
		s.closeIfEmpty(prev)
	}
}

// resolveDrop finishes a drag: a hit on a window docks into the slot
// under the cursor, anywhere else detaches at the cursor.
func (s *Shell) resolveDrop(x, y int) {
	p := s.drag.panel
	if win, slot, ok := s.hitTest(x, y); ok {
		s.move(p, win.ID, slot)
		return
	}
	s.detach(p, x, y)
}

// hitTest finds the window and slot under a point. Detached windows are
// checked before the main window, newest first.
func (s *Shell) hitTest(x, y int) (*Window, SlotID, bool) {
	for i := len(s.detached) - 1; i >= 0; i-- {
		w := s.detached[i]
		if w.Rect.Contains(x, y) {
			return w, s.slotAt(w, x-w.Rect.X, y-w.Rect.Y), true
		}
	}
	if s.main.Rect.Contains(x, y) {
		return s.main, s.slotAt(s.main, x-s.main.Rect.X, y-s.main.Rect.Y), true
	}
	return nil, 0, false
}

// slotAt maps a window-local point to the nearest dock slot. Collapsed
// slots still accept drops along their edge band.
func (s *Shell) slotAt(w *Window, x, y int) SlotID {
	rects := SlotRects(&w.Layout, w.Rect.W, w.Rect.H, s.metrics)
	for _, id := range AllSlots {
		if !rects[id].Empty() && rects[id].Contains(x, y) && id != SlotCenter {
			return id
		}
	}
	// Edge bands for collapsed slots.
	const band = 48
	switch {
	case x < band:
		return SlotLeft
	case x >= w.Rect.W-band:
		return SlotRight
	case y >= w.Rect.H-band:
		return SlotBottom
	default:
		return SlotCenter
	}
}

// DropIndicator returns the highlight rect for the current drag
// position, matching the slot the drop would land in.
func (s *Shell) DropIndicator() (WindowID, SlotID, Rect, bool) {
	if !s.drag.active {
		return 0, 0, Rect{}, false
	}
	win, slot, ok := s.hitTest(s.drag.x, s.drag.y)
	if !ok {
		return 0, 0, Rect{}, false
	}
	rects := SlotRects(&win.Layout, win.Rect.W, win.Rect.H, s.metrics)
	r := rects[slot]
	if r.Empty() {
		// Indicator for a collapsed slot shows the band it would open.
		switch slot {
		case SlotLeft:
			r = Rect{X: 0, Y: 0, W: s.metrics.PanelWidth, H: win.Rect.H}
		case SlotRight:
			r = Rect{X: win.Rect.W - s.metrics.PanelWidth, Y: 0, W: s.metrics.PanelWidth, H: win.Rect.H}
		case SlotBottom:
			r = Rect{X: 0, Y: win.Rect.H - s.metrics.InspectorHeight, W: win.Rect.W, H: s.metrics.InspectorHeight}
		}
	}
	r.X += win.Rect.X
	r.Y += win.Rect.Y
	return win.ID, slot, r, true
}

// mergeWindow docks every panel of a detached window back to its
// canonical home, then removes the window. The main window never
// closes; an unknown id is a no-op.
func (s *Shell) mergeWindow(id WindowID) {
	if id == MainWindow {
		return
	}
	w := s.window(id)
	if w == nil {
		return
	}
	for _, p := range w.Layout.Panels() {
		s.dockHome(p)
	}
	s.closeIfEmpty(w)
}

// GlobeViewportRect returns the Globe panel's inner rect in device
// pixels, plus the window showing it. ok is false while the Globe panel
// is minimized.
func (s *Shell) GlobeViewportRect() (WindowID, Rect, bool) {
	w, slot, ok := s.findPanel(PanelGlobe)
	if !ok {
		return 0, Rect{}, false
	}
	rects := SlotRects(&w.Layout, w.Rect.W, w.Rect.H, s.metrics)
	inner := InnerRect(rects[slot])
	return w.ID, DeviceRect(inner, s.metrics.Scale), true
}
