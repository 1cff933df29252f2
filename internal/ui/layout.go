package ui

import "sort"

// Stack is an ordered set of panels sharing a slot, with one active tab.
type Stack struct {
	Panels []PanelID
	Active PanelID
}

// Contains reports whether the stack holds the panel.
func (s *Stack) Contains(p PanelID) bool {
	for _, q := range s.Panels {
		if q == p {
			return true
		}
	}
	return false
}

// insert adds a panel keeping the fixed display order, and makes it the
// active tab.
func (s *Stack) insert(p PanelID) {
	if !s.Contains(p) {
		s.Panels = append(s.Panels, p)
		sort.Slice(s.Panels, func(i, j int) bool {
			return displayRank(s.Panels[i]) < displayRank(s.Panels[j])
		})
	}
	s.Active = p
}

// remove deletes a panel; if it was active, the first remaining tab
// becomes active.
func (s *Stack) remove(p PanelID) {
	for i, q := range s.Panels {
		if q == p {
			s.Panels = append(s.Panels[:i], s.Panels[i+1:]...)
			break
		}
	}
	if s.Active == p && len(s.Panels) > 0 {
		s.Active = s.Panels[0]
	}
}

// Empty reports whether the slot collapses.
func (s *Stack) Empty() bool { return len(s.Panels) == 0 }

// DockLayout is one window's four slots.
type DockLayout struct {
	Slots [4]Stack
}

// Slot returns the stack for a slot id.
func (l *DockLayout) Slot(id SlotID) *Stack {
	return &l.Slots[id]
}

// Find returns the slot currently holding the panel.
func (l *DockLayout) Find(p PanelID) (SlotID, bool) {
	for _, id := range AllSlots {
		if l.Slots[id].Contains(p) {
			return id, true
		}
	}
	return 0, false
}

// Remove deletes the panel from whatever slot holds it.
func (l *DockLayout) Remove(p PanelID) bool {
	if id, ok := l.Find(p); ok {
		l.Slots[id].remove(p)
		return true
	}
	return false
}

// Insert places the panel in a slot and focuses its tab.
func (l *DockLayout) Insert(p PanelID, slot SlotID) {
	l.Slots[slot].insert(p)
}

// Panels returns every panel in the layout.
func (l *DockLayout) Panels() []PanelID {
	var out []PanelID
	for _, id := range AllSlots {
		out = append(out, l.Slots[id].Panels...)
	}
	return out
}

// Empty reports whether no slot holds a panel.
func (l *DockLayout) Empty() bool {
	for _, id := range AllSlots {
		if !l.Slots[id].Empty() {
			return false
		}
	}
	return true
}

// defaultLayout places every panel in its canonical home.
func defaultLayout() DockLayout {
	var l DockLayout
	for _, p := range AllPanels {
		l.Insert(p, p.CanonicalHome())
	}
	return l
}
