package ui

// Message is one shell input. All state transitions go through
// Shell.Update; there is no other mutation path.
type Message interface{ isMessage() }

// SelectTab focuses a panel's tab within its stack.
type SelectTab struct{ Panel PanelID }

// MinimizePanel hides a panel, remembering where it was.
type MinimizePanel struct{ Panel PanelID }

// RestorePanel places a minimized panel back in its canonical home slot
// of the main window.
type RestorePanel struct{ Panel PanelID }

// DetachPanel gives the panel its own window at the given position.
type DetachPanel struct {
	Panel PanelID
	X, Y  int
}

// DockBack merges a detached window's layout back into the main window,
// each panel at its canonical home, and destroys the window.
type DockBack struct{ Window WindowID }

// SwapPanel arms a swap on first use and exchanges the two panels'
// stack positions on the second.
type SwapPanel struct{ Panel PanelID }

// ToggleMoveMenu opens or closes the panel's move menu.
type ToggleMoveMenu struct{ Panel PanelID }

// MoveTargetHovered highlights a move-menu destination.
type MoveTargetHovered struct {
	Window WindowID
	Slot   SlotID
}

// MovePanel moves the panel into an explicit window slot.
type MovePanel struct {
	Panel  PanelID
	Window WindowID
	Slot   SlotID
}

// StartDrag begins dragging a panel by its tab.
type StartDrag struct {
	Panel PanelID
	X, Y  int
}

// DragMoved updates the drag cursor position.
type DragMoved struct{ X, Y int }

// EndDrag drops the panel: into the slot under the cursor, or detached
// at the cursor when no window is hit.
type EndDrag struct{ X, Y int }

// CloseWindow closes a detached window, docking its panels back first.
type CloseWindow struct{ Window WindowID }

// ResizeWindow updates a window's outer size.
type ResizeWindow struct {
	Window WindowID
	W, H   int
}

func (SelectTab) isMessage()         {}
func (MinimizePanel) isMessage()     {}
func (RestorePanel) isMessage()      {}
func (DetachPanel) isMessage()       {}
func (DockBack) isMessage()          {}
func (SwapPanel) isMessage()         {}
func (ToggleMoveMenu) isMessage()    {}
func (MoveTargetHovered) isMessage() {}
func (MovePanel) isMessage()         {}
func (StartDrag) isMessage()         {}
func (DragMoved) isMessage()         {}
func (EndDrag) isMessage()           {}
func (CloseWindow) isMessage()       {}
func (ResizeWindow) isMessage()      {}
