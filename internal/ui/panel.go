// Package ui implements the dockable panel shell as a pure state
// machine: messages in, layout state and paint jobs out. Nothing here
// touches a window system; the frame loop feeds it input events and
// hands the resulting paint jobs to the presentation sink.
package ui

// PanelID identifies one of the four client panels.
type PanelID uint8

const (
	PanelGlobe PanelID = iota
	PanelOperations
	PanelEntities
	PanelInspector
)

func (p PanelID) String() string {
	switch p {
	case PanelGlobe:
		return "globe"
	case PanelOperations:
		return "operations"
	case PanelEntities:
		return "entities"
	case PanelInspector:
		return "inspector"
	default:
		return "invalid"
	}
}

// Title returns the tab label.
func (p PanelID) Title() string {
	switch p {
	case PanelGlobe:
		return "Globe"
	case PanelOperations:
		return "Operations"
	case PanelEntities:
		return "Entities"
	case PanelInspector:
		return "Inspector"
	default:
		return "?"
	}
}

// AllPanels lists every panel in fixed display order. Tab order inside
// a slot always follows this order, not insertion order.
var AllPanels = [4]PanelID{PanelGlobe, PanelOperations, PanelEntities, PanelInspector}

// SlotID identifies a dock slot within a window.
type SlotID uint8

const (
	SlotLeft SlotID = iota
	SlotCenter
	SlotRight
	SlotBottom
)

func (s SlotID) String() string {
	switch s {
	case SlotLeft:
		return "left"
	case SlotCenter:
		return "center"
	case SlotRight:
		return "right"
	case SlotBottom:
		return "bottom"
	default:
		return "invalid"
	}
}

// AllSlots lists the dock slots.
var AllSlots = [4]SlotID{SlotLeft, SlotCenter, SlotRight, SlotBottom}

// CanonicalHome returns the slot a panel returns to on dock-back.
func (p PanelID) CanonicalHome() SlotID {
	switch p {
	case PanelGlobe:
		return SlotCenter
	case PanelOperations:
		return SlotLeft
	case PanelEntities:
		return SlotRight
	case PanelInspector:
		return SlotBottom
	default:
		return SlotCenter
	}
}

// displayRank orders panels within a stack.
func displayRank(p PanelID) int {
	for i, q := range AllPanels {
		if q == p {
			return i
		}
	}
	return len(AllPanels)
}
