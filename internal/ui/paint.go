package ui

import (
	"fmt"
	"time"

	"github.com/sentinelc2/client/pkg/core"
)

// PaintKind discriminates paint jobs.
type PaintKind uint8

const (
	PaintPanelBackground PaintKind = iota
	PaintTab
	PaintLabel
	PaintViewport // the off-screen globe texture
	PaintTrail    // the selected entity's simplified track
	PaintDropIndicator
)

// PaintJob is one drawing instruction for the presentation layer. Jobs
// are emitted back-to-front per window.
type PaintJob struct {
	Kind   PaintKind
	Window WindowID
	Rect   Rect
	Panel  PanelID
	Label  string
	Active bool
	// Trail carries the geodetic polyline of a PaintTrail job; the
	// presenter maps it into Rect equirectangularly.
	Trail []core.GeoPos
}

// InspectorStatus is the live data the Inspector panel paints: frame
// timings, per-layer pipeline health and the focused entity's
// simplified trail. The frame loop refreshes it every frame.
type InspectorStatus struct {
	Layers  []core.LayerStats
	FrameMs float64
	FPS     float64
	Frames  uint64
	Trail   []core.GeoPos
	// Now anchors the activity-age labels.
	Now time.Time
}

// SetInspectorStatus stores the data the next PaintJobs call renders
// into the Inspector panel.
func (s *Shell) SetInspectorStatus(st InspectorStatus) {
	s.inspector = st
}

// PaintJobs emits the draw list for every window. The caller draws jobs
// in order; the drop indicator, when present, is last.
func (s *Shell) PaintJobs() []PaintJob {
	var jobs []PaintJob
	for _, w := range s.Windows() {
		jobs = s.appendWindowJobs(jobs, w)
	}
	if winID, _, r, ok := s.DropIndicator(); ok {
		jobs = append(jobs, PaintJob{Kind: PaintDropIndicator, Window: winID, Rect: r})
	}
	return jobs
}

func (s *Shell) appendWindowJobs(jobs []PaintJob, w *Window) []PaintJob {
	rects := SlotRects(&w.Layout, w.Rect.W, w.Rect.H, s.metrics)
	for _, slotID := range AllSlots {
		stack := w.Layout.Slot(slotID)
		if stack.Empty() {
			continue
		}
		slotRect := rects[slotID]
		jobs = append(jobs, PaintJob{
			Kind:   PaintPanelBackground,
			Window: w.ID,
			Rect:   slotRect,
			Panel:  stack.Active,
		})

		// Tab strip, one tab per panel in display order.
		tabW := slotRect.W / len(stack.Panels)
		for i, p := range stack.Panels {
			jobs = append(jobs, PaintJob{
				Kind:   PaintTab,
				Window: w.ID,
				Rect:   Rect{X: slotRect.X + i*tabW, Y: slotRect.Y, W: tabW, H: tabBarHeight},
				Panel:  p,
				Label:  p.Title(),
				Active: p == stack.Active,
			})
		}

		inner := InnerRect(slotRect)
		switch stack.Active {
		case PanelGlobe:
			jobs = append(jobs, PaintJob{
				Kind:   PaintViewport,
				Window: w.ID,
				Rect:   inner,
				Panel:  PanelGlobe,
			})
		case PanelInspector:
			jobs = s.appendInspectorJobs(jobs, w.ID, inner)
		default:
			jobs = append(jobs, PaintJob{
				Kind:   PaintLabel,
				Window: w.ID,
				Rect:   inner,
				Panel:  stack.Active,
				Label:  stack.Active.Title(),
			})
		}
	}
	return jobs
}

// inspectorLineH is the Inspector's text line height in logical pixels.
const inspectorLineH = 18

// appendInspectorJobs emits the Inspector content: a frame-timing line,
// one status line per layer with the age of its last activity, and the
// focused entity's trail in the remaining space.
func (s *Shell) appendInspectorJobs(jobs []PaintJob, win WindowID, inner Rect) []PaintJob {
	st := s.inspector
	line := func(i int) Rect {
		return Rect{X: inner.X, Y: inner.Y + i*inspectorLineH, W: inner.W, H: inspectorLineH}
	}

	n := 0
	jobs = append(jobs, PaintJob{
		Kind:   PaintLabel,
		Window: win,
		Rect:   line(n),
		Panel:  PanelInspector,
		Label:  fmt.Sprintf("frame %.1f ms  %.0f fps  #%d", st.FrameMs, st.FPS, st.Frames),
	})
	n++

	for _, l := range st.Layers {
		label := fmt.Sprintf("%s: %s", l.Kind.String(), l.Status())
		if l.Status() != "off" && !l.LastActivity.IsZero() {
			age := st.Now.Sub(l.LastActivity).Round(time.Second)
			if age < 0 {
				age = 0
			}
			label = fmt.Sprintf("%s (%s ago)", label, age)
		}
		jobs = append(jobs, PaintJob{
			Kind:   PaintLabel,
			Window: win,
			Rect:   line(n),
			Panel:  PanelInspector,
			Label:  label,
		})
		n++
	}

	if len(st.Trail) >= 2 && inner.H > n*inspectorLineH {
		jobs = append(jobs, PaintJob{
			Kind:   PaintTrail,
			Window: win,
			Rect:   Rect{X: inner.X, Y: inner.Y + n*inspectorLineH, W: inner.W, H: inner.H - n*inspectorLineH},
			Panel:  PanelInspector,
			Trail:  st.Trail,
		})
	}
	return jobs
}
