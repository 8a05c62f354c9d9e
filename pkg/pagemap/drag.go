package pagemap

import (
	"log/slog"

	"pagemap/pkg/geom"
	"pagemap/pkg/page"
)

// dragState is the Dragging half of the Idle/Dragging machine. The
// subscriptions exist exactly while active is set.
type dragState struct {
	active bool
	rx, ry float64 // grab point within the overlay, each in [0,1]
	move   *page.Subscription
	up     *page.Subscription
}

// release cancels the window subscriptions and returns to Idle. The anchor
// is kept for the final move step.
func (d *dragState) release() {
	if !d.active {
		return
	}
	d.move.Cancel()
	d.up.Cancel()
	d.move, d.up = nil, nil
	d.active = false
}

// pointerToContent maps a pointer event to content space relative to the
// region's content origin.
// A surface drawn at scale 0 has no area, so every pointer maps to the
// content origin.
func (m *Map) pointerToContent(ev *page.Event) geom.Point {
	if m.scale <= 0 {
		return geom.Point{}
	}
	surface := geom.Pt(ev.PageX, ev.PageY).Sub(m.canvas.Origin())
	return surface.Div(m.scale)
}

func (m *Map) onDragStart(ev *page.Event) {
	if m.drag.active {
		return
	}
	overlay := m.view.RelativeTo(m.root.Origin())
	p := m.pointerToContent(ev)
	rx := (p.X - overlay.X) / overlay.W
	ry := (p.Y - overlay.Y) / overlay.H
	if !unit(rx) || !unit(ry) {
		rx, ry = 0.5, 0.5
	}

	win := m.doc.Window()
	m.drag = dragState{active: true, rx: rx, ry: ry}
	m.drag.move = win.AddEventListener("mousemove", m.onDrag)
	m.drag.up = win.AddEventListener("mouseup", m.onDragEnd)
	slog.Debug("pagemap drag start", "region", m.region, "rx", rx, "ry", ry)

	m.onDrag(ev)
}

// onDrag scrolls so that the anchor point of the overlay sits under the
// pointer, then redraws.
func (m *Map) onDrag(ev *page.Event) {
	p := m.pointerToContent(ev)
	m.region.scrollTo(geom.Pt(p.X-m.view.W*m.drag.rx, p.Y-m.view.H*m.drag.ry))
	m.draw()
}

func (m *Map) onDragEnd(ev *page.Event) {
	m.drag.release()
	slog.Debug("pagemap drag end", "region", m.region)
	m.onDrag(ev)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
