// Package pagemap draws a scaled thumbnail of a scrollable region, either
// the whole document or one scrollable element, with the visible part
// highlighted. Dragging the highlight scrolls the region.
//
// Four coordinate spaces are involved. Content space is page coordinates.
// Rectangles are re-expressed relative to the region's content origin
// before drawing, and the drawing context scales them to surface pixels.
// Pointer events arrive in page coordinates and are mapped back through
// the canvas origin and the scale.
package pagemap

import (
	"log/slog"

	"pagemap/pkg/geom"
	"pagemap/pkg/page"
)

// Map is one minimap session. All methods must be called from the thread
// that delivers the document's events.
type Map struct {
	doc       *page.Document
	canvas    Canvas
	opts      Options
	region    region
	footprint geom.Size

	root  geom.Rect // content rect, page coordinates
	view  geom.Rect // visible rect, page coordinates
	scale float64
	drag  dragState

	down   *page.Subscription
	events *page.Subscription
	timer  *page.Timer
	closed bool
}

// New creates a map of doc on canvas and draws it once. Unset options take
// their defaults.
func New(doc *page.Document, canvas Canvas, opts Options) *Map {
	m := &Map{
		doc:       doc,
		canvas:    canvas,
		opts:      opts.withDefaults(),
		footprint: canvas.Footprint(),
		scale:     1,
	}
	m.region = newRegion(doc, m.opts.Viewport)

	m.down = canvas.Target().AddEventListener("mousedown", m.onDragStart)
	m.events = m.region.target().AddEventListener("load resize scroll", func(*page.Event) { m.draw() })
	if m.opts.Interval > 0 {
		m.timer = doc.Window().SetInterval(m.opts.Interval, m.draw)
	}

	slog.Debug("pagemap created",
		"region", m.region,
		"footprint", m.footprint,
		"rules", len(m.opts.Styles),
		"interval", m.opts.Interval)
	m.draw()
	return m
}

// Redraw measures the region and repaints. It is safe to call at any time,
// including after Close.
func (m *Map) Redraw() {
	m.draw()
}

// Close removes every listener and the timer, ending a drag in progress.
// The surface keeps its last frame. Close is idempotent.
func (m *Map) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.drag.release()
	m.down.Cancel()
	m.events.Cancel()
	m.timer.Stop()
	slog.Debug("pagemap closed", "region", m.region)
}

// Scale returns the scale of the last draw, surface pixels per content
// pixel.
func (m *Map) Scale() float64 { return m.scale }

// ContentRect returns the region's content rectangle as of the last draw.
func (m *Map) ContentRect() geom.Rect { return m.root }

// VisibleRect returns the region's visible rectangle as of the last draw.
func (m *Map) VisibleRect() geom.Rect { return m.view }

// Overlay returns the visible rectangle in surface pixels.
func (m *Map) Overlay() geom.Rect {
	return m.view.RelativeTo(m.root.Origin()).Scale(m.scale)
}

// Dragging reports whether a drag gesture is in progress.
func (m *Map) Dragging() bool { return m.drag.active }

// Anchor returns the grab point of the current or last drag.
func (m *Map) Anchor() geom.Point { return geom.Pt(m.drag.rx, m.drag.ry) }

// Options returns the merged options.
func (m *Map) Options() Options { return m.opts }
