package pagemap

import (
	"pagemap/pkg/geom"
	"pagemap/pkg/page"
)

// draw measures the region and repaints the whole surface: background,
// style rules in order, then the overlay.
func (m *Map) draw() {
	m.root = m.region.content()
	m.view = m.region.visible()
	m.scale = fitScale(m.footprint, m.root)

	w, h := surfaceSize(m.root, m.scale)
	m.canvas.Resize(w, h)

	ctx := m.canvas.Context()
	ctx.ResetTransform()
	ctx.ClearRect(0, 0, float64(w), float64(h))
	ctx.Scale(m.scale, m.scale)

	origin := m.root.Origin()
	fill(ctx, m.root.RelativeTo(origin), m.opts.Back, nil)
	for _, rule := range m.opts.Styles {
		for _, el := range m.region.query(rule.Selector) {
			fill(ctx, el.PageRect().RelativeTo(origin), rule.Paint, el)
		}
	}

	overlay := m.view.RelativeTo(origin)
	if m.drag.active {
		fill(ctx, overlay, m.opts.Drag, nil)
		return
	}
	fill(ctx, overlay, m.opts.View, nil)
	stroke(ctx, overlay, m.opts.Outline, m.opts.OutlineWidth)
}

func fill(ctx Context, r geom.Rect, p Paint, el *page.Element) {
	c, ok := p.resolve(el)
	if !ok {
		return
	}
	ctx.FillRect(r.X, r.Y, r.W, r.H, c)
}

// stroke outlines r with the line kept entirely inside it.
func stroke(ctx Context, r geom.Rect, p Paint, width float64) {
	c, ok := p.resolve(nil)
	if !ok || width <= 0 {
		return
	}
	path := r.Inset(width / 2)
	ctx.StrokeRect(path.X, path.Y, path.W, path.H, width, c)
}
