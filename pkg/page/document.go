// Package page is the live side of a laid out document: a window with a
// scroll position and timers, elements with box geometry and scroll
// offsets, and DOM-style event targets. It is single threaded; hosts feed
// it input events and clock ticks from their own loop.
package page

import (
	"log/slog"

	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/html"
	"pagemap/pkg/layout"
)

// Document is a parsed page laid out in a window.
type Document struct {
	source   *html.Document
	tree     *layout.Tree
	window   *Window
	elements map[*html.Node]*Element
	loaded   bool
}

// New styles and lays out src in a viewport of the given size. No events
// are dispatched; call Load once scripts and listeners are in place.
func New(src *html.Document, width, height float64) *Document {
	d := &Document{
		source:   src,
		elements: make(map[*html.Node]*Element),
	}
	d.window = newWindow(d, width, height)
	d.tree = layout.NewLayoutEngine(width, height).Layout(src)
	return d
}

// Load dispatches the window load event. Only the first call does.
func (d *Document) Load() {
	if d.loaded {
		return
	}
	d.loaded = true
	d.window.Dispatch(&Event{Type: "load"})
}

// Loaded reports whether Load has run.
func (d *Document) Loaded() bool {
	return d.loaded
}

func (d *Document) Window() *Window { return d.window }

// Source returns the node tree the document was built from.
func (d *Document) Source() *html.Document { return d.source }

// Layout returns the current layout.
func (d *Document) Layout() *layout.Tree { return d.tree }

// Relayout recomputes styles and boxes after a size or content change.
// Scroll offsets are clamped to the new extents, and elements whose client
// size changed receive a resize event.
func (d *Document) Relayout() {
	before := make(map[*Element]geom.Size, len(d.elements))
	for _, el := range d.elements {
		before[el] = el.clientSize()
	}

	d.tree = layout.NewLayoutEngine(d.window.width, d.window.height).Layout(d.source)
	slog.Debug("relayout", "viewport", d.tree.Viewport, "document", d.tree.DocumentSize)

	d.window.ScrollTo(d.window.scrollX, d.window.scrollY)
	for _, el := range d.elements {
		if !el.isDocumentElement() {
			el.ScrollTo(el.scrollLeft, el.scrollTop)
		}
		if el.clientSize() != before[el] {
			el.target.Dispatch(&Event{Type: "resize"})
		}
	}
}

// ElementFor returns the element wrapping node, creating it on first use.
// The same node always yields the same *Element. Non-element nodes and
// the synthetic root yield nil.
func (d *Document) ElementFor(node *html.Node) *Element {
	if node == nil || node.Type != html.ElementNode || node.IsRoot() {
		return nil
	}
	if el, ok := d.elements[node]; ok {
		return el
	}
	el := &Element{doc: d, node: node}
	el.target.name = node.TagName
	d.elements[node] = el
	return el
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	for _, child := range d.source.Root.Children {
		if child.Type == html.ElementNode {
			return d.ElementFor(child)
		}
	}
	return nil
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Element {
	return d.ElementFor(d.source.Root.FindFirst("body"))
}

func (d *Document) GetElementByID(id string) *Element {
	return d.ElementFor(d.source.GetElementByID(id))
}

// QuerySelectorAll returns the elements matching a selector group, in
// document order. An unparseable group matches nothing.
func (d *Document) QuerySelectorAll(selectors string) []*Element {
	return d.wrap(css.QuerySelectorAll(d.source.Root, selectors))
}

// QuerySelector returns the first element matching selectors, or nil.
func (d *Document) QuerySelector(selectors string) *Element {
	if all := d.QuerySelectorAll(selectors); len(all) > 0 {
		return all[0]
	}
	return nil
}

func (d *Document) wrap(nodes []*html.Node) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if el := d.ElementFor(n); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// ElementAt returns the topmost element whose border box contains p, in
// viewport coordinates. Content clipped by a scroll container is not hit.
// Fixed boxes are above everything in flow.
func (d *Document) ElementAt(p geom.Point) *Element {
	if d.tree.Root == nil {
		return nil
	}
	var hit, fixedHit *layout.Box
	var visit func(b *layout.Box, clip geom.Rect, clipped bool)
	visit = func(b *layout.Box, clip geom.Rect, clipped bool) {
		el := d.ElementFor(b.Node)
		rect := el.BoundingClientRect()
		if rect.Contains(p) && (!clipped || clip.Contains(p)) {
			if b.Fixed {
				fixedHit = b
			} else {
				hit = b
			}
		}
		if b.ScrollContainer {
			inner := geom.RectAt(rect.Origin().Add(geom.Pt(b.Border.Left, b.Border.Top)), b.PaddingBox().Size())
			if clipped {
				inner = intersect(inner, clip)
			}
			clip, clipped = inner, true
		}
		for _, c := range b.Children {
			if c.Fixed && !b.Fixed {
				visit(c, geom.Rect{}, false)
				continue
			}
			visit(c, clip, clipped)
		}
	}
	visit(d.tree.Root, geom.Rect{}, false)
	if fixedHit != nil {
		return d.ElementFor(fixedHit.Node)
	}
	if hit != nil {
		return d.ElementFor(hit.Node)
	}
	return nil
}

// DispatchPointer delivers a pointer event at (ev.PageX, ev.PageY) to the
// element under it and bubbles it through the ancestors to the window.
func (d *Document) DispatchPointer(ev *Event) {
	client := geom.Pt(ev.PageX, ev.PageY).Sub(d.window.ScrollPosition())
	el := d.ElementAt(client)

	var path []*Target
	for cur := el; cur != nil; cur = cur.Parent() {
		path = append(path, &cur.target)
	}
	path = append(path, &d.window.Target)

	ev.Target = path[0]
	for _, t := range path {
		t.Dispatch(ev)
		if ev.stopped {
			return
		}
	}
}

func intersect(a, b geom.Rect) geom.Rect {
	x0, y0 := max(a.X, b.X), max(a.Y, b.Y)
	x1, y1 := min(a.Right(), b.Right()), min(a.Bottom(), b.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return geom.Rect{}
	}
	return geom.R(x0, y0, x1-x0, y1-y0)
}
