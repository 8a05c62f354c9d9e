package pagemap

import (
	"pagemap/pkg/geom"
	"pagemap/pkg/page"
)

// region is the scrollable area being mapped.
type region interface {
	// content is the full scrollable extent, in page coordinates.
	content() geom.Rect
	// visible is the part currently shown, in page coordinates.
	visible() geom.Rect
	// scrollTo sets the scroll offset so that visible().Origin() minus
	// content().Origin() becomes p.
	scrollTo(p geom.Point)
	// query finds the elements a style rule applies to.
	query(selectors string) []*page.Element
	// target receives the load, resize and scroll events that trigger a
	// redraw.
	target() *page.Target
	String() string
}

func newRegion(doc *page.Document, viewport *page.Element) region {
	if viewport != nil {
		return elementRegion{el: viewport}
	}
	return documentRegion{doc: doc}
}

// documentRegion maps the whole document through the window.
type documentRegion struct {
	doc *page.Document
}

func (r documentRegion) content() geom.Rect {
	root := r.doc.DocumentElement()
	if root == nil {
		return geom.Rect{}
	}
	return geom.R(0, 0, root.ScrollWidth(), root.ScrollHeight())
}

func (r documentRegion) visible() geom.Rect {
	win := r.doc.Window()
	root := r.doc.DocumentElement()
	if root == nil {
		return geom.RectAt(win.ScrollPosition(), win.InnerSize())
	}
	return geom.R(win.ScrollX(), win.ScrollY(), root.ClientWidth(), root.ClientHeight())
}

func (r documentRegion) scrollTo(p geom.Point) {
	r.doc.Window().ScrollTo(p.X, p.Y)
}

func (r documentRegion) query(selectors string) []*page.Element {
	return r.doc.QuerySelectorAll(selectors)
}

func (r documentRegion) target() *page.Target {
	return &r.doc.Window().Target
}

func (r documentRegion) String() string {
	return "document"
}

// elementRegion maps the scrollable content of one element.
type elementRegion struct {
	el *page.Element
}

// content is the element's scrollable content positioned where its top-left
// currently is: the padding box origin moved back by the scroll offset.
func (r elementRegion) content() geom.Rect {
	off := r.el.PageOffset()
	return geom.R(
		off.X+r.el.ClientLeft()-r.el.ScrollLeft(),
		off.Y+r.el.ClientTop()-r.el.ScrollTop(),
		r.el.ScrollWidth(),
		r.el.ScrollHeight(),
	)
}

// visible is the element's padding box, excluding borders.
func (r elementRegion) visible() geom.Rect {
	off := r.el.PageOffset()
	return geom.R(
		off.X+r.el.ClientLeft(),
		off.Y+r.el.ClientTop(),
		r.el.ClientWidth(),
		r.el.ClientHeight(),
	)
}

func (r elementRegion) scrollTo(p geom.Point) {
	r.el.ScrollTo(p.X, p.Y)
}

func (r elementRegion) query(selectors string) []*page.Element {
	return r.el.QuerySelectorAll(selectors)
}

func (r elementRegion) target() *page.Target {
	return r.el.Target()
}

func (r elementRegion) String() string {
	if id := r.el.ID(); id != "" {
		return r.el.TagName() + "#" + id
	}
	return r.el.TagName()
}
