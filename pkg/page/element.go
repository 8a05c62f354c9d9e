package page

import (
	"math"

	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/html"
	"pagemap/pkg/layout"
)

// Element is the live view of one element node: its geometry in the
// current layout, its scroll offset and its event target.
//
// Geometry follows the CSSOM View definitions. Elements without a box
// (display: none, or never laid out) report zero for everything.
type Element struct {
	doc    *Document
	node   *html.Node
	target Target

	scrollLeft float64
	scrollTop  float64
}

func (e *Element) Node() *html.Node { return e.node }

func (e *Element) TagName() string { return e.node.TagName }

func (e *Element) ID() string { return e.node.ID() }

// GetAttribute returns the attribute value, or "" when it is absent.
func (e *Element) GetAttribute(name string) string {
	v, _ := e.node.GetAttribute(name)
	return v
}

// Target returns the element's event target.
func (e *Element) Target() *Target { return &e.target }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Parent returns the parent element, or nil for the document element.
func (e *Element) Parent() *Element {
	return e.doc.ElementFor(e.node.Parent)
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	return other != nil && e.node.Contains(other.node)
}

func (e *Element) box() *layout.Box {
	return e.doc.tree.BoxFor(e.node)
}

func (e *Element) isDocumentElement() bool {
	return e.node.Parent != nil && e.node.Parent.IsRoot()
}

// pageBorderBox is the border box in page coordinates: layout position
// moved by the scroll offsets of enclosing scroll containers, and by the
// window scroll for fixed boxes.
func (e *Element) pageBorderBox() geom.Rect {
	b := e.box()
	if b == nil {
		return geom.Rect{}
	}
	rect := b.BorderBox()
	for a := b.Parent; a != nil; a = a.Parent {
		if !a.ScrollContainer || (b.Fixed && !a.Fixed) {
			continue
		}
		if scroller, ok := e.doc.elements[a.Node]; ok {
			rect = rect.Translate(geom.Pt(-scroller.scrollLeft, -scroller.scrollTop))
		}
	}
	if b.Fixed {
		rect = rect.Translate(e.doc.window.ScrollPosition())
	}
	return rect
}

// BoundingClientRect returns the border box relative to the viewport.
func (e *Element) BoundingClientRect() geom.Rect {
	w := e.doc.window
	return e.pageBorderBox().RelativeTo(w.ScrollPosition())
}

// PageOffset returns the top-left of the border box in page coordinates:
// the bounding client rect plus the window scroll, independent of the
// caller's own scroll position.
func (e *Element) PageOffset() geom.Point {
	return e.BoundingClientRect().Origin().Add(e.doc.window.ScrollPosition())
}

// PageRect returns the border box in page coordinates.
func (e *Element) PageRect() geom.Rect {
	return geom.RectAt(e.PageOffset(), geom.Size{W: e.OffsetWidth(), H: e.OffsetHeight()})
}

func (e *Element) OffsetWidth() float64 {
	if b := e.box(); b != nil {
		return b.BorderBox().W
	}
	return 0
}

func (e *Element) OffsetHeight() float64 {
	if b := e.box(); b != nil {
		return b.BorderBox().H
	}
	return 0
}

func (e *Element) ClientLeft() float64 {
	if b := e.box(); b != nil {
		return b.Border.Left
	}
	return 0
}

func (e *Element) ClientTop() float64 {
	if b := e.box(); b != nil {
		return b.Border.Top
	}
	return 0
}

// ClientWidth is the padding box width. For the document element it is the
// viewport width.
func (e *Element) ClientWidth() float64 {
	return e.clientSize().W
}

// ClientHeight is the padding box height. For the document element it is
// the viewport height.
func (e *Element) ClientHeight() float64 {
	return e.clientSize().H
}

func (e *Element) clientSize() geom.Size {
	if e.isDocumentElement() {
		return e.doc.window.InnerSize()
	}
	if b := e.box(); b != nil {
		return b.PaddingBox().Size()
	}
	return geom.Size{}
}

// ScrollWidth is the width of the scrollable content. For the document
// element it is the document width.
func (e *Element) ScrollWidth() float64 {
	return e.scrollSize().W
}

// ScrollHeight is the height of the scrollable content. For the document
// element it is the document height.
func (e *Element) ScrollHeight() float64 {
	return e.scrollSize().H
}

func (e *Element) scrollSize() geom.Size {
	if e.isDocumentElement() {
		return e.doc.tree.DocumentSize
	}
	if b := e.box(); b != nil {
		return b.ScrollSize()
	}
	return geom.Size{}
}

// ScrollLeft returns the horizontal scroll offset. The document element
// mirrors the window.
func (e *Element) ScrollLeft() float64 {
	if e.isDocumentElement() {
		return e.doc.window.scrollX
	}
	return e.scrollLeft
}

// ScrollTop returns the vertical scroll offset. The document element
// mirrors the window.
func (e *Element) ScrollTop() float64 {
	if e.isDocumentElement() {
		return e.doc.window.scrollY
	}
	return e.scrollTop
}

func (e *Element) SetScrollLeft(x float64) {
	e.ScrollTo(x, e.ScrollTop())
}

func (e *Element) SetScrollTop(y float64) {
	e.ScrollTo(e.ScrollLeft(), y)
}

// ScrollTo sets both scroll offsets, clamped to the scrollable range, and
// dispatches scroll on the element when either changed. Elements that are
// not scroll containers stay at zero.
func (e *Element) ScrollTo(x, y float64) {
	if e.isDocumentElement() {
		e.doc.window.ScrollTo(x, y)
		return
	}
	if !e.Scrollable() {
		x, y = 0, 0
	} else {
		client, content := e.clientSize(), e.scrollSize()
		x = clampScroll(x, math.Max(0, content.W-client.W))
		y = clampScroll(y, math.Max(0, content.H-client.H))
	}
	if x == e.scrollLeft && y == e.scrollTop {
		return
	}
	e.scrollLeft, e.scrollTop = x, y
	e.target.Dispatch(&Event{Type: "scroll"})
}

// Scrollable reports whether the element is a scroll container.
func (e *Element) Scrollable() bool {
	if e.isDocumentElement() {
		return true
	}
	b := e.box()
	return b != nil && b.ScrollContainer
}

// ComputedStyle returns the cascaded style. Elements without a style get an
// empty one.
func (e *Element) ComputedStyle() *css.Style {
	if s := e.doc.tree.Styles[e.node]; s != nil {
		return s
	}
	return css.NewStyle()
}

// BackgroundColor returns the computed background-color.
func (e *Element) BackgroundColor() css.Color {
	return e.ComputedStyle().GetBackgroundColor()
}

// QuerySelectorAll returns descendants matching a selector group.
func (e *Element) QuerySelectorAll(selectors string) []*Element {
	return e.doc.wrap(css.QuerySelectorAll(e.node, selectors))
}

func (e *Element) QuerySelector(selectors string) *Element {
	if all := e.QuerySelectorAll(selectors); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Matches reports whether e matches the selector group.
func (e *Element) Matches(selectors string) bool {
	return css.MatchesGroup(e.node, selectors)
}

// ScrollableAncestor returns the nearest scroll container enclosing e,
// including e itself, falling back to the document element.
func (e *Element) ScrollableAncestor() *Element {
	for cur := e; cur != nil; cur = cur.Parent() {
		if cur.Scrollable() {
			return cur
		}
	}
	return e.doc.DocumentElement()
}
