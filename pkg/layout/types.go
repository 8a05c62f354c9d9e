package layout

import (
	"math"

	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/html"
)

// Box is the layout result for one element. X and Y locate the border box
// in document coordinates with every scroll offset at zero. Fixed boxes
// (and their descendants) are in viewport coordinates instead; see Fixed.
type Box struct {
	Node     *html.Node
	Style    *css.Style
	X        float64
	Y        float64
	Width    float64 // Content width
	Height   float64 // Content height
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Children []*Box
	Parent   *Box
	Position css.PositionType
	Inline   bool // laid out as part of a line rather than as a block

	// Fixed is set on a position: fixed box and everything under it.
	Fixed bool

	// ScrollContainer is set when overflow is not visible. Descendants of a
	// scroll container move with its scroll offset.
	ScrollContainer bool

	// overflow is the union of descendant border boxes that escape this
	// box, in the same coordinates as X/Y.
	overflow geom.Rect

	// Lines holds the text laid out directly inside this box.
	Lines []TextRun
}

// TextRun is one line fragment of text, positioned in the owning box's
// coordinate system.
type TextRun struct {
	X, Y     float64 // top-left of the line box
	Width    float64
	Height   float64 // line height
	Text     string
	FontSize float64
	Color    css.Color
}

// BorderBox returns the border-box rectangle.
func (b *Box) BorderBox() geom.Rect {
	return geom.R(b.X, b.Y,
		b.Width+b.Padding.Horizontal()+b.Border.Horizontal(),
		b.Height+b.Padding.Vertical()+b.Border.Vertical())
}

// PaddingBox returns the padding-box rectangle (border box minus borders).
func (b *Box) PaddingBox() geom.Rect {
	return geom.R(b.X+b.Border.Left, b.Y+b.Border.Top,
		b.Width+b.Padding.Horizontal(),
		b.Height+b.Padding.Vertical())
}

// ContentBox returns the content-box rectangle.
func (b *Box) ContentBox() geom.Rect {
	return geom.R(b.X+b.Border.Left+b.Padding.Left, b.Y+b.Border.Top+b.Padding.Top,
		b.Width, b.Height)
}

// ScrollSize returns the size of the scrollable content area: the padding
// box grown to cover every descendant, padded on the far edges.
func (b *Box) ScrollSize() geom.Size {
	pad := b.PaddingBox()
	size := pad.Size()
	if b.overflow.Empty() {
		return size
	}
	if w := b.overflow.Right() - pad.X + b.Padding.Right; w > size.W {
		size.W = w
	}
	if h := b.overflow.Bottom() - pad.Y + b.Padding.Bottom; h > size.H {
		size.H = h
	}
	return geom.Size{W: snap(size.W), H: snap(size.H)}
}

// snap rounds v to the 1/64 px grid, dropping the noise that subtracting
// page coordinates leaves behind.
func snap(v float64) float64 {
	return math.Round(v*64) / 64
}

// Walk visits b and its descendants depth first.
func (b *Box) Walk(fn func(*Box)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}

// Tree is the result of laying out a document.
type Tree struct {
	Root   *Box // the <html> box, nil for an empty document
	Boxes  map[*html.Node]*Box
	Styles map[*html.Node]*css.Style

	// DocumentSize is documentElement.scrollWidth/scrollHeight: the
	// viewport grown to cover all in-flow content.
	DocumentSize geom.Size
	Viewport     geom.Size
}

// BoxFor returns the box of node, or nil when it generated none
// (display: none, or not an element).
func (t *Tree) BoxFor(node *html.Node) *Box {
	return t.Boxes[node]
}
