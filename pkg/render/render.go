// Package render paints the visible part of a page onto a gg context:
// backgrounds, borders, text, scrollbar indicators, and the pixels of
// <canvas> elements.
package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/layout"
	"pagemap/pkg/page"
)

// CanvasSource returns the current pixels of a <canvas> element, or nil.
type CanvasSource func(el *page.Element) image.Image

type Renderer struct {
	context  *gg.Context
	canvases CanvasSource
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{context: gg.NewContext(width, height)}
}

// NewRendererForImage paints directly into img.
func NewRendererForImage(img *image.RGBA) *Renderer {
	return &Renderer{context: gg.NewContextForRGBA(img)}
}

// SetCanvasSource supplies the pixels drawn for <canvas> elements.
func (r *Renderer) SetCanvasSource(src CanvasSource) {
	r.canvases = src
}

// Image returns the painted image.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// paintItem is one box with the clip that applies to it, in viewport
// coordinates.
type paintItem struct {
	el      *page.Element
	box     *layout.Box
	clip    geom.Rect
	clipped bool
}

// Render paints the document as seen through its window at the current
// scroll position. Boxes in normal flow are painted in tree order and
// fixed boxes after them.
func (r *Renderer) Render(doc *page.Document) {
	r.context.ResetClip()
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()

	tree := doc.Layout()
	if tree.Root == nil {
		return
	}
	var flow, fixed []paintItem
	var collect func(b *layout.Box, clip geom.Rect, clipped bool)
	collect = func(b *layout.Box, clip geom.Rect, clipped bool) {
		item := paintItem{el: doc.ElementFor(b.Node), box: b, clip: clip, clipped: clipped}
		if b.Fixed {
			fixed = append(fixed, item)
		} else {
			flow = append(flow, item)
		}
		if b.ScrollContainer {
			inner := paddingRect(item.el.BoundingClientRect(), b)
			if clipped {
				inner = intersect(inner, clip)
			}
			clip, clipped = inner, true
		}
		for _, c := range b.Children {
			if c.Fixed && !b.Fixed {
				collect(c, geom.Rect{}, false)
				continue
			}
			collect(c, clip, clipped)
		}
	}
	collect(tree.Root, geom.Rect{}, false)

	view := geom.RectAt(geom.Point{}, doc.Window().InnerSize())
	for _, items := range [][]paintItem{flow, fixed} {
		for _, item := range items {
			r.drawBox(item, view)
		}
	}
	r.context.ResetClip()
}

func (r *Renderer) setClip(item paintItem) {
	r.context.ResetClip()
	if item.clipped {
		r.context.DrawRectangle(item.clip.X, item.clip.Y, item.clip.W, item.clip.H)
		r.context.Clip()
	}
}

func (r *Renderer) drawBox(item paintItem, view geom.Rect) {
	box := item.box
	rect := item.el.BoundingClientRect()
	reach := rect.Union(geom.R(rect.X, rect.Y, 1, 1))
	for _, line := range box.Lines {
		reach = reach.Union(geom.R(line.X, line.Y, line.Width, line.Height).Translate(rect.Origin().Sub(box.BorderBox().Origin())))
	}
	if intersect(reach, view).Empty() {
		return
	}
	if item.clipped && intersect(reach, item.clip).Empty() {
		return
	}
	r.setClip(item)

	// Background covers the padding box.
	if bg := box.Style.GetBackgroundColor(); !bg.IsTransparent() {
		p := paddingRect(rect, box)
		if p.W > 0 && p.H > 0 {
			r.setColor(bg)
			r.context.DrawRectangle(p.X, p.Y, p.W, p.H)
			r.context.Fill()
		}
	}

	r.drawBorder(box, rect)
	r.drawCanvas(item.el, box, rect)
	r.drawText(box, rect)

	if box.ScrollContainer {
		r.drawScrollbarIndicators(item.el, box, rect)
	}
}

func (r *Renderer) setColor(c css.Color) {
	r.context.SetRGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, c.A)
}

// getBorderSideColor returns the color for a specific border side
func getBorderSideColor(box *layout.Box, side string) css.Color {
	for _, prop := range []string{"border-" + side + "-color", "border-color", "color"} {
		if colorStr, ok := box.Style.Get(prop); ok {
			if color, ok := css.ParseColor(colorStr); ok {
				return color
			}
		}
	}
	return css.Color{A: 1}
}

// drawBorder draws each side as a trapezoid so corners are mitred.
func (r *Renderer) drawBorder(box *layout.Box, rect geom.Rect) {
	b := box.Border
	if b.Top <= 0 && b.Right <= 0 && b.Bottom <= 0 && b.Left <= 0 {
		return
	}

	outerLeft, outerTop := rect.X, rect.Y
	outerRight, outerBottom := rect.Right(), rect.Bottom()
	innerLeft, innerTop := outerLeft+b.Left, outerTop+b.Top
	innerRight, innerBottom := outerRight-b.Right, outerBottom-b.Bottom

	sides := []struct {
		name  string
		width float64
		pts   [4]geom.Point
	}{
		{"top", b.Top, [4]geom.Point{{X: outerLeft, Y: outerTop}, {X: outerRight, Y: outerTop}, {X: innerRight, Y: innerTop}, {X: innerLeft, Y: innerTop}}},
		{"right", b.Right, [4]geom.Point{{X: outerRight, Y: outerTop}, {X: outerRight, Y: outerBottom}, {X: innerRight, Y: innerBottom}, {X: innerRight, Y: innerTop}}},
		{"bottom", b.Bottom, [4]geom.Point{{X: outerLeft, Y: outerBottom}, {X: outerRight, Y: outerBottom}, {X: innerRight, Y: innerBottom}, {X: innerLeft, Y: innerBottom}}},
		{"left", b.Left, [4]geom.Point{{X: outerLeft, Y: outerTop}, {X: outerLeft, Y: outerBottom}, {X: innerLeft, Y: innerBottom}, {X: innerLeft, Y: innerTop}}},
	}
	for _, side := range sides {
		if side.width <= 0 {
			continue
		}
		color := getBorderSideColor(box, side.name)
		if color.IsTransparent() {
			continue
		}
		r.setColor(color)
		r.context.MoveTo(side.pts[0].X, side.pts[0].Y)
		for _, p := range side.pts[1:] {
			r.context.LineTo(p.X, p.Y)
		}
		r.context.ClosePath()
		r.context.Fill()
	}
}

// drawText draws the box's own line runs with the bitmap face scaled to
// the run's font size.
func (r *Renderer) drawText(box *layout.Box, rect geom.Rect) {
	if len(box.Lines) == 0 {
		return
	}
	shift := rect.Origin().Sub(box.BorderBox().Origin())
	r.context.SetFontFace(basicfont.Face7x13)
	for _, run := range box.Lines {
		if run.Color.IsTransparent() {
			continue
		}
		s := run.FontSize / layout.BaseFaceSize
		x := run.X + shift.X
		// basicfont's ascent is 11 of its 13 pixels; centre the face in
		// the line box.
		y := run.Y + shift.Y + (run.Height-run.FontSize)/2 + 11*s

		r.setColor(run.Color)
		r.context.Push()
		r.context.ScaleAbout(s, s, x, y)
		r.context.DrawString(run.Text, x, y)
		r.context.Pop()
	}
}

// drawCanvas draws a canvas element's pixels at its content box origin, at
// their natural size.
func (r *Renderer) drawCanvas(el *page.Element, box *layout.Box, rect geom.Rect) {
	if r.canvases == nil || el.TagName() != "canvas" {
		return
	}
	img := r.canvases(el)
	if img == nil || img.Bounds().Empty() {
		return
	}
	x := rect.X + box.Border.Left + box.Padding.Left
	y := rect.Y + box.Border.Top + box.Padding.Top
	r.context.DrawImage(img, int(math.Round(x)), int(math.Round(y)))
}

// drawScrollbarIndicators draws thin scrollbar thumbs inside the padding
// box of a scroll container, sized and placed by the scroll state.
func (r *Renderer) drawScrollbarIndicators(el *page.Element, box *layout.Box, rect geom.Rect) {
	const thickness = 6.0
	track := css.Color{R: 200, G: 200, B: 200, A: 0.6}
	thumb := css.Color{R: 120, G: 120, B: 120, A: 0.9}
	p := paddingRect(rect, box)

	if sh, ch := el.ScrollHeight(), el.ClientHeight(); sh > ch && ch > 0 {
		x := p.Right() - thickness
		r.setColor(track)
		r.context.DrawRectangle(x, p.Y, thickness, p.H)
		r.context.Fill()
		r.setColor(thumb)
		r.context.DrawRectangle(x, p.Y+p.H*el.ScrollTop()/sh, thickness, p.H*ch/sh)
		r.context.Fill()
	}
	if sw, cw := el.ScrollWidth(), el.ClientWidth(); sw > cw && cw > 0 {
		y := p.Bottom() - thickness
		r.setColor(track)
		r.context.DrawRectangle(p.X, y, p.W, thickness)
		r.context.Fill()
		r.setColor(thumb)
		r.context.DrawRectangle(p.X+p.W*el.ScrollLeft()/sw, y, p.W*cw/sw, thickness)
		r.context.Fill()
	}
}

// paddingRect is the padding box of box given its border box rect.
func paddingRect(rect geom.Rect, box *layout.Box) geom.Rect {
	b := box.Border
	return geom.R(rect.X+b.Left, rect.Y+b.Top, math.Max(0, rect.W-b.Horizontal()), math.Max(0, rect.H-b.Vertical()))
}

func intersect(a, b geom.Rect) geom.Rect {
	x0, y0 := math.Max(a.X, b.X), math.Max(a.Y, b.Y)
	x1, y1 := math.Min(a.Right(), b.Right()), math.Min(a.Bottom(), b.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return geom.Rect{}
	}
	return geom.R(x0, y0, x1-x0, y1-y0)
}
