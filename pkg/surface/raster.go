// Package surface provides pagemap canvases backed by fogleman/gg raster
// contexts: standalone ones for headless and GUI hosts, and ones bound to
// a <canvas> element of the page.
package surface

import (
	"errors"
	"image"
	"image/draw"
	"io"
	"math"

	"github.com/fogleman/gg"

	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/page"
	"pagemap/pkg/pagemap"
)

// Raster is an RGBA pixel buffer with a 2D drawing context. A zero-size
// buffer is valid; drawing into it does nothing.
type Raster struct {
	img    *image.RGBA
	dc     *gg.Context // nil while the buffer is empty
	sx, sy float64     // current scale, for line widths

	footprint geom.Size
	origin    func() geom.Point
	target    *page.Target
	element   *page.Element
}

var errEmpty = errors.New("surface: raster has no pixels")

var _ pagemap.Canvas = (*Raster)(nil)
var _ pagemap.Context = (*Raster)(nil)

// NewRaster creates a standalone raster whose footprint is w x h. Its
// origin is the page origin until SetOrigin is called.
func NewRaster(w, h int) *Raster {
	r := &Raster{
		footprint: geom.Size{W: float64(w), H: float64(h)},
		origin:    func() geom.Point { return geom.Point{} },
		target:    page.NewTarget("raster"),
	}
	r.Resize(w, h)
	return r
}

// ForElement creates a raster for a <canvas> element. The footprint is the
// element's client size, and the origin follows the element's client box
// through layout and scrolling. Pointer events dispatched to the element
// reach the raster's target.
func ForElement(el *page.Element) *Raster {
	r := &Raster{
		footprint: geom.Size{W: el.ClientWidth(), H: el.ClientHeight()},
		origin: func() geom.Point {
			return el.PageOffset().Add(geom.Pt(el.ClientLeft(), el.ClientTop()))
		},
		target:  el.Target(),
		element: el,
	}
	r.Resize(int(math.Round(r.footprint.W)), int(math.Round(r.footprint.H)))
	return r
}

// SetOrigin places a standalone raster on the page.
func (r *Raster) SetOrigin(p geom.Point) {
	r.origin = func() geom.Point { return p }
}

// SetFootprint changes the size reported to maps created afterwards.
func (r *Raster) SetFootprint(s geom.Size) {
	r.footprint = s
}

func (r *Raster) Footprint() geom.Size { return r.footprint }

func (r *Raster) Origin() geom.Point { return r.origin() }

func (r *Raster) Target() *page.Target { return r.target }

// Element returns the bound canvas element, or nil.
func (r *Raster) Element() *page.Element { return r.element }

func (r *Raster) Context() pagemap.Context { return r }

// Resize replaces the buffer with a cleared one of w x h pixels. Negative
// sizes are treated as zero.
func (r *Raster) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	r.dc = nil
	if w > 0 && h > 0 {
		r.dc = gg.NewContextForRGBA(r.img)
	}
	r.sx, r.sy = 1, 1
}

// Size returns the buffer size in pixels.
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the pixel buffer. It is replaced on every Resize.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) ResetTransform() {
	r.sx, r.sy = 1, 1
	if r.dc != nil {
		r.dc.Identity()
	}
}

func (r *Raster) Scale(sx, sy float64) {
	r.sx *= sx
	r.sy *= sy
	if r.dc != nil {
		r.dc.Scale(sx, sy)
	}
}

// ClearRect sets the pixels under the transformed rectangle to transparent.
func (r *Raster) ClearRect(x, y, w, h float64) {
	if r.dc == nil {
		return
	}
	x0, y0 := r.dc.TransformPoint(x, y)
	x1, y1 := r.dc.TransformPoint(x+w, y+h)
	rect := image.Rect(
		int(math.Floor(math.Min(x0, x1))), int(math.Floor(math.Min(y0, y1))),
		int(math.Ceil(math.Max(x0, x1))), int(math.Ceil(math.Max(y0, y1))),
	).Intersect(r.img.Bounds())
	draw.Draw(r.img, rect, image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) FillRect(x, y, w, h float64, c css.Color) {
	if r.dc == nil || w <= 0 || h <= 0 {
		return
	}
	r.dc.SetColor(c.NRGBA())
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Fill()
}

// StrokeRect strokes the rectangle's path. The line width is in user space,
// scaled with the current transform like a canvas 2D context.
func (r *Raster) StrokeRect(x, y, w, h, lineWidth float64, c css.Color) {
	if r.dc == nil || lineWidth <= 0 {
		return
	}
	r.dc.SetColor(c.NRGBA())
	r.dc.SetLineWidth(lineWidth * math.Sqrt(math.Abs(r.sx*r.sy)))
	r.dc.DrawRectangle(x, y, w, h)
	r.dc.Stroke()
}

// EncodePNG writes the buffer as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.dc == nil {
		return errEmpty
	}
	return r.dc.EncodePNG(w)
}

// SavePNG writes the buffer to a PNG file.
func (r *Raster) SavePNG(path string) error {
	if r.dc == nil {
		return errEmpty
	}
	return gg.SavePNG(path, r.img)
}
