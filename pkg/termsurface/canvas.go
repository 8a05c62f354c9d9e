// Package termsurface is a pagemap canvas drawn on a terminal with tcell.
// Every cell shows two pixels stacked vertically using the upper half
// block, so a cols x rows area has a cols x 2*rows pixel footprint.
// Translucent fills are blended in linear RGB with go-colorful.
package termsurface

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/page"
	"pagemap/pkg/pagemap"
)

const halfBlock = '▀'

// pixel is a straight-alpha colour.
type pixel struct {
	c colorful.Color
	a float64
}

// over composites src with alpha a on top of p.
func (p pixel) over(src colorful.Color, a float64) pixel {
	outA := a + p.a*(1-a)
	if outA <= 0 {
		return pixel{}
	}
	if p.a <= 0 {
		return pixel{c: src, a: outA}
	}
	return pixel{c: p.c.BlendLinearRgb(src, a/outA), a: outA}
}

// Canvas draws into a rectangle of cells on a tcell screen. Drawing only
// touches the pixel buffer; Flush copies it to the screen.
type Canvas struct {
	screen tcell.Screen
	x, y   int // top-left cell
	cols   int
	rows   int

	paper  colorful.Color // shown under transparent pixels
	pixels []pixel
	width  int
	height int
	sx, sy float64

	origin geom.Point
	target *page.Target
}

var _ pagemap.Canvas = (*Canvas)(nil)

// New creates a canvas over cols x rows cells with its top-left cell at
// (x, y). paper is the colour behind transparent pixels.
func New(screen tcell.Screen, x, y, cols, rows int, paper css.Color) *Canvas {
	return &Canvas{
		screen: screen,
		x:      x,
		y:      y,
		cols:   max(cols, 0),
		rows:   max(rows, 0),
		paper:  toColorful(paper),
		sx:     1,
		sy:     1,
		target: page.NewTarget("terminal"),
	}
}

// Footprint is the pixel size of the cell area.
func (c *Canvas) Footprint() geom.Size {
	return geom.Size{W: float64(c.cols), H: float64(2 * c.rows)}
}

func (c *Canvas) Origin() geom.Point { return c.origin }

// SetOrigin sets the page position of the top-left pixel.
func (c *Canvas) SetOrigin(p geom.Point) { c.origin = p }

func (c *Canvas) Target() *page.Target { return c.target }

func (c *Canvas) Context() pagemap.Context { return c }

// Resize replaces the pixel buffer. Pixels beyond the cell area are kept
// in the buffer but never shown.
func (c *Canvas) Resize(w, h int) {
	c.width, c.height = max(w, 0), max(h, 0)
	c.pixels = make([]pixel, c.width*c.height)
}

// Size returns the pixel buffer size.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// PixelAt maps a cell to the page position of its centre. ok is false for
// cells outside the canvas.
func (c *Canvas) PixelAt(cellX, cellY int) (p geom.Point, ok bool) {
	col, row := cellX-c.x, cellY-c.y
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return geom.Point{}, false
	}
	return c.origin.Add(geom.Pt(float64(col)+0.5, float64(2*row)+1)), true
}

// PagePoint maps any cell, inside the canvas or not, to a page position.
// Drags continue outside the canvas through it.
func (c *Canvas) PagePoint(cellX, cellY int) geom.Point {
	return c.origin.Add(geom.Pt(float64(cellX-c.x)+0.5, float64(2*(cellY-c.y))+1))
}

func (c *Canvas) ResetTransform() {
	c.sx, c.sy = 1, 1
}

func (c *Canvas) Scale(sx, sy float64) {
	c.sx *= sx
	c.sy *= sy
}

// device maps a user-space rectangle to pixel bounds [x0,x1) x [y0,y1),
// covering the pixels whose centres fall inside it.
func (c *Canvas) device(x, y, w, h float64) (x0, y0, x1, y1 int) {
	fx0, fx1 := math.Min(x*c.sx, (x+w)*c.sx), math.Max(x*c.sx, (x+w)*c.sx)
	fy0, fy1 := math.Min(y*c.sy, (y+h)*c.sy), math.Max(y*c.sy, (y+h)*c.sy)
	x0 = clampInt(int(math.Round(fx0)), 0, c.width)
	x1 = clampInt(int(math.Round(fx1)), 0, c.width)
	y0 = clampInt(int(math.Round(fy0)), 0, c.height)
	y1 = clampInt(int(math.Round(fy1)), 0, c.height)
	return
}

func (c *Canvas) ClearRect(x, y, w, h float64) {
	x0, y0, x1, y1 := c.device(x, y, w, h)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.pixels[py*c.width+px] = pixel{}
		}
	}
}

func (c *Canvas) FillRect(x, y, w, h float64, col css.Color) {
	if w <= 0 || h <= 0 || col.IsTransparent() {
		return
	}
	src := toColorful(col)
	x0, y0, x1, y1 := c.device(x, y, w, h)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			i := py*c.width + px
			c.pixels[i] = c.pixels[i].over(src, col.A)
		}
	}
}

// StrokeRect blends the band between the path grown and shrunk by half the
// line width. The band is at least one pixel wide so thin outlines stay
// visible at terminal resolution.
func (c *Canvas) StrokeRect(x, y, w, h, lineWidth float64, col css.Color) {
	if lineWidth <= 0 || col.IsTransparent() {
		return
	}
	half := lineWidth / 2
	ox0, oy0, ox1, oy1 := c.device(x-half, y-half, w+lineWidth, h+lineWidth)
	ix0, iy0, ix1, iy1 := c.device(x+half, y+half, w-lineWidth, h-lineWidth)
	if w-lineWidth <= 0 || h-lineWidth <= 0 {
		ix0, iy0, ix1, iy1 = 0, 0, 0, 0
	}
	ix0, iy0 = max(ix0, ox0+1), max(iy0, oy0+1)
	ix1, iy1 = min(ix1, ox1-1), min(iy1, oy1-1)

	src := toColorful(col)
	for py := oy0; py < oy1; py++ {
		for px := ox0; px < ox1; px++ {
			if px >= ix0 && px < ix1 && py >= iy0 && py < iy1 {
				continue
			}
			i := py*c.width + px
			c.pixels[i] = c.pixels[i].over(src, col.A)
		}
	}
}

// Flush writes the buffer to the screen cells. Cells not covered by the
// buffer show the paper colour. It does not call Show.
func (c *Canvas) Flush() {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			top := c.shade(col, 2*row)
			bottom := c.shade(col, 2*row+1)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			c.screen.SetContent(c.x+col, c.y+row, halfBlock, nil, style)
		}
	}
}

// shade returns the colour shown for a pixel, composited over the paper.
func (c *Canvas) shade(px, py int) colorful.Color {
	if px >= c.width || py >= c.height {
		return c.paper
	}
	p := c.pixels[py*c.width+px]
	if p.a <= 0 {
		return c.paper
	}
	return c.paper.BlendLinearRgb(p.c, p.a)
}

func toColorful(col css.Color) colorful.Color {
	return colorful.Color{R: float64(col.R) / 255, G: float64(col.G) / 255, B: float64(col.B) / 255}
}

func toTcell(col colorful.Color) tcell.Color {
	r, g, b := col.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
