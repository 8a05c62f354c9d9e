// Package geom holds the rectangle and point values shared by the layout,
// page and minimap packages. Every value is tagged only by the coordinate
// space its producer documents; nothing here knows which space it is in.
package geom

import "math"

// Point represents a 2D coordinate
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Div divides both components by s. Callers guard s against zero.
func (p Point) Div(s float64) Point {
	return Point{X: p.X / s, Y: p.Y / s}
}

func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Size represents dimensions (width and height)
type Size struct {
	W float64
	H float64
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is an axis-aligned rectangle. It is a value type; all operations
// return a new Rect.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// R builds a Rect from its four components.
func R(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAt builds a Rect from an origin and a size.
func RectAt(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, W: size.W, H: size.H}
}

func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

func (r Rect) Right() float64 {
	return r.X + r.W
}

func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// RelativeTo re-expresses r in a space whose origin sits at origin.
// Translation composes additively:
//
//	r.RelativeTo(a).RelativeTo(b) == r.RelativeTo(a.Add(b))
func (r Rect) RelativeTo(origin Point) Rect {
	return Rect{X: r.X - origin.X, Y: r.Y - origin.Y, W: r.W, H: r.H}
}

// Translate moves r by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Scale multiplies every component by s.
func (r Rect) Scale(s float64) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

// Inset shrinks r by d on every side. The result never has a negative size.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
	if out.W < 0 {
		out.X, out.W = r.X+r.W/2, 0
	}
	if out.H < 0 {
		out.Y, out.H = r.Y+r.H/2, 0
	}
	return out
}

// Empty reports whether r covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Finite reports whether all four components are finite numbers.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Union returns the smallest rectangle covering both r and o. An empty
// operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
