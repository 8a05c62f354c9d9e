package pagemap

import (
	"testing"

	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/html"
	"pagemap/pkg/page"
)

// drawOp is one recorded drawing call, in the coordinates it was issued.
type drawOp struct {
	Op    string
	Rect  geom.Rect
	Width float64
	Color css.Color
}

// recorder is a Canvas that records the calls of the last frame.
type recorder struct {
	footprint geom.Size
	origin    geom.Point
	target    *page.Target

	width, height int
	scale         float64
	frames        int
	ops           []drawOp
}

func newRecorder(w, h float64) *recorder {
	return &recorder{footprint: geom.Size{W: w, H: h}, target: page.NewTarget("canvas")}
}

func (r *recorder) Footprint() geom.Size { return r.footprint }
func (r *recorder) Origin() geom.Point { return r.origin }
func (r *recorder) Resize(w, h int) { r.width, r.height = w, h }
func (r *recorder) Context() Context { return r }
func (r *recorder) Target() *page.Target { return r.target }
func (r *recorder) Scale(sx, sy float64) { r.scale = sx }

// ResetTransform starts a new frame.
func (r *recorder) ResetTransform() {
	r.frames++
	r.scale = 1
	r.ops = nil
}

func (r *recorder) ClearRect(x, y, w, h float64) {
	r.ops = append(r.ops, drawOp{Op: "clear", Rect: geom.R(x, y, w, h)})
}

func (r *recorder) FillRect(x, y, w, h float64, c css.Color) {
	r.ops = append(r.ops, drawOp{Op: "fill", Rect: geom.R(x, y, w, h), Color: c})
}

func (r *recorder) StrokeRect(x, y, w, h, lineWidth float64, c css.Color) {
	r.ops = append(r.ops, drawOp{Op: "stroke", Rect: geom.R(x, y, w, h), Width: lineWidth, Color: c})
}

func (r *recorder) fills() []drawOp {
	var out []drawOp
	for _, op := range r.ops {
		if op.Op == "fill" {
			out = append(out, op)
		}
	}
	return out
}

func loadPage(t *testing.T, src string, w, h float64) *page.Document {
	t.Helper()
	parsed, err := html.ParseString(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return page.New(parsed, w, h)
}

func black(pct float64) css.Color {
	return css.Color{A: pct / 100}
}
