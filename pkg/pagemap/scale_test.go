package pagemap

import (
	"math"
	"testing"

	"pagemap/pkg/geom"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		name          string
		avail         geom.Size
		content       geom.Rect
		scale         float64
		width, height int
	}{
		{"tall document", geom.Size{W: 200, H: 200}, geom.R(0, 0, 2000, 4000), 0.05, 100, 200},
		{"wide content", geom.Size{W: 500, H: 500}, geom.R(0, 0, 1000, 10), 0.5, 500, 5},
		{"upscale", geom.Size{W: 400, H: 300}, geom.R(50, 50, 200, 100), 2, 400, 200},
		{"zero width", geom.Size{W: 200, H: 200}, geom.R(0, 0, 0, 100), 1, 0, 100},
		{"zero height", geom.Size{W: 200, H: 200}, geom.R(0, 0, 100, 0), 1, 100, 0},
		{"no footprint", geom.Size{}, geom.R(0, 0, 100, 100), 0, 0, 0},
		{"no footprint height", geom.Size{W: 200}, geom.R(0, 0, 2000, 4000), 0, 0, 0},
		{"NaN footprint", geom.Size{W: math.NaN(), H: 10}, geom.R(0, 0, 100, 100), 1, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fitScale(tt.avail, tt.content)
			if s != tt.scale {
				t.Errorf("expected scale %v, got %v", tt.scale, s)
			}
			w, h := surfaceSize(tt.content, s)
			if w != tt.width || h != tt.height {
				t.Errorf("expected %dx%d, got %dx%d", tt.width, tt.height, w, h)
			}
		})
	}
}

func TestSurfaceSize_Rounds(t *testing.T) {
	w, h := surfaceSize(geom.R(0, 0, 333, 777), 1.0/3)
	if w != 111 || h != 259 {
		t.Errorf("expected 111x259, got %dx%d", w, h)
	}
	w, h = surfaceSize(geom.R(0, 0, 101, 3), 0.5)
	if w != 51 || h != 2 {
		t.Errorf("halves should round away from zero, got %dx%d", w, h)
	}
}
