package pagemap

import (
	"math"

	"pagemap/pkg/geom"
)

// fitScale returns the uniform factor that fits content into avail. It
// falls back to 1 when the content has no area or the result is not
// finite. A footprint with no area gives 0.
func fitScale(avail geom.Size, content geom.Rect) float64 {
	if content.W <= 0 || content.H <= 0 {
		return 1
	}
	s := math.Min(avail.W/content.W, avail.H/content.H)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return math.Max(s, 0)
}

// surfaceSize returns the pixel size of content drawn at scale s.
func surfaceSize(content geom.Rect, s float64) (int, int) {
	return roundPixels(content.W * s), roundPixels(content.H * s)
}

func roundPixels(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(v))
}
