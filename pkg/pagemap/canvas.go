package pagemap

import (
	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/page"
)

// Canvas is the drawing surface a Map paints into.
type Canvas interface {
	// Footprint is the display size available to the map. It is read once,
	// when the map is created.
	Footprint() geom.Size

	// Origin is the page position of the surface's top-left pixel. Pointer
	// events are converted to surface space through it.
	Origin() geom.Point

	// Resize sets the pixel size of the backing buffer and the displayed
	// size to w x h.
	Resize(w, h int)

	Context() Context

	// Target receives mousedown events for the surface.
	Target() *page.Target
}

// Context is the subset of a 2D drawing context the map uses. Coordinates
// pass through the current transform.
type Context interface {
	ResetTransform()
	Scale(sx, sy float64)
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64, c css.Color)

	// StrokeRect strokes the path of the rectangle with a line of the
	// given width centred on it.
	StrokeRect(x, y, w, h, lineWidth float64, c css.Color)
}
