package page

import (
	"log/slog"
	"math"
	"time"

	"pagemap/pkg/geom"
)

// Window is the browsing context of a Document: the viewport size, the
// document scroll position and the timers. It dispatches load, resize and
// scroll events and receives bubbled pointer events.
type Window struct {
	Target

	doc     *Document
	width   float64
	height  float64
	scrollX float64
	scrollY float64

	timers []*Timer
	now    func() time.Time
}

func newWindow(doc *Document, width, height float64) *Window {
	return &Window{
		Target: Target{name: "window"},
		doc:    doc,
		width:  width,
		height: height,
		now:    time.Now,
	}
}

func (w *Window) ScrollX() float64 { return w.scrollX }
func (w *Window) ScrollY() float64 { return w.scrollY }

// ScrollPosition returns the document scroll offset.
func (w *Window) ScrollPosition() geom.Point {
	return geom.Pt(w.scrollX, w.scrollY)
}

// InnerSize returns the viewport size.
func (w *Window) InnerSize() geom.Size {
	return geom.Size{W: w.width, H: w.height}
}

// MaxScroll returns the largest valid scroll offset on each axis.
func (w *Window) MaxScroll() geom.Point {
	doc := w.doc.tree.DocumentSize
	return geom.Pt(math.Max(0, doc.W-w.width), math.Max(0, doc.H-w.height))
}

// ScrollTo scrolls the document, clamping to the scrollable range. A scroll
// event is dispatched when the position changes.
func (w *Window) ScrollTo(x, y float64) {
	limit := w.MaxScroll()
	x = clampScroll(x, limit.X)
	y = clampScroll(y, limit.Y)
	if x == w.scrollX && y == w.scrollY {
		return
	}
	w.scrollX, w.scrollY = x, y
	w.Dispatch(&Event{Type: "scroll"})
}

// ScrollBy scrolls relative to the current position.
func (w *Window) ScrollBy(dx, dy float64) {
	w.ScrollTo(w.scrollX+dx, w.scrollY+dy)
}

// Resize changes the viewport size, lays the document out again and
// dispatches resize.
func (w *Window) Resize(width, height float64) {
	if width == w.width && height == w.height {
		return
	}
	w.width, w.height = width, height
	w.doc.Relayout()
	w.Dispatch(&Event{Type: "resize"})
}

// SetClock replaces the clock used to arm timers.
func (w *Window) SetClock(now func() time.Time) {
	w.now = now
}

// SetInterval calls fn every d, measured by Tick. A non-positive d returns
// a timer that never fires.
func (w *Window) SetInterval(d time.Duration, fn func()) *Timer {
	t := &Timer{window: w, interval: d, fn: fn}
	if d <= 0 {
		t.stopped = true
		return t
	}
	t.next = w.now().Add(d)
	w.timers = append(w.timers, t)
	return t
}

// Tick runs every timer that is due at now. A timer fires at most once per
// Tick and is re-armed relative to now.
func (w *Window) Tick(now time.Time) {
	for _, t := range append([]*Timer(nil), w.timers...) {
		if t.stopped || now.Before(t.next) {
			continue
		}
		t.next = now.Add(t.interval)
		t.fn()
	}
}

// Timers returns the number of running timers.
func (w *Window) Timers() int {
	return len(w.timers)
}

func (w *Window) removeTimer(t *Timer) {
	for i, cur := range w.timers {
		if cur == t {
			w.timers = append(w.timers[:i:i], w.timers[i+1:]...)
			return
		}
	}
}

// Timer is a repeating timer created by SetInterval.
type Timer struct {
	window   *Window
	interval time.Duration
	next     time.Time
	fn       func()
	stopped  bool
}

// Stop cancels the timer. Calling it again does nothing.
func (t *Timer) Stop() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	t.window.removeTimer(t)
	slog.Debug("timer stopped", "interval", t.interval)
}

func clampScroll(v, limit float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
