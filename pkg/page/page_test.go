package page

import (
	"testing"
	"time"

	"pagemap/pkg/geom"
	"pagemap/pkg/html"
)

const scrollerPage = `<html><body style="margin:0">
<div style="height:100px"></div>
<div id="s" style="height:200px; width:300px; overflow:auto; border: 4px solid black"><div id="inner" style="height:1000px"></div></div>
<div id="after" style="height:2000px; width:1500px"></div>
<div id="f" style="position:fixed; top:10px; left:20px; width:50px; height:50px"></div>
</body></html>`

func newDoc(t *testing.T, src string, w, h float64) *Document {
	t.Helper()
	parsed, err := html.ParseString(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(parsed, w, h)
}

func mustElement(t *testing.T, doc *Document, id string) *Element {
	t.Helper()
	el := doc.GetElementByID(id)
	if el == nil {
		t.Fatalf("no element #%s", id)
	}
	return el
}

func TestWindow_ScrollToClampsAndNotifies(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	win := doc.Window()

	scrolls := 0
	win.AddEventListener("scroll", func(*Event) { scrolls++ })

	win.ScrollTo(100, 200)
	if win.ScrollPosition() != geom.Pt(100, 200) {
		t.Errorf("expected (100,200), got %v", win.ScrollPosition())
	}
	win.ScrollTo(100, 200)
	if scrolls != 1 {
		t.Errorf("scrolling to the current position should not notify, got %d events", scrolls)
	}

	// document is 1500 x 2308, viewport 800 x 600
	win.ScrollTo(1e6, 1e6)
	if got := win.ScrollPosition(); got != geom.Pt(700, 1708) {
		t.Errorf("expected clamp to (700,1708), got %v", got)
	}
	win.ScrollTo(-5, -5)
	if got := win.ScrollPosition(); got != geom.Pt(0, 0) {
		t.Errorf("expected clamp to origin, got %v", got)
	}
	if scrolls != 3 {
		t.Errorf("expected 3 scroll events, got %d", scrolls)
	}
}

func TestDocumentElement_Metrics(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	root := doc.DocumentElement()
	if root == nil || root.TagName() != "html" {
		t.Fatalf("expected html element, got %v", root)
	}
	if root.ClientWidth() != 800 || root.ClientHeight() != 600 {
		t.Errorf("client size should be the viewport, got %vx%v", root.ClientWidth(), root.ClientHeight())
	}
	if root.ScrollWidth() != 1500 || root.ScrollHeight() != 2308 {
		t.Errorf("unexpected scroll size %vx%v", root.ScrollWidth(), root.ScrollHeight())
	}
	root.SetScrollTop(250)
	if doc.Window().ScrollY() != 250 || root.ScrollTop() != 250 {
		t.Errorf("document element scroll should mirror the window, got %v", doc.Window().ScrollY())
	}
}

func TestElement_ScrollContainerGeometry(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	s := mustElement(t, doc, "s")
	inner := mustElement(t, doc, "inner")

	if s.OffsetWidth() != 308 || s.OffsetHeight() != 208 {
		t.Errorf("unexpected offset size %vx%v", s.OffsetWidth(), s.OffsetHeight())
	}
	if s.ClientLeft() != 4 || s.ClientTop() != 4 {
		t.Errorf("client left/top should be the border, got %v,%v", s.ClientLeft(), s.ClientTop())
	}
	if s.ClientWidth() != 300 || s.ClientHeight() != 200 {
		t.Errorf("unexpected client size %vx%v", s.ClientWidth(), s.ClientHeight())
	}
	if s.ScrollWidth() != 300 || s.ScrollHeight() != 1000 {
		t.Errorf("unexpected scroll size %vx%v", s.ScrollWidth(), s.ScrollHeight())
	}

	doc.Window().ScrollTo(0, 50)
	if got := s.BoundingClientRect(); got != geom.R(0, 50, 308, 208) {
		t.Errorf("unexpected client rect %v", got)
	}
	if got := s.PageOffset(); got != geom.Pt(0, 100) {
		t.Errorf("page offset should not depend on window scroll, got %v", got)
	}

	scrolls := 0
	s.Target().AddEventListener("scroll", func(*Event) { scrolls++ })
	s.SetScrollTop(5000)
	if s.ScrollTop() != 800 {
		t.Errorf("expected clamp to 800, got %v", s.ScrollTop())
	}
	s.SetScrollLeft(10)
	if s.ScrollLeft() != 0 {
		t.Errorf("no horizontal overflow, expected 0, got %v", s.ScrollLeft())
	}
	if scrolls != 1 {
		t.Errorf("expected one scroll event, got %d", scrolls)
	}
	if doc.Window().ScrollY() != 50 {
		t.Errorf("element scroll must not move the window, got %v", doc.Window().ScrollY())
	}

	if got := inner.PageOffset(); got != geom.Pt(4, -696) {
		t.Errorf("inner content should move with the scroll, got %v", got)
	}
	if got := inner.PageRect(); got != geom.R(4, -696, 300, 1000) {
		t.Errorf("unexpected page rect %v", got)
	}
}

func TestElement_NotScrollable(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	after := mustElement(t, doc, "after")
	after.SetScrollTop(100)
	if after.ScrollTop() != 0 || after.Scrollable() {
		t.Errorf("overflow: visible element should not scroll, got %v", after.ScrollTop())
	}
}

func TestElement_FixedFollowsViewport(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	f := mustElement(t, doc, "f")
	doc.Window().ScrollTo(0, 300)
	if got := f.BoundingClientRect(); got != geom.R(20, 10, 50, 50) {
		t.Errorf("fixed element should stay put in the viewport, got %v", got)
	}
	if got := f.PageOffset(); got != geom.Pt(20, 310) {
		t.Errorf("expected page offset (20,310), got %v", got)
	}
}

func TestElement_Identity(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	if doc.GetElementByID("s") != doc.QuerySelector("#s") {
		t.Error("the same node should always yield the same element")
	}
	if mustElement(t, doc, "inner").Parent() != mustElement(t, doc, "s") {
		t.Error("unexpected parent")
	}
}

func TestElement_GetAttribute(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	el := mustElement(t, doc, "s")
	if got := el.GetAttribute("id"); got != "s" {
		t.Errorf("expected id s, got %q", got)
	}
	if got := el.GetAttribute("title"); got != "" {
		t.Errorf("a missing attribute should read as empty, got %q", got)
	}
}

func TestElement_QueryScope(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	s := mustElement(t, doc, "s")
	got := s.QuerySelectorAll("div")
	if len(got) != 1 || got[0].ID() != "inner" {
		t.Errorf("expected only #inner inside #s, got %d elements", len(got))
	}
	if all := doc.QuerySelectorAll("div"); len(all) != 5 {
		t.Errorf("expected 5 divs in the document, got %d", len(all))
	}
	if !s.Matches("div, p") || s.Matches("p") {
		t.Error("unexpected Matches result")
	}
	if got := doc.QuerySelectorAll("div >"); len(got) != 0 {
		t.Error("invalid selector should match nothing")
	}
}

func TestElement_BackgroundColor(t *testing.T) {
	doc := newDoc(t, `<body><p id="a" style="background-color: #ff0000">x</p><p id="b">y</p></body>`, 800, 600)
	if c := mustElement(t, doc, "a").BackgroundColor(); c.R != 255 || c.A != 1 {
		t.Errorf("expected opaque red, got %v", c)
	}
	if c := mustElement(t, doc, "b").BackgroundColor(); !c.IsTransparent() {
		t.Errorf("expected transparent, got %v", c)
	}
}

func TestDocument_ElementAtClipsScrolledContent(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	if got := doc.ElementAt(geom.Pt(10, 150)); got == nil || got.ID() != "inner" {
		t.Errorf("expected #inner, got %v", got)
	}
	if got := doc.ElementAt(geom.Pt(10, 400)); got == nil || got.ID() != "after" {
		t.Errorf("content below the scroller's clip should not be hit, got %v", got)
	}
	if got := doc.ElementAt(geom.Pt(30, 20)); got == nil || got.ID() != "f" {
		t.Errorf("fixed element should be on top, got %v", got)
	}
}

func TestDocument_DispatchPointerBubbles(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	s := mustElement(t, doc, "s")
	inner := mustElement(t, doc, "inner")

	var order []string
	s.Target().AddEventListener("mousedown", func(ev *Event) {
		order = append(order, "s")
		if ev.Target != inner.Target() {
			t.Errorf("target should be the innermost element")
		}
	})
	doc.Window().AddEventListener("mousedown", func(*Event) { order = append(order, "window") })

	doc.DispatchPointer(&Event{Type: "mousedown", PageX: 10, PageY: 150})
	if len(order) != 2 || order[0] != "s" || order[1] != "window" {
		t.Errorf("unexpected propagation %v", order)
	}

	order = nil
	s.Target().AddEventListener("mouseup", func(ev *Event) { ev.StopPropagation() })
	doc.Window().AddEventListener("mouseup", func(*Event) { order = append(order, "window") })
	doc.DispatchPointer(&Event{Type: "mouseup", PageX: 10, PageY: 150})
	if len(order) != 0 {
		t.Errorf("stopped event reached %v", order)
	}
}

func TestSubscription_Cancel(t *testing.T) {
	target := NewTarget("t")
	calls := 0
	sub := target.AddEventListener("load  resize scroll", func(*Event) { calls++ })
	for _, typ := range []string{"load", "resize", "scroll"} {
		if target.ListenerCount(typ) != 1 {
			t.Errorf("expected one %s listener", typ)
		}
	}
	target.Dispatch(&Event{Type: "resize"})
	sub.Cancel()
	sub.Cancel()
	if sub.Active() {
		t.Error("cancelled subscription reports active")
	}
	target.Dispatch(&Event{Type: "resize"})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	for _, typ := range []string{"load", "resize", "scroll"} {
		if target.ListenerCount(typ) != 0 {
			t.Errorf("dangling %s listener", typ)
		}
	}
}

func TestTarget_RemoveDuringDispatch(t *testing.T) {
	target := NewTarget("t")
	var second *Subscription
	secondCalls := 0
	target.AddEventListener("x", func(*Event) { second.Cancel() })
	second = target.AddEventListener("x", func(*Event) { secondCalls++ })
	target.Dispatch(&Event{Type: "x"})
	if secondCalls != 0 {
		t.Error("listener removed earlier in the same dispatch should not run")
	}
	if target.ListenerCount("x") != 1 {
		t.Errorf("expected 1 listener left, got %d", target.ListenerCount("x"))
	}
}

func TestWindow_Timers(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	win := doc.Window()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	win.SetClock(func() time.Time { return t0 })

	fired := 0
	timer := win.SetInterval(100*time.Millisecond, func() { fired++ })
	for _, step := range []time.Duration{50, 100, 150, 200} {
		win.Tick(t0.Add(step * time.Millisecond))
	}
	if fired != 2 {
		t.Errorf("expected 2 firings, got %d", fired)
	}

	timer.Stop()
	timer.Stop()
	if win.Timers() != 0 {
		t.Errorf("expected no running timers, got %d", win.Timers())
	}
	win.Tick(t0.Add(time.Hour))
	if fired != 2 {
		t.Errorf("stopped timer fired")
	}

	win.SetInterval(0, func() { fired++ })
	if win.Timers() != 0 {
		t.Error("zero interval should not schedule a timer")
	}
}

func TestWindow_ResizeRelayouts(t *testing.T) {
	doc := newDoc(t, `<body style="margin:0"><div id="pct" style="width:50%; height:3000px"></div></body>`, 800, 600)
	win := doc.Window()
	pct := mustElement(t, doc, "pct")
	if pct.ClientWidth() != 400 {
		t.Fatalf("expected 400, got %v", pct.ClientWidth())
	}

	var events []string
	win.AddEventListener("resize scroll", func(ev *Event) { events = append(events, "window "+ev.Type) })
	pct.Target().AddEventListener("resize", func(*Event) { events = append(events, "pct resize") })

	win.ScrollTo(0, 2400)
	events = nil
	win.Resize(1000, 1000)

	if pct.ClientWidth() != 500 {
		t.Errorf("expected 500 after resize, got %v", pct.ClientWidth())
	}
	if win.ScrollY() != 2000 {
		t.Errorf("scroll should be clamped to the new range, got %v", win.ScrollY())
	}
	want := []string{"window scroll", "pct resize", "window resize"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %q, got %q", i, want[i], events[i])
		}
	}
}

func TestDocument_LoadOnce(t *testing.T) {
	doc := newDoc(t, scrollerPage, 800, 600)
	loads := 0
	doc.Window().AddEventListener("load", func(*Event) { loads++ })
	doc.Load()
	doc.Load()
	if loads != 1 || !doc.Loaded() {
		t.Errorf("expected one load event, got %d", loads)
	}
}
