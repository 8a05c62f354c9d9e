package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"pagemap/internal/config"
	"pagemap/internal/host"
	"pagemap/pkg/css"
	"pagemap/pkg/geom"
	"pagemap/pkg/layout"
	"pagemap/pkg/page"
	"pagemap/pkg/pagemap"
	"pagemap/pkg/termsurface"
)

// A terminal cell stands for this many page pixels.
const (
	cellW = 8
	cellH = 16
)

// paper shows through the minimap's transparent pixels.
var paper = css.Color{R: 255, G: 255, B: 255, A: 1}

// term shows a page as text on the left of the screen with its minimap in
// the rightmost columns and a status line at the bottom.
type term struct {
	screen  tcell.Screen
	target  string
	cfg     config.Config
	scripts bool
	mapCols int

	session *host.Session
	canvas  *termsurface.Canvas

	pressed    bool
	pressOnMap bool
}

func newTerm(screen tcell.Screen, target string, cfg config.Config, scripts bool, mapCols int) (*term, error) {
	t := &term{
		screen:  screen,
		target:  target,
		cfg:     cfg,
		scripts: scripts,
		mapCols: mapCols,
	}
	if err := t.open(); err != nil {
		return nil, err
	}
	return t, nil
}

// geometry splits the screen into page columns, map columns and content
// rows. The status line takes the last row.
func (t *term) geometry() (pageCols, mapCols, rows int) {
	w, h := t.screen.Size()
	mapCols = min(t.mapCols, w/2)
	return w - mapCols, mapCols, max(h-1, 1)
}

func (t *term) open() error {
	pageCols, mapCols, rows := t.geometry()
	canvas := termsurface.New(t.screen, pageCols, 0, mapCols, rows, paper)
	s, err := host.Open(t.target, host.SessionOptions{
		Width:   float64(pageCols * cellW),
		Height:  float64(rows * cellH),
		Canvas:  canvas,
		Config:  t.cfg,
		Scripts: t.scripts,
	})
	if err != nil {
		return err
	}
	t.session.Close()
	t.session, t.canvas = s, canvas
	return nil
}

func (t *term) reload() {
	if err := t.open(); err != nil {
		slog.Error("reload failed", "target", t.target, "err", err)
		return
	}
	slog.Info("page reloaded", "target", t.target)
}

func (t *term) close() {
	t.session.Close()
	t.session = nil
}

// resize follows a terminal size change. The map is rebuilt on a canvas
// of the new footprint; the document keeps its scroll position.
func (t *term) resize() {
	pageCols, mapCols, rows := t.geometry()
	doc := t.session.Doc
	doc.Window().Resize(float64(pageCols*cellW), float64(rows*cellH))

	opts, err := t.cfg.Options(doc)
	if err != nil {
		slog.Warn("minimap options", "err", err)
		opts = pagemap.Options{}
	}
	t.session.Map.Close()
	t.canvas = termsurface.New(t.screen, pageCols, 0, mapCols, rows, paper)
	t.session.Map = pagemap.New(doc, t.canvas, opts)
}

// handle applies one terminal event. It returns false when the user asked
// to quit.
func (t *term) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.key(ev)
	case *tcell.EventMouse:
		t.mouse(ev)
	case *tcell.EventResize:
		t.screen.Sync()
		t.resize()
	}
	return true
}

func (t *term) key(ev *tcell.EventKey) bool {
	win := t.session.Doc.Window()
	step := win.InnerSize().H - cellH
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		win.ScrollBy(0, -cellH)
	case tcell.KeyDown:
		win.ScrollBy(0, cellH)
	case tcell.KeyLeft:
		win.ScrollBy(-4*cellW, 0)
	case tcell.KeyRight:
		win.ScrollBy(4*cellW, 0)
	case tcell.KeyPgUp:
		win.ScrollBy(0, -step)
	case tcell.KeyPgDn:
		win.ScrollBy(0, step)
	case tcell.KeyHome:
		win.ScrollTo(win.ScrollX(), 0)
	case tcell.KeyEnd:
		win.ScrollTo(win.ScrollX(), win.MaxScroll().Y)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'j':
			win.ScrollBy(0, cellH)
		case 'k':
			win.ScrollBy(0, -cellH)
		case ' ':
			win.ScrollBy(0, step)
		case 'r':
			t.reload()
		}
	}
	return true
}

// mouse turns tcell's button state into page pointer events. A press on
// the minimap goes to its canvas and the rest of the drag goes to the
// window. A press on the page goes to the element under the cell.
func (t *term) mouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()
	win := t.session.Doc.Window()

	switch {
	case btn&tcell.WheelUp != 0:
		win.ScrollBy(0, -3*cellH)
	case btn&tcell.WheelDown != 0:
		win.ScrollBy(0, 3*cellH)
	case btn&tcell.Button1 != 0 && !t.pressed:
		t.pressed = true
		if _, ok := t.canvas.PixelAt(x, y); ok {
			t.pressOnMap = true
			p := t.canvas.PagePoint(x, y)
			t.canvas.Target().Dispatch(&page.Event{Type: "mousedown", PageX: p.X, PageY: p.Y})
			return
		}
		t.pressOnMap = false
		t.pagePointer("mousedown", x, y)
	case btn&tcell.Button1 != 0:
		t.pointer("mousemove", x, y)
	case t.pressed:
		t.pressed = false
		t.pointer("mouseup", x, y)
	}
}

func (t *term) pointer(typ string, x, y int) {
	if !t.pressOnMap {
		t.pagePointer(typ, x, y)
		return
	}
	p := t.canvas.PagePoint(x, y)
	t.session.Doc.Window().Dispatch(&page.Event{Type: typ, PageX: p.X, PageY: p.Y})
}

func (t *term) pagePointer(typ string, x, y int) {
	scroll := t.session.Doc.Window().ScrollPosition()
	t.session.Doc.DispatchPointer(&page.Event{
		Type:  typ,
		PageX: float64(x*cellW) + cellW/2 + scroll.X,
		PageY: float64(y*cellH) + cellH/2 + scroll.Y,
	})
}

// tick drives the page's timers. It reports whether anything may have
// changed on screen.
func (t *term) tick(now time.Time) bool {
	win := t.session.Doc.Window()
	if win.Timers() == 0 {
		return false
	}
	win.Tick(now)
	return true
}

func (t *term) draw() {
	t.screen.Clear()
	pageCols, _, rows := t.geometry()
	t.drawText(pageCols, rows)
	t.canvas.Flush()

	win := t.session.Doc.Window()
	status := fmt.Sprintf(" %s  %.0f/%.0f  scale %.3f  q quit",
		t.target, win.ScrollY(), win.MaxScroll().Y, t.session.Map.Scale())
	w, _ := t.screen.Size()
	t.putString(0, rows, w, status, tcell.StyleDefault.Reverse(true))
	t.screen.Show()
}

// drawText places every visible text run at the cell under its top-left
// corner, one cell per character.
func (t *term) drawText(cols, rows int) {
	doc := t.session.Doc
	var visit func(b *layout.Box)
	visit = func(b *layout.Box) {
		if el := doc.ElementFor(b.Node); el != nil && len(b.Lines) > 0 {
			shift := el.BoundingClientRect().Origin().Sub(b.BorderBox().Origin())
			for _, run := range b.Lines {
				p := geom.Pt(run.X, run.Y).Add(shift)
				cy := int(p.Y / cellH)
				if p.Y < 0 || cy >= rows {
					continue
				}
				style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(run.Color.R), int32(run.Color.G), int32(run.Color.B)))
				t.putString(int(p.X/cellW), cy, cols, run.Text, style)
			}
		}
		for _, c := range b.Children {
			visit(c)
		}
	}
	if root := doc.Layout().Root; root != nil {
		visit(root)
	}
}

// putString writes s from cell (x, y), dropping what falls outside
// [0, limit).
func (t *term) putString(x, y, limit int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= limit {
			return
		}
		if x >= 0 {
			t.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
