package main

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"pagemap/internal/config"
	"pagemap/internal/host"
	"pagemap/pkg/geom"
	"pagemap/pkg/page"
	"pagemap/pkg/render"
	"pagemap/pkg/surface"
)

// browser shows one page and its minimap side by side. All methods run
// on the fyne goroutine.
type browser struct {
	target  string
	cfg     config.Config
	scripts bool
	view    geom.Size // page viewport
	mapSize geom.Size // minimap footprint

	session *host.Session
	raster  *surface.Raster
	pageImg *image.RGBA
	painter *render.Renderer

	page    *pointerArea
	minimap *pointerArea
	status  *widget.Label
}

func newBrowser(target string, cfg config.Config, scripts bool, view, mapSize geom.Size) *browser {
	b := &browser{
		target:  target,
		cfg:     cfg,
		scripts: scripts,
		view:    view,
		mapSize: mapSize,
		status:  widget.NewLabel(""),
	}

	pageImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	pageImg.FillMode = canvas.ImageFillStretch
	pageImg.ScaleMode = canvas.ImageScalePixels
	b.page = newPointerArea(pageImg)
	b.page.down = func(p fyne.Position, button int) { b.pagePointer("mousedown", p, button) }
	b.page.move = func(p fyne.Position) { b.pagePointer("mousemove", p, 0) }
	b.page.up = func(p fyne.Position, button int) { b.pagePointer("mouseup", p, button) }
	b.page.scroll = b.wheel
	b.page.resized = b.resizePage

	mapImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	mapImg.FillMode = canvas.ImageFillOriginal
	mapImg.ScaleMode = canvas.ImageScalePixels
	b.minimap = newPointerArea(mapImg)
	b.minimap.down = b.mapDown
	b.minimap.move = func(p fyne.Position) { b.mapWindowEvent("mousemove", p, 0) }
	b.minimap.up = func(p fyne.Position, button int) { b.mapWindowEvent("mouseup", p, button) }
	return b
}

// content lays the page out with the minimap on its right and a status
// line below.
func (b *browser) content() fyne.CanvasObject {
	side := container.NewVBox(b.minimap)
	return container.NewBorder(nil, b.status, nil, side, b.page)
}

// open loads the page into a new session. The previous session is only
// replaced once the new one opened, so a broken edit keeps the old page
// on screen.
func (b *browser) open() error {
	raster := surface.NewRaster(int(b.mapSize.W), int(b.mapSize.H))
	s, err := host.Open(b.target, host.SessionOptions{
		Width:   b.view.W,
		Height:  b.view.H,
		Canvas:  raster,
		Config:  b.cfg,
		Scripts: b.scripts,
	})
	if err != nil {
		return err
	}
	b.session.Close()
	b.session, b.raster = s, raster
	b.repaint()
	return nil
}

func (b *browser) reload() {
	if err := b.open(); err != nil {
		slog.Error("reload failed", "target", b.target, "err", err)
		b.status.SetText(fmt.Sprintf("reload failed: %v", err))
		return
	}
	slog.Info("page reloaded", "target", b.target)
}

func (b *browser) close() {
	b.session.Close()
	b.session = nil
}

// repaint paints the page at its current scroll position and shows the
// minimap's latest frame.
func (b *browser) repaint() {
	if b.session == nil {
		return
	}
	doc := b.session.Doc
	w, h := int(math.Round(b.view.W)), int(math.Round(b.view.H))
	if b.pageImg == nil || b.pageImg.Bounds().Dx() != w || b.pageImg.Bounds().Dy() != h {
		b.pageImg = image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
		b.painter = render.NewRendererForImage(b.pageImg)
	}
	if b.session.Scripts != nil {
		b.painter.SetCanvasSource(b.session.Scripts.CanvasImage)
	} else {
		b.painter.SetCanvasSource(nil)
	}
	b.painter.Render(doc)
	b.page.img.Image = b.pageImg
	b.page.img.Refresh()

	b.minimap.img.Image = b.raster.Image()
	b.minimap.img.Refresh()

	win := doc.Window()
	b.status.SetText(fmt.Sprintf("%s  scroll %.0f,%.0f  scale %.3f",
		b.target, win.ScrollX(), win.ScrollY(), b.session.Map.Scale()))
}

func (b *browser) resizePage(s fyne.Size) {
	size := geom.Size{W: float64(s.Width), H: float64(s.Height)}
	if size.Empty() || size == b.view {
		return
	}
	b.view = size
	if b.session != nil {
		b.session.Doc.Window().Resize(size.W, size.H)
		b.repaint()
	}
}

func (b *browser) wheel(dx, dy float32) {
	if b.session == nil {
		return
	}
	b.session.Doc.Window().ScrollBy(-float64(dx), -float64(dy))
	b.repaint()
}

// pagePointer delivers a pointer event to whatever page element is under
// p, so minimaps created by the page's own scripts can be dragged.
func (b *browser) pagePointer(typ string, p fyne.Position, button int) {
	if b.session == nil {
		return
	}
	scroll := b.session.Doc.Window().ScrollPosition()
	b.session.Doc.DispatchPointer(&page.Event{
		Type:   typ,
		PageX:  float64(p.X) + scroll.X,
		PageY:  float64(p.Y) + scroll.Y,
		Button: button,
	})
	if typ != "mousemove" || b.dragging() {
		b.repaint()
	}
}

// mapDown starts a drag on the host minimap. Its raster sits at the page
// origin, so surface positions are page positions.
func (b *browser) mapDown(p fyne.Position, button int) {
	if b.session == nil {
		return
	}
	b.raster.Target().Dispatch(&page.Event{Type: "mousedown", PageX: float64(p.X), PageY: float64(p.Y), Button: button})
	b.repaint()
}

// mapWindowEvent forwards moves and releases over the minimap to the
// window, where a drag in progress listens.
func (b *browser) mapWindowEvent(typ string, p fyne.Position, button int) {
	if b.session == nil || !b.dragging() {
		return
	}
	b.session.Doc.Window().Dispatch(&page.Event{Type: typ, PageX: float64(p.X), PageY: float64(p.Y), Button: button})
	b.repaint()
}

func (b *browser) dragging() bool {
	return b.session != nil && b.session.Doc.Window().ListenerCount("mouseup") > 0
}

// tick drives the page's timers and repaints when any are registered.
func (b *browser) tick(now time.Time) {
	if b.session == nil {
		return
	}
	win := b.session.Doc.Window()
	if win.Timers() == 0 {
		return
	}
	win.Tick(now)
	b.repaint()
}
