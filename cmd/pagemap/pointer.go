package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// pointerArea shows an image and forwards mouse, drag and wheel input as
// positions relative to its top-left corner. Unset callbacks ignore the
// event.
type pointerArea struct {
	widget.BaseWidget
	img *canvas.Image

	down    func(p fyne.Position, button int)
	move    func(p fyne.Position)
	up      func(p fyne.Position, button int)
	scroll  func(dx, dy float32)
	resized func(s fyne.Size)
}

func newPointerArea(img *canvas.Image) *pointerArea {
	a := &pointerArea{img: img}
	a.ExtendBaseWidget(a)
	return a
}

func (a *pointerArea) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(a.img)
}

func (a *pointerArea) Resize(s fyne.Size) {
	a.BaseWidget.Resize(s)
	if a.resized != nil {
		a.resized(s)
	}
}

func (a *pointerArea) MouseDown(ev *desktop.MouseEvent) {
	if a.down != nil {
		a.down(ev.Position, buttonIndex(ev.Button))
	}
}

func (a *pointerArea) MouseUp(ev *desktop.MouseEvent) {
	if a.up != nil {
		a.up(ev.Position, buttonIndex(ev.Button))
	}
}

func (a *pointerArea) MouseIn(*desktop.MouseEvent) {}

func (a *pointerArea) MouseMoved(ev *desktop.MouseEvent) {
	if a.move != nil {
		a.move(ev.Position)
	}
}

func (a *pointerArea) MouseOut() {}

// Dragged reports moves while a button is held; fyne sends those here
// instead of MouseMoved.
func (a *pointerArea) Dragged(ev *fyne.DragEvent) {
	if a.move != nil {
		a.move(ev.Position)
	}
}

// DragEnd is ignored; the release arrives through MouseUp.
func (a *pointerArea) DragEnd() {}

func (a *pointerArea) Scrolled(ev *fyne.ScrollEvent) {
	if a.scroll != nil {
		a.scroll(ev.Scrolled.DX, ev.Scrolled.DY)
	}
}

// buttonIndex maps fyne buttons to DOM MouseEvent.button numbers.
func buttonIndex(b desktop.MouseButton) int {
	switch b {
	case desktop.MouseButtonSecondary:
		return 2
	case desktop.MouseButtonTertiary:
		return 1
	}
	return 0
}

var (
	_ desktop.Mouseable = (*pointerArea)(nil)
	_ desktop.Hoverable = (*pointerArea)(nil)
	_ fyne.Draggable    = (*pointerArea)(nil)
	_ fyne.Scrollable   = (*pointerArea)(nil)
)
