// Package js runs a page's inline scripts in a goja runtime. Scripts see
// a read-mostly DOM over the laid-out page, the window's scroll state, and
// a pagemap(canvas, options) function that attaches a minimap to a
// <canvas> element.
package js

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/dop251/goja"

	"pagemap/pkg/page"
	"pagemap/pkg/surface"
)

// Engine executes JavaScript against one page.
type Engine struct {
	vm   *goja.Runtime
	doc  *page.Document
	dom  *domContext
	maps []*mapHandle
}

// New creates a JS engine with a fresh goja runtime bound to doc.
func New(doc *page.Document) *Engine {
	vm := goja.New()
	e := &Engine{vm: vm, doc: doc}

	registerConsole(vm)
	e.dom = registerDocument(vm, doc)
	registerWindow(e.dom, doc.Window())
	vm.Set("pagemap", e.pagemapFn)

	return e
}

// Execute runs all scripts of the document in order. It stops at the first
// script that throws; callers may log the error and carry on with
// whatever the earlier scripts set up.
func (e *Engine) Execute() error {
	for i, script := range e.doc.Source().Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// RunString evaluates one piece of source in the page's runtime.
func (e *Engine) RunString(src string) (goja.Value, error) {
	return e.vm.RunString(src)
}

// Canvas returns the minimap surface a script attached to el, or nil.
// When several maps share a canvas the most recent wins.
func (e *Engine) Canvas(el *page.Element) *surface.Raster {
	for i := len(e.maps) - 1; i >= 0; i-- {
		if h := e.maps[i]; !h.closed && h.raster.Element() == el {
			return h.raster
		}
	}
	return nil
}

// CanvasImage is Canvas as an image source for the page painter.
func (e *Engine) CanvasImage(el *page.Element) image.Image {
	r := e.Canvas(el)
	if r == nil {
		return nil
	}
	return r.Image()
}

// Maps reports how many script-created maps are still open.
func (e *Engine) Maps() int {
	n := 0
	for _, h := range e.maps {
		if !h.closed {
			n++
		}
	}
	return n
}

// Close closes every map and event listener the scripts created.
func (e *Engine) Close() {
	for _, h := range e.maps {
		h.close()
	}
	for _, sub := range e.dom.subs {
		sub.Cancel()
	}
	e.dom.subs = nil
	slog.Debug("script engine closed", "maps", len(e.maps))
}
