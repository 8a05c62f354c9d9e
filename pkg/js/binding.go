package js

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dop251/goja"

	"pagemap/pkg/pagemap"
	"pagemap/pkg/surface"
)

// mapHandle is one map created by a script.
type mapHandle struct {
	m      *pagemap.Map
	raster *surface.Raster
	closed bool
}

func (h *mapHandle) close() {
	if h.closed {
		return
	}
	h.closed = true
	h.m.Close()
}

// pagemapFn implements pagemap(canvas, options). It returns an object with
// redraw() and close().
func (e *Engine) pagemapFn(call goja.FunctionCall) goja.Value {
	vm := e.vm
	el := e.dom.unwrapElement(call.Argument(0))
	if el == nil || el.TagName() != "canvas" {
		panic(vm.NewTypeError("pagemap: first argument must be a <canvas> element"))
	}
	opts, err := e.parseOptions(call.Argument(1))
	if err != nil {
		panic(vm.NewTypeError("pagemap: %v", err))
	}

	raster := surface.ForElement(el)
	h := &mapHandle{m: pagemap.New(e.doc, raster, opts), raster: raster}
	e.maps = append(e.maps, h)
	slog.Debug("script created pagemap", "canvas", el.Target(), "maps", len(e.maps))

	obj := vm.NewObject()
	obj.Set("redraw", func(goja.FunctionCall) goja.Value {
		h.m.Redraw()
		return goja.Undefined()
	})
	obj.Set("close", func(goja.FunctionCall) goja.Value {
		h.close()
		return goja.Undefined()
	})
	return obj
}

// parseOptions reads the options object. Keys left out keep their
// defaults; null or false turns a paint off.
func (e *Engine) parseOptions(val goja.Value) (pagemap.Options, error) {
	var opts pagemap.Options
	if isMissing(val) {
		return opts, nil
	}
	obj := val.ToObject(e.vm)

	if v := obj.Get("viewport"); !isMissing(v) && !goja.IsNull(v) {
		el := e.dom.unwrapElement(v)
		if el == nil {
			return opts, fmt.Errorf("viewport is not an element")
		}
		opts.Viewport = el
	}

	if v := obj.Get("styles"); !isMissing(v) {
		opts.Styles = []pagemap.StyleRule{}
		if !goja.IsNull(v) {
			styles := v.ToObject(e.vm)
			for _, sel := range styles.Keys() {
				p, err := jsPaint(styles.Get(sel))
				if err != nil {
					return opts, fmt.Errorf("styles[%q]: %w", sel, err)
				}
				opts.Styles = append(opts.Styles, pagemap.StyleRule{Selector: sel, Paint: p})
			}
		}
	}

	for _, f := range []struct {
		key string
		dst *pagemap.Paint
	}{
		{"back", &opts.Back},
		{"view", &opts.View},
		{"drag", &opts.Drag},
		{"outline", &opts.Outline},
	} {
		v := obj.Get(f.key)
		if isMissing(v) {
			continue
		}
		p, err := jsPaint(v)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = p
	}

	if v := obj.Get("outlineWidth"); !isMissing(v) {
		opts.SetOutlineWidth(v.ToFloat())
	}
	if v := obj.Get("interval"); !isMissing(v) {
		if ms := v.ToFloat(); ms > 0 {
			opts.Interval = time.Duration(ms * float64(time.Millisecond))
		}
	}
	return opts, nil
}

// jsPaint converts a script value into a paint. Falsy values disable the
// rectangle.
func jsPaint(v goja.Value) (pagemap.Paint, error) {
	if !v.ToBoolean() {
		return pagemap.None, nil
	}
	return pagemap.ParsePaint(v.String())
}

func isMissing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v)
}
