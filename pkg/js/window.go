package js

import (
	"github.com/dop251/goja"

	"pagemap/pkg/page"
)

// windowAccessor exposes the live scroll and viewport state of a window.
type windowAccessor struct {
	ctx *domContext
	w   *page.Window
}

var windowKeys = []string{
	"scrollX", "scrollY", "pageXOffset", "pageYOffset", "innerWidth", "innerHeight",
	"scrollTo", "scrollBy", "addEventListener", "document",
}

func registerWindow(ctx *domContext, w *page.Window) {
	ctx.window = ctx.vm.NewDynamicObject(&windowAccessor{ctx: ctx, w: w})
	ctx.vm.Set("window", ctx.window)
}

func (a *windowAccessor) Get(key string) goja.Value {
	vm := a.ctx.vm
	switch key {
	case "scrollX", "pageXOffset":
		return vm.ToValue(a.w.ScrollX())
	case "scrollY", "pageYOffset":
		return vm.ToValue(a.w.ScrollY())
	case "innerWidth":
		return vm.ToValue(a.w.InnerSize().W)
	case "innerHeight":
		return vm.ToValue(a.w.InnerSize().H)
	case "scrollTo":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			x, y := scrollArgs(call, a.w.ScrollX(), a.w.ScrollY())
			a.w.ScrollTo(x, y)
			return goja.Undefined()
		})
	case "scrollBy":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			dx, dy := scrollArgs(call, 0, 0)
			a.w.ScrollBy(dx, dy)
			return goja.Undefined()
		})
	case "addEventListener":
		return vm.ToValue(a.ctx.addEventListenerFn(&a.w.Target))
	case "document":
		return vm.Get("document")
	}
	return goja.Undefined()
}

// Set ignores writes; window properties are read-only here.
func (a *windowAccessor) Set(key string, val goja.Value) bool {
	return false
}

func (a *windowAccessor) Has(key string) bool {
	for _, k := range windowKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (a *windowAccessor) Delete(key string) bool {
	return false
}

func (a *windowAccessor) Keys() []string {
	return windowKeys
}
