package js

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"pagemap/pkg/geom"
	"pagemap/pkg/html"
	"pagemap/pkg/page"
)

// domContext holds shared state for DOM bindings within one runtime.
// It maintains an element-to-proxy cache so the same JS object is
// returned for the same element (needed for === identity checks).
type domContext struct {
	vm     *goja.Runtime
	doc    *page.Document
	cache  map[*page.Element]goja.Value
	window goja.Value
	subs   []*page.Subscription
}

func newDOMContext(vm *goja.Runtime, doc *page.Document) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		cache: make(map[*page.Element]goja.Value),
	}
}

// registerDocument sets up the global `document` object on the goja runtime.
func registerDocument(vm *goja.Runtime, doc *page.Document) *domContext {
	ctx := newDOMContext(vm, doc)

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		return ctx.elementProxy(doc.GetElementByID(call.Arguments[0].String()))
	})
	registerQuerySelectors(ctx, docObj, doc.QuerySelector, doc.QuerySelectorAll)
	docObj.Set("documentElement", ctx.elementProxy(doc.DocumentElement()))
	docObj.Set("body", ctx.elementProxy(doc.Body()))

	vm.Set("document", docObj)
	return ctx
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(els []*page.Element) goja.Value {
	vals := make([]interface{}, len(els))
	for i, el := range els {
		vals[i] = ctx.elementProxy(el)
	}
	return ctx.vm.NewArray(vals...)
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject
// wrapping el. A nil element is null.
func (ctx *domContext) elementProxy(el *page.Element) goja.Value {
	if el == nil {
		return goja.Null()
	}
	if v, ok := ctx.cache[el]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, el: el})
	ctx.cache[el] = v
	return v
}

// unwrapElement returns the element behind a proxy, or nil for anything
// that is not one.
func (ctx *domContext) unwrapElement(val goja.Value) *page.Element {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj := val.ToObject(ctx.vm)
	for el, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return el
		}
	}
	return nil
}

// targetValue maps an event target back to its JS object.
func (ctx *domContext) targetValue(t *page.Target) goja.Value {
	if t == &ctx.doc.Window().Target {
		return ctx.window
	}
	for el, v := range ctx.cache {
		if el.Target() == t {
			return v
		}
	}
	return goja.Null()
}

// eventObject is the argument handed to script listeners.
func (ctx *domContext) eventObject(ev *page.Event) goja.Value {
	obj := ctx.vm.NewObject()
	obj.Set("type", ev.Type)
	obj.Set("pageX", ev.PageX)
	obj.Set("pageY", ev.PageY)
	obj.Set("button", ev.Button)
	obj.Set("target", ctx.targetValue(ev.Target))
	obj.Set("stopPropagation", func(goja.FunctionCall) goja.Value {
		ev.StopPropagation()
		return goja.Undefined()
	})
	return obj
}

// addEventListenerFn returns a JS addEventListener bound to t. Exceptions
// thrown by a listener are logged and swallowed so one bad handler does
// not stop dispatch.
func (ctx *domContext) addEventListenerFn(t *page.Target) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(ctx.vm.NewTypeError("Failed to execute 'addEventListener': 2 arguments required"))
		}
		types := call.Arguments[0].String()
		fn, ok := goja.AssertFunction(call.Arguments[1])
		if !ok {
			panic(ctx.vm.NewTypeError("Failed to execute 'addEventListener': listener is not a function"))
		}
		sub := t.AddEventListener(types, func(ev *page.Event) {
			if _, err := fn(goja.Undefined(), ctx.eventObject(ev)); err != nil {
				slog.Warn("script listener failed", "target", t, "type", ev.Type, "err", err)
			}
		})
		ctx.subs = append(ctx.subs, sub)
		return goja.Undefined()
	}
}

// rectObject converts a rect into a DOMRect-shaped object.
func (ctx *domContext) rectObject(r geom.Rect) goja.Value {
	obj := ctx.vm.NewObject()
	obj.Set("x", r.X)
	obj.Set("y", r.Y)
	obj.Set("width", r.W)
	obj.Set("height", r.H)
	obj.Set("left", r.X)
	obj.Set("top", r.Y)
	obj.Set("right", r.Right())
	obj.Set("bottom", r.Bottom())
	return obj
}

// elementAccessor implements goja.DynamicObject to intercept property access
// on DOM element proxies.
type elementAccessor struct {
	ctx *domContext
	el  *page.Element
}

var elementKeys = []string{
	"tagName", "nodeName", "nodeType", "id", "className", "textContent",
	"getAttribute", "hasAttribute",
	"children", "parentElement", "firstElementChild", "lastElementChild",
	"nextElementSibling", "previousElementSibling", "childElementCount", "contains",
	"querySelector", "querySelectorAll", "matches", "closest",
	"clientLeft", "clientTop", "clientWidth", "clientHeight",
	"offsetLeft", "offsetTop", "offsetWidth", "offsetHeight",
	"scrollLeft", "scrollTop", "scrollWidth", "scrollHeight",
	"getBoundingClientRect", "scrollTo", "addEventListener",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	node := e.el.Node()

	switch key {
	case "nodeType":
		return vm.ToValue(1) // Node.ELEMENT_NODE
	case "tagName", "nodeName":
		return vm.ToValue(strings.ToUpper(e.el.TagName()))
	case "id":
		return vm.ToValue(e.el.ID())
	case "className":
		return vm.ToValue(e.el.GetAttribute("class"))
	case "textContent":
		return vm.ToValue(node.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := node.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := node.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			other := e.ctx.unwrapElement(call.Arguments[0])
			return vm.ToValue(other != nil && e.el.Contains(other))
		})

	case "children":
		return e.ctx.elementArray(e.children())
	case "parentElement":
		return e.ctx.elementProxy(e.el.Parent())
	case "firstElementChild":
		return e.firstElementChild()
	case "lastElementChild":
		return e.lastElementChild()
	case "nextElementSibling":
		return e.sibling(+1)
	case "previousElementSibling":
		return e.sibling(-1)
	case "childElementCount":
		return vm.ToValue(len(e.children()))

	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, e.el.QuerySelector))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, e.el.QuerySelectorAll))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, e.el))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, e.el))

	case "clientLeft":
		return vm.ToValue(e.el.ClientLeft())
	case "clientTop":
		return vm.ToValue(e.el.ClientTop())
	case "clientWidth":
		return vm.ToValue(e.el.ClientWidth())
	case "clientHeight":
		return vm.ToValue(e.el.ClientHeight())
	case "offsetLeft":
		return vm.ToValue(e.el.PageOffset().X)
	case "offsetTop":
		return vm.ToValue(e.el.PageOffset().Y)
	case "offsetWidth":
		return vm.ToValue(e.el.OffsetWidth())
	case "offsetHeight":
		return vm.ToValue(e.el.OffsetHeight())
	case "scrollLeft":
		return vm.ToValue(e.el.ScrollLeft())
	case "scrollTop":
		return vm.ToValue(e.el.ScrollTop())
	case "scrollWidth":
		return vm.ToValue(e.el.ScrollWidth())
	case "scrollHeight":
		return vm.ToValue(e.el.ScrollHeight())
	case "getBoundingClientRect":
		return vm.ToValue(func(goja.FunctionCall) goja.Value {
			return e.ctx.rectObject(e.el.BoundingClientRect())
		})
	case "scrollTo":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			x, y := scrollArgs(call, e.el.ScrollLeft(), e.el.ScrollTop())
			e.el.ScrollTo(x, y)
			return goja.Undefined()
		})
	case "addEventListener":
		return vm.ToValue(e.ctx.addEventListenerFn(e.el.Target()))
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "scrollLeft":
		e.el.SetScrollLeft(val.ToFloat())
		return true
	case "scrollTop":
		e.el.SetScrollTop(val.ToFloat())
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return elementKeys
}

// scrollArgs reads scrollTo's arguments: either (x, y) or an options
// object with left/top. Missing coordinates keep their current value.
func scrollArgs(call goja.FunctionCall, x, y float64) (float64, float64) {
	if len(call.Arguments) == 0 {
		return x, y
	}
	if obj, ok := call.Arguments[0].Export().(map[string]interface{}); ok {
		if v, ok := obj["left"]; ok {
			x = toFloat(v, x)
		}
		if v, ok := obj["top"]; ok {
			y = toFloat(v, y)
		}
		return x, y
	}
	x = call.Arguments[0].ToFloat()
	if len(call.Arguments) > 1 {
		y = call.Arguments[1].ToFloat()
	}
	return x, y
}

func toFloat(v interface{}, def float64) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// elementChildren wraps the element children of node.
func (ctx *domContext) elementChildren(node *html.Node) []*page.Element {
	var out []*page.Element
	for _, c := range node.Children {
		if el := ctx.doc.ElementFor(c); el != nil {
			out = append(out, el)
		}
	}
	return out
}
