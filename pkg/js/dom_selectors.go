package js

import (
	"github.com/dop251/goja"

	"pagemap/pkg/page"
)

// registerQuerySelectors adds querySelector/querySelectorAll to obj.
func registerQuerySelectors(ctx *domContext, obj *goja.Object, one func(string) *page.Element, all func(string) []*page.Element) {
	obj.Set("querySelector", querySelectorFn(ctx, one))
	obj.Set("querySelectorAll", querySelectorAllFn(ctx, all))
}

// querySelectorFn returns a JS function implementing querySelector.
func querySelectorFn(ctx *domContext, query func(string) *page.Element) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelector': 1 argument required"))
		}
		return ctx.elementProxy(query(call.Arguments[0].String()))
	}
}

// querySelectorAllFn returns a JS function implementing querySelectorAll.
func querySelectorAllFn(ctx *domContext, query func(string) []*page.Element) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelectorAll': 1 argument required"))
		}
		return ctx.elementArray(query(call.Arguments[0].String()))
	}
}

// matchesFn returns a JS function implementing element.matches(selector).
func matchesFn(ctx *domContext, el *page.Element) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'matches': 1 argument required"))
		}
		return ctx.vm.ToValue(el.Matches(call.Arguments[0].String()))
	}
}

// closestFn returns a JS function implementing element.closest(selector).
func closestFn(ctx *domContext, el *page.Element) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'closest': 1 argument required"))
		}
		selectors := call.Arguments[0].String()
		for current := el; current != nil; current = current.Parent() {
			if current.Matches(selectors) {
				return ctx.elementProxy(current)
			}
		}
		return goja.Null()
	}
}
