package js

import (
	"github.com/dop251/goja"

	"pagemap/pkg/page"
)

// Traversal property methods on elementAccessor

func (e *elementAccessor) children() []*page.Element {
	return e.ctx.elementChildren(e.el.Node())
}

func (e *elementAccessor) firstElementChild() goja.Value {
	kids := e.children()
	if len(kids) == 0 {
		return goja.Null()
	}
	return e.ctx.elementProxy(kids[0])
}

func (e *elementAccessor) lastElementChild() goja.Value {
	kids := e.children()
	if len(kids) == 0 {
		return goja.Null()
	}
	return e.ctx.elementProxy(kids[len(kids)-1])
}

// sibling returns the element sibling dir steps away (+1 next, -1
// previous), or null.
func (e *elementAccessor) sibling(dir int) goja.Value {
	parent := e.el.Node().Parent
	if parent == nil {
		return goja.Null()
	}
	siblings := e.ctx.elementChildren(parent)
	for i, s := range siblings {
		if s != e.el {
			continue
		}
		if j := i + dir; j >= 0 && j < len(siblings) {
			return e.ctx.elementProxy(siblings[j])
		}
		break
	}
	return goja.Null()
}
