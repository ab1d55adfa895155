package js

import (
	"tablefreeze/pkg/html"

	"github.com/dop251/goja"
)

// appendChildFn returns a JS function implementing node.appendChild.
func (e *elementAccessor) appendChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': 1 argument required"))
		}
		child := e.ctx.unwrapNode(call.Arguments[0])
		if child == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'appendChild': parameter is not a Node"))
		}
		// Reparent if already in a tree
		if child.Parent != nil {
			child.Parent.RemoveChild(child)
		}
		e.node.AddChild(child)
		return e.ctx.elementProxy(child)
	}
}

// removeChildFn returns a JS function implementing node.removeChild.
func (e *elementAccessor) removeChildFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': 1 argument required"))
		}
		child := e.ctx.unwrapNode(call.Arguments[0])
		if child == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': parameter is not a Node"))
		}
		removed := e.node.RemoveChild(child)
		if removed == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'removeChild': The node to be removed is not a child of this node"))
		}
		return e.ctx.elementProxy(removed)
	}
}

// insertBeforeFn returns a JS function implementing node.insertBefore.
func (e *elementAccessor) insertBeforeFn() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': 1 argument required"))
		}
		newChild := e.ctx.unwrapNode(call.Arguments[0])
		if newChild == nil {
			panic(e.ctx.vm.NewTypeError("Failed to execute 'insertBefore': parameter 1 is not a Node"))
		}
		var refChild *html.Node
		if len(call.Arguments) > 1 && !goja.IsNull(call.Arguments[1]) && !goja.IsUndefined(call.Arguments[1]) {
			refChild = e.ctx.unwrapNode(call.Arguments[1])
		}
		if newChild.Parent != nil {
			newChild.Parent.RemoveChild(newChild)
		}
		e.node.InsertBefore(newChild, refChild)
		return e.ctx.elementProxy(newChild)
	}
}

// setInnerHTML replaces the node's children with a parsed fragment.
// Unparseable markup leaves the children empty rather than failing the
// script.
func (e *elementAccessor) setInnerHTML(markup string) {
	e.node.Children = nil
	nodes, err := html.ParseFragment(markup)
	if err != nil {
		return
	}
	for _, n := range nodes {
		e.node.AddChild(n)
	}
}
