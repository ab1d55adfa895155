package js

import (
	"tablefreeze/pkg/css"
	"tablefreeze/pkg/html"

	"github.com/dop251/goja"
)

// registerQuerySelectors adds querySelector/querySelectorAll to a
// document object.
func registerQuerySelectors(ctx *domContext, obj *goja.Object, root *html.Node) {
	obj.Set("querySelector", querySelectorFn(ctx, root))
	obj.Set("querySelectorAll", querySelectorAllFn(ctx, root))
}

// querySelectorFn returns a JS function implementing querySelector.
func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelector': 1 argument required"))
		}
		sel := css.ParseSelector(call.Arguments[0].String())
		node := css.QueryFirst(root, sel)
		if node == nil {
			return goja.Null()
		}
		return ctx.elementProxy(node)
	}
}

// querySelectorAllFn returns a JS function implementing querySelectorAll.
func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelectorAll': 1 argument required"))
		}
		sel := css.ParseSelector(call.Arguments[0].String())
		return ctx.elementArray(css.Query(root, sel))
	}
}

// matchesFn returns a JS function implementing element.matches(selector).
func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'matches': 1 argument required"))
		}
		sel := css.ParseSelector(call.Arguments[0].String())
		return ctx.vm.ToValue(css.Matches(node, sel))
	}
}

// closestFn returns a JS function implementing element.closest(selector).
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'closest': 1 argument required"))
		}
		sel := css.ParseSelector(call.Arguments[0].String())
		for cur := node; cur != nil; cur = cur.Parent {
			if cur.Type != html.ElementNode || cur.TagName == "document" {
				continue
			}
			if css.Matches(cur, sel) {
				return ctx.elementProxy(cur)
			}
		}
		return goja.Null()
	}
}
