package js

import (
	"tablefreeze/pkg/freeze"

	"github.com/dop251/goja"
)

// BindController exposes a freeze controller to scripts as the global
// `tableFreeze` object:
//
//	tableFreeze.initialize()      -> bool
//	tableFreeze.recompute(table)  -> bool (all tables when no argument)
//	tableFreeze.destroy()
//	tableFreeze.tables()          -> managed table elements
//
// The engine must be bound to the controller's document first so element
// proxies and controller nodes agree on identity.
func (e *Engine) BindController(c *freeze.Controller) {
	if e.ctx == nil {
		return
	}
	ctx := e.ctx
	vm := e.vm

	obj := vm.NewObject()
	obj.Set("initialize", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(c.Initialize(ctx.doc.Root))
	})
	obj.Set("recompute", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			c.RecomputeAll()
			return vm.ToValue(true)
		}
		node := ctx.unwrapNode(call.Arguments[0])
		if node == nil {
			return vm.ToValue(false)
		}
		return vm.ToValue(c.Recompute(node))
	})
	obj.Set("destroy", func(call goja.FunctionCall) goja.Value {
		c.Destroy()
		return goja.Undefined()
	})
	obj.Set("tables", func(call goja.FunctionCall) goja.Value {
		return ctx.elementArray(c.Tables())
	})

	vm.Set("tableFreeze", obj)
}
