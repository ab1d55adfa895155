package js

import (
	"strconv"
	"strings"

	"tablefreeze/pkg/html"

	"github.com/dop251/goja"
)

// classListAccessor implements the DOMTokenList interface for
// element.classList on top of the node's class-token helpers.
type classListAccessor struct {
	ctx  *domContext
	node *html.Node
}

func (cl *classListAccessor) Get(key string) goja.Value {
	vm := cl.ctx.vm

	switch key {
	case "length":
		return vm.ToValue(len(cl.node.Classes()))
	case "value":
		return vm.ToValue(strings.Join(cl.node.Classes(), " "))
	case "add":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			for _, arg := range call.Arguments {
				cl.node.AddClass(arg.String())
			}
			return goja.Undefined()
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			for _, arg := range call.Arguments {
				cl.node.RemoveClass(arg.String())
			}
			return goja.Undefined()
		})
	case "toggle":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("Failed to execute 'toggle': 1 argument required"))
			}
			token := call.Arguments[0].String()
			if len(call.Arguments) > 1 {
				if call.Arguments[1].ToBoolean() {
					cl.node.AddClass(token)
					return vm.ToValue(true)
				}
				cl.node.RemoveClass(token)
				return vm.ToValue(false)
			}
			return vm.ToValue(cl.node.ToggleClass(token))
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			return vm.ToValue(cl.node.HasClass(call.Arguments[0].String()))
		})
	case "replace":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'replace': 2 arguments required"))
			}
			oldToken := call.Arguments[0].String()
			newToken := call.Arguments[1].String()
			if !cl.node.HasClass(oldToken) {
				return vm.ToValue(false)
			}
			cl.node.RemoveClass(oldToken)
			cl.node.AddClass(newToken)
			return vm.ToValue(true)
		})
	case "item":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			classes := cl.node.Classes()
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			idx := int(call.Arguments[0].ToInteger())
			if idx < 0 || idx >= len(classes) {
				return goja.Null()
			}
			return vm.ToValue(classes[idx])
		})
	case "toString":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(strings.Join(cl.node.Classes(), " "))
		})
	default:
		classes := cl.node.Classes()
		if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx < len(classes) {
			return vm.ToValue(classes[idx])
		}
	}
	return goja.Undefined()
}

func (cl *classListAccessor) Set(key string, val goja.Value) bool {
	if key == "value" {
		cl.node.SetAttribute("class", val.String())
		return true
	}
	return false
}

func (cl *classListAccessor) Has(key string) bool {
	switch key {
	case "length", "value", "add", "remove", "toggle", "contains",
		"replace", "item", "toString":
		return true
	}
	if idx, err := strconv.Atoi(key); err == nil && idx >= 0 {
		return true
	}
	return false
}

func (cl *classListAccessor) Delete(key string) bool {
	return false
}

func (cl *classListAccessor) Keys() []string {
	return []string{"length", "value", "add", "remove", "toggle",
		"contains", "replace", "item", "toString"}
}
