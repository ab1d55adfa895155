package js

import (
	"strconv"
	"strings"
	"unicode"

	"tablefreeze/pkg/css"
	"tablefreeze/pkg/html"

	"github.com/dop251/goja"
)

// domContext holds shared state for DOM bindings within a single
// execution. It maintains a node-to-proxy cache so the same JS object is
// returned for the same underlying *html.Node (needed for === identity
// checks, and for unwrapping proxies passed back into Go).
type domContext struct {
	vm    *goja.Runtime
	doc   *html.Document
	cache map[*html.Node]goja.Value
}

func newDOMContext(vm *goja.Runtime, doc *html.Document) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		cache: make(map[*html.Node]goja.Value),
	}
}

// registerDocument sets up the global `document` object on the goja
// runtime.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := newDOMContext(vm, doc)

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		id := call.Arguments[0].String()
		var found *html.Node
		html.Walk(doc.Root, func(n *html.Node) bool {
			if v, ok := n.GetAttribute("id"); ok && v == id {
				found = n
				return false
			}
			return true
		})
		if found == nil {
			return goja.Null()
		}
		return ctx.elementProxy(found)
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		tag := strings.ToLower(call.Arguments[0].String())
		var nodes []*html.Node
		html.Walk(doc.Root, func(n *html.Node) bool {
			if n.TagName == tag {
				nodes = append(nodes, n)
			}
			return true
		})
		return ctx.elementArray(nodes)
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.elementArray(nil)
		}
		cls := call.Arguments[0].String()
		var nodes []*html.Node
		html.Walk(doc.Root, func(n *html.Node) bool {
			if n.HasClass(cls) {
				nodes = append(nodes, n)
			}
			return true
		})
		return ctx.elementArray(nodes)
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		tag := strings.ToLower(call.Arguments[0].String())
		node := &html.Node{
			Type:       html.ElementNode,
			TagName:    tag,
			Attributes: make(map[string]string),
			Children:   make([]*html.Node, 0),
		}
		return ctx.elementProxy(node)
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.elementProxy(&html.Node{Type: html.TextNode, Text: text})
	})

	registerQuerySelectors(ctx, docObj, doc.Root)

	docObj.Set("body", docElement(ctx, "body"))
	docObj.Set("documentElement", docElement(ctx, "html"))

	vm.Set("document", docObj)
	return ctx
}

func docElement(ctx *domContext, tag string) goja.Value {
	var found *html.Node
	html.Walk(ctx.doc.Root, func(n *html.Node) bool {
		if n.TagName == tag {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return goja.Null()
	}
	return ctx.elementProxy(found)
}

// elementArray creates a JS array of element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	arr := ctx.vm.NewArray()
	for i, n := range nodes {
		arr.Set(strconv.Itoa(i), ctx.elementProxy(n))
	}
	arr.Set("length", len(nodes))
	return arr
}

// elementProxy creates (or retrieves from cache) a JS DynamicObject
// wrapping an html.Node.
func (ctx *domContext) elementProxy(node *html.Node) goja.Value {
	if v, ok := ctx.cache[node]; ok {
		return v
	}
	v := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.cache[node] = v
	return v
}

// unwrapNode extracts the *html.Node from a goja value that wraps an
// elementAccessor.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj := val.ToObject(ctx.vm)
	for node, cached := range ctx.cache {
		if cached.SameAs(obj) {
			return node
		}
	}
	return nil
}

// elementAccessor implements goja.DynamicObject to intercept property
// access on DOM element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm

	switch key {
	case "nodeType":
		if e.node.Type == html.TextNode {
			return vm.ToValue(3) // Node.TEXT_NODE
		}
		return vm.ToValue(1) // Node.ELEMENT_NODE
	case "nodeName":
		if e.node.Type == html.TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "tagName":
		if e.node.Type == html.TextNode {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "id":
		id, _ := e.node.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := e.node.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(textContent(e.node))
	case "innerHTML":
		return vm.ToValue(e.node.Serialize())
	case "outerHTML":
		return vm.ToValue(e.node.SerializeOuter())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Null()
			}
			val, ok := e.node.GetAttribute(call.Arguments[0].String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				return goja.Undefined()
			}
			e.node.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			_, ok := e.node.GetAttribute(call.Arguments[0].String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return goja.Undefined()
			}
			e.node.RemoveAttribute(call.Arguments[0].String())
			return goja.Undefined()
		})
	case "children":
		return e.ctx.elementArray(e.node.ElementChildren())
	case "childNodes":
		return e.ctx.elementArray(e.node.Children)
	case "parentElement":
		if e.node.Parent != nil && e.node.Parent.Type == html.ElementNode &&
			e.node.Parent.TagName != "document" {
			return e.ctx.elementProxy(e.node.Parent)
		}
		return goja.Null()
	case "parentNode":
		if e.node.Parent != nil && e.node.Parent.TagName != "document" {
			return e.ctx.elementProxy(e.node.Parent)
		}
		return goja.Null()
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: e.node})
	case "classList":
		return vm.NewDynamicObject(&classListAccessor{ctx: e.ctx, node: e.node})

	// Table structure shorthands, enough for walking row/cell markup.
	case "rows":
		if e.node.TagName == "table" || e.node.TagName == "thead" ||
			e.node.TagName == "tbody" || e.node.TagName == "tfoot" {
			return e.ctx.elementArray(collectDescendants(e.node, "tr"))
		}
		return goja.Undefined()
	case "cells":
		if e.node.TagName == "tr" {
			var cells []*html.Node
			for _, c := range e.node.ElementChildren() {
				if c.TagName == "td" || c.TagName == "th" {
					cells = append(cells, c)
				}
			}
			return e.ctx.elementArray(cells)
		}
		return goja.Undefined()

	case "appendChild":
		return vm.ToValue(e.appendChildFn())
	case "removeChild":
		return vm.ToValue(e.removeChildFn())
	case "insertBefore":
		return vm.ToValue(e.insertBeforeFn())
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if e.node.Parent != nil {
				e.node.Parent.RemoveChild(e.node)
			}
			return goja.Undefined()
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				return vm.ToValue(false)
			}
			other := e.ctx.unwrapNode(call.Arguments[0])
			if other == nil {
				return vm.ToValue(false)
			}
			return vm.ToValue(e.node.Contains(other))
		})

	case "firstElementChild":
		if kids := e.node.ElementChildren(); len(kids) > 0 {
			return e.ctx.elementProxy(kids[0])
		}
		return goja.Null()
	case "lastElementChild":
		if kids := e.node.ElementChildren(); len(kids) > 0 {
			return e.ctx.elementProxy(kids[len(kids)-1])
		}
		return goja.Null()
	case "nextElementSibling":
		return e.elementSibling(1)
	case "previousElementSibling":
		return e.elementSibling(-1)

	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, e.node))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, e.node))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, e.node))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, e.node))
	}
	return goja.Undefined()
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.Children = nil
		if s := val.String(); s != "" {
			e.node.AppendText(s)
		}
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	case "innerHTML":
		e.setInnerHTML(val.String())
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	return !goja.IsUndefined(e.Get(key))
}

func (e *elementAccessor) Delete(key string) bool {
	return false
}

func (e *elementAccessor) Keys() []string {
	return []string{
		"tagName", "nodeName", "nodeType", "id", "className",
		"textContent", "innerHTML", "outerHTML",
		"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
		"children", "childNodes", "parentElement", "parentNode",
		"style", "classList", "rows", "cells",
		"appendChild", "removeChild", "insertBefore", "remove", "contains",
		"firstElementChild", "lastElementChild",
		"nextElementSibling", "previousElementSibling",
		"querySelector", "querySelectorAll", "matches", "closest",
	}
}

func (e *elementAccessor) elementSibling(dir int) goja.Value {
	p := e.node.Parent
	if p == nil {
		return goja.Null()
	}
	idx := -1
	for i, c := range p.Children {
		if c == e.node {
			idx = i
			break
		}
	}
	if idx < 0 {
		return goja.Null()
	}
	for i := idx + dir; i >= 0 && i < len(p.Children); i += dir {
		if p.Children[i].Type == html.ElementNode {
			return e.ctx.elementProxy(p.Children[i])
		}
	}
	return goja.Null()
}

func collectDescendants(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	html.Walk(root, func(n *html.Node) bool {
		if n != root && n.TagName == tag {
			out = append(out, n)
		}
		return true
	})
	return out
}

// textContent returns the concatenated text of a node and its
// descendants.
func textContent(node *html.Node) string {
	if node.Type == html.TextNode {
		return node.Text
	}
	var sb strings.Builder
	for _, child := range node.Children {
		sb.WriteString(textContent(child))
	}
	return sb.String()
}

// styleAccessor maps JS camelCase property access to kebab-case
// declarations in the node's inline style attribute, preserving
// declaration order across edits.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	if v, ok := css.GetProperty(s.node, camelToKebab(key)); ok {
		return s.vm.ToValue(v)
	}
	return s.vm.ToValue("")
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	css.SetProperty(s.node, camelToKebab(key), val.String())
	return true
}

func (s *styleAccessor) Has(key string) bool {
	return true
}

func (s *styleAccessor) Delete(key string) bool {
	css.RemoveProperty(s.node, camelToKebab(key))
	return true
}

func (s *styleAccessor) Keys() []string {
	style, _ := s.node.GetAttribute("style")
	return css.ParseInline(style).Props()
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
