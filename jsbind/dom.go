package jsbind

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/npillmayer/styledom/dom"
	"github.com/npillmayer/styledom/dom/w3cdom"
)

// domContext maps DOM nodes to JS objects. Every node has at most one proxy,
// so identity comparisons work in scripts.
type domContext struct {
	vm    *goja.Runtime
	doc   *dom.Document
	cache map[*dom.Node]*goja.Object
	nodes map[*goja.Object]*dom.Node
}

func newDOMContext(vm *goja.Runtime, doc *dom.Document) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		cache: make(map[*dom.Node]*goja.Object),
		nodes: make(map[*goja.Object]*dom.Node),
	}
}

// proxy returns the JS object for a node, or null.
func (ctx *domContext) proxy(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if obj, ok := ctx.cache[n]; ok {
		return obj
	}
	obj := ctx.vm.NewDynamicObject(&nodeAccessor{ctx: ctx, n: n})
	ctx.cache[n] = obj
	ctx.nodes[obj] = n
	return obj
}

// nodeOf returns the node behind a JS value, or nil.
func (ctx *domContext) nodeOf(v goja.Value) *dom.Node {
	if obj, ok := v.(*goja.Object); ok {
		return ctx.nodes[obj]
	}
	return nil
}

func (ctx *domContext) array(ns []*dom.Node) goja.Value {
	items := make([]interface{}, len(ns))
	for i, n := range ns {
		items[i] = ctx.proxy(n)
	}
	return ctx.vm.NewArray(items...)
}

func (ctx *domContext) method(fn func(goja.FunctionCall) goja.Value) goja.Value {
	return ctx.vm.ToValue(fn)
}

// argNode returns argument i as a node, throwing a TypeError for other values.
func (ctx *domContext) argNode(call goja.FunctionCall, i int, op string, target *dom.Node) *dom.Node {
	n := ctx.nodeOf(call.Argument(i))
	if n == nil {
		panic(ctx.vm.NewTypeError(fmt.Sprintf("Failed to execute '%s' on '%s': parameter %d is not of type 'Node'.",
			op, interfaceName(target), i+1)))
	}
	return n
}

// --- Node proxies ----------------------------------------------------------

// nodeAccessor implements goja.DynamicObject for DOM nodes. Properties
// unknown to the DOM are kept as expandos.
type nodeAccessor struct {
	ctx    *domContext
	n      *dom.Node
	expand map[string]goja.Value
}

var (
	nodeKeys = []string{"nodeType", "nodeName", "nodeValue", "textContent", "parentNode",
		"parentElement", "childNodes", "children", "firstChild", "lastChild",
		"firstElementChild", "lastElementChild", "childElementCount", "isConnected",
		"ownerDocument", "getRootNode", "querySelector", "querySelectorAll",
		"appendChild", "insertBefore", "removeChild", "contains"}
	elementKeys = []string{"tagName", "localName", "id", "className", "getAttribute",
		"setAttribute", "removeAttribute", "hasAttribute", "matches", "closest",
		"attachShadow", "shadowRoot", "previousElementSibling", "nextElementSibling",
		"remove", "focus"}
	documentKeys = []string{"documentElement", "head", "body", "createElement",
		"createTextNode", "getElementById", "activeElement", "URL"}
	shadowKeys = []string{"host", "mode", "getElementById"}
)

func (a *nodeAccessor) Get(key string) goja.Value {
	if v := a.node(key); v != nil {
		return v
	}
	switch a.n.NodeType() {
	case w3cdom.ElementNode:
		if v := a.element(key); v != nil {
			return v
		}
	case w3cdom.DocumentNode:
		if v := a.document(key); v != nil {
			return v
		}
	case w3cdom.ShadowRootNode:
		if v := a.shadowRoot(key); v != nil {
			return v
		}
	}
	if v, ok := a.expand[key]; ok {
		return v
	}
	return goja.Undefined()
}

// node resolves the properties common to all nodes.
func (a *nodeAccessor) node(key string) goja.Value {
	ctx, n := a.ctx, a.n
	switch key {
	case "nodeType":
		return ctx.vm.ToValue(int(n.NodeType()))
	case "nodeName":
		return ctx.vm.ToValue(n.NodeName())
	case "nodeValue":
		if n.NodeType() == w3cdom.TextNode || n.NodeType() == w3cdom.CommentNode {
			return ctx.vm.ToValue(n.NodeValue())
		}
		return goja.Null()
	case "textContent":
		if n.NodeType() == w3cdom.DocumentNode {
			return goja.Null()
		}
		return ctx.vm.ToValue(n.TextContent())
	case "parentNode":
		return ctx.proxy(n.Parent())
	case "parentElement":
		return ctx.proxy(n.ParentElement())
	case "childNodes":
		return ctx.array(n.Nodes())
	case "children":
		return ctx.array(n.Children())
	case "firstChild":
		return ctx.proxy(first(n.Nodes()))
	case "lastChild":
		return ctx.proxy(last(n.Nodes()))
	case "firstElementChild":
		return ctx.proxy(first(n.Children()))
	case "lastElementChild":
		return ctx.proxy(last(n.Children()))
	case "childElementCount":
		return ctx.vm.ToValue(len(n.Children()))
	case "isConnected":
		return ctx.vm.ToValue(n.IsConnected())
	case "ownerDocument":
		if n.NodeType() == w3cdom.DocumentNode {
			return goja.Null()
		}
		return ctx.proxy(&n.Document().Node)
	case "getRootNode":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			return ctx.proxy(n.Root())
		})
	case "querySelector":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "querySelector", n)
			el, err := n.QuerySelector(call.Argument(0).String())
			if err != nil {
				ctx.throw(err)
			}
			return ctx.proxy(el)
		})
	case "querySelectorAll":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "querySelectorAll", n)
			els, err := n.QuerySelectorAll(call.Argument(0).String())
			if err != nil {
				ctx.throw(err)
			}
			return ctx.array(els)
		})
	case "appendChild":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "appendChild", n)
			child := ctx.argNode(call, 0, "appendChild", n)
			if err := n.AppendChild(child); err != nil {
				ctx.throw(err)
			}
			return ctx.proxy(child)
		})
	case "insertBefore":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 2, "insertBefore", n)
			child := ctx.argNode(call, 0, "insertBefore", n)
			ref := ctx.nodeOf(call.Argument(1)) // null appends
			if err := n.InsertBefore(child, ref); err != nil {
				ctx.throw(err)
			}
			return ctx.proxy(child)
		})
	case "removeChild":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "removeChild", n)
			child := ctx.argNode(call, 0, "removeChild", n)
			if err := n.RemoveChild(child); err != nil {
				ctx.throw(err)
			}
			return ctx.proxy(child)
		})
	case "contains":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			other := ctx.nodeOf(call.Argument(0))
			for ; other != nil; other = other.Parent() {
				if other == n {
					return ctx.vm.ToValue(true)
				}
			}
			return ctx.vm.ToValue(false)
		})
	}
	return nil
}

func (a *nodeAccessor) element(key string) goja.Value {
	ctx, n := a.ctx, a.n
	switch key {
	case "tagName":
		return ctx.vm.ToValue(n.NodeName())
	case "localName":
		return ctx.vm.ToValue(n.LocalName())
	case "id":
		return ctx.vm.ToValue(n.ID())
	case "className":
		cls, _ := n.Attribute("class")
		return ctx.vm.ToValue(cls)
	case "shadowRoot":
		if sh := n.Shadow(); sh != nil && sh.Mode() == dom.Open {
			return ctx.proxy(sh)
		}
		return goja.Null()
	case "previousElementSibling":
		return ctx.proxy(n.PreviousElement())
	case "nextElementSibling":
		return ctx.proxy(n.NextElement())
	case "getAttribute":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "getAttribute", n)
			if v, ok := n.Attribute(call.Argument(0).String()); ok {
				return ctx.vm.ToValue(v)
			}
			return goja.Null()
		})
	case "setAttribute":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 2, "setAttribute", n)
			if err := n.SetAttribute(call.Argument(0).String(), call.Argument(1).String()); err != nil {
				ctx.throw(err)
			}
			return goja.Undefined()
		})
	case "removeAttribute":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "removeAttribute", n)
			if err := n.RemoveAttribute(call.Argument(0).String()); err != nil {
				ctx.throw(err)
			}
			return goja.Undefined()
		})
	case "hasAttribute":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "hasAttribute", n)
			return ctx.vm.ToValue(n.HasAttribute(call.Argument(0).String()))
		})
	case "matches":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "matches", n)
			ok, err := n.Matches(call.Argument(0).String())
			if err != nil {
				ctx.throw(err)
			}
			return ctx.vm.ToValue(ok)
		})
	case "closest":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "closest", n)
			el, err := n.Closest(call.Argument(0).String())
			if err != nil {
				ctx.throw(err)
			}
			return ctx.proxy(el)
		})
	case "attachShadow":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "attachShadow", n)
			mode := ctx.shadowMode(call.Argument(0))
			root, err := n.AttachShadow(mode)
			if err != nil {
				ctx.throw(fmt.Errorf("Failed to execute 'attachShadow' on 'Element': %w", err))
			}
			return ctx.proxy(root)
		})
	case "remove":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			n.Remove()
			return goja.Undefined()
		})
	case "focus":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			n.Document().Focus(n)
			return goja.Undefined()
		})
	}
	return nil
}

// shadowMode reads the mode member of a ShadowRootInit dictionary.
func (ctx *domContext) shadowMode(init goja.Value) dom.ShadowMode {
	var m goja.Value
	if obj, ok := init.(*goja.Object); ok {
		m = obj.Get("mode")
	}
	if m == nil || goja.IsUndefined(m) {
		panic(ctx.vm.NewTypeError("Failed to execute 'attachShadow' on 'Element': " +
			"Failed to read the 'mode' property from 'ShadowRootInit': Required member is undefined."))
	}
	switch m.String() {
	case "open":
		return dom.Open
	case "closed":
		return dom.Closed
	}
	panic(ctx.vm.NewTypeError(fmt.Sprintf("Failed to execute 'attachShadow' on 'Element': "+
		"The provided value '%s' is not a valid enum value of type ShadowRootMode.", m.String())))
}

func (a *nodeAccessor) document(key string) goja.Value {
	ctx := a.ctx
	doc := a.n.Document()
	switch key {
	case "documentElement":
		return ctx.proxy(doc.DocumentElement())
	case "head":
		return ctx.proxy(doc.Head())
	case "body":
		return ctx.proxy(doc.Body())
	case "activeElement":
		if el := doc.ActiveElement(); el != nil {
			return ctx.proxy(el)
		}
		return ctx.proxy(doc.Body())
	case "URL":
		return ctx.vm.ToValue(doc.URL())
	case "getElementById":
		return a.getElementByID()
	case "createElement":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "createElement", a.n)
			return ctx.proxy(doc.CreateElement(call.Argument(0).String()))
		})
	case "createTextNode":
		return ctx.method(func(call goja.FunctionCall) goja.Value {
			ctx.requireArgs(call, 1, "createTextNode", a.n)
			return ctx.proxy(doc.CreateTextNode(call.Argument(0).String()))
		})
	}
	return nil
}

func (a *nodeAccessor) shadowRoot(key string) goja.Value {
	switch key {
	case "host":
		return a.ctx.proxy(a.n.HostElement())
	case "mode":
		return a.ctx.vm.ToValue(a.n.Mode().String())
	case "getElementById":
		return a.getElementByID()
	}
	return nil
}

func (a *nodeAccessor) getElementByID() goja.Value {
	return a.ctx.method(func(call goja.FunctionCall) goja.Value {
		a.ctx.requireArgs(call, 1, "getElementById", a.n)
		return a.ctx.proxy(a.n.GetElementByID(call.Argument(0).String()))
	})
}

func (a *nodeAccessor) Set(key string, val goja.Value) bool {
	n := a.n
	var err error
	switch {
	case key == "textContent" && n.NodeType() != w3cdom.DocumentNode:
		err = n.SetTextContent(val.String())
	case key == "nodeValue" && (n.NodeType() == w3cdom.TextNode || n.NodeType() == w3cdom.CommentNode):
		err = n.SetData(val.String())
	case key == "id" && n.NodeType() == w3cdom.ElementNode:
		err = n.SetAttribute("id", val.String())
	case key == "className" && n.NodeType() == w3cdom.ElementNode:
		err = n.SetAttribute("class", val.String())
	default:
		if _, ok := a.expand[key]; !ok && a.Has(key) {
			return false // read-only
		}
		if a.expand == nil {
			a.expand = make(map[string]goja.Value)
		}
		a.expand[key] = val
		return true
	}
	if err != nil {
		a.ctx.throw(err)
	}
	return true
}

func (a *nodeAccessor) Has(key string) bool {
	for _, k := range a.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func (a *nodeAccessor) Delete(key string) bool {
	if _, ok := a.expand[key]; ok {
		delete(a.expand, key)
		return true
	}
	return !a.Has(key)
}

func (a *nodeAccessor) Keys() []string {
	keys := append([]string(nil), nodeKeys...)
	switch a.n.NodeType() {
	case w3cdom.ElementNode:
		keys = append(keys, elementKeys...)
	case w3cdom.DocumentNode:
		keys = append(keys, documentKeys...)
	case w3cdom.ShadowRootNode:
		keys = append(keys, shadowKeys...)
	}
	for k := range a.expand {
		keys = append(keys, k)
	}
	return keys
}

func first(ns []*dom.Node) *dom.Node {
	if len(ns) == 0 {
		return nil
	}
	return ns[0]
}

func last(ns []*dom.Node) *dom.Node {
	if len(ns) == 0 {
		return nil
	}
	return ns[len(ns)-1]
}
