package jsbind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/npillmayer/styledom/dom"
	"github.com/npillmayer/styledom/dom/w3cdom"
)

// Engine executes JavaScript against a document.
type Engine struct {
	vm  *goja.Runtime
	ctx *domContext
}

// New creates a JS engine with a fresh goja runtime, bound to doc.
func New(doc *dom.Document) *Engine {
	vm := goja.New()
	e := &Engine{vm: vm, ctx: newDOMContext(vm, doc)}
	registerConsole(vm)
	vm.Set("document", e.ctx.proxy(&doc.Node))
	vm.Set("getComputedStyle", e.ctx.getComputedStyle)
	window := vm.NewObject()
	window.Set("document", vm.Get("document"))
	window.Set("getComputedStyle", e.ctx.getComputedStyle)
	vm.Set("window", window)
	return e
}

// Run executes a script and returns its completion value.
func (e *Engine) Run(script string) (goja.Value, error) {
	v, err := e.vm.RunString(script)
	if err != nil {
		return nil, fmt.Errorf("script failed: %w", err)
	}
	return v, nil
}

// Execute runs the scripts of all <script> elements of the document, in
// document order. It stops at the first failing script.
func (e *Engine) Execute() error {
	scripts, err := e.ctx.doc.QuerySelectorAll("script")
	if err != nil {
		return err
	}
	for i, s := range scripts {
		if t, ok := s.Attribute("type"); ok && t != "" && !strings.Contains(t, "javascript") && t != "module" {
			continue
		}
		if _, err := e.vm.RunString(s.TextContent()); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Runtime returns the underlying goja runtime.
func (e *Engine) Runtime() *goja.Runtime {
	return e.vm
}

// --- Console ---------------------------------------------------------------

func registerConsole(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", func(call goja.FunctionCall) goja.Value {
		tracer().Infof("console: %s", formatArgs(call.Arguments))
		return goja.Undefined()
	})
	console.Set("warn", func(call goja.FunctionCall) goja.Value {
		tracer().Infof("console warning: %s", formatArgs(call.Arguments))
		return goja.Undefined()
	})
	console.Set("error", func(call goja.FunctionCall) goja.Value {
		tracer().Errorf("console: %s", formatArgs(call.Arguments))
		return goja.Undefined()
	})
	vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}

// --- Exceptions ------------------------------------------------------------

// interfaceName is the name of a node's DOM interface, as used in platform
// error messages.
func interfaceName(n *dom.Node) string {
	return n.NodeType().String()
}

// requireArgs throws a TypeError if a call has less than n arguments.
func (ctx *domContext) requireArgs(call goja.FunctionCall, n int, op string, target *dom.Node) {
	if len(call.Arguments) >= n {
		return
	}
	on := "Window"
	if target != nil {
		on = interfaceName(target)
	}
	panic(ctx.vm.NewTypeError(fmt.Sprintf("Failed to execute '%s' on '%s': %d argument required, but only %d present.",
		op, on, n, len(call.Arguments))))
}

// throw raises a JS exception for a Go error. Selector errors become
// SyntaxErrors.
func (ctx *domContext) throw(err error) {
	var serr *dom.SelectorError
	if errors.As(err, &serr) {
		ctx.throwNamed("SyntaxError", serr.Error())
	}
	panic(ctx.vm.NewGoError(err))
}

func (ctx *domContext) throwNamed(ctorName, msg string) {
	ctor, ok := goja.AssertConstructor(ctx.vm.Get(ctorName))
	if !ok {
		panic(ctx.vm.NewTypeError(msg))
	}
	obj, err := ctor(nil, ctx.vm.ToValue(msg))
	if err != nil {
		panic(err)
	}
	panic(obj)
}

func isElement(n *dom.Node) bool {
	return n != nil && n.NodeType() == w3cdom.ElementNode
}
