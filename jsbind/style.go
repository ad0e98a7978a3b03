package jsbind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dop251/goja"
	"github.com/npillmayer/styledom/dom"
	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/css"
)

// getComputedStyle implements window.getComputedStyle(element). The result
// is live: every access reads the current computed style of the element.
func (ctx *domContext) getComputedStyle(call goja.FunctionCall) goja.Value {
	ctx.requireArgs(call, 1, "getComputedStyle", nil)
	el := ctx.nodeOf(call.Argument(0))
	if !isElement(el) {
		panic(ctx.vm.NewTypeError("Failed to execute 'getComputedStyle' on 'Window': parameter 1 is not of type 'Element'."))
	}
	return ctx.vm.NewDynamicObject(&computedStyle{ctx: ctx, el: el})
}

// computedStyle implements goja.DynamicObject for CSSStyleDeclaration
// objects of computed styles. Properties may be read in hyphenated or in
// camel case form.
type computedStyle struct {
	ctx *domContext
	el  *dom.Node
}

func (cs *computedStyle) styles() *style.ComputedMap {
	return css.ComputeStyle(cs.el)
}

func (cs *computedStyle) Get(key string) goja.Value {
	vm := cs.ctx.vm
	switch key {
	case "length":
		return vm.ToValue(cs.styles().Len())
	case "cssText":
		return vm.ToValue(cs.styles().CSSText())
	case "getPropertyValue":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			cs.ctx.requireArgs(call, 1, "getPropertyValue", nil)
			name := strings.TrimSpace(call.Argument(0).String())
			if !style.IsCustomProperty(name) {
				name = strings.ToLower(name)
			}
			return vm.ToValue(string(cs.styles().GetPropertyValue(name)))
		})
	case "item":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			keys := cs.styles().Keys()
			i := int(call.Argument(0).ToInteger())
			if i < 0 || i >= len(keys) {
				return vm.ToValue("")
			}
			return vm.ToValue(keys[i])
		})
	}
	if i, err := strconv.Atoi(key); err == nil {
		if keys := cs.styles().Keys(); i >= 0 && i < len(keys) {
			return vm.ToValue(keys[i])
		}
		return goja.Undefined()
	}
	name := key
	if !style.IsCustomProperty(key) {
		name = camelToKebab(key)
	}
	if !style.IsKnownProperty(name) {
		return goja.Undefined()
	}
	return vm.ToValue(string(cs.styles().GetPropertyValue(name)))
}

func (cs *computedStyle) Set(key string, val goja.Value) bool {
	panic(cs.ctx.vm.NewTypeError(fmt.Sprintf(
		"Failed to set the '%s' property on 'CSSStyleDeclaration': These styles are computed, and therefore the '%s' property is read-only.",
		key, key)))
}

func (cs *computedStyle) Has(key string) bool {
	switch key {
	case "length", "cssText", "getPropertyValue", "item":
		return true
	}
	return style.IsKnownProperty(camelToKebab(key))
}

func (cs *computedStyle) Delete(key string) bool {
	return false
}

func (cs *computedStyle) Keys() []string {
	return cs.styles().Keys()
}

// camelToKebab converts "backgroundColor" to "background-color". Vendor
// prefixes in camel case ("WebkitTransform") get a leading hyphen.
func camelToKebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if strings.HasPrefix(out, "-") && !strings.HasPrefix(out, "-webkit-") && !strings.HasPrefix(out, "-moz-") {
		out = out[1:]
	}
	return out
}
