package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'styledom.style'
func tracer() tracing.Trace {
	return tracing.Select("styledom.style")
}

// Property is a raw value for a CSS property. For example, with
//
//	color: black
//
// a property value of "black" is set. The main purpose of wrapping
// the raw string value into type Property is to provide a set of
// convenient type conversion functions and other helpers.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsInitial denotes if a property is of inheritence-type "initial"
func (p Property) IsInitial() bool {
	return p == "initial"
}

// IsInherit denotes if a property is of inheritence-type "inherit"
func (p Property) IsInherit() bool {
	return p == "inherit"
}

// IsUnset denotes if a property is of inheritence-type "unset"
func (p Property) IsUnset() bool {
	return p == "unset"
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// IsCustomProperty is true for author-defined properties ("--name").
func IsCustomProperty(key string) bool {
	return strings.HasPrefix(key, "--")
}

// IsCascading returns wether the standard behaviour for a propery is to be
// inherited or not, i.e., a call to retrieve its value will cascade.
// Custom properties always inherit.
func IsCascading(key string) bool {
	if IsCustomProperty(key) {
		return true
	}
	return inherited[key]
}

var inherited = setOf(
	"border-collapse", "border-spacing", "caption-side", "clip-rule", "color",
	"color-scheme", "cursor", "direction", "empty-cells", "fill", "fill-opacity",
	"fill-rule", "font", "font-family", "font-feature-settings", "font-kerning",
	"font-size", "font-size-adjust", "font-stretch", "font-style", "font-variant",
	"font-variant-caps", "font-variant-east-asian", "font-variant-ligatures",
	"font-variant-numeric", "font-weight", "hyphens", "image-rendering",
	"letter-spacing", "line-break", "line-height", "list-style", "list-style-image",
	"list-style-position", "list-style-type", "orphans", "overflow-wrap",
	"paint-order", "pointer-events", "quotes", "stroke", "stroke-dasharray",
	"stroke-dashoffset", "stroke-linecap", "stroke-linejoin", "stroke-miterlimit",
	"stroke-opacity", "stroke-width", "tab-size", "text-align", "text-align-last",
	"text-anchor", "text-indent", "text-justify", "text-rendering", "text-shadow",
	"text-transform", "text-underline-position", "visibility", "white-space",
	"widows", "word-break", "word-spacing", "word-wrap", "writing-mode",
)

// AcceptsLength returns true for properties whose values may contain
// length measurements which are to be resolved to pixels.
func AcceptsLength(key string) bool {
	return lengths[key]
}

var lengths = setOf(
	"background-position", "background-size", "border", "border-top", "border-right",
	"border-bottom", "border-left", "border-width", "border-top-width",
	"border-right-width", "border-bottom-width", "border-left-width", "border-radius",
	"border-top-left-radius", "border-top-right-radius", "border-bottom-right-radius",
	"border-bottom-left-radius", "border-spacing", "bottom", "column-gap", "column-width",
	"flex-basis", "font", "font-size", "gap", "height", "inset", "left",
	"letter-spacing", "line-height", "margin", "margin-top", "margin-right",
	"margin-bottom", "margin-left", "margin-block-start", "margin-block-end",
	"margin-inline-start", "margin-inline-end", "max-height", "max-width",
	"min-height", "min-width", "outline", "outline-offset", "outline-width",
	"padding", "padding-top", "padding-right", "padding-bottom", "padding-left",
	"padding-inline-start", "padding-inline-end", "padding-block-start",
	"padding-block-end", "perspective", "right", "row-gap", "text-indent", "top",
	"transform-origin", "translate", "width", "word-spacing",
)

// IsKnownProperty returns true for CSS properties this module knows about,
// and for custom properties.
func IsKnownProperty(key string) bool {
	return IsCustomProperty(key) || inherited[key] || lengths[key] || others[key]
}

var others = setOf(
	"accent-color", "align-content", "align-items", "align-self", "all", "animation",
	"appearance", "aspect-ratio", "backdrop-filter", "background", "background-attachment",
	"background-clip", "background-color", "background-image", "background-origin",
	"background-repeat", "border-color", "border-style", "border-top-color",
	"border-right-color", "border-bottom-color", "border-left-color", "border-top-style",
	"border-right-style", "border-bottom-style", "border-left-style", "box-shadow",
	"box-sizing", "caret-color", "clear", "clip-path", "columns", "contain", "container",
	"container-type", "content", "display", "filter", "flex", "flex-direction",
	"flex-flow", "flex-grow", "flex-shrink", "flex-wrap", "float", "grid", "grid-area",
	"grid-column", "grid-row", "grid-template-areas", "grid-template-columns",
	"grid-template-rows", "isolation", "justify-content", "justify-items", "justify-self",
	"mask", "mix-blend-mode", "object-fit", "object-position", "opacity", "order",
	"outline-color", "outline-style", "overflow", "overflow-x", "overflow-y",
	"place-content", "place-items", "position", "resize", "rotate", "scale",
	"scroll-behavior", "table-layout", "text-decoration", "text-decoration-color",
	"text-decoration-line", "text-decoration-style", "text-overflow", "transform",
	"transition", "user-select", "vertical-align", "will-change", "z-index",
	"flow-into", "flow-from",
)

func setOf(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// IsCompoundProperty returns true for shortcut properties which
// SplitCompoundProperty is able to split up.
func IsCompoundProperty(key string) bool {
	switch key {
	case "margin", "padding", "border-color", "border-width", "border-style", "border-radius":
		return true
	}
	return false
}

// SplitCompoundProperty splits up a shortcut property into its individual
// components. Returns a slice of key-value pairs representing the
// individual (fine grained) style properties.
// Example:
//
//	SplitCompountProperty("padding", "3px")
//
// will return
//
//	"padding-top"    => "3px"
//	"padding-right"  => "3px"
//	"padding-bottom" => "3px"
//	"padding-left  " => "3px"
//
// For the logic behind this, refer to e.g.
// https://www.w3schools.com/css/css_padding.asp .
func SplitCompoundProperty(key string, value Property) ([]KeyValue, error) {
	fields := splitFields(value.String())
	switch key {
	case "margin":
		return feazeCompound4("margin", "", fourDirs, fields)
	case "padding":
		return feazeCompound4("padding", "", fourDirs, fields)
	case "border-color":
		return feazeCompound4("border", "color", fourDirs, fields)
	case "border-width":
		return feazeCompound4("border", "width", fourDirs, fields)
	case "border-style":
		return feazeCompound4("border", "style", fourDirs, fields)
	case "border-radius":
		return feazeCompound4("border", "radius", fourCorners, fields)
	}
	return nil, fmt.Errorf("not recognized as compound property: %s", key)
}

// splitFields splits at top-level white space, keeping function
// arguments like "calc(1px + 2px)" together.
func splitFields(s string) []string {
	var fields []string
	depth, start := 0, -1
	for i, c := range s {
		switch {
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case depth == 0 && (c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'):
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}

// CSS logic to distribute individual values from compound shortcuts is as
// follows: https://www.w3schools.com/css/css_border.asp
func feazeCompound4(pre string, suf string, dirs [4]string, fields []string) ([]KeyValue, error) {
	l := len(fields)
	if l == 0 || l > 4 {
		return nil, fmt.Errorf("expecting 1-4 values for %s", p(pre, suf, "*"))
	}
	r := make([]KeyValue, 4)
	r[0] = KeyValue{p(pre, suf, dirs[0]), Property(fields[0])}
	if l >= 2 {
		r[1] = KeyValue{p(pre, suf, dirs[1]), Property(fields[1])}
		if l >= 3 {
			r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[2])}
			if l == 4 {
				r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[3])}
			} else {
				r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[1])}
			}
		} else {
			r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[0])}
			r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[1])}
		}
	} else {
		r[1] = KeyValue{p(pre, suf, dirs[1]), Property(fields[0])}
		r[2] = KeyValue{p(pre, suf, dirs[2]), Property(fields[0])}
		r[3] = KeyValue{p(pre, suf, dirs[3]), Property(fields[0])}
	}
	return r, nil
}

var fourDirs = [4]string{"top", "right", "bottom", "left"}
var fourCorners = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

func p(prefix string, suffix string, tag string) string {
	if suffix == "" {
		return prefix + "-" + tag
	}
	if prefix == "" {
		return tag + "-" + suffix
	}
	return prefix + "-" + tag + "-" + suffix
}
