package style

import "strings"

// Initial values of properties, used to resolve keyword 'initial'.
// Values "default" have the following semantics:
// Treat this as an inherent UA default, which should not be instantiated in memory,
// but rather will be treated implicitely by rendering code.
var initialValues = map[string]Property{
	"position":                   "static",
	"display":                    "inline",
	"visibility":                 "visible",
	"opacity":                    "1",
	"color":                      "canvastext",
	"background-color":           "transparent",
	"border-top-color":           "currentcolor",
	"border-left-color":          "currentcolor",
	"border-right-color":         "currentcolor",
	"border-bottom-color":        "currentcolor",
	"border-top-style":           "none",
	"border-left-style":          "none",
	"border-right-style":         "none",
	"border-bottom-style":        "none",
	"flow-from":                  "none",
	"flow-into":                  "none",
	"font-size":                  "medium",
	"font-style":                 "normal",
	"font-weight":                "normal",
	"line-height":                "normal",
	"letter-spacing":             "normal",
	"word-spacing":               "normal",
	"white-space":                "normal",
	"text-align":                 "start",
	"direction":                  "ltr",
	"width":                      "auto",
	"height":                     "auto",
	"min-width":                  "auto",
	"min-height":                 "auto",
	"max-width":                  "none",
	"max-height":                 "none",
	"top":                        "auto",
	"right":                      "auto",
	"bottom":                     "auto",
	"left":                       "auto",
	"margin-top":                 "0px",
	"margin-left":                "0px",
	"margin-right":               "0px",
	"margin-bottom":              "0px",
	"padding-top":                "0px",
	"padding-left":               "0px",
	"padding-right":              "0px",
	"padding-bottom":             "0px",
	"border-top-width":           "medium",
	"border-left-width":          "medium",
	"border-right-width":         "medium",
	"border-bottom-width":        "medium",
	"border-top-left-radius":     "0px",
	"border-top-right-radius":    "0px",
	"border-bottom-left-radius":  "0px",
	"border-bottom-right-radius": "0px",
	"z-index":                    "auto",
}

// InitialValue returns the initial value of a property, if known.
func InitialValue(key string) (Property, bool) {
	p, ok := initialValues[key]
	return p, ok
}

// user agent style sheet, per HTML tag
var defaultCSS = map[string]string{
	"a":          "color: -webkit-link; cursor: pointer; text-decoration: underline;",
	"address":    "display: block; font-style: italic;",
	"area":       "display: none;",
	"b":          "font-weight: bold;",
	"base":       "display: none;",
	"blockquote": "display: block; margin: 1em 40px;",
	"body":       "display: block; margin: 8px;",
	"button":     "display: inline-block;",
	"caption":    "display: table-caption; text-align: -webkit-center;",
	"center":     "display: block; text-align: center;",
	"cite":       "font-style: italic;",
	"code":       "font-family: monospace;",
	"col":        "display: table-column;",
	"colgroup":   "display: table-column-group;",
	"datalist":   "display: none;",
	"dd":         "display: block; margin-inline-start: 40px;",
	"del":        "text-decoration: line-through;",
	"details":    "display: block;",
	"dfn":        "font-style: italic;",
	"dialog":     "display: none;",
	"dl":         "display: block; margin-block-start: 1em; margin-block-end: 1em;",
	"dt":         "display: block;",
	"em":         "font-style: italic;",
	"fieldset":   "display: block; margin-inline-start: 2px; margin-inline-end: 2px; padding: 0.35em 0.75em 0.625em;",
	"figure":     "display: block; margin: 1em 40px;",
	"h1":         "display: block; font-size: 2em; margin-block-start: 0.67em; margin-block-end: 0.67em; font-weight: bold;",
	"h2":         "display: block; font-size: 1.5em; margin-block-start: 0.83em; margin-block-end: 0.83em; font-weight: bold;",
	"h3":         "display: block; font-size: 1.17em; margin-block-start: 1em; margin-block-end: 1em; font-weight: bold;",
	"h4":         "display: block; margin-block-start: 1.33em; margin-block-end: 1.33em; font-weight: bold;",
	"h5":         "display: block; font-size: 0.83em; margin-block-start: 1.67em; margin-block-end: 1.67em; font-weight: bold;",
	"h6":         "display: block; font-size: 0.67em; margin-block-start: 2.33em; margin-block-end: 2.33em; font-weight: bold;",
	"head":       "display: none;",
	"hr":         "display: block; margin: 0.5em auto; border-style: inset; border-width: 1px;",
	"html":       "display: block;",
	"i":          "font-style: italic;",
	"iframe":     "border: 2px inset;",
	"input":      "display: inline-block;",
	"ins":        "text-decoration: underline;",
	"kbd":        "font-family: monospace;",
	"legend":     "display: block; padding-inline-start: 2px; padding-inline-end: 2px;",
	"li":         "display: list-item; text-align: -webkit-match-parent;",
	"link":       "display: none;",
	"mark":       "background-color: yellow; color: black;",
	"menu":       "display: block; list-style-type: disc; margin-block-start: 1em; margin-block-end: 1em; padding-inline-start: 40px;",
	"meta":       "display: none;",
	"noscript":   "display: none;",
	"ol":         "display: block; list-style-type: decimal; margin-block-start: 1em; margin-block-end: 1em; padding-inline-start: 40px;",
	"optgroup":   "display: block;",
	"option":     "display: block;",
	"p":          "display: block; margin-block-start: 1em; margin-block-end: 1em;",
	"param":      "display: none;",
	"pre":        "display: block; font-family: monospace; white-space: pre; margin: 1em 0px;",
	"s":          "text-decoration: line-through;",
	"samp":       "font-family: monospace;",
	"script":     "display: none;",
	"section":    "display: block;",
	"select":     "display: inline-block;",
	"strike":     "text-decoration: line-through;",
	"strong":     "font-weight: bold;",
	"style":      "display: none;",
	"sub":        "vertical-align: sub; font-size: smaller;",
	"summary":    "display: block;",
	"sup":        "vertical-align: super; font-size: smaller;",
	"table":      "display: table; border-collapse: separate; border-spacing: 2px;",
	"tbody":      "display: table-row-group; vertical-align: middle;",
	"td":         "display: table-cell; vertical-align: inherit; padding: 1px;",
	"template":   "display: none;",
	"textarea":   "display: inline-block;",
	"tfoot":      "display: table-footer-group; vertical-align: middle;",
	"th":         "display: table-cell; vertical-align: inherit; font-weight: bold; text-align: -internal-center; padding: 1px;",
	"thead":      "display: table-header-group; vertical-align: middle;",
	"title":      "display: none;",
	"tr":         "display: table-row; vertical-align: inherit;",
	"tt":         "font-family: monospace;",
	"u":          "text-decoration: underline;",
	"ul":         "display: block; list-style-type: disc; margin-block-start: 1em; margin-block-end: 1em; padding-inline-start: 40px;",
	"var":        "font-style: italic;",
}

var blockTags = setOf("article", "aside", "div", "footer", "form", "header",
	"hgroup", "main", "nav", "search")

// DefaultCSS returns the user agent declarations for an HTML tag
// (lowercase). Elements unknown to the user agent style sheet are
// displayed inline.
func DefaultCSS(tag string) string {
	if css, ok := defaultCSS[tag]; ok {
		return css
	}
	if blockTags[tag] {
		return "display: block;"
	}
	return "display: inline;"
}

// DisplayPropertyForTag returns the default `display` CSS property for an
// HTML element.
func DisplayPropertyForTag(tag string) Property {
	css := DefaultCSS(strings.ToLower(tag))
	const key = "display:"
	i := strings.Index(css, key)
	if i < 0 {
		return "inline"
	}
	v := css[i+len(key):]
	if j := strings.IndexByte(v, ';'); j >= 0 {
		v = v[:j]
	}
	return Property(strings.TrimSpace(v))
}
