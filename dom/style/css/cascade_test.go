package css_test

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/styledom/dom"
	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/css"
	"github.com/npillmayer/styledom/dom/style/cssom/douceuradapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func parse(t *testing.T, html string, opts ...dom.Option) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(html, opts...)
	require.NoError(t, err)
	return doc
}

func byID(t *testing.T, n *dom.Node, id string) *dom.Node {
	t.Helper()
	el := n.GetElementByID(id)
	require.NotNil(t, el, "no element with id %q", id)
	return el
}

func value(el *dom.Node, key string) style.Property {
	return css.ComputeStyle(el).GetPropertyValue(key)
}

func TestImportantAndInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>#a{color:blue} .c{color:red !important} span{color:green}</style></head>
	<body><div id="a" class="c"><span id="s"></span></div></body></html>`)
	assert.Equal(t, style.Property("red"), value(byID(t, &doc.Node, "a"), "color"))
	assert.Equal(t, style.Property("green"), value(byID(t, &doc.Node, "s"), "color"))
}

func TestSpecificityAndOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>
	#x { color: blue }
	p.a.b.c.d { color: red }
	p { background-color: white }
	p { background-color: black }
	.a { opacity: 0.3 }
	</style></head>
	<body><p id="x" class="a b c d" style="opacity: 0.7">x</p></body></html>`)
	p := byID(t, &doc.Node, "x")
	assert.Equal(t, style.Property("blue"), value(p, "color"), "id beats classes")
	assert.Equal(t, style.Property("black"), value(p, "background-color"), "later rule wins")
	assert.Equal(t, style.Property("0.7"), value(p, "opacity"), "style attribute wins")
	assert.Equal(t, style.Property("block"), value(p, "display"), "user agent default")
}

func TestCustomProperties(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>
	#outer { --x: 10px; --y: var(--x) }
	p { width: var(--x, 5px); height: var(--y); min-width: var(--none, 5px);
	    max-width: var(--none); margin-top: var(--none, var(--x)) }
	</style></head>
	<body><div id="outer"><p id="in"></p></div><p id="out"></p></body></html>`)
	in := css.ComputeStyle(byID(t, &doc.Node, "in"))
	assert.Equal(t, style.Property("10px"), in.GetPropertyValue("width"))
	assert.Equal(t, style.Property("10px"), in.GetPropertyValue("height"))
	assert.Equal(t, style.Property("5px"), in.GetPropertyValue("min-width"))
	assert.Equal(t, style.Property("10px"), in.GetPropertyValue("margin-top"))
	_, ok := in.Get("max-width")
	assert.False(t, ok, "unresolvable reference drops the declaration")
	assert.Equal(t, style.Property("10px"), in.GetPropertyValue("--x"), "custom properties inherit")
	out := css.ComputeStyle(byID(t, &doc.Node, "out"))
	assert.Equal(t, style.Property("5px"), out.GetPropertyValue("width"))
}

func TestShadowHost(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	const html = `<html><head><style>my-el { opacity: 1 } span { color: red }</style></head><body>
	<my-el id="on" disabled style="color: purple"><template shadowrootmode="open">
	<style>:host([disabled]) { opacity: 0.5 } span { font-weight: bold }</style><span id="inner">x</span>
	</template></my-el>
	<my-el id="off"><template shadowrootmode="open">
	<style>:host([disabled]) { opacity: 0.5 }</style></template></my-el></body></html>`
	doc := parse(t, html)
	on := byID(t, &doc.Node, "on")
	assert.Equal(t, style.Property("0.5"), value(on, "opacity"))
	assert.Equal(t, style.Property("1"), value(byID(t, &doc.Node, "off"), "opacity"))
	//
	doc = parse(t, `<body><my-el id="plain"><template shadowrootmode="open">
	<style>:host([disabled]) { opacity: 0.5 }</style></template></my-el></body>`)
	plain := byID(t, &doc.Node, "plain")
	_, ok := css.ComputeStyle(plain).Get("opacity")
	assert.False(t, ok, "opacity must be unset without attribute 'disabled'")
	require.NoError(t, plain.SetAttribute("disabled", ""))
	assert.Equal(t, style.Property("0.5"), value(plain, "opacity"))
	//
	doc = parse(t, html)
	inner := byID(t, doc.GetElementByID("on").Shadow(), "inner")
	cm := css.ComputeStyle(inner)
	assert.Equal(t, style.Property("bold"), cm.GetPropertyValue("font-weight"))
	assert.Equal(t, style.Property("purple"), cm.GetPropertyValue("color"),
		"document rules must not match shadow elements, color inherits from host")
}

func TestFontSizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html style="font-size: 20px"><head><style>
	p { font-size: 2em; margin-top: 1rem; width: 2em; line-height: 1.5 }
	span { font-size: 50%; padding: 1em 2px }
	em { font-size: larger }
	</style></head>
	<body><p id="p"><span id="s">x</span><em id="e"></em></p></body></html>`)
	p := css.ComputeStyle(byID(t, &doc.Node, "p"))
	assert.Equal(t, style.Property("40px"), p.GetPropertyValue("font-size"))
	assert.Equal(t, style.Property("20px"), p.GetPropertyValue("margin-top"))
	assert.Equal(t, style.Property("80px"), p.GetPropertyValue("width"))
	assert.Equal(t, style.Property("1.5"), p.GetPropertyValue("line-height"))
	s := css.ComputeStyle(byID(t, &doc.Node, "s"))
	assert.Equal(t, style.Property("20px"), s.GetPropertyValue("font-size"))
	assert.Equal(t, style.Property("20px 2px"), s.GetPropertyValue("padding"))
	assert.Equal(t, style.Property("20px"), s.GetPropertyValue("padding-top"))
	assert.Equal(t, style.Property("2px"), s.GetPropertyValue("padding-right"))
	e := css.ComputeStyle(byID(t, &doc.Node, "e"))
	assert.Equal(t, style.Property("48px"), e.GetPropertyValue("font-size"))
}

func TestKeywords(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>
	div { border-top-width: 3px; color: navy }
	span { border-top-width: inherit; color: initial }
	b { color: unset; border-top-width: unset }
	</style></head>
	<body><div><span id="s"></span><b id="b"></b></div></body></html>`)
	s := css.ComputeStyle(byID(t, &doc.Node, "s"))
	assert.Equal(t, style.Property("3px"), s.GetPropertyValue("border-top-width"))
	_, ok := s.Get("color")
	assert.False(t, ok, "initial removes the inherited value")
	b := css.ComputeStyle(byID(t, &doc.Node, "b"))
	assert.Equal(t, style.Property("navy"), b.GetPropertyValue("color"))
	_, ok = b.Get("border-top-width")
	assert.False(t, ok)
}

func TestConditionalRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	const html = `<html><head><style>
	@media (max-width: 600px) { p { color: red } }
	@media print { p { font-weight: bold } }
	@supports (display: grid) { p { display: grid } }
	@supports not (display: grid) { p { opacity: 0 } }
	@layer base { p { text-align: center } }
	@container (min-width: 1px) { p { float: left } }
	@font-face { font-family: x; src: url(x.woff) }
	</style></head><body><p id="p"></p></body></html>`
	p := css.ComputeStyle(byID(t, &parse(t, html).Node, "p"))
	_, ok := p.Get("color")
	assert.False(t, ok)
	assert.Equal(t, style.Property("grid"), p.GetPropertyValue("display"))
	assert.Equal(t, style.Property("center"), p.GetPropertyValue("text-align"))
	for _, key := range []string{"opacity", "float", "font-weight", "font-family"} {
		_, ok = p.Get(key)
		assert.False(t, ok, key)
	}
	small := parse(t, html, dom.WithViewport(500, 800), dom.WithMediaType("print"))
	p = css.ComputeStyle(byID(t, &small.Node, "p"))
	assert.Equal(t, style.Property("red"), p.GetPropertyValue("color"))
	assert.Equal(t, style.Property("bold"), p.GetPropertyValue("font-weight"))
}

func TestMalformedConditions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>
	@supports not (display: grid) and (color: red) { p { opacity: 0 } }
	@supports not { p { color: red } }
	@media screen and (color) or (hover) { p { float: left } }
	@supports (display: block) { p { text-align: right } }
	</style></head><body><p id="p"></p></body></html>`)
	p := css.ComputeStyle(byID(t, &doc.Node, "p"))
	for _, key := range []string{"opacity", "color", "float"} {
		_, ok := p.Get(key)
		assert.False(t, ok, "rule with malformed condition applied to %s", key)
	}
	assert.Equal(t, style.Property("right"), p.GetPropertyValue("text-align"))
}

func TestDouceurSheetParser(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>
	p { color: blue }
	#p { margin: 2px !important }
	@media print { p { color: red } }
	</style></head><body><div style="font-size: 20px"><p id="p" style="margin: 0"></p></div></body></html>`,
		dom.WithSheetParser(douceuradapter.Parse))
	p := css.ComputeStyle(byID(t, &doc.Node, "p"))
	assert.Equal(t, style.Property("blue"), p.GetPropertyValue("color"))
	assert.Equal(t, style.Property("2px"), p.GetPropertyValue("margin-left"))
	assert.Equal(t, style.Property("20px"), p.GetPropertyValue("font-size"))
}

func TestScope(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>
	@scope (.card) to (.content) { p { color: red } :scope { opacity: 0.5 } }
	</style></head><body>
	<div class="card" id="card"><p id="in"></p><div class="content"><p id="limit"></p></div></div>
	<p id="out"></p>
	<section><style>@scope { p { color: green } }</style><p id="implicit"></p></section>
	</body></html>`)
	assert.Equal(t, style.Property("red"), value(byID(t, &doc.Node, "in"), "color"))
	assert.Equal(t, style.Property("0.5"), value(byID(t, &doc.Node, "card"), "opacity"))
	assert.Equal(t, style.NullStyle, value(byID(t, &doc.Node, "limit"), "color"))
	assert.Equal(t, style.NullStyle, value(byID(t, &doc.Node, "out"), "color"))
	assert.Equal(t, style.Property("green"), value(byID(t, &doc.Node, "implicit"), "color"))
}

func TestImports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	loader := dom.SheetLoaderFunc(func(href string) (string, error) {
		switch href {
		case "main.css":
			return `@import "base.css"; p { color: blue }`, nil
		case "base.css":
			return `p { color: red; margin-left: 4px }`, nil
		}
		return "", nil
	})
	doc := parse(t, `<html><head><link rel="stylesheet" href="main.css"></head><body><p id="p"></p></body></html>`,
		dom.WithSheetLoader(loader))
	p := css.ComputeStyle(byID(t, &doc.Node, "p"))
	assert.Equal(t, style.Property("blue"), p.GetPropertyValue("color"))
	assert.Equal(t, style.Property("4px"), p.GetPropertyValue("margin-left"))
}

func TestCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>.hot { color: red }</style></head><body><p id="p"></p></body></html>`)
	p := byID(t, &doc.Node, "p")
	cm := css.ComputeStyle(p)
	assert.Same(t, cm, css.ComputeStyle(p), "second call is a cache hit")
	require.NoError(t, p.SetAttribute("class", "hot"))
	cm2 := css.ComputeStyle(p)
	assert.NotSame(t, cm, cm2)
	assert.Equal(t, style.Property("red"), cm2.GetPropertyValue("color"))
	sheet := doc.StyleSheets()[0]
	_, err := sheet.InsertRule(".hot { color: green }", 1)
	require.NoError(t, err)
	assert.Equal(t, style.Property("green"), value(p, "color"), "stale map after sheet mutation")
	//
	p.Remove()
	assert.Equal(t, 0, css.ComputeStyle(p).Len(), "detached elements have no style")
	detached := doc.CreateElement("div")
	assert.NotSame(t, css.ComputeStyle(detached), css.ComputeStyle(detached))
}

func TestStrictResolver(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>p > > b { color: red } p { color: blue }
	@scope (.a > > .b) { p { color: green } }</style></head>
	<body><p id="p"></p></body></html>`)
	p := byID(t, &doc.Node, "p")
	assert.Equal(t, style.Property("blue"), value(p, "color"))
	r := css.Resolver{Strict: true}
	cm, err := r.Compute(p)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, style.Property("blue"), cm.GetPropertyValue("color"))
}

func TestGetProperty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc := parse(t, `<html><head><style>div { color: teal; display: flex }</style></head>
	<body><div id="d"><span id="s"></span></div></body></html>`)
	s := byID(t, &doc.Node, "s")
	p, err := css.GetProperty(s, "color")
	require.NoError(t, err)
	assert.Equal(t, style.Property("teal"), p)
	p, err = css.GetProperty(s, "position")
	require.NoError(t, err)
	assert.Equal(t, style.Property("static"), p)
	assert.Equal(t, css.InlineMode|css.InnerInlineMode, css.Display(s))
	assert.Equal(t, css.BlockMode|css.FlexMode, css.Display(byID(t, &doc.Node, "d")))
	assert.True(t, css.Display(byID(t, &doc.Node, "d")).IsBlockLevel())
}
