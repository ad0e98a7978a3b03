package dom

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/cssom"
	"github.com/npillmayer/styledom/dom/w3cdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><head><style media="screen">p { color: red }</style>
<link rel="stylesheet" href="ext.css"></head>
<body>
<div id="host"><template shadowrootmode="open"><style>:host { color: green }</style><span id="inner">in</span></template></div>
<p id="a" class="x y">Hello <b>World</b></p>
<template><style>div { color: blue }</style></template>
</body></html>`

func loader(sheets map[string]string) SheetLoader {
	return SheetLoaderFunc(func(href string) (string, error) {
		if s, ok := sheets[href]; ok {
			return s, nil
		}
		return "", errors.New("not found")
	})
}

func TestParseDocument(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.dom")
	defer teardown()
	//
	doc, err := ParseString(page)
	require.NoError(t, err)
	require.NotNil(t, doc.DocumentElement())
	assert.Equal(t, "html", doc.DocumentElement().LocalName())
	assert.Equal(t, "body", doc.Body().LocalName())
	p := doc.GetElementByID("a")
	require.NotNil(t, p)
	assert.Equal(t, "P", p.NodeName())
	assert.Equal(t, []string{"x", "y"}, p.ClassList())
	assert.Equal(t, "Hello World", p.TextContent())
	assert.True(t, p.IsConnected())
	//
	host := doc.GetElementByID("host")
	require.NotNil(t, host)
	shadow := host.Shadow()
	require.NotNil(t, shadow, "declarative shadow root expected")
	assert.Equal(t, w3cdom.ShadowRootNode, shadow.NodeType())
	assert.Equal(t, Open, shadow.Mode())
	assert.Empty(t, host.Children(), "template must not stay in light tree")
	assert.Nil(t, doc.GetElementByID("inner"), "shadow content is not part of light tree")
	inner := shadow.GetElementByID("inner")
	require.NotNil(t, inner)
	assert.True(t, inner.IsConnected())
	assert.Equal(t, w3cdom.Node(shadow), inner.RootNode())
	assert.Nil(t, shadow.ParentNode())
	assert.Equal(t, w3cdom.Node(host), shadow.Host())
}

func TestQueries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.dom")
	defer teardown()
	//
	doc, err := ParseString(page)
	require.NoError(t, err)
	p, err := doc.QuerySelector("body > p.x")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "a", p.ID())
	all, err := doc.QuerySelectorAll("style")
	require.NoError(t, err)
	assert.Len(t, all, 2, "head style and template style")
	b, _ := doc.QuerySelector("b")
	c, err := b.Closest("p")
	require.NoError(t, err)
	assert.Equal(t, p, c)
	ok, err := p.Matches(":scope.y")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = doc.QuerySelector("div[")
	var serr *SelectorError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "Failed to execute 'querySelector' on 'Document': 'div[' is not a valid selector.", err.Error())
	assert.True(t, errors.Is(err, err.(*SelectorError).Err))
	none, err := doc.QuerySelector("article")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestMutations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.dom")
	defer teardown()
	//
	doc, err := ParseString(`<html><body><div id="d"><span></span></div></body></html>`)
	require.NoError(t, err)
	d := doc.GetElementByID("d")
	em := doc.CreateElement("EM")
	assert.False(t, em.IsConnected())
	epoch := doc.Epoch()
	require.NoError(t, d.InsertBefore(em, d.Children()[0]))
	assert.Greater(t, doc.Epoch(), epoch)
	assert.Equal(t, "em", d.Children()[0].LocalName())
	assert.True(t, em.IsConnected())
	assert.Equal(t, w3cdom.Node(d.Children()[1]), em.NextElementSibling())
	assert.ErrorIs(t, em.AppendChild(d), ErrHierarchy)
	assert.ErrorIs(t, d.AppendChild(&doc.Node), ErrHierarchy)
	require.NoError(t, d.RemoveChild(em))
	assert.False(t, em.IsConnected())
	assert.ErrorIs(t, d.RemoveChild(em), ErrNotFound)
	//
	require.NoError(t, d.SetAttribute("Class", "k"))
	assert.Equal(t, []string{"k"}, d.ClassList())
	require.NoError(t, d.RemoveAttribute("class"))
	assert.False(t, d.HasAttribute("class"))
	require.NoError(t, d.SetTextContent("txt"))
	assert.Equal(t, "txt", d.TextContent())
	assert.Empty(t, d.Children())
	//
	_, err = doc.CreateElement("input").AttachShadow(Open)
	assert.ErrorIs(t, err, ErrNotSupported)
	root, err := d.AttachShadow(Closed)
	require.NoError(t, err)
	assert.Equal(t, w3cdom.Node(root), d.ShadowRoot())
	_, err = d.AttachShadow(Open)
	assert.ErrorIs(t, err, ErrNotSupported)
	custom := doc.CreateElement("my-card")
	_, err = custom.AttachShadow(Open)
	assert.NoError(t, err)
}

func TestState(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.dom")
	defer teardown()
	//
	doc, err := ParseString(`<div id="outer"><input id="in"><my-el id="m"></my-el></div>`,
		WithURL("https://example.com/page#outer"))
	require.NoError(t, err)
	outer, in, m := doc.GetElementByID("outer"), doc.GetElementByID("in"), doc.GetElementByID("m")
	assert.NotZero(t, outer.State()&w3cdom.Target)
	assert.Zero(t, m.State()&w3cdom.Defined)
	doc.Define("my-el")
	assert.NotZero(t, m.State()&w3cdom.Defined)
	doc.Focus(in)
	assert.NotZero(t, in.State()&w3cdom.Focused)
	assert.NotZero(t, outer.State()&w3cdom.FocusWithin)
	assert.Zero(t, outer.State()&w3cdom.Focused)
	ok, _ := outer.Matches(":focus-within:target")
	assert.True(t, ok)
}

func TestStyleSheets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.dom")
	defer teardown()
	//
	doc, err := ParseString(page, WithSheetLoader(loader(map[string]string{
		"ext.css":  `@import "base.css"; h1 { margin: 0 }`,
		"base.css": `body { margin: 8px }`,
	})))
	require.NoError(t, err)
	sheets := doc.StyleSheets()
	require.Len(t, sheets, 2, "template style must be ignored")
	assert.Equal(t, "screen", sheets[0].Media())
	assert.Equal(t, "ext.css", sheets[1].Href())
	imp := sheets[1].Rules()[0]
	require.Equal(t, cssom.ImportRule, imp.Type)
	require.NotNil(t, imp.Imported())
	assert.Equal(t, "body", imp.Imported().Rules()[0].Selector())
	assert.Same(t, sheets[0], doc.StyleSheets()[0], "sheets are parsed once")
	//
	shadow := doc.GetElementByID("host").Shadow()
	ssheets := shadow.StyleSheets()
	require.Len(t, ssheets, 1)
	assert.Equal(t, ":host", ssheets[0].Rules()[0].Selector())
	//
	adopted := cssom.NewSheet()
	require.NoError(t, shadow.SetAdoptedStyleSheets(adopted))
	assert.Len(t, shadow.StyleSheets(), 2)
	assert.ErrorIs(t, doc.Body().SetAdoptedStyleSheets(adopted), ErrNotSupported)
	//
	st, _ := doc.QuerySelector("head > style")
	require.NoError(t, st.SetTextContent("p { color: blue }"))
	assert.Equal(t, "blue", string(doc.StyleSheets()[0].Rules()[0].Value("color")))
}

func TestStyleCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.dom")
	defer teardown()
	//
	doc, err := ParseString(`<p id="a"></p>`)
	require.NoError(t, err)
	p := doc.GetElementByID("a")
	_, ok := p.CachedStyle()
	assert.False(t, ok)
	cm := style.NewComputedMap()
	p.StoreStyle(cm)
	cached, ok := p.CachedStyle()
	require.True(t, ok)
	assert.Same(t, cm, cached)
	require.NoError(t, p.SetAttribute("title", "t"))
	_, ok = p.CachedStyle()
	assert.False(t, ok, "mutation must invalidate")
	p.StoreStyle(cm)
	sheet := cssom.NewSheet()
	sheet.AppendRule(&cssom.Rule{Type: cssom.StyleRule, Prelude: "p"})
	_, ok = p.CachedStyle()
	assert.False(t, ok, "sheet change must invalidate")
	//
	detached := doc.CreateElement("p")
	detached.StoreStyle(cm)
	_, ok = detached.CachedStyle()
	assert.False(t, ok, "detached elements are not cached")
}
