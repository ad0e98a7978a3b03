package jsbind

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/styledom/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, s string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(s)
	require.NoError(t, err)
	return doc
}

func run(t *testing.T, doc *dom.Document, script string) interface{} {
	t.Helper()
	v, err := New(doc).Run(script)
	require.NoError(t, err)
	return v.Export()
}

func TestQueries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.js")
	defer teardown()
	//
	doc := parseHTML(t, `<body><ul id="l"><li class="a">1</li><li>2</li><li class="a">3</li></ul></body>`)
	run(t, doc, `
		var all = document.querySelectorAll("li.a");
		if (all.length !== 2) throw new Error("expected 2 items, have " + all.length);
		if (all[1].textContent !== "3") throw new Error("textContent: " + all[1].textContent);
		var ul = document.getElementById("l");
		if (ul !== document.querySelector("#l")) throw new Error("proxies must be identical");
		if (all[0].parentElement !== ul) throw new Error("parentElement");
		if (ul.querySelector("li:nth-child(2)").textContent !== "2") throw new Error("nth-child");
		if (!all[0].matches("ul > .a")) throw new Error("matches");
		if (all[0].closest("ul") !== ul) throw new Error("closest");
		if (document.querySelector("section") !== null) throw new Error("expected null");
	`)
	assert.Equal(t, "LI", run(t, doc, `document.querySelector("li").tagName`))
}

func TestSelectorErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.js")
	defer teardown()
	//
	doc := parseHTML(t, `<body><p>x</p></body>`)
	msg := run(t, doc, `
		var msg = "";
		try { document.querySelector("p > > b"); } catch (e) {
			if (!(e instanceof SyntaxError)) throw new Error("expected SyntaxError, have " + e);
			msg = e.message;
		}
		msg;
	`)
	assert.Equal(t, "Failed to execute 'querySelector' on 'Document': 'p > > b' is not a valid selector.", msg)
	isTypeError := run(t, doc, `
		var ok = false;
		try { document.querySelectorAll(); } catch (e) { ok = e instanceof TypeError; }
		ok;
	`)
	assert.Equal(t, true, isTypeError)
}

func TestMutations(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.js")
	defer teardown()
	//
	doc := parseHTML(t, `<body><div id="box"></div></body>`)
	run(t, doc, `
		var box = document.getElementById("box");
		var p = document.createElement("p");
		p.textContent = "hello";
		p.className = "greeting";
		box.appendChild(p);
		if (box.children.length !== 1) throw new Error("appendChild");
		if (document.querySelector(".greeting") !== p) throw new Error("query after append");
		p.setAttribute("data-x", "1");
		if (p.getAttribute("data-x") !== "1" || !p.hasAttribute("data-x")) throw new Error("attributes");
		p.removeAttribute("data-x");
		if (p.getAttribute("data-x") !== null) throw new Error("removeAttribute");
		p.remove();
		if (box.childElementCount !== 0 || p.isConnected) throw new Error("remove");
		p.custom = 42;
		if (p.custom !== 42) throw new Error("expando");
	`)
	assert.Empty(t, doc.GetElementByID("box").Children())
}

func TestShadowRoots(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.js")
	defer teardown()
	//
	doc := parseHTML(t, `<body><div id="open"></div><div id="closed"></div><b id="b"></b></body>`)
	run(t, doc, `
		var host = document.getElementById("open");
		var root = host.attachShadow({ mode: "open" });
		if (host.shadowRoot !== root || root.host !== host || root.mode !== "open") throw new Error("open root");
		var span = document.createElement("span");
		span.id = "inner";
		root.appendChild(span);
		if (root.getElementById("inner") !== span) throw new Error("getElementById on shadow root");
		if (document.getElementById("inner") !== null) throw new Error("shadow content must not leak");
		if (span.getRootNode() !== root) throw new Error("getRootNode");
		document.getElementById("closed").attachShadow({ mode: "closed" });
		if (document.getElementById("closed").shadowRoot !== null) throw new Error("closed root visible");
		var failed = false;
		try { document.getElementById("b").attachShadow({ mode: "open" }); } catch (e) { failed = true; }
		if (!failed) throw new Error("<b> must not host a shadow root");
		failed = false;
		try { host.attachShadow({ mode: "sideways" }); } catch (e) { failed = e instanceof TypeError; }
		if (!failed) throw new Error("expected TypeError for invalid mode");
	`)
}

func TestComputedStyle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.js")
	defer teardown()
	//
	doc := parseHTML(t, `<html><head><style>
		p { color: red; --accent: blue }
		p.on { color: green }
		.hi { background-color: var(--accent) }
	</style></head><body><p id="p"><span class="hi">x</span></p></body></html>`)
	run(t, doc, `
		var p = document.getElementById("p");
		var cs = getComputedStyle(p);
		if (cs.getPropertyValue("color") !== "red") throw new Error("color: " + cs.getPropertyValue("color"));
		p.className = "on";
		if (cs.color !== "green") throw new Error("computed style must be live, color: " + cs.color);
		var span = p.querySelector("span");
		var bg = window.getComputedStyle(span).backgroundColor;
		if (bg !== "blue") throw new Error("background-color: " + bg);
		if (getComputedStyle(span).getPropertyValue("--accent") !== "blue") throw new Error("custom property");
	`)
}

func TestExecute(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.js")
	defer teardown()
	//
	doc := parseHTML(t, `<body><p id="p">a</p>
		<script>document.getElementById("p").textContent = "b"; console.log("ran");</script>
		<script type="text/plain">this is not code</script></body>`)
	require.NoError(t, New(doc).Execute())
	assert.Equal(t, "b", doc.GetElementByID("p").TextContent())
}
