package domdbg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/styledom/dom"
)

const page = `<html><head><style>p { color: red; margin: 2px }</style></head>
<body><p>Hello <b>World</b></p><div id="h"><template shadowrootmode="open"><span>in</span></template></div></body></html>`

func TestDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	out := Dump(&doc.Node, nil)
	t.Logf("styled tree:\n%s", out)
	for _, s := range []string{"#shadow-root (open)", "color: red (#ff0000)", "margin-top: 2px (1.49bp)", "<span>"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected dump to contain %q", s)
		}
	}
}

func TestGraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.css")
	defer teardown()
	//
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := ToGraphViz(&doc.Node, &buf, nil); err != nil {
		t.Fatal(err)
	}
	dot := buf.String()
	if !strings.HasPrefix(dot, "digraph g {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("expected a digraph, have %q", dot)
	}
	for _, s := range []string{`"P"`, "#shadow-root", "Margins", "node00001 -> node00002", `bgcolor="#ff0000"`} {
		if !strings.Contains(dot, s) {
			t.Errorf("expected DOT output to contain %q", s)
		}
	}
}
