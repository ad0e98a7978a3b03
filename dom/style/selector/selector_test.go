package selector_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/styledom/dom/style/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testHTML = `<html><head></head><body>` +
	`<div id="main" class="box note"><p class="a">one</p><p class="b hidden">two</p>` +
	`<p lang="en-US">three</p><span></span>` +
	`<ul><li>1</li><li class="x">2</li><li>3</li><li class="x">4</li><li>5</li></ul></div>` +
	`<section data-kind="main-part"><a href="/x" rel="nofollow noopener">link</a><em></em></section>` +
	`</body></html>`

func TestParseGroups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	g, err := selector.Parse("div.a > p , span ~ em::before")
	require.NoError(t, err)
	require.Len(t, g.Chains, 2)
	ch := g.Chains[0]
	if len(ch.Links) != 2 || ch.Links[1].Combinator != selector.Child {
		t.Fatalf("expected child combinator in %q, have %v", ch, ch.Links)
	}
	if ch.Links[0].Tag != "div" || ch.Links[0].Classes[0] != "a" {
		t.Errorf("expected first compound to be div.a, is %s", ch.Links[0].Compound)
	}
	if ch.String() != "div.a > p" {
		t.Errorf("expected chain text 'div.a > p', is %q", ch.String())
	}
	ch = g.Chains[1]
	if ch.Links[1].Combinator != selector.Subsequent || !ch.Subject().IsPseudoElement() {
		t.Errorf("expected pseudo-element subject after '~', have %s", ch.Subject())
	}
	g, err = selector.Parse(`a[title="x, y > z"]:not(.q, .r) b`)
	require.NoError(t, err)
	if len(g.Chains) != 1 || len(g.Chains[0].Links) != 2 {
		t.Fatalf("expected quoted and nested separators to be ignored, have %d chains", len(g.Chains))
	}
	a := g.Chains[0].Links[0].Attributes[0]
	assert.Equal(t, "x, y > z", a.Value)
	assert.Equal(t, "=", a.Operator)
	not := g.Chains[0].Links[0].PseudoClasses[0]
	assert.Equal(t, "not", not.Name)
	assert.Len(t, not.Group.Chains, 2)
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	invalid := []string{
		"", "   ", "div[", "a,", ",a", "a >", "> a", "a > > b", ":not()", "p:nth-child(foo)",
		"a)", "[=x]", `[a="x]`, "#", "div..x", "a:is(", "p:nth-of-type()", "a[x=]",
		"li:nth-child(+ 2n)", "li:nth-child(2 n + 1 of .a)",
	}
	for _, s := range invalid {
		_, err := selector.Parse(s)
		if err == nil {
			t.Errorf("expected %q to be rejected", s)
			continue
		}
		if !errors.Is(err, selector.ErrSyntax) {
			t.Errorf("expected a syntax error for %q, have %v", s, err)
		}
		var serr *selector.SyntaxError
		if errors.As(err, &serr) && serr.Selector != s {
			t.Errorf("expected error to carry selector %q, is %q", s, serr.Selector)
		}
	}
	g, err := selector.Parse("div[", selector.IgnoreErrors())
	require.NoError(t, err)
	assert.True(t, g.Empty())
}

func TestSpecificity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	table := []struct {
		sel  string
		spec selector.Specificity
	}{
		{"*", selector.Specificity{0, 0, 0}},
		{"li", selector.Specificity{0, 0, 1}},
		{"ul li", selector.Specificity{0, 0, 2}},
		{"ul ol+li", selector.Specificity{0, 0, 3}},
		{"h1 + *[rel=up]", selector.Specificity{0, 1, 1}},
		{"ul ol li.red", selector.Specificity{0, 1, 3}},
		{"li.red.level", selector.Specificity{0, 2, 1}},
		{"#x34y", selector.Specificity{1, 0, 0}},
		{"#s12:not(FOO)", selector.Specificity{1, 0, 1}},
		{".foo :is(.bar, #baz)", selector.Specificity{1, 1, 0}},
		{":where(#a) p", selector.Specificity{0, 0, 1}},
		{"li:nth-child(2n+1 of .x)", selector.Specificity{0, 2, 1}},
		{"p::before", selector.Specificity{0, 0, 2}},
		{"div:has(> p.a)", selector.Specificity{0, 1, 2}},
	}
	for _, entry := range table {
		g := selector.MustParse(entry.sel)
		if s := g.Chains[0].Specificity(); s != entry.spec {
			t.Errorf("expected specificity of %q to be %v, is %v", entry.sel, entry.spec, s)
		}
	}
	w := selector.MustParse("div.a").Chains[0].Weight()
	if w != 1001 {
		t.Errorf("expected weight of 'div.a' to be 1001, is %d", w)
	}
	host := selector.MustParse(":host(.x) p").Chains[0]
	if !host.IsHostChain() || host.Weight() != 1+selector.HostBonus {
		t.Errorf("expected host chain weight %d, is %d", 1+selector.HostBonus, host.Weight())
	}
}

// cascadia serves as a reference implementation for the selectors both
// engines support.
func TestMatchAgainstCascadia(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	doc := parseHTML(testHTML)
	sels := []string{
		"p", "div p", "div > p", "p + p", "p ~ span", "li.x", "#main", ".box.note",
		"[lang|=en]", "[rel~=noopener]", "[href^='/']", "[data-kind$=part]", "[data-kind*=in-p]",
		"a[rel]", "li:nth-child(odd)", "li:nth-child(2n+1)", "li:nth-last-child(2)",
		"li:nth-child(-n+3)", "li:first-child", "li:last-child", "p:first-of-type",
		"p:last-of-type", "p:nth-of-type(2)", "*:empty", ":root", "div:not(.box)", "p:not(.a)",
		"body *", "li:only-child", "ul:only-of-type", "div:has(li.x)", "*:not(li)",
		"section > a, ul > li.x", "body > * > ul li", "P.A",
	}
	for _, sel := range sels {
		oracle := cascadia.MustCompile(sel)
		g, err := selector.Parse(sel)
		require.NoError(t, err, sel)
		for _, e := range elements(doc, nil) {
			r, err := selector.Match(wrap(e), g)
			require.NoError(t, err)
			if expected := oracle.Match(e); expected != r.Matched {
				t.Errorf("selector %q on <%s %v>: expected match=%v", sel, e.Data, e.Attr, expected)
			}
		}
	}
}

func TestNotIsDuality(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	doc := parseHTML(testHTML)
	for _, s := range []string{"p", ".x", "div li", "li:nth-child(even)", "[lang]", "ul > :first-child"} {
		not := selector.MustParse(":not(" + s + ")")
		is := selector.MustParse(":is(" + s + ")")
		for _, e := range elements(doc, nil) {
			if not.Matches(wrap(e)) == is.Matches(wrap(e)) {
				t.Errorf(":not(%s) and :is(%s) agree on <%s>", s, s, e.Data)
			}
		}
	}
}

func TestNthChildForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	doc := parseHTML(testHTML)
	odd := selector.MustParse("li:nth-child(odd)")
	formula := selector.MustParse("li:nth-child( 2n + 1 )")
	firstThree := selector.MustParse("li:nth-child(-n+3)")
	secondX := selector.MustParse("li:nth-child(2 of .x)")
	var n, three int
	var x []string
	for _, e := range elements(doc, nil) {
		if odd.Matches(wrap(e)) != formula.Matches(wrap(e)) {
			t.Errorf("odd and 2n+1 disagree on <%s>", e.Data)
		}
		if odd.Matches(wrap(e)) {
			n++
		}
		if firstThree.Matches(wrap(e)) {
			three++
		}
		if secondX.Matches(wrap(e)) {
			x = append(x, e.FirstChild.Data)
		}
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, three)
	assert.Equal(t, []string{"4"}, x)
}

func TestHas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	doc := parseHTML(testHTML)
	main := wrap(findID(doc, "main"))
	if !selector.MustParse("div:has(> p.a)").Matches(main) {
		t.Errorf("expected div#main to have a child p.a")
	}
	if selector.MustParse("div:has(> li)").Matches(main) {
		t.Errorf("expected div#main not to have a child li")
	}
	if !selector.MustParse("div:has(ul .x)").Matches(main) {
		t.Errorf("expected div#main to have a descendant .x within ul")
	}
	nested, err := selector.Parse(":has(:has(p))")
	require.NoError(t, err)
	assert.Empty(t, nested.Chains[0].Links[0].PseudoClasses[0].Group.Chains)
	var pa, siblingsOfX []string
	adjacent := selector.MustParse("p:has(+ p.b)")
	following := selector.MustParse("li:has(~ li.x)")
	for _, e := range elements(doc, nil) {
		if nested.Matches(wrap(e)) {
			t.Errorf("nested :has() must never match, matches <%s>", e.Data)
		}
		if adjacent.Matches(wrap(e)) {
			pa = append(pa, e.FirstChild.Data)
		}
		if following.Matches(wrap(e)) {
			siblingsOfX = append(siblingsOfX, e.FirstChild.Data)
		}
	}
	assert.Equal(t, []string{"one"}, pa)
	assert.Equal(t, []string{"1", "2", "3"}, siblingsOfX)
}

func TestScope(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	doc := parseHTML(testHTML)
	ul := wrap(findID(doc, "main").LastChild)
	li := ul.ElementChildren()[0]
	if !selector.MustParse("div li").Matches(li) {
		t.Fatalf("expected unscoped 'div li' to match")
	}
	if selector.MustParse("div li").Matches(li, selector.WithScope(ul)) {
		t.Errorf("expected scope to bound the ancestor walk")
	}
	if !selector.MustParse("ul li").Matches(li, selector.WithScope(ul)) {
		t.Errorf("expected the scope element itself to be reachable")
	}
	if !selector.MustParse(":scope > li").Matches(li, selector.WithScopeElement(ul)) {
		t.Errorf("expected ':scope > li' to match children of the scope element")
	}
	root := wrap(doc.FirstChild)
	if !selector.MustParse(":scope").Matches(root) {
		t.Errorf("expected :scope to default to the root element")
	}
}

func TestMatchNonElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	doc := parseHTML(testHTML)
	text := findID(doc, "main").FirstChild.FirstChild
	require.Equal(t, html.TextNode, text.Type)
	_, err := selector.MatchText(wrap(text), "p")
	if !errors.Is(err, selector.ErrNotElement) {
		t.Errorf("expected ErrNotElement, have %v", err)
	}
	r, err := selector.MatchText(wrap(text), "p", selector.IgnoreErrors())
	if err != nil || r.Matched {
		t.Errorf("expected permissive matching to silently fail, have %v", err)
	}
	r, err = selector.MatchText(wrap(findID(doc, "main")), "div.box, #main")
	require.NoError(t, err)
	assert.True(t, r.Matched)
	assert.Equal(t, 1000000, r.Weight)
}

func TestDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.selector")
	defer teardown()
	//
	d := selector.MustParse("ul > li:not(.x)").Dump()
	t.Logf("\n%s", d)
	if !strings.Contains(d, "ul > li:not(.x)") || !strings.Contains(d, ":not") {
		t.Errorf("dump lacks expected entries:\n%s", d)
	}
}
