package cssom

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/styledom/dom/style/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSheet = `
@import url("base.css") screen;
body { margin: 0; color: red !important }
h1, h2 { font-size: 2em }
@media screen and (min-width: 600px) {
	.wide { width: 50% }
}
`

func TestParseSheet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.cssom")
	defer teardown()
	//
	sheet, err := Parse(testSheet)
	require.NoError(t, err)
	rules := sheet.Rules()
	require.Len(t, rules, 4)
	imp := rules[0]
	assert.Equal(t, ImportRule, imp.Type)
	assert.Equal(t, "base.css", imp.Href)
	assert.Equal(t, "screen", imp.ImportMedia())
	body := rules[1]
	assert.Equal(t, StyleRule, body.Type)
	assert.Equal(t, "body", body.Selector())
	assert.Equal(t, []string{"margin", "color"}, body.Properties())
	if !body.IsImportant("color") || body.IsImportant("margin") {
		t.Errorf("expected color, but not margin, to be important")
	}
	if body.Value("color") != "red" {
		t.Errorf("expected color to be red, is %q", body.Value("color"))
	}
	g, err := rules[2].SelectorGroup()
	require.NoError(t, err)
	assert.Len(t, g.Chains, 2)
	media := rules[3]
	assert.Equal(t, MediaRule, media.Type)
	assert.True(t, EvaluateMedia(media.Prelude, DefaultMediaContext()))
	require.Len(t, media.Rules, 1)
	assert.Equal(t, ".wide", media.Rules[0].Selector())
	assert.Equal(t, "50%", string(media.Rules[0].Value("width")))
	assert.Same(t, media, media.Rules[0].ParentRule())
	assert.Same(t, sheet, media.Rules[0].Sheet())
}

func TestDeclarationBlock(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.cssom")
	defer teardown()
	//
	decls, err := ParseDeclarationBlock("color: red; MARGIN: 0 auto !important; --gap: 1px")
	require.NoError(t, err)
	require.Len(t, decls, 3)
	assert.Equal(t, Declaration{Property: "color", Value: "red"}, decls[0])
	assert.Equal(t, Declaration{Property: "margin", Value: "0 auto", Important: true}, decls[1])
	assert.Equal(t, "--gap", decls[2].Property)
	assert.Equal(t, "1px", decls[2].Value)
}

func TestSheetAPI(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.cssom")
	defer teardown()
	//
	sheet := NewSheet()
	gen := Generation()
	i, err := sheet.InsertRule("p { color: blue }", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	if Generation() == gen {
		t.Errorf("expected InsertRule to bump the sheet generation")
	}
	_, err = sheet.InsertRule(".first { color: green }", 0)
	require.NoError(t, err)
	assert.Equal(t, ".first", sheet.Rules()[0].Selector())
	if _, err = sheet.InsertRule("q {}", 7); !errors.Is(err, ErrIndex) {
		t.Errorf("expected ErrIndex for insertion beyond end, have %v", err)
	}
	if _, err = sheet.InsertRule("a {} b {}", 0); !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax for two rules, have %v", err)
	}
	if err = sheet.DeleteRule(2); !errors.Is(err, ErrIndex) {
		t.Errorf("expected ErrIndex for deletion beyond end, have %v", err)
	}
	require.NoError(t, sheet.DeleteRule(0))
	assert.Equal(t, "p { color: blue; }", sheet.CSSText())
	//
	r := sheet.Rules()[0]
	gen = Generation()
	r.SetProperty("color", "navy", true)
	assert.Equal(t, "p { color: navy !important; }", r.CSSText())
	r.SetSelectorText("div[")
	if _, err = r.SelectorGroup(); !errors.Is(err, selector.ErrSyntax) {
		t.Errorf("expected invalid selector to be reported, have %v", err)
	}
	if Generation() < gen+2 {
		t.Errorf("expected rule mutations to bump the generation")
	}
	//
	_ = sheet.ReplaceSync("a { color: red } b { color: blue }")
	assert.Len(t, sheet.Rules(), 2)
	sheet.SetDisabled(true)
	sheet.SetMedia("print")
	assert.True(t, sheet.Disabled())
	assert.Equal(t, "print", sheet.Media())
	//
	other := NewSheet()
	other.AppendRules(sheet)
	assert.False(t, other.Empty())
	assert.Same(t, other, other.Rules()[0].Sheet())
}

func TestMedia(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.cssom")
	defer teardown()
	//
	ctx := DefaultMediaContext()
	table := []struct {
		query string
		match bool
	}{
		{"", true},
		{"all", true},
		{"screen", true},
		{"print", false},
		{"not print", true},
		{"only screen and (min-width: 600px)", true},
		{"(max-width: 600px)", false},
		{"(min-width: 40em)", true},
		{"(width >= 1000px)", true},
		{"(400px <= width <= 800px)", false},
		{"(orientation: landscape)", true},
		{"(prefers-color-scheme: dark)", false},
		{"print, (hover)", true},
		{"(unknown-feature: 1)", false},
		{"not (hover)", false},
		{"screen and (min-aspect-ratio: 4/3)", true},
		{"(min-width: 600px) and (max-width: 800px)", false},
		{"screen and (color)", true},
		{"not (", false},
		{"not", false},
		{"not screen and (", false},
		{"screen and (color) or (hover)", false},
	}
	for _, entry := range table {
		if m := EvaluateMedia(entry.query, ctx); m != entry.match {
			t.Errorf("media %q: expected %v, is %v", entry.query, entry.match, m)
		}
	}
	ctx.ColorScheme = "dark"
	ctx.Width, ctx.Height = 500, 900
	assert.True(t, EvaluateMedia("(prefers-color-scheme: dark) and (orientation: portrait)", ctx))
	assert.True(t, EvaluateMedia("(max-width: 600px)", ctx))
}

func TestSupports(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.cssom")
	defer teardown()
	//
	table := []struct {
		cond  string
		match bool
	}{
		{"(display: grid)", true},
		{"(displayx: grid)", false},
		{"not (display: grid)", false},
		{"(display: grid) and (color: red)", true},
		{"(display: grid) and (foo: bar)", false},
		{"(foo: bar) or (color: red)", true},
		{"selector(:has(> img))", true},
		{"selector(div[)", false},
		{"(--x: 1)", true},
		{"((display: grid) or (foo: bar)) and (not (foo: baz))", true},
		{"display: grid", false},
		{"not", false},
		{"not (", false},
		{"not (display: grid) and (color: red)", false},
		{"(display: grid) and (color: red) or (foo: bar)", false},
	}
	for _, entry := range table {
		if m := EvaluateSupports(entry.cond); m != entry.match {
			t.Errorf("supports %q: expected %v, is %v", entry.cond, entry.match, m)
		}
	}
	if !strings.Contains(RuleTypeFor("-webkit-keyframes").String(), "keyframes") {
		t.Errorf("expected vendor keyframes to be recognized")
	}
}
