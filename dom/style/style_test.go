package style

import (
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSplitCompound(t *testing.T) {
	kv, err := SplitCompoundProperty("margin", "1px 2px 3px")
	if err != nil {
		t.Fatal(err)
	}
	expected := []KeyValue{
		{"margin-top", "1px"},
		{"margin-right", "2px"},
		{"margin-bottom", "3px"},
		{"margin-left", "2px"},
	}
	for i, e := range expected {
		if kv[i] != e {
			t.Errorf("expected %v at position %d, is %v", e, i, kv[i])
		}
	}
	kv, err = SplitCompoundProperty("border-radius", "4px calc(1px + 2px)")
	if err != nil {
		t.Fatal(err)
	}
	if kv[0].Key != "border-top-left-radius" || kv[1].Value != "calc(1px + 2px)" {
		t.Errorf("unexpected border-radius split: %v", kv)
	}
	if _, err = SplitCompoundProperty("padding", "1px 2px 3px 4px 5px"); err == nil {
		t.Errorf("expected 5 values for padding to be rejected")
	}
	if _, err = SplitCompoundProperty("color", "red"); err == nil {
		t.Errorf("expected 'color' not to be a compound property")
	}
}

func TestInheritance(t *testing.T) {
	for _, key := range []string{"color", "font-size", "--my-var", "visibility"} {
		if !IsCascading(key) {
			t.Errorf("expected %q to be inherited", key)
		}
	}
	for _, key := range []string{"width", "opacity", "display", "margin-top"} {
		if IsCascading(key) {
			t.Errorf("expected %q not to be inherited", key)
		}
	}
	if !AcceptsLength("width") || AcceptsLength("color") {
		t.Errorf("length property table is inconsistent")
	}
	if !IsKnownProperty("display") || IsKnownProperty("colour") {
		t.Errorf("known property table is inconsistent")
	}
}

func TestComputedMapMerge(t *testing.T) {
	cm := NewComputedMap()
	cm.Set("color", Value{Value: "blue"})
	if !cm.Merge("color", Value{Value: "red", Important: true}) {
		t.Errorf("expected important value to override")
	}
	if cm.Merge("color", Value{Value: "green"}) {
		t.Errorf("expected non-important value not to override an important one")
	}
	if cm.GetPropertyValue("color") != "red" {
		t.Errorf("expected color to be red, is %q", cm.GetPropertyValue("color"))
	}
	cm.Set("width", Value{Value: "10px"})
	cm.Delete("color")
	if cm.Len() != 1 || cm.Keys()[0] != "width" {
		t.Errorf("expected only width to remain, have %v", cm.Keys())
	}
	var empty *ComputedMap
	if empty.Len() != 0 || empty.GetPropertyValue("x") != NullStyle {
		t.Errorf("expected nil map to be empty")
	}
	if cm.CSSText() != "width: 10px;" {
		t.Errorf("unexpected CSS text %q", cm.CSSText())
	}
}

func TestDefaults(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "styledom.style")
	defer teardown()
	//
	if DisplayPropertyForTag("DIV") != "block" {
		t.Errorf("expected div to be displayed as block")
	}
	if DisplayPropertyForTag("my-element") != "inline" {
		t.Errorf("expected unknown elements to be displayed inline")
	}
	if DisplayPropertyForTag("head") != "none" {
		t.Errorf("expected head not to be displayed")
	}
	if p, ok := InitialValue("position"); !ok || p != "static" {
		t.Errorf("expected initial position to be static, is %q", p)
	}
}

func TestColor(t *testing.T) {
	c := Property("rebeccapurple").Color()
	if c == nil {
		t.Fatalf("expected rebeccapurple to be a color")
	}
	if s := ColorString(c); s != "#663399" {
		t.Errorf("expected #663399, is %s", s)
	}
	if Property("no-color").Color() != nil {
		t.Errorf("expected invalid color to yield nil")
	}
	if s := ColorString(color.NRGBA{R: 255, A: 0}); s != "rgba(255, 0, 0, 0)" {
		t.Errorf("unexpected color string %s", s)
	}
}
