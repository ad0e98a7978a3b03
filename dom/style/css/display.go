package css

import (
	"fmt"
	"strings"

	"github.com/npillmayer/styledom/dom"
	"github.com/npillmayer/styledom/dom/style"
)

// DisplayMode is a type for CSS property "display".
type DisplayMode uint16

// Flags for box context and display mode (outer and inner).
const (
	NoMode          DisplayMode = iota   // unset or error condition
	DisplayNone     DisplayMode = 0x0001 // CSS outer display = none
	BlockMode       DisplayMode = 0x0002 // CSS block context (inner or outer)
	InlineMode      DisplayMode = 0x0004 // CSS inline context
	ContentsMode    DisplayMode = 0x0008 // CSS display = contents, no box
	FlowRootMode    DisplayMode = 0x0010 // CSS flow-root display property
	ListItemMode    DisplayMode = 0x0020 // CSS list-item display
	FlexMode        DisplayMode = 0x0040 // CSS inner display = flex
	GridMode        DisplayMode = 0x0080 // CSS inner display = grid
	TableMode       DisplayMode = 0x0100 // CSS table display property (inner or outer)
	InnerBlockMode  DisplayMode = 0x0200 // CSS inner block mode (inline-block)
	InnerInlineMode DisplayMode = 0x0400 // CSS inner inline mode (paragraphs)
)

var allDisplayModes = []DisplayMode{
	DisplayNone, BlockMode, InlineMode, ContentsMode, ListItemMode, FlowRootMode,
	FlexMode, GridMode, TableMode, InnerBlockMode, InnerInlineMode,
}

var displayModeNames = map[DisplayMode]string{
	NoMode: "NoMode", DisplayNone: "DisplayNone", BlockMode: "BlockMode",
	InlineMode: "InlineMode", ContentsMode: "ContentsMode", FlowRootMode: "FlowRootMode",
	ListItemMode: "ListItemMode", FlexMode: "FlexMode", GridMode: "GridMode",
	TableMode: "TableMode", InnerBlockMode: "InnerBlockMode",
	InnerInlineMode: "InnerInlineMode",
}

func (disp DisplayMode) String() string {
	if s, ok := displayModeNames[disp]; ok {
		return s
	}
	return disp.FullString()
}

// Outer returns outer mode
func (disp DisplayMode) Outer() DisplayMode {
	return disp & 0x000f
}

// Inner returns inner mode
func (disp DisplayMode) Inner() DisplayMode {
	return disp & 0xfff0
}

// IsBlockLevel return true if it has outer display level of BlockMode.
//
// A block-level element is defined as (CSS 2.1):
// Block-level elements are those elements of the source document that are formatted visually
// as blocks (e.g., paragraphs). The following values of the 'display' property make an element
// block-level: 'block', 'list-item', and 'table'.
func (disp DisplayMode) IsBlockLevel() bool {
	return disp&0x000f == BlockMode
}

// Contains checks if a display mode contains a given atomic mode.
// Returns false for d = NoMode.
func (disp DisplayMode) Contains(d DisplayMode) bool {
	return d != NoMode && (disp&d > 0)
}

// FullString returns all atomic modes set in a display mode.
func (disp DisplayMode) FullString() string {
	var names []string
	for _, m := range allDisplayModes {
		if disp.Contains(m) {
			names = append(names, displayModeNames[m])
		}
	}
	return strings.Join(names, " ")
}

// Symbol returns a Unicode symbol for a mode.
func (disp DisplayMode) Symbol() string {
	switch {
	case disp == NoMode:
		return "–"
	case disp.Contains(DisplayNone):
		return "∅"
	case disp.Contains(FlexMode):
		return "▤"
	case disp.Contains(GridMode):
		return "◰"
	case disp.Contains(TableMode):
		return "▥"
	case disp.Contains(ListItemMode):
		return "▣"
	case disp.Contains(BlockMode) || disp.Contains(InnerBlockMode):
		return "▩"
	case disp.Contains(InlineMode) || disp.Contains(InnerInlineMode):
		return "►"
	}
	return "?"
}

// ParseDisplay returns mode flags from a display property string (outer and inner).
func ParseDisplay(display style.Property) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(string(display))) {
	case "":
		return NoMode, nil
	case "none":
		return DisplayNone, nil
	case "contents":
		return ContentsMode, nil
	case "block", "block flow":
		return BlockMode | InnerBlockMode, nil
	case "inline", "inline flow":
		return InlineMode | InnerInlineMode, nil
	case "flow-root", "block flow-root":
		return BlockMode | FlowRootMode, nil
	case "list-item", "block list-item":
		return ListItemMode | BlockMode, nil
	case "inline-block", "inline flow-root":
		return InlineMode | InnerBlockMode, nil
	case "flex", "block flex":
		return BlockMode | FlexMode, nil
	case "inline-flex", "inline flex":
		return InlineMode | FlexMode, nil
	case "grid", "block grid":
		return BlockMode | GridMode, nil
	case "inline-grid", "inline grid":
		return InlineMode | GridMode, nil
	case "table", "block table":
		return BlockMode | TableMode, nil
	case "inline-table", "inline table":
		return InlineMode | TableMode, nil
	}
	if strings.HasPrefix(string(display), "table-") {
		return TableMode, nil
	}
	return BlockMode, fmt.Errorf("unknown display mode: %s", display)
}

// Display returns the display mode of an element, computed by the cascade.
// Unknown modes are reported as block mode.
func Display(el *dom.Node) DisplayMode {
	p, err := GetProperty(el, "display")
	if err != nil {
		return NoMode
	}
	mode, err := ParseDisplay(p)
	if err != nil {
		tracer().Debugf("%s: %v", el, err)
	}
	return mode
}
