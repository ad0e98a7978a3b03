package style

import (
	"fmt"
	"image/color"

	"github.com/mazznoer/csscolorparser"
)

// Color interprets a property value as a CSS color. Values which are not
// parsable colors, as well as "default", yield nil.
func (p Property) Color() color.Color {
	if p == "default" || p.IsEmpty() {
		return nil
	}
	c, err := csscolorparser.Parse(string(p))
	if err != nil {
		tracer().Debugf("style: cannot parse color %q: %v", p, err)
		return nil
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// ColorString returns a CSS notation for a color: "#rrggbb" for opaque
// colors, "rgba(…)" otherwise, and "none" for nil.
func ColorString(c color.Color) string {
	if c == nil {
		return "none"
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	if nc.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", nc.R, nc.G, nc.B)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.3g)", nc.R, nc.G, nc.B, float64(nc.A)/255)
}
