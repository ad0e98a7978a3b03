/*
Package css implements CSS dimensions and the conversion of length tokens
into absolute pixel values.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/styledom/maybe"
	"github.com/npillmayer/tyse/core/dimen"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	kindMask      uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenEM      uint32 = 0x0100
	dimenEX      uint32 = 0x0200
	dimenCH      uint32 = 0x0300
	dimenREM     uint32 = 0x0400
	dimenVW      uint32 = 0x0500
	dimenVH      uint32 = 0x0600
	dimenVMIN    uint32 = 0x0700
	dimenVMAX    uint32 = 0x0800
	dimenPercent uint32 = 0x0900
	relativeMask uint32 = 0xff00
)

// DefaultFontSize is the font size in px of an unstyled document.
const DefaultFontSize = 16.0

// absolute units, as ratios of CSS pixels per unit
var pxPerUnit = map[string][2]float64{
	"px": {1, 1},
	"pt": {96, 72},
	"pc": {16, 1},
	"in": {96, 1},
	"cm": {9600, 254},
	"mm": {960, 254},
	"q":  {960, 1016},
}

func unitToPixels(n float64, unit string) (float64, bool) {
	r, ok := pxPerUnit[unit]
	if !ok {
		return 0, false
	}
	return n * r[0] / r[1], true
}

var relativeUnits = map[string]uint32{
	"em":   dimenEM,
	"ex":   dimenEX,
	"ch":   dimenCH,
	"rem":  dimenREM,
	"vw":   dimenVW,
	"vh":   dimenVH,
	"vmin": dimenVMIN,
	"vmax": dimenVMAX,
}

// ErrNotADimension is returned by ParseDimen for input which is not
// a CSS dimension.
var ErrNotADimension = errors.New("not a CSS dimension")

// DimenT is an option type for CSS dimensions.
// Absolute dimensions are held in CSS pixels, relative ones in their
// respective unit.
type DimenT struct {
	value float64
	flags uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| JustDimen px
	| Percentage n
	| ViewRel unit
	| FontRel unit
	| ContentRel Min N
	| ContentRel Max N
*/

func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	px, _ := unitToPixels(float64(x)/float64(dimen.PT), "pt")
	return DimenT{value: px, flags: dimenAbsolute}
}

// Pixels creates a CSS dimension of px pixels.
func Pixels(px float64) DimenT {
	return DimenT{value: px, flags: dimenAbsolute}
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n float64) DimenT {
	return DimenT{value: n, flags: dimenPercent}
}

// FontRelative creates a dimension relative to a font size, with unit
// one of "em", "rem", "ex" or "ch".
func FontRelative(n float64, unit string) DimenT {
	return DimenT{value: n, flags: relativeUnits[unit]}
}

// IsAbsolute is true for fixed dimensions.
func (d DimenT) IsAbsolute() bool {
	return d.flags&kindMask == dimenAbsolute
}

// IsRelative is true for font-, viewport- and percentage-relative dimensions.
func (d DimenT) IsRelative() bool {
	return d.flags&relativeMask > 0
}

// DU returns an absolute dimension in design units.
// For relative dimensions, DU returns 0.
func (d DimenT) DU() dimen.DU {
	if !d.IsAbsolute() {
		return 0
	}
	pt := d.value * 72 / 96
	return dimen.DU(math.Round(pt * float64(dimen.PT)))
}

func (d DimenT) String() string {
	switch {
	case d.flags&kindMask == dimenAuto:
		return "auto"
	case d.flags&kindMask == dimenInherit:
		return "inherit"
	case d.flags&kindMask == dimenInitial:
		return "initial"
	case d.IsAbsolute():
		return FormatPixels(d.value)
	case d.flags&relativeMask == dimenPercent:
		return strconv.FormatFloat(d.value, 'f', -1, 64) + "%"
	case d.IsRelative():
		for unit, f := range relativeUnits {
			if f == d.flags&relativeMask {
				return strconv.FormatFloat(d.value, 'f', -1, 64) + unit
			}
		}
	}
	return fmt.Sprintf("DimenT(%#x)", d.flags)
}

// --- Conversion ------------------------------------------------------------

// Context holds the environment for resolving relative dimensions.
type Context struct {
	RootFontSize   float64              // font size of the root element, in px
	FontSize       float64              // base for em/ex/ch, in px
	ViewportWidth  float64              // in px
	ViewportHeight float64              // in px
	PercentBase    maybe.Maybe[float64] // base for percentages, if resolvable
}

// DefaultContext returns a context with default font sizes and a viewport
// of 1024×768 pixels, where percentages are not resolvable.
func DefaultContext() Context {
	return Context{
		RootFontSize:   DefaultFontSize,
		FontSize:       DefaultFontSize,
		ViewportWidth:  1024,
		ViewportHeight: 768,
		PercentBase:    maybe.Nothing[float64](),
	}
}

// Pixels resolves d to an absolute value in px. Keywords and dimensions
// without a resolvable base yield Nothing.
func (d DimenT) Pixels(ctx Context) maybe.Maybe[float64] {
	if d.IsAbsolute() {
		return maybe.Just(d.value)
	}
	switch d.flags & relativeMask {
	case dimenEM:
		return maybe.Just(d.value * fontSize(ctx.FontSize))
	case dimenEX, dimenCH:
		return maybe.Just(d.value * fontSize(ctx.FontSize) / 2)
	case dimenREM:
		return maybe.Just(d.value * fontSize(ctx.RootFontSize))
	case dimenVW:
		return maybe.Just(d.value * ctx.ViewportWidth / 100)
	case dimenVH:
		return maybe.Just(d.value * ctx.ViewportHeight / 100)
	case dimenVMIN:
		return maybe.Just(d.value * math.Min(ctx.ViewportWidth, ctx.ViewportHeight) / 100)
	case dimenVMAX:
		return maybe.Just(d.value * math.Max(ctx.ViewportWidth, ctx.ViewportHeight) / 100)
	case dimenPercent:
		if ctx.PercentBase == nil {
			return maybe.Nothing[float64]()
		}
		return maybe.AndThen(func(base float64) maybe.Maybe[float64] {
			return maybe.Just(d.value * base / 100)
		}, ctx.PercentBase)
	}
	return maybe.Nothing[float64]()
}

func fontSize(fs float64) float64 {
	if fs <= 0 {
		return DefaultFontSize
	}
	return fs
}

// ToPixels converts a single length token (e.g., "2em", "12pt", "50%")
// into an absolute pixel value. Non-convertible tokens yield Nothing.
// Converting a px token returns its numeric value unchanged.
func ToPixels(token string, ctx Context) maybe.Maybe[float64] {
	d, err := ParseDimen(token)
	if err != nil {
		return maybe.Nothing[float64]()
	}
	return d.Pixels(ctx)
}

// FormatPixels formats px as a CSS pixel value, rounded to 1/1000 px.
func FormatPixels(px float64) string {
	px = math.Round(px*1000) / 1000
	if px == 0 {
		px = 0 // no negative zero
	}
	return strconv.FormatFloat(px, 'f', -1, 64) + "px"
}

// splitDimension splits a dimension token into its number and its unit.
func splitDimension(s string) (float64, string, error) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
		digits++
	}
	if digits == 0 {
		return 0, "", ErrNotADimension
	}
	if i+1 < len(s) && (s[i] == 'e' || s[i] == 'E') &&
		(s[i+1] >= '0' && s[i+1] <= '9' || (s[i+1] == '+' || s[i+1] == '-') && i+2 < len(s)) {
		j := i + 1
		if s[j] == '+' || s[j] == '-' {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	n, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %s", ErrNotADimension, s)
	}
	return n, strings.ToLower(s[i:]), nil
}

func dimenFromParts(n float64, unit string) (DimenT, error) {
	if unit == "" {
		if n == 0 {
			return Pixels(0), nil
		}
		return DimenT{}, ErrNotADimension
	}
	if unit == "%" {
		return Percentage(n), nil
	}
	if px, ok := unitToPixels(n, unit); ok {
		return Pixels(px), nil
	}
	if flag, ok := relativeUnits[unit]; ok {
		return DimenT{value: n, flags: flag}, nil
	}
	return DimenT{}, fmt.Errorf("%w: unknown unit %q", ErrNotADimension, unit)
}

// --- Matching --------------------------------------------------------------

func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

type Matcher struct {
	dimen DimenT
}

func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case (m.dimen.flags&kindMask != dimenNone) && (m.dimen.flags&kindMask) == (d.flags&kindMask):
		return m
	case (m.dimen.flags&relativeMask > 0) && (d.flags&relativeMask > 0):
		if (m.dimen.flags&relativeMask == dimenPercent) != (d.flags&relativeMask == dimenPercent) {
			return nil
		}
		return m
	case (m.dimen.flags&contentMask > 0) && (d.flags&contentMask > 0):
		return m
	}
	return nil
}

func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.IsAbsolute() {
		if du != nil {
			*du = m.dimen.DU()
		}
		return m
	}
	return nil
}

func (m *Matcher) Pixels(px *float64) *Matcher {
	if m.dimen.IsAbsolute() {
		if px != nil {
			*px = m.dimen.value
		}
		return m
	}
	return nil
}

func (m *Matcher) Percentage(p *float64) *Matcher {
	if m.dimen.flags&relativeMask == dimenPercent {
		if p != nil {
			*p = m.dimen.value
		}
		return m
	}
	return nil
}
