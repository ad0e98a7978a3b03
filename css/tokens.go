package css

import (
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/styledom/maybe"
	parse "github.com/tdewolff/parse/v2"
	tdcss "github.com/tdewolff/parse/v2/css"
)

// tracer traces with key 'styledom.css'.
func tracer() tracing.Trace {
	return tracing.Select("styledom.css")
}

// ParseDimen parses a single CSS dimension, e.g. "12px", "1.5em", "80%"
// or one of the keywords "auto", "inherit" or "initial".
// Surrounding whitespace is ignored.
func ParseDimen(s string) (DimenT, error) {
	l := tdcss.NewLexer(parse.NewInputString(s))
	var d DimenT
	found := false
	for {
		tt, data := l.Next()
		switch tt {
		case tdcss.ErrorToken:
			if !found {
				return DimenT{}, fmt.Errorf("%w: %q", ErrNotADimension, s)
			}
			return d, nil
		case tdcss.WhitespaceToken, tdcss.CommentToken:
			continue
		}
		if found { // more than one token
			return DimenT{}, fmt.Errorf("%w: %q", ErrNotADimension, s)
		}
		found = true
		var err error
		switch tt {
		case tdcss.DimensionToken, tdcss.PercentageToken, tdcss.NumberToken:
			var n float64
			var unit string
			if n, unit, err = splitDimension(string(data)); err == nil {
				d, err = dimenFromParts(n, unit)
			}
		case tdcss.IdentToken:
			switch strings.ToLower(string(data)) {
			case "auto":
				d = Auto()
			case "inherit":
				d = Inherit()
			case "initial":
				d = Initial()
			default:
				err = ErrNotADimension
			}
		default:
			err = ErrNotADimension
		}
		if err != nil {
			return DimenT{}, fmt.Errorf("%w: %q", ErrNotADimension, s)
		}
	}
}

// ReplaceLengths scans a property value and converts every convertible
// length token to px, leaving all other tokens untouched. Percentages
// are converted only if ctx carries a percentage base.
func ReplaceLengths(value string, ctx Context) string {
	if !strings.ContainsAny(value, "0123456789") {
		return value
	}
	l := tdcss.NewLexer(parse.NewInputString(value))
	var sb strings.Builder
	changed := false
	for {
		tt, data := l.Next()
		if tt == tdcss.ErrorToken {
			break
		}
		if tt == tdcss.DimensionToken || tt == tdcss.PercentageToken {
			var px float64
			switch m := ToPixels(string(data), ctx).Match(); m {
			case m.Just(&px):
				sb.WriteString(FormatPixels(px))
				changed = true
				continue
			case m.Nothing():
			}
		}
		sb.Write(data)
	}
	if !changed {
		return value
	}
	tracer().Debugf("css: %q resolved to %q", value, sb.String())
	return sb.String()
}

// PercentOf returns a percentage base for a Context.
func PercentOf(base float64) maybe.Maybe[float64] {
	return maybe.Just(base)
}
