package cssom

import (
	"slices"
	"strconv"
	"strings"

	units "github.com/npillmayer/styledom/css"
	"github.com/tdewolff/parse/v2/css"
)

// MediaContext describes the environment media queries are evaluated in.
type MediaContext struct {
	Width, Height float64 // viewport size in px
	MediaType     string  // "screen" or "print"
	ColorScheme   string  // "light" or "dark"
	ReducedMotion bool
	RootFontSize  float64 // in px; zero means 16
}

// DefaultMediaContext is a 1024×768 light screen.
func DefaultMediaContext() MediaContext {
	return MediaContext{
		Width:       1024,
		Height:      768,
		MediaType:   "screen",
		ColorScheme: "light",
	}
}

// EvaluateMedia evaluates a media query list, like
// "screen and (min-width: 600px), print". The empty list matches.
// Unknown media features evaluate to false.
func EvaluateMedia(query string, ctx MediaContext) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	for _, q := range splitCommas(tokenize(query)) {
		if ctx.evalQuery(trimSpace(q)) {
			return true
		}
	}
	return false
}

func (ctx MediaContext) evalQuery(toks []css.Token) bool {
	if len(toks) == 0 {
		return false
	}
	if toks[0].TokenType == css.LeftParenthesisToken ||
		(isIdent(toks[0], "not") && len(trimSpace(toks[1:])) > 0 &&
			trimSpace(toks[1:])[0].TokenType == css.LeftParenthesisToken) {
		return evalCondition(toks, ctx.feature)
	}
	negate := false
	if isIdent(toks[0], "not") {
		negate = true
		toks = trimSpace(toks[1:])
	} else if isIdent(toks[0], "only") {
		toks = trimSpace(toks[1:])
	}
	if len(toks) == 0 || toks[0].TokenType != css.IdentToken {
		return false
	}
	mediaType := strings.ToLower(string(toks[0].Data))
	match := mediaType == "all" || mediaType == strings.ToLower(ctx.mediaType())
	if rest := trimSpace(toks[1:]); len(rest) > 0 {
		if !isIdent(rest[0], "and") {
			return false
		}
		if _, ops, ok := splitCondition(trimSpace(rest[1:])); ok && slices.Contains(ops, "or") {
			return false // media types combine with and-conditions only
		}
		cond, ok := condition(rest[1:], ctx.feature)
		if !ok {
			return false
		}
		match = match && cond
	}
	return match != negate
}

func (ctx MediaContext) mediaType() string {
	if ctx.MediaType == "" {
		return "screen"
	}
	return ctx.MediaType
}

func (ctx MediaContext) lengthContext() units.Context {
	c := units.DefaultContext()
	if ctx.RootFontSize > 0 {
		c.RootFontSize, c.FontSize = ctx.RootFontSize, ctx.RootFontSize
	}
	c.ViewportWidth, c.ViewportHeight = ctx.Width, ctx.Height
	return c
}

// feature evaluates a parenthesized media feature, e.g. "(min-width: 40em)",
// "(hover)" or "(400px <= width < 800px)".
func (ctx MediaContext) feature(toks []css.Token) bool {
	if toks[0].TokenType != css.LeftParenthesisToken {
		return false
	}
	inner := trimSpace(toks[1 : len(toks)-1])
	if len(inner) == 0 {
		return false
	}
	for _, t := range inner {
		if isDelim(t, "<") || isDelim(t, ">") || isDelim(t, "=") {
			return ctx.featureRange(inner)
		}
	}
	if inner[0].TokenType != css.IdentToken {
		return false
	}
	name := strings.ToLower(string(inner[0].Data))
	rest := trimSpace(inner[1:])
	if len(rest) == 0 {
		return ctx.booleanFeature(name)
	}
	if rest[0].TokenType != css.ColonToken {
		return false
	}
	value := trimSpace(rest[1:])
	op := "="
	if strings.HasPrefix(name, "min-") {
		name, op = name[4:], ">="
	} else if strings.HasPrefix(name, "max-") {
		name, op = name[4:], "<="
	}
	return ctx.compareFeature(name, op, value)
}

func (ctx MediaContext) booleanFeature(name string) bool {
	switch name {
	case "width", "height", "color", "hover", "any-hover", "pointer", "any-pointer", "aspect-ratio",
		"orientation", "resolution", "prefers-color-scheme":
		return true
	case "prefers-reduced-motion":
		return ctx.ReducedMotion
	}
	return false
}

// compareFeature tests "feature op value", where op is one of "<", "<=",
// "=", ">=", ">".
func (ctx MediaContext) compareFeature(name, op string, value []css.Token) bool {
	text := strings.ToLower(joinTokens(value))
	switch name {
	case "width", "height", "device-width", "device-height":
		px, ok := units.ToPixels(text, ctx.lengthContext()).Get()
		if !ok {
			return false
		}
		actual := ctx.Width
		if strings.HasSuffix(name, "height") {
			actual = ctx.Height
		}
		return compare(actual, op, px)
	case "aspect-ratio", "device-aspect-ratio":
		ratio, ok := parseRatio(text)
		if !ok || ctx.Height == 0 {
			return false
		}
		return compare(ctx.Width/ctx.Height, op, ratio)
	case "resolution":
		dppx, ok := parseResolution(text)
		return ok && compare(1, op, dppx)
	case "color":
		n, err := strconv.ParseFloat(text, 64)
		return err == nil && compare(8, op, n)
	case "monochrome", "grid":
		n, err := strconv.ParseFloat(text, 64)
		return err == nil && compare(0, op, n)
	}
	if op != "=" {
		return false
	}
	switch name {
	case "orientation":
		if ctx.Height >= ctx.Width {
			return text == "portrait"
		}
		return text == "landscape"
	case "prefers-color-scheme":
		scheme := ctx.ColorScheme
		if scheme == "" {
			scheme = "light"
		}
		return text == strings.ToLower(scheme)
	case "prefers-reduced-motion":
		if ctx.ReducedMotion {
			return text == "reduce"
		}
		return text == "no-preference"
	case "hover", "any-hover":
		return text == "hover"
	case "pointer", "any-pointer":
		return text == "fine"
	case "scripting":
		return text == "enabled"
	}
	tracer().Debugf("unknown media feature %q", name)
	return false
}

// featureRange evaluates range syntax, e.g. "width >= 600px" or
// "400px <= width <= 700px".
func (ctx MediaContext) featureRange(inner []css.Token) bool {
	var operands [][]css.Token
	var ops []string
	start := 0
	for i := 0; i < len(inner); i++ {
		if !isDelim(inner[i], "<") && !isDelim(inner[i], ">") && !isDelim(inner[i], "=") {
			continue
		}
		op := string(inner[i].Data)
		if i+1 < len(inner) && isDelim(inner[i+1], "=") {
			op += "="
		}
		operands = append(operands, trimSpace(inner[start:i]))
		ops = append(ops, op)
		i += len(op) - 1
		start = i + 1
	}
	operands = append(operands, trimSpace(inner[start:]))
	if len(ops) == 0 || len(ops) > 2 {
		return false
	}
	for i, op := range ops {
		left, right := operands[i], operands[i+1]
		switch {
		case len(left) == 1 && left[0].TokenType == css.IdentToken:
			if !ctx.compareFeature(strings.ToLower(string(left[0].Data)), op, right) {
				return false
			}
		case len(right) == 1 && right[0].TokenType == css.IdentToken:
			if !ctx.compareFeature(strings.ToLower(string(right[0].Data)), mirror(op), left) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func mirror(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	}
	return op
}

func compare(a float64, op string, b float64) bool {
	const eps = 1e-9
	switch op {
	case "<":
		return a < b-eps
	case "<=":
		return a <= b+eps
	case ">":
		return a > b+eps
	case ">=":
		return a >= b-eps
	}
	return a > b-eps && a < b+eps
}

func parseRatio(s string) (float64, bool) {
	parts := strings.Split(s, "/")
	if len(parts) == 1 {
		n, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		return n, err == nil
	}
	if len(parts) != 2 {
		return 0, false
	}
	a, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	b, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || b == 0 {
		return 0, false
	}
	return a / b, true
}

func parseResolution(s string) (float64, bool) {
	unit := map[string]float64{"dppx": 1, "x": 1, "dpi": 1.0 / 96, "dpcm": 2.54 / 96}
	for _, u := range []string{"dppx", "dpcm", "dpi", "x"} {
		if strings.HasSuffix(s, u) {
			n, err := strconv.ParseFloat(strings.TrimSuffix(s, u), 64)
			return n * unit[u], err == nil
		}
	}
	return 0, false
}
