package cssom

import (
	"strings"

	"github.com/npillmayer/styledom/dom/style"
	"github.com/npillmayer/styledom/dom/style/selector"
	"github.com/tdewolff/parse/v2/css"
)

// EvaluateSupports evaluates the condition of an @supports rule, e.g.
// "(display: grid) and (not (display: inline-grid))" or
// "selector(:has(> img))".
//
// A declaration is supported if its property is known and it carries a
// value; values are not validated.
func EvaluateSupports(cond string) bool {
	return evalCondition(tokenize(cond), supportsLeaf)
}

func supportsLeaf(toks []css.Token) bool {
	inner := trimSpace(toks[1 : len(toks)-1])
	if toks[0].TokenType == css.FunctionToken {
		switch strings.ToLower(string(toks[0].Data)) {
		case "selector(":
			_, err := selector.Parse(joinTokens(inner))
			return err == nil
		}
		return false
	}
	if len(inner) < 3 {
		return false
	}
	switch inner[0].TokenType {
	case css.IdentToken, css.CustomPropertyNameToken:
	default:
		return false
	}
	name := strings.ToLower(string(inner[0].Data))
	rest := trimSpace(inner[1:])
	if len(rest) < 2 || rest[0].TokenType != css.ColonToken || len(trimSpace(rest[1:])) == 0 {
		return false
	}
	return style.IsCustomProperty(name) || style.IsKnownProperty(name)
}
