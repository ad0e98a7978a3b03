package cssom

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Conditions of @media and @supports share a grammar:
//
//	condition := "not" term | term ( ("and" | "or") term )*
//	term      := "(" condition ")" | "(" leaf ")" | function "(" … ")"
//
// What a leaf is depends on the rule type: a media feature or a declaration.

// tokenize splits text into CSS tokens. Comments are dropped and runs of
// whitespace collapse into a single whitespace token.
func tokenize(text string) []css.Token {
	l := css.NewLexer(parse.NewInputString(text))
	var toks []css.Token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return toks
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			if len(toks) > 0 && toks[len(toks)-1].TokenType == css.WhitespaceToken {
				continue
			}
			data = []byte{' '}
		}
		toks = append(toks, css.Token{TokenType: tt, Data: parse.Copy(data)})
	}
}

func trimSpace(toks []css.Token) []css.Token {
	for len(toks) > 0 && toks[0].TokenType == css.WhitespaceToken {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].TokenType == css.WhitespaceToken {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func isIdent(t css.Token, name string) bool {
	return t.TokenType == css.IdentToken && strings.EqualFold(string(t.Data), name)
}

func isDelim(t css.Token, d string) bool {
	return t.TokenType == css.DelimToken && string(t.Data) == d
}

func joinTokens(toks []css.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

// blockEnd returns the index of the token closing the parenthesis or
// function at position i, or -1.
func blockEnd(toks []css.Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].TokenType {
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			if depth--; depth == 0 {
				return j
			}
		}
	}
	return -1
}

// splitCommas splits tokens at top-level commas.
func splitCommas(toks []css.Token) [][]css.Token {
	var parts [][]css.Token
	depth, start := 0, 0
	for i, t := range toks {
		switch t.TokenType {
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				parts = append(parts, toks[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, toks[start:])
}

// evalCondition evaluates a condition. Malformed conditions are false.
func evalCondition(toks []css.Token, leaf func([]css.Token) bool) bool {
	v, ok := condition(toks, leaf)
	return ok && v
}

// condition evaluates a condition and reports whether it is well-formed.
// "and" and "or" may not be mixed without parentheses, and "not" takes
// exactly one term.
func condition(toks []css.Token, leaf func([]css.Token) bool) (bool, bool) {
	toks = trimSpace(toks)
	if len(toks) == 0 {
		return false, false
	}
	if isIdent(toks[0], "not") {
		v, ok := evalTerm(toks[1:], leaf)
		return ok && !v, ok
	}
	terms, ops, ok := splitCondition(toks)
	if !ok {
		return false, false
	}
	result, ok := evalTerm(terms[0], leaf)
	if !ok {
		return false, false
	}
	for i, op := range ops {
		if op != ops[0] {
			return false, false
		}
		t, ok := evalTerm(terms[i+1], leaf)
		if !ok {
			return false, false
		}
		if op == "and" {
			result = result && t
		} else {
			result = result || t
		}
	}
	return result, true
}

// splitCondition splits "term op term op …" into terms and operators.
func splitCondition(toks []css.Token) ([][]css.Token, []string, bool) {
	var terms [][]css.Token
	var ops []string
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.TokenType == css.WhitespaceToken {
			i++
			continue
		}
		if len(terms) > len(ops) { // expecting an operator
			if !isIdent(t, "and") && !isIdent(t, "or") {
				return nil, nil, false
			}
			ops = append(ops, strings.ToLower(string(t.Data)))
			i++
			continue
		}
		if t.TokenType != css.LeftParenthesisToken && t.TokenType != css.FunctionToken {
			return nil, nil, false
		}
		end := blockEnd(toks, i)
		if end < 0 {
			return nil, nil, false
		}
		terms = append(terms, toks[i:end+1])
		i = end + 1
	}
	if len(terms) == 0 || len(terms) != len(ops)+1 {
		return nil, nil, false
	}
	return terms, ops, true
}

// evalTerm evaluates a single parenthesized or functional term. The second
// result is false for malformed terms.
func evalTerm(toks []css.Token, leaf func([]css.Token) bool) (bool, bool) {
	toks = trimSpace(toks)
	if len(toks) < 2 || blockEnd(toks, 0) != len(toks)-1 {
		return false, false
	}
	if toks[0].TokenType == css.LeftParenthesisToken {
		inner := trimSpace(toks[1 : len(toks)-1])
		if isNested(inner) {
			return condition(inner, leaf)
		}
	}
	return leaf(toks), true
}

// isNested is true if the content of a parenthesized term is itself a
// condition rather than a leaf.
func isNested(inner []css.Token) bool {
	if len(inner) == 0 {
		return false
	}
	if isIdent(inner[0], "not") || inner[0].TokenType == css.LeftParenthesisToken ||
		inner[0].TokenType == css.FunctionToken {
		_, _, ok := splitCondition(inner)
		return ok || isIdent(inner[0], "not")
	}
	return false
}
