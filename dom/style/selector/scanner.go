package selector

import (
	"strings"
)

// segment is the text of a compound selector at top level of a chain,
// together with the combinator preceding it.
type segment struct {
	text string
	comb Combinator
	pos  int // offset of text within the source
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// splitChains is the first scanning step. It splits a selector group into
// chains at top-level commas, and every chain into compound segments at
// top-level combinators. Parentheses, brackets and quotes are tracked by
// depth, so combinator and comma characters inside them are left alone.
func (p *parser) splitChains(text string, offset int) ([][]segment, error) {
	var chains [][]segment
	var segs []segment
	var quote byte
	paren, bracket := 0, 0
	start := -1
	comb, explicit, space := None, false, false
	flush := func(end int) {
		if start >= 0 {
			segs = append(segs, segment{text: text[start:end], comb: comb, pos: offset + start})
			start, comb, explicit, space = -1, None, false, false
		}
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		if paren == 0 && bracket == 0 {
			switch {
			case isSpace(c):
				flush(i)
				space = true
				continue
			case c == '>' || c == '+' || c == '~':
				flush(i)
				if explicit {
					return nil, p.errorf(offset+i, "unexpected combinator %q", c)
				}
				if len(segs) == 0 {
					return nil, p.errorf(offset+i, "selector must not start with combinator %q", c)
				}
				explicit = true
				comb = combinatorFor(c)
				continue
			case c == ',':
				flush(i)
				if explicit {
					return nil, p.errorf(offset+i, "dangling combinator before ','")
				}
				if len(segs) == 0 {
					return nil, p.errorf(offset+i, "empty selector in list")
				}
				chains = append(chains, segs)
				segs = nil
				comb, space = None, false
				continue
			}
		}
		if start < 0 { // begin of a new compound
			start = i
			if !explicit && len(segs) > 0 && space {
				comb = Descendant
			}
		}
		switch c {
		case '\\':
			i++
		case '"', '\'':
			quote = c
		case '(':
			paren++
		case ')':
			if paren--; paren < 0 {
				return nil, p.errorf(offset+i, "unbalanced ')'")
			}
		case '[':
			bracket++
		case ']':
			if bracket--; bracket < 0 {
				return nil, p.errorf(offset+i, "unbalanced ']'")
			}
		}
	}
	switch {
	case quote != 0:
		return nil, p.errorf(offset+len(text), "unterminated string")
	case paren > 0:
		return nil, p.errorf(offset+len(text), "missing ')'")
	case bracket > 0:
		return nil, p.errorf(offset+len(text), "missing ']'")
	}
	flush(len(text))
	if explicit {
		return nil, p.errorf(offset+len(text), "dangling combinator at end of selector")
	}
	if len(segs) == 0 {
		return nil, p.errorf(offset+len(text), "empty selector")
	}
	chains = append(chains, segs)
	return chains, nil
}

func combinatorFor(c byte) Combinator {
	switch c {
	case '>':
		return Child
	case '+':
		return Adjacent
	case '~':
		return Subsequent
	}
	return Descendant
}

// splitTopLevel splits text at every occurrence of sep which is not nested
// in parentheses, brackets or quotes.
func splitTopLevel(text string, sep byte) []string {
	var parts []string
	var quote byte
	depth, start := 0, 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\\':
			i++
		case '"', '\'':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		default:
			if c == sep && depth == 0 {
				parts = append(parts, text[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, text[start:])
}

// findClose returns the index of the character closing the bracket at
// position open, honoring nesting and quotes, or -1.
func findClose(text string, open int) int {
	opening := text[open]
	closing := byte(')')
	if opening == '[' {
		closing = ']'
	}
	var quote byte
	depth := 0
	for i := open; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\\':
			i++
		case '"', '\'':
			quote = c
		case opening:
			depth++
		case closing:
			if depth--; depth == 0 {
				return i
			}
		}
	}
	return -1
}

// --- Identifiers -----------------------------------------------------------

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c >= 0x80
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '-' || c == '_' ||
		c >= 0x80 || c == '\\'
}

// ident scans an identifier starting at position i. Escapes are resolved by
// dropping the backslash. It returns the identifier and the position
// following it.
func ident(text string, i int) (string, int) {
	var sb strings.Builder
	for i < len(text) {
		c := text[i]
		if c == '\\' {
			if i+1 >= len(text) {
				break
			}
			sb.WriteByte(text[i+1])
			i += 2
			continue
		}
		if !isNameChar(c) {
			break
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String(), i
}

func skipSpace(text string, i int) int {
	for i < len(text) && isSpace(text[i]) {
		i++
	}
	return i
}
