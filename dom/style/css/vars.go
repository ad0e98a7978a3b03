package css

import (
	"strings"
)

// maxSubstitutions limits the rounds of var() substitution, breaking
// reference cycles between custom properties.
const maxSubstitutions = 32

// variables is the set of custom properties visible at an element.
type variables map[string]string

func (vars variables) clone() variables {
	c := make(variables, len(vars))
	for k, v := range vars {
		c[k] = v
	}
	return c
}

// substitute replaces var() references in value. References without
// fallback are substituted first, then references with fallback, until no
// var() is left. It returns false if a reference cannot be resolved.
func (vars variables) substitute(value string) (string, bool) {
	for i := 0; i < maxSubstitutions; i++ {
		if !strings.Contains(value, "var(") {
			return value, true
		}
		next, ok := vars.substituteOnce(value, false)
		if !ok {
			return value, false
		}
		if next == value {
			if next, ok = vars.substituteOnce(value, true); !ok {
				return value, false
			}
		}
		if next == value {
			return value, false
		}
		value = next
	}
	tracer().Errorf("var() substitution does not terminate for %q", value)
	return value, false
}

// substituteOnce replaces every innermost var() reference of value. With
// withFallback unset only references without fallback are replaced.
func (vars variables) substituteOnce(value string, withFallback bool) (string, bool) {
	var sb strings.Builder
	rest := value
	for {
		i := strings.Index(rest, "var(")
		if i < 0 {
			sb.WriteString(rest)
			return sb.String(), true
		}
		end := closingParen(rest, i+3)
		if end < 0 {
			return value, false // unbalanced
		}
		inner := rest[i+4 : end]
		if strings.Contains(inner, "var(") && !withFallback {
			// nested reference in the fallback; resolved in a later round
			sb.WriteString(rest[:end+1])
			rest = rest[end+1:]
			continue
		}
		name, fallback, hasFallback := strings.Cut(inner, ",")
		name = strings.TrimSpace(name)
		if hasFallback && !withFallback {
			sb.WriteString(rest[:end+1])
			rest = rest[end+1:]
			continue
		}
		sb.WriteString(rest[:i])
		if v, ok := vars[name]; ok && strings.TrimSpace(v) != "" {
			sb.WriteString(v)
		} else if hasFallback {
			sb.WriteString(strings.TrimSpace(fallback))
		} else {
			tracer().Debugf("unresolvable reference to %s", name)
			return value, false
		}
		rest = rest[end+1:]
	}
}

// closingParen returns the index of the parenthesis closing the one at
// position open, or -1.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
