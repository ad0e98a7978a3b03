package selector

import (
	"fmt"
	"strconv"
	"strings"
)

// parseNth parses an An+B expression, as used by :nth-child() and friends,
// into a position predicate. Positions are 1-based.
//
//	odd   → 2n+1
//	even  → 2n
//	5     → position 5
//	-n+3  → positions 1, 2 and 3
func parseNth(expr string) (func(int) bool, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if n := strings.IndexByte(s, 'n'); n >= 0 {
		// whitespace is allowed around the binary sign preceding B only
		rest := strings.TrimSpace(s[n+1:])
		if rest != "" && (rest[0] == '+' || rest[0] == '-') {
			rest = rest[:1] + strings.TrimLeft(rest[1:], nthSpace)
		}
		s = s[:n+1] + rest
	}
	if strings.ContainsAny(s, nthSpace) {
		return nil, fmt.Errorf("invalid An+B expression %q", expr)
	}
	switch s {
	case "":
		return nil, fmt.Errorf("empty An+B expression")
	case "odd":
		s = "2n+1"
	case "even":
		s = "2n"
	}
	a, b := 0, 0
	if n := strings.IndexByte(s, 'n'); n >= 0 {
		switch coeff := s[:n]; coeff {
		case "", "+":
			a = 1
		case "-":
			a = -1
		default:
			v, err := strconv.Atoi(coeff)
			if err != nil {
				return nil, fmt.Errorf("invalid An+B expression %q", expr)
			}
			a = v
		}
		if rest := s[n+1:]; rest != "" {
			if rest[0] != '+' && rest[0] != '-' {
				return nil, fmt.Errorf("invalid An+B expression %q", expr)
			}
			v, err := strconv.Atoi(rest)
			if err != nil {
				return nil, fmt.Errorf("invalid An+B expression %q", expr)
			}
			b = v
		}
	} else {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid An+B expression %q", expr)
		}
		b = v
	}
	return nthPredicate(a, b), nil
}

const nthSpace = " \t\n\r\f"

func nthPredicate(a, b int) func(int) bool {
	return func(n int) bool {
		switch {
		case a == 0:
			return n == b
		case a > 0 && n < b:
			return false
		case a < 0 && n > b:
			return false
		}
		if a >= 2 || a <= -2 {
			return (n-b)%a == 0
		}
		return true
	}
}
