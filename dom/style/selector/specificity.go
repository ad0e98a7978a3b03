package selector

import "fmt"

// HostBonus is the fixed priority offset of chains containing :host or
// :host-context. It replaces the specificity of the host pseudo-class and its
// argument.
const HostBonus = 10

// Specificity is a CSS selector specificity (A, B, C):
// A counts ids, B counts classes, attributes and pseudo-classes,
// C counts type selectors and pseudo-elements.
type Specificity [3]int

// Weight collapses a specificity into a single comparable integer.
func (s Specificity) Weight() int {
	return clamp(s[0])*1000000 + clamp(s[1])*1000 + clamp(s[2])
}

func clamp(n int) int {
	if n > 999 {
		return 999
	}
	return n
}

// Add returns the component-wise sum of s and t.
func (s Specificity) Add(t Specificity) Specificity {
	return Specificity{s[0] + t[0], s[1] + t[1], s[2] + t[2]}
}

// Less compares two specificities.
func (s Specificity) Less(t Specificity) bool {
	for i := 0; i < 3; i++ {
		if s[i] != t[i] {
			return s[i] < t[i]
		}
	}
	return false
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s[0], s[1], s[2])
}

func maxSpecificity(s, t Specificity) Specificity {
	if s.Less(t) {
		return t
	}
	return s
}

func (c *Compound) specificity() (Specificity, bool) {
	var s Specificity
	host := false
	if c.ID != "" {
		s[0]++
	}
	s[1] += len(c.Classes) + len(c.Attributes)
	if c.Tag != "" && c.Tag != "*" {
		s[2]++
	}
	if c.PseudoElement != "" {
		s[2]++
	}
	for _, pc := range c.PseudoClasses {
		switch pc.Name {
		case "where":
		case "is", "matches", "-webkit-any", "not", "has":
			s = s.Add(pc.Group.Specificity())
		case "host", "host-context":
			host = true
		case "nth-child", "nth-last-child":
			s[1]++
			s = s.Add(pc.Of.Specificity())
		default:
			s[1]++
		}
	}
	return s, host
}

// calcSpecificity sets the static specificity of a chain.
func (ch *Chain) calcSpecificity() {
	ch.spec = Specificity{}
	ch.host = false
	for _, l := range ch.Links {
		s, host := l.specificity()
		ch.spec = ch.spec.Add(s)
		ch.host = ch.host || host
	}
}
