package selector

import (
	"fmt"

	tp "github.com/xlab/treeprint"
)

// Dump returns a tree representation of a selector group, for debugging.
func (g *Group) Dump() string {
	t := tp.New()
	dumpGroup(t, g)
	return t.String()
}

func dumpGroup(t tp.Tree, g *Group) {
	if g == nil {
		return
	}
	for _, ch := range g.Chains {
		label := fmt.Sprintf("%s %s", ch.text, ch.spec)
		if ch.Relative != None {
			label = fmt.Sprintf("[%s] %s", ch.Relative, label)
		}
		b := t.AddBranch(label)
		for _, l := range ch.Links {
			lb := b.AddBranch(fmt.Sprintf("%q %s", l.Combinator.String(), l.Compound))
			for _, pc := range l.PseudoClasses {
				if pc.Group != nil {
					dumpGroup(lb.AddBranch(":"+pc.Name), pc.Group)
				}
				if pc.Of != nil {
					dumpGroup(lb.AddBranch(":"+pc.Name+" of"), pc.Of)
				}
			}
		}
	}
}
