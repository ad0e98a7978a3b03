/*
Package selector implements CSS selectors: a grammar parser turning selector
text into selector groups, and a matcher testing groups against nodes of a
document tree.

A selector group is a comma separated list of selector chains. A chain is a
sequence of compound selectors joined by combinators:

	div.note > p:not(.hidden) + ul li:nth-child(2n+1)

Parsing is done by an explicit scanner which tracks the nesting depth of
parentheses, brackets and quotes. The parser never relies on regular
expressions. Pseudo-classes taking selector arguments (:not, :is, :where,
:has, :host(), :host-context(), :nth-child(… of S)) are parsed recursively.
A :has() argument containing another :has() is dropped at parse time, so
matching never recurses unboundedly.

Matching walks a chain from right to left, reading the tree exclusively
through interface w3cdom.Node. Shadow trees are respected: without a host
context, matching never leaves a shadow tree; with a host context
(option WithHost), the host element is visible to :host and :host-context
only.

Every match carries a priority weight derived from CSS specificity, used by
the cascade for tie-breaking.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package selector

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'styledom.selector'.
func tracer() tracing.Trace {
	return tracing.Select("styledom.selector")
}
