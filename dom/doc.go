/*
Package dom provides a mutable document tree for HTML documents, including
shadow trees, as the input of CSS styling.

Status

Early draft: API may change frequently. Please stay patient.

Overview

Documents are parsed from HTML with golang.org/x/net/html and converted into
a tree of *Node. Declarative shadow roots (<template shadowrootmode="open">)
are attached to their parent elements while parsing. Shadow roots may also
be attached programmatically with AttachShadow.

Nodes implement interface w3cdom.Node, which is all the selector engine
needs to match selectors against them. Queries (QuerySelector,
QuerySelectorAll, Matches, Closest) are available on documents, shadow
roots and elements. Invalid selectors yield a *SelectorError carrying the
familiar browser message.

Every document or shadow root collects its style sheets from <style> and
<link rel="stylesheet"> elements and from adopted sheets (see StyleSheets).
Computed styles are cached on elements. Every mutation which may change the
outcome of the cascade invalidates all cached styles of a document.

Tree Implementation

Styling and layout of HTML/CSS involves a lot of operations on different trees.
We implement the document tree on top of a general purpose tree type
(package tree), which offers concurrency-safe operations to manipulate
tree nodes.

In a fully object oriented programming language we would subclass this
tree type for every type of tree in use, but in Go we resort to composition,
thus including a generic tree node in every DOM node. The tree node's
payload references the DOM node itself.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'styledom.dom'.
func tracer() tracing.Trace {
	return tracing.Select("styledom.dom")
}
