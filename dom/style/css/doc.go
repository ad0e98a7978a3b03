/*
Package css provides functionality for CSS styling.

CSS properties are plentyful and some of them are complicated.
This package trys to shield clients from the cumbersome handling of
CSS properties resulting of (1) the textual nature of CSS properties
and (2) the complicated semantics of computing style attributes for a
given node.

Computing the style of an element walks its shadow-including ancestors
top-down. Every ancestor collects the rules matching it, from the sheets of
the document and of the shadow trees it belongs to, and from the shadow
sheets of the ancestors hosting a shadow root (for :host rules). Matched
rules are ordered by specificity and merged with the user agent defaults and
the element's style attribute. Inherited properties flow down from ancestor
to descendant, custom properties are substituted, and lengths are resolved
to pixels.

Results are cached on the element (see dom.Node.CachedStyle) until the
document or any style sheet changes.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

// see
// https://developer.mozilla.org/en-US/docs/Web/CSS/Reference#dom-css_cssom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'styledom.css'.
func tracer() tracing.Trace {
	return tracing.Select("styledom.css")
}
