/*
Package cssom provides the CSS Object Model: style sheets and their rules.

Status

This is a very first draft. It is unstable and the API will change without
notice. Please be patient.

Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML. A style sheet
is an ordered list of rules. Style rules pair a selector with a list of
declarations; block at-rules (@media, @supports, @scope, @layer, …) carry a
condition and nest further rules.

A good explanation of styling may be found in

   https://hacks.mozilla.org/2017/08/inside-a-super-fast-css-engine-quantum-css-aka-stylo/

Style sheet text is parsed with the grammar parser of
https://github.com/tdewolff/parse. Parsing is forgiving, as required for CSS:
rules which cannot be understood are skipped and reported as diagnostics,
the rest of the sheet stays usable. Selectors of style rules are parsed
lazily, on first use by the cascade.

CSS handling is de-coupled by introducing interface StyleSheet.
An alternative parser may be found in sub-package douceuradapter.

Sheets are mutable through an API modelled after constructable style
sheets (InsertRule, DeleteRule, ReplaceSync, …). Every mutation increments a
process-wide generation counter, which clients use to invalidate caches of
computed styles.

Media queries and @supports conditions are evaluated by EvaluateMedia and
EvaluateSupports.

The styling component is difficult to document/describe without
diagrams. Think about documenting with https://github.com/robertkrimen/godocdown.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'styledom.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("styledom.cssom")
}
