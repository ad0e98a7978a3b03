/*
Package jsbind exposes documents to JavaScript, using the goja runtime.

Scripts see a global `document` with the query API (querySelector,
querySelectorAll, getElementById), element navigation and mutation,
attachShadow, and a global getComputedStyle backed by the cascade of package
css. Invalid selectors throw a SyntaxError carrying the message browsers
produce, missing arguments throw a TypeError.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package jsbind

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'styledom.js'.
func tracer() tracing.Trace {
	return tracing.Select("styledom.js")
}
