// Package main hosts the railcheck CLI entrypoint and command graph.
//
// The Cobra-based command tree works directly against the local record
// store and plan library: filing remarks, attaching photos, exporting the
// inspection archive and rendering plan overlays. `railcheck serve` runs the
// daemon in the foreground and `railcheck status` probes it over HTTP.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
