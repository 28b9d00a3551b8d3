// Package daemon coordinates the long-running railcheck process.
//
// It wires configuration, the record store, the plan library and the HTTP
// API into a single lifecycle with flock-based locking to prevent multiple
// instances from sharing one database. The HTTP server exposes records,
// photos, exports and plan overlays; the /ws/overlay endpoint keeps one
// overlay rebuilder per connection so a client resizing its plan view gets
// a single fresh overlay once resizing settles.
//
// Keep orchestration here: overlay geometry lives in overlay, persistence in
// store, and record rules in api.
package daemon
