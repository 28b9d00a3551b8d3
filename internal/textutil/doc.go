// Package textutil provides the small text helpers shared by the catalog, the
// store and the exporter: accent-insensitive folding for zone matching,
// filesystem-safe names for attachments, and collision-free naming inside an
// archive.
package textutil
