// Package overlay turns image-map regions into highlight shapes that track the
// rendered size of a plan image.
//
// Regions are declared once, in the natural pixel space of the reference
// image, and parsed from conventional <map>/<area> markup. Builder scales them
// into display space on every layout change and draws them onto a Canvas; the
// SVG canvas renders the result as a standalone document. Rebuilder coalesces
// bursts of resize notifications so only the last one in a burst rebuilds.
//
// The builder never fails on bad input: malformed regions are skipped one by
// one, a missing image, map or canvas turns the build into a no-op, and an
// image whose natural size is unknown is drawn at scale 1.
package overlay
