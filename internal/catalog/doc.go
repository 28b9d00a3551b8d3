// Package catalog describes the train set being inspected: which carriages
// exist, which levels each one offers, the zones a remark can be filed
// against, and which plan image and region map belong to each level.
//
// The composition is fixed: two power cars (M1, M2) framing eight trailers
// (R1 to R8). R4 is the bar car and has no lower saloon. Power cars have no
// plan; their remarks go straight to a zone picked from a short list.
//
// Selection carries the current carriage, level and zone as a plain value.
// Each Select method returns an updated copy, so callers own their state.
package catalog
