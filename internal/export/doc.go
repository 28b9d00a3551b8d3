// Package export bundles the inspection into a single zip archive: a
// spreadsheet with one row per remark and every photo under photos/.
//
// File names carry the local date and time of the export, for example
// Inspection_TGV_2026-03-14_09h05.xlsx inside Inspection_TGV_2026-03-14_09h05.zip.
package export
