// Package api defines wire-format types and the record service shared by the
// HTTP daemon and the CLI. It translates store models into transport-friendly
// DTOs and applies the checks a remark must pass before it is saved.
//
// # Key Types
//
// Record: a remark with its photo names and a formatted heading.
//
// Catalog: the train composition with levels, zones, notes and plans, so a
// client can build its selection screens without hardcoding the train.
//
// DaemonStatus: daemon running state, database location and record counts.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
// RecordService validates the carriage, level and zone through the catalog
// and enforces attachment limits; persistence stays in the store package.
package api
