// Package store persists inspection records, their photo attachments and the
// inspector profile in a single SQLite database.
//
// The schema is created from embedded migrations on Open. Records keep their
// insertion order, which is the order remarks appear in the history table and
// in the exported spreadsheet. Deleting a record removes its attachments
// through a foreign key cascade.
package store
