package testsupport

import (
	"context"
	"testing"

	"railcheck/internal/config"
	"railcheck/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SaveRecord creates a record for tests using the provided store.
func SaveRecord(t testing.TB, st *store.Store, carriage, level, zone, comment string) *store.Record {
	t.Helper()

	rec, err := st.Save(context.Background(), store.Record{
		Inspector: "Camille",
		Trainset:  "4701",
		Carriage:  carriage,
		Level:     level,
		Zone:      zone,
		Comment:   comment,
	})
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return rec
}
