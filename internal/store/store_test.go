package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"railcheck/internal/store"
	"railcheck/internal/testsupport"
)

func TestSaveAndListKeepInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.SaveRecord(t, st, "R2", "haut", "WC", "Lavabo bouché")
	second := testsupport.SaveRecord(t, st, "M1", "motrice", "Cabine de conduite", "Essuie-glace HS")
	third := testsupport.SaveRecord(t, st, "R2", "bas", "Face gauche", "Tablette cassée")

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q and %q", first.ID, second.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	records, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	for i, want := range []string{first.ID, second.ID, third.ID} {
		if records[i].ID != want {
			t.Fatalf("record %d = %s, want %s", i, records[i].ID, want)
		}
	}
	if records[1].Inspector != "Camille" || records[1].Zone != "Cabine de conduite" {
		t.Fatalf("unexpected record %#v", records[1])
	}
}

func TestSaveRequiresCarriageAndLevel(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := st.Save(context.Background(), store.Record{Carriage: "R1"}); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("Save without level = %v, want ErrInvalidRecord", err)
	}
}

func TestGetMissingRecord(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := st.Get(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get = %v, want ErrNotFound", err)
	}
}

func TestUpdateComment(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	rec := testsupport.SaveRecord(t, st, "R5", "haut", "WC", "old")

	updated, err := st.UpdateComment(ctx, rec.ID, "  Porte bloquée  ")
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if updated.Comment != "Porte bloquée" {
		t.Fatalf("comment = %q", updated.Comment)
	}
	if _, err := st.UpdateComment(ctx, rec.ID, "   "); !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("blank comment = %v, want ErrInvalidRecord", err)
	}
	if _, err := st.UpdateComment(ctx, "missing", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing record = %v, want ErrNotFound", err)
	}
}

func TestAttachmentsFollowRecord(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	keep := testsupport.SaveRecord(t, st, "R1", "haut", "WC", "keep")
	drop := testsupport.SaveRecord(t, st, "R1", "bas", "WC", "drop")

	if _, err := st.SaveAttachment(ctx, keep.ID, "a/b.jpg", "image/jpeg", testsupport.Bytes(10)); err != nil {
		t.Fatalf("SaveAttachment: %v", err)
	}
	if _, err := st.SaveAttachment(ctx, drop.ID, "c.jpg", "image/jpeg", testsupport.Bytes(5)); err != nil {
		t.Fatalf("SaveAttachment: %v", err)
	}
	if _, err := st.SaveAttachment(ctx, "missing", "d.jpg", "image/jpeg", nil); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("attachment for missing record = %v", err)
	}

	got, err := st.Get(ctx, keep.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Photos) != 1 || got.Photos[0] != "a-b.jpg" {
		t.Fatalf("photos = %v, want sanitized name", got.Photos)
	}

	atts, err := st.ListAttachments(ctx, keep.ID)
	if err != nil {
		t.Fatalf("ListAttachments: %v", err)
	}
	if len(atts) != 1 || atts[0].Size != 10 || len(atts[0].Data) != 10 {
		t.Fatalf("attachments = %#v", atts)
	}

	if err := st.Delete(ctx, drop.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := st.AllAttachments(ctx)
	if err != nil {
		t.Fatalf("AllAttachments: %v", err)
	}
	if len(all) != 1 || all[0].RecordID != keep.ID {
		t.Fatalf("attachments after delete = %#v", all)
	}
	if err := st.Delete(ctx, drop.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}

	n, err := st.DeleteAttachments(ctx, keep.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteAttachments = %d, %v", n, err)
	}
}

func TestProfileAndClear(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	empty, err := st.GetProfile(ctx)
	if err != nil || empty.Inspector != "" {
		t.Fatalf("empty profile = %#v, %v", empty, err)
	}
	if _, err := st.SetProfile(ctx, store.Profile{Inspector: " Camille ", Trainset: "4701"}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if _, err := st.SetProfile(ctx, store.Profile{Inspector: "Camille", Trainset: "4702"}); err != nil {
		t.Fatalf("SetProfile update: %v", err)
	}
	p, err := st.GetProfile(ctx)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.Inspector != "Camille" || p.Trainset != "4702" {
		t.Fatalf("profile = %#v", p)
	}

	rec := testsupport.SaveRecord(t, st, "R3", "exterieur", "Extérieur", "Tag")
	if _, err := st.SaveAttachment(ctx, rec.ID, "tag.jpg", "image/jpeg", testsupport.Bytes(3)); err != nil {
		t.Fatalf("SaveAttachment: %v", err)
	}
	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Records != 1 || stats.Attachments != 1 || stats.AttachmentBytes != 3 {
		t.Fatalf("stats = %#v", stats)
	}

	if err := st.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, _ = st.Stats(ctx)
	if stats != (store.Stats{}) {
		t.Fatalf("stats after clear = %#v", stats)
	}
	if p, _ := st.GetProfile(ctx); p.Inspector != "" {
		t.Fatalf("profile survived clear: %#v", p)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testsupport.SaveRecord(t, st, "R8", "haut", "WC", "persist")
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	records, err := reopened.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 || records[0].Comment != "persist" {
		t.Fatalf("records after reopen = %#v", records)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	st.Close()

	db, err := sql.Open("sqlite", cfg.DatabasePath())
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES ('999_future')"); err != nil {
		t.Fatalf("insert version: %v", err)
	}
	db.Close()

	if _, err := store.Open(cfg); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("Open = %v, want ErrSchemaMismatch", err)
	}
}
