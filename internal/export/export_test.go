package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"railcheck/internal/store"
)

var exportTime = time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)

func sampleRecords() ([]*store.Record, []*store.Attachment) {
	records := []*store.Record{
		{ID: "a", Inspector: "Camille", Trainset: "4701", Carriage: "R1", Level: "haut", Zone: "WC", Comment: "Lavabo bouché"},
		{ID: "b", Inspector: "Camille", Trainset: "4701", Carriage: "M2", Level: "motrice", Zone: "Cabine de conduite", Comment: "Siège"},
		{ID: "c", Inspector: "Camille", Trainset: "4701", Carriage: "R3", Level: "exterieur", Zone: "Extérieur", Comment: "Tag"},
	}
	attachments := []*store.Attachment{
		{RecordID: "a", Name: "IMG_1.jpg", Data: []byte("one")},
		{RecordID: "a", Name: "IMG_2.jpg", Data: []byte("two")},
		{RecordID: "c", Name: "IMG_1.jpg", Data: []byte("three")},
		{RecordID: "gone", Name: "orphan.jpg", Data: []byte("x")},
	}
	return records, attachments
}

func openArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		files[f.Name] = body
	}
	return files
}

func TestBundle(t *testing.T) {
	records, attachments := sampleRecords()
	var buf bytes.Buffer
	res, err := New(Options{}, nil).Bundle(&buf, records, attachments, exportTime)
	if err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	if res.Name != "Inspection_TGV_2026-03-14_09h05.zip" || res.Spreadsheet != "Inspection_TGV_2026-03-14_09h05.xlsx" {
		t.Fatalf("result names = %+v", res)
	}
	if res.Records != 3 || res.Photos != 3 {
		t.Fatalf("result counts = %+v", res)
	}

	files := openArchive(t, buf.Bytes())
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	want := []string{
		"Inspection_TGV_2026-03-14_09h05.xlsx",
		"photos/",
		"photos/IMG_1 (2).jpg",
		"photos/IMG_1.jpg",
		"photos/IMG_2.jpg",
	}
	if strings.Join(names, "|") != strings.Join(want, "|") {
		t.Fatalf("entries = %v, want %v", names, want)
	}
	if string(files["photos/IMG_1 (2).jpg"]) != "three" {
		t.Fatalf("renamed photo content = %q", files["photos/IMG_1 (2).jpg"])
	}

	book, err := excelize.OpenReader(bytes.NewReader(files[res.Spreadsheet]))
	if err != nil {
		t.Fatalf("open spreadsheet: %v", err)
	}
	defer book.Close()
	rows, err := book.GetRows("Remarques")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header plus 3", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(Header, ",") {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][6] != "IMG_1.jpg, IMG_2.jpg" {
		t.Fatalf("photos cell = %q", rows[1][6])
	}
	if rows[2][3] != "motrice" || rows[2][4] != "Cabine de conduite" {
		t.Fatalf("power car row = %v", rows[2])
	}
	if rows[3][6] != "IMG_1 (2).jpg" {
		t.Fatalf("renamed photo cell = %q", rows[3][6])
	}
}

func TestBundleEmpty(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New(Options{}, nil).Bundle(&buf, nil, nil, exportTime); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("Bundle = %v, want ErrNothingToExport", err)
	}
	if buf.Len() != 0 {
		t.Fatal("nothing should be written for an empty export")
	}
}

func TestWriteFile(t *testing.T) {
	records, attachments := sampleRecords()
	dir := filepath.Join(t.TempDir(), "exports")
	exp := New(Options{FilePrefix: "Visite", SheetName: "Notes", PhotosDir: "/img/"}, nil)

	res, err := exp.WriteFile(dir, records, attachments, exportTime)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if res.Path != filepath.Join(dir, "Visite_2026-03-14_09h05.zip") || res.Bytes == 0 {
		t.Fatalf("result = %+v", res)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	files := openArchive(t, data)
	if _, ok := files["img/IMG_2.jpg"]; !ok {
		t.Fatalf("custom photos dir not used: %v", files)
	}
	book, err := excelize.OpenReader(bytes.NewReader(files["Visite_2026-03-14_09h05.xlsx"]))
	if err != nil {
		t.Fatalf("open spreadsheet: %v", err)
	}
	defer book.Close()
	if _, err := book.GetRows("Notes"); err != nil {
		t.Fatalf("custom sheet missing: %v", err)
	}
}

func TestWriteFileEmptyLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(Options{}, nil).WriteFile(dir, nil, nil, exportTime); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("WriteFile = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("unexpected files %v", entries)
	}
}
