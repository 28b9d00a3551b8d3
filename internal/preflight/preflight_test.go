package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"railcheck/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Empty(t *testing.T) {
	if result := CheckReadableDirectory("test", ""); result.Passed || result.Detail != "not configured" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFile("maps", filepath.Join(dir, "maps.html")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
	if result := CheckFile("maps", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	path := filepath.Join(dir, "maps.html")
	if err := os.WriteFile(path, []byte("<map></map>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFile("maps", path); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}
	failures := Failures(results)
	// plans directory and maps.html are not created by the test config
	if len(failures) != 2 {
		t.Fatalf("failures = %v", failures)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithPlans("<map id=\"train-map\"></map>", nil))
	if failures := Failures(RunAll(context.Background(), cfg)); len(failures) != 0 {
		t.Fatalf("failures with plans = %v", failures)
	}
}
