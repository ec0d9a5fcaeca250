package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zapponejosh/persiancal/internal/database"
)

// warmedDB returns a cache file holding new years 1400-1403.
func warmedDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	if _, err := execute(t, "--db", dbPath, "warm", "1400", "1402"); err != nil {
		t.Fatalf("warm error = %v", err)
	}
	return dbPath
}

func TestCacheStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	out, err := execute(t, "--db", dbPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats error = %v", err)
	}
	if !strings.Contains(out, "Cache is empty.") {
		t.Errorf("empty stats output = %q", out)
	}

	if _, err := execute(t, "--db", dbPath, "warm", "1400", "1402"); err != nil {
		t.Fatalf("warm error = %v", err)
	}
	out, err = execute(t, "--db", dbPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats error = %v", err)
	}
	for _, want := range []string{"astronomical", "35.5,52.5", "4", "1400", "1403"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheExportImport(t *testing.T) {
	src := warmedDB(t)
	exportPath := filepath.Join(t.TempDir(), "export.json")

	if _, err := execute(t, "--db", src, "cache", "export", "-o", exportPath); err != nil {
		t.Fatalf("cache export error = %v", err)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var doc database.CacheExport
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.Metadata.Count != 4 || len(doc.NewYears) != 4 {
		t.Fatalf("export count = %d/%d, want 4", doc.Metadata.Count, len(doc.NewYears))
	}
	if doc.Metadata.Source != src {
		t.Errorf("Source = %q, want %q", doc.Metadata.Source, src)
	}
	if got := doc.NewYears[3]; got.PersianYear != 1403 || got.FixedDate != 738965 || !got.IsLeap() {
		t.Errorf("NewYears[3] = %+v, want 1403 at 738965, leap", got)
	}

	dst := filepath.Join(t.TempDir(), "copy.db")
	out, err := execute(t, "--db", dst, "cache", "import", exportPath)
	if err != nil {
		t.Fatalf("cache import error = %v", err)
	}
	if !strings.Contains(out, "imported 4 new years") || !strings.Contains(out, "cache now holds 4") {
		t.Errorf("import output = %q", out)
	}

	// Importing again replaces rows rather than duplicating them
	out, err = execute(t, "--db", dst, "cache", "import", exportPath)
	if err != nil {
		t.Fatalf("second import error = %v", err)
	}
	if !strings.Contains(out, "cache now holds 4") {
		t.Errorf("second import output = %q", out)
	}
}

func TestCacheExport_Stdout(t *testing.T) {
	src := warmedDB(t)

	out, err := execute(t, "--db", src, "cache", "export")
	if err != nil {
		t.Fatalf("cache export error = %v", err)
	}
	var doc database.CacheExport
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode stdout export: %v\n%s", err, out)
	}
	if len(doc.NewYears) != 4 {
		t.Errorf("len(NewYears) = %d, want 4", len(doc.NewYears))
	}
}

func TestCacheImport_RollsBack(t *testing.T) {
	doc := database.CacheExport{
		NewYears: []database.NewYear{
			{Algorithm: "astronomical", Locale: "35.5,52.5", PersianYear: 1403, FixedDate: 738965, YearLength: 366},
			{Algorithm: "astronomical", Locale: "35.5,52.5", PersianYear: 1404, FixedDate: 739331, YearLength: 364},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	importPath := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(importPath, data, 0o644); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "cache.db")
	if _, err := execute(t, "--db", dbPath, "cache", "import", importPath); err == nil {
		t.Fatal("import of a 364-day year accepted")
	}

	out, err := execute(t, "--db", dbPath, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats error = %v", err)
	}
	if !strings.Contains(out, "Cache is empty.") {
		t.Errorf("failed import left rows behind:\n%s", out)
	}
}

func TestCacheImport_BadFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	importPath := filepath.Join(t.TempDir(), "garbage.json")
	if err := os.WriteFile(importPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write import file: %v", err)
	}

	if _, err := execute(t, "--db", dbPath, "cache", "import", importPath); err == nil {
		t.Error("malformed import accepted")
	}
	if _, err := execute(t, "--db", dbPath, "cache", "import", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing import file accepted")
	}
}

func TestCacheClear(t *testing.T) {
	dbPath := warmedDB(t)

	out, err := execute(t, "--db", dbPath, "--algorithm", "arithmetic", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if !strings.Contains(out, "deleted 0 new years") {
		t.Errorf("arithmetic clear output = %q", out)
	}

	out, err = execute(t, "--db", dbPath, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if !strings.Contains(out, "deleted 4 new years") {
		t.Errorf("clear output = %q", out)
	}
}

func TestCacheClear_All(t *testing.T) {
	dbPath := warmedDB(t)
	if _, err := execute(t, "--db", dbPath, "--algorithm", "arithmetic", "warm", "1400", "1400"); err != nil {
		t.Fatalf("warm error = %v", err)
	}

	out, err := execute(t, "--db", dbPath, "cache", "clear", "--all")
	if err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if !strings.Contains(out, "deleted 6 new years") {
		t.Errorf("clear --all output = %q", out)
	}
}

func TestCache_RequiresDB(t *testing.T) {
	for _, sub := range []string{"stats", "export", "clear"} {
		if _, err := execute(t, "cache", sub); err == nil {
			t.Errorf("cache %s without --db accepted", sub)
		}
	}
}
