package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zapponejosh/persiancal/internal/api"
	"github.com/zapponejosh/persiancal/internal/calendar"
	"github.com/zapponejosh/persiancal/internal/calendrica"
	"github.com/zapponejosh/persiancal/internal/config"
	"github.com/zapponejosh/persiancal/internal/database"
	"github.com/zapponejosh/persiancal/internal/metrics"
	"github.com/zapponejosh/persiancal/internal/persian"
)

// newRouter builds the real API over an in-memory cache.
func newRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.Open(database.DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		Locale:    "iran",
		Algorithm: persian.NameAstronomical,
	}
	m := metrics.New()
	conv := calendar.NewConverter(persian.Astronomical{Locale: calendrica.Iran}, calendrica.Iran, db,
		calendar.WithRecorder(m), calendar.WithLogger(logger))
	return api.SetupRoutes(api.NewHandlers(db, conv, cfg, m, logger), cfg, m, logger)
}

func TestRun_LeapYearRoundTrips(t *testing.T) {
	srv := httptest.NewServer(newRouter(t))
	defer srv.Close()

	outputFile := filepath.Join(t.TempDir(), "coverage.json")
	var out bytes.Buffer
	err := run(&out, &options{baseURL: srv.URL, startYear: 1403, years: 1, outputFile: outputFile})
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out.String())
	}

	for _, want := range []string{"Total Days Tested: 366", "1403: 366/366 days", "No failures!"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("read results: %v", err)
	}
	var saved struct {
		Analysis Analysis `json:"analysis"`
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if saved.Analysis.TotalSuccess != 366 {
		t.Errorf("TotalSuccess = %d, want 366", saved.Analysis.TotalSuccess)
	}
	if got := saved.Analysis.ByMonth["1403-12"].TotalDays; got != 30 {
		t.Errorf("1403-12 days = %d, want 30", got)
	}
}

func TestRun_ReportsMismatch(t *testing.T) {
	router := newRouter(t)

	// Answer one Persian lookup with the wrong day
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/persian/1404-01-05" {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"success":true,"data":{"fixed":1}}`)
			return
		}
		router.ServeHTTP(w, r)
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(&out, &options{baseURL: srv.URL, startYear: 1404, years: 1})
	if err == nil {
		t.Fatalf("run() error = nil, want failure\n%s", out.String())
	}
	if !strings.Contains(err.Error(), "1 of 365 days failed") {
		t.Errorf("run() error = %v", err)
	}
	for _, want := range []string{"1404-01: 1 failures", "1404-01-05 is RD 1, want 739335"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_YearLookupFails(t *testing.T) {
	srv := httptest.NewServer(newRouter(t))
	defer srv.Close()

	var out bytes.Buffer
	err := run(&out, &options{baseURL: srv.URL, startYear: 200000, years: 1})
	if err == nil {
		t.Fatal("run() error = nil for an out-of-range year")
	}
	if !strings.Contains(out.String(), "year lookup: VALIDATION_FAILED") {
		t.Errorf("output missing year lookup failure:\n%s", out.String())
	}
}

func TestYearList(t *testing.T) {
	got := yearList(-1, 3)
	want := []int{-1, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("yearList(-1, 3) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("yearList(-1, 3)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFormatPersian(t *testing.T) {
	if got := formatPersian(1403, 1, 1); got != "1403-01-01" {
		t.Errorf("formatPersian(1403, 1, 1) = %q", got)
	}
	if got := formatPersian(-5, 12, 30); got != "-0005-12-30" {
		t.Errorf("formatPersian(-5, 12, 30) = %q", got)
	}
}

func TestRootCmd_Unreachable(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--url", "http://127.0.0.1:1"})

	if err := cmd.Execute(); err == nil {
		t.Error("Execute() error = nil, want connection error")
	}
}
