// Command apitest runs smoke checks with known calendar values against a
// running persiancal API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Date is a numeric date triple in any calendar.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DescribeResponse is the response for the fixed, gregorian, julian and
// persian routes.
type DescribeResponse struct {
	Fixed     int64  `json:"fixed"`
	DayName   string `json:"day_name"`
	Gregorian Date   `json:"gregorian"`
	Julian    Date   `json:"julian"`
	Persian   struct {
		Date
		Era       string `json:"era"`
		DayOfYear int    `json:"day_of_year"`
		Leap      bool   `json:"leap"`
	} `json:"persian"`
	Algorithm string `json:"algorithm"`
	Locale    string `json:"locale"`
}

// YearResponse is the response for /persian/years/{year}
type YearResponse struct {
	Year         int   `json:"year"`
	NewYear      int64 `json:"new_year"`
	Length       int   `json:"length"`
	Leap         bool  `json:"leap"`
	MonthLengths []int `json:"month_lengths"`
}

// LeapYearsResponse is the response for /persian/leap-years
type LeapYearsResponse struct {
	LeapYears []int `json:"leap_years"`
	Count     int   `json:"count"`
}

// NowruzResponse is the response for /nowruz/{gyear}
type NowruzResponse struct {
	PersianYear int    `json:"persian_year"`
	Fixed       int64  `json:"fixed"`
	Gregorian   Date   `json:"gregorian"`
	DayName     string `json:"day_name"`
}

// AstroResponse is the response for /astro/{moment}
type AstroResponse struct {
	SolarLongitude      float64 `json:"solar_longitude"`
	EquationOfTime      float64 `json:"equation_of_time"`
	EphemerisCorrection float64 `json:"ephemeris_correction"`
	EphemerisModel      string  `json:"ephemeris_model"`
	Midday              float64 `json:"midday"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status    string `json:"status"`
	Algorithm string `json:"algorithm"`
	Locale    string `json:"locale"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string

	// Literal values below assume the default configuration.
	astronomical bool
}

func NewTestRunner(baseURL, apiKey string, verbose bool, out io.Writer) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		out:     out,
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Persian Calendar API Test Suite")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	// Run test groups
	tr.testHealth()
	tr.testConversions()
	tr.testYears()
	tr.testNowruz()
	tr.testAstro()
	tr.testEdgeCases()
	if tr.apiKey != "" {
		tr.testAdmin()
	}

	// Print summary
	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status != "healthy" {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Health check passed (%s, locale %s)", health.Algorithm, health.Locale))

	tr.astronomical = health.Algorithm == "astronomical" && health.Locale == "35.5,52.5"
	if !tr.astronomical {
		fmt.Fprintln(tr.out, "  ! server is not astronomical/iran; literal checks may differ")
	}
}

func (tr *TestRunner) testConversions() {
	tr.printSection("Conversions")

	testCases := []struct {
		path        string
		fixed       int64
		persian     Date
		description string
	}{
		{"/api/v1/fixed/738965", 738965, Date{1403, 1, 1}, "Nowruz 1403 by day number"},
		{"/api/v1/gregorian/2024-03-20", 738965, Date{1403, 1, 1}, "Nowruz 1403 from Gregorian"},
		{"/api/v1/julian/2024-03-07", 738965, Date{1403, 1, 1}, "Nowruz 1403 from Julian"},
		{"/api/v1/persian/1403-12-30", 739330, Date{1403, 12, 30}, "Leap day of 1403"},
		{"/api/v1/persian/1365-12-11", 725432, Date{1365, 12, 11}, "1987-03-02"},
		{"/api/v1/gregorian/1979-02-11", 722491, Date{1357, 11, 22}, "1979-02-11"},
		{"/api/v1/gregorian/2000-01-01", 730120, Date{1378, 10, 11}, "Y2K"},
		{"/api/v1/fixed/0", 0, Date{-622, 10, 10}, "Day zero, before the epoch"},
	}

	for _, tc := range testCases {
		var data DescribeResponse
		if err := tr.getData(tc.path, &data); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}

		if data.Fixed != tc.fixed || data.Persian.Date != tc.persian {
			tr.recordError(tc.path, fmt.Sprintf("Expected %d / %s, got %d / %s",
				tc.fixed, tc.persian, data.Fixed, data.Persian.Date))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %d = %s %s (%s)",
			tc.path, data.Fixed, data.Persian.Date, data.Persian.Era, tc.description))

		if tr.verbose {
			fmt.Fprintf(tr.out, "    %s, Gregorian %s, Julian %s, day %d of Persian year\n",
				data.DayName, data.Gregorian, data.Julian, data.Persian.DayOfYear)
		}
	}
}

func (tr *TestRunner) testYears() {
	tr.printSection("Persian Years")

	for _, tc := range []struct {
		year   int
		length int
	}{{1403, 366}, {1404, 365}} {
		var data YearResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/persian/years/%d", tc.year), &data); err != nil {
			tr.recordError(fmt.Sprint(tc.year), err.Error())
			continue
		}
		if data.Length != tc.length {
			tr.recordError(fmt.Sprint(tc.year), fmt.Sprintf("Expected %d days, got %d", tc.length, data.Length))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%d has %d days, months %v", tc.year, data.Length, data.MonthLengths))
	}

	var leaps LeapYearsResponse
	if err := tr.getData("/api/v1/persian/leap-years?from=1390&to=1410", &leaps); err != nil {
		tr.recordError("Leap years", err.Error())
		return
	}
	want := "[1391 1395 1399 1403 1408]"
	if got := fmt.Sprint(leaps.LeapYears); got != want && tr.astronomical {
		tr.recordError("Leap years", fmt.Sprintf("Expected %s, got %s", want, got))
	} else {
		tr.recordSuccess(fmt.Sprintf("Leap years 1390-1410: %v", leaps.LeapYears))
	}
}

func (tr *TestRunner) testNowruz() {
	tr.printSection("Nowruz")

	testCases := []struct {
		gyear   int
		fixed   int64
		dayName string
	}{
		{1979, 722529, "Wednesday"},
		{2000, 730199, "Monday"},
		{2023, 738600, "Tuesday"},
		{2024, 738965, "Wednesday"},
		{2025, 739331, "Friday"},
		{2026, 739696, "Saturday"},
	}

	for _, tc := range testCases {
		var data NowruzResponse
		if err := tr.getData(fmt.Sprintf("/api/v1/nowruz/%d", tc.gyear), &data); err != nil {
			tr.recordError(fmt.Sprint(tc.gyear), err.Error())
			continue
		}
		if data.Fixed != tc.fixed || data.DayName != tc.dayName {
			tr.recordError(fmt.Sprint(tc.gyear), fmt.Sprintf("Expected %d (%s), got %d (%s)",
				tc.fixed, tc.dayName, data.Fixed, data.DayName))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("Nowruz %d: %s %s = %d AP", tc.gyear, data.DayName, data.Gregorian, data.PersianYear))
	}
}

func (tr *TestRunner) testAstro() {
	tr.printSection("Astronomy")

	var data AstroResponse
	if err := tr.getData("/api/v1/astro/738965.5", &data); err != nil {
		tr.recordError("Astro", err.Error())
		return
	}

	if data.SolarLongitude < 0.36 || data.SolarLongitude > 0.37 {
		tr.recordError("Astro", fmt.Sprintf("Solar longitude %v, want about 0.368", data.SolarLongitude))
		return
	}
	tr.recordSuccess(fmt.Sprintf("Solar longitude at 2024-03-20 12:00 UT: %.6f deg (ΔT model %s)",
		data.SolarLongitude, data.EphemerisModel))
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	testCases := []struct {
		path        string
		status      int
		description string
	}{
		{"/api/v1/gregorian/2023-02-29", 400, "Non-leap February 29 rejected"},
		{"/api/v1/julian/0000-01-01", 400, "Julian year zero rejected"},
		{"/api/v1/persian/1404-12-30", 400, "Esfand 30 of a common year rejected"},
		{"/api/v1/persian/years/0", 400, "Persian year zero rejected"},
		{"/api/v1/gregorian/2025/12/25", 404, "Wrong date separator rejected"},
		{"/api/v1/persian/leap-years?from=1", 400, "Missing to parameter rejected"},
		{"/api/v1/persian/leap-years?from=1&to=5000", 400, "Span over 3000 years rejected"},
		{"/api/v1/astro/noon", 400, "Non-numeric moment rejected"},
		{"/api/v1/admin/cache", 401, "Admin route requires API key"},
	}

	for _, tc := range testCases {
		resp, err := tr.getRaw(tc.path, "")
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == tc.status {
			tr.recordSuccess(tc.description)
		} else {
			tr.recordError(tc.path, fmt.Sprintf("Expected HTTP %d, got %d", tc.status, resp.StatusCode))
		}
	}
}

func (tr *TestRunner) testAdmin() {
	tr.printSection("Admin")

	req, _ := http.NewRequest("POST", tr.baseURL+"/api/v1/admin/cache/warm?from=1300&to=1500", nil)
	req.Header.Set("X-API-Key", tr.apiKey)
	resp, err := tr.client.Do(req)
	if err != nil {
		tr.recordError("Warm", err.Error())
		return
	}
	defer resp.Body.Close()

	var warm struct {
		Years int `json:"years"`
	}
	if err := tr.decode(resp, &warm); err != nil {
		tr.recordError("Warm", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Warmed %d new years", warm.Years))

	resp, err = tr.getRaw("/api/v1/admin/cache", tr.apiKey)
	if err != nil {
		tr.recordError("Cache stats", err.Error())
		return
	}
	defer resp.Body.Close()

	var stats struct {
		Count int `json:"count"`
	}
	if err := tr.decode(resp, &stats); err != nil {
		tr.recordError("Cache stats", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Cache holds %d algorithm/locale group(s)", stats.Count))
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.getRaw(path, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return tr.decode(resp, target)
}

// decode reads the envelope and unmarshals its data into target.
func (tr *TestRunner) decode(resp *http.Response, target any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error (HTTP %d): %s", resp.StatusCode, errMsg)
	}

	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) getRaw(path, apiKey string) (*http.Response, error) {
	req, err := http.NewRequest("GET", tr.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	return tr.client.Do(req)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Fprintln(tr.out, "All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		apiKey  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:          "apitest",
		Short:        "Smoke-test a running persiancal API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check if server is reachable
			client := &http.Client{Timeout: 2 * time.Second}
			resp, err := client.Get(baseURL + "/health")
			if err != nil {
				return fmt.Errorf("cannot connect to %s; make sure the API server is running", baseURL)
			}
			resp.Body.Close()

			runner := NewTestRunner(baseURL, apiKey, verbose, cmd.OutOrStdout())
			runner.Run()

			if runner.errorCount > 0 {
				return fmt.Errorf("%d check(s) failed", runner.errorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the API")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("API_KEY"), "API key for admin checks (skipped when empty)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (show every calendar)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
