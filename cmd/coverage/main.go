// Command coverage walks every day of a range of Persian years through a
// running persiancal API and checks that the fixed and Persian routes
// round-trip.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type YearResponse struct {
	Year         int   `json:"year"`
	NewYear      int64 `json:"new_year"`
	Length       int   `json:"length"`
	Leap         bool  `json:"leap"`
	MonthLengths []int `json:"month_lengths"`
}

type DescribeResponse struct {
	Fixed   int64 `json:"fixed"`
	Persian struct {
		Year      int  `json:"year"`
		Month     int  `json:"month"`
		Day       int  `json:"day"`
		DayOfYear int  `json:"day_of_year"`
		Leap      bool `json:"leap"`
	} `json:"persian"`
}

// TestResult holds the result for a single Persian day
type TestResult struct {
	Date    string `json:"date"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Fixed   int64  `json:"fixed"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type options struct {
	baseURL    string
	startYear  int
	years      int
	verbose    bool
	outputFile string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "coverage",
		Short:        "Round-trip every day of a range of Persian years through the API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.years < 1 {
				return fmt.Errorf("--years must be at least 1")
			}
			return run(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the API")
	cmd.Flags().IntVar(&opts.startYear, "start", 1403, "First Persian year")
	cmd.Flags().IntVar(&opts.years, "years", 1, "Number of Persian years to test")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output (show each date)")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Output results to JSON file")
	return cmd
}

func run(out io.Writer, opts *options) error {
	years := yearList(opts.startYear, opts.years)

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "Persian Calendar API - Round-Trip Coverage")
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintf(out, "Base URL:    %s\n", opts.baseURL)
	fmt.Fprintf(out, "Year Range:  %d to %d AP\n", years[0], years[len(years)-1])
	fmt.Fprintf(out, "Total Years: %d\n", len(years))
	fmt.Fprintln(out)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(opts.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %w", opts.baseURL, err)
	}
	resp.Body.Close()

	c := &checker{client: client, baseURL: opts.baseURL, out: out, verbose: opts.verbose}
	results := c.testYears(years)

	analysis := analyzeResults(results)
	printSummary(out, analysis, years)
	printFailuresByMonth(out, analysis)
	printAllFailures(out, analysis)

	if opts.outputFile != "" {
		if err := saveResults(opts.outputFile, analysis); err != nil {
			return err
		}
		fmt.Fprintf(out, "Results saved to: %s\n", opts.outputFile)
	}

	if analysis.TotalFailed > 0 {
		return fmt.Errorf("%d of %d days failed", analysis.TotalFailed, analysis.TotalDays)
	}
	return nil
}

// yearList returns n consecutive Persian years from start. There is no
// year 0.
func yearList(start, n int) []int {
	years := make([]int, 0, n)
	for y := start; len(years) < n; y++ {
		if y == 0 {
			continue
		}
		years = append(years, y)
	}
	return years
}

func formatPersian(year, month, day int) string {
	if year < 0 {
		return fmt.Sprintf("-%04d-%02d-%02d", -year, month, day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// =============================================================================
// Checks
// =============================================================================

type checker struct {
	client  *http.Client
	baseURL string
	out     io.Writer
	verbose bool
}

// get fetches path and decodes a successful response's data into v.
func (c *checker) get(path string, v any) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("connection error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %v", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %v", err)
	}
	if !apiResp.Success {
		if apiResp.Error != nil {
			return fmt.Errorf("%s: %s", apiResp.Error.Code, apiResp.Error.Message)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if err := json.Unmarshal(apiResp.Data, v); err != nil {
		return fmt.Errorf("data parse error: %v", err)
	}
	return nil
}

func (c *checker) testYears(years []int) []TestResult {
	var results []TestResult

	fmt.Fprintf(c.out, "Testing %d years...\n\n", len(years))

	for _, year := range years {
		var info YearResponse
		if err := c.get(fmt.Sprintf("/api/v1/persian/years/%d", year), &info); err != nil {
			results = append(results, TestResult{
				Date:  fmt.Sprintf("%d", year),
				Year:  year,
				Error: fmt.Sprintf("year lookup: %v", err),
			})
			continue
		}

		yearResults := c.testYear(info)
		failed := 0
		for _, r := range yearResults {
			if !r.Success {
				failed++
			}
		}
		fmt.Fprintf(c.out, "  %d: %d days, %d failures\n", year, len(yearResults), failed)
		results = append(results, yearResults...)
	}

	fmt.Fprintln(c.out)
	return results
}

// testYear checks every day of a year in both directions.
func (c *checker) testYear(info YearResponse) []TestResult {
	var results []TestResult

	total := 0
	for _, n := range info.MonthLengths {
		total += n
	}
	if total != info.Length {
		results = append(results, TestResult{
			Date:  fmt.Sprintf("%d", info.Year),
			Year:  info.Year,
			Fixed: info.NewYear,
			Error: fmt.Sprintf("month lengths sum to %d, year length is %d", total, info.Length),
		})
	}

	offset := 0
	for m, days := range info.MonthLengths {
		month := m + 1
		for day := 1; day <= days; day++ {
			result := c.testDay(info.Year, month, day, info.NewYear+int64(offset), offset+1)
			results = append(results, result)
			offset++

			if c.verbose {
				status := "✓"
				if !result.Success {
					status = "✗"
				}
				fmt.Fprintf(c.out, "  %s %s = RD %d\n", status, result.Date, result.Fixed)
				if !result.Success {
					fmt.Fprintf(c.out, "      Error: %s\n", result.Error)
				}
			}
		}
	}
	return results
}

func (c *checker) testDay(year, month, day int, fixed int64, dayOfYear int) TestResult {
	date := formatPersian(year, month, day)
	result := TestResult{Date: date, Year: year, Month: month, Fixed: fixed}

	var fromFixed DescribeResponse
	if err := c.get(fmt.Sprintf("/api/v1/fixed/%d", fixed), &fromFixed); err != nil {
		result.Error = fmt.Sprintf("fixed lookup: %v", err)
		return result
	}
	p := fromFixed.Persian
	if p.Year != year || p.Month != month || p.Day != day {
		result.Error = fmt.Sprintf("RD %d is %s, want %s", fixed, formatPersian(p.Year, p.Month, p.Day), date)
		return result
	}
	if p.DayOfYear != dayOfYear {
		result.Error = fmt.Sprintf("day of year %d, want %d", p.DayOfYear, dayOfYear)
		return result
	}

	var fromPersian DescribeResponse
	if err := c.get("/api/v1/persian/"+date, &fromPersian); err != nil {
		result.Error = fmt.Sprintf("persian lookup: %v", err)
		return result
	}
	if fromPersian.Fixed != fixed {
		result.Error = fmt.Sprintf("%s is RD %d, want %d", date, fromPersian.Fixed, fixed)
		return result
	}

	result.Success = true
	return result
}

// =============================================================================
// Analysis
// =============================================================================

// Analysis holds the analyzed results
type Analysis struct {
	TotalDays    int                    `json:"total_days"`
	TotalSuccess int                    `json:"total_success"`
	TotalFailed  int                    `json:"total_failed"`
	ByYear       map[int]*YearStats     `json:"by_year"`
	ByMonth      map[string]*MonthStats `json:"by_month"`
	AllFailures  []TestResult           `json:"failures"`
}

type YearStats struct {
	Year        int `json:"year"`
	TotalDays   int `json:"total_days"`
	SuccessDays int `json:"success_days"`
	FailedDays  int `json:"failed_days"`
}

type MonthStats struct {
	YearMonth   string   `json:"year_month"`
	TotalDays   int      `json:"total_days"`
	SuccessDays int      `json:"success_days"`
	FailedDays  int      `json:"failed_days"`
	FailedDates []string `json:"failed_dates,omitempty"`
}

func analyzeResults(results []TestResult) *Analysis {
	analysis := &Analysis{
		ByYear:  make(map[int]*YearStats),
		ByMonth: make(map[string]*MonthStats),
	}

	for _, r := range results {
		analysis.TotalDays++

		if _, ok := analysis.ByYear[r.Year]; !ok {
			analysis.ByYear[r.Year] = &YearStats{Year: r.Year}
		}
		year := analysis.ByYear[r.Year]
		year.TotalDays++

		// Year-level failures have no month
		yearMonth := fmt.Sprintf("%d-%02d", r.Year, r.Month)
		if _, ok := analysis.ByMonth[yearMonth]; !ok {
			analysis.ByMonth[yearMonth] = &MonthStats{YearMonth: yearMonth}
		}
		month := analysis.ByMonth[yearMonth]
		month.TotalDays++

		if r.Success {
			analysis.TotalSuccess++
			year.SuccessDays++
			month.SuccessDays++
		} else {
			analysis.TotalFailed++
			year.FailedDays++
			month.FailedDays++
			month.FailedDates = append(month.FailedDates, r.Date)
			analysis.AllFailures = append(analysis.AllFailures, r)
		}
	}

	return analysis
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func printSummary(out io.Writer, analysis *Analysis, years []int) {
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "SUMMARY")
	fmt.Fprintln(out, "================================================================")
	fmt.Fprintf(out, "Total Days Tested: %d\n", analysis.TotalDays)
	fmt.Fprintf(out, "Successful:        %d (%.1f%%)\n", analysis.TotalSuccess,
		percent(analysis.TotalSuccess, analysis.TotalDays))
	fmt.Fprintf(out, "Failed:            %d (%.1f%%)\n", analysis.TotalFailed,
		percent(analysis.TotalFailed, analysis.TotalDays))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "By Year:")
	for _, year := range years {
		if stats, ok := analysis.ByYear[year]; ok {
			status := "✓"
			if stats.FailedDays > 0 {
				status = "✗"
			}
			fmt.Fprintf(out, "  %s %d: %d/%d days (%.1f%% success)\n",
				status, year, stats.SuccessDays, stats.TotalDays,
				percent(stats.SuccessDays, stats.TotalDays))
		}
	}
	fmt.Fprintln(out)
}

func printFailuresByMonth(out io.Writer, analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		fmt.Fprintln(out, "No failures!")
		return
	}

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "FAILURES BY MONTH")
	fmt.Fprintln(out, "================================================================")

	var months []*MonthStats
	for _, stats := range analysis.ByMonth {
		if stats.FailedDays > 0 {
			months = append(months, stats)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].FailedDays != months[j].FailedDays {
			return months[i].FailedDays > months[j].FailedDays
		}
		return months[i].YearMonth < months[j].YearMonth
	})

	for _, stats := range months {
		fmt.Fprintf(out, "\n%s: %d failures\n", stats.YearMonth, stats.FailedDays)
		for i, date := range stats.FailedDates {
			if i == 5 {
				fmt.Fprintf(out, "  ... and %d more\n", len(stats.FailedDates)-5)
				break
			}
			fmt.Fprintf(out, "  - %s\n", date)
		}
	}
	fmt.Fprintln(out)
}

func printAllFailures(out io.Writer, analysis *Analysis) {
	if analysis.TotalFailed == 0 {
		return
	}

	if analysis.TotalFailed > 50 {
		fmt.Fprintf(out, "(Showing first 50 of %d failures)\n\n", analysis.TotalFailed)
	}

	fmt.Fprintln(out, "================================================================")
	fmt.Fprintln(out, "ALL FAILURES (Date | RD | Error)")
	fmt.Fprintln(out, "================================================================")

	for i, f := range analysis.AllFailures {
		if i == 50 {
			break
		}
		fmt.Fprintf(out, "  %s | %d | %s\n", f.Date, f.Fixed, f.Error)
	}
	fmt.Fprintln(out)
}

func saveResults(filename string, analysis *Analysis) error {
	output := struct {
		GeneratedAt string         `json:"generated_at"`
		Summary     map[string]any `json:"summary"`
		Analysis    *Analysis      `json:"analysis"`
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Summary: map[string]any{
			"total_days":    analysis.TotalDays,
			"total_success": analysis.TotalSuccess,
			"total_failed":  analysis.TotalFailed,
			"success_rate":  fmt.Sprintf("%.2f%%", percent(analysis.TotalSuccess, analysis.TotalDays)),
		},
		Analysis: analysis,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
