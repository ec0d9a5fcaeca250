package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/zapponejosh/persiancal/internal/calendar"
	"github.com/zapponejosh/persiancal/internal/calendrica"
	"github.com/zapponejosh/persiancal/internal/config"
	"github.com/zapponejosh/persiancal/internal/database"
	"github.com/zapponejosh/persiancal/internal/metrics"
	"github.com/zapponejosh/persiancal/internal/persian"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testEnv sets up a complete test environment with database, config, and router
type testEnv struct {
	db       *database.DB
	cfg      *config.Config
	metrics  *metrics.Metrics
	handlers *Handlers
	router   http.Handler
	adminKey string
	cleanup  func()
}

// setupTest creates a fresh test environment. modify may adjust the config
// before the router is built.
func setupTest(t *testing.T, modify ...func(*config.Config)) *testEnv {
	t.Helper()

	// Create in-memory database
	dbCfg := database.Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	db, err := database.Open(dbCfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// Run migrations
	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	// Create app config with admin key
	adminKey := "admin-test-key-32-characters-minimum-length"
	cfg := &config.Config{
		Port:           8080,
		Env:            config.EnvDevelopment,
		DatabasePath:   ":memory:",
		APIKey:         adminKey,
		LogLevel:       "error",
		LogFormat:      "text",
		Locale:         "iran",
		Algorithm:      persian.NameAstronomical,
		RateLimitRPS:   0, // disabled unless a test enables it
		RateLimitBurst: 0,
	}
	for _, m := range modify {
		m(cfg)
	}

	alg, err := persian.New(cfg.Algorithm, cfg.Location())
	if err != nil {
		t.Fatalf("create algorithm: %v", err)
	}

	m := metrics.New()
	conv := calendar.NewConverter(alg, cfg.Location(), db,
		calendar.WithRecorder(m),
		calendar.WithLogger(logger),
	)
	handlers := NewHandlers(db, conv, cfg, m, logger)

	return &testEnv{
		db:       db,
		cfg:      cfg,
		metrics:  m,
		handlers: handlers,
		router:   SetupRoutes(handlers, cfg, m, logger),
		adminKey: adminKey,
		cleanup: func() {
			db.Close()
		},
	}
}

// do sends a request through the full router with an optional API key
func (env *testEnv) do(method, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// parseResponse parses JSON response
func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v, body: %s", err, rr.Body.String())
	}
}

// errorResponse is the envelope of a failed request
type errorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorInfo `json:"error"`
}

// =============================================================================
// MIDDLEWARE TESTS
// =============================================================================

func TestAuthMiddleware(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"valid key", env.adminKey, http.StatusOK},
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "key_invalid123456789", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do("GET", "/api/v1/admin/cache", tt.key)
			if rr.Code != tt.status {
				t.Errorf("Status = %d, want %d, body: %s", rr.Code, tt.status, rr.Body.String())
			}
		})
	}
}

func TestAuthMiddleware_DevelopmentWithoutKey(t *testing.T) {
	env := setupTest(t, func(c *config.Config) { c.APIKey = "" })
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/admin/cache", "")
	if rr.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/health", "")
	if id := rr.Header().Get("X-Request-ID"); len(id) != 36 {
		t.Errorf("X-Request-ID = %q, want a UUID", id)
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if id := rr.Header().Get("X-Request-ID"); id != "client-supplied" {
		t.Errorf("X-Request-ID = %q, want client-supplied", id)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("OPTIONS", "/api/v1/fixed/1", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 4}))
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestChainMiddleware_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := ChainMiddleware(mark("a"), mark("b"), mark("c"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if got := strings.Join(order, ","); got != "a,b,c" {
		t.Errorf("order = %q, want a,b,c", got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	env := setupTest(t, func(c *config.Config) {
		c.RateLimitRPS = 0.001
		c.RateLimitBurst = 2
	})
	defer env.cleanup()

	for i := 0; i < 2; i++ {
		if rr := env.do("GET", "/api/v1/fixed/1", ""); rr.Code != http.StatusOK {
			t.Fatalf("request %d: Status = %d, want %d", i, rr.Code, http.StatusOK)
		}
	}

	rr := env.do("GET", "/api/v1/fixed/1", "")
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusTooManyRequests)
	}

	// Operational routes are not limited
	if rr := env.do("GET", "/health", ""); rr.Code != http.StatusOK {
		t.Errorf("health Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestIPLimiter_PerClient(t *testing.T) {
	l := newIPLimiter(0.001, 1)
	now := time.Now()

	if !l.allow("10.0.0.1", now) {
		t.Error("first request from 10.0.0.1 denied")
	}
	if l.allow("10.0.0.1", now) {
		t.Error("second request from 10.0.0.1 allowed")
	}
	if !l.allow("10.0.0.2", now) {
		t.Error("first request from 10.0.0.2 denied")
	}
}

// =============================================================================
// CONVERSION ENDPOINT TESTS
// =============================================================================

// describeResponse is the envelope of the describe endpoints
type describeResponse struct {
	Success bool                 `json:"success"`
	Data    calendar.Description `json:"data"`
}

func TestDescribeEndpoints(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	// Every route names 2024-03-20 (Farvardin 1, 1403)
	paths := []string{
		"/api/v1/fixed/738965",
		"/api/v1/gregorian/2024-03-20",
		"/api/v1/julian/2024-03-07",
		"/api/v1/persian/1403-01-01",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rr := env.do("GET", path, "")
			if rr.Code != http.StatusOK {
				t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
			}

			var resp describeResponse
			parseResponse(t, rr, &resp)

			if !resp.Success {
				t.Error("Success = false, want true")
			}
			if resp.Data.Fixed != 738965 {
				t.Errorf("Fixed = %d, want 738965", resp.Data.Fixed)
			}
			if resp.Data.DayName != "Wednesday" {
				t.Errorf("DayName = %q, want Wednesday", resp.Data.DayName)
			}
			want := calendrica.Date{Year: 1403, Month: 1, Day: 1}
			if resp.Data.Persian.Date != want {
				t.Errorf("Persian = %v, want %v", resp.Data.Persian.Date, want)
			}
			if !resp.Data.Persian.Leap {
				t.Error("Persian.Leap = false, want true")
			}
			if resp.Data.Algorithm != persian.NameAstronomical || resp.Data.Locale != "35.5,52.5" {
				t.Errorf("Algorithm/Locale = %q/%q", resp.Data.Algorithm, resp.Data.Locale)
			}
		})
	}
}

func TestDescribeEndpoints_Errors(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	tests := []struct {
		path string
		code string
	}{
		{"/api/v1/fixed/abc", "VALIDATION_FAILED"},
		{"/api/v1/fixed/99999999999", "VALIDATION_FAILED"},
		{"/api/v1/gregorian/2023-02-29", "INVALID_DATE"},
		{"/api/v1/gregorian/2024-3", "INVALID_FORMAT"},
		{"/api/v1/julian/0000-01-01", "INVALID_DATE"},
		{"/api/v1/persian/1404-12-30", "INVALID_DATE"},
		{"/api/v1/persian/0000-01-01", "VALIDATION_FAILED"},
		{"/api/v1/persian/1403-13-01", "INVALID_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := env.do("GET", tt.path, "")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}

			var resp errorResponse
			parseResponse(t, rr, &resp)
			if resp.Success {
				t.Error("Success = true, want false")
			}
			if resp.Error.Code != tt.code {
				t.Errorf("Code = %q, want %q (%s)", resp.Error.Code, tt.code, resp.Error.Message)
			}
		})
	}
}

func TestGetPersian_LastDayOfLeapYear(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/persian/1403-12-30", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp describeResponse
	parseResponse(t, rr, &resp)
	if resp.Data.Fixed != 739330 {
		t.Errorf("Fixed = %d, want 739330", resp.Data.Fixed)
	}
	if resp.Data.Persian.DayOfYear != 366 {
		t.Errorf("DayOfYear = %d, want 366", resp.Data.Persian.DayOfYear)
	}
}

func TestGetPersian_ArithmeticAlgorithm(t *testing.T) {
	env := setupTest(t, func(c *config.Config) { c.Algorithm = persian.NameArithmetic })
	defer env.cleanup()

	// The 2820-year cycle makes 1403 common and 1404 leap
	if rr := env.do("GET", "/api/v1/persian/1403-12-30", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("1403-12-30 Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if rr := env.do("GET", "/api/v1/persian/1404-12-30", ""); rr.Code != http.StatusOK {
		t.Errorf("1404-12-30 Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

// =============================================================================
// YEAR ENDPOINT TESTS
// =============================================================================

func TestGetPersianYear(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/persian/years/1404", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    calendar.YearInfo `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if resp.Data.NewYear != 739331 {
		t.Errorf("NewYear = %d, want 739331", resp.Data.NewYear)
	}
	want := calendrica.Date{Year: 2025, Month: 3, Day: 21}
	if resp.Data.NewYearGregorian != want {
		t.Errorf("NewYearGregorian = %v, want %v", resp.Data.NewYearGregorian, want)
	}
	if resp.Data.Length != 365 || resp.Data.Leap {
		t.Errorf("Length = %d, Leap = %v, want 365, false", resp.Data.Length, resp.Data.Leap)
	}
	if len(resp.Data.MonthLengths) != 12 || resp.Data.MonthLengths[11] != 29 {
		t.Errorf("MonthLengths = %v", resp.Data.MonthLengths)
	}

	for _, path := range []string{"/api/v1/persian/years/0", "/api/v1/persian/years/x", "/api/v1/persian/years/200000"} {
		if rr := env.do("GET", path, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("%s Status = %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestGetLeapYears(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/persian/leap-years?from=1390&to=1410", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			LeapYears []int `json:"leap_years"`
			Count     int   `json:"count"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	want := []int{1391, 1395, 1399, 1403, 1408}
	if len(resp.Data.LeapYears) != len(want) {
		t.Fatalf("LeapYears = %v, want %v", resp.Data.LeapYears, want)
	}
	for i := range want {
		if resp.Data.LeapYears[i] != want[i] {
			t.Errorf("LeapYears = %v, want %v", resp.Data.LeapYears, want)
			break
		}
	}
	if resp.Data.Count != 5 {
		t.Errorf("Count = %d, want 5", resp.Data.Count)
	}
}

func TestGetLeapYears_InvalidRange(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	tests := []struct {
		query string
		field string
	}{
		{"from=1390", "to"},
		{"to=1390", "from"},
		{"from=a&to=1390", "from"},
		{"from=1400&to=1390", "to"},
		{"from=1&to=3002", "to"},
		{"from=-200000&to=1", "from"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := env.do("GET", "/api/v1/persian/leap-years?"+tt.query, "")
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("Status = %d, want %d", rr.Code, http.StatusBadRequest)
			}

			var resp errorResponse
			parseResponse(t, rr, &resp)
			if _, ok := resp.Error.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want an entry for %q", resp.Error.Fields, tt.field)
			}
		})
	}

	// A span of exactly 3000 years is allowed
	if rr := env.do("GET", "/api/v1/persian/leap-years?from=1&to=3001", ""); rr.Code != http.StatusOK {
		t.Errorf("3000-year span Status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestGetNowruz(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/nowruz/2025", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			PersianYear int             `json:"persian_year"`
			Fixed       int64           `json:"fixed"`
			Gregorian   calendrica.Date `json:"gregorian"`
			DayName     string          `json:"day_name"`
		} `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if resp.Data.PersianYear != 1404 || resp.Data.Fixed != 739331 {
		t.Errorf("Nowruz(2025) = %d/%d, want 1404/739331", resp.Data.PersianYear, resp.Data.Fixed)
	}
	if resp.Data.Gregorian != (calendrica.Date{Year: 2025, Month: 3, Day: 21}) {
		t.Errorf("Gregorian = %v, want 2025-03-21", resp.Data.Gregorian)
	}
	if resp.Data.DayName != "Friday" {
		t.Errorf("DayName = %q, want Friday", resp.Data.DayName)
	}

	if rr := env.do("GET", "/api/v1/nowruz/x", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("invalid year Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestGetAstro(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/astro/738965.5", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		Success bool           `json:"success"`
		Data    calendar.Astro `json:"data"`
	}
	parseResponse(t, rr, &resp)

	if resp.Data.SolarLongitude != 0.36828591244375275 {
		t.Errorf("SolarLongitude = %v, want 0.36828591244375275", resp.Data.SolarLongitude)
	}
	if resp.Data.EphemerisModel != "2006-2050" {
		t.Errorf("EphemerisModel = %q, want 2006-2050", resp.Data.EphemerisModel)
	}
	if resp.Data.Location != calendrica.Iran {
		t.Errorf("Location = %+v, want Iran", resp.Data.Location)
	}

	for _, path := range []string{"/api/v1/astro/noon", "/api/v1/astro/1e12", "/api/v1/astro/NaN"} {
		if rr := env.do("GET", path, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("%s Status = %d, want %d", path, rr.Code, http.StatusBadRequest)
		}
	}
}

// =============================================================================
// ADMIN ENDPOINT TESTS
// =============================================================================

func TestCacheLifecycle(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("POST", "/api/v1/admin/cache/warm?from=1400&to=1402", env.adminKey)
	if rr.Code != http.StatusOK {
		t.Fatalf("warm Status = %d, want %d, body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var warm struct {
		Data struct {
			Years int `json:"years"`
		} `json:"data"`
	}
	parseResponse(t, rr, &warm)
	if warm.Data.Years != 4 {
		t.Errorf("years = %d, want 4", warm.Data.Years)
	}

	rr = env.do("GET", "/api/v1/admin/cache", env.adminKey)
	var stats struct {
		Data struct {
			Caches []database.CacheStats `json:"caches"`
			Count  int                   `json:"count"`
		} `json:"data"`
	}
	parseResponse(t, rr, &stats)
	if stats.Data.Count != 1 {
		t.Fatalf("cache count = %d, want 1", stats.Data.Count)
	}
	if s := stats.Data.Caches[0]; s.Count != 4 || s.MinYear != 1400 || s.MaxYear != 1403 {
		t.Errorf("stats = %+v, want 4 years 1400-1403", s)
	}

	// Deleting another algorithm's rows leaves these untouched
	rr = env.do("DELETE", "/api/v1/admin/cache?algorithm=arithmetic", env.adminKey)
	var del struct {
		Data struct {
			Deleted int64 `json:"deleted"`
		} `json:"data"`
	}
	parseResponse(t, rr, &del)
	if del.Data.Deleted != 0 {
		t.Errorf("deleted = %d, want 0", del.Data.Deleted)
	}

	rr = env.do("DELETE", "/api/v1/admin/cache", env.adminKey)
	parseResponse(t, rr, &del)
	if del.Data.Deleted != 4 {
		t.Errorf("deleted = %d, want 4", del.Data.Deleted)
	}
}

func TestWarmCache_RequiresKey(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	if rr := env.do("POST", "/api/v1/admin/cache/warm?from=1&to=2", ""); rr.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if rr := env.do("POST", "/api/v1/admin/cache/warm?from=1&to=9000", env.adminKey); rr.Code != http.StatusBadRequest {
		t.Errorf("oversized span Status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// =============================================================================
// OPERATIONAL ENDPOINT TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	parseResponse(t, rr, &resp)
	if resp.Data["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", resp.Data["status"])
	}
}

func TestHealthCheck_ClosedDatabase(t *testing.T) {
	env := setupTest(t)
	env.db.Close()

	if rr := env.do("GET", "/health", ""); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	env.do("GET", "/api/v1/nowruz/2024", "")

	rr := env.do("GET", "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusOK)
	}

	body := rr.Body.String()
	for _, want := range []string{
		`persiancal_http_requests_total{method="GET",route="/api/v1/nowruz/{gyear}",status="200"} 1`,
		`persiancal_cache_lookups_total{algorithm="astronomical",result="miss"}`,
		`persiancal_db_connection_pool{stat="open"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNotFound(t *testing.T) {
	env := setupTest(t)
	defer env.cleanup()

	rr := env.do("GET", "/api/v1/hebrew/today", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want %d", rr.Code, http.StatusNotFound)
	}

	var resp errorResponse
	parseResponse(t, rr, &resp)
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Code = %q, want NOT_FOUND", resp.Error.Code)
	}
}
