package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/persiancal/internal/calendar"
	"github.com/zapponejosh/persiancal/internal/calendrica"
	"github.com/zapponejosh/persiancal/internal/config"
	"github.com/zapponejosh/persiancal/internal/database"
	"github.com/zapponejosh/persiancal/internal/logger"
	"github.com/zapponejosh/persiancal/internal/metrics"
	"github.com/zapponejosh/persiancal/internal/persian"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db        *database.DB
	conv      *calendar.Converter
	cfg       *config.Config
	metrics   *metrics.Metrics
	validator *ParamValidator
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, conv *calendar.Converter, cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:        db,
		conv:      conv,
		cfg:       cfg,
		metrics:   m,
		validator: NewParamValidator(),
		logger:    logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"algorithm": h.conv.Algorithm().Name(),
		"locale":    h.conv.Locale(),
	})
}

// Metrics handles GET /metrics
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordDBPoolStats(h.db.Stats())
	h.metrics.Handler().ServeHTTP(w, r)
}

// =============================================================================
// Conversions
// =============================================================================

// GetFixed handles GET /api/v1/fixed/{rd}
func (h *Handlers) GetFixed(w http.ResponseWriter, r *http.Request) {
	rd, err := strconv.ParseInt(chi.URLParam(r, "rd"), 10, 64)
	if err != nil {
		WriteInvalidParams(w, map[string]string{"rd": "must be an integer"})
		return
	}

	h.describe(w, r, calendrica.FixedDate(rd))
}

// GetGregorian handles GET /api/v1/gregorian/{date}
func (h *Handlers) GetGregorian(w http.ResponseWriter, r *http.Request) {
	d, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err == nil {
		err = calendar.ValidateGregorian(d)
	}
	if err != nil {
		h.writeError(w, r, err, "convert Gregorian date")
		return
	}

	h.describe(w, r, calendrica.FixedFromGregorian(d))
}

// GetJulian handles GET /api/v1/julian/{date}
func (h *Handlers) GetJulian(w http.ResponseWriter, r *http.Request) {
	d, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err == nil {
		err = calendar.ValidateJulian(d)
	}
	if err != nil {
		h.writeError(w, r, err, "convert Julian date")
		return
	}

	h.describe(w, r, calendrica.FixedFromJulian(d))
}

// GetPersian handles GET /api/v1/persian/{date}
func (h *Handlers) GetPersian(w http.ResponseWriter, r *http.Request) {
	d, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, r, err, "convert Persian date")
		return
	}
	if fields := h.validator.Validate(yearParam{Year: d.Year}); fields != nil {
		WriteInvalidParams(w, fields)
		return
	}
	if err := persian.Validate(h.conv.Algorithm(), d); err != nil {
		h.writeError(w, r, err, "convert Persian date")
		return
	}

	date, err := h.conv.FromPersian(r.Context(), d)
	if err != nil {
		h.writeError(w, r, err, "convert Persian date")
		return
	}

	h.describe(w, r, date)
}

// describe writes the description of date in every calendar.
func (h *Handlers) describe(w http.ResponseWriter, r *http.Request, date calendrica.FixedDate) {
	if fields := h.validator.Validate(fixedParam{RD: int64(date)}); fields != nil {
		WriteInvalidParams(w, fields)
		return
	}

	desc, err := h.conv.Describe(r.Context(), date)
	if err != nil {
		h.writeError(w, r, err, "describe date")
		return
	}

	WriteSuccess(w, desc)
}

// =============================================================================
// Persian years
// =============================================================================

// GetPersianYear handles GET /api/v1/persian/years/{year}
func (h *Handlers) GetPersianYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		WriteInvalidParams(w, map[string]string{"year": "must be an integer"})
		return
	}
	if fields := h.validator.Validate(yearParam{Year: year}); fields != nil {
		WriteInvalidParams(w, fields)
		return
	}

	info, err := h.conv.YearInfo(r.Context(), year)
	if err != nil {
		h.writeError(w, r, err, "compute year")
		return
	}

	WriteSuccess(w, info)
}

// GetLeapYears handles GET /api/v1/persian/leap-years?from=&to=
func (h *Handlers) GetLeapYears(w http.ResponseWriter, r *http.Request) {
	span, ok := h.parseYearRange(w, r)
	if !ok {
		return
	}

	leaps, err := h.conv.LeapYears(r.Context(), span.From, span.To)
	if err != nil {
		h.writeError(w, r, err, "compute leap years")
		return
	}

	WriteSuccess(w, map[string]any{
		"from":       span.From,
		"to":         span.To,
		"algorithm":  h.conv.Algorithm().Name(),
		"locale":     h.conv.Locale(),
		"leap_years": leaps,
		"count":      len(leaps),
	})
}

// GetNowruz handles GET /api/v1/nowruz/{gyear}
func (h *Handlers) GetNowruz(w http.ResponseWriter, r *http.Request) {
	gyear, err := strconv.Atoi(chi.URLParam(r, "gyear"))
	if err != nil {
		WriteInvalidParams(w, map[string]string{"gyear": "must be an integer"})
		return
	}
	if fields := h.validator.Validate(gregorianYearParam{Year: gyear}); fields != nil {
		WriteInvalidParams(w, fields)
		return
	}

	date, pyear, err := h.conv.Nowruz(r.Context(), gyear)
	if err != nil {
		h.writeError(w, r, err, "compute Nowruz")
		return
	}

	weekday := calendrica.DayOfWeekFromFixed(date)
	WriteSuccess(w, map[string]any{
		"gregorian_year": gyear,
		"persian_year":   pyear,
		"fixed":          date,
		"gregorian":      calendrica.GregorianFromFixed(date),
		"day_name":       calendar.DayName(weekday),
		"algorithm":      h.conv.Algorithm().Name(),
		"locale":         h.conv.Locale(),
	})
}

// GetAstro handles GET /api/v1/astro/{moment}
func (h *Handlers) GetAstro(w http.ResponseWriter, r *http.Request) {
	tee, err := strconv.ParseFloat(chi.URLParam(r, "moment"), 64)
	if err != nil {
		WriteInvalidParams(w, map[string]string{"moment": "must be a number"})
		return
	}
	if fields := h.validator.Validate(momentParam{Moment: tee}); fields != nil {
		WriteInvalidParams(w, fields)
		return
	}

	WriteSuccess(w, calendar.AstroAt(calendrica.Moment(tee), h.conv.Location()))
}

// =============================================================================
// Admin
// =============================================================================

// GetCacheStats handles GET /api/v1/admin/cache
func (h *Handlers) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.GetCacheStats(r.Context())
	if err != nil {
		h.writeError(w, r, err, "read cache statistics")
		return
	}

	WriteSuccess(w, map[string]any{
		"caches": stats,
		"count":  len(stats),
	})
}

// WarmCache handles POST /api/v1/admin/cache/warm?from=&to=
func (h *Handlers) WarmCache(w http.ResponseWriter, r *http.Request) {
	span, ok := h.parseYearRange(w, r)
	if !ok {
		return
	}

	n, err := h.conv.Warm(r.Context(), span.From, span.To)
	if err != nil {
		h.writeError(w, r, err, "warm cache")
		return
	}

	WriteSuccess(w, map[string]any{
		"from":      span.From,
		"to":        span.To,
		"years":     n,
		"algorithm": h.conv.Algorithm().Name(),
		"locale":    h.conv.Locale(),
	})
}

// ClearCache handles DELETE /api/v1/admin/cache
//
// Optional query parameters algorithm and locale narrow the deletion.
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := database.NewYearFilter{
		Algorithm: q.Get("algorithm"),
		Locale:    q.Get("locale"),
	}

	n, err := h.db.DeleteNewYears(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err, "clear cache")
		return
	}

	WriteSuccess(w, map[string]any{"deleted": n})
}

// =============================================================================
// Helpers
// =============================================================================

// parseYearRange reads and validates the from and to query parameters.
// It writes the error response itself and reports whether to continue.
func (h *Handlers) parseYearRange(w http.ResponseWriter, r *http.Request) (yearRange, bool) {
	q := r.URL.Query()
	fields := map[string]string{}

	var span yearRange
	for _, p := range []struct {
		name string
		dst  *int
	}{{"from", &span.From}, {"to", &span.To}} {
		raw := q.Get(p.name)
		if raw == "" {
			fields[p.name] = "is required"
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			fields[p.name] = "must be an integer"
			continue
		}
		*p.dst = v
	}
	if len(fields) > 0 {
		WriteInvalidParams(w, fields)
		return span, false
	}

	if fields := h.validator.Validate(span); fields != nil {
		WriteInvalidParams(w, fields)
		return span, false
	}
	return span, true
}

// writeError maps err to a response. Unexpected errors are logged and
// reported without detail.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("failed to "+action,
			slog.Any("error", err),
			slog.String("path", r.URL.Path),
			slog.String("request_id", logger.RequestID(r.Context())),
		)
		WriteInternalError(w, "Failed to "+action)
		return
	}

	WriteError(w, status, err.Error(), code)
}
