package metrics

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ObserveCacheLookup("astronomical", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CacheLookups.WithLabelValues("astronomical", "hit")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheLookups.WithLabelValues("astronomical", "hit")))
}

func TestObserveCacheLookup(t *testing.T) {
	m := New()
	m.ObserveCacheLookup("arithmetic", true)
	m.ObserveCacheLookup("arithmetic", false)
	m.ObserveCacheLookup("arithmetic", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("arithmetic", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("arithmetic", "miss")))
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/v1/nowruz/{gyear}", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/nowruz/{gyear}", 400, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/v1/nowruz/{gyear}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/api/v1/nowruz/{gyear}", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestRecordDBPoolStats(t *testing.T) {
	m := New()
	m.RecordDBPoolStats(sql.DBStats{OpenConnections: 1, InUse: 1, WaitDuration: 2 * time.Second})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("open")))
	assert.Equal(t, 2000.0, testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("wait_duration_ms")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSolverSteps("astronomical", 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	assert.True(t, strings.Contains(text, `persiancal_solver_new_year_steps_count{algorithm="astronomical"} 1`), text)
	assert.Contains(t, text, "go_goroutines")
}
