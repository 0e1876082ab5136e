package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcc-sewer-dashboard/config"
	"mcc-sewer-dashboard/metrics"
	"mcc-sewer-dashboard/preprocessing"
	"mcc-sewer-dashboard/services"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
	Error     *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta struct {
		ApiVersion    string `json:"api_version"`
		ResultCount   *int   `json:"result_count"`
		ManholeSource string `json:"manhole_source"`
	} `json:"meta"`
}

type fixture struct {
	router  *gin.Engine
	admin   http.Handler
	metrics *metrics.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := metrics.NewRegistry()
	cache := services.NewDatasetCache(preprocessing.DefaultOptions(), reg, nil)
	svc := services.NewDashboardService(cache, nil)
	return fixture{
		router:  NewRouter(svc, reg, nil, config.DefaultConfig().Server),
		admin:   NewAdminRouter(svc, reg, nil),
		metrics: reg,
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestSummaryEnvelope(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/api/views/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "v1", env.Meta.ApiVersion)
	assert.Equal(t, "synthetic", env.Meta.ManholeSource)
	require.NotNil(t, env.Meta.ResultCount)
	assert.Equal(t, 200, *env.Meta.ResultCount)

	var view struct {
		TotalManholes int `json:"total_manholes"`
		TotalPipes    int `json:"total_pipes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, 200, view.TotalManholes)
	assert.Equal(t, 150, view.TotalPipes)
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", decode(t, rec).RequestID)
}

func TestSummaryWardMatchingNothing(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/api/views/summary?ward=Ward+99")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		TotalManholes   int     `json:"total_manholes"`
		CriticalPercent float64 `json:"critical_percent"`
		HealthPercent   float64 `json:"health_percent"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	assert.Zero(t, view.TotalManholes)
	assert.Zero(t, view.CriticalPercent)
	assert.Zero(t, view.HealthPercent)
}

func TestAllZonesMeansNoFilter(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/api/views/summary?zone=All+Zones")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, *decode(t, rec).Meta.ResultCount)
}

func TestConditionFilterFromQuery(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/api/views/condition?conditions=Broken&conditions=Poor")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Inventory []struct {
			Condition string `json:"condition"`
		} `json:"inventory"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	require.NotEmpty(t, view.Inventory)
	for _, row := range view.Inventory {
		assert.Contains(t, []string{"Broken", "Poor"}, row.Condition)
	}
}

func TestInvalidParameters(t *testing.T) {
	f := newFixture(t)
	cases := []string{
		"/api/views/condition?min_connections=-1",
		"/api/views/condition?min_connections=many",
		"/api/views/geospatial?type=satellite",
		"/api/views/geospatial?zoom=3",
		"/api/views/summary?ward=" + strings.Repeat("w", 65),
	}
	for _, target := range cases {
		t.Run(target, func(t *testing.T) {
			rec := get(t, f.router, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, "INVALID_PARAMETERS", env.Error.Code)
		})
	}
}

func TestGeospatial3D(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/api/views/geospatial?type=3d&zones=Zone+A")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Kind  string          `json:"type"`
		Zoom  int             `json:"zoom"`
		Scene json.RawMessage `json:"scene"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &view))
	assert.Equal(t, "3d", view.Kind)
	assert.Equal(t, 14, view.Zoom)
	assert.NotEmpty(t, view.Scene)
}

func TestExportDownload(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/api/export/manholes?conditions=Good")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), `attachment; filename="manhole_risk_assessment_`))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "manhole_id,road,ward"))
	for _, line := range lines[1:] {
		assert.Contains(t, line, ",Good,")
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ExportsTotal.WithLabelValues("manholes")))

	assert.Equal(t, http.StatusNotFound, get(t, f.router, "/api/export/xml").Code)
}

func TestDashboardPage(t *testing.T) {
	f := newFixture(t)
	rec := get(t, f.router, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Manhole Condition Distribution")
}

func TestRequestMetrics(t *testing.T) {
	f := newFixture(t)
	get(t, f.router, "/api/views/materials")
	get(t, f.router, "/api/views/materials")
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/views/materials", "200")))
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/status", nil)
	req.Header.Set("Origin", "https://gis.example.org")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAdminRoutes(t *testing.T) {
	f := newFixture(t)

	rec := get(t, f.admin, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	get(t, f.router, "/api/status")
	req := httptest.NewRequest(http.MethodPost, "/cache/invalidate", nil)
	rec = httptest.NewRecorder()
	f.admin.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheInvalidations))

	rec = get(t, f.admin, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sewer_dataset_loads_total")

	rec = get(t, f.admin, "/cache/invalidate")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
