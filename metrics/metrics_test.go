package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("GET", "/api/status", "200", 10*time.Millisecond)
	r.RecordHTTPRequest("GET", "/api/status", "200", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.HTTPRequestsTotal.WithLabelValues("GET", "/api/status", "200")))
}

func TestRecordDatasetLoad(t *testing.T) {
	r := NewRegistry()
	r.RecordDatasetLoad("synthetic", 200, 150, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.DatasetLoadsTotal.WithLabelValues("synthetic")))
	assert.Equal(t, 200.0, testutil.ToFloat64(r.DatasetManholes))
	assert.Equal(t, 150.0, testutil.ToFloat64(r.DatasetPipes))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordExport("manholes")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `sewer_exports_total{kind="manholes"} 1`)
}
