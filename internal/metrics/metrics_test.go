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

func TestObserveRebuild(t *testing.T) {
	m := New()

	m.ObserveRebuild("success", 200*time.Millisecond, 42, 3)
	m.ObserveRebuild("rejected", 0, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RebuildsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RebuildsTotal.WithLabelValues("rejected")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.DocumentsIndexed))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IndexGeneration), "a rejected rebuild leaves the gauges alone")
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveRebuild("success", time.Second, 10, 1)
	assert.Zero(t, testutil.ToFloat64(b.DocumentsIndexed))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveAnalysis("top_terms", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `bug_analysis_operation_duration_seconds_count{operation="top_terms"} 1`)
}
