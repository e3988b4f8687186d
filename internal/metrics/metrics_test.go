package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ReadFallback("events")
	m.ReadFallback("events")
	m.AuthFallback()
	m.Login("success")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReadFallbacks.WithLabelValues("events")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("success")))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReadFallback("events")
		m.AuthFallback()
		m.Login("failure")
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ReadFallback("users")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `conselho_repository_fallbacks_total{entity="users"} 1`)
}
