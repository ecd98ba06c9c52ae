package metric

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ChecksTotal.WithLabelValues(ResultRejected).Inc()
	m.RejectionsTotal.WithLabelValues("QueryDepth").Add(2)
	m.FieldCount.Observe(12)
	m.RateLimitedTotal.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChecksTotal.WithLabelValues(ResultRejected)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RejectionsTotal.WithLabelValues("QueryDepth")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitedTotal))

	n, err := testutil.GatherAndCount(reg, "gqlguard_limiter_field_count")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_RegistersOncePerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.UpstreamErrors.Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "gqlguard_relay_upstream_errors_total 1")
}
