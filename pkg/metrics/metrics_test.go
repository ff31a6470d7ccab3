package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/praetorian-inc/uaparser/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveParse(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	major := "26"
	m.ObserveParse(types.Client{
		UserAgent: types.UserAgent{Family: "Chrome Mobile", Major: &major},
		OS:        types.DefaultOS(),
		Device:    types.Device{Family: "Samsung Galaxy Nexus"},
	}, 150*time.Microsecond)
	m.ObserveParse(types.Client{
		UserAgent: types.DefaultUserAgent(),
		OS:        types.DefaultOS(),
		Device:    types.DefaultDevice(),
	}, 20*time.Microsecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.parsesTotal.WithLabelValues("user_agent", OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parsesTotal.WithLabelValues("user_agent", OutcomeOther)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.parsesTotal.WithLabelValues("os", OutcomeOther)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parsesTotal.WithLabelValues("device", OutcomeMatched)))

	_, err := reg.Gather()
	require.NoError(t, err)
}

func TestMetrics_ObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("parse", true)
	m.ObserveRequest("parse", true)
	m.ObserveRequest("parse_batch", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("parse", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("parse_batch", "false")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("parse", true)
		m.ObserveParse(types.Client{}, time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveRequest("parse", true)

	rec := httptest.NewRecorder()
	m.Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `uaparser_requests_total{success="true",type="parse"} 1`))
}
