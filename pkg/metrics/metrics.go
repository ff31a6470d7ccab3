// Package metrics exposes Prometheus counters for parse traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/praetorian-inc/uaparser/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeMatched = "matched"
	OutcomeOther   = "other"
)

type Metrics struct {
	requestsTotal *prometheus.CounterVec
	parsesTotal   *prometheus.CounterVec
	parseDuration prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// A nil reg registers with the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "uaparser_requests_total", Help: "Total server requests"},
			[]string{"type", "success"},
		),
		parsesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "uaparser_parses_total", Help: "Total records resolved per family kind"},
			[]string{"kind", "outcome"},
		),
		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "uaparser_parse_duration_seconds",
				Help:    "Time to resolve all three records for one string",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.requestsTotal,
		m.parsesTotal,
		m.parseDuration,
	)

	return m
}

func (m *Metrics) Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveRequest counts one handled server request.
func (m *Metrics) ObserveRequest(reqType string, success bool) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(reqType, strconv.FormatBool(success)).Inc()
}

// ObserveParse records the outcome of one parse.
func (m *Metrics) ObserveParse(client types.Client, d time.Duration) {
	if m == nil {
		return
	}

	m.parsesTotal.WithLabelValues(string(types.KindUserAgent), outcome(client.UserAgent.IsDefault())).Inc()
	m.parsesTotal.WithLabelValues(string(types.KindOS), outcome(client.OS.IsDefault())).Inc()
	m.parsesTotal.WithLabelValues(string(types.KindDevice), outcome(client.Device.IsDefault())).Inc()
	m.parseDuration.Observe(d.Seconds())
}

func outcome(isDefault bool) string {
	if isDefault {
		return OutcomeOther
	}
	return OutcomeMatched
}
