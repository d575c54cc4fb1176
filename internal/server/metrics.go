package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	builds   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "msgdoc",
			Name:      "description_requests_total",
			Help:      "Description requests by format, mode and status code.",
		}, []string{"format", "mode", "code"}),
		builds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "msgdoc",
			Name:      "description_build_seconds",
			Help:      "Time spent building and transforming a description.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
	}
	reg.MustRegister(m.requests, m.builds)
	return m
}

func mode(legacy bool) string {
	if legacy {
		return "legacy"
	}
	return "richer"
}

func (m *metrics) observeRequest(format string, legacy bool, code int) {
	m.requests.WithLabelValues(format, mode(legacy), strconv.Itoa(code)).Inc()
}

func (m *metrics) observeBuild(legacy bool, started time.Time) {
	m.builds.WithLabelValues(mode(legacy)).Observe(time.Since(started).Seconds())
}
