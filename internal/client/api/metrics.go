package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the request pipeline.
type Metrics struct {
	RequestsTotal  *prometheus.CounterVec
	RefreshesTotal *prometheus.CounterVec
	RefreshWaiters prometheus.Gauge
}

// NewMetrics registers the pipeline collectors with reg. A nil reg keeps
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collabnotes",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "HTTP calls to the backend by method and status class.",
		}, []string{"method", "class"}), // class: 2xx, 4xx, 5xx, transport_error
		RefreshesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collabnotes",
			Subsystem: "api",
			Name:      "token_refreshes_total",
			Help:      "Access token refresh attempts by outcome.",
		}, []string{"outcome"}), // outcome: success, failure
		RefreshWaiters: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "collabnotes",
			Subsystem: "api",
			Name:      "refresh_waiters",
			Help:      "Requests queued behind an in-flight token refresh.",
		}),
	}
}

func (m *Metrics) observeStatus(method string, status int) {
	if m == nil {
		return
	}
	class := "transport_error"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	m.RequestsTotal.WithLabelValues(method, class).Inc()
}

func (m *Metrics) observeRefresh(err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.RefreshesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) setWaiters(n int) {
	if m == nil {
		return
	}
	m.RefreshWaiters.Set(float64(n))
}
