// ABOUTME: Prometheus metrics for podman client calls
// ABOUTME: Counts requests by method and status, failures by error kind, and stream items

package podman

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsSubsystem = "podman_client"

// Metrics holds the collectors a Client reports into. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	streamItems *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: metricsSubsystem,
				Name:      "requests_total",
				Help:      "Total number of requests sent to the podman service",
			},
			[]string{"method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: metricsSubsystem,
				Name:      "response_header_seconds",
				Help:      "Time until response headers arrived from the podman service",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: metricsSubsystem,
				Name:      "errors_total",
				Help:      "Total number of failed calls by error kind",
			},
			[]string{"kind"},
		),
		streamItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: metricsSubsystem,
				Name:      "stream_items_total",
				Help:      "Total number of items delivered by response streams",
			},
			[]string{"mode"},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.latency, m.errors, m.streamItems} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeError(err error) {
	if m == nil || err == nil {
		return
	}
	kind, ok := KindOf(err)
	label := "other"
	if ok {
		label = kind.String()
	}
	m.errors.WithLabelValues(label).Inc()
}

func (m *Metrics) observeStreamItem(mode string) {
	if m == nil {
		return
	}
	m.streamItems.WithLabelValues(mode).Inc()
}
