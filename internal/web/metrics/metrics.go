// Package metrics exposes frontend metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/petsit/internal/web/route"
	"github.com/aussiebroadwan/petsit/pkg/petsdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records upstream API exchanges, guard decisions,
// reauthentications and the session population.
type Collector struct {
	apiRequests    *prometheus.CounterVec
	apiLatency     *prometheus.HistogramVec
	guardDecisions *prometheus.CounterVec
	reauths        prometheus.Counter
	sessionsSwept  prometheus.Counter
	sessions       prometheus.GaugeFunc
}

var _ petsdk.Recorder = (*Collector)(nil)

// NewCollector registers the frontend metrics with reg. liveSessions, when
// non-nil, backs the live session gauge.
func NewCollector(reg prometheus.Registerer, liveSessions func() int) *Collector {
	if liveSessions == nil {
		liveSessions = func() int { return 0 }
	}

	c := &Collector{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petsit_api_requests_total",
			Help: "Upstream API requests by channel, method and status (0 = no response).",
		}, []string{"channel", "method", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petsit_api_request_duration_seconds",
			Help:    "Upstream API latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"channel"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petsit_route_guard_decisions_total",
			Help: "Route guard outcomes by route path.",
		}, []string{"route", "outcome"}),
		reauths: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petsit_reauthentications_total",
			Help: "Forced reauthentications triggered by 401 responses.",
		}),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petsit_sessions_swept_total",
			Help: "Idle browser sessions dropped by the sweeper.",
		}),
		sessions: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "petsit_sessions",
			Help: "Browser sessions currently held in memory.",
		}, func() float64 { return float64(liveSessions()) }),
	}

	reg.MustRegister(
		c.apiRequests,
		c.apiLatency,
		c.guardDecisions,
		c.reauths,
		c.sessionsSwept,
		c.sessions,
	)

	return c
}

// ObserveRequest implements petsdk.Recorder.
func (c *Collector) ObserveRequest(channel petsdk.ChannelName, method string, status int, elapsed time.Duration) {
	c.apiRequests.WithLabelValues(string(channel), method, strconv.Itoa(status)).Inc()
	c.apiLatency.WithLabelValues(string(channel)).Observe(elapsed.Seconds())
}

func (c *Collector) RecordGuardDecision(path string, outcome route.Outcome) {
	c.guardDecisions.WithLabelValues(path, outcome.String()).Inc()
}

func (c *Collector) RecordReauthentication() {
	c.reauths.Inc()
}

func (c *Collector) RecordSweep(dropped int) {
	c.sessionsSwept.Add(float64(dropped))
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
