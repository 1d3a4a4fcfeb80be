// metrics — коллекторы Prometheus для сессии, ленты и локального HTTP.
//
// Все методы Observe* безопасны на nil-приёмнике: компоненты, собранные
// без метрик (тесты, CLI-команды), просто ничего не пишут.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — набор коллекторов клиента.
type Metrics struct {
	SessionChecks *prometheus.CounterVec
	Refreshes     *prometheus.CounterVec

	FeedFetches    *prometheus.CounterVec
	FeedDuration   *prometheus.HistogramVec
	ApplicationOps *prometheus.CounterVec
	StaleResponses prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New регистрирует коллекторы в reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SessionChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfeed_session_checks_total",
				Help: "Session checks by resulting signal",
			},
			[]string{"result"},
		),
		Refreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfeed_session_refreshes_total",
				Help: "Access token refresh attempts by outcome",
			},
			[]string{"outcome"},
		),
		FeedFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfeed_feed_fetches_total",
				Help: "Backend fetches issued by the feed controller",
			},
			[]string{"kind", "success"},
		),
		FeedDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobfeed_feed_fetch_duration_seconds",
				Help:    "Feed fetch latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),
		ApplicationOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfeed_application_ops_total",
				Help: "Apply/unapply operations by outcome",
			},
			[]string{"action", "success"},
		),
		StaleResponses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "jobfeed_feed_stale_responses_total",
				Help: "Feed responses discarded because a newer request was issued",
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobfeed_http_requests_total",
				Help: "Local HTTP requests by route and status",
			},
			[]string{"route", "code"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobfeed_http_request_duration_seconds",
				Help:    "Local HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// NewRegistry — отдельный реестр с коллекторами (для тестов и serve).
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	return reg, New(reg)
}

// Handler отдаёт /metrics для конкретного реестра.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveCheck(result string) {
	if m == nil {
		return
	}
	m.SessionChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRefresh(outcome string) {
	if m == nil {
		return
	}
	m.Refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFetch(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FeedFetches.WithLabelValues(kind, success(err)).Inc()
	m.FeedDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) ObserveApplication(action string, err error) {
	if m == nil {
		return
	}
	m.ApplicationOps.WithLabelValues(action, success(err)).Inc()
}

func (m *Metrics) ObserveStale() {
	if m == nil {
		return
	}
	m.StaleResponses.Inc()
}

func (m *Metrics) ObserveHTTP(route, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, code).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

func success(err error) string {
	if err != nil {
		return "false"
	}
	return "true"
}
