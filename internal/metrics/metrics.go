package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/match"
	"github.com/mcoot/werewolf-go/internal/sse"
)

const namespace = "werewolf"

// Metrics holds the server's collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	MatchesCreated   prometheus.Counter
	MatchesStarted   prometheus.Counter
	MatchPlayers     prometheus.Histogram
	PhaseTransitions *prometheus.CounterVec
	MatchesFinished  *prometheus.CounterVec
	MatchesDeleted   prometheus.Counter
	Countdowns       prometheus.Gauge
	Subscribers      *prometheus.GaugeVec
	Requests         *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

var (
	_ match.Observer = (*Metrics)(nil)
	_ sse.Tracker    = (*Metrics)(nil)
)

// New creates and registers all collectors. Go runtime and process
// collectors are included when withRuntime is set.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		MatchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Number of matches created",
		}),
		MatchesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_started_total",
			Help:      "Number of matches started",
		}),
		MatchPlayers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_players",
			Help:      "Players seated when a match starts",
			Buckets:   prometheus.LinearBuckets(4, 2, 8),
		}),
		PhaseTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phase_transitions_total",
			Help:      "Phases entered, by phase and what triggered the transition",
		}, []string{"phase", "trigger"}),
		MatchesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_finished_total",
			Help:      "Finished matches by winning side",
		}, []string{"winner"}),
		MatchesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_deleted_total",
			Help:      "Number of matches deleted",
		}),
		Countdowns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "countdowns_running",
			Help:      "Matches with a live countdown task",
		}),
		Subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Connected event subscribers by transport",
		}, []string{"transport"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		m.MatchesCreated,
		m.MatchesStarted,
		m.MatchPlayers,
		m.PhaseTransitions,
		m.MatchesFinished,
		m.MatchesDeleted,
		m.Countdowns,
		m.Subscribers,
		m.Requests,
		m.RequestDuration,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the registry backing these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) MatchCreated() {
	m.MatchesCreated.Inc()
}

func (m *Metrics) MatchStarted(players int) {
	m.MatchesStarted.Inc()
	m.MatchPlayers.Observe(float64(players))
}

func (m *Metrics) PhaseEntered(phase model.Phase, trigger string) {
	m.PhaseTransitions.WithLabelValues(string(phase), trigger).Inc()
}

func (m *Metrics) MatchFinished(winner model.Team) {
	m.MatchesFinished.WithLabelValues(string(winner)).Inc()
}

func (m *Metrics) MatchDeleted() {
	m.MatchesDeleted.Inc()
}

func (m *Metrics) CountdownsRunning(n int) {
	m.Countdowns.Set(float64(n))
}

func (m *Metrics) SubscriberConnected(transport string) {
	m.Subscribers.WithLabelValues(transport).Inc()
}

func (m *Metrics) SubscriberDisconnected(transport string) {
	m.Subscribers.WithLabelValues(transport).Dec()
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
