// Package metrics holds the Prometheus collectors for scenelingo.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/abhisek/scenelingo/internal/llm"
)

const namespace = "scenelingo"

// Metrics owns a private registry so tests and the server see the same
// collectors without touching the global one.
type Metrics struct {
	registry *prometheus.Registry

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	sessions    *prometheus.CounterVec
	words       prometheus.Counter
	checkIns    *prometheus.CounterVec
	staleImages prometheus.Counter

	streak prometheus.Gauge
	points prometheus.Gauge
}

// New creates and registers all collectors, plus the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Generative requests by provider, purpose and outcome.",
		}, []string{"provider", "model", "purpose", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Generative request latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 45},
		}, []string{"provider", "purpose"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed by direction.",
		}, []string{"provider", "direction"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Learning session lifecycle events.",
		}, []string{"event"}),
		words: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_learned_total",
			Help:      "Words credited by completed sessions.",
		}),
		checkIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkins_total",
			Help:      "Daily bonus presses by result.",
		}, []string{"result"}),
		staleImages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_images_total",
			Help:      "Image results discarded because the card had changed.",
		}),
		streak: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streak_days",
			Help:      "Current streak.",
		}),
		points: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "points",
			Help:      "Current point total.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.llmRequests, m.llmLatency, m.llmTokens,
		m.sessions, m.words, m.checkIns, m.staleImages,
		m.streak, m.points,
	)
	return m
}

// Registry returns the registry backing these collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveLLMCall implements llm.Observer.
func (m *Metrics) ObserveLLMCall(c llm.Call) {
	m.llmRequests.WithLabelValues(c.Provider, c.Model, c.Purpose, llm.Classify(c.Err)).Inc()
	m.llmLatency.WithLabelValues(c.Provider, c.Purpose).Observe(c.Latency.Seconds())
	if c.Usage.InputTokens > 0 {
		m.llmTokens.WithLabelValues(c.Provider, "input").Add(float64(c.Usage.InputTokens))
	}
	if c.Usage.OutputTokens > 0 {
		m.llmTokens.WithLabelValues(c.Provider, "output").Add(float64(c.Usage.OutputTokens))
	}
}

// SessionStarted counts a session whose vocabulary arrived. Fallback
// sessions are counted separately as well.
func (m *Metrics) SessionStarted(fallback bool) {
	m.sessions.WithLabelValues("start").Inc()
	if fallback {
		m.sessions.WithLabelValues("fallback").Inc()
	}
}

// SessionCompleted counts a collected reward.
func (m *Metrics) SessionCompleted(words int) {
	m.sessions.WithLabelValues("complete").Inc()
	m.words.Add(float64(words))
}

// SessionCancelled counts a session left before its reward.
func (m *Metrics) SessionCancelled() {
	m.sessions.WithLabelValues("cancel").Inc()
}

// CheckIn counts a daily bonus press.
func (m *Metrics) CheckIn(result string) {
	m.checkIns.WithLabelValues(result).Inc()
}

// StaleImage counts a discarded image result.
func (m *Metrics) StaleImage() {
	m.staleImages.Inc()
}

// SetProgress publishes the current streak and points.
func (m *Metrics) SetProgress(streak, points int) {
	m.streak.Set(float64(streak))
	m.points.Set(float64(points))
}

var _ llm.Observer = (*Metrics)(nil)
