package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for CompletionsTotal
const (
	OutcomeOK          = "ok"
	OutcomeRateLimited = "rate_limited"
	OutcomeAPIError    = "api_error"
	OutcomeUnexpected  = "unexpected"
)

// Metrics — счётчики relay на своём registry
type Metrics struct {
	registry           *prometheus.Registry
	CompletionsTotal   *prometheus.CounterVec
	CompletionDuration prometheus.Histogram
	UpdatesTotal       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		CompletionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpt_relay_completions_total",
				Help: "Completion API calls by outcome",
			},
			[]string{"outcome"},
		),
		CompletionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gpt_relay_completion_duration_seconds",
				Help:    "Duration of completion API calls in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
			},
		),
		UpdatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gpt_relay_telegram_updates_total",
				Help: "Telegram updates by kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	for _, o := range []string{OutcomeOK, OutcomeRateLimited, OutcomeAPIError, OutcomeUnexpected} {
		m.CompletionsTotal.WithLabelValues(o).Add(0)
	}

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
