// Package metrics exposes Prometheus collectors for webhook traffic and Send API calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "messenger_echo_bot"

// Metrics holds the bot collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	eventsTotal    *prometheus.CounterVec
	sendsTotal     *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
}

// New creates and registers the collectors. A nil registerer uses the default one.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Messaging events received, by category and processing status",
		}, []string{"category", "status"}),
		sendsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "send_api",
			Name:      "requests_total",
			Help:      "Send API calls, by message kind and outcome",
		}, []string{"kind", "status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of webhook request processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.eventsTotal, m.sendsTotal, m.webhookLatency)
	return m
}

func (m *Metrics) ObserveEvent(category, status string) {
	if m == nil {
		return
	}
	m.eventsTotal.WithLabelValues(category, status).Inc()
}

func (m *Metrics) ObserveSend(kind, status string) {
	if m == nil {
		return
	}
	m.sendsTotal.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) ObserveWebhook(route string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(route).Observe(seconds)
}
