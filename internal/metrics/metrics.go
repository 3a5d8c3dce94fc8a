// Package metrics exposes Prometheus instruments for the bridge binary.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wagiedev/miniapp-sdk-go/internal/message"
)

const namespace = "miniapp"

// Metrics holds the bridge's instruments on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	channels         *prometheus.CounterVec
	connected        *prometheus.GaugeVec
	messages         *prometheus.CounterVec
	sendFailures     *prometheus.CounterVec
	transferFailures prometheus.Counter
}

// New creates and registers every instrument.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		channels: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "established_total",
				Help:      "Channels that reached the connected state.",
			},
			[]string{"role"},
		),
		connected: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "connected",
				Help:      "1 while the channel is connected.",
			},
			[]string{"role"},
		),
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messages",
				Name:      "total",
				Help:      "Typed messages by role, direction and type.",
			},
			[]string{"role", "direction", "type"},
		),
		sendFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messages",
				Name:      "send_failures_total",
				Help:      "Sends that were rejected or failed.",
			},
			[]string{"role", "type"},
		),
		transferFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "channel",
				Name:      "transfer_failures_total",
				Help:      "Host port transfers that failed.",
			},
		),
	}

	m.registry.MustRegister(
		m.channels,
		m.connected,
		m.messages,
		m.sendFailures,
		m.transferFailures,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// RecordConnection tracks a connected-flag transition for role.
func (m *Metrics) RecordConnection(role string, connected bool) {
	if connected {
		m.channels.WithLabelValues(role).Inc()
		m.connected.WithLabelValues(role).Set(1)

		return
	}

	m.connected.WithLabelValues(role).Set(0)
}

// RecordMessage counts one typed message.
func (m *Metrics) RecordMessage(role string, dir message.Direction, t message.Type) {
	m.messages.WithLabelValues(role, dir.String(), string(t)).Inc()
}

// RecordSendFailure counts a send that returned an error.
func (m *Metrics) RecordSendFailure(role string, t message.Type) {
	m.sendFailures.WithLabelValues(role, string(t)).Inc()
}

// RecordTransferFailure counts a failed host port transfer.
func (m *Metrics) RecordTransferFailure() {
	m.transferFailures.Inc()
}
