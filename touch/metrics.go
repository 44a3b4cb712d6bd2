package touch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts surface traffic.
type Metrics struct {
	MessagesSent        *prometheus.CounterVec
	MessagesReceived    *prometheus.CounterVec
	SendErrors          *prometheus.CounterVec
	DecodeErrors        *prometheus.CounterVec
	UnresolvedAddresses prometheus.Counter
	LayoutWarnings      *prometheus.CounterVec
	EchoSuppressed      prometheus.Counter
	Controls            prometheus.Gauge
}

// NewMetrics creates the surface metrics. They are registered with reg
// unless reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "basictouch",
				Subsystem: "osc",
				Name:      "sent_total",
				Help:      "Total number of OSC messages sent",
			},
			[]string{"transport"},
		),

		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "basictouch",
				Subsystem: "osc",
				Name:      "received_total",
				Help:      "Total number of OSC messages received",
			},
			[]string{"transport"},
		),

		SendErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "basictouch",
				Subsystem: "osc",
				Name:      "send_errors_total",
				Help:      "Total number of OSC messages that could not be sent",
			},
			[]string{"transport"},
		),

		DecodeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "basictouch",
				Subsystem: "osc",
				Name:      "decode_errors_total",
				Help:      "Total number of malformed OSC messages dropped",
			},
			[]string{"transport"},
		),

		UnresolvedAddresses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "basictouch",
				Subsystem: "osc",
				Name:      "unresolved_total",
				Help:      "Total number of inbound messages with no matching control",
			},
		),

		LayoutWarnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "basictouch",
				Subsystem: "layout",
				Name:      "warnings_total",
				Help:      "Total number of layout warnings",
			},
			[]string{"kind"},
		),

		EchoSuppressed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "basictouch",
				Subsystem: "params",
				Name:      "echo_suppressed_total",
				Help:      "Total number of parameter changes not echoed to the surface",
			},
		),

		Controls: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "basictouch",
				Subsystem: "layout",
				Name:      "controls",
				Help:      "Number of rows assigned to a control by the last layout",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.MessagesSent,
			m.MessagesReceived,
			m.SendErrors,
			m.DecodeErrors,
			m.UnresolvedAddresses,
			m.LayoutWarnings,
			m.EchoSuppressed,
			m.Controls,
		)
	}
	return m
}
