package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rlink"

// Metrics - счетчики и датчики моста. Методы безопасны для nil-получателя.
type Metrics struct {
	registry *prometheus.Registry

	framesSent         prometheus.Counter
	framesWithheld     *prometheus.CounterVec
	serialOpenFailures prometheus.Counter
	malformedMessages  prometheus.Counter
	networkSessions    prometheus.Counter
	telemetryDecodes   prometheus.Counter
	sinkFailures       *prometheus.CounterVec
	sinkLatency        *prometheus.HistogramVec

	networkActive  prometheus.Gauge
	serialOpen     prometheus.Gauge
	batteryVoltage prometheus.Gauge
}

// NewMetrics создает метрики на собственном реестре
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		framesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "RC channel frames written to the serial device.",
		}),
		framesWithheld: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_withheld_total",
			Help:      "Link ticks that did not transmit, by reason.",
		}, []string{"reason"}),
		serialOpenFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serial_open_failures_total",
			Help:      "Failed attempts to open the serial device.",
		}),
		malformedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_messages_total",
			Help:      "Inbound network payloads dropped by the parser or validation.",
		}),
		networkSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "network_sessions_total",
			Help:      "Established upstream TCP sessions.",
		}),
		telemetryDecodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_decodes_total",
			Help:      "Battery telemetry records decoded from the serial stream.",
		}),
		sinkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_sink_failures_total",
			Help:      "Telemetry snapshots a sink failed to publish.",
		}, []string{"sink"}),
		sinkLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "telemetry_sink_latency_seconds",
			Help:      "Time spent publishing one snapshot to a sink.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"sink"}),
		networkActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_link_active",
			Help:      "1 while the upstream link is inside the liveness window.",
		}),
		serialOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "serial_open",
			Help:      "1 while the serial device is open.",
		}),
		batteryVoltage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "battery_voltage_volts",
			Help:      "Last decoded battery voltage.",
		}),
	}

	reg.MustRegister(
		m.framesSent, m.framesWithheld, m.serialOpenFailures, m.malformedMessages,
		m.networkSessions, m.telemetryDecodes, m.sinkFailures, m.sinkLatency,
		m.networkActive, m.serialOpen, m.batteryVoltage,
	)
	return m
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) FrameSent() {
	if m == nil {
		return
	}
	m.framesSent.Inc()
}

func (m *Metrics) FrameWithheld(reason string) {
	if m == nil {
		return
	}
	m.framesWithheld.WithLabelValues(reason).Inc()
}

func (m *Metrics) SerialOpenFailed() {
	if m == nil {
		return
	}
	m.serialOpenFailures.Inc()
}

func (m *Metrics) MessageMalformed() {
	if m == nil {
		return
	}
	m.malformedMessages.Inc()
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.networkSessions.Inc()
}

func (m *Metrics) TelemetryDecoded(volts float64) {
	if m == nil {
		return
	}
	m.telemetryDecodes.Inc()
	m.batteryVoltage.Set(volts)
}

func (m *Metrics) SinkFailed(sink string) {
	if m == nil {
		return
	}
	m.sinkFailures.WithLabelValues(sink).Inc()
}

func (m *Metrics) ObserveSink(sink string, seconds float64) {
	if m == nil {
		return
	}
	m.sinkLatency.WithLabelValues(sink).Observe(seconds)
}

func (m *Metrics) SetNetworkActive(active bool) {
	if m == nil {
		return
	}
	m.networkActive.Set(boolToFloat(active))
}

func (m *Metrics) SetSerialOpen(open bool) {
	if m == nil {
		return
	}
	m.serialOpen.Set(boolToFloat(open))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
