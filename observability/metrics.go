package observability

import (
	"dm-chat/domain/event"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dmchat"

// Metrics owns a dedicated Prometheus registry so tests can build as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	eventsDelivered  *prometheus.CounterVec
	eventsFailed     *prometheus.CounterVec
	workerRestarts   *prometheus.CounterVec
	processCPU       prometheus.Gauge
	processRSS       prometheus.Gauge
	processOpenFiles prometheus.Gauge
}

// NewMetrics registers every collector. connections reports the number of open
// realtime connections at scrape time.
func NewMetrics(connections func() int) *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		eventsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_delivered_total",
			Help:      "Realtime events handed to a connection.",
		}, []string{"type"}),
		eventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Realtime events a connection could not take.",
		}, []string{"type"}),
		workerRestarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_restarts_total",
			Help:      "Background workers restarted by the supervisor.",
		}, []string{"worker"}),
		processCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "CPU usage of the server process.",
		}),
		processRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_resident_memory_bytes",
			Help:      "Resident memory of the server process.",
		}),
		processOpenFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_open_files",
			Help:      "Open file descriptors of the server process.",
		}),
	}

	m.Registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.eventsDelivered, m.eventsFailed, m.workerRestarts,
		m.processCPU, m.processRSS, m.processOpenFiles,
		collectors.NewGoCollector(),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Open realtime connections.",
		}, func() float64 { return float64(connections()) }),
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) EventDelivered(eventType event.Type) {
	m.eventsDelivered.WithLabelValues(string(eventType)).Inc()
}

func (m *Metrics) EventFailed(eventType event.Type) {
	m.eventsFailed.WithLabelValues(string(eventType)).Inc()
}

func (m *Metrics) WorkerRestarted(workerName string) {
	m.workerRestarts.WithLabelValues(workerName).Inc()
}

func (m *Metrics) ObserveProcess(usage ProcessUsage) {
	m.processCPU.Set(usage.CPUPercent)
	m.processRSS.Set(float64(usage.RSSBytes))
	m.processOpenFiles.Set(float64(usage.OpenFiles))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
