package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/orakul/orakul/pkg/observability"
)

// metrics implements every observability hook on a Prometheus registry.
type metrics struct {
	registry *prometheus.Registry

	levelChanges  *prometheus.CounterVec
	levelDuration *prometheus.HistogramVec
	sceneNodes    *prometheus.GaugeVec
	events        *prometheus.CounterVec

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		levelChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orakul_level_changes_total",
			Help: "Number of level projections",
		}, []string{"level"}),
		levelDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orakul_level_change_duration_seconds",
			Help:    "Projection plus layout latency per level",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"level"}),
		sceneNodes: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "orakul_scene_elements",
			Help: "Elements in the most recently projected scene",
		}, []string{"element"}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orakul_events_total",
			Help: "Dispatched events by type and outcome",
		}, []string{"type", "changed"}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orakul_pipeline_stage_duration_seconds",
			Help:    "Pipeline stage latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orakul_pipeline_stage_errors_total",
			Help: "Failed pipeline stages",
		}, []string{"stage"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orakul_cache_operations_total",
			Help: "Cache lookups and writes",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orakul_cache_entry_size_bytes",
			Help:    "Size of cache writes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orakul_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "orakul_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// register installs m as the process-wide hooks.
func (m *metrics) register() {
	observability.SetSceneHooks(m)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *metrics) OnLevelChange(level string, nodes, edges int, d time.Duration) {
	m.levelChanges.WithLabelValues(level).Inc()
	m.levelDuration.WithLabelValues(level).Observe(d.Seconds())
	m.sceneNodes.WithLabelValues("nodes").Set(float64(nodes))
	m.sceneNodes.WithLabelValues("edges").Set(float64(edges))
}

func (m *metrics) OnEvent(event string, changed bool) {
	m.events.WithLabelValues(event, strconv.FormatBool(changed)).Inc()
}

func (m *metrics) OnLoadComplete(_ context.Context, _ string, d time.Duration, err error) {
	m.stage("load", d, err)
}

func (m *metrics) OnLayoutComplete(_ context.Context, _ string, _ int, d time.Duration) {
	m.stage("layout", d, nil)
}

func (m *metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.stage("render", d, err)
}

func (m *metrics) stage(name string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

func (m *metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (m *metrics) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
