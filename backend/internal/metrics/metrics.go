// Package metrics exposes Prometheus metrics for the chat service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bella-chat/backend/internal/keywords"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Inference metrics
	Inferences        *prometheus.CounterVec
	InferenceDuration *prometheus.HistogramVec

	// Analytics metrics
	KeywordDetections *prometheus.CounterVec
	GraphExports      *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, so tests can build
// as many as they like
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	inferences := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_total",
			Help:      "Completed inference calls by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	inferenceDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Time from prompt submission to the last fragment",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"model"},
	)

	keywordDetections := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyword_detections_total",
			Help:      "User messages that matched a data category",
		},
		[]string{"category"},
	)

	graphExports := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_exports_total",
			Help:      "Analytics export attempts by status",
		},
		[]string{"status"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		inferences,
		inferenceDuration,
		keywordDetections,
		graphExports,
	)

	return &Collector{
		registry:          registry,
		HTTPRequests:      httpRequests,
		HTTPDuration:      httpDuration,
		Inferences:        inferences,
		InferenceDuration: inferenceDuration,
		KeywordDetections: keywordDetections,
		GraphExports:      graphExports,
	}
}

// ObserveInference records one generation. It satisfies agent.Observer.
func (c *Collector) ObserveInference(model, outcome string, elapsed time.Duration) {
	c.Inferences.WithLabelValues(model, outcome).Inc()
	c.InferenceDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// ObserveKeywords counts the categories one user message hit
func (c *Collector) ObserveKeywords(categories []keywords.Category) {
	for _, cat := range categories {
		c.KeywordDetections.WithLabelValues(string(cat)).Inc()
	}
}

// ObserveExport counts an export attempt; status is "published", "disabled" or "failed"
func (c *Collector) ObserveExport(status string) {
	c.GraphExports.WithLabelValues(status).Inc()
}

// RegisterSessionGauge exposes the live session count read from fn at scrape time
func (c *Collector) RegisterSessionGauge(namespace string, fn func() int) {
	c.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Chat sessions currently held in memory",
		},
		func() float64 { return float64(fn()) },
	))
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency per route template
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
