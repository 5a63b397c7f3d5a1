// Package metrics exports floodgate submission and API metrics to Prometheus.
//
// Collector implements submit.Observer so a submitter reports admissions,
// completions, rejections and batch outcomes without knowing about
// Prometheus. Every collector owns its registry; the daemon serves it on
// /metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the floodgate metric families.
type Collector struct {
	registry *prometheus.Registry

	// Submission
	writesAdmitted  prometheus.Counter
	writesCompleted *prometheus.CounterVec
	writesRejected  prometheus.Counter
	writesInFlight  prometheus.Gauge
	writeDuration   prometheus.Histogram

	// Batches
	batchesTotal  *prometheus.CounterVec
	batchDuration prometheus.Histogram
	batchRequests *prometheus.CounterVec

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var _ submit.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry, including the Go
// runtime and process collectors.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	c := &Collector{registry: reg}

	c.writesAdmitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_admitted_total",
		Help:      "Writes that obtained an admission token",
	})

	c.writesCompleted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_completed_total",
		Help:      "Writes that finished, by result",
	}, []string{"result"})

	c.writesRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writes_rejected_total",
		Help:      "Writes refused by a full fail-fast queue",
	})

	c.writesInFlight = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "writes_in_flight",
		Help:      "Writes currently holding an admission token",
	})

	c.writeDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "write_duration_seconds",
		Help:      "Time a write held its admission token",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	c.batchesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batches_total",
		Help:      "Finished batches, by whether every request succeeded",
	}, []string{"result"})

	c.batchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Wall time from batch start to join",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})

	c.batchRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_requests_total",
		Help:      "Requests of finished batches, by outcome",
	}, []string{"outcome"})

	c.httpRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	c.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	return c
}

// Admitted implements submit.Observer.
func (c *Collector) Admitted(submit.Request) {
	c.writesAdmitted.Inc()
	c.writesInFlight.Inc()
}

// Completed implements submit.Observer.
func (c *Collector) Completed(res submit.Result, latency time.Duration) {
	c.writesInFlight.Dec()
	c.writeDuration.Observe(latency.Seconds())

	result := "success"
	if res.Err != nil {
		result = "failure"
	}
	c.writesCompleted.WithLabelValues(result).Inc()
}

// Rejected implements submit.Observer.
func (c *Collector) Rejected(submit.Request) {
	c.writesRejected.Inc()
}

// BatchFinished implements submit.Observer.
func (c *Collector) BatchFinished(o submit.Outcome, elapsed time.Duration) {
	result := "ok"
	if !o.OK() {
		result = "partial"
	}
	c.batchesTotal.WithLabelValues(result).Inc()
	c.batchDuration.Observe(elapsed.Seconds())

	c.batchRequests.WithLabelValues("succeeded").Add(float64(o.Succeeded))
	c.batchRequests.WithLabelValues("rejected").Add(float64(o.Rejected))
	c.batchRequests.WithLabelValues("cancelled").Add(float64(o.Cancelled))
	c.batchRequests.WithLabelValues("failed").Add(float64(o.Failed - o.Rejected - o.Cancelled))
}

// RecordHTTPRequest records one served API request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Register adds an extra collector to the registry, ignoring duplicates.
func (c *Collector) Register(col prometheus.Collector) error {
	if err := c.registry.Register(col); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return err
	}
	return nil
}
