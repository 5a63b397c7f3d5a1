package metrics

import (
	"github.com/concave-dev/floodgate/internal/submit"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolCollector exposes the counters of a submitter's token pool at scrape
// time.
type PoolCollector struct {
	stats func() submit.PoolStats

	capacity *prometheus.Desc
	acquired *prometheus.Desc
	released *prometheus.Desc
	inFlight *prometheus.Desc
	peak     *prometheus.Desc
}

// NewPoolCollector reads pool counters from stats on every scrape.
func NewPoolCollector(namespace string, stats func() submit.PoolStats) *PoolCollector {
	name := func(n string) string { return prometheus.BuildFQName(namespace, "token_pool", n) }

	return &PoolCollector{
		stats:    stats,
		capacity: prometheus.NewDesc(name("capacity"), "Admission tokens in the pool", nil, nil),
		acquired: prometheus.NewDesc(name("acquired_total"), "Tokens handed out", nil, nil),
		released: prometheus.NewDesc(name("released_total"), "Tokens returned", nil, nil),
		inFlight: prometheus.NewDesc(name("in_flight"), "Tokens currently held", nil, nil),
		peak:     prometheus.NewDesc(name("peak_in_flight"), "Highest number of tokens held at once", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (p *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.capacity
	ch <- p.acquired
	ch <- p.released
	ch <- p.inFlight
	ch <- p.peak
}

// Collect implements prometheus.Collector.
func (p *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := p.stats()
	ch <- prometheus.MustNewConstMetric(p.capacity, prometheus.GaugeValue, float64(s.Capacity))
	ch <- prometheus.MustNewConstMetric(p.acquired, prometheus.CounterValue, float64(s.Acquired))
	ch <- prometheus.MustNewConstMetric(p.released, prometheus.CounterValue, float64(s.Released))
	ch <- prometheus.MustNewConstMetric(p.inFlight, prometheus.GaugeValue, float64(s.InFlight))
	ch <- prometheus.MustNewConstMetric(p.peak, prometheus.GaugeValue, float64(s.PeakInFlight))
}
