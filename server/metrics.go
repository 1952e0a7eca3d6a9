package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry    *prometheus.Registry
	samples     prometheus.Counter
	requests    *prometheus.CounterVec
	duration    prometheus.Histogram
	collections prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shapeinfer",
			Name:      "samples_total",
			Help:      "Number of JSON samples classified.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shapeinfer",
			Name:      "requests_total",
			Help:      "Number of HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shapeinfer",
			Name:      "infer_duration_seconds",
			Help:      "Time spent parsing and folding the samples of one request.",
			Buckets:   prometheus.DefBuckets,
		}),
		collections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shapeinfer",
			Name:      "collections",
			Help:      "Number of live sample collections.",
		}),
	}
	m.registry.MustRegister(m.samples, m.requests, m.duration, m.collections)
	return m
}
