// Package metric holds the Prometheus collectors of the guard.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gqlguard"

// Result labels of ChecksTotal.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

var (
	// CountBuckets covers field and alias counts from 1 to 2048.
	CountBuckets = prometheus.ExponentialBuckets(1, 2, 12)
	// SecondsBuckets covers range from 10us to 1.3s.
	SecondsBuckets = prometheus.ExponentialBuckets(0.00001, 4, 9)
)

type Metrics struct {
	ChecksTotal      *prometheus.CounterVec
	RejectionsTotal  *prometheus.CounterVec
	FieldCount       prometheus.Histogram
	AliasCount       prometheus.Histogram
	CheckDuration    prometheus.Histogram
	RateLimitedTotal prometheus.Counter
	UpstreamErrors   prometheus.Counter
}

// New registers the collectors with reg. A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "limiter",
			Name:      "checks_total",
			Help:      "Queries checked by the limiter, by result.",
		}, []string{"result"}),

		RejectionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "limiter",
			Name:      "rejections_total",
			Help:      "Errors reported by the limiter, by rule.",
		}, []string{"rule"}),

		FieldCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "limiter",
			Name:      "field_count",
			Help:      "Number of fields per checked query.",
			Buckets:   CountBuckets,
		}),

		AliasCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "limiter",
			Name:      "alias_count",
			Help:      "Number of aliased fields per checked query.",
			Buckets:   CountBuckets,
		}),

		CheckDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "limiter",
			Name:      "check_duration_seconds",
			Help:      "Time spent parsing and validating a query.",
			Buckets:   SecondsBuckets,
		}),

		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "rate_limited_total",
			Help:      "Requests refused by the rate limiter.",
		}),

		UpstreamErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "upstream_errors_total",
			Help:      "Requests that could not be forwarded to the upstream server.",
		}),
	}
}

// Handler serves the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
