// Package metrics exports cache and transaction counters through Prometheus.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "invoicing"

// Recorder collects read cache and transaction outcomes. A nil *Recorder
// records nothing.
type Recorder struct {
	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
	txTotal     *prometheus.CounterVec
	txDuration  *prometheus.HistogramVec
}

// NewRecorder registers the collectors on reg. A nil reg keeps them
// unregistered.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Read cache lookups served from memory.",
		}, []string{"view"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Read cache lookups that went to the store.",
		}, []string{"view"}),
		txTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "total",
			Help:      "Store transactions by operation and outcome.",
		}, []string{"operation", "status"}),
		txDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Store transaction latency, lock waits included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg != nil {
		reg.MustRegister(r.cacheHits, r.cacheMisses, r.txTotal, r.txDuration)
	}
	return r
}

func (r *Recorder) CacheHit(view string) {
	if r == nil {
		return
	}
	r.cacheHits.WithLabelValues(view).Inc()
}

func (r *Recorder) CacheMiss(view string) {
	if r == nil {
		return
	}
	r.cacheMisses.WithLabelValues(view).Inc()
}

// Observe records one transactional operation outcome.
func (r *Recorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if r == nil || operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.txTotal.WithLabelValues(operation, status).Inc()
	r.txDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
