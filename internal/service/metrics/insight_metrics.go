package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	InsightLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "healthpull",
			Subsystem: "insights",
			Name:      "latency_seconds",
			Help:      "Latency of insight endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	InsightErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthpull",
			Subsystem: "insights",
			Name:      "errors_total",
			Help:      "Errors by insight endpoint",
		},
		[]string{"endpoint"},
	)

	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthpull",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Sync runs by outcome",
		},
		[]string{"outcome"},
	)

	AlertStreamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "healthpull",
			Subsystem: "alerts",
			Name:      "stream_clients",
			Help:      "Connected alert stream clients",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(InsightLatency, InsightErrors, SyncRuns, AlertStreamClients)
	})
}
