package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	RunsTotal           prometheus.Counter
	DestinationsChecked *prometheus.CounterVec
	DealsFound          prometheus.Counter
	NotificationsSent   prometheus.Counter
	RunDuration         prometheus.Histogram
	ErrorsCount         *prometheus.CounterVec
}

// NewMetrics creates deal checker metrics registered on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "The total number of deal check runs",
		}),
		DestinationsChecked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "destinations_checked_total",
			Help:      "The total number of evaluated destinations by outcome",
		}, []string{"status"}),
		DealsFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_found_total",
			Help:      "The total number of flights priced below their threshold",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of deal alerts delivered",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time taken by one deal check run",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}
