package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReturnsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "returns_submitted_total",
		Help: "Total number of return requests successfully submitted.",
	})

	ReturnsApprovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "returns_approved_total",
		Help: "Total number of return requests approved.",
	})

	ReturnsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "returns_rejected_total",
		Help: "Total number of return requests rejected.",
	})

	RefundsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refunds_completed_total",
		Help: "Total number of refunds marked successful.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_sessions",
		Help: "Current number of live sessions.",
	})

	ReturnCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "return_cache_items",
		Help: "Current number of items in the return request cache.",
	})
)
