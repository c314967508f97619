package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the customer module.
type Metrics struct {
	CustomersCreated   prometheus.Counter
	CustomersDeleted   prometheus.Counter
	Conflicts          prometheus.Counter
	EnrichmentFailures prometheus.Counter
	OperationDuration  *prometheus.HistogramVec
}

// New registers the customer metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CustomersCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "customer_service_customers_created_total",
			Help: "Total number of customers created",
		}),
		CustomersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "customer_service_customers_deleted_total",
			Help: "Total number of customers soft-deleted",
		}),
		Conflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "customer_service_customer_conflicts_total",
			Help: "Customer creations rejected because the user already has an active customer",
		}),
		EnrichmentFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "customer_service_user_enrichment_failures_total",
			Help: "User directory lookups that failed during best-effort enrichment",
		}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "customer_service_customer_operation_duration_seconds",
			Help:    "Duration of customer service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// ObserveOperation records the duration of op. Call with time.Now() taken at
// the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
