package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the kyc module.
type Metrics struct {
	DocumentsSubmitted prometheus.Counter
	DocumentsDeleted   prometheus.Counter
	Rejections         *prometheus.CounterVec
	Compensations      prometheus.Counter
	UploadBytes        prometheus.Histogram
	OperationDuration  *prometheus.HistogramVec
}

// New registers the kyc metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DocumentsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "customer_service_kyc_documents_submitted_total",
			Help: "Total number of KYC documents submitted",
		}),
		DocumentsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "customer_service_kyc_documents_deleted_total",
			Help: "Total number of KYC documents soft-deleted",
		}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "customer_service_kyc_rejections_total",
			Help: "KYC writes rejected, by reason",
		}, []string{"reason"}),
		Compensations: f.NewCounter(prometheus.CounterOpts{
			Name: "customer_service_kyc_compensating_deletes_total",
			Help: "Stored documents removed because the database write failed",
		}),
		UploadBytes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "customer_service_kyc_upload_bytes",
			Help:    "Size of accepted KYC uploads",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "customer_service_kyc_operation_duration_seconds",
			Help:    "Duration of kyc service operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// ObserveOperation records the duration of op.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Reject counts a rejected write.
func (m *Metrics) Reject(reason string) {
	m.Rejections.WithLabelValues(reason).Inc()
}
