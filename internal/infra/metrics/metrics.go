package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DocumentsGenerated *prometheus.CounterVec
	GenerateDuration   prometheus.Histogram
	GenerateFailures   prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers on a caller-supplied registry; tests pass a fresh one.
func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DocumentsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pricebook_documents_generated_total",
			Help: "Generated price sheets by output format.",
		}, []string{"format"}),
		GenerateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pricebook_document_generate_seconds",
			Help:    "Time spent building and rendering one price sheet.",
			Buckets: prometheus.DefBuckets,
		}),
		GenerateFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "pricebook_document_failures_total",
			Help: "Price sheet generations that ended in an error.",
		}),
	}
}
