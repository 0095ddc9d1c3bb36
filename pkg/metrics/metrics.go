package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultEmpty   = "empty"
)

// Row kinds counted during a catalog refresh.
const (
	KindProduct        = "product"
	KindNetworkProduct = "network_product"
	KindNetworkStore   = "network_store"
)

// Metrics records catalog refreshes, submissions and exports.
type Metrics struct {
	refreshDuration *prometheus.HistogramVec
	refreshTotal    *prometheus.CounterVec
	rowsAccepted    *prometheus.CounterVec
	rowsSkipped     *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	itemsSubmitted  prometheus.Counter
	exports         *prometheus.CounterVec
}

// New registers the application metrics on the provided registerer. A nil
// registerer yields a recorder whose methods are no-ops.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	refreshDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_refresh_duration_seconds",
		Help:    "Duration of catalog refreshes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	refreshTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_refresh_total",
		Help: "Catalog refresh attempts by result.",
	}, []string{"result"})
	rowsAccepted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_rows_accepted_total",
		Help: "Rows persisted during catalog refreshes.",
	}, []string{"kind"})
	rowsSkipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_rows_skipped_total",
		Help: "Rows dropped during catalog refreshes.",
	}, []string{"kind"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submissions_total",
		Help: "Order submissions by result.",
	}, []string{"result"})
	itemsSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_items_submitted_total",
		Help: "Line items persisted by order submissions.",
	})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_exports_total",
		Help: "Entry exports by result.",
	}, []string{"result"})
	reg.MustRegister(refreshDuration, refreshTotal, rowsAccepted, rowsSkipped, submissions, itemsSubmitted, exports)
	return &Metrics{
		refreshDuration: refreshDuration,
		refreshTotal:    refreshTotal,
		rowsAccepted:    rowsAccepted,
		rowsSkipped:     rowsSkipped,
		submissions:     submissions,
		itemsSubmitted:  itemsSubmitted,
		exports:         exports,
	}
}

// ObserveRefresh records one catalog refresh attempt.
func (m *Metrics) ObserveRefresh(result string, duration time.Duration) {
	if m == nil || m.refreshTotal == nil {
		return
	}
	result = normalizeLabel(result)
	m.refreshTotal.WithLabelValues(result).Inc()
	m.refreshDuration.WithLabelValues(result).Observe(duration.Seconds())
}

// AddRows records accepted and skipped rows for a row kind.
func (m *Metrics) AddRows(kind string, accepted, skipped int) {
	if m == nil || m.rowsAccepted == nil {
		return
	}
	kind = normalizeLabel(kind)
	if accepted > 0 {
		m.rowsAccepted.WithLabelValues(kind).Add(float64(accepted))
	}
	if skipped > 0 {
		m.rowsSkipped.WithLabelValues(kind).Add(float64(skipped))
	}
}

// ObserveSubmission records a submission outcome and the number of items it persisted.
func (m *Metrics) ObserveSubmission(result string, items int) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(result)).Inc()
	if items > 0 {
		m.itemsSubmitted.Add(float64(items))
	}
}

// IncExport records an export outcome.
func (m *Metrics) IncExport(result string) {
	if m == nil || m.exports == nil {
		return
	}
	m.exports.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
