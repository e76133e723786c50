package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ReceiptMetrics tracks receipt archival and thermal printing outcomes.
// Printing is best effort, so the failure counter is the only place a
// dropped print job remains visible.
type ReceiptMetrics struct {
	archived     *prometheus.CounterVec
	printSuccess *prometheus.CounterVec
	printFailure *prometheus.CounterVec
}

// NewReceiptMetrics registers the receipt metrics on the provided registerer.
func NewReceiptMetrics(reg prometheus.Registerer) *ReceiptMetrics {
	if reg == nil {
		return &ReceiptMetrics{}
	}
	archived := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_archived_total",
		Help: "Receipts written to the archive directory.",
	}, []string{"type"})
	printSuccess := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_print_success_total",
		Help: "Receipts successfully sent to the thermal printer.",
	}, []string{"type"})
	printFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "receipts_print_failure_total",
		Help: "Receipt print jobs that failed.",
	}, []string{"type"})
	reg.MustRegister(archived, printSuccess, printFailure)
	return &ReceiptMetrics{
		archived:     archived,
		printSuccess: printSuccess,
		printFailure: printFailure,
	}
}

// IncArchived increments the archived counter for the receipt type.
func (r *ReceiptMetrics) IncArchived(receiptType string) {
	if r == nil || r.archived == nil {
		return
	}
	r.archived.WithLabelValues(normalizeLabel(receiptType)).Inc()
}

// IncPrintSuccess increments the print success counter for the receipt type.
func (r *ReceiptMetrics) IncPrintSuccess(receiptType string) {
	if r == nil || r.printSuccess == nil {
		return
	}
	r.printSuccess.WithLabelValues(normalizeLabel(receiptType)).Inc()
}

// IncPrintFailure increments the print failure counter for the receipt type.
func (r *ReceiptMetrics) IncPrintFailure(receiptType string) {
	if r == nil || r.printFailure == nil {
		return
	}
	r.printFailure.WithLabelValues(normalizeLabel(receiptType)).Inc()
}
