package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSummary represents aggregated payment data
type PaymentSummary struct {
	Default  ProcessorSummary
	Fallback ProcessorSummary
}

// ProcessorSummary represents summary data for a specific processor.
// TotalAmount carries full precision; rounding happens at the response
// boundary only.
type ProcessorSummary struct {
	TotalRequests int64
	TotalAmount   decimal.Decimal
}

// SummaryFilter represents optional time bounds for summary queries
type SummaryFilter struct {
	From *time.Time
	To   *time.Time
}

// Bounded reports whether the filter restricts the query to a time range
func (f *SummaryFilter) Bounded() bool {
	return f != nil && (f.From != nil || f.To != nil)
}

// Range resolves the effective bounds: From defaults to the epoch, To to now.
// Both bounds are inclusive.
func (f *SummaryFilter) Range() (time.Time, time.Time) {
	from := time.Unix(0, 0).UTC()
	to := time.Now().UTC()
	if f != nil && f.From != nil {
		from = *f.From
	}
	if f != nil && f.To != nil {
		to = *f.To
	}
	return from, to
}

// NewPaymentSummary creates a zeroed payment summary
func NewPaymentSummary() *PaymentSummary {
	return &PaymentSummary{
		Default:  ProcessorSummary{TotalAmount: decimal.Zero},
		Fallback: ProcessorSummary{TotalAmount: decimal.Zero},
	}
}

// AddPayment adds a dispatched payment to the summary
func (ps *PaymentSummary) AddPayment(processorType ProcessorType, amount decimal.Decimal) {
	switch processorType {
	case ProcessorTypeDefault:
		ps.Default.TotalRequests++
		ps.Default.TotalAmount = ps.Default.TotalAmount.Add(amount)
	case ProcessorTypeFallback:
		ps.Fallback.TotalRequests++
		ps.Fallback.TotalAmount = ps.Fallback.TotalAmount.Add(amount)
	}
}

// Clone returns an independent copy of the summary
func (ps *PaymentSummary) Clone() *PaymentSummary {
	clone := *ps
	return &clone
}

// Reset resets all summary data
func (ps *PaymentSummary) Reset() {
	ps.Default = ProcessorSummary{TotalAmount: decimal.Zero}
	ps.Fallback = ProcessorSummary{TotalAmount: decimal.Zero}
}
