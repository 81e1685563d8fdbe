package dtos

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequest represents a payment request from the API
type PaymentRequest struct {
	CorrelationID string          `json:"correlationId"`
	Amount        decimal.Decimal `json:"amount"`
}

// PaymentResponse represents a payment response to the API
type PaymentResponse struct {
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}

// AdmissionStatus is the outcome of an admission attempt
type AdmissionStatus int

const (
	AdmissionAccepted AdmissionStatus = iota
	AdmissionDuplicate
)

// PaymentSummaryRequest represents a request for payment summary
type PaymentSummaryRequest struct {
	From *time.Time
	To   *time.Time
}

// PaymentSummaryResponse represents the payment summary response
type PaymentSummaryResponse struct {
	Default  ProcessorSummaryResponse `json:"default"`
	Fallback ProcessorSummaryResponse `json:"fallback"`
}

// ProcessorSummaryResponse represents summary data for a processor.
// TotalAmount is rendered with two fraction digits, half-up.
type ProcessorSummaryResponse struct {
	TotalRequests int64       `json:"totalRequests"`
	TotalAmount   json.Number `json:"totalAmount"`
}

// NewProcessorSummaryResponse rounds the accumulated amount for display
func NewProcessorSummaryResponse(totalRequests int64, totalAmount decimal.Decimal) ProcessorSummaryResponse {
	return ProcessorSummaryResponse{
		TotalRequests: totalRequests,
		TotalAmount:   json.Number(totalAmount.Round(2).StringFixed(2)),
	}
}

// summaryBoundLayouts are the accepted timestamp shapes for from/to query
// parameters: with offset, bare UTC, with or without fractional seconds.
var summaryBoundLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseSummaryBound normalizes a query timestamp to an absolute instant.
// Unparsable values are treated as an absent bound.
func ParseSummaryBound(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range summaryBoundLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			utc := parsed.UTC()
			return &utc
		}
	}
	return nil
}

// Validate validates the payment request
func (pr *PaymentRequest) Validate() error {
	if pr.CorrelationID == "" {
		return ErrCorrelationIDRequired
	}

	if _, err := uuid.Parse(pr.CorrelationID); err != nil {
		return ErrInvalidCorrelationID
	}

	if !pr.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}

// Custom errors
var (
	ErrCorrelationIDRequired = &ValidationError{Message: "correlationId is required"}
	ErrInvalidCorrelationID  = &ValidationError{Message: "correlationId must be a valid UUID"}
	ErrInvalidAmount         = &ValidationError{Message: "amount must be greater than 0"}
)

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
