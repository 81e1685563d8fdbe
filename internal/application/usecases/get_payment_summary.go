package usecases

import (
	"context"

	"payment-gateway/internal/application/dtos"
	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/repositories"
	"payment-gateway/internal/infrastructure/logger"
)

// GetPaymentSummaryUseCase handles payment summary retrieval
type GetPaymentSummaryUseCase struct {
	ledger repositories.LedgerRepository
}

// NewGetPaymentSummaryUseCase creates a new get payment summary use case
func NewGetPaymentSummaryUseCase(ledger repositories.LedgerRepository) *GetPaymentSummaryUseCase {
	return &GetPaymentSummaryUseCase{
		ledger: ledger,
	}
}

// Execute retrieves the payment summary with optional time filters.
// The summary path degrades gracefully: a store failure yields an all-zero
// summary, never an error to the caller.
func (uc *GetPaymentSummaryUseCase) Execute(ctx context.Context, req *dtos.PaymentSummaryRequest) *dtos.PaymentSummaryResponse {
	filter := &entities.SummaryFilter{
		From: req.From,
		To:   req.To,
	}

	summary, err := uc.ledger.GetSummary(ctx, filter)
	if err != nil {
		logger.Errorf("Erro ao obter resumo de pagamentos, retornando zeros: %v", err)
		summary = entities.NewPaymentSummary()
	}

	return &dtos.PaymentSummaryResponse{
		Default:  dtos.NewProcessorSummaryResponse(summary.Default.TotalRequests, summary.Default.TotalAmount),
		Fallback: dtos.NewProcessorSummaryResponse(summary.Fallback.TotalRequests, summary.Fallback.TotalAmount),
	}
}
