package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"payment-gateway/internal/application/dtos"
	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/services"
	"payment-gateway/internal/infrastructure/logger"
)

// SubmitPaymentUseCase is the admission gate: it deduplicates inbound
// requests by correlation id and enqueues accepted ones for async dispatch.
type SubmitPaymentUseCase struct {
	dedup services.DedupSet
	queue services.PaymentQueue
}

// NewSubmitPaymentUseCase creates a new submit payment use case
func NewSubmitPaymentUseCase(dedup services.DedupSet, queue services.PaymentQueue) *SubmitPaymentUseCase {
	return &SubmitPaymentUseCase{
		dedup: dedup,
		queue: queue,
	}
}

// Execute admits a payment request. A duplicate submission is an
// idempotent no-op, not an error. A queue failure undoes the dedup mark so
// a legitimate retry is not mistaken for a duplicate.
func (uc *SubmitPaymentUseCase) Execute(ctx context.Context, req *dtos.PaymentRequest) (dtos.AdmissionStatus, error) {
	if err := req.Validate(); err != nil {
		logger.WithField("correlation_id", req.CorrelationID).
			WithField("validation_error", err.Error()).
			Warn("Pagamento inválido rejeitado")
		return 0, err
	}

	correlationID, err := uuid.Parse(req.CorrelationID)
	if err != nil {
		return 0, dtos.ErrInvalidCorrelationID
	}

	added, err := uc.dedup.Add(ctx, req.CorrelationID)
	if err != nil {
		return 0, fmt.Errorf("erro ao verificar duplicidade: %w", err)
	}
	if !added {
		logger.Debugf("Pagamento %s já admitido, ignorando", req.CorrelationID)
		return dtos.AdmissionDuplicate, nil
	}

	item := entities.NewQueueItem(correlationID, req.Amount)

	if err := uc.queue.Enqueue(ctx, item); err != nil {
		// Compensating action: free the id so the caller can retry
		if remErr := uc.dedup.Remove(ctx, req.CorrelationID); remErr != nil {
			logger.Errorf("Erro ao remover id %s do dedup após falha na fila: %v", req.CorrelationID, remErr)
		}
		logger.Errorf("Erro ao enfileirar pagamento %s: %v", req.CorrelationID, err)
		return 0, err
	}

	logger.WithField("correlation_id", req.CorrelationID).
		WithField("amount", req.Amount.String()).
		Debug("Pagamento admitido e enfileirado")

	return dtos.AdmissionAccepted, nil
}
