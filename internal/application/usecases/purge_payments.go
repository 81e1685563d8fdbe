package usecases

import (
	"context"

	"payment-gateway/internal/domain/repositories"
	"payment-gateway/internal/domain/services"
	"payment-gateway/internal/infrastructure/logger"
)

// PurgePaymentsUseCase clears queue, dedup, ledger and dead-letter state.
// Administrative/test-support only; racing an in-flight dispatch can wipe
// its ledger update.
type PurgePaymentsUseCase struct {
	queue      services.PaymentQueue
	dedup      services.DedupSet
	ledger     repositories.LedgerRepository
	deadLetter services.DeadLetterSink
}

// NewPurgePaymentsUseCase creates a new purge payments use case
func NewPurgePaymentsUseCase(
	queue services.PaymentQueue,
	dedup services.DedupSet,
	ledger repositories.LedgerRepository,
	deadLetter services.DeadLetterSink,
) *PurgePaymentsUseCase {
	return &PurgePaymentsUseCase{
		queue:      queue,
		dedup:      dedup,
		ledger:     ledger,
		deadLetter: deadLetter,
	}
}

// Execute purges all payment state, attempting every target even when one
// fails; the first failure is reported.
func (uc *PurgePaymentsUseCase) Execute(ctx context.Context) error {
	var firstErr error

	if err := uc.queue.Purge(ctx); err != nil {
		logger.Errorf("Erro ao limpar fila de pagamentos: %v", err)
		firstErr = err
	}
	if err := uc.dedup.Purge(ctx); err != nil {
		logger.Errorf("Erro ao limpar conjunto de dedup: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := uc.ledger.Purge(ctx); err != nil {
		logger.Errorf("Erro ao limpar ledger: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	if uc.deadLetter != nil {
		if err := uc.deadLetter.Purge(ctx); err != nil {
			logger.Errorf("Erro ao limpar dead-letter: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr == nil {
		logger.Info("Dados de pagamentos limpos com sucesso")
	}
	return firstErr
}
