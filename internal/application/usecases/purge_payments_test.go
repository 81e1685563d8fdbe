package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"payment-gateway/internal/domain/entities"
)

func TestPurgePayments_ClearsEveryStore(t *testing.T) {
	queue := &fakeQueue{}
	dedup := newFakeDedupSet()
	ledger := &fakeLedger{}
	deadLetter := &fakeDeadLetter{}

	queue.items = append(queue.items, entities.NewQueueItem(uuid.New(), decimal.NewFromInt(10)))
	dedup.seen["abc"] = struct{}{}
	deadLetter.items = append(deadLetter.items, entities.NewQueueItem(uuid.New(), decimal.NewFromInt(5)))

	uc := NewPurgePaymentsUseCase(queue, dedup, ledger, deadLetter)
	if err := uc.Execute(context.Background()); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if len(queue.items) != 0 {
		t.Error("queue not purged")
	}
	if size, _ := dedup.Size(context.Background()); size != 0 {
		t.Error("dedup set not purged")
	}
	if !ledger.purged {
		t.Error("ledger not purged")
	}
	if !deadLetter.purged {
		t.Error("dead-letter not purged")
	}
}

func TestPurgePayments_AttemptsAllTargetsOnFailure(t *testing.T) {
	queueErr := errors.New("fila indisponível")
	queue := &fakeQueue{purgeErr: queueErr}
	dedup := newFakeDedupSet()
	ledger := &fakeLedger{}

	uc := NewPurgePaymentsUseCase(queue, dedup, ledger, nil)
	err := uc.Execute(context.Background())

	if !errors.Is(err, queueErr) {
		t.Errorf("expected first failure %v, got %v", queueErr, err)
	}
	if !ledger.purged {
		t.Error("ledger purge must still be attempted after a queue failure")
	}
}

func TestPurgePayments_NilDeadLetterIsSkipped(t *testing.T) {
	uc := NewPurgePaymentsUseCase(&fakeQueue{}, newFakeDedupSet(), &fakeLedger{}, nil)
	if err := uc.Execute(context.Background()); err != nil {
		t.Fatalf("purge with drop policy failed: %v", err)
	}
}
