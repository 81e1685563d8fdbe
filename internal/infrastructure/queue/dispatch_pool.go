package queue

import (
	"context"
	"sync"
	"time"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/domain/repositories"
	"payment-gateway/internal/domain/services"
	"payment-gateway/internal/infrastructure/logger"
)

const (
	// Poll timeout keeps workers responsive to cancellation
	dequeueTimeout  = 1 * time.Second
	dispatchTimeout = 5 * time.Second

	// An unreachable store makes Dequeue fail fast instead of blocking
	// for the poll timeout; the backoff keeps workers from hot-looping.
	dequeueErrorBackoff = 250 * time.Millisecond
)

// DispatchPool drains the shared payment queue with a fixed set of
// long-lived workers. Workers are mutually independent: no completion
// ordering is imposed across them.
type DispatchPool struct {
	queue      services.PaymentQueue
	ledger     repositories.LedgerRepository
	dispatcher services.ProcessorDispatcher
	selector   services.ProcessorSelector
	deadLetter services.DeadLetterSink // nil means drop on double failure

	workerCount int
	workers     []chan struct{}
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewDispatchPool creates a worker pool over the given handles
func NewDispatchPool(
	queue services.PaymentQueue,
	ledger repositories.LedgerRepository,
	dispatcher services.ProcessorDispatcher,
	selector services.ProcessorSelector,
	deadLetter services.DeadLetterSink,
	workerCount int,
) *DispatchPool {
	ctx, cancel := context.WithCancel(context.Background())

	return &DispatchPool{
		queue:       queue,
		ledger:      ledger,
		dispatcher:  dispatcher,
		selector:    selector,
		deadLetter:  deadLetter,
		workerCount: workerCount,
		workers:     make([]chan struct{}, workerCount),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers
func (p *DispatchPool) Start() {
	logger.Infof("Iniciando %d workers para despacho de pagamentos...", p.workerCount)

	for i := 0; i < p.workerCount; i++ {
		workerStop := make(chan struct{})
		p.workers[i] = workerStop

		p.wg.Add(1)
		go p.worker(i, workerStop)
	}
}

// worker drains the queue until stopped
func (p *DispatchPool) worker(id int, stop chan struct{}) {
	defer p.wg.Done()

	logger.Infof("Worker %d iniciado", id)

	for {
		select {
		case <-stop:
			logger.Infof("Worker %d parado", id)
			return
		case <-p.ctx.Done():
			logger.Infof("Worker %d parado por contexto", id)
			return
		default:
		}

		item, err := p.queue.Dequeue(p.ctx, dequeueTimeout)
		if err != nil {
			if p.ctx.Err() != nil {
				return
			}
			logger.Errorf("Worker %d: erro ao consumir da fila: %v", id, err)
			select {
			case <-time.After(dequeueErrorBackoff):
			case <-stop:
				logger.Infof("Worker %d parado", id)
				return
			case <-p.ctx.Done():
				logger.Infof("Worker %d parado por contexto", id)
				return
			}
			continue
		}
		if item == nil {
			continue
		}

		p.Dispatch(item)
	}
}

// Dispatch executes the dispatch procedure for one item: select a
// processor, send, and on a primary failure retry once against the
// fallback. At most two attempts, never a loop.
func (p *DispatchPool) Dispatch(item *entities.QueueItem) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	processor := p.selector.Select(ctx)

	err := p.dispatcher.Send(ctx, item, processor)
	if err != nil && processor == entities.ProcessorTypeDefault {
		logger.Warnf("Processador default falhou para %s, tentando fallback: %v", item.CorrelationID, err)
		err = p.dispatcher.Send(ctx, item, entities.ProcessorTypeFallback)
		if err == nil {
			processor = entities.ProcessorTypeFallback
		}
	}

	if err != nil {
		logger.LogDispatchFailure(item.CorrelationID.String(), item.Amount.String(), err)
		if p.deadLetter != nil {
			if dlErr := p.deadLetter.Push(ctx, item); dlErr != nil {
				logger.Errorf("Erro ao registrar pagamento %s no dead-letter: %v", item.CorrelationID, dlErr)
			}
		}
		return
	}

	// totalRequests only moves on a dispatch the processor acknowledged
	if err := p.ledger.Record(ctx, processor, item); err != nil {
		logger.Errorf("Erro ao registrar pagamento %s no ledger: %v", item.CorrelationID, err)
		return
	}

	logger.LogDispatchSuccess(item.CorrelationID.String(), processor.Name(), item.Amount.String())
}

// Stop signals every worker and waits for them up to the context deadline.
// In-flight dispatches finish opportunistically; nothing is re-queued.
func (p *DispatchPool) Stop(ctx context.Context) error {
	logger.Info("Parando workers de despacho...")

	for _, worker := range p.workers {
		if worker != nil {
			close(worker)
		}
	}
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Todos os workers pararam com sucesso")
		return nil
	case <-ctx.Done():
		logger.Warn("Timeout ao parar workers")
		return ctx.Err()
	}
}
