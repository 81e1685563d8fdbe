package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"payment-gateway/internal/application/usecases"
	"payment-gateway/internal/domain/repositories"
	"payment-gateway/internal/domain/services"
	"payment-gateway/internal/infrastructure/config"
	"payment-gateway/internal/infrastructure/database"
	"payment-gateway/internal/infrastructure/external"
	"payment-gateway/internal/infrastructure/logger"
	"payment-gateway/internal/infrastructure/queue"
	"payment-gateway/internal/infrastructure/store"
	httpInterface "payment-gateway/internal/interfaces/http"
	"payment-gateway/internal/interfaces/http/handlers"
	"payment-gateway/internal/interfaces/middleware"
)

func main() {
	logger.Info("Iniciando gateway de pagamentos")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Erro ao carregar configuração: %v", err)
	}

	// Shared-state handles, backed by memory or Redis.
	stores, cleanup, err := buildStores(cfg)
	if err != nil {
		logger.Fatalf("Erro ao inicializar armazenamento: %v", err)
	}
	defer cleanup()

	// Upstream processor client and health machinery.
	processorClient := external.NewProcessorClient(cfg.Processors.DefaultURL, cfg.Processors.FallbackURL)
	healthMonitor := external.NewHealthMonitor(processorClient, stores.health, cfg.Health.CheckInterval)
	selector := external.NewHealthSelector(stores.health)

	// Worker pool draining the shared queue.
	dispatchPool := queue.NewDispatchPool(
		stores.queue,
		stores.ledger,
		processorClient,
		selector,
		stores.deadLetter,
		cfg.Queue.WorkerCount,
	)

	// Use cases.
	submitPaymentUC := usecases.NewSubmitPaymentUseCase(stores.dedup, stores.queue)
	getPaymentSummaryUC := usecases.NewGetPaymentSummaryUseCase(stores.ledger)
	purgePaymentsUC := usecases.NewPurgePaymentsUseCase(stores.queue, stores.dedup, stores.ledger, stores.deadLetter)

	// HTTP surface.
	paymentHandler := handlers.NewPaymentHandler(submitPaymentUC, getPaymentSummaryUC, purgePaymentsUC)
	healthHandler := handlers.NewHealthHandler(stores.queue, stores.health)
	router := httpInterface.NewRouter(paymentHandler, healthHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthMonitor.Start(ctx)
	dispatchPool.Start()

	server := &fasthttp.Server{
		Handler:      middleware.Recovery(router.Handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		addr := ":" + strconv.Itoa(cfg.Server.Port)
		logger.Infof("Servidor iniciado na porta %d", cfg.Server.Port)
		if err := server.ListenAndServe(addr); err != nil {
			logger.Fatalf("Erro ao iniciar servidor: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Iniciando shutdown graceful...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("Erro durante shutdown do servidor: %v", err)
	}

	if err := dispatchPool.Stop(shutdownCtx); err != nil {
		logger.Errorf("Erro ao parar o pool de despacho: %v", err)
	}

	cancel()

	logger.Info("Servidor encerrado com sucesso")
}

// storeHandles groups the shared-state handles used across the app.
// deadLetter is nil when the drop policy is active.
type storeHandles struct {
	queue      services.PaymentQueue
	dedup      services.DedupSet
	health     services.HealthCache
	deadLetter services.DeadLetterSink
	ledger     repositories.LedgerRepository
}

// buildStores wires the configured backends into domain handles
func buildStores(cfg *config.Config) (*storeHandles, func(), error) {
	cleanup := func() {}
	handles := &storeHandles{}

	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := store.NewRedisClient(cfg.Store.RedisAddr)
		if err != nil {
			return nil, cleanup, fmt.Errorf("erro ao conectar ao Redis: %w", err)
		}
		cleanup = func() { _ = client.Close() }

		handles.queue = store.NewRedisQueue(client)
		handles.dedup = store.NewRedisDedupSet(client, cfg.Queue.DedupMaxEntries)
		handles.health = store.NewRedisHealthCache(client)
		handles.ledger = store.NewRedisLedger(client, cfg.Summary.CacheTTL)
		if cfg.Queue.DeadLetterPolicy == config.DeadLetterStore {
			handles.deadLetter = store.NewRedisDeadLetter(client)
		}

	case config.BackendMemory:
		handles.queue = store.NewMemoryQueue(cfg.Queue.BufferSize)
		handles.dedup = store.NewMemoryDedupSet(cfg.Queue.DedupMaxEntries)
		handles.health = store.NewMemoryHealthCache()
		handles.ledger = store.NewMemoryLedger(cfg.Summary.CacheTTL)
		if cfg.Queue.DeadLetterPolicy == config.DeadLetterStore {
			handles.deadLetter = store.NewMemoryDeadLetter()
		}
	}

	if cfg.Store.LedgerBackend == config.LedgerBackendPostgres {
		db, err := database.NewConnection(cfg.Database)
		if err != nil {
			return nil, cleanup, fmt.Errorf("erro ao conectar ao banco de dados: %w", err)
		}
		prevCleanup := cleanup
		cleanup = func() {
			_ = db.Close()
			prevCleanup()
		}
		handles.ledger = database.NewPostgresLedger(db, cfg.Summary.CacheTTL)
	}

	return handles, cleanup, nil
}
