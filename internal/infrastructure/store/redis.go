package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"payment-gateway/internal/domain/entities"
	"payment-gateway/internal/infrastructure/logger"
)

// Redis key layout, shared by every service instance
const (
	keyPaymentQueue    = "payment:queue"
	keyDedupSet        = "processed:ids"
	keyDedupOrder      = "processed:ids:order"
	keyHealthPrefix    = "processor:health:"
	keyCounterRequests = "counter:requests:"
	keyCounterAmount   = "counter:amount:"
	keyPaymentIndex    = "payments:index"
	keySummaryCache    = "summary:cache"
	keyDeadLetter      = "payments:dead"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     64,
		MinIdleConns: 8,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("erro ao conectar ao Redis em %s: %w", addr, err)
	}

	logger.Infof("Conexão com o Redis estabelecida em %s", addr)
	return client, nil
}

// queueItemRecord is the packed wire form of a QueueItem inside Redis.
// Amounts travel as decimal strings to keep full precision.
type queueItemRecord struct {
	CorrelationID string    `msgpack:"correlationId"`
	Amount        string    `msgpack:"amount"`
	RequestedAt   time.Time `msgpack:"requestedAt"`
}

// indexRecord is the packed member stored on the time-ordered index
type indexRecord struct {
	CorrelationID string `msgpack:"correlationId"`
	Amount        string `msgpack:"amount"`
	Processor     string `msgpack:"processor"`
}

func encodeQueueItem(item *entities.QueueItem) ([]byte, error) {
	return msgpack.Marshal(&queueItemRecord{
		CorrelationID: item.CorrelationID.String(),
		Amount:        item.Amount.String(),
		RequestedAt:   item.RequestedAt,
	})
}

func decodeQueueItem(data []byte) (*entities.QueueItem, error) {
	var record queueItemRecord
	if err := msgpack.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("erro ao desserializar item da fila: %w", err)
	}

	correlationID, err := parseCorrelationID(record.CorrelationID)
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(record.Amount)
	if err != nil {
		return nil, fmt.Errorf("erro ao desserializar valor do item: %w", err)
	}

	return &entities.QueueItem{
		CorrelationID: correlationID,
		Amount:        amount,
		RequestedAt:   record.RequestedAt,
	}, nil
}

func parseCorrelationID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("erro ao desserializar correlation id: %w", err)
	}
	return id, nil
}
