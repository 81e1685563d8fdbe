package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"payment-gateway/internal/infrastructure/database"
	"payment-gateway/internal/infrastructure/logger"
)

// Backend selects the shared-state implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// LedgerBackend selects where processed payments are recorded.
type LedgerBackend string

const (
	LedgerBackendStore    LedgerBackend = "store"
	LedgerBackendPostgres LedgerBackend = "postgres"
)

// DeadLetterPolicy controls what happens to payments that exhaust
// every dispatch attempt.
type DeadLetterPolicy string

const (
	DeadLetterDrop  DeadLetterPolicy = "drop"
	DeadLetterStore DeadLetterPolicy = "store"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Queue      QueueConfig
	Store      StoreConfig
	Database   *database.DatabaseConfig
	Processors ProcessorConfig
	Health     HealthConfig
	Summary    SummaryConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port int
}

// QueueConfig holds queue and worker pool configuration
type QueueConfig struct {
	BufferSize       int
	WorkerCount      int
	DedupMaxEntries  int
	DeadLetterPolicy DeadLetterPolicy
}

// StoreConfig selects the state-store and ledger backends
type StoreConfig struct {
	Backend       Backend
	LedgerBackend LedgerBackend
	RedisAddr     string
}

// ProcessorConfig holds the upstream processor base URLs
type ProcessorConfig struct {
	DefaultURL  string
	FallbackURL string
}

// HealthConfig holds the health monitor configuration
type HealthConfig struct {
	CheckInterval time.Duration
}

// SummaryConfig holds the summary cache configuration
type SummaryConfig struct {
	CacheTTL time.Duration
}

// Load reads configuration from the environment. A .env file is
// honored when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("Arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("PORT", 9999),
		},
		Queue: QueueConfig{
			BufferSize:       getEnvInt("QUEUE_BUFFER_SIZE", 10000),
			WorkerCount:      getEnvInt("WORKER_COUNT", 4),
			DedupMaxEntries:  getEnvInt("DEDUP_MAX_ENTRIES", 10000),
			DeadLetterPolicy: DeadLetterPolicy(getEnvOrDefault("DEAD_LETTER_POLICY", string(DeadLetterDrop))),
		},
		Store: StoreConfig{
			Backend:       Backend(getEnvOrDefault("STORE_BACKEND", string(BackendMemory))),
			LedgerBackend: LedgerBackend(getEnvOrDefault("LEDGER_BACKEND", string(LedgerBackendStore))),
			RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		},
		Database: &database.DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "payments"),
			SSLMode:  getEnvOrDefault("SSL_MODE", "disable"),
		},
		Processors: ProcessorConfig{
			DefaultURL:  getEnvOrDefault("PAYMENT_PROCESSOR_URL_DEFAULT", "http://localhost:8001"),
			FallbackURL: getEnvOrDefault("PAYMENT_PROCESSOR_URL_FALLBACK", "http://localhost:8002"),
		},
		Health: HealthConfig{
			CheckInterval: getEnvDurationMS("HEALTH_CHECK_INTERVAL_MS", 4*time.Second),
		},
		Summary: SummaryConfig{
			CacheTTL: getEnvDurationMS("SUMMARY_CACHE_TTL_MS", 2*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("STORE_BACKEND inválido: %q", c.Store.Backend)
	}

	switch c.Store.LedgerBackend {
	case LedgerBackendStore, LedgerBackendPostgres:
	default:
		return fmt.Errorf("LEDGER_BACKEND inválido: %q", c.Store.LedgerBackend)
	}

	switch c.Queue.DeadLetterPolicy {
	case DeadLetterDrop, DeadLetterStore:
	default:
		return fmt.Errorf("DEAD_LETTER_POLICY inválido: %q", c.Queue.DeadLetterPolicy)
	}

	if c.Queue.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT deve ser positivo, recebido %d", c.Queue.WorkerCount)
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or default if unset
// or unparsable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		logger.Warnf("Não foi possível interpretar %s=%q como inteiro, usando %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDurationMS reads a duration expressed in milliseconds
func getEnvDurationMS(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Millisecond
		}
		logger.Warnf("Não foi possível interpretar %s=%q como milissegundos, usando %s", key, value, defaultValue)
	}
	return defaultValue
}
