package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"payment-gateway/internal/infrastructure/logger"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConnection creates a new database connection
func NewConnection(config *DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com o banco de dados: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("erro ao conectar ao banco de dados: %w", err)
	}

	logger.Info("Conexão com o banco de dados estabelecida com sucesso!")

	if err := createTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

// createTables creates the necessary database tables
func createTables(db *sql.DB) error {
	queries := []string{
		// Running counters, one row per processor
		`CREATE TABLE IF NOT EXISTS payment_summary (
			id SERIAL PRIMARY KEY,
			processor_type VARCHAR(10) UNIQUE NOT NULL,
			total_requests BIGINT NOT NULL DEFAULT 0,
			total_amount DECIMAL(18, 2) NOT NULL DEFAULT 0.00,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Dispatched payments, the time-ordered index for range queries
		`CREATE TABLE IF NOT EXISTS payments (
			correlation_id UUID PRIMARY KEY,
			amount DECIMAL(18, 2) NOT NULL,
			processor_type VARCHAR(10) NOT NULL,
			requested_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_payments_requested_at ON payments(requested_at)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_processor_type ON payments(processor_type)`,

		`INSERT INTO payment_summary (processor_type, total_requests, total_amount) VALUES
			('default', 0, 0.00) ON CONFLICT (processor_type) DO NOTHING`,
		`INSERT INTO payment_summary (processor_type, total_requests, total_amount) VALUES
			('fallback', 0, 0.00) ON CONFLICT (processor_type) DO NOTHING`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("erro ao executar query: %s - %w", query, err)
		}
	}

	logger.Info("Tabelas verificadas/criadas com sucesso.")
	return nil
}
