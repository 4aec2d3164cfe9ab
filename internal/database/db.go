// Package database provides PostgreSQL persistence for the comparables
// universe and the compliance audit trail.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the PostgreSQL connection pool
type DB struct {
	Pool *pgxpool.Pool
}

// Config holds database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewDB creates a new database connection
func NewDB(cfg Config) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.Printf("Successfully connected to PostgreSQL database: %s", cfg.Database)

	return &DB{Pool: pool}, nil
}

// Close closes the database connection
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		log.Println("Database connection closed")
	}
}

// RunMigrations executes database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	log.Println("Running database migrations...")

	migrations := []string{
		// Comparable company universe. Per-year financial statements are
		// stored as JSONB because the engine consumes the full year list
		// at once and never queries individual line items.
		`CREATE TABLE IF NOT EXISTS comparable_companies (
			registration_id VARCHAR(40) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			industry_code VARCHAR(10) NOT NULL,
			functional_profile VARCHAR(30) NOT NULL,
			financials JSONB NOT NULL DEFAULT '[]',
			related_party_txn_pct DECIMAL(6, 2) NOT NULL DEFAULT 0,
			persistent_losses BOOLEAN NOT NULL DEFAULT FALSE,
			years_continuous_data INT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_comparables_industry
			ON comparable_companies (industry_code)`,

		`CREATE INDEX IF NOT EXISTS idx_comparables_profile
			ON comparable_companies (functional_profile)`,

		// Audit trail: every engine invocation is appended here by the
		// event sink. Rows are never updated.
		`CREATE TABLE IF NOT EXISTS audit_events (
			id UUID PRIMARY KEY,
			event_type VARCHAR(40) NOT NULL,
			occurred_at TIMESTAMP NOT NULL,
			payload JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_audit_events_type_time
			ON audit_events (event_type, occurred_at DESC)`,
	}

	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Println("Database migrations completed")
	return nil
}
