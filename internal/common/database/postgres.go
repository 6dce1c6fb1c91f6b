// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"recruit-screening/internal/common/config"

	_ "github.com/lib/pq"
)

// Schema creates the tables used for evaluation snapshots and the audit trail.
const Schema = `
CREATE TABLE IF NOT EXISTS screening_evaluations (
	id               UUID PRIMARY KEY,
	application_id   TEXT NOT NULL,
	job_id           TEXT NOT NULL,
	total_score      NUMERIC(4,1),
	breakdown        JSONB NOT NULL,
	pending          JSONB NOT NULL DEFAULT '[]',
	eliminated       BOOLEAN NOT NULL DEFAULT FALSE,
	failed_knockouts JSONB NOT NULL DEFAULT '[]',
	manual_review    JSONB NOT NULL DEFAULT '[]',
	evaluated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_screening_evaluations_application
	ON screening_evaluations (application_id, evaluated_at DESC);

CREATE TABLE IF NOT EXISTS audit_log (
	id            BIGSERIAL PRIMARY KEY,
	event_type    TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   TEXT NOT NULL,
	details       JSONB,
	created_at    TIMESTAMPTZ NOT NULL
);
`

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres creates a new PostgreSQL client
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	dsn := cfg.GetDSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Migrate applies Schema. It is idempotent.
func (c *PostgresClient) Migrate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
