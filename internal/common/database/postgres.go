// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"idea-workers/internal/common/config"
)

// schemaStatements create the tables the idea workers read and write.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS submissions (
		id                          TEXT PRIMARY KEY,
		title                       TEXT NOT NULL DEFAULT '',
		problem_statement           TEXT NOT NULL DEFAULT '',
		current_process             TEXT NOT NULL DEFAULT '',
		solution                    TEXT NOT NULL DEFAULT '',
		benefit_statement           TEXT NOT NULL DEFAULT '',
		operational_needs           TEXT NOT NULL DEFAULT '',
		category                    TEXT NOT NULL DEFAULT 'other',
		location                    TEXT NOT NULL DEFAULT '',
		target_audience             TEXT NOT NULL DEFAULT '',
		frequency                   TEXT NOT NULL DEFAULT '',
		receipt_count               INTEGER NOT NULL DEFAULT 0,
		capabilities                JSONB NOT NULL DEFAULT '[]',
		integrations                JSONB NOT NULL DEFAULT '[]',
		cost_estimate               TEXT,
		estimated_cost              NUMERIC,
		monthly_cost_saved          NUMERIC,
		time_saved_hours_per_month  NUMERIC,
		hourly_cost                 NUMERIC,
		created_at                  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at                  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS idea_evaluations (
		id                  UUID PRIMARY KEY,
		submission_id       TEXT NOT NULL REFERENCES submissions(id),
		rules_version       TEXT NOT NULL,
		stage1_total        INTEGER NOT NULL,
		stage2_total        INTEGER,
		combined_total      INTEGER NOT NULL,
		qualification_tier  TEXT NOT NULL,
		gating_state        TEXT NOT NULL,
		priority_tags       JSONB NOT NULL DEFAULT '[]',
		priority_source     TEXT NOT NULL,
		break_even_months   INTEGER,
		payload             JSONB NOT NULL,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_idea_evaluations_submission ON idea_evaluations(submission_id)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id          BIGSERIAL PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		action      TEXT NOT NULL,
		details     JSONB,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// EnsureSchema creates missing tables inside one transaction.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return tx.Commit()
}
