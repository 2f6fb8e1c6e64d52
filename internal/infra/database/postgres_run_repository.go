// internal/infra/database/postgres_run_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"appointment_notifier_bot/internal/domain/cycle"
)

// PostgresRunRepository stores cycle run audit records in the 'cycle_runs'
// table. Expected schema:
//
//	CREATE TABLE cycle_runs (
//	    id           BIGSERIAL PRIMARY KEY,
//	    ran_at       TIMESTAMPTZ NOT NULL,
//	    matched      BOOLEAN NOT NULL,
//	    matched_date TEXT,
//	    stopped      BOOLEAN NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresRunRepository struct {
	db *sql.DB
}

func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{db: db}
}

func (r *PostgresRunRepository) RecordRun(ctx context.Context, run *cycle.Run) error {
	query := `INSERT INTO cycle_runs (ran_at, matched, matched_date, stopped)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, run.RanAt, run.Matched, run.MatchedDate, run.Stopped).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("error recording cycle run: %w", err)
	}
	return nil
}
