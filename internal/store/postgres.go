package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id              UUID PRIMARY KEY,
	profile         TEXT NOT NULL,
	score           INTEGER NOT NULL,
	kills           INTEGER NOT NULL,
	bosses_defeated INTEGER NOT NULL,
	outcome         TEXT NOT NULL,
	duration_ms     BIGINT NOT NULL,
	ended_at        TIMESTAMPTZ NOT NULL
)`

const insertRun = `
INSERT INTO runs (id, profile, score, kills, bosses_defeated, outcome, duration_ms, ended_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// PostgresRuns writes the run history to a "runs" table.
type PostgresRuns struct {
	db *sql.DB
}

// OpenPostgresRuns connects, pings and creates the table if missing.
func OpenPostgresRuns(ctx context.Context, dsn string) (*PostgresRuns, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create runs table: %w", err)
	}
	return &PostgresRuns{db: db}, nil
}

func (p *PostgresRuns) Record(ctx context.Context, rec RunRecord) error {
	_, err := p.db.ExecContext(ctx, insertRun, runArgs(rec)...)
	if err != nil {
		return fmt.Errorf("store: insert run %s: %w", rec.ID, err)
	}
	return nil
}

func (p *PostgresRuns) Close() error {
	return p.db.Close()
}

// runArgs orders the record's columns for insertRun.
func runArgs(rec RunRecord) []any {
	return []any{
		rec.ID.String(),
		rec.Profile,
		rec.Score,
		rec.Kills,
		rec.BossesDefeated,
		string(rec.Outcome),
		rec.Duration.Milliseconds(),
		rec.EndedAt,
	}
}

var _ RunRecorder = (*PostgresRuns)(nil)
