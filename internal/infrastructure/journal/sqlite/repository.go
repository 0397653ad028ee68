// Package sqlite provides a SQLite implementation of the AttemptJournal port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/histfacts/internal/domain/entities"
	"github.com/ersonp/histfacts/internal/domain/ports"
	"github.com/ersonp/histfacts/internal/infrastructure/config"
)

// DefaultListLimit bounds ListAttempts when no limit is given.
const DefaultListLimit = 50

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// Repository implements ports.AttemptJournal using SQLite.
type Repository struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewRepository opens the journal database and ensures its schema.
func NewRepository(ctx context.Context, cfg config.JournalConfig, logger *slog.Logger) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("journal path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	r := &Repository{
		db:     db,
		path:   cfg.Path,
		logger: logger,
	}
	if err := r.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS fetch_attempts (
		id TEXT PRIMARY KEY,
		cycle_id TEXT NOT NULL,
		attempt INTEGER NOT NULL,
		max_attempts INTEGER NOT NULL,
		request_id TEXT,
		outcome TEXT NOT NULL,
		error TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		seq INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fetch_attempts_cycle ON fetch_attempts(cycle_id);
	CREATE INDEX IF NOT EXISTS idx_fetch_attempts_outcome ON fetch_attempts(outcome);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// ObserveAttempt logs an attempt. Failures are logged, not returned, so a
// broken journal never affects a fetch.
func (r *Repository) ObserveAttempt(ctx context.Context, attempt entities.Attempt) {
	// The cycle may be cancelled right after this attempt; the row is still wanted.
	ctx = context.WithoutCancel(ctx)
	if err := r.SaveAttempt(ctx, attempt); err != nil {
		r.logger.Warn("journal write failed", "cycle", attempt.CycleID, "attempt", attempt.Attempt, "error", err)
	}
}

// SaveAttempt inserts an attempt row.
func (r *Repository) SaveAttempt(ctx context.Context, attempt entities.Attempt) error {
	var errText sql.NullString
	if attempt.Err != nil {
		errText = sql.NullString{String: attempt.Err.Error(), Valid: true}
	}

	query := `
		INSERT INTO fetch_attempts (id, cycle_id, attempt, max_attempts, request_id, outcome, error, duration_ms, started_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM fetch_attempts))
	`
	_, err := r.db.ExecContext(ctx, query,
		generateUUID(),
		attempt.CycleID,
		attempt.Attempt,
		attempt.MaxAttempts,
		attempt.RequestID,
		attempt.Outcome(),
		errText,
		attempt.Duration.Milliseconds(),
		attempt.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving attempt: %w", err)
	}
	return nil
}

// ListAttempts returns the most recent attempts, newest first.
func (r *Repository) ListAttempts(ctx context.Context, limit int) ([]ports.AttemptEntry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `
		SELECT id, cycle_id, attempt, max_attempts, request_id, outcome, error, duration_ms, started_at
		FROM fetch_attempts
		ORDER BY seq DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying attempts: %w", err)
	}
	defer rows.Close()

	result := make([]ports.AttemptEntry, 0, limit)
	for rows.Next() {
		var (
			entry      ports.AttemptEntry
			requestID  sql.NullString
			errText    sql.NullString
			durationMS int64
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.CycleID,
			&entry.Attempt,
			&entry.MaxAttempts,
			&requestID,
			&entry.Outcome,
			&errText,
			&durationMS,
			&entry.StartedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		entry.RequestID = requestID.String
		entry.Error = errText.String
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		result = append(result, entry)
	}
	return result, rows.Err()
}

// CountFailures returns the number of failed attempts logged.
func (r *Repository) CountFailures(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fetch_attempts WHERE outcome = 'failure'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting failures: %w", err)
	}
	return count, nil
}

var _ ports.AttemptJournal = (*Repository)(nil)
