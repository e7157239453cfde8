package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/craps/internal/game/session"
)

// ErrRunNotFound is returned when a run lookup yields no results.
var ErrRunNotFound = errors.New("run not found")

// ErrRunExists is returned when a session ID is already recorded.
var ErrRunExists = errors.New("run already exists")

// Run is one recorded simulation run.
type Run struct {
	ID            int64
	SessionID     string
	Seed          int64
	Strategy      string
	BankrollStart float64
	BankrollEnd   *float64
	Hands         *int
	Rolls         *int
	StartedAt     time.Time
	FinishedAt    *time.Time
}

// RunStore provides run persistence operations.
type RunStore struct {
	db *pgxpool.Pool
}

// NewRunStore creates a RunStore backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRunStore(db *pgxpool.Pool) *RunStore {
	return &RunStore{db: db}
}

// Create inserts a new open run.
//
// Precondition: sessionID must be non-empty.
// Postcondition: Returns the created Run with ID and StartedAt set, or
// ErrRunExists if the session ID is already recorded.
func (s *RunStore) Create(ctx context.Context, sessionID string, seed int64, strategy string, bankroll float64) (Run, error) {
	var run Run
	err := s.db.QueryRow(ctx,
		`INSERT INTO runs (session_id, seed, strategy, bankroll_start)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, session_id, seed, strategy, bankroll_start, started_at`,
		sessionID, seed, strategy, bankroll,
	).Scan(&run.ID, &run.SessionID, &run.Seed, &run.Strategy, &run.BankrollStart, &run.StartedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return Run{}, ErrRunExists
		}
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// Finish closes a run with its summary.
//
// Postcondition: The run's end columns are set, or ErrRunNotFound.
func (s *RunStore) Finish(ctx context.Context, runID int64, sum session.RunSummary) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE runs
		 SET bankroll_end = $1, hands = $2, rolls = $3, finished_at = NOW()
		 WHERE id = $4`,
		sum.Bankroll, sum.Hands, sum.Rolls, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

// GetBySessionID retrieves a run by its session ID.
//
// Postcondition: Returns the Run or ErrRunNotFound.
func (s *RunStore) GetBySessionID(ctx context.Context, sessionID string) (Run, error) {
	var run Run
	err := s.db.QueryRow(ctx,
		`SELECT id, session_id, seed, strategy, bankroll_start, bankroll_end,
		        hands, rolls, started_at, finished_at
		 FROM runs WHERE session_id = $1`,
		sessionID,
	).Scan(&run.ID, &run.SessionID, &run.Seed, &run.Strategy, &run.BankrollStart,
		&run.BankrollEnd, &run.Hands, &run.Rolls, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, ErrRunNotFound
		}
		return Run{}, fmt.Errorf("querying run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first.
//
// Precondition: limit > 0.
func (s *RunStore) List(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, session_id, seed, strategy, bankroll_start, bankroll_end,
		        hands, rolls, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.SessionID, &run.Seed, &run.Strategy,
			&run.BankrollStart, &run.BankrollEnd, &run.Hands, &run.Rolls,
			&run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
