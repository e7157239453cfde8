package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/craps/internal/game/session"
)

// ErrSnapshotNotFound is returned when a snapshot lookup yields no results.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore persists post-command session snapshots as JSONB.
type SnapshotStore struct {
	db *pgxpool.Pool
}

// NewSnapshotStore creates a SnapshotStore backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSnapshotStore(db *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Insert records one snapshot under a run.
//
// Precondition: runID references an existing run.
func (s *SnapshotStore) Insert(ctx context.Context, runID int64, snap session.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO snapshots (run_id, hand_id, roll_seq, body)
		 VALUES ($1, $2, $3, $4)`,
		runID, snap.HandID, snap.RollSeq, body,
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	return nil
}

// Latest returns the most recently recorded snapshot for a run.
//
// Postcondition: Returns the snapshot or ErrSnapshotNotFound.
func (s *SnapshotStore) Latest(ctx context.Context, runID int64) (session.Snapshot, error) {
	var body []byte
	err := s.db.QueryRow(ctx,
		`SELECT body FROM snapshots WHERE run_id = $1 ORDER BY id DESC LIMIT 1`,
		runID,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Snapshot{}, ErrSnapshotNotFound
		}
		return session.Snapshot{}, fmt.Errorf("querying snapshot: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return session.Snapshot{}, fmt.Errorf("unmarshalling snapshot: %w", err)
	}
	return snap, nil
}

// CountByRun returns how many snapshots a run has recorded.
func (s *SnapshotStore) CountByRun(ctx context.Context, runID int64) (int, error) {
	var n int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM snapshots WHERE run_id = $1`, runID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}
