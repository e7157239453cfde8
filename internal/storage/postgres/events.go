package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/craps/internal/game/session"
)

// EventStore persists session lifecycle events.
type EventStore struct {
	db *pgxpool.Pool
}

// NewEventStore creates an EventStore backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEventStore(db *pgxpool.Pool) *EventStore {
	return &EventStore{db: db}
}

// Insert records one event under a run. Re-inserting the same event ID
// for a run is a no-op, so replays do not double-record.
//
// Precondition: runID references an existing run.
func (s *EventStore) Insert(ctx context.Context, runID int64, e session.Event) error {
	var fields []byte
	if e.Fields != nil {
		var err error
		fields, err = json.Marshal(e.Fields)
		if err != nil {
			return fmt.Errorf("marshalling event fields: %w", err)
		}
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO events (run_id, event_id, type, hand_id, roll_seq, at,
		                     bankroll_before, bankroll_after, fields)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (run_id, event_id) DO NOTHING`,
		runID, e.ID, string(e.Type), e.HandID, e.RollSeq, e.At,
		e.BankrollBefore, e.BankrollAfter, fields,
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// ListByRun returns a run's events in emission order.
func (s *EventStore) ListByRun(ctx context.Context, runID int64) ([]session.Event, error) {
	rows, err := s.db.Query(ctx,
		`SELECT event_id, type, hand_id, roll_seq, at,
		        bankroll_before, bankroll_after, fields
		 FROM events WHERE run_id = $1 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []session.Event
	for rows.Next() {
		var (
			e      session.Event
			typ    string
			fields []byte
		)
		if err := rows.Scan(&e.ID, &typ, &e.HandID, &e.RollSeq, &e.At,
			&e.BankrollBefore, &e.BankrollAfter, &fields); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Type = session.EventType(typ)
		if len(fields) > 0 {
			if err := json.Unmarshal(fields, &e.Fields); err != nil {
				return nil, fmt.Errorf("unmarshalling event fields: %w", err)
			}
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
