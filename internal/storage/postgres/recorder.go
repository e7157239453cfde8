package postgres

import (
	"context"

	"github.com/cory-johannsen/craps/internal/game/session"
)

// Recorder implements session.Recorder on top of the event and snapshot
// stores, binding them to one run.
type Recorder struct {
	ctx       context.Context
	runID     int64
	events    *EventStore
	snapshots *SnapshotStore
}

// NewRecorder creates a Recorder for the given run.
//
// Precondition: runID references an existing run; ctx outlives the
// session's play.
func NewRecorder(ctx context.Context, runID int64, events *EventStore, snapshots *SnapshotStore) *Recorder {
	return &Recorder{ctx: ctx, runID: runID, events: events, snapshots: snapshots}
}

// RecordEvent implements session.Recorder.
func (r *Recorder) RecordEvent(e session.Event) error {
	return r.events.Insert(r.ctx, r.runID, e)
}

// RecordSnapshot implements session.Recorder.
func (r *Recorder) RecordSnapshot(s session.Snapshot) error {
	return r.snapshots.Insert(r.ctx, r.runID, s)
}
