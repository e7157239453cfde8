package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// EventType names a lifecycle event emitted while a session runs.
type EventType string

const (
	EventHandStarted   EventType = "hand_started"
	EventRollStarted   EventType = "roll_started"
	EventRollCompleted EventType = "roll_completed"
	EventPointSet      EventType = "point_set"
	EventPointMade     EventType = "point_made"
	EventSevenOut      EventType = "seven_out"
	EventHandEnded     EventType = "hand_ended"
)

// Event is one lifecycle record. IDs are content-derived so the same
// seed and command script always produce the same event stream.
type Event struct {
	// ID is a 12-hex-digit digest of the event's coordinates.
	ID string `json:"id"`
	// Type is the event type.
	Type EventType `json:"type"`
	// SessionID, HandID and RollSeq locate the event in the session.
	SessionID string `json:"session_id"`
	HandID    int    `json:"hand_id"`
	RollSeq   int    `json:"roll_seq"`
	// At is the clock reading when the event was emitted.
	At time.Time `json:"at"`
	// BankrollBefore and BankrollAfter bracket the roll that produced
	// the event.
	BankrollBefore float64 `json:"bankroll_before"`
	BankrollAfter  float64 `json:"bankroll_after"`
	// Fields carries type-specific payload (dice, point, mode).
	Fields map[string]any `json:"fields,omitempty"`
}

// eventID derives the deterministic identifier for an event at the
// given coordinates: the first 12 hex digits of a SHA-256 over
// "session_id/hand_id/roll_seq/type".
func eventID(sessionID string, handID, rollSeq int, typ EventType) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s/%d/%d/%s", sessionID, handID, rollSeq, typ)))
	return hex.EncodeToString(sum[:])[:12]
}
