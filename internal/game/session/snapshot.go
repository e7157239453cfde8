package session

import (
	"fmt"

	"github.com/cory-johannsen/craps/internal/game/craps"
)

// Engine identity reported in every snapshot.
const (
	EngineVersion             = "1.0.0"
	CapabilitiesSchemaVersion = 1
)

// BetView is the snapshot form of one live bet.
type BetView struct {
	Type string `json:"type"`
	// Number is null for bets that have no number (line bets before a
	// point travels, one-roll props).
	Number *int    `json:"number"`
	Amount float64 `json:"amount"`
}

// Identity pins the schema a snapshot was produced under.
type Identity struct {
	EngineVersion             string `json:"engine_version"`
	CapabilitiesSchemaVersion int    `json:"capabilities_schema_version"`
}

// Snapshot is the externally visible state of a session after a
// command, suitable for JSON serialization and replay comparison.
type Snapshot struct {
	SessionID string `json:"session_id"`
	HandID    int    `json:"hand_id"`
	RollSeq   int    `json:"roll_seq"`
	// Dice is the last roll as [d1, d2], or [0, 0] before the first roll.
	Dice [2]int `json:"dice"`
	// Puck is "ON" or "OFF".
	Puck string `json:"puck"`
	// Point is the established point, or null when the puck is off.
	Point *int `json:"point"`
	// BankrollAfter is the bankroll formatted with two decimals, kept
	// as a string so replays compare exactly.
	BankrollAfter string    `json:"bankroll_after"`
	Bets          []BetView `json:"bets"`
	// WorkingFlags maps the keys of bets whose action can be toggled
	// (odds, place, buy) to their current working state.
	WorkingFlags map[string]bool `json:"working_flags"`
	Identity     Identity        `json:"identity"`
}

// snapshot captures the session's current state.
func (s *Session) snapshot() Snapshot {
	t := s.table
	p := s.player

	snap := Snapshot{
		SessionID:     s.ID,
		HandID:        s.HandID,
		RollSeq:       s.RollSeq,
		Puck:          "OFF",
		BankrollAfter: fmt.Sprintf("%.2f", p.Bankroll),
		Bets:          make([]BetView, 0, len(p.Bets)),
		Identity: Identity{
			EngineVersion:             EngineVersion,
			CapabilitiesSchemaVersion: CapabilitiesSchemaVersion,
		},
	}
	if t.Point.On() {
		snap.Puck = "ON"
		n := t.Point.Number
		snap.Point = &n
	}
	if t.Dice.NRolls > 0 {
		snap.Dice = [2]int{t.Dice.D1, t.Dice.D2}
	}
	for _, b := range p.Bets {
		view := BetView{Type: string(b.Kind), Amount: b.Wager}
		if n := b.SnapshotNumber(); n != 0 {
			num := n
			view.Number = &num
		}
		snap.Bets = append(snap.Bets, view)
		switch b.Kind {
		case craps.KindOdds, craps.KindPlace, craps.KindBuy:
			if snap.WorkingFlags == nil {
				snap.WorkingFlags = map[string]bool{}
			}
			snap.WorkingFlags[b.Key()] = b.Working
		}
	}
	return snap
}
