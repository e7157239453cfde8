// Package session drives one craps table through a command stream. A
// Session owns the table, the commanding player, the hand and roll
// counters, and the deterministic event stream; every applied command
// yields a snapshot that a replay with the same seed reproduces exactly.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/craps/internal/game/command"
	"github.com/cory-johannsen/craps/internal/game/craps"
)

// Recorder receives the session's events and snapshots. Implementations
// persist them (the postgres stores) or collect them (tests). Errors are
// logged and never fail the command.
type Recorder interface {
	RecordEvent(e Event) error
	RecordSnapshot(s Snapshot) error
}

// VigInfo reports the commission a placement owes and when it is
// collected.
type VigInfo struct {
	Amount    float64 `json:"amount"`
	PaidOnWin bool    `json:"paid_on_win"`
}

// Effect is the observable result of one applied command.
type Effect struct {
	// Verb is the envelope verb that produced this effect.
	Verb string
	// Snapshot is the session state after the command.
	Snapshot Snapshot
	// Events are the lifecycle events the command emitted, in order.
	Events []Event
	// Roll is set when the command moved the dice.
	Roll *craps.RollSummary
	// Removed counts bets taken down by a clear command.
	Removed int
	// BankrollDelta is the net cash movement the command produced.
	BankrollDelta float64
	// CashRequired is the wager plus up-front vig a placement or press
	// reserved; zero for other commands.
	CashRequired float64
	// Vig is set for Buy and Lay placements.
	Vig *VigInfo
}

// ErrorEnvelope is the wire form of a rejected command, locating the
// failure in the session's coordinates.
type ErrorEnvelope struct {
	Code      string `json:"code"`
	Hint      string `json:"hint"`
	SessionID string `json:"session_id"`
	HandID    int    `json:"hand_id"`
	RollSeq   int    `json:"roll_seq"`
	// AtState is the puck state when the command failed, "off" or "on_N".
	AtState string `json:"at_state"`
}

// Session binds a table, a player and a verb registry into a replayable
// command surface. Not safe for concurrent use; the Manager serializes
// access per session.
type Session struct {
	// ID is the session identifier, a UUID unless supplied.
	ID string
	// HandID counts shooter hands, starting at 1.
	HandID int
	// RollSeq counts rolls within the current hand, starting at 1.
	RollSeq int

	table    *craps.Table
	player   *craps.Player
	registry *command.Registry
	clock    Clock
	recorder Recorder
	logger   *zap.Logger

	handOpen      bool
	bankrollStart float64
}

// Option configures a Session.
type Option func(*Session)

// WithID fixes the session identifier, keeping replays byte-identical.
func WithID(id string) Option { return func(s *Session) { s.ID = id } }

// WithClock injects the event timestamp source.
func WithClock(c Clock) Option { return func(s *Session) { s.clock = c } }

// WithRecorder attaches an event and snapshot sink.
func WithRecorder(r Recorder) Option { return func(s *Session) { s.recorder = r } }

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option { return func(s *Session) { s.logger = l } }

// New creates a session for the given table and player.
//
// Precondition: table is non-nil; player is seated at table.
// Postcondition: Returns a session at hand 1, roll 0, with defaults for
// every unset option.
func New(table *craps.Table, player *craps.Player, opts ...Option) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		HandID:   1,
		table:    table,
		player:   player,
		registry: command.DefaultRegistry(),
		clock:    SystemClock{},
		logger:   zap.NewNop(),

		bankrollStart: player.Bankroll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the session's table.
func (s *Session) Table() *craps.Table { return s.table }

// Player returns the commanding player.
func (s *Session) Player() *craps.Player { return s.player }

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot { return s.snapshot() }

// Apply decodes and executes one command envelope. Commands are atomic:
// on error the session state is unchanged and the returned envelope
// classifies the failure.
//
// Postcondition: on success the Effect carries the post-command snapshot
// and any events emitted; the recorder has seen both.
func (s *Session) Apply(env *command.Envelope) (Effect, error) {
	req, err := command.Decode(env, s.registry)
	if err != nil {
		return Effect{}, err
	}
	before := s.player.Bankroll
	effect, err := s.execute(req)
	if err != nil {
		s.logger.Debug("command rejected",
			zap.String("verb", env.Verb),
			zap.String("code", string(craps.KindOf(err))),
			zap.Error(err),
		)
		return Effect{}, err
	}

	effect.Verb = env.Verb
	effect.BankrollDelta = s.player.Bankroll - before
	switch req.Op {
	case command.OpPlaceBet:
		effect.CashRequired = before - s.player.Bankroll
		if vig := craps.VigDue(req.Bet, s.table.Settings); vig > 0 {
			effect.Vig = &VigInfo{Amount: vig, PaidOnWin: s.table.Settings.VigPaidOnWin}
		}
	case command.OpPressBet:
		effect.CashRequired = before - s.player.Bankroll
	}
	effect.Snapshot = s.snapshot()
	s.record(effect)
	return effect, nil
}

// Errorf converts a command failure into its wire envelope.
func (s *Session) Errorf(err error) ErrorEnvelope {
	env := ErrorEnvelope{
		Code:      string(craps.KindOf(err)),
		SessionID: s.ID,
		HandID:    s.HandID,
		RollSeq:   s.RollSeq,
		AtState:   "off",
	}
	var f *craps.Fault
	if errors.As(err, &f) {
		env.Hint = f.Hint
	} else if err != nil {
		env.Hint = err.Error()
	}
	if s.table.Point.On() {
		env.AtState = fmt.Sprintf("on_%d", s.table.Point.Number)
	}
	return env
}

func (s *Session) execute(req command.Request) (Effect, error) {
	switch req.Op {
	case command.OpPlaceBet:
		if err := s.fillOddsPoint(req.Bet); err != nil {
			return Effect{}, err
		}
		return Effect{}, s.player.AddBet(req.Bet)

	case command.OpPressBet:
		return Effect{}, s.player.PressBet(req.Bet)

	case command.OpRemoveBet:
		return Effect{}, s.player.RemoveBet(req.TargetKey)

	case command.OpReduceBet:
		return Effect{}, s.player.ReduceBet(req.TargetKey, req.Amount)

	case command.OpClearBets:
		return s.clearBets(req.Scope), nil

	case command.OpSetOddsWorking:
		return Effect{}, s.player.SetOddsWorking(req.OddsBase, req.Number, req.Working)

	case command.OpRoll:
		return s.StepRoll(nil)

	case command.OpInjectRoll:
		if !s.table.Settings.AllowFixedDice {
			return Effect{}, craps.Faultf(craps.TableRuleBlock,
				"fixed dice are disabled at this table")
		}
		forced := [2]int{req.D1, req.D2}
		return s.StepRoll(&forced)
	}
	return Effect{}, craps.Faultf(craps.Internal, "unhandled op %d", req.Op)
}

// fillOddsPoint resolves line odds placed without a number to the
// current point.
func (s *Session) fillOddsPoint(b *craps.Bet) error {
	if b.Kind != craps.KindOdds || b.Number != 0 {
		return nil
	}
	if !s.table.Point.On() {
		return craps.Faultf(craps.IllegalBet, "no point established for line odds")
	}
	b.Number = s.table.Point.Number
	return nil
}

// clearBets removes every removable bet in scope, skipping contracts the
// table locks in place.
func (s *Session) clearBets(scope command.ClearScope) Effect {
	keys := make([]string, 0, len(s.player.Bets))
	for _, b := range s.player.Bets {
		if command.InScope(b, scope) {
			keys = append(keys, b.Key())
		}
	}
	var effect Effect
	for _, key := range keys {
		if err := s.player.RemoveBet(key); err == nil {
			effect.Removed++
		}
	}
	return effect
}

// StepRoll advances the table by one roll, forced when fixed is non-nil,
// and emits the lifecycle events the roll produced.
//
// Postcondition: RollSeq advanced; on a seven-out the hand is closed and
// the next roll opens hand HandID+1 at roll 1.
func (s *Session) StepRoll(fixed *[2]int) (Effect, error) {
	prevHand, prevSeq, prevOpen := s.HandID, s.RollSeq, s.handOpen
	if !s.handOpen {
		if s.RollSeq > 0 {
			// A hand already ran to its seven-out.
			s.HandID++
			s.RollSeq = 0
		}
		s.handOpen = true
	}
	s.RollSeq++

	before := s.player.Bankroll
	var events []Event
	if s.RollSeq == 1 {
		events = append(events, s.event(EventHandStarted, 1, before, before, nil))
	}
	mode := "auto"
	if fixed != nil {
		mode = "inject"
	}
	events = append(events, s.event(EventRollStarted, s.RollSeq, before, before,
		map[string]any{"mode": mode}))

	summary, err := s.table.RollOnce(fixed)
	if err != nil {
		// The dice did not move; rewind the sequence.
		s.HandID, s.RollSeq, s.handOpen = prevHand, prevSeq, prevOpen
		return Effect{}, err
	}
	after := s.player.Bankroll

	events = append(events, s.event(EventRollCompleted, s.RollSeq, before, after, map[string]any{
		"dice": []int{summary.D1, summary.D2},
	}))
	if summary.PointSet != 0 {
		events = append(events, s.event(EventPointSet, s.RollSeq, before, after,
			map[string]any{"point": summary.PointSet}))
	}
	if summary.PointMade != 0 {
		events = append(events, s.event(EventPointMade, s.RollSeq, before, after,
			map[string]any{"point": summary.PointMade}))
	}
	if summary.SevenOut {
		events = append(events,
			s.event(EventSevenOut, s.RollSeq, before, after, nil),
			s.event(EventHandEnded, s.RollSeq, before, after,
				map[string]any{"end_reason": "seven_out"}),
		)
		s.handOpen = false
	}
	return Effect{Events: events, Roll: &summary}, nil
}

// event builds one lifecycle event at the session's current coordinates.
// The bankroll pair brackets the roll: pre-roll events carry the same
// value twice.
func (s *Session) event(typ EventType, rollSeq int, before, after float64, fields map[string]any) Event {
	return Event{
		ID:             eventID(s.ID, s.HandID, rollSeq, typ),
		Type:           typ,
		SessionID:      s.ID,
		HandID:         s.HandID,
		RollSeq:        rollSeq,
		At:             s.clock.Now(),
		BankrollBefore: before,
		BankrollAfter:  after,
		Fields:         fields,
	}
}

// record hands the effect to the recorder, logging failures.
func (s *Session) record(effect Effect) {
	if s.recorder == nil {
		return
	}
	for _, e := range effect.Events {
		if err := s.recorder.RecordEvent(e); err != nil {
			s.logger.Warn("recording event", zap.String("event", string(e.Type)), zap.Error(err))
		}
	}
	if err := s.recorder.RecordSnapshot(effect.Snapshot); err != nil {
		s.logger.Warn("recording snapshot", zap.Error(err))
	}
}
