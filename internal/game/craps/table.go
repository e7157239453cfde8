package craps

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/craps/internal/game/dice"
)

// Table owns the dice, the point, the seated players, and the shooter
// counters, and orchestrates the roll lifecycle. A table is owned by one
// session; no method is safe for concurrent use.
type Table struct {
	Dice     *dice.Dice
	Point    Point
	Settings Settings
	Players  []*Player

	// NShooters counts shooters, starting at 1; it increments on each
	// seven-out.
	NShooters int
	// NewShooter is true from a seven-out until the next roll begins.
	NewShooter bool
	// LastRoll is the most recent total, 0 before the first roll.
	LastRoll int
	// PassRolls counts rolls thrown in the current hand.
	PassRolls int

	logger *zap.Logger
}

// NewTable creates a table with the given dice and settings. The first
// shooter is considered new, so Fire bets are placeable before any roll.
func NewTable(d *dice.Dice, settings Settings, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{
		Dice:       d,
		Settings:   settings,
		NShooters:  1,
		NewShooter: true,
		logger:     logger,
	}
}

// AddPlayer seats p at the table.
//
// Precondition: p must not be seated elsewhere.
func (t *Table) AddPlayer(p *Player) {
	p.table = t
	t.Players = append(t.Players, p)
}

// RollSummary describes the state transitions produced by one roll.
type RollSummary struct {
	D1, D2 int
	Total  int
	// PointSet is the number the puck moved onto this roll, or 0.
	PointSet int
	// PointMade is the point hit this roll, or 0.
	PointMade int
	// SevenOut is true when the roll ended the hand.
	SevenOut bool
	// Forced is true for injected dice.
	Forced bool
}

// RollOnce runs the full roll pipeline: pre-roll strategy tick, dice move,
// after-roll tick, bet resolution, after-bets tick, point transition and
// shooter counters, after-table tick. forced, when non-nil, injects a fixed
// pair instead of drawing from the RNG.
//
// Postcondition: Dice.NRolls incremented by one; the returned summary
// reflects the transitions applied.
func (t *Table) RollOnce(forced *[2]int) (RollSummary, error) {
	// Stage 1: pre-roll strategy tick.
	t.eachActiveStrategy(func(p *Player, s Strategy) {
		s.BeforeRoll(p)
		s.UpdateBets(p)
	})

	// Stage 2: the dice move; the new-shooter window closes.
	var summary RollSummary
	if forced != nil {
		if err := t.Dice.Force(forced[0], forced[1]); err != nil {
			return RollSummary{}, err
		}
		summary.Forced = true
	} else {
		t.Dice.Roll()
	}
	t.NewShooter = false
	summary.D1, summary.D2 = t.Dice.Pair()
	summary.Total = t.Dice.Total()

	// Stage 3: after-roll tick, before any state moves.
	t.eachActiveStrategy(func(p *Player, s Strategy) { s.AfterRoll(p) })

	// Stage 4: resolve bets against the pre-transition point.
	for _, p := range t.Players {
		p.resolveBets(t)
		if p.Bankroll < 0 {
			return RollSummary{}, Faultf(Internal,
				"player %q bankroll went negative: %.2f", p.Name, p.Bankroll)
		}
	}

	// Stage 5: after-bets tick.
	t.eachActiveStrategy(func(p *Player, s Strategy) { s.AfterBetsUpdated(p) })

	// Stage 6: point transition and shooter counters.
	wasOn := t.Point.On()
	oldPoint := t.Point.Number
	t.Point.Update(summary.Total)
	t.LastRoll = summary.Total
	t.PassRolls++
	switch {
	case !wasOn && t.Point.On():
		summary.PointSet = t.Point.Number
	case wasOn && summary.Total == oldPoint:
		summary.PointMade = oldPoint
	case wasOn && summary.Total == 7:
		summary.SevenOut = true
		t.NewShooter = true
		t.NShooters++
		t.PassRolls = 0
	}

	// Stage 7: after-table tick.
	t.eachActiveStrategy(func(p *Player, s Strategy) { s.AfterTableUpdate(p) })

	t.logger.Debug("roll resolved",
		zap.Int("d1", summary.D1),
		zap.Int("d2", summary.D2),
		zap.Int("total", summary.Total),
		zap.String("point", t.Point.String()),
		zap.Bool("seven_out", summary.SevenOut),
		zap.Int("n_rolls", t.Dice.NRolls),
	)
	return summary, nil
}

// eachActiveStrategy visits every seated player with a strategy that still
// has progress to make.
func (t *Table) eachActiveStrategy(fn func(*Player, Strategy)) {
	for _, p := range t.Players {
		if p.Strategy == nil || p.Strategy.Completed(p) {
			continue
		}
		fn(p, p.Strategy)
	}
}

// Run rolls until maxRolls rolls have been thrown, more than maxShooter
// shooters have come and gone, or every player's bankroll has dropped below
// their unit. With runout set, play continues past the stop condition until
// every open bet has resolved.
//
// Precondition: maxRolls > 0 or maxShooter > 0.
func (t *Table) Run(maxRolls, maxShooter int, runout bool) error {
	for {
		stopped := (maxRolls > 0 && t.Dice.NRolls >= maxRolls) ||
			(maxShooter > 0 && t.NShooters > maxShooter) ||
			t.allBroke()
		if stopped {
			if !runout || !t.anyOpenBets() {
				return nil
			}
		}
		if _, err := t.RollOnce(nil); err != nil {
			return err
		}
	}
}

// allBroke reports whether every player is below their betting unit.
func (t *Table) allBroke() bool {
	for _, p := range t.Players {
		if p.Bankroll >= p.Unit {
			return false
		}
	}
	return len(t.Players) > 0
}

// anyOpenBets reports whether any player still has money on the layout.
func (t *Table) anyOpenBets() bool {
	for _, p := range t.Players {
		if len(p.Bets) > 0 {
			return true
		}
	}
	return false
}
