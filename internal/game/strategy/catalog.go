package strategy

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/craps/internal/game/craps"
)

// Builder constructs a strategy sized to a player's betting unit.
type Builder func(unit float64) craps.Strategy

var catalog = map[string]Builder{
	"pass_line":         PassLine,
	"pass_line_odds":    PassLineOdds,
	"dont_pass":         DontPass,
	"three_point_molly": ThreePointMolly,
	"iron_cross":        IronCross,
	"field_progression": FieldProgression,
}

// Lookup resolves a built-in strategy by name and sizes it to the unit.
//
// Precondition: unit > 0.
func Lookup(name string, unit float64) (craps.Strategy, error) {
	b, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (have %v)", name, Names())
	}
	return b(unit), nil
}

// Names lists the built-in strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PassLine keeps a flat pass line bet working on every come-out.
func PassLine(unit float64) craps.Strategy {
	return AddIfPointOff(func() *craps.Bet { return craps.NewBet(craps.KindPassLine, unit) })
}

// PassLineOdds plays the pass line and backs the point with 3-4-5 odds.
func PassLineOdds(unit float64) craps.Strategy {
	return Combine(
		PassLine(unit),
		NewOdds345(craps.KindPassLine),
	)
}

// DontPass keeps a flat don't pass bet working on every come-out.
func DontPass(unit float64) craps.Strategy {
	return AddIfPointOff(func() *craps.Bet { return craps.NewBet(craps.KindDontPass, unit) })
}

// ThreePointMolly plays the pass line plus come bets until three points
// are working, all backed with 3-4-5 odds.
func ThreePointMolly(unit float64) craps.Strategy {
	comeTarget := 2 // plus the pass line makes three points
	return Combine(
		PassLine(unit),
		NewAddIfTrue(
			func() *craps.Bet { return craps.NewBet(craps.KindCome, unit) },
			And(PointOn, func(p *craps.Player, _ *craps.Table) bool {
				return len(p.BetsOfKind(craps.KindCome)) < comeTarget
			}),
		),
		NewOdds345(craps.KindPassLine),
		NewOdds345(craps.KindCome),
	)
}

// IronCross covers every number but the seven while the puck is on: place
// bets on 5, 6 and 8 plus a field bet refreshed every roll.
func IronCross(unit float64) craps.Strategy {
	place := func(number int, wager float64) craps.Strategy {
		return AddIfPointOn(func() *craps.Bet {
			return craps.NewNumberBet(craps.KindPlace, number, wager)
		})
	}
	// 6 and 8 pay 7:6, so their wager stays on the six-dollar ladder.
	inside := unit * 6 / 5
	return Combine(
		place(5, unit),
		place(6, inside),
		place(8, inside),
		AddIfPointOn(func() *craps.Bet { return craps.NewBet(craps.KindField, unit) }),
	)
}

// FieldProgression presses a field bet up a doubling ladder on wins and
// resets to one unit on any loss.
func FieldProgression(unit float64) craps.Strategy {
	return NewWinProgression(
		func() *craps.Bet { return craps.NewBet(craps.KindField, unit) },
		[]float64{1, 2, 4},
	)
}
