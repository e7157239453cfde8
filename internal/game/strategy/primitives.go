package strategy

import "github.com/cory-johannsen/craps/internal/game/craps"

// BetFactory builds a fresh bet each time a primitive wants to place one.
// Bets carry mutable per-roll state, so primitives never reuse an instance.
type BetFactory func() *craps.Bet

// AddIfTrue places the factory's bet whenever the predicate and the bet's
// legality both hold. Placement failures (duplicate key, funds, table
// state) are swallowed; the strategy simply tries again next roll.
type AddIfTrue struct {
	Base
	Make BetFactory
	When Predicate
}

// NewAddIfTrue builds the primitive.
//
// Precondition: build and when are non-nil.
func NewAddIfTrue(build BetFactory, when Predicate) *AddIfTrue {
	return &AddIfTrue{Make: build, When: when}
}

func (s *AddIfTrue) UpdateBets(p *craps.Player) {
	if !s.When(p, p.Table()) {
		return
	}
	_ = p.AddBet(s.Make())
}

// AddIfNotBet places the bet when no bet with the same identity is down.
func AddIfNotBet(build BetFactory) *AddIfTrue {
	return NewAddIfTrue(build, func(p *craps.Player, _ *craps.Table) bool {
		return !p.HasBet(build())
	})
}

// AddIfPointOff places the bet on come-out rolls only.
func AddIfPointOff(build BetFactory) *AddIfTrue {
	return NewAddIfTrue(build, PointOff)
}

// AddIfPointOn places the bet only while the puck is on.
func AddIfPointOn(build BetFactory) *AddIfTrue {
	return NewAddIfTrue(build, PointOn)
}

// AddIfNewShooter places the bet only in the new-shooter window.
func AddIfNewShooter(build BetFactory) *AddIfTrue {
	return NewAddIfTrue(build, NewShooter)
}

// RemoveIfTrue takes down every removable bet matching the filter when the
// predicate holds.
type RemoveIfTrue struct {
	Base
	When  Predicate
	Match func(*craps.Bet) bool
}

// NewRemoveIfTrue builds the primitive. A nil match removes all removable bets.
func NewRemoveIfTrue(when Predicate, match func(*craps.Bet) bool) *RemoveIfTrue {
	return &RemoveIfTrue{When: when, Match: match}
}

func (s *RemoveIfTrue) UpdateBets(p *craps.Player) {
	if !s.When(p, p.Table()) {
		return
	}
	// Collect first; removal mutates the list.
	var keys []string
	for _, b := range p.Bets {
		if s.Match == nil || s.Match(b) {
			keys = append(keys, b.Key())
		}
	}
	for _, k := range keys {
		_ = p.RemoveBet(k)
	}
}

// RemoveByKind takes down all removable bets of one kind, every roll.
func RemoveByKind(kind craps.Kind) *RemoveIfTrue {
	return NewRemoveIfTrue(
		func(*craps.Player, *craps.Table) bool { return true },
		func(b *craps.Bet) bool { return b.Kind == kind },
	)
}

// RemoveIfPointOff takes down matching bets on come-out rolls.
func RemoveIfPointOff(match func(*craps.Bet) bool) *RemoveIfTrue {
	return NewRemoveIfTrue(PointOff, match)
}

// ReplaceIfTrue atomically swaps matching bets for the factory's bet when
// the predicate holds. The add is skipped if the remove leg fails.
type ReplaceIfTrue struct {
	Base
	Make  BetFactory
	When  Predicate
	Match func(*craps.Bet) bool
}

// NewReplaceIfTrue builds the primitive.
func NewReplaceIfTrue(build BetFactory, when Predicate, match func(*craps.Bet) bool) *ReplaceIfTrue {
	return &ReplaceIfTrue{Make: build, When: when, Match: match}
}

func (s *ReplaceIfTrue) UpdateBets(p *craps.Player) {
	if !s.When(p, p.Table()) {
		return
	}
	for _, b := range p.Bets {
		if s.Match(b) {
			if err := p.RemoveBet(b.Key()); err != nil {
				return
			}
			_ = p.AddBet(s.Make())
			return
		}
	}
}

// CountStrategy keeps placing the factory's bet until count bets of the
// given kind are on the layout.
type CountStrategy struct {
	Base
	Kind  craps.Kind
	Count int
	Make  BetFactory
}

// NewCountStrategy builds the primitive.
//
// Precondition: count > 0.
func NewCountStrategy(kind craps.Kind, count int, build BetFactory) *CountStrategy {
	return &CountStrategy{Kind: kind, Count: count, Make: build}
}

func (s *CountStrategy) UpdateBets(p *craps.Player) {
	if len(p.BetsOfKind(s.Kind)) >= s.Count {
		return
	}
	_ = p.AddBet(s.Make())
}

// OddsMultiplier backs every live contract bet of the base kind with odds
// sized as a multiple of the base wager. Multiples resolve per number:
// a flat multiplier, an explicit per-number map, or the "3-4-5" table.
type OddsMultiplier struct {
	Base
	BaseKind craps.Kind
	multiple func(number int) float64
}

// NewOddsMultiplier sizes odds at a flat multiple of the base wager.
func NewOddsMultiplier(base craps.Kind, mult float64) *OddsMultiplier {
	return &OddsMultiplier{BaseKind: base, multiple: func(int) float64 { return mult }}
}

// NewOddsTable sizes odds from a per-number multiplier table. Numbers
// absent from the table get no odds.
func NewOddsTable(base craps.Kind, table map[int]float64) *OddsMultiplier {
	return &OddsMultiplier{BaseKind: base, multiple: func(n int) float64 { return table[n] }}
}

// NewOdds345 sizes odds on the standard 3-4-5 schedule: 3x on 4 and 10,
// 4x on 5 and 9, 5x on 6 and 8.
func NewOdds345(base craps.Kind) *OddsMultiplier {
	return NewOddsTable(base, map[int]float64{4: 3, 5: 4, 6: 5, 8: 5, 9: 4, 10: 3})
}

func (s *OddsMultiplier) UpdateBets(p *craps.Player) {
	for _, b := range p.BetsOfKind(s.BaseKind) {
		number := b.Number
		switch s.BaseKind {
		case craps.KindPassLine, craps.KindDontPass:
			number = p.Table().Point.Number
		case craps.KindCome, craps.KindDontCome:
			number = b.TravelPoint
		}
		if number == 0 {
			continue
		}
		mult := s.multiple(number)
		if mult <= 0 {
			continue
		}
		_ = p.AddBet(craps.NewOdds(s.BaseKind, number, mult*b.Wager))
	}
}

// WinProgression walks a multiplier ladder: each win of its bet advances
// the index, any loss resets it. The bet is sized first × multipliers[i],
// clamped at the tail of the ladder.
type WinProgression struct {
	Base
	Make        BetFactory
	Multipliers []float64
	index       int
}

// NewWinProgression builds the primitive.
//
// Precondition: multipliers is non-empty.
func NewWinProgression(build BetFactory, multipliers []float64) *WinProgression {
	return &WinProgression{Make: build, Multipliers: multipliers}
}

func (s *WinProgression) UpdateBets(p *craps.Player) {
	b := s.Make()
	i := s.index
	if i >= len(s.Multipliers) {
		i = len(s.Multipliers) - 1
	}
	b.Wager *= s.Multipliers[i]
	_ = p.AddBet(b)
}

// AfterBetsUpdated advances or resets the ladder from the roll's results.
func (s *WinProgression) AfterBetsUpdated(p *craps.Player) {
	key := s.Make().Key()
	for _, r := range p.Resolved {
		if r.Bet.Key() != key {
			continue
		}
		switch r.Outcome.Verdict {
		case craps.VerdictWin:
			s.index++
		case craps.VerdictLose:
			s.index = 0
		}
	}
}
