package craps

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags the closed bet taxonomy. The resolver, legality predicates, and
// payout tables are match arms over this tag; there is no open polymorphism.
type Kind string

const (
	KindPassLine Kind = "pass_line"
	KindDontPass Kind = "dont_pass"
	KindCome     Kind = "come"
	KindDontCome Kind = "dont_come"
	KindOdds     Kind = "odds"
	KindPlace    Kind = "place"
	KindBuy      Kind = "buy"
	KindLay      Kind = "lay"
	KindPut      Kind = "put"

	KindField    Kind = "field"
	KindAny7     Kind = "any7"
	KindTwo      Kind = "two"
	KindThree    Kind = "three"
	KindYo       Kind = "yo"
	KindBoxcars  Kind = "boxcars"
	KindAnyCraps Kind = "any_craps"
	KindCAndE    Kind = "c_and_e"
	KindHorn     Kind = "horn"
	KindWorld    Kind = "world"
	KindHop      Kind = "hop"

	KindHardway Kind = "hardway"
	KindBig6    Kind = "big6"
	KindBig8    Kind = "big8"

	KindFire         Kind = "fire"
	KindAllSmall     Kind = "small"
	KindAllTall      Kind = "tall"
	KindAllOrNothing Kind = "all"
)

// Bet is one wager on the layout. Wager is immutable after placement;
// per-roll state (travelling point, working flag, accumulated sets) is
// mutated only by the resolver or by explicit commands.
type Bet struct {
	Kind Kind
	// Wager is the principal. Reduce replaces the Bet rather than mutating it.
	Wager float64
	// Number is the box number for Place/Buy/Lay/Put/Hardway and for Odds.
	Number int
	// OddsBase is the contract variant an Odds bet backs.
	OddsBase Kind
	// Hop is the unordered target pair for a hop bet, stored low-high.
	Hop [2]int
	// TravelPoint is the travelling point of a Come/DontCome bet (0 until
	// the bet's own come-out roll assigns one).
	TravelPoint int
	// Working controls whether the bet resolves on the current roll. Odds
	// default to non-working on a come-out; Place/Buy are off when the
	// puck is off unless toggled on.
	Working bool
	// VigPaid is the commission reserved up front for Buy/Lay.
	VigPaid float64
	// PointsMade accumulates distinct points for a Fire bet.
	PointsMade map[int]bool
	// Ended marks a Fire bet terminated by a seven-out.
	Ended bool
	// Remaining is the outstanding-totals set for All/Tall/Small.
	Remaining map[int]bool
}

// NewBet builds a bet of the given kind with sensible per-kind state.
// Legality against a live table is checked by Player.AddBet, not here.
func NewBet(kind Kind, wager float64) *Bet {
	b := &Bet{Kind: kind, Wager: wager}
	switch kind {
	case KindFire:
		b.PointsMade = make(map[int]bool, 6)
	case KindAllSmall, KindAllTall, KindAllOrNothing:
		b.Remaining = atsTargets(kind)
	}
	return b
}

// NewNumberBet builds a Place/Buy/Lay/Put/Hardway bet on a number.
func NewNumberBet(kind Kind, number int, wager float64) *Bet {
	b := NewBet(kind, wager)
	b.Number = number
	return b
}

// NewOdds builds an odds bet behind base on the given number. Light-side
// odds start non-working for come-out rolls; dark-side odds always work.
func NewOdds(base Kind, number int, wager float64) *Bet {
	b := NewBet(KindOdds, wager)
	b.OddsBase = base
	b.Number = number
	b.Working = base == KindDontPass || base == KindDontCome
	return b
}

// NewHop builds a hop bet on the unordered pair (a, b).
func NewHop(a, b int, wager float64) *Bet {
	bet := NewBet(KindHop, wager)
	if a > b {
		a, b = b, a
	}
	bet.Hop = [2]int{a, b}
	return bet
}

// darkSide reports whether the bet wins on a seven-out.
func (b *Bet) darkSide() bool {
	switch b.Kind {
	case KindDontPass, KindDontCome, KindLay:
		return true
	case KindOdds:
		return b.OddsBase == KindDontPass || b.OddsBase == KindDontCome
	}
	return false
}

// oneRoll reports whether the bet resolves on every roll.
func (b *Bet) oneRoll() bool {
	switch b.Kind {
	case KindField, KindAny7, KindTwo, KindThree, KindYo, KindBoxcars,
		KindAnyCraps, KindCAndE, KindHorn, KindWorld, KindHop:
		return true
	}
	return false
}

// Key is the identity of a bet within a player's rack: kind plus the
// attributes that distinguish same-kinded bets. Two Come bets on different
// travelling points coexist; re-placing an identical key is rejected.
func (b *Bet) Key() string {
	switch b.Kind {
	case KindOdds:
		return fmt.Sprintf("odds/%s/%d", b.OddsBase, b.Number)
	case KindCome, KindDontCome:
		return fmt.Sprintf("%s/%d", b.Kind, b.TravelPoint)
	case KindHop:
		return fmt.Sprintf("hop/%d-%d", b.Hop[0], b.Hop[1])
	case KindPlace, KindBuy, KindLay, KindPut, KindHardway:
		return fmt.Sprintf("%s/%d", b.Kind, b.Number)
	}
	return string(b.Kind)
}

// String returns a short human-readable description for logs.
func (b *Bet) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s $%.2f", b.Key(), b.Wager)
	if b.Kind == KindFire && len(b.PointsMade) > 0 {
		fmt.Fprintf(&sb, " points=%v", sortedKeys(b.PointsMade))
	}
	return sb.String()
}

// SnapshotNumber returns the number reported in snapshots: the travelling
// point for Come/DontCome, the hop low die coded as a pair sum for Hop, the
// bet's number otherwise, and 0 (rendered null) for numberless bets.
func (b *Bet) SnapshotNumber() int {
	switch b.Kind {
	case KindCome, KindDontCome:
		return b.TravelPoint
	case KindHop:
		return b.Hop[0]*10 + b.Hop[1]
	}
	return b.Number
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
