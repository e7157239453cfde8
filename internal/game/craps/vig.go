package craps

import "math"

// vigRate is the flat commission rate on Buy and Lay bets.
const vigRate = 0.05

// Commission computes the 5% vig on amount under the given rounding rule.
// The same function serves both timing modes: paid up front the amount is
// the commissionable base at placement, paid on win it is the identical base
// at settlement, so the two modes always agree in magnitude.
//
// Rounding: RoundCeilDollar rounds up to the next whole dollar;
// RoundNearestDollar rounds to the nearest dollar with ties to even;
// RoundNone leaves the raw value. A result below floor is treated as zero.
//
// Precondition: amount >= 0; floor >= 0.
// Postcondition: result >= 0.
func Commission(amount float64, rounding Rounding, floor float64) float64 {
	raw := vigRate * amount
	switch rounding {
	case RoundCeilDollar:
		raw = math.Ceil(raw)
	case RoundNearestDollar:
		raw = math.RoundToEven(raw)
	}
	if raw < floor {
		return 0
	}
	return raw
}

// commissionBase returns the amount the vig is charged against for a bet:
// the wager for a Buy, the potential win for a Lay (lay 40 against the 4 to
// win 20, vig runs on the 20).
//
// Precondition: b.Kind is KindBuy or KindLay.
func commissionBase(b *Bet) float64 {
	if b.Kind == KindLay {
		return b.Wager * layRatios[b.Number]
	}
	return b.Wager
}

// VigDue returns the commission magnitude a Buy or Lay bet owes under the
// table settings, regardless of whether it is collected at placement or
// at settlement. Zero for every other kind.
func VigDue(b *Bet, s Settings) float64 {
	if b.Kind != KindBuy && b.Kind != KindLay {
		return 0
	}
	return Commission(commissionBase(b), s.VigRounding, s.VigFloor)
}

// upFrontVig returns the commission reserved at placement, or 0 when the
// table collects on win or the bet carries no vig.
func upFrontVig(b *Bet, s Settings) float64 {
	if b.Kind != KindBuy && b.Kind != KindLay {
		return 0
	}
	if s.VigPaidOnWin {
		return 0
	}
	return Commission(commissionBase(b), s.VigRounding, s.VigFloor)
}
