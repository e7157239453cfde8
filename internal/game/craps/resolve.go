package craps

// Verdict classifies a bet's result for one roll.
type Verdict int

const (
	// VerdictNone: the roll did not resolve the bet.
	VerdictNone Verdict = iota
	// VerdictWin: the bet paid.
	VerdictWin
	// VerdictLose: the principal (and any up-front vig) is forfeit.
	VerdictLose
	// VerdictPush: the principal is returned without a payout.
	VerdictPush
)

// Outcome is the result of resolving one bet against one roll. Credit is
// the cash returned to the bankroll: payout plus principal on a win, the
// principal alone on a push, zero on a loss (the principal was reserved at
// placement and is simply forfeit).
type Outcome struct {
	Credit  float64
	Remove  bool
	Verdict Verdict
}

func winOutcome(b *Bet, ratio float64) Outcome {
	return Outcome{Credit: ratio*b.Wager + b.Wager, Remove: true, Verdict: VerdictWin}
}

func loseOutcome() Outcome {
	return Outcome{Remove: true, Verdict: VerdictLose}
}

func pushOutcome(b *Bet) Outcome {
	return Outcome{Credit: b.Wager, Remove: true, Verdict: VerdictPush}
}

var unresolved = Outcome{}

// Resolve computes the bet's outcome against the post-roll dice and the
// pre-transition point, mutating per-roll bet state (travelling points,
// points-made and remaining sets) along the way.
//
// Precondition: the table's dice hold the roll being resolved; the point
// has not yet transitioned for this roll.
func (b *Bet) Resolve(t *Table) Outcome {
	total := t.Dice.Total()

	switch b.Kind {
	case KindPassLine:
		return resolveLine(b, t, total, false)
	case KindDontPass:
		return resolveLine(b, t, total, true)
	case KindCome:
		return resolveTravelling(b, total, false)
	case KindDontCome:
		return resolveTravelling(b, total, true)
	case KindOdds:
		return b.resolveOdds(t, total)
	case KindPlace:
		return b.resolvePlace(t, total)
	case KindBuy:
		return b.resolveBuy(t, total)
	case KindLay:
		return b.resolveLay(t, total)
	case KindPut:
		switch total {
		case b.Number:
			return winOutcome(b, 1)
		case 7:
			return loseOutcome()
		}
		return unresolved

	case KindField:
		if mult := t.Settings.fieldPayout(total); mult >= 0 {
			return winOutcome(b, mult)
		}
		return loseOutcome()
	case KindAny7:
		return resolveProp(b, total == 7, any7Ratio)
	case KindTwo:
		return resolveProp(b, total == 2, twoRatio)
	case KindThree:
		return resolveProp(b, total == 3, threeRatio)
	case KindYo:
		return resolveProp(b, total == 11, yoRatio)
	case KindBoxcars:
		return resolveProp(b, total == 12, boxcarsRatio)
	case KindAnyCraps:
		return resolveProp(b, total == 2 || total == 3 || total == 12, anyCrapsRatio)
	case KindCAndE:
		switch total {
		case 2, 3, 12:
			return winOutcome(b, cAndECrapsRatio)
		case 11:
			return winOutcome(b, cAndEYoRatio)
		}
		return loseOutcome()
	case KindHorn:
		return b.resolveHorn(total)
	case KindWorld:
		return b.resolveWorld(total)
	case KindHop:
		d1, d2 := t.Dice.Pair()
		if d1 > d2 {
			d1, d2 = d2, d1
		}
		if d1 == b.Hop[0] && d2 == b.Hop[1] {
			if b.Hop[0] == b.Hop[1] {
				return winOutcome(b, hopHardRatio)
			}
			return winOutcome(b, hopEasyRatio)
		}
		return loseOutcome()

	case KindHardway:
		return b.resolveHardway(t, total)
	case KindBig6:
		return resolveBig(b, total, 6)
	case KindBig8:
		return resolveBig(b, total, 8)

	case KindFire:
		return b.resolveFire(t, total)
	case KindAllSmall, KindAllTall, KindAllOrNothing:
		return b.resolveATS(total)
	}
	return unresolved
}

// resolveLine handles PassLine and DontPass against the table point.
func resolveLine(b *Bet, t *Table, total int, dark bool) Outcome {
	if t.Point.Off() {
		switch total {
		case 7, 11:
			if dark {
				return loseOutcome()
			}
			return winOutcome(b, 1)
		case 2, 3:
			if dark {
				return winOutcome(b, 1)
			}
			return loseOutcome()
		case 12:
			// Barred for the dark side; the light side loses.
			if dark {
				return unresolved
			}
			return loseOutcome()
		}
		return unresolved
	}
	switch total {
	case t.Point.Number:
		if dark {
			return loseOutcome()
		}
		return winOutcome(b, 1)
	case 7:
		if dark {
			return winOutcome(b, 1)
		}
		return loseOutcome()
	}
	return unresolved
}

// resolveTravelling handles Come and DontCome. A bet with no travelling
// point treats this roll as its own come-out: line-bet come-out outcomes
// apply, and a box total assigns the travelling point without resolving.
func resolveTravelling(b *Bet, total int, dark bool) Outcome {
	if b.TravelPoint == 0 {
		switch total {
		case 7, 11:
			if dark {
				return loseOutcome()
			}
			return winOutcome(b, 1)
		case 2, 3:
			if dark {
				return winOutcome(b, 1)
			}
			return loseOutcome()
		case 12:
			if dark {
				return unresolved
			}
			return loseOutcome()
		}
		if IsBoxNumber(total) {
			b.TravelPoint = total
		}
		return unresolved
	}
	switch total {
	case b.TravelPoint:
		if dark {
			return loseOutcome()
		}
		return winOutcome(b, 1)
	case 7:
		if dark {
			return winOutcome(b, 1)
		}
		return loseOutcome()
	}
	return unresolved
}

// resolveOdds handles light and dark odds. A non-working odds bet (odds are
// off on the come-out unless toggled) is returned when its base contract
// resolves under it; otherwise it rides.
func (b *Bet) resolveOdds(t *Table, total int) Outcome {
	working := b.Working || t.Point.On()
	if !working {
		if total == 7 || total == b.Number {
			return pushOutcome(b)
		}
		return unresolved
	}
	if b.darkSide() {
		switch total {
		case 7:
			return winOutcome(b, layRatios[b.Number])
		case b.Number:
			return loseOutcome()
		}
		return unresolved
	}
	switch total {
	case b.Number:
		return winOutcome(b, oddsRatios[b.Number])
	case 7:
		return loseOutcome()
	}
	return unresolved
}

// resolvePlace handles place bets, non-working on the come-out by default.
func (b *Bet) resolvePlace(t *Table, total int) Outcome {
	if t.Point.Off() && !b.Working {
		return unresolved
	}
	switch total {
	case b.Number:
		return winOutcome(b, placeRatios[b.Number])
	case 7:
		return loseOutcome()
	}
	return unresolved
}

// resolveBuy handles buy bets. With up-front vig the commission was
// reserved at placement and is retained by the house win or lose; with vig
// on win the commission is netted out of the payout.
func (b *Bet) resolveBuy(t *Table, total int) Outcome {
	if t.Point.Off() && !b.Working {
		return unresolved
	}
	switch total {
	case b.Number:
		out := winOutcome(b, oddsRatios[b.Number])
		if t.Settings.VigPaidOnWin {
			out.Credit -= Commission(commissionBase(b), t.Settings.VigRounding, t.Settings.VigFloor)
		}
		return out
	case 7:
		return loseOutcome()
	}
	return unresolved
}

// resolveLay handles lay bets; dark side, always working.
func (b *Bet) resolveLay(t *Table, total int) Outcome {
	switch total {
	case 7:
		out := winOutcome(b, layRatios[b.Number])
		if t.Settings.VigPaidOnWin {
			out.Credit -= Commission(commissionBase(b), t.Settings.VigRounding, t.Settings.VigFloor)
		}
		return out
	case b.Number:
		return loseOutcome()
	}
	return unresolved
}

// resolveProp handles single-number one-roll propositions.
func resolveProp(b *Bet, hit bool, ratio float64) Outcome {
	if hit {
		return winOutcome(b, ratio)
	}
	return loseOutcome()
}

// resolveHorn splits the wager into four quarters on 2, 3, 11, and 12. The
// matching quarter pays its prop rate; the other three quarters lose on any
// roll, netting (rate-3)/4 of the wager on a horn number.
func (b *Bet) resolveHorn(total int) Outcome {
	quarter := b.Wager / 4
	if rate := hornRatio(total); rate >= 0 {
		return Outcome{
			Credit:  rate*quarter - 3*quarter,
			Remove:  true,
			Verdict: VerdictWin,
		}
	}
	return loseOutcome()
}

// resolveWorld is a horn in fifths plus an any-seven fifth that pushes on 7:
// on a horn number the matching fifth pays its rate and the other four
// fifths, the any-seven leg included, lose.
func (b *Bet) resolveWorld(total int) Outcome {
	fifth := b.Wager / 5
	if rate := hornRatio(total); rate >= 0 {
		return Outcome{
			Credit:  rate*fifth - 4*fifth,
			Remove:  true,
			Verdict: VerdictWin,
		}
	}
	if total == 7 {
		return Outcome{Credit: fifth, Remove: true, Verdict: VerdictPush}
	}
	return loseOutcome()
}

// resolveHardway wins on the double, loses on the easy way or any 7.
func (b *Bet) resolveHardway(t *Table, total int) Outcome {
	switch total {
	case b.Number:
		if t.Dice.IsHard() {
			return winOutcome(b, hardwayRatios[b.Number])
		}
		return loseOutcome()
	case 7:
		return loseOutcome()
	}
	return unresolved
}

// resolveBig handles Big 6 and Big 8: even money on the number before a 7.
func resolveBig(b *Bet, total, number int) Outcome {
	switch total {
	case number:
		return winOutcome(b, 1)
	case 7:
		return loseOutcome()
	}
	return unresolved
}

// resolveFire accumulates distinct points made across the hand and settles
// on the seven-out (or immediately when all six points are made).
func (b *Bet) resolveFire(t *Table, total int) Outcome {
	if t.Point.Off() {
		return unresolved
	}
	switch total {
	case t.Point.Number:
		b.PointsMade[total] = true
		if len(b.PointsMade) == 6 {
			if rate := t.Settings.firePayout(6); rate >= 0 {
				return winOutcome(b, rate)
			}
			return pushOutcome(b)
		}
		return unresolved
	case 7:
		b.Ended = true
		if rate := t.Settings.firePayout(len(b.PointsMade)); rate >= 0 {
			return winOutcome(b, rate)
		}
		return loseOutcome()
	}
	return unresolved
}

// resolveATS strikes the rolled total off the remaining set; any 7 before
// completion loses.
func (b *Bet) resolveATS(total int) Outcome {
	if total == 7 {
		return loseOutcome()
	}
	delete(b.Remaining, total)
	if len(b.Remaining) == 0 {
		return winOutcome(b, atsRatio(b.Kind))
	}
	return unresolved
}
