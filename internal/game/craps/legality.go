package craps

// Allowed checks placement-time legality of b for player p at table t.
//
// Postcondition: Returns nil when the bet may be placed, otherwise a Fault
// of kind IllegalBet or LimitBreach. Funds are not checked here.
func (b *Bet) Allowed(p *Player, t *Table) error {
	switch b.Kind {
	case KindPassLine, KindDontPass:
		if t.Point.On() {
			return Faultf(IllegalBet, "%s only placeable with the point off", b.Kind)
		}
	case KindCome, KindDontCome:
		if t.Point.Off() {
			return Faultf(IllegalBet, "%s only placeable with the point on", b.Kind)
		}
	case KindPut:
		if t.Point.Off() {
			return Faultf(IllegalBet, "put only placeable with the point on")
		}
		if !IsBoxNumber(b.Number) {
			return Faultf(IllegalBet, "put number %d is not a box number", b.Number)
		}
	case KindOdds:
		return b.oddsAllowed(p, t)
	case KindPlace, KindBuy, KindLay:
		if !IsBoxNumber(b.Number) {
			return Faultf(IllegalBet, "%s number %d is not a box number", b.Kind, b.Number)
		}
	case KindHardway:
		switch b.Number {
		case 4, 6, 8, 10:
		default:
			return Faultf(IllegalBet, "hardway number %d must be 4, 6, 8, or 10", b.Number)
		}
	case KindHop:
		for _, d := range b.Hop {
			if d < 1 || d > 6 {
				return Faultf(IllegalBet, "hop face %d out of range [1,6]", d)
			}
		}
	case KindFire:
		if !t.NewShooter {
			return Faultf(IllegalBet, "fire only placeable for a new shooter")
		}
	case KindField, KindAny7, KindTwo, KindThree, KindYo, KindBoxcars,
		KindAnyCraps, KindCAndE, KindHorn, KindWorld, KindBig6, KindBig8,
		KindAllSmall, KindAllTall, KindAllOrNothing:
		// Placeable on any roll.
	default:
		return Faultf(UnsupportedBet, "unknown bet kind %q", b.Kind)
	}
	return nil
}

// oddsAllowed verifies the matching base contract bet exists and the amount
// is inside the configured odds cap.
func (b *Bet) oddsAllowed(p *Player, t *Table) error {
	switch b.OddsBase {
	case KindPassLine, KindDontPass:
		if t.Point.Off() {
			return Faultf(IllegalBet, "%s odds require the point on", b.OddsBase)
		}
		if b.Number != t.Point.Number {
			return Faultf(IllegalBet, "%s odds must back the point %d, got %d",
				b.OddsBase, t.Point.Number, b.Number)
		}
		if p.betByKey(string(b.OddsBase)) == nil {
			return Faultf(IllegalBet, "odds require a %s bet", b.OddsBase)
		}
	case KindCome, KindDontCome:
		key := NewBet(b.OddsBase, 0)
		key.TravelPoint = b.Number
		if p.betByKey(key.Key()) == nil {
			return Faultf(IllegalBet, "odds require a %s bet travelled to %d", b.OddsBase, b.Number)
		}
	case KindPut:
		if p.betByKey(NewNumberBet(KindPut, b.Number, 0).Key()) == nil {
			return Faultf(IllegalBet, "odds require a put bet on %d", b.Number)
		}
	default:
		return Faultf(IllegalBet, "odds base %q is not a contract bet", b.OddsBase)
	}

	if limit := t.Settings.maxOddsMultiple(b.Number, b.darkSide()); limit > 0 {
		base := b.oddsBaseBet(p)
		if base != nil && b.Wager > limit*base.Wager {
			return Faultf(LimitBreach, "odds %.2f exceed %gx of base wager %.2f",
				b.Wager, limit, base.Wager)
		}
	}
	return nil
}

// oddsBaseBet returns the contract bet an odds bet backs, or nil.
//
// Precondition: b.Kind == KindOdds.
func (b *Bet) oddsBaseBet(p *Player) *Bet {
	switch b.OddsBase {
	case KindPassLine, KindDontPass:
		return p.betByKey(string(b.OddsBase))
	case KindCome, KindDontCome:
		key := NewBet(b.OddsBase, 0)
		key.TravelPoint = b.Number
		return p.betByKey(key.Key())
	case KindPut:
		return p.betByKey(NewNumberBet(KindPut, b.Number, 0).Key())
	}
	return nil
}

// Removable checks whether an explicit take-down of b is legal right now.
// Contract bets lock once they have a point to chase; multi-roll side bets
// lock once they have made progress.
//
// Postcondition: Returns nil or a Fault of kind TableRuleBlock.
func (b *Bet) Removable(t *Table) error {
	switch b.Kind {
	case KindPassLine:
		if t.Point.On() {
			return Faultf(TableRuleBlock, "pass line is a contract bet while the point is on")
		}
	case KindCome:
		if b.TravelPoint != 0 {
			return Faultf(TableRuleBlock, "come bet travelled to %d is a contract bet", b.TravelPoint)
		}
	case KindFire:
		if len(b.PointsMade) > 0 {
			return Faultf(TableRuleBlock, "fire bet locked after %d point(s) made", len(b.PointsMade))
		}
	case KindAllSmall, KindAllTall, KindAllOrNothing:
		if len(b.Remaining) < len(atsTargets(b.Kind)) {
			return Faultf(TableRuleBlock, "%s bet locked after progress", b.Kind)
		}
	}
	return nil
}
