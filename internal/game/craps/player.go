package craps

// Strategy is the hook set a player may attach. Only UpdateBets does work
// in most strategies; the strategy package provides a no-op base and the
// composable primitives.
type Strategy interface {
	// BeforeRoll runs before the dice move, before UpdateBets.
	BeforeRoll(p *Player)
	// UpdateBets is where a strategy places, presses, or removes bets.
	UpdateBets(p *Player)
	// AfterRoll runs once the dice have landed, before bets resolve.
	AfterRoll(p *Player)
	// AfterBetsUpdated runs once bets have resolved and bankrolls settled.
	AfterBetsUpdated(p *Player)
	// AfterTableUpdate runs after the point transition and shooter counters.
	AfterTableUpdate(p *Player)
	// Completed reports the strategy can make no further progress.
	Completed(p *Player) bool
}

// ResolvedBet pairs a bet with its outcome for the roll just resolved.
type ResolvedBet struct {
	Bet     *Bet
	Outcome Outcome
}

// Player owns a bankroll and an ordered bet list at one table. All
// mutations run through AddBet/RemoveBet/ReduceBet so the accounting
// invariants hold: bankroll never goes negative, at most one bet per
// identity key, and every command either fully applies or leaves the
// player unchanged.
type Player struct {
	Name     string
	Bankroll float64
	// Unit is the player's base betting unit, used by the batch runner's
	// stop condition and by strategies.
	Unit float64
	// Bets is insertion-ordered; resolution walks it front to back.
	Bets []*Bet
	// Strategy drives this player's lifecycle hooks; nil for command-only play.
	Strategy Strategy
	// Resolved holds the results of the most recent roll, for strategies
	// that react to wins and losses. Cleared at the next pre-roll tick.
	Resolved []ResolvedBet

	table *Table
}

// NewPlayer creates a player with the given bankroll and unit.
//
// Precondition: bankroll >= 0; unit > 0.
func NewPlayer(name string, bankroll, unit float64) *Player {
	return &Player{Name: name, Bankroll: bankroll, Unit: unit}
}

// Table returns the table the player is seated at, or nil.
func (p *Player) Table() *Table { return p.table }

// betByKey returns the bet with the given identity key, or nil.
func (p *Player) betByKey(key string) *Bet {
	for _, b := range p.Bets {
		if b.Key() == key {
			return b
		}
	}
	return nil
}

// HasBet reports whether a bet with b's identity key is on the layout.
func (p *Player) HasBet(b *Bet) bool { return p.betByKey(b.Key()) != nil }

// BetsOfKind returns all bets of the given kind in insertion order.
func (p *Player) BetsOfKind(kind Kind) []*Bet {
	var out []*Bet
	for _, b := range p.Bets {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// RequiredCash returns the cash reserved at placement: the wager plus any
// up-front vig.
func (p *Player) RequiredCash(b *Bet) float64 {
	return b.Wager + upFrontVig(b, p.table.Settings)
}

// AddBet places b after checking amount, legality, identity uniqueness, and
// funds. On success the wager and any up-front vig are deducted atomically.
//
// Postcondition: on error the player is unchanged; on success the bankroll
// dropped by exactly RequiredCash(b) and b is appended to the bet list.
func (p *Player) AddBet(b *Bet) error {
	if p.table == nil {
		return Faultf(Internal, "player %q is not seated at a table", p.Name)
	}
	if b.Wager <= 0 {
		return Faultf(BadArgs, "wager must be positive, got %.2f", b.Wager)
	}
	if err := b.Allowed(p, p.table); err != nil {
		return err
	}
	if existing := p.betByKey(b.Key()); existing != nil {
		return Faultf(TableRuleBlock, "bet %s already on the layout; press to stack", b.Key())
	}

	vig := upFrontVig(b, p.table.Settings)
	required := b.Wager + vig
	if required > p.Bankroll {
		return Faultf(InsufficientFunds, "need %.2f, bankroll %.2f", required, p.Bankroll)
	}

	p.Bankroll -= required
	b.VigPaid = vig
	p.Bets = append(p.Bets, b)
	return nil
}

// PressBet stacks additional wager onto an existing bet with the same
// identity key. The press is modelled as replacing the bet with a larger
// one; multi-roll state carries over.
//
// Postcondition: on success the bankroll dropped by the press amount plus
// any additional up-front vig on the increased wager.
func (p *Player) PressBet(b *Bet) error {
	existing := p.betByKey(b.Key())
	if existing == nil {
		return p.AddBet(b)
	}
	if b.Wager <= 0 {
		return Faultf(BadArgs, "press amount must be positive, got %.2f", b.Wager)
	}

	grown := *existing
	grown.Wager = existing.Wager + b.Wager
	if err := grown.Allowed(p, p.table); err != nil {
		return err
	}
	newVig := upFrontVig(&grown, p.table.Settings)
	required := b.Wager + (newVig - existing.VigPaid)
	if required > p.Bankroll {
		return Faultf(InsufficientFunds, "need %.2f, bankroll %.2f", required, p.Bankroll)
	}

	p.Bankroll -= required
	existing.Wager = grown.Wager
	existing.VigPaid = newVig
	return nil
}

// RemoveBet takes down the bet with the given identity key, refunding the
// wager and any up-front vig. Odds riding on a removed contract bet come
// down with it.
//
// Postcondition: on error the player is unchanged.
func (p *Player) RemoveBet(key string) error {
	b := p.betByKey(key)
	if b == nil {
		return Faultf(NotFound, "no bet %s on the layout", key)
	}
	if err := b.Removable(p.table); err != nil {
		return err
	}

	p.refund(b)
	for _, o := range p.dependentOdds(b) {
		p.refund(o)
	}
	return nil
}

// refund returns a bet's reserved cash and drops it from the list.
func (p *Player) refund(b *Bet) {
	p.Bankroll += b.Wager + b.VigPaid
	p.drop(b)
}

// drop removes b from the bet list, preserving order.
func (p *Player) drop(b *Bet) {
	for i, cur := range p.Bets {
		if cur == b {
			p.Bets = append(p.Bets[:i], p.Bets[i+1:]...)
			return
		}
	}
}

// dependentOdds returns odds bets whose base contract is b. Removing the
// base invalidates the odds.
func (p *Player) dependentOdds(base *Bet) []*Bet {
	var out []*Bet
	for _, b := range p.Bets {
		if b.Kind != KindOdds {
			continue
		}
		switch base.Kind {
		case KindPassLine, KindDontPass:
			if b.OddsBase == base.Kind {
				out = append(out, b)
			}
		case KindCome, KindDontCome:
			if b.OddsBase == base.Kind && b.Number == base.TravelPoint {
				out = append(out, b)
			}
		case KindPut:
			if b.OddsBase == KindPut && b.Number == base.Number {
				out = append(out, b)
			}
		}
	}
	return out
}

// ReduceBet lowers the wager of the bet with the given key to newAmount,
// refunding the difference. Reduction to zero is a remove, not a reduce.
//
// Postcondition: on error the player is unchanged; on success the bankroll
// grew by exactly the reduction.
func (p *Player) ReduceBet(key string, newAmount float64) error {
	b := p.betByKey(key)
	if b == nil {
		return Faultf(NotFound, "no bet %s on the layout", key)
	}
	if newAmount <= 0 {
		return Faultf(BadArgs, "reduce target must be positive; use remove to take the bet down")
	}
	if newAmount >= b.Wager {
		return Faultf(BadArgs, "reduce only goes down: %.2f >= current %.2f", newAmount, b.Wager)
	}
	if err := b.Removable(p.table); err != nil {
		return err
	}

	diff := b.Wager - newAmount
	b.Wager = newAmount
	p.Bankroll += diff
	if b.VigPaid > 0 {
		// Re-rate the up-front vig against the smaller wager.
		newVig := upFrontVig(b, p.table.Settings)
		p.Bankroll += b.VigPaid - newVig
		b.VigPaid = newVig
	}
	return nil
}

// SetOddsWorking toggles the working flag on the odds bet backing base on
// the given number.
func (p *Player) SetOddsWorking(base Kind, number int, working bool) error {
	ref := NewOdds(base, number, 1)
	b := p.betByKey(ref.Key())
	if b == nil {
		return Faultf(NotFound, "no %s odds on %d", base, number)
	}
	b.Working = working
	return nil
}

// resolveBets walks the bet list in insertion order, applies each outcome
// to the bankroll, and removes completed bets. Results are retained in
// p.Resolved for strategies and the session's effect summaries.
//
// Postcondition: Δbankroll equals the sum of outcome credits.
func (p *Player) resolveBets(t *Table) {
	p.Resolved = p.Resolved[:0]
	// The list shrinks while iterating; walk a copy of the slice header.
	pending := make([]*Bet, len(p.Bets))
	copy(pending, p.Bets)
	for _, b := range pending {
		out := b.Resolve(t)
		p.Bankroll += out.Credit
		p.Resolved = append(p.Resolved, ResolvedBet{Bet: b, Outcome: out})
		if out.Remove {
			p.drop(b)
		}
	}
}

// TotalWagered returns the cash currently reserved on the layout.
func (p *Player) TotalWagered() float64 {
	var sum float64
	for _, b := range p.Bets {
		sum += b.Wager + b.VigPaid
	}
	return sum
}
