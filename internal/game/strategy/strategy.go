// Package strategy provides composable betting strategies for the craps
// engine. A strategy is a small capability set of lifecycle hooks; only
// UpdateBets does work in most implementations. Strategies compose by
// explicit aggregation, never by inheritance chains: Combine fans every
// hook out to its children in declared order.
package strategy

import "github.com/cory-johannsen/craps/internal/game/craps"

// Predicate observes the player and table and gates a primitive's action.
// Predicates are first-class values; compose them with And/Or/Not.
type Predicate func(p *craps.Player, t *craps.Table) bool

// And returns a predicate true when every child is true.
func And(preds ...Predicate) Predicate {
	return func(p *craps.Player, t *craps.Table) bool {
		for _, pred := range preds {
			if !pred(p, t) {
				return false
			}
		}
		return true
	}
}

// Or returns a predicate true when any child is true.
func Or(preds ...Predicate) Predicate {
	return func(p *craps.Player, t *craps.Table) bool {
		for _, pred := range preds {
			if pred(p, t) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(pred Predicate) Predicate {
	return func(p *craps.Player, t *craps.Table) bool { return !pred(p, t) }
}

// PointOff is true on come-out rolls.
func PointOff(_ *craps.Player, t *craps.Table) bool { return t.Point.Off() }

// PointOn is true while the puck is on.
func PointOn(_ *craps.Player, t *craps.Table) bool { return t.Point.On() }

// NewShooter is true in the window between a seven-out and the next roll.
func NewShooter(_ *craps.Player, t *craps.Table) bool { return t.NewShooter }

// Base is an embeddable no-op implementation of every optional hook.
// Concrete strategies embed Base and override what they need.
type Base struct{}

func (Base) BeforeRoll(*craps.Player)       {}
func (Base) UpdateBets(*craps.Player)       {}
func (Base) AfterRoll(*craps.Player)        {}
func (Base) AfterBetsUpdated(*craps.Player) {}
func (Base) AfterTableUpdate(*craps.Player) {}
func (Base) Completed(*craps.Player) bool   { return false }

// Aggregate fans every hook out to its children in declared order. An
// aggregate is completed iff all children are completed.
type Aggregate struct {
	children []craps.Strategy
}

// Combine builds an aggregate of the given strategies. Aggregates nest.
func Combine(children ...craps.Strategy) *Aggregate {
	return &Aggregate{children: children}
}

// Append returns a new aggregate with more children at the tail.
func (a *Aggregate) Append(more ...craps.Strategy) *Aggregate {
	out := make([]craps.Strategy, 0, len(a.children)+len(more))
	out = append(out, a.children...)
	out = append(out, more...)
	return &Aggregate{children: out}
}

func (a *Aggregate) BeforeRoll(p *craps.Player) {
	for _, c := range a.children {
		c.BeforeRoll(p)
	}
}

func (a *Aggregate) UpdateBets(p *craps.Player) {
	for _, c := range a.children {
		if !c.Completed(p) {
			c.UpdateBets(p)
		}
	}
}

func (a *Aggregate) AfterRoll(p *craps.Player) {
	for _, c := range a.children {
		c.AfterRoll(p)
	}
}

func (a *Aggregate) AfterBetsUpdated(p *craps.Player) {
	for _, c := range a.children {
		c.AfterBetsUpdated(p)
	}
}

func (a *Aggregate) AfterTableUpdate(p *craps.Player) {
	for _, c := range a.children {
		c.AfterTableUpdate(p)
	}
}

func (a *Aggregate) Completed(p *craps.Player) bool {
	for _, c := range a.children {
		if !c.Completed(p) {
			return false
		}
	}
	return len(a.children) > 0
}
