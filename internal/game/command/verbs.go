// Package command provides the session verb registry and the envelope
// decoder that turns wire-level commands into typed engine requests. All
// structural validation happens here, so the session layer only ever sees
// well-formed requests.
package command

import (
	"fmt"

	"github.com/cory-johannsen/craps/internal/game/craps"
)

// Categories for grouping verbs.
const (
	CategoryLine       = "line"
	CategoryNumbers    = "numbers"
	CategoryCenter     = "center"
	CategorySide       = "side"
	CategoryManagement = "management"
	CategoryDice       = "dice"
)

// Verb defines one recognized session command.
type Verb struct {
	// Name is the canonical verb name.
	Name string
	// Aliases are alternate spellings.
	Aliases []string
	// Category groups the verb on the layout.
	Category string
	// Kind is the bet kind a placement verb constructs; empty for
	// management and dice verbs.
	Kind craps.Kind
	// NeedsNumber marks placement verbs that require a number argument.
	NeedsNumber bool
}

// BuiltinVerbs returns every verb the engine recognizes.
func BuiltinVerbs() []Verb {
	return []Verb{
		{Name: "pass_line", Category: CategoryLine, Kind: craps.KindPassLine},
		{Name: "dont_pass", Category: CategoryLine, Kind: craps.KindDontPass},
		{Name: "come", Category: CategoryLine, Kind: craps.KindCome},
		{Name: "dont_come", Category: CategoryLine, Kind: craps.KindDontCome},
		{Name: "odds", Category: CategoryLine},

		{Name: "place", Category: CategoryNumbers, Kind: craps.KindPlace, NeedsNumber: true},
		{Name: "buy", Category: CategoryNumbers, Kind: craps.KindBuy, NeedsNumber: true},
		{Name: "lay", Category: CategoryNumbers, Kind: craps.KindLay, NeedsNumber: true},
		{Name: "put", Category: CategoryNumbers, Kind: craps.KindPut, NeedsNumber: true},
		{Name: "hardway", Category: CategoryNumbers, Kind: craps.KindHardway, NeedsNumber: true},
		{Name: "big6", Category: CategoryNumbers, Kind: craps.KindBig6},
		{Name: "big8", Category: CategoryNumbers, Kind: craps.KindBig8},

		{Name: "field", Category: CategoryCenter, Kind: craps.KindField},
		{Name: "any7", Category: CategoryCenter, Kind: craps.KindAny7},
		{Name: "two", Aliases: []string{"aces"}, Category: CategoryCenter, Kind: craps.KindTwo},
		{Name: "three", Aliases: []string{"ace_deuce"}, Category: CategoryCenter, Kind: craps.KindThree},
		{Name: "yo", Aliases: []string{"eleven"}, Category: CategoryCenter, Kind: craps.KindYo},
		{Name: "boxcars", Aliases: []string{"midnight"}, Category: CategoryCenter, Kind: craps.KindBoxcars},
		{Name: "any_craps", Category: CategoryCenter, Kind: craps.KindAnyCraps},
		{Name: "c_and_e", Aliases: []string{"c&e"}, Category: CategoryCenter, Kind: craps.KindCAndE},
		{Name: "horn", Category: CategoryCenter, Kind: craps.KindHorn},
		{Name: "world", Category: CategoryCenter, Kind: craps.KindWorld},
		{Name: "hop", Category: CategoryCenter, Kind: craps.KindHop},

		{Name: "fire", Category: CategorySide, Kind: craps.KindFire},
		{Name: "all", Category: CategorySide, Kind: craps.KindAllOrNothing},
		{Name: "tall", Category: CategorySide, Kind: craps.KindAllTall},
		{Name: "small", Category: CategorySide, Kind: craps.KindAllSmall},

		{Name: "remove_bet", Category: CategoryManagement},
		{Name: "reduce_bet", Category: CategoryManagement},
		{Name: "press_bet", Category: CategoryManagement},
		{Name: "clear_all_bets", Category: CategoryManagement},
		{Name: "clear_center_bets", Category: CategoryManagement},
		{Name: "clear_place_buy_lay", Category: CategoryManagement},
		{Name: "clear_ats_bets", Category: CategoryManagement},
		{Name: "clear_fire_bets", Category: CategoryManagement},
		{Name: "set_odds_working", Category: CategoryManagement},

		{Name: "roll", Category: CategoryDice},
		{Name: "inject_roll", Aliases: []string{"set_dice"}, Category: CategoryDice},
	}
}

// Registry maps verb names and aliases to Verb definitions.
type Registry struct {
	verbs   map[string]*Verb
	aliases map[string]string
}

// NewRegistry creates a Registry populated with the given verbs.
//
// Precondition: no two verbs may share a canonical name or alias.
// Postcondition: Returns a Registry or an error on collisions.
func NewRegistry(verbs []Verb) (*Registry, error) {
	r := &Registry{
		verbs:   make(map[string]*Verb, len(verbs)),
		aliases: make(map[string]string),
	}
	for i := range verbs {
		v := &verbs[i]
		if _, exists := r.verbs[v.Name]; exists {
			return nil, fmt.Errorf("duplicate verb name: %q", v.Name)
		}
		if _, exists := r.aliases[v.Name]; exists {
			return nil, fmt.Errorf("verb name %q conflicts with an existing alias", v.Name)
		}
		r.verbs[v.Name] = v
		for _, alias := range v.Aliases {
			if _, exists := r.verbs[alias]; exists {
				return nil, fmt.Errorf("alias %q conflicts with verb name %q", alias, alias)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, v.Name)
			}
			r.aliases[alias] = v.Name
		}
	}
	return r, nil
}

// DefaultRegistry creates a Registry with all built-in verbs.
//
// Postcondition: never returns nil; panics on builtin collisions, which
// would be a programming error.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinVerbs())
	if err != nil {
		panic(fmt.Sprintf("building default verb registry: %v", err))
	}
	return r
}

// Resolve looks up a verb by name or alias.
//
// Postcondition: Returns (verb, true) if found, or (nil, false).
func (r *Registry) Resolve(name string) (*Verb, bool) {
	if v, ok := r.verbs[name]; ok {
		return v, true
	}
	if canonical, ok := r.aliases[name]; ok {
		return r.verbs[canonical], true
	}
	return nil, false
}

// Verbs returns all registered verbs in no particular order.
func (r *Registry) Verbs() []*Verb {
	out := make([]*Verb, 0, len(r.verbs))
	for _, v := range r.verbs {
		out = append(out, v)
	}
	return out
}
