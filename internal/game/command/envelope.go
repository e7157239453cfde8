package command

import (
	"encoding/json"
	"math"

	"github.com/cory-johannsen/craps/internal/game/craps"
)

// Envelope is the wire form of one session command: a verb plus a loose
// argument bag, exactly as a frontend or script would submit it.
type Envelope struct {
	Verb      string         `json:"verb" yaml:"verb"`
	Args      map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
	SessionID string         `json:"session_id,omitempty" yaml:"session_id,omitempty"`
}

// Op classifies a decoded request for the session dispatcher.
type Op int

const (
	// OpPlaceBet places the constructed bet.
	OpPlaceBet Op = iota
	// OpPressBet stacks additional wager onto an existing bet.
	OpPressBet
	// OpRemoveBet takes down the bet with TargetKey.
	OpRemoveBet
	// OpReduceBet lowers the bet with TargetKey to Amount.
	OpReduceBet
	// OpClearBets removes every removable bet within Scope.
	OpClearBets
	// OpSetOddsWorking toggles the working flag on an odds bet.
	OpSetOddsWorking
	// OpRoll advances the table by one seeded roll.
	OpRoll
	// OpInjectRoll advances the table with forced dice.
	OpInjectRoll
)

// ClearScope selects which region of the layout a clear verb sweeps.
type ClearScope string

const (
	ClearAll         ClearScope = "all"
	ClearCenter      ClearScope = "center"
	ClearPlaceBuyLay ClearScope = "place_buy_lay"
	ClearATS         ClearScope = "ats"
	ClearFire        ClearScope = "fire"
)

// Request is a fully validated command ready for the session to apply.
// Exactly the fields relevant to Op are populated.
type Request struct {
	Op Op
	// Bet is the bet to place or press.
	Bet *craps.Bet
	// TargetKey identifies the bet for remove/reduce.
	TargetKey string
	// Amount is the new wager for a reduce.
	Amount float64
	// Scope selects the layout region for a clear.
	Scope ClearScope
	// OddsBase, Number and Working parameterize set_odds_working.
	OddsBase craps.Kind
	Number   int
	Working  bool
	// D1 and D2 are the forced dice for an injected roll.
	D1, D2 int
}

// Decode validates an envelope against the registry and produces a typed
// Request. Structural failures (unknown verb, missing or malformed
// arguments, chip increment violations) come back as classified Faults;
// table-state legality is left to the engine.
//
// Postcondition: on error the returned Request is the zero value.
func Decode(env *Envelope, reg *Registry) (Request, error) {
	if env == nil || env.Verb == "" {
		return Request{}, craps.Faultf(craps.BadArgs, "empty command envelope")
	}
	verb, ok := reg.Resolve(env.Verb)
	if !ok {
		return Request{}, craps.Faultf(craps.BadArgs, "unknown verb %q", env.Verb)
	}
	args := env.Args
	if args == nil {
		args = map[string]any{}
	}

	switch verb.Name {
	case "remove_bet":
		key, err := targetKey(args)
		if err != nil {
			return Request{}, err
		}
		return Request{Op: OpRemoveBet, TargetKey: key}, nil

	case "reduce_bet":
		key, err := targetKey(args)
		if err != nil {
			return Request{}, err
		}
		amount, err := floatArg(args, "amount", true)
		if err != nil {
			return Request{}, err
		}
		return Request{Op: OpReduceBet, TargetKey: key, Amount: amount}, nil

	case "press_bet":
		return decodePress(args)

	case "clear_all_bets":
		return Request{Op: OpClearBets, Scope: ClearAll}, nil
	case "clear_center_bets":
		return Request{Op: OpClearBets, Scope: ClearCenter}, nil
	case "clear_place_buy_lay":
		return Request{Op: OpClearBets, Scope: ClearPlaceBuyLay}, nil
	case "clear_ats_bets":
		return Request{Op: OpClearBets, Scope: ClearATS}, nil
	case "clear_fire_bets":
		return Request{Op: OpClearBets, Scope: ClearFire}, nil

	case "set_odds_working":
		base, err := baseArg(args)
		if err != nil {
			return Request{}, err
		}
		number, err := intArg(args, "number", true)
		if err != nil {
			return Request{}, err
		}
		working, err := boolArg(args, "working")
		if err != nil {
			return Request{}, err
		}
		return Request{Op: OpSetOddsWorking, OddsBase: base, Number: number, Working: working}, nil

	case "roll":
		return Request{Op: OpRoll}, nil

	case "inject_roll":
		d1, err := intArg(args, "d1", true)
		if err != nil {
			return Request{}, err
		}
		d2, err := intArg(args, "d2", true)
		if err != nil {
			return Request{}, err
		}
		return Request{Op: OpInjectRoll, D1: d1, D2: d2}, nil
	}

	// Everything left is a placement verb.
	bet, err := buildBet(verb, args)
	if err != nil {
		return Request{}, err
	}
	return Request{Op: OpPlaceBet, Bet: bet}, nil
}

// buildBet constructs the bet a placement verb describes.
func buildBet(verb *Verb, args map[string]any) (*craps.Bet, error) {
	amount, err := floatArg(args, "amount", true)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, craps.Faultf(craps.BadArgs, "amount must be positive, got %.2f", amount)
	}

	switch verb.Name {
	case "odds":
		base, err := baseArg(args)
		if err != nil {
			return nil, err
		}
		// The number may be omitted for line bases; the session fills
		// in the current point. Come-flavoured bases travel per bet and
		// must name their number.
		number, err := intArg(args, "number", base == craps.KindCome || base == craps.KindDontCome)
		if err != nil {
			return nil, err
		}
		return craps.NewOdds(base, number, amount), nil

	case "hop":
		a, b, err := pairArg(args)
		if err != nil {
			return nil, err
		}
		return craps.NewHop(a, b, amount), nil

	case "place":
		number, err := intArg(args, "number", true)
		if err != nil {
			return nil, err
		}
		if err := checkPlaceIncrement(number, amount); err != nil {
			return nil, err
		}
		return craps.NewNumberBet(craps.KindPlace, number, amount), nil
	}

	if verb.NeedsNumber {
		number, err := intArg(args, "number", true)
		if err != nil {
			return nil, err
		}
		return craps.NewNumberBet(verb.Kind, number, amount), nil
	}
	return craps.NewBet(verb.Kind, amount), nil
}

// decodePress resolves the press target the same way remove does and
// carries the increment as a bet so identity keys line up.
func decodePress(args map[string]any) (Request, error) {
	bet, err := keyBet(args)
	if err != nil {
		return Request{}, err
	}
	amount, err := floatArg(args, "amount", true)
	if err != nil {
		return Request{}, err
	}
	if amount <= 0 {
		return Request{}, craps.Faultf(craps.BadArgs, "press amount must be positive, got %.2f", amount)
	}
	bet.Wager = amount
	if bet.Kind == craps.KindPlace {
		if err := checkPlaceIncrement(bet.Number, amount); err != nil {
			return Request{}, err
		}
	}
	return Request{Op: OpPressBet, Bet: bet}, nil
}

// targetKey resolves the identity key of the bet named by a remove or
// reduce argument bag.
func targetKey(args map[string]any) (string, error) {
	bet, err := keyBet(args)
	if err != nil {
		return "", err
	}
	return bet.Key(), nil
}

// keyBet builds a zero-wager bet carrying only identity fields, so its
// Key matches the live bet it names.
func keyBet(args map[string]any) (*craps.Bet, error) {
	kind, err := kindArg(args)
	if err != nil {
		return nil, err
	}
	switch kind {
	case craps.KindOdds:
		base, err := baseArg(args)
		if err != nil {
			return nil, err
		}
		number, err := intArg(args, "number", true)
		if err != nil {
			return nil, err
		}
		return craps.NewOdds(base, number, 0), nil
	case craps.KindHop:
		a, b, err := pairArg(args)
		if err != nil {
			return nil, err
		}
		return craps.NewHop(a, b, 0), nil
	case craps.KindCome, craps.KindDontCome:
		number, err := intArg(args, "number", false)
		if err != nil {
			return nil, err
		}
		bet := craps.NewBet(kind, 0)
		bet.TravelPoint = number
		return bet, nil
	case craps.KindPlace, craps.KindBuy, craps.KindLay, craps.KindPut, craps.KindHardway:
		number, err := intArg(args, "number", true)
		if err != nil {
			return nil, err
		}
		return craps.NewNumberBet(kind, number, 0), nil
	}
	return craps.NewBet(kind, 0), nil
}

// checkPlaceIncrement enforces the chip rules for place bets: 4, 5, 9
// and 10 pay 9:5 and 7:5 and only settle cleanly in $5 units; 6 and 8
// pay 7:6 and need $6 units.
func checkPlaceIncrement(number int, amount float64) error {
	var unit float64
	switch number {
	case 4, 5, 9, 10:
		unit = 5
	case 6, 8:
		unit = 6
	default:
		// Box-number legality is reported by the engine.
		return nil
	}
	if rem := math.Mod(amount, unit); rem > 1e-9 && unit-rem > 1e-9 {
		return craps.Faultf(craps.BadIncrement,
			"place %d takes $%.0f units, got %.2f", number, unit, amount)
	}
	return nil
}

// kindArg reads and validates the "type" argument.
func kindArg(args map[string]any) (craps.Kind, error) {
	s, err := stringArg(args, "type")
	if err != nil {
		return "", err
	}
	kind := craps.Kind(s)
	switch kind {
	case craps.KindPassLine, craps.KindDontPass, craps.KindCome, craps.KindDontCome,
		craps.KindOdds, craps.KindPlace, craps.KindBuy, craps.KindLay, craps.KindPut,
		craps.KindField, craps.KindAny7, craps.KindTwo, craps.KindThree, craps.KindYo,
		craps.KindBoxcars, craps.KindAnyCraps, craps.KindCAndE, craps.KindHorn,
		craps.KindWorld, craps.KindHop, craps.KindHardway, craps.KindBig6,
		craps.KindBig8, craps.KindFire, craps.KindAllSmall, craps.KindAllTall,
		craps.KindAllOrNothing:
		return kind, nil
	}
	return "", craps.Faultf(craps.BadArgs, "unknown bet type %q", s)
}

// baseArg reads the odds base, defaulting to the pass line.
func baseArg(args map[string]any) (craps.Kind, error) {
	raw, ok := args["base"]
	if !ok {
		return craps.KindPassLine, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", craps.Faultf(craps.BadArgs, "base must be a string, got %T", raw)
	}
	base := craps.Kind(s)
	switch base {
	case craps.KindPassLine, craps.KindDontPass, craps.KindCome, craps.KindDontCome, craps.KindPut:
		return base, nil
	}
	return "", craps.Faultf(craps.BadArgs, "odds cannot back %q", s)
}

// pairArg reads the hop target pair from either a two-element "result"
// list or discrete d1/d2 arguments.
func pairArg(args map[string]any) (int, int, error) {
	if raw, ok := args["result"]; ok {
		list, ok := raw.([]any)
		if !ok || len(list) != 2 {
			return 0, 0, craps.Faultf(craps.BadArgs, "result must be a two-element pair")
		}
		a, err := asInt(list[0], "result[0]")
		if err != nil {
			return 0, 0, err
		}
		b, err := asInt(list[1], "result[1]")
		if err != nil {
			return 0, 0, err
		}
		return a, b, nil
	}
	a, err := intArg(args, "d1", true)
	if err != nil {
		return 0, 0, err
	}
	b, err := intArg(args, "d2", true)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func stringArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", craps.Faultf(craps.BadArgs, "missing argument %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", craps.Faultf(craps.BadArgs, "%s must be a string, got %T", name, raw)
	}
	return s, nil
}

func floatArg(args map[string]any, name string, required bool) (float64, error) {
	raw, ok := args[name]
	if !ok {
		if required {
			return 0, craps.Faultf(craps.BadArgs, "missing argument %q", name)
		}
		return 0, nil
	}
	return asFloat(raw, name)
}

func intArg(args map[string]any, name string, required bool) (int, error) {
	raw, ok := args[name]
	if !ok {
		if required {
			return 0, craps.Faultf(craps.BadArgs, "missing argument %q", name)
		}
		return 0, nil
	}
	return asInt(raw, name)
}

func boolArg(args map[string]any, name string) (bool, error) {
	raw, ok := args[name]
	if !ok {
		return false, craps.Faultf(craps.BadArgs, "missing argument %q", name)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, craps.Faultf(craps.BadArgs, "%s must be a bool, got %T", name, raw)
	}
	return b, nil
}

// asFloat accepts the numeric shapes JSON and YAML decoders produce.
func asFloat(raw any, name string) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, craps.Faultf(craps.BadArgs, "%s is not numeric: %v", name, err)
		}
		return f, nil
	}
	return 0, craps.Faultf(craps.BadArgs, "%s must be numeric, got %T", name, raw)
}

func asInt(raw any, name string) (int, error) {
	f, err := asFloat(raw, name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, craps.Faultf(craps.BadArgs, "%s must be an integer, got %v", name, f)
	}
	return int(f), nil
}

// InScope reports whether a bet falls inside a clear scope.
func InScope(b *craps.Bet, scope ClearScope) bool {
	switch scope {
	case ClearAll:
		return true
	case ClearCenter:
		switch b.Kind {
		case craps.KindAny7, craps.KindTwo, craps.KindThree, craps.KindYo,
			craps.KindBoxcars, craps.KindAnyCraps, craps.KindCAndE,
			craps.KindHorn, craps.KindWorld, craps.KindHop, craps.KindHardway:
			return true
		}
	case ClearPlaceBuyLay:
		switch b.Kind {
		case craps.KindPlace, craps.KindBuy, craps.KindLay:
			return true
		}
	case ClearATS:
		switch b.Kind {
		case craps.KindAllSmall, craps.KindAllTall, craps.KindAllOrNothing:
			return true
		}
	case ClearFire:
		return b.Kind == craps.KindFire
	}
	return false
}
