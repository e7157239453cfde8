package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/craps/internal/game/craps"
)

// Hook function names a strategy script may define. Undefined hooks are
// skipped; "completed" defaults to never-finished.
const (
	hookBeforeRoll       = "before_roll"
	hookUpdateBets       = "update_bets"
	hookAfterRoll        = "after_roll"
	hookAfterBets        = "after_bets_updated"
	hookAfterTableUpdate = "after_table_update"
	hookCompleted        = "completed"
)

// LuaStrategy runs a betting strategy written in Lua inside a sandboxed
// VM. The script defines global hook functions; each receives a state
// table and may call the craps module to place, press, or remove bets.
//
// LuaStrategy is not safe for concurrent use. A table drives its hooks
// from a single goroutine.
type LuaStrategy struct {
	L         *lua.LState
	instLimit int
	logger    *zap.Logger

	// current is the player in hook scope; craps module functions bind
	// to it for the duration of one dispatch.
	current *craps.Player
}

// NewLuaStrategy loads a strategy script into a fresh sandboxed VM.
//
// Precondition: path names a readable Lua file; instLimit >= 0 (0 uses
// DefaultInstructionLimit); logger may be nil.
// Postcondition: Returns a strategy ready to attach to a player, or an
// error if the script fails to load. The caller must Close() it when
// the run ends.
func NewLuaStrategy(path string, instLimit int, logger *zap.Logger) (*LuaStrategy, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LuaStrategy{
		L:         NewSandboxedState(instLimit),
		instLimit: instLimit,
		logger:    logger,
	}
	s.registerModule()
	if err := s.L.DoFile(path); err != nil {
		s.L.Close()
		return nil, fmt.Errorf("scripting: loading strategy %q: %w", path, err)
	}
	return s, nil
}

// Close releases the Lua VM.
func (s *LuaStrategy) Close() {
	s.L.Close()
}

// BeforeRoll implements craps.Strategy.
func (s *LuaStrategy) BeforeRoll(p *craps.Player) { s.dispatch(hookBeforeRoll, p) }

// UpdateBets implements craps.Strategy.
func (s *LuaStrategy) UpdateBets(p *craps.Player) { s.dispatch(hookUpdateBets, p) }

// AfterRoll implements craps.Strategy.
func (s *LuaStrategy) AfterRoll(p *craps.Player) { s.dispatch(hookAfterRoll, p) }

// AfterBetsUpdated implements craps.Strategy.
func (s *LuaStrategy) AfterBetsUpdated(p *craps.Player) { s.dispatch(hookAfterBets, p) }

// AfterTableUpdate implements craps.Strategy.
func (s *LuaStrategy) AfterTableUpdate(p *craps.Player) { s.dispatch(hookAfterTableUpdate, p) }

// Completed implements craps.Strategy. A script without a completed hook
// plays until the run's outer stop condition fires.
func (s *LuaStrategy) Completed(p *craps.Player) bool {
	ret := s.call(hookCompleted, p)
	return lua.LVAsBool(ret)
}

// dispatch calls a hook for its side effects.
func (s *LuaStrategy) dispatch(hook string, p *craps.Player) {
	s.call(hook, p)
}

// call invokes the named hook with a fresh state table and instruction
// budget. Lua runtime errors are logged and swallowed; a broken script
// must not break the roll pipeline.
func (s *LuaStrategy) call(hook string, p *craps.Player) lua.LValue {
	fn := s.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}

	ResetBudget(s.L, s.instLimit)
	s.current = p
	defer func() { s.current = nil }()

	if err := s.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, s.stateTable(p)); err != nil {
		s.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)
	return ret
}

// stateTable snapshots the player and table for one hook call.
func (s *LuaStrategy) stateTable(p *craps.Player) *lua.LTable {
	L := s.L
	state := L.NewTable()
	L.SetField(state, "bankroll", lua.LNumber(p.Bankroll))
	L.SetField(state, "unit", lua.LNumber(p.Unit))

	if t := p.Table(); t != nil {
		L.SetField(state, "point", lua.LNumber(t.Point.Number))
		L.SetField(state, "new_shooter", lua.LBool(t.NewShooter))
		L.SetField(state, "last_roll", lua.LNumber(t.LastRoll))
		L.SetField(state, "pass_rolls", lua.LNumber(t.PassRolls))
	}

	bets := L.NewTable()
	for _, b := range p.Bets {
		bets.Append(lua.LString(b.Key()))
	}
	L.SetField(state, "bets", bets)

	resolved := L.NewTable()
	for _, r := range p.Resolved {
		entry := L.NewTable()
		L.SetField(entry, "key", lua.LString(r.Bet.Key()))
		L.SetField(entry, "verdict", lua.LString(verdictName(r.Outcome.Verdict)))
		L.SetField(entry, "credit", lua.LNumber(r.Outcome.Credit))
		resolved.Append(entry)
	}
	L.SetField(state, "resolved", resolved)
	return state
}

func verdictName(v craps.Verdict) string {
	switch v {
	case craps.VerdictWin:
		return "win"
	case craps.VerdictLose:
		return "lose"
	case craps.VerdictPush:
		return "push"
	}
	return "none"
}

// registerModule installs the craps global table. Every function binds
// to the player currently in hook scope; calling one outside a hook
// raises a Lua error.
func (s *LuaStrategy) registerModule() {
	L := s.L
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"bet":    s.luaBet,
		"odds":   s.luaOdds,
		"hop":    s.luaHop,
		"press":  s.luaPress,
		"remove": s.luaRemove,
		"has":    s.luaHas,
		"log":    s.luaLog,
	})
	L.SetGlobal("craps", mod)
}

// player returns the player in hook scope, raising a Lua error outside one.
func (s *LuaStrategy) player(L *lua.LState) *craps.Player {
	if s.current == nil {
		L.RaiseError("craps module called outside a strategy hook")
	}
	return s.current
}

// buildBet constructs a bet from (kind, amount[, number]) Lua arguments.
func buildBet(L *lua.LState) *craps.Bet {
	kind := craps.Kind(L.CheckString(1))
	amount := float64(L.CheckNumber(2))
	if L.GetTop() >= 3 {
		return craps.NewNumberBet(kind, L.CheckInt(3), amount)
	}
	return craps.NewBet(kind, amount)
}

// luaBet places a bet: craps.bet(kind, amount[, number]) -> ok, err.
func (s *LuaStrategy) luaBet(L *lua.LState) int {
	p := s.player(L)
	return s.push2(L, p.AddBet(buildBet(L)))
}

// luaOdds places odds: craps.odds(base, number, amount) -> ok, err.
func (s *LuaStrategy) luaOdds(L *lua.LState) int {
	p := s.player(L)
	base := craps.Kind(L.CheckString(1))
	number := L.CheckInt(2)
	amount := float64(L.CheckNumber(3))
	return s.push2(L, p.AddBet(craps.NewOdds(base, number, amount)))
}

// luaHop places a hop bet: craps.hop(a, b, amount) -> ok, err.
func (s *LuaStrategy) luaHop(L *lua.LState) int {
	p := s.player(L)
	a, b := L.CheckInt(1), L.CheckInt(2)
	amount := float64(L.CheckNumber(3))
	return s.push2(L, p.AddBet(craps.NewHop(a, b, amount)))
}

// luaPress stacks wager: craps.press(kind, amount[, number]) -> ok, err.
func (s *LuaStrategy) luaPress(L *lua.LState) int {
	p := s.player(L)
	return s.push2(L, p.PressBet(buildBet(L)))
}

// luaRemove takes a bet down: craps.remove(key) -> ok, err.
func (s *LuaStrategy) luaRemove(L *lua.LState) int {
	p := s.player(L)
	return s.push2(L, p.RemoveBet(L.CheckString(1)))
}

// luaHas reports whether a bet key is live: craps.has(key) -> bool.
func (s *LuaStrategy) luaHas(L *lua.LState) int {
	p := s.player(L)
	key := L.CheckString(1)
	for _, b := range p.Bets {
		if b.Key() == key {
			L.Push(lua.LTrue)
			return 1
		}
	}
	L.Push(lua.LFalse)
	return 1
}

// luaLog writes a script message through the strategy's logger.
func (s *LuaStrategy) luaLog(L *lua.LState) int {
	s.logger.Info("strategy script", zap.String("msg", L.CheckString(1)))
	return 0
}

// push2 pushes the (ok, err) pair Lua callers destructure.
func (s *LuaStrategy) push2(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	L.Push(lua.LNil)
	return 2
}
