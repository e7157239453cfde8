package craps

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure that may cross a command boundary.
// Errors are classified, never thrown raw across the session surface.
type ErrorKind string

const (
	// BadArgs: structural validation failure (missing/malformed fields,
	// non-numeric amounts, out-of-range numbers).
	BadArgs ErrorKind = "BAD_ARGS"
	// IllegalBet: unknown variant, or the bet's legality predicate is false
	// at placement time.
	IllegalBet ErrorKind = "ILLEGAL_BET"
	// IllegalTiming: operation attempted during the dice-resolution window.
	// Reserved for future async callers.
	IllegalTiming ErrorKind = "ILLEGAL_TIMING"
	// BadIncrement: amount violates a variant-specific chip increment rule.
	BadIncrement ErrorKind = "BAD_INCREMENT"
	// InsufficientFunds: required cash exceeds bankroll at placement time.
	InsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	// NotFound: remove/reduce target absent.
	NotFound ErrorKind = "NOT_FOUND"
	// TableRuleBlock: the engine refused a mutation despite surface checks
	// passing, e.g. a duplicate bet key in strict mode.
	TableRuleBlock ErrorKind = "TABLE_RULE_BLOCK"
	// UnsupportedBet: variant not implemented in the current profile.
	UnsupportedBet ErrorKind = "UNSUPPORTED_BET"
	// LimitBreach: amount exceeds a configured table limit (e.g. max odds).
	LimitBreach ErrorKind = "LIMIT_BREACH"
	// Internal: invariant violation. The offending mutation is rolled back
	// and the session survives.
	Internal ErrorKind = "INTERNAL"
)

// Fault is a classified engine error. It never mutates session state.
type Fault struct {
	Kind ErrorKind
	Hint string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Hint)
}

// Faultf builds a Fault with a formatted hint.
//
// Postcondition: Returns a non-nil *Fault of the given kind.
func Faultf(kind ErrorKind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, Hint: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind of err if it is (or wraps) a Fault, or
// Internal for anything unclassified.
func KindOf(err error) ErrorKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return Internal
}
