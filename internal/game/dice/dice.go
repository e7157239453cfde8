// Package dice provides the seedable two-die randomness core for the craps
// engine. A Dice value owns its Source, so two Dice built from equal seeds
// and driven through equal Roll/Force call sequences produce identical pair
// sequences.
package dice

import "fmt"

// Dice holds a randomness source and the result of the most recent roll.
//
// Invariant: after the first roll, D1 and D2 are in [1, 6] and NRolls
// increases by exactly one per Roll or Force call.
type Dice struct {
	src Source
	// D1 and D2 are the face values of the last roll (0 before the first).
	D1, D2 int
	// NRolls counts every roll, forced or random.
	NRolls int
}

// New creates a Dice driven by src.
//
// Precondition: src must be non-nil.
func New(src Source) *Dice {
	if src == nil {
		panic("dice: New called with nil Source")
	}
	return &Dice{src: src}
}

// NewSeeded creates a Dice with a deterministic source seeded from seed.
func NewSeeded(seed int64) *Dice {
	return New(NewSeededSource(seed))
}

// Roll draws a fresh pair from the source.
//
// Postcondition: D1, D2 in [1, 6]; NRolls incremented by one.
func (d *Dice) Roll() (int, int) {
	d.D1 = d.src.Intn(6) + 1
	d.D2 = d.src.Intn(6) + 1
	d.NRolls++
	return d.D1, d.D2
}

// Force stores a fixed pair, still counting the roll. Used for replay and
// for the inject_roll command path.
//
// Precondition: d1 and d2 in [1, 6].
// Postcondition: NRolls incremented by one.
func (d *Dice) Force(d1, d2 int) error {
	if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return fmt.Errorf("dice: forced faces (%d,%d) out of range [1,6]", d1, d2)
	}
	d.D1, d.D2 = d1, d2
	d.NRolls++
	return nil
}

// Total returns the sum of the last pair, or 0 before the first roll.
func (d *Dice) Total() int { return d.D1 + d.D2 }

// Pair returns the last pair.
func (d *Dice) Pair() (int, int) { return d.D1, d.D2 }

// IsHard reports whether the last roll was doubles. Hardways key off this.
func (d *Dice) IsHard() bool { return d.NRolls > 0 && d.D1 == d.D2 }

// String returns an audit string in the format "(3,4) = 7".
func (d *Dice) String() string {
	return fmt.Sprintf("(%d,%d) = %d", d.D1, d.D2, d.Total())
}
