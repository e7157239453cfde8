// Package craps implements the core craps table: the point state machine,
// the closed bet taxonomy with its per-roll resolver, player bankroll
// accounting, and the roll pipeline. The package performs no I/O; all
// randomness comes through the dice package.
package craps

import (
	"fmt"
	"strconv"
)

// boxNumbers are the totals that can become the point.
var boxNumbers = map[int]bool{4: true, 5: true, 6: true, 8: true, 9: true, 10: true}

// IsBoxNumber reports whether n is one of {4,5,6,8,9,10}.
func IsBoxNumber(n int) bool { return boxNumbers[n] }

// Point is the table puck. Number 0 means the puck is off.
//
// Invariant: Number is 0 or a box number.
type Point struct {
	Number int
}

// On reports whether the puck is on.
func (p Point) On() bool { return p.Number != 0 }

// Off reports whether the puck is off.
func (p Point) Off() bool { return p.Number == 0 }

// Update applies one dice total to the point state machine.
//
// From Off: a box-number total sets the point. From On: the point's own
// number or a 7 turns the puck off. Anything else leaves the state unchanged.
//
// Precondition: total in [2, 12].
// Postcondition: the resulting state is valid for every total in [2, 12].
func (p *Point) Update(total int) {
	switch {
	case p.Off() && boxNumbers[total]:
		p.Number = total
	case p.On() && (total == 7 || total == p.Number):
		p.Number = 0
	}
}

// Equals compares the point against an int (box number), a string
// ("on", "off", or "4".."10"), or another Point.
func (p Point) Equals(other any) bool {
	switch v := other.(type) {
	case int:
		return p.Number == v
	case string:
		switch v {
		case "on":
			return p.On()
		case "off":
			return p.Off()
		default:
			n, err := strconv.Atoi(v)
			return err == nil && p.Number == n
		}
	case Point:
		return p.Number == v.Number
	case *Point:
		return v != nil && p.Number == v.Number
	}
	return false
}

// String returns "Off" or "On <number>".
func (p Point) String() string {
	if p.Off() {
		return "Off"
	}
	return fmt.Sprintf("On %d", p.Number)
}
