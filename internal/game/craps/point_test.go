package craps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/craps/internal/game/craps"
)

func TestPointTransitions(t *testing.T) {
	cases := []struct {
		name   string
		start  int
		total  int
		expect int
	}{
		{"off box sets point", 0, 5, 5},
		{"off seven stays off", 0, 7, 0},
		{"off craps stays off", 0, 2, 0},
		{"off yo stays off", 0, 11, 0},
		{"on made turns off", 5, 5, 0},
		{"on seven turns off", 5, 7, 0},
		{"on other box unchanged", 5, 8, 5},
		{"on field total unchanged", 5, 3, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := craps.Point{Number: tc.start}
			p.Update(tc.total)
			assert.Equal(t, tc.expect, p.Number)
		})
	}
}

// TestPointTotality: Update is defined for every total in [2,12] in both
// statuses and always leaves a valid state.
func TestPointTotality(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.SampledFrom([]int{0, 4, 5, 6, 8, 9, 10}).Draw(t, "start")
		total := rapid.IntRange(2, 12).Draw(t, "total")
		p := craps.Point{Number: start}
		p.Update(total)
		if p.Number != 0 && !craps.IsBoxNumber(p.Number) {
			t.Fatalf("invalid point number %d after total %d from %d", p.Number, total, start)
		}
	})
}

func TestPointEquals(t *testing.T) {
	off := craps.Point{}
	on := craps.Point{Number: 6}

	assert.True(t, off.Equals("off"))
	assert.False(t, off.Equals("on"))
	assert.True(t, on.Equals("on"))
	assert.True(t, on.Equals(6))
	assert.True(t, on.Equals("6"))
	assert.False(t, on.Equals("8"))
	assert.True(t, on.Equals(craps.Point{Number: 6}))
	assert.False(t, on.Equals(off))
	assert.False(t, on.Equals(3.5))
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "Off", craps.Point{}.String())
	assert.Equal(t, "On 9", craps.Point{Number: 9}.String())
}
