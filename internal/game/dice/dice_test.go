package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRollRange(t *testing.T) {
	d := NewSeeded(1)
	for i := 0; i < 200; i++ {
		d1, d2 := d.Roll()
		require.GreaterOrEqual(t, d1, 1)
		require.LessOrEqual(t, d1, 6)
		require.GreaterOrEqual(t, d2, 1)
		require.LessOrEqual(t, d2, 6)
	}
	assert.Equal(t, 200, d.NRolls)
}

func TestForceCountsRoll(t *testing.T) {
	d := NewSeeded(0)
	require.NoError(t, d.Force(4, 3))
	assert.Equal(t, 7, d.Total())
	assert.Equal(t, 1, d.NRolls)
	assert.False(t, d.IsHard())

	require.NoError(t, d.Force(5, 5))
	assert.Equal(t, 10, d.Total())
	assert.Equal(t, 2, d.NRolls)
	assert.True(t, d.IsHard())
}

func TestForceRejectsOutOfRange(t *testing.T) {
	d := NewSeeded(0)
	assert.Error(t, d.Force(0, 3))
	assert.Error(t, d.Force(3, 7))
	assert.Equal(t, 0, d.NRolls)
}

func TestIsHardBeforeFirstRoll(t *testing.T) {
	d := NewSeeded(0)
	assert.False(t, d.IsHard())
}

// TestSeedDeterminism: equal seeds and equal call sequences yield identical
// pair sequences, including interleaved forced rolls.
func TestSeedDeterminism(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		n := rapid.IntRange(1, 50).Draw(t, "n")

		a := NewSeeded(seed)
		b := NewSeeded(seed)
		for i := 0; i < n; i++ {
			if i%5 == 4 {
				require.NoError(t, a.Force(2, 6))
				require.NoError(t, b.Force(2, 6))
				continue
			}
			a1, a2 := a.Roll()
			b1, b2 := b.Roll()
			if a1 != b1 || a2 != b2 {
				t.Fatalf("roll %d diverged: (%d,%d) vs (%d,%d)", i, a1, a2, b1, b2)
			}
		}
		if a.NRolls != b.NRolls {
			t.Fatalf("roll counters diverged: %d vs %d", a.NRolls, b.NRolls)
		}
	})
}

func TestCryptoSourceRange(t *testing.T) {
	src := NewCryptoSource()
	for i := 0; i < 100; i++ {
		v := src.Intn(6)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 6)
	}
}
