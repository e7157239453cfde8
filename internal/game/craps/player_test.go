package craps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/craps/internal/game/craps"
	"github.com/cory-johannsen/craps/internal/game/dice"
)

func TestAddBetRejectsZeroWager(t *testing.T) {
	_, p := newTestTable(t, 100)
	err := p.AddBet(craps.NewBet(craps.KindField, 0))
	require.Error(t, err)
	assert.Equal(t, craps.BadArgs, craps.KindOf(err))
	assert.Equal(t, 100.0, p.Bankroll)
}

func TestAddBetInsufficientFunds(t *testing.T) {
	_, p := newTestTable(t, 10)
	err := p.AddBet(craps.NewBet(craps.KindPassLine, 25))
	require.Error(t, err)
	assert.Equal(t, craps.InsufficientFunds, craps.KindOf(err))
	assert.Equal(t, 10.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestDuplicateKeyRejected(t *testing.T) {
	_, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindPassLine, 10)))
	err := p.AddBet(craps.NewBet(craps.KindPassLine, 10))
	require.Error(t, err)
	assert.Equal(t, craps.TableRuleBlock, craps.KindOf(err))
	assert.Equal(t, 90.0, p.Bankroll)
}

func TestTwoComeBetsOnDifferentPointsCoexist(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 3) // point 6
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindCome, 10)))
	inject(t, tbl, 4, 5) // travels to 9
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindCome, 10)))
	assert.Len(t, p.Bets, 2)
}

// TestPlaceRemoveRoundTrip: place then remove with no intervening roll
// restores bankroll and bet list exactly.
func TestPlaceRemoveRoundTrip(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Point.Number = 6

	b := craps.NewNumberBet(craps.KindBuy, 10, 40)
	require.NoError(t, p.AddBet(b))
	assert.Equal(t, 58.0, p.Bankroll) // 40 wager + 2 vig

	require.NoError(t, p.RemoveBet(b.Key()))
	assert.Equal(t, 100.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestRemoveMissingBet(t *testing.T) {
	_, p := newTestTable(t, 100)
	err := p.RemoveBet("place/6")
	require.Error(t, err)
	assert.Equal(t, craps.NotFound, craps.KindOf(err))
}

func TestPassLineLockedWithPointOn(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindPassLine, 10)))
	inject(t, tbl, 4, 2) // point 6
	err := p.RemoveBet("pass_line")
	require.Error(t, err)
	assert.Equal(t, craps.TableRuleBlock, craps.KindOf(err))
	assert.Len(t, p.Bets, 1)
}

func TestTravelledComeLocked(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 3)
	come := craps.NewBet(craps.KindCome, 10)
	require.NoError(t, p.AddBet(come))
	inject(t, tbl, 4, 5)
	require.Equal(t, 9, come.TravelPoint)

	err := p.RemoveBet(come.Key())
	require.Error(t, err)
	assert.Equal(t, craps.TableRuleBlock, craps.KindOf(err))
}

func TestRemoveBaseTakesOddsDown(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindDontPass, 10)))
	inject(t, tbl, 4, 2) // point 6
	require.NoError(t, p.AddBet(craps.NewOdds(craps.KindDontPass, 6, 30)))
	assert.Equal(t, 60.0, p.Bankroll)

	// Dark-side line bets come down any time, and the odds follow.
	require.NoError(t, p.RemoveBet("dont_pass"))
	assert.Equal(t, 100.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestOddsRequireBase(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 4, 2) // point 6, no pass line down
	err := p.AddBet(craps.NewOdds(craps.KindPassLine, 6, 10))
	require.Error(t, err)
	assert.Equal(t, craps.IllegalBet, craps.KindOf(err))
}

func TestOddsCapEnforced(t *testing.T) {
	tbl, p := newTestTable(t, 200)
	tbl.Settings.MaxOdds = map[int]float64{4: 3, 5: 4, 6: 5, 8: 5, 9: 4, 10: 3}
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindPassLine, 10)))
	inject(t, tbl, 4, 2) // point 6

	err := p.AddBet(craps.NewOdds(craps.KindPassLine, 6, 55))
	require.Error(t, err)
	assert.Equal(t, craps.LimitBreach, craps.KindOf(err))

	require.NoError(t, p.AddBet(craps.NewOdds(craps.KindPassLine, 6, 50)))
}

func TestReduceRefundsDifference(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Point.Number = 8
	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindPlace, 6, 30)))
	assert.Equal(t, 70.0, p.Bankroll)

	require.NoError(t, p.ReduceBet("place/6", 18))
	assert.Equal(t, 82.0, p.Bankroll)

	err := p.ReduceBet("place/6", 24)
	require.Error(t, err)
	assert.Equal(t, craps.BadArgs, craps.KindOf(err))

	err = p.ReduceBet("place/6", 0)
	require.Error(t, err)
	assert.Equal(t, craps.BadArgs, craps.KindOf(err))
}

func TestReduceComposesAdditively(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Point.Number = 8
	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindPlace, 5, 25)))
	require.NoError(t, p.ReduceBet("place/5", 20))
	require.NoError(t, p.ReduceBet("place/5", 10))
	// 25 down, 15 back.
	assert.Equal(t, 90.0, p.Bankroll)
}

func TestPressStacksExistingBet(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Point.Number = 8
	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindPlace, 6, 6)))
	require.NoError(t, p.PressBet(craps.NewNumberBet(craps.KindPlace, 6, 6)))
	assert.Equal(t, 88.0, p.Bankroll)
	assert.Len(t, p.Bets, 1)
	assert.Equal(t, 12.0, p.Bets[0].Wager)
}

func TestPressBuyAddsVigOnIncrease(t *testing.T) {
	tbl, p := newTestTable(t, 200)
	tbl.Point.Number = 8
	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindBuy, 4, 20))) // vig 1
	require.NoError(t, p.PressBet(craps.NewNumberBet(craps.KindBuy, 4, 20)))
	// 40 wager total, vig re-rated to 2.
	assert.Equal(t, 200.0-40-2, p.Bankroll)
	assert.Equal(t, 2.0, p.Bets[0].VigPaid)
}

func TestSetOddsWorking(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 3)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindCome, 10)))
	inject(t, tbl, 4, 5) // come on 9
	require.NoError(t, p.AddBet(craps.NewOdds(craps.KindCome, 9, 10)))

	require.NoError(t, p.SetOddsWorking(craps.KindCome, 9, true))
	inject(t, tbl, 3, 3) // point 6 made; table comes out
	inject(t, tbl, 3, 4) // working odds lose with the come bet
	assert.Equal(t, 80.0, p.Bankroll)
	assert.Empty(t, p.Bets)

	err := p.SetOddsWorking(craps.KindCome, 5, true)
	require.Error(t, err)
	assert.Equal(t, craps.NotFound, craps.KindOf(err))
}

// TestBankrollConservation: across any single roll the bankroll change
// equals the sum of resolved credits; cash neither appears nor disappears.
func TestBankrollConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		tbl := craps.NewTable(dice.NewSeeded(seed), craps.DefaultSettings(), nil)
		p := craps.NewPlayer("prop", 1_000, 5)
		tbl.AddPlayer(p)

		// Seed a handful of always-legal bets.
		_ = p.AddBet(craps.NewBet(craps.KindField, 5))
		_ = p.AddBet(craps.NewBet(craps.KindPassLine, 10))
		_ = p.AddBet(craps.NewNumberBet(craps.KindPlace, 6, 6))
		_ = p.AddBet(craps.NewBet(craps.KindAllSmall, 2))

		rolls := rapid.IntRange(1, 30).Draw(t, "rolls")
		for i := 0; i < rolls; i++ {
			before := p.Bankroll
			if _, err := tbl.RollOnce(nil); err != nil {
				t.Fatalf("roll %d: %v", i, err)
			}
			var credits float64
			for _, r := range p.Resolved {
				credits += r.Outcome.Credit
			}
			if diff := p.Bankroll - before - credits; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("roll %d: bankroll moved %v but credits sum to %v",
					i, p.Bankroll-before, credits)
			}
		}
	})
}
