package craps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/craps/internal/game/craps"
	"github.com/cory-johannsen/craps/internal/game/dice"
)

// newTestTable seats one player with the given bankroll at a table with
// default settings and deterministic dice.
func newTestTable(t *testing.T, bankroll float64) (*craps.Table, *craps.Player) {
	t.Helper()
	tbl := craps.NewTable(dice.NewSeeded(42), craps.DefaultSettings(), nil)
	p := craps.NewPlayer("tester", bankroll, 5)
	tbl.AddPlayer(p)
	return tbl, p
}

// inject throws a forced pair through the full roll pipeline.
func inject(t *testing.T, tbl *craps.Table, d1, d2 int) craps.RollSummary {
	t.Helper()
	sum, err := tbl.RollOnce(&[2]int{d1, d2})
	require.NoError(t, err)
	return sum
}

// TestPassLineMakesPoint: pass_line(10), point 5 set,
// point made. Net +10 and the bet comes off.
func TestPassLineMakesPoint(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindPassLine, 10)))
	assert.Equal(t, 90.0, p.Bankroll)

	sum := inject(t, tbl, 4, 1)
	assert.Equal(t, 5, sum.PointSet)
	assert.Equal(t, 90.0, p.Bankroll)

	sum = inject(t, tbl, 3, 2)
	assert.Equal(t, 5, sum.PointMade)
	assert.Equal(t, 110.0, p.Bankroll)
	assert.Empty(t, p.Bets)
	assert.True(t, tbl.Point.Off())
}

func TestPassLineComeOut(t *testing.T) {
	cases := []struct {
		name     string
		d1, d2   int
		bankroll float64
		remains  bool
	}{
		{"seven wins", 3, 4, 110, false},
		{"yo wins", 5, 6, 110, false},
		{"craps two loses", 1, 1, 90, false},
		{"craps three loses", 2, 1, 90, false},
		{"boxcars loses", 6, 6, 90, false},
		{"box number rides", 4, 4, 90, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, p := newTestTable(t, 100)
			require.NoError(t, p.AddBet(craps.NewBet(craps.KindPassLine, 10)))
			inject(t, tbl, tc.d1, tc.d2)
			assert.Equal(t, tc.bankroll, p.Bankroll)
			assert.Equal(t, tc.remains, len(p.Bets) == 1)
		})
	}
}

func TestDontPassBarsTwelve(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindDontPass, 10)))
	inject(t, tbl, 6, 6)
	// Bar 12: no action, bet stays.
	assert.Equal(t, 90.0, p.Bankroll)
	assert.Len(t, p.Bets, 1)

	inject(t, tbl, 1, 2)
	assert.Equal(t, 110.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestDontPassSevenOutWins(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindDontPass, 10)))
	inject(t, tbl, 4, 4) // point 8
	inject(t, tbl, 3, 4) // seven-out
	assert.Equal(t, 110.0, p.Bankroll)
	assert.True(t, tbl.Point.Off())
}

// TestBuyUpFrontVig: buy(4,20) with up-front vig
// reserves 21; the win pays 2/1 plus principal, vig retained.
func TestBuyUpFrontVig(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Point.Number = 5 // puck on so the buy works

	b := craps.NewNumberBet(craps.KindBuy, 4, 20)
	require.NoError(t, p.AddBet(b))
	assert.Equal(t, 79.0, p.Bankroll)
	assert.Equal(t, 1.0, b.VigPaid)

	inject(t, tbl, 2, 2)
	assert.Equal(t, 139.0, p.Bankroll)
	assert.Empty(t, p.Bets)

	// Bet already removed; the seven-out changes nothing for this player.
	inject(t, tbl, 3, 4)
	assert.Equal(t, 139.0, p.Bankroll)
}

// TestBuyVigOnWin: no commission withheld at placement,
// commission netted from the winning payout.
func TestBuyVigOnWin(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Settings.VigPaidOnWin = true
	tbl.Point.Number = 5

	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindBuy, 4, 20)))
	assert.Equal(t, 80.0, p.Bankroll)

	inject(t, tbl, 2, 2)
	assert.Equal(t, 139.0, p.Bankroll)
}

func TestBuyLosesVigForfeit(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Point.Number = 5
	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindBuy, 4, 20)))
	assert.Equal(t, 79.0, p.Bankroll)

	inject(t, tbl, 3, 4)
	// Wager and vig both forfeit.
	assert.Equal(t, 79.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestLayVigRunsOnWinAmount(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Point.Number = 5

	// Lay 40 against the 4: potential win 20, vig 1 up front.
	b := craps.NewNumberBet(craps.KindLay, 4, 40)
	require.NoError(t, p.AddBet(b))
	assert.Equal(t, 59.0, p.Bankroll)
	assert.Equal(t, 1.0, b.VigPaid)

	inject(t, tbl, 3, 4)
	// Seven: win 20 plus principal 40 back.
	assert.Equal(t, 119.0, p.Bankroll)
}

// TestHornComposite: horn(4) on a 2 nets +27.
func TestHornComposite(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindHorn, 4)))
	assert.Equal(t, 96.0, p.Bankroll)

	inject(t, tbl, 1, 1)
	assert.Equal(t, 123.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestHornLosesOffNumber(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindHorn, 4)))
	inject(t, tbl, 2, 3)
	assert.Equal(t, 96.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestWorldPushesOnSeven(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindWorld, 5)))
	assert.Equal(t, 95.0, p.Bankroll)

	inject(t, tbl, 3, 4)
	// Four quarters lose, the any-seven fifth is returned.
	assert.Equal(t, 96.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestWorldWinsOnHornNumber(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindWorld, 5)))
	inject(t, tbl, 1, 2) // three pays 15 on its fifth; the other four fifths lose
	assert.Equal(t, 95.0+15-4, p.Bankroll)
}

// TestComeMigration: the come bet travels to 5, then
// the seven-out takes it down.
func TestComeMigration(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 3) // point 6
	require.True(t, tbl.Point.On())

	come := craps.NewBet(craps.KindCome, 10)
	require.NoError(t, p.AddBet(come))
	assert.Equal(t, 90.0, p.Bankroll)

	inject(t, tbl, 3, 2)
	assert.Equal(t, 5, come.TravelPoint)
	assert.Len(t, p.Bets, 1)
	assert.Equal(t, 90.0, p.Bankroll)

	sum := inject(t, tbl, 3, 4)
	assert.True(t, sum.SevenOut)
	assert.Equal(t, 90.0, p.Bankroll)
	assert.Empty(t, p.Bets)
	assert.True(t, tbl.NewShooter)
	assert.Equal(t, 2, tbl.NShooters)
}

func TestComeWinsOnOwnComeOut(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 3)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindCome, 10)))
	inject(t, tbl, 5, 6) // yo wins on the come bet's come-out
	assert.Equal(t, 110.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestDontComeTravelsAndWins(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 3) // point 6
	dc := craps.NewBet(craps.KindDontCome, 10)
	require.NoError(t, p.AddBet(dc))

	inject(t, tbl, 4, 5) // travels to 9
	assert.Equal(t, 9, dc.TravelPoint)

	inject(t, tbl, 3, 4) // seven-out: dont_come wins
	assert.Equal(t, 110.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestOddsPayTrueOdds(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindPassLine, 10)))
	inject(t, tbl, 4, 6) // point 10

	require.NoError(t, p.AddBet(craps.NewOdds(craps.KindPassLine, 10, 20)))
	assert.Equal(t, 70.0, p.Bankroll)

	inject(t, tbl, 5, 5)
	// Pass 10+10, odds 20 + 40 at 2/1.
	assert.Equal(t, 150.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestNonWorkingComeOddsReturnedOnComeOutSeven(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 3) // point 6
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindCome, 10)))
	inject(t, tbl, 4, 5) // come travels to 9

	require.NoError(t, p.AddBet(craps.NewOdds(craps.KindCome, 9, 10)))
	inject(t, tbl, 3, 3) // point 6 made; table comes out
	require.True(t, tbl.Point.Off())

	inject(t, tbl, 3, 4) // come-out seven
	// Come bet loses its 10; the non-working odds are returned.
	assert.Equal(t, 90.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestPlaceNonWorkingOnComeOut(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindPlace, 6, 6)))

	inject(t, tbl, 3, 4) // come-out seven: place bet is off
	assert.Equal(t, 94.0, p.Bankroll)
	assert.Len(t, p.Bets, 1)

	inject(t, tbl, 4, 4) // point 8
	inject(t, tbl, 2, 4) // six hits: 7/6 on 6 pays 7
	assert.Equal(t, 94.0+6+7, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestFieldPayouts(t *testing.T) {
	cases := []struct {
		name   string
		d1, d2 int
		delta  float64
	}{
		{"two pays double", 1, 1, 2 * 5},
		{"twelve pays double", 6, 6, 2 * 5},
		{"four pays even", 1, 3, 5},
		{"eleven pays even", 5, 6, 5},
		{"six loses", 3, 3, -5},
		{"seven loses", 3, 4, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl, p := newTestTable(t, 100)
			require.NoError(t, p.AddBet(craps.NewBet(craps.KindField, 5)))
			inject(t, tbl, tc.d1, tc.d2)
			assert.InDelta(t, 100+tc.delta, p.Bankroll, 1e-9)
			assert.Empty(t, p.Bets)
		})
	}
}

func TestFieldOverride(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	tbl.Settings.FieldPayouts[12] = 3
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindField, 5)))
	inject(t, tbl, 6, 6)
	assert.Equal(t, 100.0+3*5, p.Bankroll)
}

func TestHardwayWinsHardLosesEasy(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindHardway, 8, 5)))

	inject(t, tbl, 2, 3) // five: no action
	assert.Len(t, p.Bets, 1)

	inject(t, tbl, 4, 4) // hard eight pays 9
	assert.Equal(t, 95.0+5+45, p.Bankroll)
	assert.Empty(t, p.Bets)

	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindHardway, 8, 5)))
	inject(t, tbl, 6, 2) // easy eight loses
	assert.Empty(t, p.Bets)
}

func TestHopBets(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewHop(2, 5, 1)))
	inject(t, tbl, 5, 2) // unordered match, easy hop pays 15
	assert.Equal(t, 99.0+1+15, p.Bankroll)

	require.NoError(t, p.AddBet(craps.NewHop(3, 3, 1)))
	inject(t, tbl, 3, 3) // hard hop pays 30
	assert.Equal(t, 114.0+1+30, p.Bankroll)
}

func TestBigSix(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindBig6, 10)))
	inject(t, tbl, 2, 2) // no action
	assert.Len(t, p.Bets, 1)
	inject(t, tbl, 3, 3) // even money
	assert.Equal(t, 110.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

// TestFireFourPoints: four distinct points then a
// seven-out pays fire_points[4] = 24.
func TestFireFourPoints(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	fire := craps.NewBet(craps.KindFire, 1)
	require.NoError(t, p.AddBet(fire))
	start := p.Bankroll

	rolls := [][2]int{
		{3, 1}, {1, 3}, // point 4 set and made
		{4, 1}, {1, 4}, // point 5 set and made
		{3, 2}, {2, 3}, // 5 again: not a new distinct point
		{5, 4}, {4, 5}, // point 9 set and made
		{3, 3}, {3, 3}, // point 6 set and made: four distinct
		{4, 4}, // point 8 set
	}
	for _, r := range rolls {
		inject(t, tbl, r[0], r[1])
	}
	assert.Len(t, fire.PointsMade, 4)

	inject(t, tbl, 3, 4) // seven-out settles the fire bet
	assert.Equal(t, start+24+1, p.Bankroll)
	assert.Empty(t, p.Bets)
	assert.True(t, fire.Ended)
}

func TestFireShortOfThresholdLoses(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindFire, 1)))
	inject(t, tbl, 3, 1) // point 4
	inject(t, tbl, 1, 3) // made: one point
	inject(t, tbl, 4, 1) // point 5
	inject(t, tbl, 3, 4) // seven-out with only one point made
	assert.Equal(t, 99.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestFireOnlyForNewShooter(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 1)
	err := p.AddBet(craps.NewBet(craps.KindFire, 1))
	require.Error(t, err)
	assert.Equal(t, craps.IllegalBet, craps.KindOf(err))
}

func TestAllSmallCompletes(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindAllSmall, 2)))
	for _, r := range [][2]int{{1, 1}, {1, 2}, {2, 2}, {2, 3}, {3, 3}} {
		inject(t, tbl, r[0], r[1])
	}
	// 2 through 6 struck: pays 34.
	assert.Equal(t, 98.0+2+2*34, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestAllTallSevenKills(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	require.NoError(t, p.AddBet(craps.NewBet(craps.KindAllTall, 2)))
	inject(t, tbl, 4, 4)
	inject(t, tbl, 5, 5)
	inject(t, tbl, 3, 4) // any seven loses, point on or off
	assert.Equal(t, 98.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}

func TestPutBehavesLikeLockedPassLine(t *testing.T) {
	tbl, p := newTestTable(t, 100)
	inject(t, tbl, 3, 3) // point 6
	require.NoError(t, p.AddBet(craps.NewNumberBet(craps.KindPut, 8, 10)))

	inject(t, tbl, 4, 4)
	assert.Equal(t, 110.0, p.Bankroll)
	assert.Empty(t, p.Bets)
}
