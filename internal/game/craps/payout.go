package craps

// Payout ratio tables. These are process-wide constants; only the Field and
// Fire tables are overridable through Settings.

// oddsRatios are true odds for light-side odds and Buy bets.
var oddsRatios = map[int]float64{
	4: 2, 5: 3.0 / 2, 6: 6.0 / 5, 8: 6.0 / 5, 9: 3.0 / 2, 10: 2,
}

// layRatios are reciprocal true odds for dark-side odds and Lay bets.
var layRatios = map[int]float64{
	4: 1.0 / 2, 5: 2.0 / 3, 6: 5.0 / 6, 8: 5.0 / 6, 9: 2.0 / 3, 10: 1.0 / 2,
}

// placeRatios are the house-edge place payouts.
var placeRatios = map[int]float64{
	4: 9.0 / 5, 5: 7.0 / 5, 6: 7.0 / 6, 8: 7.0 / 6, 9: 7.0 / 5, 10: 9.0 / 5,
}

// hardwayRatios pay on the double before the easy way or a 7.
var hardwayRatios = map[int]float64{4: 7, 6: 9, 8: 9, 10: 7}

// One-roll proposition multipliers.
const (
	any7Ratio     = 4
	twoRatio      = 30
	threeRatio    = 15
	yoRatio       = 15
	boxcarsRatio  = 30
	anyCrapsRatio = 7
	// C&E pays the craps rate on 2/3/12 and the yo rate on 11.
	cAndECrapsRatio = 3
	cAndEYoRatio    = 7
	hopHardRatio    = 30
	hopEasyRatio    = 15
)

// hornRatio returns the prop rate for one horn quarter, or -1 when the
// total is not a horn number.
func hornRatio(total int) float64 {
	switch total {
	case 2, 12:
		return 30
	case 3, 11:
		return 15
	}
	return -1
}

// All/Tall/Small payouts and target sets.
const (
	allSmallRatio     = 34
	allTallRatio      = 34
	allOrNothingRatio = 175
)

// atsTargets returns a fresh remaining-numbers set for an ATS kind.
//
// Precondition: kind is KindAllSmall, KindAllTall, or KindAllOrNothing.
func atsTargets(kind Kind) map[int]bool {
	set := make(map[int]bool, 10)
	if kind == KindAllSmall || kind == KindAllOrNothing {
		for n := 2; n <= 6; n++ {
			set[n] = true
		}
	}
	if kind == KindAllTall || kind == KindAllOrNothing {
		for n := 8; n <= 12; n++ {
			set[n] = true
		}
	}
	return set
}

// atsRatio returns the completion payout for an ATS kind.
func atsRatio(kind Kind) float64 {
	switch kind {
	case KindAllSmall:
		return allSmallRatio
	case KindAllTall:
		return allTallRatio
	default:
		return allOrNothingRatio
	}
}
