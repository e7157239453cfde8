package craps

// Rounding selects how a raw 5% commission is rounded to chips.
type Rounding string

const (
	// RoundNone leaves the raw commission unrounded.
	RoundNone Rounding = "none"
	// RoundCeilDollar rounds the commission up to the next whole dollar.
	RoundCeilDollar Rounding = "ceil_dollar"
	// RoundNearestDollar rounds to the nearest whole dollar, ties to even.
	RoundNearestDollar Rounding = "nearest_dollar"
)

// Settings are the per-session table rules. A Session owns its Settings
// exclusively; the payout constants in payout.go are process-wide.
type Settings struct {
	// VigRounding is applied to the flat 5% Buy/Lay commission.
	VigRounding Rounding `mapstructure:"vig_rounding" yaml:"vig_rounding"`
	// VigFloor zeroes any commission that rounds below it.
	VigFloor float64 `mapstructure:"vig_floor" yaml:"vig_floor"`
	// VigPaidOnWin moves the commission cash flow from placement to
	// settlement. The magnitude is identical either way.
	VigPaidOnWin bool `mapstructure:"vig_paid_on_win" yaml:"vig_paid_on_win"`
	// FieldPayouts overrides the per-total field multipliers.
	FieldPayouts map[int]float64 `mapstructure:"field_payouts" yaml:"field_payouts"`
	// FirePoints overrides the unique-points-made payout table.
	FirePoints map[int]float64 `mapstructure:"fire_points" yaml:"fire_points"`
	// MaxOdds caps light-side odds as a multiple of the base wager, per number.
	MaxOdds map[int]float64 `mapstructure:"max_odds" yaml:"max_odds"`
	// MaxDontOdds caps dark-side odds as a multiple of the base wager, per number.
	MaxDontOdds map[int]float64 `mapstructure:"max_dont_odds" yaml:"max_dont_odds"`
	// AllowFixedDice gates the inject_roll command.
	AllowFixedDice bool `mapstructure:"allow_fixed_dice" yaml:"allow_fixed_dice"`
}

// DefaultSettings returns the standard Vegas-style table rules.
//
// Postcondition: FieldPayouts and FirePoints are populated copies; callers
// may mutate them without affecting other tables.
func DefaultSettings() Settings {
	return Settings{
		VigRounding:  RoundNearestDollar,
		VigFloor:     0,
		VigPaidOnWin: false,
		FieldPayouts: map[int]float64{2: 2, 3: 1, 4: 1, 9: 1, 10: 1, 11: 1, 12: 2},
		FirePoints:   map[int]float64{4: 24, 5: 249, 6: 999},
	}
}

// fieldPayout returns the multiplier for a field total, or -1 when the
// total is not a field winner.
func (s Settings) fieldPayout(total int) float64 {
	if v, ok := s.FieldPayouts[total]; ok {
		return v
	}
	return -1
}

// firePayout returns the multiplier for a count of unique points made, or
// -1 when the count is below the smallest paying threshold.
func (s Settings) firePayout(count int) float64 {
	if v, ok := s.FirePoints[count]; ok {
		return v
	}
	return -1
}

// maxOddsMultiple returns the configured odds cap for a number, or 0 when
// uncapped. dark selects the MaxDontOdds table.
func (s Settings) maxOddsMultiple(number int, dark bool) float64 {
	m := s.MaxOdds
	if dark {
		m = s.MaxDontOdds
	}
	if m == nil {
		return 0
	}
	return m[number]
}
