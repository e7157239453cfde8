package dice

import "go.uber.org/zap"

// LoggedDice wraps a Dice and logs every roll at debug level.
type LoggedDice struct {
	*Dice
	logger *zap.Logger
}

// NewLogged creates a LoggedDice that records each roll to logger.
//
// Precondition: d and logger must be non-nil.
func NewLogged(d *Dice, logger *zap.Logger) *LoggedDice {
	return &LoggedDice{Dice: d, logger: logger}
}

// Roll draws a fresh pair and logs it.
func (l *LoggedDice) Roll() (int, int) {
	d1, d2 := l.Dice.Roll()
	l.logger.Debug("dice roll",
		zap.Int("d1", d1),
		zap.Int("d2", d2),
		zap.Int("total", d1+d2),
		zap.Int("n_rolls", l.NRolls),
	)
	return d1, d2
}

// Force stores a fixed pair and logs it with a forced marker.
func (l *LoggedDice) Force(d1, d2 int) error {
	if err := l.Dice.Force(d1, d2); err != nil {
		return err
	}
	l.logger.Debug("dice roll",
		zap.Int("d1", d1),
		zap.Int("d2", d2),
		zap.Int("total", d1+d2),
		zap.Int("n_rolls", l.NRolls),
		zap.Bool("forced", true),
	)
	return nil
}
