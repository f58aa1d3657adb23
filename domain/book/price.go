package book

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Prices are integer ticks throughout the core. TickDecimals fixes the
// resolution: one tick is 10^-TickDecimals units of quote currency.
// Keeping prices integral means binary-equal keys for equal prices, so
// price levels always merge correctly.
const TickDecimals = 8

// TickFactor is 10^TickDecimals, the number of ticks per whole unit.
const TickFactor int64 = 100_000_000

var (
	ErrBadPrice     = errors.New("unparseable price")
	ErrSubTickPrice = errors.New("price has sub-tick precision")
)

var tickScale = decimal.New(1, TickDecimals)

// ToTicks parses a decimal price string into ticks. Sub-tick precision
// is rejected rather than silently rounded.
func ToTicks(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrBadPrice
	}
	scaled := d.Mul(tickScale)
	if !scaled.IsInteger() {
		return 0, ErrSubTickPrice
	}
	return scaled.IntPart(), nil
}

// FromTicks converts a tick price back to its decimal representation
// for display and feed payloads.
func FromTicks(ticks int64) decimal.Decimal {
	return decimal.New(ticks, -TickDecimals)
}
