package pfreport

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount is a monetary value in a given currency. NaN stands for an unknown
// amount and renders as "".
type Amount struct {
	value float64
	cur   string
}

// A builds an Amount.
func A(value float64, currency string) Amount { return Amount{value: value, cur: currency} }

// currency returns the amount's currency, never nil.
func (a Amount) currency() money.Currency {
	return *money.New(0, a.cur).Currency()
}

// IsKnown reports whether the amount carries an actual value.
func (a Amount) IsKnown() bool { return !math.IsNaN(a.value) }

// String formats the amount with the currency's symbol, separators and
// fraction digits (2 for USD, 0 for JPY). Unknown amounts format as "".
func (a Amount) String() string {
	if !a.IsKnown() {
		return ""
	}
	cur := a.currency()
	minor := decimal.NewFromFloat(a.value).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Percent is a relative change where 0.05 means +5%. NaN means unknown.
type Percent float64

// String formats the change with one decimal, e.g. "4.2%" or "-4.2%".
func (p Percent) String() string {
	if math.IsNaN(float64(p)) {
		return ""
	}
	return fmt.Sprintf("%.1f%%", float64(p)*100)
}

// SignedString is like String with an explicit "+" on positive values.
// Zero has no sign; unknown formats as "".
func (p Percent) SignedString() string {
	if math.IsNaN(float64(p)) {
		return ""
	}
	v := float64(p) * 100
	if v > 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}
