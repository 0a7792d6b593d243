package num

import (
	"github.com/shopspring/decimal"
)

// Decimal is the arbitrary-precision type used for every price and
// quantity in the simulation.
type Decimal = decimal.Decimal

var (
	dzero = decimal.Zero
	d1    = decimal.NewFromInt(1)
)

func DecimalZero() Decimal {
	return dzero
}

func DecimalOne() Decimal {
	return d1
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromFloat(v float64) Decimal {
	return decimal.NewFromFloat(v)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

func MustDecimalFromString(s string) Decimal {
	d, err := DecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func MaxD(a, b Decimal) Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func MinD(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Round rounds half-up to the given number of fractional digits. Every
// product and quotient of currency amounts goes through this before it
// touches a balance.
func Round(d Decimal, places int32) Decimal {
	return d.Round(places)
}
