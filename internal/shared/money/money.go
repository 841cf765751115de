// Package money holds the fixed-point helpers used for every pay figure.
package money

import (
	"github.com/shopspring/decimal"
)

const Places = 2

// Round rounds half away from zero to pennies.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Mul multiplies a quantity by a per-unit rate and rounds the product.
func Mul(quantity int64, rate decimal.Decimal) decimal.Decimal {
	return Round(decimal.NewFromInt(quantity).Mul(rate))
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Amount is a JSON-facing money value that always renders as a number with
// two decimals, e.g. 102.00.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: Round(d)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(Places)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.Decimal.UnmarshalJSON(b)
}

// Rate renders per-parcel rates with up to four decimals.
type Rate struct {
	decimal.Decimal
}

func NewRate(d decimal.Decimal) Rate {
	return Rate{Decimal: d}
}

func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.Round(4).String()), nil
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	return r.Decimal.UnmarshalJSON(b)
}
