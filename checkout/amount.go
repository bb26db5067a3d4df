package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a currency or percentage value with two decimals, e.g. 100.00.
//
// It is sent as a JSON number; extra precision is rounded half away from zero.
type Amount struct {
	d decimal.Decimal
}

// NewAmount panics on NaN and infinities.
func NewAmount(f float64) Amount {
	return Amount{d: decimal.NewFromFloat(f)}
}

// ParseAmount parses a decimal literal such as "25.00".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("checkout: invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Float64() float64 {
	f, _ := a.d.Float64()
	return f
}

func (a Amount) IsZero() bool { return a.d.IsZero() }

// Equal compares the rounded values.
func (a Amount) Equal(b Amount) bool {
	return a.d.Round(2).Equal(b.d.Round(2))
}

func (a Amount) String() string { return a.d.StringFixed(2) }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("checkout: invalid amount %s: %w", data, err)
	}
	a.d = d
	return nil
}
