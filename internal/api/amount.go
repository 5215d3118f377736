package api

import (
	"github.com/shopspring/decimal"
)

// Amount is a decimal that travels as a JSON number, e.g. 12.5 rather than
// "12.5". Quoted numbers are accepted when decoding.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}
