package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Price is an arbitrary-precision non-negative integer amount of currency units.
// The zero value is a valid price of 0.
type Price struct {
	d decimal.Decimal
}

// NewPrice returns a price of units.
func NewPrice(units uint64) Price {
	return Price{d: decimal.NewFromBigInt(new(big.Int).SetUint64(units), 0)}
}

// MaxPriceDigits bounds the length of a parsed price, longer inputs are rejected.
const MaxPriceDigits = 256

// ParsePrice accepts base-10 digits only: no sign, fraction or exponent.
func ParsePrice(s string) (Price, error) {
	if s == "" || len(s) > MaxPriceDigits {
		return Price{}, ErrInvalidPrice
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Price{}, ErrInvalidPrice
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Price{}, ErrInvalidPrice
	}
	return Price{d: decimal.NewFromBigInt(n, 0)}, nil
}

// Cmp returns -1, 0 or +1 when p is less than, equal to or greater than o.
func (p Price) Cmp(o Price) int { return p.d.Cmp(o.d) }

// Next is the smallest price strictly greater than p.
func (p Price) Next() Price { return Price{d: p.d.Add(decimal.NewFromInt(1))} }

func (p Price) String() string { return p.d.String() }

// MarshalJSON emits the price as a quoted decimal string so values beyond
// float64 precision survive JSON clients.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.d.String() + `"`), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted strings holding plain digits.
func (p *Price) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "null" {
		return nil
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
