package decimalx

import "github.com/shopspring/decimal"

func MustFromString(s string) decimal.Decimal {
	res, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return res
}

// FromStringOrZero parses s as a decimal, returning zero for anything
// that does not parse. Upstream APIs occasionally send empty strings.
func FromStringOrZero(s string) decimal.Decimal {
	res, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return res
}
