package models

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency every wallet is opened in.
const DefaultCurrency = "BRL"

// minorUnitExp is the decimal exponent of one minor unit (1 centavo = 10^-2).
const minorUnitExp = -2

// Amount is a monetary value in minor units (cents).
// Balances and transfers are integer arithmetic only; decimal text appears at the API edge.
type Amount int64

// ParseAmount parses a decimal string such as "150.25" into minor units.
// More than two fractional digits is rejected instead of rounded.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrValidation, s)
	}
	return AmountFromDecimal(d)
}

// AmountFromDecimal converts a decimal value into minor units.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	scaled := d.Shift(-minorUnitExp)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s has more than 2 decimal places", ErrValidation, d.String())
	}
	if scaled.Abs().GreaterThan(decimal.NewFromInt(1 << 53)) {
		return 0, fmt.Errorf("%w: amount %s is out of range", ErrValidation, d.String())
	}
	return Amount(scaled.IntPart()), nil
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), minorUnitExp)
}

// String formats the amount with exactly two decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// MarshalJSON renders the amount as a JSON number in major units, e.g. 150.25.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both a JSON number (150.25) and a JSON string ("150.25").
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("%w: malformed amount", ErrValidation)
		}
		data = []byte(s)
	}
	parsed, err := ParseAmount(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value stores the amount as a BIGINT of minor units.
func (a Amount) Value() (driver.Value, error) {
	return int64(a), nil
}
