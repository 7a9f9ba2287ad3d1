// Package money implements fixed-point currency amounts in minor units
// (cents). All arithmetic is exact integer math; decimal parsing and
// formatting happen only at the boundary.
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units. It may be negative: an overpaid order
// carries a negative remaining balance (credit).
type Money int64

var (
	ErrNotANumber = errors.New("money: value is not numeric")
	ErrNonFinite  = errors.New("money: value is not finite")
	ErrNegative   = errors.New("money: negative amount not allowed")
)

// Parse converts loosely-typed input (numeric or numeric string) into Money,
// rounding half away from zero to two fractional digits.
func Parse(raw any) (Money, error) {
	var d decimal.Decimal

	switch v := raw.(type) {
	case nil:
		return 0, ErrNotANumber
	case Money:
		return v, nil
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case float32:
		return Parse(float64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, ErrNonFinite
		}
		d = decimal.NewFromFloat(v)
	case json.Number:
		return Parse(string(v))
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotANumber, v)
		}
		d = parsed
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrNotANumber, raw)
	}

	// Round(2) is half-away-from-zero in shopspring/decimal, matching how
	// operator-entered amounts are normalized upstream.
	return Money(d.Round(2).Shift(2).IntPart()), nil
}

// ParseNonNegative is Parse for call sites that disallow negative amounts,
// such as payment entry.
func ParseNonNegative(raw any) (Money, error) {
	m, err := Parse(raw)
	if err != nil {
		return 0, err
	}
	if m < 0 {
		return 0, ErrNegative
	}
	return m, nil
}

// FromCents wraps a raw minor-unit amount.
func FromCents(cents int64) Money { return Money(cents) }

// Cents returns the raw minor-unit amount.
func (m Money) Cents() int64 { return int64(m) }

func (m Money) Add(other Money) Money { return m + other }

func (m Money) Sub(other Money) Money { return m - other }

// MulQty multiplies by a line quantity. Exact in minor units.
func (m Money) MulQty(qty int) Money { return m * Money(qty) }

func (m Money) Neg() Money { return -m }

func (m Money) IsZero() bool { return m == 0 }

func (m Money) IsPositive() bool { return m > 0 }

func (m Money) IsNegative() bool { return m < 0 }

// ClampZero floors the amount at zero for display; the signed value stays
// available for aggregation.
func (m Money) ClampZero() Money {
	if m < 0 {
		return 0
	}
	return m
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}

// MarshalJSON emits the formatted string so API consumers never see float
// representations of currency.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both numeric and string payloads.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
