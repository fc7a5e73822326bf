// Package money implements fixed-precision currency amounts stored as integer minor units.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (cents). Arithmetic never touches floating point.
type Money int64

// MinorPerMajor is the number of minor units in one major unit.
const MinorPerMajor = 100

var (
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrParse         = errors.New("invalid_money_format")
)

var (
	hundred  = decimal.NewFromInt(MinorPerMajor)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Zero is the zero amount.
const Zero Money = 0

// FromMinor wraps a raw minor-unit value.
func FromMinor(minor int64) Money { return Money(minor) }

// NonNegative wraps minor units, rejecting negative values.
func NonNegative(minor int64) (Money, error) {
	if minor < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidAmount, minor)
	}
	return Money(minor), nil
}

// Parse converts a decimal string ("1234.5", "R 1,234.50") to minor units.
// Digits beyond the second fractional place are rounded half-up.
func Parse(value string) (Money, error) {
	cleaned := normalize(value)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrParse)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrParse, value)
	}
	return fromDecimal(d)
}

// ParseNonNegative is Parse for contexts that cannot hold negative money.
func ParseNonNegative(value string) (Money, error) {
	m, err := Parse(value)
	if err != nil {
		return 0, err
	}
	if m.IsNegative() {
		return 0, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, strings.TrimSpace(value))
	}
	return m, nil
}

// FromDecimal converts a major-unit decimal to minor units, rounding half-up.
// Amounts that do not fit in int64 minor units fail with ErrInvalidAmount.
func FromDecimal(d decimal.Decimal) (Money, error) { return fromDecimal(d) }

func fromDecimal(d decimal.Decimal) (Money, error) {
	// decimal.Round rounds half away from zero, which is half-up for non-negative values.
	scaled := d.Mul(hundred).Round(0)
	if scaled.GreaterThan(maxMinor) || scaled.LessThan(minMinor) {
		return 0, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d.String())
	}
	return Money(scaled.IntPart()), nil
}

func normalize(value string) string {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "R")
	value = strings.ReplaceAll(value, ",", "")
	value = strings.ReplaceAll(value, " ", "")
	return value
}

func (m Money) Minor() int64 { return int64(m) }

func (m Money) Add(other Money) Money { return m + other }

func (m Money) Sub(other Money) Money { return m - other }

// Mul multiplies by an integer quantity. Callers that cannot bound the operands use CheckedMul.
func (m Money) Mul(qty int64) Money { return Money(int64(m) * qty) }

// CheckedAdd is Add that fails with ErrInvalidAmount instead of wrapping.
func (m Money) CheckedAdd(other Money) (Money, error) {
	if (other > 0 && m > math.MaxInt64-other) || (other < 0 && m < math.MinInt64-other) {
		return 0, fmt.Errorf("%w: %s + %s overflows", ErrInvalidAmount, m, other)
	}
	return m + other, nil
}

// CheckedMul is Mul that fails with ErrInvalidAmount instead of wrapping.
func (m Money) CheckedMul(qty int64) (Money, error) {
	if m == 0 || qty == 0 {
		return 0, nil
	}
	product := int64(m) * qty
	if product/qty != int64(m) || (m == -1 && qty == math.MinInt64) || (qty == -1 && m == math.MinInt64) {
		return 0, fmt.Errorf("%w: %s x %d overflows", ErrInvalidAmount, m, qty)
	}
	return Money(product), nil
}

// ApplyRate returns m * (1 + rate), rounded half-up to the nearest minor unit.
func (m Money) ApplyRate(rate decimal.Decimal) Money {
	if rate.IsZero() {
		return m
	}
	scaled := decimal.NewFromInt(int64(m)).Mul(decimal.NewFromInt(1).Add(rate))
	return Money(scaled.Round(0).IntPart())
}

func (m Money) Cmp(other Money) int {
	switch {
	case m < other:
		return -1
	case m > other:
		return 1
	default:
		return 0
	}
}

func (m Money) Equal(other Money) bool { return m == other }
func (m Money) LessThan(other Money) bool { return m < other }
func (m Money) GreaterThan(other Money) bool { return m > other }
func (m Money) IsZero() bool { return m == 0 }
func (m Money) IsPositive() bool { return m > 0 }
func (m Money) IsNegative() bool { return m < 0 }

// Max returns the larger of a and b.
func Max(a, b Money) Money {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a < b {
		return a
	}
	return b
}

// Decimal renders the amount in major units with exactly two fractional digits.
func (m Money) Decimal() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}

func (m Money) String() string { return m.Decimal() }
