// Package core holds the domain model shared across the service.
//
// Money is stored as integer cents to keep aggregation exact; amounts only
// become floating point at the JSON boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Negative and zero amounts are
// rejected; transactions always carry a positive amount and their kind
// carries the sign.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// Float64 returns the amount in currency units for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// MarshalJSON renders the amount as a plain decimal number (12.34).
func (m Money) MarshalJSON() ([]byte, error) {
	neg := ""
	cents := m.Cents
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100
	if rem == 0 {
		return []byte(neg + strconv.FormatInt(whole, 10)), nil
	}
	s := neg + strconv.FormatInt(whole, 10) + "." + twoDigits(rem)
	// Trim a trailing zero so 12.30 renders as 12.3
	s = strings.TrimSuffix(s, "0")
	return []byte(s), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
