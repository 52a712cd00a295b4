package controller

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered amount. Thousands separators and
// surrounding spaces are ignored; anything else malformed is a
// *ValidationError.
func ParseAmount(field, raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, &ValidationError{Field: field, Reason: "value is required"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "not a number"}
	}
	return d.InexactFloat64(), nil
}

// ParseOptionalAmount returns nil for blank input.
func ParseOptionalAmount(field, raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := ParseAmount(field, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseNonNegativeAmount rejects negative values.
func ParseNonNegativeAmount(field, raw string) (float64, error) {
	v, err := ParseAmount(field, raw)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "must not be negative"}
	}
	return v, nil
}

func requireText(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", &ValidationError{Field: field, Reason: "value is required"}
	}
	return v, nil
}
