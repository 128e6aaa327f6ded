package mapper

import (
	"math"
	"strconv"
	"strings"
	"time"

	"finadmin/pkg/models"
)

// ParseAmount converts a decimal string into a finite, non-negative amount.
// An empty value is an error; callers that allow missing amounts check first.
func ParseAmount(field string, raw models.RawDecimal) (float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return 0, newMappingError(field, "", "amount is missing")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, newMappingError(field, s, "not a decimal number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newMappingError(field, s, "not a finite number")
	}
	if v < 0 {
		return 0, newMappingError(field, s, "amount is negative")
	}
	return v, nil
}

// optionalAmount is ParseAmount with an absent value mapped to zero.
func optionalAmount(field string, raw models.RawDecimal) (float64, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return 0, nil
	}
	return ParseAmount(field, raw)
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts calendar dates and RFC 3339 timestamps. An empty value
// yields the zero time.
func ParseDate(field, raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, newMappingError(field, s, "not a date")
}

// CanonicalKey folds an enum value for equality comparisons: lowercase with
// underscores, hyphens and spaces removed, so "BANK_TRANSFER", "bank
// transfer" and "bank_transfer" compare equal.
func CanonicalKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case '_', ' ', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// matchEnum maps a raw enum value onto one of the allowed canonical values.
func matchEnum[T ~string](field, raw string, allowed []T) (T, error) {
	key := CanonicalKey(raw)
	for _, v := range allowed {
		if CanonicalKey(string(v)) == key {
			return v, nil
		}
	}
	var zero T
	if key == "" {
		return zero, newMappingError(field, "", "value is missing")
	}
	return zero, newMappingError(field, raw, "unknown value")
}
