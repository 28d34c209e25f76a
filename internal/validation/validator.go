// =============================================================================
// Stock Movement Converter - Field Validators
// =============================================================================
//
// This module provides the field-level checks used by the line decoder. Every
// function here is pure: it inspects one raw string field and reports whether
// it is acceptable, optionally returning the converted value.
//
// SUPPORTED FIELD TYPES:
//   - date     : day.month.year (02.01.2006), calendar aware
//   - integer  : non-negative, ASCII digits only, no sign, no spaces
//   - decimal  : "," or "." as the fractional separator
//
// =============================================================================

package validation

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only accepted date layout for movement records.
const DateLayout = "02.01.2006"

// =============================================================================
// DATE VALIDATION
// =============================================================================

// ValidateDate reports whether text is a real calendar date in DateLayout.
//
// Day and month must be two digits, the year four digits. Impossible dates
// such as 32.01.2023 or 30.02.2023 are rejected.
func ValidateDate(text string) bool {
	_, ok := ParseDate(text)
	return ok
}

// ParseDate parses text as a DateLayout date.
//
// RETURNS:
//   - The calendar date at midnight UTC.
//   - false if text is not a valid date.
func ParseDate(text string) (time.Time, bool) {
	// time.Parse enforces fixed widths for "02" and "01" and checks the
	// day against the month length.
	day, err := time.Parse(DateLayout, text)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// =============================================================================
// INTEGER VALIDATION
// =============================================================================

// IsNonNegativeInteger reports whether text is a non-empty run of ASCII digits.
func IsNonNegativeInteger(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}

// ParseNonNegativeInt converts text to an int64.
//
// It fails on anything IsNonNegativeInteger rejects and on values that do not
// fit into an int64.
func ParseNonNegativeInt(text string) (int64, bool) {
	if !IsNonNegativeInteger(text) {
		return 0, false
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// =============================================================================
// DECIMAL VALIDATION
// =============================================================================

// ParseDecimal parses a decimal number whose fractional separator may be
// either "," or ".".
//
// PARAMETERS:
//   - text: The raw field value, e.g. "100,50" or "100.50".
//
// RETURNS:
//   - The value as float64.
//   - false if the text is empty, not a number after normalization, or
//     outside the float64 range.
func ParseDecimal(text string) (float64, bool) {
	d, ok := parseExact(text)
	if !ok {
		return 0, false
	}
	return toFloat(d)
}

// ParseCost is ParseDecimal restricted to non-negative values.
func ParseCost(text string) (float64, bool) {
	d, ok := parseExact(text)
	if !ok || d.IsNegative() {
		return 0, false
	}
	return toFloat(d)
}

// toFloat rejects values that only fit float64 as an infinity.
func toFloat(d decimal.Decimal) (float64, bool) {
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseExact normalizes the separator and parses the value without going
// through binary floating point.
func parseExact(text string) (decimal.Decimal, bool) {
	if text == "" {
		return decimal.Decimal{}, false
	}

	normalized := strings.ReplaceAll(text, ",", ".")

	// decimal accepts exponents ("1e3"); movement files never carry them.
	if strings.ContainsAny(normalized, "eE") {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
