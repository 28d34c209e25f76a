package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "plain date", text: "01.01.2023", want: true},
		{name: "end of month", text: "31.12.2023", want: true},
		{name: "leap day", text: "29.02.2024", want: true},
		{name: "day 32", text: "32.01.2023", want: false},
		{name: "february 30", text: "30.02.2023", want: false},
		{name: "february 29 outside leap year", text: "29.02.2023", want: false},
		{name: "month 13", text: "01.13.2023", want: false},
		{name: "single digit day", text: "1.01.2023", want: false},
		{name: "two digit year", text: "01.01.23", want: false},
		{name: "iso layout", text: "2023-01-01", want: false},
		{name: "leading space", text: " 01.01.2023", want: false},
		{name: "trailing text", text: "01.01.2023x", want: false},
		{name: "empty", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDate(tt.text))
		})
	}
}

func TestParseDate(t *testing.T) {
	day, ok := ParseDate("15.03.2024")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), day)

	_, ok = ParseDate("00.03.2024")
	assert.False(t, ok)
}

func TestIsNonNegativeInteger(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"0", true},
		{"10", true},
		{"00123", true},
		{"", false},
		{"-1", false},
		{"+1", false},
		{" 1", false},
		{"1 ", false},
		{"1.0", false},
		{"١٢", false}, // non-ASCII digits
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNonNegativeInteger(tt.text))
		})
	}
}

func TestParseNonNegativeInt(t *testing.T) {
	n, ok := ParseNonNegativeInt("123")
	assert.True(t, ok)
	assert.Equal(t, int64(123), n)

	n, ok = ParseNonNegativeInt("9223372036854775807")
	assert.True(t, ok)
	assert.Equal(t, int64(9223372036854775807), n)

	_, ok = ParseNonNegativeInt("9223372036854775808")
	assert.False(t, ok)

	n, ok = ParseNonNegativeInt("000042")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = ParseNonNegativeInt("12a")
	assert.False(t, ok)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{name: "point separator", text: "100.50", want: 100.5, wantOK: true},
		{name: "comma separator", text: "100,50", want: 100.5, wantOK: true},
		{name: "integer", text: "42", want: 42, wantOK: true},
		{name: "negative", text: "-3,25", want: -3.25, wantOK: true},
		{name: "empty", text: "", wantOK: false},
		{name: "two separators", text: "1,000.50", wantOK: false},
		{name: "letters", text: "abc", wantOK: false},
		{name: "exponent", text: "1e3", wantOK: false},
		{name: "beyond float64 range", text: strings.Repeat("9", 400), wantOK: false},
		{name: "beyond float64 range negative", text: "-" + strings.Repeat("9", 400), wantOK: false},
		{name: "infinity literal", text: "+Inf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDecimal(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseCost(t *testing.T) {
	cost, ok := ParseCost("0,99")
	assert.True(t, ok)
	assert.Equal(t, 0.99, cost)

	_, ok = ParseCost("-1.00")
	assert.False(t, ok)

	_, ok = ParseCost(strings.Repeat("9", 400) + ",50")
	assert.False(t, ok)
}
