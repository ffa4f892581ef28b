package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Int coerces v to an int64. Numbers and numeric strings are accepted when
// they hold a whole value ("12", 12, 12.0); everything else fails.
func Int(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		return intFromString(n.String())
	case string:
		return intFromString(n)
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		if n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func intFromString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || d.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, false
	}
	return d.IntPart(), true
}

// Decimal coerces v to a decimal. Numbers and numeric strings are accepted;
// NaN, infinities, booleans and everything else fail.
func Decimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		return decimalFromString(n.String())
	case string:
		return decimalFromString(n)
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float32:
		return decimalFromFloat(float64(n))
	case float64:
		return decimalFromFloat(n)
	default:
		return decimal.Decimal{}, false
	}
}

func decimalFromString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func decimalFromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}
