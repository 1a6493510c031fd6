// Package numeric coerces loosely-typed upstream payload values into numbers.
//
// Upstream price APIs disagree on how they encode a number: some send a JSON
// number, some a numeric string (optionally with thousands separators), some
// send null. Float and Int collapse all of these into a single optional value
// and never fail loudly; an unusable input is reported as absent.
//
// Rounding is half away from zero everywhere (math.Round), so
// Int("2.5") == 3 and Int("-2.5") == -3.
package numeric

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const thousandsSeparator = ","

// Float coerces v into a finite float64.
// The boolean is false when v is nil, unparsable or not finite
func Float(v any) (float64, bool) {
	var f float64

	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		return parseString(x.String())
	case string:
		return parseString(x)
	case *string:
		if x == nil {
			return 0, false
		}

		return parseString(*x)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// Int coerces v into an int64, rounding half away from zero
func Int(v any) (int64, bool) {
	f, ok := Float(v)
	if !ok {
		return 0, false
	}

	r := math.Round(f)
	if r > math.MaxInt64 || r < math.MinInt64 {
		return 0, false
	}

	return int64(r), true
}

// Round rounds v to the given number of decimal places, half away from zero
func Round(v float64, places int) float64 {
	p := math.Pow10(places)

	return math.Round(v*p) / p
}

func parseString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, thousandsSeparator, "")

	if s == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}
