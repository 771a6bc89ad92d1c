package sheets

import (
	"math"
	"strconv"
	"strings"
)

func firstTruthy(row map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := row[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case bool:
		return t
	default:
		return true
	}
}

func toString(v interface{}, fallback string) string {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fallback
	}
}

func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		return leadingFloat(t)
	default:
		return 0
	}
}

// toInt truncates to a count in [0, math.MaxInt].
func toInt(v interface{}) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		f = leadingFloat(integerPrefix(t))
	default:
		return 0
	}
	f = math.Trunc(nonNegative(f))
	if f >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(f)
}

func nonNegative(f float64) float64 {
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// leadingFloat parses the longest numeric prefix of s, so "1200 INR" is 1200 and
// "1,200" is 1. Anything without a numeric prefix is 0.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit, seenDot, seenExp := false, false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
			end = i + 1
		case (c == '+' || c == '-') && (i == 0 || s[i-1] == 'e' || s[i-1] == 'E'):
		case c == '.' && !seenDot && !seenExp:
			seenDot = true
			if seenDigit {
				end = i + 1
			}
		case (c == 'e' || c == 'E') && seenDigit && !seenExp:
			seenExp = true
		default:
			i = len(s)
		}
	}
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimRight(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}

func integerPrefix(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".eE"); i >= 0 {
		return s[:i]
	}
	return s
}
