package slicer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)

// Cast converts a raw option string to its natural type: booleans, nil for
// empty/none, float64 for decimals, int64 for integers, otherwise the trimmed
// string.
func Cast(value string) any {
	v := strings.TrimSpace(value)

	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	case "", "none":
		return nil
	}

	if decimalPattern.MatchString(v) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}

	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}

	return v
}

// PercentToRatio converts a percentage string to a ratio ("75%" -> 0.75).
func PercentToRatio(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if !strings.HasSuffix(v, "%") {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil {
		return 0, false
	}
	return f / 100, true
}

// RatioToPercent converts a ratio to a percentage string (0.75 -> "75%").
func RatioToPercent(value float64) string {
	return strconv.Itoa(int(value*100)) + "%"
}

// PercentRatioEqual compares a percent value with a ratio value, so that
// "75%" matches 0.75 regardless of which side carries the percent sign.
func PercentRatioEqual(a, b any) bool {
	af, aok := asRatio(a)
	bf, bok := asRatio(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func asRatio(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		if r, ok := PercentToRatio(n); ok {
			return r, true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// NormalizeNumber converts a numeric value to int64 when that loses nothing,
// otherwise float64. Non-numeric values come back unchanged.
func NormalizeNumber(value any) any {
	switch n := value.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		if n == float64(int64(n)) {
			return int64(n)
		}
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return value
		}
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	}
	return value
}

// InvertNumber negates a numeric value. Some slicers express the same setting
// with opposite sign, e.g. elephant foot compensation vs. first layer
// horizontal expansion.
func InvertNumber(value any) any {
	switch n := NormalizeNumber(value).(type) {
	case int64:
		return -n
	case float64:
		return -n
	}
	return value
}

// FormatValue renders an option value the way it would appear in gcode.
func FormatValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
