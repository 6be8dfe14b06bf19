package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// numericLiteral converts Go numeric values. Strings are not numeric
// literals.
func numericLiteral(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// ToNumber converts numeric values and numeric strings to float64.
func ToNumber(value any) (float64, bool) {
	if f, ok := numericLiteral(value); ok {
		return f, true
	}
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		return f, err == nil
	case fmt.Stringer:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// literalEqual compares a declared literal with a candidate value. With
// numeric set both sides are compared as numbers, so "2" matches 2.
func literalEqual(literal, value any, numeric bool) bool {
	if numeric {
		want, ok := ToNumber(literal)
		if !ok {
			return false
		}
		got, ok := ToNumber(value)
		return ok && got == want
	}
	if literal == nil || value == nil {
		return literal == nil && value == nil
	}
	return fmt.Sprint(literal) == fmt.Sprint(value)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

// CloneValue deep copies map[string]any and []any trees. Other values are
// returned as is.
func CloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return value
	}
}
