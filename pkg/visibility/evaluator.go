package visibility

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-fieldset/pkg/fields"
)

// Evaluate applies one comparison between the controller's current value and
// the condition's expected value.
//
// Both operands are normalized before loose comparisons: nil becomes the
// empty string, numeric-looking strings become numbers, and booleans become
// 0/1. This keeps a checkbox's 0/1 and a text field's "0" comparing
// consistently.
//
// An unknown operator falls back to loose equality; evaluation never fails.
func Evaluate(actual any, op fields.Operator, expected any) bool {
	switch op {
	case fields.OpEqual:
		return looseEqual(actual, expected)
	case fields.OpNotEqual:
		return !looseEqual(actual, expected)
	case fields.OpStrictEqual:
		return strictEqual(actual, expected)
	case fields.OpStrictNotEqual:
		return !strictEqual(actual, expected)
	case fields.OpGreater:
		return compareNumbers(actual, expected, func(a, b float64) bool { return a > b })
	case fields.OpGreaterOrEqual:
		return compareNumbers(actual, expected, func(a, b float64) bool { return a >= b })
	case fields.OpLess:
		return compareNumbers(actual, expected, func(a, b float64) bool { return a < b })
	case fields.OpLessOrEqual:
		return compareNumbers(actual, expected, func(a, b float64) bool { return a <= b })
	case fields.OpIn:
		return member(actual, expected)
	case fields.OpNotIn:
		return !member(actual, expected)
	case fields.OpContains:
		return strings.Contains(coerceString(actual), coerceString(expected))
	case fields.OpNotContains:
		return !strings.Contains(coerceString(actual), coerceString(expected))
	case fields.OpEmpty:
		return isEmpty(actual)
	case fields.OpNotEmpty:
		return !isEmpty(actual)
	default:
		return looseEqual(actual, expected)
	}
}

// looseEqual compares after normalization: numeric when both operands look
// numeric, string otherwise.
func looseEqual(actual, expected any) bool {
	left := normalizeOperand(actual)
	right := normalizeOperand(expected)

	leftNum, leftOK := left.(float64)
	rightNum, rightOK := right.(float64)
	if leftOK && rightOK {
		return leftNum == rightNum
	}
	return coerceString(left) == coerceString(right)
}

// strictEqual compares without coercion; operands of different dynamic types
// are never strictly equal.
func strictEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if reflect.TypeOf(actual) != reflect.TypeOf(expected) {
		return false
	}
	return reflect.DeepEqual(actual, expected)
}

func compareNumbers(actual, expected any, cmp func(a, b float64) bool) bool {
	left, leftOK := coerceNumber(actual)
	right, rightOK := coerceNumber(expected)
	if !leftOK || !rightOK {
		return false
	}
	return cmp(left, right)
}

// member reports whether actual loose-equals any element of the expected
// set. A scalar expected value is treated as a one-element set; comma
// separated strings split into their parts.
func member(actual, expected any) bool {
	for _, candidate := range coerceList(expected) {
		if looseEqual(actual, candidate) {
			return true
		}
	}
	return false
}

// isEmpty implements the falsy-or-"0" emptiness rule.
func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case bool:
		return !typed
	case string:
		trimmed := strings.TrimSpace(typed)
		return trimmed == "" || trimmed == "0"
	case []any:
		return len(typed) == 0
	case []string:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	default:
		if num, ok := coerceNumber(value); ok {
			return num == 0
		}
		return false
	}
}

func normalizeOperand(value any) any {
	switch typed := value.(type) {
	case nil:
		return ""
	case bool:
		if typed {
			return float64(1)
		}
		return float64(0)
	case string:
		if num, err := strconv.ParseFloat(strings.TrimSpace(typed), 64); err == nil && strings.TrimSpace(typed) != "" {
			return num
		}
		return typed
	default:
		if num, ok := coerceNumber(value); ok {
			return num
		}
		return value
	}
}

func coerceNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case string:
		num, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return num, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []byte:
		return string(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

func coerceList(value any) []any {
	switch typed := value.(type) {
	case nil:
		return nil
	case []any:
		return typed
	case []string:
		out := make([]any, 0, len(typed))
		for _, entry := range typed {
			out = append(out, entry)
		}
		return out
	case []fields.Option:
		out := make([]any, 0, len(typed))
		for _, option := range typed {
			out = append(out, option.Value)
		}
		return out
	case string:
		if strings.Contains(typed, ",") {
			parts := strings.Split(typed, ",")
			out := make([]any, 0, len(parts))
			for _, part := range parts {
				out = append(out, strings.TrimSpace(part))
			}
			return out
		}
		return []any{typed}
	default:
		return []any{value}
	}
}
