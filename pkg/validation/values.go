package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Stringify renders a decoded JSON value the way it is compared and
// reported. Strings are returned unchanged, integral numbers carry no
// fraction, and objects and arrays are rendered as compact JSON.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case json.Number:
		return x.String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// quote renders a value for messages, distinguishing nil from empty.
func quote(v any) string {
	if v == nil {
		return "null"
	}
	return "'" + Stringify(v) + "'"
}

// isBlank reports whether a portal value counts as not provided.
func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// Truthy reports whether a decoded JSON value is truthy: nil, false, zero,
// the empty string, and empty arrays and objects are not.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// toInt converts a page count value to an integer. Falsy values count as
// zero, numbers are truncated, and strings must hold a base-10 integer.
func toInt(v any) (int, error) {
	if !Truthy(v) {
		return 0, nil
	}
	switch x := v.(type) {
	case bool:
		return 1, nil
	case float64:
		return int(x), nil
	case float32:
		return int(x), nil
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, err
		}
		return int(f), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, fmt.Errorf("invalid literal for page count: %q", x)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("page count must be a number, got %T", v)
	}
}
