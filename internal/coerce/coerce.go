// Package coerce normalizes the loosely typed values that flow between
// components and arrive from configuration (YAML numbers, HCL numbers,
// plain Go ints) into the concrete types component code works with.
package coerce

import "fmt"

// Int accepts the integer shapes produced by YAML, HCL translation and
// plain Go code.
func Int(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
		return 0, fmt.Errorf("expected an integer, got %v", n)
	case float32:
		if n == float32(int(n)) {
			return int(n), nil
		}
		return 0, fmt.Errorf("expected an integer, got %v", n)
	default:
		return 0, fmt.Errorf("expected an integer, got %T", v)
	}
}

// Float accepts any numeric shape.
func Float(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}

// String requires a string value.
func String(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", v)
	}
	return s, nil
}

// Bool requires a boolean value.
func Bool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected a boolean, got %T", v)
	}
	return b, nil
}

// Strings converts a []any (the shape YAML and HCL lists decode to)
// into a []string.
func Strings(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, err := String(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", v)
	}
}
