// Package record reads typed fields out of the plain key-value records that
// cross the host boundary. Records come from YAML, TOML or a foreign caller,
// so numbers may arrive as any Go numeric type and matrices as flat or nested
// lists.
package record

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord reports a field of the wrong type or shape.
var ErrInvalidRecord = errors.New("invalid record")

// Record is a string-keyed record.
type Record = map[string]any

// lookup returns the first key present with a non-nil value.
func lookup(r Record, keys []string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

func typeError(key, want string, v any) error {
	return fmt.Errorf("%w: %q: expected %s, got %T", ErrInvalidRecord, key, want, v)
}

// String reads the first present key as a string.
func String(r Record, keys ...string) (string, bool, error) {
	k, v, ok := lookup(r, keys)
	if !ok {
		return "", false, nil
	}
	s, isStr := v.(string)
	if !isStr {
		return "", false, typeError(k, "string", v)
	}
	return s, true, nil
}

// Bool reads the first present key as a bool.
func Bool(r Record, keys ...string) (bool, bool, error) {
	k, v, ok := lookup(r, keys)
	if !ok {
		return false, false, nil
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, false, typeError(k, "bool", v)
	}
	return b, true, nil
}

// Float32 reads the first present key as a number.
func Float32(r Record, keys ...string) (float32, bool, error) {
	k, v, ok := lookup(r, keys)
	if !ok {
		return 0, false, nil
	}
	f, isNum := number(v)
	if !isNum {
		return 0, false, typeError(k, "number", v)
	}
	return float32(f), true, nil
}

// Int reads the first present key as an integral number.
func Int(r Record, keys ...string) (int, bool, error) {
	k, v, ok := lookup(r, keys)
	if !ok {
		return 0, false, nil
	}
	f, isNum := number(v)
	if !isNum || f != float64(int(f)) {
		return 0, false, typeError(k, "integer", v)
	}
	return int(f), true, nil
}

// Strings reads the first present key as a list of strings.
func Strings(r Record, keys ...string) ([]string, bool, error) {
	k, v, ok := lookup(r, keys)
	if !ok {
		return nil, false, nil
	}
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), true, nil
	case []any:
		out := make([]string, len(list))
		for i, item := range list {
			s, isStr := item.(string)
			if !isStr {
				return nil, false, typeError(fmt.Sprintf("%s[%d]", k, i), "string", item)
			}
			out[i] = s
		}
		return out, true, nil
	default:
		return nil, false, typeError(k, "list of strings", v)
	}
}

// Matrix reads the first present key as a 4x4 matrix given either as 16
// numbers or as 4 rows of 4. Element order is preserved as given. A missing
// key returns nil.
func Matrix(r Record, keys ...string) (*[16]float32, error) {
	k, v, ok := lookup(r, keys)
	if !ok {
		return nil, nil
	}
	m, err := ToMatrix(v)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", k, err)
	}
	return m, nil
}

// ToMatrix converts a flat or nested list value into 16 floats.
func ToMatrix(v any) (*[16]float32, error) {
	switch m := v.(type) {
	case [16]float32:
		return &m, nil
	case *[16]float32:
		out := *m
		return &out, nil
	}

	flat, err := Floats(v)
	if err != nil {
		rows, isList := v.([]any)
		if !isList || len(rows) != 4 {
			return nil, err
		}
		flat = make([]float32, 0, 16)
		for _, row := range rows {
			vals, rowErr := Floats(row)
			if rowErr != nil || len(vals) != 4 {
				return nil, fmt.Errorf("%w: matrix rows must hold 4 numbers", ErrInvalidRecord)
			}
			flat = append(flat, vals...)
		}
	}
	if len(flat) != 16 {
		return nil, fmt.Errorf("%w: matrix needs 16 numbers, got %d", ErrInvalidRecord, len(flat))
	}
	var out [16]float32
	copy(out[:], flat)
	return &out, nil
}

// Floats converts a list value of numbers into float32s.
func Floats(v any) ([]float32, error) {
	switch list := v.(type) {
	case []float32:
		return append([]float32(nil), list...), nil
	case []float64:
		out := make([]float32, len(list))
		for i, f := range list {
			out[i] = float32(f)
		}
		return out, nil
	case []any:
		out := make([]float32, len(list))
		for i, item := range list {
			f, isNum := number(item)
			if !isNum {
				return nil, fmt.Errorf("%w: element %d: expected number, got %T", ErrInvalidRecord, i, item)
			}
			out[i] = float32(f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected list of numbers, got %T", ErrInvalidRecord, v)
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
