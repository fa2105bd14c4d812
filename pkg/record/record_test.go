package record

import (
	"errors"
	"testing"
)

func TestScalars(t *testing.T) {
	r := Record{
		"name":   "Cube",
		"flag":   true,
		"yaml":   3.5,
		"toml":   int64(7),
		"nil":    nil,
		"wrong":  42,
		"counts": 3,
	}

	if s, ok, err := String(r, "missing", "name"); err != nil || !ok || s != "Cube" {
		t.Errorf("String fallback key: got %q, %v, %v", s, ok, err)
	}
	if _, ok, err := String(r, "nil"); ok || err != nil {
		t.Errorf("nil value should read as absent, got ok=%v err=%v", ok, err)
	}
	if _, _, err := String(r, "wrong"); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
	if b, ok, err := Bool(r, "flag"); err != nil || !ok || !b {
		t.Errorf("Bool: got %v, %v, %v", b, ok, err)
	}
	if _, _, err := Bool(r, "name"); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
	if f, _, err := Float32(r, "yaml"); err != nil || f != 3.5 {
		t.Errorf("Float32 float64: got %v, %v", f, err)
	}
	if f, _, err := Float32(r, "toml"); err != nil || f != 7 {
		t.Errorf("Float32 int64: got %v, %v", f, err)
	}
	if n, _, err := Int(r, "counts"); err != nil || n != 3 {
		t.Errorf("Int: got %v, %v", n, err)
	}
	if _, _, err := Int(r, "yaml"); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("fractional Int: expected ErrInvalidRecord, got %v", err)
	}
}

func TestMatrix(t *testing.T) {
	flat := []any{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 5.5, 0, 0, 1}
	nested := []any{
		[]any{1, 0, 0, 0},
		[]any{0, 1, 0, 0},
		[]any{0, 0, 1, 0},
		[]any{5.5, 0, 0, 1},
	}

	for name, v := range map[string]any{"flat": flat, "nested": nested} {
		m, err := Matrix(Record{"m": v}, "m")
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if m[0] != 1 || m[12] != 5.5 || m[15] != 1 {
			t.Errorf("%s: got %v", name, *m)
		}
	}

	if m, err := Matrix(Record{}, "m"); m != nil || err != nil {
		t.Errorf("missing matrix should be nil, nil; got %v, %v", m, err)
	}

	bad := []any{
		[]any{1, 2, 3},
		[]any{[]any{1, 2, 3, 4}},
		"identity",
		[]any{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, "x"},
	}
	for i, v := range bad {
		if _, err := Matrix(Record{"m": v}, "m"); !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("bad matrix %d: expected ErrInvalidRecord, got %v", i, err)
		}
	}
}

func TestStrings(t *testing.T) {
	got, ok, err := Strings(Record{"cols": []any{"A", "B"}}, "cols")
	if err != nil || !ok || len(got) != 2 || got[1] != "B" {
		t.Errorf("Strings: got %v, %v, %v", got, ok, err)
	}
	if _, _, err := Strings(Record{"cols": []any{"A", 1}}, "cols"); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}
