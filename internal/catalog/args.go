package catalog

import (
	"math"

	"github.com/LLNL/bioimage-agent/internal/viewer"
)

// Args is the positional argument list of one command envelope, with typed
// accessors that turn shape mismatches into validation errors naming the
// argument and the expected type.
type Args []any

// Present reports whether position i holds a non-null value.
func (a Args) Present(i int) bool {
	return i < len(a) && a[i] != nil
}

// String decodes a required string argument.
func (a Args) String(i int, name string) (string, error) {
	if !a.Present(i) {
		return "", missingArg(i, name, "string")
	}
	s, ok := a[i].(string)
	if !ok {
		return "", wrongType(i, name, "string", a[i])
	}
	return s, nil
}

// OptionalString decodes a string argument, returning def when absent.
func (a Args) OptionalString(i int, name, def string) (string, error) {
	if !a.Present(i) {
		return def, nil
	}
	return a.String(i, name)
}

// Float decodes a required numeric argument.
func (a Args) Float(i int, name string) (float64, error) {
	if !a.Present(i) {
		return 0, missingArg(i, name, "number")
	}
	f, ok := asFloat(a[i])
	if !ok {
		return 0, wrongType(i, name, "number", a[i])
	}
	return f, nil
}

// OptionalFloat decodes a numeric argument, returning def when absent.
func (a Args) OptionalFloat(i int, name string, def float64) (float64, error) {
	if !a.Present(i) {
		return def, nil
	}
	return a.Float(i, name)
}

// Int decodes a required integer argument; fractional values are rejected.
func (a Args) Int(i int, name string) (int, error) {
	f, err := a.Float(i, name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, Validationf(map[string]any{"argument": name, "position": i, "value": f},
			"argument %q (position %d) must be an integer, got %v", name, i, f)
	}
	return int(f), nil
}

// OptionalInt decodes an integer argument, returning def when absent.
func (a Args) OptionalInt(i int, name string, def int) (int, error) {
	if !a.Present(i) {
		return def, nil
	}
	return a.Int(i, name)
}

// Bool decodes a required boolean argument.
func (a Args) Bool(i int, name string) (bool, error) {
	if !a.Present(i) {
		return false, missingArg(i, name, "boolean")
	}
	b, ok := a[i].(bool)
	if !ok {
		return false, wrongType(i, name, "boolean", a[i])
	}
	return b, nil
}

// OptionalBool decodes a boolean argument, returning def when absent.
func (a Args) OptionalBool(i int, name string, def bool) (bool, error) {
	if !a.Present(i) {
		return def, nil
	}
	return a.Bool(i, name)
}

// Floats decodes a required list of numbers.
func (a Args) Floats(i int, name string) ([]float64, error) {
	if !a.Present(i) {
		return nil, missingArg(i, name, "number list")
	}
	return floatsFrom(a[i], i, name)
}

// OptionalFloats decodes a list of numbers, returning nil when absent.
func (a Args) OptionalFloats(i int, name string) ([]float64, error) {
	if !a.Present(i) {
		return nil, nil
	}
	return floatsFrom(a[i], i, name)
}

// FloatMatrix decodes a required list of number lists (point sets, vertex
// lists, label rasters).
func (a Args) FloatMatrix(i int, name string) ([][]float64, error) {
	if !a.Present(i) {
		return nil, missingArg(i, name, "list of number lists")
	}
	rows, ok := a[i].([]any)
	if !ok {
		return nil, wrongType(i, name, "list of number lists", a[i])
	}
	matrix := make([][]float64, len(rows))
	for r, row := range rows {
		vals, err := floatsFrom(row, i, name)
		if err != nil {
			return nil, err
		}
		matrix[r] = vals
	}
	return matrix, nil
}

// Strings decodes a list of strings, returning nil when absent.
func (a Args) Strings(i int, name string) ([]string, error) {
	if !a.Present(i) {
		return nil, nil
	}
	items, ok := a[i].([]any)
	if !ok {
		return nil, wrongType(i, name, "string list", a[i])
	}
	out := make([]string, len(items))
	for j, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, wrongType(i, name, "string list", item)
		}
		out[j] = s
	}
	return out, nil
}

// LayerRef decodes a layer reference: a string resolves by name, a number
// by index, and null or a missing argument means the active layer.
func (a Args) LayerRef(i int) (viewer.LayerRef, error) {
	if !a.Present(i) {
		return viewer.RefActive(), nil
	}
	switch v := a[i].(type) {
	case string:
		return viewer.RefByName(v), nil
	default:
		if f, ok := asFloat(v); ok && f == math.Trunc(f) {
			return viewer.RefByIndex(int(f)), nil
		}
	}
	return viewer.LayerRef{}, Validationf(map[string]any{"position": i, "value": a[i]},
		"layer reference (position %d) must be a name or an integer index", i)
}

// Value returns the raw decoded JSON value at position i.
func (a Args) Value(i int) (any, bool) {
	if i >= len(a) {
		return nil, false
	}
	return a[i], true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func floatsFrom(v any, i int, name string) ([]float64, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, wrongType(i, name, "number list", v)
	}
	out := make([]float64, len(items))
	for j, item := range items {
		f, ok := asFloat(item)
		if !ok {
			return nil, wrongType(i, name, "number list", item)
		}
		out[j] = f
	}
	return out, nil
}

func missingArg(i int, name, typ string) *Error {
	return Validationf(map[string]any{"argument": name, "position": i, "expected": typ},
		"missing argument %q (position %d, expected %s)", name, i, typ)
}

func wrongType(i int, name, typ string, got any) *Error {
	return Validationf(map[string]any{"argument": name, "position": i, "expected": typ, "value": got},
		"argument %q (position %d) must be a %s", name, i, typ)
}
