// Package changes computes field-level diffs between two versions of a
// record, restricted to a list of dotted field paths.
package changes

import (
	"bytes"
	"encoding/json"
	"math/big"
	"reflect"
	"strconv"
	"strings"
)

// FieldChange is one differing field. A nil OldValue or NewValue stands for
// a value that was missing or null.
type FieldChange struct {
	Field    string `json:"field" bson:"field"`
	OldValue any    `json:"old_value" bson:"old_value"`
	NewValue any    `json:"new_value" bson:"new_value"`
}

// value is a resolved path. defined is false when the path is missing,
// which is distinct from an explicit null.
type value struct {
	v       any
	defined bool
}

func (x value) present() bool { return x.defined && x.v != nil }

// Snapshot converts v into its JSON shape: maps, slices, strings, bools, nil
// and numbers. Integral numbers become int64 so large ids and counters keep
// full precision; other numbers become float64. A nil v, a nil pointer or a
// nil map yields nil, meaning "no record". Values that cannot be encoded
// also yield nil.
func Snapshot(v any) any {
	if isAbsent(v) {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return normalizeNumbers(out)
}

func normalizeNumbers(v any) any {
	switch node := v.(type) {
	case json.Number:
		if i, err := node.Int64(); err == nil {
			return i
		}
		if f, err := node.Float64(); err == nil {
			return f
		}
		return node.String()
	case map[string]any:
		for k, x := range node {
			node[k] = normalizeNumbers(x)
		}
	case []any:
		for i, x := range node {
			node[i] = normalizeNumbers(x)
		}
	}
	return v
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// Detect returns the tracked fields whose values differ between oldObj and
// newObj, in the order of fields. Either object may be nil.
//
// When one side is absent, every tracked field that is defined and non-null
// on the other side is reported against nil. Otherwise a field is reported
// when the two resolved values are not deeply equal; a missing value equals
// another missing value but not null.
func Detect(oldObj, newObj any, fields []string) []FieldChange {
	oldSnap, newSnap := Snapshot(oldObj), Snapshot(newObj)
	oldAbsent, newAbsent := oldSnap == nil, newSnap == nil

	out := []FieldChange{}
	for _, field := range fields {
		before := resolve(oldSnap, field)
		after := resolve(newSnap, field)

		switch {
		case oldAbsent && newAbsent:
			continue
		case oldAbsent:
			if after.present() {
				out = append(out, FieldChange{Field: field, OldValue: nil, NewValue: after.v})
			}
		case newAbsent:
			if before.present() {
				out = append(out, FieldChange{Field: field, OldValue: before.v, NewValue: nil})
			}
		default:
			if !equal(before, after) {
				out = append(out, FieldChange{Field: field, OldValue: before.v, NewValue: after.v})
			}
		}
	}
	return out
}

// Changed reports whether any tracked field differs.
func Changed(oldObj, newObj any, fields []string) bool {
	return len(Detect(oldObj, newObj, fields)) > 0
}

// Get resolves one dotted path against v. The bool is false when the path
// does not exist.
func Get(v any, path string) (any, bool) {
	r := resolve(Snapshot(v), path)
	return r.v, r.defined
}

// resolve walks a dotted path through a snapshot. Missing keys, out of range
// indexes and walking into a scalar all resolve to undefined.
func resolve(snap any, path string) value {
	if snap == nil || path == "" {
		return value{}
	}
	cur := snap
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return value{}
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return value{}
			}
			cur = node[i]
		default:
			return value{}
		}
	}
	return value{v: cur, defined: true}
}

func equal(a, b value) bool {
	if a.defined != b.defined {
		return false
	}
	if !a.defined {
		return true
	}
	return deepEqual(a.v, b.v)
}

// deepEqual compares two snapshot values structurally.
func deepEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok {
			return false
		}
		for k, x := range av {
			y, ok := bv[k]
			if !ok || !deepEqual(x, y) {
				return false
			}
		}
		for k := range bv {
			if _, ok := av[k]; !ok {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !deepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case int64, float64:
		return numberEqual(a, b)
	default:
		return a == b
	}
}

// numberEqual compares int64 and float64 snapshot values exactly.
func numberEqual(a, b any) bool {
	x, ok := toBigFloat(a)
	if !ok {
		return false
	}
	y, ok := toBigFloat(b)
	if !ok {
		return false
	}
	return x.Cmp(y) == 0
}

func toBigFloat(v any) (*big.Float, bool) {
	switch n := v.(type) {
	case int64:
		return new(big.Float).SetInt64(n), true
	case float64:
		return big.NewFloat(n), true
	}
	return nil, false
}
