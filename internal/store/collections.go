package store

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// mapWhere returns a copy of items with fn applied to every element matching
// match, and whether anything matched.
func mapWhere[T any](items []T, match func(T) bool, fn func(T) (T, error)) ([]T, bool, error) {
	out := make([]T, len(items))
	found := false
	for i, item := range items {
		if match(item) {
			updated, err := fn(item)
			if err != nil {
				return nil, false, err
			}
			out[i] = updated
			found = true
			continue
		}
		out[i] = item
	}
	return out, found, nil
}

// without returns a copy of items minus every element matching match.
func without[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !match(item) {
			out = append(out, item)
		}
	}
	return out
}

func appended[T any](items []T, v T) []T {
	return slices.Concat(items, []T{v})
}

func prepended[T any](items []T, v T) []T {
	return slices.Concat([]T{v}, items)
}

func find[T any](items []T, match func(T) bool) (T, bool) {
	i := slices.IndexFunc(items, match)
	if i < 0 {
		var zero T
		return zero, false
	}
	return items[i], true
}

// merge overlays updates onto v through its JSON form, the way a partial
// update body is applied. Keys that v does not know are dropped.
func merge[T any](v T, updates map[string]any) (T, error) {
	if len(updates) == 0 {
		return v, nil
	}
	base, err := json.Marshal(v)
	if err != nil {
		return v, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return v, err
	}
	for key, value := range updates {
		raw, err := json.Marshal(value)
		if err != nil {
			return v, fmt.Errorf("field %s: %w", key, err)
		}
		fields[key] = raw
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return v, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return v, fmt.Errorf("apply updates: %w", err)
	}
	return out, nil
}

func taka(v float64) string {
	return "৳" + strconv.FormatFloat(v, 'f', -1, 64)
}
