// Package repository holds helpers shared by the pgx repositories.
package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"auraz-storefront/internal/domain"
)

// Kind selects how a patched JSON value is decoded before it is bound.
type Kind int

const (
	Text Kind = iota
	Number
	Int
	Bool
	Timestamp
	JSONB
)

// Column maps an API field onto a table column.
type Column struct {
	Name string
	Kind Kind
}

// Columns is the allow-list of patchable fields of one table, keyed by API field name.
type Columns map[string]Column

// BuildUpdate renders a parameterised UPDATE for the given partial fields. Fields
// are applied in name order so the statement is stable. Unknown fields fail with
// domain.ErrUnknownField. An empty patch renders a no-op update that still
// reports whether the row exists.
func BuildUpdate(table string, columns Columns, id string, updates map[string]json.RawMessage) (string, []any, error) {
	fields := make([]string, 0, len(updates))
	for field := range updates {
		if _, ok := columns[field]; !ok {
			return "", nil, fmt.Errorf("%w: %s", domain.ErrUnknownField, field)
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, field := range fields {
		col := columns[field]
		value, err := decode(col.Kind, updates[field])
		if err != nil {
			return "", nil, fmt.Errorf("%w: field %s: %v", domain.ErrInvalidInput, field, err)
		}
		args = append(args, value)
		placeholder := "$" + strconv.Itoa(len(args))
		if col.Kind == JSONB {
			placeholder += "::jsonb"
		}
		sets = append(sets, quote(col.Name)+" = "+placeholder)
	}
	if len(sets) == 0 {
		sets = append(sets, "id = id")
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(sets, ", "), len(args))
	return q, args, nil
}

func decode(kind Kind, raw json.RawMessage) (any, error) {
	if isNull(raw) {
		if kind == JSONB {
			return nil, fmt.Errorf("null is not allowed")
		}
		return nil, nil
	}
	switch kind {
	case Text:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	case Number:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return f, nil
	case Int:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return int64(f), nil
	case Bool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, err
		}
		return b, nil
	case Timestamp:
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		return t, nil
	case JSONB:
		if !json.Valid(raw) {
			return nil, fmt.Errorf("invalid json")
		}
		return string(raw), nil
	}
	return nil, fmt.Errorf("unsupported kind %d", kind)
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// quote guards reserved words such as "order".
func quote(name string) string {
	return `"` + name + `"`
}
