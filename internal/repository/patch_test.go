package repository

import (
	"encoding/json"
	"errors"
	"testing"

	"auraz-storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = Columns{
	"name":         {Name: "name", Kind: Text},
	"price":        {Name: "price", Kind: Number},
	"stock":        {Name: "stock", Kind: Int},
	"trending":     {Name: "trending", Kind: Bool},
	"variants":     {Name: "variants", Kind: JSONB},
	"originalName": {Name: "original_name", Kind: Text},
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestBuildUpdateOrdersFieldsAndCastsJSON(t *testing.T) {
	q, args, err := BuildUpdate("products", testColumns, "p1", map[string]json.RawMessage{
		"variants": raw(`[{"name":"Size","options":["M"]}]`),
		"price":    raw(`12.5`),
		"name":     raw(`"Mug"`),
		"stock":    raw(`7`),
	})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE products SET "name" = $1, "price" = $2, "stock" = $3, "variants" = $4::jsonb WHERE id = $5`, q)
	assert.Equal(t, []any{"Mug", 12.5, int64(7), `[{"name":"Size","options":["M"]}]`, "p1"}, args)
}

func TestBuildUpdateUnknownField(t *testing.T) {
	_, _, err := BuildUpdate("products", testColumns, "p1", map[string]json.RawMessage{
		"id": raw(`"other"`),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownField))
}

func TestBuildUpdateEmptyPatch(t *testing.T) {
	q, args, err := BuildUpdate("users", testColumns, "u1", nil)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE users SET id = id WHERE id = $1`, q)
	assert.Equal(t, []any{"u1"}, args)
}

func TestBuildUpdateNullClearsScalar(t *testing.T) {
	q, args, err := BuildUpdate("products", testColumns, "p1", map[string]json.RawMessage{
		"originalName": raw(`null`),
	})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE products SET "original_name" = $1 WHERE id = $2`, q)
	assert.Nil(t, args[0])
}

func TestBuildUpdateRejectsWrongType(t *testing.T) {
	_, _, err := BuildUpdate("products", testColumns, "p1", map[string]json.RawMessage{
		"trending": raw(`"yes"`),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
