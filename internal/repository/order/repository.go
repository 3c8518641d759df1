package order

import (
	"context"
	"encoding/json"

	"auraz-storefront/internal/domain"
)

// Repository persists orders. List embeds the ordering user's id, name and email.
type Repository interface {
	List(ctx context.Context) ([]domain.Order, error)
	Create(ctx context.Context, o domain.Order) error
	Update(ctx context.Context, id string, updates map[string]json.RawMessage) error
	Delete(ctx context.Context, id string) error
}
