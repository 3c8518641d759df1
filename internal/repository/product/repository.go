package product

import (
	"context"
	"encoding/json"

	"auraz-storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) error
	// Upsert inserts the product or overwrites the row with the same id.
	Upsert(ctx context.Context, p domain.Product) error
	Update(ctx context.Context, id string, updates map[string]json.RawMessage) error
	Delete(ctx context.Context, id string) error
}
