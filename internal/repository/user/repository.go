package user

import (
	"context"
	"encoding/json"

	"auraz-storefront/internal/domain"
)

// Repository persists and fetches storefront accounts.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, u domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, updates map[string]json.RawMessage) error
	Delete(ctx context.Context, id string) error
}
