package httpserver

import (
	"context"
	"encoding/json"

	"auraz-storefront/internal/domain"
	authsvc "auraz-storefront/internal/service/auth"
)

// Deps carries the services the handlers call.
type Deps struct {
	AuthSvc     AuthService
	UserSvc     UserService
	ProductSvc  ProductService
	OrderSvc    OrderService
	SyncSvc     SyncService
	CORSOrigins []string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*authsvc.Session, error)
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, error)
	Lookup(ctx context.Context, token string) (*authsvc.Session, error)
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, u domain.User) error
	Update(ctx context.Context, id string, updates map[string]json.RawMessage) error
	Delete(ctx context.Context, id string) error
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, updates map[string]json.RawMessage) error
	Delete(ctx context.Context, id string) error
}

type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	Update(ctx context.Context, id string, updates map[string]json.RawMessage) error
	Delete(ctx context.Context, id string) error
}

type SyncService interface {
	LastSync() int64
	Updates(ctx context.Context, sinceMillis int64) (domain.SyncStatus, error)
}
